package srv

import (
	"context"
	"errors"
	"time"

	"github.com/li20034/mono-sense-hat/internal/led"
	"github.com/sirupsen/logrus"
)

// scrollJob is a message scrolling on its own goroutine. While it runs,
// that goroutine is the only user of the display.
type scrollJob struct {
	cancel context.CancelFunc
	done   chan struct{}
}

func (j *scrollJob) running() bool {
	select {
	case <-j.done:
		return false
	default:
		return true
	}
}

func (s *ServerApp) startScroll(text string, c led.Color16, delay time.Duration) {
	ctx, cancel := context.WithCancel(context.Background())
	job := &scrollJob{cancel: cancel, done: make(chan struct{})}
	s.scroll = job

	go func() {
		defer close(job.done)
		defer cancel()
		logrus.Debugf("Scroll %q", text)
		err := s.matrixDevice.Text().ScrollMessage(ctx, text, c, delay)
		switch {
		case errors.Is(err, context.Canceled):
			logrus.Debugf("Scroll %q interrupted", text)
		case err != nil:
			logrus.Warnf("Scroll %q failed: %v", text, err)
		}
	}()
}

// stopScroll cancels the running scroll and waits until its goroutine has
// left the display.
func (s *ServerApp) stopScroll() {
	if s.scroll == nil {
		return
	}
	s.scroll.cancel()
	<-s.scroll.done
	s.scroll = nil
}

func (s *ServerApp) scrolling() bool {
	return s.scroll != nil && s.scroll.running()
}
