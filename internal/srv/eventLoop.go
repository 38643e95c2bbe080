package srv

import (
	"github.com/li20034/mono-sense-hat/internal/led"
	"github.com/li20034/mono-sense-hat/internal/srv/event"
	"github.com/sirupsen/logrus"
)

func (s *ServerApp) eventLoop() {
	for loop := true; loop; {
		select {
		case ev := <-s.apiDevice.EventChannel():
			logrus.Debugf("Receive api event %T", ev.Data)
			ev.Result <- s.handleApiEvent(ev.Data)
		case <-s.eventLoopAskDone:
			loop = false
		}
	}
	s.stopScroll()
	s.eventLoopDone <- true
}

func (s *ServerApp) handleApiEvent(data interface{}) error {
	display := s.matrixDevice.Display()

	// Reads
	switch data := data.(type) {
	case event.ApiEventStateData:
		*data.State = event.State{
			Rotation:  display.Rotation(),
			HasGamma:  s.matrixDevice.HasGamma(),
			Scrolling: s.scrolling(),
		}
		if data.State.HasGamma {
			lowLight, err := display.LowLight()
			if err != nil {
				return err
			}
			data.State.LowLight = lowLight
		}
		return nil
	case event.ApiEventPixelsGetData:
		if s.scrolling() {
			if data.Role == led.Back {
				return event.ErrScrolling
			}
			*data.Pixels = s.matrixDevice.Front()
			return nil
		}
		pixels, err := display.GetAllRaw(data.Role)
		if err != nil {
			return err
		}
		*data.Pixels = pixels
		return nil
	case event.ApiEventSnapshotData:
		if s.scrolling() {
			if data.Role == led.Back {
				return event.ErrScrolling
			}
			front := s.matrixDevice.Front()
			b := led.NewBuffer()
			if err := b.WriteAll(front[:]); err != nil {
				return err
			}
			*data.Snapshot = b
			return nil
		}
		b, err := display.Snapshot(data.Role)
		if err != nil {
			return err
		}
		*data.Snapshot = b
		return nil
	case event.ApiEventGammaGetData:
		table, err := display.Gamma()
		if err != nil {
			return err
		}
		*data.Gamma = table
		return nil
	}

	// Anything else changes the matrix and supersedes a running scroll
	s.stopScroll()

	switch data := data.(type) {
	case event.ApiEventPixelsSetData:
		if err := display.SetAllRaw(data.Pixels); err != nil {
			return err
		}
		return display.Present()
	case event.ApiEventPixelSetData:
		if err := display.SetPixel16(data.X, data.Y, data.Color); err != nil {
			return err
		}
		return display.Present()
	case event.ApiEventFillData:
		if err := display.Fill(data.Color); err != nil {
			return err
		}
		return display.Present()
	case event.ApiEventClearData:
		return display.Clear(true)
	case event.ApiEventLetterData:
		if err := s.matrixDevice.Text().DrawLetter(data.Letter, data.Color); err != nil {
			return err
		}
		return display.Present()
	case event.ApiEventMessageData:
		s.startScroll(data.Text, data.Color, data.Delay)
		return nil
	case event.ApiEventMessageStopData:
		return nil
	case event.ApiEventRotationData:
		if err := display.SetRotation(data.Rotation, true); err != nil {
			return err
		}
		s.SetRotation(data.Rotation)
		return nil
	case event.ApiEventLowLightData:
		if err := display.SetLowLight(data.On); err != nil {
			return err
		}
		s.SetLowLight(data.On)
		return nil
	case event.ApiEventGammaSetData:
		return display.SetGamma(data.Gamma)
	case event.ApiEventGammaResetData:
		if err := display.ResetGamma(); err != nil {
			return err
		}
		s.SetLowLight(false)
		return nil
	case event.ApiEventImageData:
		if err := display.DrawImage(data.Image); err != nil {
			return err
		}
		return display.Present()
	}

	logrus.Warnf("Unhandled api event %T", data)
	return nil
}
