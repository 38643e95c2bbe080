package srv

import (
	"context"

	"github.com/li20034/mono-sense-hat/internal/srv/device"
	"github.com/sirupsen/logrus"
)

// Oneshot runs action on the matrix without the event loop nor the api,
// then clears the matrix.
func (s *ServerApp) Oneshot(ctx context.Context, action func(ctx context.Context, m *device.Matrix) error) error {
	if err := s.matrixDevice.Start(); err != nil {
		return err
	}
	defer s.matrixDevice.Stop()

	err := action(ctx, s.matrixDevice)
	if flushErr := s.ServerConfig.ServerState.FlushSave(); flushErr != nil {
		logrus.Errorf("%v", flushErr)
	}
	return err
}
