package srv

import (
	"github.com/li20034/mono-sense-hat/internal/srv/config"
	"github.com/li20034/mono-sense-hat/internal/srv/device"
	"github.com/li20034/mono-sense-hat/internal/version"
	"github.com/sirupsen/logrus"
)

// ServerApp owns the LED matrix. Every display access happens on the event
// loop goroutine, or on the scroll goroutine while the loop waits for it.
type ServerApp struct {
	*config.ServerConfig
	matrixDevice *device.Matrix
	apiDevice    *device.Api

	scroll *scrollJob

	eventLoopAskDone chan bool
	eventLoopDone    chan bool
}

func NewServerApp(configDir string, debugMode bool, simulationMode bool) (*ServerApp, error) {

	logrus.Debugf("Creation of sensehat server %s ...", version.AppVersion.String())

	serverConfig, err := config.NewServerConfig(configDir, debugMode, simulationMode)
	if err != nil {
		return nil, err
	}

	app := &ServerApp{
		ServerConfig:     serverConfig,
		eventLoopAskDone: make(chan bool),
		eventLoopDone:    make(chan bool),
	}

	app.matrixDevice = device.NewMatrix(app.ServerConfig)
	app.apiDevice = device.NewApi(app.ServerConfig)

	logrus.Debugln("Server created")

	return app, nil
}

func (s *ServerApp) Start() error {
	logrus.Printf("Starting sensehat server ...")

	logrus.Printf("Starting devices ...")

	// Start matrix device
	if err := s.matrixDevice.Start(); err != nil {
		return err
	}

	// Start event loop
	go s.eventLoop()

	// Start api device
	if s.ApiParam.Enabled {
		if err := s.apiDevice.Start(); err != nil {
			s.stopLoop()
			s.matrixDevice.Stop()
			return err
		}
	}

	return nil
}

func (s *ServerApp) Stop() {
	logrus.Printf("Stopping sensehat server ...")

	// Stop api
	if s.ApiParam.Enabled {
		s.apiDevice.StopSendingEvent()
	}

	// Stop event loop
	s.stopLoop()

	// Stop matrix device
	s.matrixDevice.Stop()

	// Flush config backup
	if err := s.ServerConfig.ServerState.FlushSave(); err != nil {
		logrus.Errorf("%v", err)
	}

	logrus.Printf("Server stopped")
}

func (s *ServerApp) stopLoop() {
	logrus.Infof("Stop event loop")
	s.eventLoopAskDone <- true
	<-s.eventLoopDone
}
