package config

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/li20034/mono-sense-hat/internal/led"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const stateSaveDelay = 10 * time.Second

// ServerState holds the settings changed at runtime. Writes are batched: the
// file is saved stateSaveDelay after the last change, or on FlushSave.
type ServerState struct {
	serverStateConfig     ServerStateConfig
	lock                  sync.RWMutex
	backupTimer           *time.Timer
	completeStateFilename string
}

func NewServerState(completeStateFilename string) (*ServerState, error) {
	serverState := &ServerState{
		completeStateFilename: completeStateFilename,
	}

	rawConfig, err := os.ReadFile(completeStateFilename)
	if err == nil {
		// Interpret state file
		if err = yaml.Unmarshal(rawConfig, &serverState.serverStateConfig); err != nil {
			return nil, fmt.Errorf("unable to interpret state file: %w", err)
		}
	} else {
		// Create default state file
		logrus.Infof("Create default state file")
		serverState.SetRotation(led.Rotate0)
		serverState.SetLowLight(false)
	}

	return serverState, nil
}

func (ss *ServerState) Rotation() led.Orientation {
	ss.lock.RLock()
	defer ss.lock.RUnlock()

	return ss.serverStateConfig.Rotation
}

func (ss *ServerState) SetRotation(rotation led.Orientation) {
	ss.lock.Lock()
	defer ss.lock.Unlock()

	ss.serverStateConfig.Rotation = rotation
	ss.scheduleSave()
}

func (ss *ServerState) LowLight() bool {
	ss.lock.RLock()
	defer ss.lock.RUnlock()

	return ss.serverStateConfig.LowLight
}

func (ss *ServerState) SetLowLight(lowLight bool) {
	ss.lock.Lock()
	defer ss.lock.Unlock()

	ss.serverStateConfig.LowLight = lowLight
	ss.scheduleSave()
}

func (ss *ServerState) scheduleSave() {
	if ss.backupTimer == nil {
		ss.backupTimer = time.AfterFunc(stateSaveDelay, func() {
			ss.lock.Lock()
			defer ss.lock.Unlock()
			if err := ss.save(); err != nil {
				logrus.Errorf("%v", err)
			}
		})
	} else {
		ss.backupTimer.Reset(stateSaveDelay)
	}
}

func (ss *ServerState) save() error {
	logrus.Infof("Save state file: %s", ss.completeStateFilename)
	rawConfig, err := yaml.Marshal(&ss.serverStateConfig)
	if err != nil {
		return fmt.Errorf("unable to serialize state file: %w", err)
	}
	if err = os.WriteFile(ss.completeStateFilename, rawConfig, 0660); err != nil {
		return fmt.Errorf("unable to save state file: %w", err)
	}
	return nil
}

// FlushSave writes a pending change immediately.
func (ss *ServerState) FlushSave() error {
	ss.lock.Lock()
	defer ss.lock.Unlock()
	if ss.backupTimer != nil && ss.backupTimer.Stop() {
		return ss.save()
	}
	return nil
}

type ServerStateConfig struct {
	Rotation led.Orientation `yaml:"rotation"`
	LowLight bool            `yaml:"low_light"`
}
