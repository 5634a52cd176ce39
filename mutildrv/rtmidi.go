package mutildrv

import (
	"github.com/pkg/errors"
	"gitlab.com/gomidi/rtmididrv"
	"go.uber.org/zap"
)

// NewRtMidi opens the rtmidi driver.
func NewRtMidi(log *zap.Logger) (*GoMIDI, error) {
	drv, err := rtmididrv.New()
	if err != nil {
		return nil, errors.Wrap(err, "can't initialize rtmidi")
	}
	return NewGoMIDI("rtmidi", drv, log), nil
}
