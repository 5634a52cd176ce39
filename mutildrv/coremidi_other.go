//go:build !darwin
// +build !darwin

package mutildrv

import (
	"runtime"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// NewCoreMIDI fails: CoreMIDI is only available on macOS.
func NewCoreMIDI(log *zap.Logger) (Driver, error) {
	return nil, errors.Wrapf(ErrUnsupportedOS, "coremidi on %s", runtime.GOOS)
}
