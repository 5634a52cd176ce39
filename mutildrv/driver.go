// Package mutildrv connects mutil to the MIDI drivers of the system.
//
// Every backend numbers its ports the way the underlying driver does:
// with rtmidi, coremidi and midicat in and out ports are counted separately,
// portmidi has a single id space for both.
package mutildrv

import (
	"sort"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"gitlab.com/gomidi/mutil/device"
	"gitlab.com/gomidi/mutil/message"
)

var (
	ErrNoDevice      = errors.New("no MIDI device available")
	ErrNoSuchPort    = errors.New("no such MIDI port")
	ErrUnknownDriver = errors.New("unknown MIDI driver")
	ErrUnsupportedOS = errors.New("unsupported operating system")
)

// Driver is the device API mutil delegates to.
type Driver interface {
	Name() string

	// Devices lists the in and out ports known to the driver.
	Devices() ([]device.Device, error)

	// DefaultIn and DefaultOut return the port used when none is requested.
	DefaultIn() (int, error)
	DefaultOut() (int, error)

	OpenIn(id int, bufLen int) (In, error)
	OpenOut(id int) (Out, error)

	Close() error
}

// In is an opened input port.
type In interface {
	// Read returns up to max pending messages in arrival order without blocking.
	Read(max int) ([]message.Message, error)
	Close() error
}

// Out is an opened output port.
type Out interface {
	Write(msg message.Message) error
	Close() error
}

// DefaultDriver is used when no driver is named.
const DefaultDriver = "rtmidi"

var openers = map[string]func(*zap.Logger) (Driver, error){
	"rtmidi": func(l *zap.Logger) (Driver, error) {
		return NewRtMidi(l)
	},
	"portmidi": func(l *zap.Logger) (Driver, error) {
		return NewPortMidi(l)
	},
	"coremidi": func(l *zap.Logger) (Driver, error) {
		return NewCoreMIDI(l)
	},
	"midicat": func(l *zap.Logger) (Driver, error) {
		return NewMidiCat(l)
	},
}

// Open initializes the driver with the given name.
func Open(name string, log *zap.Logger) (Driver, error) {
	if name == "" {
		name = DefaultDriver
	}
	if log == nil {
		log = zap.NewNop()
	}
	open, ok := openers[name]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownDriver, "%q (available: %v)", name, Names())
	}
	log.Debug("opening driver", zap.String("driver", name))
	drv, err := open(log.Named(name))
	if err != nil {
		return nil, err
	}
	return drv, nil
}

// Names returns the names accepted by Open.
func Names() []string {
	names := make([]string, 0, len(openers))
	for n := range openers {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// firstID returns the smallest port id of the given direction.
func firstID(devs []device.Device, dir device.Direction) (int, error) {
	found := false
	id := 0
	for _, d := range device.Filter(devs, dir) {
		if !found || d.ID < id {
			id = d.ID
			found = true
		}
	}
	if !found {
		return 0, errors.Wrapf(ErrNoDevice, "no %s port", dir)
	}
	return id, nil
}
