package mutildrv

import (
	"github.com/pkg/errors"
	"github.com/rakyll/portmidi"
	"go.uber.org/zap"

	"gitlab.com/gomidi/mutil/device"
	"gitlab.com/gomidi/mutil/message"
)

// portmidi refuses to read more events than this at once.
const portMidiMaxEvents = 1024

// PortMidi talks to PortMidi directly. Its input streams are polled,
// no callback is involved.
type PortMidi struct {
	log *zap.Logger
}

// NewPortMidi initializes PortMidi. Close terminates it.
func NewPortMidi(log *zap.Logger) (*PortMidi, error) {
	if err := portmidi.Initialize(); err != nil {
		return nil, errors.Wrap(err, "can't initialize portmidi")
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &PortMidi{log: log}, nil
}

func (p *PortMidi) Name() string {
	return "portmidi"
}

// Devices reports a device as input if PortMidi can read from it,
// as output otherwise.
func (p *PortMidi) Devices() ([]device.Device, error) {
	n := portmidi.CountDevices()
	devs := make([]device.Device, 0, n)
	for i := 0; i < n; i++ {
		info := portmidi.Info(portmidi.DeviceID(i))
		if info == nil {
			continue
		}
		dir := device.Output
		if info.IsInputAvailable {
			dir = device.Input
		}
		devs = append(devs, device.Device{ID: i, Name: info.Name, Direction: dir})
	}
	return devs, nil
}

func (p *PortMidi) DefaultIn() (int, error) {
	id := portmidi.DefaultInputDeviceID()
	if id < 0 {
		return 0, errors.Wrap(ErrNoDevice, "no default input")
	}
	return int(id), nil
}

func (p *PortMidi) DefaultOut() (int, error) {
	id := portmidi.DefaultOutputDeviceID()
	if id < 0 {
		return 0, errors.Wrap(ErrNoDevice, "no default output")
	}
	return int(id), nil
}

func (p *PortMidi) OpenOut(id int) (Out, error) {
	s, err := portmidi.NewOutputStream(portmidi.DeviceID(id), portMidiMaxEvents, 0)
	if err != nil {
		return nil, errors.Wrapf(err, "can't open portmidi output %d", id)
	}
	return &portmidiOut{s: s}, nil
}

func (p *PortMidi) OpenIn(id int, bufLen int) (In, error) {
	if bufLen <= 0 || bufLen > portMidiMaxEvents {
		bufLen = portMidiMaxEvents
	}
	s, err := portmidi.NewInputStream(portmidi.DeviceID(id), int64(bufLen))
	if err != nil {
		return nil, errors.Wrapf(err, "can't open portmidi input %d", id)
	}
	return &portmidiIn{s: s}, nil
}

func (p *PortMidi) Close() error {
	return portmidi.Terminate()
}

type portmidiOut struct {
	s *portmidi.Stream
}

func (o *portmidiOut) Write(msg message.Message) error {
	return o.s.WriteShort(int64(msg.Status), int64(msg.Data1), int64(msg.Data2))
}

func (o *portmidiOut) Close() error {
	return o.s.Close()
}

type portmidiIn struct {
	s *portmidi.Stream
}

func (i *portmidiIn) Read(max int) ([]message.Message, error) {
	if max <= 0 || max > portMidiMaxEvents {
		max = portMidiMaxEvents
	}
	events, err := i.s.Read(max)
	if err != nil {
		return nil, err
	}
	return fromEvents(events), nil
}

func (i *portmidiIn) Close() error {
	return i.s.Close()
}

// fromEvents drops events that do not start with a status byte.
func fromEvents(events []portmidi.Event) []message.Message {
	msgs := make([]message.Message, 0, len(events))
	for _, e := range events {
		m := message.Message{Status: uint8(e.Status), Data1: uint8(e.Data1), Data2: uint8(e.Data2)}
		if m.Status&0x80 == 0 {
			continue
		}
		msgs = append(msgs, m)
	}
	return msgs
}
