package mutildrv

import (
	"github.com/pkg/errors"
	"gitlab.com/gomidi/midi"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"gitlab.com/gomidi/mutil/device"
	"gitlab.com/gomidi/mutil/message"
)

// GoMIDI adapts a gitlab.com/gomidi/midi driver.
type GoMIDI struct {
	name string
	drv  midi.Driver
	log  *zap.Logger
}

// NewGoMIDI wraps drv. The wrapper owns drv and closes it on Close.
func NewGoMIDI(name string, drv midi.Driver, log *zap.Logger) *GoMIDI {
	if log == nil {
		log = zap.NewNop()
	}
	return &GoMIDI{name: name, drv: drv, log: log}
}

func (g *GoMIDI) Name() string {
	return g.name
}

func (g *GoMIDI) Devices() ([]device.Device, error) {
	ins, err := g.drv.Ins()
	if err != nil {
		return nil, errors.Wrap(err, "can't list MIDI in ports")
	}

	outs, err := g.drv.Outs()
	if err != nil {
		return nil, errors.Wrap(err, "can't list MIDI out ports")
	}

	devs := make([]device.Device, 0, len(ins)+len(outs))
	for _, in := range ins {
		devs = append(devs, device.Device{ID: in.Number(), Name: in.String(), Direction: device.Input})
	}
	for _, out := range outs {
		devs = append(devs, device.Device{ID: out.Number(), Name: out.String(), Direction: device.Output})
	}
	return devs, nil
}

// DefaultIn returns the first in port.
func (g *GoMIDI) DefaultIn() (int, error) {
	devs, err := g.Devices()
	if err != nil {
		return 0, err
	}
	return firstID(devs, device.Input)
}

// DefaultOut returns the first out port.
func (g *GoMIDI) DefaultOut() (int, error) {
	devs, err := g.Devices()
	if err != nil {
		return 0, err
	}
	return firstID(devs, device.Output)
}

func (g *GoMIDI) OpenOut(id int) (Out, error) {
	out, err := midi.OpenOut(g.drv, id, "")
	if err != nil {
		return nil, errors.Wrapf(err, "can't open MIDI out port %d", id)
	}
	g.log.Debug("opened out port", zap.Int("port", out.Number()), zap.String("name", out.String()))
	return &gomidiOut{out: out}, nil
}

// OpenIn opens the in port and starts listening. Incoming data is
// buffered until Read is called.
func (g *GoMIDI) OpenIn(id int, bufLen int) (In, error) {
	in, err := midi.OpenIn(g.drv, id, "")
	if err != nil {
		return nil, errors.Wrapf(err, "can't open MIDI in port %d", id)
	}

	q := newQueue(bufLen, g.log)
	err = in.SetListener(func(data []byte, deltaMicroseconds int64) {
		q.pushRaw(data)
	})
	if err != nil {
		return nil, multierr.Append(errors.Wrapf(err, "can't listen to MIDI in port %d", id), in.Close())
	}

	g.log.Debug("opened in port", zap.Int("port", in.Number()), zap.String("name", in.String()))
	return &gomidiIn{in: in, q: q}, nil
}

func (g *GoMIDI) Close() error {
	return g.drv.Close()
}

type gomidiOut struct {
	out midi.Out
}

func (o *gomidiOut) Write(msg message.Message) error {
	_, err := o.out.Write(msg.Raw())
	return err
}

func (o *gomidiOut) Close() error {
	return o.out.Close()
}

type gomidiIn struct {
	in midi.In
	q  *queue
}

func (i *gomidiIn) Read(max int) ([]message.Message, error) {
	return i.q.drain(max), nil
}

func (i *gomidiIn) Close() error {
	return multierr.Append(i.in.StopListening(), i.in.Close())
}
