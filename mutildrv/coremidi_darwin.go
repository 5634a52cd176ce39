//go:build darwin
// +build darwin

package mutildrv

import (
	"github.com/pkg/errors"
	"github.com/youpy/go-coremidi"
	"go.uber.org/zap"

	"gitlab.com/gomidi/mutil/device"
	"gitlab.com/gomidi/mutil/message"
)

// CoreMIDI uses the sources (inputs) and destinations (outputs) of macOS.
type CoreMIDI struct {
	client coremidi.Client
	log    *zap.Logger
}

func NewCoreMIDI(log *zap.Logger) (*CoreMIDI, error) {
	client, err := coremidi.NewClient("mutil")
	if err != nil {
		return nil, errors.Wrap(err, "can't create CoreMIDI client")
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &CoreMIDI{client: client, log: log}, nil
}

func (c *CoreMIDI) Name() string {
	return "coremidi"
}

func (c *CoreMIDI) Devices() ([]device.Device, error) {
	sources, err := coremidi.AllSources()
	if err != nil {
		return nil, errors.Wrap(err, "can't list MIDI sources")
	}
	dests, err := coremidi.AllDestinations()
	if err != nil {
		return nil, errors.Wrap(err, "can't list MIDI destinations")
	}

	devs := make([]device.Device, 0, len(sources)+len(dests))
	for i, s := range sources {
		devs = append(devs, device.Device{ID: i, Name: s.Name(), Direction: device.Input})
	}
	for i, d := range dests {
		devs = append(devs, device.Device{ID: i, Name: d.Name(), Direction: device.Output})
	}
	return devs, nil
}

func (c *CoreMIDI) DefaultIn() (int, error) {
	devs, err := c.Devices()
	if err != nil {
		return 0, err
	}
	return firstID(devs, device.Input)
}

func (c *CoreMIDI) DefaultOut() (int, error) {
	devs, err := c.Devices()
	if err != nil {
		return 0, err
	}
	return firstID(devs, device.Output)
}

// portConnection is the connection between an input port and a source.
type portConnection interface {
	Disconnect()
}

func (c *CoreMIDI) OpenIn(id int, bufLen int) (In, error) {
	sources, err := coremidi.AllSources()
	if err != nil {
		return nil, errors.Wrap(err, "can't list MIDI sources")
	}
	if id < 0 || id >= len(sources) {
		return nil, errors.Wrapf(ErrNoSuchPort, "source %d", id)
	}

	q := newQueue(bufLen, c.log)
	port, err := coremidi.NewInputPort(c.client, "mutil in", func(source coremidi.Source, packet coremidi.Packet) {
		q.pushRaw(packet.Data)
	})
	if err != nil {
		return nil, errors.Wrap(err, "can't create input port")
	}

	conn, err := port.Connect(sources[id])
	if err != nil {
		return nil, errors.Wrapf(err, "can't connect to source %d", id)
	}
	return &coremidiIn{conn: conn, q: q}, nil
}

func (c *CoreMIDI) OpenOut(id int) (Out, error) {
	dests, err := coremidi.AllDestinations()
	if err != nil {
		return nil, errors.Wrap(err, "can't list MIDI destinations")
	}
	if id < 0 || id >= len(dests) {
		return nil, errors.Wrapf(ErrNoSuchPort, "destination %d", id)
	}

	port, err := coremidi.NewOutputPort(c.client, "mutil out")
	if err != nil {
		return nil, errors.Wrap(err, "can't create output port")
	}
	return &coremidiOut{port: port, dest: dests[id]}, nil
}

func (c *CoreMIDI) Close() error {
	return nil
}

type coremidiIn struct {
	conn portConnection
	q    *queue
}

func (i *coremidiIn) Read(max int) ([]message.Message, error) {
	return i.q.drain(max), nil
}

func (i *coremidiIn) Close() error {
	i.conn.Disconnect()
	return nil
}

type coremidiOut struct {
	port coremidi.OutputPort
	dest coremidi.Destination
}

func (o *coremidiOut) Write(msg message.Message) error {
	packet := coremidi.NewPacket(msg.Raw(), 0)
	return packet.Send(&o.port, &o.dest)
}

func (o *coremidiOut) Close() error {
	return nil
}
