package mutildrv

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/gomidi/midi"

	"gitlab.com/gomidi/mutil/device"
	"gitlab.com/gomidi/mutil/message"
)

type fakePort struct {
	number int
	name   string
	open   bool
}

func (p *fakePort) Open() error             { p.open = true; return nil }
func (p *fakePort) Close() error            { p.open = false; return nil }
func (p *fakePort) IsOpen() bool            { return p.open }
func (p *fakePort) Number() int             { return p.number }
func (p *fakePort) String() string          { return p.name }
func (p *fakePort) Underlying() interface{} { return nil }

type fakeIn struct {
	fakePort
	listener func(data []byte, deltaMicroseconds int64)
	stopped  bool
}

func (i *fakeIn) SetListener(f func(data []byte, deltaMicroseconds int64)) error {
	i.listener = f
	return nil
}

func (i *fakeIn) StopListening() error {
	i.listener = nil
	i.stopped = true
	return nil
}

type fakeOut struct {
	fakePort
	written [][]byte
}

func (o *fakeOut) Write(b []byte) (int, error) {
	o.written = append(o.written, append([]byte(nil), b...))
	return len(b), nil
}

type fakeDriver struct {
	ins    []*fakeIn
	outs   []*fakeOut
	closed bool
}

func newFakeDriver() *fakeDriver {
	return &fakeDriver{
		ins: []*fakeIn{
			{fakePort: fakePort{number: 0, name: "Midi Through Port-0"}},
			{fakePort: fakePort{number: 1, name: "nanoPAD2 PAD"}},
		},
		outs: []*fakeOut{
			{fakePort: fakePort{number: 0, name: "Midi Through Port-0"}},
		},
	}
}

func (d *fakeDriver) Ins() ([]midi.In, error) {
	res := make([]midi.In, len(d.ins))
	for i, in := range d.ins {
		res[i] = in
	}
	return res, nil
}

func (d *fakeDriver) Outs() ([]midi.Out, error) {
	res := make([]midi.Out, len(d.outs))
	for i, out := range d.outs {
		res[i] = out
	}
	return res, nil
}

func (d *fakeDriver) String() string { return "fake" }
func (d *fakeDriver) Close() error   { d.closed = true; return nil }

func TestGoMIDIDevices(t *testing.T) {
	g := NewGoMIDI("fake", newFakeDriver(), nil)
	assert.Equal(t, "fake", g.Name())

	devs, err := g.Devices()
	require.NoError(t, err)
	assert.Equal(t, []device.Device{
		{ID: 0, Name: "Midi Through Port-0", Direction: device.Input},
		{ID: 1, Name: "nanoPAD2 PAD", Direction: device.Input},
		{ID: 0, Name: "Midi Through Port-0", Direction: device.Output},
	}, devs)

	id, err := g.DefaultIn()
	require.NoError(t, err)
	assert.Equal(t, 0, id)

	id, err = g.DefaultOut()
	require.NoError(t, err)
	assert.Equal(t, 0, id)
}

func TestGoMIDINoDefaultOut(t *testing.T) {
	drv := newFakeDriver()
	drv.outs = nil
	g := NewGoMIDI("fake", drv, nil)

	_, err := g.DefaultOut()
	assert.Equal(t, ErrNoDevice, errors.Cause(err))
}

func TestGoMIDIWrite(t *testing.T) {
	drv := newFakeDriver()
	g := NewGoMIDI("fake", drv, nil)

	out, err := g.OpenOut(0)
	require.NoError(t, err)

	on, err := message.NoteOn(1, 60, 100)
	require.NoError(t, err)
	require.NoError(t, out.Write(on))
	require.NoError(t, out.Close())

	assert.Equal(t, [][]byte{{0x91, 60, 100}}, drv.outs[0].written)
	assert.False(t, drv.outs[0].IsOpen())
}

func TestGoMIDIRead(t *testing.T) {
	drv := newFakeDriver()
	g := NewGoMIDI("fake", drv, nil)

	in, err := g.OpenIn(1, 16)
	require.NoError(t, err)

	fin := drv.ins[1]
	require.NotNil(t, fin.listener)
	fin.listener([]byte{0x90, 64, 127}, 0)
	fin.listener([]byte{0x80, 64, 0}, 10)

	msgs, err := in.Read(1024)
	require.NoError(t, err)
	assert.Equal(t, []message.Message{
		{Status: 0x90, Data1: 64, Data2: 127},
		{Status: 0x80, Data1: 64},
	}, msgs)

	require.NoError(t, in.Close())
	assert.True(t, fin.stopped)

	require.NoError(t, g.Close())
	assert.True(t, drv.closed)
}

func TestGoMIDIOpenUnknownPort(t *testing.T) {
	g := NewGoMIDI("fake", newFakeDriver(), nil)

	_, err := g.OpenOut(5)
	assert.Error(t, err)

	_, err = g.OpenIn(7, 16)
	assert.Error(t, err)
}
