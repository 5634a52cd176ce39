package mutil

import (
	"sync"

	"github.com/pkg/errors"

	"gitlab.com/gomidi/mutil/device"
	"gitlab.com/gomidi/mutil/message"
	"gitlab.com/gomidi/mutil/mutildrv"
)

type fakeOut struct {
	drv *fakeDriver
	id  int
}

func (o *fakeOut) Write(msg message.Message) error {
	o.drv.mu.Lock()
	defer o.drv.mu.Unlock()
	if o.drv.writeErr != nil {
		return o.drv.writeErr
	}
	o.drv.written[o.id] = append(o.drv.written[o.id], msg)
	o.drv.writeTimes = append(o.drv.writeTimes, now())
	return nil
}

func (o *fakeOut) Close() error {
	o.drv.mu.Lock()
	o.drv.closedOuts++
	o.drv.mu.Unlock()
	return nil
}

type fakeIn struct {
	mu      sync.Mutex
	batches [][]message.Message
	readErr error
	closed  bool
	reads   int
}

func (i *fakeIn) Read(max int) ([]message.Message, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.reads++
	if i.readErr != nil {
		err := i.readErr
		i.readErr = nil
		return nil, err
	}
	if len(i.batches) == 0 {
		return nil, nil
	}
	b := i.batches[0]
	i.batches = i.batches[1:]
	return b, nil
}

func (i *fakeIn) Close() error {
	i.mu.Lock()
	i.closed = true
	i.mu.Unlock()
	return nil
}

func (i *fakeIn) isClosed() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.closed
}

type fakeDriver struct {
	mu         sync.Mutex
	devs       []device.Device
	defaultIn  int
	defaultOut int
	in         *fakeIn
	openedIn   int
	written    map[int][]message.Message
	writeTimes []int64
	writeErr   error
	closedOuts int
}

var _ mutildrv.Driver = &fakeDriver{}

func newFakeDriver() *fakeDriver {
	return &fakeDriver{
		devs: []device.Device{
			{ID: 0, Name: "Midi Through Port-0", Direction: device.Input},
			{ID: 1, Name: "nanoPAD2 PAD", Direction: device.Input},
			{ID: 0, Name: "Midi Through Port-0", Direction: device.Output},
			{ID: 2, Name: "Synth", Direction: device.Output},
		},
		defaultIn:  1,
		defaultOut: 2,
		in:         &fakeIn{},
		openedIn:   -1,
		written:    map[int][]message.Message{},
	}
}

func (d *fakeDriver) Name() string { return "fake" }

func (d *fakeDriver) Devices() ([]device.Device, error) {
	return d.devs, nil
}

func (d *fakeDriver) DefaultIn() (int, error) {
	return d.defaultIn, nil
}

func (d *fakeDriver) DefaultOut() (int, error) {
	if d.defaultOut < 0 {
		return 0, mutildrv.ErrNoDevice
	}
	return d.defaultOut, nil
}

func (d *fakeDriver) OpenIn(id int, bufLen int) (mutildrv.In, error) {
	d.openedIn = id
	return d.in, nil
}

func (d *fakeDriver) OpenOut(id int) (mutildrv.Out, error) {
	return &fakeOut{drv: d, id: id}, nil
}

func (d *fakeDriver) Close() error { return nil }

func (d *fakeDriver) messages(id int) []message.Message {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.written[id]
}

var errBroken = errors.New("broken pipe")
