// Package mutil lists MIDI devices, sends notes and streams incoming
// MIDI messages on top of a mutildrv.Driver.
package mutil

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"gitlab.com/gomidi/mutil/device"
	"gitlab.com/gomidi/mutil/message"
	"gitlab.com/gomidi/mutil/mutildrv"
)

const (
	// TrigHold is how long Trig holds a note.
	TrigHold = 40 * time.Millisecond

	// DefaultDevice selects the driver's default port.
	DefaultDevice = -1
)

var ErrNoSuchDevice = errors.New("no such MIDI device")

// MessageOptions select where a message is sent.
type MessageOptions struct {
	Device  int // DefaultDevice or a port id
	Channel uint8
}

type Mutil struct {
	drv          mutildrv.Driver
	log          *zap.Logger
	pollInterval time.Duration
	bufferSize   int
	filter       []message.Type
}

func New(drv mutildrv.Driver, opts ...Option) *Mutil {
	m := &Mutil{
		drv:          drv,
		log:          zap.NewNop(),
		pollInterval: PollInterval,
		bufferSize:   BufferSize,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.log == nil {
		m.log = zap.NewNop()
	}
	if m.bufferSize <= 0 {
		m.bufferSize = BufferSize
	}
	if m.pollInterval <= 0 {
		m.pollInterval = PollInterval
	}
	return m
}

// Devices lists the devices of the driver. If directions are given,
// only devices of these directions are returned.
func (m *Mutil) Devices(only ...device.Direction) ([]device.Device, error) {
	devs, err := m.drv.Devices()
	if err != nil {
		return nil, err
	}
	return device.Filter(devs, only...), nil
}

// NoteOn sends a note on message.
func (m *Mutil) NoteOn(note, velocity uint8, opts MessageOptions) error {
	on, err := message.NoteOn(opts.Channel, note, velocity)
	if err != nil {
		return err
	}
	return m.send(opts.Device, func(out mutildrv.Out) error {
		return out.Write(on)
	})
}

// NoteOff sends a note off message.
func (m *Mutil) NoteOff(note uint8, opts MessageOptions) error {
	off, err := message.NoteOff(opts.Channel, note)
	if err != nil {
		return err
	}
	return m.send(opts.Device, func(out mutildrv.Out) error {
		return out.Write(off)
	})
}

// Trig plays a note for TrigHold. The note off is sent even if ctx is
// canceled while the note is held.
func (m *Mutil) Trig(ctx context.Context, note, velocity uint8, opts MessageOptions) error {
	on, err := message.NoteOn(opts.Channel, note, velocity)
	if err != nil {
		return err
	}
	off, err := message.NoteOff(opts.Channel, note)
	if err != nil {
		return err
	}

	return m.send(opts.Device, func(out mutildrv.Out) error {
		if err := out.Write(on); err != nil {
			return err
		}

		t := time.NewTimer(TrigHold)
		defer t.Stop()
		select {
		case <-t.C:
		case <-ctx.Done():
			m.log.Debug("trig canceled, releasing note early", zap.Uint8("note", note))
		}

		return out.Write(off)
	})
}

// send opens the output for the duration of fn.
func (m *Mutil) send(id int, fn func(out mutildrv.Out) error) (err error) {
	dev, err := m.resolve(id, device.Output)
	if err != nil {
		return err
	}

	out, err := m.drv.OpenOut(dev.ID)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, out.Close())
	}()

	m.log.Debug("sending", zap.Int("device", dev.ID), zap.String("name", dev.Name))
	if err := fn(out); err != nil {
		return errors.Wrapf(err, "can't write to %s", dev)
	}
	return nil
}

// resolve finds the device with the given id and direction, or the
// driver's default device if id is DefaultDevice.
func (m *Mutil) resolve(id int, dir device.Direction) (device.Device, error) {
	if id < 0 {
		var err error
		if dir == device.Input {
			id, err = m.drv.DefaultIn()
		} else {
			id, err = m.drv.DefaultOut()
		}
		if err != nil {
			return device.Device{}, err
		}
	}

	devs, err := m.drv.Devices()
	if err != nil {
		return device.Device{}, err
	}
	dev, ok := device.Find(devs, id, dir)
	if !ok {
		return device.Device{}, errors.Wrapf(ErrNoSuchDevice, "%s %d", dir, id)
	}
	return dev, nil
}
