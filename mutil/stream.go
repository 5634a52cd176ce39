package mutil

import (
	"context"
	"time"

	"go.uber.org/zap"

	"gitlab.com/gomidi/mutil/device"
	"gitlab.com/gomidi/mutil/message"
	"gitlab.com/gomidi/mutil/mutildrv"
)

// Stream opens the input port id (DefaultDevice for the driver's default)
// and forwards everything it receives on the returned channel, in the
// order the driver delivers it. The port is polled every poll interval.
//
// When ctx is done, the port is closed and then the channel.
func (m *Mutil) Stream(ctx context.Context, id int) (<-chan message.Message, error) {
	dev, err := m.resolve(id, device.Input)
	if err != nil {
		return nil, err
	}

	in, err := m.drv.OpenIn(dev.ID, m.bufferSize)
	if err != nil {
		return nil, err
	}

	m.log.Info("opening stream", zap.Int("device", dev.ID), zap.String("name", dev.Name))

	ch := make(chan message.Message, m.bufferSize)
	go m.forward(ctx, in, ch)
	return ch, nil
}

func (m *Mutil) forward(ctx context.Context, in mutildrv.In, ch chan<- message.Message) {
	defer close(ch)
	defer func() {
		if err := in.Close(); err != nil {
			m.log.Warn("can't close input", zap.Error(err))
		}
	}()

	t := time.NewTimer(m.pollInterval)
	defer t.Stop()

	for {
		msgs, err := in.Read(m.bufferSize)
		if err != nil {
			m.log.Warn("can't read from input", zap.Error(err))
		}

		for _, msg := range msgs {
			if !m.accept(msg) {
				continue
			}
			select {
			case ch <- msg:
			case <-ctx.Done():
				return
			}
		}

		select {
		case <-ctx.Done():
			return
		case <-t.C:
			t.Reset(m.pollInterval)
		}
	}
}

func (m *Mutil) accept(msg message.Message) bool {
	if len(m.filter) == 0 {
		return true
	}
	typ := msg.Type()
	for _, f := range m.filter {
		if f == typ {
			return true
		}
	}
	return false
}
