package mutil

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/gomidi/mutil/message"
)

func receive(t *testing.T, ch <-chan message.Message, n int) []message.Message {
	t.Helper()
	var got []message.Message
	timeout := time.After(2 * time.Second)
	for len(got) < n {
		select {
		case msg, ok := <-ch:
			require.True(t, ok, "channel closed early")
			got = append(got, msg)
		case <-timeout:
			t.Fatalf("received %d of %d messages", len(got), n)
		}
	}
	return got
}

func TestStreamForwardsInOrder(t *testing.T) {
	drv := newFakeDriver()
	drv.in.batches = [][]message.Message{
		{{Status: 0x90, Data1: 60, Data2: 100}, {Status: 0x90, Data1: 64, Data2: 100}},
		nil,
		{{Status: 0x80, Data1: 60}},
		{{Status: 0x80, Data1: 64}},
	}
	m := New(drv, WithPollInterval(time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := m.Stream(ctx, DefaultDevice)
	require.NoError(t, err)
	assert.Equal(t, 1, drv.openedIn)

	got := receive(t, ch, 4)
	assert.Equal(t, []message.Message{
		{Status: 0x90, Data1: 60, Data2: 100},
		{Status: 0x90, Data1: 64, Data2: 100},
		{Status: 0x80, Data1: 60},
		{Status: 0x80, Data1: 64},
	}, got)
}

func TestStreamCancelClosesPortAndChannel(t *testing.T) {
	drv := newFakeDriver()
	m := New(drv, WithPollInterval(time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	ch, err := m.Stream(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, drv.openedIn)

	cancel()
	select {
	case _, ok := <-ch:
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("channel not closed")
	}
	assert.True(t, drv.in.isClosed())
}

func TestStreamKeepsPollingAfterReadError(t *testing.T) {
	drv := newFakeDriver()
	drv.in.readErr = errBroken
	drv.in.batches = [][]message.Message{
		{{Status: 0x90, Data1: 60, Data2: 100}},
	}
	m := New(drv, WithPollInterval(time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := m.Stream(ctx, DefaultDevice)
	require.NoError(t, err)
	got := receive(t, ch, 1)
	assert.Equal(t, uint8(60), got[0].Data1)
}

func TestStreamFilter(t *testing.T) {
	drv := newFakeDriver()
	drv.in.batches = [][]message.Message{
		{
			{Status: 0xb0, Data1: 7, Data2: 90},
			{Status: 0x90, Data1: 60, Data2: 100},
			{Status: 0xc0, Data1: 3},
			{Status: 0x80, Data1: 60},
		},
	}
	m := New(drv,
		WithPollInterval(time.Millisecond),
		WithEventFilter(message.TypeNoteOn, message.TypeNoteOff),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := m.Stream(ctx, DefaultDevice)
	require.NoError(t, err)

	got := receive(t, ch, 2)
	assert.Equal(t, message.TypeNoteOn, got[0].Type())
	assert.Equal(t, message.TypeNoteOff, got[1].Type())
}

func TestStreamUnknownDevice(t *testing.T) {
	m := New(newFakeDriver())

	_, err := m.Stream(context.Background(), 2)
	assert.Equal(t, ErrNoSuchDevice, errors.Cause(err))
}

func TestStreamFilterKeepsSilentNoteOn(t *testing.T) {
	drv := newFakeDriver()
	drv.in.batches = [][]message.Message{
		{
			{Status: 0x80, Data1: 60, Data2: 64},
			{Status: 0x90, Data1: 60},
		},
	}
	m := New(drv,
		WithPollInterval(time.Millisecond),
		WithEventFilter(message.TypeNoteOn),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := m.Stream(ctx, DefaultDevice)
	require.NoError(t, err)

	assert.Equal(t, []message.Message{{Status: 0x90, Data1: 60}}, receive(t, ch, 1))
}
