package message

import (
	"io"

	"github.com/pkg/errors"
	"gitlab.com/gomidi/midi"
	"gitlab.com/gomidi/midi/midimessage/channel"
	"gitlab.com/gomidi/midi/midireader"
)

// Reader reads messages from a raw MIDI byte stream, resolving running status.
// Note off messages keep their status and release velocity.
// Realtime messages are skipped.
type Reader struct {
	rd interface {
		Read() (midi.Message, error)
	}
}

func NewReader(src io.Reader) *Reader {
	return &Reader{rd: midireader.New(src, ignoreRealtime, midireader.NoteOffVelocity())}
}

// Read returns the next message. At the end of the stream it returns io.EOF.
func (r *Reader) Read() (Message, error) {
	for {
		msg, err := r.rd.Read()
		if err != nil {
			if IsEOF(err) {
				return Message{}, io.EOF
			}
			return Message{}, err
		}

		if off, isOff := msg.(channel.NoteOffVelocity); isOff {
			return Message{Status: 0x80 | off.Channel(), Data1: off.Key(), Data2: off.Velocity()}, nil
		}

		m, ok := FromRaw(msg.Raw())
		if !ok {
			continue
		}
		return m, nil
	}
}

// IsEOF reports whether err marks the (possibly truncated) end of a stream.
func IsEOF(err error) bool {
	cause := errors.Cause(err)
	return cause == io.EOF || cause == io.ErrUnexpectedEOF
}
