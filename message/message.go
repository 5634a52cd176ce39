// Package message builds and describes short MIDI channel messages.
package message

import (
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
	"gitlab.com/gomidi/midi/midimessage/channel"
)

const (
	// DefaultVelocity is used for note on messages when no velocity is given.
	DefaultVelocity uint8 = 100

	MaxChannel uint8 = 15
	MaxData    uint8 = 127
)

var (
	ErrInvalidChannel  = errors.New("channel must be between 0 and 15")
	ErrInvalidNote     = errors.New("note must be between 0 and 127")
	ErrInvalidVelocity = errors.New("velocity must be between 0 and 127")
)

// Message is a short MIDI message as it travels on the wire.
type Message struct {
	Status uint8
	Data1  uint8
	Data2  uint8
}

// NoteOn returns the note on message for the given channel, note and velocity.
func NoteOn(ch, note, velocity uint8) (Message, error) {
	if err := validate(ch, note, velocity); err != nil {
		return Message{}, err
	}
	m, _ := FromRaw(channel.Channel(ch).NoteOn(note, velocity).Raw())
	return m, nil
}

// NoteOff returns the note off message (velocity 0) for the given channel and note.
func NoteOff(ch, note uint8) (Message, error) {
	if err := validate(ch, note, 0); err != nil {
		return Message{}, err
	}
	// NoteOff of gomidi encodes a note on with velocity 0
	m, _ := FromRaw(channel.Channel(ch).NoteOffVelocity(note, 0).Raw())
	return m, nil
}

func validate(ch, note, velocity uint8) error {
	switch {
	case ch > MaxChannel:
		return errors.Wrapf(ErrInvalidChannel, "got %d", ch)
	case note > MaxData:
		return errors.Wrapf(ErrInvalidNote, "got %d", note)
	case velocity > MaxData:
		return errors.Wrapf(ErrInvalidVelocity, "got %d", velocity)
	}
	return nil
}

// FromRaw takes the first (up to) three bytes of b as a message.
// It reports false if b does not start with a status byte.
func FromRaw(b []byte) (Message, bool) {
	if len(b) == 0 || b[0]&0x80 == 0 {
		return Message{}, false
	}
	m := Message{Status: b[0]}
	if len(b) > 1 {
		m.Data1 = b[1]
	}
	if len(b) > 2 {
		m.Data2 = b[2]
	}
	return m, true
}

// Raw returns the wire bytes. Program change and channel pressure
// carry a single data byte.
func (m Message) Raw() []byte {
	switch m.Status & 0xf0 {
	case 0xc0, 0xd0:
		return []byte{m.Status, m.Data1}
	default:
		return []byte{m.Status, m.Data1, m.Data2}
	}
}

// Channel is the low nibble of the status byte.
func (m Message) Channel() uint8 {
	return m.Status & 0x0f
}

// Describe returns the JSON friendly view of m.
func (m Message) Describe() Record {
	return Record{
		Type:     m.Type(),
		Channel:  m.Channel(),
		Note:     m.Data1,
		Velocity: m.Data2,
	}
}

// JSON returns the JSON encoding of m.Describe().
func (m Message) JSON() ([]byte, error) {
	return json.Marshal(m.Describe())
}

func (m Message) String() string {
	return fmt.Sprintf("% X", m.Raw())
}

// Record is what gets printed for a received message.
// Note and Velocity hold the first and second data byte.
type Record struct {
	Type     Type  `json:"type"`
	Channel  uint8 `json:"channel"`
	Note     uint8 `json:"note"`
	Velocity uint8 `json:"velocity"`
}
