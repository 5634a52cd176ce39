package message

import (
	"strings"

	"github.com/pkg/errors"
	"gitlab.com/gomidi/midi/midimessage/realtime"
)

// Type names the kind of a message in its JSON record.
type Type string

const (
	TypeNoteOn         Type = "note_on"
	TypeNoteOff        Type = "note_off"
	TypeControlChange  Type = "control_change"
	TypeProgramChange  Type = "program_change"
	TypePitchBend      Type = "pitch_bend"
	TypeAftertouch     Type = "aftertouch"
	TypePolyAftertouch Type = "poly_aftertouch"
	TypeOther          Type = "other"
)

var knownTypes = []Type{
	TypeNoteOn,
	TypeNoteOff,
	TypeControlChange,
	TypeProgramChange,
	TypePitchBend,
	TypeAftertouch,
	TypePolyAftertouch,
	TypeOther,
}

func ignoreRealtime(realtime.Message) {}

// Type is taken from the high nibble of the status byte, so a note on
// with velocity 0 stays a note on.
func (m Message) Type() Type {
	switch m.Status & 0xf0 {
	case 0x80:
		return TypeNoteOff
	case 0x90:
		return TypeNoteOn
	case 0xa0:
		return TypePolyAftertouch
	case 0xb0:
		return TypeControlChange
	case 0xc0:
		return TypeProgramChange
	case 0xd0:
		return TypeAftertouch
	case 0xe0:
		return TypePitchBend
	default:
		return TypeOther
	}
}

// ParseTypes parses a comma separated list of type names, e.g. "note_on,note_off".
// An empty string yields no types.
func ParseTypes(s string) ([]Type, error) {
	var res []Type
	for _, f := range strings.Split(s, ",") {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		t := Type(f)
		if !isKnown(t) {
			return nil, errors.Errorf("unknown message type %q", f)
		}
		res = append(res, t)
	}
	return res, nil
}

func isKnown(t Type) bool {
	for _, k := range knownTypes {
		if k == t {
			return true
		}
	}
	return false
}
