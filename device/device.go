// Package device describes MIDI ports as reported by a driver.
package device

import (
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
)

// Direction tells whether a port receives MIDI from a device (Input)
// or sends MIDI to it (Output).
type Direction int

const (
	Input Direction = iota
	Output
)

func (d Direction) String() string {
	switch d {
	case Input:
		return "input"
	case Output:
		return "output"
	default:
		return fmt.Sprintf("direction(%d)", int(d))
	}
}

func (d Direction) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Direction) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	switch s {
	case "input":
		*d = Input
	case "output":
		*d = Output
	default:
		return errors.Errorf("unknown direction %q", s)
	}
	return nil
}

// Device is a single MIDI port. Drivers that count in and out ports
// separately may report an input and an output with the same ID.
type Device struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Direction Direction `json:"direction"`
}

func (d Device) String() string {
	return fmt.Sprintf("[%v] %s (%s)", d.ID, d.Name, d.Direction)
}

// Filter returns the devices whose direction is one of only, keeping
// the driver's order. Without directions every device is returned.
// The result is never nil.
func Filter(devs []Device, only ...Direction) []Device {
	res := make([]Device, 0, len(devs))
	for _, d := range devs {
		if len(only) == 0 || contains(only, d.Direction) {
			res = append(res, d)
		}
	}
	return res
}

// Find looks up the device with the given id and direction.
func Find(devs []Device, id int, dir Direction) (Device, bool) {
	for _, d := range devs {
		if d.ID == id && d.Direction == dir {
			return d, true
		}
	}
	return Device{}, false
}

func contains(dirs []Direction, dir Direction) bool {
	for _, d := range dirs {
		if d == dir {
			return true
		}
	}
	return false
}
