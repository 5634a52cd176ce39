package mutildrv

import (
	"encoding/json"
	"io"
	"os/exec"
	"sort"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"gitlab.com/gomidi/mutil/device"
)

// MidiCat delegates to the midicat program, which transfers MIDI data
// between ports and stdin/stdout. It needs no cgo in this process.
type MidiCat struct {
	sync.Mutex
	program string
	opened  []io.Closer
	log     *zap.Logger
}

// NewMidiCat uses the midicat program found in PATH.
func NewMidiCat(log *zap.Logger) (*MidiCat, error) {
	if _, err := exec.LookPath("midicat"); err != nil {
		return nil, errors.Wrap(err, "midicat driver needs the midicat program")
	}
	return NewMidiCatProgram("midicat", log), nil
}

// NewMidiCatProgram runs program instead of midicat.
func NewMidiCatProgram(program string, log *zap.Logger) *MidiCat {
	if log == nil {
		log = zap.NewNop()
	}
	return &MidiCat{program: program, log: log}
}

func (m *MidiCat) Name() string {
	return "midicat"
}

func (m *MidiCat) Devices() ([]device.Device, error) {
	ins, err := m.ports("ins", device.Input)
	if err != nil {
		return nil, err
	}
	outs, err := m.ports("outs", device.Output)
	if err != nil {
		return nil, err
	}
	return append(ins, outs...), nil
}

func (m *MidiCat) ports(cmd string, dir device.Direction) ([]device.Device, error) {
	b, err := midiCatCmd(m.program, cmd+" --json").Output()
	if err != nil {
		return nil, errors.Wrapf(err, "%s %s failed", m.program, cmd)
	}
	return parsePorts(b, dir)
}

// parsePorts reads the JSON object of port number to port name
// printed by midicat ins --json and midicat outs --json.
func parsePorts(b []byte, dir device.Direction) ([]device.Device, error) {
	var portm map[int]string
	if err := json.Unmarshal(b, &portm); err != nil {
		return nil, errors.Wrap(err, "can't parse midicat port list")
	}

	devs := make([]device.Device, 0, len(portm))
	for num, name := range portm {
		devs = append(devs, device.Device{ID: num, Name: name, Direction: dir})
	}
	sort.Slice(devs, func(i, j int) bool { return devs[i].ID < devs[j].ID })
	return devs, nil
}

func (m *MidiCat) DefaultIn() (int, error) {
	ins, err := m.ports("ins", device.Input)
	if err != nil {
		return 0, err
	}
	return firstID(ins, device.Input)
}

func (m *MidiCat) DefaultOut() (int, error) {
	outs, err := m.ports("outs", device.Output)
	if err != nil {
		return 0, err
	}
	return firstID(outs, device.Output)
}

func (m *MidiCat) OpenOut(id int) (Out, error) {
	o := newOut(m, id)
	if err := o.Open(); err != nil {
		return nil, err
	}
	return o, nil
}

func (m *MidiCat) OpenIn(id int, bufLen int) (In, error) {
	i := newIn(m, id, bufLen)
	if err := i.Open(); err != nil {
		return nil, err
	}
	return i, nil
}

func (m *MidiCat) register(c io.Closer) {
	m.Lock()
	m.opened = append(m.opened, c)
	m.Unlock()
}

// Close stops every midicat process still running.
func (m *MidiCat) Close() (err error) {
	m.Lock()
	opened := m.opened
	m.opened = nil
	m.Unlock()

	for _, c := range opened {
		err = multierr.Append(err, c.Close())
	}
	return err
}
