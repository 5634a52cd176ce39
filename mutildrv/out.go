package mutildrv

import (
	"fmt"
	"io"
	"os/exec"
	"sync"
	"time"

	"github.com/pkg/errors"
	"gitlab.com/gomidi/midi"

	"gitlab.com/gomidi/mutil/message"
)

const closeGrace = 500 * time.Millisecond

func newOut(driver *MidiCat, number int) *out {
	return &out{driver: driver, number: number}
}

// out feeds a midicat out process through its stdin.
type out struct {
	number int
	sync.RWMutex
	driver *MidiCat
	wr     io.WriteCloser
	cmd    *exec.Cmd
	exited chan struct{}
}

func (o *out) fireCmd() error {
	o.Lock()
	defer o.Unlock()
	if o.cmd != nil {
		return fmt.Errorf("already running")
	}
	cmd := midiCatCmd(o.driver.program, fmt.Sprintf("out --index=%v", o.number))

	// an OS pipe, so that writing fails once midicat is gone
	wr, err := cmd.StdinPipe()
	if err != nil {
		return err
	}
	detach(cmd)

	if err := cmd.Start(); err != nil {
		return err
	}

	exited := make(chan struct{})
	go func() {
		_ = cmd.Wait()
		close(exited)
	}()

	o.cmd, o.wr, o.exited = cmd, wr, exited
	return nil
}

// IsOpen returns whether the port is open
func (o *out) IsOpen() (open bool) {
	o.RLock()
	open = o.cmd != nil
	o.RUnlock()
	return
}

// Write writes msg to the midicat process.
// If the port is closed, it returns midi.ErrPortClosed; once the process
// has exited, writing fails.
func (o *out) Write(msg message.Message) error {
	o.Lock()
	defer o.Unlock()
	if o.cmd == nil {
		return midi.ErrPortClosed
	}
	select {
	case <-o.exited:
		return errors.Errorf("midicat out for port %v has exited", o.number)
	default:
	}
	_, err := o.wr.Write(msg.Raw())
	return err
}

// Close stops the midicat process.
func (o *out) Close() (err error) {
	if !o.IsOpen() {
		return nil
	}

	o.Lock()
	defer o.Unlock()
	o.wr.Close()

	// give midicat the chance to pass on what is still in the pipe
	select {
	case <-o.exited:
	case <-time.After(closeGrace):
		err = o.cmd.Process.Kill()
		<-o.exited
	}

	o.cmd = nil
	return err
}

// Open starts the midicat process.
func (o *out) Open() (err error) {
	if o.IsOpen() {
		return nil
	}

	err = o.fireCmd()
	if err != nil {
		return errors.Wrapf(err, "can't open MIDI out port %v", o.number)
	}

	o.driver.register(o)
	return nil
}
