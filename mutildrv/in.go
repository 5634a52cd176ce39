package mutildrv

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"gitlab.com/gomidi/mutil/message"
)

func newIn(driver *MidiCat, number int, bufLen int) *in {
	return &in{driver: driver, number: number, q: newQueue(bufLen, driver.log)}
}

// in reads the stdout of a midicat in process.
type in struct {
	number int
	sync.Mutex
	driver *MidiCat
	cmd    *exec.Cmd
	q      *queue
	done   chan struct{}
}

func (i *in) Open() error {
	i.Lock()
	defer i.Unlock()
	if i.cmd != nil {
		return nil
	}

	cmd := midiCatCmd(i.driver.program, fmt.Sprintf("in --index=%v", i.number))
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return errors.Wrapf(err, "can't open MIDI in port %v", i.number)
	}
	detach(cmd)

	if err := cmd.Start(); err != nil {
		return errors.Wrapf(err, "can't open MIDI in port %v", i.number)
	}

	i.cmd = cmd
	i.done = make(chan struct{})
	go i.read(stdout, i.done)

	i.driver.register(i)
	return nil
}

func (i *in) read(src io.Reader, done chan struct{}) {
	defer close(done)
	rd := message.NewReader(src)
	for {
		m, err := rd.Read()
		if err != nil {
			if !message.IsEOF(err) && !errors.Is(err, os.ErrClosed) {
				i.driver.log.Warn("can't read from midicat", zap.Int("port", i.number), zap.Error(err))
			}
			return
		}
		i.q.push(m)
	}
}

func (i *in) Read(max int) ([]message.Message, error) {
	return i.q.drain(max), nil
}

// Close kills the midicat process.
func (i *in) Close() error {
	i.Lock()
	defer i.Unlock()
	if i.cmd == nil {
		return nil
	}

	err := i.cmd.Process.Kill()
	_ = i.cmd.Wait()
	<-i.done
	i.cmd = nil
	return err
}
