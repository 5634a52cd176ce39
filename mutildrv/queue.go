package mutildrv

import (
	"bytes"
	"sync"

	"go.uber.org/zap"

	"gitlab.com/gomidi/mutil/message"
)

// queue buffers messages delivered by driver callbacks until the
// stream forwarder polls them. Callbacks must not block, so messages
// arriving while the queue is full are dropped.
type queue struct {
	mu   sync.Mutex
	msgs []message.Message
	max  int
	log  *zap.Logger
}

func newQueue(max int, log *zap.Logger) *queue {
	if max <= 0 {
		max = 1
	}
	return &queue{max: max, log: log}
}

func (q *queue) push(m message.Message) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.msgs) >= q.max {
		q.log.Warn("input buffer full; dropping MIDI message", zap.Stringer("message", m))
		return false
	}
	q.msgs = append(q.msgs, m)
	return true
}

// pushRaw splits b into messages and queues them.
func (q *queue) pushRaw(b []byte) {
	rd := message.NewReader(bytes.NewReader(b))
	for {
		m, err := rd.Read()
		if err != nil {
			if !message.IsEOF(err) {
				q.log.Debug("can't parse MIDI data", zap.Binary("data", b), zap.Error(err))
			}
			return
		}
		q.push(m)
	}
}

// drain removes and returns up to max queued messages, oldest first.
func (q *queue) drain(max int) []message.Message {
	q.mu.Lock()
	defer q.mu.Unlock()

	n := len(q.msgs)
	if max > 0 && n > max {
		n = max
	}
	if n == 0 {
		return nil
	}
	res := make([]message.Message, n)
	copy(res, q.msgs[:n])
	q.msgs = append(q.msgs[:0], q.msgs[n:]...)
	return res
}
