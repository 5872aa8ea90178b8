package mqtt

import (
	"errors"
	"io"
	"sync"

	"github.com/golang/glog"

	"github.com/robotalks/rover/pkg/msgs"
	"github.com/robotalks/rover/pkg/rover"
)

// Topics of a rover, relative to the queue prefix.
func Topics(id string) (cmd, status, console string) {
	prefix := "rover/" + id + "/"
	return prefix + "cmd", prefix + "status", prefix + "console"
}

// ErrClosed is returned by a closed Link.
var ErrClosed = errors.New("mqtt link closed")

// DefaultBacklog is the number of command bytes buffered before
// new ones are dropped.
const DefaultBacklog = 16

// Link is a command byte source fed by payloads on the cmd topic. Each
// payload byte is one command. Writes are published on the console topic.
type Link struct {
	Queue *Queue
	ID    string

	sub       *Subscription
	console   string
	bytesCh   chan byte
	closeCh   chan struct{}
	closeOnce sync.Once
}

// NewLink subscribes the cmd topic of rover id.
func NewLink(q *Queue, id string) *Link {
	cmdTopic, _, console := Topics(id)
	l := &Link{
		Queue:   q,
		ID:      id,
		console: console,
		bytesCh: make(chan byte, DefaultBacklog),
		closeCh: make(chan struct{}),
	}
	l.sub = q.Sub(cmdTopic, l.handleCmd)
	return l
}

func (l *Link) handleCmd(_ string, payload []byte) {
	for _, b := range payload {
		select {
		case l.bytesCh <- b:
		case <-l.closeCh:
			return
		default:
			glog.Warningf("rover %s: command backlog full, dropped %q", l.ID, b)
		}
	}
}

// ReadByte implements io.ByteReader.
func (l *Link) ReadByte() (byte, error) {
	select {
	case b := <-l.bytesCh:
		return b, nil
	case <-l.closeCh:
		return 0, ErrClosed
	}
}

// Write implements io.Writer.
func (l *Link) Write(p []byte) (int, error) {
	select {
	case <-l.closeCh:
		return 0, ErrClosed
	default:
	}
	data := make([]byte, len(p))
	copy(data, p)
	token := l.Queue.Pub(l.console, data)
	token.Wait()
	if err := token.Error(); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Close implements io.Closer. The queue is left connected.
func (l *Link) Close() (err error) {
	l.closeOnce.Do(func() {
		close(l.closeCh)
		err = l.sub.Close()
	})
	return
}

// Publisher publishes a RoverStatus after each phase.
type Publisher struct {
	Queue *Queue
	Topic string
}

// NewPublisher creates a Publisher for rover id.
func NewPublisher(q *Queue, id string) *Publisher {
	_, status, _ := Topics(id)
	return &Publisher{Queue: q, Topic: status}
}

// PhaseAsserted implements rover.Observer. Publishing is asynchronous
// and retained so a console sees the latest state on subscription.
func (p *Publisher) PhaseAsserted(r rover.Report) {
	data, err := StatusOf(r).Encode()
	if err != nil {
		glog.Errorf("encode status error: %v", err)
		return
	}
	p.Queue.PubWith(p.Topic, data, true)
}

// StatusOf converts a report to the telemetry message.
func StatusOf(r rover.Report) *msgs.RoverStatus {
	return &msgs.RoverStatus{
		Command:   uint32(r.Command),
		Direction: r.Phase.Direction.String(),
		Color:     uint32(r.Phase.Color),
		Latch:     r.Latch,
		DutyRed:   r.Duty.Red,
		DutyGreen: r.Duty.Green,
		DutyBlue:  r.Duty.Blue,
		Status:    r.Status(),
	}
}

var (
	_ io.ByteReader  = &Link{}
	_ io.WriteCloser = &Link{}
	_ rover.Observer = &Publisher{}
)
