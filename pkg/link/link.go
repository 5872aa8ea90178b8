// Package link opens the byte link the rover receives commands from
// and writes status lines to.
package link

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net"
	"net/url"
	"os"
	"strconv"
	"sync"

	"github.com/golang/glog"

	"github.com/robotalks/rover/pkg/joystick"
	"github.com/robotalks/rover/pkg/joystick/device"
	"github.com/robotalks/rover/pkg/link/mqtt"
)

// Link is a bidirectional byte link. Close unblocks a pending ReadByte.
type Link interface {
	io.ByteReader
	io.Writer
	io.Closer
}

// ErrClosed is returned when reading from a closed link.
var ErrClosed = errors.New("link closed")

// SchemeError reports an unsupported link URL scheme.
type SchemeError struct {
	Scheme string
}

// Error implements error.
func (e *SchemeError) Error() string {
	return fmt.Sprintf("unsupported link scheme %q", e.Scheme)
}

// Open opens a link by URL:
//
//	stdio:
//	serial:///dev/rfcomm0?baud=9600
//	tcp://host:port
//	ws://host:port/path
//	mqtt://host:port/prefix
//	joystick:[INDEX]
//
// id selects the rover topics of an MQTT link.
func Open(rawURL, id string) (Link, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	glog.Infof("open link %s:%s%s", u.Scheme, u.Host, u.Path)
	switch u.Scheme {
	case "stdio":
		// closing a tty stdin does not unblock a pending read
		return NewDetached(os.Stdin, os.Stdout), nil
	case "serial":
		return OpenSerial(u)
	case "tcp":
		conn, err := net.Dial("tcp", u.Host)
		if err != nil {
			return nil, err
		}
		return NewStream(conn, conn, conn), nil
	case "ws", "wss":
		return DialWebSocket(u)
	case "mqtt", "ssl":
		return openMQTT(u, id)
	case "joystick":
		return openJoystick(u.Opaque)
	}
	return nil, &SchemeError{Scheme: u.Scheme}
}

func openMQTT(u *url.URL, id string) (Link, error) {
	q, err := mqtt.NewQueueFromURL(u.String())
	if err != nil {
		return nil, err
	}
	if err = q.Connect(); err != nil {
		return nil, fmt.Errorf("mqtt connect error: %v", err)
	}
	return &queueLink{Link: mqtt.NewLink(q, id)}, nil
}

// openJoystick opens a joystick by index, or the first one found.
// Status lines go to stdout.
func openJoystick(index string) (Link, error) {
	var dev device.Device
	var err error
	if index == "" {
		dev, err = device.DetectAndOpen(0)
	} else {
		var n int
		if n, err = strconv.Atoi(index); err != nil {
			return nil, fmt.Errorf("invalid joystick index %q", index)
		}
		dev, err = device.Open(n)
	}
	if err != nil {
		return nil, err
	}
	glog.Infof("joystick %d %q opened", dev.Index(), dev.Name())
	src := joystick.NewSource(dev)
	return NewStream(nil, os.Stdout, src).withByteReader(src), nil
}

// queueLink also disconnects the queue it owns.
type queueLink struct {
	*mqtt.Link
	once sync.Once
}

func (l *queueLink) Close() (err error) {
	l.once.Do(func() {
		err = l.Link.Close()
		l.Queue.Close()
	})
	return
}

// Stream is a Link over plain streams.
type Stream struct {
	reader io.ByteReader
	writer io.Writer
	closer io.Closer

	closeOnce sync.Once
	closed    chan struct{}
}

// NewStream creates a Stream. closer may be nil.
func NewStream(r io.Reader, w io.Writer, closer io.Closer) *Stream {
	s := &Stream{
		writer: w,
		closer: closer,
		closed: make(chan struct{}),
	}
	if r != nil {
		s.reader = bufio.NewReader(r)
	}
	return s
}

func (s *Stream) withByteReader(r io.ByteReader) *Stream {
	s.reader = r
	return s
}

// ReadByte implements io.ByteReader.
func (s *Stream) ReadByte() (byte, error) {
	b, err := s.reader.ReadByte()
	if err != nil {
		select {
		case <-s.closed:
			return 0, ErrClosed
		default:
		}
	}
	return b, err
}

// Write implements io.Writer.
func (s *Stream) Write(p []byte) (int, error) {
	return s.writer.Write(p)
}

// Close implements io.Closer.
func (s *Stream) Close() (err error) {
	s.closeOnce.Do(func() {
		close(s.closed)
		if s.closer != nil {
			err = s.closer.Close()
		}
	})
	return
}

// Detached is a Link reading r on its own goroutine, for readers which
// can't be unblocked by Close. Close returns a pending ReadByte at once
// and leaves the goroutine blocked on r.
type Detached struct {
	writer  io.Writer
	readCh  chan readResult
	readErr error

	closeOnce sync.Once
	closed    chan struct{}
}

type readResult struct {
	b   byte
	err error
}

// NewDetached creates a Detached and starts reading r.
func NewDetached(r io.Reader, w io.Writer) *Detached {
	d := &Detached{
		writer: w,
		readCh: make(chan readResult),
		closed: make(chan struct{}),
	}
	go d.pump(bufio.NewReader(r))
	return d
}

func (d *Detached) pump(r *bufio.Reader) {
	for {
		b, err := r.ReadByte()
		select {
		case d.readCh <- readResult{b: b, err: err}:
		case <-d.closed:
			return
		}
		if err != nil {
			return
		}
	}
}

// ReadByte implements io.ByteReader. It must not be called concurrently.
func (d *Detached) ReadByte() (byte, error) {
	if d.readErr != nil {
		return 0, d.readErr
	}
	select {
	case res := <-d.readCh:
		d.readErr = res.err
		return res.b, res.err
	case <-d.closed:
		return 0, ErrClosed
	}
}

// Write implements io.Writer.
func (d *Detached) Write(p []byte) (int, error) {
	return d.writer.Write(p)
}

// Close implements io.Closer.
func (d *Detached) Close() error {
	d.closeOnce.Do(func() {
		close(d.closed)
	})
	return nil
}
