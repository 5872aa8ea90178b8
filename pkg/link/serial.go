package link

import (
	"fmt"
	"io"
	"net/url"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/golang/glog"
	"github.com/tarm/serial"
)

// Serial defaults, matching a Bluetooth SPP module.
const (
	DefaultBaud        = 9600
	DefaultReadTimeout = 100 * time.Millisecond
)

// OpenSerial opens a serial port:
//
//	serial:///dev/ttyUSB0?baud=115200&timeout=200ms
func OpenSerial(u *url.URL) (*Serial, error) {
	conf := &serial.Config{
		Name:        u.Path,
		Baud:        DefaultBaud,
		ReadTimeout: DefaultReadTimeout,
	}
	if conf.Name == "" {
		conf.Name = u.Opaque
	}
	if conf.Name == "" {
		return nil, fmt.Errorf("serial device not specified")
	}
	query := u.Query()
	if val := query.Get("baud"); val != "" {
		baud, err := strconv.Atoi(val)
		if err != nil || baud <= 0 {
			return nil, fmt.Errorf("invalid baud rate %q", val)
		}
		conf.Baud = baud
	}
	if val := query.Get("timeout"); val != "" {
		timeout, err := time.ParseDuration(val)
		if err != nil || timeout <= 0 {
			return nil, fmt.Errorf("invalid read timeout %q", val)
		}
		conf.ReadTimeout = timeout
	}
	port, err := serial.OpenPort(conf)
	if err != nil {
		return nil, err
	}
	glog.Infof("serial %s opened at %d baud", conf.Name, conf.Baud)
	return NewSerial(port), nil
}

// Serial is a Link over a serial port opened with a read timeout. A
// timed out read is retried until a byte arrives or the port is closed.
type Serial struct {
	port   io.ReadWriteCloser
	buf    [1]byte
	closed int32
}

// NewSerial wraps an opened port.
func NewSerial(port io.ReadWriteCloser) *Serial {
	return &Serial{port: port}
}

// ReadByte implements io.ByteReader.
func (s *Serial) ReadByte() (byte, error) {
	for {
		n, err := s.port.Read(s.buf[:])
		if n > 0 {
			return s.buf[0], nil
		}
		if atomic.LoadInt32(&s.closed) != 0 {
			return 0, ErrClosed
		}
		// a read timeout shows as (0, nil) or (0, io.EOF) depending on the OS.
		if err != nil && err != io.EOF {
			return 0, err
		}
	}
}

// Write implements io.Writer.
func (s *Serial) Write(p []byte) (int, error) {
	return s.port.Write(p)
}

// Close implements io.Closer.
func (s *Serial) Close() error {
	if !atomic.CompareAndSwapInt32(&s.closed, 0, 1) {
		return nil
	}
	return s.port.Close()
}
