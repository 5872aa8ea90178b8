package link

import (
	"bytes"
	"io"
	"io/ioutil"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/net/websocket"
)

func TestOpenUnsupportedScheme(t *testing.T) {
	_, err := Open("bluetooth:rover", "r1")
	require.Error(t, err)
	schemeErr, ok := err.(*SchemeError)
	require.True(t, ok)
	require.Equal(t, "bluetooth", schemeErr.Scheme)
}

func TestOpenJoystickInvalidIndex(t *testing.T) {
	_, err := Open("joystick:first", "r1")
	require.Error(t, err)
}

func TestOpenSerialInvalid(t *testing.T) {
	for _, rawURL := range []string{
		"serial://",
		"serial:///dev/null?baud=fast",
		"serial:///dev/null?baud=-1",
		"serial:///dev/null?timeout=0",
	} {
		t.Run(rawURL, func(t *testing.T) {
			u, err := url.Parse(rawURL)
			require.NoError(t, err)
			_, err = OpenSerial(u)
			require.Error(t, err)
		})
	}
}

type closingReader struct {
	io.Reader
	closed bool
}

func (r *closingReader) Close() error {
	r.closed = true
	return nil
}

func TestStream(t *testing.T) {
	var out bytes.Buffer
	in := &closingReader{Reader: strings.NewReader("12")}
	s := NewStream(in, &out, in)
	for _, want := range []byte("12") {
		b, err := s.ReadByte()
		require.NoError(t, err)
		require.Equal(t, want, b)
	}
	_, err := s.ReadByte()
	require.Equal(t, io.EOF, err)

	_, err = s.Write([]byte("Stopped...\r\n"))
	require.NoError(t, err)
	require.Equal(t, "Stopped...\r\n", out.String())

	require.NoError(t, s.Close())
	require.True(t, in.closed)
	_, err = s.ReadByte()
	require.Equal(t, ErrClosed, err)
}

func TestDetachedCloseUnblocksRead(t *testing.T) {
	r, w := io.Pipe()
	defer w.Close()
	var out bytes.Buffer
	d := NewDetached(r, &out)

	go w.Write([]byte("1"))
	b, err := d.ReadByte()
	require.NoError(t, err)
	require.Equal(t, byte('1'), b)

	errCh := make(chan error, 1)
	go func() {
		_, err := d.ReadByte()
		errCh <- err
	}()
	time.Sleep(5 * time.Millisecond)
	require.NoError(t, d.Close())
	require.NoError(t, d.Close())
	require.Equal(t, ErrClosed, <-errCh)

	_, err = d.Write([]byte("Stopped...\r\n"))
	require.NoError(t, err)
	require.Equal(t, "Stopped...\r\n", out.String())
}

func TestDetachedEOF(t *testing.T) {
	d := NewDetached(strings.NewReader("2"), ioutil.Discard)
	b, err := d.ReadByte()
	require.NoError(t, err)
	require.Equal(t, byte('2'), b)
	for n := 0; n < 2; n++ {
		_, err = d.ReadByte()
		require.Equal(t, io.EOF, err)
	}
	require.NoError(t, d.Close())
}

// timeoutPort returns timeouts until a byte is queued.
type timeoutPort struct {
	lock    sync.Mutex
	pending []byte
	reads   int
	closed  bool
	written bytes.Buffer
	eof     bool
}

func (p *timeoutPort) Read(b []byte) (int, error) {
	time.Sleep(time.Millisecond)
	p.lock.Lock()
	defer p.lock.Unlock()
	p.reads++
	if p.closed {
		return 0, io.ErrClosedPipe
	}
	if len(p.pending) == 0 {
		if p.eof {
			return 0, io.EOF
		}
		return 0, nil
	}
	b[0] = p.pending[0]
	p.pending = p.pending[1:]
	return 1, nil
}

func (p *timeoutPort) Write(b []byte) (int, error) {
	p.lock.Lock()
	defer p.lock.Unlock()
	return p.written.Write(b)
}

func (p *timeoutPort) Close() error {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.closed = true
	return nil
}

func (p *timeoutPort) push(b byte) {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.pending = append(p.pending, b)
}

func TestSerialRetriesTimeouts(t *testing.T) {
	for _, eof := range []bool{false, true} {
		port := &timeoutPort{eof: eof}
		s := NewSerial(port)
		go func() {
			time.Sleep(10 * time.Millisecond)
			port.push('3')
		}()
		b, err := s.ReadByte()
		require.NoError(t, err)
		require.Equal(t, byte('3'), b)
		require.True(t, port.reads > 1)

		_, err = s.Write([]byte("Turning Right...\r\n"))
		require.NoError(t, err)
		require.Equal(t, "Turning Right...\r\n", port.written.String())
	}
}

func TestSerialCloseUnblocksRead(t *testing.T) {
	port := &timeoutPort{}
	s := NewSerial(port)
	errCh := make(chan error, 1)
	go func() {
		_, err := s.ReadByte()
		errCh <- err
	}()
	time.Sleep(5 * time.Millisecond)
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
	require.Equal(t, ErrClosed, <-errCh)
}

func TestWebSocket(t *testing.T) {
	replies := make(chan string, 1)
	server := httptest.NewServer(websocket.Handler(func(conn *websocket.Conn) {
		websocket.Message.Send(conn, "12")
		websocket.Message.Send(conn, []byte("4"))
		var reply string
		if websocket.Message.Receive(conn, &reply) == nil {
			replies <- reply
		}
	}))
	defer server.Close()

	u, err := url.Parse("ws" + strings.TrimPrefix(server.URL, "http"))
	require.NoError(t, err)
	w, err := DialWebSocket(u)
	require.NoError(t, err)
	for _, want := range []byte("124") {
		b, err := w.ReadByte()
		require.NoError(t, err)
		require.Equal(t, want, b)
	}
	_, err = w.Write([]byte("Moving Forward...\r\n"))
	require.NoError(t, err)
	require.Equal(t, "Moving Forward...\r\n", <-replies)

	require.NoError(t, w.Close())
	_, err = w.ReadByte()
	require.Equal(t, ErrClosed, err)
}
