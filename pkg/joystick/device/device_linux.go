// +build linux

package device

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"syscall"
	"unsafe"
)

const (
	iocGNAME uint = 0x80ff6a13

	evINIT uint8 = 0x80
	evBTN  uint8 = 0x01
	evAXIS uint8 = 0x02

	eventSize = 8
)

type jsDevice struct {
	file  *os.File
	index int
	name  string
	buf   [eventSize]byte
}

// Open opens the device with specified index.
func Open(index int) (Device, error) {
	f, err := os.OpenFile(fmt.Sprintf("/dev/input/js%d", index), os.O_RDONLY, 0)
	if err != nil {
		return nil, err
	}
	d := &jsDevice{file: f, index: index}
	var name [256]byte
	if errno := d.ioctl(iocGNAME, unsafe.Pointer(&name)); errno != 0 {
		f.Close()
		return nil, errno
	}
	if pos := bytes.IndexByte(name[:], 0); pos >= 0 {
		d.name = string(name[:pos])
	} else {
		d.name = string(name[:])
	}
	return d, nil
}

// DetectAndOpen opens the first available device from startIndex.
// It returns os.ErrNotExist if none is found.
func DetectAndOpen(startIndex int) (Device, error) {
	for index := startIndex; index < 256; index++ {
		d, err := Open(index)
		if os.IsNotExist(err) {
			continue
		}
		return d, err
	}
	return nil, os.ErrNotExist
}

func (d *jsDevice) Close() error {
	return d.file.Close()
}

func (d *jsDevice) Index() int {
	return d.index
}

func (d *jsDevice) Name() string {
	return d.name
}

func (d *jsDevice) ReadEvent() (Event, error) {
	if _, err := io.ReadFull(d.file, d.buf[:]); err != nil {
		return Event{}, err
	}
	return decodeEvent(d.buf[:]), nil
}

// decodeEvent decodes struct js_event: time(u32) value(s16) type(u8) number(u8).
func decodeEvent(buf []byte) Event {
	typ := buf[6]
	ev := Event{
		Init:  typ&evINIT != 0,
		Index: int(buf[7]),
		Value: int(int16(binary.LittleEndian.Uint16(buf[4:]))),
	}
	switch typ &^ evINIT {
	case evBTN:
		ev.Kind = KindButton
	case evAXIS:
		ev.Kind = KindAxis
	}
	return ev
}

func (d *jsDevice) ioctl(req uint, ptr unsafe.Pointer) syscall.Errno {
	_, _, err := syscall.Syscall(syscall.SYS_IOCTL, d.file.Fd(), uintptr(req), uintptr(ptr))
	return err
}
