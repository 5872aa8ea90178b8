// Package msgs defines the telemetry published by the rover.
package msgs

import (
	"github.com/golang/protobuf/proto"
)

// RoverStatus is an event reporting the outputs after one phase.
type RoverStatus struct {
	Command   uint32 `protobuf:"varint,1,opt,name=command,proto3" json:"command,omitempty"`
	Direction string `protobuf:"bytes,2,opt,name=direction,proto3" json:"direction,omitempty"`
	Color     uint32 `protobuf:"varint,3,opt,name=color,proto3" json:"color,omitempty"`
	Latch     bool   `protobuf:"varint,4,opt,name=latch,proto3" json:"latch,omitempty"`
	DutyRed   uint32 `protobuf:"varint,5,opt,name=duty_red,proto3" json:"duty_red,omitempty"`
	DutyGreen uint32 `protobuf:"varint,6,opt,name=duty_green,proto3" json:"duty_green,omitempty"`
	DutyBlue  uint32 `protobuf:"varint,7,opt,name=duty_blue,proto3" json:"duty_blue,omitempty"`
	Status    string `protobuf:"bytes,8,opt,name=status,proto3" json:"status,omitempty"`
}

// ProtoMessage implements proto.Message.
func (m *RoverStatus) ProtoMessage() {}

// Reset implements proto.Message.
func (m *RoverStatus) Reset() { *m = RoverStatus{} }

// String implements proto.Message.
func (m *RoverStatus) String() string { return proto.CompactTextString(m) }

// Encode serializes the status.
func (m *RoverStatus) Encode() ([]byte, error) {
	return proto.Marshal(m)
}

// DecodeRoverStatus parses a serialized status.
func DecodeRoverStatus(data []byte) (*RoverStatus, error) {
	var m RoverStatus
	if err := proto.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}
