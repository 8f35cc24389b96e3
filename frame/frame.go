// Package frame implements the Emergent wire protocol: length-prefixed
// binary framing, payload serialization formats, and the application-level
// envelopes carried inside frames.
package frame

import (
	"encoding/binary"
	"encoding/json"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/Govcraft/emergent-primitives/errors"
)

// ProtocolVersion is the wire protocol version this client speaks.
// A frame carrying any other version is rejected as a protocol violation.
const ProtocolVersion = 2

// HeaderSize is the fixed frame header length in bytes:
// [length:u32][version:u8][msg_type:u8][format:u8], all big-endian.
const HeaderSize = 7

// MaxPayloadSize is the largest payload a frame may carry (16 MiB).
// Oversized payloads fail locally at encode time; an oversized declared
// length on decode is a protocol failure.
const MaxPayloadSize = 16 << 20

// MsgType identifies the purpose of a frame.
type MsgType uint8

// Frame message types.
const (
	MsgTypeRequest     MsgType = 1
	MsgTypeResponse    MsgType = 2
	MsgTypeError       MsgType = 3
	MsgTypeHeartbeat   MsgType = 4
	MsgTypePush        MsgType = 5
	MsgTypeSubscribe   MsgType = 6
	MsgTypeUnsubscribe MsgType = 7
	MsgTypeDiscover    MsgType = 8
	MsgTypeStream      MsgType = 9
)

// String returns the string representation of MsgType
func (t MsgType) String() string {
	switch t {
	case MsgTypeRequest:
		return "request"
	case MsgTypeResponse:
		return "response"
	case MsgTypeError:
		return "error"
	case MsgTypeHeartbeat:
		return "heartbeat"
	case MsgTypePush:
		return "push"
	case MsgTypeSubscribe:
		return "subscribe"
	case MsgTypeUnsubscribe:
		return "unsubscribe"
	case MsgTypeDiscover:
		return "discover"
	case MsgTypeStream:
		return "stream"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(t))
	}
}

// Format identifies the serialization of a frame's payload.
type Format uint8

// Payload serialization formats.
const (
	// FormatJSON is human-readable JSON, useful for debugging.
	FormatJSON Format = 1
	// FormatBinary is the compact msgpack map format, the default.
	FormatBinary Format = 2
)

// String returns the string representation of Format
func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatBinary:
		return "binary"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(f))
	}
}

// valid reports whether the format tag is one this client can decode.
func (f Format) valid() bool {
	return f == FormatJSON || f == FormatBinary
}

// Frame is one decoded unit of wire transmission. The payload is kept as
// raw bytes; Unmarshal decodes it per the frame's format. A frame is fully
// self-describing: the decoder needs no external context to identify its
// type or format.
type Frame struct {
	Type    MsgType
	Format  Format
	Payload []byte
}

// Unmarshal decodes the frame payload into v per the frame's format.
func (f *Frame) Unmarshal(v any) error {
	return Unmarshal(f.Format, f.Payload, v)
}

// Marshal serializes v per the given format.
func Marshal(f Format, v any) ([]byte, error) {
	var data []byte
	var err error
	switch f {
	case FormatJSON:
		data, err = json.Marshal(v)
	case FormatBinary:
		data, err = msgpack.Marshal(v)
	default:
		return nil, fmt.Errorf("%w: unknown format tag %d", errors.ErrEncoding, uint8(f))
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrEncoding, err)
	}
	return data, nil
}

// Unmarshal decodes data into v per the given format. A payload that does
// not parse under its declared format is a protocol violation.
func Unmarshal(f Format, data []byte, v any) error {
	var err error
	switch f {
	case FormatJSON:
		err = json.Unmarshal(data, v)
	case FormatBinary:
		err = msgpack.Unmarshal(data, v)
	default:
		return fmt.Errorf("%w: unknown format tag %d", errors.ErrProtocol, uint8(f))
	}
	if err != nil {
		return fmt.Errorf("%w: decode %s payload: %v", errors.ErrProtocol, f, err)
	}
	return nil
}

// Encode serializes payload per format and wraps it in a wire frame.
//
// Fails with ErrEncoding if the serializer rejects the value and with
// ErrFrameTooLarge if the serialized payload exceeds MaxPayloadSize.
func Encode(t MsgType, payload any, f Format) ([]byte, error) {
	data, err := Marshal(f, payload)
	if err != nil {
		return nil, err
	}
	if len(data) > MaxPayloadSize {
		return nil, fmt.Errorf("%w: payload is %d bytes, limit %d",
			errors.ErrFrameTooLarge, len(data), MaxPayloadSize)
	}

	buf := make([]byte, HeaderSize+len(data))
	binary.BigEndian.PutUint32(buf[0:4], uint32(len(data)))
	buf[4] = ProtocolVersion
	buf[5] = uint8(t)
	buf[6] = uint8(f)
	copy(buf[HeaderSize:], data)
	return buf, nil
}

// TryDecode attempts to extract one complete frame from the head of buf.
//
// Returns (nil, 0, nil) while buf holds fewer bytes than a complete frame;
// the caller accumulates more bytes and retries. It never blocks and never
// fails on a short buffer.
//
// Once the header is present, the protocol version, declared payload
// length, and format tag are validated; any mismatch returns ErrProtocol
// and the connection's buffered bytes can no longer be trusted.
//
// On success returns the decoded frame and the exact byte count consumed,
// so the caller can advance its buffer without copying more than the frame.
// The frame's payload is copied out of buf and remains valid after the
// caller reuses the buffer.
func TryDecode(buf []byte) (*Frame, int, error) {
	if len(buf) < HeaderSize {
		return nil, 0, nil
	}

	length := binary.BigEndian.Uint32(buf[0:4])
	version := buf[4]
	msgType := MsgType(buf[5])
	format := Format(buf[6])

	if version != ProtocolVersion {
		return nil, 0, fmt.Errorf("%w: version %d, expected %d",
			errors.ErrProtocol, version, ProtocolVersion)
	}
	if length > MaxPayloadSize {
		return nil, 0, fmt.Errorf("%w: declared payload length %d exceeds limit %d",
			errors.ErrProtocol, length, MaxPayloadSize)
	}
	if !format.valid() {
		return nil, 0, fmt.Errorf("%w: unknown format tag %d", errors.ErrProtocol, uint8(format))
	}

	total := HeaderSize + int(length)
	if len(buf) < total {
		return nil, 0, nil
	}

	payload := make([]byte, length)
	copy(payload, buf[HeaderSize:total])

	return &Frame{Type: msgType, Format: format, Payload: payload}, total, nil
}
