package frame

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Govcraft/emergent-primitives/errors"
)

type testPayload struct {
	Name  string `json:"name" msgpack:"name"`
	Count int    `json:"count" msgpack:"count"`
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	for _, format := range []Format{FormatJSON, FormatBinary} {
		t.Run(format.String(), func(t *testing.T) {
			in := testPayload{Name: "order.created", Count: 42}

			data, err := Encode(MsgTypeRequest, in, format)
			require.NoError(t, err)

			f, consumed, err := TryDecode(data)
			require.NoError(t, err)
			require.NotNil(t, f)

			assert.Equal(t, len(data), consumed)
			assert.Equal(t, HeaderSize+len(f.Payload), consumed)
			assert.Equal(t, MsgTypeRequest, f.Type)
			assert.Equal(t, format, f.Format)

			var out testPayload
			require.NoError(t, f.Unmarshal(&out))
			assert.Equal(t, in, out)
		})
	}
}

func TestTryDecode_PartialBuffer(t *testing.T) {
	data, err := Encode(MsgTypePush, testPayload{Name: "x", Count: 1}, FormatBinary)
	require.NoError(t, err)

	// Feed the frame one byte at a time: Incomplete until the final byte,
	// never an error, then the complete frame exactly once.
	for i := 0; i < len(data); i++ {
		f, consumed, err := TryDecode(data[:i])
		require.NoError(t, err, "prefix of %d bytes", i)
		assert.Nil(t, f)
		assert.Zero(t, consumed)
	}

	f, consumed, err := TryDecode(data)
	require.NoError(t, err)
	require.NotNil(t, f)
	assert.Equal(t, len(data), consumed)
}

func TestTryDecode_TrailingBytesLeftAlone(t *testing.T) {
	first, err := Encode(MsgTypeResponse, testPayload{Name: "a"}, FormatJSON)
	require.NoError(t, err)
	second, err := Encode(MsgTypeResponse, testPayload{Name: "b"}, FormatJSON)
	require.NoError(t, err)

	buf := append(append([]byte{}, first...), second...)

	f, consumed, err := TryDecode(buf)
	require.NoError(t, err)
	require.NotNil(t, f)
	assert.Equal(t, len(first), consumed)

	var out testPayload
	require.NoError(t, f.Unmarshal(&out))
	assert.Equal(t, "a", out.Name)
}

func TestTryDecode_PayloadSurvivesBufferReuse(t *testing.T) {
	data, err := Encode(MsgTypePush, testPayload{Name: "keep"}, FormatJSON)
	require.NoError(t, err)

	f, _, err := TryDecode(data)
	require.NoError(t, err)

	// Clobber the source buffer: the frame payload must be unaffected.
	for i := range data {
		data[i] = 0xFF
	}

	var out testPayload
	require.NoError(t, f.Unmarshal(&out))
	assert.Equal(t, "keep", out.Name)
}

func TestTryDecode_VersionMismatch(t *testing.T) {
	data, err := Encode(MsgTypeRequest, testPayload{}, FormatBinary)
	require.NoError(t, err)
	data[4] = ProtocolVersion + 1

	_, _, err = TryDecode(data)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrProtocol)
}

func TestTryDecode_UnknownFormat(t *testing.T) {
	data, err := Encode(MsgTypeRequest, testPayload{}, FormatBinary)
	require.NoError(t, err)
	data[6] = 99

	_, _, err = TryDecode(data)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrProtocol)
}

func TestTryDecode_OversizedDeclaredLength(t *testing.T) {
	data, err := Encode(MsgTypeRequest, testPayload{}, FormatBinary)
	require.NoError(t, err)
	binary.BigEndian.PutUint32(data[0:4], MaxPayloadSize+1)

	_, _, err = TryDecode(data)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrProtocol)
}

func TestEncode_PayloadTooLarge(t *testing.T) {
	big := make([]byte, MaxPayloadSize+1)

	_, err := Encode(MsgTypeRequest, big, FormatJSON)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrFrameTooLarge)
}

func TestEncode_UnserializableValue(t *testing.T) {
	_, err := Encode(MsgTypeRequest, make(chan int), FormatJSON)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrEncoding)
}

func TestUnmarshal_MalformedPayload(t *testing.T) {
	var out testPayload
	err := Unmarshal(FormatJSON, []byte("{not json"), &out)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrProtocol)
}

func TestRawPayload_DeferredDecode(t *testing.T) {
	for _, format := range []Format{FormatJSON, FormatBinary} {
		t.Run(format.String(), func(t *testing.T) {
			inner := testPayload{Name: "nested", Count: 7}
			raw, err := Marshal(format, inner)
			require.NoError(t, err)

			push := PushNotification{
				NotificationID: "n-1",
				MessageType:    "order.created",
				Payload:        RawPayload(raw),
				Timestamp:      1672574400000,
			}

			data, err := Marshal(format, push)
			require.NoError(t, err)

			var decoded PushNotification
			require.NoError(t, Unmarshal(format, data, &decoded))
			assert.Equal(t, "order.created", decoded.MessageType)

			var out testPayload
			require.NoError(t, Unmarshal(format, decoded.Payload, &out))
			assert.Equal(t, inner, out)
		})
	}
}

func TestMsgTypeString(t *testing.T) {
	assert.Equal(t, "request", MsgTypeRequest.String())
	assert.Equal(t, "push", MsgTypePush.String())
	assert.Equal(t, "unknown(42)", MsgType(42).String())
}
