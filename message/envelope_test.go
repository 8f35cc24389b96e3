package message

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/Govcraft/emergent-primitives/errors"
)

func TestBuilder_Build(t *testing.T) {
	env, err := NewBuilder("order.created").
		Payload(map[string]any{"id": 42}).
		Source("order-service").
		Metadata("trace_id", "t-1").
		Build()

	require.NoError(t, err)
	assert.NotEmpty(t, env.ID())
	assert.Equal(t, "order.created", env.Type())
	assert.Equal(t, "order-service", env.Source())
	assert.Equal(t, map[string]string{"trace_id": "t-1"}, env.Metadata())
	assert.InDelta(t, time.Now().UnixMilli(), env.Timestamp(), 1000)
}

func TestBuilder_EmptyTypeRejected(t *testing.T) {
	_, err := NewBuilder("").Build()
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrInvalidData)
}

func TestValidateType(t *testing.T) {
	assert.NoError(t, ValidateType("order.created"))
	assert.NoError(t, ValidateType("tick"))

	assert.Error(t, ValidateType(""))
	assert.Error(t, ValidateType("has space"))
	assert.Error(t, ValidateType(".leading"))
	assert.Error(t, ValidateType("trailing."))
}

func TestBuilder_IDsSortByCreationTime(t *testing.T) {
	first, err := NewBuilder("a.b").Build()
	require.NoError(t, err)

	time.Sleep(2 * time.Millisecond)

	second, err := NewBuilder("a.b").Build()
	require.NoError(t, err)

	assert.NotEqual(t, first.ID(), second.ID())
	assert.Less(t, first.ID(), second.ID())
}

func TestBuilder_ReuseYieldsIndependentEnvelopes(t *testing.T) {
	b := NewBuilder("sensor.reading").Payload(1)

	one, err := b.Build()
	require.NoError(t, err)
	two, err := b.Build()
	require.NoError(t, err)

	assert.NotEqual(t, one.ID(), two.ID())
}

func TestBuilder_ExplicitTime(t *testing.T) {
	past := time.Now().Add(-time.Hour)
	env, err := NewBuilder("a.b").Time(past).Build()

	require.NoError(t, err)
	assert.WithinDuration(t, past, env.Time(), time.Millisecond)
}

func TestBuilder_CausedBy(t *testing.T) {
	trigger, err := NewBuilder("order.created").Build()
	require.NoError(t, err)

	followup, err := NewBuilder("order.shipped").CausedBy(trigger).Build()
	require.NoError(t, err)

	assert.Equal(t, trigger.ID(), followup.CausationID())
	// The trigger started the chain, so its id becomes the correlation id.
	assert.Equal(t, trigger.ID(), followup.CorrelationID())

	third, err := NewBuilder("order.delivered").CausedBy(followup).Build()
	require.NoError(t, err)
	assert.Equal(t, followup.ID(), third.CausationID())
	assert.Equal(t, trigger.ID(), third.CorrelationID())
}

func TestEnvelope_WithSource(t *testing.T) {
	env, err := NewBuilder("a.b").Source("untrusted").Build()
	require.NoError(t, err)

	renamed := env.WithSource("real-client")

	assert.Equal(t, "untrusted", env.Source())
	assert.Equal(t, "real-client", renamed.Source())
	assert.Equal(t, env.ID(), renamed.ID())
}

func TestEnvelope_MetadataCopyIsolated(t *testing.T) {
	env, err := NewBuilder("a.b").Metadata("k", "v").Build()
	require.NoError(t, err)

	md := env.Metadata()
	md["k"] = "tampered"
	md["extra"] = "x"

	assert.Equal(t, map[string]string{"k": "v"}, env.Metadata())
}

func TestEnvelope_JSONRoundTrip(t *testing.T) {
	env, err := NewBuilder("order.created").
		Payload(map[string]any{"id": float64(42)}).
		Source("svc").
		CorrelationID("corr-1").
		CausationID("cause-1").
		Metadata("trace_id", "t-9").
		Build()
	require.NoError(t, err)

	data, err := json.Marshal(env)
	require.NoError(t, err)

	var out Envelope
	require.NoError(t, json.Unmarshal(data, &out))

	assert.Equal(t, env.ID(), out.ID())
	assert.Equal(t, env.Type(), out.Type())
	assert.Equal(t, env.Source(), out.Source())
	assert.Equal(t, env.CorrelationID(), out.CorrelationID())
	assert.Equal(t, env.CausationID(), out.CausationID())
	assert.Equal(t, env.Timestamp(), out.Timestamp())
	assert.Equal(t, map[string]any{"id": float64(42)}, out.Payload())
	assert.Equal(t, env.Metadata(), out.Metadata())
}

func TestEnvelope_MsgpackRoundTrip(t *testing.T) {
	env, err := NewBuilder("sensor.gps").
		Payload(map[string]any{"lat": 48.85}).
		Source("gps-reader").
		Build()
	require.NoError(t, err)

	data, err := msgpack.Marshal(env)
	require.NoError(t, err)

	var out Envelope
	require.NoError(t, msgpack.Unmarshal(data, &out))

	assert.Equal(t, env.ID(), out.ID())
	assert.Equal(t, env.Type(), out.Type())
	assert.Equal(t, env.Timestamp(), out.Timestamp())
}

func TestEnvelope_UnmarshalRejectsInvalidType(t *testing.T) {
	var out Envelope
	err := json.Unmarshal([]byte(`{"id":"x","message_type":"","source":"s"}`), &out)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrInvalidData)
}
