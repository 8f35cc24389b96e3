package message

import (
	"encoding/json"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/Govcraft/emergent-primitives/errors"
	"github.com/Govcraft/emergent-primitives/pkg/timestamp"
)

// Envelope is the immutable unit of application data exchanged between
// primitives and the engine. Once constructed no field may be mutated;
// derive a changed copy with WithSource instead.
//
// Envelopes are produced by a Builder on the publishing side and
// reconstructed from wire bytes on the consuming side.
type Envelope struct {
	id            string
	messageType   string
	source        string
	correlationID string
	causationID   string
	ts            int64
	payload       any
	metadata      map[string]string
}

// ID returns the globally unique envelope identifier. IDs are UUIDv7, so
// they sort by creation time.
func (e *Envelope) ID() string {
	return e.id
}

// Type returns the dot-delimited routing string, e.g. "order.created".
func (e *Envelope) Type() string {
	return e.messageType
}

// Source returns the name of the publishing client. The engine-facing
// value is always overwritten with the local client's identity at publish
// time; caller-supplied sources never reach the wire.
func (e *Envelope) Source() string {
	return e.source
}

// CorrelationID returns the optional identifier linking request/response
// style message chains, or empty.
func (e *Envelope) CorrelationID() string {
	return e.correlationID
}

// CausationID returns the optional identifier of the message that
// triggered this one, or empty.
func (e *Envelope) CausationID() string {
	return e.causationID
}

// Timestamp returns the creation instant as Unix milliseconds.
func (e *Envelope) Timestamp() int64 {
	return e.ts
}

// Time returns the creation instant as a time.Time.
func (e *Envelope) Time() time.Time {
	return timestamp.FromUnixMs(e.ts)
}

// Payload returns the opaque application data.
func (e *Envelope) Payload() any {
	return e.payload
}

// Metadata returns a copy of the open key-value tracing bag.
// Mutating the returned map does not affect the envelope.
func (e *Envelope) Metadata() map[string]string {
	if len(e.metadata) == 0 {
		return nil
	}
	out := make(map[string]string, len(e.metadata))
	for k, v := range e.metadata {
		out[k] = v
	}
	return out
}

// WithSource returns a copy of the envelope with the source replaced.
// Used by the client facade at publish time; the envelope itself stays
// immutable.
func (e *Envelope) WithSource(source string) *Envelope {
	clone := *e
	clone.source = source
	return &clone
}

// wireEnvelope is the exported-field representation used for JSON and
// msgpack serialization of the otherwise opaque Envelope.
type wireEnvelope struct {
	ID            string            `json:"id" msgpack:"id"`
	Type          string            `json:"message_type" msgpack:"message_type"`
	Source        string            `json:"source" msgpack:"source"`
	CorrelationID string            `json:"correlation_id,omitempty" msgpack:"correlation_id,omitempty"`
	CausationID   string            `json:"causation_id,omitempty" msgpack:"causation_id,omitempty"`
	Timestamp     int64             `json:"timestamp" msgpack:"timestamp"`
	Payload       any               `json:"payload,omitempty" msgpack:"payload,omitempty"`
	Metadata      map[string]string `json:"metadata,omitempty" msgpack:"metadata,omitempty"`
}

func (e *Envelope) toWire() wireEnvelope {
	return wireEnvelope{
		ID:            e.id,
		Type:          e.messageType,
		Source:        e.source,
		CorrelationID: e.correlationID,
		CausationID:   e.causationID,
		Timestamp:     e.ts,
		Payload:       e.payload,
		Metadata:      e.metadata,
	}
}

func (e *Envelope) fromWire(w wireEnvelope) error {
	if err := ValidateType(w.Type); err != nil {
		return errors.WrapInvalid(err, "Envelope", "fromWire", "validate message type")
	}
	e.id = w.ID
	e.messageType = w.Type
	e.source = w.Source
	e.correlationID = w.CorrelationID
	e.causationID = w.CausationID
	e.ts = w.Timestamp
	e.payload = w.Payload
	e.metadata = w.Metadata
	return nil
}

// MarshalJSON implements json.Marshaler.
func (e *Envelope) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.toWire())
}

// UnmarshalJSON implements json.Unmarshaler.
func (e *Envelope) UnmarshalJSON(data []byte) error {
	var w wireEnvelope
	if err := json.Unmarshal(data, &w); err != nil {
		return errors.WrapInvalid(err, "Envelope", "UnmarshalJSON", "decode wire format")
	}
	return e.fromWire(w)
}

// EncodeMsgpack implements msgpack.CustomEncoder.
func (e *Envelope) EncodeMsgpack(enc *msgpack.Encoder) error {
	return enc.Encode(e.toWire())
}

// DecodeMsgpack implements msgpack.CustomDecoder.
func (e *Envelope) DecodeMsgpack(dec *msgpack.Decoder) error {
	var w wireEnvelope
	if err := dec.Decode(&w); err != nil {
		return errors.WrapInvalid(err, "Envelope", "DecodeMsgpack", "decode wire format")
	}
	return e.fromWire(w)
}
