package message

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Govcraft/emergent-primitives/errors"
	"github.com/Govcraft/emergent-primitives/pkg/timestamp"
)

// ValidateType checks that a message type is a usable dot-delimited
// routing string.
func ValidateType(messageType string) error {
	switch {
	case messageType == "":
		return fmt.Errorf("%w: message type is empty", errors.ErrInvalidData)
	case strings.ContainsAny(messageType, " \t\n"):
		return fmt.Errorf("%w: message type %q contains whitespace", errors.ErrInvalidData, messageType)
	case strings.HasPrefix(messageType, ".") || strings.HasSuffix(messageType, "."):
		return fmt.Errorf("%w: message type %q has a leading or trailing dot", errors.ErrInvalidData, messageType)
	}
	return nil
}

// Builder accumulates envelope fields and produces a fresh immutable
// Envelope per Build call. The builder itself is mutable and is not the
// artifact transmitted; reusing one after Build is allowed and yields
// independent envelopes with distinct ids.
//
// Example:
//
//	env, err := message.NewBuilder("order.created").
//	    Payload(map[string]any{"id": 42}).
//	    Metadata("trace_id", traceID).
//	    Build()
type Builder struct {
	messageType   string
	source        string
	correlationID string
	causationID   string
	ts            int64
	payload       any
	metadata      map[string]string
}

// NewBuilder starts a builder for the given message type.
func NewBuilder(messageType string) *Builder {
	return &Builder{messageType: messageType}
}

// Payload sets the opaque application data.
func (b *Builder) Payload(v any) *Builder {
	b.payload = v
	return b
}

// Source sets the publishing client name. Client facades overwrite this
// with their own identity at publish time regardless.
func (b *Builder) Source(source string) *Builder {
	b.source = source
	return b
}

// CorrelationID links this envelope into a request/response style chain.
func (b *Builder) CorrelationID(id string) *Builder {
	b.correlationID = id
	return b
}

// CausationID records the envelope that triggered this one.
func (b *Builder) CausationID(id string) *Builder {
	b.causationID = id
	return b
}

// Metadata adds one tracing key-value pair.
func (b *Builder) Metadata(key, value string) *Builder {
	if b.metadata == nil {
		b.metadata = make(map[string]string)
	}
	b.metadata[key] = value
	return b
}

// Time sets a specific creation timestamp instead of time.Now().
// Useful for historical data import or testing.
func (b *Builder) Time(t time.Time) *Builder {
	b.ts = timestamp.ToUnixMs(t)
	return b
}

// CausedBy fills correlation and causation ids from the envelope this one
// responds to: causation points at the trigger, correlation carries the
// chain id (falling back to the trigger's own id when it started a chain).
func (b *Builder) CausedBy(trigger *Envelope) *Builder {
	if trigger == nil {
		return b
	}
	b.causationID = trigger.ID()
	if cid := trigger.CorrelationID(); cid != "" {
		b.correlationID = cid
	} else {
		b.correlationID = trigger.ID()
	}
	return b
}

// Build validates the accumulated fields and returns a new immutable
// envelope with a fresh time-sortable id.
func (b *Builder) Build() (*Envelope, error) {
	if err := ValidateType(b.messageType); err != nil {
		return nil, errors.WrapInvalid(err, "Builder", "Build", "validate message type")
	}

	ts := b.ts
	if ts == 0 {
		ts = timestamp.Now()
	}

	var metadata map[string]string
	if len(b.metadata) > 0 {
		metadata = make(map[string]string, len(b.metadata))
		for k, v := range b.metadata {
			metadata[k] = v
		}
	}

	return &Envelope{
		id:            newID(),
		messageType:   b.messageType,
		source:        b.source,
		correlationID: b.correlationID,
		causationID:   b.causationID,
		ts:            ts,
		payload:       b.payload,
		metadata:      metadata,
	}, nil
}

// New is shorthand for NewBuilder(messageType).Payload(payload).Build().
func New(messageType string, payload any) (*Envelope, error) {
	return NewBuilder(messageType).Payload(payload).Build()
}

// newID returns a UUIDv7, which embeds a millisecond timestamp prefix so
// ids sort by creation time. Falls back to random UUIDv4 if the system
// clock or entropy source misbehaves.
func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return id.String()
}
