package frame

import (
	"github.com/vmihailenco/msgpack/v5"
)

// Kind identifies which primitive role a client plays against the engine.
// The engine phases shutdown by kind: sources first, then handlers, then
// sinks, so downstream consumers can drain before producers vanish.
type Kind string

// Primitive kinds.
const (
	KindSource  Kind = "source"
	KindHandler Kind = "handler"
	KindSink    Kind = "sink"
)

// ShutdownType is the internal push message type instructing primitives of
// a given kind to end their subscription stream. It is consumed by the
// protocol engine and never surfaces to application consumers.
const ShutdownType = "system.shutdown"

// Well-known routing targets the engine maps to internal handlers.
const (
	// TargetDispatch is the engine's message-dispatch actor; published
	// envelopes are addressed to it.
	TargetDispatch = "dispatch"
	// TargetSubscriptions manages a client's subscription set.
	TargetSubscriptions = "subscriptions"
	// TargetDiscovery answers capability discovery requests.
	TargetDiscovery = "discovery"
	// TargetConfig is the configuration-service actor answering
	// subscription and topology queries.
	TargetConfig = "config"
)

// RawPayload holds an encoded payload verbatim so nested values can be
// deferred-decoded per the enclosing frame's format, mirroring
// json.RawMessage for both supported formats.
type RawPayload []byte

// MarshalJSON writes the raw bytes through unchanged.
func (p RawPayload) MarshalJSON() ([]byte, error) {
	if len(p) == 0 {
		return []byte("null"), nil
	}
	return p, nil
}

// UnmarshalJSON captures the raw bytes without decoding them.
func (p *RawPayload) UnmarshalJSON(data []byte) error {
	*p = append((*p)[:0], data...)
	return nil
}

// EncodeMsgpack writes the raw bytes through unchanged.
func (p RawPayload) EncodeMsgpack(enc *msgpack.Encoder) error {
	if len(p) == 0 {
		return enc.EncodeNil()
	}
	return enc.Encode(msgpack.RawMessage(p))
}

// DecodeMsgpack captures the raw bytes without decoding them.
func (p *RawPayload) DecodeMsgpack(dec *msgpack.Decoder) error {
	var raw msgpack.RawMessage
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	*p = append((*p)[:0], raw...)
	return nil
}

// RequestEnvelope is the application-level payload of Request, Subscribe,
// Unsubscribe, and Discover frames. Target is a well-known routing name the
// engine maps to an internal handler.
type RequestEnvelope struct {
	CorrelationID string     `json:"correlation_id" msgpack:"correlation_id"`
	Target        string     `json:"target" msgpack:"target"`
	MessageType   string     `json:"message_type" msgpack:"message_type"`
	Payload       RawPayload `json:"payload,omitempty" msgpack:"payload,omitempty"`
	ExpectsReply  bool       `json:"expects_reply" msgpack:"expects_reply"`
}

// ResponseEnvelope is the application-level payload of Response and Error
// frames. The engine echoes the client-chosen correlation identifier
// verbatim.
type ResponseEnvelope struct {
	CorrelationID string     `json:"correlation_id" msgpack:"correlation_id"`
	Success       bool       `json:"success" msgpack:"success"`
	Error         string     `json:"error,omitempty" msgpack:"error,omitempty"`
	ErrorCode     string     `json:"error_code,omitempty" msgpack:"error_code,omitempty"`
	Payload       RawPayload `json:"payload,omitempty" msgpack:"payload,omitempty"`
}

// PushNotification is the application-level payload of Push and Stream
// frames. Payload holds a full application envelope for user events, or a
// ShutdownSignal when MessageType is ShutdownType.
type PushNotification struct {
	NotificationID string     `json:"notification_id" msgpack:"notification_id"`
	MessageType    string     `json:"message_type" msgpack:"message_type"`
	SourceActor    string     `json:"source_actor,omitempty" msgpack:"source_actor,omitempty"`
	Payload        RawPayload `json:"payload" msgpack:"payload"`
	Timestamp      int64      `json:"timestamp" msgpack:"timestamp"`
}

// ShutdownSignal is the payload of a ShutdownType push notification.
type ShutdownSignal struct {
	Kind Kind `json:"kind" msgpack:"kind"`
}

// SubscribeRequest is the payload of Subscribe and Unsubscribe request
// envelopes.
type SubscribeRequest struct {
	Types []string `json:"types" msgpack:"types"`
}

// SubscriptionList is the response payload of a subscriptions query.
type SubscriptionList struct {
	Subscriptions []string `json:"subscriptions" msgpack:"subscriptions"`
}
