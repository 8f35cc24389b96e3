package client

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Govcraft/emergent-primitives/config"
	"github.com/Govcraft/emergent-primitives/errors"
	"github.com/Govcraft/emergent-primitives/frame"
	"github.com/Govcraft/emergent-primitives/message"
	"github.com/Govcraft/emergent-primitives/metric"
	"github.com/Govcraft/emergent-primitives/pkg/buffer"
	"github.com/Govcraft/emergent-primitives/pkg/retry"
)

// readBufferSize is the chunk size for socket reads. Frames larger than
// this accumulate across reads in the byte queue.
const readBufferSize = 32 * 1024

// Message types addressed to the engine's internal actors.
const (
	typeDiscoverCapabilities = "discovery.capabilities"
	typeSubscriptionAdd      = "subscriptions.add"
	typeSubscriptionRemove   = "subscriptions.remove"
	typeConfigSubscriptions  = "config.subscriptions"
	typeConfigTopology       = "config.topology"
)

// Client is the shared protocol engine behind the Source, Sink, and Handler
// facades: one Unix socket connection, a background read loop, correlated
// request/response tracking, and push demultiplexing into a Stream.
//
// All methods are safe for concurrent use.
type Client struct {
	cfg       config.Config
	kind      frame.Kind
	format    frame.Format
	logger    *slog.Logger
	metrics   *metric.Metrics
	dialRetry *retry.Config

	conn    net.Conn
	writeMu sync.Mutex // single-writer socket discipline

	corr *correlator

	mu         sync.Mutex
	stream     *Stream
	subscribed map[string]struct{}
	closed     bool

	loopDone chan struct{}
}

// connect dials the engine socket and starts the read loop. It is the
// shared implementation behind the three facade constructors.
func connect(ctx context.Context, kind frame.Kind, name string, opts ...Option) (*Client, error) {
	c := &Client{
		cfg:        config.FromEnv(name),
		kind:       kind,
		format:     frame.FormatBinary,
		logger:     slog.Default(),
		corr:       newCorrelator(),
		subscribed: make(map[string]struct{}),
		loopDone:   make(chan struct{}),
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	if err := c.cfg.Validate(); err != nil {
		return nil, err
	}

	c.logger = c.logger.With("component", "client", "client", c.cfg.ClientName, "kind", string(kind))

	dial := func(ctx context.Context) (net.Conn, error) {
		if _, err := os.Stat(c.cfg.SocketPath); err != nil {
			return nil, errors.WrapTransient(
				fmt.Errorf("%w: %s: %v", errors.ErrSocketNotFound, c.cfg.SocketPath, err),
				"Client", "connect", "locate engine socket")
		}
		dialer := net.Dialer{Timeout: c.cfg.DialTimeout}
		conn, err := dialer.DialContext(ctx, "unix", c.cfg.SocketPath)
		if err != nil {
			return nil, errors.WrapTransient(err, "Client", "connect", "dial engine socket")
		}
		return conn, nil
	}

	var conn net.Conn
	var err error
	if c.dialRetry != nil {
		conn, err = retry.DoWithResult(ctx, *c.dialRetry, func() (net.Conn, error) {
			return dial(ctx)
		})
	} else {
		conn, err = dial(ctx)
	}
	if err != nil {
		return nil, err
	}

	c.conn = conn
	c.recordConnected(true)
	c.logger.Info("connected to engine", "socket", c.cfg.SocketPath)

	go c.readLoop()

	return c, nil
}

// Name returns the client's identity as seen by the engine.
func (c *Client) Name() string {
	return c.cfg.ClientName
}

// publish sends an envelope to the engine's dispatch actor, fire and
// forget. The envelope's source is overwritten with this client's name so
// consumers can trust provenance.
func (c *Client) publish(_ context.Context, env *message.Envelope) error {
	if env == nil {
		return errors.WrapInvalid(
			fmt.Errorf("envelope is nil"),
			"Client", "Publish", "validate envelope")
	}
	if c.isClosed() {
		return errors.ErrClientClosed
	}

	stamped := env.WithSource(c.cfg.ClientName)
	raw, err := frame.Marshal(c.format, stamped)
	if err != nil {
		return errors.WrapInvalid(err, "Client", "Publish", "encode envelope")
	}

	req := frame.RequestEnvelope{
		CorrelationID: newCorrelationID(),
		Target:        frame.TargetDispatch,
		MessageType:   stamped.Type(),
		Payload:       frame.RawPayload(raw),
		ExpectsReply:  false,
	}

	return c.writeFrame(frame.MsgTypeRequest, req)
}

// request performs one correlated round trip: register, write, wait.
// A failure response from the engine surfaces as a RemoteError.
func (c *Client) request(ctx context.Context, msgType frame.MsgType, target, messageType string, payload any) (*frame.ResponseEnvelope, error) {
	if c.isClosed() {
		return nil, errors.ErrClientClosed
	}

	var raw frame.RawPayload
	if payload != nil {
		data, err := frame.Marshal(c.format, payload)
		if err != nil {
			return nil, errors.WrapInvalid(err, "Client", "request", "encode payload")
		}
		raw = frame.RawPayload(data)
	}

	id := newCorrelationID()
	req := frame.RequestEnvelope{
		CorrelationID: id,
		Target:        target,
		MessageType:   messageType,
		Payload:       raw,
		ExpectsReply:  true,
	}

	ch, err := c.corr.register(id, c.cfg.RequestTimeout)
	if err != nil {
		return nil, err
	}
	c.recordRequestStart()
	start := time.Now()

	if err := c.writeFrame(msgType, req); err != nil {
		c.corr.fail(id, err)
		<-ch
		c.recordRequestEnd(target, "write_error", time.Since(start))
		return nil, err
	}

	select {
	case r := <-ch:
		if r.err != nil {
			if stderrors.Is(r.err, errors.ErrTimeout) {
				c.recordRequestTimeout()
				c.recordRequestEnd(target, "timeout", time.Since(start))
				return nil, errors.WrapTransient(r.err, "Client", "request",
					fmt.Sprintf("await response from %s", target))
			}
			c.recordRequestEnd(target, "error", time.Since(start))
			return nil, r.err
		}
		if !r.resp.Success {
			c.recordRequestEnd(target, "rejected", time.Since(start))
			return r.resp, &errors.RemoteError{Code: r.resp.ErrorCode, Message: r.resp.Error}
		}
		c.recordRequestEnd(target, "success", time.Since(start))
		return r.resp, nil
	case <-ctx.Done():
		c.corr.fail(id, ctx.Err())
		<-ch
		c.recordRequestEnd(target, "cancelled", time.Since(start))
		return nil, ctx.Err()
	}
}

// subscribe registers interest in the given message types and returns a
// fresh stream for them. The engine-facing set transparently includes the
// shutdown type so lifecycle pushes reach this client; the local view never
// shows it.
func (c *Client) subscribe(ctx context.Context, types ...string) (*Stream, error) {
	if c.isClosed() {
		return nil, errors.ErrClientClosed
	}
	for _, t := range types {
		if err := message.ValidateType(t); err != nil {
			return nil, err
		}
	}

	wire := make([]string, 0, len(types)+1)
	seen := make(map[string]struct{}, len(types)+1)
	for _, t := range append(append([]string{}, types...), frame.ShutdownType) {
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		wire = append(wire, t)
	}

	_, err := c.request(ctx, frame.MsgTypeSubscribe, frame.TargetSubscriptions,
		typeSubscriptionAdd, frame.SubscribeRequest{Types: wire})
	if err != nil {
		var remote *errors.RemoteError
		if stderrors.As(err, &remote) {
			return nil, errors.WrapInvalid(
				fmt.Errorf("%w: %v", errors.ErrSubscriptionFailed, remote),
				"Client", "Subscribe", "register subscription")
		}
		return nil, err
	}

	var stream *Stream
	stream = newStream(func() { c.clearStream(stream) })

	// Replacing the pointer detaches any previous stream from push
	// delivery; closing it remains its owner's job.
	c.mu.Lock()
	c.stream = stream
	for _, t := range types {
		c.subscribed[t] = struct{}{}
	}
	c.mu.Unlock()

	return stream, nil
}

// unsubscribe removes interest in the given types. Best effort: an engine
// rejection is logged and the local set is updated regardless. The shutdown
// type is never removed.
func (c *Client) unsubscribe(ctx context.Context, types ...string) error {
	if c.isClosed() {
		return errors.ErrClientClosed
	}

	wire := make([]string, 0, len(types))
	for _, t := range types {
		if t == frame.ShutdownType {
			continue
		}
		wire = append(wire, t)
	}

	if len(wire) > 0 {
		_, err := c.request(ctx, frame.MsgTypeUnsubscribe, frame.TargetSubscriptions,
			typeSubscriptionRemove, frame.SubscribeRequest{Types: wire})
		if err != nil {
			c.logger.Warn("unsubscribe rejected, updating local set anyway",
				"types", wire, "error", err)
		}
	}

	c.mu.Lock()
	for _, t := range wire {
		delete(c.subscribed, t)
	}
	c.mu.Unlock()

	return nil
}

// discover queries the engine for the capability map of known primitives.
func (c *Client) discover(ctx context.Context) (map[string]any, error) {
	resp, err := c.request(ctx, frame.MsgTypeDiscover, frame.TargetDiscovery,
		typeDiscoverCapabilities, nil)
	if err != nil {
		return nil, err
	}

	var caps map[string]any
	if len(resp.Payload) > 0 {
		if err := frame.Unmarshal(c.format, resp.Payload, &caps); err != nil {
			return nil, errors.WrapInvalid(err, "Client", "Discover", "decode capability map")
		}
	}
	return caps, nil
}

// subscriptions queries the engine's configuration actor for the message
// types this client is subscribed to, as the engine sees them.
func (c *Client) subscriptions(ctx context.Context) ([]string, error) {
	resp, err := c.request(ctx, frame.MsgTypeRequest, frame.TargetConfig,
		typeConfigSubscriptions, nil)
	if err != nil {
		return nil, err
	}

	var list frame.SubscriptionList
	if len(resp.Payload) > 0 {
		if err := frame.Unmarshal(c.format, resp.Payload, &list); err != nil {
			return nil, errors.WrapInvalid(err, "Client", "Subscriptions", "decode subscription list")
		}
	}
	return list.Subscriptions, nil
}

// topology queries the engine's configuration actor for the current
// routing topology.
func (c *Client) topology(ctx context.Context) (map[string]any, error) {
	resp, err := c.request(ctx, frame.MsgTypeRequest, frame.TargetConfig,
		typeConfigTopology, nil)
	if err != nil {
		return nil, err
	}

	var topo map[string]any
	if len(resp.Payload) > 0 {
		if err := frame.Unmarshal(c.format, resp.Payload, &topo); err != nil {
			return nil, errors.WrapInvalid(err, "Client", "Topology", "decode topology")
		}
	}
	return topo, nil
}

// close shuts the client down: the socket closes, the read loop exits,
// pending requests are rejected, and the stream ends cleanly. Idempotent
// and safe to call concurrently.
func (c *Client) close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	stream := c.stream
	c.stream = nil
	c.subscribed = make(map[string]struct{})
	c.mu.Unlock()

	err := c.conn.Close()
	<-c.loopDone

	c.corr.rejectAll(errors.ErrClientClosed)
	if stream != nil {
		stream.close(nil)
	}
	c.recordConnected(false)
	c.logger.Info("disconnected from engine")

	if err != nil {
		return errors.WrapTransient(err, "Client", "Close", "close socket")
	}
	return nil
}

// readLoop owns the socket's read side: it accumulates bytes in the queue,
// drains complete frames in order, and tears the connection down when the
// socket reports an error.
func (c *Client) readLoop() {
	defer close(c.loopDone)

	buf := make([]byte, readBufferSize)
	queue := buffer.NewByteQueue(0)

	for {
		n, err := c.conn.Read(buf)
		if n > 0 {
			queue.Append(buf[:n])
			c.drain(queue)
		}
		if err != nil {
			c.teardown(err)
			return
		}
	}
}

// drain decodes every complete frame currently buffered. A malformed frame
// poisons the whole buffer: framing can no longer be trusted, so the queue
// is discarded and the connection continues from the next read.
func (c *Client) drain(queue *buffer.ByteQueue) {
	for {
		f, consumed, err := frame.TryDecode(queue.Bytes())
		if err != nil {
			c.recordProtocolError()
			c.logger.Warn("malformed frame, discarding read buffer",
				"buffered", queue.Len(), "error", err)
			queue.Reset()
			return
		}
		if f == nil {
			return
		}
		queue.Discard(consumed)
		c.recordFrameReceived(f.Type.String())
		c.dispatch(f)
	}
}

// dispatch routes one decoded frame to the correlator, the stream, or the
// heartbeat echo.
func (c *Client) dispatch(f *frame.Frame) {
	switch f.Type {
	case frame.MsgTypeResponse, frame.MsgTypeError:
		var resp frame.ResponseEnvelope
		if err := f.Unmarshal(&resp); err != nil {
			c.recordProtocolError()
			c.logger.Warn("undecodable response envelope", "error", err)
			return
		}
		if !c.corr.complete(resp.CorrelationID, &resp) {
			c.logger.Debug("response with no pending request",
				"correlation_id", resp.CorrelationID)
		}

	case frame.MsgTypePush, frame.MsgTypeStream:
		var push frame.PushNotification
		if err := f.Unmarshal(&push); err != nil {
			c.recordProtocolError()
			c.logger.Warn("undecodable push notification", "error", err)
			return
		}
		c.handlePush(f.Format, &push)

	case frame.MsgTypeHeartbeat:
		// Echo so the engine can verify liveness.
		if err := c.writeRaw(f.Type, f.Format, f.Payload); err != nil {
			c.logger.Debug("heartbeat echo failed", "error", err)
		}

	default:
		c.logger.Debug("ignoring unexpected frame", "type", f.Type.String())
	}
}

// handlePush delivers a push notification to the stream, or consumes it as
// a lifecycle signal. Shutdown pushes never surface to the consumer: one
// matching this client's kind ends the stream cleanly, others are ignored.
func (c *Client) handlePush(format frame.Format, push *frame.PushNotification) {
	if push.MessageType == frame.ShutdownType {
		var sig frame.ShutdownSignal
		if err := frame.Unmarshal(format, push.Payload, &sig); err != nil {
			c.recordProtocolError()
			c.logger.Warn("undecodable shutdown signal", "error", err)
			return
		}
		if sig.Kind != c.kind {
			return
		}
		c.logger.Info("shutdown signal received, ending stream")
		c.mu.Lock()
		stream := c.stream
		c.stream = nil
		c.mu.Unlock()
		if stream != nil {
			stream.close(nil)
		}
		return
	}

	var env message.Envelope
	if err := frame.Unmarshal(format, push.Payload, &env); err != nil {
		c.recordProtocolError()
		c.logger.Warn("undecodable pushed envelope",
			"message_type", push.MessageType, "error", err)
		return
	}

	c.mu.Lock()
	stream := c.stream
	c.mu.Unlock()

	if stream == nil || !stream.push(&env) {
		c.recordPushDropped()
		c.logger.Debug("push dropped, no open stream", "message_type", env.Type())
		return
	}
	c.recordPushDelivered(env.Type())
}

// teardown handles the read side dying. During a deliberate Close the
// socket error is expected and close() owns the cleanup; otherwise pending
// requests are rejected and the stream ends with the connection error.
func (c *Client) teardown(cause error) {
	if c.isClosed() {
		return
	}

	err := errors.WrapTransient(
		fmt.Errorf("%w: %v", errors.ErrConnectionLost, cause),
		"Client", "readLoop", "read from engine socket")

	c.logger.Warn("connection to engine lost", "error", cause)
	c.recordConnected(false)
	c.corr.rejectAll(err)

	c.mu.Lock()
	stream := c.stream
	c.stream = nil
	c.mu.Unlock()
	if stream != nil {
		stream.close(err)
	}
}

// writeFrame encodes payload per the client's format and writes one frame.
func (c *Client) writeFrame(t frame.MsgType, payload any) error {
	data, err := frame.Encode(t, payload, c.format)
	if err != nil {
		return err
	}
	return c.write(t, data)
}

// writeRaw writes a frame around an already-encoded payload, preserving
// the given format tag. Used for heartbeat echoes.
func (c *Client) writeRaw(t frame.MsgType, f frame.Format, payload []byte) error {
	encoded, err := frame.Encode(t, frame.RawPayload(payload), f)
	if err != nil {
		return err
	}
	return c.write(t, encoded)
}

func (c *Client) write(t frame.MsgType, data []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if _, err := c.conn.Write(data); err != nil {
		return errors.WrapTransient(err, "Client", "write", "write frame to engine socket")
	}
	c.recordFrameSent(t.String())
	return nil
}

func (c *Client) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// clearStream detaches s if it is still the current stream. A stream
// replaced by a newer Subscribe must not clear its successor.
func (c *Client) clearStream(s *Stream) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stream == s {
		c.stream = nil
	}
}

// newCorrelationID returns a time-sortable unique id for request matching.
func newCorrelationID() string {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return id.String()
}

// Metric helpers are nil-safe so an uninstrumented client pays nothing.

func (c *Client) recordConnected(up bool) {
	if c.metrics != nil {
		c.metrics.RecordConnected(up)
	}
}

func (c *Client) recordFrameSent(t string) {
	if c.metrics != nil {
		c.metrics.RecordFrameSent(t)
	}
}

func (c *Client) recordFrameReceived(t string) {
	if c.metrics != nil {
		c.metrics.RecordFrameReceived(t)
	}
}

func (c *Client) recordProtocolError() {
	if c.metrics != nil {
		c.metrics.RecordProtocolError()
	}
}

func (c *Client) recordRequestStart() {
	if c.metrics != nil {
		c.metrics.RecordRequestStart()
	}
}

func (c *Client) recordRequestEnd(target, status string, d time.Duration) {
	if c.metrics != nil {
		c.metrics.RecordRequestEnd(target, status, d)
	}
}

func (c *Client) recordRequestTimeout() {
	if c.metrics != nil {
		c.metrics.RecordRequestTimeout()
	}
}

func (c *Client) recordPushDelivered(t string) {
	if c.metrics != nil {
		c.metrics.RecordPushDelivered(t)
	}
}

func (c *Client) recordPushDropped() {
	if c.metrics != nil {
		c.metrics.RecordPushDropped()
	}
}
