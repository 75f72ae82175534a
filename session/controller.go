// Package session implements the FIX session-layer state machine:
// stream reframing, logon/logout handshake, monotonic sequence-number
// discipline, and administrative message construction. A Controller
// never performs I/O; it only consumes and produces byte strings.
package session

import (
	"github.com/google/uuid"
	"github.com/kingkybel/FixDecoder/pkg/fixlog"
	"github.com/kingkybel/FixDecoder/pkg/fixmetrics"
)

// defaultMaxStreamBuffer bounds stream_buffer growth between extract
// cycles — a defensive posture the protocol does not require but a
// long-lived session needs against a counterpart that never completes a
// frame.
const defaultMaxStreamBuffer = 1 << 20 // 1 MiB

// defaultHeartbeatIntervalSeconds matches the original controller's
// default constructor parameter.
const defaultHeartbeatIntervalSeconds = 30

// Controller is a single-owner FIX session endpoint. Concurrent calls on
// the same instance are not supported.
type Controller struct {
	// SessionID is a log-correlation identifier, never placed on the wire.
	SessionID string

	senderCompID string
	targetCompID string
	role         Role
	beginString  string
	heartbeatSec int

	state               SessionState
	expectedIncomingSeq uint32
	nextOutgoingSeq     uint32
	logonSent           bool
	logonReceived       bool

	streamBuffer    []byte
	maxStreamBuffer int

	clock Clock
	log   fixlog.Logger
}

// Option configures a Controller at construction.
type Option func(*Controller)

// WithHeartbeatInterval overrides the default 30-second heartbeat interval.
func WithHeartbeatInterval(seconds int) Option {
	return func(c *Controller) { c.heartbeatSec = seconds }
}

// WithMaxStreamBuffer overrides the default stream-buffer cap.
func WithMaxStreamBuffer(maxBytes int) Option {
	return func(c *Controller) { c.maxStreamBuffer = maxBytes }
}

// WithClock overrides the wall-clock timestamp source, for deterministic tests.
func WithClock(clock Clock) Option {
	return func(c *Controller) { c.clock = clock }
}

// WithLogger attaches a structured logger; nil means no logging.
func WithLogger(log fixlog.Logger) Option {
	return func(c *Controller) { c.log = log }
}

// NewController constructs a session endpoint with the given identity
// and role, in the Disconnected state with both sequence counters at 1.
func NewController(senderCompID, targetCompID string, role Role, beginString string, opts ...Option) *Controller {
	if beginString == "" {
		beginString = "FIX.4.4"
	}
	c := &Controller{
		SessionID:           uuid.NewString(),
		senderCompID:        senderCompID,
		targetCompID:        targetCompID,
		role:                role,
		beginString:         beginString,
		heartbeatSec:        defaultHeartbeatIntervalSeconds,
		state:               Disconnected,
		expectedIncomingSeq: 1,
		nextOutgoingSeq:     1,
		maxStreamBuffer:     defaultMaxStreamBuffer,
		clock:               defaultClock,
		log:                 fixlog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = fixlog.Nop()
	}
	c.log = c.log.Named("session")
	return c
}

// State returns the controller's current session state.
func (c *Controller) State() SessionState { return c.state }

// ExpectedIncomingSeq returns the next expected inbound MsgSeqNum.
func (c *Controller) ExpectedIncomingSeq() uint32 { return c.expectedIncomingSeq }

// NextOutgoingSeq returns the next outbound MsgSeqNum that will be assigned.
func (c *Controller) NextOutgoingSeq() uint32 { return c.nextOutgoingSeq }

// SkipOutboundSequence advances the outbound counter without building a
// message — a test hook for simulating sequence gaps.
func (c *Controller) SkipOutboundSequence(delta uint32) {
	c.nextOutgoingSeq += delta
}

func (c *Controller) setState(s SessionState) {
	if s == c.state {
		return
	}
	c.state = s
	fixmetrics.SessionStateTransitions.WithLabelValues(s.String()).Inc()
}
