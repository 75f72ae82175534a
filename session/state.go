package session

// Role is an endpoint's role in the FIX session.
type Role int

const (
	// Initiator dials and sends the initial logon.
	Initiator Role = iota
	// Acceptor listens and responds to logon.
	Acceptor
)

// SessionState is the controller's high-level lifecycle state.
type SessionState int

const (
	Disconnected SessionState = iota
	AwaitingLogon
	Established
	LogoutSent
	Terminated
)

func (s SessionState) String() string {
	switch s {
	case AwaitingLogon:
		return "awaiting_logon"
	case Established:
		return "established"
	case LogoutSent:
		return "logout_sent"
	case Terminated:
		return "terminated"
	default:
		return "disconnected"
	}
}

// MessageDisposition classifies how an inbound frame was handled.
type MessageDisposition int

const (
	// Accepted is the zero value: the message passed session checks.
	Accepted MessageDisposition = iota
	OutOfSync
	Garbled
)

// Field is a (tag, value) pair used when building custom messages.
type Field struct {
	Tag   uint32
	Value string
}

// Action is the controller's reaction to one inbound message.
type Action struct {
	Disposition      MessageDisposition
	OutboundMessages []string
	Events           []string
}
