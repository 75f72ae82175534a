package session

import (
	"strconv"

	"github.com/kingkybel/FixDecoder/pkg/fixmetrics"
	"github.com/kingkybel/FixDecoder/wire"
)

type sessionParseErrorCode int

const (
	errNone sessionParseErrorCode = iota
	errMissingFieldTerminator
	errMalformedTagValue
	errTagNotNumeric
	errInvalidMsgSeqNum
	errMissingMsgType
	errMissingMsgSeqNum
)

func sessionParseErrorText(code sessionParseErrorCode, tag uint32) string {
	var base string
	switch code {
	case errMissingFieldTerminator:
		base = "Missing SOH-delimited field terminator"
	case errMalformedTagValue:
		base = "Malformed tag=value field"
	case errTagNotNumeric:
		base = "Tag is not numeric"
	case errInvalidMsgSeqNum:
		base = "Invalid MsgSeqNum"
	case errMissingMsgType:
		base = "Missing MsgType"
	case errMissingMsgSeqNum:
		base = "Missing MsgSeqNum"
	default:
		base = "Malformed FIX message"
	}
	if tag > 0 {
		return base + " (tag " + strconv.FormatUint(uint64(tag), 10) + ")"
	}
	return base
}

// parseSessionMessage tokenizes normalized and extracts MsgType (35) and
// MsgSeqNum (34). It mirrors the original's single forward pass exactly:
// a later occurrence of either tag overwrites an earlier one, and an
// unparseable MsgSeqNum fails immediately regardless of position.
func parseSessionMessage(normalized []byte) (fields []wire.Field, msgType string, seqNum uint32, code sessionParseErrorCode, errTag uint32) {
	toks, tokErr := wire.Tokenize(normalized, true)
	if tokErr != nil {
		switch tokErr.Code {
		case wire.MissingFieldTerminator:
			return nil, "", 0, errMissingFieldTerminator, 0
		case wire.TagNotNumeric:
			return nil, "", 0, errTagNotNumeric, 0
		default:
			return nil, "", 0, errMalformedTagValue, 0
		}
	}

	var hasSeq bool
	for _, f := range toks {
		switch f.Tag {
		case 35:
			msgType = string(f.Value)
		case 34:
			n, ok := parseUint32(f.Value)
			if !ok {
				return toks, "", 0, errInvalidMsgSeqNum, 34
			}
			seqNum = n
			hasSeq = true
		}
	}

	if msgType == "" {
		return toks, "", 0, errMissingMsgType, 35
	}
	if !hasSeq {
		return toks, msgType, 0, errMissingMsgSeqNum, 34
	}
	return toks, msgType, seqNum, errNone, 0
}

func parseUint32(b []byte) (uint32, bool) {
	n, err := strconv.ParseUint(string(b), 10, 32)
	if err != nil {
		return 0, false
	}
	return uint32(n), true
}

func fieldValue(fields []wire.Field, tag uint32) string {
	for _, f := range fields {
		if f.Tag == tag {
			return string(f.Value)
		}
	}
	return ""
}

// OnMessage classifies a single extracted frame and produces the
// disposition, outbound messages, and events spec.md §4.4 describes.
func (c *Controller) OnMessage(rawMessage []byte) Action {
	action := Action{}

	normalized := wire.Normalize(rawMessage)
	if !wire.ValidateBodyLength(normalized) || !wire.ValidateChecksum(normalized) {
		action.Disposition = Garbled
		action.Events = append(action.Events, "garbled_message")
		action.OutboundMessages = append(action.OutboundMessages,
			c.buildMessage("3", []Field{{Tag: 58, Value: "Invalid BodyLength or CheckSum"}}))
		fixmetrics.GarbledFrames.Inc()
		return action
	}

	fields, msgType, seqNum, parseCode, errTag := parseSessionMessage(normalized)
	if parseCode != errNone {
		action.Disposition = Garbled
		action.Events = append(action.Events, "garbled_message")
		action.OutboundMessages = append(action.OutboundMessages,
			c.buildMessage("3", []Field{{Tag: 58, Value: sessionParseErrorText(parseCode, errTag)}}))
		fixmetrics.GarbledFrames.Inc()
		return action
	}

	sender := fieldValue(fields, 49)
	target := fieldValue(fields, 56)
	if sender != c.targetCompID || target != c.senderCompID {
		action.Disposition = Garbled
		action.Events = append(action.Events, "comp_id_mismatch")
		action.OutboundMessages = append(action.OutboundMessages, c.BuildLogout("CompID mismatch"))
		c.setState(Terminated)
		return action
	}

	if seqNum > c.expectedIncomingSeq {
		action.Disposition = OutOfSync
		action.Events = append(action.Events, "sequence_gap")
		action.OutboundMessages = append(action.OutboundMessages, c.BuildResendRequest(c.expectedIncomingSeq, 0))
		fixmetrics.SequenceGaps.Inc()
		return action
	}
	if seqNum < c.expectedIncomingSeq {
		action.Disposition = OutOfSync
		action.Events = append(action.Events, "sequence_too_low")
		action.OutboundMessages = append(action.OutboundMessages, c.BuildLogout("MsgSeqNum too low"))
		c.setState(Terminated)
		return action
	}
	c.expectedIncomingSeq++

	if msgType == "A" {
		c.logonReceived = true
		if !c.logonSent && c.role == Acceptor {
			action.OutboundMessages = append(action.OutboundMessages, c.BuildLogon(false))
		}
		c.setState(Established)
		action.Events = append(action.Events, "logon")
		return action
	}

	if !c.logonReceived && msgType != "5" {
		action.Disposition = OutOfSync
		action.Events = append(action.Events, "logon_required")
		action.OutboundMessages = append(action.OutboundMessages, c.BuildLogout("Expected Logon"))
		c.setState(Terminated)
		return action
	}

	switch msgType {
	case "1":
		action.Events = append(action.Events, "test_request")
		action.OutboundMessages = append(action.OutboundMessages, c.BuildHeartbeat(fieldValue(fields, 112)))
		return action
	case "5":
		action.Events = append(action.Events, "logout")
		if c.state != LogoutSent {
			action.OutboundMessages = append(action.OutboundMessages, c.BuildLogout("Logout Ack"))
		}
		c.setState(Terminated)
		return action
	case "2":
		action.Events = append(action.Events, "resend_request")
		return action
	case "4":
		if newSeq, ok := parseUint32([]byte(fieldValue(fields, 36))); ok && newSeq >= c.expectedIncomingSeq {
			c.expectedIncomingSeq = newSeq
			action.Events = append(action.Events, "sequence_reset")
		}
		return action
	case "0":
		action.Events = append(action.Events, "heartbeat")
		return action
	default:
		action.Events = append(action.Events, "application_message")
		return action
	}
}
