package session

import (
	"strconv"

	"github.com/kingkybel/FixDecoder/wire"
)

var sohStr = string(wire.SOH)

// buildMessageWithSeqNum assembles one outbound frame with the fixed
// header field order spec.md §4.4 requires, then wraps it with
// BeginString/BodyLength/CheckSum. It does not touch nextOutgoingSeq —
// callers decide whether the sequence counter advances.
func (c *Controller) buildMessageWithSeqNum(msgType string, fields []Field, seqNum uint32) string {
	body := "35=" + msgType + sohStr
	body += "34=" + strconv.FormatUint(uint64(seqNum), 10) + sohStr
	body += "49=" + c.senderCompID + sohStr
	body += "56=" + c.targetCompID + sohStr
	body += "52=" + c.utcTimestamp() + sohStr

	for _, f := range fields {
		body += strconv.FormatUint(uint64(f.Tag), 10) + "=" + f.Value + sohStr
	}

	message := "8=" + c.beginString + sohStr
	message += "9=" + strconv.Itoa(len(body)) + sohStr
	message += body

	checksum := wire.ComputeChecksum([]byte(message))
	message += "10=" + wire.FormatChecksum(checksum) + sohStr

	return message
}

// buildMessage assigns the current nextOutgoingSeq to the message and
// post-increments it, matching the "each successful build advances the
// counter exactly once" invariant.
func (c *Controller) buildMessage(msgType string, fields []Field) string {
	seq := c.nextOutgoingSeq
	c.nextOutgoingSeq++
	return c.buildMessageWithSeqNum(msgType, fields, seq)
}

// BuildLogon builds a Logon (35=A). When reset is true it also sends
// ResetSeqNumFlag (141=Y) and resets both sequence counters to 1.
func (c *Controller) BuildLogon(reset bool) string {
	fields := []Field{
		{Tag: 98, Value: "0"},
		{Tag: 108, Value: strconv.Itoa(c.heartbeatSec)},
	}
	if reset {
		fields = append(fields, Field{Tag: 141, Value: "Y"})
		c.expectedIncomingSeq = 1
		c.nextOutgoingSeq = 1
	}

	c.logonSent = true
	c.setState(AwaitingLogon)
	return c.buildMessage("A", fields)
}

// BuildHeartbeat builds a Heartbeat (35=0), echoing TestReqID (112) when
// testReqID is non-empty.
func (c *Controller) BuildHeartbeat(testReqID string) string {
	var fields []Field
	if testReqID != "" {
		fields = append(fields, Field{Tag: 112, Value: testReqID})
	}
	return c.buildMessage("0", fields)
}

// BuildTestRequest builds a TestRequest (35=1) with the required TestReqID.
func (c *Controller) BuildTestRequest(testReqID string) string {
	return c.buildMessage("1", []Field{{Tag: 112, Value: testReqID}})
}

// BuildLogout builds a Logout (35=5), including Text (58) when non-empty.
func (c *Controller) BuildLogout(text string) string {
	c.setState(LogoutSent)
	var fields []Field
	if text != "" {
		fields = append(fields, Field{Tag: 58, Value: text})
	}
	return c.buildMessage("5", fields)
}

// BuildApplicationMessage builds an arbitrary message with msgType and
// the caller-supplied fields, in order.
func (c *Controller) BuildApplicationMessage(msgType string, fields []Field) string {
	return c.buildMessage(msgType, fields)
}

// BuildResendRequest builds a ResendRequest (35=2) for [beginSeqNo, endSeqNo].
func (c *Controller) BuildResendRequest(beginSeqNo, endSeqNo uint32) string {
	return c.buildMessage("2", []Field{
		{Tag: 7, Value: strconv.FormatUint(uint64(beginSeqNo), 10)},
		{Tag: 16, Value: strconv.FormatUint(uint64(endSeqNo), 10)},
	})
}

func (c *Controller) utcTimestamp() string {
	t := c.clock().UTC()
	const layout = "20060102-15:04:05.000"
	return t.Format(layout)
}
