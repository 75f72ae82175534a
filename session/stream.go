package session

import (
	"bytes"

	"github.com/kingkybel/FixDecoder/pkg/fixmetrics"
	"github.com/kingkybel/FixDecoder/wire"
)

var (
	beginTagPrefix    = []byte("8=")
	checksumSohPrefix = []byte{wire.SOH, '1', '0', '='}
)

// Consume appends normalized incoming bytes to the stream buffer and
// repeatedly extracts complete frames. Extraction is stateless with
// respect to session state — it only segments bytes. Frames are returned
// in wire order; the buffer never retains a complete frame afterward.
func (c *Controller) Consume(incoming []byte) []string {
	c.streamBuffer = append(c.streamBuffer, wire.Normalize(incoming)...)

	var messages []string
	for {
		begin := bytes.Index(c.streamBuffer, beginTagPrefix)
		if begin < 0 {
			// Keep a trailing '8': it may be the first half of a "8=" that
			// the next Consume call completes.
			if n := len(c.streamBuffer); n > 0 && c.streamBuffer[n-1] == '8' {
				c.streamBuffer = trimFront(c.streamBuffer, n-1)
			} else {
				c.streamBuffer = c.streamBuffer[:0]
			}
			break
		}
		if begin > 0 {
			c.streamBuffer = trimFront(c.streamBuffer, begin)
		}

		trailer := bytes.Index(c.streamBuffer, checksumSohPrefix)
		if trailer < 0 {
			break
		}
		if trailer+8 > len(c.streamBuffer) {
			break
		}

		c1, c2, c3, end := c.streamBuffer[trailer+4], c.streamBuffer[trailer+5], c.streamBuffer[trailer+6], c.streamBuffer[trailer+7]
		if !isDigit(c1) || !isDigit(c2) || !isDigit(c3) || end != wire.SOH {
			c.streamBuffer = trimFront(c.streamBuffer, trailer+1)
			continue
		}

		messages = append(messages, string(c.streamBuffer[:trailer+8]))
		c.streamBuffer = trimFront(c.streamBuffer, trailer+8)
	}

	if len(c.streamBuffer) > c.maxStreamBuffer {
		c.log.Warn("stream buffer exceeded cap, terminating session",
			"session_id", c.SessionID, "size", len(c.streamBuffer), "max", c.maxStreamBuffer)
		c.streamBuffer = c.streamBuffer[:0]
		fixmetrics.GarbledFrames.Inc()
		c.setState(Terminated)
	}

	return messages
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// trimFront drops the first n bytes of buf in place, compacting toward
// the start of the backing array so repeated Consume calls don't pin an
// ever-growing allocation behind a shrinking logical slice.
func trimFront(buf []byte, n int) []byte {
	return append(buf[:0], buf[n:]...)
}
