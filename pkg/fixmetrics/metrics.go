// Package fixmetrics registers the prometheus collectors shared by the
// decoder and session packages. Collectors are package-level vars,
// registered once in init, the way a single process links in one
// collector set regardless of how many dictionaries or sessions it runs.
package fixmetrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// MessagesDecoded counts successful Decode/DecodeObject calls by MsgType.
var MessagesDecoded = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "fixdecoder_messages_decoded_total",
		Help: "Total number of FIX messages successfully decoded, by MsgType",
	},
	[]string{"msg_type"},
)

// DecodeErrors counts decode failures by the structural reason they failed.
var DecodeErrors = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "fixdecoder_decode_errors_total",
		Help: "Total number of decode failures, by failure reason",
	},
	[]string{"reason"},
)

// DecodeLatency records wall-clock time spent inside Decode/DecodeObject.
var DecodeLatency = prometheus.NewHistogram(
	prometheus.HistogramOpts{
		Name:    "fixdecoder_decode_latency_seconds",
		Help:    "Latency in seconds of a single Decode/DecodeObject call",
		Buckets: prometheus.DefBuckets,
	},
)

// GarbledFrames counts inbound frames OnMessage classified as garbled (bad
// envelope or unparseable session fields), plus stream-buffer overflows
// in Consume.
var GarbledFrames = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "fixdecoder_garbled_frames_total",
		Help: "Total number of byte-stream frames discarded as garbled",
	},
)

// SequenceGaps counts inbound messages that arrived with a sequence number
// ahead of the session's expected next sequence number.
var SequenceGaps = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "fixdecoder_sequence_gaps_total",
		Help: "Total number of inbound sequence-number gaps detected",
	},
)

// SessionStateTransitions counts session state-machine transitions by the
// state being entered.
var SessionStateTransitions = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "fixdecoder_session_state_transitions_total",
		Help: "Total number of session state transitions, by new state",
	},
	[]string{"state"},
)

func init() {
	prometheus.MustRegister(MessagesDecoded, DecodeErrors, DecodeLatency)
	prometheus.MustRegister(GarbledFrames, SequenceGaps, SessionStateTransitions)
}
