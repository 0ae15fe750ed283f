// Package telemetry holds session-scoped diagnostics counters. A Counters
// value belongs to one session, never to the process, so two sessions in one
// binary (tests, bots) can't bleed into each other.
package telemetry

import "sync/atomic"

// Counters accumulates wire and simulation diagnostics. Safe for concurrent
// use.
type Counters struct {
	framesReceived  atomic.Uint64
	framesDropped   atomic.Uint64
	bytesReceived   atomic.Uint64
	messagesSent    atomic.Uint64
	bytesSent       atomic.Uint64
	replayedActions atomic.Uint64
	lastRTTMillis   atomic.Int64
}

// Snapshot is a point-in-time copy for logging or inspection.
type Snapshot struct {
	FramesReceived  uint64 `json:"framesReceived"`
	FramesDropped   uint64 `json:"framesDropped"`
	BytesReceived   uint64 `json:"bytesReceived"`
	MessagesSent    uint64 `json:"messagesSent"`
	BytesSent       uint64 `json:"bytesSent"`
	ReplayedActions uint64 `json:"replayedActions"`
	LastRTTMillis   int64  `json:"lastRTTMillis"`
}

// NewCounters returns zeroed counters.
func NewCounters() *Counters {
	return &Counters{}
}

// RecordReceive notes one inbound frame of the given size.
func (c *Counters) RecordReceive(bytes int) {
	c.framesReceived.Add(1)
	if bytes > 0 {
		c.bytesReceived.Add(uint64(bytes))
	}
}

// RecordDrop notes one inbound frame discarded as malformed or unknown.
func (c *Counters) RecordDrop() {
	c.framesDropped.Add(1)
}

// RecordSend notes one outbound message of the given size.
func (c *Counters) RecordSend(bytes int) {
	c.messagesSent.Add(1)
	if bytes > 0 {
		c.bytesSent.Add(uint64(bytes))
	}
}

// RecordReplay notes how many buffered actions the last prediction pass
// replayed.
func (c *Counters) RecordReplay(actions int) {
	if actions > 0 {
		c.replayedActions.Add(uint64(actions))
	}
}

// RecordRTT stores the most recent ping round trip in milliseconds.
func (c *Counters) RecordRTT(millis int64) {
	c.lastRTTMillis.Store(millis)
}

// Snapshot copies the current counter values.
func (c *Counters) Snapshot() Snapshot {
	return Snapshot{
		FramesReceived:  c.framesReceived.Load(),
		FramesDropped:   c.framesDropped.Load(),
		BytesReceived:   c.bytesReceived.Load(),
		MessagesSent:    c.messagesSent.Load(),
		BytesSent:       c.bytesSent.Load(),
		ReplayedActions: c.replayedActions.Load(),
		LastRTTMillis:   c.lastRTTMillis.Load(),
	}
}
