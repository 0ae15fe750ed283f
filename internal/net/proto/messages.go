// Package proto defines the wire envelope and message codes shared with the
// game server. Every frame is JSON of the shape
//
//	{"data": {"code": "<CODE>", "data": <payload>}}
//
// over a message-oriented socket.
package proto

import (
	"encoding/json"
	"fmt"
)

// Code identifies a wire message.
type Code string

const (
	CodeJoinGame    Code = "JOINGAME"
	CodeSpawnPlayer Code = "SPAWNPLAYER"
	CodeFrameData   Code = "FRAMEDATA"
	CodePowerup     Code = "POWERUP"
	CodeDead        Code = "DEAD"
	CodePing        Code = "PING"
	CodePong        Code = "PONG"
	CodeAction      Code = "ACTION"
)

// MaxNameLength caps display names on the wire.
const MaxNameLength = 20

// Frame is the inner part of the envelope: a message code and its payload.
type Frame struct {
	Code Code            `json:"code" jsonschema:"title=Message code,description=One of the recognized wire message codes"`
	Data json.RawMessage `json:"data,omitempty" jsonschema:"description=Code-specific payload"`
}

// Envelope is the outer wrapper every frame travels in.
type Envelope struct {
	Data Frame `json:"data"`
}

// PingPayload carries the client's local clock; the server echoes it back in
// a PONG so the client can measure round-trip latency.
type PingPayload struct {
	CurMS int64 `json:"curMS" jsonschema:"description=Client wall clock in milliseconds at send time"`
}

// Encode marshals a payload into a framed envelope ready to send.
func Encode(code Code, payload any) ([]byte, error) {
	var raw json.RawMessage
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode %s payload: %w", code, err)
		}
		raw = data
	}
	out, err := json.Marshal(Envelope{Data: Frame{Code: code, Data: raw}})
	if err != nil {
		return nil, fmt.Errorf("encode %s envelope: %w", code, err)
	}
	return out, nil
}

// Decode parses a received envelope. Malformed input is an error the caller
// logs and drops; it must never tear down the session.
func Decode(raw []byte) (Frame, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Frame{}, fmt.Errorf("decode envelope: %w", err)
	}
	if env.Data.Code == "" {
		return Frame{}, fmt.Errorf("decode envelope: missing code")
	}
	return env.Data, nil
}
