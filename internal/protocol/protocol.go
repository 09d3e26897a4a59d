// Package protocol defines the websocket envelope exchanged with a player's
// live session stream.
package protocol

import "encoding/json"

// Message types.
const (
	MsgState     = "state"     // server → client: session snapshot
	MsgError     = "error"     // server → client: rejected command
	MsgStart     = "start"     // client → server: begin a session
	MsgConfigure = "configure" // client → server: username + difficulty
	MsgCatch     = "catch"     // client → server: catch one target
)

// Envelope wraps every message: T selects the payload type in P.
type Envelope struct {
	T string          `json:"t"`
	P json.RawMessage `json:"p,omitempty"`
}

// Configure is the payload of MsgConfigure.
type Configure struct {
	Username   string `json:"username"`
	Difficulty string `json:"difficulty"`
}

// Catch is the payload of MsgCatch.
type Catch struct {
	ID int `json:"id"`
}

// Error is the payload of MsgError.
type Error struct {
	Error string `json:"error"`
}
