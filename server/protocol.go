package main

import "encoding/json"

// Client -> Server message types
const (
	MsgCreate   = "create" // create a run session and take it over
	MsgStart    = "start"
	MsgInput    = "input"
	MsgPick     = "pick"   // choose an upgrade option
	MsgRevive   = "revive" // choose a revive option
	MsgSkip     = "skip"   // decline the revive
	MsgMenu     = "menu"
	MsgSubmit   = "submit"
	MsgScores   = "scores"
	MsgList     = "list"
	MsgCheck    = "check"
	MsgSpectate = "spectate"
	MsgControl  = "control" // phone controller attach
	MsgLeave    = "leave"
)

// Server -> Client message types
const (
	MsgCreated      = "created"
	MsgWelcome      = "welcome"
	MsgSfx          = "sfx"
	MsgEvent        = "event"
	MsgGameOver     = "gameover"
	MsgSubmitted    = "submitted"
	MsgSubmitFailed = "submit_failed"
	MsgScoreList    = "scores"
	MsgSessions     = "sessions"
	MsgChecked      = "checked"
	MsgSpectating   = "spectating"
	MsgControlOK    = "control_ok"
	MsgCtrlOn       = "ctrl_on"  // notify owner: controller attached
	MsgCtrlOff      = "ctrl_off" // notify owner: controller detached
	MsgClosed       = "closed"
	MsgError        = "error"
)

// Envelope wraps all outgoing messages with a type field
type Envelope struct {
	T    string      `json:"t"`
	Data interface{} `json:"d,omitempty"`
}

// InEnvelope is used for incoming messages; json.RawMessage avoids double-unmarshal
type InEnvelope struct {
	T string          `json:"t"`
	D json.RawMessage `json:"d,omitempty"`
}

// InputMsg is the sampled key set and pointer, sent by the client every frame
// it changes. vw/vh carry the viewport when it is resized.
type InputMsg struct {
	Keys uint8   `json:"keys"`
	PX   float64 `json:"px"`
	PY   float64 `json:"py"`
	VW   float64 `json:"vw,omitempty"`
	VH   float64 `json:"vh,omitempty"`
}

// CreateMsg starts a new run, or reclaims an abandoned one when SID is set
type CreateMsg struct {
	Name string `json:"name"`
	SID  string `json:"sid,omitempty"`
}

// ChoiceMsg selects an option by index for pick and revive
type ChoiceMsg struct {
	I int `json:"i"`
}

type SubmitMsg struct {
	Name    string `json:"name"`
	Receipt string `json:"receipt"`
}

type ScoresMsg struct {
	N int `json:"n"`
}

// SessionRefMsg names a session for check, spectate and control
type SessionRefMsg struct {
	SID string `json:"sid"`
}

type WelcomeMsg struct {
	SID  string `json:"sid"`
	Name string `json:"name"`
	Role string `json:"role"`
}

type SfxMsg struct {
	Names []string `json:"names"`
}

// EventMsg mirrors a game notification for the HUD
type EventMsg struct {
	Type   string `json:"type"`
	Detail string `json:"detail,omitempty"`
	Wave   int    `json:"wave"`
}

// GameOverMsg carries the final result and the signed receipt that
// makes it submittable to the leaderboard.
type GameOverMsg struct {
	Score   int    `json:"score"`
	Time    string `json:"time"`
	Kills   int    `json:"kills"`
	Wave    int    `json:"wave"`
	Combo   int    `json:"combo"`
	Receipt string `json:"receipt,omitempty"`
}

type SubmittedMsg struct {
	Rank int `json:"rank"`
}

type ErrorMsg struct {
	Msg string `json:"msg"`
}

// SessionInfo is the public summary of a running session
type SessionInfo struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Mode       string `json:"mode"`
	Wave       int    `json:"wave"`
	Score      int    `json:"score"`
	Spectators int    `json:"spectators"`
}

type CheckedMsg struct {
	SID    string `json:"sid"`
	Exists bool   `json:"exists"`
	Name   string `json:"name,omitempty"`
	Mode   string `json:"mode,omitempty"`
}
