package main

import (
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/gorilla/websocket"

	"robot-survival/game"
)

const (
	writeWait         = 10 * time.Second
	pongWait          = 60 * time.Second
	pingPeriod        = (pongWait * 9) / 10
	maxMessageSize    = 4096
	sendBufSize       = 256
	maxMessagesPerSec = 120
	maxNameLen        = 16
)

const (
	roleNone       = ""
	roleOwner      = "owner"
	roleSpectator  = "spectator"
	roleController = "controller"
)

// Client represents a WebSocket connection
type Client struct {
	hub        *Hub
	conn       *websocket.Conn
	send       chan []byte
	name       string
	sessionID  string
	role       string
	remoteAddr string
	msgCount   int
	msgResetAt time.Time
}

// NewClient creates a new Client
func NewClient(hub *Hub, conn *websocket.Conn, remoteAddr string) *Client {
	return &Client{
		hub:        hub,
		conn:       conn,
		send:       make(chan []byte, sendBufSize),
		remoteAddr: remoteAddr,
	}
}

// ReadPump reads messages from the WebSocket connection
func (c *Client) ReadPump() {
	defer func() {
		c.hub.TrackDisconnect(c.remoteAddr)
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		msgType, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("ws error: %v", err)
			}
			break
		}

		// Rate limiting
		now := time.Now()
		if now.After(c.msgResetAt) {
			c.msgCount = 0
			c.msgResetAt = now.Add(time.Second)
		}
		c.msgCount++
		if c.msgCount > maxMessagesPerSec {
			log.Printf("rate limit exceeded for %s, disconnecting", c.remoteAddr)
			break
		}

		// Binary input messages: 6 bytes [0x01, keys, px_hi, px_lo, py_hi, py_lo]
		if msgType == websocket.BinaryMessage && len(message) == 6 && message[0] == 0x01 {
			c.handleBinaryInput(message)
		} else {
			c.handleMessage(message)
		}
	}
}

// WritePump writes messages to the WebSocket connection
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			// Check for binary marker (0xFF prefix from SendBinary)
			var err error
			if len(message) > 0 && message[0] == 0xFF {
				err = c.conn.WriteMessage(websocket.BinaryMessage, message[1:])
			} else {
				err = c.conn.WriteMessage(websocket.TextMessage, message)
			}
			if err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// SendJSON sends a JSON message to the client
func (c *Client) SendJSON(msg interface{}) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("marshal error: %v", err)
		return
	}
	c.SendRaw(data)
}

// SendRaw sends pre-marshaled bytes as a text message to the client
func (c *Client) SendRaw(data []byte) {
	defer func() { recover() }()
	select {
	case c.send <- data:
	default:
		// Client too slow, drop message
	}
}

// SendBinary sends pre-marshaled bytes as a binary WebSocket message
// Prefixes with 0xFF marker byte so WritePump can distinguish from text
func (c *Client) SendBinary(data []byte) {
	defer func() { recover() }()
	msg := make([]byte, len(data)+1)
	msg[0] = 0xFF // binary marker
	copy(msg[1:], data)
	select {
	case c.send <- msg:
	default:
	}
}

func (c *Client) sendError(msg string) {
	c.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Msg: msg}})
}

// handleMessage routes incoming messages (single-pass decode via InEnvelope)
func (c *Client) handleMessage(raw []byte) {
	var env InEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		log.Printf("unmarshal error: %v", err)
		return
	}

	switch env.T {
	case MsgCreate:
		c.handleCreate(env.D)
	case MsgStart:
		c.command(func(g *game.Game) error { return g.Start() })
	case MsgInput:
		c.handleInput(env.D)
	case MsgPick:
		c.handleChoice(env.D, (*game.Game).SelectUpgrade)
	case MsgRevive:
		c.handleChoice(env.D, (*game.Game).SelectRevive)
	case MsgSkip:
		c.command(func(g *game.Game) error { return g.SkipRevive() })
	case MsgMenu:
		c.command(func(g *game.Game) error { return g.ReturnToMenu() })
	case MsgSubmit:
		c.handleSubmit(env.D)
	case MsgScores:
		c.handleScores(env.D)
	case MsgList:
		c.handleList()
	case MsgCheck:
		c.handleCheck(env.D)
	case MsgSpectate:
		c.handleSpectate(env.D)
	case MsgControl:
		c.handleControl(env.D)
	case MsgLeave:
		c.hub.detach(c)
	}
}

func (c *Client) session() *Session {
	if c.sessionID == "" {
		return nil
	}
	return c.hub.sessions.GetSession(c.sessionID)
}

// command runs a game action on behalf of the pilot or controller
func (c *Client) command(fn func(g *game.Game) error) {
	sess := c.session()
	if sess == nil {
		c.sendError(errNoSession.Error())
		return
	}
	if err := sess.Command(c, fn); err != nil {
		c.sendError(err.Error())
	}
}

func (c *Client) handleChoice(data json.RawMessage, pick func(*game.Game, int) error) {
	var msg ChoiceMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	c.command(func(g *game.Game) error { return pick(g, msg.I) })
}

func (c *Client) handleCreate(data json.RawMessage) {
	var msg CreateMsg
	if len(data) > 0 {
		if err := json.Unmarshal(data, &msg); err != nil {
			return
		}
	}
	c.hub.detach(c)
	c.name = SanitizeName(msg.Name)

	var sess *Session
	if msg.SID != "" {
		// Reclaim an abandoned run, e.g. after a page reload
		sess = c.hub.sessions.GetSession(msg.SID)
		if sess == nil {
			c.sendError(errNoSession.Error())
			return
		}
		if err := sess.SetOwner(c); err != nil {
			c.sendError(err.Error())
			return
		}
	} else {
		sess = c.hub.sessions.CreateSession(c.name + "'s run")
		if sess == nil {
			c.sendError(errTooManySession.Error())
			return
		}
		sess.SetOwner(c)
	}

	c.sessionID = sess.ID
	c.role = roleOwner
	c.SendJSON(Envelope{T: MsgCreated, Data: map[string]string{"sid": sess.ID}})
	c.SendJSON(Envelope{T: MsgWelcome, Data: WelcomeMsg{SID: sess.ID, Name: c.name, Role: roleOwner}})
}

// handleBinaryInput decodes a compact 6-byte binary input message
func (c *Client) handleBinaryInput(msg []byte) {
	sess := c.session()
	if sess == nil {
		return
	}
	sess.HandleInput(c, InputMsg{
		Keys: msg[1],
		PX:   float64(uint16(msg[2])<<8 | uint16(msg[3])),
		PY:   float64(uint16(msg[4])<<8 | uint16(msg[5])),
	})
}

func (c *Client) handleInput(data json.RawMessage) {
	sess := c.session()
	if sess == nil {
		return
	}
	var input InputMsg
	if err := json.Unmarshal(data, &input); err != nil {
		return
	}
	sess.HandleInput(c, input)
}

// handleSubmit never blocks a return to the menu: failures are reported
// and the client may retry or skip.
func (c *Client) handleSubmit(data json.RawMessage) {
	var msg SubmitMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		c.SendJSON(Envelope{T: MsgSubmitFailed, Data: ErrorMsg{Msg: "bad request"}})
		return
	}
	name := msg.Name
	if name == "" {
		name = c.name
	}
	rank, err := c.hub.SubmitRun(name, msg.Receipt)
	if err != nil {
		log.Printf("leaderboard: submit error: %v", err)
		reason := "could not save score"
		switch {
		case errors.Is(err, ErrInvalidToken):
			reason = "invalid receipt"
		case errors.Is(err, ErrDuplicateReceipt):
			reason = ErrDuplicateReceipt.Error()
		case errors.Is(err, errLeaderboardDown):
			reason = errLeaderboardDown.Error()
		}
		c.SendJSON(Envelope{T: MsgSubmitFailed, Data: ErrorMsg{Msg: reason}})
		return
	}
	c.SendJSON(Envelope{T: MsgSubmitted, Data: SubmittedMsg{Rank: rank}})
}

func (c *Client) handleScores(data json.RawMessage) {
	var msg ScoresMsg
	if len(data) > 0 {
		json.Unmarshal(data, &msg)
	}
	scores, err := c.hub.TopScores(msg.N)
	if err != nil {
		log.Printf("leaderboard: query error: %v", err)
		c.sendError(errLeaderboardDown.Error())
		return
	}
	c.SendJSON(Envelope{T: MsgScoreList, Data: scores})
}

func (c *Client) handleList() {
	sessions := c.hub.sessions.ListSessions()
	c.SendJSON(Envelope{T: MsgSessions, Data: sessions})
}

func (c *Client) handleCheck(data json.RawMessage) {
	var msg SessionRefMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	sess := c.hub.sessions.GetSession(msg.SID)
	if sess == nil {
		c.SendJSON(Envelope{T: MsgChecked, Data: CheckedMsg{SID: msg.SID, Exists: false}})
		return
	}
	info := sess.Info()
	c.SendJSON(Envelope{T: MsgChecked, Data: CheckedMsg{
		SID:    msg.SID,
		Exists: true,
		Name:   info.Name,
		Mode:   info.Mode,
	}})
}

func (c *Client) handleSpectate(data json.RawMessage) {
	var msg SessionRefMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	sess := c.hub.sessions.GetSession(msg.SID)
	if sess == nil {
		c.sendError(errNoSession.Error())
		return
	}
	c.hub.detach(c)
	if err := sess.AddSpectator(c); err != nil {
		c.sendError(err.Error())
		return
	}
	c.sessionID = sess.ID
	c.role = roleSpectator
	c.SendJSON(Envelope{T: MsgSpectating, Data: WelcomeMsg{SID: sess.ID, Name: sess.Name, Role: roleSpectator}})
}

func (c *Client) handleControl(data json.RawMessage) {
	var msg SessionRefMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	sess := c.hub.sessions.GetSession(msg.SID)
	if sess == nil {
		c.sendError(errNoSession.Error())
		return
	}
	c.hub.detach(c)
	c.sessionID = sess.ID
	c.role = roleController
	sess.SetController(c)
	c.SendJSON(Envelope{T: MsgControlOK, Data: map[string]string{"sid": sess.ID}})
}
