package main

import (
	"encoding/json"
	"errors"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"

	"robot-survival/game"
)

const (
	BroadcastRate  = 30 // snapshots per second
	TickDuration   = time.Second / game.TickRate
	BroadcastEvery = game.TickRate / BroadcastRate
)

const (
	maxSessions    = 100
	maxSpectators  = 16
	maxSfxPerBatch = 32
)

// DefaultIdleTimeout is how long a session without an owner survives
const DefaultIdleTimeout = 30 * time.Second

var (
	errNotPlayer      = errors.New("only the pilot can do that")
	errSessionFull    = errors.New("session full")
	errSessionTaken   = errors.New("session already has a pilot")
	errNoSession      = errors.New("session not found")
	errTooManySession = errors.New("too many active sessions")
)

// Broadcaster is the outbound side of a connected client
type Broadcaster interface {
	SendJSON(msg interface{})
	SendBinary(data []byte)
}

// Session runs one authoritative game at the tick rate and fans its
// snapshots out to the pilot and any spectators.
type Session struct {
	ID   string
	Name string

	mu         sync.Mutex
	game       *game.Game
	owner      Broadcaster
	controller Broadcaster
	spectators map[Broadcaster]bool
	input      game.Input
	sfx        []string
	tick       uint64
	idleSince  time.Time
	stopped    bool
	stop       chan struct{}

	receipts  *Receipts
	analytics *Analytics
}

// NewSession creates a session in the menu state. It does not start ticking.
func NewSession(id, name string, cfg game.Config, receipts *Receipts, analytics *Analytics) *Session {
	s := &Session{
		ID:         id,
		Name:       name,
		spectators: make(map[Broadcaster]bool),
		stop:       make(chan struct{}),
		idleSince:  time.Now(),
		receipts:   receipts,
		analytics:  analytics,
	}
	s.game = game.NewGame(cfg, s)
	return s
}

// Run starts the tick loop
func (s *Session) Run() {
	ticker := time.NewTicker(TickDuration)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.update()
		case <-s.stop:
			return
		}
	}
}

// Stop terminates the tick loop and tells everyone still attached
func (s *Session) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	s.stopped = true
	close(s.stop)
	s.broadcastMsg(Envelope{T: MsgClosed, Data: map[string]string{"sid": s.ID}})
}

// PlayEffect batches sound cues until the next snapshot. Called from
// inside the game with s.mu held.
func (s *Session) PlayEffect(name string) {
	if len(s.sfx) >= maxSfxPerBatch {
		return
	}
	for _, n := range s.sfx {
		if n == name {
			return
		}
	}
	s.sfx = append(s.sfx, name)
}

// update runs one game tick
func (s *Session) update() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.game.Tick(s.input)
	s.tick++

	for _, ev := range s.game.DrainEvents() {
		s.relayEvent(ev)
	}

	if s.tick%BroadcastEvery == 0 {
		s.broadcastSnapshot()
	}
}

func (s *Session) relayEvent(ev game.Event) {
	s.broadcastMsg(Envelope{T: MsgEvent, Data: EventMsg{
		Type:   string(ev.Type),
		Detail: ev.Detail,
		Wave:   ev.Wave,
	}})

	switch ev.Type {
	case game.EventRunStarted:
		s.analytics.Track(EvtRunStart, s.ID, "")
	case game.EventWaveStarted:
		s.analytics.Track(EvtWaveReached, s.ID, strconv.Itoa(ev.Wave))
	case game.EventUpgradePicked:
		s.analytics.Track(EvtUpgradePicked, s.ID, ev.Detail)
	case game.EventLootOpened:
		s.analytics.Track(EvtLootOpened, s.ID, ev.Detail)
	case game.EventGameOver:
		s.finishRun()
	}
}

// finishRun records the result and hands the pilot a signed receipt.
// Spectators see the same numbers without the receipt.
func (s *Session) finishRun() {
	res := s.game.Result()
	if data, err := json.Marshal(res); err == nil {
		s.analytics.Track(EvtRunEnd, s.ID, string(data))
	}

	msg := GameOverMsg{
		Score: res.Score,
		Time:  res.Time,
		Kills: res.Kills,
		Wave:  res.Wave,
		Combo: res.BestCombo,
	}
	for c := range s.spectators {
		c.SendJSON(Envelope{T: MsgGameOver, Data: msg})
	}
	if s.owner == nil {
		return
	}
	if s.receipts != nil {
		receipt, err := s.receipts.Sign(s.ID, res)
		if err != nil {
			log.Printf("receipt: %v", err)
		}
		msg.Receipt = receipt
	}
	s.owner.SendJSON(Envelope{T: MsgGameOver, Data: msg})
}

// broadcastSnapshot sends the render state as a binary msgpack frame and
// flushes the pending sound cues to the pilot.
func (s *Session) broadcastSnapshot() {
	snap := s.game.Snapshot()
	data, err := msgpack.Marshal(&snap)
	if err != nil {
		log.Printf("snapshot encode error: %v", err)
		return
	}
	if s.owner != nil {
		s.owner.SendBinary(data)
		if len(s.sfx) > 0 {
			s.owner.SendJSON(Envelope{T: MsgSfx, Data: SfxMsg{Names: s.sfx}})
		}
	}
	s.sfx = nil
	for c := range s.spectators {
		c.SendBinary(data)
	}
}

// broadcastMsg sends a message to the pilot and all spectators
func (s *Session) broadcastMsg(msg Envelope) {
	if s.owner != nil {
		s.owner.SendJSON(msg)
	}
	for c := range s.spectators {
		c.SendJSON(msg)
	}
}

// SetOwner makes c the pilot. Fails when someone else already flies.
func (s *Session) SetOwner(c Broadcaster) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.owner != nil && s.owner != c {
		return errSessionTaken
	}
	s.owner = c
	s.idleSince = time.Time{}
	return nil
}

// ClearOwner detaches the pilot; input is released so the ship stops
func (s *Session) ClearOwner(c Broadcaster) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.owner != c {
		return
	}
	s.owner = nil
	s.input = game.Input{}
	s.idleSince = time.Now()
}

// HasOwner reports whether a pilot is attached
func (s *Session) HasOwner() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.owner != nil
}

// AddSpectator attaches a read-only viewer
func (s *Session) AddSpectator(c Broadcaster) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.spectators) >= maxSpectators {
		return errSessionFull
	}
	s.spectators[c] = true
	return nil
}

func (s *Session) RemoveSpectator(c Broadcaster) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.spectators, c)
}

// SetController attaches a phone controller, replacing any previous one
func (s *Session) SetController(c Broadcaster) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.controller = c
	if s.owner != nil {
		s.owner.SendJSON(Envelope{T: MsgCtrlOn})
	}
}

func (s *Session) RemoveController(c Broadcaster) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.controller != c {
		return
	}
	s.controller = nil
	s.input.Keys = 0
	if s.owner != nil {
		s.owner.SendJSON(Envelope{T: MsgCtrlOff})
	}
}

// HandleInput stores the latest sampled input. The pilot drives keys,
// pointer and viewport; a controller only drives keys.
func (s *Session) HandleInput(from Broadcaster, in InputMsg) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch from {
	case nil:
		return
	case s.owner:
		s.input = game.Input{Keys: in.Keys, PointerX: in.PX, PointerY: in.PY}
		if in.VW > 0 && in.VH > 0 {
			s.game.SetViewport(in.VW, in.VH)
		}
	case s.controller:
		s.input.Keys = in.Keys
	}
}

// Command runs fn against the game for the pilot or controller
func (s *Session) Command(from Broadcaster, fn func(g *game.Game) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if from == nil || (from != s.owner && from != s.controller) {
		return errNotPlayer
	}
	return fn(s.game)
}

// Info returns the public summary
func (s *Session) Info() SessionInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SessionInfo{
		ID:         s.ID,
		Name:       s.Name,
		Mode:       s.game.Mode().String(),
		Wave:       s.game.Wave(),
		Score:      s.game.Score,
		Spectators: len(s.spectators),
	}
}

// Idle reports whether the session has been without a pilot for longer
// than timeout
func (s *Session) Idle(now time.Time, timeout time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.owner == nil && !s.idleSince.IsZero() && now.Sub(s.idleSince) > timeout
}

// SessionManager handles creation and lookup of sessions
type SessionManager struct {
	mu        sync.RWMutex
	sessions  map[string]*Session
	config    game.Config
	receipts  *Receipts
	analytics *Analytics

	// IdleTimeout must be set before the hub starts reaping
	IdleTimeout time.Duration
}

// NewSessionManager creates a new SessionManager. Every session gets a
// copy of cfg with a fresh seed.
func NewSessionManager(cfg game.Config, receipts *Receipts, analytics *Analytics) *SessionManager {
	return &SessionManager{
		sessions:    make(map[string]*Session),
		config:      cfg,
		receipts:    receipts,
		analytics:   analytics,
		IdleTimeout: DefaultIdleTimeout,
	}
}

// CreateSession creates and starts a new session. Returns nil if limit reached.
func (sm *SessionManager) CreateSession(name string) *Session {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if len(sm.sessions) >= maxSessions {
		return nil
	}

	cfg := sm.config
	cfg.Seed = time.Now().UnixNano()
	id := uuid.NewString()
	sess := NewSession(id, name, cfg, sm.receipts, sm.analytics)
	sm.sessions[id] = sess
	go sess.Run()
	return sess
}

// GetSession returns a session by ID
func (sm *SessionManager) GetSession(id string) *Session {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.sessions[id]
}

// RemoveSession stops and forgets a session
func (sm *SessionManager) RemoveSession(id string) {
	sm.mu.Lock()
	sess, ok := sm.sessions[id]
	delete(sm.sessions, id)
	sm.mu.Unlock()
	if ok {
		sess.Stop()
	}
}

// ReapIdle removes sessions whose pilot has been gone too long
func (sm *SessionManager) ReapIdle(now time.Time) int {
	sm.mu.RLock()
	var idle []string
	for id, sess := range sm.sessions {
		if sess.Idle(now, sm.IdleTimeout) {
			idle = append(idle, id)
		}
	}
	sm.mu.RUnlock()

	for _, id := range idle {
		sm.RemoveSession(id)
	}
	return len(idle)
}

// StopAll stops every session, used on shutdown
func (sm *SessionManager) StopAll() {
	sm.mu.Lock()
	all := sm.sessions
	sm.sessions = make(map[string]*Session)
	sm.mu.Unlock()
	for _, sess := range all {
		sess.Stop()
	}
}

// Count returns the number of sessions
func (sm *SessionManager) Count() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.sessions)
}

// ListSessions returns info about all active sessions
func (sm *SessionManager) ListSessions() []SessionInfo {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	list := make([]SessionInfo, 0, len(sm.sessions))
	for _, sess := range sm.sessions {
		list = append(list, sess.Info())
	}
	return list
}
