package main

import (
	"errors"
	"sync"
	"time"

	"robot-survival/game"
)

const (
	maxConnsPerIP = 5
	maxTotalConns = 1000
)

var errLeaderboardDown = errors.New("leaderboard unavailable")

// Hub manages all connected clients and the services they share
type Hub struct {
	mu         sync.RWMutex
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	sessions   *SessionManager
	// Connection limiting (mutex-protected, accessed from HTTP handlers)
	connMu     sync.Mutex
	ipConns    map[string]int
	totalConns int

	db        *DB
	receipts  *Receipts
	analytics *Analytics

	done     chan struct{}
	stopOnce sync.Once
}

// NewHub wires the hub to its storage. db may be nil, in which case the
// leaderboard degrades and play continues.
func NewHub(db *DB, receipts *Receipts, analytics *Analytics) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client, 64),
		unregister: make(chan *Client, 64),
		sessions:   NewSessionManager(game.DefaultConfig(), receipts, analytics),
		ipConns:    make(map[string]int),
		db:         db,
		receipts:   receipts,
		analytics:  analytics,
		done:       make(chan struct{}),
	}
}

func (h *Hub) CanAccept(ip string) bool {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	if h.totalConns >= maxTotalConns {
		return false
	}
	if h.ipConns[ip] >= maxConnsPerIP {
		return false
	}
	return true
}

func (h *Hub) TrackConnect(ip string) {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	h.ipConns[ip]++
	h.totalConns++
}

func (h *Hub) TrackDisconnect(ip string) {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	h.ipConns[ip]--
	if h.ipConns[ip] <= 0 {
		delete(h.ipConns, ip)
	}
	h.totalConns--
}

// reapInterval is how often Run looks for abandoned sessions
func reapInterval(idle time.Duration) time.Duration {
	d := idle / 2
	if d > time.Second {
		d = time.Second
	}
	if d < 10*time.Millisecond {
		d = 10 * time.Millisecond
	}
	return d
}

// Run processes register/unregister events and reaps idle sessions
// until Stop is called
func (h *Hub) Run() {
	reap := time.NewTicker(reapInterval(h.sessions.IdleTimeout))
	defer reap.Stop()

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			h.detach(client)

		case now := <-reap.C:
			h.sessions.ReapIdle(now)

		case <-h.done:
			return
		}
	}
}

// Stop ends Run
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.done) })
}

// detach removes a client from whatever role it holds in a session
func (h *Hub) detach(c *Client) {
	if c.sessionID == "" {
		return
	}
	sess := h.sessions.GetSession(c.sessionID)
	if sess != nil {
		switch c.role {
		case roleOwner:
			sess.ClearOwner(c)
		case roleSpectator:
			sess.RemoveSpectator(c)
		case roleController:
			sess.RemoveController(c)
		}
	}
	c.sessionID = ""
	c.role = roleNone
}

// SubmitRun redeems a receipt into a leaderboard entry and returns its rank
func (h *Hub) SubmitRun(name, receipt string) (int, error) {
	if h.receipts == nil || h.db == nil {
		return 0, errLeaderboardDown
	}
	claims, err := h.receipts.Verify(receipt)
	if err != nil {
		return 0, err
	}
	res := claims.Result
	return h.db.SubmitScore(ScoreEntry{
		PlayerName: SanitizeName(name),
		Score:      res.Score,
		Time:       res.Time,
		Kills:      res.Kills,
		Wave:       res.Wave,
	}, claims.ID)
}

// TopScores returns the leaderboard head
func (h *Hub) TopScores(n int) ([]ScoreEntry, error) {
	if h.db == nil {
		return nil, errLeaderboardDown
	}
	return h.db.TopScores(n)
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// TotalConns returns the tracked connection count
func (h *Hub) TotalConns() int {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	return h.totalConns
}
