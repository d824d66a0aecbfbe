package main

import (
	"encoding/json"
	"errors"
	"log"
	"net"
	"net/http"
	"net/url"
	"path/filepath"
	"regexp"
	"strconv"

	"github.com/gorilla/websocket"
	"github.com/skip2/go-qrcode"
)

const (
	qrSize         = 256
	statsDays      = 7
	popularLimit   = 10
	adminKeyHeader = "X-Admin-Key"
)

var uuidPathRe = regexp.MustCompile(`^/[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true // Non-browser clients don't send Origin
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		return u.Host == r.Host
	},
}

func extractIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("http: encode error: %v", err)
	}
}

// SetupRoutes configures HTTP routes
func SetupRoutes(hub *Hub, clientDir string) *http.ServeMux {
	mux := http.NewServeMux()

	// Serve static files with no-cache so browsers always revalidate
	fs := http.FileServer(http.Dir(clientDir))
	mux.Handle("/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-cache")
		// SPA: serve index.html for root and session paths
		if r.URL.Path == "/" || uuidPathRe.MatchString(r.URL.Path) {
			http.ServeFile(w, r, filepath.Join(clientDir, "index.html"))
			return
		}
		fs.ServeHTTP(w, r)
	}))

	// WebSocket endpoint
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		ip := extractIP(r)
		if !hub.CanAccept(ip) {
			http.Error(w, "too many connections", http.StatusServiceUnavailable)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("upgrade error: %v", err)
			return
		}

		hub.TrackConnect(ip)

		client := NewClient(hub, conn, ip)
		hub.register <- client

		go client.WritePump()
		go client.ReadPump()
	})

	mux.HandleFunc("GET /api/leaderboard", func(w http.ResponseWriter, r *http.Request) {
		n, _ := strconv.Atoi(r.URL.Query().Get("n"))
		scores, err := hub.TopScores(n)
		if err != nil {
			log.Printf("leaderboard: query error: %v", err)
			writeJSON(w, http.StatusServiceUnavailable, ErrorMsg{Msg: errLeaderboardDown.Error()})
			return
		}
		writeJSON(w, http.StatusOK, scores)
	})

	mux.HandleFunc("POST /api/scores", func(w http.ResponseWriter, r *http.Request) {
		var msg SubmitMsg
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxMessageSize)).Decode(&msg); err != nil {
			writeJSON(w, http.StatusBadRequest, ErrorMsg{Msg: "bad request"})
			return
		}
		rank, err := hub.SubmitRun(msg.Name, msg.Receipt)
		switch {
		case err == nil:
			writeJSON(w, http.StatusCreated, SubmittedMsg{Rank: rank})
		case errors.Is(err, ErrInvalidToken):
			writeJSON(w, http.StatusUnauthorized, ErrorMsg{Msg: "invalid receipt"})
		case errors.Is(err, ErrDuplicateReceipt):
			writeJSON(w, http.StatusConflict, ErrorMsg{Msg: err.Error()})
		default:
			log.Printf("leaderboard: submit error: %v", err)
			writeJSON(w, http.StatusServiceUnavailable, ErrorMsg{Msg: errLeaderboardDown.Error()})
		}
	})

	mux.HandleFunc("DELETE /api/scores/{id}", func(w http.ResponseWriter, r *http.Request) {
		if hub.receipts == nil || !hub.receipts.CheckAdmin(r.Header.Get(adminKeyHeader)) {
			writeJSON(w, http.StatusUnauthorized, ErrorMsg{Msg: "unauthorized"})
			return
		}
		id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, ErrorMsg{Msg: "bad id"})
			return
		}
		if hub.db == nil {
			writeJSON(w, http.StatusServiceUnavailable, ErrorMsg{Msg: errLeaderboardDown.Error()})
			return
		}
		found, err := hub.db.DeleteScore(id)
		if err != nil {
			log.Printf("leaderboard: delete error: %v", err)
			writeJSON(w, http.StatusInternalServerError, ErrorMsg{Msg: "delete failed"})
			return
		}
		if !found {
			writeJSON(w, http.StatusNotFound, ErrorMsg{Msg: "not found"})
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	mux.HandleFunc("GET /api/stats", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, collectStats(hub))
	})

	// Pairing code for a phone controller
	mux.HandleFunc("GET /qr", func(w http.ResponseWriter, r *http.Request) {
		sid := r.URL.Query().Get("sid")
		if hub.sessions.GetSession(sid) == nil {
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}
		scheme := "http"
		if r.TLS != nil {
			scheme = "https"
		}
		target := scheme + "://" + r.Host + "/" + sid + "?ctrl=1"
		png, err := qrcode.Encode(target, qrcode.Medium, qrSize)
		if err != nil {
			log.Printf("qr error: %v", err)
			http.Error(w, "qr failed", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Cache-Control", "no-cache")
		w.Write(png)
	})

	return mux
}

// Stats is the /api/stats payload
type Stats struct {
	Connections int                `json:"connections"`
	Sessions    int                `json:"sessions"`
	Scores      int                `json:"scores"`
	Events      map[string]int     `json:"events"`
	Runs        RunAnalytics       `json:"runs"`
	Upgrades    []UpgradeAnalytics `json:"upgrades"`
	Daily       []DayCount         `json:"daily"`
}

func collectStats(hub *Hub) Stats {
	s := Stats{
		Connections: hub.TotalConns(),
		Sessions:    hub.sessions.Count(),
		Events:      map[string]int{},
	}
	if hub.db != nil {
		if n, err := hub.db.ScoreCount(); err == nil {
			s.Scores = n
		}
	}
	a := hub.analytics
	if a == nil {
		return s
	}
	var err error
	if s.Events, err = a.EventCounts(statsDays); err != nil {
		log.Printf("analytics: counts error: %v", err)
		s.Events = map[string]int{}
	}
	if s.Runs, err = a.RunStats(statsDays); err != nil {
		log.Printf("analytics: runs error: %v", err)
	}
	if s.Upgrades, err = a.PopularUpgrades(popularLimit); err != nil {
		log.Printf("analytics: upgrades error: %v", err)
	}
	if s.Daily, err = a.DailyRuns(statsDays); err != nil {
		log.Printf("analytics: daily error: %v", err)
	}
	return s
}
