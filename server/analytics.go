package main

import (
	"database/sql"
	"log"
	"sync"
	"time"
)

// Event types for analytics tracking
const (
	EvtRunStart      = "run_start"
	EvtRunEnd        = "run_end"
	EvtWaveReached   = "wave_reached"
	EvtUpgradePicked = "upgrade_picked"
	EvtLootOpened    = "loot_opened"
)

const (
	analyticsBuffer = 1024
	analyticsBatch  = 50
)

var analyticsFlushEvery = 5 * time.Second

// AnalyticsEvent represents a single trackable event
type AnalyticsEvent struct {
	Type      string
	SessionID string
	Data      string // JSON metadata (optional)
	Timestamp time.Time
}

// Analytics handles event tracking with batched background writes
type Analytics struct {
	db     *DB
	events chan AnalyticsEvent
	stop   chan struct{}
	once   sync.Once
	wg     sync.WaitGroup
}

// NewAnalytics creates and starts the analytics background writer
func NewAnalytics(db *DB) *Analytics {
	a := &Analytics{
		db:     db,
		events: make(chan AnalyticsEvent, analyticsBuffer),
		stop:   make(chan struct{}),
	}
	a.wg.Add(1)
	go a.writer()
	return a
}

// Track enqueues an event for async persistence (non-blocking)
func (a *Analytics) Track(evtType, sessionID, data string) {
	if a == nil {
		return
	}
	select {
	case <-a.stop:
		return
	default:
	}
	select {
	case a.events <- AnalyticsEvent{
		Type:      evtType,
		SessionID: sessionID,
		Data:      data,
		Timestamp: time.Now().UTC(),
	}:
	default:
		// Channel full: drop the event rather than stall a tick loop
	}
}

// Stop drains pending events and shuts down the writer
func (a *Analytics) Stop() {
	a.once.Do(func() { close(a.stop) })
	a.wg.Wait()
}

// writer is the background goroutine that batches and writes events to DB
func (a *Analytics) writer() {
	defer a.wg.Done()

	batch := make([]AnalyticsEvent, 0, analyticsBatch)
	ticker := time.NewTicker(analyticsFlushEvery)
	defer ticker.Stop()

	for {
		select {
		case evt := <-a.events:
			batch = append(batch, evt)
			if len(batch) >= analyticsBatch {
				a.flush(batch)
				batch = batch[:0]
			}
		case <-ticker.C:
			if len(batch) > 0 {
				a.flush(batch)
				batch = batch[:0]
			}
		case <-a.stop:
			for {
				select {
				case evt := <-a.events:
					batch = append(batch, evt)
				default:
					a.flush(batch)
					return
				}
			}
		}
	}
}

// flush writes a batch of events to the database
func (a *Analytics) flush(events []AnalyticsEvent) {
	if a.db == nil || len(events) == 0 {
		return
	}
	tx, err := a.db.conn.Begin()
	if err != nil {
		log.Printf("analytics: begin tx error: %v", err)
		return
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO analytics_events (event_type, session_id, data, created_at) VALUES (?, ?, ?, ?)`)
	if err != nil {
		log.Printf("analytics: prepare error: %v", err)
		return
	}
	defer stmt.Close()

	for _, evt := range events {
		sid := sql.NullString{String: evt.SessionID, Valid: evt.SessionID != ""}
		data := sql.NullString{String: evt.Data, Valid: evt.Data != ""}
		if _, err := stmt.Exec(evt.Type, sid, data, evt.Timestamp.Format(time.RFC3339)); err != nil {
			log.Printf("analytics: insert error: %v", err)
		}
	}
	if err := tx.Commit(); err != nil {
		log.Printf("analytics: commit error: %v", err)
	}
}

// --- Query methods for the API ---

// EventCounts returns counts of each event type for the last N days
func (a *Analytics) EventCounts(days int) (map[string]int, error) {
	result := make(map[string]int)
	if a.db == nil {
		return result, nil
	}
	rows, err := a.db.conn.Query(`
		SELECT event_type, COUNT(*) FROM analytics_events
		WHERE created_at >= date('now', '-' || ? || ' days')
		GROUP BY event_type ORDER BY COUNT(*) DESC
	`, days)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var evtType string
		var count int
		if err := rows.Scan(&evtType, &count); err != nil {
			continue
		}
		result[evtType] = count
	}
	return result, rows.Err()
}

// RunStats aggregates finished runs over the last N days
func (a *Analytics) RunStats(days int) (RunAnalytics, error) {
	var r RunAnalytics
	if a.db == nil {
		return r, nil
	}
	var avgScore, avgWave, avgSecs sql.NullFloat64
	err := a.db.conn.QueryRow(`
		SELECT COUNT(*),
			AVG(json_extract(data, '$.score')),
			AVG(json_extract(data, '$.wave')),
			AVG(json_extract(data, '$.seconds'))
		FROM analytics_events
		WHERE event_type = ? AND json_valid(data)
			AND created_at >= date('now', '-' || ? || ' days')
	`, EvtRunEnd, days).Scan(&r.Count, &avgScore, &avgWave, &avgSecs)
	r.AvgScore = avgScore.Float64
	r.AvgWave = avgWave.Float64
	r.AvgSeconds = avgSecs.Float64
	return r, err
}

// PopularUpgrades returns the most picked upgrade ids
func (a *Analytics) PopularUpgrades(limit int) ([]UpgradeAnalytics, error) {
	if a.db == nil {
		return nil, nil
	}
	rows, err := a.db.conn.Query(`
		SELECT COALESCE(data, 'unknown') as upgrade, COUNT(*) as cnt
		FROM analytics_events
		WHERE event_type = ?
		GROUP BY upgrade ORDER BY cnt DESC, upgrade ASC LIMIT ?
	`, EvtUpgradePicked, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []UpgradeAnalytics
	for rows.Next() {
		var u UpgradeAnalytics
		if err := rows.Scan(&u.ID, &u.Count); err != nil {
			continue
		}
		result = append(result, u)
	}
	return result, rows.Err()
}

// DailyRuns returns started runs per day for the last N days
func (a *Analytics) DailyRuns(days int) ([]DayCount, error) {
	if a.db == nil {
		return nil, nil
	}
	rows, err := a.db.conn.Query(`
		SELECT date(created_at) as day, COUNT(*)
		FROM analytics_events
		WHERE event_type = ? AND created_at >= date('now', '-' || ? || ' days')
		GROUP BY day ORDER BY day
	`, EvtRunStart, days)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []DayCount
	for rows.Next() {
		var dc DayCount
		if err := rows.Scan(&dc.Day, &dc.Count); err != nil {
			continue
		}
		result = append(result, dc)
	}
	return result, rows.Err()
}

// RunAnalytics holds aggregated run statistics
type RunAnalytics struct {
	Count      int     `json:"count"`
	AvgScore   float64 `json:"avg_score"`
	AvgWave    float64 `json:"avg_wave"`
	AvgSeconds float64 `json:"avg_seconds"`
}

// UpgradeAnalytics holds pick count per upgrade
type UpgradeAnalytics struct {
	ID    string `json:"id"`
	Count int    `json:"count"`
}

// DayCount holds a count for a specific day
type DayCount struct {
	Day   string `json:"day"`
	Count int    `json:"count"`
}
