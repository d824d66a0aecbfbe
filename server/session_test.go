package main

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"robot-survival/game"
)

// fakeClient records everything a session sends it
type fakeClient struct {
	mu     sync.Mutex
	msgs   []Envelope
	frames [][]byte
}

func (f *fakeClient) SendJSON(msg interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	// round trip so Data looks like what a browser decodes
	raw, _ := json.Marshal(msg)
	var env Envelope
	json.Unmarshal(raw, &env)
	f.msgs = append(f.msgs, env)
}

func (f *fakeClient) SendBinary(data []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.frames = append(f.frames, data)
}

func (f *fakeClient) byType(t string) []Envelope {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []Envelope
	for _, m := range f.msgs {
		if m.T == t {
			out = append(out, m)
		}
	}
	return out
}

func testSession(t *testing.T, receipts *Receipts) *Session {
	t.Helper()
	cfg := game.DefaultConfig()
	cfg.Seed = 7
	return NewSession("test-sid", "Test run", cfg, receipts, nil)
}

// startRun makes owner the pilot and ticks into play
func startRun(t *testing.T, s *Session, owner Broadcaster) {
	t.Helper()
	if err := s.SetOwner(owner); err != nil {
		t.Fatalf("set owner: %v", err)
	}
	if err := s.Command(owner, func(g *game.Game) error { return g.Start() }); err != nil {
		t.Fatalf("start: %v", err)
	}
	s.update()
	if s.game.Mode() != game.ModePlaying {
		t.Fatalf("expected playing, got %s", s.game.Mode())
	}
}

func TestSessionSnapshotIsMsgpack(t *testing.T) {
	s := testSession(t, nil)
	owner := &fakeClient{}
	viewer := &fakeClient{}
	startRun(t, s, owner)
	s.AddSpectator(viewer)

	for i := 0; i < BroadcastEvery*2; i++ {
		s.update()
	}
	if len(owner.frames) == 0 || len(viewer.frames) == 0 {
		t.Fatalf("expected binary frames, owner %d viewer %d", len(owner.frames), len(viewer.frames))
	}

	var snap game.Snapshot
	if err := msgpack.Unmarshal(owner.frames[len(owner.frames)-1], &snap); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if snap.Mode != "playing" || snap.Lives != 3 || snap.Wave != 1 {
		t.Errorf("unexpected snapshot: mode=%s lives=%d wave=%d", snap.Mode, snap.Lives, snap.Wave)
	}
}

func TestSessionSfxBatchedAndDeduped(t *testing.T) {
	s := testSession(t, nil)
	owner := &fakeClient{}
	viewer := &fakeClient{}
	s.SetOwner(owner)
	s.AddSpectator(viewer)

	s.mu.Lock()
	s.PlayEffect(game.SfxShoot)
	s.PlayEffect(game.SfxShoot)
	s.PlayEffect(game.SfxGem)
	s.broadcastSnapshot()
	s.mu.Unlock()

	sfx := owner.byType(MsgSfx)
	if len(sfx) != 1 {
		t.Fatalf("expected one sfx batch, got %d", len(sfx))
	}
	names := sfx[0].Data.(map[string]interface{})["names"].([]interface{})
	if len(names) != 2 {
		t.Errorf("expected 2 distinct cues, got %v", names)
	}
	if len(viewer.byType(MsgSfx)) != 0 {
		t.Error("spectators should not receive sound cues")
	}
	if len(s.sfx) != 0 {
		t.Error("batch should be cleared after flush")
	}
}

func TestSessionRejectsSpectatorCommands(t *testing.T) {
	s := testSession(t, nil)
	owner := &fakeClient{}
	viewer := &fakeClient{}
	s.SetOwner(owner)
	s.AddSpectator(viewer)

	err := s.Command(viewer, func(g *game.Game) error { return g.Start() })
	if !errors.Is(err, errNotPlayer) {
		t.Errorf("expected errNotPlayer, got %v", err)
	}
	if err := s.SetOwner(viewer); !errors.Is(err, errSessionTaken) {
		t.Errorf("expected errSessionTaken, got %v", err)
	}
}

func TestControllerDrivesKeysOnly(t *testing.T) {
	s := testSession(t, nil)
	owner := &fakeClient{}
	phone := &fakeClient{}
	s.SetOwner(owner)
	s.HandleInput(owner, InputMsg{Keys: game.KeyUp, PX: 100, PY: 200})

	s.SetController(phone)
	if len(owner.byType(MsgCtrlOn)) != 1 {
		t.Error("owner should be told about the controller")
	}
	s.HandleInput(phone, InputMsg{Keys: game.KeyLeft, PX: 5, PY: 5})
	if s.input.Keys != game.KeyLeft || s.input.PointerX != 100 {
		t.Errorf("controller should only set keys, got %+v", s.input)
	}

	s.RemoveController(phone)
	if s.input.Keys != 0 {
		t.Error("keys should be released when the controller leaves")
	}
	if len(owner.byType(MsgCtrlOff)) != 1 {
		t.Error("owner should be told the controller left")
	}
}

func TestViewportFromOwnerInput(t *testing.T) {
	s := testSession(t, nil)
	owner := &fakeClient{}
	s.SetOwner(owner)
	s.HandleInput(owner, InputMsg{VW: 800, VH: 600})
	if cam := s.game.Camera(); cam.ViewW != 800 || cam.ViewH != 600 {
		t.Errorf("expected 800x600 viewport, got %.0fx%.0f", cam.ViewW, cam.ViewH)
	}
}

func TestGameOverIssuesReceipt(t *testing.T) {
	receipts := NewReceipts(nil, "test-secret", "")
	s := testSession(t, receipts)
	owner := &fakeClient{}
	viewer := &fakeClient{}
	startRun(t, s, owner)
	s.AddSpectator(viewer)

	s.Command(owner, func(g *game.Game) error {
		g.Enemies = nil
		g.Lives = 1
		g.Resurrections = g.Config().MaxResurrections
		g.Score = 420
		p := g.Player
		g.Enemies = append(g.Enemies, game.NewEnemy(9999, game.EnemyCrusher, p.X, p.Y, 1, 0))
		return nil
	})

	for i := 0; i < 400 && s.game.Mode() != game.ModeGameOver; i++ {
		s.update()
	}
	if s.game.Mode() != game.ModeGameOver {
		t.Fatalf("expected game over, got %s", s.game.Mode())
	}

	overs := owner.byType(MsgGameOver)
	if len(overs) != 1 {
		t.Fatalf("expected one gameover message, got %d", len(overs))
	}
	d := overs[0].Data.(map[string]interface{})
	receipt, _ := d["receipt"].(string)
	if receipt == "" {
		t.Fatal("owner should receive a receipt")
	}
	claims, err := receipts.Verify(receipt)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.SessionID != "test-sid" || claims.Result.Score != s.game.Score {
		t.Errorf("receipt mismatch: %+v", claims)
	}

	vo := viewer.byType(MsgGameOver)
	if len(vo) != 1 {
		t.Fatalf("spectator should see the game over, got %d", len(vo))
	}
	if _, ok := vo[0].Data.(map[string]interface{})["receipt"]; ok {
		t.Error("spectators must not receive the receipt")
	}
}

func TestIdleSessionsReaped(t *testing.T) {
	sm := NewSessionManager(game.DefaultConfig(), nil, nil)
	sm.IdleTimeout = 50 * time.Millisecond
	defer sm.StopAll()
	owned := sm.CreateSession("owned")
	orphan := sm.CreateSession("orphan")
	pilot := &fakeClient{}
	owned.SetOwner(pilot)

	if n := sm.ReapIdle(time.Now()); n != 0 {
		t.Fatalf("nothing should be idle yet, reaped %d", n)
	}
	if n := sm.ReapIdle(time.Now().Add(time.Second)); n != 1 {
		t.Fatalf("expected the orphan reaped, got %d", n)
	}
	if sm.GetSession(orphan.ID) != nil || sm.GetSession(owned.ID) == nil {
		t.Error("wrong session reaped")
	}

	owned.ClearOwner(pilot)
	if n := sm.ReapIdle(time.Now().Add(time.Second)); n != 1 {
		t.Errorf("abandoned session should be reaped, got %d", n)
	}
	if sm.Count() != 0 {
		t.Errorf("expected no sessions, got %d", sm.Count())
	}
}

func TestSessionIDIsUUID(t *testing.T) {
	sm := NewSessionManager(game.DefaultConfig(), nil, nil)
	defer sm.StopAll()
	sess := sm.CreateSession("TestArena")
	if !uuidRegex.MatchString(sess.ID) {
		t.Errorf("session ID %q is not a valid UUID v4", sess.ID)
	}
}

func TestSessionLimit(t *testing.T) {
	sm := NewSessionManager(game.DefaultConfig(), nil, nil)
	defer sm.StopAll()
	for i := 0; i < maxSessions; i++ {
		if sm.CreateSession("s") == nil {
			t.Fatalf("session %d refused early", i)
		}
	}
	if sm.CreateSession("one too many") != nil {
		t.Error("expected the session cap to hold")
	}
}

func TestHubStopEndsRun(t *testing.T) {
	hub := NewHub(nil, nil, nil)
	hub.sessions.IdleTimeout = 20 * time.Millisecond
	done := make(chan struct{})
	go func() {
		hub.Run()
		close(done)
	}()

	orphan := hub.sessions.CreateSession("orphan")
	deadline := time.Now().Add(2 * time.Second)
	for hub.sessions.GetSession(orphan.ID) != nil && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if hub.sessions.GetSession(orphan.ID) != nil {
		t.Error("reaper should honour the configured idle timeout")
	}

	hub.Stop()
	hub.Stop()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after Stop")
	}
}
