package main

import (
	"errors"
	"path/filepath"
	"testing"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSubmitScoreRanks(t *testing.T) {
	db := openTestDB(t)

	rank, err := db.SubmitScore(ScoreEntry{PlayerName: "ada", Score: 500, Time: "2:00", Kills: 40, Wave: 4}, "r1")
	if err != nil || rank != 1 {
		t.Fatalf("first submit: rank %d err %v", rank, err)
	}
	rank, _ = db.SubmitScore(ScoreEntry{PlayerName: "bob", Score: 900, Time: "3:10", Kills: 70, Wave: 6}, "r2")
	if rank != 1 {
		t.Errorf("higher score should rank 1, got %d", rank)
	}
	rank, _ = db.SubmitScore(ScoreEntry{PlayerName: "cy", Score: 100, Time: "0:40", Kills: 9, Wave: 1}, "r3")
	if rank != 3 {
		t.Errorf("lowest score should rank 3, got %d", rank)
	}

	top, err := db.TopScores(2)
	if err != nil {
		t.Fatalf("top: %v", err)
	}
	if len(top) != 2 || top[0].PlayerName != "bob" || top[1].PlayerName != "ada" {
		t.Fatalf("unexpected order: %+v", top)
	}
	if top[0].Rank != 1 || top[1].Rank != 2 {
		t.Errorf("ranks not assigned: %d, %d", top[0].Rank, top[1].Rank)
	}
	if top[0].Time != "3:10" || top[0].Kills != 70 || top[0].Timestamp.IsZero() {
		t.Errorf("record fields lost: %+v", top[0])
	}
}

func TestSubmitScoreOncePerReceipt(t *testing.T) {
	db := openTestDB(t)
	e := ScoreEntry{PlayerName: "ada", Score: 10, Time: "0:10"}
	if _, err := db.SubmitScore(e, "same"); err != nil {
		t.Fatal(err)
	}
	if _, err := db.SubmitScore(e, "same"); !errors.Is(err, ErrDuplicateReceipt) {
		t.Errorf("expected ErrDuplicateReceipt, got %v", err)
	}
	if n, _ := db.ScoreCount(); n != 1 {
		t.Errorf("expected 1 row, got %d", n)
	}
}

func TestTopScoresDefaultsAndCap(t *testing.T) {
	db := openTestDB(t)
	for i := 0; i < 15; i++ {
		db.SubmitScore(ScoreEntry{PlayerName: "p", Score: i}, GenerateID(8))
	}
	top, _ := db.TopScores(0)
	if len(top) != defaultTopScores {
		t.Errorf("expected default of %d, got %d", defaultTopScores, len(top))
	}
	top, _ = db.TopScores(100000)
	if len(top) != 15 {
		t.Errorf("expected all 15, got %d", len(top))
	}
}

func TestDeleteScore(t *testing.T) {
	db := openTestDB(t)
	db.SubmitScore(ScoreEntry{PlayerName: "cheater", Score: 1 << 30}, "r")
	top, _ := db.TopScores(1)

	found, err := db.DeleteScore(top[0].ID)
	if err != nil || !found {
		t.Fatalf("delete: found=%v err=%v", found, err)
	}
	found, _ = db.DeleteScore(top[0].ID)
	if found {
		t.Error("second delete should report not found")
	}
}

func TestSettings(t *testing.T) {
	db := openTestDB(t)
	if v := db.GetSetting("missing"); v != "" {
		t.Errorf("expected empty, got %q", v)
	}
	db.SetSetting("k", "one")
	db.SetSetting("k", "two")
	if v := db.GetSetting("k"); v != "two" {
		t.Errorf("expected upsert to two, got %q", v)
	}
}
