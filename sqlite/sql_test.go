package sqlite

import (
	"path/filepath"
	"testing"

	"github.com/hoshinonyaruko/gridsnake/structs"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "game.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestHighScoreDefaultsToZero(t *testing.T) {
	store := openTestStore(t)
	score, err := store.GetHighScore()
	if err != nil {
		t.Fatalf("GetHighScore failed: %v", err)
	}
	if score != 0 {
		t.Errorf("Expected 0, got %d", score)
	}
}

func TestHighScoreRoundTrip(t *testing.T) {
	store := openTestStore(t)
	for _, v := range []int{30, 50} {
		if err := store.SetHighScore(v); err != nil {
			t.Fatalf("SetHighScore(%d) failed: %v", v, err)
		}
	}
	score, err := store.GetHighScore()
	if err != nil {
		t.Fatal(err)
	}
	if score != 50 {
		t.Errorf("Expected 50, got %d", score)
	}
}

func TestHighScoreSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "game.db")
	store, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.SetHighScore(120); err != nil {
		t.Fatal(err)
	}
	store.Close()

	store, err = Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	score, err := store.GetHighScore()
	if err != nil {
		t.Fatal(err)
	}
	if score != 120 {
		t.Errorf("Expected 120 after reopen, got %d", score)
	}
}

func TestRecentGames(t *testing.T) {
	store := openTestStore(t)
	recs := []structs.GameRecord{
		{Score: 10, Length: 5, Reason: "wall", EndedAt: 100},
		{Score: 40, Length: 8, Reason: "self", EndedAt: 300},
		{Score: 20, Length: 6, Reason: "wall", EndedAt: 200},
	}
	for _, r := range recs {
		if err := store.RecordGame(r); err != nil {
			t.Fatalf("RecordGame failed: %v", err)
		}
	}

	games, err := store.RecentGames(2)
	if err != nil {
		t.Fatalf("RecentGames failed: %v", err)
	}
	if len(games) != 2 {
		t.Fatalf("Expected 2 games, got %d", len(games))
	}
	if games[0].Score != 40 || games[1].Score != 20 {
		t.Errorf("Expected scores 40,20, got %d,%d", games[0].Score, games[1].Score)
	}
	if games[0].Reason != "self" {
		t.Errorf("Expected reason self, got %s", games[0].Reason)
	}
}
