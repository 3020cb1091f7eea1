package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Check that the file was created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreSaveAndRetrieve(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Save some scores
	_, err = store.SaveScore("snake", 100)
	if err != nil {
		t.Fatalf("SaveScore() failed: %v", err)
	}

	_, err = store.SaveScore("snake", 50)
	if err != nil {
		t.Fatalf("SaveScore() failed: %v", err)
	}

	_, err = store.SaveScore("snake", 200)
	if err != nil {
		t.Fatalf("SaveScore() failed: %v", err)
	}

	// Different game
	_, err = store.SaveScore("pong", 500)
	if err != nil {
		t.Fatalf("SaveScore() failed: %v", err)
	}

	// Retrieve top scores for snake
	scores, err := store.TopScores("snake", 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}

	if len(scores) != 3 {
		t.Errorf("Expected 3 scores, got %d", len(scores))
	}

	// Should be sorted descending
	if scores[0].Score != 200 {
		t.Errorf("Expected highest score to be 200, got %d", scores[0].Score)
	}
	if scores[1].Score != 100 {
		t.Errorf("Expected second score to be 100, got %d", scores[1].Score)
	}
	if scores[2].Score != 50 {
		t.Errorf("Expected third score to be 50, got %d", scores[2].Score)
	}

	// Retrieve top scores for pong
	pongScores, err := store.TopScores("pong", 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}

	if len(pongScores) != 1 {
		t.Errorf("Expected 1 pong score, got %d", len(pongScores))
	}
}

func TestStoreTopScoresLimit(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Save 5 scores
	for i := 0; i < 5; i++ {
		store.SaveScore("test", (i+1)*100)
	}

	// Request only top 3
	scores, err := store.TopScores("test", 3)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}

	if len(scores) != 3 {
		t.Errorf("Expected 3 scores with limit, got %d", len(scores))
	}

	// Should be 500, 400, 300 (top 3)
	if scores[0].Score != 500 || scores[1].Score != 400 || scores[2].Score != 300 {
		t.Errorf("Scores not in expected order: %v", scores)
	}
}

func TestStoreHighScore(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// No scores yet
	high, err := store.HighScore("snake")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 0 {
		t.Errorf("Expected high score of 0 for empty game, got %d", high)
	}

	// Add scores
	store.SaveScore("snake", 100)
	store.SaveScore("snake", 300)
	store.SaveScore("snake", 200)

	high, err = store.HighScore("snake")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 300 {
		t.Errorf("Expected high score of 300, got %d", high)
	}
}

func TestStoreClearScores(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	store.SaveScore("snake", 100)
	store.SaveScore("snake", 200)
	store.SaveScore("pong", 300)

	// Clear only snake scores
	err = store.ClearScores("snake")
	if err != nil {
		t.Fatalf("ClearScores() failed: %v", err)
	}

	// Snake should be empty
	snakeScores, _ := store.TopScores("snake", 10)
	if len(snakeScores) != 0 {
		t.Errorf("Expected 0 snake scores after clear, got %d", len(snakeScores))
	}

	// Pong should still have scores
	pongScores, _ := store.TopScores("pong", 10)
	if len(pongScores) != 1 {
		t.Errorf("Pong scores should not be affected by clearing snake")
	}
}

func TestStoreExpandHomePath(t *testing.T) {
	// Test that ~ expansion works (we won't actually write to home)
	// Just verify the function doesn't crash
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	// Verify nested directories were created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}

func TestStoreRuns(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	runs := []Run{
		{GameID: "pong", Ticks: 600, Duration: 10 * time.Second, TargetFPS: 60, Score: 3},
		{GameID: "pong", Ticks: 300, Duration: 10 * time.Second, TargetFPS: 30, Score: 7},
		{GameID: "snake", Ticks: 90, Duration: 3 * time.Second, TargetFPS: 30, Score: 12},
	}
	for _, r := range runs {
		if _, err := store.SaveRun(r); err != nil {
			t.Fatalf("SaveRun() failed: %v", err)
		}
	}

	recent, err := store.RecentRuns("pong", 10)
	if err != nil {
		t.Fatalf("RecentRuns() failed: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("Expected 2 pong runs, got %d", len(recent))
	}
	if recent[0].Score != 7 {
		t.Errorf("Expected newest run first, got score %d", recent[0].Score)
	}
	if recent[0].Duration != 10*time.Second || recent[0].TargetFPS != 30 {
		t.Errorf("Run round trip mismatch: %+v", recent[0])
	}
	if recent[1].AvgFPS() != 60 {
		t.Errorf("AvgFPS() = %f, expected 60", recent[1].AvgFPS())
	}

	sum, err := store.Summary("pong")
	if err != nil {
		t.Fatalf("Summary() failed: %v", err)
	}
	if sum.Runs != 2 || sum.HighScore != 7 || sum.AvgScore != 5 {
		t.Errorf("Summary() = %+v, expected 2 runs, high 7, avg 5", sum)
	}

	empty, err := store.Summary("nothing")
	if err != nil {
		t.Fatalf("Summary() on empty game failed: %v", err)
	}
	if empty.Runs != 0 || !empty.LastPlayed.IsZero() {
		t.Errorf("Summary() on empty game = %+v, expected zero", empty)
	}

	if err := store.ClearScores("pong"); err != nil {
		t.Fatalf("ClearScores() failed: %v", err)
	}
	recent, err = store.RecentRuns("pong", 10)
	if err != nil {
		t.Fatalf("RecentRuns() failed: %v", err)
	}
	if len(recent) != 0 {
		t.Errorf("Expected runs cleared, got %d", len(recent))
	}
}

func TestRunAvgFPSZeroDuration(t *testing.T) {
	if (Run{Ticks: 10}).AvgFPS() != 0 {
		t.Error("AvgFPS() with zero duration should be 0")
	}
}
