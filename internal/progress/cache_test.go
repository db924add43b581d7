package progress

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFileCache_MissingFileLoadsEmpty(t *testing.T) {
	c := NewFileCache(filepath.Join(t.TempDir(), "progress.json"))
	records := c.Load()
	if len(records) != 0 {
		t.Fatalf("records = %v, want empty", records)
	}
}

func TestFileCache_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "progress.json")
	c := NewFileCache(path)

	at := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)
	score := 80
	passed := true
	c.Save(map[string]CompletionRecord{
		"pause": {PracticeID: "pause", CompletedAt: at},
		"section-assessment": {
			PracticeID:  "section-assessment",
			CompletedAt: at,
			Score:       &score,
			Passed:      &passed,
		},
	})

	records := NewFileCache(path).Load()
	if len(records) != 2 {
		t.Fatalf("records = %d, want 2", len(records))
	}
	rec := records["section-assessment"]
	if !rec.CompletedAt.Equal(at) {
		t.Errorf("completedAt = %v, want %v", rec.CompletedAt, at)
	}
	if rec.Score == nil || *rec.Score != 80 {
		t.Errorf("score = %v, want 80", rec.Score)
	}
	if rec.Passed == nil || !*rec.Passed {
		t.Errorf("passed = %v, want true", rec.Passed)
	}
}

func TestFileCache_CorruptFileLoadsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "progress.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("seed file: %v", err)
	}

	records := NewFileCache(path).Load()
	if len(records) != 0 {
		t.Fatalf("records = %v, want empty", records)
	}
}

func TestFileCache_SaveOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "progress.json")
	c := NewFileCache(path)

	at := time.Now().UTC()
	c.Save(map[string]CompletionRecord{
		"pause":  {PracticeID: "pause", CompletedAt: at},
		"switch": {PracticeID: "switch", CompletedAt: at},
	})
	c.Save(map[string]CompletionRecord{
		"pause": {PracticeID: "pause", CompletedAt: at},
	})

	records := c.Load()
	if len(records) != 1 {
		t.Fatalf("records = %d, want 1 after overwrite", len(records))
	}
	if _, ok := records["switch"]; ok {
		t.Error("overwritten record still present")
	}
}
