package scores

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func TestRecordAndBest(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "db", "scores.sqlite")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	defer s.Close()

	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	games := []Result{
		{Player: "a", Backend: "rigid", Score: 3, Pins: 10, Throws: 2, Duration: 15, PlayedAt: base},
		{Player: "b", Backend: "rigid", Score: 7, Pins: 10, Throws: 3, Duration: 15, PlayedAt: base.Add(time.Minute)},
		{Player: "c", Backend: "planar", Score: 7, Pins: 10, Throws: 1, Duration: 15, PlayedAt: base.Add(2 * time.Minute)},
		{Player: "d", Backend: "rigid", Score: 0, Pins: 10, Throws: 0, Duration: 15},
	}
	for _, g := range games {
		id, err := s.Record(ctx, g)
		if err != nil {
			t.Fatalf("Record error: %v", err)
		}
		if id <= 0 {
			t.Fatalf("Record id = %d", id)
		}
	}

	n, err := s.Count(ctx)
	if err != nil || n != len(games) {
		t.Fatalf("Count = %d, %v", n, err)
	}

	best, err := s.Best(ctx, 3)
	if err != nil {
		t.Fatalf("Best error: %v", err)
	}
	if len(best) != 3 {
		t.Fatalf("Best returned %d rows", len(best))
	}
	wantPlayers := []string{"b", "c", "a"}
	for i, want := range wantPlayers {
		if best[i].Player != want {
			t.Fatalf("best[%d] = %q, want %q", i, best[i].Player, want)
		}
	}
	if !best[0].PlayedAt.Equal(games[1].PlayedAt) {
		t.Fatalf("PlayedAt = %v, want %v", best[0].PlayedAt, games[1].PlayedAt)
	}
	if best[1].Backend != "planar" || best[1].Throws != 1 || best[1].Duration != 15 {
		t.Fatalf("best[1] = %+v", best[1])
	}

	all, err := s.Best(ctx, 0)
	if err != nil || len(all) != 4 {
		t.Fatalf("Best(0) = %d rows, %v", len(all), err)
	}
	if all[3].PlayedAt.IsZero() {
		t.Fatal("zero PlayedAt was not stamped")
	}
}

func TestReopenKeepsHistory(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "scores.sqlite")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	if _, err := s.Record(ctx, Result{Player: "a", Backend: "rigid", Score: 4}); err != nil {
		t.Fatalf("Record error: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("second Close error: %v", err)
	}

	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen error: %v", err)
	}
	defer s.Close()
	n, err := s.Count(ctx)
	if err != nil || n != 1 {
		t.Fatalf("Count after reopen = %d, %v", n, err)
	}
}

func TestOpenEmptyPath(t *testing.T) {
	if _, err := Open(""); !errors.Is(err, ErrEmptyPath) {
		t.Fatalf("Open(\"\") = %v, want ErrEmptyPath", err)
	}
}
