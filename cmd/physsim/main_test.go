package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/milk9111/shootgame/scores"
)

func TestRunScenarioWritesTrace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "free_fall.jsonl.zst")
	var out bytes.Buffer
	sum, err := runScenario("free_fall", 45, path, &out)
	if err != nil {
		t.Fatalf("runScenario error: %v", err)
	}
	if sum.Frames != 45 || sum.Bodies == 0 {
		t.Fatalf("summary = %+v", sum)
	}
	if !strings.Contains(out.String(), "HANDLE") {
		t.Fatalf("no body table in output:\n%s", out.String())
	}

	var plot bytes.Buffer
	if err := plotTrace(path, 1, &plot); err != nil {
		t.Fatalf("plotTrace error: %v", err)
	}
	if !strings.Contains(plot.String(), "height") {
		t.Fatalf("plot missing caption:\n%s", plot.String())
	}
}

func TestRunUnknownScenario(t *testing.T) {
	if _, err := runScenario("no_such_scenario", 1, "", &bytes.Buffer{}); err == nil {
		t.Fatal("expected error for unknown scenario")
	}
}

func TestBowlAndListScores(t *testing.T) {
	res, err := bowl(5)
	if err != nil {
		t.Fatalf("bowl error: %v", err)
	}
	if res.Pins != 10 || res.Throws < 1 {
		t.Fatalf("result = %+v", res)
	}
	if res.Score < 0 || res.Score > res.Pins {
		t.Fatalf("score %d out of range", res.Score)
	}

	ctx := context.Background()
	db := filepath.Join(t.TempDir(), "scores.sqlite")
	store, err := scores.Open(db)
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	res.Player = "tester"
	if _, err := store.Record(ctx, res); err != nil {
		t.Fatalf("Record error: %v", err)
	}
	store.Close()

	var out bytes.Buffer
	if err := listScores(ctx, db, 5, &out); err != nil {
		t.Fatalf("listScores error: %v", err)
	}
	if !strings.Contains(out.String(), "tester") {
		t.Fatalf("listing missing player:\n%s", out.String())
	}
}
