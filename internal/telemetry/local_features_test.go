package telemetry_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/petasbytes/toolchat/internal/metrics"
	"github.com/petasbytes/toolchat/internal/telemetry"
)

// calibrateInto enables calibration-mode emission into a fresh dir and
// returns that dir.
func calibrateInto(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("TOOLCHAT_ARTIFACTS_DIR", dir)
	t.Setenv("TOOLCHAT_CALIBRATION_MODE", "1")
	t.Setenv("TOOLCHAT_OBSERVE_JSON", "1")
	return dir
}

// lastEvent returns the final JSON object in dir/events.jsonl.
func lastEvent(t *testing.T, dir string) map[string]any {
	t.Helper()
	b, err := os.ReadFile(filepath.Join(dir, "events.jsonl"))
	if err != nil {
		t.Fatalf("read events.jsonl: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	var m map[string]any
	if err := json.Unmarshal([]byte(lines[len(lines)-1]), &m); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	return m
}

func userStats(t *testing.T, m map[string]any) map[string]any {
	t.Helper()
	u, ok := m["user"].(map[string]any)
	if !ok {
		t.Fatalf("user field missing or wrong type: %T", m["user"])
	}
	return u
}

func TestEmitLocalFeatures_HappyPath(t *testing.T) {
	dir := calibrateInto(t)

	ctx := telemetry.WithTurnID(context.Background(), "turn-xyz")
	user := "hello  world\nthis is\tgo {x}"
	want := metrics.Measure(user)

	telemetry.EmitLocalFeatures(ctx, user)

	m := lastEvent(t, dir)
	if m["event"] != "local_features" || m["turn_id"] != "turn-xyz" || m["features_version"] != "1" {
		t.Fatalf("unexpected envelope: %#v", m)
	}

	u := userStats(t, m)
	// numbers decode as float64
	if u["bytes"] != float64(want.Bytes) ||
		u["runes"] != float64(want.Runes) ||
		u["words"] != float64(want.Words) ||
		u["lines"] != float64(want.Lines) ||
		u["braces"] != float64(want.Braces) {
		t.Fatalf("stats mismatch: got %#v, want %#v", u, want)
	}

	// Only counts go into the event, never the raw text.
	if _, ok := m["text"]; ok {
		t.Fatal("unexpected raw text field present")
	}
	if b, _ := json.Marshal(m); strings.Contains(string(b), "hello  world") {
		t.Fatalf("raw user text leaked into event JSON")
	}
}

func TestEmitLocalFeatures_ObserveOff_NoEvent(t *testing.T) {
	dir := calibrateInto(t)
	t.Setenv("TOOLCHAT_OBSERVE_JSON", "0")

	telemetry.EmitLocalFeatures(context.Background(), "some text")

	if _, err := os.Stat(filepath.Join(dir, "events.jsonl")); !os.IsNotExist(err) {
		t.Fatalf("expected no events.jsonl when observe=0, got err=%v", err)
	}
}

func TestEmitLocalFeatures_CalibrationOff_NoEvent(t *testing.T) {
	dir := calibrateInto(t)
	t.Setenv("TOOLCHAT_CALIBRATION_MODE", "0")

	telemetry.EmitLocalFeatures(context.Background(), "whatever")

	if _, err := os.Stat(filepath.Join(dir, "events.jsonl")); !os.IsNotExist(err) {
		t.Fatalf("expected no events.jsonl when calibration=0, got err=%v", err)
	}
}

func TestEmitLocalFeatures_EmptyInput_Zeros(t *testing.T) {
	dir := calibrateInto(t)

	ctx := telemetry.WithTurnID(context.Background(), "turn-empty")
	telemetry.EmitLocalFeatures(ctx, "")

	u := userStats(t, lastEvent(t, dir))
	for _, k := range []string{"bytes", "runes", "words", "lines", "braces"} {
		if u[k] != float64(0) {
			t.Fatalf("expected all zeros, got %#v", u)
		}
	}
}

func TestEmitLocalFeatures_MultibyteAndMultiline(t *testing.T) {
	dir := calibrateInto(t)
	ctx := telemetry.WithTurnID(context.Background(), "turn-multi")

	cases := []struct {
		in                         string
		bytes, runes, words, lines int
	}{
		{"héllö 世界", 14, 8, 2, 1},
		{"a\nb\n", 4, 4, 2, 3},
	}
	for _, tc := range cases {
		telemetry.EmitLocalFeatures(ctx, tc.in)
		u := userStats(t, lastEvent(t, dir))
		if u["bytes"] != float64(tc.bytes) || u["runes"] != float64(tc.runes) ||
			u["words"] != float64(tc.words) || u["lines"] != float64(tc.lines) {
			t.Fatalf("%q: stats mismatch: %#v", tc.in, u)
		}
	}
}

func TestEmitLocalFeatures_AppendsNewlineTerminatedLines(t *testing.T) {
	tmp := t.TempDir()
	dir := filepath.Join(tmp, "dir with spaces")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	t.Setenv("TOOLCHAT_ARTIFACTS_DIR", dir)
	t.Setenv("TOOLCHAT_CALIBRATION_MODE", "1")
	t.Setenv("TOOLCHAT_OBSERVE_JSON", "1")

	ctx := telemetry.WithTurnID(context.Background(), "turn-path")
	telemetry.EmitLocalFeatures(ctx, "one")
	telemetry.EmitLocalFeatures(ctx, "two")

	b, err := os.ReadFile(filepath.Join(dir, "events.jsonl"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(b) == 0 || b[len(b)-1] != '\n' {
		t.Fatal("expected newline-terminated JSONL file")
	}
	if n := len(strings.Split(strings.TrimRight(string(b), "\n"), "\n")); n != 2 {
		t.Fatalf("want 2 lines, got %d", n)
	}
}
