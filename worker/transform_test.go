package worker

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestFormatSeconds(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{10, "10"},
		{12.5, "12.5"},
		{0.04, "0.04"},
		{3600.25, "3600.25"},
	}
	for _, c := range cases {
		if got := formatSeconds(c.in); got != c.want {
			t.Errorf("formatSeconds(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestStderrTail(t *testing.T) {
	if got := stderrTail("  simple error\n"); got != "simple error" {
		t.Errorf("unexpected tail %q", got)
	}

	multi := stderrTail("line one\nline two")
	if multi != "line one | line two" {
		t.Errorf("unexpected tail %q", multi)
	}

	long := strings.Repeat("x", 2000)
	tail := stderrTail(long)
	if !strings.HasPrefix(tail, "...") {
		t.Errorf("long output not truncated: %q", tail[:16])
	}
	if len(tail) != 512+len("...") {
		t.Errorf("unexpected tail length %d", len(tail))
	}
}

func TestTrimMissingBinary(t *testing.T) {
	f := &FFmpeg{Bin: filepath.Join(t.TempDir(), "no-such-ffmpeg"), Log: testLogger()}

	dir := t.TempDir()
	err := f.Trim(context.Background(), filepath.Join(dir, "src.mp4"), filepath.Join(dir, "dst.mp4"), 0, 1)
	if err == nil {
		t.Fatalf("expected error for missing binary")
	}
	if !strings.Contains(err.Error(), "no-such-ffmpeg") {
		t.Errorf("error does not name the binary: %v", err)
	}
}

func TestTrimCancelledContext(t *testing.T) {
	f := &FFmpeg{Bin: filepath.Join(t.TempDir(), "no-such-ffmpeg"), Log: testLogger()}
	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	<-ctx.Done()

	dir := t.TempDir()
	err := f.Trim(ctx, filepath.Join(dir, "src.mp4"), filepath.Join(dir, "dst.mp4"), 0, 1)
	if err == nil {
		t.Fatalf("expected error for cancelled context")
	}
	if !strings.Contains(err.Error(), "transform aborted") {
		t.Errorf("expected abort error, got %v", err)
	}
}
