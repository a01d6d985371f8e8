package worker

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// FFmpeg trims and re-encodes clips by invoking the external ffmpeg binary.
// The invocation inherits the caller's context, so the per-job deadline
// kills a runaway encode.
type FFmpeg struct {
	Bin string
	Log *logrus.Logger
}

// Trim extracts [start, end) seconds of src into dst.
func (f *FFmpeg) Trim(ctx context.Context, src, dst string, start, end float64) error {
	args := []string{
		"-nostdin",
		"-hide_banner",
		"-loglevel", "error",
		"-y",
		"-i", src,
		"-ss", formatSeconds(start),
		"-to", formatSeconds(end),
		"-c:v", "libx264",
		"-preset", "veryfast",
		"-c:a", "aac",
		"-movflags", "+faststart",
		dst,
	}

	f.Log.WithFields(logrus.Fields{
		"bin":   f.Bin,
		"start": start,
		"end":   end,
	}).Debug("invoking transform tool")

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, f.Bin, args...)
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("transform aborted: %w", ctx.Err())
		}
		return fmt.Errorf("%s failed: %w: %s", filepath.Base(f.Bin), err, stderrTail(stderr.String()))
	}
	return nil
}

func formatSeconds(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// stderrTail keeps errors readable when ffmpeg dumps pages of output.
func stderrTail(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > 512 {
		s = "..." + s[len(s)-512:]
	}
	return strings.ReplaceAll(s, "\n", " | ")
}
