package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/backmassage/moshmaster/internal/config"
	"github.com/backmassage/moshmaster/internal/logging"
	"github.com/backmassage/moshmaster/internal/probe"
)

// runInspect implements --inspect: scan one input's frames and write a
// per-frame CSV (index, type, keyframe, pts, bytes) so GOP structure can
// be eyeballed before deciding drop settings.
func runInspect(ctx context.Context, cfg *config.Config, log *logging.Logger) error {
	input := cfg.Inputs[0]
	out := cfg.Output
	if out == "" {
		out = strings.TrimSuffix(input, filepath.Ext(input)) + ".gop.csv"
	}

	frames, err := probe.Frames(ctx, input)
	if err != nil {
		return fmt.Errorf("inspect %s: %w", input, err)
	}
	if len(frames) == 0 {
		return fmt.Errorf("inspect %s: no decodable frames", input)
	}

	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("inspect: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"index", "type", "keyframe", "pts_sec", "bytes"}); err != nil {
		return fmt.Errorf("inspect: %w", err)
	}
	keyframes := 0
	for _, fr := range frames {
		if fr.Keyframe() {
			keyframes++
		}
		rec := []string{
			strconv.Itoa(fr.Index),
			string(fr.Type),
			strconv.FormatBool(fr.Keyframe()),
			strconv.FormatFloat(fr.PTS, 'f', 6, 64),
			strconv.FormatInt(fr.Bytes, 10),
		}
		if err := w.Write(rec); err != nil {
			return fmt.Errorf("inspect: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("inspect: %w", err)
	}

	log.Success("wrote %s: %d frames, %d keyframes", out, len(frames), keyframes)
	return nil
}
