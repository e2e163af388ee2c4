package probe

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
)

// Frames runs the per-frame introspection query against path and returns
// one FrameRecord per coded frame of the primary video stream, in
// presentation order. This is the expensive ffprobe call (it decodes
// frame headers for the whole file), so callers invoke it once per
// normalized artifact, not per source file.
func Frames(ctx context.Context, path string) ([]FrameRecord, error) {
	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "quiet",
		"-select_streams", "v:0",
		"-print_format", "json",
		"-show_frames",
		"-show_entries", "frame=pict_type,pts_time,pkt_size,key_frame",
		path,
	)

	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("ffprobe frames %q: %w", path, err)
	}

	return ParseFramesJSON(out)
}

// ParseFramesJSON converts raw `ffprobe -show_frames` JSON output into an
// ordered FrameRecord slice. Exported for testing without ffprobe.
func ParseFramesJSON(data []byte) ([]FrameRecord, error) {
	var raw struct {
		Frames []ffprobeFrame `json:"frames"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse ffprobe frames JSON: %w", err)
	}

	records := make([]FrameRecord, 0, len(raw.Frames))
	for i, f := range raw.Frames {
		records = append(records, FrameRecord{
			Index: i,
			Type:  frameType(f),
			PTS:   parseFloat(f.PTSTime),
			Bytes: parseInt64(f.PktSize),
		})
	}
	return records, nil
}

type ffprobeFrame struct {
	PictType string `json:"pict_type"`
	PTSTime  string `json:"pts_time"`
	PktSize  string `json:"pkt_size"`
	KeyFrame int    `json:"key_frame"`
}

// frameType maps ffprobe's pict_type to a FrameType. A frame flagged
// key_frame is treated as I even when pict_type disagrees, since the
// muxer-level keyframe flag is what packet surgery keys on.
func frameType(f ffprobeFrame) FrameType {
	if f.KeyFrame == 1 {
		return FrameI
	}
	switch f.PictType {
	case "I", "SI":
		return FrameI
	case "P", "SP":
		return FrameP
	case "B", "BI":
		return FrameB
	default:
		return FrameP
	}
}
