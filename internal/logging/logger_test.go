package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/backmassage/moshmaster/internal/config"
)

func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	log := NewForTest(&buf)

	log.Info("normalizing %d clips", 3)
	log.Warn("slow disk")
	log.Error("ffmpeg exited %d", 1)
	log.Debug("arg dump")
	log.Success("wrote out.avi")
	log.Stage("composing")

	out := buf.String()
	assert.Contains(t, out, "normalizing 3 clips")
	assert.Contains(t, out, "slow disk")
	assert.Contains(t, out, "ffmpeg exited 1")
	assert.Contains(t, out, "arg dump")
	assert.Contains(t, out, `"status":"ok"`)
	assert.Contains(t, out, `"stage":"transition"`)
}

func TestColorsEnabledExplicitModes(t *testing.T) {
	assert.True(t, ColorsEnabled(config.ColorAlways))
	assert.False(t, ColorsEnabled(config.ColorNever))
}
