package ffmpeg

import (
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"
)

// ExecResult holds the outcome of a single ffmpeg invocation.
type ExecResult struct {
	Stderr string
	Err    error
}

// Execute runs a pre-built ffmpeg argument slice. Stderr is captured for
// classification; when verbose it is additionally tee'd to os.Stderr in
// real time. Cancellation of ctx kills the subprocess.
func Execute(ctx context.Context, args []string, verbose bool) ExecResult {
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)

	var stderrBuf bytes.Buffer
	if verbose {
		cmd.Stderr = io.MultiWriter(&stderrBuf, os.Stderr)
	} else {
		cmd.Stderr = &stderrBuf
	}

	err := cmd.Run()
	return ExecResult{
		Stderr: stderrBuf.String(),
		Err:    err,
	}
}

// HaveEncoder reports whether the local ffmpeg build ships the named
// encoder (e.g. "libxvid").
func HaveEncoder(ctx context.Context, name string) bool {
	cmd := exec.CommandContext(ctx, "ffmpeg", "-hide_banner", "-v", "error", "-h", "encoder="+name)
	cmd.Stdout = nil
	cmd.Stderr = nil
	return cmd.Run() == nil
}
