// Package probe provides ffprobe-based media inspection and typed result
// structures. Two JSON calls cover everything the pipeline needs: Probe
// for format/stream metadata (structural fingerprint, duration, audio
// presence) and Frames for the per-frame introspection query that feeds
// the selection policy.
package probe
