// Package ffmpeg builds and executes the codec collaborator's commands.
// Each pipeline stage has a dedicated argument builder (normalize, concat,
// select/compose, finalize) sharing one preamble and one canonical
// intermediate Profile; Execute captures stderr for the classification
// helpers in errors.go. The collaborator is a deliberate process boundary:
// nothing in here links a codec, it only drives one.
package ffmpeg
