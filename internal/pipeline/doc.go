// Package pipeline orchestrates a datamosh run: validate the inputs,
// normalize every clip onto one canonical intermediate profile (in
// parallel), decide keep/drop verdicts per frame, compose the clips by
// packet concatenation plus a single selection re-encode, and finalize
// into the delivery container. All intermediates live in a scratch
// workspace that is removed when the run ends; the output path is only
// ever written atomically, on success.
package pipeline
