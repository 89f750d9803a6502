// Package media handles the narrated story audio delivered by the backend.
//
// The backend ships narration as a base64 payload inside the story response.
// This package decodes the payload to a clip on disk, probes its duration
// with ffprobe, and exposes an ffplay-backed playback.Resource so the
// playback controller can drive it. ffplay has no remote pause control, so
// pausing stops the process and resuming relaunches it at the remembered
// offset.
package media
