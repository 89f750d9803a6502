// Package playback owns play/pause/seek state for story narration audio.
//
// The controller observes, but does not own, a media Resource through three
// events: time advanced, metadata ready, and ended. It never touches the
// network; the story flow hands it a fully decoded clip. Attaching a new
// resource (a freshly generated story) resets all state and invalidates the
// previous subscription, so a stale callback can never update a controller
// that has moved on — the event handlers carry a generation token that is
// checked before any state change.
package playback
