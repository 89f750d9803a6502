package playback

import (
	"fmt"
	"math"
	"sync"
)

// Events carries the callbacks a Resource delivers to its observer.
type Events struct {
	TimeAdvanced  func(seconds float64)
	MetadataReady func(duration float64)
	Ended         func()
}

// Resource is an externally owned playable clip. Implementations deliver
// events until the returned detach function runs.
type Resource interface {
	// Play starts or resumes playback from the current position.
	Play() error
	// Pause halts playback, retaining the current position.
	Pause() error
	// SetPosition moves playback to the given offset in seconds.
	SetPosition(seconds float64) error
	// Subscribe registers the observer and returns a detach function.
	Subscribe(events Events) func()
}

// Status is a point-in-time view of the controller.
type Status struct {
	Playing  bool
	Current  float64
	Duration float64
}

// Controller tracks playback state for at most one attached resource.
type Controller struct {
	mu         sync.Mutex
	resource   Resource
	detach     func()
	generation uint64
	playing    bool
	current    float64
	duration   float64
}

// NewController returns a detached controller.
func NewController() *Controller {
	return &Controller{}
}

// Attach replaces the controller's resource. All state resets to its initial
// unknown values and the previous subscription is torn down before the new
// one is established.
func (c *Controller) Attach(resource Resource) {
	c.mu.Lock()
	oldDetach := c.detach
	c.generation++
	generation := c.generation
	c.resource = resource
	c.detach = nil
	c.playing = false
	c.current = 0
	c.duration = 0
	c.mu.Unlock()

	if oldDetach != nil {
		oldDetach()
	}
	if resource == nil {
		return
	}

	detach := resource.Subscribe(Events{
		TimeAdvanced:  func(seconds float64) { c.onTime(generation, seconds) },
		MetadataReady: func(duration float64) { c.onMetadata(generation, duration) },
		Ended:         func() { c.onEnded(generation) },
	})

	c.mu.Lock()
	if c.generation == generation {
		c.detach = detach
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()
	// Attach raced with a newer Attach; this subscription already lost.
	detach()
}

// Detach drops the current resource and resets state.
func (c *Controller) Detach() {
	c.Attach(nil)
}

// TogglePlay flips between playing and paused. It is the only mutating entry
// point besides Seek.
func (c *Controller) TogglePlay() error {
	c.mu.Lock()
	resource := c.resource
	playing := c.playing
	c.mu.Unlock()

	if resource == nil {
		return nil
	}
	if playing {
		if err := resource.Pause(); err != nil {
			return fmt.Errorf("playback pause: %w", err)
		}
		c.setPlaying(false)
		return nil
	}
	if err := resource.Play(); err != nil {
		return fmt.Errorf("playback play: %w", err)
	}
	c.setPlaying(true)
	return nil
}

// Seek positions playback at fraction of the clip's duration. Before the
// resource reports its metadata the duration is unknown and the call is a
// deliberate no-op; afterwards the fraction is clamped to [0, 1].
func (c *Controller) Seek(fraction float64) error {
	c.mu.Lock()
	resource := c.resource
	duration := c.duration
	c.mu.Unlock()

	if resource == nil || duration <= 0 {
		return nil
	}
	if math.IsNaN(fraction) {
		return nil
	}
	fraction = math.Max(0, math.Min(1, fraction))
	position := fraction * duration

	if err := resource.SetPosition(position); err != nil {
		return fmt.Errorf("playback seek: %w", err)
	}
	c.mu.Lock()
	c.current = position
	c.mu.Unlock()
	return nil
}

// Snapshot returns the current playback status.
func (c *Controller) Snapshot() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Status{Playing: c.playing, Current: c.current, Duration: c.duration}
}

func (c *Controller) setPlaying(playing bool) {
	c.mu.Lock()
	c.playing = playing
	c.mu.Unlock()
}

func (c *Controller) onTime(generation uint64, seconds float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generation != generation {
		return
	}
	if c.duration > 0 && seconds > c.duration {
		seconds = c.duration
	}
	if seconds < 0 {
		seconds = 0
	}
	c.current = seconds
}

func (c *Controller) onMetadata(generation uint64, duration float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generation != generation {
		return
	}
	if duration < 0 || math.IsNaN(duration) || math.IsInf(duration, 0) {
		return
	}
	c.duration = duration
}

func (c *Controller) onEnded(generation uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generation != generation {
		return
	}
	c.playing = false
	c.current = 0
}
