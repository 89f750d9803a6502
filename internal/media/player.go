package media

import (
	"math"
	"os/exec"
	"strconv"
	"sync"
	"time"

	"karigari/internal/playback"
)

const tickInterval = 250 * time.Millisecond

// Player plays a clip through ffplay and implements playback.Resource.
//
// ffplay exposes no control channel, so position is tracked wall-clock style:
// Play records the launch offset and time, ticks advance the position, and
// pause kills the process while remembering where it was.
type Player struct {
	binary   string
	path     string
	duration float64

	mu          sync.Mutex
	events      playback.Events
	offset      float64
	playing     bool
	stopped     bool
	cmd         *exec.Cmd
	done        chan struct{}
	startOffset float64
	startTime   time.Time
}

// NewPlayer wraps the clip at path whose duration was probed beforehand.
func NewPlayer(binary, path string, duration float64) *Player {
	if binary == "" {
		binary = "ffplay"
	}
	return &Player{binary: binary, path: path, duration: duration}
}

// Subscribe registers the observer and immediately announces the clip's
// duration, since it is known from the probe.
func (p *Player) Subscribe(events playback.Events) func() {
	p.mu.Lock()
	p.events = events
	duration := p.duration
	p.mu.Unlock()

	if events.MetadataReady != nil && duration > 0 {
		events.MetadataReady(duration)
	}
	return func() {
		_ = p.Pause()
		p.mu.Lock()
		p.events = playback.Events{}
		p.mu.Unlock()
	}
}

// Play launches ffplay at the remembered offset.
func (p *Player) Play() error {
	p.mu.Lock()
	if p.playing {
		p.mu.Unlock()
		return nil
	}
	if p.offset >= p.duration {
		p.offset = 0
	}
	args := []string{"-nodisp", "-autoexit", "-loglevel", "error"}
	if p.offset > 0 {
		args = append(args, "-ss", strconv.FormatFloat(p.offset, 'f', 3, 64))
	}
	args = append(args, p.path)
	cmd := exec.Command(p.binary, args...)
	if err := cmd.Start(); err != nil {
		p.mu.Unlock()
		return err
	}
	done := make(chan struct{})
	p.cmd = cmd
	p.done = done
	p.playing = true
	p.stopped = false
	p.startOffset = p.offset
	p.startTime = time.Now()
	p.mu.Unlock()

	go p.tickLoop(done)
	go p.waitLoop(cmd, done)
	return nil
}

// Pause kills the player process, retaining the current position.
func (p *Player) Pause() error {
	p.mu.Lock()
	if !p.playing || p.cmd == nil {
		p.mu.Unlock()
		return nil
	}
	p.stopped = true
	process := p.cmd.Process
	p.mu.Unlock()

	if process != nil {
		_ = process.Kill()
	}
	return nil
}

// SetPosition moves playback to the given offset, restarting the player
// process when one is running.
func (p *Player) SetPosition(seconds float64) error {
	seconds = math.Max(0, math.Min(seconds, p.duration))

	p.mu.Lock()
	wasPlaying := p.playing
	done := p.done
	p.mu.Unlock()

	if wasPlaying {
		if err := p.Pause(); err != nil {
			return err
		}
		if done != nil {
			<-done
		}
	}

	p.mu.Lock()
	p.offset = seconds
	p.mu.Unlock()

	if wasPlaying {
		return p.Play()
	}
	return nil
}

func (p *Player) tickLoop(done chan struct{}) {
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			p.mu.Lock()
			if !p.playing {
				p.mu.Unlock()
				return
			}
			offset := p.startOffset + time.Since(p.startTime).Seconds()
			if offset > p.duration {
				offset = p.duration
			}
			p.offset = offset
			onTime := p.events.TimeAdvanced
			p.mu.Unlock()

			if onTime != nil {
				onTime(offset)
			}
		}
	}
}

func (p *Player) waitLoop(cmd *exec.Cmd, done chan struct{}) {
	_ = cmd.Wait()

	p.mu.Lock()
	natural := !p.stopped
	if natural {
		p.offset = 0
	} else {
		p.offset = p.startOffset + time.Since(p.startTime).Seconds()
		if p.offset > p.duration {
			p.offset = p.duration
		}
	}
	p.playing = false
	p.cmd = nil
	p.done = nil
	onEnded := p.events.Ended
	p.mu.Unlock()

	close(done)
	if natural && onEnded != nil {
		onEnded()
	}
}
