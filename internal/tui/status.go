package tui

import (
	"fmt"
	"io"
	"sync"
	"time"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// StatusLine redraws a single spinner line in place while a slow step (a
// system scan) runs in the foreground.
type StatusLine struct {
	w       io.Writer
	mu      sync.Mutex
	message string
	started time.Time
	done    chan struct{}
	stopped bool
}

// NewStatusLine starts redrawing msg on w every 100ms.
func NewStatusLine(w io.Writer, msg string) *StatusLine {
	sl := &StatusLine{
		w:       w,
		message: msg,
		started: time.Now(),
		done:    make(chan struct{}),
	}
	go sl.loop()
	return sl
}

// Update replaces the message and restarts the elapsed timer.
func (sl *StatusLine) Update(msg string) {
	sl.mu.Lock()
	sl.message = msg
	sl.started = time.Now()
	sl.mu.Unlock()
}

// Stop clears the line. It is safe to call more than once.
func (sl *StatusLine) Stop() {
	sl.mu.Lock()
	if sl.stopped {
		sl.mu.Unlock()
		return
	}
	sl.stopped = true
	close(sl.done)
	fmt.Fprint(sl.w, "\r\033[K")
	sl.mu.Unlock()
}

func (sl *StatusLine) loop() {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for tick := 0; ; tick++ {
		select {
		case <-sl.done:
			return
		case <-ticker.C:
			sl.mu.Lock()
			if !sl.stopped {
				fmt.Fprintf(sl.w, "\r\033[K%s %s (%s)", spinnerFrames[tick%len(spinnerFrames)], sl.message, formatElapsed(time.Since(sl.started)))
			}
			sl.mu.Unlock()
		}
	}
}

func formatElapsed(d time.Duration) string {
	switch {
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < 10*time.Second:
		return fmt.Sprintf("%.1fs", d.Seconds())
	default:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
}
