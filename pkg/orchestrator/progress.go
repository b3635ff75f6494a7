package orchestrator

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// Progress writes a cycling status line while a task is running. Start and
// Stop are safe to call multiple times; Stop blocks until the writer
// goroutine has exited so no output trails the final result.
type Progress struct {
	out      io.Writer
	interval time.Duration

	mu      sync.Mutex
	stop    chan struct{}
	done    chan struct{}
	running bool
}

var progressStages = []string{"Processing", "Analyzing", "Generating response"}

// NewProgress creates a progress indicator writing to out. An interval of
// zero or less means the 500ms default.
func NewProgress(out io.Writer, interval time.Duration) *Progress {
	if interval <= 0 {
		interval = 500 * time.Millisecond
	}
	return &Progress{out: out, interval: interval}
}

// Start begins emitting status lines
func (p *Progress) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running {
		return
	}
	p.running = true
	p.stop = make(chan struct{})
	p.done = make(chan struct{})
	go p.loop(p.stop, p.done)
}

// Stop halts the indicator and waits for the last write to finish
func (p *Progress) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.running = false
	stop, done := p.stop, p.done
	p.mu.Unlock()

	close(stop)
	<-done
	fmt.Fprint(p.out, "\r \r")
}

func (p *Progress) loop(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	tick := 0
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			i := tick % len(progressStages)
			fmt.Fprintf(p.out, "\r%s %s   ", progressStages[i], strings.Repeat(".", i+1))
			tick++
		}
	}
}
