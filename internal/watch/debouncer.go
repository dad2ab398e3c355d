package watch

import (
	"sort"
	"sync"
	"time"
)

// Debouncer merges events arriving within window into a single batch.
// Each path appears at most once per batch.
type Debouncer struct {
	window  time.Duration
	mu      sync.Mutex
	pending map[string]struct{}
	timer   *time.Timer
	output  chan []string
	stopped bool
	dropped func(batch []string)
}

func NewDebouncer(window time.Duration) *Debouncer {
	return &Debouncer{
		window:  window,
		pending: make(map[string]struct{}),
		output:  make(chan []string, 10),
	}
}

// Add records path and restarts the window.
func (d *Debouncer) Add(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	d.pending[path] = struct{}{}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, d.flush)
}

func (d *Debouncer) flush() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped || len(d.pending) == 0 {
		return
	}

	batch := make([]string, 0, len(d.pending))
	for path := range d.pending {
		batch = append(batch, path)
	}
	sort.Strings(batch)
	d.pending = make(map[string]struct{})

	select {
	case d.output <- batch:
	default:
		if d.dropped != nil {
			d.dropped(batch)
		}
	}
}

// Output delivers debounced batches. It is closed by Stop.
func (d *Debouncer) Output() <-chan []string {
	return d.output
}

// Stop discards pending events and closes the output. Safe to call twice.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
	}
	close(d.output)
}
