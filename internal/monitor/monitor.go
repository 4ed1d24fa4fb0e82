// Package monitor runs the capture/compare/notify polling loop.
package monitor

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/junsooki/RegionWatch/internal/capture"
	"github.com/junsooki/RegionWatch/internal/detect"
	"github.com/junsooki/RegionWatch/internal/encoder"
	"github.com/junsooki/RegionWatch/internal/log"
	"github.com/junsooki/RegionWatch/internal/notify"
)

// Files written for operator inspection.
const (
	BaselineFile = "first-screenshot.png"
	ChangeFile   = "current-screenshot.png"
)

// DefaultInterval is the pause between poll ticks.
const DefaultInterval = time.Second

// Options configure a Monitor.
type Options struct {
	Message  string
	Interval time.Duration
	Save     bool
	SaveDir  string
}

// Monitor owns the baseline and previous frames for one run.
type Monitor struct {
	opts     Options
	capturer capture.Capturer
	notifier notify.Notifier
	encoder  encoder.Encoder
	out      io.Writer
	wait     func(ctx context.Context, d time.Duration) error

	state   State
	tracker *detect.Tracker
}

// New creates a monitor. Captures must always cover the same region.
func New(opts Options, c capture.Capturer, n notify.Notifier) *Monitor {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.SaveDir == "" {
		opts.SaveDir = "."
	}
	return &Monitor{
		opts:     opts,
		capturer: c,
		notifier: n,
		encoder:  encoder.NewPNGEncoder(true),
		out:      os.Stdout,
		wait:     sleep,
		state:    StateInit,
	}
}

// State returns the current lifecycle state.
func (m *Monitor) State() State {
	return m.state
}

// Run captures the baseline and then polls until ctx is done. It only
// returns on a fatal error: the baseline capture failing or the wait
// between ticks being interrupted.
func (m *Monitor) Run(ctx context.Context) error {
	log.Info("Detecting changes in the region", "interval", m.opts.Interval)

	first, err := m.capturer.Capture()
	if err != nil {
		return fmt.Errorf("baseline capture: %w", err)
	}
	m.tracker = detect.NewTracker(first.Image)
	m.state = StateBaselineCaptured
	m.save(BaselineFile, first)

	m.state = StatePolling
	for {
		if err := m.wait(ctx, m.opts.Interval); err != nil {
			return fmt.Errorf("poll wait interrupted: %w", err)
		}
		m.tick(ctx)
	}
}

// tick captures one frame and reports whether it was a confirmed change.
func (m *Monitor) tick(ctx context.Context) bool {
	cur, err := m.capturer.Capture()
	if err != nil {
		log.Warn("Capture failed, skipping tick", "error", err)
		return false
	}
	if !m.tracker.Observe(cur.Image) {
		return false
	}

	fmt.Fprintln(m.out, m.opts.Message)
	m.save(ChangeFile, cur)

	n := notify.New(m.opts.Message, cur.Image.Bounds(), cur.Timestamp)
	if err := m.notifier.Notify(ctx, n); err != nil {
		log.Error("Notification failed", "id", n.ID, "error", err)
	}
	return true
}

func (m *Monitor) save(name string, f *capture.Frame) {
	if !m.opts.Save {
		return
	}
	if f.Image.Bounds().Empty() {
		log.Debug("Skipping save of empty frame", "file", name)
		return
	}
	path, err := encoder.Save(m.encoder, m.opts.SaveDir, name, f.Image)
	if err != nil {
		log.Warn("Failed to save image", "error", err)
		return
	}
	log.Info("Image saved", "path", path)
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
