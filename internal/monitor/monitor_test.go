package monitor

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/junsooki/RegionWatch/internal/capture"
	"github.com/junsooki/RegionWatch/internal/notify"
)

var errDone = errors.New("script finished")

// scriptedCapturer returns frames in order; a nil entry yields captureErr.
type scriptedCapturer struct {
	frames     []*image.RGBA
	captureErr error
	calls      int
}

func (s *scriptedCapturer) Capture() (*capture.Frame, error) {
	if s.calls >= len(s.frames) {
		return nil, errors.New("capture past end of script")
	}
	img := s.frames[s.calls]
	s.calls++
	if img == nil {
		return nil, s.captureErr
	}
	return &capture.Frame{Image: img, Timestamp: time.Now()}, nil
}

// remaining reports whether another tick has a frame to capture.
func (s *scriptedCapturer) remaining() bool {
	return s.calls < len(s.frames)
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []notify.Notification
	err  error
}

func (r *recordingNotifier) Notify(_ context.Context, n notify.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, n)
	return r.err
}

func (r *recordingNotifier) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sent)
}

func frame(c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 6, 4))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

func withPixel(src *image.RGBA, x, y int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(src.Rect)
	copy(img.Pix, src.Pix)
	img.SetRGBA(x, y, c)
	return img
}

var (
	white = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	black = color.RGBA{A: 255}
)

// newTestMonitor wires a monitor whose wait never sleeps and ends the run
// once the capturer script is exhausted.
func newTestMonitor(t *testing.T, opts Options, c *scriptedCapturer, n notify.Notifier) (*Monitor, *bytes.Buffer) {
	t.Helper()
	if opts.SaveDir == "" {
		opts.SaveDir = t.TempDir()
	}
	m := New(opts, c, n)
	var out bytes.Buffer
	m.out = &out
	m.wait = func(ctx context.Context, d time.Duration) error {
		if d != m.opts.Interval {
			t.Errorf("wait(%v), want interval %v", d, m.opts.Interval)
		}
		if !c.remaining() {
			return errDone
		}
		return ctx.Err()
	}
	return m, &out
}

func TestMonitor_Scenarios(t *testing.T) {
	baseline := frame(white)
	changed := withPixel(baseline, 3, 2, black)

	script := []*image.RGBA{baseline}
	for i := 0; i < 5; i++ {
		script = append(script, frame(white)) // ticks 1-5: unchanged
	}
	script = append(script, changed)      // tick 6: one pixel differs
	script = append(script, frame(white)) // tick 7: reverted to baseline

	c := &scriptedCapturer{frames: script}
	n := &recordingNotifier{}
	m, out := newTestMonitor(t, Options{Message: "Queue moved", Save: true}, c, n)

	err := m.Run(context.Background())
	if !errors.Is(err, errDone) {
		t.Fatalf("Run err = %v, want errDone", err)
	}
	if m.State() != StatePolling {
		t.Errorf("state = %v, want polling", m.State())
	}
	if n.count() != 1 {
		t.Fatalf("notifications = %d, want 1", n.count())
	}
	if n.sent[0].Text != "Queue moved" {
		t.Errorf("notification text = %q", n.sent[0].Text)
	}
	if n.sent[0].Width != 6 || n.sent[0].Height != 4 {
		t.Errorf("notification size = %dx%d", n.sent[0].Width, n.sent[0].Height)
	}
	if m.tracker.Previous() != image.Image(changed) {
		t.Error("previous frame should be the tick-6 frame")
	}
	if got := strings.Count(out.String(), "Queue moved\n"); got != 1 {
		t.Errorf("message printed %d times, want 1", got)
	}

	for _, name := range []string{BaselineFile, ChangeFile} {
		if _, err := os.Stat(filepath.Join(m.opts.SaveDir, name)); err != nil {
			t.Errorf("%s not saved: %v", name, err)
		}
	}
}

func TestMonitor_NoChangeKeepsPrevious(t *testing.T) {
	baseline := frame(white)
	c := &scriptedCapturer{frames: []*image.RGBA{baseline, frame(white), frame(white), frame(white)}}
	n := &recordingNotifier{}
	m, _ := newTestMonitor(t, Options{Message: "x", Save: true}, c, n)

	_ = m.Run(context.Background())

	if n.count() != 0 {
		t.Errorf("notifications = %d, want 0", n.count())
	}
	if m.tracker.Previous() != image.Image(baseline) {
		t.Error("previous frame replaced without a change")
	}
	if _, err := os.Stat(filepath.Join(m.opts.SaveDir, ChangeFile)); !os.IsNotExist(err) {
		t.Errorf("%s written without a change", ChangeFile)
	}
}

func TestMonitor_SuccessiveChanges(t *testing.T) {
	base := frame(white)
	a := withPixel(base, 0, 0, black)
	b := withPixel(base, 5, 3, black)
	c := &scriptedCapturer{frames: []*image.RGBA{base, a, a, b, b, base, a}}
	n := &recordingNotifier{}
	m, _ := newTestMonitor(t, Options{Message: "x"}, c, n)

	_ = m.Run(context.Background())

	// a fires, a persists, b fires, b persists, base suppressed, a fires again.
	if n.count() != 3 {
		t.Errorf("notifications = %d, want 3", n.count())
	}
}

func TestMonitor_BaselineCaptureFailureIsFatal(t *testing.T) {
	denied := errors.New("screen capture denied")
	c := &scriptedCapturer{frames: []*image.RGBA{nil}, captureErr: denied}
	n := &recordingNotifier{}
	m, _ := newTestMonitor(t, Options{Message: "x"}, c, n)

	err := m.Run(context.Background())
	if !errors.Is(err, denied) {
		t.Fatalf("Run err = %v, want wrapped denial", err)
	}
	if m.State() != StateInit {
		t.Errorf("state = %v, want init", m.State())
	}
}

func TestMonitor_PollCaptureFailureSkipsTick(t *testing.T) {
	base := frame(white)
	c := &scriptedCapturer{
		frames:     []*image.RGBA{base, nil, withPixel(base, 1, 1, black)},
		captureErr: errors.New("transient"),
	}
	n := &recordingNotifier{}
	m, _ := newTestMonitor(t, Options{Message: "x"}, c, n)

	if err := m.Run(context.Background()); !errors.Is(err, errDone) {
		t.Fatalf("Run err = %v, want errDone", err)
	}
	if n.count() != 1 {
		t.Errorf("notifications = %d, want 1", n.count())
	}
}

func TestMonitor_NotifyFailureDoesNotStopLoop(t *testing.T) {
	var posts int
	var mu sync.Mutex
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		mu.Lock()
		posts++
		mu.Unlock()
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	base := frame(white)
	c := &scriptedCapturer{frames: []*image.RGBA{
		base,
		withPixel(base, 0, 0, black),
		withPixel(base, 1, 0, black),
	}}
	m, _ := newTestMonitor(t, Options{Message: "x"}, c, notify.NewWebhook(srv.URL, time.Second))

	if err := m.Run(context.Background()); !errors.Is(err, errDone) {
		t.Fatalf("Run err = %v, want errDone", err)
	}
	mu.Lock()
	defer mu.Unlock()
	if posts != 2 {
		t.Errorf("webhook posts = %d, want 2", posts)
	}
}

func TestMonitor_SaveFailureIsNotFatal(t *testing.T) {
	base := frame(white)
	c := &scriptedCapturer{frames: []*image.RGBA{base, withPixel(base, 2, 2, black)}}
	n := &recordingNotifier{}
	opts := Options{Message: "x", Save: true, SaveDir: filepath.Join(t.TempDir(), "missing")}
	m, _ := newTestMonitor(t, opts, c, n)

	if err := m.Run(context.Background()); !errors.Is(err, errDone) {
		t.Fatalf("Run err = %v, want errDone", err)
	}
	if n.count() != 1 {
		t.Errorf("notifications = %d, want 1", n.count())
	}
}

func TestMonitor_SaveDisabled(t *testing.T) {
	base := frame(white)
	c := &scriptedCapturer{frames: []*image.RGBA{base, withPixel(base, 2, 2, black)}}
	m, _ := newTestMonitor(t, Options{Message: "x", Save: false}, c, &recordingNotifier{})

	_ = m.Run(context.Background())

	entries, err := os.ReadDir(m.opts.SaveDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("files written with saving disabled: %v", entries)
	}
}

func TestMonitor_EmptyRegionNeverNotifies(t *testing.T) {
	empty := func() *image.RGBA { return image.NewRGBA(image.Rectangle{}) }
	c := &scriptedCapturer{frames: []*image.RGBA{empty(), empty(), empty()}}
	n := &recordingNotifier{}
	m, _ := newTestMonitor(t, Options{Message: "x", Save: true}, c, n)

	if err := m.Run(context.Background()); !errors.Is(err, errDone) {
		t.Fatalf("Run err = %v, want errDone", err)
	}
	if n.count() != 0 {
		t.Errorf("notifications = %d, want 0", n.count())
	}
}

func TestMonitor_CancelInterruptsWait(t *testing.T) {
	c := &scriptedCapturer{frames: []*image.RGBA{frame(white)}}
	m := New(Options{Message: "x", Interval: time.Hour}, c, &recordingNotifier{})
	m.out = io.Discard

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Run(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run err = %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestNew_Defaults(t *testing.T) {
	m := New(Options{}, &scriptedCapturer{}, &recordingNotifier{})
	if m.opts.Interval != DefaultInterval {
		t.Errorf("interval = %v, want %v", m.opts.Interval, DefaultInterval)
	}
	if m.opts.SaveDir != "." {
		t.Errorf("save dir = %q, want .", m.opts.SaveDir)
	}
	if m.State() != StateInit {
		t.Errorf("state = %v, want init", m.State())
	}
}

func TestState_String(t *testing.T) {
	for s, want := range map[State]string{
		StateInit:             "init",
		StateBaselineCaptured: "baseline-captured",
		StatePolling:          "polling",
		State(99):             "unknown",
	} {
		if s.String() != want {
			t.Errorf("State(%d).String() = %q, want %q", int(s), s.String(), want)
		}
	}
}
