package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/0xmhha/focus-timer/pkg/logger"
)

func newTestWatcher(t *testing.T) Watcher {
	t.Helper()

	w, err := New(Config{DebounceInterval: 50 * time.Millisecond}, logger.Noop())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() {
		if err := w.Close(); err != nil {
			t.Logf("Close() error = %v", err)
		}
	})
	return w
}

func waitEvent(t *testing.T, w Watcher) (Event, bool) {
	t.Helper()

	select {
	case ev, ok := <-w.Events():
		return ev, ok
	case <-time.After(2 * time.Second):
		return Event{}, false
	}
}

func TestNew(t *testing.T) {
	w, err := New(Config{}, logger.Noop())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if closeErr := w.Close(); closeErr != nil {
		t.Errorf("Close() error = %v", closeErr)
	}
}

func TestStartInvalidPath(t *testing.T) {
	w := newTestWatcher(t)

	err := w.Start(context.Background(), []string{"/nonexistent/dir/config.yaml"})
	if !errors.Is(err, ErrInvalidPath) {
		t.Errorf("Start() error = %v, want ErrInvalidPath", err)
	}
}

func TestStartAlreadyStarted(t *testing.T) {
	w := newTestWatcher(t)
	file := filepath.Join(t.TempDir(), "config.yaml")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := w.Start(ctx, []string{file}); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := w.Start(ctx, []string{file}); !errors.Is(err, ErrAlreadyStarted) {
		t.Errorf("second Start() error = %v, want ErrAlreadyStarted", err)
	}
}

func TestFileCreateAndWrite(t *testing.T) {
	w := newTestWatcher(t)
	file := filepath.Join(t.TempDir(), "config.yaml")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The file does not exist yet.
	if err := w.Start(ctx, []string{file}); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	if err := os.WriteFile(file, []byte("timer: {}\n"), 0600); err != nil {
		t.Fatal(err)
	}

	ev, ok := waitEvent(t, w)
	if !ok {
		t.Fatal("timeout waiting for create event")
	}
	if ev.Path != file {
		t.Errorf("Path = %s, want %s", ev.Path, file)
	}

	if err := os.WriteFile(file, []byte("timer: {presets: [25]}\n"), 0600); err != nil {
		t.Fatal(err)
	}

	ev, ok = waitEvent(t, w)
	if !ok {
		t.Fatal("timeout waiting for write event")
	}
	if ev.Op != OpWrite && ev.Op != OpCreate {
		t.Errorf("Op = %s, want WRITE", ev.Op)
	}
}

func TestRenameOverFile(t *testing.T) {
	w := newTestWatcher(t)
	dir := t.TempDir()
	file := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(file, []byte("a: 1\n"), 0600); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx, []string{file}); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	tmp := filepath.Join(dir, ".config.yaml.swp")
	if err := os.WriteFile(tmp, []byte("a: 2\n"), 0600); err != nil {
		t.Fatal(err)
	}
	if err := os.Rename(tmp, file); err != nil {
		t.Fatal(err)
	}

	ev, ok := waitEvent(t, w)
	if !ok {
		t.Fatal("timeout waiting for event after rename")
	}
	if ev.Path != file {
		t.Errorf("Path = %s, want %s", ev.Path, file)
	}
}

func TestDebouncing(t *testing.T) {
	w := newTestWatcher(t)
	file := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(file, []byte("0"), 0600); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx, []string{file}); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	for i := 0; i < 5; i++ {
		if err := os.WriteFile(file, []byte{byte('a' + i)}, 0600); err != nil {
			t.Fatal(err)
		}
		time.Sleep(10 * time.Millisecond)
	}

	if _, ok := waitEvent(t, w); !ok {
		t.Fatal("timeout waiting for debounced event")
	}

	select {
	case ev := <-w.Events():
		t.Errorf("unexpected second event: %+v", ev)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestOtherFilesIgnored(t *testing.T) {
	w := newTestWatcher(t)
	dir := t.TempDir()
	file := filepath.Join(dir, "config.yaml")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx, []string{file}); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "sessions.db"), []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}

	select {
	case ev := <-w.Events():
		t.Errorf("unexpected event for unwatched file: %+v", ev)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestOpString(t *testing.T) {
	tests := []struct {
		op   Op
		want string
	}{
		{OpCreate, "CREATE"},
		{OpWrite, "WRITE"},
		{OpRemove, "REMOVE"},
		{OpRename, "RENAME"},
		{OpChmod, "CHMOD"},
		{Op(999), "UNKNOWN"},
	}

	for _, tt := range tests {
		if got := tt.op.String(); got != tt.want {
			t.Errorf("Op(%d).String() = %s, want %s", tt.op, got, tt.want)
		}
	}
}

func TestStopNotStarted(t *testing.T) {
	w := newTestWatcher(t)

	if err := w.Stop(); !errors.Is(err, ErrNotStarted) {
		t.Errorf("Stop() error = %v, want ErrNotStarted", err)
	}
}

func TestStopThenClose(t *testing.T) {
	w := newTestWatcher(t)
	file := filepath.Join(t.TempDir(), "config.yaml")

	if err := w.Start(context.Background(), []string{file}); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := w.Stop(); err != nil {
		t.Errorf("Stop() error = %v", err)
	}
	if err := w.Stop(); !errors.Is(err, ErrNotStarted) {
		t.Errorf("second Stop() error = %v, want ErrNotStarted", err)
	}
}

func TestCloseTwice(t *testing.T) {
	w, err := New(Config{}, logger.Noop())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if err := w.Close(); err != nil {
		t.Errorf("first Close() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}

	if _, ok := <-w.Events(); ok {
		t.Error("Events() channel still open after Close")
	}
}

func TestStartAfterClose(t *testing.T) {
	w, err := New(Config{}, logger.Noop())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	_ = w.Close()

	err = w.Start(context.Background(), []string{filepath.Join(t.TempDir(), "c.yaml")})
	if !errors.Is(err, ErrWatcherClosed) {
		t.Errorf("Start() error = %v, want ErrWatcherClosed", err)
	}
}

func TestCircuitBreaker(t *testing.T) {
	raw, err := New(Config{CircuitBreakerThreshold: 2}, logger.Noop())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer raw.Close()

	w := raw.(*watcher)
	w.handleError(errors.New("overflow 1"))
	w.handleError(errors.New("overflow 2"))
	w.handleError(errors.New("overflow 3"))

	if got := <-w.Errors(); got.Error() != "overflow 1" {
		t.Errorf("first error = %v", got)
	}
	if got := <-w.Errors(); !errors.Is(got, ErrCircuitBreakerOpen) {
		t.Errorf("second error = %v, want ErrCircuitBreakerOpen", got)
	}
	select {
	case got := <-w.Errors():
		t.Errorf("error forwarded after breaker opened: %v", got)
	default:
	}
}
