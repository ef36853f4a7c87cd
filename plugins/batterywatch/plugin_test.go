package batterywatch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/bft-labs/companion/pkg/companion"
	"github.com/bft-labs/companion/pkg/log"
)

type recordingSink struct {
	mu     sync.Mutex
	levels []int
}

func (s *recordingSink) SetBatteryLevel(level int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.levels = append(s.levels, level)
}

func (s *recordingSink) Levels() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int(nil), s.levels...)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestReadLevel(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
		want    int
		wantErr bool
	}{
		{"plain", "42", 42, false},
		{"newline", "87\n", 87, false},
		{"spaces", "  7 ", 7, false},
		{"negative", "-3", -3, false},
		{"garbage", "full", 0, true},
		{"empty", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name)
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}
			got, err := ReadLevel(path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ReadLevel() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ReadLevel() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestPlugin_ForwardsReadings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "battery")
	if err := os.WriteFile(path, []byte("42\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	sink := &recordingSink{}
	p := New(Config{Path: path, DebounceDelay: 10 * time.Millisecond, Sink: sink})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := p.Initialize(ctx, companion.PluginConfig{Logger: log.NewNoopLogger()}); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	defer p.Shutdown(context.Background())

	if got := sink.Levels(); len(got) != 1 || got[0] != 42 {
		t.Fatalf("initial levels = %v, want [42]", got)
	}

	if err := os.WriteFile(path, []byte("not a number"), 0o644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(50 * time.Millisecond)

	if err := os.WriteFile(path, []byte("15\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	waitFor(t, func() bool {
		levels := sink.Levels()
		return levels[len(levels)-1] == 15
	})

	for _, l := range sink.Levels() {
		if l != 42 && l != 15 {
			t.Errorf("unexpected level %d forwarded", l)
		}
	}
}

func TestPlugin_FileCreatedLater(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "battery")

	sink := &recordingSink{}
	p := New(Config{Path: path, DebounceDelay: 10 * time.Millisecond, Sink: sink})
	if err := p.Initialize(context.Background(), companion.PluginConfig{Logger: log.NewNoopLogger()}); err != nil {
		t.Fatal(err)
	}
	defer p.Shutdown(context.Background())

	if len(sink.Levels()) != 0 {
		t.Fatal("reading forwarded for a missing file")
	}

	if err := os.WriteFile(path, []byte("64"), 0o644); err != nil {
		t.Fatal(err)
	}
	waitFor(t, func() bool { return len(sink.Levels()) > 0 })
}

func TestPlugin_DrivesController(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "battery")
	if err := os.WriteFile(path, []byte("100"), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := companion.New(
		companion.WithConfig(companion.DefaultConfig()),
		companion.WithStepDelay(0),
		WithBatteryWatch(Config{Path: path, DebounceDelay: 10 * time.Millisecond}),
	)
	if err != nil {
		t.Fatal(err)
	}
	if ok, err := c.Boot(context.Background(), true); err != nil || !ok {
		t.Fatalf("Boot() = %v, %v", ok, err)
	}
	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer c.Close()

	if err := os.WriteFile(path, []byte("12"), 0o644); err != nil {
		t.Fatal(err)
	}
	waitFor(t, func() bool { return c.State() == companion.StateLowPower })

	if got := c.Status().Boot.Battery; got != 12 {
		t.Errorf("battery = %d, want 12", got)
	}
}

func TestPlugin_MissingDirectory(t *testing.T) {
	p := New(Config{Path: filepath.Join(t.TempDir(), "nope", "battery"), Sink: &recordingSink{}})

	if err := p.Initialize(context.Background(), companion.PluginConfig{Logger: log.NewNoopLogger()}); err == nil {
		t.Error("expected error watching a missing directory")
	}
}

func TestNew_Defaults(t *testing.T) {
	p := New(Config{})

	if p.path != DefaultPath {
		t.Errorf("path = %q, want %q", p.path, DefaultPath)
	}
	if p.debounceDelay != 100*time.Millisecond {
		t.Errorf("debounce = %v", p.debounceDelay)
	}
	if p.Name() != "batterywatch" {
		t.Errorf("Name() = %q", p.Name())
	}
}
