package config

import (
	"bytes"
	"context"
	"crypto/sha256"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"
)

// ReloadFunc receives the previous and the newly loaded config.
type ReloadFunc func(old, updated *Config)

// Watcher reloads a config file when its content changes. Edits that fail to
// parse or validate are reported and the previous config stays in effect.
type Watcher struct {
	path     string
	interval time.Duration
	lookup   func(string) (string, bool)
	onReload ReloadFunc

	mu      sync.Mutex
	current *Config
	stamp   fileStamp
}

// fileStamp identifies one version of the file. The modification time is a
// cheap pre-check; the digest decides whether the content really changed.
type fileStamp struct {
	mtime  time.Time
	digest [sha256.Size]byte
}

// WatcherOption configures a [Watcher].
type WatcherOption func(*Watcher)

// WithInterval sets how often Run polls. Default: 5s.
func WithInterval(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.interval = d
		}
	}
}

// WithEnv re-applies [ApplyEnv] with lookup on every load.
func WithEnv(lookup func(string) (string, bool)) WatcherOption {
	return func(w *Watcher) { w.lookup = lookup }
}

// NewWatcher loads path once. Polling starts with [Watcher.Run]. onReload
// may be nil.
func NewWatcher(path string, onReload ReloadFunc, opts ...WatcherOption) (*Watcher, error) {
	w := &Watcher{path: path, interval: 5 * time.Second, onReload: onReload}
	for _, opt := range opts {
		opt(w)
	}
	cfg, stamp, err := w.load()
	if err != nil {
		return nil, fmt.Errorf("config: watch %s: %w", path, err)
	}
	w.current, w.stamp = cfg, stamp
	return w, nil
}

// Current returns the config in effect.
func (w *Watcher) Current() *Config {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.current
}

// Run polls until ctx is cancelled. Failed reloads are logged.
func (w *Watcher) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := w.Reload(); err != nil {
				slog.Warn("config: reload rejected, keeping previous config", "path", w.path, "err", err)
			}
		}
	}
}

// Reload checks the file once. It reports whether a new config took effect;
// an unchanged file is not an error.
func (w *Watcher) Reload() (bool, error) {
	info, err := os.Stat(w.path)
	if err != nil {
		return false, fmt.Errorf("config: stat %s: %w", w.path, err)
	}
	w.mu.Lock()
	same := info.ModTime().Equal(w.stamp.mtime)
	w.mu.Unlock()
	if same {
		return false, nil
	}

	cfg, stamp, err := w.load()
	if err != nil {
		return false, err
	}

	w.mu.Lock()
	contentChanged := stamp.digest != w.stamp.digest
	w.stamp = stamp
	old := w.current
	if contentChanged {
		w.current = cfg
	}
	w.mu.Unlock()

	if !contentChanged {
		return false, nil
	}
	slog.Info("config: reloaded", "path", w.path)
	if w.onReload != nil {
		w.onReload(old, cfg)
	}
	return true, nil
}

func (w *Watcher) load() (*Config, fileStamp, error) {
	info, err := os.Stat(w.path)
	if err != nil {
		return nil, fileStamp{}, err
	}
	data, err := os.ReadFile(w.path)
	if err != nil {
		return nil, fileStamp{}, err
	}
	cfg, err := LoadFromReader(bytes.NewReader(data))
	if err != nil {
		return nil, fileStamp{}, err
	}
	if w.lookup != nil {
		if err := ApplyEnv(cfg, w.lookup); err != nil {
			return nil, fileStamp{}, err
		}
	}
	return cfg, fileStamp{mtime: info.ModTime(), digest: sha256.Sum256(data)}, nil
}
