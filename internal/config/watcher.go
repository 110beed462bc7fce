package config

import (
	"fmt"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Watcher watches the configuration file and triggers callbacks when
// it changes on disk.
type Watcher struct {
	v       *viper.Viper
	cfgFile string

	mu        sync.RWMutex
	callbacks []func(*Config)
	last      *Config
}

// NewWatcher creates a watcher over the config file. An explicit
// cfgFile pins the watched path; otherwise the discovered file is
// watched.
func NewWatcher(cfgFile string) (*Watcher, error) {
	v := newViper()
	setViperDefaults(v, Default())
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	}
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil, fmt.Errorf("config file not found: %w", err)
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return &Watcher{v: v, cfgFile: cfgFile}, nil
}

// OnChange registers a callback invoked with the newly loaded
// configuration after every file change.
func (w *Watcher) OnChange(callback func(*Config)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callbacks = append(w.callbacks, callback)
}

// Start begins watching for configuration changes.
func (w *Watcher) Start() {
	w.v.OnConfigChange(func(fsnotify.Event) {
		w.handleChange()
	})
	w.v.WatchConfig()
}

func (w *Watcher) handleChange() {
	var cfg Config
	if err := w.v.Unmarshal(&cfg); err != nil {
		// A half-written file should not take the client down.
		return
	}

	w.mu.RLock()
	callbacks := make([]func(*Config), len(w.callbacks))
	copy(callbacks, w.callbacks)
	w.mu.RUnlock()

	for _, cb := range callbacks {
		cb(&cfg)
	}

	w.mu.Lock()
	w.last = &cfg
	w.mu.Unlock()
}

// Last returns the most recently loaded configuration, nil before the
// first change.
func (w *Watcher) Last() *Config {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.last
}
