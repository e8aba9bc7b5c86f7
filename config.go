package strata

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// Config is the compositor configuration surface the layout core consumes.
type Config struct {
	// InnerGap is the spacing between adjacent tiled windows, in pixels.
	InnerGap float64 `toml:"inner_gap"`
	// OuterGap is the spacing between tiled windows and the usable zone's
	// edge, in pixels.
	OuterGap float64 `toml:"outer_gap"`
	// TransactionTimeoutMS bounds how long a geometry commit waits for
	// client acks. Zero means the built-in default.
	TransactionTimeoutMS int `toml:"transaction_timeout_ms"`
	// Policy names the built-in layout policy: even_row, even_column,
	// master_stack, or spiral.
	Policy string `toml:"policy"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		InnerGap: 4,
		OuterGap: 8,
		Policy:   "master_stack",
	}
}

// TransactionDeadline returns the configured commit deadline.
func (c *Config) TransactionDeadline() time.Duration {
	if c.TransactionTimeoutMS <= 0 {
		return TransactionDeadline
	}
	return time.Duration(c.TransactionTimeoutMS) * time.Millisecond
}

// Validate rejects configurations the core can't honor.
func (c *Config) Validate() error {
	if c.InnerGap < 0 || c.OuterGap < 0 {
		return fmt.Errorf("gaps must be non-negative (inner %v, outer %v)",
			c.InnerGap, c.OuterGap)
	}
	if _, err := PolicyByName(c.Policy); err != nil {
		return err
	}
	return nil
}

// LoadConfig reads a TOML config file over the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// WatchConfig reloads the config file whenever it changes on disk, handing
// each valid result to onChange on the loop goroutine. Invalid edits are
// logged and skipped, keeping the last good config active. The returned
// stop function tears the watcher down.
func WatchConfig(path string, loop *Loop, onChange func(*Config)) (func() error, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch config: %w", err)
	}
	if err := watcher.Add(path); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch config %s: %w", path, err)
	}

	go func() {
		for {
			select {
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
					continue
				}
				cfg, err := LoadConfig(path)
				if err != nil {
					log.Error("config reload skipped", "err", err)
					continue
				}
				log.Info("config reloaded", "path", path)
				loop.QueueUpdate(func() { onChange(cfg) })
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Error("config watcher", "err", err)
			}
		}
	}()
	return watcher.Close, nil
}
