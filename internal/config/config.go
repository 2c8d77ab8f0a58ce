package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/zeusync/entitycore/internal/core/models"
	"github.com/zeusync/entitycore/internal/core/models/ids"
	"github.com/zeusync/entitycore/internal/core/observability/log"
)

// Config describes one runtime: id strategy, listener failure handling,
// logging and the tick loop. It can be written in JSON or YAML.
type Config struct {
	IDs       IDs       `json:"ids" yaml:"ids"`
	Listeners Listeners `json:"listeners" yaml:"listeners"`
	Log       Log       `json:"log" yaml:"log"`
	Ticks     Ticks     `json:"ticks" yaml:"ticks"`
	Metrics   Metrics   `json:"metrics" yaml:"metrics"`
}

type IDs struct {
	Strategy     string `json:"strategy" yaml:"strategy"`
	CounterStart uint64 `json:"counter_start" yaml:"counter_start"`
}

type Listeners struct {
	FailurePolicy string `json:"failure_policy" yaml:"failure_policy"`
}

type Log struct {
	Level       string   `json:"level" yaml:"level"`
	Encoding    string   `json:"encoding" yaml:"encoding"`
	OutputPaths []string `json:"output_paths,omitempty" yaml:"output_paths,omitempty"`
}

type Ticks struct {
	Interval Duration `json:"interval" yaml:"interval"`
	// Count stops the loop after that many ticks; 0 runs until interrupted.
	Count int `json:"count" yaml:"count"`
}

type Metrics struct {
	Enabled bool `json:"enabled" yaml:"enabled"`
}

// Default is what an empty file means.
func Default() *Config {
	return &Config{
		IDs:       IDs{Strategy: string(ids.StrategyKey)},
		Listeners: Listeners{FailurePolicy: models.Propagate.String()},
		Log:       Log{Level: "info", Encoding: "console"},
		Ticks:     Ticks{Interval: Duration(time.Second)},
	}
}

// LoadJSON loads config from JSON reader on top of Default.
func LoadJSON(r io.Reader) (*Config, error) {
	c := Default()
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode json config: %w", err)
	}
	return c, c.Validate()
}

// LoadYAML loads config from YAML reader on top of Default.
func LoadYAML(r io.Reader) (*Config, error) {
	c := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode yaml config: %w", err)
	}
	return c, c.Validate()
}

// Load picks the decoder from the file extension (.json, else YAML).
// An empty path returns Default.
func Load(path string) (*Config, error) {
	if path == "" {
		c := Default()
		return c, c.Validate()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".json") {
		return LoadJSON(f)
	}
	return LoadYAML(f)
}

func (c *Config) Validate() error {
	var errs []error
	if _, err := c.Strategy(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.FailurePolicy(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.LogConfig(); err != nil {
		errs = append(errs, err)
	}
	switch c.Log.Encoding {
	case "", "json", "console":
	default:
		errs = append(errs, fmt.Errorf("unknown log encoding %q", c.Log.Encoding))
	}
	if c.Ticks.Interval <= 0 {
		errs = append(errs, fmt.Errorf("ticks.interval must be positive, got %s", time.Duration(c.Ticks.Interval)))
	}
	if c.Ticks.Count < 0 {
		errs = append(errs, fmt.Errorf("ticks.count must not be negative, got %d", c.Ticks.Count))
	}
	return errors.Join(errs...)
}

func (c *Config) Strategy() (ids.Strategy, error) {
	return ids.ParseStrategy(c.IDs.Strategy)
}

func (c *Config) FailurePolicy() (models.FailurePolicy, error) {
	return models.ParseFailurePolicy(c.Listeners.FailurePolicy)
}

func (c *Config) LogConfig() (log.Config, error) {
	level, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.Config{}, err
	}
	return log.Config{Level: level, Encoding: c.Log.Encoding, OutputPaths: c.Log.OutputPaths}, nil
}

// Duration accepts "250ms"-style strings in both formats.
type Duration time.Duration

func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("duration must be a string: %w", err)
	}
	return d.parse(s)
}

func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	return d.parse(s)
}

func (d *Duration) parse(s string) error {
	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}
