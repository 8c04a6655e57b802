package polyfactor

import (
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ppopth/polyfactor/factor"
	"github.com/ppopth/polyfactor/ring"
)

// Gcd strategy names accepted by Config.Gcd
const (
	// GcdAuto picks the modular method where one exists (CRT over Z,
	// Brown over finite fields) and the subresultant sequence elsewhere.
	GcdAuto = "auto"
	// GcdSubresultant forces the subresultant remainder sequence
	GcdSubresultant = "subresultant"
	// GcdPrimitive forces the primitive remainder sequence
	GcdPrimitive = "primitive"
	// GcdModular forces the modular method; unsupported over infinite
	// fields.
	GcdModular = "modular"
	// GcdRace runs the modular method and the subresultant sequence
	// concurrently and keeps the first answer.
	GcdRace = "race"
)

// Config holds the tunables of the engines returned by Select
type Config struct {
	// Seed initialises the random source of every top level call, so that
	// results are reproducible
	Seed int64 `yaml:"seed" json:"seed"`
	// Hensel is "quadratic" or "linear"
	Hensel string `yaml:"hensel" json:"hensel"`
	// Gcd is one of the Gcd* strategy names
	Gcd string `yaml:"gcd" json:"gcd"`
	// Primes is the number of good primes Zassenhaus compares
	Primes int `yaml:"primes" json:"primes"`
	// MaxPrimes bounds the primes tried while looking for good ones
	MaxPrimes int `yaml:"max_primes" json:"max_primes"`
	// PointAttempts bounds the evaluation points tried per multivariate
	// polynomial; running out is a fatal error
	PointAttempts int `yaml:"point_attempts" json:"point_attempts"`
	// PointBound is the initial bound on evaluation values over Q
	PointBound int64 `yaml:"point_bound" json:"point_bound"`
	// WangAttempts bounds the extra points tried when the leading
	// coefficient cannot be distributed over the factors
	WangAttempts int `yaml:"wang_attempts" json:"wang_attempts"`
	// SplitAttempts bounds the random trials of equal degree splitting
	SplitAttempts int `yaml:"split_attempts" json:"split_attempts"`
	// TragerShifts bounds the shifts tried for a squarefree norm
	TragerShifts int `yaml:"trager_shifts" json:"trager_shifts"`
}

// DefaultConfig returns the configuration used when none is given
func DefaultConfig() Config {
	opts := factor.DefaultOptions()
	return Config{
		Seed:          opts.Seed,
		Hensel:        opts.Hensel.String(),
		Gcd:           GcdAuto,
		Primes:        opts.Primes,
		MaxPrimes:     opts.MaxPrimes,
		PointAttempts: opts.PointAttempts,
		PointBound:    opts.PointBound,
		WangAttempts:  opts.WangAttempts,
		SplitAttempts: opts.SplitAttempts,
		TragerShifts:  opts.TragerShifts,
	}
}

// Validate checks that every budget is positive and every name known
func (c Config) Validate() error {
	if _, err := factor.ParseHenselMode(c.Hensel); err != nil {
		return err
	}
	switch c.Gcd {
	case GcdAuto, GcdSubresultant, GcdPrimitive, GcdModular, GcdRace:
	default:
		return fmt.Errorf("%w: unknown gcd strategy %q", ring.ErrInvalidOperation, c.Gcd)
	}
	for _, b := range []struct {
		name string
		v    int64
	}{
		{"primes", int64(c.Primes)},
		{"max_primes", int64(c.MaxPrimes)},
		{"point_attempts", int64(c.PointAttempts)},
		{"point_bound", c.PointBound},
		{"split_attempts", int64(c.SplitAttempts)},
		{"trager_shifts", int64(c.TragerShifts)},
	} {
		if b.v <= 0 {
			return fmt.Errorf("%w: %s must be positive, got %d", ring.ErrInvalidOperation, b.name, b.v)
		}
	}
	if c.WangAttempts < 0 {
		return fmt.Errorf("%w: wang_attempts must not be negative, got %d", ring.ErrInvalidOperation, c.WangAttempts)
	}
	if c.Primes > c.MaxPrimes {
		return fmt.Errorf("%w: primes (%d) exceeds max_primes (%d)", ring.ErrInvalidOperation, c.Primes, c.MaxPrimes)
	}
	return nil
}

// Options converts the configuration into factorization options
func (c Config) Options() (factor.Options, error) {
	mode, err := factor.ParseHenselMode(c.Hensel)
	if err != nil {
		return factor.Options{}, err
	}
	return factor.Options{
		Seed:          c.Seed,
		Hensel:        mode,
		Primes:        c.Primes,
		MaxPrimes:     c.MaxPrimes,
		PointAttempts: c.PointAttempts,
		PointBound:    c.PointBound,
		WangAttempts:  c.WangAttempts,
		SplitAttempts: c.SplitAttempts,
		TragerShifts:  c.TragerShifts,
	}, nil
}

// Option configures a Config during construction
type Option func(*Config) error

// NewConfig applies opts to the default configuration
func NewConfig(opts ...Option) (Config, error) {
	c := DefaultConfig()
	if err := c.apply(opts); err != nil {
		return c, err
	}
	return c, nil
}

func (c *Config) apply(opts []Option) error {
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return err
		}
	}
	return c.Validate()
}

// WithSeed sets the random seed
func WithSeed(seed int64) Option {
	return func(c *Config) error {
		c.Seed = seed
		return nil
	}
}

// WithHensel sets the univariate lifting used over Z
func WithHensel(mode factor.HenselMode) Option {
	return func(c *Config) error {
		if _, err := factor.ParseHenselMode(mode.String()); err != nil {
			return err
		}
		c.Hensel = mode.String()
		return nil
	}
}

// WithGcd sets the gcd strategy by name
func WithGcd(name string) Option {
	return func(c *Config) error {
		c.Gcd = name
		return nil
	}
}

// WithPointAttempts sets the evaluation point budget
func WithPointAttempts(n int) Option {
	return func(c *Config) error {
		c.PointAttempts = n
		return nil
	}
}

// LoadConfig reads a YAML (or JSON) configuration file over the defaults
// and applies opts on top. An empty path yields the defaults.
func LoadConfig(path string, opts ...Option) (Config, error) {
	c := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return c, fmt.Errorf("load config: %w", err)
		}
		if err := yaml.Unmarshal(data, &c); err != nil {
			if jsonErr := json.Unmarshal(data, &c); jsonErr != nil {
				return c, fmt.Errorf("parse config %s (tried YAML and JSON): YAML error: %v, JSON error: %w", path, err, jsonErr)
			}
		}
	}
	if err := c.apply(opts); err != nil {
		return c, fmt.Errorf("invalid config: %w", err)
	}
	return c, nil
}
