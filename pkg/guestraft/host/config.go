package host

import (
	"fmt"
	"time"

	"github.com/hashicorp/go-version"

	"github.com/devnullvm/guestraft/pkg/guestraft/core"
	"github.com/devnullvm/guestraft/pkg/guestraft/types"
)

// LatestProtocolVersion is the newest wire version this build can speak.
// A Config requesting anything newer fails NewHost.
var LatestProtocolVersion = version.Must(version.NewVersion("1.0.0"))

// Config is the runtime's startup configuration. There is no file or
// environment loading: a Config is always built in code via
// DefaultConfig and functional options.
type Config struct {
	InstanceCount int
	View          []types.InstanceID

	DevilMinDelay time.Duration
	DevilMaxDelay time.Duration

	Tick time.Duration

	ProtocolVersion *version.Version

	// Extra is free-form deployment metadata, never read by the
	// protocol.
	Extra map[string]string
}

// DefaultConfig returns the default startup configuration: four
// instances, view [1,2,3], the devil's default delay bounds, and a
// 10ms scheduler tick.
func DefaultConfig() *Config {
	return &Config{
		InstanceCount:   4,
		View:            append([]types.InstanceID(nil), 1, 2, 3),
		DevilMinDelay:   core.DefaultMinDelay,
		DevilMaxDelay:   core.DefaultMaxDelay,
		Tick:            10 * time.Millisecond,
		ProtocolVersion: LatestProtocolVersion,
		Extra:           make(map[string]string),
	}
}

// Option mutates a Config at construction time.
type Option func(*Config)

func WithInstanceCount(n int) Option {
	return func(c *Config) { c.InstanceCount = n }
}

func WithView(view []types.InstanceID) Option {
	return func(c *Config) { c.View = append([]types.InstanceID(nil), view...) }
}

func WithDevilBounds(min, max time.Duration) Option {
	return func(c *Config) { c.DevilMinDelay, c.DevilMaxDelay = min, max }
}

func WithTick(tick time.Duration) Option {
	return func(c *Config) { c.Tick = tick }
}

func WithProtocolVersion(v *version.Version) Option {
	return func(c *Config) { c.ProtocolVersion = v }
}

func WithExtra(key, value string) Option {
	return func(c *Config) {
		if c.Extra == nil {
			c.Extra = make(map[string]string)
		}
		c.Extra[key] = value
	}
}

// NewConfig applies opts over DefaultConfig.
func NewConfig(opts ...Option) *Config {
	c := DefaultConfig()
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// checkProtocolVersion rejects a Config asking for a version newer
// than this build understands. The check happens once at construction
// instead of per-RPC, since this system has no wire header to carry
// the version on.
func checkProtocolVersion(c *Config) error {
	if c.ProtocolVersion == nil {
		return fmt.Errorf("%w: nil protocol version", types.ErrUnsupportedProtocol)
	}
	if c.ProtocolVersion.GreaterThan(LatestProtocolVersion) {
		return fmt.Errorf("%w: %s newer than %s", types.ErrUnsupportedProtocol, c.ProtocolVersion, LatestProtocolVersion)
	}
	return nil
}
