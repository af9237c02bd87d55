package core

import (
	"math/rand"
	"sync"
	"time"
)

// Devil is the host's simulated-latency injector. It is stateless
// beyond its configured bounds; next_delay_ms draws a uniform integer
// in [min,max] inclusive, once per outbound message.
//
// math/rand is the idiomatic choice for a non-cryptographic delay
// source; see DESIGN.md for why no third-party distribution library
// is used here.
type Devil struct {
	mu         sync.Mutex
	rng        *rand.Rand
	minDelayMS int64
	maxDelayMS int64
}

const (
	DefaultMinDelay = 10 * time.Millisecond
	DefaultMaxDelay = 5000 * time.Millisecond
)

func NewDevil(min, max time.Duration) *Devil {
	return &Devil{
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
		minDelayMS: min.Milliseconds(),
		maxDelayMS: max.Milliseconds(),
	}
}

// NextDelayMS returns a uniform integer delay, in milliseconds, in
// [min,max] inclusive.
func (d *Devil) NextDelayMS() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.maxDelayMS <= d.minDelayMS {
		return d.minDelayMS
	}
	span := d.maxDelayMS - d.minDelayMS + 1
	return d.minDelayMS + d.rng.Int63n(span)
}
