// Package guestraft wires the host scheduler and the guest replication
// state machine together into a running cluster: it spawns the guests,
// appoints a leader, and drives the scheduler loop.
package guestraft

import (
	"context"
	"fmt"

	"github.com/devnullvm/guestraft/pkg/guestraft/definition"
	"github.com/devnullvm/guestraft/pkg/guestraft/guest"
	"github.com/devnullvm/guestraft/pkg/guestraft/host"
	"github.com/devnullvm/guestraft/pkg/guestraft/types"
)

// Runtime is a single running instance of the simulated cluster: one
// Host plus the N guests it spawned, with instance 1 already made
// leader. The bootstrap client enqueue is a separate EnqueueFromClient
// call.
type Runtime struct {
	Host   *host.Host
	Config *host.Config
	Logger types.Logger

	instances []types.InstanceID
	cancel    context.CancelFunc
}

// NewRuntime spawns InstanceCount guests, calling Start on each via
// Spawn, and makes instance 1 the leader.
func NewRuntime(config *host.Config, logger types.Logger) (*Runtime, error) {
	if logger == nil {
		logger = definition.NewDefaultLogger()
	}

	h, err := host.NewHost(config, logger)
	if err != nil {
		return nil, fmt.Errorf("guestraft: %w", err)
	}

	r := &Runtime{Host: h, Config: config, Logger: logger}
	for i := 0; i < config.InstanceCount; i++ {
		instance := guest.NewInstanceState(h, logger)
		id := h.Spawn(instance)
		r.instances = append(r.instances, id)
	}

	leader, ok := h.Instance(1)
	if !ok {
		return nil, fmt.Errorf("guestraft: no instance 1 spawned to become leader")
	}
	leader.MakeLeaderHost()

	return r, nil
}

// EnqueueFromClient runs the bootstrap client_enqueue call from the
// last spawned instance's identity, targeting leaderID.
func (r *Runtime) EnqueueFromClient(val int32, leaderID types.InstanceID) error {
	if len(r.instances) == 0 {
		return fmt.Errorf("guestraft: no instances spawned")
	}
	clientID := r.instances[len(r.instances)-1]
	client, ok := r.Host.Instance(clientID)
	if !ok {
		return fmt.Errorf("guestraft: bootstrap client instance %d missing", clientID)
	}
	client.ClientEnqueue(val, leaderID, clientID)
	return nil
}

// Run starts the scheduler loop and blocks until ctx is cancelled or
// Stop is called.
func (r *Runtime) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.Host.Run(ctx)
}

// Stop cancels the scheduler loop started by Run.
func (r *Runtime) Stop() {
	if r.cancel != nil {
		r.cancel()
	}
}

// Instances returns the ids spawned during startup, in spawn order.
func (r *Runtime) Instances() []types.InstanceID {
	return append([]types.InstanceID(nil), r.instances...)
}
