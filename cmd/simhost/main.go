// Command simhost runs the replicated queue as a standalone process:
// spawn the configured instances, make instance 1 the leader, have the
// last instance enqueue one value through it, and run the scheduler
// until interrupted.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/devnullvm/guestraft/pkg/guestraft"
	"github.com/devnullvm/guestraft/pkg/guestraft/definition"
	"github.com/devnullvm/guestraft/pkg/guestraft/host"
)

func main() {
	logger := definition.NewDefaultLogger()

	config := host.DefaultConfig()
	rt, err := guestraft.NewRuntime(config, logger)
	if err != nil {
		logger.Fatalf("failed starting runtime: %v", err)
	}

	leaderID := config.View[0]
	clientVal := int32(111)
	if err := rt.EnqueueFromClient(clientVal, leaderID); err != nil {
		logger.Fatalf("failed enqueueing bootstrap value: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Infof("simhost running %d instances, leader %d, tick %s", config.InstanceCount, leaderID, config.Tick)
	rt.Run(ctx)
	logger.Info("simhost shutting down")
}
