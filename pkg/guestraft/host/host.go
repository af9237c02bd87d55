// Package host implements the scheduler and the two host-to-guest
// imports: spawning instances, routing send_message calls through the
// devil into mailboxes, and sweeping those mailboxes on a fixed tick.
package host

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/devnullvm/guestraft/pkg/guestraft/core"
	"github.com/devnullvm/guestraft/pkg/guestraft/types"
)

// Host is the single-threaded scheduler: one goroutine ever calls into
// a guest, the instances map is protected only for the drain-and-
// collect step, and the mutex is always released before a guest export
// is invoked.
type Host struct {
	mu        sync.Mutex
	instances map[types.InstanceID]*instanceRecord
	nextID    int32
	tasks     []func()

	devil  *core.Devil
	config *Config
	logger types.Logger

	start time.Time
}

// NewHost validates the configured protocol version and builds an
// empty host ready for Spawn calls.
func NewHost(config *Config, logger types.Logger) (*Host, error) {
	if err := checkProtocolVersion(config); err != nil {
		return nil, err
	}
	return &Host{
		instances: make(map[types.InstanceID]*instanceRecord),
		devil:     core.NewDevil(config.DevilMinDelay, config.DevilMaxDelay),
		config:    config,
		logger:    logger,
		start:     time.Now(),
	}, nil
}

var _ core.HostImports = (*Host)(nil)

func (h *Host) nowMS() int64 {
	return time.Since(h.start).Milliseconds()
}

// Spawn assigns the next sequential instance id, runs the guest's
// Start export, and registers its mailbox.
func (h *Host) Spawn(instance core.GuestInstance) types.InstanceID {
	h.mu.Lock()
	h.nextID++
	id := types.InstanceID(h.nextID)
	h.instances[id] = newInstanceRecord(id, instance)
	h.mu.Unlock()

	instance.Start(id)
	return id
}

// Instance returns the sandbox handle for id, for bootstrap calls
// (make_leader_host, client_enqueue) that happen outside the sweep
// loop.
func (h *Host) Instance(id types.InstanceID) (core.GuestInstance, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	record, ok := h.instances[id]
	if !ok {
		return nil, false
	}
	return record.Instance, true
}

// Invoke schedules fn to run on the scheduler goroutine during its
// next sweep, and blocks until fn has run or ctx is done. The
// scheduler is the only goroutine that ever mutates a guest's state,
// so this is the only safe way to read it from outside Run.
func (h *Host) Invoke(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	h.mu.Lock()
	h.tasks = append(h.tasks, func() {
		fn()
		close(done)
	})
	h.mu.Unlock()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// LogStr implements core.HostImports: reads the caller's memory and
// emits one structured log line tagged with the calling instance.
func (h *Host) LogStr(caller core.GuestInstance, ptr, length int) {
	data, err := caller.ReadMemory(ptr, length)
	if err != nil {
		h.logger.WithFields(map[string]interface{}{
			"instance_id": caller.ID(),
		}).Errorf("log_str bounds error: %v", err)
		return
	}
	h.logger.WithFields(map[string]interface{}{
		"instance_id": caller.ID(),
	}).Info(string(data))
}

// SendMessage implements core.HostImports: reads the caller's memory,
// stamps the bytes with a devil-delayed fire time and a fresh trace
// id, and enqueues them on targetID's mailbox.
func (h *Host) SendMessage(caller core.GuestInstance, targetID types.InstanceID, ptr, length int) {
	data, err := caller.ReadMemory(ptr, length)
	if err != nil {
		h.logger.Errorf("send_message bounds error from %d: %v", caller.ID(), err)
		return
	}

	h.mu.Lock()
	target, ok := h.instances[targetID]
	h.mu.Unlock()
	if !ok {
		h.logger.Errorf("%v: %d -> %d", types.ErrUnknownTarget, caller.ID(), targetID)
		return
	}

	delay := h.devil.NextDelayMS()
	event := types.RawMessageEvent(h.nowMS()+delay, caller.ID(), uuid.NewString(), append([]byte(nil), data...))
	target.Mailbox.Send(event)
}

// Run drives the scheduler loop on a fixed tick until ctx is
// cancelled: drain every mailbox's queue into its buffer, then fire
// whatever is due. Draining always runs before firing, never the
// reverse, so a message that arrives mid-sweep cannot jump ahead of
// one already due.
func (h *Host) Run(ctx context.Context) {
	ticker := time.NewTicker(h.config.Tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.sweep()
		}
	}
}

func (h *Host) sweep() {
	h.runQueuedTasks()
	now := h.nowMS()

	h.mu.Lock()
	ids := make([]types.InstanceID, 0, len(h.instances))
	for id := range h.instances {
		ids = append(ids, id)
	}
	h.mu.Unlock()
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		h.mu.Lock()
		record, ok := h.instances[id]
		h.mu.Unlock()
		if !ok {
			continue
		}

		record.Mailbox.DrainToBuffer()
		for _, event := range record.Mailbox.PopReady(now) {
			h.fire(record, event)
		}
	}
}

// runQueuedTasks drains and executes every pending Invoke callback on
// the scheduler goroutine, before that sweep fires any events.
func (h *Host) runQueuedTasks() {
	h.mu.Lock()
	tasks := h.tasks
	h.tasks = nil
	h.mu.Unlock()

	for _, task := range tasks {
		task()
	}
}

func (h *Host) fire(record *instanceRecord, event types.ScheduledEvent) {
	if event.Kind != types.EventRawMessage {
		h.logger.Debugf("instance %d discarding %v event, no handler", record.Instance.ID(), event.Kind)
		return
	}
	h.deliver(record, event)
}

func (h *Host) deliver(record *instanceRecord, event types.ScheduledEvent) {
	receiver, ok := record.Instance.(core.MessageReceiver)
	if !ok {
		h.logger.Errorf("%v: instance %d has no receive export, trace %s discarded", types.ErrMissingExport, record.Instance.ID(), event.TraceID)
		return
	}

	ptr, err := record.Instance.Allocate(len(event.Message))
	if err != nil {
		h.logger.Errorf("instance %d allocate failed delivering trace %s: %v", record.Instance.ID(), event.TraceID, err)
		return
	}
	if err := record.Instance.WriteMemory(ptr, event.Message); err != nil {
		h.logger.Errorf("instance %d write failed delivering trace %s: %v", record.Instance.ID(), event.TraceID, err)
		return
	}
	receiver.Receive(event.SenderID, ptr, len(event.Message))
}
