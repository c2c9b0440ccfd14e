// Package stream bridges the physics core to a NATS JetStream key-value
// bucket: a Runner reads the world snapshot from the bucket at a fixed
// rate, advances it one tick, writes it back, and publishes collision
// events on a subject. Gameplay services edit the bucket to add or move
// bodies and subscribe to the subject for contact events.
package stream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/mark3labs/physkit/physics"
)

// Defaults for runner options left zero
const (
	DefaultBucket   = "physics"
	DefaultKey      = "world"
	DefaultSubject  = "physics.events"
	DefaultInterval = 100 * time.Millisecond
)

// WorldState is the wire form of a simulated world stored in the bucket
type WorldState struct {
	Tick   uint64           `json:"tick"`
	Bodies physics.Snapshot `json:"bodies"`
}

// EventMessage is one collision event as published on the subject
type EventMessage struct {
	Tick  uint64                 `json:"tick"`
	Event physics.CollisionEvent `json:"event"`
}

// Options configures a Runner. Zero fields take the package defaults.
type Options struct {
	Bucket   string
	Key      string
	Subject  string
	Interval time.Duration
}

func (o Options) withDefaults() Options {
	if o.Bucket == "" {
		o.Bucket = DefaultBucket
	}
	if o.Key == "" {
		o.Key = DefaultKey
	}
	if o.Subject == "" {
		o.Subject = DefaultSubject
	}
	if o.Interval <= 0 {
		o.Interval = DefaultInterval
	}
	return o
}

// Runner drives a physics world from snapshots in a JetStream KV bucket
type Runner struct {
	world   *physics.World
	nc      *nats.Conn
	kv      jetstream.KeyValue
	opts    Options
	mutex   sync.RWMutex
	running bool
	ctx     context.Context
	cancel  context.CancelFunc
}

// NewRunner creates a runner bound to a world and a NATS connection,
// creating the KV bucket if it does not exist
func NewRunner(ctx context.Context, nc *nats.Conn, world *physics.World, opts Options) (*Runner, error) {
	opts = opts.withDefaults()

	js, err := jetstream.New(nc)
	if err != nil {
		return nil, fmt.Errorf("jetstream: %w", err)
	}
	kv, err := js.CreateOrUpdateKeyValue(ctx, jetstream.KeyValueConfig{Bucket: opts.Bucket})
	if err != nil {
		return nil, fmt.Errorf("create bucket %s: %w", opts.Bucket, err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	return &Runner{
		world:  world,
		nc:     nc,
		kv:     kv,
		opts:   opts,
		ctx:    runCtx,
		cancel: cancel,
	}, nil
}

// Seed writes an initial world state to the bucket
func (r *Runner) Seed(bodies physics.Snapshot) error {
	if err := bodies.Validate(); err != nil {
		return err
	}
	return r.put(WorldState{Bodies: bodies})
}

// Snapshot reads the current world state from the bucket
func (r *Runner) Snapshot() (WorldState, error) {
	entry, err := r.kv.Get(r.ctx, r.opts.Key)
	if err != nil {
		return WorldState{}, fmt.Errorf("get %s: %w", r.opts.Key, err)
	}
	var state WorldState
	if err := json.Unmarshal(entry.Value(), &state); err != nil {
		return WorldState{}, fmt.Errorf("decode world state: %w", err)
	}
	return state, nil
}

// Start begins the tick loop in the background. Starting a running
// runner is a no-op.
func (r *Runner) Start() {
	r.mutex.Lock()
	if r.running {
		r.mutex.Unlock()
		return
	}
	r.running = true
	r.mutex.Unlock()

	log.Info("physics runner started",
		"bucket", r.opts.Bucket,
		"subject", r.opts.Subject,
		"interval", r.opts.Interval)

	go r.run()
}

// Stop halts the tick loop
func (r *Runner) Stop() {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if !r.running {
		return
	}
	r.running = false
	r.cancel()
	log.Info("physics runner stopped")
}

// IsRunning reports whether the tick loop is active
func (r *Runner) IsRunning() bool {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	return r.running
}

func (r *Runner) run() {
	ticker := time.NewTicker(r.opts.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.ctx.Done():
			return
		case <-ticker.C:
			if err := r.StepOnce(); err != nil {
				log.Error("physics tick failed", "error", err)
			}
		}
	}
}

// StepOnce runs a single read-step-write cycle against the bucket and
// publishes any collision events. A missing world key is not an error;
// the runner simply waits for a seed.
func (r *Runner) StepOnce() error {
	entry, err := r.kv.Get(r.ctx, r.opts.Key)
	if err != nil {
		if errors.Is(err, jetstream.ErrKeyNotFound) {
			return nil
		}
		return fmt.Errorf("get %s: %w", r.opts.Key, err)
	}

	var state WorldState
	if err := json.Unmarshal(entry.Value(), &state); err != nil {
		return fmt.Errorf("decode world state: %w", err)
	}

	dt := r.opts.Interval.Seconds()
	updated, events, err := r.world.Step(state.Bodies, dt)
	if err != nil {
		return fmt.Errorf("step: %w", err)
	}

	state.Bodies = updated
	state.Tick++
	if err := r.put(state); err != nil {
		return err
	}

	for _, event := range events {
		if err := r.publish(state.Tick, event); err != nil {
			log.Error("publish collision event failed",
				"a", event.A, "b", event.B, "error", err)
		}
	}
	if len(events) > 0 {
		log.Debug("tick complete", "tick", state.Tick, "bodies", len(updated), "collisions", len(events))
	}
	return nil
}

func (r *Runner) put(state WorldState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode world state: %w", err)
	}
	if _, err := r.kv.Put(r.ctx, r.opts.Key, data); err != nil {
		return fmt.Errorf("put %s: %w", r.opts.Key, err)
	}
	return nil
}

func (r *Runner) publish(tick uint64, event physics.CollisionEvent) error {
	data, err := json.Marshal(EventMessage{Tick: tick, Event: event})
	if err != nil {
		return err
	}
	return r.nc.Publish(r.opts.Subject, data)
}
