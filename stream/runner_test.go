package stream

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mark3labs/physkit/physics"
)

// startNATS boots an embedded JetStream-enabled server for one test and
// returns a client connection to it.
func startNATS(t *testing.T) *nats.Conn {
	t.Helper()

	ns, err := server.NewServer(&server.Options{
		Port:      -1,
		JetStream: true,
		StoreDir:  t.TempDir(),
	})
	require.NoError(t, err)

	go ns.Start()
	t.Cleanup(ns.Shutdown)
	require.True(t, ns.ReadyForConnections(5*time.Second))

	nc, err := nats.Connect(ns.ClientURL())
	require.NoError(t, err)
	t.Cleanup(nc.Close)
	return nc
}

func newTestWorld(t *testing.T) *physics.World {
	t.Helper()

	world, err := physics.NewWorld(physics.DefaultConfig())
	require.NoError(t, err)
	return world
}

func TestRunner_SeedAndSnapshotRoundTrip(t *testing.T) {
	nc := startNATS(t)
	world := newTestWorld(t)

	runner, err := NewRunner(context.Background(), nc, world, Options{Bucket: "roundtrip"})
	require.NoError(t, err)

	body := physics.NewBody(physics.Sphere{Radius: 1}, physics.Vec3{Y: 10}, 2)
	require.NoError(t, runner.Seed(physics.Snapshot{body.ID: body}))

	state, err := runner.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), state.Tick)
	require.Contains(t, state.Bodies, body.ID)

	got := state.Bodies[body.ID]
	assert.Equal(t, body.Position, got.Position)
	assert.Equal(t, body.Mass, got.Mass)
	assert.Equal(t, physics.Sphere{Radius: 1}, got.Shape, "shape survives the wire format")
}

func TestRunner_SeedRejectsInvalidBodies(t *testing.T) {
	nc := startNATS(t)
	runner, err := NewRunner(context.Background(), nc, newTestWorld(t), Options{Bucket: "invalid"})
	require.NoError(t, err)

	bad := physics.NewBody(physics.Sphere{Radius: 1}, physics.Vec3{}, 1)
	bad.Mass = -1
	assert.Error(t, runner.Seed(physics.Snapshot{bad.ID: bad}))
}

func TestRunner_StepOnceAdvancesTheWorld(t *testing.T) {
	nc := startNATS(t)
	world := newTestWorld(t)

	runner, err := NewRunner(context.Background(), nc, world, Options{
		Bucket:   "steponce",
		Interval: 100 * time.Millisecond,
	})
	require.NoError(t, err)

	body := physics.NewBody(physics.Sphere{Radius: 1}, physics.Vec3{Y: 10}, 1)
	require.NoError(t, runner.Seed(physics.Snapshot{body.ID: body}))

	require.NoError(t, runner.StepOnce())

	state, err := runner.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), state.Tick)
	assert.Less(t, state.Bodies[body.ID].Position.Y, 10.0, "gravity pulled the body down")
	assert.Less(t, state.Bodies[body.ID].Velocity.Y, 0.0)
}

func TestRunner_StepOnceWithoutSeedIsANoOp(t *testing.T) {
	nc := startNATS(t)
	runner, err := NewRunner(context.Background(), nc, newTestWorld(t), Options{Bucket: "unseeded"})
	require.NoError(t, err)

	assert.NoError(t, runner.StepOnce(), "missing world key just waits for a seed")
}

func TestRunner_PublishesCollisionEvents(t *testing.T) {
	nc := startNATS(t)

	cfg := physics.DefaultConfig()
	cfg.CollisionMatrix = physics.CollisionMatrix{"balls": {"balls"}}
	world, err := physics.NewWorld(cfg)
	require.NoError(t, err)

	subject := "physics.test.events"
	runner, err := NewRunner(context.Background(), nc, world, Options{
		Bucket:   "events",
		Subject:  subject,
		Interval: 100 * time.Millisecond,
	})
	require.NoError(t, err)

	received := make(chan EventMessage, 4)
	sub, err := nc.Subscribe(subject, func(msg *nats.Msg) {
		var em EventMessage
		if json.Unmarshal(msg.Data, &em) == nil {
			received <- em
		}
	})
	require.NoError(t, err)
	defer sub.Unsubscribe()

	// Two overlapping spheres in a colliding layer
	a := physics.NewBody(physics.Sphere{Radius: 1}, physics.Vec3{}, 1)
	a.ID = "a"
	b := physics.NewBody(physics.Sphere{Radius: 1}, physics.Vec3{X: 1}, 1)
	b.ID = "b"
	world.AddToLayer("a", "balls")
	world.AddToLayer("b", "balls")

	require.NoError(t, runner.Seed(physics.Snapshot{"a": a, "b": b}))
	require.NoError(t, runner.StepOnce())

	select {
	case em := <-received:
		assert.Equal(t, uint64(1), em.Tick)
		assert.Equal(t, "a", em.Event.A)
		assert.Equal(t, "b", em.Event.B)
	case <-time.After(2 * time.Second):
		t.Fatal("no collision event published")
	}
}

func TestRunner_StartStopLifecycle(t *testing.T) {
	nc := startNATS(t)
	world := newTestWorld(t)

	runner, err := NewRunner(context.Background(), nc, world, Options{
		Bucket:   "lifecycle",
		Interval: 10 * time.Millisecond,
	})
	require.NoError(t, err)

	body := physics.NewBody(physics.Sphere{Radius: 1}, physics.Vec3{Y: 100}, 1)
	require.NoError(t, runner.Seed(physics.Snapshot{body.ID: body}))

	assert.False(t, runner.IsRunning())
	runner.Start()
	assert.True(t, runner.IsRunning())
	runner.Start() // double start is a no-op

	assert.Eventually(t, func() bool {
		state, err := runner.Snapshot()
		return err == nil && state.Tick > 0
	}, 2*time.Second, 10*time.Millisecond)

	runner.Stop()
	assert.False(t, runner.IsRunning())
}

func TestOptions_Defaults(t *testing.T) {
	opts := Options{}.withDefaults()
	assert.Equal(t, DefaultBucket, opts.Bucket)
	assert.Equal(t, DefaultKey, opts.Key)
	assert.Equal(t, DefaultSubject, opts.Subject)
	assert.Equal(t, DefaultInterval, opts.Interval)

	custom := Options{Bucket: "b", Key: "k", Subject: "s", Interval: time.Second}.withDefaults()
	assert.Equal(t, "b", custom.Bucket)
	assert.Equal(t, time.Second, custom.Interval)
}
