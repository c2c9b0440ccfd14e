// Command physsim runs the physics core against an embedded NATS server:
// it seeds a world of falling spheres over a box floor into a JetStream
// KV bucket, drives the stream runner for a while, and reports tick and
// collision statistics. Useful as a smoke test and a rough benchmark.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"

	"github.com/mark3labs/physkit/physics"
	"github.com/mark3labs/physkit/stream"
)

func main() {
	var (
		bodyCount  = flag.Int("bodies", 50, "number of falling spheres to seed")
		duration   = flag.Duration("duration", 5*time.Second, "how long to run the simulation")
		interval   = flag.Duration("interval", 50*time.Millisecond, "tick interval")
		configPath = flag.String("config", "", "optional YAML physics config")
	)
	flag.Parse()

	if err := run(*bodyCount, *duration, *interval, *configPath); err != nil {
		log.Error("physsim failed", "error", err)
		os.Exit(1)
	}
}

func run(bodyCount int, duration, interval time.Duration, configPath string) error {
	cfg := physics.DefaultConfig()
	if configPath != "" {
		loaded, err := physics.LoadConfig(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	cfg.CollisionMatrix = physics.CollisionMatrix{
		"dynamic": {"dynamic", "static"},
	}

	world, err := physics.NewWorld(cfg)
	if err != nil {
		return err
	}

	// Embedded NATS server with JetStream for the KV bucket
	storeDir, err := os.MkdirTemp("", "physsim-js-*")
	if err != nil {
		return err
	}
	defer os.RemoveAll(storeDir)

	ns, err := server.NewServer(&server.Options{
		Port:      -1,
		JetStream: true,
		StoreDir:  storeDir,
	})
	if err != nil {
		return fmt.Errorf("nats server: %w", err)
	}
	go ns.Start()
	defer ns.Shutdown()
	if !ns.ReadyForConnections(5 * time.Second) {
		return fmt.Errorf("nats server did not become ready")
	}

	nc, err := nats.Connect(ns.ClientURL())
	if err != nil {
		return fmt.Errorf("nats connect: %w", err)
	}
	defer nc.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runner, err := stream.NewRunner(ctx, nc, world, stream.Options{Interval: interval})
	if err != nil {
		return err
	}

	bodies := seedWorld(world, bodyCount)
	if err := runner.Seed(bodies); err != nil {
		return err
	}
	log.Info("world seeded", "bodies", len(bodies), "interval", interval)

	// Count collision events as they come off the wire
	var collisions atomic.Int64
	sub, err := nc.Subscribe(stream.DefaultSubject, func(msg *nats.Msg) {
		collisions.Add(1)
	})
	if err != nil {
		return err
	}
	defer sub.Unsubscribe()

	runner.Start()
	time.Sleep(duration)
	runner.Stop()

	state, err := runner.Snapshot()
	if err != nil {
		return err
	}
	log.Info("simulation finished",
		"ticks", state.Tick,
		"bodies", len(state.Bodies),
		"collisionEvents", collisions.Load())

	// Hit-scan check straight down through the pile
	if hit, ok := world.RayCast(physics.Vec3{Y: 50}, physics.Vec3{Y: -1}, 200, state.Bodies); ok {
		log.Info("raycast down from above",
			"hit", hit.Target.ID,
			"distance", fmt.Sprintf("%.2f", hit.Distance))
	}
	return nil
}

// seedWorld registers a box floor and a cloud of spheres above it,
// wiring every body into the collision layers.
func seedWorld(world *physics.World, bodyCount int) physics.Snapshot {
	rng := rand.New(rand.NewSource(42))
	bodies := make(physics.Snapshot, bodyCount+1)

	floor := physics.NewBody(physics.Box{Half: physics.Vec3{X: 50, Y: 1, Z: 50}}, physics.Vec3{Y: -1}, 1000)
	floor.ID = "floor"
	floor.HasPhysics = false
	bodies[floor.ID] = floor
	world.AddToLayer(floor.ID, "static")

	for i := 0; i < bodyCount; i++ {
		sphere := physics.NewBody(
			physics.Sphere{Radius: 0.5 + rng.Float64()*0.5},
			physics.Vec3{
				X: rng.Float64()*40 - 20,
				Y: 5 + rng.Float64()*20,
				Z: rng.Float64()*40 - 20,
			},
			1+rng.Float64()*4,
		)
		sphere.ID = fmt.Sprintf("sphere-%03d", i)
		bodies[sphere.ID] = sphere
		world.AddToLayer(sphere.ID, "dynamic")
	}
	return bodies
}
