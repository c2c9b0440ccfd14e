package physics

import (
	"golang.org/x/sync/errgroup"
)

// MotionSystem is the per-tick motion driver. It applies the integrator
// to every physics-enabled body and runs the omni-movement controller
// for controller-driven bodies. It does not run collision detection;
// integration and collision resolution are composed by the World (or a
// caller) within one tick.
type MotionSystem struct {
	Motion   *Motion
	Movement *OmniMovement
}

// NewMotionSystem creates a motion system with default tuning
func NewMotionSystem() *MotionSystem {
	motion := NewMotion()
	return &MotionSystem{
		Motion:   motion,
		Movement: NewOmniMovement(motion),
	}
}

// processBody advances one body one tick. Bodies without physics pass
// through untouched.
func (ms *MotionSystem) processBody(body Body, dt float64) Body {
	if !body.HasPhysics {
		return body
	}

	body = ms.Motion.ProcessBody(body, dt)

	if body.HasController {
		body = ms.Movement.ApplyInput(body, body.Input, dt, body.IsSprinting, body.IsCrouching)
	}
	return body
}

// Step advances every body in the snapshot by dt and returns the updated
// snapshot. The input snapshot is not mutated.
func (ms *MotionSystem) Step(bodies Snapshot, dt float64) Snapshot {
	updated := make(Snapshot, len(bodies))
	for id, body := range bodies {
		updated[id] = ms.processBody(body, dt)
	}
	return updated
}

// StepParallel is Step fanned out across workers. Per-body integration
// is embarrassingly parallel; only the collision pass needs to stay
// serial, and that pass does not live here. Workers below 2 fall back to
// the serial path.
func (ms *MotionSystem) StepParallel(bodies Snapshot, dt float64, workers int) Snapshot {
	if workers < 2 || len(bodies) < workers {
		return ms.Step(bodies, dt)
	}

	ids := bodies.SortedIDs()
	results := make([]Body, len(ids))

	var g errgroup.Group
	chunk := (len(ids) + workers - 1) / workers
	for start := 0; start < len(ids); start += chunk {
		end := start + chunk
		if end > len(ids) {
			end = len(ids)
		}
		start := start
		g.Go(func() error {
			for i := start; i < end; i++ {
				results[i] = ms.processBody(bodies[ids[i]], dt)
			}
			return nil
		})
	}
	// Workers never return errors; Wait is just the join point
	_ = g.Wait()

	updated := make(Snapshot, len(ids))
	for i, id := range ids {
		updated[id] = results[i]
	}
	return updated
}
