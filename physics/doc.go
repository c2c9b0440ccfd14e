// Package physics is a synchronous, deterministic game physics core:
// shape intersection tests, impulse-based collision resolution,
// layer-filtered collision management, uniform and zoned gravity,
// per-body motion integration, and omni-directional character movement.
//
// The package has no internal threading and no blocking I/O. A full
// tick is a pure function of the input snapshot plus a World's
// configuration; all mutation happens on working copies. Callers that
// want to parallelize may fan out the per-body motion phase (see
// MotionSystem.StepParallel) but must keep the collision pass serial
// per world.
package physics
