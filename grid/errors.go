package grid

import "errors"

// Config violation errors (spec.md section 7 "Config violation" — fatal at
// the call site).
var (
	ErrAlreadyInitialized  = errors.New("grid: already initialized, no further robots/fiducials may be added")
	ErrNotInitialized      = errors.New("grid: InitGrid has not been called")
	ErrDuplicateRobotID    = errors.New("grid: robot id already exists")
	ErrDuplicateFiducialID = errors.New("grid: fiducial id already exists")
	ErrDuplicateTargetID   = errors.New("grid: target id already exists")
	ErrRobotNotFound       = errors.New("grid: robot id not found")
	ErrTargetNotFound      = errors.New("grid: target id not found")
)

// ErrInvalidAssignment is returned by AssignRobotToTarget when the pair
// fails IsValidAssignment (spec.md section 7 "Invalid assignment").
var ErrInvalidAssignment = errors.New("grid: invalid robot/target assignment")

// ErrDecollideFailed is returned by DecollideGrid when the outer retry cap
// is hit with residual collisions (spec.md section 7 "Decollide failure").
var ErrDecollideFailed = errors.New("grid: decollide_grid exhausted its retry budget with residual collisions")

// ErrPlanFailed is returned by the path_gen* entry points when the hard
// step cap (MaxPathSteps) is hit without global convergence (spec.md
// section 7 "Plan failure"). It is not otherwise fatal: callers are
// expected to inspect DeadlockedRobots().
var ErrPlanFailed = errors.New("grid: plan did not converge within MaxPathSteps")

// Post-processing pipeline ordering errors: SimplifyPaths requires a prior
// successful path_gen* call, SmoothPaths requires a prior SimplifyPaths
// call, and VerifySmoothed requires a prior SmoothPaths call.
var (
	ErrNoPath           = errors.New("grid: no path has been generated yet")
	ErrNoSimplifiedPath = errors.New("grid: SimplifyPaths has not been called")
	ErrNoSmoothedPath   = errors.New("grid: SmoothPaths has not been called")
)

