package grid

// FiberType identifies the kind of fiber a Target requires.
type FiberType int

const (
	// Apogee targets may only be assigned to robots with HasApogee set.
	Apogee FiberType = iota
	Boss
	Metrology
)

func (f FiberType) String() string {
	switch f {
	case Apogee:
		return "Apogee"
	case Boss:
		return "Boss"
	case Metrology:
		return "Metrology"
	default:
		return "Unknown"
	}
}

// Target is an assignable focal-plane position. It is immutable apart from
// its assignment state.
type Target struct {
	ID        int
	X, Y      float64
	Fiber     FiberType
	Priority  float64

	assignedRobotID int // 0 means unassigned; robot ids are caller-supplied and may legitimately be 0, so use hasAssignedRobot
	hasAssignedRobot bool
	validRobotIDs    []int
}

func newTarget(id int, x, y float64, fiber FiberType, priority float64) *Target {
	return &Target{ID: id, X: x, Y: y, Fiber: fiber, Priority: priority}
}

// AssignedRobotID returns the id of the robot currently bound to this
// target, if any.
func (t *Target) AssignedRobotID() (int, bool) {
	return t.assignedRobotID, t.hasAssignedRobot
}

// ValidRobotIDs returns the ids of robots that passed IsValidAssignment
// against this target when it was added, in the order they were checked.
func (t *Target) ValidRobotIDs() []int {
	out := make([]int, len(t.validRobotIDs))
	copy(out, t.validRobotIDs)
	return out
}
