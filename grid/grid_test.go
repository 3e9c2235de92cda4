package grid_test

import (
	"testing"

	"go.viam.com/test"

	"github.com/csayres/kaijugo/grid"
	"github.com/csayres/kaijugo/logging"
)

func newTestGrid(t *testing.T) *grid.RobotGrid {
	t.Helper()
	return grid.NewRobotGrid(1, 1.5, 0.05, 7, grid.WithLogger(logging.NewTestLogger(t)))
}

// twoRobotGrid builds a minimal pair of robots one pitch apart, a spacing
// close enough that they are each other's robot neighbors but not
// necessarily in collision at rest.
func twoRobotGrid(t *testing.T) *grid.RobotGrid {
	t.Helper()
	g := newTestGrid(t)
	test.That(t, g.AddRobot(1, 0, 0, true), test.ShouldBeNil)
	test.That(t, g.AddRobot(2, grid.Pitch, 0, false), test.ShouldBeNil)
	test.That(t, g.InitGrid(), test.ShouldBeNil)
	return g
}

func TestAddRobotAfterInitFails(t *testing.T) {
	g := twoRobotGrid(t)
	err := g.AddRobot(3, 100, 100, false)
	test.That(t, err, test.ShouldEqual, grid.ErrAlreadyInitialized)
}

func TestDuplicateRobotIDFails(t *testing.T) {
	g := newTestGrid(t)
	test.That(t, g.AddRobot(1, 0, 0, false), test.ShouldBeNil)
	err := g.AddRobot(1, 10, 10, false)
	test.That(t, err, test.ShouldEqual, grid.ErrDuplicateRobotID)
}

func TestInitGridBuildsNeighborGraph(t *testing.T) {
	g := twoRobotGrid(t)
	r1, ok := g.Robot(1)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, r1.RobotNeighbors(), test.ShouldResemble, []int{2})
}

func TestInitGridIsIdempotent(t *testing.T) {
	g := twoRobotGrid(t)
	test.That(t, g.InitGrid(), test.ShouldBeNil)
	test.That(t, g.Initialized(), test.ShouldBeTrue)
}

func TestOperationsRequireInitGrid(t *testing.T) {
	g := newTestGrid(t)
	test.That(t, g.AddRobot(1, 0, 0, false), test.ShouldBeNil)

	err := g.AddTarget(1, 5, 5, grid.Boss, 1)
	test.That(t, err, test.ShouldEqual, grid.ErrNotInitialized)

	err = g.DecollideGrid()
	test.That(t, err, test.ShouldEqual, grid.ErrNotInitialized)

	err = g.PathGen()
	test.That(t, err, test.ShouldEqual, grid.ErrNotInitialized)
}

func TestFoldPlannerConverges(t *testing.T) {
	g := twoRobotGrid(t)

	err := g.PathGen()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, g.DidFail(), test.ShouldBeFalse)

	for _, id := range g.RobotIDs() {
		test.That(t, g.IsCollided(id), test.ShouldBeFalse)
	}
}

func TestGreedyPlannerReachesAssignedTargets(t *testing.T) {
	g := twoRobotGrid(t)

	test.That(t, g.AddTarget(1, 10, 10, grid.Boss, 1), test.ShouldBeNil)
	test.That(t, g.AddTarget(2, grid.Pitch+10, 10, grid.Boss, 1), test.ShouldBeNil)
	test.That(t, g.AssignRobotToTarget(1, 1), test.ShouldBeNil)
	test.That(t, g.AssignRobotToTarget(2, 2), test.ShouldBeNil)

	r1, _ := g.Robot(1)
	r2, _ := g.Robot(2)
	// Reset to a pose away from target so the planner has work to do.
	r1.SetAlphaBeta(0, 0)
	r2.SetAlphaBeta(0, 0)

	err := g.PathGenGreedy()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, r1.AtTarget(), test.ShouldBeTrue)
	test.That(t, r2.AtTarget(), test.ShouldBeTrue)
}

func TestMDPPlannerTerminates(t *testing.T) {
	g := twoRobotGrid(t)

	test.That(t, g.AddTarget(1, 10, 10, grid.Boss, 1), test.ShouldBeNil)
	test.That(t, g.AddTarget(2, grid.Pitch+10, 10, grid.Boss, 1), test.ShouldBeNil)
	test.That(t, g.AssignRobotToTarget(1, 1), test.ShouldBeNil)
	test.That(t, g.AssignRobotToTarget(2, 2), test.ShouldBeNil)

	r1, _ := g.Robot(1)
	r2, _ := g.Robot(2)
	r1.SetAlphaBeta(0, 0)
	r2.SetAlphaBeta(0, 0)

	err := g.PathGenMDP(0.5, 0.5)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, r1.AtTarget(), test.ShouldBeTrue)
	test.That(t, r2.AtTarget(), test.ShouldBeTrue)
}

func TestPathGenIsDeterministicForFixedSeed(t *testing.T) {
	build := func() *grid.RobotGrid {
		g := grid.NewRobotGrid(1, 1.5, 0.05, 99, grid.WithLogger(logging.NewTestLogger(t)))
		test.That(t, g.AddRobot(1, 0, 0, true), test.ShouldBeNil)
		test.That(t, g.AddRobot(2, grid.Pitch, 0, false), test.ShouldBeNil)
		test.That(t, g.InitGrid(), test.ShouldBeNil)
		return g
	}

	g1 := build()
	test.That(t, g1.PathGen(), test.ShouldBeNil)
	n1 := g1.NSteps()

	g2 := build()
	test.That(t, g2.PathGen(), test.ShouldBeNil)
	n2 := g2.NSteps()

	test.That(t, n1, test.ShouldEqual, n2)
}

func TestDecollideGridClearsCollisions(t *testing.T) {
	g := newTestGrid(t)
	// Two robots mounted one unit apart start in collision when both are
	// posed at (alpha=0, beta=0).
	test.That(t, g.AddRobot(1, 0, 0, false), test.ShouldBeNil)
	test.That(t, g.AddRobot(2, 1, 0, false), test.ShouldBeNil)
	test.That(t, g.InitGrid(), test.ShouldBeNil)

	r1, _ := g.Robot(1)
	r2, _ := g.Robot(2)
	r1.SetAlphaBeta(0, 0)
	r2.SetAlphaBeta(0, 0)

	err := g.DecollideGrid()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, g.IsCollided(1), test.ShouldBeFalse)
	test.That(t, g.IsCollided(2), test.ShouldBeFalse)
}

func TestSimplifySmoothVerifyPipeline(t *testing.T) {
	g := twoRobotGrid(t)
	test.That(t, g.PathGen(), test.ShouldBeNil)

	test.That(t, g.SimplifyPaths(), test.ShouldBeNil)
	test.That(t, g.SmoothPaths(5), test.ShouldBeNil)
	test.That(t, g.VerifySmoothed(), test.ShouldBeNil)
	test.That(t, g.SmoothCollisions(), test.ShouldEqual, 0)
}

func TestPipelineOrderingErrors(t *testing.T) {
	g := twoRobotGrid(t)

	err := g.SimplifyPaths()
	test.That(t, err, test.ShouldEqual, grid.ErrNoPath)

	test.That(t, g.PathGen(), test.ShouldBeNil)
	err = g.SmoothPaths(5)
	test.That(t, err, test.ShouldEqual, grid.ErrNoSimplifiedPath)
}

func TestUnreachableTargetIsReported(t *testing.T) {
	g := twoRobotGrid(t)
	// Far outside every robot's reachable annulus.
	test.That(t, g.AddTarget(1, 1000, 1000, grid.Boss, 1), test.ShouldBeNil)
	test.That(t, g.UnreachableTargets(), test.ShouldResemble, []int{1})
}

func TestApogeeOnlyAssignableToApogeeRobot(t *testing.T) {
	g := twoRobotGrid(t)
	test.That(t, g.AddTarget(1, 10, 10, grid.Apogee, 1), test.ShouldBeNil)
	test.That(t, g.IsValidAssignment(1, 1), test.ShouldBeTrue)
	test.That(t, g.IsValidAssignment(2, 1), test.ShouldBeFalse)
}

func TestPlanStatisticsReportsRobotCount(t *testing.T) {
	g := twoRobotGrid(t)
	test.That(t, g.PathGen(), test.ShouldBeNil)
	stats := g.PlanStatistics()
	test.That(t, stats.NRobots, test.ShouldEqual, 2)
	test.That(t, stats.MeanSteps, test.ShouldBeGreaterThanOrEqualTo, 0.0)
}
