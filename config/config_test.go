package config_test

import (
	"testing"

	"go.viam.com/test"

	"github.com/csayres/kaijugo/config"
	"github.com/csayres/kaijugo/logging"
)

func TestReadGridConfig(t *testing.T) {
	logger := logging.NewTestLogger(t)
	cfg, err := config.Read("testdata/grid.json", logger)
	test.That(t, err, test.ShouldBeNil)

	test.That(t, cfg.Robots, test.ShouldHaveLength, 2)
	test.That(t, cfg.Fiducials, test.ShouldHaveLength, 1)
	test.That(t, cfg.Targets, test.ShouldHaveLength, 2)
	test.That(t, cfg.Planner.AngStep, test.ShouldEqual, 1.0)
	test.That(t, cfg.Planner.Seed, test.ShouldEqual, int64(42))

	var foundApogeeRobot bool
	for _, r := range cfg.Robots {
		if r.ID == 1 {
			foundApogeeRobot = r.HasApogee
		}
	}
	test.That(t, foundApogeeRobot, test.ShouldBeTrue)
}

func TestReadGridConfigMissingFile(t *testing.T) {
	logger := logging.NewTestLogger(t)
	_, err := config.Read("testdata/does-not-exist.json", logger)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestReadGridConfigUnknownFiber(t *testing.T) {
	logger := logging.NewTestLogger(t)
	_, err := config.Read("testdata/bad_fiber.json", logger)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestBuildGrid(t *testing.T) {
	logger := logging.NewTestLogger(t)
	cfg, err := config.Read("testdata/grid.json", logger)
	test.That(t, err, test.ShouldBeNil)

	g, err := cfg.BuildGrid()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, g.Initialized(), test.ShouldBeTrue)
	test.That(t, g.RobotIDs(), test.ShouldHaveLength, 2)
}
