// Package config loads a RobotGrid layout and planning parameters from a
// JSON configuration file, following the teacher's config package in
// spirit (a file-backed, validated settings object consumed once at
// startup) while describing the focal-plane domain instead of a robot's
// component tree.
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/pkg/errors"

	"github.com/csayres/kaijugo/grid"
	"github.com/csayres/kaijugo/logging"
)

// RobotConfig is one fiber positioner's fixed layout, as laid out in the
// focal plane before any planning occurs.
type RobotConfig struct {
	ID        int     `json:"id"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	HasApogee bool    `json:"has_apogee"`
}

// FiducialConfig is one immobile obstacle's fixed layout.
type FiducialConfig struct {
	ID              int     `json:"id"`
	X               float64 `json:"x"`
	Y               float64 `json:"y"`
	CollisionBuffer float64 `json:"collision_buffer"`
}

// TargetConfig is one fiber-assignment target.
type TargetConfig struct {
	ID       int     `json:"id"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Fiber    string  `json:"fiber"` // "apogee", "boss", or "metrology"
	Priority float64 `json:"priority"`
}

// PlannerConfig holds the grid-wide tunables that NewRobotGrid takes as
// constructor arguments, plus a deterministic seed so a config file fully
// pins down a reproducible run.
type PlannerConfig struct {
	AngStep         float64 `json:"ang_step"`
	CollisionBuffer float64 `json:"collision_buffer"`
	Epsilon         float64 `json:"epsilon"`
	Seed            int64   `json:"seed"`
}

// GridConfig is the full on-disk description of a grid: its layout and its
// planner parameters.
type GridConfig struct {
	Planner   PlannerConfig    `json:"planner"`
	Robots    []RobotConfig    `json:"robots"`
	Fiducials []FiducialConfig `json:"fiducials"`
	Targets   []TargetConfig   `json:"targets"`
}

var fiberTypes = map[string]grid.FiberType{
	"apogee":    grid.Apogee,
	"boss":      grid.Boss,
	"metrology": grid.Metrology,
}

// Read parses path as a GridConfig and validates it: every id must be
// unique within its own kind, and every target's fiber type must be one of
// "apogee", "boss", or "metrology".
func Read(path string, logger logging.Logger) (*GridConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "config: reading grid config")
	}

	var cfg GridConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "config: parsing grid config")
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	logger.Debugw("grid config loaded",
		"path", path,
		"n_robots", len(cfg.Robots),
		"n_fiducials", len(cfg.Fiducials),
		"n_targets", len(cfg.Targets),
	)
	return &cfg, nil
}

func (c *GridConfig) validate() error {
	seen := map[int]bool{}
	for _, r := range c.Robots {
		if seen[r.ID] {
			return fmt.Errorf("config: duplicate robot id %d", r.ID)
		}
		seen[r.ID] = true
	}

	seen = map[int]bool{}
	for _, f := range c.Fiducials {
		if seen[f.ID] {
			return fmt.Errorf("config: duplicate fiducial id %d", f.ID)
		}
		seen[f.ID] = true
	}

	seen = map[int]bool{}
	for _, t := range c.Targets {
		if seen[t.ID] {
			return fmt.Errorf("config: duplicate target id %d", t.ID)
		}
		seen[t.ID] = true
		if _, ok := fiberTypes[t.Fiber]; !ok {
			return fmt.Errorf("config: target %d has unknown fiber type %q", t.ID, t.Fiber)
		}
	}
	return nil
}

// BuildGrid constructs and initializes a RobotGrid from this config: every
// robot and fiducial is added, InitGrid is called, and every target is
// added (and so cross-linked against valid robots). Targets are not
// assigned to robots; the caller is expected to follow with its own
// assignment policy (e.g. a greedy nearest-robot pass) before planning.
func (c *GridConfig) BuildGrid(opts ...grid.Option) (*grid.RobotGrid, error) {
	g := grid.NewRobotGrid(c.Planner.AngStep, c.Planner.CollisionBuffer, c.Planner.Epsilon, c.Planner.Seed, opts...)

	for _, r := range c.Robots {
		if err := g.AddRobot(r.ID, r.X, r.Y, r.HasApogee); err != nil {
			return nil, errors.Wrapf(err, "config: adding robot %d", r.ID)
		}
	}
	for _, f := range c.Fiducials {
		if err := g.AddFiducial(f.ID, f.X, f.Y, f.CollisionBuffer); err != nil {
			return nil, errors.Wrapf(err, "config: adding fiducial %d", f.ID)
		}
	}
	if err := g.InitGrid(); err != nil {
		return nil, err
	}
	for _, t := range c.Targets {
		if err := g.AddTarget(t.ID, t.X, t.Y, fiberTypes[t.Fiber], t.Priority); err != nil {
			return nil, errors.Wrapf(err, "config: adding target %d", t.ID)
		}
	}
	return g, nil
}
