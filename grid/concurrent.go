package grid

import (
	"context"
	"fmt"

	"go.viam.com/utils"
	"golang.org/x/sync/errgroup"
)

// Policy selects which path_gen* entry point PlanConcurrently runs against
// each grid.
type Policy int

const (
	// PolicyFold runs PathGen.
	PolicyFold Policy = iota
	// PolicyGreedy runs PathGenGreedy.
	PolicyGreedy
	// PolicyMDP runs PathGenMDP with the given greed/phobia parameters.
	PolicyMDP
)

// PlanConcurrently runs the chosen planning policy for every grid in
// parallel, one goroutine per grid via errgroup.Group, matching the
// concurrency model's "independent grids may be planned in parallel
// across threads" contract: a RobotGrid is never touched by more than one
// goroutine here. Returns the first error encountered (errgroup
// semantics); a panic inside any single grid's planning goroutine (started
// with utils.PanicCapturingGo) is recovered there and returned as that
// grid's error rather than crashing the whole batch.
func PlanConcurrently(ctx context.Context, grids []*RobotGrid, policy Policy, greed, phobia float64) error {
	var eg errgroup.Group
	for _, g := range grids {
		g := g
		eg.Go(func() error {
			errCh := make(chan error, 1)
			utils.PanicCapturingGo(func() {
				defer func() {
					if p := recover(); p != nil {
						errCh <- fmt.Errorf("grid %s: planning panicked: %v", g.RunID, p)
					}
				}()
				switch policy {
				case PolicyGreedy:
					errCh <- g.PathGenGreedy()
				case PolicyMDP:
					errCh <- g.PathGenMDP(greed, phobia)
				default:
					errCh <- g.PathGen()
				}
			})
			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
				return ctx.Err()
			}
		})
	}
	return eg.Wait()
}
