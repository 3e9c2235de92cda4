package grid

// Fiducial is an immobile obstacle (a fixed optical reference) on the focal
// plane. Fiducials never move once added.
type Fiducial struct {
	ID              int
	X, Y            float64
	CollisionBuffer float64
}

func newFiducial(id int, x, y, collisionBuffer float64) *Fiducial {
	return &Fiducial{ID: id, X: x, Y: y, CollisionBuffer: collisionBuffer}
}
