package lighting

import (
	"math"
	"math/rand"
)

// DeriveRNG returns a generator seeded from the beat position, so events at
// the same beat draw the same sequence.
func DeriveRNG(t float64) *rand.Rand {
	return rand.New(rand.NewSource(int64(math.RoundToEven(t * 100)))) //nolint:gosec // seeded for replay
}

// NextOffset draws one laser offset from r: an angle in [0, 180) and a
// rotation direction.
func NextOffset(r *rand.Rand) (angle int, clockwise bool) {
	angle = r.Intn(180)
	clockwise = r.Intn(2) == 1
	return angle, clockwise
}

// RotationOffset is the first offset drawn for beat t.
func RotationOffset(t float64) (angle int, clockwise bool) {
	return NextOffset(DeriveRNG(t))
}
