package csma

import "math/rand"

// PlatformRand wraps math/rand as the default RandSource, standing in
// for the platform's hardware PRNG.
type PlatformRand struct {
	r *rand.Rand
}

// NewPlatformRand returns a PlatformRand seeded from the given value.
// Kernel wiring should pass a seed derived from an entropy source at
// startup; tests pass a fixed seed for reproducibility.
func NewPlatformRand(seed int64) *PlatformRand {
	return &PlatformRand{r: rand.New(rand.NewSource(seed))}
}

func (p *PlatformRand) Uint16() uint16 { return uint16(p.r.Intn(1 << 16)) }
func (p *PlatformRand) Uint8() uint8   { return uint8(p.r.Intn(1 << 8)) }
