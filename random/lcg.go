// Package random provides the small deterministic generator used for asset
// and color picks. It is not suitable for anything security related.
package random

import (
	"math"
	"time"
)

const (
	lcgMultiplier = 0x5DEECE66D
	lcgIncrement  = 0xB
	lcgMask       = 1<<48 - 1

	DefaultSeed = 1234
)

// Lcg is a 48-bit linear congruential generator. The zero value is not
// seeded; use NewLcg.
type Lcg struct {
	seed uint64
}

func NewLcg(seed uint64) *Lcg {
	r := &Lcg{}
	r.SetSeed(seed)
	return r
}

// NewTimeSeeded returns a generator seeded from the wall clock, for picks that
// should differ between runs.
func NewTimeSeeded() *Lcg {
	return NewLcg(uint64(time.Now().UnixNano()))
}

func (r *Lcg) SetSeed(seed uint64) {
	r.seed = (seed ^ lcgMultiplier) & lcgMask
}

func (r *Lcg) Uint32() uint32 {
	r.seed = (r.seed*lcgMultiplier + lcgIncrement) & lcgMask
	return uint32(r.seed >> 16)
}

// Float32 returns a value in [0, 1) built from 23 random mantissa bits.
func (r *Lcg) Float32() float32 {
	bits := r.Uint32()&0x007fffff | 0x3f800000
	return math.Float32frombits(bits) - 1
}

// Intn returns a value in [0, n). n must be positive.
func (r *Lcg) Intn(n int) int {
	return int(r.Uint32() % uint32(n))
}

// Pick returns a uniformly chosen element of list, or fallback when the list
// is empty.
func Pick[T any](r *Lcg, list []T, fallback T) T {
	if len(list) == 0 {
		return fallback
	}
	return list[r.Intn(len(list))]
}
