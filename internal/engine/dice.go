package engine

import (
	"math/rand"
	"sync"
)

// Dice is the engine's only source of randomness.
type Dice interface {
	Roll() int        // uniform 1..6
	Float64() float64 // uniform [0, 1)
	Intn(n int) int   // uniform [0, n)
}

// RandDice wraps a seeded generator. It is safe for concurrent use.
type RandDice struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewRandDice creates dice from a seed.
func NewRandDice(seed int64) *RandDice {
	return &RandDice{r: rand.New(rand.NewSource(seed))}
}

func (d *RandDice) Roll() int {
	return d.Intn(6) + 1
}

func (d *RandDice) Float64() float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.r.Float64()
}

func (d *RandDice) Intn(n int) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.r.Intn(n)
}
