package services

import (
	"strconv"
	"time"
)

// Clock supplies the current time
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock
type SystemClock struct{}

// Now returns time.Now
func (SystemClock) Now() time.Time {
	return time.Now()
}

// FixedClock always returns the same instant
type FixedClock struct {
	At time.Time
}

// Now returns the fixed instant
func (c FixedClock) Now() time.Time {
	return c.At
}

// OrderNumberGenerator turns a sequence value into a customer-facing order number
type OrderNumberGenerator interface {
	Generate(sequence uint) string
}

// DateSequenceGenerator builds order numbers as YYYYMMDD followed by the
// sequence value. Numbers are unique as long as sequences are unique.
type DateSequenceGenerator struct {
	clock Clock
}

// NewOrderNumberGenerator creates a date-prefixed generator. A nil clock uses the system clock.
func NewOrderNumberGenerator(clock Clock) *DateSequenceGenerator {
	if clock == nil {
		clock = SystemClock{}
	}
	return &DateSequenceGenerator{clock: clock}
}

// Generate returns the date prefix followed by the sequence
func (g *DateSequenceGenerator) Generate(sequence uint) string {
	return g.clock.Now().Format("20060102") + strconv.FormatUint(uint64(sequence), 10)
}
