package domain

import (
	"fmt"
	"math/rand/v2"
	"time"
)

const idLayout = "20060102150405"

// IDGenerator produces order ids of the form C + yyyyMMddHHmmss + two random digits.
// Collisions are rare and surface as ErrDuplicateOrderID from storage.
type IDGenerator struct {
	loc    *time.Location
	suffix func() int
}

// NewIDGenerator creates an IDGenerator rendering timestamps in loc. A nil loc means UTC.
func NewIDGenerator(loc *time.Location) *IDGenerator {
	if loc == nil {
		loc = time.UTC
	}
	return &IDGenerator{
		loc:    loc,
		suffix: func() int { return rand.IntN(100) },
	}
}

// Next returns the id for an order created at now.
func (g *IDGenerator) Next(now time.Time) string {
	return fmt.Sprintf("C%s%02d", now.In(g.loc).Format(idLayout), g.suffix())
}
