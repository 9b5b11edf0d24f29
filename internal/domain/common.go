package domain

import "strings"

// Direction represents the side of a journaled trade.
type Direction string

const (
	DirectionBuy   Direction = "buy"
	DirectionSell  Direction = "sell"
	DirectionShort Direction = "short"
	DirectionCover Direction = "cover"
)

// ParseDirection normalizes s (trim + lowercase) and reports whether it is a known direction.
func ParseDirection(s string) (Direction, bool) {
	d := Direction(strings.ToLower(strings.TrimSpace(s)))
	switch d {
	case DirectionBuy, DirectionSell, DirectionShort, DirectionCover:
		return d, true
	default:
		return d, false
	}
}

// ProfitsOnRise reports whether the trade gains when exit > entry.
// Anything that is not buy or cover is treated as the opposite side.
func (d Direction) ProfitsOnRise() bool {
	return d == DirectionBuy || d == DirectionCover
}

func (d Direction) String() string {
	return string(d)
}
