package progress

import (
	"errors"
	"strings"
)

// Range is the display-window keyword requested by the client.
type Range string

const (
	Range1W  Range = "1W"
	Range1M  Range = "1M"
	Range6M  Range = "6M"
	Range1Y  Range = "1Y"
	RangeAll Range = "all"
)

var ErrUnknownRange = errors.New("unknown range")

// Ranges lists the accepted keywords in display order.
var Ranges = []Range{Range1W, Range1M, Range6M, Range1Y, RangeAll}

func ParseRange(s string) (Range, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "1W":
		return Range1W, nil
	case "1M":
		return Range1M, nil
	case "6M":
		return Range6M, nil
	case "1Y":
		return Range1Y, nil
	case "ALL":
		return RangeAll, nil
	}
	return "", ErrUnknownRange
}

// Days returns the fixed day count of the range; RangeAll has none and returns 0.
func (r Range) Days() int {
	switch r {
	case Range1W:
		return 7
	case Range1M:
		return 30
	case Range6M:
		return 180
	case Range1Y:
		return 365
	default:
		return 0
	}
}

func (r Range) Valid() bool {
	for _, v := range Ranges {
		if r == v {
			return true
		}
	}
	return false
}
