package service

import "math"

// Page selects a window of a list. Number is 1-based.
type Page struct {
	Size   int
	Number int
}

// Offset returns the number of rows to skip, saturating at math.MaxInt.
func (p Page) Offset() int {
	if p.Number < 1 || p.Size < 1 {
		return 0
	}
	if p.Number-1 > math.MaxInt/p.Size {
		return math.MaxInt
	}
	return (p.Number - 1) * p.Size
}
