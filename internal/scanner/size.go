package scanner

import (
	"fmt"
	"math"
)

// humanSize formats a byte count as a human readable magnitude, dividing by
// 1024 per step and keeping one decimal place, e.g. 1536 -> "1.5KB".
func humanSize(num float64) string {
	for _, unit := range []string{"", "K", "M", "G", "T", "P", "E", "Z"} {
		if math.Abs(num) < 1024.0 {
			return fmt.Sprintf("%3.1f%sB", num, unit)
		}
		num /= 1024.0
	}
	return fmt.Sprintf("%.1fYB", num)
}
