package consolidation

import (
	"fmt"
	"math"

	"github.com/andresuchdata/stockdash/internal/domain"
)

// OverstockTolerancePct is how far above capacity a store may sit and still be GREEN.
const OverstockTolerancePct = 15

// NotApplicable renders untracked compliance.
const NotApplicable = "N/A"

// Score computes the compliance of headwear stock h against capacity c.
// The band is decided on integers so 15% over is always GREEN.
func Score(h, c int64) Compliance {
	if c <= 0 {
		return Compliance{Color: domain.SemaphoreGray}
	}

	pct := roundTo(float64(h)/float64(c)*100-100, 2)

	var color domain.Semaphore
	switch {
	case h < c:
		color = domain.SemaphoreRed
	case h*100 <= c*(100+OverstockTolerancePct):
		color = domain.SemaphoreGreen
	default:
		color = domain.SemaphoreYellow
	}

	return Compliance{Tracked: true, Percent: pct, Color: color}
}

// String renders the compliance as "12.34%" or "N/A".
func (c Compliance) String() string {
	if !c.Tracked {
		return NotApplicable
	}
	return fmt.Sprintf("%.2f%%", c.Percent)
}

func roundTo(v float64, decimals int) float64 {
	factor := math.Pow(10, float64(decimals))
	r := math.Round(v*factor) / factor
	if r == 0 {
		// avoid rendering "-0.00%"
		return 0
	}
	return r
}
