package bloom

import (
	"math"

	"github.com/haukened/rr-names/internal/names/repos/blacklist"
)

const (
	defaultFPRate = 0.01
	minBits       = 64
	maxHashes     = 32
)

// sizer implements blacklist.BloomSizer with the usual formulas:
//
//	m = -(n * ln p) / (ln 2)^2
//	k = (m / n) * ln 2
//
// m is at least minBits and k is clamped to [1, maxHashes].
type sizer struct{}

// NewSizer returns a BloomSizer implementation.
func NewSizer() blacklist.BloomSizer { return sizer{} }

func (sizer) Size(n uint64, p float64) (uint64, uint8) {
	if n == 0 {
		n = 1
	}
	if !(p > 0 && p < 1) {
		p = defaultFPRate
	}
	m := uint64(math.Ceil(-float64(n) * math.Log(p) / (math.Ln2 * math.Ln2)))
	if m < minBits {
		m = minBits
	}
	k := math.Round(float64(m) / float64(n) * math.Ln2)
	k = math.Min(math.Max(k, 1), maxHashes)
	return m, uint8(k)
}
