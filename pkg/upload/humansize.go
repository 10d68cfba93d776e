package upload

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// sizeUnits are base-1024 steps, indexed by power.
const sizeUnits = "BKMGTP"

var humanSizePattern = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*([BKMGTP])?B?$`)

// FormatSize renders bytes as a human-scaled string such as "1.50K".
// With unit "" or "B" the unit is picked as floor(log1024(bytes)); any other
// known unit letter forces that unit.
func FormatSize(bytes int64, unit string, decimals int) string {
	if decimals < 0 {
		decimals = 0
	}

	factor := unitIndex(unit)
	if factor <= 0 {
		factor = 0
		for v := bytes; v >= 1024 && factor < len(sizeUnits)-1; v /= 1024 {
			factor++
		}
	}

	value := float64(bytes) / math.Pow(1024, float64(factor))
	return strconv.FormatFloat(value, 'f', decimals, 64) + string(sizeUnits[factor])
}

// ParseHumanSize converts strings like "500B", "2M" or "1.5GB" to bytes.
// A bare number is taken as bytes.
func ParseHumanSize(s string) (int64, error) {
	m := humanSizePattern.FindStringSubmatch(strings.ToUpper(strings.TrimSpace(s)))
	if m == nil {
		return 0, fmt.Errorf("%w: invalid size %q", ErrInvalidArgument, s)
	}

	factor := max(unitIndex(m[2]), 0)
	if !strings.Contains(m[1], ".") {
		n, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil || n > math.MaxInt64>>(10*factor) {
			return 0, fmt.Errorf("%w: size %q overflows", ErrInvalidArgument, s)
		}
		return n << (10 * factor), nil
	}

	value, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid size %q: %v", ErrInvalidArgument, s, err)
	}

	// float64(math.MaxInt64) rounds up to 2^63, which int64 cannot hold.
	bytes := value * math.Pow(1024, float64(factor))
	if bytes >= math.MaxInt64 {
		return 0, fmt.Errorf("%w: size %q overflows", ErrInvalidArgument, s)
	}
	return int64(bytes), nil
}

// RandomName returns a collision-resistant file name suitable for SetName.
func RandomName() string {
	return uuid.NewString()
}

func unitIndex(unit string) int {
	if unit == "" {
		return -1
	}
	return strings.IndexByte(sizeUnits, strings.ToUpper(unit)[0])
}
