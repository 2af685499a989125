package transcript

import (
	"fmt"
	"math"
)

// FormatClock renders seconds as m:ss.
func FormatClock(seconds float64) string {
	s := wholeSeconds(seconds)
	return fmt.Sprintf("%d:%02d", s/60, s%60)
}

// FormatHMS renders seconds as mm:ss, or hh:mm:ss from one hour up.
func FormatHMS(seconds float64) string {
	s := wholeSeconds(seconds)
	h, m, sec := s/3600, (s%3600)/60, s%60
	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, sec)
	}
	return fmt.Sprintf("%02d:%02d", m, sec)
}

func wholeSeconds(seconds float64) int {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds < 0 {
		return 0
	}
	return int(math.Floor(seconds))
}
