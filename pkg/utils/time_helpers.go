package utils

import (
	"fmt"
	"math"
	"time"

	"github.com/aarondl/null/v8"
)

// DurationPlaceholder is shown when either side of a fichaje is missing.
const DurationPlaceholder = "--"

const TimestampLayout = time.RFC3339

var localLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// ParseTimestamp accepts RFC3339 and zone-less "YYYY-MM-DDTHH:MM[:SS]" values,
// the latter read in the server's local zone.
func ParseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("fecha y hora no válida: %q", s)
}

// DurationMinutes returns the whole minutes between entrada and salida,
// rounding half up on the millisecond difference.
func DurationMinutes(entrada, salida time.Time) int64 {
	ms := salida.Sub(entrada).Milliseconds()
	return int64(math.Floor(float64(ms)/60000 + 0.5))
}

func FormatDuration(totalMinutes int64) string {
	hours := floorDiv(totalMinutes, 60)
	minutes := totalMinutes - hours*60
	return fmt.Sprintf("%dh %dmin", hours, minutes)
}

// CalcularDuracion renders salida - entrada as "Xh Ymin", or the placeholder
// when either timestamp is null.
func CalcularDuracion(entrada, salida null.Time) string {
	if !entrada.Valid || !salida.Valid {
		return DurationPlaceholder
	}
	return FormatDuration(DurationMinutes(entrada.Time, salida.Time))
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
