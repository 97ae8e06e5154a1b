package wind

import "fmt"

// compassLabels are the 16 cardinal and intercardinal abbreviations,
// clockwise from north, with the French "O" for ouest.
var compassLabels = [16]string{
	"N", "NNE", "NE", "ENE", "E", "ESE", "SE", "SSE",
	"S", "SSO", "SO", "OSO", "O", "ONO", "NO", "NNO",
}

// DegToCompass maps a direction in degrees to one of the 16 compass labels.
// Each label covers a 22.5 degree sector centered on its heading; 360 wraps
// to the same label as 0. Go's % is sign-preserving, so a negative index is
// shifted back into the table; out-of-range input still lands on a label.
func DegToCompass(deg float64) string {
	ix := int(deg/22.5+0.5) % 16
	if ix < 0 {
		ix += 16
	}
	return compassLabels[ix]
}

// FormatSpeed renders a speed in km/h with one decimal place. Substituting
// "N/A" for absent values is the caller's job, not this function's.
func FormatSpeed(kmh float64) string {
	return fmt.Sprintf("%.1f km/h", kmh)
}
