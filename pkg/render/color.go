package render

import (
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

const (
	goldenAngle    = 137.5
	nodeSaturation = 0.7
	nodeLightness  = 0.6
)

// Color returns the fill colour of the i-th node as "#rrggbb".
func Color(i int) string {
	hue := math.Mod(float64(i)*goldenAngle, 360)
	return colorful.Hsl(hue, nodeSaturation, nodeLightness).Clamped().Hex()
}

// Stroke returns a darker variant of Color(i) for outlines and edges.
func Stroke(i int) string {
	hue := math.Mod(float64(i)*goldenAngle, 360)
	return colorful.Hsl(hue, nodeSaturation, nodeLightness*0.6).Clamped().Hex()
}
