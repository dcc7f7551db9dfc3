package common

import "math/rand/v2"

// projectPalette holds the display colors assigned to project cards. The
// assignment is cosmetic: a new color is picked on every fetch and never
// persisted.
var projectPalette = []string{
	"#E57373", "#64B5F6", "#81C784", "#FFD54F",
	"#BA68C8", "#4DB6AC", "#F06292", "#A1887F",
}

// pickColor is a test seam so assertions do not depend on randomness.
var pickColor = func() string {
	return projectPalette[rand.IntN(len(projectPalette))]
}

// RandomProjectColor returns one color from the fixed project palette.
func RandomProjectColor() string {
	return pickColor()
}
