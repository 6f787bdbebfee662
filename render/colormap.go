package render

import (
	"fmt"
	"slices"

	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/palette/brewer"
	"gonum.org/v1/plot/palette/moreland"
)

// Reds is the sequential white-to-dark-red map used for overlap densities, interpolated
// through the nine ColorBrewer "Reds" classes.
func Reds() (palette.ColorMap, error) {
	p, err := brewer.GetPalette(brewer.TypeSequential, "Reds", 9)
	if err != nil {
		return nil, fmt.Errorf("reds palette: %w", err)
	}
	// luminance maps need rising lightness, the brewer classes run light to dark
	stops := slices.Clone(p.Colors())
	slices.Reverse(stops)
	cm, err := moreland.NewLuminance(stops)
	if err != nil {
		return nil, fmt.Errorf("reds color map: %w", err)
	}
	return palette.Reverse(cm), nil
}

// DecelAccel is the diverging map used for acceleration frequencies, blue for
// decelerating over white to red for accelerating.
func DecelAccel() palette.ColorMap {
	return moreland.SmoothBlueRed()
}
