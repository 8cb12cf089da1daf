package chart

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot/palette/brewer"
)

const (
	paletteName = "Set1"
	paletteSize = 9
)

// Palette returns n colours from a fixed qualitative palette. Colours repeat once
// the palette is exhausted, so series i always gets the same colour.
func Palette(n int) ([]color.Color, error) {
	p, err := brewer.GetPalette(brewer.TypeQualitative, paletteName, paletteSize)
	if err != nil {
		return nil, fmt.Errorf("load palette %s: %w", paletteName, err)
	}
	base := p.Colors()

	colors := make([]color.Color, n)
	for i := range colors {
		colors[i] = base[i%len(base)]
	}
	return colors, nil
}
