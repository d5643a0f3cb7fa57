// Copyright 2025 The TCell Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package render owns the front/back double buffer and turns the diff
// between them into a minimal stream of cursor-move and SGR escape
// bytes, downgrading colors to whatever depth the terminal actually
// supports.
package render

import (
	"github.com/lucasb-eyer/go-colorful"

	"github.com/gdamore/termgrid/cellbuf"
)

// ColorDepth is the color capability a terminal has negotiated.
type ColorDepth int

const (
	Mono ColorDepth = iota
	Basic8
	Color256
	TrueColor
)

// basic8Palette is the RGB value of the eight normal ANSI colors: the
// nearest-match anchors of the Basic8 downgrade and the RGB source for
// indexed colors 0..7 in the Basic8 and Mono tiers.
var basic8Palette = [8][3]uint8{
	{0, 0, 0}, {205, 0, 0}, {0, 205, 0}, {205, 205, 0},
	{0, 0, 238}, {205, 0, 205}, {0, 205, 205}, {229, 229, 229},
}

// Downgrade maps c to the nearest representable color at depth,
// returning a Color already tagged with the right kind (RGB left alone
// at TrueColor, palette index otherwise). Color is returned unchanged
// if it is already at or below depth's expressiveness.
func Downgrade(c cellbuf.Color, depth ColorDepth) cellbuf.Color {
	if c.IsDefault() {
		return c
	}
	switch depth {
	case TrueColor:
		return c
	case Color256:
		if c.IsIndexed() {
			return c
		}
		r, g, b := c.RGBTriple()
		return cellbuf.Index(rgbTo256(uint8(r), uint8(g), uint8(b)))
	case Basic8:
		if c.IsIndexed() && c.Indexed() < 16 {
			return c
		}
		r, g, b := colorToRGB(c)
		return cellbuf.Index(rgbTo8(r, g, b))
	default: // Mono
		r, g, b := colorToRGB(c)
		if luminance(r, g, b) > 0.5 {
			return cellbuf.White
		}
		return cellbuf.Default
	}
}

func colorToRGB(c cellbuf.Color) (r, g, b uint8) {
	if c.IsRGB() {
		ri, gi, bi := c.RGBTriple()
		return uint8(ri), uint8(gi), uint8(bi)
	}
	idx := c.Indexed()
	if idx < 8 {
		p := basic8Palette[idx]
		return p[0], p[1], p[2]
	}
	rr, gg, bb := index256ToRGB(idx)
	return rr, gg, bb
}

// rgbTo256 maps an RGB triple into the xterm 256 palette: the 6x6x6
// color cube at 16 + 36r + 6g + b with r,g,b = round(c*5/255), falling
// back to the grayscale ramp 232..255 for near-gray colors. The closed
// form is cheaper than a nearest-neighbor palette search; its linear
// steps do not match xterm's cube levels (0, 95, 135, ...), so a cube
// member's own RGB value can map to a neighboring cube index.
func rgbTo256(r, g, b uint8) int {
	maxc, minc := maxu8(r, g, b), minu8(r, g, b)
	if int(maxc)-int(minc) < 10 {
		gray := int(r) + int(g) + int(b)
		level := (gray / 3 * 23) / 255
		return 232 + clampInt(level, 0, 23)
	}
	cr := round5(r)
	cg := round5(g)
	cb := round5(b)
	return 16 + 36*cr + 6*cg + cb
}

func round5(v uint8) int {
	return clampInt(int((int(v)*5+127)/255), 0, 5)
}

// rgbTo8 picks the nearest of the eight basic-palette anchors by CIE76
// perceptual distance, promoting to the bright variant 8..15 for
// high-luminance colors.
func rgbTo8(r, g, b uint8) int {
	target := colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
	best := 0
	bestDist := -1.0
	for i, p := range basic8Palette {
		cand := colorful.Color{R: float64(p[0]) / 255, G: float64(p[1]) / 255, B: float64(p[2]) / 255}
		d := target.DistanceCIE76(cand)
		if bestDist < 0 || d < bestDist {
			bestDist = d
			best = i
		}
	}
	if luminance(r, g, b) >= 128.0/255.0 {
		return best + 8
	}
	return best
}

func luminance(r, g, b uint8) float64 {
	return (0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)) / 255.0
}

func maxu8(vs ...uint8) uint8 {
	m := vs[0]
	for _, v := range vs[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

func minu8(vs ...uint8) uint8 {
	m := vs[0]
	for _, v := range vs[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// index256ToRGB inverts the xterm 256-color palette for colors >= 16.
func index256ToRGB(idx int) (r, g, b uint8) {
	if idx < 16 {
		if idx < 8 {
			p := basic8Palette[idx]
			return p[0], p[1], p[2]
		}
		p := basic8Palette[idx-8]
		return brighten(p[0]), brighten(p[1]), brighten(p[2])
	}
	if idx >= 232 {
		level := uint8(8 + (idx-232)*10)
		return level, level, level
	}
	idx -= 16
	r = cubeLevel(idx / 36)
	g = cubeLevel((idx / 6) % 6)
	b = cubeLevel(idx % 6)
	return
}

func cubeLevel(n int) uint8 {
	if n == 0 {
		return 0
	}
	return uint8(55 + n*40)
}

func brighten(v uint8) uint8 {
	if v == 0 {
		return 85
	}
	if int(v)+40 > 255 {
		return 255
	}
	return v + 40
}
