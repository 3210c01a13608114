package draw

import (
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
)

// RGB is a 24-bit colour. It is comparable, so cells can be diffed cheaply.
type RGB struct {
	R, G, B uint8
}

// Common colours.
var (
	Black = RGB{}
	White = RGB{R: 255, G: 255, B: 255}
)

// hexCache memoizes parsed palette strings; renderers parse the same handful
// of colours every frame.
var hexCache sync.Map // string -> RGB

// Hex parses a "#rrggbb" or "#rgb" colour. Unparseable input yields White.
func Hex(s string) RGB {
	if v, ok := hexCache.Load(s); ok {
		return v.(RGB)
	}
	c, err := colorful.Hex(s)
	if err != nil {
		c, err = colorful.Hex(expandShortHex(s))
	}
	rgb := White
	if err == nil {
		rgb = FromColorful(c)
	}
	hexCache.Store(s, rgb)
	return rgb
}

// expandShortHex turns "#rgb" into "#rrggbb"; other input is returned as is.
func expandShortHex(s string) string {
	if len(s) != 4 || s[0] != '#' {
		return s
	}
	return string([]byte{'#', s[1], s[1], s[2], s[2], s[3], s[3]})
}

// FromColorful converts a go-colorful colour, clamping it into gamut.
func FromColorful(c colorful.Color) RGB {
	r, g, b := c.Clamped().RGB255()
	return RGB{R: r, G: g, B: b}
}

// Colorful returns the colour as a go-colorful value.
func (c RGB) Colorful() colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

// Blend mixes c toward other; t=0 returns c, t=1 returns other.
func (c RGB) Blend(other RGB, t float64) RGB {
	if t <= 0 {
		return c
	}
	if t >= 1 {
		return other
	}
	return FromColorful(c.Colorful().BlendRgb(other.Colorful(), t))
}

// Tcell converts the colour for a tcell style.
func (c RGB) Tcell() tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

// Hex formats the colour as "#rrggbb".
func (c RGB) Hex() string {
	return c.Colorful().Hex()
}
