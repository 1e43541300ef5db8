package headlessterm

import "image/color"

// Named color indices used with NamedColor. Values 0-15 address
// DefaultPalette directly; the rest name palette-independent roles (current
// foreground/background, cursor, and dimmed variants of the eight base
// hues) that a NamedColor can point at without embedding an RGBA triple.
const (
	NamedColorForeground = 256 + iota
	NamedColorBackground
	NamedColorCursor
	NamedColorDimBlack
	NamedColorDimRed
	NamedColorDimGreen
	NamedColorDimYellow
	NamedColorDimBlue
	NamedColorDimMagenta
	NamedColorDimCyan
	NamedColorDimWhite
	NamedColorBrightForeground
	NamedColorDimForeground
)

// dimFactor scales a base color down for the "dim" SGR attribute and for
// NamedColorDimForeground.
const dimFactor = 0.66

// DefaultForeground is the default text color (light gray).
var DefaultForeground = color.RGBA{R: 229, G: 229, B: 229, A: 255}

// DefaultBackground is the default background color (black).
var DefaultBackground = color.RGBA{A: 255}

// DefaultCursorColor is the default cursor rendering color (light gray).
var DefaultCursorColor = color.RGBA{R: 229, G: 229, B: 229, A: 255}

// ansiBase holds the 16 standard/bright ANSI colors (indices 0-15 of
// DefaultPalette) in VT100 order: black, red, green, yellow, blue, magenta,
// cyan, white, then the bright variant of each.
var ansiBase = [16]color.RGBA{
	{R: 0, G: 0, B: 0, A: 255},
	{R: 205, G: 49, B: 49, A: 255},
	{R: 13, G: 188, B: 121, A: 255},
	{R: 229, G: 229, B: 16, A: 255},
	{R: 36, G: 114, B: 200, A: 255},
	{R: 188, G: 63, B: 188, A: 255},
	{R: 17, G: 168, B: 205, A: 255},
	{R: 229, G: 229, B: 229, A: 255},
	{R: 102, G: 102, B: 102, A: 255},
	{R: 241, G: 76, B: 76, A: 255},
	{R: 35, G: 209, B: 139, A: 255},
	{R: 245, G: 245, B: 67, A: 255},
	{R: 59, G: 142, B: 234, A: 255},
	{R: 214, G: 112, B: 214, A: 255},
	{R: 41, G: 184, B: 219, A: 255},
	{R: 255, G: 255, B: 255, A: 255},
}

// DefaultPalette is the standard 256-color xterm palette: the 16 ANSI
// colors (0-15), a 6x6x6 color cube (16-231), and a 24-step grayscale ramp
// (232-255).
var DefaultPalette = buildDefaultPalette()

func buildDefaultPalette() [256]color.RGBA {
	var palette [256]color.RGBA
	copy(palette[:16], ansiBase[:])

	i := 16
	for r := 0; r < 6; r++ {
		for g := 0; g < 6; g++ {
			for b := 0; b < 6; b++ {
				palette[i] = color.RGBA{R: uint8(r * 51), G: uint8(g * 51), B: uint8(b * 51), A: 255}
				i++
			}
		}
	}

	for j := 0; j < 24; j++ {
		gray := uint8(8 + j*10)
		palette[232+j] = color.RGBA{R: gray, G: gray, B: gray, A: 255}
	}

	return palette
}

// resolveDefaultColor converts c to a concrete RGBA using DefaultPalette. A
// nil c resolves to the default foreground or background, chosen by fg.
func resolveDefaultColor(c color.Color, fg bool) color.RGBA {
	switch v := c.(type) {
	case nil:
		return fallbackColor(fg)
	case color.RGBA:
		return v
	case *IndexedColor:
		if v.Index < 0 || v.Index >= len(DefaultPalette) {
			return fallbackColor(fg)
		}
		return DefaultPalette[v.Index]
	case *NamedColor:
		return namedColorRGBA(v.Name, fg)
	default:
		r, g, b, a := c.RGBA()
		return color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: uint8(a >> 8)}
	}
}

func fallbackColor(fg bool) color.RGBA {
	if fg {
		return DefaultForeground
	}
	return DefaultBackground
}

func dim(c color.RGBA) color.RGBA {
	return color.RGBA{
		R: uint8(float64(c.R) * dimFactor),
		G: uint8(float64(c.G) * dimFactor),
		B: uint8(float64(c.B) * dimFactor),
		A: 255,
	}
}

// namedColorRGBA resolves a NamedColor index (either a direct palette slot
// 0-15 or one of the semantic roles declared above) to RGBA.
func namedColorRGBA(name int, fg bool) color.RGBA {
	if name >= 0 && name < 16 {
		return DefaultPalette[name]
	}
	if name >= NamedColorDimBlack && name <= NamedColorDimWhite {
		return dim(DefaultPalette[name-NamedColorDimBlack])
	}

	switch name {
	case NamedColorForeground:
		return DefaultForeground
	case NamedColorBackground:
		return DefaultBackground
	case NamedColorCursor:
		return DefaultCursorColor
	case NamedColorBrightForeground:
		return DefaultPalette[15]
	case NamedColorDimForeground:
		return dim(DefaultForeground)
	default:
		return fallbackColor(fg)
	}
}
