package headlessterm

import (
	"image/color"
)

// SixelImage is a decoded Sixel image, converted to packed RGBA pixels.
type SixelImage struct {
	Width       uint32
	Height      uint32
	Data        []byte // RGBA pixel data
	Transparent bool
}

const (
	sixelCellHeight = 6 // a sixel encodes 6 vertically stacked pixels
	paletteSize     = 256
)

// sixelCursor walks a Sixel byte stream, parsing one escape or data
// character at a time and painting into a sparse pixel map.
type sixelCursor struct {
	palette    [paletteSize]color.RGBA
	colorIndex int

	x, y       int
	maxX, maxY int

	pixels      map[int]map[int]color.RGBA
	transparent bool
}

// ParseSixel decodes a Sixel DCS body into an RGBA image. params holds the
// DCS parameters (P1;P2;P3); data holds the raw bytes following 'q'. Only
// P2 (background select) is honored: a value of 1 renders a transparent
// background instead of palette color 0.
func ParseSixel(params []int64, data []byte) (*SixelImage, error) {
	c := newSixelCursor()
	if len(params) >= 2 && params[1] == 1 {
		c.transparent = true
	}
	c.run(data)
	return c.render(), nil
}

func newSixelCursor() *sixelCursor {
	c := &sixelCursor{pixels: make(map[int]map[int]color.RGBA)}
	seedVGAPalette(&c.palette)
	return c
}

// seedVGAPalette fills entries 0-15 with the classic VGA 16-color set and
// the rest with a linear grayscale ramp, the palette a Sixel stream starts
// from before any #-introduced redefinition.
func seedVGAPalette(palette *[paletteSize]color.RGBA) {
	vga := [16]color.RGBA{
		{0, 0, 0, 255}, {0, 0, 205, 255}, {205, 0, 0, 255}, {205, 0, 205, 255},
		{0, 205, 0, 255}, {0, 205, 205, 255}, {205, 205, 0, 255}, {205, 205, 205, 255},
		{0, 0, 0, 255}, {0, 0, 255, 255}, {255, 0, 0, 255}, {255, 0, 255, 255},
		{0, 255, 0, 255}, {0, 255, 255, 255}, {255, 255, 0, 255}, {255, 255, 255, 255},
	}
	copy(palette[:], vga[:])
	for i := 16; i < paletteSize; i++ {
		gray := uint8((i - 16) * 255 / (paletteSize - 17))
		palette[i] = color.RGBA{gray, gray, gray, 255}
	}
}

// run consumes the whole stream, dispatching each control or data byte.
func (c *sixelCursor) run(data []byte) {
	i := 0
	for i < len(data) {
		b := data[i]
		i++
		switch {
		case b == '$':
			c.x = 0
		case b == '-':
			c.x = 0
			c.y += sixelCellHeight
		case b == '!':
			i = c.handleRepeat(data, i)
		case b == '#':
			i = c.handleColor(data, i)
		case b == '"':
			i = skipRasterAttributes(data, i)
		case b >= '?' && b <= '~':
			c.paintColumn(b, 1)
		}
	}
}

// handleRepeat parses "!<count><sixel>" and paints the sixel count times.
func (c *sixelCursor) handleRepeat(data []byte, i int) int {
	count, i := readDecimal(data, i)
	if i >= len(data) {
		return i
	}
	sixel := data[i]
	i++
	if sixel >= '?' && sixel <= '~' {
		c.paintColumn(sixel, int(count))
	}
	return i
}

// handleColor parses "#<index>" and, if followed by ";<type>;<v1>;<v2>;<v3>",
// redefines that palette entry before selecting it as current.
func (c *sixelCursor) handleColor(data []byte, i int) int {
	index, i := readDecimal(data, i)

	if i < len(data) && data[i] == ';' {
		var kind, v1, v2, v3 int64
		var ok bool
		i, ok = readSemicolonField(data, i, &kind)
		if ok {
			i, ok = readSemicolonField(data, i, &v1)
		}
		if ok {
			i, ok = readSemicolonField(data, i, &v2)
		}
		if ok {
			i, ok = readSemicolonField(data, i, &v3)
		}
		if ok && index >= 0 && index < paletteSize {
			c.palette[index] = defineColor(kind, v1, v2, v3)
		}
	}

	if index >= 0 && index < paletteSize {
		c.colorIndex = int(index)
	}
	return i
}

// readSemicolonField reads ";<decimal>" into out, returning the advanced
// index and whether a ';' was actually present.
func readSemicolonField(data []byte, i int, out *int64) (int, bool) {
	if i >= len(data) || data[i] != ';' {
		return i, false
	}
	i++
	*out, i = readDecimal(data, i)
	return i, true
}

// defineColor builds a palette entry from a #-introducer's type and value
// triple: HLS (type 1) or RGB percentages (type 2, and the default).
func defineColor(kind, v1, v2, v3 int64) color.RGBA {
	if kind == 1 {
		return hlsToRGB(int(v1), int(v2), int(v3))
	}
	return color.RGBA{
		R: uint8(v1 * 255 / 100),
		G: uint8(v2 * 255 / 100),
		B: uint8(v3 * 255 / 100),
		A: 255,
	}
}

// skipRasterAttributes scans past a raster-attributes introducer
// ("<Pan>;<Pad>;<Ph>;<Pv>, whose aspect-ratio and size hints this decoder
// does not need since it sizes the image from drawn pixels instead.
func skipRasterAttributes(data []byte, i int) int {
	for i < len(data) && data[i] != '$' && data[i] != '-' &&
		data[i] != '#' && data[i] != '!' &&
		!(data[i] >= '?' && data[i] <= '~') {
		i++
	}
	return i
}

func readDecimal(data []byte, i int) (int64, int) {
	var n int64
	for i < len(data) && data[i] >= '0' && data[i] <= '9' {
		n = n*10 + int64(data[i]-'0')
		i++
	}
	return n, i
}

// paintColumn renders one sixel character count times at the cursor,
// advancing x by count columns. Each sixel's 6 bits are the vertical
// pixels of one column, bit 0 on top.
func (c *sixelCursor) paintColumn(b byte, count int) {
	if count <= 0 {
		count = 1
	}
	bits := b - '?'
	ink := c.palette[c.colorIndex]

	for n := 0; n < count; n++ {
		for bit := 0; bit < sixelCellHeight; bit++ {
			if bits&(1<<bit) == 0 {
				continue
			}
			py, px := c.y+bit, c.x
			if c.pixels[py] == nil {
				c.pixels[py] = make(map[int]color.RGBA)
			}
			c.pixels[py][px] = ink
			if px > c.maxX {
				c.maxX = px
			}
			if py > c.maxY {
				c.maxY = py
			}
		}
		c.x++
	}
}

// render flattens the sparse pixel map into a packed RGBA image sized to
// the drawn extent.
func (c *sixelCursor) render() *SixelImage {
	if len(c.pixels) == 0 {
		return &SixelImage{}
	}

	width, height := uint32(c.maxX+1), uint32(c.maxY+1)
	data := make([]byte, width*height*4)

	if !c.transparent {
		bg := c.palette[0]
		for i := uint32(0); i < width*height; i++ {
			data[i*4+0] = bg.R
			data[i*4+1] = bg.G
			data[i*4+2] = bg.B
			data[i*4+3] = bg.A
		}
	}

	for y, row := range c.pixels {
		for x, ink := range row {
			if x < 0 || x >= int(width) || y < 0 || y >= int(height) {
				continue
			}
			off := (uint32(y)*width + uint32(x)) * 4
			data[off+0] = ink.R
			data[off+1] = ink.G
			data[off+2] = ink.B
			data[off+3] = ink.A
		}
	}

	return &SixelImage{Width: width, Height: height, Data: data, Transparent: c.transparent}
}

// hlsToRGB converts Sixel's HLS triple to RGB. Sixel's hue wheel is
// rotated from the standard one: blue sits at 0 degrees and red at 120,
// rather than red at 0 and blue at 240.
func hlsToRGB(h, l, s int) color.RGBA {
	if s == 0 {
		v := uint8(l * 255 / 100)
		return color.RGBA{v, v, v, 255}
	}

	hue := float64(h)/360.0 + 2.0/3.0
	if hue >= 1.0 {
		hue -= 1.0
	}
	lightness := float64(l) / 100.0
	saturation := float64(s) / 100.0

	var q float64
	if lightness < 0.5 {
		q = lightness * (1 + saturation)
	} else {
		q = lightness + saturation - lightness*saturation
	}
	p := 2*lightness - q

	return color.RGBA{
		R: uint8(hueChannel(p, q, hue+1.0/3.0) * 255),
		G: uint8(hueChannel(p, q, hue) * 255),
		B: uint8(hueChannel(p, q, hue-1.0/3.0) * 255),
		A: 255,
	}
}

// hueChannel resolves one RGB channel from a hue fraction per the standard
// HSL-to-RGB piecewise formula.
func hueChannel(p, q, t float64) float64 {
	switch {
	case t < 0:
		t += 1
	case t > 1:
		t -= 1
	}
	switch {
	case t < 1.0/6.0:
		return p + (q-p)*6*t
	case t < 1.0/2.0:
		return q
	case t < 2.0/3.0:
		return p + (q-p)*(2.0/3.0-t)*6
	default:
		return p
	}
}
