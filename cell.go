package headlessterm

import "image/color"

// CellFlags is a bitmask of per-cell structural state that is never shared
// between cells, so it lives directly on the Cell rather than on the
// interned Style: whether this cell is half of a wide glyph, and whether
// it has changed since the last damage collection.
type CellFlags uint8

const (
	CellFlagWideChar CellFlags = 1 << iota
	CellFlagWideCharSpacer
	CellFlagDirty
)

// Cell stores the character and formatting for one grid position. All
// SGR-controlled appearance (colors, bold, underline style, ...) lives on
// the interned *Style referenced by Style; cells with identical appearance
// share the same Style pointer. Wide characters (2 columns) use a spacer
// cell in the second position.
type Cell struct {
	Char      rune
	Combining []rune // zero-width combining marks attached to Char, if any
	Style     *Style
	Flags     CellFlags
	Hyperlink *Hyperlink
	Image     *CellImage // Image reference, nil if no image
}

// Hyperlink associates a cell with a clickable link (OSC 8).
type Hyperlink struct {
	ID  string
	URI string
}

// NewCell creates a cell initialized with a space character and the
// default interned style.
func NewCell() Cell {
	return Cell{
		Char:  ' ',
		Style: DefaultStyle(),
	}
}

// SetStyle assigns the cell's style, retaining the new reference and
// releasing the previous one. Safe to call with s == c.Style (no-op).
func (c *Cell) SetStyle(s *Style) {
	if s == c.Style {
		return
	}
	RetainStyle(s)
	if c.Style != nil {
		ReleaseStyle(c.Style)
	}
	c.Style = s
}

// Reset clears all attributes and sets the cell to default state (space
// character, default style, releasing whatever style it held).
func (c *Cell) Reset() {
	c.Char = ' '
	c.Combining = nil
	c.SetStyle(DefaultStyle())
	c.Flags = 0
	c.Hyperlink = nil
	c.Image = nil
}

// HasFlag returns true if the specified structural flag is set.
func (c *Cell) HasFlag(flag CellFlags) bool {
	return c.Flags&flag != 0
}

// SetFlag enables the specified structural flag without affecting others.
func (c *Cell) SetFlag(flag CellFlags) {
	c.Flags |= flag
}

// ClearFlag disables the specified structural flag without affecting others.
func (c *Cell) ClearFlag(flag CellFlags) {
	c.Flags &^= flag
}

// IsDirty returns true if the cell was modified since the last ClearDirty call.
func (c *Cell) IsDirty() bool {
	return c.HasFlag(CellFlagDirty)
}

// MarkDirty marks the cell as modified for dirty tracking.
func (c *Cell) MarkDirty() {
	c.SetFlag(CellFlagDirty)
}

// ClearDirty resets the dirty tracking flag.
func (c *Cell) ClearDirty() {
	c.ClearFlag(CellFlagDirty)
}

// IsWide returns true if this cell contains a wide character (CJK, emoji, etc.) that occupies 2 columns.
func (c *Cell) IsWide() bool {
	return c.HasFlag(CellFlagWideChar)
}

// IsWideSpacer returns true if this is the second cell of a wide character (should be skipped during rendering).
func (c *Cell) IsWideSpacer() bool {
	return c.HasFlag(CellFlagWideCharSpacer)
}

// Copy returns a copy of the cell, retaining an additional reference to its
// style and deep-copying the combining-rune slice.
func (c *Cell) Copy() Cell {
	RetainStyle(c.Style)
	var combining []rune
	if len(c.Combining) > 0 {
		combining = append([]rune(nil), c.Combining...)
	}
	return Cell{
		Char:      c.Char,
		Combining: combining,
		Style:     c.Style,
		Flags:     c.Flags,
		Hyperlink: c.Hyperlink,
		Image:     c.Image,
	}
}

// HasImage returns true if this cell has an image reference.
func (c *Cell) HasImage() bool {
	return c.Image != nil
}

// Fg returns the cell's foreground color from its Style, or nil if the
// cell has no style assigned.
func (c *Cell) Fg() color.Color {
	if c.Style == nil {
		return nil
	}
	return c.Style.Fg
}

// Bg returns the cell's background color from its Style, or nil if the
// cell has no style assigned.
func (c *Cell) Bg() color.Color {
	if c.Style == nil {
		return nil
	}
	return c.Style.Bg
}

// UnderlineColor returns the cell's underline color override from its
// Style, or nil if none is set.
func (c *Cell) UnderlineColor() color.Color {
	if c.Style == nil {
		return nil
	}
	return c.Style.UnderlineColor
}

// HasStyleFlag reports whether the cell's Style has the given SGR
// attribute flag set.
func (c *Cell) HasStyleFlag(flag StyleFlags) bool {
	return c.Style != nil && c.Style.HasFlag(flag)
}
