package headlessterm

// CursorStyle determines how the cursor is rendered.
type CursorStyle int

const (
	CursorStyleBlinkingBlock CursorStyle = iota
	CursorStyleSteadyBlock
	CursorStyleBlinkingUnderline
	CursorStyleSteadyUnderline
	CursorStyleBlinkingBar
	CursorStyleSteadyBar
)

// Cursor tracks the current position and rendering style (0-based coordinates).
type Cursor struct {
	Row     int
	Col     int
	Style   CursorStyle
	Visible bool
}

// NewCursor creates a cursor at (0, 0) with blinking block style, visible.
func NewCursor() *Cursor {
	return &Cursor{
		Row:     0,
		Col:     0,
		Style:   CursorStyleBlinkingBlock,
		Visible: true,
	}
}

// SavedCursor stores cursor position, cell attributes, and charset state for restoration.
// Used when switching between primary and alternate screens.
type SavedCursor struct {
	Row            int
	Col            int
	Attrs          CellTemplate
	OriginMode     bool
	CharsetIndex   int
	Charsets       [4]Charset
}

// CellTemplate defines the style and hyperlink applied to newly written
// characters. Modified by SGR (Select Graphic Rendition) escape sequences
// and OSC 8. Holds one reference to Style for as long as the template is
// alive.
type CellTemplate struct {
	Style     *Style
	Hyperlink *Hyperlink
}

// NewCellTemplate creates a template with the default style and no hyperlink.
func NewCellTemplate() CellTemplate {
	return CellTemplate{Style: DefaultStyle()}
}

// SetStyle replaces the template's style, retaining the new reference and
// releasing the previous one.
func (ct *CellTemplate) SetStyle(s *Style) {
	if s == ct.Style {
		return
	}
	RetainStyle(s)
	if ct.Style != nil {
		ReleaseStyle(ct.Style)
	}
	ct.Style = s
}

// Reset returns the template to the default style with no hyperlink.
func (ct *CellTemplate) Reset() {
	ct.SetStyle(DefaultStyle())
	ct.Hyperlink = nil
}

// Charset selects the character encoding variant.
type Charset int

const (
	CharsetASCII Charset = iota
	CharsetLineDrawing
)

// CharsetIndex selects one of four character set slots (G0-G3).
type CharsetIndex int

const (
	CharsetIndexG0 CharsetIndex = iota
	CharsetIndexG1
	CharsetIndexG2
	CharsetIndexG3
)
