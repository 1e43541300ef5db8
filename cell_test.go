package headlessterm

import (
	"testing"
)

func TestNewCell(t *testing.T) {
	cell := NewCell()

	if cell.Char != ' ' {
		t.Errorf("expected space, got '%c'", cell.Char)
	}
	if cell.Style == nil {
		t.Fatal("expected a default style, got nil")
	}
	if cell.Fg() == nil {
		t.Error("expected default style to carry a foreground color")
	}
	if cell.Flags != 0 {
		t.Error("expected no structural flags")
	}
}

func TestCellReset(t *testing.T) {
	cell := NewCell()
	cell.Char = 'A'
	cell.SetStyle(InternStyle(Style{Flags: StyleBold}))

	cell.Reset()

	if cell.Char != ' ' {
		t.Errorf("expected space after reset, got '%c'", cell.Char)
	}
	if cell.HasStyleFlag(StyleBold) {
		t.Error("expected default style after reset")
	}
	if cell.Style != DefaultStyle() {
		t.Error("expected Reset to restore the canonical default style")
	}
}

func TestCellStyleFlags(t *testing.T) {
	cell := NewCell()

	cell.SetStyle(InternStyle(Style{Flags: StyleBold}))
	if !cell.HasStyleFlag(StyleBold) {
		t.Error("expected bold flag")
	}

	cell.SetStyle(InternStyle(Style{Flags: StyleBold | StyleItalic}))
	if !cell.HasStyleFlag(StyleBold) || !cell.HasStyleFlag(StyleItalic) {
		t.Error("expected both flags")
	}

	cell.SetStyle(InternStyle(Style{Flags: StyleItalic}))
	if cell.HasStyleFlag(StyleBold) {
		t.Error("expected bold flag to be cleared")
	}
	if !cell.HasStyleFlag(StyleItalic) {
		t.Error("expected italic flag to remain")
	}
}

func TestCellDirty(t *testing.T) {
	cell := NewCell()

	if cell.IsDirty() {
		t.Error("expected cell not dirty initially")
	}

	cell.MarkDirty()
	if !cell.IsDirty() {
		t.Error("expected cell to be dirty")
	}

	cell.ClearDirty()
	if cell.IsDirty() {
		t.Error("expected cell not dirty after clear")
	}
}

func TestCellWide(t *testing.T) {
	cell := NewCell()

	cell.SetFlag(CellFlagWideChar)
	if !cell.IsWide() {
		t.Error("expected cell to be wide")
	}

	spacer := NewCell()
	spacer.SetFlag(CellFlagWideCharSpacer)
	if !spacer.IsWideSpacer() {
		t.Error("expected cell to be spacer")
	}
}

func TestCellCopy(t *testing.T) {
	cell := NewCell()
	cell.Char = 'X'
	cell.SetStyle(InternStyle(Style{Flags: StyleBold | StyleItalic}))

	copied := cell.Copy()

	if copied.Char != 'X' {
		t.Errorf("expected 'X', got '%c'", copied.Char)
	}
	if !copied.HasStyleFlag(StyleBold) || !copied.HasStyleFlag(StyleItalic) {
		t.Error("expected style to be copied")
	}

	// Modify original, copy should be unchanged
	cell.Char = 'Y'
	if copied.Char != 'X' {
		t.Error("copy should be independent")
	}
}

func TestStyleInterning(t *testing.T) {
	before := StyleInternTableSize()

	a := InternStyle(Style{Flags: StyleBold, Fg: &NamedColor{Name: NamedColorForeground}})
	b := InternStyle(Style{Flags: StyleBold, Fg: &NamedColor{Name: NamedColorForeground}})

	if a != b {
		t.Error("expected structurally identical styles to share one pointer")
	}

	after := StyleInternTableSize()
	if after != before+1 {
		t.Errorf("expected exactly one new interned style, before=%d after=%d", before, after)
	}
}
