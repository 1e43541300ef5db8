package headlessterm

import (
	"container/list"
	"fmt"
	"image/color"
	"sync"
)

// StyleFlags is a bitmask of SGR-controlled rendering attributes. Unlike
// CellFlags (wide-char/dirty bookkeeping), these bits live on the interned
// Style rather than on the Cell itself, since two cells with the same
// attributes share one Style.
type StyleFlags uint16

const (
	StyleBold StyleFlags = 1 << iota
	StyleDim
	StyleItalic
	StyleUnderline
	StyleDoubleUnderline
	StyleCurlyUnderline
	StyleDottedUnderline
	StyleDashedUnderline
	StyleBlinkSlow
	StyleBlinkFast
	StyleReverse
	StyleHidden
	StyleStrike
)

// Style holds the SGR-controlled appearance shared by any number of cells:
// foreground/background/underline color plus attribute flags. Styles are
// immutable once interned; callers build a new Style value and hand it to
// InternStyle rather than mutating one in place.
type Style struct {
	Fg             color.Color
	Bg             color.Color
	UnderlineColor color.Color
	Flags          StyleFlags
}

// HasFlag reports whether flag is set.
func (s Style) HasFlag(flag StyleFlags) bool {
	return s.Flags&flag != 0
}

func (s Style) key() string {
	return fmt.Sprintf("%s|%s|%s|%d", colorKey(s.Fg), colorKey(s.Bg), colorKey(s.UnderlineColor), s.Flags)
}

func colorKey(c color.Color) string {
	switch v := c.(type) {
	case nil:
		return "-"
	case *NamedColor:
		return fmt.Sprintf("N%d", v.Name)
	case *IndexedColor:
		return fmt.Sprintf("I%d", v.Index)
	case color.RGBA:
		return fmt.Sprintf("R%d.%d.%d.%d", v.R, v.G, v.B, v.A)
	default:
		r, g, b, a := c.RGBA()
		return fmt.Sprintf("X%d.%d.%d.%d", r, g, b, a)
	}
}

// styleEntry is one slot in the intern table: the canonical Style plus its
// reference count and its position in the LRU list (nil once pinned, i.e.
// the default style, which is never evicted).
type styleEntry struct {
	style *Style
	refs  int
	elem  *list.Element
}

// styleIntern is a process-wide, reference-counted, LRU-capped cache of
// Style values, shaped like the bounded image cache in image.go
// (pruneLocked) but refcount-aware: only entries with refs == 0 are
// eligible for eviction, so a Style actively held by a cell is never
// reclaimed out from under it.
type styleIntern struct {
	mu    sync.RWMutex
	cap   int
	table map[string]*styleEntry
	lru   *list.List // list.Element.Value is the key string; front = most recently touched
}

func newStyleIntern(capacity int) *styleIntern {
	return &styleIntern{
		cap:   capacity,
		table: make(map[string]*styleEntry),
		lru:   list.New(),
	}
}

// intern returns the canonical, refcounted *Style equal to s, creating one
// if necessary. The caller receives ownership of one reference and must
// eventually call release (directly, or via Cell.SetStyle/Cell.Reset).
func (si *styleIntern) intern(s Style) *Style {
	key := s.key()

	si.mu.Lock()
	defer si.mu.Unlock()

	if e, ok := si.table[key]; ok {
		e.refs++
		if e.elem != nil {
			si.lru.MoveToFront(e.elem)
		}
		return e.style
	}

	canonical := s
	e := &styleEntry{style: &canonical, refs: 1}
	if key != defaultStyleKey {
		e.elem = si.lru.PushFront(key)
	}
	si.table[key] = e
	si.evictLocked()
	return e.style
}

func (si *styleIntern) retain(s *Style) {
	if s == nil {
		return
	}
	si.mu.Lock()
	defer si.mu.Unlock()
	if e, ok := si.table[s.key()]; ok {
		e.refs++
		if e.elem != nil {
			si.lru.MoveToFront(e.elem)
		}
	}
}

func (si *styleIntern) release(s *Style) {
	if s == nil {
		return
	}
	si.mu.Lock()
	defer si.mu.Unlock()
	key := s.key()
	e, ok := si.table[key]
	if !ok {
		return
	}
	e.refs--
	if e.refs <= 0 && key != defaultStyleKey {
		// Leave it in the table (and LRU) as a zero-ref, evictable entry
		// rather than deleting immediately: a style that churns in and out
		// (e.g. toggling bold on/off rapidly) shouldn't pay the rebuild
		// cost every time.
		e.refs = 0
	}
}

// evictLocked drops least-recently-touched zero-ref entries until the
// table is back under capacity. Must be called with si.mu held.
func (si *styleIntern) evictLocked() {
	if si.cap <= 0 {
		return
	}
	for elem := si.lru.Back(); elem != nil && len(si.table) > si.cap; {
		prev := elem.Prev()
		key := elem.Value.(string)
		// Entries that are still referenced can't be reclaimed; skip them.
		if e, ok := si.table[key]; ok && e.refs <= 0 {
			si.lru.Remove(elem)
			delete(si.table, key)
		}
		elem = prev
	}
}

// len reports the number of distinct interned styles, for tests.
func (si *styleIntern) len() int {
	si.mu.RLock()
	defer si.mu.RUnlock()
	return len(si.table)
}

var defaultStyleValue = Style{
	Fg: &NamedColor{Name: NamedColorForeground},
	Bg: &NamedColor{Name: NamedColorBackground},
}

var defaultStyleKey = defaultStyleValue.key()

// globalStyles is the process-wide style intern table. Its capacity (4096)
// bounds the memory any number of Emulator instances spend on distinct
// SGR combinations; it is the one piece of state this package shares
// across Emulator instances.
var globalStyles = newStyleIntern(4096)

// InternStyle returns the canonical Style equal to s. The returned pointer
// carries one reference owned by the caller.
func InternStyle(s Style) *Style {
	return globalStyles.intern(s)
}

// RetainStyle adds a reference to an already-interned Style, for callers
// copying an existing *Style pointer into a new owner (e.g. a cell
// template shared across many cells).
func RetainStyle(s *Style) {
	globalStyles.retain(s)
}

// ReleaseStyle drops a reference previously obtained from InternStyle or
// RetainStyle.
func ReleaseStyle(s *Style) {
	globalStyles.release(s)
}

// DefaultStyle returns the default Style (NamedColorForeground and
// NamedColorBackground colors, no attributes), interned and retained on the
// caller's behalf. It is
// pinned and never evicted regardless of refcount.
func DefaultStyle() *Style {
	return globalStyles.intern(defaultStyleValue)
}

// StyleInternTableSize reports the number of distinct styles currently
// interned process-wide. Exposed for tests and diagnostics.
func StyleInternTableSize() int {
	return globalStyles.len()
}
