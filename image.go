package headlessterm

import (
	"crypto/sha256"
	"sort"
	"sync"
	"time"
)

// ImageFormat identifies the pixel encoding of stored image data.
type ImageFormat uint8

const (
	ImageFormatRGBA ImageFormat = iota // 32-bit RGBA, 4 bytes/pixel
	ImageFormatRGB                     // 24-bit RGB, 3 bytes/pixel
	ImageFormatPNG                     // PNG-encoded
)

// ImageData is decoded pixel data plus the bookkeeping ImageManager needs
// for deduplication and LRU eviction.
type ImageData struct {
	ID         uint32
	Width      uint32
	Height     uint32
	Data       []byte   // always normalized to RGBA
	Hash       [32]byte // SHA-256, for dedup
	CreatedAt  time.Time
	AccessedAt time.Time // drives LRU eviction order
}

// ImagePlacement anchors one displayed instance of an image to a region of
// the terminal grid, optionally cropped and offset at sub-cell precision.
type ImagePlacement struct {
	ID      uint32
	ImageID uint32

	Row, Col   int // anchor cell, in grid coordinates
	Rows, Cols int // footprint, in cells

	SrcX, SrcY uint32 // crop origin within the source image, in pixels
	SrcW, SrcH uint32 // crop size

	ZIndex int32 // render order; negative sits behind text

	OffsetX, OffsetY uint32 // sub-cell pixel offset within the anchor cell
}

// CellImage is the lightweight per-cell reference to an ImagePlacement:
// just enough to resample the right slice of the source image when
// rendering this one cell.
type CellImage struct {
	PlacementID uint32
	ImageID     uint32

	U0, V0 float32 // top-left UV
	U1, V1 float32 // bottom-right UV

	ZIndex int32
}

const defaultImageMemoryBudget = 320 * 1024 * 1024

// ImageManager owns the lifecycle of every image and placement attached to
// a terminal: storage with hash-based deduplication, memory-budgeted LRU
// eviction, and the accumulation buffer for chunked Kitty graphics
// transfers.
type ImageManager struct {
	mu sync.RWMutex

	images     map[uint32]*ImageData
	placements map[uint32]*ImagePlacement
	hashToID   map[[32]byte]uint32

	nextImageID     uint32
	nextPlacementID uint32

	maxMemory  int64
	usedMemory int64

	// Kitty protocol chunked-transfer state.
	accumulator            []byte
	accumulatorID          uint32
	accumulatorMore        bool
	accumulatorFormat      KittyFormat
	accumulatorWidth       uint32
	accumulatorHeight      uint32
	accumulatorCompression byte
}

// NewImageManager creates an ImageManager with the default memory budget.
func NewImageManager() *ImageManager {
	return &ImageManager{
		images:     make(map[uint32]*ImageData),
		placements: make(map[uint32]*ImagePlacement),
		hashToID:   make(map[[32]byte]uint32),
		maxMemory:  defaultImageMemoryBudget,
	}
}

// SetMaxMemory sets the memory budget images may occupy before eviction.
func (m *ImageManager) SetMaxMemory(bytes int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.maxMemory = bytes
}

// Store adds image data and returns its ID, reusing the ID of an existing
// image with identical content.
func (m *ImageManager) Store(width, height uint32, data []byte) uint32 {
	m.mu.Lock()
	defer m.mu.Unlock()

	hash := sha256.Sum256(data)
	if id, ok := m.hashToID[hash]; ok {
		if img, ok := m.images[id]; ok {
			img.AccessedAt = time.Now()
			return id
		}
	}

	m.nextImageID++
	id := m.nextImageID
	m.storeLocked(id, width, height, data, hash)
	return id
}

// StoreWithID adds image data under a caller-chosen ID, as used by the
// Kitty graphics protocol, replacing any prior image at that ID.
func (m *ImageManager) StoreWithID(id, width, height uint32, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if old, ok := m.images[id]; ok {
		m.usedMemory -= int64(len(old.Data))
		delete(m.hashToID, old.Hash)
	}

	m.storeLocked(id, width, height, data, sha256.Sum256(data))
	if id >= m.nextImageID {
		m.nextImageID = id + 1
	}
}

func (m *ImageManager) storeLocked(id, width, height uint32, data []byte, hash [32]byte) {
	now := time.Now()
	m.images[id] = &ImageData{
		ID: id, Width: width, Height: height,
		Data: data, Hash: hash,
		CreatedAt: now, AccessedAt: now,
	}
	m.hashToID[hash] = id
	m.usedMemory += int64(len(data))

	if m.usedMemory > m.maxMemory {
		m.pruneLocked()
	}
}

// Image returns the image stored under id, refreshing its LRU access time,
// or nil if it doesn't exist.
func (m *ImageManager) Image(id uint32) *ImageData {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if img, ok := m.images[id]; ok {
		img.AccessedAt = time.Now()
		return img
	}
	return nil
}

// Place records a new placement and assigns it an ID.
func (m *ImageManager) Place(p *ImagePlacement) uint32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextPlacementID++
	p.ID = m.nextPlacementID
	m.placements[p.ID] = p
	return p.ID
}

// Placement returns the placement with the given ID, or nil if absent.
func (m *ImageManager) Placement(id uint32) *ImagePlacement {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.placements[id]
}

// Placements returns every active placement, in no particular order.
func (m *ImageManager) Placements() []*ImagePlacement {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*ImagePlacement, 0, len(m.placements))
	for _, p := range m.placements {
		out = append(out, p)
	}
	return out
}

// RemovePlacement removes one placement by ID.
func (m *ImageManager) RemovePlacement(id uint32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.placements, id)
}

// RemovePlacementsForImage removes every placement referencing imageID.
func (m *ImageManager) RemovePlacementsForImage(imageID uint32) {
	m.deletePlacementsWhere(func(p *ImagePlacement) bool { return p.ImageID == imageID })
}

// DeletePlacementsByPosition removes placements whose footprint covers
// (row, col).
func (m *ImageManager) DeletePlacementsByPosition(row, col int) {
	m.deletePlacementsWhere(func(p *ImagePlacement) bool {
		return row >= p.Row && row < p.Row+p.Rows && col >= p.Col && col < p.Col+p.Cols
	})
}

// DeletePlacementsByZIndex removes placements at the given z-index.
func (m *ImageManager) DeletePlacementsByZIndex(z int32) {
	m.deletePlacementsWhere(func(p *ImagePlacement) bool { return p.ZIndex == z })
}

// DeletePlacementsInRow removes placements whose footprint intersects row.
func (m *ImageManager) DeletePlacementsInRow(row int) {
	m.deletePlacementsWhere(func(p *ImagePlacement) bool {
		return row >= p.Row && row < p.Row+p.Rows
	})
}

// DeletePlacementsInColumn removes placements whose footprint intersects col.
func (m *ImageManager) DeletePlacementsInColumn(col int) {
	m.deletePlacementsWhere(func(p *ImagePlacement) bool {
		return col >= p.Col && col < p.Col+p.Cols
	})
}

func (m *ImageManager) deletePlacementsWhere(match func(*ImagePlacement) bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, p := range m.placements {
		if match(p) {
			delete(m.placements, id)
		}
	}
}

// DeleteImage removes an image and every placement referencing it.
func (m *ImageManager) DeleteImage(id uint32) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if img, ok := m.images[id]; ok {
		m.usedMemory -= int64(len(img.Data))
		delete(m.hashToID, img.Hash)
		delete(m.images, id)
	}
	for pid, p := range m.placements {
		if p.ImageID == id {
			delete(m.placements, pid)
		}
	}
}

// Clear discards every image and placement.
func (m *ImageManager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.images = make(map[uint32]*ImageData)
	m.placements = make(map[uint32]*ImagePlacement)
	m.hashToID = make(map[[32]byte]uint32)
	m.usedMemory = 0
	m.accumulator = nil
}

// UsedMemory reports current image memory usage in bytes.
func (m *ImageManager) UsedMemory() int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.usedMemory
}

// ImageCount reports the number of stored images.
func (m *ImageManager) ImageCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.images)
}

// PlacementCount reports the number of active placements.
func (m *ImageManager) PlacementCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.placements)
}

// pruneLocked evicts unplaced images, oldest-accessed first, until usage is
// back under budget. Images still referenced by a placement are never
// evicted regardless of age. Must be called with m.mu held.
func (m *ImageManager) pruneLocked() {
	referenced := make(map[uint32]bool, len(m.placements))
	for _, p := range m.placements {
		referenced[p.ImageID] = true
	}

	type candidate struct {
		id   uint32
		img  *ImageData
		size int64
	}
	var candidates []candidate
	for id, img := range m.images {
		if !referenced[id] {
			candidates = append(candidates, candidate{id, img, int64(len(img.Data))})
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].img.AccessedAt.Before(candidates[j].img.AccessedAt)
	})

	for _, c := range candidates {
		if m.usedMemory <= m.maxMemory {
			return
		}
		delete(m.hashToID, c.img.Hash)
		delete(m.images, c.id)
		m.usedMemory -= c.size
	}
}
