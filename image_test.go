package headlessterm

import "testing"

func newImagePlacement(imageID uint32, row, col, rows, cols int) *ImagePlacement {
	return &ImagePlacement{ImageID: imageID, Row: row, Col: col, Rows: rows, Cols: cols}
}

func TestImageManager_StoreAssignsSequentialIDs(t *testing.T) {
	m := NewImageManager()
	data := make([]byte, 100)

	id := m.Store(10, 10, data)

	if id != 1 {
		t.Errorf("Store() id = %d, want 1", id)
	}
	if m.ImageCount() != 1 {
		t.Errorf("ImageCount() = %d, want 1", m.ImageCount())
	}
	if m.UsedMemory() != 100 {
		t.Errorf("UsedMemory() = %d, want 100", m.UsedMemory())
	}
}

func TestImageManager_StoreDeduplicatesIdenticalContent(t *testing.T) {
	m := NewImageManager()
	data := []byte("test image data")

	id1 := m.Store(10, 10, data)
	id2 := m.Store(10, 10, data)

	if id1 != id2 {
		t.Errorf("Store() of identical data returned different ids: %d, %d", id1, id2)
	}
	if m.ImageCount() != 1 {
		t.Errorf("ImageCount() = %d, want 1 after dedup", m.ImageCount())
	}
}

func TestImageManager_StoreWithIDUsesCallerChosenID(t *testing.T) {
	m := NewImageManager()

	m.StoreWithID(42, 5, 5, make([]byte, 50))

	img := m.Image(42)
	if img == nil {
		t.Fatal("Image(42) = nil, want stored image")
	}
	if img.Width != 5 || img.Height != 5 {
		t.Errorf("dimensions = %dx%d, want 5x5", img.Width, img.Height)
	}
}

func TestImageManager_StoreWithIDReplacesExisting(t *testing.T) {
	m := NewImageManager()
	m.StoreWithID(7, 4, 4, make([]byte, 64))
	m.StoreWithID(7, 8, 8, make([]byte, 256))

	img := m.Image(7)
	if img == nil {
		t.Fatal("Image(7) = nil, want replaced image")
	}
	if img.Width != 8 || img.Height != 8 {
		t.Errorf("dimensions after replace = %dx%d, want 8x8", img.Width, img.Height)
	}
	if got := m.UsedMemory(); got != 256 {
		t.Errorf("UsedMemory() = %d, want 256 (old bytes should be released)", got)
	}
}

func TestImageManager_Place(t *testing.T) {
	m := NewImageManager()
	imageID := m.Store(10, 10, make([]byte, 100))

	placementID := m.Place(newImagePlacement(imageID, 0, 0, 5, 5))

	if placementID != 1 {
		t.Errorf("Place() id = %d, want 1", placementID)
	}
	if m.PlacementCount() != 1 {
		t.Errorf("PlacementCount() = %d, want 1", m.PlacementCount())
	}
}

func TestImageManager_DeleteImageRemovesPlacements(t *testing.T) {
	m := NewImageManager()
	id := m.Store(10, 10, make([]byte, 100))
	m.Place(newImagePlacement(id, 0, 0, 1, 1))

	m.DeleteImage(id)

	if m.ImageCount() != 0 {
		t.Errorf("ImageCount() = %d, want 0", m.ImageCount())
	}
	if m.PlacementCount() != 0 {
		t.Errorf("PlacementCount() = %d, want 0 (placements for deleted image should go too)", m.PlacementCount())
	}
	if m.UsedMemory() != 0 {
		t.Errorf("UsedMemory() = %d, want 0", m.UsedMemory())
	}
}

func TestImageManager_Clear(t *testing.T) {
	m := NewImageManager()
	imageID := m.Store(10, 10, make([]byte, 100))
	m.Place(newImagePlacement(imageID, 0, 0, 1, 1))

	m.Clear()

	if m.ImageCount() != 0 || m.PlacementCount() != 0 {
		t.Errorf("after Clear(): images=%d placements=%d, want 0/0", m.ImageCount(), m.PlacementCount())
	}
}

func TestImageManager_PruneStaysUnderBudgetForUnreferencedImages(t *testing.T) {
	m := NewImageManager()
	m.SetMaxMemory(150)

	data1 := make([]byte, 100)
	data2 := make([]byte, 100)
	data2[0] = 1 // distinct content, avoids dedup

	m.Store(10, 10, data1)
	m.Store(10, 10, data2)

	// Neither image is referenced by a placement, so pruneLocked is free to
	// evict the older one once usage crosses the 150-byte budget.
	if m.UsedMemory() > 150 {
		t.Errorf("UsedMemory() = %d, want <= 150 after storing past budget with no placements", m.UsedMemory())
	}
	if m.ImageCount() != 1 {
		t.Errorf("ImageCount() = %d, want 1 (older unreferenced image evicted)", m.ImageCount())
	}
}

func TestImageManager_PruneNeverEvictsReferencedImages(t *testing.T) {
	m := NewImageManager()
	m.SetMaxMemory(150)

	data1 := make([]byte, 100)
	data2 := make([]byte, 100)
	data2[0] = 1

	id1 := m.Store(10, 10, data1)
	m.Place(newImagePlacement(id1, 0, 0, 1, 1))
	m.Store(10, 10, data2)

	if m.Image(id1) == nil {
		t.Error("expected referenced image to survive pruning despite exceeding budget")
	}
}

func TestImageManager_Placements(t *testing.T) {
	m := NewImageManager()
	imageID := m.Store(10, 10, make([]byte, 100))

	m.Place(newImagePlacement(imageID, 0, 0, 1, 1))
	m.Place(newImagePlacement(imageID, 1, 1, 2, 2))

	if got := len(m.Placements()); got != 2 {
		t.Errorf("len(Placements()) = %d, want 2", got)
	}
}

func TestImageManager_DeletePlacementsByPosition(t *testing.T) {
	m := NewImageManager()
	imageID := m.Store(10, 10, make([]byte, 100))

	m.Place(newImagePlacement(imageID, 0, 0, 2, 2))
	m.Place(newImagePlacement(imageID, 5, 5, 2, 2))

	m.DeletePlacementsByPosition(0, 0)

	if m.PlacementCount() != 1 {
		t.Errorf("PlacementCount() = %d, want 1 after deleting the placement covering (0,0)", m.PlacementCount())
	}
}

func TestImageManager_DeletePlacementsInRow(t *testing.T) {
	m := NewImageManager()
	imageID := m.Store(10, 10, make([]byte, 100))

	m.Place(newImagePlacement(imageID, 0, 0, 2, 2))
	m.Place(newImagePlacement(imageID, 5, 5, 2, 2))

	m.DeletePlacementsInRow(1) // intersects the first placement's rows [0,2)

	if m.PlacementCount() != 1 {
		t.Errorf("PlacementCount() = %d, want 1", m.PlacementCount())
	}
}

func TestImageManager_DeletePlacementsInColumn(t *testing.T) {
	m := NewImageManager()
	imageID := m.Store(10, 10, make([]byte, 100))

	m.Place(newImagePlacement(imageID, 0, 0, 2, 2))
	m.Place(newImagePlacement(imageID, 5, 5, 2, 2))

	m.DeletePlacementsInColumn(1) // intersects the first placement's cols [0,2)

	if m.PlacementCount() != 1 {
		t.Errorf("PlacementCount() = %d, want 1", m.PlacementCount())
	}
}

func TestImageManager_DeletePlacementsByZIndex(t *testing.T) {
	m := NewImageManager()
	imageID := m.Store(10, 10, make([]byte, 100))

	front := newImagePlacement(imageID, 0, 0, 1, 1)
	front.ZIndex = 0
	behind := newImagePlacement(imageID, 1, 1, 1, 1)
	behind.ZIndex = -1
	m.Place(front)
	m.Place(behind)

	m.DeletePlacementsByZIndex(-1)

	if m.PlacementCount() != 1 {
		t.Errorf("PlacementCount() = %d, want 1", m.PlacementCount())
	}
}

func TestCellImage_SetAndReset(t *testing.T) {
	cell := NewCell()

	if cell.HasImage() {
		t.Error("new cell should not report HasImage")
	}

	cell.Image = &CellImage{
		PlacementID: 1,
		ImageID:     1,
		U0:          0.0,
		V0:          0.0,
		U1:          1.0,
		V1:          1.0,
		ZIndex:      -1,
	}

	if !cell.HasImage() {
		t.Error("expected HasImage after assigning Image")
	}

	cell.Reset()

	if cell.HasImage() {
		t.Error("expected HasImage false after Reset")
	}
}
