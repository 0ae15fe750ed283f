package game

import (
	"encoding/json"
	"fmt"
	"math"
)

// CellType is one tile of the world grid. The values are part of the wire
// format. CellBomb sits outside the small enum range so "a bomb occupies
// this tile" can never collide with an item code.
type CellType uint8

const (
	CellEmpty      CellType = 0
	CellWall       CellType = 1
	CellMystery    CellType = 2
	CellItemBomb   CellType = 3
	CellItemRange  CellType = 4
	CellItemRandom CellType = 5
	CellMobSpawner CellType = 6
	CellBomb       CellType = 100
)

// nearestBlankRadius bounds the ring scan in FindNearestBlank.
const nearestBlankRadius = 20

// World is the client-side mirror of the tile grid. The server owns the
// truth; the client receives a full snapshot at spawn and rectangular chunk
// updates afterwards.
type World struct {
	Width       int `json:"width"`
	Height      int `json:"height"`
	TileWidth   int `json:"tileWidth"`
	TileHeight  int `json:"tileHeight"`
	ChunkWidth  int `json:"chunkWidth"`
	ChunkHeight int `json:"chunkHeight"`

	data []CellType

	// Last merged chunk window, used to invalidate vacated tiles when the
	// visibility window scrolls.
	window *chunkRect
}

type chunkRect struct {
	tx, ty, width, height int
}

// Chunk is a rectangular sub-region of the tile grid sent as an incremental
// update. TX and TY are the absolute top-left tile offset.
type Chunk struct {
	TX     int        `json:"tx"`
	TY     int        `json:"ty"`
	Width  int        `json:"width"`
	Height int        `json:"height"`
	Data   []CellType `json:"data"`
}

// WorldFromJSON builds a fresh world from the spawn snapshot, replacing any
// previous backing array.
func WorldFromJSON(raw json.RawMessage) (*World, error) {
	var payload struct {
		Width      int        `json:"width"`
		Height     int        `json:"height"`
		TileWidth  int        `json:"tileWidth"`
		TileHeight int        `json:"tileHeight"`
		ChunkW     int        `json:"chunkWidth"`
		ChunkH     int        `json:"chunkHeight"`
		Data       []CellType `json:"data"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("decode world: %w", err)
	}
	if payload.Width <= 0 || payload.Height <= 0 {
		return nil, fmt.Errorf("decode world: invalid size %dx%d", payload.Width, payload.Height)
	}
	if payload.TileWidth <= 0 {
		payload.TileWidth = 32
	}
	if payload.TileHeight <= 0 {
		payload.TileHeight = 32
	}

	w := &World{
		Width:       payload.Width,
		Height:      payload.Height,
		TileWidth:   payload.TileWidth,
		TileHeight:  payload.TileHeight,
		ChunkWidth:  payload.ChunkW,
		ChunkHeight: payload.ChunkH,
		data:        make([]CellType, payload.Width*payload.Height),
	}
	if len(payload.Data) == len(w.data) {
		copy(w.data, payload.Data)
	}
	return w, nil
}

// NewWorld builds an empty world of the given tile dimensions. Used by tests
// and by the prediction engine before the spawn snapshot arrives.
func NewWorld(width, height, tileWidth, tileHeight int) *World {
	return &World{
		Width:      width,
		Height:     height,
		TileWidth:  tileWidth,
		TileHeight: tileHeight,
		data:       make([]CellType, width*height),
	}
}

// InBounds reports whether the tile coordinate lies within the grid.
func (w *World) InBounds(tx, ty int) bool {
	return tx >= 0 && ty >= 0 && tx < w.Width && ty < w.Height
}

// CellAt returns the cell at the given tile coordinate. Out-of-bounds
// lookups return CellWall so collision checks fail closed.
func (w *World) CellAt(tx, ty int) CellType {
	if !w.InBounds(tx, ty) {
		return CellWall
	}
	return w.data[ty*w.Width+tx]
}

// SetCell writes a cell. Out-of-bounds writes are dropped.
func (w *World) SetCell(tx, ty int, cell CellType) {
	if !w.InBounds(tx, ty) {
		return
	}
	w.data[ty*w.Width+tx] = cell
}

// Index returns the absolute row-major index of a tile coordinate.
func (w *World) Index(tx, ty int) int {
	return ty*w.Width + tx
}

// ToTile converts pixel coordinates to the containing tile coordinate.
// Floors rather than truncates so negative coordinates land outside the
// grid instead of folding back into column zero.
func (w *World) ToTile(px, py float64) (int, int) {
	tx := int(math.Floor(px / float64(w.TileWidth)))
	ty := int(math.Floor(py / float64(w.TileHeight)))
	return tx, ty
}

// TileCenter returns the pixel coordinates of the center of a tile.
func (w *World) TileCenter(tx, ty int) (float64, float64) {
	return (float64(tx) + 0.5) * float64(w.TileWidth), (float64(ty) + 0.5) * float64(w.TileHeight)
}

// MergeChunk overwrites the rectangular region described by the chunk. Tiles
// that were inside the previous window but fall outside the new one are
// reported to invalidate, keyed by absolute row-major index, before the new
// region is written. This is what lets a renderer track which screen tiles
// are backed by a live tile instance as the window scrolls.
func (w *World) MergeChunk(chunk Chunk, invalidate func(index int)) error {
	if chunk.Width <= 0 || chunk.Height <= 0 {
		return fmt.Errorf("merge chunk: invalid size %dx%d", chunk.Width, chunk.Height)
	}
	if len(chunk.Data) != chunk.Width*chunk.Height {
		return fmt.Errorf("merge chunk: %d cells for %dx%d region", len(chunk.Data), chunk.Width, chunk.Height)
	}

	next := chunkRect{tx: chunk.TX, ty: chunk.TY, width: chunk.Width, height: chunk.Height}
	if w.window != nil && invalidate != nil {
		prev := *w.window
		for ty := prev.ty; ty < prev.ty+prev.height; ty++ {
			for tx := prev.tx; tx < prev.tx+prev.width; tx++ {
				if !w.InBounds(tx, ty) {
					continue
				}
				if next.contains(tx, ty) {
					continue
				}
				invalidate(w.Index(tx, ty))
			}
		}
	}
	w.window = &next

	for row := 0; row < chunk.Height; row++ {
		for col := 0; col < chunk.Width; col++ {
			w.SetCell(chunk.TX+col, chunk.TY+row, chunk.Data[row*chunk.Width+col])
		}
	}
	return nil
}

func (r chunkRect) contains(tx, ty int) bool {
	return tx >= r.tx && ty >= r.ty && tx < r.tx+r.width && ty < r.ty+r.height
}

// FindNearestBlank scans outward in expanding rings for the closest empty
// cell. Falls back to (1,1), the safe corner, when nothing is found within
// range.
func (w *World) FindNearestBlank(tx, ty int) (int, int) {
	if w.CellAt(tx, ty) == CellEmpty {
		return tx, ty
	}
	for radius := 1; radius <= nearestBlankRadius; radius++ {
		for cy := ty - radius; cy <= ty+radius; cy++ {
			for cx := tx - radius; cx <= tx+radius; cx++ {
				// Ring only, skip the interior already scanned.
				if cx != tx-radius && cx != tx+radius && cy != ty-radius && cy != ty+radius {
					continue
				}
				if w.CellAt(cx, cy) == CellEmpty {
					return cx, cy
				}
			}
		}
	}
	return 1, 1
}
