// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package soft

// tile.go implements spec.md §4.8's Tile Binning System: a fixed grid of
// tiles over the framebuffer, each owning an append-only list of bin
// records. Binning itself is single-threaded (the submission thread);
// tile shading later replays each tile's records, possibly in parallel,
// since tiles never share output pixels.

// binRecord references one transformed, clipped triangle's data in the
// frame arena, plus the pipeline it was drawn with and a snapshot of the
// uniform bytes bound at draw time.
type binRecord struct {
	pipelineID   Handle
	triangleOff  int
	triangleLen  int
	uniformOff   int
	uniformLen   int
}

// tile is one cell of the binning grid.
type tile struct {
	x, y, w, h int // pixel-space rect
	records    []binRecord
}

// tileGrid partitions a framebuffer into a fixed array of tiles.
type tileGrid struct {
	tileSize    int
	fbW, fbH    int
	gridW, gridH int
	tiles       []tile
}

// newTileGrid computes the grid dimensions per spec.md §4.8's Init:
// ceil(fbW/tile), ceil(fbH/tile).
func newTileGrid(fbW, fbH, tileSize int) *tileGrid {
	gw := (fbW + tileSize - 1) / tileSize
	gh := (fbH + tileSize - 1) / tileSize
	g := &tileGrid{tileSize: tileSize, fbW: fbW, fbH: fbH, gridW: gw, gridH: gh}
	g.tiles = make([]tile, gw*gh)
	for ty := 0; ty < gh; ty++ {
		for tx := 0; tx < gw; tx++ {
			w := tileSize
			h := tileSize
			if tx*tileSize+w > fbW {
				w = fbW - tx*tileSize
			}
			if ty*tileSize+h > fbH {
				h = fbH - ty*tileSize
			}
			g.tiles[ty*gw+tx] = tile{x: tx * tileSize, y: ty * tileSize, w: w, h: h}
		}
	}
	return g
}

// reset clears every tile's record list, retaining backing capacity.
func (g *tileGrid) reset() {
	for i := range g.tiles {
		g.tiles[i].records = g.tiles[i].records[:0]
	}
}

// binTriangle intersects tri's screen AABB with the grid and appends rec
// to every covered tile (spec.md §4.8's BinTriangle).
func (g *tileGrid) binTriangle(tri *TriangleData, rec binRecord) {
	minX := min3(tri.V[0].Screen[0], tri.V[1].Screen[0], tri.V[2].Screen[0])
	minY := min3(tri.V[0].Screen[1], tri.V[1].Screen[1], tri.V[2].Screen[1])
	maxX := max3(tri.V[0].Screen[0], tri.V[1].Screen[0], tri.V[2].Screen[0])
	maxY := max3(tri.V[0].Screen[1], tri.V[1].Screen[1], tri.V[2].Screen[1])

	tx0 := clampInt(int(minX)/g.tileSize, 0, g.gridW-1)
	ty0 := clampInt(int(minY)/g.tileSize, 0, g.gridH-1)
	tx1 := clampInt(int(maxX)/g.tileSize, 0, g.gridW-1)
	ty1 := clampInt(int(maxY)/g.tileSize, 0, g.gridH-1)
	if maxX < 0 || maxY < 0 || minX >= float32(g.fbW) || minY >= float32(g.fbH) {
		return
	}

	for ty := ty0; ty <= ty1; ty++ {
		for tx := tx0; tx <= tx1; tx++ {
			t := &g.tiles[ty*g.gridW+tx]
			t.records = append(t.records, rec)
		}
	}
}

func clampInt(x, lo, hi int) int {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// nonEmptyTiles returns the indices of tiles holding at least one record.
func (g *tileGrid) nonEmptyTiles() []int {
	out := make([]int, 0, len(g.tiles))
	for i := range g.tiles {
		if len(g.tiles[i].records) > 0 {
			out = append(out, i)
		}
	}
	return out
}
