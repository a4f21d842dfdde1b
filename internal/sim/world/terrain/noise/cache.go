package noise

// Coord is the discrete ground position of one terrain cell.
type Coord struct {
	X int
	Z int
}

// Cache memoizes height samples keyed by world coordinate.
//
// Entries are created on first query and never evicted; growth is bounded
// only by the set of distinct coordinates ever queried. Accessed only from
// the world loop goroutine.
type Cache struct {
	src       Source
	scale     float64
	amplitude float64

	heights map[Coord]float64
}

func NewCache(src Source, scale, amplitude float64) *Cache {
	return &Cache{
		src:       src,
		scale:     scale,
		amplitude: amplitude,
		heights:   map[Coord]float64{},
	}
}

// Height returns src(x/scale, z/scale)*amplitude, computing it at most once per coordinate.
func (c *Cache) Height(at Coord) float64 {
	if h, ok := c.heights[at]; ok {
		return h
	}
	h := c.src.Eval2(float64(at.X)/c.scale, float64(at.Z)/c.scale) * c.amplitude
	c.heights[at] = h
	return h
}

// Len reports how many coordinates have been sampled so far.
func (c *Cache) Len() int { return len(c.heights) }
