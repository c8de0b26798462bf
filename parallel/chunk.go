package parallel

import (
	"mavbin/config"
	"mavbin/decode"
	"mavbin/format"
	"mavbin/internal/view"
)

// chunk is one message-aligned slice of the file, tagged with its position
// in the final merge order.
type chunk struct {
	index  int
	lo, hi int64
}

// splitAligned divides v into n nominal slices of equal size, then aligns
// each slice's start to the next message boundary: scan forward from the
// nominal offset for the first record that passes the full
// header+type+tail-sync check against table. The first slice always starts
// at 0; the previous slice's end becomes the next slice's true start; the
// last slice ends at the file size. Zero-length slices are dropped.
func splitAligned(v *view.View, n int, table *format.Table, cfg *config.Config) ([]chunk, error) {
	size := v.Size()
	if n < 1 {
		n = 1
	}

	starts := make([]int64, n)
	starts[0] = 0
	for i := 1; i < n; i++ {
		nominal := size * int64(i) / int64(n)
		aligned, err := decode.FindAlignedStart(v, nominal, size, table, cfg)
		if err != nil {
			return nil, err
		}
		starts[i] = aligned
	}

	chunks := make([]chunk, 0, n)
	for i := 0; i < n; i++ {
		lo := starts[i]
		hi := size
		if i+1 < n {
			hi = starts[i+1]
		}
		if hi <= lo {
			continue
		}

		chunks = append(chunks, chunk{index: len(chunks), lo: lo, hi: hi})
	}

	return chunks, nil
}
