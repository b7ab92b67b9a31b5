package render

import (
	"fmt"

	"github.com/rtm0/meteogram/internal/kestrel"
)

// Extrema holds absolute record indexes of the annotated readings.
type Extrema struct {
	FirstMinTemp int
	LastMinTemp  int
	MaxDewpoint  int
}

// FindExtrema locates, within r, the first and last occurrence of the lowest
// temperature and the first occurrence of the highest dewpoint. Ties are
// exact float comparisons.
func FindExtrema(temp, dewp []float64, r kestrel.Range) (Extrema, error) {
	if err := r.Check(len(temp)); err != nil {
		return Extrema{}, fmt.Errorf("temperature: %w", err)
	}
	if err := r.Check(len(dewp)); err != nil {
		return Extrema{}, fmt.Errorf("dewpoint: %w", err)
	}
	e := Extrema{FirstMinTemp: r.Start, LastMinTemp: r.Start, MaxDewpoint: r.Start}
	for i := r.Start + 1; i < r.End; i++ {
		switch {
		case temp[i] < temp[e.FirstMinTemp]:
			e.FirstMinTemp, e.LastMinTemp = i, i
		case temp[i] == temp[e.FirstMinTemp]:
			e.LastMinTemp = i
		}
		if dewp[i] > dewp[e.MaxDewpoint] {
			e.MaxDewpoint = i
		}
	}
	return e, nil
}
