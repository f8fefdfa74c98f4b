package scoring

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Stats summarizes a column of risk values. Non-computable risks are counted
// in their band only.
type Stats struct {
	Computable int
	Mean       float64
	Max        float64
	Bands      map[Band]int
}

// Describe aggregates risks classified against t.
func Describe(risks []Risk, t Thresholds) Stats {
	st := Stats{Bands: map[Band]int{}}
	values := make([]float64, 0, len(risks))
	for _, r := range risks {
		st.Bands[Classify(r, t)]++
		if v, ok := r.Value(); ok {
			values = append(values, v)
		}
	}

	st.Computable = len(values)
	if st.Computable == 0 {
		return st
	}
	st.Mean = stat.Mean(values, nil)
	st.Max = floats.Max(values)
	return st
}
