package scoring

import "testing"

func TestDescribe(t *testing.T) {
	thresholds := Thresholds{Low: 5, Medium: 12, High: 25}
	risks := []Risk{
		ComputeRisk("1", "2"),
		ComputeRisk("3", "4"),
		ComputeRisk("4", "5"),
		ComputeRisk("", "5"),
	}

	st := Describe(risks, thresholds)

	if st.Computable != 3 {
		t.Errorf("Computable = %d, want 3", st.Computable)
	}
	if st.Mean != (2.0+12.0+20.0)/3 {
		t.Errorf("Mean = %v, want %v", st.Mean, (2.0+12.0+20.0)/3)
	}
	if st.Max != 20 {
		t.Errorf("Max = %v, want 20", st.Max)
	}

	want := map[Band]int{BandLow: 1, BandModerate: 1, BandHigh: 1, BandUnknown: 1}
	for band, n := range want {
		if st.Bands[band] != n {
			t.Errorf("Bands[%s] = %d, want %d", band, st.Bands[band], n)
		}
	}
}

func TestDescribe_NothingComputable(t *testing.T) {
	st := Describe([]Risk{ComputeRisk("", "")}, Thresholds{Low: 5, Medium: 12, High: 25})

	if st.Computable != 0 || st.Mean != 0 || st.Max != 0 {
		t.Errorf("got %+v, want zero statistics", st)
	}
	if st.Bands[BandUnknown] != 1 {
		t.Errorf("Bands[unknown] = %d, want 1", st.Bands[BandUnknown])
	}
}

func TestDescribe_Empty(t *testing.T) {
	st := Describe(nil, Thresholds{Low: 5, Medium: 12, High: 25})
	if st.Computable != 0 || len(st.Bands) != 0 {
		t.Errorf("got %+v, want empty", st)
	}
}
