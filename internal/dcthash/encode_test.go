package dcthash

import (
	"errors"
	"testing"
)

// spectrumFromSubsample builds an EdgeSize spectrum whose subsample, in
// flattened order, equals values.
func spectrumFromSubsample(values []float64) [][]float64 {
	spectrum := make([][]float64, EdgeSize)
	for i := range spectrum {
		spectrum[i] = make([]float64, EdgeSize)
		for j := range spectrum[i] {
			spectrum[i][j] = 1000
		}
	}
	k := 0
	for t := SubsampleStart; t <= SubsampleEnd; t++ {
		for s := SubsampleStart; s <= SubsampleEnd; s++ {
			spectrum[s][t] = values[k]
			k++
		}
	}
	return spectrum
}

func TestSubsample_OrderAndBounds(t *testing.T) {
	spectrum := make([][]float64, EdgeSize)
	for s := range spectrum {
		spectrum[s] = make([]float64, EdgeSize)
		for tf := range spectrum[s] {
			spectrum[s][tf] = float64(s*100 + tf)
		}
	}

	got := subsample(spectrum)
	if len(got) != Bits {
		t.Fatalf("length: got %d, want %d", len(got), Bits)
	}

	// First bits walk s with t fixed at SubsampleStart.
	want := []float64{101, 201, 301, 401, 501, 601, 701, 801, 102}
	for i, w := range want {
		if got[i] != w {
			t.Errorf("value %d: got %v, want %v", i, got[i], w)
		}
	}
	if got[Bits-1] != 808 {
		t.Errorf("last value: got %v, want 808", got[Bits-1])
	}
}

func TestMedian(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   float64
	}{
		{"two values", []float64{1, 3}, 2},
		{"unsorted", []float64{9, 1, 5, 3}, 4},
		{"duplicates", []float64{2, 2, 2, 2}, 2},
		{"negative", []float64{-4, -2, 6, 0}, -1},
		{"odd length", []float64{5, 1, 3}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := median(tt.values)
			if err != nil {
				t.Fatalf("median failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMedian_DoesNotSortInput(t *testing.T) {
	values := []float64{3, 1, 2, 0}
	if _, err := median(values); err != nil {
		t.Fatalf("median failed: %v", err)
	}
	if values[0] != 3 || values[3] != 0 {
		t.Errorf("input reordered: %v", values)
	}
}

func TestMedian_TooFewValues(t *testing.T) {
	for _, values := range [][]float64{nil, {}, {1}} {
		_, err := median(values)
		if !errors.Is(err, ErrMedianInput) {
			t.Errorf("median(%v): got %v, want ErrMedianInput", values, err)
		}
	}
}

func TestEncode_Ascending(t *testing.T) {
	values := make([]float64, Bits)
	for i := range values {
		values[i] = float64(i)
	}

	got, err := encode(spectrumFromSubsample(values))
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	if got != "ffffffff00000000" {
		t.Errorf("got %s, want ffffffff00000000", got)
	}
}

func TestEncode_DescendingDropsLeadingZeros(t *testing.T) {
	values := make([]float64, Bits)
	for i := range values {
		values[i] = float64(Bits - 1 - i)
	}

	got, err := encode(spectrumFromSubsample(values))
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	if got != "ffffffff" {
		t.Errorf("got %s, want ffffffff", got)
	}
}

func TestEncode_AllEqualIsZero(t *testing.T) {
	values := make([]float64, Bits)
	for i := range values {
		values[i] = 3.5
	}

	got, err := encode(spectrumFromSubsample(values))
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	if got != "0" {
		t.Errorf("got %s, want 0", got)
	}
}

func TestEncode_EqualToMedianIsZeroBit(t *testing.T) {
	// Sorted: 31 zeros, two fives, 31 tens, so the median is exactly 5.
	values := make([]float64, Bits)
	values[0], values[1] = 5, 5
	for i := 2; i <= 32; i++ {
		values[i] = 0
	}
	for i := 33; i < Bits; i++ {
		values[i] = 10
	}

	got, err := encode(spectrumFromSubsample(values))
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	if got != "3fffffff80000000" {
		t.Errorf("got %s, want 3fffffff80000000", got)
	}
}
