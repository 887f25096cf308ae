package dcthash

import (
	"errors"
	"math/rand"
	"strconv"
	"testing"
)

func TestDistance_KnownVectors(t *testing.T) {
	tests := []struct {
		name string
		a, b Hash
		want int
	}{
		{"different hashes", "97087fa6f03c134d", "97087fa697087fa6", 18},
		{"identical hashes", "97087fa6f03c134d", "97087fa6f03c134d", 0},
		{"fourteen apart", "0000000000000000", "0000000000003fff", 14},
		{"short strings", "1", "3", 1},
		{"zero extended", "f", "000000000000000f", 0},
		{"all bits", "0", "ffffffffffffffff", 64},
		{"upper case", "ABCDEF", "abcdef", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Distance(tt.a, tt.b)
			if err != nil {
				t.Fatalf("Distance failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("Distance(%s, %s): got %d, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestSimilar_Threshold(t *testing.T) {
	a, b := Hash("0000000000000000"), Hash("0000000000003fff")

	similar, err := Similar(a, b)
	if err != nil {
		t.Fatalf("Similar failed: %v", err)
	}
	if similar {
		t.Error("distance 14 should not be similar at the default threshold")
	}

	tests := []struct {
		threshold int
		want      bool
	}{
		{10, false},
		{13, false},
		{14, false},
		{15, true},
		{64, true},
	}

	for _, tt := range tests {
		t.Run(strconv.Itoa(tt.threshold), func(t *testing.T) {
			got, err := SimilarWithin(a, b, tt.threshold)
			if err != nil {
				t.Fatalf("SimilarWithin failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("SimilarWithin(..., %d): got %v, want %v", tt.threshold, got, tt.want)
			}
		})
	}
}

func randomHash(r *rand.Rand) Hash {
	return Hash(strconv.FormatUint(r.Uint64(), 16))
}

func TestDistance_Properties(t *testing.T) {
	r := rand.New(rand.NewSource(7))

	for i := 0; i < 500; i++ {
		a, b := randomHash(r), randomHash(r)

		ab, err := Distance(a, b)
		if err != nil {
			t.Fatalf("Distance(%s, %s) failed: %v", a, b, err)
		}
		ba, err := Distance(b, a)
		if err != nil {
			t.Fatalf("Distance(%s, %s) failed: %v", b, a, err)
		}
		if ab != ba {
			t.Errorf("not symmetric: d(%s,%s)=%d, d(%s,%s)=%d", a, b, ab, b, a, ba)
		}
		if ab < 0 || ab > Bits {
			t.Errorf("d(%s,%s)=%d outside [0,%d]", a, b, ab, Bits)
		}

		aa, err := Distance(a, a)
		if err != nil || aa != 0 {
			t.Errorf("d(%s,%s): got %d, %v; want 0", a, a, aa, err)
		}

		// Monotone in the threshold, and the boundary itself is not similar.
		prev := false
		for th := 0; th <= Bits+1; th++ {
			s, err := SimilarWithin(a, b, th)
			if err != nil {
				t.Fatalf("SimilarWithin failed: %v", err)
			}
			if prev && !s {
				t.Fatalf("similar at %d but not at %d for %s, %s", th-1, th, a, b)
			}
			if th == ab && s {
				t.Errorf("distance %d equal to threshold reported similar", ab)
			}
			if th == ab+1 && !s {
				t.Errorf("distance %d below threshold %d reported not similar", ab, th)
			}
			prev = s
		}
	}
}

func TestDistance_FlippedBits(t *testing.T) {
	r := rand.New(rand.NewSource(11))

	for k := 0; k <= Bits; k++ {
		base := r.Uint64()
		flipped := base
		for _, pos := range r.Perm(Bits)[:k] {
			flipped ^= 1 << uint(pos)
		}

		got, err := Distance(Hash(strconv.FormatUint(base, 16)), Hash(strconv.FormatUint(flipped, 16)))
		if err != nil {
			t.Fatalf("Distance failed: %v", err)
		}
		if got != k {
			t.Errorf("%d flipped bits: got distance %d", k, got)
		}
	}
}

func TestDistance_MalformedHash(t *testing.T) {
	tests := []struct {
		name string
		a, b Hash
	}{
		{"empty first", "", "ff"},
		{"empty second", "ff", ""},
		{"non-hex", "xyz", "ff"},
		{"prefix", "0x1f", "ff"},
		{"sign", "-1", "ff"},
		{"whitespace", " ff", "ff"},
		{"too long", "11111111111111111", "ff"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Distance(tt.a, tt.b)
			if !errors.Is(err, ErrMalformedHash) {
				t.Errorf("got %v, want ErrMalformedHash", err)
			}
			if errors.Is(err, ErrInvalidGrid) {
				t.Error("comparator error should not match ErrInvalidGrid")
			}

			_, err = SimilarWithin(tt.a, tt.b, DefaultThreshold)
			if !errors.Is(err, ErrMalformedHash) {
				t.Errorf("SimilarWithin: got %v, want ErrMalformedHash", err)
			}
		})
	}
}

func TestParseHash(t *testing.T) {
	tests := []struct {
		in   Hash
		want uint64
	}{
		{"0", 0},
		{"1", 1},
		{"ff", 255},
		{"ffffffffffffffff", ^uint64(0)},
		{"97087fa6f03c134d", 0x97087fa6f03c134d},
	}

	for _, tt := range tests {
		got, err := ParseHash(tt.in)
		if err != nil {
			t.Errorf("ParseHash(%q) failed: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseHash(%q): got %x, want %x", tt.in, got, tt.want)
		}
	}
}

func TestHamming(t *testing.T) {
	tests := []struct {
		a, b uint64
		want int
	}{
		{0, 0, 0},
		{0, 0xff, 8},
		{0xffffffffffffffff, 0, 64},
		{0xf0f0, 0x0f0f, 16},
	}
	for _, tt := range tests {
		if got := Hamming(tt.a, tt.b); got != tt.want {
			t.Errorf("Hamming(%x, %x) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}

	// Distance on hex strings agrees with Hamming on parsed values
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 100; i++ {
		a, b := rng.Uint64(), rng.Uint64()
		ha := Hash(strconv.FormatUint(a, 16))
		hb := Hash(strconv.FormatUint(b, 16))
		d, err := Distance(ha, hb)
		if err != nil {
			t.Fatalf("Distance(%s, %s) failed: %v", ha, hb, err)
		}
		if d != Hamming(a, b) {
			t.Errorf("Distance(%s, %s) = %d, Hamming = %d", ha, hb, d, Hamming(a, b))
		}
	}
}
