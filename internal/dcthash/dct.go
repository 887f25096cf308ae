package dcthash

import "math"

// dct computes the unnormalized DCT-II of v by recursive even/odd splitting.
// len(v) must be a power of two. The input is not modified.
func dct(v []float64) []float64 {
	n := len(v)
	if n == 1 {
		return []float64{v[0]}
	}

	half := n / 2
	alpha := make([]float64, half)
	beta := make([]float64, half)
	for i := 0; i < half; i++ {
		a, b := v[i], v[n-1-i]
		alpha[i] = a + b
		beta[i] = (a - b) / (2 * math.Cos((float64(i)+0.5)*math.Pi/float64(n)))
	}
	alpha = dct(alpha)
	beta = dct(beta)

	out := make([]float64, 0, n)
	for i := 0; i < half-1; i++ {
		out = append(out, alpha[i], beta[i]+beta[i+1])
	}
	return append(out, alpha[half-1], beta[half-1])
}

// transform2D applies dct to every row of grid, transposes, and applies dct
// to every row again.
//
// The result is left in transposed orientation: out[s][t] holds the
// coefficient for horizontal frequency s and vertical frequency t. The
// encoder reads it accordingly.
func transform2D(grid [][]float64) [][]float64 {
	rows := make([][]float64, len(grid))
	for i, row := range grid {
		rows[i] = dct(row)
	}

	cols := transpose(rows)
	for i, col := range cols {
		cols[i] = dct(col)
	}
	return cols
}

func transpose(m [][]float64) [][]float64 {
	if len(m) == 0 {
		return nil
	}
	out := make([][]float64, len(m[0]))
	for j := range out {
		out[j] = make([]float64, len(m))
		for i := range m {
			out[j][i] = m[i][j]
		}
	}
	return out
}

func isPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}
