package rtfiber

import "math"

// latenessQuantileEstimator is one P-Square streaming estimator for a
// single target quantile of dispatch lateness (how late, relative to a
// Task's ready time, the Scheduler actually dispatched it). P-Square
// gives O(1) per-sample updates and O(1) quantile reads without storing
// the sample history LatenessMetrics' legacy ring buffer needs for exact
// percentiles on small sample counts.
//
// Reference: Jain, R. and Chlamtac, I. (1985). "The P^2 Algorithm for
// Dynamic Calculation of Quantiles and Histograms Without Storing
// Observations". Communications of the ACM, 28(10), pp. 1076-1085.
//
// Not safe for concurrent use; LatenessMetrics.mu guards every call.
type latenessQuantileEstimator struct {
	target float64 // the quantile this estimator tracks, in [0, 1]

	height   [5]float64 // marker heights (the 5 tracked quantile estimates)
	pos      [5]int     // marker positions (observation counts, 0-indexed)
	wantPos  [5]float64 // desired (idealized, fractional) marker positions
	posIncr  [5]float64 // per-observation increment to wantPos

	primed bool       // true once enough samples have seeded the markers
	count  int        // total observations seen
	seed   [5]float64 // buffers the first 5 observations before priming
}

// newLatenessQuantileEstimator returns an estimator for quantile target,
// clamped to [0, 1].
func newLatenessQuantileEstimator(target float64) *latenessQuantileEstimator {
	if target < 0 {
		target = 0
	}
	if target > 1 {
		target = 1
	}
	return &latenessQuantileEstimator{
		target:  target,
		posIncr: [5]float64{0, target / 2, target, (1 + target) / 2, 1},
	}
}

// Update folds one lateness sample into the estimate; O(1).
func (e *latenessQuantileEstimator) Update(x float64) {
	e.count++

	if e.count <= 5 {
		e.seed[e.count-1] = x
		if e.count == 5 {
			e.prime()
		}
		return
	}

	// Find the cell k such that height[k] <= x < height[k+1].
	var k int
	switch {
	case x < e.height[0]:
		e.height[0] = x
		k = 0
	case x >= e.height[4]:
		e.height[4] = x
		k = 3
	default:
		for k = 0; k < 4; k++ {
			if e.height[k] <= x && x < e.height[k+1] {
				break
			}
		}
	}

	for i := k + 1; i < 5; i++ {
		e.pos[i]++
	}
	for i := 0; i < 5; i++ {
		e.wantPos[i] += e.posIncr[i]
	}

	for i := 1; i < 4; i++ {
		d := e.wantPos[i] - float64(e.pos[i])
		if (d >= 1 && e.pos[i+1]-e.pos[i] > 1) || (d <= -1 && e.pos[i-1]-e.pos[i] < -1) {
			sign := 1
			if d < 0 {
				sign = -1
			}

			adjusted := e.parabolic(i, sign)
			if e.height[i-1] < adjusted && adjusted < e.height[i+1] {
				e.height[i] = adjusted
			} else {
				e.height[i] = e.linear(i, sign)
			}
			e.pos[i] += sign
		}
	}
}

// prime seeds the five markers from the first five observations.
func (e *latenessQuantileEstimator) prime() {
	for i := 1; i < 5; i++ {
		key := e.seed[i]
		j := i - 1
		for j >= 0 && e.seed[j] > key {
			e.seed[j+1] = e.seed[j]
			j--
		}
		e.seed[j+1] = key
	}

	for i := 0; i < 5; i++ {
		e.height[i] = e.seed[i]
		e.pos[i] = i
	}
	e.wantPos = [5]float64{0, 2 * e.target, 4 * e.target, 2 + 2*e.target, 4}
	e.primed = true
}

// parabolic computes the P-Square parabolic marker adjustment.
func (e *latenessQuantileEstimator) parabolic(i, d int) float64 {
	df := float64(d)
	cur := float64(e.pos[i])
	prev := float64(e.pos[i-1])
	next := float64(e.pos[i+1])

	term1 := df / (next - prev)
	term2 := (cur - prev + df) * (e.height[i+1] - e.height[i]) / (next - cur)
	term3 := (next - cur - df) * (e.height[i] - e.height[i-1]) / (cur - prev)

	return e.height[i] + term1*(term2+term3)
}

// linear computes the P-Square linear fallback marker adjustment, used
// when the parabolic estimate would leave the marker order invalid.
func (e *latenessQuantileEstimator) linear(i, d int) float64 {
	if d == 1 {
		return e.height[i] + (e.height[i+1]-e.height[i])/float64(e.pos[i+1]-e.pos[i])
	}
	return e.height[i] - (e.height[i]-e.height[i-1])/float64(e.pos[i]-e.pos[i-1])
}

// Quantile returns the current estimate; O(1) once primed, exact below 5
// samples.
func (e *latenessQuantileEstimator) Quantile() float64 {
	if e.count == 0 {
		return 0
	}
	if e.count < 5 {
		sorted := make([]float64, e.count)
		copy(sorted, e.seed[:e.count])
		for i := 1; i < e.count; i++ {
			key := sorted[i]
			j := i - 1
			for j >= 0 && sorted[j] > key {
				sorted[j+1] = sorted[j]
				j--
			}
			sorted[j+1] = key
		}
		index := int(float64(e.count-1) * e.target)
		if index >= e.count {
			index = e.count - 1
		}
		return sorted[index]
	}
	return e.height[2]
}

// Max returns the largest sample observed so far.
func (e *latenessQuantileEstimator) Max() float64 {
	if e.count == 0 {
		return 0
	}
	if e.count < 5 {
		max := e.seed[0]
		for i := 1; i < e.count; i++ {
			if e.seed[i] > max {
				max = e.seed[i]
			}
		}
		return max
	}
	return e.height[4]
}

// pSquareMultiQuantile runs one latenessQuantileEstimator per tracked
// percentile over the same incoming lateness-sample stream, so
// LatenessMetrics.Sample can read P50/P90/P95/P99 off one feed.
//
// Not safe for concurrent use; LatenessMetrics.mu guards every call.
type pSquareMultiQuantile struct {
	quantiles []*latenessQuantileEstimator
	sum       float64
	count     int
	max       float64
}

// newPSquareMultiQuantile builds one estimator per percentile in
// percentiles (each in [0, 1]).
func newPSquareMultiQuantile(percentiles ...float64) *pSquareMultiQuantile {
	m := &pSquareMultiQuantile{
		quantiles: make([]*latenessQuantileEstimator, len(percentiles)),
		max:       -math.MaxFloat64,
	}
	for i, p := range percentiles {
		m.quantiles[i] = newLatenessQuantileEstimator(p)
	}
	return m
}

// Update folds one lateness sample into every tracked quantile; O(k) in
// the number of percentiles tracked.
func (m *pSquareMultiQuantile) Update(x float64) {
	m.count++
	m.sum += x
	if x > m.max {
		m.max = x
	}
	for _, q := range m.quantiles {
		q.Update(x)
	}
}

// Quantile returns the i-th tracked percentile's current estimate.
func (m *pSquareMultiQuantile) Quantile(i int) float64 {
	if i < 0 || i >= len(m.quantiles) {
		return 0
	}
	return m.quantiles[i].Quantile()
}

// Count returns the total number of samples folded in.
func (m *pSquareMultiQuantile) Count() int { return m.count }

// Sum returns the running sum of all samples.
func (m *pSquareMultiQuantile) Sum() float64 { return m.sum }

// Max returns the largest sample observed.
func (m *pSquareMultiQuantile) Max() float64 {
	if m.count == 0 {
		return 0
	}
	return m.max
}

// Mean returns the arithmetic mean of all samples.
func (m *pSquareMultiQuantile) Mean() float64 {
	if m.count == 0 {
		return 0
	}
	return m.sum / float64(m.count)
}

// Reset clears all tracked state, for reuse between independent runs.
func (m *pSquareMultiQuantile) Reset() {
	m.sum = 0
	m.count = 0
	m.max = -math.MaxFloat64
	for i, q := range m.quantiles {
		m.quantiles[i] = newLatenessQuantileEstimator(q.target)
	}
}
