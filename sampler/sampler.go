package sampler

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"
)

// Sample draws shot outcomes from a probability distribution over
// basis-state indices. The cumulative table is built once and each
// draw is a binary search, so repeated shots over the same
// distribution stay cheap.
func Sample(probabilities []float64, shots int, rng *rand.Rand) []int {
	outcomes := make([]int, 0, shots)
	if shots == 0 || len(probabilities) == 0 {
		return outcomes
	}
	cumulative := make([]float64, len(probabilities))
	sum := 0.0
	for i, p := range probabilities {
		sum += p
		cumulative[i] = sum
	}
	for i := 0; i < shots; i++ {
		r := rng.Float64() * sum
		idx := sort.SearchFloat64s(cumulative, r)
		// SearchFloat64s returns the leftmost index with cumulative >= r.
		// Skip forward past zero-probability entries when r lands on a
		// plateau boundary.
		for idx < len(probabilities)-1 && probabilities[idx] == 0 {
			idx++
		}
		if idx >= len(probabilities) {
			idx = len(probabilities) - 1
		}
		outcomes = append(outcomes, idx)
	}
	return outcomes
}

// BitString renders a basis-state index as a measurement record.
// Qubit 0 is the leftmost character.
func BitString(index, numQubits int) string {
	var b strings.Builder
	for q := 0; q < numQubits; q++ {
		bit := (index >> (numQubits - 1 - q)) & 1
		fmt.Fprintf(&b, "%d", bit)
	}
	return b.String()
}

// Tally folds a list of basis-state outcomes into per-bit-string
// counts.
func Tally(outcomes []int, numQubits int) map[string]int {
	counts := map[string]int{}
	for _, o := range outcomes {
		counts[BitString(o, numQubits)]++
	}
	return counts
}
