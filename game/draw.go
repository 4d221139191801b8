package game

import "math/rand"

// MaxNumber is the highest callable bingo number.
const MaxNumber = 75

// Draw returns a uniformly random number in [1, MaxNumber] that is not
// in excluding. The pick is made from the remaining pool rather than by
// rejection so a nearly-exhausted pool costs the same as a fresh one.
func Draw(excluding []int) (int, error) {
	seen := make(map[int]bool, len(excluding))
	for _, n := range excluding {
		seen[n] = true
	}

	remaining := make([]int, 0, MaxNumber-len(seen))
	for n := 1; n <= MaxNumber; n++ {
		if !seen[n] {
			remaining = append(remaining, n)
		}
	}
	if len(remaining) == 0 {
		return 0, ErrDrawExhausted
	}
	return remaining[rand.Intn(len(remaining))], nil
}
