package game

// Pattern names the shape that completed a win.
type Pattern string

const (
	PatternRow      Pattern = "row"
	PatternColumn   Pattern = "column"
	PatternDiagonal Pattern = "diagonal"
	PatternCorners  Pattern = "corners"
	PatternBlackout Pattern = "blackout"
)

// Line is one completed line-equivalent on a board.
type Line struct {
	Kind    Pattern
	Indices []int
}

// lineIndices enumerates every line-equivalent: 5 rows, 5 columns, both
// diagonals and the four corners. Index 12 is the free center.
func lineIndices() []Line {
	lines := make([]Line, 0, 13)
	for row := 0; row < 5; row++ {
		idx := make([]int, 5)
		for col := 0; col < 5; col++ {
			idx[col] = row*5 + col
		}
		lines = append(lines, Line{Kind: PatternRow, Indices: idx})
	}
	for col := 0; col < 5; col++ {
		idx := make([]int, 5)
		for row := 0; row < 5; row++ {
			idx[row] = row*5 + col
		}
		lines = append(lines, Line{Kind: PatternColumn, Indices: idx})
	}
	lines = append(lines,
		Line{Kind: PatternDiagonal, Indices: []int{0, 6, 12, 18, 24}},
		Line{Kind: PatternDiagonal, Indices: []int{4, 8, 12, 16, 20}},
		Line{Kind: PatternCorners, Indices: []int{0, 4, 20, 24}},
	)
	return lines
}

// CompletedLines reports every completed line-equivalent on the board
// given the numbers the player has marked. The center cell counts as
// marked regardless of input.
func CompletedLines(board []int, marked []int) []Line {
	if len(board) != BoardSize {
		return nil
	}
	markedSet := make(map[int]bool, len(marked))
	for _, n := range marked {
		markedSet[n] = true
	}
	cellMarked := func(i int) bool {
		return i == FreeIndex || markedSet[board[i]]
	}

	var done []Line
	for _, line := range lineIndices() {
		complete := true
		for _, i := range line.Indices {
			if !cellMarked(i) {
				complete = false
				break
			}
		}
		if complete {
			done = append(done, line)
		}
	}
	return done
}

// Validate decides whether a board and marked set satisfy the win
// condition for a mode. It is a pure function: the same inputs always
// produce the same answer. The returned pattern names the first shape
// that contributed to the win.
func Validate(mode Mode, board []int, marked []int) (Pattern, bool) {
	if len(board) != BoardSize {
		return "", false
	}

	if mode == ModeBlackout {
		markedSet := make(map[int]bool, len(marked))
		for _, n := range marked {
			markedSet[n] = true
		}
		for i, n := range board {
			if i == FreeIndex {
				continue
			}
			if !markedSet[n] {
				return "", false
			}
		}
		return PatternBlackout, true
	}

	lines := CompletedLines(board, marked)
	need := 1
	if mode == ModeTwoLine {
		need = 2
	}
	if len(lines) < need {
		return "", false
	}
	return lines[0].Kind, true
}
