package game

import "math/rand"

const (
	// CardCount is the size of the cartela catalogue players pick from.
	CardCount = 300
	// BoardSize is the number of cells on a card.
	BoardSize = 25
	// FreeIndex is the pre-marked center cell.
	FreeIndex = 12
)

// Board builds the 5x5 board for a card id. Cards are value objects:
// the same id always produces the same board, so nothing about a card
// ever needs to be stored. Column c holds 5 distinct numbers from
// [15c+1, 15c+15], laid out row-major; the center cell is 0 (free).
func Board(cardID int) ([]int, error) {
	if cardID < 1 || cardID > CardCount {
		return nil, ErrCardNotFound
	}

	rng := rand.New(rand.NewSource(int64(cardID)))
	board := make([]int, BoardSize)
	for col := 0; col < 5; col++ {
		nums := rng.Perm(15)
		for row := 0; row < 5; row++ {
			board[row*5+col] = col*15 + nums[row] + 1
		}
	}
	board[FreeIndex] = 0
	return board, nil
}
