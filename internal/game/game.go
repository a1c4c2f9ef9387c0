package game

import (
	"errors"
	"math/rand"
)

const (
	Rows      = 6
	Cols      = 7
	WinLength = 4
	Capacity  = Rows * Cols
)

var (
	ErrColumnOutOfRange = errors.New("column out of range")
	ErrColumnFull       = errors.New("column is full")
)

type Player int

const (
	Empty   Player = 0
	PlayerA Player = 1
	PlayerB Player = 2
)

// Opponent returns the other player. Empty has no opponent.
func (p Player) Opponent() Player {
	switch p {
	case PlayerA:
		return PlayerB
	case PlayerB:
		return PlayerA
	}
	return Empty
}

func (p Player) String() string {
	switch p {
	case PlayerA:
		return "A"
	case PlayerB:
		return "B"
	}
	return "-"
}

type Move struct {
	Column int    `json:"column"`
	Row    int    `json:"row"`
	Player Player `json:"player"`
}

// Board is the full game state. Copying a Board yields an independent board.
type Board struct {
	grid     [Rows][Cols]Player
	heights  [Cols]int
	current  Player
	last     Player
	starting Player
	moves    int
}

// NewBoard returns an empty board where first moves first. Before the first
// move the last mover equals the current player.
func NewBoard(first Player) Board {
	if first != PlayerB {
		first = PlayerA
	}
	return Board{current: first, last: first, starting: first}
}

// NewRandomBoard flips a coin for the starting player.
func NewRandomBoard(rng *rand.Rand) Board {
	if rng.Intn(2) == 0 {
		return NewBoard(PlayerA)
	}
	return NewBoard(PlayerB)
}

func (b *Board) Clone() Board {
	return *b
}

func (b *Board) CurrentPlayer() Player  { return b.current }
func (b *Board) LastMover() Player      { return b.last }
func (b *Board) StartingPlayer() Player { return b.starting }
func (b *Board) MoveCount() int         { return b.moves }

// Cell returns the disc at row, col where row 0 is the top.
func (b *Board) Cell(row, col int) Player {
	if row < 0 || row >= Rows || col < 0 || col >= Cols {
		return Empty
	}
	return b.grid[row][col]
}

func (b *Board) Height(col int) int {
	if col < 0 || col >= Cols {
		return 0
	}
	return b.heights[col]
}

// Grid returns a copy of the cells for rendering.
func (b *Board) Grid() [Rows][Cols]Player {
	return b.grid
}

func (b *Board) Heights() [Cols]int {
	return b.heights
}

func (b *Board) IsValidMove(col int) bool {
	return col >= 0 && col < Cols && b.heights[col] < Rows
}

// LegalColumns lists the playable columns in ascending order.
func (b *Board) LegalColumns() []int {
	valid := make([]int, 0, Cols)
	for col := 0; col < Cols; col++ {
		if b.heights[col] < Rows {
			valid = append(valid, col)
		}
	}
	return valid
}

// ApplyMove drops the current player's disc into col. On success the last
// mover becomes that player and the turn passes to the opponent. On error the
// board is left untouched.
func (b *Board) ApplyMove(col int) (Move, error) {
	if col < 0 || col >= Cols {
		return Move{}, ErrColumnOutOfRange
	}
	if b.heights[col] >= Rows {
		return Move{}, ErrColumnFull
	}

	row := Rows - 1 - b.heights[col]
	b.grid[row][col] = b.current
	b.heights[col]++
	b.moves++
	b.last = b.current
	b.current = b.current.Opponent()

	return Move{Column: col, Row: row, Player: b.last}, nil
}

// Evaluate reports the state of the game. Only the last mover can have
// completed a line, so only their discs are scanned.
func (b *Board) Evaluate() Outcome {
	if b.moves > 0 && b.hasLine(b.last) {
		return Win(b.last)
	}
	for col := 0; col < Cols; col++ {
		if b.heights[col] < Rows {
			return InProgress
		}
	}
	return Draw
}

func (b *Board) hasLine(player Player) bool {
	// horizontal
	for row := 0; row < Rows; row++ {
		for col := 0; col <= Cols-WinLength; col++ {
			if b.line(player, row, col, 0, 1) {
				return true
			}
		}
	}

	// vertical
	for row := 0; row <= Rows-WinLength; row++ {
		for col := 0; col < Cols; col++ {
			if b.line(player, row, col, 1, 0) {
				return true
			}
		}
	}

	// top-left to bottom-right
	for row := 0; row <= Rows-WinLength; row++ {
		for col := 0; col <= Cols-WinLength; col++ {
			if b.line(player, row, col, 1, 1) {
				return true
			}
		}
	}

	// bottom-left to top-right
	for row := WinLength - 1; row < Rows; row++ {
		for col := 0; col <= Cols-WinLength; col++ {
			if b.line(player, row, col, -1, 1) {
				return true
			}
		}
	}

	return false
}

func (b *Board) line(player Player, row, col, dRow, dCol int) bool {
	for i := 0; i < WinLength; i++ {
		if b.grid[row+dRow*i][col+dCol*i] != player {
			return false
		}
	}
	return true
}
