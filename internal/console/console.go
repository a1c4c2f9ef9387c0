package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"connectfour/internal/game"
	"connectfour/internal/session"
)

const separator = "|-----"

var ErrNoInput = errors.New("input closed before a move was entered")

func symbol(p game.Player) string {
	switch p {
	case session.Human:
		return "X"
	case session.AI:
		return "O"
	}
	return " "
}

// Render draws the board with 1-based column numbers on top.
func Render(w io.Writer, b *game.Board) {
	var sb strings.Builder

	for col := 0; col < game.Cols; col++ {
		fmt.Fprintf(&sb, "   %d  ", col+1)
	}
	sb.WriteString("\n")
	writeSeparator(&sb)

	for row := 0; row < game.Rows; row++ {
		for col := 0; col < game.Cols; col++ {
			fmt.Fprintf(&sb, "|  %s  ", symbol(b.Cell(row, col)))
		}
		sb.WriteString("|\n")
		writeSeparator(&sb)
	}

	io.WriteString(w, sb.String())
}

func writeSeparator(sb *strings.Builder) {
	sb.WriteString(strings.Repeat(separator, game.Cols))
	sb.WriteString("|\n")
}

// ReadMove prompts until the player enters an open column and returns it
// 0-based.
func ReadMove(in *bufio.Reader, out io.Writer, b *game.Board) (int, error) {
	for {
		fmt.Fprint(out, "Make your move (1-7): ")

		line, err := in.ReadString('\n')
		if err != nil && line == "" {
			if errors.Is(err, io.EOF) {
				return -1, ErrNoInput
			}
			return -1, err
		}

		move, convErr := strconv.Atoi(strings.TrimSpace(line))
		switch {
		case convErr != nil:
			fmt.Fprintln(out, "Invalid input. Please pick a column from 1 to 7.")
		case move < 1 || move > game.Cols:
			fmt.Fprintln(out, "Please pick a column from 1 to 7.")
		case !b.IsValidMove(move - 1):
			fmt.Fprintln(out, "That column is full. Please pick another column.")
		default:
			return move - 1, nil
		}
	}
}

// Play runs s to the end, reading the human's moves from in.
func Play(in io.Reader, out io.Writer, s *session.Session) (game.Outcome, error) {
	reader := bufio.NewReader(in)

	if board := s.Board(); board.StartingPlayer() == session.Human {
		Render(out, &board)
		fmt.Fprintln(out)
	}

	for !s.Outcome().IsTerminal() {
		if s.AITurn() {
			move, _, err := s.PlayAI()
			if err != nil {
				return s.Outcome(), fmt.Errorf("ai move: %w", err)
			}
			fmt.Fprintf(out, "AI makes its move: %d\n", move.Column+1)
		} else {
			board := s.Board()
			col, err := ReadMove(reader, out, &board)
			if err != nil {
				return s.Outcome(), err
			}
			if _, err := s.PlayHuman(col); err != nil {
				return s.Outcome(), fmt.Errorf("human move: %w", err)
			}
		}

		board := s.Board()
		Render(out, &board)
		fmt.Fprintln(out)
	}

	outcome := s.Outcome()
	fmt.Fprintln(out, ResultMessage(outcome))
	return outcome, nil
}

func ResultMessage(outcome game.Outcome) string {
	switch {
	case outcome == game.Win(session.Human):
		return "Connect 4: Player wins!"
	case outcome == game.Win(session.AI):
		return "Connect 4: AI wins!"
	case outcome == game.Draw:
		return "It's a draw!"
	}
	return "Game in progress"
}
