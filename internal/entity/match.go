package entity

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
)

const (
	StatusFinished = "finished"
	StatusOngoing  = "ongoing"

	// NoWinner - Match.Winner value while a round is running or after a tie.
	NoWinner = -1
)

var ErrUnknownMatchStatus = errors.New("unknown match status")

// Match - a sequence of rounds between two players on one board.
// Player 1 always plays X and player 2 always plays O.
type Match struct {
	ID      string
	Board   *Board
	Players [2]Player
	Scores  [2]int

	// Round - number of completed rounds.
	Round       int
	Current     int
	Status      string
	Winner      int
	WinningLine []Position
}

func NewMatch(id string, board *Board, first, second Player) *Match {
	return &Match{
		ID:      id,
		Board:   board,
		Players: [2]Player{first, second},
		Current: 0,
		Status:  StatusOngoing,
		Winner:  NoWinner,
	}
}

func (that *Match) CurrentPlayer() Player {
	return that.Players[that.Current]
}

func (that *Match) OtherPlayer() Player {
	return that.Players[1-that.Current]
}

func (that *Match) SwitchPlayer() {
	that.Current = 1 - that.Current
}

func (that *Match) IsFinished() bool {
	return that.Status == StatusFinished
}

func (that *Match) IsOngoing() bool {
	return that.Status == StatusOngoing
}

func (that *Match) ConfirmOngoingState() error {
	switch {
	case that.IsFinished():
		return apperror.ErrGameFinished
	case that.IsOngoing():
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnknownMatchStatus, that.Status)
	}
}

// FinishRound - records a terminal outcome. A win scores exactly one point,
// even when the last move completed more than one line.
func (that *Match) FinishRound(outcome Outcome) {
	that.Status = StatusFinished
	that.Round++

	if outcome.State == StateWin {
		that.Winner = that.Current
		that.Scores[that.Current]++
		that.WinningLine = outcome.WinningLine
	}
}

// StartRound - clears the board; the starting player alternates with every completed round.
func (that *Match) StartRound() {
	that.Board.Clear()
	that.Current = that.Round & 1
	that.Status = StatusOngoing
	that.Winner = NoWinner
	that.WinningLine = nil
}

// ResolvePlayerNames - validates the names entered for a new match.
// In a match against the bot the human may not take the bot's name;
// identical names are told apart with a numeric suffix.
func ResolvePlayerNames(first, second string, withBot bool) (string, string, error) {
	first = strings.TrimSpace(first)
	second = strings.TrimSpace(second)

	if withBot {
		second = BotName
		if strings.EqualFold(first, BotName) {
			return "", "", fmt.Errorf("%w: %s", apperror.ErrReservedName, first)
		}
	}

	if first == "" || second == "" {
		return "", "", apperror.ErrEmptyName
	}

	if first == second {
		first += " 1"
		second += " 2"
	}

	return first, second, nil
}

type PlayerSnapshot struct {
	Name   string     `json:"name"`
	Marker Marker     `json:"marker"`
	Kind   PlayerKind `json:"kind"`
	Score  int        `json:"score"`
}

// MatchSnapshot - detached copy of a match, safe to hand out while the match keeps changing.
type MatchSnapshot struct {
	ID           string           `json:"id"`
	Rows         int              `json:"rows"`
	Cols         int              `json:"cols"`
	WinLength    int              `json:"win_length"`
	Cells        []string         `json:"cells"`
	Players      []PlayerSnapshot `json:"players"`
	RoundsPlayed int              `json:"rounds_played"`
	Turn         Marker           `json:"turn,omitempty"`
	Status       string           `json:"status"`
	Winner       Marker           `json:"winner,omitempty"`
	WinningLine  []Position       `json:"winning_line,omitempty"`
}

func (that *Match) Snapshot() MatchSnapshot {
	snapshot := MatchSnapshot{
		ID:           that.ID,
		Rows:         that.Board.Rows(),
		Cols:         that.Board.Cols(),
		WinLength:    that.Board.WinLength(),
		Cells:        strings.Split(that.Board.Serialize(), "|"),
		Players:      make([]PlayerSnapshot, 0, len(that.Players)),
		RoundsPlayed: that.Round,
		Status:       that.Status,
	}

	for i, player := range that.Players {
		snapshot.Players = append(snapshot.Players, PlayerSnapshot{
			Name:   player.Name(),
			Marker: player.Marker(),
			Kind:   player.Kind(),
			Score:  that.Scores[i],
		})
	}

	if that.IsOngoing() {
		snapshot.Turn = that.CurrentPlayer().Marker()
	}

	if that.Winner != NoWinner {
		snapshot.Winner = that.Players[that.Winner].Marker()
		snapshot.WinningLine = append([]Position(nil), that.WinningLine...)
	}

	return snapshot
}
