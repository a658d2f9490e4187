package entity

import (
	"errors"
	"fmt"
)

const BotName = "computer"

type PlayerKind string

const (
	KindHuman PlayerKind = "human"
	KindBot   PlayerKind = "bot"
)

var ErrNoMover = errors.New("bot has no move selector")

// Player - one side of a match. The concrete type is either *HumanPlayer or *BotPlayer.
type Player interface {
	Name() string
	Marker() Marker
	Kind() PlayerKind
}

// Mover - picks a move for marker on board; implemented by the search engine.
type Mover interface {
	ChooseMove(board *Board, marker Marker) (*Position, error)
}

// HumanPlayer - moves are supplied from outside, cell by cell.
type HumanPlayer struct {
	name   string
	marker Marker
}

func NewHumanPlayer(name string, marker Marker) *HumanPlayer {
	return &HumanPlayer{name: name, marker: marker}
}

func (that *HumanPlayer) Name() string     { return that.name }
func (that *HumanPlayer) Marker() Marker   { return that.marker }
func (that *HumanPlayer) Kind() PlayerKind { return KindHuman }

// BotPlayer - delegates every move to its Mover.
type BotPlayer struct {
	name   string
	marker Marker
	mover  Mover
}

func NewBotPlayer(name string, marker Marker, mover Mover) *BotPlayer {
	if name == "" {
		name = BotName
	}

	return &BotPlayer{name: name, marker: marker, mover: mover}
}

func (that *BotPlayer) Name() string     { return that.name }
func (that *BotPlayer) Marker() Marker   { return that.marker }
func (that *BotPlayer) Kind() PlayerKind { return KindBot }

func (that *BotPlayer) Mover() Mover { return that.mover }

// ChooseMove - asks the mover for a move. A nil position means no empty cell is left.
func (that *BotPlayer) ChooseMove(board *Board) (*Position, error) {
	if that.mover == nil {
		return nil, ErrNoMover
	}

	pos, err := that.mover.ChooseMove(board, that.marker)
	if err != nil {
		return nil, fmt.Errorf("failed to choose move for %s: %w", that.name, err)
	}

	return pos, nil
}
