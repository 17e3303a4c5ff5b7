package entities

import (
	"errors"
	"sort"
)

// Common errors
var (
	ErrBoardLoading      = errors.New("board is still loading")
	ErrDepositOutOfRange = errors.New("deposit value out of range")
	ErrInvalidState      = errors.New("invalid persisted state")
	ErrStateNotFound     = errors.New("persisted state not found")
)

// Board limits
const (
	MinDeposit = 1
	MaxDeposit = 200
	// DepositCount is the number of cells on the board.
	DepositCount = MaxDeposit - MinDeposit + 1
	// Goal is the target sum the running total is measured against.
	Goal float64 = 20000
	// DefaultStateKey is the key the persisted record is stored under.
	DefaultStateKey = "desafio-depositos"
)

// Phase is the lifecycle state of a board session
type Phase string

const (
	PhaseLoading Phase = "loading"
	PhaseReady   Phase = "ready"
)

// ValidDeposit reports whether v is one of the board's deposit values.
func ValidDeposit(v int) bool {
	return v >= MinDeposit && v <= MaxDeposit
}

// DepositSet is a set of distinct deposit values.
type DepositSet struct {
	values map[int]struct{}
}

// NewDepositSet creates a set holding the given values; duplicates collapse.
func NewDepositSet(values ...int) DepositSet {
	s := DepositSet{values: make(map[int]struct{}, len(values))}
	for _, v := range values {
		s.values[v] = struct{}{}
	}
	return s
}

// Has checks if v is in the set
func (s DepositSet) Has(v int) bool {
	_, ok := s.values[v]
	return ok
}

// Len returns the number of members
func (s DepositSet) Len() int {
	return len(s.values)
}

// Sum returns the sum of all members
func (s DepositSet) Sum() int {
	sum := 0
	for v := range s.values {
		sum += v
	}
	return sum
}

// Sorted returns the members in ascending order
func (s DepositSet) Sorted() []int {
	out := make([]int, 0, len(s.values))
	for v := range s.values {
		out = append(out, v)
	}
	sort.Ints(out)
	return out
}

// Equal reports whether both sets hold the same members.
func (s DepositSet) Equal(other DepositSet) bool {
	if s.Len() != other.Len() {
		return false
	}
	for v := range s.values {
		if !other.Has(v) {
			return false
		}
	}
	return true
}

func (s *DepositSet) add(v int) {
	if s.values == nil {
		s.values = make(map[int]struct{})
	}
	s.values[v] = struct{}{}
}

func (s *DepositSet) remove(v int) {
	delete(s.values, v)
}

// Board is the in-memory state of a challenge: the selected deposits and the
// running total. Total is cached, not derived, because a restored total is
// taken from the persisted record as-is.
type Board struct {
	Selected DepositSet
	Total    float64
}

// NewBoard returns an empty board
func NewBoard() *Board {
	return &Board{Selected: NewDepositSet()}
}

// Toggle flips v in the selected set and adjusts the total. It returns true
// when v ends up selected.
func (b *Board) Toggle(v int) (bool, error) {
	if !ValidDeposit(v) {
		return false, ErrDepositOutOfRange
	}

	if b.Selected.Has(v) {
		b.Selected.remove(v)
		b.Total -= float64(v)
		return false, nil
	}

	b.Selected.add(v)
	b.Total += float64(v)
	return true, nil
}

// Clear empties the board
func (b *Board) Clear() {
	b.Selected = NewDepositSet()
	b.Total = 0
}

// Clone returns a deep copy of the board
func (b *Board) Clone() *Board {
	return &Board{
		Selected: NewDepositSet(b.Selected.Sorted()...),
		Total:    b.Total,
	}
}

// State returns the record that mirrors this board in storage
func (b *Board) State() PersistedState {
	return PersistedState{
		Selected: b.Selected.Sorted(),
		Total:    b.Total,
	}
}

// ProgressPercent is the share of the goal reached, capped at 100.
func (b *Board) ProgressPercent() float64 {
	return min(b.GoalPercent(), 100)
}

// GoalPercent is the share of the goal reached, uncapped.
func (b *Board) GoalPercent() float64 {
	return b.Total / Goal * 100
}

// CountPercent is the share of cells selected.
func (b *Board) CountPercent() float64 {
	return float64(b.Selected.Len()) / DepositCount * 100
}
