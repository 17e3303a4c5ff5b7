package entities

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// PersistedState is the single record mirrored to the key-value store.
type PersistedState struct {
	Selected []int   `json:"selected"`
	Total    float64 `json:"total"`
}

// Encode serializes the record
func (p PersistedState) Encode() ([]byte, error) {
	if p.Selected == nil {
		p.Selected = []int{}
	}
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to encode state: %w", err)
	}
	return data, nil
}

// Board restores a board from the record. The total is kept verbatim.
func (p PersistedState) Board() *Board {
	return &Board{
		Selected: NewDepositSet(p.Selected...),
		Total:    p.Total,
	}
}

// DecodeState parses a stored record. Missing fields default to an empty
// selection and a zero total; anything else that does not fit the record
// shape is reported as ErrInvalidState.
func DecodeState(data []byte) (*PersistedState, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, ErrInvalidState
	}

	var raw struct {
		Selected []int   `json:"selected"`
		Total    float64 `json:"total"`
	}
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidState, err)
	}

	for _, v := range raw.Selected {
		if !ValidDeposit(v) {
			return nil, fmt.Errorf("%w: deposit %d out of range", ErrInvalidState, v)
		}
	}

	state := &PersistedState{Selected: raw.Selected, Total: raw.Total}
	if state.Selected == nil {
		state.Selected = []int{}
	}
	return state, nil
}
