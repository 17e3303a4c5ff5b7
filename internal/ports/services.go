package ports

import (
	"context"

	"github.com/savingsboard/core/internal/domain/entities"
)

// Confirmer asks the user an explicit yes/no question before a destructive
// action. Only a true result with a nil error counts as a yes.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// ConfirmFunc adapts a function to the Confirmer interface
type ConfirmFunc func(ctx context.Context, prompt string) (bool, error)

// Confirm calls f
func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) (bool, error) {
	return f(ctx, prompt)
}

// Storage operations reported to MetricsRecorder
const (
	StorageOpLoad   = "load"
	StorageOpSave   = "save"
	StorageOpDelete = "delete"
)

// MetricsRecorder receives board events for instrumentation
type MetricsRecorder interface {
	DepositToggled(selected bool)
	BoardReset(confirmed bool)
	StorageError(op string)
	BoardChanged(total float64, count int)
}

// BoardService interface for the challenge board operations
type BoardService interface {
	Initialize(ctx context.Context)
	Phase() entities.Phase
	Snapshot() (*entities.Board, error)
	Toggle(ctx context.Context, value int) (*entities.Board, error)
	Reset(ctx context.Context, confirmer Confirmer) (bool, error)
}

// ToggleRequest represents a request to flip one deposit cell
type ToggleRequest struct {
	Value int `param:"value" validate:"required,min=1,max=200"`
}

// ResetRequest represents a request to wipe the board
type ResetRequest struct {
	Confirm bool `json:"confirm" form:"confirm" query:"confirm"`
}

// Cell is one deposit cell of the grid
type Cell struct {
	Value    int  `json:"value"`
	Selected bool `json:"selected"`
}

// BoardView is the rendered state of the board: raw numbers plus the
// localized labels shown in the header
type BoardView struct {
	Phase            entities.Phase `json:"phase"`
	Title            string         `json:"title"`
	Goal             float64        `json:"goal"`
	GoalLabel        string         `json:"goal_label"`
	Total            float64        `json:"total"`
	TotalLabel       string         `json:"total_label"`
	Selected         []int          `json:"selected"`
	Count            int            `json:"count"`
	CountLabel       string         `json:"count_label"`
	ProgressPercent  float64        `json:"progress_percent"`
	GoalPercent      float64        `json:"goal_percent"`
	GoalPercentLabel string         `json:"goal_percent_label"`
	Cells            []Cell         `json:"cells"`
	Hints            []string       `json:"hints"`
}

// ResetResponse is returned by the reset endpoint
type ResetResponse struct {
	Reset bool      `json:"reset"`
	Board BoardView `json:"board"`
}

// MessageResponse represents a simple message response
type MessageResponse struct {
	Message string `json:"message"`
}
