package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/savingsboard/core/internal/domain/entities"
	"github.com/savingsboard/core/internal/infrastructure/logger"
	"github.com/savingsboard/core/internal/ports"
)

// ResetPrompt is the question asked before wiping the board
const ResetPrompt = "Are you sure you want to reset all progress?"

// BoardService owns the in-memory board for one session. It starts in the
// loading phase and accepts no operations until Initialize has read the
// persisted record. Mutations are serialized and each one is mirrored to the
// repository before the lock is released; storage failures are logged and
// counted but never roll back the in-memory change.
type BoardService struct {
	repo    ports.StateRepository
	logger  *logger.Logger
	metrics ports.MetricsRecorder
	timeout time.Duration

	mu    sync.Mutex
	board *entities.Board
	ready chan struct{}
	once  sync.Once
}

// NewBoardService creates a new board service in the loading phase
func NewBoardService(repo ports.StateRepository, appLogger *logger.Logger, recorder ports.MetricsRecorder, timeout time.Duration) *BoardService {
	if recorder == nil {
		recorder = noopRecorder{}
	}
	return &BoardService{
		repo:    repo,
		logger:  appLogger.WithComponent("board"),
		metrics: recorder,
		timeout: timeout,
		board:   entities.NewBoard(),
		ready:   make(chan struct{}),
	}
}

var _ ports.BoardService = (*BoardService)(nil)

// Initialize restores the board from the repository and moves the service to
// the ready phase. A missing or unreadable record starts an empty board.
// Only the first call does any work.
func (s *BoardService) Initialize(ctx context.Context) {
	s.once.Do(func() {
		board := entities.NewBoard()

		loadCtx, cancel := s.storageContext(ctx)
		state, err := s.repo.Load(loadCtx)
		cancel()

		switch {
		case err == nil:
			board = state.Board()
			s.logger.Infow("Board restored",
				"selected", board.Selected.Len(),
				"total", board.Total,
			)
		case errors.Is(err, entities.ErrStateNotFound):
			s.logger.Info("No saved board found, starting empty")
		default:
			s.storageFailed(ports.StorageOpLoad, err)
		}

		s.mu.Lock()
		s.board = board
		s.metrics.BoardChanged(board.Total, board.Selected.Len())
		s.mu.Unlock()

		close(s.ready)
	})
}

// Ready is closed once the board has been initialized
func (s *BoardService) Ready() <-chan struct{} {
	return s.ready
}

// Phase reports whether the board is still loading
func (s *BoardService) Phase() entities.Phase {
	select {
	case <-s.ready:
		return entities.PhaseReady
	default:
		return entities.PhaseLoading
	}
}

// Snapshot returns a copy of the current board
func (s *BoardService) Snapshot() (*entities.Board, error) {
	if s.Phase() != entities.PhaseReady {
		return nil, entities.ErrBoardLoading
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board.Clone(), nil
}

// Toggle flips one deposit and persists the result
func (s *BoardService) Toggle(ctx context.Context, value int) (*entities.Board, error) {
	if s.Phase() != entities.PhaseReady {
		return nil, entities.ErrBoardLoading
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	selected, err := s.board.Toggle(value)
	if err != nil {
		return nil, err
	}

	s.metrics.DepositToggled(selected)
	s.metrics.BoardChanged(s.board.Total, s.board.Selected.Len())
	s.logger.LogBoardAction("toggle", map[string]interface{}{
		"value":    value,
		"selected": selected,
		"total":    s.board.Total,
	})

	s.persist(ctx)

	return s.board.Clone(), nil
}

// Reset wipes the board after an explicit confirmation. It returns false,
// leaving everything untouched, when the confirmer declines or fails.
func (s *BoardService) Reset(ctx context.Context, confirmer ports.Confirmer) (bool, error) {
	if s.Phase() != entities.PhaseReady {
		return false, entities.ErrBoardLoading
	}

	ok, err := confirmer.Confirm(ctx, ResetPrompt)
	if err != nil {
		s.logger.Warnw("Reset confirmation failed", "error", err)
		s.metrics.BoardReset(false)
		return false, nil
	}
	if !ok {
		s.metrics.BoardReset(false)
		return false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.board.Clear()
	s.metrics.BoardReset(true)
	s.metrics.BoardChanged(0, 0)
	s.logger.LogBoardAction("reset", nil)

	deleteCtx, cancel := s.storageContext(ctx)
	defer cancel()
	if err := s.repo.Delete(deleteCtx); err != nil {
		s.storageFailed(ports.StorageOpDelete, err)
	}

	return true, nil
}

// persist mirrors the board to the repository; callers hold s.mu
func (s *BoardService) persist(ctx context.Context) {
	saveCtx, cancel := s.storageContext(ctx)
	defer cancel()

	if err := s.repo.Save(saveCtx, s.board.State()); err != nil {
		s.storageFailed(ports.StorageOpSave, err)
	}
}

func (s *BoardService) storageFailed(op string, err error) {
	key := ""
	if k, ok := s.repo.(interface{ Key() string }); ok {
		key = k.Key()
	}
	s.logger.LogStorageError(op, key, err)
	s.metrics.StorageError(op)
}

// storageContext bounds a storage call by the configured timeout,
// independent of the caller's cancellation
func (s *BoardService) storageContext(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx = context.WithoutCancel(ctx)
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

type noopRecorder struct{}

func (noopRecorder) DepositToggled(bool)       {}
func (noopRecorder) BoardReset(bool)           {}
func (noopRecorder) StorageError(string)       {}
func (noopRecorder) BoardChanged(float64, int) {}
