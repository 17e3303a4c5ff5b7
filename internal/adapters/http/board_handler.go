package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/savingsboard/core/internal/application/services"
	"github.com/savingsboard/core/internal/domain/entities"
	"github.com/savingsboard/core/internal/infrastructure/logger"
	"github.com/savingsboard/core/internal/ports"
)

// CSRF token plumbing shared with the server's CSRF middleware
const (
	CSRFContextKey = "csrf"
	CSRFCookieName = "_csrf"
	CSRFFormField  = "_csrf"
)

// pageData is what the HTML templates see
type pageData struct {
	Lang   string
	CSRF   string
	View   ports.BoardView
	Labels services.Labels
}

// BoardHandler serves the board page, its form actions and the JSON API
type BoardHandler struct {
	boardService *services.BoardService
	presenter    *services.Presenter
	logger       *logger.Logger
}

// NewBoardHandler creates a new board handler
func NewBoardHandler(boardService *services.BoardService, presenter *services.Presenter, logger *logger.Logger) *BoardHandler {
	return &BoardHandler{
		boardService: boardService,
		presenter:    presenter,
		logger:       logger,
	}
}

// Page renders the board, or the loading placeholder while it is restored
func (h *BoardHandler) Page(c echo.Context) error {
	board, err := h.boardService.Snapshot()
	if errors.Is(err, entities.ErrBoardLoading) {
		return c.Render(http.StatusServiceUnavailable, "loading", h.page(c, h.presenter.LoadingView()))
	}
	if err != nil {
		return err
	}

	return c.Render(http.StatusOK, "board", h.page(c, h.presenter.View(board)))
}

// ToggleForm handles a cell click from the page
func (h *BoardHandler) ToggleForm(c echo.Context) error {
	if err := h.toggle(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/")
}

// ResetForm handles the reset button. The page only sends confirm=yes after
// the browser confirmation dialog was accepted; anything else declines.
func (h *BoardHandler) ResetForm(c echo.Context) error {
	confirmed := c.FormValue("confirm") == "yes"

	done, err := h.boardService.Reset(c.Request().Context(), answer(confirmed))
	if err != nil {
		return mapError(err)
	}
	if !done {
		h.logger.Debugw("Reset declined", "remote_ip", c.RealIP())
	}
	return c.Redirect(http.StatusSeeOther, "/")
}

// GetBoard godoc
// @Summary Get the board
// @Description The X-CSRF-Token response header carries the token that POST and DELETE requests must echo back.
// @Tags Board
// @Produce json
// @Success 200 {object} ports.BoardView
// @Header 200 {string} X-CSRF-Token "CSRF token"
// @Failure 503 {object} ports.MessageResponse
// @Router /board [get]
func (h *BoardHandler) GetBoard(c echo.Context) error {
	board, err := h.boardService.Snapshot()
	if err != nil {
		return mapError(err)
	}
	if token := csrfToken(c); token != "" {
		c.Response().Header().Set(echo.HeaderXCSRFToken, token)
	}
	return c.JSON(http.StatusOK, h.presenter.View(board))
}

// ToggleDeposit godoc
// @Summary Toggle one deposit
// @Tags Board
// @Produce json
// @Param value path int true "Deposit value (1-200)"
// @Param X-CSRF-Token header string true "CSRF token from GET /board"
// @Success 200 {object} ports.BoardView
// @Failure 400 {object} ports.MessageResponse
// @Failure 403 {object} ports.MessageResponse
// @Failure 503 {object} ports.MessageResponse
// @Router /board/deposits/{value}/toggle [post]
func (h *BoardHandler) ToggleDeposit(c echo.Context) error {
	if err := h.toggle(c); err != nil {
		return err
	}
	return h.GetBoard(c)
}

// ResetBoard godoc
// @Summary Reset the board
// @Description Clears every deposit and deletes the saved record. Requires {"confirm": true}.
// @Tags Board
// @Accept json
// @Produce json
// @Param X-CSRF-Token header string true "CSRF token from GET /board"
// @Param request body ports.ResetRequest true "Confirmation"
// @Success 200 {object} ports.ResetResponse
// @Failure 403 {object} ports.MessageResponse
// @Failure 503 {object} ports.MessageResponse
// @Router /board [delete]
func (h *BoardHandler) ResetBoard(c echo.Context) error {
	var req ports.ResetRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	done, err := h.boardService.Reset(c.Request().Context(), answer(req.Confirm))
	if err != nil {
		return mapError(err)
	}
	if !done {
		h.logger.Debugw("Reset declined", "remote_ip", c.RealIP())
	}

	board, err := h.boardService.Snapshot()
	if err != nil {
		return mapError(err)
	}

	return c.JSON(http.StatusOK, ports.ResetResponse{
		Reset: done,
		Board: h.presenter.View(board),
	})
}

func (h *BoardHandler) toggle(c echo.Context) error {
	var req ports.ToggleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid deposit value")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Deposit value must be between 1 and 200")
	}

	if _, err := h.boardService.Toggle(c.Request().Context(), req.Value); err != nil {
		return mapError(err)
	}
	return nil
}

func (h *BoardHandler) page(c echo.Context, view ports.BoardView) pageData {
	return pageData{
		Lang:   h.presenter.Lang(),
		CSRF:   csrfToken(c),
		View:   view,
		Labels: h.presenter.Labels(),
	}
}

func csrfToken(c echo.Context) string {
	token, _ := c.Get(CSRFContextKey).(string)
	return token
}

// answer is the confirmer for requests that carry the user's answer
func answer(yes bool) ports.Confirmer {
	return ports.ConfirmFunc(func(context.Context, string) (bool, error) {
		return yes, nil
	})
}

// mapError converts domain errors into HTTP errors
func mapError(err error) error {
	switch {
	case errors.Is(err, entities.ErrBoardLoading):
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Board is still loading")
	case errors.Is(err, entities.ErrDepositOutOfRange):
		return echo.NewHTTPError(http.StatusBadRequest, "Deposit value must be between 1 and 200")
	default:
		return err
	}
}
