package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "happythoughts/internal/errors"
	"happythoughts/internal/service"
)

// ThoughtHandler handles thought endpoints.
type ThoughtHandler struct {
	thoughtService service.ThoughtService
}

// NewThoughtHandler creates a new thought handler.
func NewThoughtHandler(thoughtService service.ThoughtService) *ThoughtHandler {
	return &ThoughtHandler{thoughtService: thoughtService}
}

// NewThoughtRequest is the body of /newthought.
type NewThoughtRequest struct {
	Username string `json:"username"`
	Message  string `json:"message"`
}

// ListThoughts godoc
// @Summary List the 20 newest thoughts
// @Tags thoughts
// @Produce json
// @Security AccessToken
// @Success 201 {array} model.Thought
// @Failure 400 {object} errors.Envelope
// @Failure 401 {object} errors.Envelope
// @Router /thoughts [get]
func (h *ThoughtHandler) ListThoughts(c echo.Context) error {
	thoughts, err := h.thoughtService.ListRecent(c.Request().Context(), IdentityFrom(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, thoughts)
}

// CreateThought godoc
// @Summary Post a thought
// @Tags thoughts
// @Accept json
// @Produce json
// @Param Authorization header string false "Access token, stored with the thought"
// @Param request body NewThoughtRequest true "Thought"
// @Success 201 {object} errors.Envelope{response=model.Thought}
// @Failure 400 {object} errors.Envelope
// @Router /newthought [post]
func (h *ThoughtHandler) CreateThought(c echo.Context) error {
	var req NewThoughtRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.Validation("invalid request body")
	}

	thought, err := h.thoughtService.Create(
		c.Request().Context(),
		req.Username,
		req.Message,
		c.Request().Header.Get(echo.HeaderAuthorization),
	)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, apperrors.OK(thought))
}

// LikeThought godoc
// @Summary Add one heart to a thought
// @Tags thoughts
// @Produce json
// @Param thoughtId path string true "Thought ID"
// @Success 200 {object} errors.Envelope{response=model.Thought}
// @Failure 400 {object} errors.Envelope
// @Router /{thoughtId}/like [post]
func (h *ThoughtHandler) LikeThought(c echo.Context) error {
	thought, err := h.thoughtService.Like(c.Request().Context(), c.Param("thoughtId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, apperrors.OK(thought))
}
