package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/ErlanBelekov/calendar-api/internal/domain"
	"github.com/ErlanBelekov/calendar-api/internal/usecase"
	"github.com/gin-gonic/gin"
)

type eventUsecaser interface {
	Create(ctx context.Context, userID string, in usecase.EventInput) (*domain.Event, error)
	List(ctx context.Context, userID string) ([]*domain.Event, error)
	Get(ctx context.Context, id, userID string) (*domain.Event, error)
	Update(ctx context.Context, id, userID string, in usecase.EventInput) (*domain.Event, error)
	Delete(ctx context.Context, id, userID string) error
}

type EventHandler struct {
	eventUsecase eventUsecaser
	logger       *slog.Logger
}

func NewEventHandler(eventUsecase eventUsecaser, logger *slog.Logger) *EventHandler {
	return &EventHandler{eventUsecase: eventUsecase, logger: logger.With("component", "event_handler")}
}

type eventRequest struct {
	Title       string    `json:"title"       binding:"required,max=255"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"        binding:"required"`
}

func (r eventRequest) input() usecase.EventInput {
	return usecase.EventInput{Title: r.Title, Description: r.Description, Date: r.Date}
}

type eventResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	UserID      string    `json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func newEventResponse(e *domain.Event) eventResponse {
	return eventResponse{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		Date:        e.Date,
		UserID:      e.UserID,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

// POST /events
func (h *EventHandler) Create(c *gin.Context, id domain.Identity) {
	var req eventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	event, err := h.eventUsecase.Create(c.Request.Context(), id.UserID, req.input())
	if err != nil {
		if errors.Is(err, domain.ErrInvalidEvent) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "create event", "user_id", id.UserID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	c.JSON(http.StatusCreated, newEventResponse(event))
}

// GET /events
func (h *EventHandler) List(c *gin.Context, id domain.Identity) {
	events, err := h.eventUsecase.List(c.Request.Context(), id.UserID)
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "list events", "user_id", id.UserID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	resp := make([]eventResponse, len(events))
	for i, e := range events {
		resp[i] = newEventResponse(e)
	}
	c.JSON(http.StatusOK, resp)
}

// GET /events/:id
func (h *EventHandler) GetByID(c *gin.Context, id domain.Identity) {
	eventID := c.Param("id")

	event, err := h.eventUsecase.Get(c.Request.Context(), eventID, id.UserID)
	if err != nil {
		h.fail(c, "get event", eventID, err, errViewNotOwned)
		return
	}

	c.JSON(http.StatusOK, newEventResponse(event))
}

// PUT /events/:id
func (h *EventHandler) Update(c *gin.Context, id domain.Identity) {
	var req eventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	eventID := c.Param("id")

	event, err := h.eventUsecase.Update(c.Request.Context(), eventID, id.UserID, req.input())
	if err != nil {
		h.fail(c, "update event", eventID, err, errUpdateNotOwned)
		return
	}

	c.JSON(http.StatusOK, newEventResponse(event))
}

// DELETE /events/:id
func (h *EventHandler) Delete(c *gin.Context, id domain.Identity) {
	eventID := c.Param("id")

	if err := h.eventUsecase.Delete(c.Request.Context(), eventID, id.UserID); err != nil {
		h.fail(c, "delete event", eventID, err, errDeleteNotOwned)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": msgEventDeleted})
}

// fail answers a missing or foreign event with the same 403 and notOwnedMsg.
func (h *EventHandler) fail(c *gin.Context, op, eventID string, err error, notOwnedMsg string) {
	switch {
	case errors.Is(err, domain.ErrEventNotFound):
		c.JSON(http.StatusForbidden, gin.H{"error": notOwnedMsg})
	case errors.Is(err, domain.ErrInvalidEvent):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.logger.ErrorContext(c.Request.Context(), op, "event_id", eventID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
	}
}
