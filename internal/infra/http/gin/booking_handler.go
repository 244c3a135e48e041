package ginserver

import (
	"net/http"
	"time"

	gin "github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"bookify/internal/app/commands"
	BookingApp "bookify/internal/app/handlers/booking"
	"bookify/internal/app/queries"
)

type BookingHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
}

type reserveBookingRequest struct {
	ApartmentID string `json:"apartment_id" binding:"required"`
	UserID      string `json:"user_id" binding:"required"`
	StartDate   string `json:"start_date" binding:"required"`
	EndDate     string `json:"end_date" binding:"required"`
}

const dateLayout = "2006-01-02"

func (h BookingHandler) Reserve(c *gin.Context) {
	if h.Commands == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "commands unavailable"})
		return
	}
	var req reserveBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	start, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start_date must be formatted as 2006-01-02"})
		return
	}
	end, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "end_date must be formatted as 2006-01-02"})
		return
	}
	cmd := BookingApp.ReserveBookingCommand{
		CommandID:       generateCommandID(),
		ApartmentID:     req.ApartmentID,
		UserID:          req.UserID,
		StartDate:       start,
		EndDate:         end,
		IdempotencyKeyV: c.GetHeader("Idempotency-Key"),
	}
	result, err := commands.Dispatch[BookingApp.ReserveBookingCommand, *BookingApp.ReserveBookingResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h BookingHandler) Get(c *gin.Context) {
	if h.Queries == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "queries unavailable"})
		return
	}
	q := BookingApp.GetBookingQuery{BookingID: c.Param("id")}
	result, err := queries.Ask[BookingApp.GetBookingQuery, *BookingApp.BookingResponse](c.Request.Context(), h.Queries, q)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h BookingHandler) Confirm(c *gin.Context) {
	cmd := BookingApp.ConfirmBookingCommand{
		BookingID:       c.Param("id"),
		IdempotencyKeyV: c.GetHeader("Idempotency-Key"),
	}
	h.transition(c, func() (*BookingApp.TransitionResult, error) {
		return commands.Dispatch[BookingApp.ConfirmBookingCommand, *BookingApp.TransitionResult](c.Request.Context(), h.Commands, cmd)
	})
}

func (h BookingHandler) Reject(c *gin.Context) {
	cmd := BookingApp.RejectBookingCommand{
		BookingID:       c.Param("id"),
		IdempotencyKeyV: c.GetHeader("Idempotency-Key"),
	}
	h.transition(c, func() (*BookingApp.TransitionResult, error) {
		return commands.Dispatch[BookingApp.RejectBookingCommand, *BookingApp.TransitionResult](c.Request.Context(), h.Commands, cmd)
	})
}

func (h BookingHandler) Cancel(c *gin.Context) {
	cmd := BookingApp.CancelBookingCommand{
		BookingID:       c.Param("id"),
		IdempotencyKeyV: c.GetHeader("Idempotency-Key"),
	}
	h.transition(c, func() (*BookingApp.TransitionResult, error) {
		return commands.Dispatch[BookingApp.CancelBookingCommand, *BookingApp.TransitionResult](c.Request.Context(), h.Commands, cmd)
	})
}

func (h BookingHandler) Complete(c *gin.Context) {
	cmd := BookingApp.CompleteBookingCommand{
		BookingID:       c.Param("id"),
		IdempotencyKeyV: c.GetHeader("Idempotency-Key"),
	}
	h.transition(c, func() (*BookingApp.TransitionResult, error) {
		return commands.Dispatch[BookingApp.CompleteBookingCommand, *BookingApp.TransitionResult](c.Request.Context(), h.Commands, cmd)
	})
}

func (h BookingHandler) transition(c *gin.Context, dispatch func() (*BookingApp.TransitionResult, error)) {
	if h.Commands == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "commands unavailable"})
		return
	}
	result, err := dispatch()
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func generateCommandID() string {
	return uuid.NewString()
}

var _ BookingHTTP = BookingHandler{}
