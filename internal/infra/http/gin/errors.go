package ginserver

import (
	"errors"
	"net/http"
	"strings"

	gin "github.com/gin-gonic/gin"

	"bookify/internal/domain/shared/daterange"
	"bookify/internal/domain/shared/result"
)

// writeError maps domain failures to HTTP statuses. Coded errors keep their
// code in the body so clients can branch without parsing messages.
func writeError(c *gin.Context, err error) {
	var coded result.Error
	if errors.As(err, &coded) {
		c.JSON(statusForCode(coded.Code), gin.H{
			"code":  coded.Code,
			"error": coded.Message,
		})
		return
	}
	if errors.Is(err, daterange.ErrEndBeforeStart) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}

func statusForCode(code string) int {
	if strings.HasSuffix(code, ".NotFound") {
		return http.StatusNotFound
	}
	switch code {
	case "Booking.Overlap",
		"Booking.NotReserved",
		"Booking.NotConfirmed",
		"Booking.NotStarted",
		"Booking.AlreadyStarted",
		"Booking.NotPending",
		"User.EmailTaken":
		return http.StatusConflict
	case "User.InvalidName", "User.InvalidEmail":
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadRequest
	}
}
