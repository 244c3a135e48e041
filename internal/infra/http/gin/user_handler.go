package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"

	"bookify/internal/app/commands"
	UserApp "bookify/internal/app/handlers/user"
)

type UserHandler struct {
	Commands commands.Bus
}

type registerUserRequest struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Email     string `json:"email" binding:"required"`
}

func (h UserHandler) Register(c *gin.Context) {
	if h.Commands == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "commands unavailable"})
		return
	}
	var req registerUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := UserApp.RegisterUserCommand{
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Email:           req.Email,
		IdempotencyKeyV: c.GetHeader("Idempotency-Key"),
	}
	result, err := commands.Dispatch[UserApp.RegisterUserCommand, *UserApp.RegisterUserResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

var _ UserHTTP = UserHandler{}
