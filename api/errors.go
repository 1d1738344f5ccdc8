package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/airbook-dev/airbook/internal/domain"
)

// respondError maps domain error kinds onto HTTP statuses. Anything
// untagged is a 500 with a generic body; internals never leak to clients.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := "internal server error"

	switch domain.KindOf(err) {
	case domain.KindNotFound:
		status = http.StatusNotFound
		message = err.Error()
	case domain.KindConflict:
		status = http.StatusConflict
		message = err.Error()
	case domain.KindBadRequest:
		status = http.StatusBadRequest
		message = err.Error()
	case domain.KindUnauthorized:
		status = http.StatusUnauthorized
		message = err.Error()
	}

	c.JSON(status, gin.H{"message": message})
}

func respond(c *gin.Context, status int, data interface{}, message string) {
	c.JSON(status, gin.H{"data": data, "message": message})
}
