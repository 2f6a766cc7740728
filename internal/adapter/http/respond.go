package http

import (
	"github.com/gin-gonic/gin"

	apierrors "github.com/RKOrtega94/backend.core.gateway-server/pkg/errors"
)

// respondError escreve um APIError como resposta JSON, com o status do erro
func respondError(c *gin.Context, err *apierrors.APIError) {
	c.JSON(err.Code, gin.H{"error": err.Message})
}
