package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/receiptly/backend/internal/interfaces/http/dto"
)

// BodyLimit rejects requests whose declared length exceeds maxBytes and caps
// streaming bodies at the same limit. Logo uploads are the largest payload
// this app accepts, so the limit tracks the upload size cap.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge,
				dto.NewErrorResponseWithRequestID(
					dto.ErrCodeRequestTooLarge,
					"Request body exceeds the maximum allowed size",
					c.GetString("request_id")))
			return
		}

		// Chunked requests carry no Content-Length; cap them while streaming
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
