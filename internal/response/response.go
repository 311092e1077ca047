// Package response is the engine's HTTP response envelope, ported from
// the teacher's pkg/response and trimmed of the pagination field the
// engine's routes have no use for.
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sched-engine/internal/apperr"
)

// Envelope is the common response contract every handler writes.
type Envelope struct {
	Data  interface{}            `json:"data,omitempty"`
	Error *apperr.Error          `json:"error,omitempty"`
	Meta  map[string]interface{} `json:"meta,omitempty"`
}

// JSON sends a success response with optional metadata.
func JSON(c *gin.Context, status int, data interface{}, meta ...map[string]interface{}) {
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	envelope := Envelope{Data: data}
	if len(meta) > 0 && meta[0] != nil {
		envelope.Meta = meta[0]
	}
	c.JSON(status, envelope)
}

// Created responds with HTTP 201 Created.
func Created(c *gin.Context, data interface{}) {
	JSON(c, http.StatusCreated, data)
}

// NoContent sends a 204 response.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error converts err into the common error structure and writes it with
// the error's own status code.
func Error(c *gin.Context, err error) {
	appErr := apperr.FromError(err)
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	c.JSON(appErr.Status, Envelope{Error: appErr})
}
