// Package render writes the JSON bodies shared by every handler.
package render

import (
	"net/http"
	"strconv"

	"github.com/Laisky/errors/v2"
	"github.com/Laisky/zap"
	"github.com/gin-gonic/gin"

	"github.com/Laisky/twitter-clone/library/log"
)

// MsgInternalError is returned for every unexpected failure.
const MsgInternalError = "internal server error"

// Mapping binds a sentinel error to an HTTP status.
type Mapping struct {
	Err    error
	Status int
}

// Message writes {"message": msg} with code.
func Message(c *gin.Context, code int, msg string) {
	c.JSON(code, gin.H{"message": msg})
}

// Created writes a 201 carrying msg and the id of the new resource.
func Created(c *gin.Context, msg string, id uint64) {
	c.JSON(http.StatusCreated, gin.H{"message": msg, "id": id})
}

// Error writes the status of the first mapping err matches, with the
// sentinel's own message. Unmatched errors are logged and become 500.
func Error(c *gin.Context, err error, mappings []Mapping) {
	for _, m := range mappings {
		if errors.Is(err, m.Err) {
			Message(c, m.Status, m.Err.Error())
			return
		}
	}

	log.FromContext(c).Error("handle request",
		zap.String("path", c.FullPath()),
		zap.Error(err))
	Message(c, http.StatusInternalServerError, MsgInternalError)
}

// ParseID parses a positive decimal id. ok is false for anything else.
func ParseID(raw string) (id uint64, ok bool) {
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v <= 0 {
		return 0, false
	}

	return uint64(v), true
}
