package main

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Fixed messages; callers never see the underlying cause.
var errorMessages = map[int]string{
	http.StatusBadRequest:          "Bad request error",
	http.StatusNotFound:            "Resource not found",
	http.StatusMethodNotAllowed:    "Method not allowed",
	http.StatusUnprocessableEntity: "Unprocessable entity",
	http.StatusInternalServerError: "Internal server error",
}

func abortWith(c *gin.Context, code int) {
	msg, ok := errorMessages[code]
	if !ok {
		msg = http.StatusText(code)
	}
	c.AbortWithStatusJSON(code, gin.H{
		"success": false,
		"error":   code,
		"message": msg,
	})
}

// abortErr logs cause against the request before answering with the fixed envelope.
func abortErr(c *gin.Context, code int, cause error) {
	slog.Warn("request failed",
		"request_id", c.GetString(requestIDKey),
		"path", c.FullPath(),
		"status", code,
		"err", cause,
	)
	abortWith(c, code)
}

func notFoundHandler(c *gin.Context)         { abortWith(c, http.StatusNotFound) }
func methodNotAllowedHandler(c *gin.Context) { abortWith(c, http.StatusMethodNotAllowed) }

func recoveryHandler(c *gin.Context, recovered any) {
	slog.Error("panic", "request_id", c.GetString(requestIDKey), "panic", recovered)
	abortWith(c, http.StatusInternalServerError)
}
