package http

import "github.com/gin-gonic/gin"

// Envelope es el sobre uniforme de toda respuesta del API.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func respond(c *gin.Context, status int, message string, data any) {
	c.JSON(status, Envelope{Success: true, Message: message, Data: data})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, Envelope{Success: false, Message: message})
}

func respondInvalid(c *gin.Context, err error) {
	c.JSON(400, Envelope{Success: false, Message: "invalid request data", Error: err.Error()})
}
