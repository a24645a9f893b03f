package handlers

import (
	"github.com/gin-gonic/gin"
)

// Response is the success envelope shared by every endpoint
type Response struct {
	Success bool        `json:"success"`
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Links   gin.H       `json:"links,omitempty"`
}

func respond(c *gin.Context, code int, message string, data interface{}, links gin.H) {
	c.JSON(code, Response{
		Success: true,
		Status:  "success",
		Message: message,
		Data:    data,
		Links:   links,
	})
}
