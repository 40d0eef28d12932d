package httperr

import (
	"time"

	"github.com/gin-gonic/gin"
)

type ErrorBody struct {
	Message   string     `json:"message"`
	Kind      string     `json:"kind,omitempty"`
	Remaining *int       `json:"remaining,omitempty"`
	ResetsAt  *time.Time `json:"resetsAt,omitempty"`
}

type Response struct {
	Status int       `json:"-"`
	Error  ErrorBody `json:"error"`
	Detail any       `json:"detail,omitempty"`
}

// preserves original error for future monitoring
func AbortWithError(c *gin.Context, status int, err error, msg string, detail any) {
	AbortWithBody(c, status, err, ErrorBody{Message: msg}, detail)
}

func AbortWithBody(c *gin.Context, status int, err error, body ErrorBody, detail any) {
	if err == nil {
		panic("AbortWithBody: err cannot be nil")
	}

	resp := Response{Status: status, Error: body, Detail: detail}

	_ = c.Error(gin.Error{
		Err:  err,
		Type: gin.ErrorTypePublic,
		Meta: resp,
	})
	c.AbortWithStatusJSON(status, resp)
}
