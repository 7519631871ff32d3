package response

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Error codes carried in every error body.
const (
	CodeMissingToken          = "MissingToken"
	CodeMalformedHeader       = "MalformedHeader"
	CodeInvalidOrExpiredToken = "InvalidOrExpiredToken"
	CodeForbidden             = "Forbidden"
	CodeInvalidCredentials    = "InvalidCredentials"
	CodeMissingField          = "MissingField"
	CodeOutOfRange            = "OutOfRange"
	CodeInvalidEnum           = "InvalidEnum"
	CodeBadRequest            = "BadRequest"
	CodeNotFound              = "NotFound"
	CodeConflict              = "Conflict"
	CodeTooManyRequests       = "TooManyRequests"
	CodeInternal              = "Internal"
)

// Err is the error body of every non-2xx response.
type Err struct {
	Err            error  `json:"-"`
	HTTPStatusCode int    `json:"-"`
	Code           string `json:"code"`
	StatusText     string `json:"status"`
	ErrorText      string `json:"error,omitempty"`
}

func (e *Err) Error() string {
	if e.Err == nil {
		return e.Code
	}
	return e.Err.Error()
}

// Coded is implemented by errors that know their own response code, such as
// request validation failures.
type Coded interface {
	ErrCode() string
}

// RenderErr writes e and aborts the chain. Server errors are logged with their
// detail and answered with a generic message.
func RenderErr(ctx *gin.Context, e *Err) {
	if e.HTTPStatusCode >= http.StatusInternalServerError {
		zap.L().Error("request failed",
			zap.String("request_id", requestid.Get(ctx)),
			zap.String("method", ctx.Request.Method),
			zap.String("path", ctx.FullPath()),
			zap.Error(e.Err))
	}

	ctx.AbortWithStatusJSON(e.HTTPStatusCode, e)
}

func newErr(status int, code string, err error) *Err {
	e := &Err{
		Err:            err,
		HTTPStatusCode: status,
		Code:           code,
		StatusText:     http.StatusText(status),
	}
	if err != nil {
		e.ErrorText = err.Error()
	}
	return e
}

func ErrMissingToken() *Err {
	return newErr(http.StatusUnauthorized, CodeMissingToken, errors.New("authorization token required"))
}

func ErrMalformedHeader() *Err {
	return newErr(http.StatusUnauthorized, CodeMalformedHeader, errors.New(`authorization header must be "Bearer <token>"`))
}

func ErrInvalidOrExpiredToken() *Err {
	return newErr(http.StatusUnauthorized, CodeInvalidOrExpiredToken, errors.New("invalid or expired token"))
}

func ErrForbidden(err error) *Err {
	if err == nil {
		err = errors.New("access not allowed")
	}
	return newErr(http.StatusForbidden, CodeForbidden, err)
}

func ErrInvalidCredentials() *Err {
	return newErr(http.StatusUnauthorized, CodeInvalidCredentials, errors.New("invalid credentials"))
}

// ErrBadRequest maps err to a 400. Errors implementing Coded keep their code.
func ErrBadRequest(err error) *Err {
	var coded Coded
	if errors.As(err, &coded) {
		return newErr(http.StatusBadRequest, coded.ErrCode(), err)
	}

	return newErr(http.StatusBadRequest, CodeBadRequest, err)
}

func ErrNotFound(resource, field string, value any) *Err {
	return newErr(http.StatusNotFound, CodeNotFound, fmt.Errorf("%s with %s %v not found", resource, field, value))
}

func ErrConflict(err error) *Err {
	return newErr(http.StatusConflict, CodeConflict, err)
}

func ErrTooManyRequests() *Err {
	return newErr(http.StatusTooManyRequests, CodeTooManyRequests, errors.New("too many login attempts, try again later"))
}

// ErrInternalServerError keeps err for the log only.
func ErrInternalServerError(err error) *Err {
	e := newErr(http.StatusInternalServerError, CodeInternal, err)
	e.ErrorText = "internal server error"
	return e
}
