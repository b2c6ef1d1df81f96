package util

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// APIResponse is the envelope for non-resource endpoints such as /health.
type APIResponse struct {
	Success bool        `json:"success"`
	Error   string      `json:"error"`
	Msg     string      `json:"msg"`
	Data    interface{} `json:"data"`
}

type APISuccessParams struct {
	Msg  string
	Data interface{}
}

// ErrorDetail is one entry of the errors array returned by the REST API.
type ErrorDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ErrorResponse is the body of every failed REST call.
type ErrorResponse struct {
	Errors []ErrorDetail `json:"errors"`
}

// GenericErrorField is the field name used when an error is not tied to an input field.
const GenericErrorField = "error"

// CallFieldErrors aborts the request with status and the given field errors.
func CallFieldErrors(c *gin.Context, status int, details ...ErrorDetail) {
	if details == nil {
		details = []ErrorDetail{}
	}
	c.AbortWithStatusJSON(status, ErrorResponse{Errors: details})
}

// CallUserError is for return a 400 with field-level errors
func CallUserError(c *gin.Context, details ...ErrorDetail) {
	CallFieldErrors(c, http.StatusBadRequest, details...)
}

// CallErrorNotFound is for return API response not found
func CallErrorNotFound(c *gin.Context, field, message string) {
	CallFieldErrors(c, http.StatusNotFound, ErrorDetail{Field: field, Message: message})
}

// CallConflict is for return API response when a unique key is already taken
func CallConflict(c *gin.Context, field, message string) {
	CallFieldErrors(c, http.StatusConflict, ErrorDetail{Field: field, Message: message})
}

// CallUserNotAuthorized is for return API response with status code 401
func CallUserNotAuthorized(c *gin.Context, message string) {
	CallFieldErrors(c, http.StatusUnauthorized, ErrorDetail{Field: GenericErrorField, Message: message})
}

// CallTooManyRequests is for return API response with status code 429
func CallTooManyRequests(c *gin.Context, message string) {
	CallFieldErrors(c, http.StatusTooManyRequests, ErrorDetail{Field: GenericErrorField, Message: message})
}

// CallSuccessOK is for return API response with status code 200, you need to specify msg, and data as function parameter
func CallSuccessOK(c *gin.Context, params APISuccessParams) {
	response := APIResponse{
		Success: true,
		Error:   "",
		Msg:     params.Msg,
		Data:    params.Data,
	}
	c.JSON(http.StatusOK, response)
}

// CallServiceUnavailable is for return API response when a dependency is down
func CallServiceUnavailable(c *gin.Context, msg string, err error) {
	response := APIResponse{
		Success: false,
		Error:   err.Error(),
		Msg:     msg,
		Data:    map[string]interface{}{},
	}
	c.JSON(http.StatusServiceUnavailable, response)
}

// NormalizeName normalizes a name by trimming leading/trailing whitespace
// and collapsing multiple internal spaces into single spaces.
func NormalizeName(name string) string {
	return strings.Join(strings.Fields(name), " ")
}
