package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequestIDKey is the gin context key the request id middleware fills in.
const RequestIDKey = "request_id"

const (
	codeOK       = 0
	codeInternal = 50000
)

// Response is the envelope every endpoint returns. Code 0 means success;
// request_id echoes X-Request-ID so a client report can be matched to logs.
type Response struct {
	Code      int         `json:"code"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data,omitempty"`
	Details   string      `json:"details,omitempty"`
	RequestID string      `json:"request_id,omitempty"`
}

// Pagination page metadata.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// PageData a page of results.
type PageData struct {
	List       interface{} `json:"list"`
	Pagination Pagination  `json:"pagination"`
}

func write(c *gin.Context, status int, body Response) {
	body.RequestID = c.GetString(RequestIDKey)
	c.JSON(status, body)
}

// OK 200
func OK(c *gin.Context, data interface{}) {
	write(c, http.StatusOK, Response{Code: codeOK, Message: "success", Data: data})
}

// Created 201
func Created(c *gin.Context, data interface{}) {
	write(c, http.StatusCreated, Response{Code: codeOK, Message: "success", Data: data})
}

// Accepted 202, for work handed to a background sender.
func Accepted(c *gin.Context, message string) {
	write(c, http.StatusAccepted, Response{Code: codeOK, Message: message})
}

// OKPage 200 with pagination metadata. A zero pageSize means the whole list
// was returned in one page.
func OKPage(c *gin.Context, list interface{}, total int64, page, pageSize int) {
	p := Pagination{Page: page, PageSize: pageSize, Total: total}
	switch {
	case pageSize > 0:
		p.TotalPages = int((total + int64(pageSize) - 1) / int64(pageSize))
	case total > 0:
		p.TotalPages = 1
	}
	write(c, http.StatusOK, Response{Code: codeOK, Message: "success", Data: PageData{List: list, Pagination: p}})
}

// Error writes a failure envelope.
func Error(c *gin.Context, httpStatus int, code int, message string) {
	write(c, httpStatus, Response{Code: code, Message: message})
}

// ErrorWithDetails carries extra detail the client can show, e.g. blocking ticket numbers.
func ErrorWithDetails(c *gin.Context, httpStatus int, code int, message, details string) {
	write(c, httpStatus, Response{Code: code, Message: message, Details: details})
}

// Abort writes a failure envelope and stops the handler chain.
func Abort(c *gin.Context, httpStatus int, code int, message string) {
	Error(c, httpStatus, code, message)
	c.Abort()
}

func BadRequest(c *gin.Context, code int, message string) {
	Error(c, http.StatusBadRequest, code, message)
}

func Unauthorized(c *gin.Context, code int, message string) {
	Error(c, http.StatusUnauthorized, code, message)
}

func Forbidden(c *gin.Context, code int, message string) {
	Error(c, http.StatusForbidden, code, message)
}

func NotFound(c *gin.Context, code int, message string) {
	Error(c, http.StatusNotFound, code, message)
}

func Conflict(c *gin.Context, code int, message, details string) {
	ErrorWithDetails(c, http.StatusConflict, code, message, details)
}

// PayloadTooLarge 413
func PayloadTooLarge(c *gin.Context, code int, message string) {
	Error(c, http.StatusRequestEntityTooLarge, code, message)
}

func InternalError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, codeInternal, "internal server error")
}
