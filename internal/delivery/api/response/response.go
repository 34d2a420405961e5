// Package response writes the JSON envelope shared by every endpoint.
package response

import (
	"net/http"

	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/domain/query"

	"github.com/labstack/echo/v4"
)

// SuccessResponse is the envelope of successful responses.
type SuccessResponse struct {
	Error      bool        `json:"error"`
	Message    string      `json:"message,omitempty"`
	Data       any         `json:"data,omitempty"`
	Count      *int        `json:"count,omitempty"`
	Total      *int64      `json:"total,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
	RequestID  string      `json:"request_id,omitempty"`
}

// Pagination links the neighbouring pages of a listing.
type Pagination struct {
	Next *PageRef `json:"next,omitempty"`
	Prev *PageRef `json:"prev,omitempty"`
}

// PageRef points at a page.
type PageRef struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// ErrorResponse is the envelope of failed requests.
type ErrorResponse struct {
	Error     bool   `json:"error"`
	Status    int    `json:"status"`
	Code      string `json:"code"`
	Message   string `json:"message"`
	Details   string `json:"details,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// Success returns a successful response
func Success(c echo.Context, statusCode int, data any) error {
	return c.JSON(statusCode, SuccessResponse{
		Data:      data,
		RequestID: deliverycontext.GetRequestID(c),
	})
}

// Message returns a successful response carrying a message.
func Message(c echo.Context, statusCode int, message string, data any) error {
	return c.JSON(statusCode, SuccessResponse{
		Message:   message,
		Data:      data,
		RequestID: deliverycontext.GetRequestID(c),
	})
}

// Created returns a 201 response.
func Created(c echo.Context, data any) error {
	return Success(c, http.StatusCreated, data)
}

// List writes one page of a listing. items is the (possibly projected) page content.
func List[T any](c echo.Context, page *query.Page[T], items any) error {
	count := page.Count()
	total := page.Total

	var pagination Pagination
	if next := page.Next(); next != nil {
		pagination.Next = &PageRef{Page: next.Page, Limit: next.Limit}
	}
	if prev := page.Prev(); prev != nil {
		pagination.Prev = &PageRef{Page: prev.Page, Limit: prev.Limit}
	}

	return c.JSON(http.StatusOK, SuccessResponse{
		Data:       items,
		Count:      &count,
		Total:      &total,
		Pagination: &pagination,
		RequestID:  deliverycontext.GetRequestID(c),
	})
}

// Error returns an error response
func Error(c echo.Context, statusCode int, errorCode, message, details string) error {
	// Server and auth failures never carry details.
	if statusCode >= 500 || statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden {
		details = ""
	}

	return c.JSON(statusCode, ErrorResponse{
		Error:     true,
		Status:    statusCode,
		Code:      errorCode,
		Message:   message,
		Details:   details,
		RequestID: deliverycontext.GetRequestID(c),
	})
}
