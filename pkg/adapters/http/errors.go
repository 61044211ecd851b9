package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/aretw0/luckydraw/pkg/domain"
	"github.com/aretw0/luckydraw/pkg/session"
)

// ErrorResponse is the JSON body of a failed request.
type ErrorResponse struct {
	Error    string `json:"error"`
	Step     string `json:"step,omitempty"`
	Resource string `json:"resource,omitempty"`
}

func newErrorResponse(err error) ErrorResponse {
	resp := ErrorResponse{Error: err.Error()}
	if step, resource, ok := domain.FailedResource(err); ok {
		resp.Step = step
		resp.Resource = resource
	}
	return resp
}

// statusFor maps the domain error taxonomy onto HTTP status codes.
func statusFor(err error) int {
	var (
		halted     *domain.HaltedError
		mismatch   *domain.CommitMismatchError
		resolution *domain.ResolutionError
		retrieval  *domain.RetrievalError
		empty      *domain.EmptyOptionsError
	)
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, session.ErrSessionLimit):
		return http.StatusServiceUnavailable
	case errors.As(err, &halted),
		errors.As(err, &mismatch),
		errors.Is(err, domain.ErrNotReady),
		errors.Is(err, domain.ErrFlowComplete),
		errors.Is(err, domain.ErrDrawInFlight),
		errors.Is(err, domain.ErrLoadInFlight),
		errors.Is(err, domain.ErrNoDrawInFlight),
		errors.Is(err, domain.ErrFlowReset):
		return http.StatusConflict
	case errors.As(err, &retrieval):
		return http.StatusBadGateway
	case errors.As(err, &resolution), errors.As(err, &empty):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusRequestTimeout
	}
	return http.StatusInternalServerError
}
