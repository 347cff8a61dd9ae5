package service

import (
	"context"
	"errors"
	"net/http"

	"github.com/noah-isme/sma-course-gateway/internal/upstream"
	appErrors "github.com/noah-isme/sma-course-gateway/pkg/errors"
)

// mapUpstreamError converts client failures into API errors. Upstream 4xx
// answers keep their status so callers see validation problems as such.
func mapUpstreamError(err error, notFound string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, upstream.ErrNotFound) {
		return appErrors.Clone(appErrors.ErrNotFound, notFound)
	}

	var upErr *upstream.Error
	if errors.As(err, &upErr) {
		status := http.StatusBadGateway
		if upErr.StatusCode >= 400 && upErr.StatusCode < 500 {
			status = upErr.StatusCode
		}
		wrapped := appErrors.Wrap(err, appErrors.ErrUpstream.Code, status, upErr.Detail)
		return appErrors.WithDetails(wrapped, map[string]interface{}{"upstream_status": upErr.StatusCode})
	}

	if errors.Is(err, context.Canceled) {
		return err
	}
	return appErrors.Wrap(err, appErrors.ErrUpstreamUnavailable.Code, appErrors.ErrUpstreamUnavailable.Status, appErrors.ErrUpstreamUnavailable.Message)
}

// upstreamFailure extracts status and detail for the submission log.
func upstreamFailure(err error) (*int, *string) {
	var upErr *upstream.Error
	if errors.As(err, &upErr) {
		status := upErr.StatusCode
		detail := upErr.Detail
		return &status, &detail
	}
	detail := err.Error()
	return nil, &detail
}
