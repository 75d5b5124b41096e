// Package apperr maps gateway failures onto go-errors with a fixed set of text codes.
package apperr

import (
	"errors"
	"net/http"
	"strconv"

	goerrors "github.com/goliatone/go-errors"

	"github.com/maheshrc27/threads-gateway/internal/threads"
)

type Kind string

const (
	Unauthenticated    Kind = "UNAUTHENTICATED"
	ValidationFailed   Kind = "VALIDATION_FAILED"
	RateLimited        Kind = "RATE_LIMITED"
	TransportFailed    Kind = "TRANSPORT_FAILED"
	ExchangeFailed     Kind = "EXCHANGE_FAILED"
	PublishFailed      Kind = "PUBLISH_FAILED"
	ProfileFetchFailed Kind = "PROFILE_FETCH_FAILED"
)

const (
	MetaRemoteStatus      = "remote_status"
	MetaRemoteCode        = "remote_code"
	MetaFbtraceID         = "fbtrace_id"
	MetaRetryAfterSeconds = "retry_after_seconds"
)

// Meta error codes that signal throttling regardless of HTTP status.
var rateLimitCodes = map[int]struct{}{
	4:   {},
	17:  {},
	32:  {},
	613: {},
}

type kindSpec struct {
	category goerrors.Category
	status   int
	message  string
}

var kinds = map[Kind]kindSpec{
	Unauthenticated:    {goerrors.CategoryAuth, http.StatusUnauthorized, "Invalid token"},
	ValidationFailed:   {goerrors.CategoryValidation, http.StatusBadRequest, "Request validation failed"},
	RateLimited:        {goerrors.CategoryRateLimit, http.StatusTooManyRequests, "API rate limit exceeded. Try again later."},
	TransportFailed:    {goerrors.CategoryExternal, http.StatusBadGateway, "Threads API did not respond"},
	ExchangeFailed:     {goerrors.CategoryExternal, http.StatusInternalServerError, "Threads login failed"},
	PublishFailed:      {goerrors.CategoryExternal, http.StatusInternalServerError, "Failed to post to Threads"},
	ProfileFetchFailed: {goerrors.CategoryExternal, http.StatusInternalServerError, "Could not retrieve Threads profile"},
}

// Status is the HTTP status a kind is served with.
func Status(kind Kind) int {
	if spec, ok := kinds[kind]; ok {
		return spec.status
	}
	return http.StatusInternalServerError
}

// New builds an error of the given kind. An empty message uses the kind's default.
func New(kind Kind, message string) *goerrors.Error {
	spec := specFor(kind)
	if message == "" {
		message = spec.message
	}
	return goerrors.New(message, spec.category).
		WithCode(spec.status).
		WithTextCode(string(kind))
}

// Wrap builds an error of the given kind that keeps source as its cause.
func Wrap(kind Kind, source error, message string) *goerrors.Error {
	if source == nil {
		return New(kind, message)
	}
	spec := specFor(kind)
	if message == "" {
		message = spec.message
	}
	return goerrors.Wrap(source, spec.category, message).
		WithCode(spec.status).
		WithTextCode(string(kind))
}

// Validation reports a rejected request field.
func Validation(field, message string) *goerrors.Error {
	return goerrors.NewValidation(message, goerrors.FieldError{Field: field, Message: message}).
		WithCode(http.StatusBadRequest).
		WithTextCode(string(ValidationFailed))
}

// Classify maps a platform failure onto a kind. Throttling and missing responses get their
// own kinds; everything else becomes fallback.
func Classify(err error, fallback Kind) *goerrors.Error {
	if err == nil {
		return nil
	}
	if rich, ok := asRich(err); ok {
		return rich
	}

	var apiErr *threads.APIError
	if errors.As(err, &apiErr) {
		meta := remoteMetadata(apiErr)
		if isRateLimited(apiErr) {
			return Wrap(RateLimited, err, "").WithMetadata(meta)
		}
		message := specFor(fallback).message
		if remote := apiErr.Message(); remote != "" {
			message += ": " + remote
		}
		return Wrap(fallback, err, message).WithMetadata(meta)
	}

	var transportErr *threads.TransportError
	if errors.As(err, &transportErr) {
		return Wrap(TransportFailed, err, "")
	}

	return Wrap(fallback, err, "")
}

// Collapse maps every failure onto kind. Remote status details are kept as metadata.
func Collapse(kind Kind, err error) *goerrors.Error {
	if err == nil {
		return nil
	}
	if rich, ok := asRich(err); ok {
		if rich.TextCode == string(kind) {
			return rich
		}
		return New(kind, "")
	}

	var apiErr *threads.APIError
	if errors.As(err, &apiErr) {
		return Wrap(kind, err, "").WithMetadata(remoteMetadata(apiErr))
	}
	return Wrap(kind, err, "")
}

// KindOf returns the kind carried by err, or "" when err did not come from this package.
func KindOf(err error) Kind {
	rich, ok := asRich(err)
	if !ok {
		return ""
	}
	return Kind(rich.TextCode)
}

// RetryAfter returns the remote retry hint in whole seconds, or 0.
func RetryAfter(err error) int {
	rich, ok := asRich(err)
	if !ok || rich.Metadata == nil {
		return 0
	}
	switch v := rich.Metadata[MetaRetryAfterSeconds].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case string:
		n, _ := strconv.Atoi(v)
		return n
	}
	return 0
}

func asRich(err error) (*goerrors.Error, bool) {
	var rich *goerrors.Error
	if goerrors.As(err, &rich) && rich != nil {
		return rich, true
	}
	return nil, false
}

func isRateLimited(apiErr *threads.APIError) bool {
	if apiErr.StatusCode == http.StatusTooManyRequests {
		return true
	}
	_, ok := rateLimitCodes[apiErr.Envelope.Error.Code]
	return ok
}

func remoteMetadata(apiErr *threads.APIError) map[string]any {
	meta := map[string]any{
		MetaRemoteStatus: apiErr.StatusCode,
	}
	if code := apiErr.Envelope.Error.Code; code != 0 {
		meta[MetaRemoteCode] = code
	}
	if trace := apiErr.Envelope.Error.FbtraceID; trace != "" {
		meta[MetaFbtraceID] = trace
	}
	if apiErr.RetryAfter > 0 {
		meta[MetaRetryAfterSeconds] = int(apiErr.RetryAfter.Seconds())
	}
	return meta
}

func specFor(kind Kind) kindSpec {
	if spec, ok := kinds[kind]; ok {
		return spec
	}
	return kindSpec{goerrors.CategoryInternal, http.StatusInternalServerError, "Internal server error"}
}
