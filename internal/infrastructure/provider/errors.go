package provider

import (
	"errors"
	"net/http"

	"wealthwatch-service/internal/application"
	"wealthwatch-service/internal/domain"
	"wealthwatch-service/internal/infrastructure/httpx"
)

// fromHTTP tags an httpx failure with the reason shared by every adapter.
func fromHTTP(provider string, err error) *application.FetchError {
	var se *httpx.StatusError
	switch {
	case errors.As(err, &se) && se.Code == http.StatusTooManyRequests:
		return application.NewFetchError(provider, domain.ReasonRateLimit, err)
	case errors.As(err, &se) && se.Code == http.StatusNotFound:
		return application.NewFetchError(provider, domain.ReasonNotFound, err)
	case errors.Is(err, httpx.ErrDecode):
		return application.NewFetchError(provider, domain.ReasonMalformed, err)
	default:
		return application.NewFetchError(provider, domain.ReasonNetwork, err)
	}
}

func fail(provider string, reason domain.FailureReason, err error) *application.FetchError {
	return application.NewFetchError(provider, reason, err)
}
