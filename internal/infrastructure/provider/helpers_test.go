package provider_test

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"wealthwatch-service/internal/application"
	"wealthwatch-service/internal/domain"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

// httpClient answers every request with body and code, and hands the
// request to seen when it is not nil.
func httpClient(resBody string, code int, seen *[]*http.Request) *http.Client {
	return &http.Client{
		Timeout: 2 * time.Second,
		Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			if seen != nil {
				*seen = append(*seen, r)
			}
			return &http.Response{
				StatusCode: code,
				Body:       io.NopCloser(strings.NewReader(resBody)),
				Header:     make(http.Header),
				Request:    r,
			}, nil
		}),
	}
}

func brokenClient() *http.Client {
	return &http.Client{Transport: roundTripFunc(func(*http.Request) (*http.Response, error) {
		return nil, errors.New("connection reset by peer")
	})}
}

var fixedNow = time.Date(2025, 3, 14, 15, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func requireReason(t *testing.T, err error, provider string, reason domain.FailureReason) {
	t.Helper()
	var fe *application.FetchError
	require.True(t, errors.As(err, &fe), "expected *FetchError, got %T: %v", err, err)
	require.Equal(t, provider, fe.Provider)
	require.Equal(t, reason, fe.Reason, "err: %v", err)
}
