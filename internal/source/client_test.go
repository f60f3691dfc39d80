package source

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetch_OK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "tgschema/1.0", r.Header.Get("User-Agent"))
		fmt.Fprint(w, "<html>ok</html>")
	}))
	defer srv.Close()

	c := NewClient(5*time.Second, 1024)
	defer c.Close()

	body, err := c.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "<html>ok</html>", string(body))
}

func TestFetch_Retryable(t *testing.T) {
	for _, status := range []int{http.StatusTooManyRequests, http.StatusBadGateway} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "slow down", status)
		}))

		_, err := NewClient(5*time.Second, 1024).Fetch(context.Background(), srv.URL)
		srv.Close()

		var retryErr *RetryableError
		require.ErrorAs(t, err, &retryErr)
		assert.Equal(t, status, retryErr.StatusCode)
		assert.True(t, IsRetryable(err))
	}
}

func TestFetch_NotFoundIsPermanent(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	_, err := NewClient(5*time.Second, 1024).Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	assert.False(t, IsRetryable(err))
	assert.Contains(t, err.Error(), "status 404")
}

func TestFetch_TooLarge(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, strings.Repeat("x", 100))
	}))
	defer srv.Close()

	_, err := NewClient(5*time.Second, 10).Fetch(context.Background(), srv.URL)
	assert.True(t, errors.Is(err, ErrTooLarge))
}

func TestFetch_CanceledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "late")
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewClient(5*time.Second, 1024).Fetch(ctx, srv.URL)
	require.Error(t, err)
	assert.False(t, IsRetryable(err))
}
