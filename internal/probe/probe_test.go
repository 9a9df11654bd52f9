package probe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"
)

func TestExists_StatusCodes(t *testing.T) {
	var lastMethod atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lastMethod.Store(r.Method)
		switch r.URL.Path {
		case "/ok.png":
			w.WriteHeader(http.StatusOK)
		case "/moved.png":
			http.Redirect(w, r, "/ok.png", http.StatusFound)
		case "/boom.png":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	p := New(srv.Client(), time.Second, zaptest.NewLogger(t))
	ctx := context.Background()

	assert.True(t, p.Exists(ctx, srv.URL+"/ok.png"))
	assert.Equal(t, http.MethodHead, lastMethod.Load())
	assert.True(t, p.Exists(ctx, srv.URL+"/moved.png"))
	assert.False(t, p.Exists(ctx, srv.URL+"/missing.png"))
	assert.False(t, p.Exists(ctx, srv.URL+"/boom.png"))
}

func TestExists_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	p := New(srv.Client(), 50*time.Millisecond, zaptest.NewLogger(t))

	start := time.Now()
	assert.False(t, p.Exists(context.Background(), srv.URL+"/slow.png"))
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestExists_TransportErrors(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	p := New(nil, time.Second, nil)
	assert.False(t, p.Exists(context.Background(), url+"/gone.png"))
	assert.False(t, p.Exists(context.Background(), "://not a url"))
}

func TestExists_CancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := New(srv.Client(), time.Second, nil)
	assert.False(t, p.Exists(ctx, srv.URL+"/ok.png"))
}

func TestNew_Defaults(t *testing.T) {
	p := New(nil, 0, nil)
	assert.Equal(t, DefaultTimeout, p.timeout)
	assert.NotNil(t, p.http)
	assert.NotNil(t, p.log)
}
