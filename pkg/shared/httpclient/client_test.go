package httpclient

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eclipse-score/srclinker/pkg/shared/config"
)

func TestApplyHTTPClientConfigDefaults(t *testing.T) {
	got := applyHTTPClientConfig(nil)
	assert.Equal(t, config.DefaultRestyConfig().RetryCount, got.RetryCount)
	assert.False(t, got.TLSClientConfig.InsecureSkipVerify)
	assert.Empty(t, got.Proxy)
}

func TestApplyHTTPClientConfigOverrides(t *testing.T) {
	verify := false
	debug := true
	got := applyHTTPClientConfig(&config.HTTPClient{
		Debug:           &debug,
		RetryCount:      2,
		Timeout:         3 * time.Second,
		TLSClientConfig: config.TLSClientConfig{Verify: &verify},
		Proxy:           config.Proxy{Host: "proxy.local", Port: 3128},
	})

	assert.True(t, got.Debug)
	assert.Equal(t, 2, got.RetryCount)
	assert.Equal(t, 3*time.Second, got.Timeout)
	assert.True(t, got.TLSClientConfig.InsecureSkipVerify)
	assert.Equal(t, "proxy.local:3128", got.Proxy)
}

func TestInitializeRestyClientRetriesServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, UserAgent, r.Header.Get("User-Agent"))
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	cfg := config.Default()
	cfg.HTTPClient.RetryCount = 3
	cfg.HTTPClient.RetryWaitTime = time.Millisecond
	cfg.HTTPClient.RetryMaxWaitTime = time.Millisecond

	resp, err := InitializeRestyClient(hclog.NewNullLogger(), cfg).R().Get(srv.URL)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode())
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestInitializeRestyClientDoesNotRetryClientErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	resp, err := InitializeRestyClient(nil, nil).R().Get(srv.URL)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode())
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}
