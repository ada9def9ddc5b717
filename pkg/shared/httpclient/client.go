package httpclient

import (
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-hclog"

	"github.com/eclipse-score/srclinker/pkg/shared/config"
)

// UserAgent is sent with every request.
var UserAgent = "srclinker"

// HclogAdapter adapts an hclog.Logger to be compatible with the resty log.Logger interface.
type HclogAdapter struct {
	logger hclog.Logger
}

// NewHclogAdapter creates a new adapter that will forward messages to a hclog.Logger.
func NewHclogAdapter(logger hclog.Logger) resty.Logger {
	return &HclogAdapter{logger: logger}
}

// Errorf logs a message at error level.
func (a *HclogAdapter) Errorf(format string, v ...interface{}) {
	a.logger.Error(fmt.Sprintf(format, v...))
}

// Warnf logs a message at warning level.
func (a *HclogAdapter) Warnf(format string, v ...interface{}) {
	a.logger.Warn(fmt.Sprintf(format, v...))
}

// Debugf logs a message at debug level.
func (a *HclogAdapter) Debugf(format string, v ...interface{}) {
	a.logger.Debug(fmt.Sprintf(format, v...))
}

// InitializeRestyClient initializes and configures a resty client based on the provided configuration.
func InitializeRestyClient(logger hclog.Logger, cfg *config.Config) *resty.Client {
	client := resty.New()
	if logger != nil {
		client.SetLogger(NewHclogAdapter(logger))
	}

	var httpCfg *config.HTTPClient
	if cfg != nil {
		httpCfg = &cfg.HTTPClient
	}
	restyConfig := applyHTTPClientConfig(httpCfg)
	client.
		SetDebug(restyConfig.Debug).
		SetRetryCount(restyConfig.RetryCount).
		SetRetryWaitTime(restyConfig.RetryWaitTime).
		SetRetryMaxWaitTime(restyConfig.RetryMaxWaitTime).
		SetTimeout(restyConfig.Timeout).
		SetTLSClientConfig(restyConfig.TLSClientConfig).
		SetHeader("User-Agent", UserAgent).
		SetHeader("Accept", "application/json").
		AddRetryCondition(retryOnServerError)

	if restyConfig.Proxy != "" {
		client.SetProxy(restyConfig.Proxy)
	}

	return client
}

// retryOnServerError retries 5xx and 429 responses in addition to transport errors.
func retryOnServerError(resp *resty.Response, err error) bool {
	if err != nil || resp == nil {
		return false
	}
	code := resp.StatusCode()
	return code >= http.StatusInternalServerError || code == http.StatusTooManyRequests
}

// applyHTTPClientConfig applies the HTTPClient configuration or uses default values.
func applyHTTPClientConfig(httpConfig *config.HTTPClient) config.RestyHTTPClientConfig {
	cfg := config.DefaultRestyConfig()
	if httpConfig == nil {
		return cfg
	}

	cfg.Debug = config.GetBoolValue(httpConfig, "Debug", cfg.Debug)
	cfg.RetryCount = config.SetThen(httpConfig.RetryCount, cfg.RetryCount)
	cfg.RetryWaitTime = config.SetThen(httpConfig.RetryWaitTime, cfg.RetryWaitTime)
	cfg.RetryMaxWaitTime = config.SetThen(httpConfig.RetryMaxWaitTime, cfg.RetryMaxWaitTime)
	cfg.Timeout = config.SetThen(httpConfig.Timeout, cfg.Timeout)
	cfg.TLSClientConfig.InsecureSkipVerify = !config.GetBoolValue(httpConfig.TLSClientConfig, "Verify", true)

	if httpConfig.Proxy.Host != "" && httpConfig.Proxy.Port != 0 {
		cfg.Proxy = fmt.Sprintf("%s:%d", httpConfig.Proxy.Host, httpConfig.Proxy.Port)
	}

	return cfg
}
