package httpclient

import (
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gojek/heimdall/v7"
	"github.com/gojek/heimdall/v7/hystrix"
	"github.com/opentracing-contrib/go-stdlib/nethttp"
)

// ConnectionPoolConfig tunes the transport shared by every request of one client.
// Durations are in milliseconds.
type ConnectionPoolConfig struct {
	Timeout               int `mapstructure:"timeout"`
	KeepAliveTimeout      int `mapstructure:"keepAliveTimeout"`
	MaxIdleConnections    int `mapstructure:"maxIdleConnections"`
	IdleConnectionTimeout int `mapstructure:"idleConnectionTimeout"`
}

// HystrixResiliencyConfig configures the circuit breaker wrapped around the client.
// Durations are in milliseconds.
type HystrixResiliencyConfig struct {
	MaxConcurrentRequests     int `mapstructure:"maxConcurrentRequests"`
	RequestVolumeThreshold    int `mapstructure:"requestVolumeThreshold"`
	CircuitBreakerSleepWindow int `mapstructure:"circuitBreakerSleepWindow"`
	ErrorPercentThreshold     int `mapstructure:"errorPercentThreshold"`
	CircuitBreakerTimeout     int `mapstructure:"circuitBreakerTimeout"`
}

func DefaultConnectionPoolConfig() ConnectionPoolConfig {
	return ConnectionPoolConfig{
		Timeout:               10000,
		KeepAliveTimeout:      30000,
		MaxIdleConnections:    10,
		IdleConnectionTimeout: 90000,
	}
}

func DefaultHystrixResiliencyConfig() HystrixResiliencyConfig {
	return HystrixResiliencyConfig{
		MaxConcurrentRequests:     100,
		RequestVolumeThreshold:    20,
		CircuitBreakerSleepWindow: 5000,
		ErrorPercentThreshold:     50,
		CircuitBreakerTimeout:     10000,
	}
}

// InitializeClient builds a heimdall hystrix client. commandName identifies the circuit.
func InitializeClient(
	commandName string,
	poolCfg ConnectionPoolConfig,
	hystrixCfg HystrixResiliencyConfig,
	retrier heimdall.Retriable,
	retryCount int,
	tlsConfig *tls.Config,
) (*hystrix.Client, error) {
	if commandName == "" {
		return nil, fmt.Errorf("command name is required for http client")
	}

	timeout := time.Duration(poolCfg.Timeout) * time.Millisecond
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   timeout,
			KeepAlive: time.Duration(poolCfg.KeepAliveTimeout) * time.Millisecond,
		}).DialContext,
		MaxIdleConns:        poolCfg.MaxIdleConnections,
		MaxIdleConnsPerHost: poolCfg.MaxIdleConnections,
		IdleConnTimeout:     time.Duration(poolCfg.IdleConnectionTimeout) * time.Millisecond,
		TLSClientConfig:     tlsConfig,
	}

	opts := []hystrix.Option{
		hystrix.WithHTTPClient(&http.Client{
			Transport: &nethttp.Transport{RoundTripper: transport},
			Timeout:   timeout,
		}),
		hystrix.WithHTTPTimeout(timeout),
		hystrix.WithCommandName(commandName),
		hystrix.WithHystrixTimeout(time.Duration(hystrixCfg.CircuitBreakerTimeout) * time.Millisecond),
		hystrix.WithMaxConcurrentRequests(hystrixCfg.MaxConcurrentRequests),
		hystrix.WithRequestVolumeThreshold(hystrixCfg.RequestVolumeThreshold),
		hystrix.WithSleepWindow(hystrixCfg.CircuitBreakerSleepWindow),
		hystrix.WithErrorPercentThreshold(hystrixCfg.ErrorPercentThreshold),
		hystrix.WithRetryCount(retryCount),
	}
	if retrier != nil {
		opts = append(opts, hystrix.WithRetrier(retrier))
	}

	return hystrix.NewClient(opts...), nil
}
