// Package tracing installs the process-wide opentracing tracer backed by jaeger.
package tracing

import (
	"fmt"
	"io"

	"github.com/opentracing/opentracing-go"
	"github.com/sirupsen/logrus"
	"github.com/uber/jaeger-client-go"
	jaegercfg "github.com/uber/jaeger-client-go/config"
)

type Config struct {
	Enabled     bool   `mapstructure:"enabled"`
	ServiceName string `mapstructure:"serviceName"`
	// FromEnv reads the standard JAEGER_* variables before applying the fields below
	FromEnv bool `mapstructure:"fromEnv"`
	// AgentHostPort is the UDP address of the jaeger agent ("localhost:6831")
	AgentHostPort string `mapstructure:"agentHostPort"`
	// CollectorEndpoint sends spans over HTTP instead of to the agent
	CollectorEndpoint string  `mapstructure:"collectorEndpoint"`
	SamplerType       string  `mapstructure:"samplerType"`
	SamplerParam      float64 `mapstructure:"samplerParam"`
	LogSpans          bool    `mapstructure:"logSpans"`
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Init builds a tracer from cfg and installs it as the global tracer. The returned
// closer flushes buffered spans and must be called on shutdown.
// A disabled config leaves the global no-op tracer in place.
func Init(cfg Config) (opentracing.Tracer, io.Closer, error) {
	if !cfg.Enabled {
		return opentracing.GlobalTracer(), nopCloser{}, nil
	}

	jcfg := &jaegercfg.Configuration{}
	if cfg.FromEnv {
		c, err := jaegercfg.FromEnv()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read jaeger environment: %w", err)
		}
		jcfg = c
	}

	if cfg.ServiceName != "" {
		jcfg.ServiceName = cfg.ServiceName
	}
	if jcfg.ServiceName == "" {
		return nil, nil, fmt.Errorf("tracing service name is required")
	}

	if jcfg.Sampler == nil {
		jcfg.Sampler = &jaegercfg.SamplerConfig{}
	}
	if cfg.SamplerType != "" {
		jcfg.Sampler.Type = cfg.SamplerType
		jcfg.Sampler.Param = cfg.SamplerParam
	}
	if jcfg.Sampler.Type == "" {
		jcfg.Sampler.Type = jaeger.SamplerTypeConst
		jcfg.Sampler.Param = 1
	}

	if jcfg.Reporter == nil {
		jcfg.Reporter = &jaegercfg.ReporterConfig{}
	}
	if cfg.AgentHostPort != "" {
		jcfg.Reporter.LocalAgentHostPort = cfg.AgentHostPort
	}
	if cfg.CollectorEndpoint != "" {
		jcfg.Reporter.CollectorEndpoint = cfg.CollectorEndpoint
	}
	jcfg.Reporter.LogSpans = jcfg.Reporter.LogSpans || cfg.LogSpans

	tracer, closer, err := jcfg.NewTracer(jaegercfg.Logger(logrusLogger{}))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create jaeger tracer: %w", err)
	}

	opentracing.SetGlobalTracer(tracer)
	logrus.WithFields(logrus.Fields{
		"service": jcfg.ServiceName,
		"sampler": jcfg.Sampler.Type,
	}).Info("jaeger tracer installed")

	return tracer, closer, nil
}

// logrusLogger routes jaeger's internal logging through logrus
type logrusLogger struct{}

func (logrusLogger) Error(msg string) {
	logrus.WithField("component", "jaeger").Error(msg)
}

func (logrusLogger) Infof(msg string, args ...interface{}) {
	logrus.WithField("component", "jaeger").Debugf(msg, args...)
}
