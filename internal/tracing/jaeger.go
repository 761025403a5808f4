package tracing

import (
	"io"
	"net"

	"github.com/opentracing/opentracing-go"
	"github.com/uber/jaeger-client-go/config"
	"github.com/uber/jaeger-client-go/log/zap"

	"github.com/customeros/sleeper/internal/logger"
)

// JaegerConfig is read from JAEGER_* variables. Tracing is off unless JAEGER_ENABLED is set.
type JaegerConfig struct {
	Enabled      bool    `env:"JAEGER_ENABLED" envDefault:"false"`
	ServiceName  string  `env:"JAEGER_SERVICE_NAME" envDefault:"sleeper"`
	Endpoint     string  `env:"JAEGER_ENDPOINT"`
	AgentHost    string  `env:"JAEGER_AGENT_HOST" envDefault:"localhost"`
	AgentPort    string  `env:"JAEGER_AGENT_PORT" envDefault:"6831"`
	SamplerType  string  `env:"JAEGER_SAMPLER_TYPE" envDefault:"const"`
	SamplerParam float64 `env:"JAEGER_SAMPLER_PARAM" envDefault:"1"`
	LogSpans     bool    `env:"JAEGER_REPORTER_LOG_SPANS" envDefault:"false"`
}

// NewJaegerTracer returns the no-op tracer when tracing is disabled.
func NewJaegerTracer(cfg *JaegerConfig, log logger.Logger) (opentracing.Tracer, io.Closer, error) {
	if cfg == nil || !cfg.Enabled {
		return opentracing.NoopTracer{}, io.NopCloser(nil), nil
	}
	return cfg.configuration().NewTracer(config.Logger(zap.NewLogger(log.Logger())))
}

// configuration reports spans to the collector endpoint when one is set, else to the local agent.
func (c *JaegerConfig) configuration() *config.Configuration {
	reporter := &config.ReporterConfig{LogSpans: c.LogSpans}
	if c.Endpoint != "" {
		reporter.CollectorEndpoint = c.Endpoint
	} else {
		reporter.LocalAgentHostPort = net.JoinHostPort(c.AgentHost, c.AgentPort)
	}

	return &config.Configuration{
		ServiceName: c.ServiceName,
		Sampler:     &config.SamplerConfig{Type: c.SamplerType, Param: c.SamplerParam},
		Reporter:    reporter,
	}
}
