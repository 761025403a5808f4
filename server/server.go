package server

import (
	"context"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/flock"
	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"

	"github.com/customeros/sleeper/api"
	"github.com/customeros/sleeper/config"
	"github.com/customeros/sleeper/interfaces"
	internalconfig "github.com/customeros/sleeper/internal/config"
	sleepererrors "github.com/customeros/sleeper/internal/errors"
	"github.com/customeros/sleeper/internal/logger"
	"github.com/customeros/sleeper/internal/tracing"
	"github.com/customeros/sleeper/services/action"
	"github.com/customeros/sleeper/services/parser"
	"github.com/customeros/sleeper/services/provider"
	"github.com/customeros/sleeper/services/task"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	config       *config.Config
	log          logger.Logger
	tracerCloser io.Closer
	stdin        io.Reader
	stdout       io.Writer
}

func NewServer(cfg *config.Config) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("config is empty")
	}

	opts := cfg.Options
	if format := opts.Get(config.KeyLogFormat); format != "" {
		cfg.Logger.Encoder = format
	}
	appLogger := logger.NewAppLogger(cfg.Logger)
	appLogger.InitLogger()
	if opts.Bool(config.KeyDebug) {
		appLogger.SetLevel("debug")
	}

	tracer, closer, err := tracing.NewJaegerTracer(cfg.Tracing, appLogger)
	if err != nil {
		return nil, errors.Wrap(err, "could not initialize jaeger tracer")
	}
	opentracing.SetGlobalTracer(tracer)

	return &Server{
		config:       cfg,
		log:          appLogger,
		tracerCloser: closer,
		stdin:        os.Stdin,
		stdout:       os.Stdout,
	}, nil
}

func (s *Server) Logger() logger.Logger {
	return s.log
}

// Run either prints the notify text or polls until the action has run. SIGINT and SIGTERM stop polling.
func (s *Server) Run(ctx context.Context) error {
	defer s.close()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := s.config.Options
	s.log.Debugf("Options: %s", opts)
	if opts.Bool(config.KeyVerbose) {
		for _, rejected := range s.config.RejectedRepeat {
			s.log.Infof("Requested repeat interval %s minute(s) ignored, the minimum is %d", rejected, config.MinRepeatMinutes)
		}
	}

	if path := opts.Get(config.KeyLockFile); path != "" {
		unlock, err := s.acquireLock(path)
		if err != nil {
			return err
		}
		defer unlock()
	}

	selectedParser, err := parser.New(opts.Get(config.KeyParser), opts)
	if err != nil {
		return err
	}
	if opts.Bool(config.KeyVerbose) {
		s.logParserUsage(selectedParser, opts)
	}

	selectedProvider, err := provider.New(opts.Get(config.KeyProvider), provider.Dependencies{
		Options: opts,
		Parser:  selectedParser,
		Log:     s.log.With("provider", opts.Get(config.KeyProvider)),
		Stdin:   s.stdin,
	})
	if err != nil {
		return err
	}
	if closer, ok := selectedProvider.(io.Closer); ok {
		defer func() {
			if err := closer.Close(); err != nil {
				s.log.Warnf("Closing %s provider: %v", selectedProvider.Name(), err)
			}
		}()
	}

	if opts.Bool(config.KeyNotify) {
		notifier, ok := selectedProvider.(interfaces.Notifier)
		if !ok {
			return sleepererrors.Configuration("notify", errors.Wrapf(sleepererrors.ErrNotifyUnsupported, "%s", selectedProvider.Name()))
		}
		return notifier.Notify(ctx, s.stdout)
	}

	t, err := task.New(opts, selectedProvider, action.NewRunner(s.log), s.log, s.stdout)
	if err != nil {
		return err
	}

	statusCfg := internalconfig.NewStatusConfig(opts)
	if statusCfg.Address != "" {
		shutdown := s.startStatusServer(statusCfg.Address, t)
		defer shutdown()
	}

	return t.Run(ctx)
}

func (s *Server) logParserUsage(p interfaces.Parser, opts config.Options) {
	if p.Name() == parser.NameNone {
		return
	}
	s.log.Infof("Using the %s parser to look for the keyphrase", p.Name())
	if opts.Bool(config.KeyPlainTextCaseInsensitive) {
		s.log.Info("ptp_ci is set, data is compared case insensitively. Providers still treat the keyphrase " +
			"case sensitively unless they say otherwise, so take care when mixing the two")
	}
}

func (s *Server) acquireLock(path string) (func(), error) {
	lock := flock.New(path)
	locked, err := lock.TryLock()
	if err != nil {
		return nil, sleepererrors.Configuration("lockfile", errors.Wrapf(err, "locking %s", path))
	}
	if !locked {
		return nil, sleepererrors.Configuration("lockfile", errors.Wrapf(sleepererrors.ErrInstanceLocked, "%s", path))
	}
	return func() {
		if err := lock.Unlock(); err != nil {
			s.log.Warnf("Releasing lock %s: %v", path, err)
		}
	}, nil
}

func (s *Server) startStatusServer(addr string, source *task.Task) func() {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	api.RegisterRoutes(router, source)

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		defer tracing.RecoverAndLogToJaeger(s.log)
		s.log.Infof("Status endpoint listening on %s", addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.log.Errorf("Status server error: %v", err)
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(ctx); err != nil {
			s.log.Warnf("Status server shutdown error: %v", err)
		}
	}
}

func (s *Server) close() {
	if s.tracerCloser != nil {
		_ = s.tracerCloser.Close()
	}
	_ = s.log.Sync()
}
