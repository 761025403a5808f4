package provider

import (
	"context"
	"io"
	"net/http"
	"net/url"

	"github.com/pkg/errors"

	"github.com/customeros/sleeper/interfaces"
	"github.com/customeros/sleeper/internal/config"
	sleepererrors "github.com/customeros/sleeper/internal/errors"
	"github.com/customeros/sleeper/internal/logger"
	"github.com/customeros/sleeper/internal/tracing"
	"github.com/customeros/sleeper/internal/utils"
)

const maxHTTPBodySize = 10 << 20

// HTTPProvider fetches one URL per check. Anything but a 200 counts as not found.
type HTTPProvider struct {
	cfg    config.HTTPConfig
	target *url.URL
	client *http.Client
	parser interfaces.Parser
	log    logger.Logger
}

func NewHTTPProvider(cfg config.HTTPConfig, parser interfaces.Parser, log logger.Logger) (*HTTPProvider, error) {
	if utils.IsBlank(cfg.Address) {
		return nil, sleepererrors.Configurationf("httpaddress", "no address to poll was specified")
	}
	target, err := url.Parse(cfg.Address)
	if err != nil {
		return nil, sleepererrors.Configuration("httpaddress", errors.Wrapf(err, "parsing %q", cfg.Address))
	}
	if (target.Scheme != "http" && target.Scheme != "https") || target.Host == "" {
		return nil, sleepererrors.Configurationf("httpaddress", "%q is not an http(s) URL", cfg.Address)
	}

	return &HTTPProvider{
		cfg:    cfg,
		target: target,
		client: &http.Client{
			Timeout: cfg.Timeout,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		parser: parser,
		log:    log,
	}, nil
}

func (p *HTTPProvider) Name() string {
	return NameHTTP
}

func (p *HTTPProvider) Check(ctx context.Context) (bool, error) {
	span, ctx := tracing.StartTracerSpan(ctx, "HTTPProvider.Check")
	defer span.Finish()
	tracing.TagComponentProvider(span)
	tracing.TagProvider(span, NameHTTP)
	span.SetTag("url", p.target.String())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.target.String(), nil)
	if err != nil {
		tracing.TraceErr(span, err)
		return false, sleepererrors.Configuration("httpaddress", err)
	}
	req.Header.Set("User-Agent", utils.UserAgent)
	req = tracing.InjectSpanContextIntoHTTPRequest(req, span)

	resp, err := p.client.Do(req)
	if err != nil {
		// the next tick is the retry
		tracing.TraceErr(span, err)
		p.log.Warnf("Could not access %s: %v", p.target, err)
		return false, nil
	}
	defer resp.Body.Close()

	span.SetTag("http.status_code", resp.StatusCode)
	if resp.StatusCode != http.StatusOK {
		p.log.Warnf("%s when trying to access %s", resp.Status, p.target)
		return false, nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxHTTPBodySize))
	if err != nil {
		tracing.TraceErr(span, err)
		p.log.Warnf("Could not read response from %s: %v", p.target, err)
		return false, nil
	}

	return p.parser.PhraseExists(p.cfg.Keyphrase, string(body)), nil
}

func (p *HTTPProvider) Status() map[string]string {
	return map[string]string{"url": p.target.String()}
}
