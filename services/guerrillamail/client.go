package guerrillamail

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/url"
	"strconv"

	"github.com/opentracing/opentracing-go/log"
	"github.com/pkg/errors"
	"golang.org/x/time/rate"

	"github.com/customeros/sleeper/dto"
	"github.com/customeros/sleeper/interfaces"
	"github.com/customeros/sleeper/internal/config"
	sleepererrors "github.com/customeros/sleeper/internal/errors"
	"github.com/customeros/sleeper/internal/tracing"
	"github.com/customeros/sleeper/internal/utils"
)

// API functions, selected by the f query parameter.
const (
	FuncGetEmailAddress = "get_email_address"
	FuncSetEmailUser    = "set_email_user"
	FuncGetEmailList    = "get_email_list"
	FuncFetchEmail      = "fetch_email"
)

type client struct {
	endpoint   *url.URL
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient builds an API client for the configured endpoint. Calls are paced by a token bucket.
func NewClient(cfg config.GuerrillaMailConfig) (interfaces.GuerrillaMailClient, error) {
	endpoint, err := url.Parse(cfg.Endpoint)
	if err != nil || endpoint.Scheme == "" || endpoint.Host == "" {
		if err == nil {
			err = errors.Errorf("%q is not an absolute URL", cfg.Endpoint)
		}
		return nil, sleepererrors.Configuration("guerrillamail endpoint", err)
	}
	rps := cfg.Rate
	if rps <= 0 {
		rps = config.DefaultGuerrillaRate
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = config.DefaultTimeout
	}
	return &client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
	}, nil
}

func (c *client) GetEmailAddress(ctx context.Context, ip, agent string) (*dto.EmailAddress, error) {
	var out dto.EmailAddress
	params := url.Values{}
	params.Set("ip", ip)
	params.Set("agent", agent)
	if err := c.call(ctx, FuncGetEmailAddress, params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *client) SetEmailUser(ctx context.Context, sidToken, emailUser, lang string) (*dto.EmailAddress, error) {
	var out dto.EmailAddress
	params := url.Values{}
	params.Set("email_user", emailUser)
	if lang != "" {
		params.Set("lang", lang)
	}
	params.Set("sid_token", sidToken)
	if err := c.call(ctx, FuncSetEmailUser, params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *client) GetEmailList(ctx context.Context, sidToken string, offset int) (*dto.EmailList, error) {
	var out dto.EmailList
	params := url.Values{}
	params.Set("offset", strconv.Itoa(offset))
	params.Set("sid_token", sidToken)
	if err := c.call(ctx, FuncGetEmailList, params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *client) FetchEmail(ctx context.Context, sidToken, emailID string) (*dto.Email, error) {
	var out dto.Email
	params := url.Values{}
	params.Set("email_id", emailID)
	params.Set("sid_token", sidToken)
	if err := c.call(ctx, FuncFetchEmail, params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *client) call(ctx context.Context, function string, params url.Values, out interface{}) error {
	span, ctx := tracing.StartTracerSpan(ctx, "GuerrillaMailClient."+function)
	defer span.Finish()
	tracing.TagComponentProvider(span)
	span.LogFields(log.String("function", function))

	if err := c.limiter.Wait(ctx); err != nil {
		tracing.TraceErr(span, err)
		return sleepererrors.Transport(function, errors.Wrap(err, "waiting for rate limiter"))
	}

	u := *c.endpoint
	query := u.Query()
	query.Set("f", function)
	for k, vs := range params {
		for _, v := range vs {
			query.Add(k, v)
		}
	}
	u.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		tracing.TraceErr(span, err)
		return sleepererrors.Transport(function, errors.Wrap(err, "building request"))
	}
	req.Header.Set("User-Agent", utils.UserAgent)
	req.Header.Set("Accept", "application/json")
	req = tracing.InjectSpanContextIntoHTTPRequest(req, span)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		tracing.TraceErr(span, err)
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return sleepererrors.Transport(function, errors.Wrapf(sleepererrors.ErrConnectionTimeout, "calling mailbox API: %v", err))
		}
		return sleepererrors.Transport(function, errors.Wrap(err, "calling mailbox API"))
	}
	defer resp.Body.Close()

	span.SetTag("http.status_code", resp.StatusCode)
	if resp.StatusCode != http.StatusOK {
		err = errors.Wrapf(sleepererrors.ErrUnexpectedStatus, "%s", resp.Status)
		tracing.TraceErr(span, err)
		return sleepererrors.Transport(function, err)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		tracing.TraceErr(span, err)
		return sleepererrors.Decode(function, errors.Wrap(err, "decoding response"))
	}
	return nil
}
