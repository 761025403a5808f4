package provider

import (
	"context"
	"crypto/tls"
	"net"
	"strings"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"
	"github.com/jhillyerd/enmime"
	"github.com/pkg/errors"

	"github.com/customeros/sleeper/interfaces"
	"github.com/customeros/sleeper/internal/config"
	sleepererrors "github.com/customeros/sleeper/internal/errors"
	"github.com/customeros/sleeper/internal/logger"
	"github.com/customeros/sleeper/internal/secrets"
	"github.com/customeros/sleeper/internal/tracing"
	"github.com/customeros/sleeper/internal/utils"
)

// imapFetchLimit bounds how many of the newest messages are scanned per check.
const imapFetchLimit = 20

// imapClient is the part of *client.Client the provider uses.
type imapClient interface {
	Login(username, password string) error
	Select(name string, readOnly bool) (*imap.MailboxStatus, error)
	Fetch(seqset *imap.SeqSet, items []imap.FetchItem, ch chan *imap.Message) error
	Logout() error
}

type imapDialer func(cfg config.IMAPConfig) (imapClient, error)

// IMAPProvider scans the newest messages of one mailbox folder.
type IMAPProvider struct {
	cfg      config.IMAPConfig
	password string
	parser   interfaces.Parser
	log      logger.Logger
	dial     imapDialer
}

func NewIMAPProvider(cfg config.IMAPConfig, parser interfaces.Parser, log logger.Logger) (*IMAPProvider, error) {
	if utils.IsBlank(cfg.Server) || utils.IsBlank(cfg.User) {
		return nil, sleepererrors.Configurationf("imap", "imapserver and imapuser are required")
	}

	password := cfg.Password
	if password == "" {
		secret, err := secrets.Lookup(secrets.Account("imap", cfg.User, cfg.Server))
		if err != nil {
			return nil, sleepererrors.Configuration("imappassword", err)
		}
		password = secret
	}

	return &IMAPProvider{
		cfg:      cfg,
		password: password,
		parser:   parser,
		log:      log,
		dial:     dialIMAP,
	}, nil
}

func dialIMAP(cfg config.IMAPConfig) (imapClient, error) {
	serverAddr := cfg.Server
	if _, _, err := net.SplitHostPort(serverAddr); err != nil {
		if cfg.TLS {
			serverAddr = net.JoinHostPort(serverAddr, "993")
		} else {
			serverAddr = net.JoinHostPort(serverAddr, "143")
		}
	}

	dialer := &net.Dialer{
		Timeout:   cfg.Timeout,
		KeepAlive: cfg.Timeout,
	}

	var c *client.Client
	var err error
	if cfg.TLS {
		host, _, _ := net.SplitHostPort(serverAddr)
		c, err = client.DialWithDialerTLS(dialer, serverAddr, &tls.Config{ServerName: host})
	} else {
		c, err = client.DialWithDialer(dialer, serverAddr)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to connect to %s", serverAddr)
	}
	c.Timeout = cfg.Timeout
	return c, nil
}

func (p *IMAPProvider) Name() string {
	return NameIMAP
}

func (p *IMAPProvider) Check(ctx context.Context) (bool, error) {
	span, ctx := tracing.StartTracerSpan(ctx, "IMAPProvider.Check")
	defer span.Finish()
	tracing.TagComponentProvider(span)
	tracing.TagProvider(span, NameIMAP)
	span.SetTag("server", p.cfg.Server)
	span.SetTag("folder", p.cfg.Folder)

	c, err := p.dial(p.cfg)
	if err != nil {
		tracing.TraceErr(span, err)
		return false, sleepererrors.Transport("imap connect", err)
	}
	defer func() {
		if err := c.Logout(); err != nil {
			p.log.Debugf("IMAP logout failed: %v", err)
		}
	}()

	if err := c.Login(p.cfg.User, p.password); err != nil {
		tracing.TraceErr(span, err)
		return false, sleepererrors.Transport("imap login", errors.Wrapf(err, "failed to login as %s", p.cfg.User))
	}

	status, err := c.Select(p.cfg.Folder, true)
	if err != nil {
		tracing.TraceErr(span, err)
		return false, sleepererrors.Transport("imap select", errors.Wrapf(err, "failed to select %s", p.cfg.Folder))
	}
	if status.Messages == 0 {
		return false, nil
	}

	from := uint32(1)
	if status.Messages > imapFetchLimit {
		from = status.Messages - imapFetchLimit + 1
	}
	seqSet := new(imap.SeqSet)
	seqSet.AddRange(from, status.Messages)

	section := &imap.BodySectionName{Peek: true}
	items := []imap.FetchItem{imap.FetchUid, section.FetchItem()}

	messages := make(chan *imap.Message, imapFetchLimit)
	done := make(chan error, 1)
	go func() {
		done <- c.Fetch(seqSet, items, messages)
	}()

	found := false
	for msg := range messages {
		if found {
			continue
		}
		found = p.messageMatches(msg, section)
	}
	if err := <-done; err != nil {
		tracing.TraceErr(span, err)
		return false, sleepererrors.Transport("imap fetch", err)
	}

	span.SetTag("found", found)
	return found, nil
}

// messageMatches parses one message and scans its text and HTML parts. Unparseable messages are skipped.
func (p *IMAPProvider) messageMatches(msg *imap.Message, section *imap.BodySectionName) bool {
	body := msg.GetBody(section)
	if body == nil {
		return false
	}
	envelope, err := enmime.ReadEnvelope(body)
	if err != nil {
		if p.cfg.Verbose || p.cfg.Debug {
			p.log.Warnf("Could not parse message %d: %v", msg.Uid, err)
		}
		return false
	}
	for _, text := range []string{envelope.Text, envelope.HTML} {
		if strings.TrimSpace(text) != "" && p.parser.PhraseExists(p.cfg.Keyphrase, text) {
			return true
		}
	}
	return false
}

func (p *IMAPProvider) Status() map[string]string {
	return map[string]string{
		"server": p.cfg.Server,
		"folder": p.cfg.Folder,
	}
}
