package guerrillamail

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/customeros/sleeper/dto"
	"github.com/customeros/sleeper/interfaces"
	"github.com/customeros/sleeper/internal/config"
	sleepererrors "github.com/customeros/sleeper/internal/errors"
	"github.com/customeros/sleeper/internal/logger"
	"github.com/customeros/sleeper/internal/tracing"
	"github.com/customeros/sleeper/internal/utils"
)

const (
	ProviderName = "guerrillamail"

	// Agent identifies this client to the address endpoint.
	Agent = "sleeper"

	// MaxListSize is the number of summaries the list endpoint returns per page.
	MaxListSize = 20
)

const (
	notifyInfo = "To trigger a sleeper client using keyphrase %q, send an e-mail containing the keyphrase " +
		"anywhere in the message body to the following address."
	notifyRotation = "The address changes every day, so run this application again with the notify argument " +
		"to get the current address."
)

// MailboxLocalPart derives the deterministic local part of the mailbox address for a keyphrase and day.
func MailboxLocalPart(keyphrase string, day time.Time) string {
	return utils.MD5Hex("sl;" + keyphrase + ";" + utils.FormatDay(day))
}

// Session is the state of one check cycle. LastNotifiedAddress carries over between cycles.
type Session struct {
	SessionToken        string
	CurrentAddress      string
	LastNotifiedAddress string
}

type Provider struct {
	cfg       config.GuerrillaMailConfig
	client    interfaces.GuerrillaMailClient
	parser    interfaces.Parser
	log       logger.Logger
	ipAddress func() string

	mu      sync.Mutex
	session Session
}

func NewProvider(cfg config.GuerrillaMailConfig, client interfaces.GuerrillaMailClient, parser interfaces.Parser, log logger.Logger) *Provider {
	return &Provider{
		cfg:       cfg,
		client:    client,
		parser:    parser,
		log:       log,
		ipAddress: utils.LocalIPAddress,
	}
}

func (p *Provider) Name() string {
	return ProviderName
}

// Check runs one full cycle: acquire a session, bind today's address, list and fetch messages, then scan them.
func (p *Provider) Check(ctx context.Context) (bool, error) {
	span, ctx := tracing.StartTracerSpan(ctx, "GuerrillaMailProvider.Check")
	defer span.Finish()
	tracing.TagComponentProvider(span)
	tracing.TagProvider(span, ProviderName)

	session, err := p.establish(ctx)
	if err != nil {
		tracing.TraceErr(span, err)
		return false, err
	}

	messages, err := p.listMessages(ctx, session)
	if err != nil {
		tracing.TraceErr(span, err)
		return false, err
	}
	span.SetTag("messages", len(messages))

	p.fetchBodies(ctx, session, messages)

	for _, message := range messages {
		if message.IsWelcome() {
			continue
		}
		if p.parser.PhraseExists(p.cfg.Keyphrase, message.Body) {
			p.log.Debugf("Keyphrase matched message %s", message.MailID)
			span.SetTag("found", true)
			return true, nil
		}
	}
	span.SetTag("found", false)
	return false, nil
}

// establish runs the address acquisition and user binding calls.
func (p *Provider) establish(ctx context.Context) (*Session, error) {
	address, err := p.client.GetEmailAddress(ctx, p.ipAddress(), Agent)
	if err != nil {
		return nil, err
	}
	if address.SidToken == "" {
		return nil, sleepererrors.Decode(FuncGetEmailAddress, errors.New("response carries no sid_token"))
	}

	p.mu.Lock()
	session := Session{
		SessionToken:        address.SidToken,
		CurrentAddress:      address.EmailAddr,
		LastNotifiedAddress: p.session.LastNotifiedAddress,
	}
	p.mu.Unlock()

	localPart := MailboxLocalPart(p.cfg.Keyphrase, utils.Now())
	user, err := p.client.SetEmailUser(ctx, session.SessionToken, localPart, p.cfg.Lang)
	if err != nil {
		return nil, err
	}
	if user.EmailAddr == "" {
		return nil, sleepererrors.Decode(FuncSetEmailUser, errors.New("response carries no email_addr"))
	}
	session.CurrentAddress = user.EmailAddr
	if user.SidToken != "" {
		session.SessionToken = user.SidToken
	}

	if session.CurrentAddress != session.LastNotifiedAddress {
		p.log.Infof("Mailbox address is now %s", session.CurrentAddress)
		session.LastNotifiedAddress = session.CurrentAddress
	}

	p.mu.Lock()
	p.session = session
	p.mu.Unlock()

	return &session, nil
}

func (p *Provider) listMessages(ctx context.Context, session *Session) ([]dto.EmailSummary, error) {
	list, err := p.client.GetEmailList(ctx, session.SessionToken, 0)
	if err != nil {
		return nil, err
	}
	if list.SidToken != "" {
		session.SessionToken = list.SidToken
	}
	messages := list.List
	if len(messages) > MaxListSize {
		messages = messages[:MaxListSize]
	}
	return messages, nil
}

// fetchBodies fills in message bodies one at a time. A failed fetch leaves the body empty.
func (p *Provider) fetchBodies(ctx context.Context, session *Session, messages []dto.EmailSummary) {
	for i := range messages {
		if messages[i].IsWelcome() {
			continue
		}
		id := messages[i].MailID.String()
		email, err := p.client.FetchEmail(ctx, session.SessionToken, id)
		if err != nil {
			if p.cfg.Verbose || p.cfg.Debug {
				p.log.Warnf("Could not fetch message %s: %v", id, err)
			}
			continue
		}
		messages[i].Body = email.MailBody
	}
}

// Notify prints today's address along with instructions for the sender.
func (p *Provider) Notify(ctx context.Context, out io.Writer) error {
	span, ctx := tracing.StartTracerSpan(ctx, "GuerrillaMailProvider.Notify")
	defer span.Finish()
	tracing.TagProvider(span, ProviderName)

	session, err := p.establish(ctx)
	if err != nil {
		tracing.TraceErr(span, err)
		return err
	}

	_, err = fmt.Fprintf(out, notifyInfo+"\n\n%s\n\n"+notifyRotation+"\n", p.cfg.Keyphrase, session.CurrentAddress)
	return errors.Wrap(err, "writing notify text")
}

func (p *Provider) Status() map[string]string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return map[string]string{
		"address": p.session.CurrentAddress,
	}
}
