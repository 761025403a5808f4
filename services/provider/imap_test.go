package provider

import (
	"bytes"
	"context"
	"testing"

	"github.com/emersion/go-imap"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	"github.com/customeros/sleeper/internal/config"
	sleepererrors "github.com/customeros/sleeper/internal/errors"
	"github.com/customeros/sleeper/internal/logger"
	"github.com/customeros/sleeper/internal/secrets"
	"github.com/customeros/sleeper/services/parser"
)

type mockIMAPClient struct {
	mock.Mock
	bodies []string
}

func (m *mockIMAPClient) Login(username, password string) error {
	return m.Called(username, password).Error(0)
}

func (m *mockIMAPClient) Select(name string, readOnly bool) (*imap.MailboxStatus, error) {
	args := m.Called(name, readOnly)
	status, _ := args.Get(0).(*imap.MailboxStatus)
	return status, args.Error(1)
}

func (m *mockIMAPClient) Fetch(seqset *imap.SeqSet, items []imap.FetchItem, ch chan *imap.Message) error {
	defer close(ch)
	args := m.Called(seqset.String())
	for i, body := range m.bodies {
		msg := imap.NewMessage(uint32(i+1), items)
		msg.Uid = uint32(100 + i)
		msg.Body[&imap.BodySectionName{}] = bytes.NewBufferString(body)
		ch <- msg
	}
	return args.Error(0)
}

func (m *mockIMAPClient) Logout() error {
	return m.Called().Error(0)
}

const plainMail = "From: a@example.org\r\nTo: b@example.org\r\nSubject: hi\r\nContent-Type: text/plain; charset=utf-8\r\n\r\nthis is a Test message\r\n"

const htmlMail = "From: a@example.org\r\nTo: b@example.org\r\nSubject: hi\r\nContent-Type: text/html; charset=utf-8\r\n\r\n<p>nothing <b>here</b></p>\r\n"

func newTestIMAPProvider(t *testing.T, c *mockIMAPClient) *IMAPProvider {
	p, err := NewIMAPProvider(config.IMAPConfig{
		Common:   config.Common{Keyphrase: "Test", Verbose: true},
		Server:   "mail.example.org",
		User:     "alice",
		Password: "pw",
		Folder:   "INBOX",
		TLS:      true,
	}, parser.NewPlainTextParser(false), logger.NewNopLogger())
	require.NoError(t, err)
	p.dial = func(config.IMAPConfig) (imapClient, error) {
		return c, nil
	}
	return p
}

func TestIMAPProvider_FindsKeyphrase(t *testing.T) {
	// Arrange
	c := &mockIMAPClient{bodies: []string{htmlMail, plainMail}}
	c.On("Login", "alice", "pw").Return(nil)
	c.On("Select", "INBOX", true).Return(&imap.MailboxStatus{Messages: 25}, nil)
	c.On("Fetch", "6:25").Return(nil)
	c.On("Logout").Return(nil)
	p := newTestIMAPProvider(t, c)

	// Act
	found, err := p.Check(context.Background())

	// Assert
	require.NoError(t, err)
	assert.True(t, found)
	c.AssertExpectations(t)
}

func TestIMAPProvider_EmptyFolder(t *testing.T) {
	c := &mockIMAPClient{}
	c.On("Login", "alice", "pw").Return(nil)
	c.On("Select", "INBOX", true).Return(&imap.MailboxStatus{Messages: 0}, nil)
	c.On("Logout").Return(nil)
	p := newTestIMAPProvider(t, c)

	found, err := p.Check(context.Background())

	require.NoError(t, err)
	assert.False(t, found)
	c.AssertNotCalled(t, "Fetch", mock.Anything)
}

func TestIMAPProvider_NoMatch(t *testing.T) {
	c := &mockIMAPClient{bodies: []string{htmlMail}}
	c.On("Login", "alice", "pw").Return(nil)
	c.On("Select", "INBOX", true).Return(&imap.MailboxStatus{Messages: 1}, nil)
	c.On("Fetch", "1").Return(nil)
	c.On("Logout").Return(nil)
	p := newTestIMAPProvider(t, c)

	found, err := p.Check(context.Background())

	require.NoError(t, err)
	assert.False(t, found)
}

func TestIMAPProvider_LoginFailureIsTransportError(t *testing.T) {
	// Arrange
	c := &mockIMAPClient{}
	c.On("Login", "alice", "pw").Return(errors.New("authentication failed"))
	c.On("Logout").Return(nil)
	p := newTestIMAPProvider(t, c)

	// Act
	found, err := p.Check(context.Background())

	// Assert
	assert.False(t, found)
	require.Error(t, err)
	assert.True(t, sleepererrors.IsTransport(err))
	c.AssertCalled(t, "Logout")
}

func TestIMAPProvider_DialFailureIsTransportError(t *testing.T) {
	p := newTestIMAPProvider(t, &mockIMAPClient{})
	p.dial = func(config.IMAPConfig) (imapClient, error) {
		return nil, errors.New("connection refused")
	}

	_, err := p.Check(context.Background())

	assert.True(t, sleepererrors.IsTransport(err))
}

func TestNewIMAPProvider_PasswordFromKeyring(t *testing.T) {
	// Arrange
	keyring.MockInit()
	require.NoError(t, secrets.Store(secrets.Account("imap", "alice", "mail.example.org"), "from-keyring"))

	// Act
	p, err := NewIMAPProvider(config.IMAPConfig{Server: "mail.example.org", User: "alice"}, parser.NoParser{}, logger.NewNopLogger())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "from-keyring", p.password)
}

func TestNewIMAPProvider_MissingPassword(t *testing.T) {
	keyring.MockInit()

	_, err := NewIMAPProvider(config.IMAPConfig{Server: "mail.example.org", User: "carol"}, parser.NoParser{}, logger.NewNopLogger())

	require.Error(t, err)
	assert.True(t, sleepererrors.IsConfiguration(err))
	assert.ErrorIs(t, err, secrets.ErrNotFound)
}
