package provider

import (
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/customeros/sleeper/config"
	"github.com/customeros/sleeper/interfaces"
	internalconfig "github.com/customeros/sleeper/internal/config"
	sleepererrors "github.com/customeros/sleeper/internal/errors"
	"github.com/customeros/sleeper/internal/logger"
	"github.com/customeros/sleeper/services/guerrillamail"
)

const (
	NameNone          = "none"
	NameHTTP          = "http"
	NameConsole       = "console"
	NamePOP3          = "pop3"
	NameGuerrillaMail = guerrillamail.ProviderName
	NameIMAP          = "imap"
	NameS3            = "s3"
	NameAMQP          = "amqp"
)

// Dependencies are handed to every provider factory.
type Dependencies struct {
	Options config.Options
	Parser  interfaces.Parser
	Log     logger.Logger
	// Stdin feeds the console provider. Defaults to os.Stdin.
	Stdin io.Reader
}

type Factory func(deps Dependencies) (interfaces.Provider, error)

var registry = map[string]Factory{
	NameNone: func(Dependencies) (interfaces.Provider, error) {
		return NoProvider{}, nil
	},
	NameHTTP: func(deps Dependencies) (interfaces.Provider, error) {
		return NewHTTPProvider(internalconfig.NewHTTPConfig(deps.Options), deps.Parser, deps.Log)
	},
	NameConsole: func(deps Dependencies) (interfaces.Provider, error) {
		stdin := deps.Stdin
		if stdin == nil {
			stdin = os.Stdin
		}
		return NewConsoleProvider(internalconfig.NewCommon(deps.Options), stdin, deps.Parser, deps.Log), nil
	},
	NamePOP3: func(deps Dependencies) (interfaces.Provider, error) {
		return NewPOP3Provider(internalconfig.NewPOP3Config(deps.Options), deps.Log), nil
	},
	NameGuerrillaMail: func(deps Dependencies) (interfaces.Provider, error) {
		cfg := internalconfig.NewGuerrillaMailConfig(deps.Options)
		client, err := guerrillamail.NewClient(cfg)
		if err != nil {
			return nil, err
		}
		return guerrillamail.NewProvider(cfg, client, deps.Parser, deps.Log), nil
	},
	NameIMAP: func(deps Dependencies) (interfaces.Provider, error) {
		return NewIMAPProvider(internalconfig.NewIMAPConfig(deps.Options), deps.Parser, deps.Log)
	},
	NameS3: func(deps Dependencies) (interfaces.Provider, error) {
		return NewS3Provider(internalconfig.NewS3Config(deps.Options), deps.Parser, deps.Log)
	},
	NameAMQP: func(deps Dependencies) (interfaces.Provider, error) {
		return NewAMQPProvider(internalconfig.NewAMQPConfig(deps.Options), deps.Parser, deps.Log)
	},
}

// aliases accept the class names older configurations used.
var aliases = map[string]string{
	"se.cqst.sleeper.providers.noprovider":      NameNone,
	"se.cqst.sleeper.providers.httpprovider":    NameHTTP,
	"se.cqst.sleeper.providers.consoleprovider": NameConsole,
	"se.cqst.sleeper.providers.pop3provider":    NamePOP3,
	"se.cqst.sleeper.providers.gumprovider":     NameGuerrillaMail,
}

func Names() []string {
	return []string{NameNone, NameHTTP, NameConsole, NamePOP3, NameGuerrillaMail, NameIMAP, NameS3, NameAMQP}
}

// New builds the provider registered under name. An empty name selects NoProvider.
func New(name string, deps Dependencies) (interfaces.Provider, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		key = NameNone
	}
	if alias, ok := aliases[key]; ok {
		key = alias
	}
	factory, ok := registry[key]
	if !ok {
		return nil, sleepererrors.Configuration("provider", errors.Wrapf(sleepererrors.ErrUnknownProvider, "%q", name))
	}
	if deps.Log == nil {
		deps.Log = logger.NewNopLogger()
	}
	return factory(deps)
}
