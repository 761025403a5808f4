package config

import (
	"github.com/customeros/sleeper/internal/logger"
	"github.com/customeros/sleeper/internal/tracing"
)

type Config struct {
	Options Options
	Logger  *logger.Config
	Tracing *tracing.JaegerConfig

	// RejectedRepeat holds repeat values that were below the minimum, lowest layer first.
	RejectedRepeat []string
}

// EnvOptions carries SLEEPER_* environment overrides. Empty values are treated as unset.
type EnvOptions struct {
	ConfigFile   string `env:"SLEEPER_CONFIG"`
	Keyphrase    string `env:"SLEEPER_KEYPHRASE"`
	Action       string `env:"SLEEPER_ACTION"`
	Provider     string `env:"SLEEPER_PROVIDER"`
	Parser       string `env:"SLEEPER_PARSER"`
	Verbose      string `env:"SLEEPER_VERBOSE"`
	Debug        string `env:"SLEEPER_DEBUG"`
	Repeat       string `env:"SLEEPER_REPEAT"`
	Notify       string `env:"SLEEPER_NOTIFY"`
	HTTPAddress  string `env:"SLEEPER_HTTPADDRESS"`
	HTTPTimeout  string `env:"SLEEPER_HTTPTIMEOUT"`
	POP3Server   string `env:"SLEEPER_POP3SERVER"`
	POP3User     string `env:"SLEEPER_POP3USER"`
	POP3Password string `env:"SLEEPER_POP3PASSWORD"`
	CaseFold     string `env:"SLEEPER_PTP_CI"`
	GMEndpoint   string `env:"SLEEPER_GM_ENDPOINT"`
	GMLang       string `env:"SLEEPER_GM_LANG"`
	GMRate       string `env:"SLEEPER_GM_RATE"`
	IMAPServer   string `env:"SLEEPER_IMAPSERVER"`
	IMAPUser     string `env:"SLEEPER_IMAPUSER"`
	IMAPPassword string `env:"SLEEPER_IMAPPASSWORD"`
	IMAPFolder   string `env:"SLEEPER_IMAPFOLDER"`
	IMAPTLS      string `env:"SLEEPER_IMAPTLS"`
	S3Bucket     string `env:"SLEEPER_S3BUCKET"`
	S3Key        string `env:"SLEEPER_S3KEY"`
	S3Region     string `env:"SLEEPER_S3REGION"`
	S3Endpoint   string `env:"SLEEPER_S3ENDPOINT"`
	AMQPURL      string `env:"SLEEPER_AMQPURL"`
	AMQPQueue    string `env:"SLEEPER_AMQPQUEUE"`
	AMQPBatch    string `env:"SLEEPER_AMQPBATCH"`
	LockFile     string `env:"SLEEPER_LOCKFILE"`
	StatusAddr   string `env:"SLEEPER_STATUSADDR"`
	LogFormat    string `env:"SLEEPER_LOGFORMAT"`
}

func (e EnvOptions) toMap() map[string]string {
	all := map[string]string{
		KeyKeyphrase:                e.Keyphrase,
		KeyAction:                   e.Action,
		KeyProvider:                 e.Provider,
		KeyParser:                   e.Parser,
		KeyVerbose:                  e.Verbose,
		KeyDebug:                    e.Debug,
		KeyRepeat:                   e.Repeat,
		KeyNotify:                   e.Notify,
		KeyHTTPAddress:              e.HTTPAddress,
		KeyHTTPTimeout:              e.HTTPTimeout,
		KeyPOP3Server:               e.POP3Server,
		KeyPOP3User:                 e.POP3User,
		KeyPOP3Password:             e.POP3Password,
		KeyPlainTextCaseInsensitive: e.CaseFold,
		KeyGuerrillaEndpoint:        e.GMEndpoint,
		KeyGuerrillaLang:            e.GMLang,
		KeyGuerrillaRate:            e.GMRate,
		KeyIMAPServer:               e.IMAPServer,
		KeyIMAPUser:                 e.IMAPUser,
		KeyIMAPPassword:             e.IMAPPassword,
		KeyIMAPFolder:               e.IMAPFolder,
		KeyIMAPTLS:                  e.IMAPTLS,
		KeyS3Bucket:                 e.S3Bucket,
		KeyS3Key:                    e.S3Key,
		KeyS3Region:                 e.S3Region,
		KeyS3Endpoint:               e.S3Endpoint,
		KeyAMQPURL:                  e.AMQPURL,
		KeyAMQPQueue:                e.AMQPQueue,
		KeyAMQPBatch:                e.AMQPBatch,
		KeyLockFile:                 e.LockFile,
		KeyStatusAddr:               e.StatusAddr,
		KeyLogFormat:                e.LogFormat,
	}
	out := make(map[string]string)
	for k, v := range all {
		if v != "" {
			out[k] = v
		}
	}
	return out
}
