package config

import (
	"time"

	appconfig "github.com/customeros/sleeper/config"
)

const (
	DefaultTimeout       = 30 * time.Second
	DefaultGuerrillaRate = 2.0
	DefaultAMQPBatch     = 10
)

// Common carries the settings every provider reads.
type Common struct {
	Keyphrase string
	Verbose   bool
	Debug     bool
	Timeout   time.Duration
}

type GuerrillaMailConfig struct {
	Common
	Endpoint string
	Lang     string
	// Rate is the number of API calls allowed per second.
	Rate float64
}

type HTTPConfig struct {
	Common
	Address string
}

type POP3Config struct {
	Common
	Server   string
	User     string
	Password string
}

type IMAPConfig struct {
	Common
	Server   string
	User     string
	Password string
	Folder   string
	TLS      bool
}

type S3Config struct {
	Common
	Bucket   string
	Key      string
	Region   string
	Endpoint string
}

type AMQPConfig struct {
	Common
	URL   string
	Queue string
	Batch int
}

type StatusConfig struct {
	Address string
}

func timeout(o appconfig.Options) time.Duration {
	seconds := o.Int(appconfig.KeyHTTPTimeout, 0)
	if seconds <= 0 {
		return DefaultTimeout
	}
	return time.Duration(seconds) * time.Second
}

func NewCommon(o appconfig.Options) Common {
	return Common{
		Keyphrase: o.Get(appconfig.KeyKeyphrase),
		Verbose:   o.Bool(appconfig.KeyVerbose),
		Debug:     o.Bool(appconfig.KeyDebug),
		Timeout:   timeout(o),
	}
}

func NewGuerrillaMailConfig(o appconfig.Options) GuerrillaMailConfig {
	rate := o.Float(appconfig.KeyGuerrillaRate, DefaultGuerrillaRate)
	if rate <= 0 {
		rate = DefaultGuerrillaRate
	}
	return GuerrillaMailConfig{
		Common:   NewCommon(o),
		Endpoint: o.Get(appconfig.KeyGuerrillaEndpoint),
		Lang:     o.Get(appconfig.KeyGuerrillaLang),
		Rate:     rate,
	}
}

func NewHTTPConfig(o appconfig.Options) HTTPConfig {
	return HTTPConfig{
		Common:  NewCommon(o),
		Address: o.Get(appconfig.KeyHTTPAddress),
	}
}

func NewPOP3Config(o appconfig.Options) POP3Config {
	return POP3Config{
		Common:   NewCommon(o),
		Server:   o.Get(appconfig.KeyPOP3Server),
		User:     o.Get(appconfig.KeyPOP3User),
		Password: o.Get(appconfig.KeyPOP3Password),
	}
}

func NewIMAPConfig(o appconfig.Options) IMAPConfig {
	folder := o.Get(appconfig.KeyIMAPFolder)
	if folder == "" {
		folder = "INBOX"
	}
	tls := true
	if v, ok := o.Lookup(appconfig.KeyIMAPTLS); ok && v != "" {
		tls = o.Bool(appconfig.KeyIMAPTLS)
	}
	return IMAPConfig{
		Common:   NewCommon(o),
		Server:   o.Get(appconfig.KeyIMAPServer),
		User:     o.Get(appconfig.KeyIMAPUser),
		Password: o.Get(appconfig.KeyIMAPPassword),
		Folder:   folder,
		TLS:      tls,
	}
}

func NewS3Config(o appconfig.Options) S3Config {
	return S3Config{
		Common:   NewCommon(o),
		Bucket:   o.Get(appconfig.KeyS3Bucket),
		Key:      o.Get(appconfig.KeyS3Key),
		Region:   o.Get(appconfig.KeyS3Region),
		Endpoint: o.Get(appconfig.KeyS3Endpoint),
	}
}

func NewAMQPConfig(o appconfig.Options) AMQPConfig {
	batch := o.Int(appconfig.KeyAMQPBatch, DefaultAMQPBatch)
	if batch <= 0 {
		batch = DefaultAMQPBatch
	}
	return AMQPConfig{
		Common: NewCommon(o),
		URL:    o.Get(appconfig.KeyAMQPURL),
		Queue:  o.Get(appconfig.KeyAMQPQueue),
		Batch:  batch,
	}
}

func NewStatusConfig(o appconfig.Options) StatusConfig {
	return StatusConfig{Address: o.Get(appconfig.KeyStatusAddr)}
}
