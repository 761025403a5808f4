package config

// Option names understood by sleeper. Unknown names are carried but ignored.
const (
	KeyKeyphrase = "keyphrase"
	KeyAction    = "action"
	KeyProvider  = "provider"
	KeyParser    = "parser"
	KeyVerbose   = "verbose"
	KeyDebug     = "debug"
	KeyRepeat    = "repeat"
	KeyNotify    = "notify"
	KeyConfig    = "config"

	KeyHTTPAddress = "httpaddress"
	KeyHTTPTimeout = "httptimeout"

	KeyPOP3Server   = "pop3server"
	KeyPOP3User     = "pop3user"
	KeyPOP3Password = "pop3password"

	KeyPlainTextCaseInsensitive = "ptp_ci"

	KeyGuerrillaEndpoint = "gm_endpoint"
	KeyGuerrillaLang     = "gm_lang"
	KeyGuerrillaRate     = "gm_rate"

	KeyIMAPServer   = "imapserver"
	KeyIMAPUser     = "imapuser"
	KeyIMAPPassword = "imappassword"
	KeyIMAPFolder   = "imapfolder"
	KeyIMAPTLS      = "imaptls"

	KeyS3Bucket   = "s3bucket"
	KeyS3Key      = "s3key"
	KeyS3Region   = "s3region"
	KeyS3Endpoint = "s3endpoint"

	KeyAMQPURL   = "amqpurl"
	KeyAMQPQueue = "amqpqueue"
	KeyAMQPBatch = "amqpbatch"

	KeyLockFile   = "lockfile"
	KeyStatusAddr = "statusaddr"
	KeyLogFormat  = "logformat"
)

// DefaultRepeatMinutes and MinRepeatMinutes bound the poll interval.
const (
	DefaultRepeatMinutes = 5
	MinRepeatMinutes     = 3
)

var defaultValues = map[string]string{
	KeyKeyphrase:                "",
	KeyAction:                   "",
	KeyProvider:                 "none",
	KeyParser:                   "plaintext",
	KeyVerbose:                  "false",
	KeyDebug:                    "false",
	KeyRepeat:                   "5",
	KeyNotify:                   "false",
	KeyHTTPAddress:              "",
	KeyHTTPTimeout:              "30",
	KeyPOP3Server:               "",
	KeyPOP3User:                 "",
	KeyPOP3Password:             "",
	KeyPlainTextCaseInsensitive: "false",
	KeyGuerrillaEndpoint:        "https://api.guerrillamail.com/ajax.php",
	KeyGuerrillaLang:            "en",
	KeyGuerrillaRate:            "2",
	KeyIMAPServer:               "",
	KeyIMAPUser:                 "",
	KeyIMAPPassword:             "",
	KeyIMAPFolder:               "INBOX",
	KeyIMAPTLS:                  "true",
	KeyS3Bucket:                 "",
	KeyS3Key:                    "",
	KeyS3Region:                 "us-east-1",
	KeyS3Endpoint:               "",
	KeyAMQPURL:                  "",
	KeyAMQPQueue:                "",
	KeyAMQPBatch:                "10",
	KeyLockFile:                 "",
	KeyStatusAddr:               "",
	KeyLogFormat:                "console",
}

// secretKeys are masked when options are printed.
var secretKeys = map[string]bool{
	KeyPOP3Password: true,
	KeyIMAPPassword: true,
	KeyAMQPURL:      true,
}
