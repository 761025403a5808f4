package secrets

import (
	"github.com/pkg/errors"
	"github.com/zalando/go-keyring"
)

// Service is the keyring service name sleeper stores credentials under.
const Service = "sleeper"

var ErrNotFound = errors.New("secret not found in keyring")

// Account builds the keyring account name for a credential, e.g. "imap:alice@mail.example.org".
func Account(kind, user, server string) string {
	return kind + ":" + user + "@" + server
}

func Lookup(account string) (string, error) {
	secret, err := keyring.Get(Service, account)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", errors.Wrapf(ErrNotFound, "account %s", account)
	}
	if err != nil {
		return "", errors.Wrapf(err, "reading keyring account %s", account)
	}
	return secret, nil
}

// Store saves a secret, replacing any previous value.
func Store(account, secret string) error {
	return errors.Wrapf(keyring.Set(Service, account, secret), "writing keyring account %s", account)
}
