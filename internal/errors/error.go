package errors

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// configuration errors
	ErrNoProvider        = errors.New("no provider has been set")
	ErrUnknownProvider   = errors.New("unknown provider")
	ErrUnknownParser     = errors.New("unknown parser")
	ErrEmptyKeyphrase    = errors.New("no keyphrase was specified")
	ErrEmptyAction       = errors.New("no action to execute was specified")
	ErrMalformedAction   = errors.New("action is malformed")
	ErrNotifyUnsupported = errors.New("provider does not support notify")
	ErrInstanceLocked    = errors.New("another sleeper instance holds the lock")

	// transport errors
	ErrConnectionTimeout = errors.New("connection timeout")
	ErrUnexpectedStatus  = errors.New("unexpected response status")
)

// Kind classifies failures by how the task runtime must react to them.
type Kind int

const (
	KindConfiguration Kind = iota + 1
	KindTransport
	KindDecode
	KindActionLaunch
)

func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration error"
	case KindTransport:
		return "transport error"
	case KindDecode:
		return "decode error"
	case KindActionLaunch:
		return "action launch error"
	default:
		return "error"
	}
}

type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Cause() error {
	return e.Err
}

func newError(kind Kind, op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

func Configuration(op string, err error) error {
	return newError(KindConfiguration, op, err)
}

func Configurationf(op string, format string, args ...interface{}) error {
	return newError(KindConfiguration, op, errors.Errorf(format, args...))
}

func Transport(op string, err error) error {
	return newError(KindTransport, op, err)
}

func Decode(op string, err error) error {
	return newError(KindDecode, op, err)
}

func ActionLaunch(op string, err error) error {
	return newError(KindActionLaunch, op, err)
}

// KindOf returns the kind of the outermost classified error in the chain, or 0.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

func IsConfiguration(err error) bool {
	return KindOf(err) == KindConfiguration
}

func IsTransport(err error) bool {
	return KindOf(err) == KindTransport
}

func IsDecode(err error) bool {
	return KindOf(err) == KindDecode
}

func IsActionLaunch(err error) bool {
	return KindOf(err) == KindActionLaunch
}
