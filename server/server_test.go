package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/gofrs/flock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/customeros/sleeper/config"
	sleepererrors "github.com/customeros/sleeper/internal/errors"
	"github.com/customeros/sleeper/internal/logger"
	"github.com/customeros/sleeper/internal/tracing"
)

func newTestServer(t *testing.T, options map[string]string) (*Server, *bytes.Buffer) {
	cfg := &config.Config{
		Options: config.Defaults().Merge(options),
		Logger:  &logger.Config{LogLevel: "error", Encoder: "console"},
		Tracing: &tracing.JaegerConfig{},
	}
	s, err := NewServer(cfg)
	require.NoError(t, err)
	out := &bytes.Buffer{}
	s.stdout = out
	s.stdin = strings.NewReader("")
	return s, out
}

func TestRun_HTTPDetectionRunsAction(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses a POSIX shell")
	}
	// Arrange
	target := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<p>this is a Test message</p>"))
	}))
	defer target.Close()
	s, out := newTestServer(t, map[string]string{
		config.KeyProvider:    "http",
		config.KeyParser:      "html",
		config.KeyHTTPAddress: target.URL,
		config.KeyKeyphrase:   "Test",
		config.KeyAction:      "printf fired",
	})

	// Act
	err := s.Run(context.Background())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "fired", out.String())
}

func TestRun_NotifyUnsupported(t *testing.T) {
	s, _ := newTestServer(t, map[string]string{
		config.KeyProvider:    "http",
		config.KeyHTTPAddress: "http://example.org",
		config.KeyNotify:      "true",
	})

	err := s.Run(context.Background())

	require.Error(t, err)
	assert.True(t, sleepererrors.IsConfiguration(err))
	assert.ErrorIs(t, err, sleepererrors.ErrNotifyUnsupported)
}

func TestRun_NotifyPrintsAddress(t *testing.T) {
	// Arrange
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		switch q.Get("f") {
		case "get_email_address":
			_ = json.NewEncoder(w).Encode(map[string]string{"email_addr": "tmp@sharklasers.com", "sid_token": "t1"})
		case "set_email_user":
			_ = json.NewEncoder(w).Encode(map[string]string{"email_addr": q.Get("email_user") + "@sharklasers.com", "sid_token": "t2"})
		default:
			t.Errorf("unexpected call %s", q.Get("f"))
		}
	}))
	defer api.Close()
	s, out := newTestServer(t, map[string]string{
		config.KeyProvider:          "guerrillamail",
		config.KeyGuerrillaEndpoint: api.URL,
		config.KeyGuerrillaRate:     "100",
		config.KeyKeyphrase:         "Test",
		config.KeyNotify:            "true",
	})

	// Act
	err := s.Run(context.Background())

	// Assert
	require.NoError(t, err)
	assert.Contains(t, out.String(), "@sharklasers.com")
	assert.Contains(t, out.String(), `keyphrase "Test"`)
}

func TestRun_UnknownProvider(t *testing.T) {
	s, _ := newTestServer(t, map[string]string{config.KeyProvider: "carrier-pigeon", config.KeyAction: "true"})

	err := s.Run(context.Background())

	assert.True(t, sleepererrors.IsConfiguration(err))
	assert.ErrorIs(t, err, sleepererrors.ErrUnknownProvider)
}

func TestRun_NoProviderFailsOnFirstTick(t *testing.T) {
	s, out := newTestServer(t, map[string]string{config.KeyAction: "echo never", config.KeyKeyphrase: "Test"})

	err := s.Run(context.Background())

	assert.True(t, sleepererrors.IsConfiguration(err))
	assert.ErrorIs(t, err, sleepererrors.ErrNoProvider)
	assert.Empty(t, out.String())
}

func TestRun_MissingActionFailsBeforePolling(t *testing.T) {
	calls := 0
	target := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer target.Close()
	s, _ := newTestServer(t, map[string]string{config.KeyProvider: "http", config.KeyHTTPAddress: target.URL})

	err := s.Run(context.Background())

	assert.ErrorIs(t, err, sleepererrors.ErrEmptyAction)
	assert.Equal(t, 0, calls)
}

func TestRun_EmptyKeyphraseFailsBeforePolling(t *testing.T) {
	calls := 0
	target := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer target.Close()
	s, out := newTestServer(t, map[string]string{
		config.KeyProvider:    "http",
		config.KeyHTTPAddress: target.URL,
		config.KeyAction:      "echo never",
	})

	err := s.Run(context.Background())

	assert.True(t, sleepererrors.IsConfiguration(err))
	assert.ErrorIs(t, err, sleepererrors.ErrEmptyKeyphrase)
	assert.Equal(t, 0, calls)
	assert.Empty(t, out.String())
}

func TestRun_VerboseCaseFoldNote(t *testing.T) {
	// Arrange
	s, _ := newTestServer(t, map[string]string{
		config.KeyVerbose:                  "true",
		config.KeyPlainTextCaseInsensitive: "true",
		config.KeyProvider:                 "carrier-pigeon",
	})
	log, logs := logger.NewObservedLogger("info")
	s.log = log

	// Act
	_ = s.Run(context.Background())

	// Assert
	assert.Equal(t, 1, logs.FilterMessage("Using the plaintext parser to look for the keyphrase").Len())
	assert.Equal(t, 1, logs.FilterMessageSnippet("ptp_ci is set").Len())
}

func TestRun_CaseFoldNoteNeedsVerbose(t *testing.T) {
	s, _ := newTestServer(t, map[string]string{
		config.KeyPlainTextCaseInsensitive: "true",
		config.KeyProvider:                 "carrier-pigeon",
	})
	log, logs := logger.NewObservedLogger("info")
	s.log = log

	_ = s.Run(context.Background())

	assert.Equal(t, 0, logs.FilterMessageSnippet("ptp_ci is set").Len())
}

func TestRun_LogsRejectedRepeatWhenVerbose(t *testing.T) {
	s, _ := newTestServer(t, map[string]string{config.KeyVerbose: "true", config.KeyProvider: "carrier-pigeon"})
	s.config.RejectedRepeat = []string{"1"}
	log, logs := logger.NewObservedLogger("info")
	s.log = log

	_ = s.Run(context.Background())

	assert.Equal(t, 1, logs.FilterMessage("Requested repeat interval 1 minute(s) ignored, the minimum is 3").Len())
}

func TestRun_LockHeldByAnotherInstance(t *testing.T) {
	// Arrange
	path := filepath.Join(t.TempDir(), "sleeper.lock")
	other := flock.New(path)
	locked, err := other.TryLock()
	require.NoError(t, err)
	require.True(t, locked)
	defer other.Unlock()
	s, _ := newTestServer(t, map[string]string{config.KeyLockFile: path, config.KeyAction: "true"})

	// Act
	err = s.Run(context.Background())

	// Assert
	assert.True(t, sleepererrors.IsConfiguration(err))
	assert.ErrorIs(t, err, sleepererrors.ErrInstanceLocked)
}

func TestNewServer_DebugEnablesDebugLevel(t *testing.T) {
	s, _ := newTestServer(t, map[string]string{config.KeyDebug: "true"})

	assert.True(t, s.log.Logger().Core().Enabled(zapcore.DebugLevel))
}

func TestNewServer_DefaultLevelFromLoggerConfig(t *testing.T) {
	s, _ := newTestServer(t, nil)

	assert.False(t, s.log.Logger().Core().Enabled(zapcore.DebugLevel))
}

func TestNewServer_NilConfig(t *testing.T) {
	_, err := NewServer(nil)

	assert.Error(t, err)
}
