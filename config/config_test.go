package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseArgs(t *testing.T) {
	// Arrange
	args := []string{"keyphrase=Open Sesame", "verbose", "action=echo a=b", "=ignored", " Repeat =7"}

	// Act
	parsed := ParseArgs(args)

	// Assert
	assert.Equal(t, map[string]string{
		"keyphrase": "Open Sesame",
		"verbose":   "true",
		"action":    "echo a=b",
		"repeat":    "7",
	}, parsed)
}

func TestOptions_MergeIsImmutable(t *testing.T) {
	base := Defaults()

	merged := base.Merge(map[string]string{KeyRepeat: "10"})

	assert.Equal(t, "5", base.Get(KeyRepeat))
	assert.Equal(t, "10", merged.Get(KeyRepeat))
}

func TestOptions_Accessors(t *testing.T) {
	o := NewOptions(map[string]string{"verbose": "TRUE", "repeat": "x", "gm_rate": "0.5"})

	assert.True(t, o.Bool(KeyVerbose))
	assert.False(t, o.Bool(KeyDebug))
	assert.Equal(t, 5, o.Int(KeyRepeat, 5))
	assert.Equal(t, 0.5, o.Float(KeyGuerrillaRate, 2))
	_, ok := o.Lookup("missing")
	assert.False(t, ok)
}

func TestOptions_StringMasksSecrets(t *testing.T) {
	o := NewOptions(map[string]string{"imappassword": "hunter2", "keyphrase": "k"})

	assert.Equal(t, "{imappassword=******, keyphrase=k}", o.String())
}

func TestOptions_Equal(t *testing.T) {
	assert.True(t, Defaults().Equal(Defaults()))
	assert.False(t, Defaults().Equal(Defaults().Merge(map[string]string{"verbose": "true"})))
}

func TestInitConfig_Layering(t *testing.T) {
	// Arrange
	dir := t.TempDir()
	path := filepath.Join(dir, "sleeper.yml")
	require.NoError(t, os.WriteFile(path, []byte("keyphrase: from-file\nrepeat: 9\nverbose: true\nprovider: http\n"), 0o600))
	t.Setenv("SLEEPER_REPEAT", "11")
	t.Setenv("SLEEPER_PROVIDER", "guerrillamail")

	// Act
	cfg, err := InitConfig(path, map[string]string{"provider": "console"})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.Options.Get(KeyKeyphrase))
	assert.Equal(t, "11", cfg.Options.Get(KeyRepeat))
	assert.Equal(t, "true", cfg.Options.Get(KeyVerbose))
	assert.Equal(t, "console", cfg.Options.Get(KeyProvider))
	assert.Equal(t, "plaintext", cfg.Options.Get(KeyParser))
	assert.Equal(t, "info", cfg.Logger.LogLevel)
	assert.False(t, cfg.Tracing.Enabled)
}

func TestInitConfig_RejectedRepeatKeepsLowerLayer(t *testing.T) {
	// Arrange
	path := filepath.Join(t.TempDir(), "sleeper.yml")
	require.NoError(t, os.WriteFile(path, []byte("repeat: 9\n"), 0o600))
	t.Setenv("SLEEPER_REPEAT", "2")
	args := map[string]string{KeyRepeat: "1"}

	// Act
	cfg, err := InitConfig(path, args)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "9", cfg.Options.Get(KeyRepeat))
	assert.Equal(t, []string{"2", "1"}, cfg.RejectedRepeat)
	assert.Equal(t, "1", args[KeyRepeat])
}

func TestInitConfig_RejectedRepeatKeepsDefault(t *testing.T) {
	cfg, err := InitConfig("", map[string]string{KeyRepeat: "abc"})

	require.NoError(t, err)
	assert.Equal(t, "5", cfg.Options.Get(KeyRepeat))
	assert.Equal(t, []string{"abc"}, cfg.RejectedRepeat)
}

func TestValidRepeat(t *testing.T) {
	assert.True(t, ValidRepeat("3"))
	assert.True(t, ValidRepeat(" 12 "))
	assert.False(t, ValidRepeat("2"))
	assert.False(t, ValidRepeat(""))
	assert.False(t, ValidRepeat("1.5"))
}

func TestInitConfig_ProviderTuningFromEnv(t *testing.T) {
	// Arrange
	t.Setenv("SLEEPER_GM_ENDPOINT", "http://localhost:8080/ajax.php")
	t.Setenv("SLEEPER_GM_LANG", "de")
	t.Setenv("SLEEPER_GM_RATE", "0.5")
	t.Setenv("SLEEPER_IMAPTLS", "false")
	t.Setenv("SLEEPER_AMQPBATCH", "3")
	t.Setenv("SLEEPER_NOTIFY", "true")

	// Act
	cfg, err := InitConfig("", nil)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/ajax.php", cfg.Options.Get(KeyGuerrillaEndpoint))
	assert.Equal(t, "de", cfg.Options.Get(KeyGuerrillaLang))
	assert.Equal(t, "0.5", cfg.Options.Get(KeyGuerrillaRate))
	assert.False(t, cfg.Options.Bool(KeyIMAPTLS))
	assert.Equal(t, 3, cfg.Options.Int(KeyAMQPBatch, 0))
	assert.True(t, cfg.Options.Bool(KeyNotify))
}

func TestLoadFile_RejectsNested(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yml")
	require.NoError(t, os.WriteFile(path, []byte("imap:\n  server: x\n"), 0o600))

	_, err := LoadFile(path)

	assert.Error(t, err)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yml"))

	assert.Error(t, err)
}
