package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefaults(t *testing.T) {
	c, err := Parse([]byte("environment: test\n"))
	require.NoError(t, err)

	assert.Equal(t, "https://login.questrade.com", c.Questrade.LoginURL)
	assert.Equal(t, "token.yaml", c.Questrade.TokenFile)
	assert.Equal(t, 30*time.Second, c.Questrade.Timeout)
	assert.Equal(t, 10, c.Questrade.RateLimit)
	assert.Equal(t, "2016-01-01", c.Reports.DividendStartDate)
	assert.Equal(t, 30.0, c.Reports.TargetCashRate)
	assert.Equal(t, "America/Toronto", c.Reports.Timezone)
	assert.Equal(t, "memory", c.Cache.Backend)
	assert.False(t, c.Cache.Enabled)
}

func TestParseInvalid(t *testing.T) {
	cases := map[string]string{
		"cash rate":       "reports:\n  target_cash_rate: 130\n",
		"timezone":        "reports:\n  timezone: Mars/Olympus\n",
		"start date":      "reports:\n  dividend_start_date: 01/01/2016\n",
		"cache backend":   "cache:\n  backend: disk\n",
		"default account": "accounts:\n  quant: \"123\"\ndefault_account: standard\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadWithEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("environment: test\n"), 0o600))

	t.Setenv("QUESTRADE_API_KEY", " abc123 ")
	t.Setenv("QUESTRADE_TOKEN_FILE", filepath.Join(dir, "tok.yaml"))
	t.Setenv("QUANT_ACCOUNT_NUM", "51234567")
	t.Setenv("STANDARD_ACCOUNT_NUM", "51234568")
	t.Setenv("DEFAULT_ACCOUNT", "standard")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("TARGET_CASH_RATE", "25")

	c, err := LoadWithEnv(path)
	require.NoError(t, err)

	assert.Equal(t, "abc123", c.Questrade.AccessCode)
	assert.Equal(t, filepath.Join(dir, "tok.yaml"), c.Questrade.TokenFile)
	assert.Equal(t, map[string]string{"quant": "51234567", "standard": "51234568"}, c.Accounts)
	assert.Equal(t, "debug", c.Log.Level)
	assert.Equal(t, 25.0, c.Reports.TargetCashRate)

	num, err := c.ResolveAccount("")
	require.NoError(t, err)
	assert.Equal(t, "51234568", num)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestResolveAccount(t *testing.T) {
	c, err := Parse([]byte("accounts:\n  quant: \"51234567\"\ndefault_account: quant\n"))
	require.NoError(t, err)

	for in, want := range map[string]string{"": "51234567", "quant": "51234567", "51234567": "51234567", "99999999": "99999999"} {
		got, err := c.ResolveAccount(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	_, err = c.ResolveAccount("margin")
	assert.Error(t, err)
}

func TestDividendStart(t *testing.T) {
	c, err := Parse([]byte("reports:\n  dividend_start_date: \"2020-03-01\"\n  timezone: UTC\n"))
	require.NoError(t, err)

	start, err := c.DividendStart()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2020, 3, 1, 0, 0, 0, 0, time.UTC), start)
}
