package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		BotToken:          "token",
		SheetID:           "sheet",
		AllowedUsers:      []int64{100, 200},
		CredentialsFile:   "sa.json",
		TransactionsSheet: "Транзакции",
		SettingsSheet:     "Settings",
		TimezoneOffset:    4,
		LogLevel:          "info",
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{
			name:    "missing token",
			mutate:  func(c *Config) { c.BotToken = "" },
			wantErr: "BOT_TOKEN",
		},
		{
			name:    "missing sheet id",
			mutate:  func(c *Config) { c.SheetID = "" },
			wantErr: "SHEET_ID",
		},
		{
			name:    "no allowed users",
			mutate:  func(c *Config) { c.AllowedUsers = nil },
			wantErr: "ALLOWED_USERS",
		},
		{
			name: "no credentials",
			mutate: func(c *Config) {
				c.CredentialsFile = ""
				c.CredentialsJSON = ""
			},
			wantErr: "GOOGLE_SERVICE_ACCOUNT",
		},
		{
			name:    "offset out of range",
			mutate:  func(c *Config) { c.TimezoneOffset = 20 },
			wantErr: "TIMEZONE_OFFSET",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateReportsAllProblemsAtOnce(t *testing.T) {
	err := (&Config{TimezoneOffset: 4}).Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BOT_TOKEN")
	assert.Contains(t, err.Error(), "SHEET_ID")
	assert.Contains(t, err.Error(), "ALLOWED_USERS")
}

func TestParseUserIDs(t *testing.T) {
	ids, err := ParseUserIDs(" 123 ,456,, 789 ")
	require.NoError(t, err)
	assert.Equal(t, []int64{123, 456, 789}, ids)

	ids, err = ParseUserIDs("")
	require.NoError(t, err)
	assert.Empty(t, ids)

	_, err = ParseUserIDs("123,abc")
	assert.Error(t, err)
}
