package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/better-wallet/trustlink/internal/config"
	"github.com/better-wallet/trustlink/pkg/command"
	apperrors "github.com/better-wallet/trustlink/pkg/errors"
)

func testConfig() *config.Config {
	return &config.Config{
		CallbackScheme: "sampleapp://",
		WalletScheme:   "trust://",
	}
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := run(testConfig(), args, &out)
	return strings.TrimSpace(out.String()), err
}

func TestRun_URL(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "accounts",
			args: []string{"url", "accounts", "-coins", "60,714", "-id", "acc_1"},
			want: "trust://sdk_get_accounts?coins.0=60&coins.1=714&app=sampleapp%3A%2F%2F&callback=sdk_get_accounts&id=acc_1",
		},
		{
			name: "message with address",
			args: []string{"url", "message", "-data", "0xdead", "-address", "0xabc", "-id", "msg_1"},
			want: "trust://sdk_sign_message?coin=60&data=0xdead&address=0xabc&app=sampleapp%3A%2F%2F&callback=sdk_sign_message&id=msg_1",
		},
		{
			name: "transaction with meta",
			args: []string{"url", "tx", "-data", "CgVoZWxsbw==", "-send", "-meta-name", "Test", "-meta-url", "https://dapp.example", "-id", "tx_1"},
			want: "trust://sdk_sign?coin=60&data=CgVoZWxsbw%3D%3D&meta.__name=dApp&meta.name=Test&meta.url=https%3A%2F%2Fdapp.example&send=true&app=sampleapp%3A%2F%2F&callback=sdk_sign&id=tx_1",
		},
		{
			name: "custom callback",
			args: []string{"url", "message", "-data", "x", "-callback-scheme", "other://", "-callback-path", "done", "-id", "msg_2"},
			want: "trust://sdk_sign_message?coin=60&data=x&app=other%3A%2F%2F&callback=done&id=msg_2",
		},
		{
			name: "android",
			args: []string{"url", "android", "-to", "0x728B02377230b5df73Aa4E3192E89b6090DD7312", "-amount", "1000", "-gas-limit", "21000", "-payload", "0xDEAD", "-id", "tx_2"},
			want: "trust://sdk_transaction?asset=c60&to=0x728B02377230b5df73Aa4E3192E89b6090DD7312&meta=dead&fee_limit=21000" +
				"&wei_amount=1000&action=transfer&confirm_type=sign&callback=sampleapp%3A%2F%2Fsdk_sign&id=tx_2",
		},
		{
			name: "legacy message",
			args: []string{"legacy", "message", "-data", "hello"},
			want: "trust://sign-message?message=aGVsbG8%3D&callback=sampleapp%3A%2F%2Fsign-message%3Fid%3Dmsg",
		},
		{
			name: "legacy transaction",
			args: []string{"legacy", "tx", "-to", "0x728B02377230b5df73Aa4E3192E89b6090DD7312", "-amount", "1"},
			want: "trust://sign-transaction?to=0x728B02377230b5df73Aa4E3192E89b6090DD7312&amount=1&gasPrice=21&gasLimit=21000&nonce=0" +
				"&callback=sampleapp%3A%2F%2Fsign-transaction%3Fid%3Dtx",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := runCLI(t, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRun_GeneratedID(t *testing.T) {
	got, err := runCLI(t, "url", "accounts", "-coins", "60")
	require.NoError(t, err)
	assert.Contains(t, got, "&id=acc_")
}

func TestRun_Errors(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		wantUsage bool
		errMsg    string
	}{
		{name: "no args", args: nil, wantUsage: true},
		{name: "unknown command", args: []string{"serve"}, wantUsage: true},
		{name: "url without kind", args: []string{"url"}, wantUsage: true},
		{name: "unknown url kind", args: []string{"url", "nft"}, wantUsage: true},
		{name: "unknown flag", args: []string{"url", "accounts", "-bogus"}, wantUsage: true},
		{name: "missing coins", args: []string{"url", "accounts"}, errMsg: "-coins is required"},
		{name: "bad coins", args: []string{"url", "accounts", "-coins", "60,eth"}, errMsg: "invalid coin type"},
		{name: "tx without data", args: []string{"url", "tx"}, errMsg: "-data is required"},
		{name: "android bad address", args: []string{"url", "android", "-to", "0x1"}, errMsg: "-to"},
		{name: "android bad amount", args: []string{"url", "android", "-to", "0x728B02377230b5df73Aa4E3192E89b6090DD7312", "-amount", "-5"}, errMsg: "-amount"},
		{name: "parse without url", args: []string{"parse"}, wantUsage: true},
		{name: "install unknown platform", args: []string{"install", "-platform", "web"}, errMsg: "-platform"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCLI(t, tt.args...)
			require.Error(t, err)
			if tt.wantUsage {
				assert.ErrorIs(t, err, errUsage)
			}
			if tt.errMsg != "" {
				assert.Contains(t, err.Error(), tt.errMsg)
			}
		})
	}
}

func TestRun_Parse(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want command.Response
	}{
		{
			name: "accounts",
			args: []string{"parse", "sampleapp://sdk_get_accounts?id=acc_1&accounts=0xabc%2Cbnb1"},
			want: command.Response{ID: "acc_1", Result: "0xabc,bnb1", Error: apperrors.ErrCodeNone},
		},
		{
			name: "rejected",
			args: []string{"parse", "sampleapp://sdk_sign?id=tx_1&error=rejected_by_user"},
			want: command.Response{ID: "tx_1", Error: apperrors.ErrCodeRejectedByUser},
		},
		{
			name: "no id",
			args: []string{"parse", "sampleapp://sdk_sign?data=abc"},
			want: command.Response{Error: apperrors.ErrCodeInvalidResponse},
		},
		{
			name: "legacy",
			args: []string{"parse", "-legacy", "sampleapp://sign-message?id=msg&result=3q2%2B7w%3D%3D"},
			want: command.Response{ID: "msg", Result: "deadbeef", Error: apperrors.ErrCodeNone},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runCLI(t, tt.args...)
			require.NoError(t, err)

			var got command.Response
			require.NoError(t, json.Unmarshal([]byte(out), &got))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRun_Install(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"default", []string{"install"}, "Trust: " + command.AppStoreURL},
		{"ios", []string{"install", "-platform", "ios"}, "Trust: " + command.AppStoreURL},
		{"android", []string{"install", "-platform", "android"}, "Trust: " + command.GooglePlayURL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runCLI(t, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestRun_AndroidZeroAddress(t *testing.T) {
	out, err := runCLI(t, "url", "android", "-id", "tx_1", "-to", "0x0000000000000000000000000000000000000000", "-amount", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "to=0x0000000000000000000000000000000000000000")
}
