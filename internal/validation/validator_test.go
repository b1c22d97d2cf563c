package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateEthereumAddress(t *testing.T) {
	tests := []struct {
		name    string
		address string
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid lowercase address",
			address: "0x742d35cc6634c0532925a3b844bc454e4438f44e",
			wantErr: false,
		},
		{
			name:    "valid uppercase address",
			address: "0x742D35CC6634C0532925A3B844BC454E4438F44E",
			wantErr: false,
		},
		{
			name:    "repeated byte address",
			address: "0x3535353535353535353535353535353535353535",
			wantErr: false,
		},
		{
			name:    "empty address",
			address: "",
			wantErr: true,
			errMsg:  "address cannot be empty",
		},
		{
			name:    "missing 0x prefix",
			address: "742d35cc6634c0532925a3b844bc454e4438f44e",
			wantErr: true,
			errMsg:  "invalid Ethereum address format",
		},
		{
			name:    "too short address",
			address: "0xdeadbef",
			wantErr: true,
			errMsg:  "invalid Ethereum address format",
		},
		{
			name:    "invalid characters",
			address: "0x742d35cc6634c0532925a3b844bc454e4438fXYZ",
			wantErr: true,
			errMsg:  "invalid Ethereum address format",
		},
		{
			name:    "zero address",
			address: "0x0000000000000000000000000000000000000000",
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEthereumAddress(tt.address)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateQuantity(t *testing.T) {
	assert.NoError(t, ValidateQuantity("amount", nil))
	assert.NoError(t, ValidateQuantity("amount", make([]byte, 32)))

	err := ValidateQuantity("gasPrice", make([]byte, 33))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gasPrice too large")
}

func TestValidatePayloadSize(t *testing.T) {
	assert.NoError(t, ValidatePayloadSize([]byte("abc"), 0))
	assert.NoError(t, ValidatePayloadSize([]byte("abc"), 3))

	err := ValidatePayloadSize([]byte(strings.Repeat("a", 10)), 4)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "payload too large")
}

func TestValidateScheme(t *testing.T) {
	tests := []struct {
		scheme  string
		wantErr bool
	}{
		{scheme: "trust://"},
		{scheme: "trust-rn-example"},
		{scheme: "sampleapp://"},
		{scheme: "my.app+v2:"},
		{scheme: "", wantErr: true},
		{scheme: "://", wantErr: true},
		{scheme: "1app://", wantErr: true},
		{scheme: "my app://", wantErr: true},
		{scheme: "app/path://", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.scheme, func(t *testing.T) {
			err := ValidateScheme(tt.scheme)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestEthereumAddressPattern(t *testing.T) {
	assert.True(t, EthereumAddressPattern.MatchString("0x742d35Cc6634C0532925a3b844Bc454e4438f44e"))
	assert.False(t, EthereumAddressPattern.MatchString("0x742d35Cc6634C0532925a3b844Bc454e4438f44"))
}
