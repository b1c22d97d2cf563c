package bridge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	apperrors "github.com/better-wallet/trustlink/pkg/errors"
	"github.com/better-wallet/trustlink/pkg/types"
)

func TestDecimal(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		want  string
	}{
		{"unset", nil, ""},
		{"empty", []byte{}, ""},
		{"zero byte", []byte{0x00}, "0"},
		{"nonce", []byte{0x09}, "9"},
		{"gas limit", []byte{0x52, 0x08}, "21000"},
		{"gas price", []byte{0x04, 0xa8, 0x17, 0xc8, 0x00}, "20000000000"},
		{"leading zeros", []byte{0x00, 0x00, 0x01, 0x00}, "256"},
		{"one ether", []byte{0x0d, 0xe0, 0xb6, 0xb3, 0xa7, 0x64, 0x00, 0x00}, "1000000000000000000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, decimal(tt.input))
		})
	}
}

func TestSigningData(t *testing.T) {
	data, err := signingData(ProtoInput{Message: wrapperspb.String("hello")})
	require.NoError(t, err)
	assert.Equal(t, "CgVoZWxsbw==", data)

	data, err = signingData(EncodedInput{Data: []byte{0x0a, 0x05, 'h', 'e', 'l', 'l', 'o'}})
	require.NoError(t, err)
	assert.Equal(t, "CgVoZWxsbw==", data, "pre-encoded input matches the marshalled form")

	t.Run("deterministic map ordering", func(t *testing.T) {
		msg, err := structpb.NewStruct(map[string]any{"b": 1, "a": "x", "c": true, "d": nil})
		require.NoError(t, err)

		first, err := signingData(ProtoInput{Message: msg})
		require.NoError(t, err)
		for i := 0; i < 10; i++ {
			again, err := signingData(ProtoInput{Message: msg})
			require.NoError(t, err)
			assert.Equal(t, first, again)
		}
	})

	t.Run("android input has no signing data", func(t *testing.T) {
		_, err := signingData(AndroidInput{})
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})
}

func TestAndroidRequest(t *testing.T) {
	in := AndroidInput{
		ToAddress: "0x728B02377230b5df73Aa4E3192E89b6090DD7312",
		Amount:    []byte{0x01},
		GasLimit:  []byte{0x52, 0x08},
		Payload:   []byte{0xAB, 0xCD},
	}

	req, err := androidRequest(in, types.CoinEthereum, true)
	require.NoError(t, err)
	assert.Equal(t, "1", req.Amount)
	assert.Equal(t, "", req.Nonce)
	assert.Equal(t, "", req.GasPrice)
	assert.Equal(t, "21000", req.GasLimit)
	assert.Equal(t, "abcd", req.Meta)
	assert.True(t, req.Send)
	assert.Empty(t, req.ID, "id is assigned at dispatch")

	t.Run("zero address", func(t *testing.T) {
		zero := "0x0000000000000000000000000000000000000000"
		req, err := androidRequest(AndroidInput{ToAddress: zero, Amount: []byte{0x01}}, types.CoinEthereum, false)
		require.NoError(t, err)
		assert.Equal(t, zero, req.ToAddress)
		assert.Equal(t, "1", req.Amount)
	})

	t.Run("malformed address", func(t *testing.T) {
		_, err := androidRequest(AndroidInput{ToAddress: "0x1234"}, types.CoinEthereum, false)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})

	t.Run("oversized payload", func(t *testing.T) {
		in := in
		in.Payload = make([]byte, MaxSigningInputSize+1)
		_, err := androidRequest(in, types.CoinEthereum, false)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})
}

func TestPlatform(t *testing.T) {
	assert.Equal(t, types.PlatformIOS, ProtoInput{}.Platform())
	assert.Equal(t, types.PlatformIOS, EncodedInput{}.Platform())
	assert.Equal(t, types.PlatformAndroid, AndroidInput{}.Platform())
}
