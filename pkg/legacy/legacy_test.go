package legacy

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/better-wallet/trustlink/pkg/command"
	apperrors "github.com/better-wallet/trustlink/pkg/errors"
	"github.com/better-wallet/trustlink/pkg/query"
)

func TestMessagePayload_QueryPairs(t *testing.T) {
	t.Run("message only", func(t *testing.T) {
		p := NewMessagePayload("hello trust", "")
		assert.Equal(t, "message=aGVsbG8gdHJ1c3Q%3D", query.Encode(p.QueryPairs()))
	})

	t.Run("address and callback", func(t *testing.T) {
		p := NewMessagePayload("hello trust", "myapp://")
		p.Address = "0xabc"
		assert.Equal(t,
			"message=aGVsbG8gdHJ1c3Q%3D&address=0xabc&callback=myapp%3A%2F%2Fsign-message%3Fid%3Dmsg",
			query.Encode(p.QueryPairs()),
		)
	})
}

func TestTransactionPayload_QueryPairs(t *testing.T) {
	const to = "0x3535353535353535353535353535353535353535"

	t.Run("defaults are filled", func(t *testing.T) {
		p := NewTransactionPayload(to, "1000000000000000000", "")
		assert.Equal(t,
			"to="+to+"&amount=1000000000000000000&gasPrice=21&gasLimit=21000&nonce=0",
			query.Encode(p.QueryPairs()),
		)
	})

	t.Run("explicit values and callback", func(t *testing.T) {
		p := NewTransactionPayload(to, "1", "myapp://")
		p.GasPrice = "20000000000"
		p.GasLimit = "50000"
		p.Nonce = "9"
		assert.Equal(t,
			"to="+to+"&amount=1&gasPrice=20000000000&gasLimit=50000&nonce=9&callback=myapp%3A%2F%2Fsign-transaction%3Fid%3Dtx",
			query.Encode(p.QueryPairs()),
		)
	})
}

func TestGetURL(t *testing.T) {
	p := NewMessagePayload("hello trust", "")
	assert.Equal(t, "trust://sign-message?message=aGVsbG8gdHJ1c3Q%3D", GetURL(p, ""))
	assert.Equal(t, "other://sign-message?message=aGVsbG8gdHJ1c3Q%3D", GetURL(p, "other://"))
}

func TestParseURL(t *testing.T) {
	sig := []byte{0xc8, 0xec, 0x59, 0xd0, 0xfb, 0xff}
	encoded := base64.StdEncoding.EncodeToString(sig)

	tests := []struct {
		name     string
		url      string
		expected command.Response
	}{
		{
			name:     "hex result",
			url:      "myapp://sign-message?id=msg&result=" + query.Escape(encoded),
			expected: command.Response{ID: "msg", Result: "c8ec59d0fbff", Error: apperrors.ErrCodeNone},
		},
		{
			name:     "unescaped slash",
			url:      "myapp://sign-message?id=msg&result=yOxZ0Pv/",
			expected: command.Response{ID: "msg", Result: "c8ec59d0fbff", Error: apperrors.ErrCodeNone},
		},
		{
			name:     "raw plus decoded as space is restored",
			url:      "myapp://sign-message?id=msg&result=+/8=",
			expected: command.Response{ID: "msg", Result: "fbff", Error: apperrors.ErrCodeNone},
		},
		{
			name:     "missing padding",
			url:      "myapp://sign-message?id=msg&result=+/8",
			expected: command.Response{ID: "msg", Result: "fbff", Error: apperrors.ErrCodeNone},
		},
		{
			name:     "url-safe alphabet",
			url:      "myapp://sign-message?id=msg&result=-_8",
			expected: command.Response{ID: "msg", Result: "fbff", Error: apperrors.ErrCodeNone},
		},
		{
			name:     "url-safe alphabet full quantum",
			url:      "myapp://sign-message?id=msg&result=yOxZ0Pv_",
			expected: command.Response{ID: "msg", Result: "c8ec59d0fbff", Error: apperrors.ErrCodeNone},
		},
		{
			name:     "empty result",
			url:      "myapp://sign-transaction?id=tx",
			expected: command.Response{ID: "tx", Result: "", Error: apperrors.ErrCodeNone},
		},
		{
			name:     "missing id",
			url:      "myapp://sign-message?result=AAAA",
			expected: command.Response{Error: apperrors.ErrCodeInvalidResponse},
		},
		{
			name:     "result is not base64",
			url:      "myapp://sign-message?id=msg&result=!!!",
			expected: command.Response{ID: "msg", Error: apperrors.ErrCodeInvalidResponse},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseURL(tt.url))
		})
	}
}
