// Package legacy implements the first-generation wallet deep-link format
// (sign-message / sign-transaction). It is a standalone codec: the bridge
// speaks the canonical format in package command.
//
// Query keys:
//
//	sign-message      message, address?, callback?
//	sign-transaction  to, amount, gasPrice, gasLimit, nonce, callback?
//	callback URL      id, result (base64; returned as lowercase hex)
package legacy

import (
	"encoding/base64"
	"encoding/hex"
	"strings"

	"github.com/better-wallet/trustlink/pkg/command"
	apperrors "github.com/better-wallet/trustlink/pkg/errors"
	"github.com/better-wallet/trustlink/pkg/query"
)

// Legacy command names
const (
	SignMessage     command.Command = "sign-message"
	SignTransaction command.Command = "sign-transaction"
)

// Defaults for unset transaction fields
const (
	DefaultGasPrice = "21"
	DefaultGasLimit = "21000"
	DefaultNonce    = "0"
)

// Payload is a legacy request
type Payload interface {
	Command() command.Command
	QueryPairs() query.Pairs
}

// callbackURL embeds the id in a pre-built callback URL
func callbackURL(scheme string, cmd command.Command, id string) string {
	return scheme + string(cmd) + "?id=" + id
}

// MessagePayload asks the wallet to sign a message
type MessagePayload struct {
	ID             string
	Message        string
	Address        string
	CallbackScheme string
}

// NewMessagePayload base64-encodes message and uses the default id "msg"
func NewMessagePayload(message, callbackScheme string) *MessagePayload {
	return &MessagePayload{
		ID:             "msg",
		Message:        base64.StdEncoding.EncodeToString([]byte(message)),
		CallbackScheme: callbackScheme,
	}
}

func (p *MessagePayload) Command() command.Command { return SignMessage }

func (p *MessagePayload) QueryPairs() query.Pairs {
	pairs := query.Pairs{}.Add("message", p.Message)
	if p.Address != "" {
		pairs = pairs.Add("address", p.Address)
	}
	if p.CallbackScheme != "" {
		pairs = pairs.Add("callback", callbackURL(p.CallbackScheme, SignMessage, p.ID))
	}
	return pairs
}

// TransactionPayload asks the wallet to sign a plain value transfer
type TransactionPayload struct {
	ID             string
	To             string
	Amount         string
	GasPrice       string
	GasLimit       string
	Nonce          string
	CallbackScheme string
}

// NewTransactionPayload uses the default id "tx"; gas fields and nonce take
// their defaults when left empty.
func NewTransactionPayload(to, amount, callbackScheme string) *TransactionPayload {
	return &TransactionPayload{
		ID:             "tx",
		To:             to,
		Amount:         amount,
		CallbackScheme: callbackScheme,
	}
}

func (p *TransactionPayload) Command() command.Command { return SignTransaction }

func (p *TransactionPayload) QueryPairs() query.Pairs {
	pairs := query.Pairs{}.
		Add("to", p.To).
		Add("amount", p.Amount).
		Add("gasPrice", orDefault(p.GasPrice, DefaultGasPrice)).
		Add("gasLimit", orDefault(p.GasLimit, DefaultGasLimit)).
		Add("nonce", orDefault(p.Nonce, DefaultNonce))
	if p.CallbackScheme != "" {
		pairs = pairs.Add("callback", callbackURL(p.CallbackScheme, SignTransaction, p.ID))
	}
	return pairs
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// GetURL builds the outbound URL. An empty scheme means command.DefaultScheme.
func GetURL(p Payload, scheme string) string {
	if scheme == "" {
		scheme = command.DefaultScheme
	}
	return scheme + string(p.Command()) + "?" + query.Encode(p.QueryPairs())
}

// ParseURL parses a legacy callback URL. The base64 result is decoded and
// returned as lowercase hex; an undecodable result is an invalid response.
func ParseURL(rawURL string) command.Response {
	params := query.Decode(rawURL)

	id := params["id"]
	if id == "" {
		return command.Response{Error: apperrors.ErrCodeInvalidResponse}
	}

	result, err := decodeResult(params["result"])
	if err != nil {
		return command.Response{ID: id, Error: apperrors.ErrCodeInvalidResponse}
	}

	return command.Response{ID: id, Result: result, Error: apperrors.ErrCodeNone}
}

// resultEncodings are tried in order. Some wallets strip the padding or
// use the URL-safe alphabet.
var resultEncodings = []*base64.Encoding{
	base64.StdEncoding,
	base64.RawStdEncoding,
	base64.URLEncoding,
	base64.RawURLEncoding,
}

func decodeResult(s string) (string, error) {
	s = strings.ReplaceAll(s, " ", "+")
	unpadded := strings.TrimRight(s, "=")

	var err error
	for _, enc := range resultEncodings {
		in := s
		if enc == base64.RawStdEncoding || enc == base64.RawURLEncoding {
			in = unpadded
		}
		var raw []byte
		if raw, err = enc.DecodeString(in); err == nil {
			return hex.EncodeToString(raw), nil
		}
	}
	return "", err
}
