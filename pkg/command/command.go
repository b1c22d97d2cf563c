// Package command implements the canonical wallet deep-link protocol:
// typed requests, their URL serialization, and callback URL parsing.
package command

import (
	"strings"

	apperrors "github.com/better-wallet/trustlink/pkg/errors"
	"github.com/better-wallet/trustlink/pkg/query"
	"github.com/better-wallet/trustlink/pkg/types"
)

// Command is the operation name carried in the outbound URL
type Command string

// Command names
const (
	RequestAccounts    Command = "sdk_get_accounts"
	SignTransaction    Command = "sdk_sign"
	SignMessage        Command = "sdk_sign_message"
	AndroidTransaction Command = "sdk_transaction"
)

// DefaultScheme is the URL scheme of the wallet app
const DefaultScheme = "trust://"

// Wallet app store listings
const (
	AppName       = "Trust"
	AppStoreURL   = "https://itunes.apple.com/us/app/trust-ethereum-wallet/id1288339409"
	GooglePlayURL = "https://play.google.com/store/apps/details?id=com.wallet.crypto.trustapp"
)

// StoreURL returns the store listing of the wallet app for p, or "" for an
// unknown platform
func StoreURL(p types.Platform) string {
	switch p {
	case types.PlatformIOS:
		return AppStoreURL
	case types.PlatformAndroid:
		return GooglePlayURL
	default:
		return ""
	}
}

// Correlation id prefixes. The prefix selects the result parameter in ParseURL.
const (
	PrefixAccounts    = "acc_"
	PrefixMessage     = "msg_"
	PrefixTransaction = "tx_"
)

// Response is a parsed callback URL
type Response struct {
	ID     string         `json:"id"`
	Result string         `json:"result"`
	Error  apperrors.Code `json:"error"`
}

// Failed reports whether the wallet app reported an error
func (r Response) Failed() bool {
	return r.Error != apperrors.ErrCodeNone
}

// Err returns the reported error, or nil on success
func (r Response) Err() *apperrors.AppError {
	if !r.Failed() {
		return nil
	}
	return apperrors.FromCode(r.Error)
}

// GetURL builds the outbound URL for a request. An empty scheme means DefaultScheme.
func GetURL(req Request, scheme string) string {
	if scheme == "" {
		scheme = DefaultScheme
	}
	return scheme + string(req.Command()) + "?" + query.Encode(req.QueryPairs())
}

// ParseURL parses a callback URL delivered by the OS.
//
// A URL without an id is an invalid response and nothing else is read.
// Results are passed through as sent, except that spaces in signature and
// transaction results are restored to '+'.
func ParseURL(rawURL string) Response {
	params := query.Decode(rawURL)

	id := params["id"]
	if id == "" {
		return Response{Error: apperrors.ErrCodeInvalidResponse}
	}

	resp := Response{
		ID:    id,
		Error: apperrors.ErrCodeNone,
	}
	if code := params["error"]; code != "" {
		resp.Error = apperrors.Code(code)
	}
	if resp.Failed() {
		return resp
	}

	switch {
	case strings.HasPrefix(id, PrefixAccounts):
		resp.Result = params["accounts"]
	case strings.HasPrefix(id, PrefixMessage):
		resp.Result = restorePlus(firstOf(params, "signature", "result"))
	case strings.HasPrefix(id, PrefixTransaction):
		resp.Result = restorePlus(firstOf(params, "data", "transaction_hash", "transaction_sign"))
	default:
		resp.Result = params["result"]
	}

	return resp
}

func firstOf(params map[string]string, keys ...string) string {
	for _, key := range keys {
		if v := params[key]; v != "" {
			return v
		}
	}
	return ""
}

// restorePlus undoes query decoding of a raw '+' in base64 payloads
func restorePlus(s string) string {
	return strings.ReplaceAll(s, " ", "+")
}
