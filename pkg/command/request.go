package command

import (
	"strconv"

	"github.com/better-wallet/trustlink/pkg/query"
	"github.com/better-wallet/trustlink/pkg/types"
)

// Request is a typed wallet request. The set of implementations is closed:
// AccountsRequest, MessageRequest, TransactionRequest and AndroidTransactionRequest.
type Request interface {
	CorrelationID() string
	Command() Command
	CallbackScheme() string
	CallbackPath() string
	// QueryPairs returns the request parameters in wire order
	QueryPairs() query.Pairs

	withCallbackScheme(scheme string) Request
}

// WithCallbackScheme returns a copy of req whose callback scheme is scheme
func WithCallbackScheme(req Request, scheme string) Request {
	return req.withCallbackScheme(scheme)
}

// appendCallback adds the app/callback pairs when a callback scheme is set
func appendCallback(pairs query.Pairs, scheme, path string) query.Pairs {
	if scheme == "" {
		return pairs
	}
	return pairs.Add("app", scheme).Add("callback", path)
}

func pathOr(path string, fallback Command) string {
	if path == "" {
		return string(fallback)
	}
	return path
}

// AccountsRequest asks the wallet for one address per coin
type AccountsRequest struct {
	Coins  []types.CoinType
	ID     string
	Scheme string
	Path   string
}

func (r AccountsRequest) CorrelationID() string  { return r.ID }
func (r AccountsRequest) Command() Command       { return RequestAccounts }
func (r AccountsRequest) CallbackScheme() string { return r.Scheme }
func (r AccountsRequest) CallbackPath() string   { return pathOr(r.Path, RequestAccounts) }

// QueryPairs returns no pairs at all, not even the id, when Coins is empty
func (r AccountsRequest) QueryPairs() query.Pairs {
	if len(r.Coins) == 0 {
		return query.Pairs{}
	}

	pairs := make(query.Pairs, 0, len(r.Coins)+3)
	for i, coin := range r.Coins {
		pairs = pairs.Add("coins."+strconv.Itoa(i), coin.String())
	}
	pairs = appendCallback(pairs, r.Scheme, r.CallbackPath())
	return pairs.Add("id", r.ID)
}

func (r AccountsRequest) withCallbackScheme(scheme string) Request {
	r.Scheme = scheme
	return r
}

// MessageRequest asks the wallet to sign an opaque, caller-encoded message
type MessageRequest struct {
	Coin    types.CoinType
	Message string
	Address string
	ID      string
	Scheme  string
	Path    string
}

func (r MessageRequest) CorrelationID() string  { return r.ID }
func (r MessageRequest) Command() Command       { return SignMessage }
func (r MessageRequest) CallbackScheme() string { return r.Scheme }
func (r MessageRequest) CallbackPath() string   { return pathOr(r.Path, SignMessage) }

func (r MessageRequest) QueryPairs() query.Pairs {
	pairs := query.Pairs{}.
		Add("coin", r.Coin.String()).
		Add("data", r.Message)
	if r.Address != "" {
		pairs = pairs.Add("address", r.Address)
	}
	pairs = appendCallback(pairs, r.Scheme, r.CallbackPath())
	return pairs.Add("id", r.ID)
}

func (r MessageRequest) withCallbackScheme(scheme string) Request {
	r.Scheme = scheme
	return r
}

// DAppMetadata annotates a transaction request with the requesting dApp
type DAppMetadata struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// QueryPairs returns the meta.* pairs
func (m DAppMetadata) QueryPairs() query.Pairs {
	return query.Pairs{
		{Key: "meta.__name", Value: "dApp"},
		{Key: "meta.name", Value: m.Name},
		{Key: "meta.url", Value: m.URL},
	}
}

// TransactionRequest carries a base64-encoded signing input (iOS wallet schema)
type TransactionRequest struct {
	Coin   types.CoinType
	Data   string
	Send   bool
	Meta   *DAppMetadata
	ID     string
	Scheme string
	Path   string
}

func (r TransactionRequest) CorrelationID() string  { return r.ID }
func (r TransactionRequest) Command() Command       { return SignTransaction }
func (r TransactionRequest) CallbackScheme() string { return r.Scheme }
func (r TransactionRequest) CallbackPath() string   { return pathOr(r.Path, SignTransaction) }

func (r TransactionRequest) QueryPairs() query.Pairs {
	pairs := query.Pairs{}.
		Add("coin", r.Coin.String()).
		Add("data", r.Data)
	if r.Meta != nil {
		pairs = append(pairs, r.Meta.QueryPairs()...)
	}
	pairs = pairs.Add("send", strconv.FormatBool(r.Send))
	pairs = appendCallback(pairs, r.Scheme, r.CallbackPath())
	return pairs.Add("id", r.ID)
}

func (r TransactionRequest) withCallbackScheme(scheme string) Request {
	r.Scheme = scheme
	return r
}

// Confirm types for AndroidTransactionRequest
const (
	ConfirmSign = "sign"
	ConfirmSend = "send"
)

// AndroidTransactionRequest is the flattened transfer schema of the Android
// wallet app. Numeric fields are decimal strings; empty means unset.
type AndroidTransactionRequest struct {
	Coin      types.CoinType
	ToAddress string
	Amount    string
	Nonce     string
	GasPrice  string
	GasLimit  string
	Meta      string
	Send      bool
	ID        string
	Scheme    string
	Path      string
}

func (r AndroidTransactionRequest) CorrelationID() string  { return r.ID }
func (r AndroidTransactionRequest) Command() Command       { return AndroidTransaction }
func (r AndroidTransactionRequest) CallbackScheme() string { return r.Scheme }
func (r AndroidTransactionRequest) CallbackPath() string   { return pathOr(r.Path, SignTransaction) }

// ConfirmType is "send" when the wallet should broadcast, "sign" otherwise
func (r AndroidTransactionRequest) ConfirmType() string {
	if r.Send {
		return ConfirmSend
	}
	return ConfirmSign
}

// QueryPairs always carries the callback: this schema has no app parameter,
// the callback is the full scheme plus path.
func (r AndroidTransactionRequest) QueryPairs() query.Pairs {
	amount := r.Amount
	if amount == "" {
		amount = "0"
	}

	pairs := query.Pairs{}.
		Add("asset", "c"+r.Coin.String()).
		Add("to", r.ToAddress).
		Add("meta", r.Meta)
	if r.Nonce != "" {
		pairs = pairs.Add("nonce", r.Nonce)
	}
	if r.GasPrice != "" {
		pairs = pairs.Add("fee_price", r.GasPrice)
	}
	if r.GasLimit != "" {
		pairs = pairs.Add("fee_limit", r.GasLimit)
	}
	return pairs.
		Add("wei_amount", amount).
		Add("action", "transfer").
		Add("confirm_type", r.ConfirmType()).
		Add("callback", r.Scheme+r.CallbackPath()).
		Add("id", r.ID)
}

func (r AndroidTransactionRequest) withCallbackScheme(scheme string) Request {
	r.Scheme = scheme
	return r
}
