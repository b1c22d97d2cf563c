// Package bridge requests accounts and signatures from an external wallet
// app over OS URL-scheme invocation and correlates the callback URLs with
// the requests that caused them.
package bridge

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/better-wallet/trustlink/internal/logger"
	"github.com/better-wallet/trustlink/internal/metrics"
	"github.com/better-wallet/trustlink/internal/pending"
	"github.com/better-wallet/trustlink/pkg/command"
	apperrors "github.com/better-wallet/trustlink/pkg/errors"
	"github.com/better-wallet/trustlink/pkg/types"
)

// Bridge dispatches wallet requests and settles them from callback URLs.
//
// A request has no timeout: it stays pending until its callback arrives,
// its caller's context ends, or Cleanup drops it.
type Bridge struct {
	id             string
	callbackScheme string
	walletScheme   string
	linker         Linker
	table          *pending.Table
	metrics        *metrics.Metrics
	log            *slog.Logger

	mu             sync.Mutex
	counter        int64
	removeListener func()
}

// Option configures a Bridge
type Option func(*Bridge)

// WithWalletScheme overrides the wallet app scheme (default "trust://")
func WithWalletScheme(scheme string) Option {
	return func(b *Bridge) {
		b.walletScheme = scheme
	}
}

// WithLogger sets the base logger (default slog.Default())
func WithLogger(l *slog.Logger) Option {
	return func(b *Bridge) {
		b.log = l
	}
}

// WithRegisterer enables Prometheus metrics registered with reg
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(b *Bridge) {
		b.metrics = metrics.New(reg)
	}
}

// WithIDSeed sets the correlation id counter seed (default: wall clock in ms)
func WithIDSeed(seed int64) Option {
	return func(b *Bridge) {
		b.counter = seed
	}
}

// New creates a bridge and starts listening for callback URLs.
// callbackScheme is the host application's scheme used for callbacks.
func New(callbackScheme string, linker Linker, opts ...Option) *Bridge {
	b := &Bridge{
		id:             uuid.New().String(),
		callbackScheme: callbackScheme,
		walletScheme:   command.DefaultScheme,
		linker:         linker,
		table:          pending.New(),
		counter:        time.Now().UnixMilli(),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.log == nil {
		b.log = slog.Default()
	}
	b.log = b.log.With("bridge_id", b.id)

	b.Start()
	return b
}

// CallbackScheme returns the default callback scheme
func (b *Bridge) CallbackScheme() string {
	return b.callbackScheme
}

// Start listens for callback URLs. It is a no-op while already listening and
// only needs calling after Cleanup.
func (b *Bridge) Start() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.removeListener != nil {
		return
	}
	b.removeListener = b.linker.AddURLListener(b.HandleURL)
}

// Cleanup stops listening and drops every pending request without settling
// it. Callers still waiting return only when their context ends.
func (b *Bridge) Cleanup() {
	b.mu.Lock()
	if b.removeListener != nil {
		b.removeListener()
		b.removeListener = nil
	}
	b.mu.Unlock()

	n := b.table.Clear()
	b.metrics.Abandoned(n)
	if n > 0 {
		b.log.Info("dropped pending requests", "count", n)
	}
}

// Pending returns the number of requests waiting for a callback
func (b *Bridge) Pending() int {
	return b.table.Len()
}

// Installed reports whether the wallet app can be opened. Linker errors are
// logged and reported as not installed.
func (b *Bridge) Installed(ctx context.Context) bool {
	ok, err := b.linker.CanOpenURL(ctx, b.walletScheme+string(command.RequestAccounts))
	if err != nil {
		logger.FromContext(ctx, b.log).Error("failed to query wallet scheme", "scheme", b.walletScheme, "error", err)
		return false
	}
	return ok
}

// CallOption configures a single request
type CallOption func(*callOptions)

type callOptions struct {
	scheme  string
	path    string
	address string
}

// WithCallbackScheme overrides the bridge's callback scheme for one request
func WithCallbackScheme(scheme string) CallOption {
	return func(o *callOptions) {
		o.scheme = scheme
	}
}

// WithCallbackPath overrides the callback path (default: the command name)
func WithCallbackPath(path string) CallOption {
	return func(o *callOptions) {
		o.path = path
	}
}

// WithAddress selects the signing address for SignMessage
func WithAddress(address string) CallOption {
	return func(o *callOptions) {
		o.address = address
	}
}

func applyCallOptions(opts []CallOption) callOptions {
	var o callOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// RequestAccounts asks the wallet for one address per coin. An empty coin
// list is a no-op: nothing is opened and nil is returned.
func (b *Bridge) RequestAccounts(ctx context.Context, coins []types.CoinType, opts ...CallOption) ([]string, error) {
	if len(coins) == 0 {
		return nil, nil
	}
	o := applyCallOptions(opts)
	coins = append([]types.CoinType(nil), coins...)

	result, err := b.dispatch(ctx, command.RequestAccounts, command.PrefixAccounts, func(id string) command.Request {
		return command.AccountsRequest{Coins: coins, ID: id, Scheme: o.scheme, Path: o.path}
	})
	if err != nil {
		return nil, err
	}
	if result == "" {
		return []string{}, nil
	}
	return strings.Split(result, ","), nil
}

// SignMessage asks the wallet to sign message, which is passed through as
// given (callers encode it, e.g. as a hex digest)
func (b *Bridge) SignMessage(ctx context.Context, message string, coin types.CoinType, opts ...CallOption) (string, error) {
	o := applyCallOptions(opts)

	return b.dispatch(ctx, command.SignMessage, command.PrefixMessage, func(id string) command.Request {
		return command.MessageRequest{
			Coin:    coin,
			Message: message,
			Address: o.address,
			ID:      id,
			Scheme:  o.scheme,
			Path:    o.path,
		}
	})
}

// SignTransaction asks the wallet to sign, and if send is set broadcast, a
// transaction. The input's platform selects the wallet schema; meta is only
// carried by the iOS schema.
func (b *Bridge) SignTransaction(
	ctx context.Context,
	input TransactionInput,
	coin types.CoinType,
	send bool,
	meta *command.DAppMetadata,
	opts ...CallOption,
) (string, error) {
	if input == nil {
		return "", apperrors.InvalidInput("transaction input is required")
	}
	if coin != types.CoinEthereum {
		return "", apperrors.CoinNotSupported(coin.String())
	}
	o := applyCallOptions(opts)

	platform := input.Platform()
	if !platform.IsValid() {
		return "", apperrors.InvalidInput(fmt.Sprintf("unsupported platform %q", platform))
	}

	if platform == types.PlatformAndroid {
		in, ok := input.(AndroidInput)
		if !ok {
			return "", apperrors.InvalidInput(fmt.Sprintf("unsupported android input %T", input))
		}
		req, err := androidRequest(in, coin, send)
		if err != nil {
			return "", err
		}
		return b.dispatch(ctx, command.AndroidTransaction, command.PrefixTransaction, func(id string) command.Request {
			req.ID = id
			req.Scheme = o.scheme
			req.Path = o.path
			return req
		})
	}

	data, err := signingData(input)
	if err != nil {
		return "", err
	}
	if meta != nil {
		m := *meta
		meta = &m
	}
	return b.dispatch(ctx, command.SignTransaction, command.PrefixTransaction, func(id string) command.Request {
		return command.TransactionRequest{
			Coin:   coin,
			Data:   data,
			Send:   send,
			Meta:   meta,
			ID:     id,
			Scheme: o.scheme,
			Path:   o.path,
		}
	})
}

// Send dispatches a caller-built request and waits for its result. The
// request's callback scheme defaults to the bridge's.
func (b *Bridge) Send(ctx context.Context, req command.Request) (string, error) {
	if req == nil {
		return "", apperrors.InvalidInput("request is required")
	}
	if len(req.QueryPairs()) == 0 {
		return "", nil
	}
	if req.CorrelationID() == "" {
		return "", apperrors.InvalidInput("correlation id is required")
	}
	if !b.Installed(ctx) {
		b.metrics.Settled(string(req.Command()), metrics.OutcomeNotInstalled)
		return "", apperrors.FromCode(apperrors.ErrCodeNotInstalled)
	}
	return b.send(ctx, req)
}

// dispatch checks the wallet is reachable, then allocates an id and sends
// the request built for it
func (b *Bridge) dispatch(ctx context.Context, cmd command.Command, prefix string, build func(id string) command.Request) (string, error) {
	if !b.Installed(ctx) {
		b.metrics.Settled(string(cmd), metrics.OutcomeNotInstalled)
		return "", apperrors.FromCode(apperrors.ErrCodeNotInstalled)
	}
	return b.send(ctx, build(b.nextID(prefix)))
}

// nextID returns prefix plus the next counter value
func (b *Bridge) nextID(prefix string) string {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.counter++
	return prefix + strconv.FormatInt(b.counter, 10)
}

type outcome struct {
	result string
	err    error
}

func (b *Bridge) send(ctx context.Context, req command.Request) (string, error) {
	if req.CallbackScheme() == "" {
		req = command.WithCallbackScheme(req, b.callbackScheme)
	}

	id := req.CorrelationID()
	cmd := string(req.Command())
	ctx = logger.WithCorrelationID(ctx, id)
	log := logger.FromContext(ctx, b.log).With("command", cmd)

	done := make(chan outcome, 1)
	fulfill := func(result string) {
		b.metrics.Settled(cmd, metrics.OutcomeFulfilled)
		log.Info("request fulfilled")
		done <- outcome{result: result}
	}
	reject := func(err *apperrors.AppError) {
		b.metrics.Settled(cmd, metrics.OutcomeRejected)
		log.Warn("request rejected", "error", err.Code)
		done <- outcome{err: err}
	}
	if err := b.table.Register(id, fulfill, reject); err != nil {
		log.Error("failed to register request", "error", err)
		return "", err
	}

	url := command.GetURL(req, b.walletScheme)
	b.metrics.Dispatched(cmd)
	log.Info("opening wallet", "callback_scheme", req.CallbackScheme())

	if err := b.linker.OpenURL(ctx, url); err != nil {
		if b.table.Remove(id) {
			b.metrics.Settled(cmd, metrics.OutcomeOpenFailed)
		}
		log.Error("failed to open wallet url", "error", err)
		return "", fmt.Errorf("open wallet url: %w", err)
	}

	select {
	case o := <-done:
		return o.result, o.err
	case <-ctx.Done():
		if b.table.Remove(id) {
			b.metrics.Settled(cmd, metrics.OutcomeCancelled)
			log.Info("request cancelled", "error", ctx.Err())
			return "", ctx.Err()
		}
		// Settled concurrently with cancellation, or dropped by Cleanup
		select {
		case o := <-done:
			return o.result, o.err
		default:
			return "", ctx.Err()
		}
	}
}

// HandleURL settles the request a callback URL belongs to. URLs without an
// id or for ids that are no longer pending are dropped.
func (b *Bridge) HandleURL(rawURL string) {
	resp := command.ParseURL(rawURL)

	var settled bool
	if resp.ID != "" {
		if resp.Failed() {
			settled = b.table.Reject(resp.ID, resp.Err())
		} else {
			settled = b.table.Resolve(resp.ID, resp.Result)
		}
	}

	if !settled {
		b.metrics.Dropped()
		b.log.Debug("dropped callback", "correlation_id", resp.ID, "error", resp.Error)
	}
}
