// Command trustlink builds wallet deep links and decodes wallet callback URLs.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"math/big"
	"os"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/better-wallet/trustlink/internal/config"
	"github.com/better-wallet/trustlink/internal/logger"
	"github.com/better-wallet/trustlink/internal/validation"
	"github.com/better-wallet/trustlink/pkg/command"
	"github.com/better-wallet/trustlink/pkg/legacy"
	"github.com/better-wallet/trustlink/pkg/types"
)

const usage = `usage:
  trustlink url accounts -coins 60,714
  trustlink url message -coin 60 -data <message> [-address a]
  trustlink url tx -coin 60 -data <base64> [-send] [-meta-name n -meta-url u]
  trustlink url android -to 0x.. -amount <wei> [-nonce n -gas-price p -gas-limit l -payload hex] [-send]
  trustlink legacy message -data <message>
  trustlink legacy tx -to 0x.. -amount <wei>
  trustlink parse [-legacy] <callback-url>
  trustlink install [-platform ios|android]`

var errUsage = errors.New(usage)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logger.Init(); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	if err := run(cfg, os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintln(os.Stderr, usage)
			os.Exit(2)
		}
		logger.Error(context.Background(), "command failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, args []string, stdout io.Writer) error {
	if len(args) < 1 {
		return errUsage
	}

	switch args[0] {
	case "url":
		if len(args) < 2 {
			return errUsage
		}
		req, err := buildRequest(cfg, args[1], args[2:])
		if err != nil {
			return err
		}
		ctx := logger.WithCorrelationID(context.Background(), req.CorrelationID())
		logger.Debug(ctx, "built request", "command", req.Command())
		_, err = fmt.Fprintln(stdout, command.GetURL(req, cfg.WalletScheme))
		return err
	case "legacy":
		if len(args) < 2 {
			return errUsage
		}
		payload, err := buildLegacy(cfg, args[1], args[2:])
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(stdout, legacy.GetURL(payload, cfg.WalletScheme))
		return err
	case "parse":
		return parse(args[1:], stdout)
	case "install":
		return install(args[1:], stdout)
	default:
		return errUsage
	}
}

// nextID mirrors the bridge's id scheme for one-shot invocations
func nextID(prefix string) string {
	return prefix + strconv.FormatInt(time.Now().UnixMilli(), 10)
}

func buildRequest(cfg *config.Config, kind string, args []string) (command.Request, error) {
	fs := flag.NewFlagSet("url "+kind, flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		id     = fs.String("id", "", "Correlation id (default: generated)")
		scheme = fs.String("callback-scheme", cfg.CallbackScheme, "Callback scheme of the host application")
		path   = fs.String("callback-path", cfg.CallbackPath, "Callback path (default: the command name)")
	)

	switch kind {
	case "accounts":
		coins := fs.String("coins", "", "Comma-separated coin ids")
		if err := fs.Parse(args); err != nil {
			return nil, fmt.Errorf("%w: %v", errUsage, err)
		}
		parsed, err := types.ParseCoinTypes(*coins)
		if err != nil {
			return nil, err
		}
		if len(parsed) == 0 {
			return nil, fmt.Errorf("-coins is required")
		}
		return command.AccountsRequest{
			Coins:  parsed,
			ID:     orID(*id, command.PrefixAccounts),
			Scheme: *scheme,
			Path:   *path,
		}, nil

	case "message":
		coin := fs.Uint("coin", uint(types.CoinEthereum), "Coin id")
		data := fs.String("data", "", "Message to sign, passed through as given")
		address := fs.String("address", "", "Signing address")
		if err := fs.Parse(args); err != nil {
			return nil, fmt.Errorf("%w: %v", errUsage, err)
		}
		return command.MessageRequest{
			Coin:    types.CoinType(*coin),
			Message: *data,
			Address: *address,
			ID:      orID(*id, command.PrefixMessage),
			Scheme:  *scheme,
			Path:    *path,
		}, nil

	case "tx":
		coin := fs.Uint("coin", uint(types.CoinEthereum), "Coin id")
		data := fs.String("data", "", "Base64 signing input")
		send := fs.Bool("send", false, "Broadcast after signing")
		metaName := fs.String("meta-name", "", "dApp name")
		metaURL := fs.String("meta-url", "", "dApp URL")
		if err := fs.Parse(args); err != nil {
			return nil, fmt.Errorf("%w: %v", errUsage, err)
		}
		if *data == "" {
			return nil, fmt.Errorf("-data is required")
		}
		var meta *command.DAppMetadata
		if *metaName != "" || *metaURL != "" {
			meta = &command.DAppMetadata{Name: *metaName, URL: *metaURL}
		}
		return command.TransactionRequest{
			Coin:   types.CoinType(*coin),
			Data:   *data,
			Send:   *send,
			Meta:   meta,
			ID:     orID(*id, command.PrefixTransaction),
			Scheme: *scheme,
			Path:   *path,
		}, nil

	case "android":
		to := fs.String("to", "", "Recipient address")
		amount := fs.String("amount", "0", "Amount in wei")
		nonce := fs.String("nonce", "", "Nonce")
		gasPrice := fs.String("gas-price", "", "Gas price in wei")
		gasLimit := fs.String("gas-limit", "", "Gas limit")
		payload := fs.String("payload", "", "Hex call data")
		send := fs.Bool("send", false, "Broadcast after signing")
		if err := fs.Parse(args); err != nil {
			return nil, fmt.Errorf("%w: %v", errUsage, err)
		}
		if err := validation.ValidateEthereumAddress(*to); err != nil {
			return nil, fmt.Errorf("-to: %w", err)
		}
		quantities := []struct{ name, value string }{
			{"amount", *amount},
			{"nonce", *nonce},
			{"gas-price", *gasPrice},
			{"gas-limit", *gasLimit},
		}
		for _, q := range quantities {
			if err := validateDecimal(q.name, q.value); err != nil {
				return nil, err
			}
		}
		return command.AndroidTransactionRequest{
			Coin:      types.CoinEthereum,
			ToAddress: *to,
			Amount:    *amount,
			Nonce:     *nonce,
			GasPrice:  *gasPrice,
			GasLimit:  *gasLimit,
			Meta:      common.Bytes2Hex(common.FromHex(*payload)),
			Send:      *send,
			ID:        orID(*id, command.PrefixTransaction),
			Scheme:    *scheme,
			Path:      *path,
		}, nil

	default:
		return nil, errUsage
	}
}

func buildLegacy(cfg *config.Config, kind string, args []string) (legacy.Payload, error) {
	fs := flag.NewFlagSet("legacy "+kind, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	scheme := fs.String("callback-scheme", cfg.CallbackScheme, "Callback scheme of the host application")

	switch kind {
	case "message":
		data := fs.String("data", "", "Message to sign")
		if err := fs.Parse(args); err != nil {
			return nil, fmt.Errorf("%w: %v", errUsage, err)
		}
		return legacy.NewMessagePayload(*data, *scheme), nil

	case "tx":
		to := fs.String("to", "", "Recipient address")
		amount := fs.String("amount", "0", "Amount in wei")
		if err := fs.Parse(args); err != nil {
			return nil, fmt.Errorf("%w: %v", errUsage, err)
		}
		if err := validation.ValidateEthereumAddress(*to); err != nil {
			return nil, fmt.Errorf("-to: %w", err)
		}
		if err := validateDecimal("amount", *amount); err != nil {
			return nil, err
		}
		return legacy.NewTransactionPayload(*to, *amount, *scheme), nil

	default:
		return nil, errUsage
	}
}

func install(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("install", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	platform := fs.String("platform", string(types.PlatformIOS), "Target platform (ios or android)")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	p := types.Platform(*platform)
	if !p.IsValid() {
		return fmt.Errorf("-platform: unknown platform %q", *platform)
	}
	_, err := fmt.Fprintf(stdout, "%s: %s\n", command.AppName, command.StoreURL(p))
	return err
}

func parse(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("parse", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	useLegacy := fs.Bool("legacy", false, "Decode a legacy callback (base64 result)")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	if fs.NArg() != 1 {
		return errUsage
	}

	var resp command.Response
	if *useLegacy {
		resp = legacy.ParseURL(fs.Arg(0))
	} else {
		resp = command.ParseURL(fs.Arg(0))
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}

func orID(id, prefix string) string {
	if id != "" {
		return id
	}
	return nextID(prefix)
}

// validateDecimal accepts "" (unset) or a non-negative base-10 integer
func validateDecimal(name, value string) error {
	if value == "" {
		return nil
	}
	n, ok := new(big.Int).SetString(value, 10)
	if !ok || n.Sign() < 0 {
		return fmt.Errorf("-%s must be a non-negative decimal integer, got: %s", name, value)
	}
	return validation.ValidateQuantity(name, n.Bytes())
}
