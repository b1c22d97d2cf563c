package bridge

import (
	"encoding/base64"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"google.golang.org/protobuf/proto"

	"github.com/better-wallet/trustlink/internal/validation"
	"github.com/better-wallet/trustlink/pkg/command"
	apperrors "github.com/better-wallet/trustlink/pkg/errors"
	"github.com/better-wallet/trustlink/pkg/types"
)

// MaxSigningInputSize bounds the encoded signing input carried in a URL
const MaxSigningInputSize = 64 << 10

// TransactionInput is the signing input of SignTransaction. Implementations
// are ProtoInput and EncodedInput (iOS schema) and AndroidInput.
type TransactionInput interface {
	Platform() types.Platform
	isTransactionInput()
}

// ProtoInput is a protocol-buffer signing input for the iOS wallet
type ProtoInput struct {
	Message proto.Message
}

func (ProtoInput) Platform() types.Platform { return types.PlatformIOS }
func (ProtoInput) isTransactionInput()      {}

// EncodedInput is an already serialized signing input for the iOS wallet
type EncodedInput struct {
	Data []byte
}

func (EncodedInput) Platform() types.Platform { return types.PlatformIOS }
func (EncodedInput) isTransactionInput()      {}

// AndroidInput is the flattened transfer of the Android wallet. Quantities
// are raw big-endian bytes; empty means unset. ChainID is not part of the
// Android schema and is not sent.
type AndroidInput struct {
	ToAddress string
	Amount    []byte
	Nonce     []byte
	GasPrice  []byte
	GasLimit  []byte
	ChainID   []byte
	Payload   []byte
}

func (AndroidInput) Platform() types.Platform { return types.PlatformAndroid }
func (AndroidInput) isTransactionInput()      {}

// signingData returns the base64 signing input of an iOS request
func signingData(input TransactionInput) (string, error) {
	var data []byte
	switch in := input.(type) {
	case ProtoInput:
		if in.Message == nil {
			return "", apperrors.InvalidInput("signing input message is nil")
		}
		encoded, err := proto.MarshalOptions{Deterministic: true}.Marshal(in.Message)
		if err != nil {
			return "", apperrors.InvalidInput(fmt.Sprintf("encode signing input: %v", err))
		}
		data = encoded
	case EncodedInput:
		data = in.Data
	default:
		return "", apperrors.InvalidInput(fmt.Sprintf("unsupported input %T", input))
	}

	if len(data) == 0 {
		return "", apperrors.InvalidInput("signing input is empty")
	}
	if err := validation.ValidatePayloadSize(data, MaxSigningInputSize); err != nil {
		return "", apperrors.InvalidInput(err.Error())
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// androidRequest converts the raw fields into the decimal wire schema.
// The id and callback are filled in at dispatch.
func androidRequest(in AndroidInput, coin types.CoinType, send bool) (command.AndroidTransactionRequest, error) {
	if err := validation.ValidateEthereumAddress(in.ToAddress); err != nil {
		return command.AndroidTransactionRequest{}, apperrors.InvalidInput(fmt.Sprintf("to address: %v", err))
	}

	quantities := []struct {
		name  string
		value []byte
	}{
		{"amount", in.Amount},
		{"nonce", in.Nonce},
		{"gasPrice", in.GasPrice},
		{"gasLimit", in.GasLimit},
	}
	for _, q := range quantities {
		if err := validation.ValidateQuantity(q.name, q.value); err != nil {
			return command.AndroidTransactionRequest{}, apperrors.InvalidInput(err.Error())
		}
	}
	if err := validation.ValidatePayloadSize(in.Payload, MaxSigningInputSize); err != nil {
		return command.AndroidTransactionRequest{}, apperrors.InvalidInput(err.Error())
	}

	amount := decimal(in.Amount)
	if amount == "" {
		amount = "0"
	}

	return command.AndroidTransactionRequest{
		Coin:      coin,
		ToAddress: in.ToAddress,
		Amount:    amount,
		Nonce:     decimal(in.Nonce),
		GasPrice:  decimal(in.GasPrice),
		GasLimit:  decimal(in.GasLimit),
		Meta:      common.Bytes2Hex(in.Payload),
		Send:      send,
	}, nil
}

// decimal renders big-endian bytes as a base-10 string, "" when unset
func decimal(value []byte) string {
	if len(value) == 0 {
		return ""
	}
	return new(big.Int).SetBytes(value).String()
}
