package mocks

import (
	"crypto/ecdsa"
	"encoding/base64"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/better-wallet/trustlink/pkg/command"
	apperrors "github.com/better-wallet/trustlink/pkg/errors"
	"github.com/better-wallet/trustlink/pkg/query"
	"github.com/better-wallet/trustlink/pkg/types"
)

// MockWallet simulates the wallet app: it answers opened wallet URLs with
// callback URLs, signing with a real secp256k1 key.
type MockWallet struct {
	mu      sync.Mutex
	key     *ecdsa.PrivateKey
	chainID *big.Int

	// Behavior controls
	rejectAll bool
}

// NewMockWallet creates a wallet with a fresh key on chain id 1.
func NewMockWallet() (*MockWallet, error) {
	key, err := crypto.GenerateKey()
	if err != nil {
		return nil, fmt.Errorf("failed to generate private key: %w", err)
	}
	return &MockWallet{key: key, chainID: big.NewInt(1)}, nil
}

// Address returns the wallet account.
func (w *MockWallet) Address() common.Address {
	return crypto.PubkeyToAddress(w.key.PublicKey)
}

// SetRejectAll makes the user reject every request.
func (w *MockWallet) SetRejectAll(reject bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.rejectAll = reject
}

// Respond implements Responder.
func (w *MockWallet) Respond(openedURL string) string {
	w.mu.Lock()
	reject := w.rejectAll
	w.mu.Unlock()

	params := query.Decode(openedURL)
	cmd := walletCommand(openedURL)

	callback := params["app"] + params["callback"]
	if cmd == command.AndroidTransaction {
		callback = params["callback"]
	}
	reply := func(kv ...string) string {
		pairs := query.Pairs{{Key: "id", Value: params["id"]}}
		for i := 0; i+1 < len(kv); i += 2 {
			pairs = pairs.Add(kv[i], kv[i+1])
		}
		return callback + "?" + query.Encode(pairs)
	}
	fail := func(code apperrors.Code) string {
		return reply("error", string(code))
	}

	if reject {
		return fail(apperrors.ErrCodeRejectedByUser)
	}

	switch cmd {
	case command.RequestAccounts:
		var accounts []string
		for i := 0; ; i++ {
			coin, ok := params["coins."+strconv.Itoa(i)]
			if !ok {
				break
			}
			if coin != types.CoinEthereum.String() {
				return fail(apperrors.ErrCodeCoinNotSupported)
			}
			accounts = append(accounts, w.Address().Hex())
		}
		return reply("accounts", strings.Join(accounts, ","))

	case command.SignMessage:
		sig, err := w.SignPersonalMessage(common.FromHex(params["data"]))
		if err != nil {
			return fail(apperrors.ErrCodeSignError)
		}
		return reply("signature", "0x"+common.Bytes2Hex(sig))

	case command.SignTransaction:
		raw, err := base64.StdEncoding.DecodeString(params["data"])
		if err != nil {
			return fail(apperrors.ErrCodeSignError)
		}
		unsigned := new(ethtypes.Transaction)
		if err := unsigned.UnmarshalBinary(raw); err != nil {
			return fail(apperrors.ErrCodeSignError)
		}
		return w.signAndReply(unsigned, params["send"] == "true", reply, fail)

	case command.AndroidTransaction:
		to := common.HexToAddress(params["to"])
		tx := ethtypes.NewTx(&ethtypes.LegacyTx{
			Nonce:    parseUint(params["nonce"]),
			GasPrice: parseBig(params["fee_price"]),
			Gas:      parseUint(params["fee_limit"]),
			To:       &to,
			Value:    parseBig(params["wei_amount"]),
			Data:     common.FromHex(params["meta"]),
		})
		return w.signAndReply(tx, params["confirm_type"] == command.ConfirmSend, reply, fail)
	}

	return fail(apperrors.ErrCodeUnknown)
}

// SignPersonalMessage signs the EIP-191 hash of message with a 27/28
// recovery id, as wallets answer sdk_sign_message.
func (w *MockWallet) SignPersonalMessage(message []byte) ([]byte, error) {
	sig, err := crypto.Sign(PersonalMessageHash(message), w.key)
	if err != nil {
		return nil, fmt.Errorf("failed to sign message: %w", err)
	}
	sig[crypto.RecoveryIDOffset] += 27
	return sig, nil
}

func (w *MockWallet) signAndReply(tx *ethtypes.Transaction, send bool, reply func(kv ...string) string, fail func(apperrors.Code) string) string {
	signed, err := ethtypes.SignTx(tx, ethtypes.NewEIP155Signer(w.chainID), w.key)
	if err != nil {
		return fail(apperrors.ErrCodeSignError)
	}
	if send {
		return reply("transaction_hash", signed.Hash().Hex())
	}
	raw, err := signed.MarshalBinary()
	if err != nil {
		return fail(apperrors.ErrCodeSignError)
	}
	return reply("data", "0x"+common.Bytes2Hex(raw))
}

// PersonalMessageHash is the EIP-191 (personal_sign) hash of message.
func PersonalMessageHash(message []byte) []byte {
	prefix := fmt.Sprintf("\x19Ethereum Signed Message:\n%d", len(message))
	return crypto.Keccak256([]byte(prefix), message)
}

// RecoverPersonalSigner returns the account that signed message.
func RecoverPersonalSigner(message []byte, signature string) (common.Address, error) {
	sig := common.FromHex(signature)
	if len(sig) != crypto.SignatureLength {
		return common.Address{}, fmt.Errorf("signature must be %d bytes, got %d", crypto.SignatureLength, len(sig))
	}
	sig = append([]byte(nil), sig...)
	if sig[crypto.RecoveryIDOffset] >= 27 {
		sig[crypto.RecoveryIDOffset] -= 27
	}

	pub, err := crypto.SigToPub(PersonalMessageHash(message), sig)
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to recover public key: %w", err)
	}
	return crypto.PubkeyToAddress(*pub), nil
}

// DecodeSignedTransaction decodes a hex signed transaction and its sender.
func DecodeSignedTransaction(raw string) (*ethtypes.Transaction, common.Address, error) {
	tx := new(ethtypes.Transaction)
	if err := tx.UnmarshalBinary(common.FromHex(raw)); err != nil {
		return nil, common.Address{}, fmt.Errorf("failed to unmarshal signed transaction: %w", err)
	}
	from, err := ethtypes.Sender(ethtypes.LatestSignerForChainID(tx.ChainId()), tx)
	if err != nil {
		return nil, common.Address{}, fmt.Errorf("failed to recover sender: %w", err)
	}
	return tx, from, nil
}

// walletCommand extracts the command path of a wallet URL.
func walletCommand(openedURL string) command.Command {
	path := openedURL
	if i := strings.Index(path, "://"); i >= 0 {
		path = path[i+3:]
	}
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	return command.Command(path)
}

func parseUint(s string) uint64 {
	v, _ := strconv.ParseUint(s, 10, 64)
	return v
}

func parseBig(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return new(big.Int)
	}
	return v
}
