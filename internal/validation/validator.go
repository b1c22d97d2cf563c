package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// EthereumAddressPattern is the regex pattern for Ethereum addresses
var EthereumAddressPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

// schemePattern is an RFC 3986 scheme name
var schemePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9+.\-]*$`)

// MaxQuantityBytes is the width of an EVM word; larger quantities cannot be
// represented by the wallet
const MaxQuantityBytes = 32

// ValidateEthereumAddress validates an Ethereum address format. The zero
// address is accepted; the wallet decides whether to send to it.
func ValidateEthereumAddress(address string) error {
	if address == "" {
		return fmt.Errorf("address cannot be empty")
	}

	if !EthereumAddressPattern.MatchString(address) {
		return fmt.Errorf("invalid Ethereum address format: must be 0x followed by 40 hex characters")
	}

	if !common.IsHexAddress(address) {
		return fmt.Errorf("invalid Ethereum address")
	}

	return nil
}

// ValidateQuantity validates a big-endian unsigned quantity such as an amount or gas price
func ValidateQuantity(name string, value []byte) error {
	if len(value) > MaxQuantityBytes {
		return fmt.Errorf("%s too large: %d bytes > %d bytes max", name, len(value), MaxQuantityBytes)
	}
	return nil
}

// ValidatePayloadSize validates opaque request data
func ValidatePayloadSize(data []byte, maxDataSize int) error {
	if maxDataSize > 0 && len(data) > maxDataSize {
		return fmt.Errorf("payload too large: %d bytes > %d bytes max", len(data), maxDataSize)
	}
	return nil
}

// ValidateScheme validates a URL scheme given either bare ("trust") or with
// its separator ("trust://", "trust:")
func ValidateScheme(scheme string) error {
	if scheme == "" {
		return fmt.Errorf("scheme cannot be empty")
	}

	name := strings.TrimSuffix(strings.TrimSuffix(scheme, "//"), ":")
	if !schemePattern.MatchString(name) {
		return fmt.Errorf("invalid scheme %q: must start with a letter followed by letters, digits, '+', '-' or '.'", scheme)
	}
	return nil
}
