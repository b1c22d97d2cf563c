package types

import (
	"fmt"
	"strconv"
	"strings"
)

// CoinType is a SLIP-44 coin type as understood by the wallet app
type CoinType uint32

// Supported coin types
const (
	CoinBitcoin         CoinType = 0
	CoinLitecoin        CoinType = 2
	CoinDogecoin        CoinType = 3
	CoinEthereum        CoinType = 60
	CoinEthereumClassic CoinType = 61
	CoinCosmos          CoinType = 118
	CoinTron            CoinType = 195
	CoinSolana          CoinType = 501
	CoinBinance         CoinType = 714
)

var coinSymbols = map[CoinType]string{
	CoinBitcoin:         "BTC",
	CoinLitecoin:        "LTC",
	CoinDogecoin:        "DOGE",
	CoinEthereum:        "ETH",
	CoinEthereumClassic: "ETC",
	CoinCosmos:          "ATOM",
	CoinTron:            "TRX",
	CoinSolana:          "SOL",
	CoinBinance:         "BNB",
}

// String returns the decimal coin id used on the wire
func (c CoinType) String() string {
	return strconv.FormatUint(uint64(c), 10)
}

// Symbol returns the ticker symbol, or an empty string for unknown coins
func (c CoinType) Symbol() string {
	return coinSymbols[c]
}

// IsKnown reports whether the coin type is in the symbol table
func (c CoinType) IsKnown() bool {
	_, ok := coinSymbols[c]
	return ok
}

// ParseCoinType parses a decimal coin id
func ParseCoinType(s string) (CoinType, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid coin type %q: %w", s, err)
	}
	return CoinType(v), nil
}

// ParseCoinTypes parses a comma-separated list of decimal coin ids
func ParseCoinTypes(s string) ([]CoinType, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}

	parts := strings.Split(s, ",")
	coins := make([]CoinType, 0, len(parts))
	for _, part := range parts {
		coin, err := ParseCoinType(part)
		if err != nil {
			return nil, err
		}
		coins = append(coins, coin)
	}
	return coins, nil
}

// Platform selects the transaction encoding expected by the wallet app
type Platform string

// Platform constants
const (
	PlatformIOS     Platform = "ios"
	PlatformAndroid Platform = "android"
)

// IsValid reports whether p is a known platform
func (p Platform) IsValid() bool {
	return p == PlatformIOS || p == PlatformAndroid
}
