package utils

import (
	"fmt"
	"math/big"
	"strings"
)

// WeiDecimals is the number of decimals of the native ether unit.
const WeiDecimals uint8 = 18

// FormatBigInt converts an integer amount of base units into a decimal string,
// trimming trailing zeros.
// Example: amount=1234500000000000000, decimals=18 => "1.2345"
func FormatBigInt(amount *big.Int, decimals uint8) (string, error) {
	if amount == nil || amount.Sign() == 0 {
		return "0", nil
	}
	if decimals == 0 {
		return amount.String(), nil
	}

	divisor := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	whole, frac := new(big.Int).QuoRem(new(big.Int).Abs(amount), divisor, new(big.Int))

	fracStr := frac.String()
	if len(fracStr) > int(decimals) {
		return "", fmt.Errorf("fraction %s wider than %d decimals", fracStr, decimals)
	}
	fracStr = strings.Repeat("0", int(decimals)-len(fracStr)) + fracStr
	fracStr = strings.TrimRight(fracStr, "0")

	sign := ""
	if amount.Sign() < 0 {
		sign = "-"
	}
	if fracStr == "" {
		return sign + whole.String(), nil
	}
	return sign + whole.String() + "." + fracStr, nil
}

// ParseBigInt parses a base-10 integer string. Empty input is treated as zero.
func ParseBigInt(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return new(big.Int), nil
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("invalid integer %q", s)
	}
	return v, nil
}
