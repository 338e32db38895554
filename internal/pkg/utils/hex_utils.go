package utils

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// HexPrefix is the conventional marker in front of hex-encoded byte strings.
const HexPrefix = "0x"

// HasHexPrefix reports whether s starts with 0x or 0X.
func HasHexPrefix(s string) bool {
	return len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X')
}

// StripHexPrefix removes a single leading 0x or 0X marker, if present.
func StripHexPrefix(s string) string {
	if HasHexPrefix(s) {
		return s[2:]
	}
	return s
}

// BytesToHex renders every code point of text as at least two lowercase hex digits
// and prefixes the result with HexPrefix. Code points above 0xff take more digits.
// Empty text yields an empty string, not a bare marker.
func BytesToHex(text string) string {
	if text == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(HexPrefix) + 2*len(text))
	b.WriteString(HexPrefix)
	for _, r := range text {
		fmt.Fprintf(&b, "%02x", r)
	}
	return b.String()
}

// IsPrintableASCII reports whether b lies in the printable ASCII range 32..126 inclusive.
// Tab, newline, DEL and every byte above 126 are treated as non-printable.
func IsPrintableASCII(b byte) bool {
	return b >= 32 && b <= 126
}

// DecodeHexText decodes hex bytes and keeps only the printable ASCII ones.
// The marker is optional. Odd-length or non-hex input returns an empty string and an error
// wrapping hexutil.ErrOddLength or hexutil.ErrSyntax.
// This is a lossy heuristic: the result is not a faithful rendering of the bytes.
func DecodeHexText(payload string) (string, error) {
	raw := StripHexPrefix(payload)
	decoded, err := hexutil.Decode(HexPrefix + raw)
	if err != nil {
		return "", fmt.Errorf("decode hex text (%d hex chars): %w", len(raw), err)
	}

	out := make([]byte, 0, len(decoded))
	for _, c := range decoded {
		if IsPrintableASCII(c) {
			out = append(out, c)
		}
	}
	return string(out), nil
}

// HexToText is DecodeHexText for callers that do not care about the anomaly.
// Malformed input yields an empty string.
func HexToText(payload string) string {
	text, err := DecodeHexText(payload)
	if err != nil {
		return ""
	}
	return text
}
