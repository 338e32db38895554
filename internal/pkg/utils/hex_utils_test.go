package utils

import (
	"testing"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBytesToHex(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "ascii", in: "abc", want: "0x616263"},
		{name: "space and punctuation", in: "hi, you!", want: "0x68692c20796f7521"},
		{name: "code point above 255", in: "Ā", want: "0x100"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BytesToHex(tt.in))
		})
	}
}

func TestHexToTextRoundTripPrintable(t *testing.T) {
	inputs := []string{
		"hello world",
		"Transfer 100 tokens to Bob.",
		`~!@#$%^&*()_+{}|:"<>?-=[]\;',./`,
		" ",
	}
	for _, in := range inputs {
		assert.Equal(t, in, HexToText(BytesToHex(in)), "round trip of %q", in)
	}
}

func TestHexToTextDropsNonPrintable(t *testing.T) {
	// "a" 0x00 "b" 0x0a "c" 0x7f 0xff
	assert.Equal(t, "abc", HexToText("0x6100620a637fff"))
	assert.Equal(t, "abc", HexToText("616263"), "marker is optional")
	assert.Equal(t, "ABC", HexToText("0X414243"), "uppercase marker")
}

func TestIsPrintableASCIIRange(t *testing.T) {
	assert.False(t, IsPrintableASCII(31))
	assert.True(t, IsPrintableASCII(32))
	assert.True(t, IsPrintableASCII(126))
	assert.False(t, IsPrintableASCII(127))
	assert.False(t, IsPrintableASCII('\t'))
	assert.False(t, IsPrintableASCII('\n'))
	assert.False(t, IsPrintableASCII(0xff))

	count := 0
	for b := 0; b < 256; b++ {
		if IsPrintableASCII(byte(b)) {
			count++
		}
	}
	assert.Equal(t, 95, count)
}

func TestDecodeHexTextMalformed(t *testing.T) {
	text, err := DecodeHexText("0xabc")
	require.Error(t, err)
	assert.ErrorIs(t, err, hexutil.ErrOddLength)
	assert.Empty(t, text)

	text, err = DecodeHexText("0xzz11")
	require.Error(t, err)
	assert.ErrorIs(t, err, hexutil.ErrSyntax)
	assert.Empty(t, text)

	assert.Equal(t, "", HexToText("0xabc"))
}

func TestDecodeHexTextEmpty(t *testing.T) {
	for _, in := range []string{"", "0x"} {
		text, err := DecodeHexText(in)
		require.NoError(t, err)
		assert.Empty(t, text)
	}
}

func TestStripHexPrefix(t *testing.T) {
	assert.Equal(t, "abcd", StripHexPrefix("0xabcd"))
	assert.Equal(t, "abcd", StripHexPrefix("0Xabcd"))
	assert.Equal(t, "abcd", StripHexPrefix("abcd"))
	assert.Equal(t, "", StripHexPrefix("0x"))
	assert.Equal(t, "0", StripHexPrefix("0"))
}
