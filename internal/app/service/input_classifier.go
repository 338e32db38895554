package service

import (
	"regexp"

	"chain_insight/internal/domain/entity"
	"chain_insight/internal/pkg/utils"
)

const (
	descSimpleTransfer = "simple transfer"
	descContractCall   = "contract call"
	descUnknown        = "unrecognized input data"

	selectorHexLen = 8  // 4-byte function selector
	wordHexLen     = 64 // 32-byte ABI word
)

var likelyTextPattern = regexp.MustCompile(`^[a-zA-Z0-9\s.,!?;:'"()\-]+$`)

// LooksLikeText reports whether text decoded from calldata is probably a human-written message.
// Only letters, digits, whitespace and . , ! ? ; : ' " ( ) - are accepted.
// ABI-encoded arguments that happen to decode to a short run of letters pass (false positive);
// messages containing symbols such as @, # or / fail (false negative). Both are accepted trade-offs.
func LooksLikeText(text string) bool {
	return text != "" && likelyTextPattern.MatchString(text)
}

// ClassifyInput infers the shape of a transaction input payload without any ABI knowledge.
// It is pure and total: malformed hex degrades to kind unknown with DecodeAnomaly set.
//
// ParameterCount assumes every argument occupies one 32-byte word. That holds for static
// ABI types only; strings, bytes and arrays make the count wrong.
func ClassifyInput(payload string) entity.InputClassification {
	raw := utils.StripHexPrefix(payload)
	if raw == "" {
		return entity.InputClassification{
			Kind:        entity.InputKindEmpty,
			Description: descSimpleTransfer,
		}
	}

	byteLength := len(raw) / 2

	// Decode over the whole payload, selector included.
	text, err := utils.DecodeHexText(payload)
	if err != nil {
		return entity.InputClassification{
			Kind:          entity.InputKindUnknown,
			Description:   descUnknown,
			ByteLength:    byteLength,
			DecodeAnomaly: err.Error(),
		}
	}

	if len(raw) < selectorHexLen {
		return entity.InputClassification{
			Kind:         entity.InputKindUnknown,
			Description:  descUnknown,
			DecodedText:  text,
			IsLikelyText: LooksLikeText(text),
			ByteLength:   byteLength,
		}
	}

	params := raw[selectorHexLen:]
	parameterBlock := ""
	if params != "" {
		parameterBlock = utils.HexPrefix + params
	}

	return entity.InputClassification{
		Kind:             entity.InputKindContractCall,
		Description:      descContractCall,
		FunctionSelector: utils.HexPrefix + raw[:selectorHexLen],
		ParameterBlock:   parameterBlock,
		ParameterCount:   len(params) / wordHexLen,
		DecodedText:      text,
		IsLikelyText:     LooksLikeText(text),
		ByteLength:       byteLength,
	}
}
