package entity

// InputKind is the inferred shape of a transaction input payload.
// The string values are consumed by rendering clients and must not change.
type InputKind string

const (
	InputKindEmpty        InputKind = "empty"
	InputKindContractCall InputKind = "contract_call"
	InputKindUnknown      InputKind = "unknown"
)

// InputClassification is derived per payload and never cached.
type InputClassification struct {
	Kind             InputKind `json:"kind"`
	Description      string    `json:"description"`
	FunctionSelector string    `json:"functionSelector,omitempty"`
	ParameterBlock   string    `json:"parameterBlock,omitempty"`
	ParameterCount   int       `json:"parameterCount"`
	DecodedText      string    `json:"decodedText,omitempty"`
	IsLikelyText     bool      `json:"isLikelyText"`
	ByteLength       int       `json:"byteLength"`
	DecodeAnomaly    string    `json:"decodeAnomaly,omitempty"`
}
