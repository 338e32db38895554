package client

import (
	"math/big"
	"strconv"
	"strings"

	"chain_insight/internal/domain/entity"
	dto "chain_insight/internal/entity"
	"chain_insight/internal/pkg/utils"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"go.uber.org/zap"
)

// Defaulting rules shared by every mapper below:
// missing or unparsable numbers become 0, missing strings become entity.NotAvailable,
// and amounts that callers may sum are parsed leniently.

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return entity.NotAvailable
	}
	return s
}

// hexQuantity decodes a 0x-prefixed quantity, tolerating leading zeros.
func hexQuantity(field, value string, logger *zap.Logger) uint64 {
	if value == "" {
		return 0
	}
	if v, err := hexutil.DecodeUint64(value); err == nil {
		return v
	}
	v, err := strconv.ParseUint(utils.StripHexPrefix(value), 16, 64)
	if err != nil {
		logger.Debug("Unparsable hex quantity, defaulting to 0", zap.String("field", field), zap.String("value", value))
		return 0
	}
	return v
}

func decUint(value string) uint64 {
	v, err := strconv.ParseUint(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return 0
	}
	return v
}

func decInt(value string) int64 {
	v, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return 0
	}
	return v
}

func decFloat(value string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0
	}
	return v
}

// decBigString normalizes a base-10 integer string, returning "0" when it is missing or invalid.
func decBigString(value string) string {
	v, ok := new(big.Int).SetString(strings.TrimSpace(value), 10)
	if !ok {
		return "0"
	}
	return v.String()
}

func toNormalizedBlock(raw dto.EtherscanBlock, sourceID string, profile entity.NetworkProfile, logger *zap.Logger) entity.NormalizedBlock {
	number := hexQuantity("number", raw.Number, logger)
	return entity.NormalizedBlock{
		Number:           number,
		Hash:             orNA(raw.Hash),
		ParentHash:       orNA(raw.ParentHash),
		TimestampUnix:    int64(hexQuantity("timestamp", raw.Timestamp, logger)),
		GasUsed:          hexQuantity("gasUsed", raw.GasUsed, logger),
		GasLimit:         hexQuantity("gasLimit", raw.GasLimit, logger),
		Miner:            orNA(raw.Miner),
		TransactionCount: len(raw.Transactions),
		SizeBytes:        hexQuantity("size", raw.Size, logger),
		SourceID:         sourceID,
		ExplorerURL:      profile.BlockURL(number),
	}
}

func toNormalizedTransaction(raw dto.EtherscanTx) entity.NormalizedTransaction {
	return entity.NormalizedTransaction{
		Hash:          orNA(raw.Hash),
		From:          orNA(raw.From),
		To:            orNA(raw.To),
		ValueWei:      decBigString(raw.Value),
		TimestampUnix: decInt(raw.TimeStamp),
		BlockNumber:   decUint(raw.BlockNumber),
		GasUsed:       decUint(raw.GasUsed),
		GasPrice:      decBigString(raw.GasPrice),
		IsError:       raw.IsError == "1",
		RawInput:      raw.Input,
	}
}

func toTokenRef(raw *dto.GraphToken) entity.TokenRef {
	if raw == nil {
		return entity.TokenRef{ID: entity.NotAvailable, Symbol: entity.NotAvailable, Name: entity.NotAvailable}
	}
	return entity.TokenRef{
		ID:       orNA(raw.ID),
		Symbol:   orNA(raw.Symbol),
		Name:     orNA(raw.Name),
		Decimals: int(decInt(raw.Decimals)),
	}
}

func toSwaps(raw []dto.GraphSwap) []entity.Swap {
	swaps := make([]entity.Swap, 0, len(raw))
	for _, s := range raw {
		swap := entity.Swap{
			ID:            orNA(s.ID),
			TimestampUnix: decInt(s.Timestamp),
			Sender:        orNA(s.Sender),
			Recipient:     orNA(s.Recipient),
			Amount0:       orZero(s.Amount0),
			Amount1:       orZero(s.Amount1),
			AmountUSD:     decFloat(s.AmountUSD),
			Token0:        toTokenRef(s.Token0),
			Token1:        toTokenRef(s.Token1),
		}
		if s.Pool != nil {
			swap.PoolID = s.Pool.ID
		}
		if s.Transaction != nil {
			swap.TransactionHash = orNA(s.Transaction.ID)
			swap.BlockNumber = decUint(s.Transaction.BlockNumber)
			if swap.TimestampUnix == 0 {
				swap.TimestampUnix = decInt(s.Transaction.Timestamp)
			}
		} else {
			swap.TransactionHash = entity.NotAvailable
		}
		swaps = append(swaps, swap)
	}
	return swaps
}

func orZero(s string) string {
	if strings.TrimSpace(s) == "" {
		return "0"
	}
	return s
}

func toPoolInfo(raw dto.GraphPool) entity.PoolInfo {
	return entity.PoolInfo{
		ID:                  orNA(raw.ID),
		Token0:              toTokenRef(raw.Token0),
		Token1:              toTokenRef(raw.Token1),
		FeeTier:             int(decInt(raw.FeeTier)),
		Liquidity:           orZero(raw.Liquidity),
		Token0Price:         orZero(raw.Token0Price),
		Token1Price:         orZero(raw.Token1Price),
		VolumeUSD:           decFloat(raw.VolumeUSD),
		TotalValueLockedUSD: decFloat(raw.TotalValueLockedUSD),
		TxCount:             decUint(raw.TxCount),
	}
}

func toTokenInfo(address string, raw dto.GraphTokenDetail) entity.TokenInfo {
	pools := make([]entity.PoolSummary, 0, len(raw.WhitelistPools))
	for _, p := range raw.WhitelistPools {
		pools = append(pools, entity.PoolSummary{
			ID:                  orNA(p.ID),
			FeeTier:             int(decInt(p.FeeTier)),
			Token0Symbol:        toTokenRef(p.Token0).Symbol,
			Token1Symbol:        toTokenRef(p.Token1).Symbol,
			TotalValueLockedUSD: decFloat(p.TotalValueLockedUSD),
			VolumeUSD:           decFloat(p.VolumeUSD),
		})
	}
	return entity.TokenInfo{
		Address:             address,
		Symbol:              orNA(raw.Symbol),
		Name:                orNA(raw.Name),
		Decimals:            int(decInt(raw.Decimals)),
		TotalSupply:         orZero(raw.TotalSupply),
		VolumeUSD:           decFloat(raw.VolumeUSD),
		TotalValueLockedUSD: decFloat(raw.TotalValueLockedUSD),
		TxCount:             decUint(raw.TxCount),
		Pools:               pools,
	}
}

// toIndexedTransaction maps a subgraph transaction. Its swaps inherit the transaction's hash, block and timestamp.
func toIndexedTransaction(raw dto.GraphTxDetail) entity.IndexedTransactionInfo {
	parent := raw.GraphTransaction
	swaps := make([]dto.GraphSwap, len(raw.Swaps))
	for i, s := range raw.Swaps {
		s.Transaction = &parent
		swaps[i] = s
	}
	mints := make([]entity.LiquidityEvent, 0, len(raw.Mints))
	for _, m := range raw.Mints {
		mints = append(mints, toLiquidityEvent(m.ID, m.Sender, m.Amount0, m.Amount1, m.AmountUSD))
	}
	burns := make([]entity.LiquidityEvent, 0, len(raw.Burns))
	for _, b := range raw.Burns {
		burns = append(burns, toLiquidityEvent(b.ID, b.Owner, b.Amount0, b.Amount1, b.AmountUSD))
	}
	return entity.IndexedTransactionInfo{
		Hash:          orNA(raw.ID),
		BlockNumber:   decUint(raw.BlockNumber),
		TimestampUnix: decInt(raw.Timestamp),
		GasUsed:       decUint(raw.GasUsed),
		GasPrice:      decBigString(raw.GasPrice),
		Swaps:         toSwaps(swaps),
		Mints:         mints,
		Burns:         burns,
	}
}

func toLiquidityEvent(id, actor, amount0, amount1, amountUSD string) entity.LiquidityEvent {
	return entity.LiquidityEvent{
		ID:        orNA(id),
		Actor:     orNA(actor),
		Amount0:   orZero(amount0),
		Amount1:   orZero(amount1),
		AmountUSD: decFloat(amountUSD),
	}
}

func toENSDomains(raw []dto.GraphDomain) []entity.ENSDomain {
	domains := make([]entity.ENSDomain, 0, len(raw))
	for _, d := range raw {
		domain := entity.ENSDomain{
			ID:              orNA(d.ID),
			Name:            orNA(d.Name),
			LabelName:       orNA(d.LabelName),
			Owner:           entity.NotAvailable,
			ResolverAddress: entity.NotAvailable,
			CreatedAt:       decInt(d.CreatedAt),
			ExpiryDate:      decInt(d.ExpiryDate),
		}
		if d.Owner != nil {
			domain.Owner = orNA(d.Owner.ID)
		}
		if d.Resolver != nil {
			domain.ResolverAddress = orNA(d.Resolver.Address)
		}
		domains = append(domains, domain)
	}
	return domains
}
