package pricing

import (
	"github.com/shopspring/decimal"

	"pricecraft/internal/core/id"
)

// StockLookup resolves a library material ID to its current stock level.
// The second return value reports whether the material was found; a miss is
// treated as zero stock, never as an error.
type StockLookup func(materialID id.ID) (decimal.Decimal, bool)

// StockCheckResult reports the shortfall for one material line.
// It is transient output, never persisted.
type StockCheckResult struct {
	MaterialID       id.ID
	MaterialName     string
	Unit             string
	CurrentStock     decimal.Decimal
	RequiredQuantity decimal.Decimal
	Shortfall        decimal.Decimal
}

// CheckStock reports which material lines cannot be covered by library
// stock for a production run of batchSize units. Lines without a library
// material reference are skipped; only lines with a positive shortfall
// appear in the result. A batchSize below 1 is treated as 1.
func CheckStock(materials []MaterialLine, batchSize int, lookup StockLookup) []StockCheckResult {
	batch := decimal.NewFromInt(int64(effectiveBatchSize(batchSize)))

	var results []StockCheckResult
	for _, m := range materials {
		if m.MaterialID == nil {
			continue
		}

		current := decimal.Zero
		if lookup != nil {
			if stock, ok := lookup(*m.MaterialID); ok {
				current = stock
			}
		}

		required := nonNegative(m.Quantity).Mul(batch)
		shortfall := required.Sub(current)
		if !shortfall.IsPositive() {
			continue
		}

		results = append(results, StockCheckResult{
			MaterialID:       *m.MaterialID,
			MaterialName:     m.Name,
			Unit:             m.Unit,
			CurrentStock:     current,
			RequiredQuantity: required,
			Shortfall:        shortfall,
		})
	}

	return results
}
