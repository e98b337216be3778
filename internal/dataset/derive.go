package dataset

import (
	"strings"

	"sentrade/pkg/contracts/domain"
)

// DeriveMetrics computes the per-trade performance fields. It is a pure
// function: no I/O, no error paths. NaN inputs propagate arithmetically,
// so a trade with an uncoercible P&L or fee ends up with a NaN net P&L
// and counts as neither a win nor a loss.
func DeriveMetrics(records []domain.RawTradeRecord) []domain.Trade {
	trades := make([]domain.Trade, 0, len(records))

	for _, rec := range records {
		netPnL := rec.ClosedPnL - rec.Fee
		label := strings.ToLower(rec.DirectionLabel)

		trades = append(trades, domain.Trade{
			RawTradeRecord: rec,
			NetPnL:         netPnL,
			IsWin:          netPnL > 0,
			IsLoss:         netPnL < 0,
			IsLong:         strings.Contains(label, "long"),
			IsShort:        strings.Contains(label, "short"),
			ActionType:     strings.ToUpper(rec.Side),
		})
	}

	return trades
}
