package analysis

import (
	"math"
	"sort"
	"time"

	"sentrade/pkg/contracts/domain"
)

// DailySummary collapses the merged table to one row per calendar day,
// in date order: trade count, wins, win rate, total and cumulative net
// P&L, and the day's sentiment. Days without sentiment carry a NaN
// score and an empty class.
func DailySummary(merged []domain.MergedTrade) []DailySummaryRow {
	byDay := make(map[time.Time][]domain.MergedTrade)
	for _, t := range merged {
		byDay[t.TradeDate] = append(byDay[t.TradeDate], t)
	}

	days := make([]time.Time, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	rows := make([]DailySummaryRow, 0, len(days))
	var running float64
	for _, day := range days {
		trades := byDay[day]
		row := DailySummaryRow{
			Date:           day,
			Trades:         len(trades),
			SentimentScore: math.NaN(),
		}

		pnls := make([]float64, 0, len(trades))
		for _, t := range trades {
			if t.IsWin {
				row.Wins++
			}
			pnls = append(pnls, t.NetPnL)
			if t.HasSentiment() {
				row.SentimentScore = t.SentimentScore
				row.SentimentClass = string(t.SentimentClass)
			}
		}

		row.WinRate = ratio(float64(row.Wins), float64(row.Trades))
		row.TotalNetPnL = sum(pnls)
		if math.IsNaN(row.TotalNetPnL) {
			row.CumulativePnL = math.NaN()
		} else {
			running += row.TotalNetPnL
			row.CumulativePnL = running
		}
		rows = append(rows, row)
	}
	return rows
}
