package domain

import (
	"math"
	"time"
)

// RawTradeRecord is one exchange fill as exported by the venue, already
// restricted to the target instrument and with its calendar date split
// off the wall-clock timestamp. Numeric fields that failed coercion at
// load time carry NaN, never a silent zero.
type RawTradeRecord struct {
	Instrument     string    `json:"instrument"`
	Timestamp      time.Time `json:"timestamp"`
	TradeDate      time.Time `json:"trade_date"` // midnight UTC, time of day discarded
	ExecutionPrice float64   `json:"execution_price"`
	SizeBase       float64   `json:"size_base"`
	SizeQuote      float64   `json:"size_quote"`
	ClosedPnL      float64   `json:"closed_pnl"`
	Fee            float64   `json:"fee"`
	Side           string    `json:"side"`
	DirectionLabel string    `json:"direction_label"`
}

// Trade is a RawTradeRecord with the derived performance fields.
type Trade struct {
	RawTradeRecord

	// NetPnL is ClosedPnL - Fee. NaN inputs propagate to NaN.
	NetPnL float64 `json:"net_pnl"`

	// IsWin/IsLoss are strict comparisons against zero; both are false
	// when NetPnL is zero or NaN.
	IsWin  bool `json:"is_win"`
	IsLoss bool `json:"is_loss"`

	// IsLong/IsShort come from a case-insensitive substring match on the
	// direction label. A label matching neither leaves both false; one
	// matching both leaves both true. The ambiguity is passed through,
	// not corrected.
	IsLong  bool `json:"is_long"`
	IsShort bool `json:"is_short"`

	// ActionType is the uppercased side token.
	ActionType string `json:"action_type"`
}

// TradeType is the collapsed direction used for cross-tabulations.
type TradeType string

const (
	TradeTypeLong    TradeType = "Long"
	TradeTypeShort   TradeType = "Short"
	TradeTypeUnknown TradeType = "Unknown"
)

// TradeTypes returns the collapsed directions in fixed order.
func TradeTypes() []TradeType {
	return []TradeType{TradeTypeLong, TradeTypeShort, TradeTypeUnknown}
}

// Type collapses the direction flags: long wins over short when the
// label matched both substrings, and a label matching neither is
// Unknown.
func (t Trade) Type() TradeType {
	switch {
	case t.IsLong:
		return TradeTypeLong
	case t.IsShort:
		return TradeTypeShort
	default:
		return TradeTypeUnknown
	}
}

// MergedTrade is a Trade joined with the sentiment record for its date.
// A trade whose date has no sentiment record keeps a NaN score, an
// unknown class, and an unclassified range.
type MergedTrade struct {
	Trade

	SentimentScore float64        `json:"sentiment_score"`
	SentimentClass SentimentClass `json:"sentiment_class"`
	SentimentRange SentimentRange `json:"sentiment_range"`
}

// HasSentiment reports whether the join resolved a sentiment record for
// this trade's date.
func (m MergedTrade) HasSentiment() bool {
	return m.SentimentClass != ClassUnknown || !math.IsNaN(m.SentimentScore)
}
