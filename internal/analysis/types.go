// Package analysis groups the merged trade table by sentiment dimension
// and computes the aggregate statistic families consumed by reporting:
// win rates, position sizing, direction ratios, trade frequency, and
// net P&L distributions, plus structured insights and hypothesis tests.
package analysis

import "time"

// GroupDimension selects which sentiment annotation the engine groups by.
type GroupDimension string

const (
	// GroupByClass groups by the feed's own categorical label.
	GroupByClass GroupDimension = "sentiment_class"
	// GroupByRange groups by the bucket derived from the numeric score.
	GroupByRange GroupDimension = "sentiment_range"
)

// WinRateRow is one sentiment group's win/loss performance. WinRate and
// the P&L moments are NaN when the group has no trades.
type WinRateRow struct {
	Group        string  `json:"group"`
	Wins         int     `json:"wins"`
	Losses       int     `json:"losses"`
	Total        int     `json:"total"`
	WinRate      float64 `json:"win_rate"`
	TotalNetPnL  float64 `json:"total_net_pnl"`
	MeanNetPnL   float64 `json:"mean_net_pnl"`
	MedianNetPnL float64 `json:"median_net_pnl"`
}

// SizingRow summarizes quote-currency position size within a group.
type SizingRow struct {
	Group  string  `json:"group"`
	Trades int     `json:"trades"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// DirectionRow counts long and short flags within a group. The ratios
// are percentages of Total and NaN when the group is empty. A trade
// whose label matched both substrings counts on both sides, so the two
// percentages need not sum to 100.
type DirectionRow struct {
	Group    string  `json:"group"`
	Longs    int     `json:"longs"`
	Shorts   int     `json:"shorts"`
	Total    int     `json:"total"`
	LongPct  float64 `json:"long_pct"`
	ShortPct float64 `json:"short_pct"`
}

// FrequencyRow summarizes daily trade counts within a group: counts are
// first taken per (date, group) pair, then the distribution of those
// per-day counts is summarized across the group's active days.
type FrequencyRow struct {
	Group       string  `json:"group"`
	ActiveDays  int     `json:"active_days"`
	MeanDaily   float64 `json:"mean_daily"`
	MedianDaily float64 `json:"median_daily"`
	StdDaily    float64 `json:"std_daily"`
	MinDaily    float64 `json:"min_daily"`
	MaxDaily    float64 `json:"max_daily"`
}

// DistributionRow is the five-number summary of net P&L per group plus
// the upper-tail percentiles reporting cares about.
type DistributionRow struct {
	Group  string  `json:"group"`
	Trades int     `json:"trades"`
	Min    float64 `json:"min"`
	P25    float64 `json:"p25"`
	P50    float64 `json:"p50"`
	P75    float64 `json:"p75"`
	P90    float64 `json:"p90"`
	P95    float64 `json:"p95"`
	Max    float64 `json:"max"`
}

// AggregateSet is every statistic family for one grouping dimension.
// Each table carries exactly one row per canonical group, in severity
// order, whether or not the group saw any trades.
type AggregateSet struct {
	Dimension    GroupDimension    `json:"dimension"`
	WinRates     []WinRateRow      `json:"win_rates"`
	Sizing       []SizingRow       `json:"sizing"`
	Direction    []DirectionRow    `json:"direction"`
	Frequency    []FrequencyRow    `json:"frequency"`
	Distribution []DistributionRow `json:"distribution"`
}

// DailySummaryRow is one calendar day of the merged timeline.
// CumulativePnL is the running net P&L up to and including the day;
// days whose total is NaN carry a NaN cumulative but do not poison
// later days.
type DailySummaryRow struct {
	Date           time.Time `json:"date"`
	Trades         int       `json:"trades"`
	Wins           int       `json:"wins"`
	WinRate        float64   `json:"win_rate"`
	TotalNetPnL    float64   `json:"total_net_pnl"`
	CumulativePnL  float64   `json:"cumulative_pnl"`
	SentimentScore float64   `json:"sentiment_score"`
	SentimentClass string    `json:"sentiment_class"`
}
