package http

import (
	"math"

	"sentrade/internal/analysis"
	"sentrade/pkg/contracts/domain"
)

// nullable maps NaN to a JSON null. encoding/json rejects NaN outright,
// and a zero would silently change the statistic's meaning.
func nullable(f float64) *float64 {
	if math.IsNaN(f) {
		return nil
	}
	return &f
}

type mergedTradeView struct {
	Instrument     string   `json:"instrument"`
	Timestamp      string   `json:"timestamp"`
	TradeDate      string   `json:"trade_date"`
	ExecutionPrice *float64 `json:"execution_price"`
	SizeBase       *float64 `json:"size_base"`
	SizeQuote      *float64 `json:"size_quote"`
	ClosedPnL      *float64 `json:"closed_pnl"`
	Fee            *float64 `json:"fee"`
	Side           string   `json:"side"`
	Direction      string   `json:"direction"`
	NetPnL         *float64 `json:"net_pnl"`
	IsWin          bool     `json:"is_win"`
	IsLoss         bool     `json:"is_loss"`
	IsLong         bool     `json:"is_long"`
	IsShort        bool     `json:"is_short"`
	ActionType     string   `json:"action_type"`
	SentimentScore *float64 `json:"sentiment_score"`
	SentimentClass string   `json:"sentiment_class"`
	SentimentRange string   `json:"sentiment_range"`
}

func mergedTradeViews(merged []domain.MergedTrade) []mergedTradeView {
	views := make([]mergedTradeView, 0, len(merged))
	for _, t := range merged {
		views = append(views, mergedTradeView{
			Instrument:     t.Instrument,
			Timestamp:      t.Timestamp.Format("02-01-2006 15:04"),
			TradeDate:      t.TradeDate.Format("2006-01-02"),
			ExecutionPrice: nullable(t.ExecutionPrice),
			SizeBase:       nullable(t.SizeBase),
			SizeQuote:      nullable(t.SizeQuote),
			ClosedPnL:      nullable(t.ClosedPnL),
			Fee:            nullable(t.Fee),
			Side:           t.Side,
			Direction:      t.DirectionLabel,
			NetPnL:         nullable(t.NetPnL),
			IsWin:          t.IsWin,
			IsLoss:         t.IsLoss,
			IsLong:         t.IsLong,
			IsShort:        t.IsShort,
			ActionType:     t.ActionType,
			SentimentScore: nullable(t.SentimentScore),
			SentimentClass: string(t.SentimentClass),
			SentimentRange: string(t.SentimentRange),
		})
	}
	return views
}

type winRateView struct {
	Group        string   `json:"group"`
	Wins         int      `json:"wins"`
	Losses       int      `json:"losses"`
	Total        int      `json:"total"`
	WinRate      *float64 `json:"win_rate"`
	TotalNetPnL  *float64 `json:"total_net_pnl"`
	MeanNetPnL   *float64 `json:"mean_net_pnl"`
	MedianNetPnL *float64 `json:"median_net_pnl"`
}

type sizingView struct {
	Group  string   `json:"group"`
	Trades int      `json:"trades"`
	Mean   *float64 `json:"mean"`
	Median *float64 `json:"median"`
	Std    *float64 `json:"std"`
	Min    *float64 `json:"min"`
	Max    *float64 `json:"max"`
}

type directionView struct {
	Group    string   `json:"group"`
	Longs    int      `json:"longs"`
	Shorts   int      `json:"shorts"`
	Total    int      `json:"total"`
	LongPct  *float64 `json:"long_pct"`
	ShortPct *float64 `json:"short_pct"`
}

type frequencyView struct {
	Group       string   `json:"group"`
	ActiveDays  int      `json:"active_days"`
	MeanDaily   *float64 `json:"mean_daily"`
	MedianDaily *float64 `json:"median_daily"`
	StdDaily    *float64 `json:"std_daily"`
	MinDaily    *float64 `json:"min_daily"`
	MaxDaily    *float64 `json:"max_daily"`
}

type distributionView struct {
	Group  string   `json:"group"`
	Trades int      `json:"trades"`
	Min    *float64 `json:"min"`
	P25    *float64 `json:"p25"`
	P50    *float64 `json:"p50"`
	P75    *float64 `json:"p75"`
	P90    *float64 `json:"p90"`
	P95    *float64 `json:"p95"`
	Max    *float64 `json:"max"`
}

type aggregateSetView struct {
	Dimension    string             `json:"dimension"`
	WinRates     []winRateView      `json:"win_rates"`
	Sizing       []sizingView       `json:"sizing"`
	Direction    []directionView    `json:"direction"`
	Frequency    []frequencyView    `json:"frequency"`
	Distribution []distributionView `json:"distribution"`
}

func aggregateSetViewOf(set *analysis.AggregateSet) aggregateSetView {
	view := aggregateSetView{Dimension: string(set.Dimension)}

	for _, r := range set.WinRates {
		view.WinRates = append(view.WinRates, winRateView{
			Group:        r.Group,
			Wins:         r.Wins,
			Losses:       r.Losses,
			Total:        r.Total,
			WinRate:      nullable(r.WinRate),
			TotalNetPnL:  nullable(r.TotalNetPnL),
			MeanNetPnL:   nullable(r.MeanNetPnL),
			MedianNetPnL: nullable(r.MedianNetPnL),
		})
	}
	for _, r := range set.Sizing {
		view.Sizing = append(view.Sizing, sizingView{
			Group:  r.Group,
			Trades: r.Trades,
			Mean:   nullable(r.Mean),
			Median: nullable(r.Median),
			Std:    nullable(r.Std),
			Min:    nullable(r.Min),
			Max:    nullable(r.Max),
		})
	}
	for _, r := range set.Direction {
		view.Direction = append(view.Direction, directionView{
			Group:    r.Group,
			Longs:    r.Longs,
			Shorts:   r.Shorts,
			Total:    r.Total,
			LongPct:  nullable(r.LongPct),
			ShortPct: nullable(r.ShortPct),
		})
	}
	for _, r := range set.Frequency {
		view.Frequency = append(view.Frequency, frequencyView{
			Group:       r.Group,
			ActiveDays:  r.ActiveDays,
			MeanDaily:   nullable(r.MeanDaily),
			MedianDaily: nullable(r.MedianDaily),
			StdDaily:    nullable(r.StdDaily),
			MinDaily:    nullable(r.MinDaily),
			MaxDaily:    nullable(r.MaxDaily),
		})
	}
	for _, r := range set.Distribution {
		view.Distribution = append(view.Distribution, distributionView{
			Group:  r.Group,
			Trades: r.Trades,
			Min:    nullable(r.Min),
			P25:    nullable(r.P25),
			P50:    nullable(r.P50),
			P75:    nullable(r.P75),
			P90:    nullable(r.P90),
			P95:    nullable(r.P95),
			Max:    nullable(r.Max),
		})
	}
	return view
}

type insightView struct {
	Kind    string   `json:"kind"`
	Group   string   `json:"group"`
	Metric  string   `json:"metric"`
	Value   *float64 `json:"value"`
	Support int      `json:"support"`
	Message string   `json:"message"`
}

func insightViews(insights []analysis.Insight) []insightView {
	views := make([]insightView, 0, len(insights))
	for _, in := range insights {
		views = append(views, insightView{
			Kind:    string(in.Kind),
			Group:   in.Group,
			Metric:  in.Metric,
			Value:   nullable(in.Value),
			Support: in.Support,
			Message: in.Message,
		})
	}
	return views
}

type statTestsView struct {
	PnLByClass struct {
		F         *float64 `json:"f"`
		PValue    *float64 `json:"p_value"`
		DFBetween int      `json:"df_between"`
		DFWithin  int      `json:"df_within"`
		Groups    int      `json:"groups"`
		N         int      `json:"n"`
	} `json:"pnl_by_class"`
	DirectionVsClass struct {
		Statistic *float64 `json:"statistic"`
		PValue    *float64 `json:"p_value"`
		DF        int      `json:"df"`
		N         int      `json:"n"`
	} `json:"direction_vs_class"`
	SizeVsSentiment struct {
		R      *float64 `json:"r"`
		PValue *float64 `json:"p_value"`
		N      int      `json:"n"`
	} `json:"size_vs_sentiment"`
}

func statTestsViewOf(tests analysis.StatTests) statTestsView {
	var view statTestsView

	view.PnLByClass.F = nullable(tests.PnLByClass.F)
	view.PnLByClass.PValue = nullable(tests.PnLByClass.PValue)
	view.PnLByClass.DFBetween = tests.PnLByClass.DFBetween
	view.PnLByClass.DFWithin = tests.PnLByClass.DFWithin
	view.PnLByClass.Groups = tests.PnLByClass.Groups
	view.PnLByClass.N = tests.PnLByClass.N

	view.DirectionVsClass.Statistic = nullable(tests.DirectionVsClass.Statistic)
	view.DirectionVsClass.PValue = nullable(tests.DirectionVsClass.PValue)
	view.DirectionVsClass.DF = tests.DirectionVsClass.DF
	view.DirectionVsClass.N = tests.DirectionVsClass.N

	view.SizeVsSentiment.R = nullable(tests.SizeVsSentiment.R)
	view.SizeVsSentiment.PValue = nullable(tests.SizeVsSentiment.PValue)
	view.SizeVsSentiment.N = tests.SizeVsSentiment.N

	return view
}

type dailySummaryView struct {
	Date           string   `json:"date"`
	Trades         int      `json:"trades"`
	Wins           int      `json:"wins"`
	WinRate        *float64 `json:"win_rate"`
	TotalNetPnL    *float64 `json:"total_net_pnl"`
	CumulativePnL  *float64 `json:"cumulative_pnl"`
	SentimentScore *float64 `json:"sentiment_score"`
	SentimentClass string   `json:"sentiment_class"`
}

func dailySummaryViews(rows []analysis.DailySummaryRow) []dailySummaryView {
	views := make([]dailySummaryView, 0, len(rows))
	for _, r := range rows {
		views = append(views, dailySummaryView{
			Date:           r.Date.Format("2006-01-02"),
			Trades:         r.Trades,
			Wins:           r.Wins,
			WinRate:        nullable(r.WinRate),
			TotalNetPnL:    nullable(r.TotalNetPnL),
			CumulativePnL:  nullable(r.CumulativePnL),
			SentimentScore: nullable(r.SentimentScore),
			SentimentClass: r.SentimentClass,
		})
	}
	return views
}
