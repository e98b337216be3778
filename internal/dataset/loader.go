// Package dataset loads the two input snapshots (exchange fills and the
// fear & greed index), derives per-trade performance metrics, and joins
// the two onto a common per-trade timeline.
package dataset

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	apperrors "sentrade/internal/errors"
	"sentrade/pkg/contracts/domain"
)

// tradeTimestampLayout is the venue's export format (DD-MM-YYYY HH:MM).
const tradeTimestampLayout = "02-01-2006 15:04"

// sentimentDateLayouts are the accepted layouts for the index's date
// column, tried in order.
var sentimentDateLayouts = []string{
	"2006-01-02",
	"02-01-2006",
	"2006/01/02",
	"2006-01-02 15:04:05",
}

// CoercionReport counts numeric fields that degraded to NaN during
// load, per column. Coercion failures are an intentional best-effort
// policy, not errors, but they must stay visible.
type CoercionReport struct {
	Failures map[string]int
}

func newCoercionReport() *CoercionReport {
	return &CoercionReport{Failures: make(map[string]int)}
}

// Total returns the number of coercion failures across all columns.
func (r *CoercionReport) Total() int {
	total := 0
	for _, n := range r.Failures {
		total += n
	}
	return total
}

// coerce parses a numeric cell, degrading to NaN and bumping the
// column's counter when the value is blank or unparseable. Thousands
// separators are tolerated since spreadsheet exports add them.
func (r *CoercionReport) coerce(column, value string) float64 {
	cleaned := strings.ReplaceAll(strings.TrimSpace(value), ",", "")
	if cleaned == "" {
		r.Failures[column]++
		return math.NaN()
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		r.Failures[column]++
		return math.NaN()
	}
	return v
}

// Loader reads the trade and sentiment snapshots.
type Loader struct {
	logger *slog.Logger
}

// NewLoader creates a loader. A nil logger falls back to slog.Default.
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger}
}

// TradeLoadResult carries the retained records plus the data-quality
// counters the pipeline reports.
type TradeLoadResult struct {
	Records  []domain.RawTradeRecord
	Total    int // input data rows before the instrument filter
	Filtered int // rows dropped by the instrument filter
	Coercion *CoercionReport
}

// LoadTrades reads the trade snapshot, keeps only rows for the target
// instrument, parses timestamps strictly, and coerces numeric columns
// best-effort. An unparseable timestamp on a retained row aborts the
// whole load: silently dropping rows would corrupt every downstream
// aggregate.
func (l *Loader) LoadTrades(path, targetInstrument string) (*TradeLoadResult, error) {
	rows, err := readTable(path)
	if err != nil {
		return nil, &apperrors.MissingInputError{Input: "trades", Path: path, Reason: err.Error()}
	}

	headerRow, cols, err := mapTradeColumns(rows)
	if err != nil {
		return nil, fmt.Errorf("trades %s: %w", path, err)
	}

	dataRows := rows[headerRow+1:]
	if len(dataRows) == 0 {
		return nil, &apperrors.MissingInputError{Input: "trades", Path: path, Reason: "no data rows"}
	}

	result := &TradeLoadResult{Coercion: newCoercionReport()}

	for i, row := range dataRows {
		if isBlankRow(row) {
			continue
		}
		result.Total++

		if cell(row, cols["instrument"]) != targetInstrument {
			result.Filtered++
			continue
		}

		rawTS := cell(row, cols["timestamp"])
		ts, err := time.Parse(tradeTimestampLayout, rawTS)
		if err != nil {
			return nil, &apperrors.MalformedTimestampError{Input: "trades", Row: i + 1, Value: rawTS}
		}

		rec := domain.RawTradeRecord{
			Instrument:     targetInstrument,
			Timestamp:      ts,
			TradeDate:      time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC),
			ExecutionPrice: result.Coercion.coerce("execution_price", cell(row, cols["execution_price"])),
			SizeBase:       result.Coercion.coerce("size_base", cell(row, cols["size_base"])),
			SizeQuote:      result.Coercion.coerce("size_quote", cell(row, cols["size_quote"])),
			ClosedPnL:      result.Coercion.coerce("closed_pnl", cell(row, cols["closed_pnl"])),
			Fee:            result.Coercion.coerce("fee", cell(row, cols["fee"])),
			Side:           cell(row, cols["side"]),
			DirectionLabel: cell(row, cols["direction"]),
		}
		result.Records = append(result.Records, rec)
	}

	if result.Total == 0 {
		return nil, &apperrors.MissingInputError{Input: "trades", Path: path, Reason: "no data rows"}
	}

	l.logger.Info("loaded trade records",
		"path", path,
		"instrument", targetInstrument,
		"retained", len(result.Records),
		"total", result.Total,
		"coercion_failures", result.Coercion.Total())

	return result, nil
}

// LoadSentiment reads the fear & greed snapshot into a date-keyed map.
// Unparseable dates abort the load; duplicate dates are rejected so the
// join stays deterministic.
func (l *Loader) LoadSentiment(path string) (map[time.Time]domain.SentimentRecord, error) {
	rows, err := readTable(path)
	if err != nil {
		return nil, &apperrors.MissingInputError{Input: "sentiment", Path: path, Reason: err.Error()}
	}

	headerRow, cols, err := mapSentimentColumns(rows)
	if err != nil {
		return nil, fmt.Errorf("sentiment %s: %w", path, err)
	}

	dataRows := rows[headerRow+1:]
	if len(dataRows) == 0 {
		return nil, &apperrors.MissingInputError{Input: "sentiment", Path: path, Reason: "no data rows"}
	}

	coercion := newCoercionReport()
	records := make(map[time.Time]domain.SentimentRecord, len(dataRows))

	for i, row := range dataRows {
		if isBlankRow(row) {
			continue
		}

		rawDate := cell(row, cols["date"])
		date, ok := parseSentimentDate(rawDate)
		if !ok {
			return nil, &apperrors.MalformedDateError{Input: "sentiment", Row: i + 1, Value: rawDate}
		}

		if _, exists := records[date]; exists {
			return nil, &apperrors.DuplicateSentimentDateError{Input: "sentiment", Row: i + 1, Date: date}
		}

		class, ok := domain.ParseClass(cell(row, cols["class"]))
		if !ok {
			l.logger.Warn("unrecognized sentiment classification",
				"row", i+1,
				"value", cell(row, cols["class"]))
		}

		records[date] = domain.SentimentRecord{
			Date:  date,
			Score: coercion.coerce("score", cell(row, cols["score"])),
			Class: class,
		}
	}

	if len(records) == 0 {
		return nil, &apperrors.MissingInputError{Input: "sentiment", Path: path, Reason: "no data rows"}
	}

	l.logger.Info("loaded sentiment records",
		"path", path,
		"records", len(records),
		"coercion_failures", coercion.Total())

	return records, nil
}

// readTable loads the file into rows of cells, dispatching on the
// extension: spreadsheet exports arrive as .xlsx, everything else is
// treated as CSV.
func readTable(path string) ([][]string, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return readXLSX(path)
	}
	return readCSV(path)
}

func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // ragged exports happen; column mapping handles them
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("empty file")
	}
	return rows, nil
}

func readXLSX(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	// Use the first sheet that actually has rows.
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err == nil && len(rows) > 0 {
			return rows, nil
		}
	}
	return nil, fmt.Errorf("no sheet with data")
}

// mapTradeColumns scans the leading rows for the header and maps the
// column positions. Exports vary in header wording, so a few aliases
// are accepted per column.
func mapTradeColumns(rows [][]string) (int, map[string]int, error) {
	aliases := map[string][]string{
		"instrument":      {"coin", "symbol", "instrument"},
		"timestamp":       {"timestamp ist", "timestamp"},
		"execution_price": {"execution price", "price"},
		"size_base":       {"size tokens", "size base"},
		"size_quote":      {"size usd", "size quote"},
		"closed_pnl":      {"closed pnl", "realized pnl"},
		"fee":             {"fee", "fees"},
		"side":            {"side"},
		"direction":       {"direction"},
	}
	required := []string{
		"instrument", "timestamp", "execution_price", "size_base",
		"size_quote", "closed_pnl", "fee", "side", "direction",
	}
	return findHeader(rows, aliases, required)
}

func mapSentimentColumns(rows [][]string) (int, map[string]int, error) {
	aliases := map[string][]string{
		"date":  {"date"},
		"score": {"value", "score"},
		"class": {"classification", "class"},
	}
	return findHeader(rows, aliases, []string{"date", "score", "class"})
}

// findHeader looks for a row containing every required column within
// the first few rows (xlsx exports sometimes carry preamble rows).
func findHeader(rows [][]string, aliases map[string][]string, required []string) (int, map[string]int, error) {
	maxScan := len(rows)
	if maxScan > 10 {
		maxScan = 10
	}

	for i := 0; i < maxScan; i++ {
		cols := make(map[string]int)
		for j, header := range rows[i] {
			name := strings.ToLower(strings.TrimSpace(header))
			for key, names := range aliases {
				if _, taken := cols[key]; taken {
					continue
				}
				for _, alias := range names {
					if name == alias {
						cols[key] = j
						break
					}
				}
			}
		}

		complete := true
		for _, key := range required {
			if _, ok := cols[key]; !ok {
				complete = false
				break
			}
		}
		if complete {
			return i, cols, nil
		}
	}

	return 0, nil, fmt.Errorf("could not find required columns %v in header", required)
}

func parseSentimentDate(value string) (time.Time, bool) {
	trimmed := strings.TrimSpace(value)
	for _, layout := range sentimentDateLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
