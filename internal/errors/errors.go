// Package errors defines the load-time error taxonomy for the pipeline
// and the structured error responses used by the HTTP surface.
//
// Structural problems in the input files (unparseable timestamps or
// dates, missing inputs, duplicate sentiment dates) are fatal: the load
// aborts and no partial merged dataset is produced. Numeric coercion
// failures are never errors; they degrade to NaN and are counted by
// the loader instead.
package errors

import (
	"fmt"
	"time"
)

// MalformedTimestampError reports a trade row whose timestamp did not
// match the exchange export format. Row is 1-based and counts data rows
// after the header.
type MalformedTimestampError struct {
	Input string
	Row   int
	Value string
}

func (e *MalformedTimestampError) Error() string {
	return fmt.Sprintf("%s: row %d: malformed timestamp %q (want DD-MM-YYYY HH:MM)", e.Input, e.Row, e.Value)
}

// MalformedDateError reports a sentiment row whose date field could not
// be parsed by any accepted layout.
type MalformedDateError struct {
	Input string
	Row   int
	Value string
}

func (e *MalformedDateError) Error() string {
	return fmt.Sprintf("%s: row %d: malformed date %q", e.Input, e.Row, e.Value)
}

// MissingInputError reports an absent or empty input source. The
// pipeline fails fast; no partial run happens.
type MissingInputError struct {
	Input  string
	Path   string
	Reason string
}

func (e *MissingInputError) Error() string {
	return fmt.Sprintf("%s: missing input %q: %s", e.Input, e.Path, e.Reason)
}

// DuplicateSentimentDateError reports two sentiment rows for the same
// calendar date. The feed is supposed to carry one record per day, and
// silently picking one would make the fill step nondeterministic, so
// the load rejects the file instead.
type DuplicateSentimentDateError struct {
	Input string
	Row   int
	Date  time.Time
}

func (e *DuplicateSentimentDateError) Error() string {
	return fmt.Sprintf("%s: row %d: duplicate sentiment record for %s", e.Input, e.Row, e.Date.Format("2006-01-02"))
}
