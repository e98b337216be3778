package domain

import (
	"math"
	"time"
)

// SentimentClass is one of the five categorical labels the fear & greed
// feed assigns to a calendar date. The label comes from the raw feed and
// is never derived locally.
type SentimentClass string

const (
	ClassExtremeFear  SentimentClass = "Extreme Fear"
	ClassFear         SentimentClass = "Fear"
	ClassNeutral      SentimentClass = "Neutral"
	ClassGreed        SentimentClass = "Greed"
	ClassExtremeGreed SentimentClass = "Extreme Greed"

	// ClassUnknown marks trades whose date had no sentiment record.
	ClassUnknown SentimentClass = ""
)

// Classes returns the canonical classes in severity order, fear first.
// Every grouped statistic iterates this slice so output ordering and
// tie-breaks never depend on map iteration order.
func Classes() []SentimentClass {
	return []SentimentClass{
		ClassExtremeFear,
		ClassFear,
		ClassNeutral,
		ClassGreed,
		ClassExtremeGreed,
	}
}

// ParseClass maps a raw feed label onto the canonical enum.
func ParseClass(s string) (SentimentClass, bool) {
	switch SentimentClass(s) {
	case ClassExtremeFear, ClassFear, ClassNeutral, ClassGreed, ClassExtremeGreed:
		return SentimentClass(s), true
	default:
		return ClassUnknown, false
	}
}

// SentimentRange is a regime bucket derived from the numeric score. It
// usually, but not necessarily, agrees with the feed's own class.
type SentimentRange string

const (
	RangeExtremeFear  SentimentRange = "Extreme Fear"
	RangeFear         SentimentRange = "Fear"
	RangeNeutral      SentimentRange = "Neutral"
	RangeGreed        SentimentRange = "Greed"
	RangeExtremeGreed SentimentRange = "Extreme Greed"

	// RangeUnclassified marks a missing score or one outside [0,100].
	RangeUnclassified SentimentRange = ""
)

// Ranges returns the derived buckets in ascending score order.
func Ranges() []SentimentRange {
	return []SentimentRange{
		RangeExtremeFear,
		RangeFear,
		RangeNeutral,
		RangeGreed,
		RangeExtremeGreed,
	}
}

// BucketForScore maps a sentiment score onto one of the five regime
// buckets. Buckets are closed-lowest and right-inclusive:
// [0,20], (20,40], (40,60], (60,80], (80,100], so a boundary score
// belongs to the bucket it closes (score 20 is Extreme Fear, 40 is
// Fear, and so on). NaN or out-of-range scores are unclassified.
func BucketForScore(score float64) (SentimentRange, bool) {
	if math.IsNaN(score) || score < 0 || score > 100 {
		return RangeUnclassified, false
	}
	switch {
	case score <= 20:
		return RangeExtremeFear, true
	case score <= 40:
		return RangeFear, true
	case score <= 60:
		return RangeNeutral, true
	case score <= 80:
		return RangeGreed, true
	default:
		return RangeExtremeGreed, true
	}
}

// SentimentRecord is one calendar day of the fear & greed index.
type SentimentRecord struct {
	Date  time.Time      `json:"date"`
	Score float64        `json:"score"`
	Class SentimentClass `json:"class"`
}
