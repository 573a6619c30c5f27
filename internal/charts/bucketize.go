// Package charts turns query result sets into categorical
// distributions and renders them as interactive HTML charts.
package charts

import (
	"math"

	"github.com/ymzk/battlelog/internal/models"
)

const (
	// UnspecifiedLabel is the placeholder bucket label for records
	// with no value in the category field. Callers localize it for
	// display.
	UnspecifiedLabel = "(unspecified)"

	// OtherLabel is the synthetic bucket holding the merged long
	// tail. Callers localize it for display.
	OtherLabel = "(other)"

	// DefaultBucketLimit is the bucket cap applied when the caller
	// passes limit <= 0.
	DefaultBucketLimit = 10
)

// Bucket is one slice of a categorical distribution.
type Bucket struct {
	Label      string
	Count      int
	Percentage float64 // Share of total records, one decimal place
}

// Distribution is a ranked categorical breakdown of a result set.
type Distribution struct {
	Buckets []Bucket

	// OverflowDetail preserves the individual (label, count) pairs
	// merged into the OtherLabel bucket, for detail-on-demand
	// display. Empty when no merge happened.
	OverflowDetail []Bucket
}

// Bucketize groups records by a categorical field, ranks buckets by
// count descending (ties keep first-encountered order), and merges
// the long tail: with more than limit distinct categories, the top
// limit-1 buckets are kept verbatim and the remainder collapses into
// a single OtherLabel bucket. An empty result set yields an empty
// bucket list.
func Bucketize(records []*models.Record, field string, limit int) Distribution {
	if limit <= 0 {
		limit = DefaultBucketLimit
	}

	if len(records) == 0 {
		return Distribution{}
	}

	counts := make(map[string]int)
	order := make([]string, 0)
	for _, r := range records {
		label := categoryValue(r, field)
		if label == "" {
			label = UnspecifiedLabel
		}
		if _, seen := counts[label]; !seen {
			order = append(order, label)
		}
		counts[label]++
	}

	// Stable ranking: insertion sort by count keeps the
	// first-encountered order for equal counts.
	ranked := make([]Bucket, 0, len(order))
	for _, label := range order {
		ranked = append(ranked, Bucket{Label: label, Count: counts[label]})
	}
	for i := 1; i < len(ranked); i++ {
		for j := i; j > 0 && ranked[j].Count > ranked[j-1].Count; j-- {
			ranked[j], ranked[j-1] = ranked[j-1], ranked[j]
		}
	}

	total := len(records)

	var dist Distribution
	if len(ranked) > limit {
		kept := ranked[:limit-1]
		tail := ranked[limit-1:]

		otherSum := 0
		dist.OverflowDetail = make([]Bucket, len(tail))
		for i, b := range tail {
			otherSum += b.Count
			dist.OverflowDetail[i] = Bucket{Label: b.Label, Count: b.Count, Percentage: percentage(b.Count, total)}
		}

		dist.Buckets = make([]Bucket, 0, limit)
		dist.Buckets = append(dist.Buckets, kept...)
		dist.Buckets = append(dist.Buckets, Bucket{Label: OtherLabel, Count: otherSum})
	} else {
		dist.Buckets = ranked
	}

	for i := range dist.Buckets {
		dist.Buckets[i].Percentage = percentage(dist.Buckets[i].Count, total)
	}

	return dist
}

// categoryValue resolves the grouping value for a field id. Unknown
// ids are looked up as custom fields.
func categoryValue(r *models.Record, field string) string {
	switch field {
	case "myDeck":
		return r.MyDeck
	case "opponentDeck":
		return r.OpponentDeck
	case "gameName":
		return r.GameName
	case "turnOrder":
		return r.TurnOrder.String()
	case "result":
		return r.Result.String()
	case "misplay":
		return r.Misplay.String()
	default:
		return r.CustomValue(field).String()
	}
}

func percentage(count, total int) float64 {
	if total <= 0 {
		return 0.0
	}
	return math.Round(float64(count)/float64(total)*1000) / 10
}
