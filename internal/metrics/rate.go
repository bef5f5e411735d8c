// Package metrics holds pure reducers over finished matches. Every
// calculator gates on finished status first and returns a zero-valued shape
// on empty input.
package metrics

import (
	"math"
	"strconv"
	"strings"

	"github.com/riskibarqy/match-metrics/internal/domain/match"
)

// DefaultThresholds is the over/under goal ladder.
var DefaultThresholds = []float64{0.5, 1.5, 2.5, 3.5, 4.5}

// Rate is a count normalized by the number of matches considered.
type Rate struct {
	Count        int     `json:"count"`
	TotalMatches int     `json:"total_matches"`
	Percentage   float64 `json:"percentage"`
}

func NewRate(count, total int) Rate {
	return Rate{Count: count, TotalMatches: total, Percentage: Percentage(count, total)}
}

// Share is a Rate keyed by matches, used in head-to-head blocks.
type Share struct {
	Matches    int     `json:"matches"`
	Percentage float64 `json:"percentage"`
}

func NewShare(count, total int) Share {
	return Share{Matches: count, Percentage: Percentage(count, total)}
}

func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func Percentage(count, total int) float64 {
	if total <= 0 {
		return 0
	}
	return Round2(float64(count) * 100 / float64(total))
}

func Average(sum, n int) float64 {
	if n <= 0 {
		return 0
	}
	return Round2(float64(sum) / float64(n))
}

// ThresholdKey renders 2.5 as "goals_2_5".
func ThresholdKey(t float64) string {
	return "goals_" + strings.ReplaceAll(strconv.FormatFloat(t, 'f', -1, 64), ".", "_")
}

// FinishedOnly keeps matches whose full-time score is final.
func FinishedOnly(records []match.Record) []match.Record {
	out := make([]match.Record, 0, len(records))
	for _, rec := range records {
		if rec.IsFinished() {
			out = append(out, rec)
		}
	}
	return out
}

func count(records []match.Record, pred func(match.Record) bool) int {
	n := 0
	for _, rec := range records {
		if pred(rec) {
			n++
		}
	}
	return n
}
