package history

import (
	"math"
	"slices"
	"sort"
)

// round matches JavaScript Math.round: halves go toward +Inf.
func round(x float64) int {
	return int(math.Floor(x + 0.5))
}

func ratio(r Result) float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Score) / float64(r.Total)
}

// Percent is the result's score as a rounded percentage of its total.
func Percent(r Result) int {
	return round(ratio(r) * 100)
}

// AverageAccuracy is the mean of score/total over all results as a rounded
// percentage. Zero for an empty history.
func AverageAccuracy(results []Result) int {
	if len(results) == 0 {
		return 0
	}
	var sum float64
	for _, r := range results {
		sum += ratio(r)
	}
	return round(sum / float64(len(results)) * 100)
}

// MostRecentFirst returns a reversed copy of results for display. The
// input, which is in append order, is not modified.
func MostRecentFirst(results []Result) []Result {
	out := slices.Clone(results)
	slices.Reverse(out)
	return out
}

// Latest returns the most recently appended result.
func Latest(results []Result) (Result, bool) {
	if len(results) == 0 {
		return Result{}, false
	}
	return results[len(results)-1], true
}

// CanPlanRemedial reports whether a remedial plan can be requested.
func CanPlanRemedial(results []Result) bool {
	return len(results) > 0
}

// TopicStats aggregates the results recorded for one topic.
type TopicStats struct {
	Topic           string `json:"topic"`
	Attempts        int    `json:"attempts"`
	AverageAccuracy int    `json:"averageAccuracy"`
	BestPercent     int    `json:"bestPercent"`
	WorstPercent    int    `json:"worstPercent"`
	Missed          int    `json:"missed"`
}

// Summary is the aggregate view of the whole history.
type Summary struct {
	Attempts        int          `json:"attempts"`
	AverageAccuracy int          `json:"averageAccuracy"`
	CanPlanRemedial bool         `json:"canPlanRemedial"`
	Topics          []TopicStats `json:"topics"`
}

// Stats summarizes results overall and per topic. Topics are ordered by
// ascending average accuracy so the weakest come first.
func Stats(results []Result) Summary {
	s := Summary{
		Attempts:        len(results),
		AverageAccuracy: AverageAccuracy(results),
		CanPlanRemedial: CanPlanRemedial(results),
		Topics:          []TopicStats{},
	}

	byTopic := make(map[string][]Result)
	var order []string
	for _, r := range results {
		if _, ok := byTopic[r.Topic]; !ok {
			order = append(order, r.Topic)
		}
		byTopic[r.Topic] = append(byTopic[r.Topic], r)
	}

	for _, topic := range order {
		rs := byTopic[topic]
		ts := TopicStats{
			Topic:           topic,
			Attempts:        len(rs),
			AverageAccuracy: AverageAccuracy(rs),
			BestPercent:     math.MinInt,
			WorstPercent:    math.MaxInt,
		}
		for _, r := range rs {
			p := Percent(r)
			ts.BestPercent = max(ts.BestPercent, p)
			ts.WorstPercent = min(ts.WorstPercent, p)
			ts.Missed += len(r.MissedTopics)
		}
		s.Topics = append(s.Topics, ts)
	}

	sort.SliceStable(s.Topics, func(i, j int) bool {
		return s.Topics[i].AverageAccuracy < s.Topics[j].AverageAccuracy
	})
	return s
}
