package history

import (
	"math"
	"sort"

	"scriptdeck/internal/models"
)

// Stats summarizes a sequence of entries: counts, success rate, mean
// duration and nearest-rank percentiles over ascending durations.
func Stats(entries []models.HistoryEntry) models.HistoryStats {
	stats := models.HistoryStats{Count: len(entries)}
	if stats.Count == 0 {
		return stats
	}

	durations := make([]int64, 0, len(entries))
	var total int64
	for _, e := range entries {
		if e.OK {
			stats.Successes++
		} else {
			stats.Failures++
		}
		durations = append(durations, e.DurationMS)
		total += e.DurationMS
	}

	sort.Slice(durations, func(i, j int) bool { return durations[i] < durations[j] })

	stats.SuccessRate = float64(stats.Successes) / float64(stats.Count)
	stats.MeanDuration = float64(total) / float64(stats.Count)
	stats.P50Duration = percentile(durations, 0.5)
	stats.P90Duration = percentile(durations, 0.9)
	return stats
}

// percentile selects by nearest rank: rank = ceil(p*n), 1-indexed, clamped.
func percentile(sorted []int64, p float64) int64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	rank := int(math.Ceil(p * float64(n)))
	if rank < 1 {
		rank = 1
	}
	if rank > n {
		rank = n
	}
	return sorted[rank-1]
}
