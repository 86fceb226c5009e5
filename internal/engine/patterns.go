package engine

import (
	"crypto/md5"
	"encoding/hex"
	"sort"
	"strings"

	"github.com/blackwell-systems/workflowx/internal/model"
)

// Default pattern detection parameters. Intents scoring at or above
// DefaultSimilarityThreshold join an existing cluster ("competitive research"
// and "competitor analysis" should group); clusters smaller than
// DefaultMinOccurrences are dropped.
const (
	DefaultSimilarityThreshold = 0.55
	DefaultMinOccurrences      = 2
)

// maxPatternApps caps the involved-apps list on a pattern.
const maxPatternApps = 10

// trendDelta is the friction-score difference between cluster halves that
// counts as a direction change rather than noise.
const trendDelta = 0.3

// PatternID derives the deterministic pattern id from the canonical intent.
func PatternID(intent string) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(intent))))
	return "pat_" + hex.EncodeToString(sum[:])[:12]
}

// DetectPatterns finds recurring workflows by greedy single-pass clustering
// of session intents. Sessions are processed in ascending start-time order so
// the first occurrence of a workflow defines the cluster's canonical intent;
// each session joins the best-scoring existing cluster at or above the
// threshold, or starts its own. Clusters below minOccurrences are dropped.
//
// Sessions without an inferred intent (or with the failed-inference sentinel)
// are ignored. Returns patterns sorted by total time invested descending —
// the biggest time sinks first.
func DetectPatterns(sessions []model.WorkflowSession, threshold float64, minOccurrences int) []model.WorkflowPattern {
	var analyzed []model.WorkflowSession
	for _, s := range sessions {
		if s.InferredIntent == "" || s.InferredIntent == model.InferenceFailed {
			continue
		}
		analyzed = append(analyzed, s)
	}
	if len(analyzed) == 0 {
		return nil
	}

	sort.SliceStable(analyzed, func(i, j int) bool {
		return analyzed[i].StartTime.Before(analyzed[j].StartTime)
	})

	// Greedy assignment against each cluster's canonical (first-member)
	// intent. O(n*k) with k clusters, and deliberately time-order sensitive.
	var clusters [][]model.WorkflowSession
	for _, s := range analyzed {
		best := -1
		bestSim := 0.0
		for ci := range clusters {
			sim := Similarity(s.InferredIntent, clusters[ci][0].InferredIntent)
			if sim > bestSim && sim >= threshold {
				bestSim = sim
				best = ci
			}
		}
		if best >= 0 {
			clusters[best] = append(clusters[best], s)
		} else {
			clusters = append(clusters, []model.WorkflowSession{s})
		}
	}

	var patterns []model.WorkflowPattern
	for _, cluster := range clusters {
		if len(cluster) < minOccurrences {
			continue
		}
		patterns = append(patterns, buildPattern(cluster[0].InferredIntent, cluster))
	}

	sort.SliceStable(patterns, func(i, j int) bool {
		return patterns[i].TotalTimeInvestedMinutes > patterns[j].TotalTimeInvestedMinutes
	})

	return patterns
}

// buildPattern aggregates a cluster of similar sessions. The cluster arrives
// in ascending start-time order (assignment processes sessions that way).
func buildPattern(intent string, cluster []model.WorkflowSession) model.WorkflowPattern {
	var totalMinutes, totalSwitches float64
	for _, s := range cluster {
		totalMinutes += s.TotalDurationMinutes
		totalSwitches += float64(s.ContextSwitches)
	}
	n := float64(len(cluster))

	var ids []string
	var apps []string
	seenApps := make(map[string]bool)
	for _, s := range cluster {
		ids = append(ids, s.ID)
		for _, app := range s.AppsUsed {
			if !seenApps[app] {
				seenApps[app] = true
				apps = append(apps, app)
			}
		}
	}
	if len(apps) > maxPatternApps {
		apps = apps[:maxPatternApps]
	}

	return model.WorkflowPattern{
		ID:                       PatternID(intent),
		Intent:                   intent,
		Occurrences:              len(cluster),
		FirstSeen:                cluster[0].StartTime,
		LastSeen:                 cluster[len(cluster)-1].StartTime,
		AvgDurationMinutes:       round1(totalMinutes / n),
		TotalTimeInvestedMinutes: round1(totalMinutes),
		AvgContextSwitches:       round1(totalSwitches / n),
		MostCommonFriction:       mostCommonFriction(cluster),
		Trend:                    frictionTrajectory(cluster),
		SessionIDs:               ids,
		AppsInvolved:             apps,
	}
}

// mostCommonFriction returns the friction level appearing in the most
// sessions. Counting is list-backed so exact ties resolve to the level
// encountered first, never to hash order.
func mostCommonFriction(cluster []model.WorkflowSession) model.FrictionLevel {
	type levelCount struct {
		level model.FrictionLevel
		n     int
	}
	var counts []levelCount
	for _, s := range cluster {
		found := false
		for i := range counts {
			if counts[i].level == s.FrictionLevel {
				counts[i].n++
				found = true
				break
			}
		}
		if !found {
			counts = append(counts, levelCount{level: s.FrictionLevel, n: 1})
		}
	}

	best := counts[0]
	for _, c := range counts[1:] {
		if c.n > best.n {
			best = c
		}
	}
	return best.level
}

// frictionTrajectory splits the time-ordered cluster at its midpoint and
// compares mean friction scores of the halves. Clusters of two or fewer
// sessions carry no signal and are always stable.
func frictionTrajectory(cluster []model.WorkflowSession) string {
	n := len(cluster)
	if n <= 2 {
		return model.TrendStable
	}

	mid := n / 2
	var first, second float64
	for _, s := range cluster[:mid] {
		first += s.FrictionLevel.Score()
	}
	for _, s := range cluster[mid:] {
		second += s.FrictionLevel.Score()
	}
	diff := second/float64(n-mid) - first/float64(mid)

	switch {
	case diff > trendDelta:
		return model.TrendWorsening
	case diff < -trendDelta:
		return model.TrendImproving
	default:
		return model.TrendStable
	}
}
