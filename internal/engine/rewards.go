package engine

import (
	"sort"

	"github.com/prk7048/LOA-AGENT/internal/catalog"
)

// MaxRecommendedRewards caps how many weekly reward tiers a character may hold.
const MaxRecommendedRewards = 3

// SelectBestRewards returns the best qualifying tier of each group, highest reward
// first, at most MaxRecommendedRewards of them. Within a group the first tier in
// catalog order wins a reward tie; across groups ties keep catalog order.
func SelectBestRewards(cat catalog.Catalog, progress, power float64) []catalog.Tier {
	best := make(map[string]int)
	var picked []catalog.Tier
	for _, t := range cat.Tiers {
		if !t.Qualifies(progress, power) {
			continue
		}
		if i, ok := best[t.Group]; ok {
			if t.Reward > picked[i].Reward {
				picked[i] = t
			}
			continue
		}
		best[t.Group] = len(picked)
		picked = append(picked, t)
	}

	sort.SliceStable(picked, func(i, j int) bool {
		return picked[i].Reward > picked[j].Reward
	})
	if len(picked) > MaxRecommendedRewards {
		picked = picked[:MaxRecommendedRewards]
	}
	return picked
}

// taskNames lists each tier's todo name.
func taskNames(tiers []catalog.Tier) []string {
	out := make([]string, 0, len(tiers))
	for _, t := range tiers {
		out = append(out, t.TaskName())
	}
	return out
}
