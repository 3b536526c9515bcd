package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prk7048/LOA-AGENT/internal/catalog"
)

func TestSelectBestRewardsLowPower(t *testing.T) {
	got := SelectBestRewards(catalog.Default(), 1680, 0)
	assert.Equal(t, []string{
		"Act 3: Mordum (Normal)",
		"Act 2: Abrelshud (Normal)",
		"Act 1: Aegir (Normal)",
	}, taskNames(got))
}

func TestSelectBestRewardsPicksHardWithinGroup(t *testing.T) {
	got := SelectBestRewards(catalog.Default(), 1700, 2000)
	assert.Equal(t, []string{
		"Act 4: Armoche (Normal)",
		"Act 3: Mordum (Hard)",
		"Act 2: Abrelshud (Hard)",
	}, taskNames(got))
}

func TestSelectBestRewardsNothingQualifies(t *testing.T) {
	assert.Empty(t, SelectBestRewards(catalog.Default(), 1500, 100000))
}

func TestSelectBestRewardsTieKeepsCatalogOrder(t *testing.T) {
	cat, err := catalog.Parse([]byte(`
tiers:
  - {name: A, label: X, min_item_level: 0, min_combat_power: 0, gold: 100, group: g}
  - {name: A, label: Y, min_item_level: 0, min_combat_power: 0, gold: 100, group: g}
  - {name: B, label: X, min_item_level: 0, min_combat_power: 0, gold: 100}
`))
	require.NoError(t, err)

	got := SelectBestRewards(cat, 10, 10)
	assert.Equal(t, []string{"A (X)", "B (X)"}, taskNames(got))
}

func TestSelectBestRewardsProperties(t *testing.T) {
	cat := catalog.Default()
	for progress := 1600.0; progress <= 1760; progress += 5 {
		for power := 0.0; power <= 4000; power += 250 {
			got := SelectBestRewards(cat, progress, power)
			require.LessOrEqual(t, len(got), MaxRecommendedRewards)

			groups := map[string]bool{}
			for i, tier := range got {
				require.False(t, groups[tier.Group], "duplicate group %s at %v/%v", tier.Group, progress, power)
				groups[tier.Group] = true
				require.True(t, tier.Qualifies(progress, power))
				if i > 0 {
					require.GreaterOrEqual(t, got[i-1].Reward, tier.Reward)
				}
			}
			require.Equal(t, got, SelectBestRewards(cat, progress, power))
		}
	}
}
