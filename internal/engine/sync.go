package engine

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/prk7048/LOA-AGENT/internal/catalog"
	"github.com/prk7048/LOA-AGENT/internal/storage"
)

// Profile is one character's stats as reported by the stat source.
type Profile struct {
	Name        string  `json:"name"`
	Server      string  `json:"server"`
	Class       string  `json:"class"`
	ItemLevel   float64 `json:"item_level"`
	CombatPower float64 `json:"combat_power"`
}

// RosterEntry identifies one character of a roster.
type RosterEntry struct {
	Name      string  `json:"name"`
	Server    string  `json:"server"`
	Class     string  `json:"class"`
	ItemLevel float64 `json:"item_level"`
}

// Source is the external stat source. Both calls may fail with ErrNotFound or
// ErrSourceUnavailable; retries are the implementation's concern.
type Source interface {
	FetchProfile(ctx context.Context, name string) (*Profile, error)
	FetchRoster(ctx context.Context, representative string) ([]RosterEntry, error)
}

// SyncResult is what SyncCharacter stored: the character row, the recommended
// tiers, stale weekly todos removed and default dailies added.
type SyncResult struct {
	Character   storage.Character
	Recommended []catalog.Tier
	Removed     int64
	Added       int
}

// SyncCharacter stores the profile and reconciles the character's todos with the
// recommended reward tiers, all in one transaction. Stored combat power never
// decreases. Progress of surviving todos is kept.
func (s *Service) SyncCharacter(ctx context.Context, p Profile) (*SyncResult, error) {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return nil, ValidationError{Field: "character", Value: p.Name, Err: errEmpty}
	}
	now := s.Now()

	res := &SyncResult{}
	err := s.store.WithTx(ctx, func(r storage.Repos) error {
		prev, err := r.Characters.Get(ctx, name)
		if err != nil {
			return err
		}
		power := p.CombatPower
		if prev != nil && prev.CombatPower > power {
			power = prev.CombatPower
		}

		ch := storage.Character{
			Name:        name,
			Server:      p.Server,
			Class:       p.Class,
			ItemLevel:   p.ItemLevel,
			CombatPower: power,
			UpdatedAt:   now,
		}
		if err := r.Characters.Upsert(ctx, ch); err != nil {
			return err
		}

		tiers := SelectBestRewards(s.catalog, ch.ItemLevel, ch.CombatPower)
		removed, err := r.Todos.DeleteNotIn(ctx, name, string(CategoryWeekly), taskNames(tiers))
		if err != nil {
			return err
		}
		for _, t := range tiers {
			err := r.Todos.Upsert(ctx, storage.Todo{
				CharacterName: name,
				TaskName:      t.TaskName(),
				Category:      string(CategoryWeekly),
				Target:        1,
				ResetCycle:    string(CycleWeekly),
				Reward:        t.Reward,
				UpdatedAt:     now,
			})
			if err != nil {
				return err
			}
		}

		added := 0
		for _, d := range DefaultDailyTasks {
			ok, err := r.Todos.InsertIfAbsent(ctx, storage.Todo{
				CharacterName: name,
				TaskName:      d.Name,
				Category:      string(CategoryDaily),
				Target:        d.Target,
				ResetCycle:    string(CycleDaily),
				UpdatedAt:     now,
			})
			if err != nil {
				return err
			}
			if ok {
				added++
			}
		}

		if prev != nil {
			ch.Memo, ch.SpentGold = prev.Memo, prev.SpentGold
		}
		res.Character = ch
		res.Recommended = tiers
		res.Removed = removed
		res.Added = added
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("sync %s: %w", name, err)
	}

	s.log.Info("character synced",
		zap.String("character", name),
		zap.Float64("item_level", res.Character.ItemLevel),
		zap.Float64("combat_power", res.Character.CombatPower),
		zap.Strings("recommended", taskNames(res.Recommended)),
		zap.Int64("removed", res.Removed),
	)
	return res, nil
}

// SyncOne fetches a single character from the source and syncs it.
func (s *Service) SyncOne(ctx context.Context, name string) (*SyncResult, error) {
	if s.source == nil {
		return nil, errNoSource
	}
	p, err := s.source.FetchProfile(ctx, strings.TrimSpace(name))
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", name, err)
	}
	return s.SyncCharacter(ctx, *p)
}
