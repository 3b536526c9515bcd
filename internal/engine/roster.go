package engine

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SyncStatus is the per-character outcome of a roster sync.
type SyncStatus string

const (
	StatusSynced      SyncStatus = "synced"
	StatusUnreachable SyncStatus = "unreachable"
	StatusFailed      SyncStatus = "failed"
)

// CharacterReport is the outcome of one character in a roster sync.
type CharacterReport struct {
	Name        string     `json:"name"`
	Status      SyncStatus `json:"status"`
	ItemLevel   float64    `json:"item_level,omitempty"`
	CombatPower float64    `json:"combat_power,omitempty"`
	Recommended []string   `json:"recommended,omitempty"`
	Error       string     `json:"error,omitempty"`
}

// SyncReport lists every roster character of one sync batch: synced and failed
// ones by descending combat power, then the unreachable ones.
type SyncReport struct {
	BatchID        string            `json:"batch_id"`
	Representative string            `json:"representative"`
	StartedAt      time.Time         `json:"started_at"`
	Characters     []CharacterReport `json:"characters"`
}

func (r *SyncReport) Count(status SyncStatus) int {
	n := 0
	for _, c := range r.Characters {
		if c.Status == status {
			n++
		}
	}
	return n
}

type fetchResult struct {
	entry   RosterEntry
	profile *Profile
	err     error
}

// SyncRoster fetches every character of the representative's roster with
// bounded concurrency, then syncs the reachable ones sequentially in descending
// combat power order. A failing character never stops its siblings; only a
// failed roster lookup fails the call.
func (s *Service) SyncRoster(ctx context.Context, representative string) (*SyncReport, error) {
	if s.source == nil {
		return nil, errNoSource
	}
	rep := strings.TrimSpace(representative)
	if rep == "" {
		return nil, ValidationError{Field: "representative", Value: representative, Err: errEmpty}
	}

	report := &SyncReport{
		BatchID:        uuid.NewString(),
		Representative: rep,
		StartedAt:      s.Now(),
	}
	log := s.log.With(zap.String("batch", report.BatchID), zap.String("representative", rep))

	entries, err := s.source.FetchRoster(ctx, rep)
	if err != nil {
		log.Warn("roster fetch failed", zap.Error(err))
		return nil, fmt.Errorf("fetch roster %s: %w", rep, err)
	}
	log.Info("roster fetched", zap.Int("characters", len(entries)))

	results := s.fetchProfiles(ctx, entries)

	var profiles []Profile
	for _, res := range results {
		if res.err != nil {
			log.Warn("character unreachable", zap.String("character", res.entry.Name), zap.Error(res.err))
			report.Characters = append(report.Characters, CharacterReport{
				Name:   res.entry.Name,
				Status: StatusUnreachable,
				Error:  res.err.Error(),
			})
			continue
		}
		profiles = append(profiles, mergeProfile(*res.profile, res.entry))
	}

	sort.SliceStable(profiles, func(i, j int) bool {
		return profiles[i].CombatPower > profiles[j].CombatPower
	})

	synced := make([]CharacterReport, 0, len(profiles))
	for _, p := range profiles {
		cr := CharacterReport{Name: p.Name, ItemLevel: p.ItemLevel, CombatPower: p.CombatPower}
		out, err := s.SyncCharacter(ctx, p)
		if err != nil {
			log.Error("character sync failed", zap.String("character", p.Name), zap.Error(err))
			cr.Status = StatusFailed
			cr.Error = err.Error()
		} else {
			cr.Status = StatusSynced
			cr.CombatPower = out.Character.CombatPower
			cr.Recommended = taskNames(out.Recommended)
		}
		synced = append(synced, cr)
	}
	report.Characters = append(synced, report.Characters...)

	log.Info("roster synced",
		zap.Int("synced", report.Count(StatusSynced)),
		zap.Int("failed", report.Count(StatusFailed)),
		zap.Int("unreachable", report.Count(StatusUnreachable)),
	)
	return report, nil
}

// fetchProfiles runs at most s.workers fetches at once. Results keep roster order.
func (s *Service) fetchProfiles(ctx context.Context, entries []RosterEntry) []fetchResult {
	results := make([]fetchResult, len(entries))
	sem := make(chan struct{}, s.workers)
	var wg sync.WaitGroup

	for i, e := range entries {
		wg.Add(1)
		go func(i int, e RosterEntry) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			res := fetchResult{entry: e}
			defer func() {
				if r := recover(); r != nil {
					res.err = fmt.Errorf("fetch %s: panic: %v", e.Name, r)
					res.profile = nil
				}
				results[i] = res
			}()

			p, err := s.source.FetchProfile(ctx, e.Name)
			switch {
			case err != nil:
				res.err = err
			case p == nil:
				res.err = fmt.Errorf("fetch %s: %w", e.Name, ErrNotFound)
			default:
				res.profile = p
			}
		}(i, e)
	}
	wg.Wait()
	return results
}

// mergeProfile fills blanks in the profile from its roster entry.
func mergeProfile(p Profile, e RosterEntry) Profile {
	if strings.TrimSpace(p.Name) == "" {
		p.Name = e.Name
	}
	if p.Server == "" {
		p.Server = e.Server
	}
	if p.Class == "" {
		p.Class = e.Class
	}
	if p.ItemLevel == 0 {
		p.ItemLevel = e.ItemLevel
	}
	return p
}
