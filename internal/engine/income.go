package engine

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/prk7048/LOA-AGENT/internal/storage"
)

type CharacterIncome struct {
	Name      string `json:"name"`
	Potential int    `json:"potential"`
	Earned    int    `json:"earned"`
	Spent     int    `json:"spent"`
}

type Income struct {
	Characters []CharacterIncome `json:"characters"`
	Potential  int               `json:"potential"`
	Earned     int               `json:"earned"`
	Spent      int               `json:"spent"`

	// Set only when target_date holds a valid date.
	TargetDate      string `json:"target_date,omitempty"`
	WeeklyResetsBy  int    `json:"weekly_resets_by,omitempty"`
	ProjectedByDate int    `json:"projected_by_date,omitempty"`
}

// IncomeSummary totals weekly rewards per character. Projection to the target
// date is what is still open this week plus a full week per weekly reset that
// happens on or before the target day.
func (s *Service) IncomeSummary(ctx context.Context, now time.Time) (*Income, error) {
	repos := s.store.Repos()
	chars, err := repos.Characters.List(ctx, storage.OrderByProgress)
	if err != nil {
		return nil, err
	}
	todos, err := repos.Todos.List(ctx, nil)
	if err != nil {
		return nil, err
	}

	byName := make(map[string]*CharacterIncome, len(chars))
	out := &Income{Characters: make([]CharacterIncome, len(chars))}
	for i, c := range chars {
		out.Characters[i] = CharacterIncome{Name: c.Name, Spent: c.SpentGold}
		byName[c.Name] = &out.Characters[i]
	}
	for _, t := range todos {
		ci, ok := byName[t.CharacterName]
		if !ok || Category(t.Category) != CategoryWeekly {
			continue
		}
		ci.Potential += t.Reward
		if t.Done() {
			ci.Earned += t.Reward
		}
	}
	for _, ci := range out.Characters {
		out.Potential += ci.Potential
		out.Earned += ci.Earned
		out.Spent += ci.Spent
	}

	raw, found, err := repos.Settings.Get(ctx, SettingTargetDate)
	if err != nil {
		return nil, err
	}
	if !found || raw == "" {
		return out, nil
	}
	target, err := time.ParseInLocation(targetDateLayout, raw, s.loc)
	if err != nil {
		s.log.Warn("ignoring target date", zap.String("value", raw), zap.Error(err))
		return out, nil
	}
	endOfDay := target.AddDate(0, 0, 1).Add(-time.Nanosecond)
	out.TargetDate = raw
	out.WeeklyResetsBy = WeeklyResetsUntil(now, endOfDay, s.loc)
	out.ProjectedByDate = out.Potential - out.Earned + out.Potential*out.WeeklyResetsBy
	if endOfDay.Before(now) {
		out.WeeklyResetsBy = 0
		out.ProjectedByDate = 0
	}
	return out, nil
}
