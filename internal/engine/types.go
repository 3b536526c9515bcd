package engine

import "strings"

// Category partitions per-character todos into dailies and weeklies.
type Category string

const (
	CategoryDaily  Category = "DAILY"
	CategoryWeekly Category = "WEEKLY"
)

func (c Category) IsValid() bool {
	switch c {
	case CategoryDaily, CategoryWeekly:
		return true
	default:
		return false
	}
}

func ParseCategory(input string) (Category, error) {
	c := Category(strings.TrimSpace(strings.ToUpper(input)))
	if !c.IsValid() {
		return "", ValidationError{Field: "category", Value: input, Err: errUnknownValue}
	}
	return c, nil
}

type ResetCycle string

const (
	CycleDaily    ResetCycle = "DAILY"
	CycleWeekly   ResetCycle = "WEEKLY"
	CycleInterval ResetCycle = "INTERVAL"
)

func (c ResetCycle) IsValid() bool {
	switch c {
	case CycleDaily, CycleWeekly, CycleInterval:
		return true
	default:
		return false
	}
}

// ParseResetCycle accepts the cycle names case-insensitively, plus "d", "w" and "i".
func ParseResetCycle(input string) (ResetCycle, error) {
	switch strings.TrimSpace(strings.ToLower(input)) {
	case "daily", "d":
		return CycleDaily, nil
	case "weekly", "w":
		return CycleWeekly, nil
	case "interval", "i":
		return CycleInterval, nil
	default:
		return "", ValidationError{Field: "reset_cycle", Value: input, Err: errUnknownValue}
	}
}

// DailyTask is a fixed daily todo every synced character receives.
type DailyTask struct {
	Name   string
	Target int
}

// DefaultDailyTasks are inserted if absent on every sync; existing progress is never touched.
var DefaultDailyTasks = []DailyTask{
	{Name: "Chaos Dungeon", Target: 1},
	{Name: "Guardian Raid", Target: 1},
}

// ExpeditionSeed is one account-wide task created by EnsureDefaultExpeditions.
type ExpeditionSeed struct {
	Name         string
	Cycle        ResetCycle
	IntervalDays int
}

var DefaultExpeditions = []ExpeditionSeed{
	{Name: "Guild Attendance", Cycle: CycleDaily, IntervalDays: 1},
	{Name: "Estate Dispatch", Cycle: CycleDaily, IntervalDays: 1},
	{Name: "Challenge Guardian / Abyss", Cycle: CycleWeekly, IntervalDays: 1},
	{Name: "Weekly Una", Cycle: CycleWeekly, IntervalDays: 1},
	{Name: "Chaos Gate / Field Boss", Cycle: CycleInterval, IntervalDays: 2},
}

// Setting keys understood by the engine.
const (
	SettingTargetDate = "target_date"
)

const targetDateLayout = "2006-01-02"
