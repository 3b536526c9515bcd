package storage

import "time"

type Character struct {
	Name        string
	Server      string
	Class       string
	ItemLevel   float64
	CombatPower float64
	Memo        string
	SpentGold   int
	UpdatedAt   time.Time
}

type Todo struct {
	ID            int64
	CharacterName string
	TaskName      string
	Category      string
	Current       int
	Target        int
	ResetCycle    string
	Reward        int
	UpdatedAt     time.Time
}

func (t Todo) Done() bool {
	return t.Current >= t.Target
}

type ExpeditionTask struct {
	ID           int64
	Name         string
	Checked      bool
	ResetCycle   string
	IntervalDays int
	UpdatedAt    time.Time
}
