package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/prk7048/LOA-AGENT/internal/catalog"
	"github.com/prk7048/LOA-AGENT/internal/engine"
	"github.com/prk7048/LOA-AGENT/internal/storage"
)

type characterResponse struct {
	Name        string    `json:"name"`
	Server      string    `json:"server"`
	Class       string    `json:"class"`
	ItemLevel   float64   `json:"item_level"`
	CombatPower float64   `json:"combat_power"`
	Memo        string    `json:"memo"`
	SpentGold   int       `json:"spent_gold"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type taskResponse struct {
	ID         int64     `json:"id"`
	Character  string    `json:"character"`
	Name       string    `json:"name"`
	Category   string    `json:"category"`
	Current    int       `json:"current"`
	Target     int       `json:"target"`
	ResetCycle string    `json:"reset_cycle"`
	Reward     int       `json:"reward"`
	Done       bool      `json:"done"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type expeditionResponse struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Checked      bool      `json:"checked"`
	ResetCycle   string    `json:"reset_cycle"`
	IntervalDays int       `json:"interval_days"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func toCharacter(c storage.Character) characterResponse {
	return characterResponse{
		Name: c.Name, Server: c.Server, Class: c.Class,
		ItemLevel: c.ItemLevel, CombatPower: c.CombatPower,
		Memo: c.Memo, SpentGold: c.SpentGold, UpdatedAt: c.UpdatedAt,
	}
}

func toTask(t storage.Todo) taskResponse {
	return taskResponse{
		ID: t.ID, Character: t.CharacterName, Name: t.TaskName, Category: t.Category,
		Current: t.Current, Target: t.Target, ResetCycle: t.ResetCycle, Reward: t.Reward,
		Done: t.Done(), UpdatedAt: t.UpdatedAt,
	}
}

func toExpedition(e storage.ExpeditionTask) expeditionResponse {
	return expeditionResponse{
		ID: e.ID, Name: e.Name, Checked: e.Checked, ResetCycle: e.ResetCycle,
		IntervalDays: e.IntervalDays, UpdatedAt: e.UpdatedAt,
	}
}

func (a *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := a.Service.Store().DB.PingContext(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE", "Storage unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *API) handleListCharacters(w http.ResponseWriter, r *http.Request) {
	order := storage.OrderByPower
	switch q := r.URL.Query().Get("order"); q {
	case "", string(storage.OrderByPower):
	case string(storage.OrderByProgress):
		order = storage.OrderByProgress
	default:
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "order must be power or progress")
		return
	}
	chars, err := a.Service.ListCharacters(r.Context(), order)
	if err != nil {
		a.writeEngineError(w, r, err)
		return
	}
	out := make([]characterResponse, 0, len(chars))
	for _, c := range chars {
		out = append(out, toCharacter(c))
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *API) handleSyncCharacter(w http.ResponseWriter, r *http.Request) {
	res, err := a.Service.SyncOne(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		a.writeEngineError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"character":   toCharacter(res.Character),
		"recommended": res.Recommended,
		"removed":     res.Removed,
	})
}

func (a *API) handleSyncRoster(w http.ResponseWriter, r *http.Request) {
	report, err := a.Service.SyncRoster(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		a.writeEngineError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

type memoRequest struct {
	Memo string `json:"memo"`
}

func (a *API) handleSetMemo(w http.ResponseWriter, r *http.Request) {
	var req memoRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := a.Service.SetMemo(r.Context(), chi.URLParam(r, "name"), req.Memo); err != nil {
		a.writeEngineError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type spentRequest struct {
	Gold int `json:"gold"`
}

func (a *API) handleSetSpentGold(w http.ResponseWriter, r *http.Request) {
	var req spentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := a.Service.SetSpentGold(r.Context(), chi.URLParam(r, "name"), req.Gold); err != nil {
		a.writeEngineError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleDeleteCharacter(w http.ResponseWriter, r *http.Request) {
	if err := a.Service.DeleteCharacter(r.Context(), chi.URLParam(r, "name")); err != nil {
		a.writeEngineError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleListTasks(w http.ResponseWriter, r *http.Request) {
	todos, err := a.Service.ListTasks(r.Context(), r.URL.Query().Get("character"))
	if err != nil {
		a.writeEngineError(w, r, err)
		return
	}
	out := make([]taskResponse, 0, len(todos))
	for _, t := range todos {
		out = append(out, toTask(t))
	}
	writeJSON(w, http.StatusOK, out)
}

// progressRequest sets either an explicit value or done/undone.
type progressRequest struct {
	Value *int  `json:"value"`
	Done  *bool `json:"done"`
}

func (a *API) handleSetProgress(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var req progressRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	var (
		t   *storage.Todo
		err error
	)
	switch {
	case req.Value != nil:
		t, err = a.Service.SetTaskProgress(r.Context(), id, *req.Value)
	case req.Done != nil:
		t, err = a.Service.ToggleTask(r.Context(), id, *req.Done)
	default:
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "value or done is required")
		return
	}
	if err != nil {
		a.writeEngineError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTask(*t))
}

func (a *API) handleApplyResets(w http.ResponseWriter, r *http.Request) {
	lines, err := a.Service.Tick(r.Context())
	if err != nil {
		a.writeEngineError(w, r, err)
		return
	}
	if lines == nil {
		lines = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"log": lines})
}

func (a *API) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	progress, err1 := strconv.ParseFloat(r.URL.Query().Get("progress"), 64)
	power, err2 := strconv.ParseFloat(r.URL.Query().Get("power"), 64)
	if err1 != nil || err2 != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "progress and power must be numbers")
		return
	}
	tiers := a.Service.Recommend(progress, power)
	if tiers == nil {
		tiers = []catalog.Tier{}
	}
	writeJSON(w, http.StatusOK, tiers)
}

func (a *API) handleIncome(w http.ResponseWriter, r *http.Request) {
	inc, err := a.Service.IncomeSummary(r.Context(), a.Service.Now())
	if err != nil {
		a.writeEngineError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, inc)
}

func (a *API) handleListExpeditions(w http.ResponseWriter, r *http.Request) {
	exps, err := a.Service.ListExpeditions(r.Context())
	if err != nil {
		a.writeEngineError(w, r, err)
		return
	}
	out := make([]expeditionResponse, 0, len(exps))
	for _, e := range exps {
		out = append(out, toExpedition(e))
	}
	writeJSON(w, http.StatusOK, out)
}

type expeditionRequest struct {
	Name         string `json:"name"`
	ResetCycle   string `json:"reset_cycle"`
	IntervalDays int    `json:"interval_days"`
}

func (a *API) handleAddExpedition(w http.ResponseWriter, r *http.Request) {
	var req expeditionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	cycle, err := engine.ParseResetCycle(req.ResetCycle)
	if err != nil {
		a.writeEngineError(w, r, err)
		return
	}
	id, err := a.Service.AddExpedition(r.Context(), req.Name, cycle, req.IntervalDays)
	if err != nil {
		a.writeEngineError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

type checkedRequest struct {
	Checked bool `json:"checked"`
}

func (a *API) handleSetExpeditionChecked(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var req checkedRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := a.Service.SetExpeditionChecked(r.Context(), id, req.Checked); err != nil {
		a.writeEngineError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleDeleteExpedition(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	if err := a.Service.DeleteExpedition(r.Context(), id); err != nil {
		a.writeEngineError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleGetSetting(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	v, found, err := a.Service.Setting(r.Context(), key)
	if err != nil {
		a.writeEngineError(w, r, err)
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Setting not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"key": key, "value": v})
}

type settingRequest struct {
	Value string `json:"value"`
}

func (a *API) handleSetSetting(w http.ResponseWriter, r *http.Request) {
	var req settingRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := a.Service.SetSetting(r.Context(), chi.URLParam(r, "key"), req.Value); err != nil {
		a.writeEngineError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(chi.URLParam(r, "id")), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "id must be a positive integer")
		return 0, false
	}
	return id, true
}
