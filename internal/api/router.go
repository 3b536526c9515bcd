package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/prk7048/LOA-AGENT/internal/engine"
)

type API struct {
	Service *engine.Service
	Log     *zap.Logger
}

func (a *API) Router() http.Handler {
	if a.Log == nil {
		a.Log = zap.NewNop()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(a.loggingMiddleware)

	r.Get("/health", a.handleHealth)
	r.Get("/recommendations", a.handleRecommendations)
	r.Get("/income", a.handleIncome)
	r.Post("/resets", a.handleApplyResets)
	r.Post("/rosters/{name}/sync", a.handleSyncRoster)

	r.Route("/characters", func(r chi.Router) {
		r.Get("/", a.handleListCharacters)
		r.Post("/{name}/sync", a.handleSyncCharacter)
		r.Put("/{name}/memo", a.handleSetMemo)
		r.Put("/{name}/spent", a.handleSetSpentGold)
		r.Delete("/{name}", a.handleDeleteCharacter)
	})
	r.Route("/tasks", func(r chi.Router) {
		r.Get("/", a.handleListTasks)
		r.Put("/{id}/progress", a.handleSetProgress)
	})
	r.Route("/expeditions", func(r chi.Router) {
		r.Get("/", a.handleListExpeditions)
		r.Post("/", a.handleAddExpedition)
		r.Put("/{id}/checked", a.handleSetExpeditionChecked)
		r.Delete("/{id}", a.handleDeleteExpedition)
	})
	r.Route("/settings", func(r chi.Router) {
		r.Get("/{key}", a.handleGetSetting)
		r.Put("/{key}", a.handleSetSetting)
	})

	return r
}
