package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(apiHandler *APIHandler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"status":"ok"}`))
		})

		r.Route("/sessions", func(r chi.Router) {
			r.Get("/", apiHandler.ListSessionsHandler)
			r.Post("/", apiHandler.CreateSessionHandler)
			r.Get("/active", apiHandler.ActiveSessionHandler)
			r.Post("/{sessionID}/activate", apiHandler.ActivateSessionHandler)
			r.Delete("/{sessionID}", apiHandler.DeleteSessionHandler)
			r.Get("/{sessionID}/export", apiHandler.ExportSessionHandler)
		})
		r.Get("/export", apiHandler.ExportActiveHandler)

		// Active session
		r.Put("/mode", apiHandler.SwitchModeHandler)
		r.Put("/persona", apiHandler.SetPersonaHandler)
		r.Put("/draft", apiHandler.SetDraftHandler)
		r.Post("/attachments", apiHandler.UploadAttachmentsHandler)
		r.Delete("/attachments/{index}", apiHandler.RemoveAttachmentHandler)
		r.Post("/messages", apiHandler.PostMessageHandler)

		r.Get("/demos", apiHandler.ListDemosHandler)
		r.Post("/demos/{scenarioID}", apiHandler.LoadDemoHandler)

		r.Get("/intake/markets", apiHandler.MarketPresetsHandler)
		r.Post("/intake", apiHandler.IntakeHandler)
	})

	return r
}
