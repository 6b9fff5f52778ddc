package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"gwi.com/globallaunch-advisor/internal/attachment"
	"gwi.com/globallaunch-advisor/internal/core"
	"gwi.com/globallaunch-advisor/internal/export"
	"gwi.com/globallaunch-advisor/internal/logger"
	"gwi.com/globallaunch-advisor/internal/store"
)

const maxMultipartMemory = 32 << 20

type APIHandler struct {
	chatService *core.ChatService
	encoder     *attachment.Encoder
	productName string
	now         func() time.Time
}

func NewAPIHandler(cs *core.ChatService, enc *attachment.Encoder, productName string) *APIHandler {
	return &APIHandler{
		chatService: cs,
		encoder:     enc,
		productName: productName,
		now:         time.Now,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

func (h *APIHandler) ListSessionsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.chatService.ListSessions())
}

func (h *APIHandler) CreateSessionHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusCreated, h.chatService.CreateSession(r.Context()))
}

func (h *APIHandler) ActiveSessionHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.chatService.Workspace())
}

func (h *APIHandler) ActivateSessionHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if err := h.chatService.LoadSession(sessionID); err != nil {
		if errors.Is(err, core.ErrSessionNotFound) {
			http.Error(w, "Session not found", http.StatusNotFound)
			return
		}
		logger.Error("Error activating session", "session", sessionID, "error", err)
		http.Error(w, "Failed to activate session", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, h.chatService.Workspace())
}

func (h *APIHandler) DeleteSessionHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if err := h.chatService.DeleteSession(r.Context(), sessionID); err != nil {
		if errors.Is(err, core.ErrSessionNotFound) {
			http.Error(w, "Session not found", http.StatusNotFound)
			return
		}
		logger.Error("Error deleting session", "session", sessionID, "error", err)
		http.Error(w, "Failed to delete session", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *APIHandler) ExportSessionHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	sess, err := h.chatService.Session(sessionID)
	if err != nil {
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}
	h.writeReport(w, sess)
}

func (h *APIHandler) ExportActiveHandler(w http.ResponseWriter, r *http.Request) {
	h.writeReport(w, h.chatService.Workspace().Session)
}

func (h *APIHandler) writeReport(w http.ResponseWriter, sess store.Session) {
	if len(sess.Messages) == 0 {
		http.Error(w, "Nothing to export", http.StatusNotFound)
		return
	}

	now := h.now()
	report, err := export.Render(sess, now)
	if err != nil {
		logger.Error("Error rendering report", "session", sess.ID, "error", err)
		http.Error(w, "Failed to render report", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename(h.productName, now)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(report)
}

type SwitchModeRequest struct {
	Mode store.Mode `json:"mode"`
}

func (h *APIHandler) SwitchModeHandler(w http.ResponseWriter, r *http.Request) {
	var req SwitchModeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	msg, err := h.chatService.SwitchMode(r.Context(), req.Mode)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, msg)
}

func (h *APIHandler) SetPersonaHandler(w http.ResponseWriter, r *http.Request) {
	var req store.PersonaProfile
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, h.chatService.SetPersona(r.Context(), req))
}

type DraftRequest struct {
	Text string `json:"text"`
}

func (h *APIHandler) SetDraftHandler(w http.ResponseWriter, r *http.Request) {
	var req DraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	h.chatService.SetDraft(req.Text)
	w.WriteHeader(http.StatusNoContent)
}

type UploadResponse struct {
	Attachments []store.Attachment `json:"attachments"`
	Warnings    []string           `json:"warnings,omitempty"`
}

func (h *APIHandler) UploadAttachmentsHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		http.Error(w, "Invalid multipart body: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		http.Error(w, "No files provided", http.StatusBadRequest)
		return
	}

	sources := make([]attachment.Source, 0, len(headers))
	for _, fh := range headers {
		sources = append(sources, attachment.FromFileHeader(fh))
	}
	batch := h.encoder.EncodeBatch(r.Context(), sources)

	writeJSON(w, http.StatusOK, UploadResponse{
		Attachments: h.chatService.AddAttachments(batch.Attachments),
		Warnings:    batch.Warnings,
	})
}

func (h *APIHandler) RemoveAttachmentHandler(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		http.Error(w, "Invalid attachment index", http.StatusBadRequest)
		return
	}

	queue, err := h.chatService.RemoveAttachment(index)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, UploadResponse{Attachments: queue})
}

type PostMessageRequest struct {
	Text string `json:"text"`
}

func (h *APIHandler) PostMessageHandler(w http.ResponseWriter, r *http.Request) {
	var req PostMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	reply, err := h.chatService.SendTurn(r.Context(), req.Text, nil)
	switch {
	case errors.Is(err, core.ErrEmptyTurn):
		http.Error(w, "Message text or an attachment is required", http.StatusBadRequest)
		return
	case errors.Is(err, core.ErrTurnInProgress):
		http.Error(w, err.Error(), http.StatusConflict)
		return
	case errors.Is(err, core.ErrSessionNotFound):
		http.Error(w, "Session was deleted before the reply arrived", http.StatusGone)
		return
	case err != nil:
		logger.Error("Error sending turn", "error", err)
		http.Error(w, "Failed to send message", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, reply)
}

func (h *APIHandler) ListDemosHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, core.DemoScenarios())
}

func (h *APIHandler) LoadDemoHandler(w http.ResponseWriter, r *http.Request) {
	scenarioID := chi.URLParam(r, "scenarioID")
	sess, err := h.chatService.LoadDemo(r.Context(), scenarioID)
	if err != nil {
		if errors.Is(err, core.ErrUnknownScenario) {
			http.Error(w, "Demo scenario not found", http.StatusNotFound)
			return
		}
		logger.Error("Error loading demo", "scenario", scenarioID, "error", err)
		http.Error(w, "Failed to load demo", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, sess)
}

func (h *APIHandler) MarketPresetsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, core.MarketPresets)
}

type IntakeResponse struct {
	Draft string `json:"draft"`
}

func (h *APIHandler) IntakeHandler(w http.ResponseWriter, r *http.Request) {
	var form core.IntakeForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	prompt, err := core.BuildIntakePrompt(form)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.chatService.SetDraft(prompt)
	writeJSON(w, http.StatusOK, IntakeResponse{Draft: prompt})
}
