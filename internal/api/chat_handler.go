package api

import (
	"errors"
	"net/http"

	"github.com/quizforge/backend/internal/id"
	"github.com/quizforge/backend/internal/service"
	"github.com/quizforge/backend/internal/session"
)

// sessionHeader carries the chat session ID. The server mints one when the
// client has none yet; the client must echo it on subsequent calls.
const sessionHeader = "X-Session-Id"

// ── Request / Response types ────────────────────────────────────────────────

type ChatContextRequest struct {
	FolderID      string   `json:"folder_id,omitempty"`
	LinkIDs       []string `json:"link_ids,omitempty"`
	TestIDs       []string `json:"test_ids,omitempty"`
	SubmissionIDs []string `json:"submission_ids,omitempty"`
}

type ChatContextResponse struct {
	SessionID   string              `json:"session_id"`
	ContextType string              `json:"context_type"`
	Data        session.ContextData `json:"context_data"`
}

type ChatMessageRequest struct {
	Message string `json:"message"`
}

func (r *ChatMessageRequest) Validate() error {
	if r.Message == "" {
		return errors.New("message is required")
	}
	return nil
}

type ChatMessageResponse struct {
	SessionID   string `json:"session_id"`
	Response    string `json:"response"`
	ContextType string `json:"context_type"`
}

type ChatHistoryResponse struct {
	SessionID string             `json:"session_id"`
	History   []session.Exchange `json:"history"`
}

type SessionInfoResponse struct {
	ActiveSessions int `json:"active_sessions"`
}

type ClearSessionsResponse struct {
	Cleared int `json:"cleared"`
}

// ── Handlers ────────────────────────────────────────────────────────────────

func sessionID(r *http.Request) string {
	if sid := r.Header.Get(sessionHeader); sid != "" {
		return sid
	}
	return id.GenerateID()
}

// initChat creates a chat session around the selected folder and content.
// @Summary      Initialize a chat session
// @Description  Stores the selections' snapshots in an in-memory session. Send the returned session_id in X-Session-Id afterwards.
// @Tags         Chat
// @Accept       json
// @Produce      json
// @Param        X-Session-Id  header    string              false  "Existing session ID"
// @Param        body          body      ChatContextRequest  true   "Selected content"
// @Success      200           {object}  ChatContextResponse
// @Failure      400           {object}  map[string]string
// @Router       /api/chat/initialize [post]
func (h *Handler) initChat(w http.ResponseWriter, r *http.Request) {
	sid := sessionID(r)

	var req ChatContextRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	sess, err := h.chat.InitContext(sid, req.FolderID, req.LinkIDs, req.TestIDs, req.SubmissionIDs)
	if err != nil {
		h.logger.Error("chat init failed", "session_id", sid, "error", err)
		respondError(w, http.StatusInternalServerError, "failed to initialize chat")
		return
	}

	w.Header().Set(sessionHeader, sid)
	respondJSON(w, http.StatusOK, ChatContextResponse{
		SessionID:   sid,
		ContextType: service.ContextType(sess),
		Data:        sess.Data,
	})
}

// updateChatContext swaps the session's selections, keeping its history.
// @Summary      Update a chat session's context
// @Tags         Chat
// @Accept       json
// @Produce      json
// @Param        X-Session-Id  header    string              true  "Session ID"
// @Param        body          body      ChatContextRequest  true  "New selections"
// @Success      200           {object}  ChatContextResponse
// @Failure      400           {object}  map[string]string
// @Router       /api/chat/update-context [post]
func (h *Handler) updateChatContext(w http.ResponseWriter, r *http.Request) {
	sid := sessionID(r)

	var req ChatContextRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	sess, err := h.chat.UpdateContext(sid, req.FolderID, req.LinkIDs, req.TestIDs, req.SubmissionIDs)
	if err != nil {
		h.logger.Error("chat context update failed", "session_id", sid, "error", err)
		respondError(w, http.StatusInternalServerError, "failed to update chat context")
		return
	}

	w.Header().Set(sessionHeader, sid)
	respondJSON(w, http.StatusOK, ChatContextResponse{
		SessionID:   sid,
		ContextType: service.ContextType(sess),
		Data:        sess.Data,
	})
}

// chatMessage answers a user message within the session's context.
// @Summary      Send a chat message
// @Description  The reply is rendered HTML. Without a session the assistant answers in general mode.
// @Tags         Chat
// @Accept       json
// @Produce      json
// @Param        X-Session-Id  header    string              false  "Session ID"
// @Param        body          body      ChatMessageRequest  true   "User message"
// @Success      200           {object}  ChatMessageResponse
// @Failure      400           {object}  map[string]string
// @Failure      502           {object}  map[string]string
// @Router       /api/chat/message [post]
func (h *Handler) chatMessage(w http.ResponseWriter, r *http.Request) {
	sid := sessionID(r)

	var req ChatMessageRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	reply, contextType, err := h.chat.Message(r.Context(), sid, req.Message)
	if err != nil {
		respondError(w, http.StatusBadGateway, "failed to generate a response, try again")
		return
	}

	w.Header().Set(sessionHeader, sid)
	respondJSON(w, http.StatusOK, ChatMessageResponse{
		SessionID:   sid,
		Response:    reply,
		ContextType: contextType,
	})
}

// chatHistory returns the session's recent exchanges.
// @Summary      Get chat history
// @Tags         Chat
// @Produce      json
// @Param        X-Session-Id  header    string  true  "Session ID"
// @Success      200           {object}  ChatHistoryResponse
// @Failure      404           {object}  map[string]string
// @Router       /api/chat/history [get]
func (h *Handler) chatHistory(w http.ResponseWriter, r *http.Request) {
	sid := r.Header.Get(sessionHeader)

	sess, ok := h.chat.Sessions().Get(sid)
	if !ok {
		respondError(w, http.StatusNotFound, "session not found")
		return
	}

	history := sess.History
	if history == nil {
		history = []session.Exchange{}
	}
	respondJSON(w, http.StatusOK, ChatHistoryResponse{SessionID: sid, History: history})
}

// chatContext returns the session's current context snapshot.
// @Summary      Get chat context
// @Tags         Chat
// @Produce      json
// @Param        X-Session-Id  header    string  true  "Session ID"
// @Success      200           {object}  ChatContextResponse
// @Failure      404           {object}  map[string]string
// @Router       /api/chat/context [get]
func (h *Handler) chatContext(w http.ResponseWriter, r *http.Request) {
	sid := r.Header.Get(sessionHeader)

	sess, ok := h.chat.Sessions().Get(sid)
	if !ok {
		respondError(w, http.StatusNotFound, "session not found")
		return
	}

	respondJSON(w, http.StatusOK, ChatContextResponse{
		SessionID:   sid,
		ContextType: service.ContextType(sess),
		Data:        sess.Data,
	})
}

// clearChat drops one session.
// @Summary      Clear a chat session
// @Tags         Chat
// @Param        X-Session-Id  header  string  true  "Session ID"
// @Success      204
// @Router       /api/chat/clear [post]
func (h *Handler) clearChat(w http.ResponseWriter, r *http.Request) {
	h.chat.Sessions().Delete(r.Header.Get(sessionHeader))
	w.WriteHeader(http.StatusNoContent)
}

// sessionInfo reports how many chat sessions are live. Intended for
// development.
// @Summary      Count active chat sessions
// @Tags         Chat
// @Produce      json
// @Success      200  {object}  SessionInfoResponse
// @Router       /api/chat/sessions/info [get]
func (h *Handler) sessionInfo(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, SessionInfoResponse{ActiveSessions: h.chat.Sessions().Len()})
}

// clearAllSessions drops every chat session. Intended for development.
// @Summary      Clear all chat sessions
// @Tags         Chat
// @Produce      json
// @Success      200  {object}  ClearSessionsResponse
// @Router       /api/chat/sessions/clear-all [post]
func (h *Handler) clearAllSessions(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, ClearSessionsResponse{Cleared: h.chat.Sessions().Clear()})
}
