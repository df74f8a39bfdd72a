package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"voiceapp/internal/api"
	"voiceapp/internal/conversation"
	"voiceapp/internal/logging"
	"voiceapp/internal/services"
)

const (
	maxJSONBody       = 1 << 20
	uploadMemoryLimit = 32 << 20
	uploadField       = "file"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := api.HealthResponse{Status: "ok", Database: "unchecked"}
	status := http.StatusOK
	if s.db != nil {
		if err := s.db.Ping(r.Context()); err != nil {
			resp.Status = "degraded"
			resp.Database = err.Error()
			status = http.StatusServiceUnavailable
		} else {
			resp.Database = "ok"
		}
	}
	s.writeJSON(w, status, resp)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	convs, err := s.svc.List(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, api.FromConversations(convs))
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid conversation id")
		return
	}
	conv, err := s.svc.Get(r.Context(), id)
	if err != nil {
		if convErr, ok := conversation.AsError(err); ok && errors.Is(convErr, services.ErrNotFound) {
			s.writeJSON(w, http.StatusNotFound, api.FromError(convErr))
			return
		}
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, api.FromConversation(conv))
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(uploadMemoryLimit); err != nil {
		s.writeError(w, http.StatusBadRequest, "expected multipart form with a file field")
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()
	file, header, err := r.FormFile(uploadField)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "No audio file uploaded")
		return
	}
	defer file.Close()

	conv, err := s.svc.Upload(r.Context(), header.Filename, file)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, api.UploadResponse{ID: conv.ID, AudioURL: conv.AudioPath})
}

func (s *Server) handleTranscribe(w http.ResponseWriter, r *http.Request) {
	var req api.ConversationRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	res, err := s.svc.Transcribe(r.Context(), int64(req.ConversationID))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, api.FromTranscribeResult(res))
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req api.ConversationRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	res, err := s.svc.Analyze(r.Context(), int64(req.ConversationID))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, api.FromAnalyzeResult(res))
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req api.ChatRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	message, ok := req.MessageText()
	if !ok {
		s.writeJSON(w, http.StatusOK, api.ErrorResponse{Error: conversation.MsgMessageRequired})
		return
	}
	reply, err := s.svc.Chat(r.Context(), message, int64(req.ConversationID))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, api.ChatResponse{Response: reply})
}

// decodeJSON reads a JSON body into dst. An empty body decodes as {}.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxJSONBody+1))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "could not read request body")
		return false
	}
	if len(body) > maxJSONBody {
		s.writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
		return false
	}
	if strings.TrimSpace(string(body)) == "" {
		return true
	}
	if err := json.Unmarshal(body, dst); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return false
	}
	return true
}

const internalErrorMessage = "internal server error"

// writeServiceError answers soft failures with 200 and everything else with 500.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if convErr, ok := conversation.AsError(err); ok {
		s.writeJSON(w, http.StatusOK, api.FromError(convErr))
		return
	}
	logging.ErrorWithContext(logging.WithContext(r.Context(), s.logger), "request failed", "request_failed",
		logging.String("path", r.URL.Path),
		logging.Error(err),
		logging.String(logging.FieldImpact, "request answered with 500"),
	)
	s.writeError(w, http.StatusInternalServerError, internalErrorMessage)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(payload); err != nil {
		s.logger.Warn("encode response failed", logging.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, api.ErrorResponse{Error: message})
}
