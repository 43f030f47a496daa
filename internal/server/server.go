// Package server exposes the conversation pipeline over HTTP.
//
// Sessions are addressed by the X-Session-ID header. A request without one
// starts a fresh session; the assigned identifier is echoed back in the
// response header and body so clients can continue the conversation.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vaanilabs/dhanvani/internal/advisor"
	"github.com/vaanilabs/dhanvani/internal/health"
	"github.com/vaanilabs/dhanvani/internal/observe"
	"github.com/vaanilabs/dhanvani/internal/pipeline"
	"github.com/vaanilabs/dhanvani/internal/session"
	"github.com/vaanilabs/dhanvani/pkg/provider/stt"
)

// sessionHeader carries the conversation identifier on requests and
// responses.
const sessionHeader = "X-Session-ID"

// maxAudioUpload bounds voice utterance uploads.
const maxAudioUpload = 10 << 20

// Processor runs one conversation turn. Implemented by
// [pipeline.Orchestrator]; narrowed to an interface so handlers can be
// tested with a stub.
type Processor interface {
	Process(ctx context.Context, sess *session.Session, utt pipeline.Utterance) (pipeline.Result, error)
}

// Server is the HTTP API for the voice advisory service.
type Server struct {
	proc      Processor
	sessions  *session.Manager
	languages map[string]string
	health    *health.Handler
	metrics   *observe.Metrics
}

// New creates a Server. languages is the supported language set served by
// GET /v1/languages and used to validate language selection.
func New(proc Processor, sessions *session.Manager, healthHandler *health.Handler, metrics *observe.Metrics, languages map[string]string) *Server {
	return &Server{
		proc:      proc,
		sessions:  sessions,
		languages: languages,
		health:    healthHandler,
		metrics:   metrics,
	}
}

// Handler returns the full route table wrapped in the observability
// middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /v1/utterances", s.handleTextUtterance)
	mux.HandleFunc("POST /v1/utterances/audio", s.handleAudioUtterance)
	mux.HandleFunc("GET /v1/session/history", s.handleHistory)
	mux.HandleFunc("DELETE /v1/session", s.handleClearSession)
	mux.HandleFunc("PUT /v1/session/language", s.handleSetLanguage)
	mux.HandleFunc("PUT /v1/session/mode", s.handleSetMode)
	mux.HandleFunc("GET /v1/languages", s.handleLanguages)

	s.health.Register(mux)
	mux.Handle("GET /metrics", promhttp.Handler())

	m := s.metrics
	if m == nil {
		m = observe.DefaultMetrics()
	}
	return observe.Middleware(m)(mux)
}

// turnResponse is the JSON body for a processed utterance. AudioWAV is
// base64-encoded by the JSON marshaller.
type turnResponse struct {
	SessionID           string         `json:"session_id"`
	Language            string         `json:"language,omitempty"`
	Transcript          string         `json:"transcript,omitempty"`
	ReplyText           string         `json:"reply_text,omitempty"`
	EnglishReply        string         `json:"english_reply,omitempty"`
	AudioWAV            []byte         `json:"audio_wav,omitempty"`
	TierUse             map[string]int `json:"tier_use,omitempty"`
	TranslationDegraded bool           `json:"translation_degraded,omitempty"`
	SynthesisDegraded   bool           `json:"synthesis_degraded,omitempty"`
	Duplicate           bool           `json:"duplicate,omitempty"`
}

func (s *Server) handleTextUtterance(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	sess := s.sessions.Ensure(r.Context(), r.Header.Get(sessionHeader))
	sess.SetInputMode(session.ModeText)
	s.runTurn(w, r, sess, pipeline.Utterance{Text: req.Text})
}

func (s *Server) handleAudioUtterance(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxAudioUpload)
	if err := r.ParseMultipartForm(maxAudioUpload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart body")
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	audio, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "could not read uploaded audio")
		return
	}
	if len(audio) == 0 {
		writeError(w, http.StatusBadRequest, "uploaded audio is empty")
		return
	}

	sess := s.sessions.Ensure(r.Context(), r.Header.Get(sessionHeader))
	sess.SetInputMode(session.ModeVoice)
	s.runTurn(w, r, sess, pipeline.Utterance{Audio: audio})
}

// runTurn executes the pipeline and writes the shared turn response.
func (s *Server) runTurn(w http.ResponseWriter, r *http.Request, sess *session.Session, utt pipeline.Utterance) {
	w.Header().Set(sessionHeader, sess.ID())

	res, err := s.proc.Process(r.Context(), sess, utt)
	if err != nil {
		switch {
		case errors.Is(err, stt.ErrUnavailable):
			writeError(w, http.StatusBadGateway, "speech recognition unavailable: "+err.Error())
		case errors.Is(err, advisor.ErrReplyGeneration):
			writeError(w, http.StatusUnprocessableEntity, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "turn processing failed")
		}
		return
	}

	writeJSON(w, http.StatusOK, turnResponse{
		SessionID:           sess.ID(),
		Language:            res.Language,
		Transcript:          res.Transcript,
		ReplyText:           res.ReplyText,
		EnglishReply:        res.EnglishReply,
		AudioWAV:            res.Audio,
		TierUse:             res.TierUse,
		TranslationDegraded: res.TranslationDegraded,
		SynthesisDegraded:   res.SynthesisDegraded,
		Duplicate:           res.Duplicate,
	})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookupSession(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, struct {
		SessionID string         `json:"session_id"`
		Language  string         `json:"language"`
		Turns     []session.Turn `json:"turns"`
	}{
		SessionID: sess.ID(),
		Language:  sess.Language(),
		Turns:     sess.History(),
	})
}

func (s *Server) handleClearSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookupSession(w, r)
	if !ok {
		return
	}
	s.sessions.Delete(r.Context(), sess.ID())
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSetLanguage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Language string `json:"language"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if _, ok := s.languages[req.Language]; !ok {
		writeError(w, http.StatusBadRequest, "unsupported language "+req.Language)
		return
	}

	sess := s.sessions.Ensure(r.Context(), r.Header.Get(sessionHeader))
	sess.SetLanguage(req.Language)

	w.Header().Set(sessionHeader, sess.ID())
	writeJSON(w, http.StatusOK, struct {
		SessionID string `json:"session_id"`
		Language  string `json:"language"`
	}{sess.ID(), req.Language})
}

func (s *Server) handleSetMode(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Mode            string `json:"mode"`
		ContinuousVoice bool   `json:"continuous_voice"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Mode != session.ModeText && req.Mode != session.ModeVoice {
		writeError(w, http.StatusBadRequest, "mode must be text or voice")
		return
	}
	if req.ContinuousVoice && req.Mode != session.ModeVoice {
		writeError(w, http.StatusBadRequest, "continuous_voice requires voice mode")
		return
	}

	sess := s.sessions.Ensure(r.Context(), r.Header.Get(sessionHeader))
	sess.SetInputMode(req.Mode)
	sess.SetContinuousVoice(req.ContinuousVoice)

	w.Header().Set(sessionHeader, sess.ID())
	writeJSON(w, http.StatusOK, struct {
		SessionID       string `json:"session_id"`
		Mode            string `json:"mode"`
		ContinuousVoice bool   `json:"continuous_voice"`
	}{sess.ID(), req.Mode, req.ContinuousVoice})
}

func (s *Server) handleLanguages(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Languages map[string]string `json:"languages"`
	}{s.languages})
}

// lookupSession resolves the request's session or writes a 404.
func (s *Server) lookupSession(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	id := r.Header.Get(sessionHeader)
	if id == "" {
		writeError(w, http.StatusBadRequest, sessionHeader+" header is required")
		return nil, false
	}
	sess, ok := s.sessions.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown session")
		return nil, false
	}
	return sess, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error":"encoding failure"}`, http.StatusInternalServerError)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, struct {
		Error string `json:"error"`
	}{msg})
}
