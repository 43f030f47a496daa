package server

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/vaanilabs/dhanvani/internal/advisor"
	"github.com/vaanilabs/dhanvani/internal/health"
	"github.com/vaanilabs/dhanvani/internal/pipeline"
	"github.com/vaanilabs/dhanvani/internal/session"
	"github.com/vaanilabs/dhanvani/pkg/provider/stt"
)

// stubProcessor returns a canned result or error and records the inputs it
// was given.
type stubProcessor struct {
	result pipeline.Result
	err    error

	lastUtterance pipeline.Utterance
	lastSession   *session.Session
	calls         int
}

func (p *stubProcessor) Process(_ context.Context, sess *session.Session, utt pipeline.Utterance) (pipeline.Result, error) {
	p.calls++
	p.lastSession = sess
	p.lastUtterance = utt
	if p.err != nil {
		return pipeline.Result{}, p.err
	}
	res := p.result
	res.SessionID = sess.ID()
	return res, nil
}

var testLanguages = map[string]string{
	"en-IN": "English",
	"hi-IN": "Hindi",
}

func newTestServer(proc *stubProcessor) (*Server, *session.Manager) {
	mgr := session.NewManager(nil)
	srv := New(proc, mgr, health.New(), nil, testLanguages)
	return srv, mgr
}

func postJSON(t *testing.T, handler http.Handler, path, sessionID string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req := httptest.NewRequest("POST", path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	if sessionID != "" {
		req.Header.Set(sessionHeader, sessionID)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestTextUtterance(t *testing.T) {
	proc := &stubProcessor{result: pipeline.Result{
		Language:     "en-IN",
		ReplyText:    "Here is some loan advice.",
		EnglishReply: "Here is some loan advice.",
		Audio:        []byte("RIFF-audio"),
		TierUse:      map[string]int{"sarvam": 1},
	}}
	srv, _ := newTestServer(proc)
	handler := srv.Handler()

	rec := postJSON(t, handler, "/v1/utterances", "", map[string]string{
		"text": "tell me about home loans",
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get(sessionHeader); got == "" {
		t.Error("response missing session header")
	}

	var body turnResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.SessionID == "" {
		t.Error("response missing session_id")
	}
	if body.ReplyText != "Here is some loan advice." {
		t.Errorf("reply_text = %q", body.ReplyText)
	}
	if string(body.AudioWAV) != "RIFF-audio" {
		t.Errorf("audio_wav = %q", body.AudioWAV)
	}
	if proc.lastUtterance.Text != "tell me about home loans" {
		t.Errorf("processor got text %q", proc.lastUtterance.Text)
	}
}

func TestTextUtterance_ReusesSession(t *testing.T) {
	proc := &stubProcessor{}
	srv, mgr := newTestServer(proc)
	handler := srv.Handler()

	sess := mgr.Ensure(context.Background(), "")
	rec := postJSON(t, handler, "/v1/utterances", sess.ID(), map[string]string{"text": "hello"})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if proc.lastSession != sess {
		t.Error("handler did not reuse the existing session")
	}
	if mgr.Len() != 1 {
		t.Errorf("session count = %d, want 1", mgr.Len())
	}
}

func TestTextUtterance_BadRequests(t *testing.T) {
	srv, _ := newTestServer(&stubProcessor{})
	handler := srv.Handler()

	rec := postJSON(t, handler, "/v1/utterances", "", map[string]string{})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("empty text: status = %d, want 400", rec.Code)
	}

	req := httptest.NewRequest("POST", "/v1/utterances", strings.NewReader("{not json"))
	rec2 := httptest.NewRecorder()
	handler.ServeHTTP(rec2, req)
	if rec2.Code != http.StatusBadRequest {
		t.Errorf("malformed JSON: status = %d, want 400", rec2.Code)
	}
}

func TestAudioUtterance(t *testing.T) {
	proc := &stubProcessor{result: pipeline.Result{
		Language:   "hi-IN",
		Transcript: "नमस्ते",
		ReplyText:  "उत्तर",
		Audio:      []byte("RIFF-reply"),
	}}
	srv, _ := newTestServer(proc)
	handler := srv.Handler()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "utterance.wav")
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	if _, err := fw.Write([]byte("RIFF-fake-input")); err != nil {
		t.Fatalf("write file part: %v", err)
	}
	mw.Close()

	req := httptest.NewRequest("POST", "/v1/utterances/audio", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if string(proc.lastUtterance.Audio) != "RIFF-fake-input" {
		t.Errorf("processor got audio %q", proc.lastUtterance.Audio)
	}

	var body turnResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Transcript != "नमस्ते" {
		t.Errorf("transcript = %q", body.Transcript)
	}
}

func TestAudioUtterance_MissingFile(t *testing.T) {
	srv, _ := newTestServer(&stubProcessor{})
	handler := srv.Handler()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	mw.WriteField("note", "no file here")
	mw.Close()

	req := httptest.NewRequest("POST", "/v1/utterances/audio", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"stt unavailable", stt.ErrUnavailable, http.StatusBadGateway},
		{"reply generation", advisor.ErrReplyGeneration, http.StatusUnprocessableEntity},
		{"other", context.DeadlineExceeded, http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv, _ := newTestServer(&stubProcessor{err: tc.err})
			handler := srv.Handler()

			rec := postJSON(t, handler, "/v1/utterances", "", map[string]string{"text": "hello"})
			if rec.Code != tc.want {
				t.Errorf("status = %d, want %d", rec.Code, tc.want)
			}
		})
	}
}

func TestHistory(t *testing.T) {
	srv, mgr := newTestServer(&stubProcessor{})
	handler := srv.Handler()

	sess := mgr.Ensure(context.Background(), "")
	sess.Append(session.RoleUser, "hello", "")
	sess.Append(session.RoleAssistant, "hi there", "")

	req := httptest.NewRequest("GET", "/v1/session/history", nil)
	req.Header.Set(sessionHeader, sess.ID())
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		SessionID string         `json:"session_id"`
		Turns     []session.Turn `json:"turns"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(body.Turns) != 2 {
		t.Fatalf("turns = %d, want 2", len(body.Turns))
	}
	if body.Turns[0].Content != "hello" {
		t.Errorf("first turn = %+v", body.Turns[0])
	}
}

func TestHistory_UnknownSession(t *testing.T) {
	srv, _ := newTestServer(&stubProcessor{})
	handler := srv.Handler()

	req := httptest.NewRequest("GET", "/v1/session/history", nil)
	req.Header.Set(sessionHeader, "no-such-session")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestHistory_MissingHeader(t *testing.T) {
	srv, _ := newTestServer(&stubProcessor{})
	handler := srv.Handler()

	req := httptest.NewRequest("GET", "/v1/session/history", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestClearSession(t *testing.T) {
	srv, mgr := newTestServer(&stubProcessor{})
	handler := srv.Handler()

	sess := mgr.Ensure(context.Background(), "")
	req := httptest.NewRequest("DELETE", "/v1/session", nil)
	req.Header.Set(sessionHeader, sess.ID())
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}
	if mgr.Len() != 0 {
		t.Errorf("session count = %d, want 0", mgr.Len())
	}
}

func TestSetLanguage(t *testing.T) {
	srv, mgr := newTestServer(&stubProcessor{})
	handler := srv.Handler()

	req := httptest.NewRequest("PUT", "/v1/session/language", strings.NewReader(`{"language":"hi-IN"}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	id := rec.Header().Get(sessionHeader)
	sess, ok := mgr.Get(id)
	if !ok {
		t.Fatal("session was not created")
	}
	if sess.Language() != "hi-IN" {
		t.Errorf("language = %q, want hi-IN", sess.Language())
	}
}

func TestSetLanguage_Unsupported(t *testing.T) {
	srv, _ := newTestServer(&stubProcessor{})
	handler := srv.Handler()

	req := httptest.NewRequest("PUT", "/v1/session/language", strings.NewReader(`{"language":"fr-FR"}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestSetMode(t *testing.T) {
	srv, mgr := newTestServer(&stubProcessor{})
	handler := srv.Handler()

	req := httptest.NewRequest("PUT", "/v1/session/mode",
		strings.NewReader(`{"mode":"voice","continuous_voice":true}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	sess, _ := mgr.Get(rec.Header().Get(sessionHeader))
	if sess.InputMode() != session.ModeVoice {
		t.Errorf("mode = %q, want voice", sess.InputMode())
	}
	if !sess.ContinuousVoice() {
		t.Error("continuous voice not enabled")
	}
}

func TestSetMode_ContinuousRequiresVoice(t *testing.T) {
	srv, _ := newTestServer(&stubProcessor{})
	handler := srv.Handler()

	req := httptest.NewRequest("PUT", "/v1/session/mode",
		strings.NewReader(`{"mode":"text","continuous_voice":true}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestLanguages(t *testing.T) {
	srv, _ := newTestServer(&stubProcessor{})
	handler := srv.Handler()

	req := httptest.NewRequest("GET", "/v1/languages", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body struct {
		Languages map[string]string `json:"languages"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Languages["hi-IN"] != "Hindi" {
		t.Errorf("languages = %v", body.Languages)
	}
}

func TestHealthRoutes(t *testing.T) {
	srv, _ := newTestServer(&stubProcessor{})
	handler := srv.Handler()

	for _, path := range []string{"/healthz", "/readyz"} {
		req := httptest.NewRequest("GET", path, nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("%s status = %d, want 200", path, rec.Code)
		}
	}
}
