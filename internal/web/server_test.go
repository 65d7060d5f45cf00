package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

type stubDispatcher struct {
	ready  bool
	answer string
	calls  int
}

func (s *stubDispatcher) Ready() bool { return s.ready }
func (s *stubDispatcher) Dispatch(ctx context.Context, question string) string {
	s.calls++
	return s.answer
}

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer(d *stubDispatcher, summary, loadErr string) *gin.Engine {
	return New(d, summary, loadErr, nil).Router()
}

func TestIndexPage(t *testing.T) {
	r := newTestServer(&stubDispatcher{ready: true}, "Reports from four carriers.", "")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "Telecom 10-K Analyzer") {
		t.Error("page title missing")
	}
	if !strings.Contains(body, "Reports from four carriers.") {
		t.Error("summary missing")
	}
	if strings.Contains(body, "could not be loaded") {
		t.Error("warning shown despite loaded index")
	}
}

func TestIndexPage_WarnsWhenIndexMissing(t *testing.T) {
	r := newTestServer(&stubDispatcher{ready: false}, "", "Error loading index: directory missing")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if !strings.Contains(w.Body.String(), "Error loading index: directory missing") {
		t.Error("load error banner missing")
	}
}

func postForm(r http.Handler, question string) *httptest.ResponseRecorder {
	form := url.Values{"question": {question}}
	req := httptest.NewRequest(http.MethodPost, "/ask", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAsk_RendersAnswer(t *testing.T) {
	d := &stubDispatcher{ready: true, answer: "Spectrum scarcity is the main risk."}
	r := newTestServer(d, "", "")
	w := postForm(r, "What are the risks?")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Spectrum scarcity is the main risk.") {
		t.Error("answer missing from page")
	}
	if d.calls != 1 {
		t.Errorf("dispatcher calls = %d", d.calls)
	}
}

func TestAsk_EmptyQuestionNeverDispatches(t *testing.T) {
	d := &stubDispatcher{ready: true, answer: "should not appear"}
	r := newTestServer(d, "", "")
	w := postForm(r, "   ")

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Please enter a query.") {
		t.Error("validation message missing")
	}
	if d.calls != 0 {
		t.Errorf("dispatcher called %d times for empty query", d.calls)
	}
}

func TestAskJSON(t *testing.T) {
	d := &stubDispatcher{ready: true, answer: "42 MHz"}
	r := newTestServer(d, "", "")

	req := httptest.NewRequest(http.MethodPost, "/api/ask", strings.NewReader(`{"question":"how much spectrum?"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp["answer"] != "42 MHz" {
		t.Errorf("answer = %q", resp["answer"])
	}
}

func TestAskJSON_EmptyQuestion(t *testing.T) {
	d := &stubDispatcher{ready: true}
	r := newTestServer(d, "", "")

	req := httptest.NewRequest(http.MethodPost, "/api/ask", strings.NewReader(`{"question":""}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
	if d.calls != 0 {
		t.Error("dispatcher called for empty JSON question")
	}
}

func TestHealthz(t *testing.T) {
	r := newTestServer(&stubDispatcher{ready: true}, "", "")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	r = newTestServer(&stubDispatcher{ready: false}, "", "")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("degraded status = %d", w.Code)
	}
}
