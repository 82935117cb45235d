package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/jonathan/resume-builder/internal/latexpreview"
	"github.com/jonathan/resume-builder/internal/markdown"
	"github.com/jonathan/resume-builder/internal/state"
	"github.com/jonathan/resume-builder/internal/storage"
	"github.com/jonathan/resume-builder/internal/templates"
	"github.com/jonathan/resume-builder/internal/types"
)

// failingStore fails every write.
type failingStore struct {
	storage.Store
}

var errBackend = errors.New("disk on fire")

func (failingStore) Put(context.Context, string, string) error { return errBackend }
func (failingStore) Delete(context.Context, string) error      { return errBackend }

type fakePrinter struct{}

func (fakePrinter) PDF(context.Context, string, markdown.PaperSize) ([]byte, error) {
	return []byte("%PDF-1.4 fake"), nil
}

type testServer struct {
	*Server
	store storage.Store
	logs  *observer.ObservedLogs
}

func newTestServer(t *testing.T, opts ...func(*Config)) *testServer {
	t.Helper()
	return newTestServerWithStore(t, storage.NewMemory(), opts...)
}

func newTestServerWithStore(t *testing.T, store storage.Store, opts ...func(*Config)) *testServer {
	t.Helper()
	core, logs := observer.New(zap.DebugLevel)
	cfg := Config{RateLimit: 0}
	for _, opt := range opts {
		opt(&cfg)
	}
	logger := zap.New(core)
	s := New(state.NewSession(store, state.WithLogger(logger)), cfg, logger)
	t.Cleanup(s.rateLimiter.Stop)
	return &testServer{Server: s, store: store, logs: logs}
}

func (ts *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	w := httptest.NewRecorder()
	ts.Handler().ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func sampleResume() *types.Resume {
	return &types.Resume{
		PersonalInfo: types.PersonalInfo{
			FirstName: "Ada",
			LastName:  "Lovelace",
			Email:     "ada@example.com",
			Phone:     "555-010-0199",
		},
		Experience: []types.Experience{{Company: "Acme", Position: "Engineer", StartDate: "2020-01", Current: true}},
		Skills:     []types.Skill{{Name: "Go", Level: types.SkillExpert}},
	}
}

func TestHealthEndpoint(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]string{"status": "ok"}, decode[map[string]string](t, w))
}

func TestGetResume_Initial(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodGet, "/resume", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"resume": null, "selectedTemplate": "modern"}`, w.Body.String())
}

func TestPutResume(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodPut, "/resume", sampleResume())
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decode[ResumeResponse](t, w)
	require.NotNil(t, resp.Resume)
	assert.Equal(t, "Ada", resp.Resume.PersonalInfo.FirstName)
	assert.NotEmpty(t, resp.Resume.ID)

	w = ts.do(t, http.MethodPut, "/resume", "null")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, decode[ResumeResponse](t, w).Resume)
}

func TestPutResume_InvalidKeepsState(t *testing.T) {
	ts := newTestServer(t)
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodPut, "/resume", sampleResume()).Code)

	bad := sampleResume()
	bad.PersonalInfo.Email = "nope"
	w := ts.do(t, http.MethodPut, "/resume", bad)

	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decode[ErrorResponse](t, w)
	require.Len(t, body.Fields, 1)
	assert.Equal(t, "personalInfo.email", body.Fields[0].Field)
	assert.Equal(t, "ada@example.com", ts.session.State().Resume.PersonalInfo.Email)
}

func TestPutSection(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodPut, "/resume/skills", `[{"name":"Go","level":"Expert"},{"name":"SQL"}]`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode[ResumeResponse](t, w)
	require.NotNil(t, resp.Resume)
	assert.Equal(t, []types.Skill{{Name: "Go", Level: types.SkillExpert}, {Name: "SQL", Level: types.SkillBeginner}}, resp.Resume.Skills)

	w = ts.do(t, http.MethodPut, "/resume/experience", `[{"company":"","position":"Engineer"}]`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "experience[0].company", decode[ErrorResponse](t, w).Fields[0].Field)

	w = ts.do(t, http.MethodPut, "/resume/hobbies", `[]`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode[ErrorResponse](t, w).Error, "unknown form")

	w = ts.do(t, http.MethodPut, "/resume/personal", `{not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSaveResume(t *testing.T) {
	ts := newTestServer(t)
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodPut, "/resume", sampleResume()).Code)

	w := ts.do(t, http.MethodPost, "/resume/save", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, state.MsgSaved, decode[MessageResponse](t, w).Message)

	saved, err := ts.store.Get(context.Background(), storage.ResumeKey)
	require.NoError(t, err)
	assert.Contains(t, saved, `"firstName":"Ada"`)
	assert.Contains(t, saved, `"templateId":"modern"`)
}

func TestSaveResume_NoResume(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodPost, "/resume/save", nil)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, state.MsgNoResume, decode[ErrorResponse](t, w).Error)
}

func TestSaveResume_StorageFailureKeepsState(t *testing.T) {
	ts := newTestServerWithStore(t, failingStore{Store: storage.NewMemory()})
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodPut, "/resume", sampleResume()).Code)

	w := ts.do(t, http.MethodPost, "/resume/save", nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, state.MsgSaveFailed, decode[ErrorResponse](t, w).Error)
	assert.NotNil(t, ts.session.State().Resume)
	assert.Equal(t, 1, ts.logs.FilterMessage("failed to save resume").Len())
}

func TestClearResume(t *testing.T) {
	ts := newTestServer(t)
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodPut, "/resume", sampleResume()).Code)
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodPost, "/resume/save", nil).Code)

	w := ts.do(t, http.MethodDelete, "/resume", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"resume": null, "selectedTemplate": "modern"}`, w.Body.String())

	_, err := ts.store.Get(context.Background(), storage.ResumeKey)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestClearResume_Failure(t *testing.T) {
	ts := newTestServerWithStore(t, failingStore{Store: storage.NewMemory()})
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodPut, "/resume", sampleResume()).Code)

	w := ts.do(t, http.MethodDelete, "/resume", nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, state.MsgClearFailed, decode[ErrorResponse](t, w).Error)
	assert.NotNil(t, ts.session.State().Resume)
}

func TestTemplates(t *testing.T) {
	ts := newTestServer(t)

	list := decode[[]TemplateInfo](t, ts.do(t, http.MethodGet, "/templates", nil))
	require.Len(t, list, len(templates.All()))
	for _, info := range list {
		assert.Equal(t, info.ID == "modern", info.Selected, info.ID)
	}

	w := ts.do(t, http.MethodPut, "/templates/selected", SelectTemplateRequest{ID: "timeline"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, templates.Timeline, decode[ResumeResponse](t, w).SelectedTemplate)

	w = ts.do(t, http.MethodPut, "/templates/selected", SelectTemplateRequest{ID: "fancy"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, templates.KindNone, ts.session.State().SelectedTemplate)

	w = ts.do(t, http.MethodPut, "/templates/selected", "{")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPreview(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodGet, "/preview", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), templates.NoResumeMessage)

	require.Equal(t, http.StatusOK, ts.do(t, http.MethodPut, "/resume", sampleResume()).Code)

	w = ts.do(t, http.MethodGet, "/preview", nil)
	assert.Contains(t, w.Body.String(), `data-template="modern"`)
	assert.Contains(t, w.Body.String(), "<title>Ada Lovelace</title>")

	w = ts.do(t, http.MethodGet, "/preview?template=ivy-league", nil)
	assert.Contains(t, w.Body.String(), `data-template="ivy-league"`)

	w = ts.do(t, http.MethodGet, "/preview?template=fancy", nil)
	assert.Contains(t, w.Body.String(), templates.SelectTemplateMessage)
}

func TestCustomize(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodPost, "/customize", CustomizeRequest{
		LaTeX: `\resumeSection{Experience} \textbf{Go} \textcolor{red}`,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decode[CustomizeResponse](t, w)
	assert.Contains(t, resp.HTML, ">Experience</h2>")
	assert.Contains(t, resp.HTML, "<strong>Go</strong>")
	require.Len(t, resp.Diagnostics, 1)
	assert.Equal(t, `\textcolor`, resp.Diagnostics[0].Command)
	assert.Equal(t, []string{"Experience"}, headingTexts(resp.Outline))
}

func TestCustomize_EmptyInput(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodPost, "/customize", CustomizeRequest{})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, string(mustField(t, w.Body.Bytes(), "diagnostics")))
}

func TestMarkdown(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodPost, "/markdown", MarkdownRequest{
		Markdown: "# Ada\n\nHello",
		Style:    markdown.Style{ThemeColor: "#ff0000"},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "<title>Ada</title>")
	assert.Contains(t, w.Body.String(), "color: #ff0000")

	w = ts.do(t, http.MethodPost, "/markdown", MarkdownRequest{Style: markdown.Style{FontSize: 200}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode[ErrorResponse](t, w).Error, "fontSize")
}

func TestExport(t *testing.T) {
	ts := newTestServer(t, func(c *Config) { c.Printer = fakePrinter{} })

	w := ts.do(t, http.MethodGet, "/export/md", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	require.Equal(t, http.StatusOK, ts.do(t, http.MethodPut, "/resume", sampleResume()).Code)

	tests := []struct {
		format      string
		contentType string
		filename    string
		contains    string
	}{
		{"md", "text/markdown; charset=utf-8", "resume.md", "# Ada Lovelace"},
		{"latex", "application/x-tex; charset=utf-8", "resume.tex", `\documentclass`},
		{"txt", "text/plain; charset=utf-8", "resume.txt", "Ada Lovelace"},
		{"html", "text/html; charset=utf-8", "resume.html", `data-template="modern"`},
		{"pdf", "application/pdf", "resume.pdf", "%PDF-1.4"},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			w := ts.do(t, http.MethodGet, "/export/"+tt.format, nil)
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
			assert.Equal(t, tt.contentType, w.Header().Get("Content-Type"))
			assert.Equal(t, `attachment; filename="`+tt.filename+`"`, w.Header().Get("Content-Disposition"))
			assert.Contains(t, w.Body.String(), tt.contains)
		})
	}

	w = ts.do(t, http.MethodGet, "/export/docx", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestExport_PDFUnavailable(t *testing.T) {
	ts := newTestServer(t)
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodPut, "/resume", sampleResume()).Code)

	w := ts.do(t, http.MethodGet, "/export/pdf", nil)
	assert.Equal(t, http.StatusNotImplemented, w.Code)
}

func TestCORSMiddleware(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "PUT")

	w = ts.do(t, http.MethodOptions, "/resume", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Zero(t, w.Body.Len())
}

func TestCORSMiddleware_AllowedOrigins(t *testing.T) {
	ts := newTestServer(t, func(c *Config) { c.AllowedOrigins = []string{"http://localhost:3000"} })

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	ts.Handler().ServeHTTP(w, req)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://evil.example")
	w = httptest.NewRecorder()
	ts.Handler().ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestLoggingMiddleware(t *testing.T) {
	ts := newTestServer(t)

	ts.do(t, http.MethodGet, "/export/docx", nil)

	entries := ts.logs.FilterMessage("request").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "/export/docx", fields["path"])
	assert.Equal(t, int64(http.StatusNotFound), fields["status"])
}

func TestRateLimit(t *testing.T) {
	ts := newTestServer(t, func(c *Config) {
		c.RateLimit = 1
		c.RateBurst = 2
	})

	for i := 0; i < 2; i++ {
		w := ts.do(t, http.MethodGet, "/templates", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "1", w.Header().Get("X-RateLimit-Limit"))
	}

	w := ts.do(t, http.MethodGet, "/templates", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Equal(t, "rate_limit_exceeded", decode[map[string]any](t, w)["error"])

	w = ts.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestServe_ShutsDownOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	s := New(state.NewSession(storage.NewMemory()), Config{RateLimit: 5, RateBurst: 5}, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	client := &http.Client{Timeout: 5 * time.Second, Transport: &http.Transport{DisableKeepAlives: true}}
	resp, err := client.Get("http://" + ln.Addr().String() + "/health")
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestMergeStyle(t *testing.T) {
	base := markdown.DefaultStyle()
	got := mergeStyle(base, markdown.Style{FontFamily: "Georgia"})
	assert.Equal(t, "Georgia", got.FontFamily)
	assert.Equal(t, base.ThemeColor, got.ThemeColor)
	assert.Equal(t, base.CustomCSS, got.CustomCSS)
}

func headingTexts(hs []latexpreview.Heading) []string {
	out := make([]string, 0, len(hs))
	for _, h := range hs {
		out = append(out, h.Text)
	}
	return out
}

func mustField(t *testing.T, data []byte, name string) json.RawMessage {
	t.Helper()
	var m map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &m))
	field, ok := m[name]
	require.True(t, ok, "missing field %s", name)
	return field
}
