package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fleveque/landmark-finder/internal/model"
	"github.com/fleveque/landmark-finder/internal/storage"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeFinder returns canned results and remembers the prompts it saw.
type fakeFinder struct {
	results []string
	prompts []string
}

func (f *fakeFinder) ClassifyAndFetch(_ context.Context, prompt string) []string {
	f.prompts = append(f.prompts, prompt)
	return f.results
}

func newTestRouter(t *testing.T, finder ImageFinder) *gin.Engine {
	t.Helper()

	tmpl, err := Templates()
	if err != nil {
		t.Fatalf("parsing templates: %v", err)
	}

	router := gin.New()
	router.SetHTMLTemplate(tmpl)

	gallery := NewGalleryHandler(finder, zap.NewNop())
	search := NewSearchHandler(finder)
	router.GET("/", gallery.Index)
	router.POST("/", gallery.Submit)
	router.GET("/search", search.Search)
	router.POST("/search", search.Search)
	return router
}

func TestHealthz(t *testing.T) {
	router := gin.New()
	router.GET("/healthz", NewHealthHandler().Healthz)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/healthz", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"landmark-finder"`) {
		t.Errorf("unexpected body: %s", w.Body.String())
	}
}

func TestRender_SubstitutesEmptyResults(t *testing.T) {
	got := render(context.Background(), &fakeFinder{}, "Paris")
	if len(got) != 1 || got[0] != model.MsgNoImages {
		t.Errorf("expected [%q], got %v", model.MsgNoImages, got)
	}
}

func TestRender_PassesResultsThrough(t *testing.T) {
	finder := &fakeFinder{results: []string{"https://img/1.jpg", "https://img/2.jpg"}}
	got := render(context.Background(), finder, "Paris")
	if len(got) != 2 || got[0] != "https://img/1.jpg" {
		t.Errorf("unexpected results: %v", got)
	}
}

func TestGallery_Index(t *testing.T) {
	router := newTestRouter(t, &fakeFinder{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := w.Body.String()
	for _, want := range []string{`name="prompt"`, "Find Images", "Landmark Image Finder"} {
		if !strings.Contains(body, want) {
			t.Errorf("expected %q in page", want)
		}
	}
}

func TestGallery_Submit(t *testing.T) {
	finder := &fakeFinder{results: []string{
		"https://maps.example.com/photo?maxwidth=400&photo_reference=abc&key=k",
		model.MsgNoCityResults,
	}}
	router := newTestRouter(t, finder)

	form := url.Values{"prompt": {"  Paris  "}}
	req := httptest.NewRequest("POST", "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if len(finder.prompts) != 1 || finder.prompts[0] != "Paris" {
		t.Fatalf("expected trimmed prompt Paris, got %v", finder.prompts)
	}

	body := w.Body.String()
	if !strings.Contains(body, `<img src="https://maps.example.com/photo?maxwidth=400&amp;photo_reference=abc&amp;key=k"`) {
		t.Errorf("expected image tag in gallery, body: %s", body)
	}
	if !strings.Contains(body, `<div class="message">No results found for this city.</div>`) {
		t.Errorf("expected message caption in gallery, body: %s", body)
	}
}

func TestGallery_SubmitEmptyPrompt(t *testing.T) {
	finder := &fakeFinder{results: []string{"unused"}}
	router := newTestRouter(t, finder)

	req := httptest.NewRequest("POST", "/", strings.NewReader("prompt=+++"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if len(finder.prompts) != 0 {
		t.Errorf("expected no lookup for a blank prompt, got %v", finder.prompts)
	}
	if !strings.Contains(w.Body.String(), `<div class="message">No images found.</div>`) {
		t.Errorf("expected a non-empty gallery for a blank prompt, body: %s", w.Body.String())
	}
}

func TestSearch_JSON(t *testing.T) {
	finder := &fakeFinder{results: []string{"https://img/castle.jpg"}}
	router := newTestRouter(t, finder)

	req := httptest.NewRequest("POST", "/search", strings.NewReader(`{"prompt":"a castle on a hill"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp searchResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Prompt != "a castle on a hill" {
		t.Errorf("unexpected prompt %q", resp.Prompt)
	}
	if len(resp.Images) != 1 || resp.Images[0] != "https://img/castle.jpg" {
		t.Errorf("unexpected images %v", resp.Images)
	}
}

func TestSearch_QueryParam(t *testing.T) {
	finder := &fakeFinder{}
	router := newTestRouter(t, finder)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/search?prompt=Tokyo", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), model.MsgNoImages) {
		t.Errorf("expected fallback message, got %s", w.Body.String())
	}
	if len(finder.prompts) != 1 || finder.prompts[0] != "Tokyo" {
		t.Errorf("unexpected prompts %v", finder.prompts)
	}
}

func TestSearch_MissingPrompt(t *testing.T) {
	router := newTestRouter(t, &fakeFinder{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/search", nil))

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestAdminStats(t *testing.T) {
	db, err := storage.NewDatabase(filepath.Join(t.TempDir(), "admin.db"))
	if err != nil {
		t.Fatalf("creating database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	repo := storage.NewClassificationRepository(db)
	a := "A"
	for _, call := range []*model.ClassificationCall{
		{Prompt: "Paris", Provider: "openai", Model: "m", Strategy: &a, Success: true},
		{Prompt: "???", Provider: "openai", Model: "m"},
	} {
		if err := repo.Create(context.Background(), call); err != nil {
			t.Fatalf("creating call: %v", err)
		}
	}

	router := gin.New()
	admin := NewAdminHandler(repo, zap.NewNop())
	router.GET("/stats", admin.Stats)
	router.GET("/calls", admin.Recent)
	router.GET("/calls/:id", admin.Call)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/stats", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var stats struct {
		Total      int64            `json:"total"`
		Strategies map[string]int64 `json:"strategies"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &stats); err != nil {
		t.Fatalf("decoding stats: %v", err)
	}
	if stats.Total != 2 {
		t.Errorf("expected total 2, got %d", stats.Total)
	}
	if stats.Strategies["A"] != 1 || stats.Strategies["unclassified"] != 1 {
		t.Errorf("unexpected strategies %v", stats.Strategies)
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/calls?limit=0", nil))
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for limit=0, got %d", w.Code)
	}
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/calls/1", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for call 1, got %d", w.Code)
	}
	var call model.ClassificationCall
	if err := json.Unmarshal(w.Body.Bytes(), &call); err != nil {
		t.Fatalf("decoding call: %v", err)
	}
	if call.ID != 1 || call.Prompt != "Paris" || call.Strategy == nil || *call.Strategy != "A" {
		t.Errorf("unexpected call %+v", call)
	}

	for path, want := range map[string]int{
		"/calls/99":  http.StatusNotFound,
		"/calls/abc": http.StatusBadRequest,
		"/calls/0":   http.StatusBadRequest,
	} {
		w = httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", path, nil))
		if w.Code != want {
			t.Errorf("GET %s: expected %d, got %d", path, want, w.Code)
		}
	}
}
