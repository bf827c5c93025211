package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fleveque/landmark-finder/internal/config"
	"github.com/fleveque/landmark-finder/internal/intent"
	"github.com/fleveque/landmark-finder/internal/llm"
	"github.com/fleveque/landmark-finder/internal/model"
	"github.com/fleveque/landmark-finder/internal/provider"
)

type stubClassifier struct {
	result model.Classification
	err    error
}

func (s stubClassifier) Classify(context.Context, string) (model.Classification, error) {
	return s.result, s.err
}

// recordingSearcher implements both searcher interfaces and remembers
// what it was asked for.
type recordingSearcher struct {
	results      []string
	cities       []string
	descriptions []string
}

func (r *recordingSearcher) Name() string { return "recording" }

func (r *recordingSearcher) FetchByCity(_ context.Context, city string) []string {
	r.cities = append(r.cities, city)
	return r.results
}

func (r *recordingSearcher) FetchByDescription(_ context.Context, description string) []string {
	r.descriptions = append(r.descriptions, description)
	return r.results
}

func TestClassifyAndFetch_RoutesCityToProviderA(t *testing.T) {
	cities := &recordingSearcher{results: []string{"https://a/1", "https://a/2"}}
	descriptions := &recordingSearcher{}
	svc := NewLandmarkService(stubClassifier{result: model.City{Name: "Tokyo"}}, cities, descriptions, zap.NewNop())

	got := svc.ClassifyAndFetch(t.Context(), "Tokyo")

	assert.Equal(t, []string{"https://a/1", "https://a/2"}, got)
	assert.Equal(t, []string{"Tokyo"}, cities.cities)
	assert.Empty(t, descriptions.descriptions, "city strategy must never reach provider B")
}

func TestClassifyAndFetch_RoutesDescriptionToProviderB(t *testing.T) {
	cities := &recordingSearcher{}
	descriptions := &recordingSearcher{results: []string{"https://b/1"}}
	svc := NewLandmarkService(stubClassifier{result: model.Description{Text: "a castle on a hill"}}, cities, descriptions, zap.NewNop())

	got := svc.ClassifyAndFetch(t.Context(), "a castle on a hill")

	assert.Equal(t, []string{"https://b/1"}, got)
	assert.Equal(t, []string{"a castle on a hill"}, descriptions.descriptions)
	assert.Empty(t, cities.cities)
}

func TestClassifyAndFetch_ClassificationErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"unknown strategy", fmt.Errorf("%w: %q", intent.ErrUnknownStrategy, "C"), model.MsgUnknownStrategy},
		{"malformed reply", fmt.Errorf("%w: invalid JSON", intent.ErrClassificationFailed), model.MsgClassifyFailed},
		{"api failure", errors.New("openai API call: 500"), model.MsgClassifyFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			searcher := &recordingSearcher{results: []string{"never"}}
			svc := NewLandmarkService(stubClassifier{err: tt.err}, searcher, searcher, zap.NewNop())

			got := svc.ClassifyAndFetch(t.Context(), "anything")
			assert.Equal(t, []string{tt.want}, got)
			assert.Empty(t, searcher.cities)
			assert.Empty(t, searcher.descriptions)
		})
	}
}

func TestClassifyAndFetch_NeverEmpty(t *testing.T) {
	searcher := &recordingSearcher{results: nil}
	svc := NewLandmarkService(stubClassifier{result: model.City{Name: "Paris"}}, searcher, searcher, zap.NewNop())

	assert.Equal(t, []string{model.MsgNoImages}, svc.ClassifyAndFetch(t.Context(), "Paris"))
}

func TestClassifyAndFetch_NilClassification(t *testing.T) {
	searcher := &recordingSearcher{}
	svc := NewLandmarkService(stubClassifier{}, searcher, searcher, zap.NewNop())

	assert.Equal(t, []string{model.MsgUnknownStrategy}, svc.ClassifyAndFetch(t.Context(), "Paris"))
}

func TestClassifyAndFetch_CapsAtMaxResults(t *testing.T) {
	many := make([]string, 15)
	for i := range many {
		many[i] = fmt.Sprintf("https://img/%d", i)
	}
	searcher := &recordingSearcher{results: many}
	svc := NewLandmarkService(stubClassifier{result: model.Description{Text: "x"}}, searcher, searcher, zap.NewNop())

	assert.Len(t, svc.ClassifyAndFetch(t.Context(), "x"), model.MaxResults)
}

// scriptedLLM is an llm.Client with a fixed reply.
type scriptedLLM struct{ reply string }

func (s scriptedLLM) Complete(context.Context, string, string) (string, error) { return s.reply, nil }
func (s scriptedLLM) ProviderName() string                                    { return "scripted" }
func (s scriptedLLM) ModelName() string                                       { return "scripted" }

// newPipeline wires the real classifier and providers against fake Google endpoints.
func newPipeline(t *testing.T, reply string, google http.HandlerFunc) *LandmarkService {
	t.Helper()
	srv := httptest.NewServer(google)
	t.Cleanup(srv.Close)

	logger := zap.NewNop()
	places := provider.NewPlacesProvider(config.PlacesConfig{APIKey: "pk", BaseURL: srv.URL}, srv.Client(), logger)
	cse, err := provider.NewCustomSearchProvider(t.Context(), config.CustomSearchConfig{
		APIKey: "ck", EngineID: "cx", Endpoint: srv.URL + "/",
	}, srv.Client(), logger)
	require.NoError(t, err)

	classifier := intent.NewClassifier([]llm.Client{scriptedLLM{reply: reply}}, nil, logger)
	return NewLandmarkService(classifier, places, cse, logger)
}

func TestPipeline_ParisScenario(t *testing.T) {
	var query string
	svc := newPipeline(t, `{"strategy":"A","city":"Paris"}`, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/maps/api/place/textsearch/json" {
			t.Errorf("unexpected request to %s", r.URL.Path)
			http.NotFound(w, r)
			return
		}
		query = r.URL.Query().Get("query")
		_, _ = w.Write([]byte(`{"status":"OK","results":[
			{"name":"Eiffel Tower","photos":[{"photo_reference":"eiffel"}]},
			{"name":"Louvre","photos":[{"photo_reference":"louvre"}]}
		]}`))
	})

	got := svc.ClassifyAndFetch(t.Context(), "Paris")

	assert.Equal(t, "famous landmarks in Paris", query)
	require.Len(t, got, 2)
	assert.Contains(t, got[0], "/maps/api/place/photo?maxwidth=400&photo_reference=eiffel&key=pk")
	assert.Contains(t, got[1], "photo_reference=louvre")
}

func TestPipeline_CastleScenario(t *testing.T) {
	var q string
	svc := newPipeline(t, `{"strategy":"B","description":"a castle on a hill"}`, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/customsearch/v1" {
			t.Errorf("unexpected request to %s", r.URL.Path)
			http.NotFound(w, r)
			return
		}
		q = r.URL.Query().Get("q")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items":[{"link":"https://img/castle1.jpg"},{"link":"https://img/castle2.jpg"}]}`))
	})

	got := svc.ClassifyAndFetch(t.Context(), "a castle on a hill")

	assert.Equal(t, "a castle on a hill", q)
	assert.Equal(t, []string{"https://img/castle1.jpg", "https://img/castle2.jpg"}, got)
}

func TestPipeline_MalformedModelOutput(t *testing.T) {
	svc := newPipeline(t, "Sure! Paris is a lovely city.", func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("no search expected, got %s", r.URL.Path)
	})

	got := svc.ClassifyAndFetch(t.Context(), "Paris")
	require.Len(t, got, 1)
	assert.True(t, strings.HasPrefix(got[0], "An error occurred"), got[0])
}

func TestPipeline_SubsequentRequestsUnaffected(t *testing.T) {
	fail := true
	svc := newPipeline(t, `{"strategy":"A","city":"Paris"}`, func(w http.ResponseWriter, r *http.Request) {
		if fail {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		_, _ = w.Write([]byte(`{"status":"OK","results":[{"photos":[{"photo_reference":"ok"}]}]}`))
	})

	first := svc.ClassifyAndFetch(t.Context(), "Paris")
	require.Len(t, first, 1)
	assert.True(t, strings.HasPrefix(first[0], "Failed to retrieve landmarks"), first[0])

	fail = false
	second := svc.ClassifyAndFetch(t.Context(), "Paris")
	require.Len(t, second, 1)
	assert.Contains(t, second[0], "photo_reference=ok")
}
