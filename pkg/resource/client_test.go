package resource

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/langconv/langconv/pkg/messages"
	"github.com/langconv/langconv/pkg/mockserver"
	"github.com/langconv/langconv/pkg/model"
	"github.com/langconv/langconv/pkg/stateful"
	"github.com/langconv/langconv/pkg/transport"
)

const baseURL = "http://backend/api/languages"

func languageKind(base string) Kind {
	return Kind{Singular: "language", Plural: "languages", BaseURL: base, SearchParam: "searchText"}
}

// newBackendClient wires a language client to an in-process mock backend.
func newBackendClient(t *testing.T) (*Client[model.Language], *messages.Log, *mockserver.Server) {
	t.Helper()
	srv := mockserver.New(stateful.NewDefaultStore())
	log := messages.NewLog()
	tr := transport.New(transport.WithRoundTripper(srv.RoundTripper()))
	return New[model.Language](languageKind(baseURL), tr, WithSink(log)), log, srv
}

// recordingTransport records every call and answers with fn.
type recordingTransport struct {
	mu    sync.Mutex
	calls []string
	fn    func(method, url string, out any) error
}

func (rt *recordingTransport) Do(_ context.Context, method, url string, _, out any) error {
	rt.mu.Lock()
	rt.calls = append(rt.calls, method+" "+url)
	rt.mu.Unlock()
	if rt.fn == nil {
		return nil
	}
	return rt.fn(method, url, out)
}

func failing(err error) *recordingTransport {
	return &recordingTransport{fn: func(string, string, any) error { return err }}
}

func languageIDs(langs []model.Language) []int {
	out := make([]int, 0, len(langs))
	for _, l := range langs {
		out = append(out, l.ID)
	}
	return out
}

func TestClient_List(t *testing.T) {
	c, log, _ := newBackendClient(t)

	langs := c.List(context.Background())
	assert.Equal(t, []int{11, 12, 13, 14, 15, 16, 17, 18, 19, 20}, languageIDs(langs))
	assert.Equal(t, []string{"LanguageService: fetched languages"}, log.Messages())
}

func TestClient_ListFailure(t *testing.T) {
	tr := failing(errors.New("connection refused"))
	log := messages.NewLog()
	c := New[model.Language](languageKind(baseURL), tr, WithSink(log))

	langs := c.List(context.Background())
	assert.NotNil(t, langs)
	assert.Empty(t, langs)
	require.Equal(t, 1, log.Len())
	msg := log.Messages()[0]
	assert.Contains(t, msg, "getLanguages")
	assert.Contains(t, msg, "failed")
	assert.Contains(t, msg, "connection refused")
	assert.Equal(t, []string{"GET " + baseURL}, tr.calls)
}

func TestClient_Get(t *testing.T) {
	c, log, _ := newBackendClient(t)

	lang, err := c.Get(context.Background(), 13)
	require.NoError(t, err)
	require.NotNil(t, lang)
	assert.Equal(t, model.Language{ID: 13, Name: "Bombasto"}, *lang)
	assert.Equal(t, []string{"LanguageService: fetched language id=13"}, log.Messages())
}

func TestClient_GetNotFound(t *testing.T) {
	c, log, _ := newBackendClient(t)

	lang, err := c.Get(context.Background(), 99)
	assert.Nil(t, lang)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.True(t, transport.IsNotFound(err))
	require.Equal(t, 1, log.Len())
	assert.True(t, strings.HasPrefix(log.Messages()[0], "LanguageService: getLanguage id=99 failed: "))
}

func TestClient_GetOtherFailureIsContained(t *testing.T) {
	tr := failing(&transport.StatusError{Method: http.MethodGet, URL: baseURL + "/11", StatusCode: http.StatusInternalServerError})
	log := messages.NewLog()
	c := New[model.Language](languageKind(baseURL), tr, WithSink(log))

	lang, err := c.Get(context.Background(), 11)
	assert.NoError(t, err)
	assert.Nil(t, lang)
	require.Equal(t, 1, log.Len())
	assert.Contains(t, log.Messages()[0], "getLanguage id=11 failed")
	assert.Equal(t, []string{"GET " + baseURL + "/11"}, tr.calls)
}

func TestClient_Find(t *testing.T) {
	c, log, _ := newBackendClient(t)
	ctx := context.Background()

	lang := c.Find(ctx, 18)
	require.NotNil(t, lang)
	assert.Equal(t, "Dr IQ", lang.Name)

	assert.Nil(t, c.Find(ctx, 99))
	assert.Equal(t, []string{
		"LanguageService: fetched language id=18",
		"LanguageService: did not find language id=99",
	}, log.Messages())
}

func TestClient_FindFailure(t *testing.T) {
	tr := failing(errors.New("boom"))
	log := messages.NewLog()
	c := New[model.Language](languageKind(baseURL), tr, WithSink(log))

	assert.Nil(t, c.Find(context.Background(), 11))
	assert.Equal(t, []string{"LanguageService: getLanguage id=11 failed: boom"}, log.Messages())
	assert.Equal(t, []string{"GET " + baseURL + "/?id=11"}, tr.calls)
}

func TestClient_Search(t *testing.T) {
	c, log, _ := newBackendClient(t)

	langs := c.Search(context.Background(), "ma")
	assert.Equal(t, []int{15, 16, 17, 19}, languageIDs(langs))
	assert.Equal(t, []string{`LanguageService: found languages matching "ma"`}, log.Messages())

	log.Clear()
	langs = c.Search(context.Background(), "zzz")
	assert.NotNil(t, langs)
	assert.Empty(t, langs)
	assert.Equal(t, []string{`LanguageService: found languages matching "zzz"`}, log.Messages())
}

func TestClient_SearchBlankTerm(t *testing.T) {
	for _, term := range []string{"", " ", "\t\n"} {
		tr := &recordingTransport{}
		log := messages.NewLog()
		c := New[model.Language](languageKind(baseURL), tr, WithSink(log))

		langs := c.Search(context.Background(), term)
		assert.NotNil(t, langs)
		assert.Empty(t, langs)
		assert.Empty(t, tr.calls, "term %q", term)
		assert.Zero(t, log.Len(), "term %q", term)
	}
}

func TestClient_SearchEscapesTerm(t *testing.T) {
	tr := &recordingTransport{}
	c := New[model.Language](languageKind(baseURL), tr)

	c.Search(context.Background(), "Dr IQ&x=1")
	assert.Equal(t, []string{"GET " + baseURL + "/?searchText=Dr+IQ%26x%3D1"}, tr.calls)
}

func TestClient_SearchFailure(t *testing.T) {
	log := messages.NewLog()
	c := New[model.Language](languageKind(baseURL), failing(errors.New("down")), WithSink(log))

	assert.Empty(t, c.Search(context.Background(), "ma"))
	assert.Equal(t, []string{"LanguageService: searchLanguages failed: down"}, log.Messages())
}

func TestClient_Create(t *testing.T) {
	c, log, _ := newBackendClient(t)
	ctx := context.Background()

	created := c.Create(ctx, model.Language{Name: "Zed"})
	require.NotNil(t, created)
	assert.Equal(t, 21, created.ID)
	assert.Equal(t, "Zed", created.Name)
	assert.Equal(t, []string{"LanguageService: added language w/ id=21"}, log.Messages())

	langs := c.List(ctx)
	assert.Len(t, langs, 11)
	var matches int
	for _, l := range langs {
		if l.Name == "Zed" {
			matches++
			assert.Equal(t, 21, l.ID)
		}
	}
	assert.Equal(t, 1, matches)
}

func TestClient_CreateConflict(t *testing.T) {
	c, log, _ := newBackendClient(t)

	assert.Nil(t, c.Create(context.Background(), model.Language{ID: 11, Name: "Twin"}))
	require.Equal(t, 1, log.Len())
	assert.Contains(t, log.Messages()[0], "addLanguage failed")
	assert.Contains(t, log.Messages()[0], "409")
}

func TestClient_Delete(t *testing.T) {
	c, log, _ := newBackendClient(t)
	ctx := context.Background()

	removed := c.Delete(ctx, model.ID(15))
	require.NotNil(t, removed)
	assert.Equal(t, model.Language{ID: 15, Name: "Magneta"}, *removed)
	assert.Equal(t, []string{"LanguageService: deleted language id=15"}, log.Messages())

	langs := c.List(ctx)
	assert.Len(t, langs, 9)
	assert.NotContains(t, languageIDs(langs), 15)
}

func TestClient_DeleteByIDOrRecordIsEquivalent(t *testing.T) {
	byID := &recordingTransport{}
	byRecord := &recordingTransport{}
	ctx := context.Background()

	New[model.Language](languageKind(baseURL), byID).Delete(ctx, model.ID(12))
	New[model.Language](languageKind(baseURL), byRecord).Delete(ctx, model.Language{ID: 12, Name: "Narco"})

	assert.Equal(t, []string{"DELETE " + baseURL + "/12"}, byID.calls)
	assert.Equal(t, byID.calls, byRecord.calls)
}

func TestClient_DeleteMissing(t *testing.T) {
	c, log, _ := newBackendClient(t)

	assert.Nil(t, c.Delete(context.Background(), model.ID(99)))
	require.Equal(t, 1, log.Len())
	assert.Contains(t, log.Messages()[0], "deleteLanguage failed")
}

func TestClient_DeleteWithoutBody(t *testing.T) {
	tr := &recordingTransport{}
	log := messages.NewLog()
	c := New[model.Language](languageKind(baseURL), tr, WithSink(log))

	assert.Nil(t, c.Delete(context.Background(), model.ID(12)))
	assert.Equal(t, []string{"LanguageService: deleted language id=12"}, log.Messages())
}

func TestClient_Update(t *testing.T) {
	c, log, srv := newBackendClient(t)

	ok := c.Update(context.Background(), model.Language{ID: 12, Name: "Narco", Description: "renamed"})
	assert.True(t, ok)
	assert.Equal(t, []string{"LanguageService: updated language id=12"}, log.Messages())
	assert.Equal(t, "renamed", srv.Store().Get("languages").Get(12).Data["description"])
}

func TestClient_UpdateMissing(t *testing.T) {
	c, log, _ := newBackendClient(t)

	assert.False(t, c.Update(context.Background(), model.Language{ID: 99, Name: "Ghost"}))
	require.Equal(t, 1, log.Len())
	assert.Contains(t, log.Messages()[0], "updateLanguage failed")
}

func TestClient_UpdateUsesBaseURL(t *testing.T) {
	tr := &recordingTransport{}
	c := New[model.Language](languageKind(baseURL+"/"), tr)

	c.Update(context.Background(), model.Language{ID: 12})
	assert.Equal(t, []string{"PUT " + baseURL}, tr.calls)
}

func TestClient_CancelledContext(t *testing.T) {
	c, log, _ := newBackendClient(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Empty(t, c.List(ctx))
	require.Equal(t, 1, log.Len())
	assert.Contains(t, log.Messages()[0], "getLanguages failed")
}

func TestClient_ConversionsKind(t *testing.T) {
	srv := mockserver.New(stateful.NewDefaultStore())
	log := messages.NewLog()
	tr := transport.New(transport.WithRoundTripper(srv.RoundTripper()))
	kind := Kind{Singular: "conversion", BaseURL: "http://backend/api/conversions"}
	c := New[model.Conversion](kind, tr, WithSink(log))
	ctx := context.Background()

	assert.Equal(t, "conversions", c.Kind().Plural)
	assert.Equal(t, "name", c.Kind().SearchParam)
	assert.Empty(t, c.List(ctx))

	created := c.Create(ctx, model.Conversion{Name: "metric"})
	require.NotNil(t, created)
	assert.Equal(t, 11, created.ID)

	found := c.Search(ctx, "MET")
	require.Len(t, found, 1)
	assert.Equal(t, "metric", found[0].Name)

	assert.Equal(t, []string{
		"ConversionService: fetched conversions",
		"ConversionService: added conversion w/ id=11",
		`ConversionService: found conversions matching "MET"`,
	}, log.Messages())
}

func TestClient_OverHTTP(t *testing.T) {
	ts := httptest.NewServer(mockserver.New(stateful.NewDefaultStore()))
	defer ts.Close()

	log := messages.NewLog()
	c := New[model.Language](languageKind(ts.URL+"/api/languages"), transport.New(), WithSink(log))
	ctx := context.Background()

	created := c.Create(ctx, model.Language{Name: "Zed"})
	require.NotNil(t, created)
	assert.Equal(t, 21, created.ID)
	assert.NotNil(t, c.Find(ctx, 21))
	assert.NotNil(t, c.Delete(ctx, *created))
	assert.Nil(t, c.Find(ctx, 21))
}

func TestClient_ConcurrentCalls(t *testing.T) {
	c, log, _ := newBackendClient(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	var created atomic.Int32
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if c.Create(ctx, model.Language{Name: "parallel"}) != nil {
				created.Add(1)
			}
			c.List(ctx)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(20), created.Load())
	assert.Equal(t, 40, log.Len())
	assert.Len(t, c.Search(ctx, "parallel"), 20)
}
