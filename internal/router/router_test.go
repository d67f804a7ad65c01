package router_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/carlmjohnson/requests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"health-records/internal/adapters/storage/file"
	"health-records/internal/domain/records"
	"health-records/internal/router"
)

type entry struct {
	Name          string   `json:"name"`
	Email         string   `json:"email"`
	Age           *int     `json:"age,omitempty"`
	Weight        *float64 `json:"weight,omitempty"`
	Height        *float64 `json:"height,omitempty"`
	BloodPressure *string  `json:"blood_pressure,omitempty"`
	Notes         *string  `json:"notes,omitempty"`
}

func newServer(t *testing.T, policy records.ReadPolicy) (*httptest.Server, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "data.json")
	store := file.NewStore(path, file.Options{Policy: policy})

	ts := httptest.NewServer(router.NewRouter(router.Options{Store: store, Policy: policy}))
	t.Cleanup(ts.Close)
	return ts, path
}

func TestHTTP_SubmitThenListAndSearch(t *testing.T) {
	ts, _ := newServer(t, records.ReadPolicyRecover)
	ctx := context.Background()

	submitted := []map[string]any{
		{"name": "Ana Pérez", "email": "ana@x.com", "age": 30, "weight": 61.5, "blood_pressure": "120/80"},
		{"name": "Bob", "email": "bob@x.com", "age": "30"},
		{"name": "anabel", "email": "anabel@x.com", "age": 41, "notes": "control anual"},
	}
	for i, payload := range submitted {
		var ack struct {
			Message string `json:"message"`
		}
		err := requests.URL(ts.URL).Path("/submit").BodyJSON(payload).ToJSON(&ack).Fetch(ctx)
		require.NoError(t, err)
		assert.Equal(t, "Data saved successfully 🎉", ack.Message)

		assert.Len(t, listEntries(t, ts.URL), i+1)
	}

	all := listEntries(t, ts.URL)
	require.Len(t, all, 3)
	assert.Equal(t, "Ana Pérez", all[0].Name)
	assert.Equal(t, 61.5, *all[0].Weight)
	assert.Equal(t, "120/80", *all[0].BloodPressure)
	assert.Nil(t, all[0].Height)
	assert.Nil(t, all[0].Notes)
	assert.Equal(t, 30, *all[1].Age, "numeric string age is stored as integer")

	byName := search(t, ts.URL, map[string]any{"name": "ANA"})
	assert.Equal(t, []string{"Ana Pérez", "anabel"}, namesOf(byName))

	byAge := search(t, ts.URL, map[string]any{"age": 30})
	assert.Equal(t, []string{"Ana Pérez", "Bob"}, namesOf(byAge))

	both := search(t, ts.URL, map[string]any{"name": "ana", "age": 41})
	assert.Equal(t, []string{"anabel"}, namesOf(both))

	none := search(t, ts.URL, map[string]any{"name": "zz"})
	assert.NotNil(t, none)
	assert.Empty(t, none)

	emptyName := search(t, ts.URL, map[string]any{"name": ""})
	assert.Len(t, emptyName, 3)
}

func TestHTTP_SearchWithoutBodyReturnsEverything(t *testing.T) {
	ts, _ := newServer(t, records.ReadPolicyRecover)
	ctx := context.Background()

	require.NoError(t, requests.URL(ts.URL).Path("/submit").
		BodyJSON(map[string]any{"name": "Ana", "email": "a@x.com"}).Fetch(ctx))

	var out []entry
	err := requests.URL(ts.URL).Path("/search").Method(http.MethodPost).ToJSON(&out).Fetch(ctx)
	require.NoError(t, err)
	assert.Len(t, out, 1)
}

func TestHTTP_EmptyStore(t *testing.T) {
	ts, _ := newServer(t, records.ReadPolicyRecover)
	ctx := context.Background()

	var body string
	err := requests.URL(ts.URL).Path("/entries").ToString(&body).Fetch(ctx)
	require.NoError(t, err)
	assert.Equal(t, "[]", strings.TrimSpace(body))

	assert.Empty(t, search(t, ts.URL, map[string]any{"age": 1}))
}

func TestHTTP_CorruptStore_RecoverPolicy(t *testing.T) {
	ts, path := newServer(t, records.ReadPolicyRecover)
	ctx := context.Background()
	require.NoError(t, os.WriteFile(path, []byte("{{ not json"), 0o644))

	assert.Empty(t, listEntries(t, ts.URL))
	assert.Empty(t, search(t, ts.URL, map[string]any{"name": "a"}))

	require.NoError(t, requests.URL(ts.URL).Path("/submit").
		BodyJSON(map[string]any{"name": "Ana", "email": "a@x.com"}).Fetch(ctx))
	assert.Len(t, listEntries(t, ts.URL), 1)
}

func TestHTTP_CorruptStore_StrictPolicy(t *testing.T) {
	ts, path := newServer(t, records.ReadPolicyStrict)
	ctx := context.Background()
	require.NoError(t, os.WriteFile(path, []byte("{{ not json"), 0o644))

	err := requests.URL(ts.URL).Path("/entries").
		CheckStatus(http.StatusServiceUnavailable).Fetch(ctx)
	require.NoError(t, err)

	err = requests.URL(ts.URL).Path("/submit").
		BodyJSON(map[string]any{"name": "Ana", "email": "a@x.com"}).
		CheckStatus(http.StatusServiceUnavailable).Fetch(ctx)
	require.NoError(t, err)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{{ not json", string(raw))
}

func TestHTTP_Submit_ValidationLeavesStoreUntouched(t *testing.T) {
	ts, _ := newServer(t, records.ReadPolicyRecover)
	ctx := context.Background()

	require.NoError(t, requests.URL(ts.URL).Path("/submit").
		BodyJSON(map[string]any{"name": "Ana", "email": "a@x.com"}).Fetch(ctx))

	cases := []map[string]any{
		{"email": "x@x.com"},
		{"name": "Bob"},
		{"name": "Bob", "email": "b@x.com", "age": "thirty"},
		{"name": "Bob", "email": "b@x.com", "weight": true},
		{"name": 7, "email": "b@x.com"},
	}
	for _, payload := range cases {
		var resp struct {
			Error  string            `json:"error"`
			Fields map[string]string `json:"fields"`
		}
		err := requests.URL(ts.URL).Path("/submit").BodyJSON(payload).
			CheckStatus(http.StatusUnprocessableEntity).ToJSON(&resp).Fetch(ctx)
		require.NoError(t, err, "payload %v", payload)
		assert.Equal(t, "validation failed", resp.Error)
		assert.NotEmpty(t, resp.Fields)
	}

	assert.Len(t, listEntries(t, ts.URL), 1)
}

func TestHTTP_MalformedJSON(t *testing.T) {
	ts, _ := newServer(t, records.ReadPolicyRecover)
	ctx := context.Background()

	for _, path := range []string{"/submit", "/search"} {
		var body string
		err := requests.URL(ts.URL).Path(path).
			BodyBytes([]byte(`{"name": "Ana",`)).
			ContentType("application/json").
			CheckStatus(http.StatusBadRequest).
			ToString(&body).
			Fetch(ctx)
		require.NoError(t, err, path)
		assert.Equal(t, "invalid json", strings.TrimSpace(body))
	}

	assert.Empty(t, listEntries(t, ts.URL))
}

func TestHTTP_Health(t *testing.T) {
	ts, _ := newServer(t, records.ReadPolicyRecover)

	var body string
	err := requests.URL(ts.URL).Path("/health").ToString(&body).Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ok", body)
}

func TestHTTP_CORSAllowsAnyOriginByDefault(t *testing.T) {
	ts, _ := newServer(t, records.ReadPolicyRecover)

	var allow string
	err := requests.URL(ts.URL).Path("/entries").
		Header("Origin", "http://example.test").
		Handle(func(res *http.Response) error {
			allow = res.Header.Get("Access-Control-Allow-Origin")
			return nil
		}).
		Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "*", allow)
}

func TestHTTP_StaticUI(t *testing.T) {
	dir := t.TempDir()
	for name, body := range map[string]string{
		"index.html": "<h1>records</h1>",
		"app.js":     "console.log(1)",
		"data.json":  `[{"name":"Ana"}]`,
		".env":       "DB_DSN=secret",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}

	ts := httptest.NewServer(router.NewRouter(router.Options{
		StaticDir:  dir,
		StaticHide: []string{filepath.Join(dir, "data.json")},
	}))
	defer ts.Close()
	ctx := context.Background()

	var index, js string
	require.NoError(t, requests.URL(ts.URL).Path("/").ToString(&index).Fetch(ctx))
	assert.Contains(t, index, "<h1>records</h1>")

	require.NoError(t, requests.URL(ts.URL).Path("/static/app.js").ToString(&js).Fetch(ctx))
	assert.Equal(t, "console.log(1)", js)

	for _, p := range []string{"/static/data.json", "/static/.env", "/static/sub/../.env"} {
		err := requests.URL(ts.URL).Path(p).CheckStatus(http.StatusNotFound).Fetch(ctx)
		assert.NoError(t, err, p)
	}
}

func TestHTTP_CORSPreflightAllowsAnyMethodAndHeader(t *testing.T) {
	ts, _ := newServer(t, records.ReadPolicyRecover)

	for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodDelete} {
		var allowOrigin, allowMethods, allowHeaders string
		err := requests.URL(ts.URL).Path("/submit").
			Method(http.MethodOptions).
			Header("Origin", "http://example.test").
			Header("Access-Control-Request-Method", method).
			Header("Access-Control-Request-Headers", "authorization,x-client").
			Handle(func(res *http.Response) error {
				allowOrigin = res.Header.Get("Access-Control-Allow-Origin")
				allowMethods = res.Header.Get("Access-Control-Allow-Methods")
				allowHeaders = res.Header.Get("Access-Control-Allow-Headers")
				return nil
			}).
			Fetch(context.Background())
		require.NoError(t, err, method)

		assert.Equal(t, "*", allowOrigin, method)
		assert.Equal(t, method, allowMethods)
		assert.Contains(t, strings.ToLower(allowHeaders), "authorization", method)
		assert.Contains(t, strings.ToLower(allowHeaders), "x-client", method)
	}
}

func TestHTTP_BodyTooLarge(t *testing.T) {
	ts, _ := newServer(t, records.ReadPolicyRecover)
	ctx := context.Background()

	big := []byte(`{"name":"Ana","email":"a@x.com","notes":"` + strings.Repeat("x", 1<<20) + `"}`)
	for _, p := range []string{"/submit", "/search"} {
		err := requests.URL(ts.URL).Path(p).
			BodyBytes(big).
			ContentType("application/json").
			CheckStatus(http.StatusRequestEntityTooLarge).
			Fetch(ctx)
		require.NoError(t, err, p)
	}

	assert.Empty(t, listEntries(t, ts.URL))
}

func TestHTTP_DefaultsToMemoryStore(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{}))
	defer ts.Close()

	require.NoError(t, requests.URL(ts.URL).Path("/submit").
		BodyJSON(map[string]any{"name": "Ana", "email": "a@x.com"}).Fetch(context.Background()))
	assert.Len(t, listEntries(t, ts.URL), 1)
}

func listEntries(t *testing.T, baseURL string) []entry {
	t.Helper()

	var out []entry
	err := requests.URL(baseURL).Path("/entries").ToJSON(&out).Fetch(context.Background())
	require.NoError(t, err)
	return out
}

func search(t *testing.T, baseURL string, payload map[string]any) []entry {
	t.Helper()

	var out []entry
	err := requests.URL(baseURL).Path("/search").BodyJSON(payload).ToJSON(&out).Fetch(context.Background())
	require.NoError(t, err)
	return out
}

func namesOf(items []entry) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Name)
	}
	return out
}
