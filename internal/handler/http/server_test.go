package http

import (
	"ShrinkIt-Backend/internal/analytics"
	"ShrinkIt-Backend/internal/auth"
	"ShrinkIt-Backend/internal/config"
	"ShrinkIt-Backend/internal/domain"
	"ShrinkIt-Backend/internal/repository/memory"
	"ShrinkIt-Backend/internal/service"
	"ShrinkIt-Backend/pkg/geoip"
	"ShrinkIt-Backend/pkg/titlegen"
	"ShrinkIt-Backend/pkg/useragent"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testBaseURL = "http://sho.rt"

type testEnv struct {
	handler  http.Handler
	storage  *memory.MemStorage
	jwt      *auth.JWTService
	recorder *analytics.Recorder
}

func newTestEnv(t *testing.T, geo http.HandlerFunc, rate config.RateLimit) *testEnv {
	t.Helper()

	log := zap.NewNop()

	geoServer := httptest.NewServer(geo)
	t.Cleanup(geoServer.Close)

	cfg := &config.Config{
		Env:        config.EnvLocal,
		HTTPServer: config.HTTPServer{AllowedOrigins: []string{"http://localhost:5173"}},
		Auth:       config.Auth{JWTSecret: "test-secret", TokenTTL: time.Hour, Issuer: "test"},
		RateLimit:  rate,
	}

	storage := memory.New()
	jwtService := auth.NewJWTService(&cfg.Auth)
	passwords := auth.NewPasswordService(4)

	parser, err := useragent.NewParser("", log)
	require.NoError(t, err)

	recorder := analytics.NewRecorder(storage, geoip.New(geoServer.URL, time.Second), parser, log, analytics.RecorderConfig{
		Workers:         1,
		BufferSize:      16,
		WriteTimeout:    time.Second,
		GeoTimeout:      time.Second,
		ShutdownTimeout: 5 * time.Second,
	})
	require.NoError(t, recorder.Start())
	t.Cleanup(func() { _ = recorder.Stop() })

	links := service.NewLinkService(storage, service.NewAllocator(storage, service.DefaultCodeLength), nil,
		passwords, titlegen.New(titlegen.Config{}, log), testBaseURL, log)

	srv := NewServer(cfg, Dependencies{
		Storage:   storage,
		Links:     links,
		Resolver:  service.NewResolver(storage, nil, log),
		Clicks:    recorder,
		Stats:     recorder,
		JWT:       jwtService,
		Passwords: passwords,
	}, log)

	return &testEnv{
		handler:  srv.SetupRoutes(),
		storage:  storage,
		jwt:      jwtService,
		recorder: recorder,
	}
}

func failingGeo(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusInternalServerError)
}

func (e *testEnv) token(t *testing.T, userID int64) string {
	t.Helper()
	token, err := e.jwt.GenerateToken(userID)
	require.NoError(t, err)
	return token
}

func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) createLink(t *testing.T, token string, req CreateLinkRequest) LinkResponse {
	t.Helper()

	rec := e.do(t, http.MethodPost, "/api/links", token, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var link LinkResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &link))
	return link
}

func decodeMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var msg MessageResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &msg))
	return msg.Message
}

func TestServer_CreateAndList(t *testing.T) {
	env := newTestEnv(t, failingGeo, config.RateLimit{})
	token := env.token(t, 1)

	first := env.createLink(t, token, CreateLinkRequest{OriginalURL: "https://example.com/a"})
	assert.Len(t, first.ShortCode, service.DefaultCodeLength)
	assert.Equal(t, testBaseURL+"/"+first.ShortCode, first.ShortURL)
	assert.Equal(t, "https://example.com/a", first.Title)
	assert.True(t, first.IsActive)

	second := env.createLink(t, token, CreateLinkRequest{OriginalURL: "https://example.com/b", Title: "B", CustomSlug: "bee", Password: "pw"})
	assert.Equal(t, "bee", second.ShortCode)
	assert.True(t, second.HasPassword)

	rec := env.do(t, http.MethodGet, "/api/links", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "password\"")
	assert.NotContains(t, rec.Body.String(), "$2a$")

	var links []LinkResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &links))
	require.Len(t, links, 2)
	assert.Equal(t, second.ID, links[0].ID)
	assert.Equal(t, first.ID, links[1].ID)
}

func TestServer_CreateErrors(t *testing.T) {
	env := newTestEnv(t, failingGeo, config.RateLimit{})
	token := env.token(t, 1)

	env.createLink(t, token, CreateLinkRequest{OriginalURL: "https://example.com", CustomSlug: "taken"})

	rec := env.do(t, http.MethodPost, "/api/links", token, CreateLinkRequest{OriginalURL: "https://other.example", CustomSlug: "taken"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"message":"`+msgNameTaken+`","code":"slug_taken"}`, rec.Body.String())

	rec = env.do(t, http.MethodPost, "/api/links", token, CreateLinkRequest{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Original URL is required.", decodeMessage(t, rec))

	rec = env.do(t, http.MethodPost, "/api/links", "", CreateLinkRequest{OriginalURL: "https://example.com"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestServer_RedirectRecordsClickDespiteGeoFailure(t *testing.T) {
	env := newTestEnv(t, failingGeo, config.RateLimit{})
	link := env.createLink(t, env.token(t, 1), CreateLinkRequest{OriginalURL: "https://example.com/target", CustomSlug: "go-here"})

	req := httptest.NewRequest(http.MethodGet, "/go-here", nil)
	req.Header.Set("X-Forwarded-For", "8.8.8.8, 10.0.0.1")
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "https://example.com/target", rec.Header().Get("Location"))

	var clicks []domain.Click
	require.Eventually(t, func() bool {
		var err error
		clicks, err = env.storage.ListClicks(context.Background(), link.ID)
		return err == nil && len(clicks) == 1
	}, 2*time.Second, 10*time.Millisecond)

	assert.Equal(t, domain.UnknownGeo(), clicks[0].GeoInfo())
	assert.Equal(t, "8.8.8.8", clicks[0].IPAddress)
	assert.Equal(t, domain.DirectReferrer, clicks[0].Referrer)
	assert.Equal(t, useragent.DeviceDesktop, clicks[0].DeviceType)

	stored, err := env.storage.GetLinkByID(context.Background(), link.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stored.ClickCount)
}

func TestServer_RedirectOutcomes(t *testing.T) {
	env := newTestEnv(t, failingGeo, config.RateLimit{})
	token := env.token(t, 1)

	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(time.Hour)

	env.createLink(t, token, CreateLinkRequest{OriginalURL: "https://example.com", CustomSlug: "expired", ExpiresAt: &past})
	env.createLink(t, token, CreateLinkRequest{OriginalURL: "https://example.com", CustomSlug: "locked", Password: "pw", ExpiresAt: &future})
	off := env.createLink(t, token, CreateLinkRequest{OriginalURL: "https://example.com", CustomSlug: "off", Password: "pw", ExpiresAt: &past})

	inactive := false
	rec := env.do(t, http.MethodPut, "/api/links/"+itoa(off.ID), token, UpdateLinkRequest{IsActive: &inactive})
	require.Equal(t, http.StatusOK, rec.Code)

	tests := []struct {
		path string
		code int
		body string
	}{
		{path: "/missing", code: http.StatusNotFound, body: "<h1>Link not found</h1>"},
		{path: "/off", code: http.StatusForbidden, body: "<h1>Link has been disabled.</h1>"},
		{path: "/expired", code: http.StatusGone, body: "<h1>This link has expired.</h1>"},
		{path: "/locked", code: http.StatusUnauthorized, body: "<h1>Password required</h1>"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := env.do(t, http.MethodGet, tt.path, "", nil)
			assert.Equal(t, tt.code, rec.Code)
			assert.Equal(t, tt.body, rec.Body.String())
		})
	}
}

func TestServer_UpdateAsNonOwner(t *testing.T) {
	env := newTestEnv(t, failingGeo, config.RateLimit{})
	link := env.createLink(t, env.token(t, 1), CreateLinkRequest{OriginalURL: "https://mine.example"})

	hijack := "https://evil.example"
	rec := env.do(t, http.MethodPut, "/api/links/"+itoa(link.ID), env.token(t, 2), UpdateLinkRequest{OriginalURL: &hijack})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, msgUnauthorized, decodeMessage(t, rec))

	stored, err := env.storage.GetLinkByID(context.Background(), link.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://mine.example", stored.OriginalURL)

	rec = env.do(t, http.MethodPut, "/api/links/abc", env.token(t, 1), UpdateLinkRequest{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPut, "/api/links/9999", env.token(t, 1), UpdateLinkRequest{})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_DeleteThenRedirect(t *testing.T) {
	env := newTestEnv(t, failingGeo, config.RateLimit{})
	token := env.token(t, 1)
	link := env.createLink(t, token, CreateLinkRequest{OriginalURL: "https://example.com", CustomSlug: "bye"})

	rec := env.do(t, http.MethodDelete, "/api/links/"+itoa(link.ID), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Link removed successfully", decodeMessage(t, rec))

	rec = env.do(t, http.MethodGet, "/bye", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_QRCodeAndAnalytics(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"success","country":"Germany","city":"Berlin"}`))
	}, config.RateLimit{})
	token := env.token(t, 1)
	link := env.createLink(t, token, CreateLinkRequest{OriginalURL: "https://example.com", Title: "Example"})

	rec := env.do(t, http.MethodGet, "/api/links/"+itoa(link.ID)+"/qr", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var qr QRCodeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &qr))
	assert.True(t, strings.HasPrefix(qr.QRCodeURL, "data:image/png;base64,"))

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/"+link.ShortCode, nil)
		req.Header.Set("X-Real-IP", "5.9.0.1")
		req.Header.Set("Referer", "https://news.example")
		res := httptest.NewRecorder()
		env.handler.ServeHTTP(res, req)
		require.Equal(t, http.StatusFound, res.Code)
	}

	require.Eventually(t, func() bool {
		clicks, err := env.storage.ListClicks(context.Background(), link.ID)
		return err == nil && len(clicks) == 3
	}, 2*time.Second, 10*time.Millisecond)

	rec = env.do(t, http.MethodGet, "/api/links/"+itoa(link.ID)+"/analytics", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var report service.LinkAnalytics
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, int64(3), report.TotalClicks)
	assert.Equal(t, "Example", report.Title)
	assert.Equal(t, []analytics.CountryCount{{Country: "Germany", Count: 3}}, report.TopCountries)
	assert.Equal(t, []analytics.ReferrerCount{{Referrer: "https://news.example", Count: 3}}, report.TopReferrers)
	require.Len(t, report.ClicksByDate, 1)
	assert.Equal(t, 3, report.ClicksByDate[0].Count)
	require.Len(t, report.ClickDetails, 3)
	assert.Equal(t, domain.Geo{Country: "Germany", City: "Berlin"}, report.ClickDetails[0].GeoInfo())

	var raw struct {
		ClickDetails []struct {
			Geo struct {
				Country string `json:"country"`
				City    string `json:"city"`
			} `json:"geo"`
		} `json:"clickDetails"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	require.Len(t, raw.ClickDetails, 3)
	assert.Equal(t, "Germany", raw.ClickDetails[0].Geo.Country)
	assert.Equal(t, "Berlin", raw.ClickDetails[0].Geo.City)

	rec = env.do(t, http.MethodGet, "/api/links/"+itoa(link.ID)+"/analytics", env.token(t, 2), nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestServer_AnalyzeFallsBackToParsedTitle(t *testing.T) {
	env := newTestEnv(t, failingGeo, config.RateLimit{})
	token := env.token(t, 1)

	rec := env.do(t, http.MethodPost, "/api/links/analyze", token, AnalyzeRequest{URL: "https://github.com/me/my-repo"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"title":"Github: my repo"}`, rec.Body.String())

	rec = env.do(t, http.MethodPost, "/api/links/analyze", token, AnalyzeRequest{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "URL is required.", decodeMessage(t, rec))
}

func TestServer_RateLimit(t *testing.T) {
	env := newTestEnv(t, failingGeo, config.RateLimit{Enabled: true, RPS: 0.001, Burst: 1})

	rec := env.do(t, http.MethodGet, "/nothing", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodGet, "/nothing", "", nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	// API routes are not throttled
	rec = env.do(t, http.MethodGet, "/api/links", env.token(t, 1), nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestServer_HealthAndReady(t *testing.T) {
	env := newTestEnv(t, failingGeo, config.RateLimit{})

	rec := env.do(t, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var health HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	assert.Equal(t, "healthy", health.Status)

	rec = env.do(t, http.MethodGet, "/ready", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "click_recorder")
}

func TestExtractIPAddress(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{name: "forwarded for", headers: map[string]string{"X-Forwarded-For": "1.2.3.4, 10.0.0.1", "X-Real-IP": "5.6.7.8"}, remote: "9.9.9.9:1234", want: "1.2.3.4"},
		{name: "real ip", headers: map[string]string{"X-Real-IP": "5.6.7.8"}, remote: "9.9.9.9:1234", want: "5.6.7.8"},
		{name: "remote addr", remote: "9.9.9.9:1234", want: "9.9.9.9"},
		{name: "remote without port", remote: "9.9.9.9", want: "9.9.9.9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, extractIPAddress(req))
		})
	}
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
