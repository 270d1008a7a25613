package admin

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"maturity_backend/internal/admin/repository"
	"maturity_backend/internal/admin/transport"
	"maturity_backend/internal/catalog"
	"maturity_backend/internal/events"
	apphttp "maturity_backend/internal/http"
	leadsrepo "maturity_backend/internal/leads/repository"
	"maturity_backend/platform/logger"
	"maturity_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testConfig struct{}

func (testConfig) GetPurgeTokenTTL() time.Duration { return time.Minute }
func (testConfig) GetTimezone() *time.Location     { return time.UTC }
func (testConfig) GetAppBaseURL() string           { return "https://diagnostico.example.com" }

type stubRepo struct {
	rows []repository.LeadRow
}

func (s *stubRepo) ListLeads(context.Context) ([]repository.LeadRow, error) { return s.rows, nil }
func (s *stubRepo) CountLeads(context.Context) (int64, error)               { return int64(len(s.rows)), nil }
func (s *stubRepo) DeleteAllLeads(context.Context) (int64, error) {
	n := int64(len(s.rows))
	s.rows = nil
	return n, nil
}

type stubReader struct{}

func (stubReader) GetLead(context.Context, uuid.UUID) (leadsrepo.Lead, error) {
	return leadsrepo.Lead{}, leadsrepo.ErrNotFound
}
func (stubReader) GetResult(context.Context, uuid.UUID) (leadsrepo.MaturityResult, error) {
	return leadsrepo.MaturityResult{}, leadsrepo.ErrNotFound
}
func (stubReader) ListResponses(context.Context, uuid.UUID) ([]leadsrepo.Response, error) {
	return nil, nil
}

func newTestRouter(t *testing.T, repo *stubRepo) *gin.Engine {
	t.Helper()
	log := logger.Discard()
	m := NewModule(repo, stubReader{}, nil, nil, testConfig{}, catalog.MustLoad(), events.NewInMemoryBus(log), validator.New(), log)

	engine := gin.New()
	v1 := engine.Group("/api/v1")
	m.RegisterRoutes(&apphttp.RouterContext{Engine: engine, V1: v1, Admin: v1.Group("/admin")})
	return engine
}

func do(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func rows() []repository.LeadRow {
	score, level := 4.1, 4
	return []repository.LeadRow{
		{ID: uuid.New(), Name: "Ana", Email: "ana@acme.com", Company: "Acme", CreatedAt: time.Now(), OverallScore: &score, MaturityLevel: &level},
		{ID: uuid.New(), Name: "Bruno", Email: "bruno@beta.com", Company: "Beta", CreatedAt: time.Now()},
	}
}

func TestListAndExport(t *testing.T) {
	r := newTestRouter(t, &stubRepo{rows: rows()})

	w := do(t, r, http.MethodGet, "/api/v1/admin/leads?search=acme", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list transport.LeadListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Equal(t, 1, list.Total)
	assert.Equal(t, "Ana", list.Items[0].Name)
	assert.True(t, strings.HasPrefix(list.Items[0].Badge, "Nível 4 - "))

	w = do(t, r, http.MethodGet, "/api/v1/admin/leads/export.csv", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.Regexp(t, `filename="leads-\d{4}-\d{2}-\d{2}\.csv"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, 3, strings.Count(w.Body.String(), "\n"))
	assert.Contains(t, w.Body.String(), `"4.1","4"`)
}

func TestDetailUnknownLead(t *testing.T) {
	r := newTestRouter(t, &stubRepo{})

	assert.Equal(t, http.StatusNotFound, do(t, r, http.MethodGet, "/api/v1/admin/leads/"+uuid.NewString(), nil).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, r, http.MethodGet, "/api/v1/admin/leads/nope", nil).Code)
}

func TestPurgeFlow(t *testing.T) {
	repo := &stubRepo{rows: rows()}
	r := newTestRouter(t, repo)

	w := do(t, r, http.MethodPost, "/api/v1/admin/leads/purge", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var challenge transport.PurgeChallenge
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &challenge))
	assert.Equal(t, int64(2), challenge.Count)

	w = do(t, r, http.MethodDelete, "/api/v1/admin/leads", transport.PurgeRequest{Token: challenge.Token, Confirmation: "nao"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Len(t, repo.rows, 2)

	w = do(t, r, http.MethodDelete, "/api/v1/admin/leads", map[string]string{"token": challenge.Token})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Len(t, repo.rows, 2)

	w = do(t, r, http.MethodDelete, "/api/v1/admin/leads", transport.PurgeRequest{Token: challenge.Token, Confirmation: "SIM"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"deleted":2}`, w.Body.String())
	assert.Empty(t, repo.rows)
}
