package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"quiz_webapp/internal/account"
	"quiz_webapp/internal/domain"
	"quiz_webapp/internal/flow"
	"quiz_webapp/internal/http/middleware"
	"quiz_webapp/internal/service"
	"quiz_webapp/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type gatedCreator struct {
	gameID  string
	release chan struct{}
}

func (g *gatedCreator) Create(ctx context.Context, req domain.CreationRequest) (domain.CreationResult, error) {
	if g.release != nil {
		<-g.release
	}
	return domain.CreationResult{GameID: g.gameID}, nil
}

type slowTerminator struct {
	mu    sync.Mutex
	ended []string
	block chan struct{}
}

func (s *slowTerminator) Terminate(ctx context.Context, sess domain.Session) error {
	<-s.block
	s.mu.Lock()
	s.ended = append(s.ended, sess.TokenID)
	s.mu.Unlock()
	return nil
}

type memAudit struct {
	mu   sync.Mutex
	logs []*domain.AuditLog
}

func (m *memAudit) Create(ctx context.Context, log *domain.AuditLog) error {
	m.mu.Lock()
	m.logs = append(m.logs, log)
	m.mu.Unlock()
	return nil
}

type fakeStats struct {
	counts map[string]int64
	err    error
}

func (f fakeStats) CountByAction(ctx context.Context, category string, since time.Time) (map[string]int64, error) {
	return f.counts, f.err
}

func (f fakeStats) GetByCategory(ctx context.Context, category string, limit int) ([]*domain.AuditLog, error) {
	return nil, f.err
}

type testEnv struct {
	router *gin.Engine
	h      *Handler
	term   *slowTerminator
	audit  *memAudit
}

func newTestEnv(t *testing.T, creator flow.Creator) *testEnv {
	t.Helper()
	t.Setenv("JWT_SECRET", "handlers-secret")
	service.InitJWT()
	gin.SetMode(gin.TestMode)

	hub := ws.NewHub()
	term := &slowTerminator{block: make(chan struct{})}
	audit := &memAudit{}

	h := &Handler{
		Flows:   flow.NewRegistry(creator, hub.Sink, nil),
		Hub:     hub,
		Account: account.NewMenu(term, time.Second),
		Audit:   service.NewAuditService(audit),
		Stats:   fakeStats{counts: map[string]int64{domain.AuditActionQuizCreated: 4}},
	}

	r := gin.New()
	auth := middleware.JWT(nil, nil)
	r.POST("/flows", auth, h.OpenFlow)
	r.GET("/flows/:id", auth, h.GetFlow)
	r.POST("/flows/:id/submit", auth, h.SubmitFlow)
	r.DELETE("/flows/:id", auth, h.CloseFlow)
	r.GET("/menu", auth, h.Menu)
	r.POST("/signout", auth, h.SignOut)
	r.GET("/analytics", auth, middleware.RequireAdmin(), h.Analytics)

	return &testEnv{router: r, h: h, term: term, audit: audit}
}

func token(t *testing.T, id int64, role domain.Role) string {
	t.Helper()
	tok, err := service.GenerateJWT(&domain.User{ID: id, Name: "Ada", Email: "ada@example.com", Role: role})
	require.NoError(t, err)
	return tok
}

func (e *testEnv) do(t *testing.T, method, path, tok string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func openFlow(t *testing.T, e *testEnv, tok string, topic string) string {
	t.Helper()
	w := e.do(t, http.MethodPost, "/flows", tok, gin.H{"topic": topic})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		FlowID string `json:"flow_id"`
		Form   struct {
			Topic  string `json:"topic"`
			Amount int    `json:"amount"`
			Type   string `json:"type"`
		} `json:"form"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, topic, resp.Form.Topic)
	assert.Equal(t, 3, resp.Form.Amount)
	assert.Equal(t, "open_ended", resp.Form.Type)
	return resp.FlowID
}

func TestFlows_RequireToken(t *testing.T) {
	e := newTestEnv(t, &gatedCreator{gameID: "g"})
	w := e.do(t, http.MethodPost, "/flows", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSubmit_ValidationErrors(t *testing.T) {
	e := newTestEnv(t, &gatedCreator{gameID: "g"})
	tok := token(t, 1, domain.RoleUser)
	id := openFlow(t, e, tok, "")

	w := e.do(t, http.MethodPost, "/flows/"+id+"/submit", tok, gin.H{"topic": "", "amount": 15, "type": "mcq"})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var resp struct {
		Fields map[string]string `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Fields, "topic")
	assert.Contains(t, resp.Fields, "amount")
}

func TestSubmit_InFlightConflictThenSuccess(t *testing.T) {
	creator := &gatedCreator{gameID: "abc123", release: make(chan struct{})}
	e := newTestEnv(t, creator)
	tok := token(t, 1, domain.RoleUser)
	id := openFlow(t, e, tok, "Math")

	form := gin.H{"topic": "Math", "amount": "5", "type": "mcq"}
	w := e.do(t, http.MethodPost, "/flows/"+id+"/submit", tok, form)
	require.Equal(t, http.StatusAccepted, w.Code)

	w = e.do(t, http.MethodPost, "/flows/"+id+"/submit", tok, form)
	assert.Equal(t, http.StatusConflict, w.Code)

	close(creator.release)
	ctrl, err := e.h.Flows.Get(id, 1)
	require.NoError(t, err)
	ctrl.Wait()

	w = e.do(t, http.MethodGet, "/flows/"+id, tok, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		State flow.State `json:"state"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, flow.KindSucceeded, resp.State.Kind)
	assert.Equal(t, "/play/mcq-test/abc123", resp.State.Destination)
}

func TestFlows_OwnerIsolation(t *testing.T) {
	e := newTestEnv(t, &gatedCreator{gameID: "g"})
	id := openFlow(t, e, token(t, 1, domain.RoleUser), "")

	other := token(t, 2, domain.RoleUser)
	assert.Equal(t, http.StatusNotFound, e.do(t, http.MethodGet, "/flows/"+id, other, nil).Code)
	assert.Equal(t, http.StatusNotFound, e.do(t, http.MethodDelete, "/flows/"+id, other, nil).Code)
	assert.Equal(t, http.StatusNoContent, e.do(t, http.MethodDelete, "/flows/"+id, token(t, 1, domain.RoleUser), nil).Code)
}

func TestMenu_RoleVariants(t *testing.T) {
	e := newTestEnv(t, &gatedCreator{gameID: "g"})

	keys := func(tok string) []string {
		w := e.do(t, http.MethodGet, "/menu", tok, nil)
		require.Equal(t, http.StatusOK, w.Code)
		var v account.View
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
		var out []string
		for _, a := range v.Actions {
			out = append(out, a.Key)
		}
		return out
	}

	assert.Equal(t, []string{"analytics", "profile", "leaderboard", "sign_out"}, keys(token(t, 1, domain.RoleAdmin)))
	assert.Equal(t, []string{"profile", "leaderboard", "sign_out"}, keys(token(t, 2, domain.RoleUser)))
}

func TestSignOut_RedirectsBeforeTermination(t *testing.T) {
	e := newTestEnv(t, &gatedCreator{gameID: "g"})

	w := e.do(t, http.MethodPost, "/signout", token(t, 1, domain.RoleUser), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"redirect":"/"}`, w.Body.String())

	e.term.mu.Lock()
	assert.Empty(t, e.term.ended)
	e.term.mu.Unlock()

	close(e.term.block)
	e.h.Account.Wait()

	e.term.mu.Lock()
	assert.Len(t, e.term.ended, 1)
	e.term.mu.Unlock()

	e.audit.mu.Lock()
	defer e.audit.mu.Unlock()
	require.Len(t, e.audit.logs, 1)
	assert.Equal(t, domain.AuditActionLogout, e.audit.logs[0].Action)
}

func TestAnalytics_AdminOnly(t *testing.T) {
	e := newTestEnv(t, &gatedCreator{gameID: "g"})

	w := e.do(t, http.MethodGet, "/analytics", token(t, 2, domain.RoleUser), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = e.do(t, http.MethodGet, "/analytics", token(t, 1, domain.RoleAdmin), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Counts map[string]int64 `json:"counts"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(4), resp.Counts[domain.AuditActionQuizCreated])
}

func TestAnalytics_StoreError(t *testing.T) {
	e := newTestEnv(t, &gatedCreator{gameID: "g"})
	e.h.Stats = fakeStats{err: errors.New("boom")}

	w := e.do(t, http.MethodGet, "/analytics", token(t, 1, domain.RoleAdmin), nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestHealth_WithoutDependencies(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hh := NewHealthHandler(nil, nil, func() int { return 2 }, "test")
	r := gin.New()
	r.GET("/readyz", hh.Readiness)
	r.GET("/health", hh.Health)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "disabled", resp.Checks["database"])
	assert.Equal(t, "disabled", resp.Checks["redis"])
	assert.Equal(t, "2", resp.Checks["active_flows"])

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSubmit_ClosedFlowIsNotFound(t *testing.T) {
	creator := &gatedCreator{gameID: "g"}
	e := newTestEnv(t, creator)
	tok := token(t, 1, domain.RoleUser)
	id := openFlow(t, e, tok, "Math")

	// closed after lookup, as when a concurrent open replaces it
	ctrl, err := e.h.Flows.Get(id, 1)
	require.NoError(t, err)
	ctrl.Close()

	w := e.do(t, http.MethodPost, "/flows/"+id+"/submit", tok, gin.H{"topic": "Math", "amount": 5, "type": "mcq"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	ctrl.Wait()
}
