package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	accountStore "sportsschool/internal/adapters/storage/account"
	announcementStore "sportsschool/internal/adapters/storage/announcement"
	assessmentStore "sportsschool/internal/adapters/storage/assessment"
	attendanceStore "sportsschool/internal/adapters/storage/attendance"
	coachStore "sportsschool/internal/adapters/storage/coach"
	invoiceStore "sportsschool/internal/adapters/storage/invoice"
	reportStore "sportsschool/internal/adapters/storage/report"
	settingsStore "sportsschool/internal/adapters/storage/settings"
	"sportsschool/internal/adapters/storage/storagetest"
	studentStore "sportsschool/internal/adapters/storage/student"
	"sportsschool/internal/application/orchestrators"
	"sportsschool/internal/domain/access"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type testAPI struct {
	t       *testing.T
	handler *Handler
	server  *httptest.Server
	seq     int
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	db := storagetest.Open(t)
	api := &testAPI{t: t}
	api.handler = NewHandler(Config{JWTSecret: []byte("test-secret")}, Deps{
		Stores: Stores{
			Accounts:      accountStore.NewSQLStore(db),
			Announcements: announcementStore.NewSQLStore(db),
			Coaches:       coachStore.NewSQLStore(db),
			Students:      studentStore.NewSQLStore(db),
			Invoices:      invoiceStore.NewSQLStore(db),
			Attendance:    attendanceStore.NewSQLStore(db),
			Assessments:   assessmentStore.NewSQLStore(db),
			Reports:       reportStore.NewSQLStore(db),
			Settings:      settingsStore.NewSQLStore(db),
		},
		Now: func() time.Time { return testNow },
		GenerateID: func() string {
			api.seq++
			return fmt.Sprintf("id-%03d", api.seq)
		},
	})
	api.server = httptest.NewServer(api.handler.Router())
	t.Cleanup(api.server.Close)
	return api
}

func (a *testAPI) token(role access.Role) string {
	a.t.Helper()
	token, _, err := a.handler.Tokens().Issue(Principal{
		AccountID: "acct-" + string(role),
		Email:     string(role) + "@sportsschool.test",
		Name:      string(role),
		Role:      role,
	})
	require.NoError(a.t, err)
	return token
}

func (a *testAPI) do(method, path, token string, body any) (*http.Response, []byte) {
	a.t.Helper()
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(buf)
	}
	req, err := http.NewRequest(method, a.server.URL+path, reader)
	require.NoError(a.t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(a.t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(a.t, err)
	return resp, data
}

func decodeInto[T any](t *testing.T, data []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(data, &v), string(data))
	return v
}

func errorCode(t *testing.T, data []byte) errorDetail {
	t.Helper()
	return decodeInto[errorBody](t, data).Error
}

// TestHealthz verifies the unauthenticated health probe.
func TestHealthz(t *testing.T) {
	api := newTestAPI(t)
	resp, body := api.do(http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))
}

// TestAuthentication verifies bearer token handling.
func TestAuthentication(t *testing.T) {
	api := newTestAPI(t)

	tests := []struct {
		name  string
		token string
		want  int
	}{
		{"missing token", "", http.StatusUnauthorized},
		{"garbage token", "not-a-jwt", http.StatusUnauthorized},
		{"valid token", api.token(access.RoleViewer), http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := api.do(http.MethodGet, "/api/v1/me", tt.token, nil)
			assert.Equal(t, tt.want, resp.StatusCode)
			if tt.want == http.StatusUnauthorized {
				assert.Equal(t, CodeUnauthorized, errorCode(t, body).Code)
			}
		})
	}
}

// TestLogin verifies a seeded account can sign in and use the returned token.
func TestLogin(t *testing.T) {
	api := newTestAPI(t)
	_, err := orchestrators.ExecuteCreateAccount(context.Background(), orchestrators.CreateAccountInput{
		Email:    "head@sportsschool.test",
		Name:     "Head Coach",
		Password: "correct horse battery",
		Role:     access.RoleCoach,
	}, orchestrators.CreateAccountDeps{
		AccountStore: api.handler.stores.Accounts,
		GenerateID:   func() string { return "acct-head" },
		Now:          func() time.Time { return testNow },
	})
	require.NoError(t, err)

	resp, body := api.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email": "head@sportsschool.test", "password": "wrong password here",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, CodeInvalidCredentials, errorCode(t, body).Code)

	resp, body = api.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email": "head@sportsschool.test", "password": "correct horse battery",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	login := decodeInto[LoginResponse](t, body)
	assert.Equal(t, access.RoleCoach, login.Account.Role)
	assert.NotEmpty(t, login.Token)

	resp, body = api.do(http.MethodGet, "/api/v1/me", login.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "acct-head", decodeInto[Principal](t, body).AccountID)
}

// TestRBAC verifies the API answers 403 FORBIDDEN for capabilities the role lacks.
func TestRBAC(t *testing.T) {
	api := newTestAPI(t)
	announcement := map[string]any{"title": "Hi", "content": "Body", "audience": []string{"students"}}

	tests := []struct {
		name   string
		role   access.Role
		method string
		path   string
		body   any
		want   int
	}{
		{"viewer cannot create announcements", access.RoleViewer, http.MethodPost, "/api/v1/announcements", announcement, http.StatusForbidden},
		{"viewer cannot list invoices", access.RoleViewer, http.MethodGet, "/api/v1/invoices", nil, http.StatusForbidden},
		{"coach cannot see finance report", access.RoleCoach, http.MethodGet, "/api/v1/reports/finance", nil, http.StatusForbidden},
		{"coach sees attendance report", access.RoleCoach, http.MethodGet, "/api/v1/reports/attendance", nil, http.StatusOK},
		{"finance cannot change settings", access.RoleFinance, http.MethodPut, "/api/v1/settings", map[string]any{}, http.StatusForbidden},
		{"viewer reads settings", access.RoleViewer, http.MethodGet, "/api/v1/settings", nil, http.StatusOK},
		{"coach cannot read diagnostics", access.RoleCoach, http.MethodGet, "/api/v1/diagnostics/perf", nil, http.StatusForbidden},
		{"admin reads diagnostics", access.RoleAdmin, http.MethodGet, "/api/v1/diagnostics/perf", nil, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := api.do(tt.method, tt.path, api.token(tt.role), tt.body)
			assert.Equal(t, tt.want, resp.StatusCode, string(body))
			if tt.want == http.StatusForbidden {
				assert.Equal(t, CodeForbidden, errorCode(t, body).Code)
			}
		})
	}
}

// TestAnnouncementLifecycle verifies create, list, publish and the errors around them.
func TestAnnouncementLifecycle(t *testing.T) {
	api := newTestAPI(t)
	admin := api.token(access.RoleAdmin)

	resp, body := api.do(http.MethodPost, "/api/v1/announcements", admin, map[string]any{
		"title": "", "content": "No title", "audience": []string{"students"},
	})
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	detail := errorCode(t, body)
	assert.Equal(t, CodeValidationFailed, detail.Code)
	assert.Contains(t, detail.Fields, "title")

	resp, body = api.do(http.MethodPost, "/api/v1/announcements", admin, map[string]any{
		"title": "Trials", "content": "Saturday **9am**", "audience": []string{"students", "parents"},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	created := decodeInto[map[string]any](t, body)
	id := created["id"].(string)
	assert.Equal(t, "draft", created["status"])

	resp, body = api.do(http.MethodGet, "/api/v1/announcements?status=draft", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	page := decodeInto[map[string]any](t, body)
	assert.EqualValues(t, 1, page["total"])
	assert.EqualValues(t, 1, page["page"])

	resp, body = api.do(http.MethodPost, "/api/v1/announcements/"+id+"/status", admin, map[string]string{"action": "publish"})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.Equal(t, "published", decodeInto[map[string]any](t, body)["status"])

	resp, body = api.do(http.MethodPost, "/api/v1/announcements/"+id+"/status", admin, map[string]string{"action": "publish"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, CodeConflict, errorCode(t, body).Code)

	resp, body = api.do(http.MethodPost, "/api/v1/announcements/"+id+"/status", admin, map[string]string{"action": "explode"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, string(body))

	resp, body = api.do(http.MethodGet, "/api/v1/announcements/missing", admin, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, CodeNotFound, errorCode(t, body).Code)
}

// TestStudentPaging verifies page and page_size reach the projection.
func TestStudentPaging(t *testing.T) {
	api := newTestAPI(t)
	admin := api.token(access.RoleAdmin)
	for i := 0; i < 25; i++ {
		resp, body := api.do(http.MethodPost, "/api/v1/students", admin, map[string]any{
			"name": fmt.Sprintf("Student %02d", i), "groups": []string{"under-12"},
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	}

	resp, body := api.do(http.MethodGet, "/api/v1/students?page=3&page_size=10&sort=name", api.token(access.RoleViewer), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	page := decodeInto[struct {
		Items []map[string]any `json:"items"`
		Total int              `json:"total"`
		Page  int              `json:"page"`
	}](t, body)
	assert.Equal(t, 25, page.Total)
	assert.Equal(t, 3, page.Page)
	assert.Len(t, page.Items, 5)
	assert.Equal(t, "Student 20", page.Items[0]["name"])
}

// TestInvoiceFlow verifies draft creation, issuing, reminding and voiding.
func TestInvoiceFlow(t *testing.T) {
	api := newTestAPI(t)
	admin := api.token(access.RoleAdmin)
	finance := api.token(access.RoleFinance)

	resp, body := api.do(http.MethodPost, "/api/v1/students", admin, map[string]any{
		"name": "Aroha Ngata", "email": "aroha@example.test",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	studentID := decodeInto[map[string]any](t, body)["id"].(string)

	resp, body = api.do(http.MethodPost, "/api/v1/invoices", finance, map[string]any{
		"student_id": studentID, "description": "Term 1 fees", "amount": "abc", "due_date": "2026-02-15",
	})
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, errorCode(t, body).Fields, "amount")

	resp, body = api.do(http.MethodPost, "/api/v1/invoices", finance, map[string]any{
		"student_id": studentID, "description": "Term 1 fees", "amount": "45.50", "due_date": "2026-02-15",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	inv := decodeInto[map[string]any](t, body)
	id := inv["id"].(string)
	assert.EqualValues(t, 4550, inv["amount_cents"])
	assert.True(t, strings.HasPrefix(inv["number"].(string), "INV-"))

	resp, body = api.do(http.MethodPost, "/api/v1/invoices/"+id+"/remind", finance, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode, "draft invoices cannot be reminded: %s", body)

	resp, body = api.do(http.MethodPost, "/api/v1/invoices/"+id+"/status", finance, map[string]string{"action": "issue"})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	resp, body = api.do(http.MethodPut, "/api/v1/invoices/"+id, finance, map[string]any{
		"student_id": studentID, "description": "Changed", "amount": "10.00", "due_date": "2026-02-15",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode, "issued invoices are not editable: %s", body)

	resp, body = api.do(http.MethodPost, "/api/v1/invoices/"+id+"/remind", finance, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.NotEqual(t, "0001-01-01T00:00:00Z", decodeInto[map[string]any](t, body)["reminded_at"])

	resp, body = api.do(http.MethodGet, "/api/v1/reports/finance?from=2026-01-01&to=2026-03-31", finance, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	report := decodeInto[map[string]any](t, body)
	totals := report["totals"].(map[string]any)
	assert.EqualValues(t, 4550, totals["invoiced"])
	assert.EqualValues(t, 4550, totals["outstanding"])
}

// TestReportRangeValidation verifies bad ranges and kinds.
func TestReportRangeValidation(t *testing.T) {
	api := newTestAPI(t)
	admin := api.token(access.RoleAdmin)

	resp, _ := api.do(http.MethodGet, "/api/v1/reports/attendance?from=2026-03-01&to=2026-01-01", admin, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp, body := api.do(http.MethodGet, "/api/v1/reports/payroll", admin, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, CodeNotFound, errorCode(t, body).Code)
}

// TestPreferencesAreOwnedByCaller verifies preferences are saved for the token's account.
func TestPreferencesAreOwnedByCaller(t *testing.T) {
	api := newTestAPI(t)
	viewer := api.token(access.RoleViewer)

	resp, body := api.do(http.MethodPut, "/api/v1/me/preferences", viewer, map[string]any{
		"account_id": "someone-else", "language": "fr", "digest_frequency": "weekly",
		"dashboard_widgets": []string{"announcements"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.Equal(t, "acct-viewer", decodeInto[map[string]any](t, body)["account_id"])

	resp, body = api.do(http.MethodGet, "/api/v1/me/preferences", viewer, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "fr", decodeInto[map[string]any](t, body)["language"])

	resp, body = api.do(http.MethodGet, "/api/v1/me/preferences", api.token(access.RoleCoach), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "en", decodeInto[map[string]any](t, body)["language"])
}

// TestUnknownFieldsRejected verifies a body with unexpected keys is a 400.
func TestUnknownFieldsRejected(t *testing.T) {
	api := newTestAPI(t)
	resp, body := api.do(http.MethodPost, "/api/v1/coaches", api.token(access.RoleAdmin), map[string]any{
		"name": "Sam", "salary": 100,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, CodeBadRequest, errorCode(t, body).Code)
}

// TestNotFoundRoute verifies unmatched routes use the JSON error shape.
func TestNotFoundRoute(t *testing.T) {
	api := newTestAPI(t)
	resp, body := api.do(http.MethodGet, "/api/v1/nothing-here", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, CodeNotFound, errorCode(t, body).Code)
}

// TestMetricsEndpoint verifies request counters are exported by route pattern.
func TestMetricsEndpoint(t *testing.T) {
	api := newTestAPI(t)
	api.do(http.MethodGet, "/api/v1/students/abc", api.token(access.RoleViewer), nil)

	resp, body := api.do(http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "sportsschool_api_requests_total")
	assert.Contains(t, string(body), `route="/api/v1/students/{id}"`)
}

// TestToAppError verifies internal errors never leak their message.
func TestToAppError(t *testing.T) {
	appErr := toAppError(fmt.Errorf("db exploded: %w", io.ErrUnexpectedEOF))
	assert.Equal(t, http.StatusInternalServerError, appErr.Status)
	assert.Equal(t, CodeInternal, appErr.Code)
	assert.NotContains(t, appErr.Message, "exploded")
}

// TestTokenIssuer_Expiry verifies tokens stop parsing after their ttl.
func TestTokenIssuer_Expiry(t *testing.T) {
	now := testNow
	issuer := NewTokenIssuer([]byte("k"), time.Hour, func() time.Time { return now })
	token, _, err := issuer.Issue(Principal{AccountID: "a1", Role: access.RoleAdmin})
	require.NoError(t, err)

	p, err := issuer.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "a1", p.AccountID)

	now = now.Add(2 * time.Hour)
	_, err = issuer.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	other := NewTokenIssuer([]byte("other"), time.Hour, func() time.Time { return testNow })
	_, err = other.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
