package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sportsschool/internal/domain/announcement"
)

func newTestServer(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL, WithTimeout(2*time.Second))
}

func writeAPIError(w http.ResponseWriter, status int, code, message string, fields map[string]string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	body := map[string]any{"error": map[string]any{"code": code, "message": message, "fields": fields}}
	json.NewEncoder(w).Encode(body)
}

// TestClient_ListSendsTokenAndQuery verifies auth header, query string and envelope decoding.
func TestClient_ListSendsTokenAndQuery(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/announcements", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "trials", r.URL.Query().Get("q"))
		json.NewEncoder(w).Encode(map[string]any{
			"items":     []map[string]any{{"id": "a1", "title": "Trials", "status": "draft"}},
			"total":     21,
			"page":      2,
			"page_size": 20,
		})
	})

	page, err := c.WithToken("tok").ListAnnouncements(context.Background(), url.Values{"q": {"trials"}})
	require.NoError(t, err)
	assert.Equal(t, 21, page.Total)
	assert.Equal(t, 2, page.Page)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Trials", page.Items[0].Title)
}

// TestClient_WithTokenDoesNotMutate verifies WithToken returns an independent copy.
func TestClient_WithTokenDoesNotMutate(t *testing.T) {
	base := New("http://example.test")
	authed := base.WithToken("tok")
	assert.Empty(t, base.token)
	assert.Equal(t, "tok", authed.token)
}

// TestClient_ErrorNormalization verifies every failure becomes a *Error with status and code.
func TestClient_ErrorNormalization(t *testing.T) {
	tests := []struct {
		name          string
		handler       http.HandlerFunc
		wantStatus    int
		wantCode      string
		wantForbidden bool
		wantNotFound  bool
		wantMessage   string
	}{
		{
			name: "forbidden envelope",
			handler: func(w http.ResponseWriter, r *http.Request) {
				writeAPIError(w, http.StatusForbidden, CodeForbidden, "You do not have access", nil)
			},
			wantStatus: 403, wantCode: CodeForbidden, wantForbidden: true, wantMessage: "You do not have access",
		},
		{
			name: "forbidden code on another status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				writeAPIError(w, http.StatusBadRequest, CodeForbidden, "nope", nil)
			},
			wantStatus: 400, wantCode: CodeForbidden, wantForbidden: true, wantMessage: "nope",
		},
		{
			name: "not found",
			handler: func(w http.ResponseWriter, r *http.Request) {
				writeAPIError(w, http.StatusNotFound, CodeNotFound, "Not found", nil)
			},
			wantStatus: 404, wantCode: CodeNotFound, wantNotFound: true, wantMessage: "Not found",
		},
		{
			name: "plain text 502",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "upstream down", http.StatusBadGateway)
			},
			wantStatus: 502, wantMessage: "Bad Gateway",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestServer(t, tt.handler)
			_, err := c.GetAnnouncement(context.Background(), "a1")
			var be *Error
			require.True(t, errors.As(err, &be), "err = %v", err)
			assert.Equal(t, tt.wantStatus, be.Status)
			assert.Equal(t, tt.wantCode, be.Code)
			assert.Equal(t, tt.wantMessage, be.Message)
			assert.Equal(t, tt.wantForbidden, IsForbidden(err))
			assert.Equal(t, tt.wantNotFound, IsNotFound(err))
		})
	}
}

// TestClient_TransportFailure verifies an unreachable backend is a status-less Error.
func TestClient_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	c := New(srv.URL)

	_, err := c.Me(context.Background())
	var be *Error
	require.True(t, errors.As(err, &be))
	assert.Equal(t, 0, be.Status)
	assert.Equal(t, CodeUnavailable, be.Code)
	assert.False(t, IsForbidden(err))
	assert.Equal(t, "Try again", Message(err, "Try again"))
}

// TestClient_ValidationFields verifies 422 fields are exposed for mapping onto the form.
func TestClient_ValidationFields(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		writeAPIError(w, http.StatusUnprocessableEntity, CodeValidationFailed, "Please correct the highlighted fields",
			map[string]string{"title": "Title is required"})
	})
	_, err := c.SaveAnnouncement(context.Background(), "", AnnouncementInput{Content: "x"})
	fields, ok := FieldErrors(err)
	require.True(t, ok)
	assert.Equal(t, "Title is required", fields["title"])
	assert.Equal(t, "Please correct the highlighted fields", Message(err, "fallback"))
}

// TestClient_SaveMethod verifies create posts to the collection and update puts to the item.
func TestClient_SaveMethod(t *testing.T) {
	var got []string
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		got = append(got, r.Method+" "+r.URL.Path)
		json.NewEncoder(w).Encode(announcement.Announcement{ID: "a1"})
	})
	ctx := context.Background()
	_, err := c.SaveAnnouncement(ctx, "", AnnouncementInput{Title: "t"})
	require.NoError(t, err)
	_, err = c.SaveAnnouncement(ctx, "a 1", AnnouncementInput{Title: "t"})
	require.NoError(t, err)
	_, err = c.SetAnnouncementStatus(ctx, "a1", "publish")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"POST /api/v1/announcements",
		"PUT /api/v1/announcements/a 1",
		"POST /api/v1/announcements/a1/status",
	}, got)
}

// TestClient_Observer verifies the observer sees method, path and status.
func TestClient_Observer(t *testing.T) {
	var calls []Call
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeAPIError(w, http.StatusNotFound, CodeNotFound, "Not found", nil)
	}))
	t.Cleanup(srv.Close)
	c := New(srv.URL, WithObserver(func(call Call) { calls = append(calls, call) }))

	_, err := c.GetStudent(context.Background(), "s1")
	require.Error(t, err)
	require.Len(t, calls, 1)
	assert.Equal(t, http.MethodGet, calls[0].Method)
	assert.Equal(t, "/api/v1/students/s1", calls[0].Path)
	assert.Equal(t, http.StatusNotFound, calls[0].Status)
	assert.Error(t, calls[0].Err)
}
