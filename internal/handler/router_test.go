package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zaakiraza/ResumeAI-sub001/internal/domain"
	"github.com/zaakiraza/ResumeAI-sub001/internal/repository/memory"
	"github.com/zaakiraza/ResumeAI-sub001/internal/service"
	"github.com/zaakiraza/ResumeAI-sub001/internal/upload"
)

const (
	aliceID int64 = 1
	adminID int64 = 2
)

type fakeUploader struct {
	got    []upload.Request
	result upload.Result
}

func (f *fakeUploader) Upload(_ context.Context, req upload.Request) upload.Result {
	f.got = append(f.got, req)
	return f.result
}

type testAPI struct {
	e             *echo.Echo
	auth          *service.AuthService
	notifications *memory.Notifications
	uploader      *fakeUploader
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	users := memory.NewUsers(
		domain.User{ID: aliceID, Email: "alice@example.com", DisplayName: "Alice"},
		domain.User{ID: adminID, Email: "admin@example.com", DisplayName: "Admin", Role: domain.RoleAdmin},
	)
	notifications := memory.NewNotifications()
	feedback := memory.NewFeedback()

	auth := service.NewAuthService(users, service.AuthConfig{JWTSecret: "test-secret"})
	notificationSvc := service.NewNotificationService(notifications)
	uploader := &fakeUploader{}

	e := NewRouter(Services{
		Auth:          auth,
		Users:         service.NewUserService(users),
		Notifications: notificationSvc,
		Feedback:      service.NewFeedbackService(feedback, users, notificationSvc),
		Uploader:      uploader,
	}, RouterConfig{FrontendURL: "http://localhost:5173"})

	return &testAPI{e: e, auth: auth, notifications: notifications, uploader: uploader}
}

func (a *testAPI) token(t *testing.T, userID int64) string {
	t.Helper()
	pair, err := a.auth.GenerateTokenPair(userID)
	require.NoError(t, err)
	return pair.AccessToken
}

func (a *testAPI) do(t *testing.T, method, path string, userID int64, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if userID != 0 {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+a.token(t, userID))
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Meta  *ListMeta       `json:"meta"`
	Error *APIError       `json:"error"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, data any) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	if data != nil && env.Data != nil {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return env
}

func TestRouter_Health(t *testing.T) {
	api := newTestAPI(t)
	rec := api.do(t, http.MethodGet, "/health", 0, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
}

func TestRouter_RequiresBearerToken(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodGet, "/api/v1/notifications", 0, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	env := decode(t, rec, nil)
	require.NotNil(t, env.Error)
	assert.Equal(t, "unauthorized", env.Error.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/notifications", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer not-a-jwt")
	rec = httptest.NewRecorder()
	api.e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_NotificationLifecycle(t *testing.T) {
	api := newTestAPI(t)
	ctx := context.Background()

	for range 3 {
		_, err := api.notifications.Create(ctx, domain.Notification{UserID: aliceID, Type: domain.NotificationInfo, Title: "t", Message: "m"})
		require.NoError(t, err)
	}
	_, err := api.notifications.Create(ctx, domain.Notification{UserID: adminID, Title: "other user"})
	require.NoError(t, err)

	rec := api.do(t, http.MethodGet, "/api/v1/notifications?limit=2", aliceID, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var items []domain.Notification
	env := decode(t, rec, &items)
	assert.Len(t, items, 2)
	require.NotNil(t, env.Meta)
	assert.True(t, env.Meta.HasNext)
	stats, _ := json.Marshal(env.Meta.Stats)
	assert.JSONEq(t, `{"total":3,"unread":3}`, string(stats))

	rec = api.do(t, http.MethodPatch, "/api/v1/notifications/1/read", aliceID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var n domain.Notification
	decode(t, rec, &n)
	assert.True(t, n.IsRead)
	assert.NotNil(t, n.ReadAt)

	rec = api.do(t, http.MethodPatch, "/api/v1/notifications/1/read", aliceID, nil)
	require.Equal(t, http.StatusOK, rec.Code, "marking read twice is idempotent")

	rec = api.do(t, http.MethodGet, "/api/v1/notifications/stats", aliceID, nil)
	var st domain.NotificationStats
	decode(t, rec, &st)
	assert.Equal(t, domain.NotificationStats{Total: 3, Unread: 2}, st)

	rec = api.do(t, http.MethodDelete, "/api/v1/notifications/4", aliceID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code, "cannot delete another user's notification")

	rec = api.do(t, http.MethodPatch, "/api/v1/notifications/read-all", aliceID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var count countResponse
	decode(t, rec, &count)
	assert.Equal(t, int64(2), count.Count)

	rec = api.do(t, http.MethodDelete, "/api/v1/notifications/1", aliceID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = api.do(t, http.MethodDelete, "/api/v1/notifications", aliceID, nil)
	decode(t, rec, &count)
	assert.Equal(t, int64(2), count.Count)
}

func TestRouter_NotificationBadID(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPatch, "/api/v1/notifications/abc/read", aliceID, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	env := decode(t, rec, nil)
	require.NotNil(t, env.Error)
	assert.Equal(t, "validation_error", env.Error.Code)
}

func TestRouter_Preferences(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPut, "/api/v1/notifications/preferences", aliceID, map[string]any{
		"email":  false,
		"in_app": true,
		"types":  []string{"error"},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = api.do(t, http.MethodGet, "/api/v1/notifications/preferences", aliceID, nil)
	var prefs domain.NotificationPreferences
	decode(t, rec, &prefs)
	assert.False(t, prefs.Email)
	assert.Equal(t, []domain.NotificationType{domain.NotificationError}, prefs.Types)
}

func TestRouter_FeedbackFlow(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPost, "/api/v1/feedback", aliceID, map[string]any{
		"type":        "feature_request",
		"title":       "Dark mode",
		"description": "Please add a dark theme to the editor",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var f domain.Feedback
	decode(t, rec, &f)
	assert.Equal(t, domain.FeedbackPending, f.Status)

	vote := func(v string) domain.Feedback {
		rec := api.do(t, http.MethodPost, "/api/v1/feedback/1/vote", aliceID, map[string]string{"vote": v})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var out domain.Feedback
		decode(t, rec, &out)
		return out
	}
	assert.Equal(t, 1, vote("upvote").NetVotes())
	assert.Equal(t, 0, vote("upvote").NetVotes())
	vote("upvote")
	assert.Equal(t, -1, vote("downvote").NetVotes())

	rec = api.do(t, http.MethodPost, "/api/v1/feedback/1/vote", aliceID, map[string]string{"vote": "sideways"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.do(t, http.MethodPatch, "/api/v1/feedback/1/status", aliceID, map[string]string{"status": "resolved"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = api.do(t, http.MethodPost, "/api/v1/feedback/1/resolve", adminID, map[string]string{"admin_response": "Shipped"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	decode(t, rec, &f)
	assert.Equal(t, domain.FeedbackResolved, f.Status)

	rec = api.do(t, http.MethodGet, "/api/v1/notifications?unread=true", aliceID, nil)
	var items []domain.Notification
	decode(t, rec, &items)
	require.Len(t, items, 1, "author is notified of the resolution")
	assert.Equal(t, domain.NotificationSuccess, items[0].Type)

	rec = api.do(t, http.MethodGet, "/api/v1/feedback/stats", adminID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var stats domain.FeedbackStats
	decode(t, rec, &stats)
	assert.Equal(t, 1, stats.ByStatus[domain.FeedbackResolved])
}

func TestRouter_AnonymousFeedbackValidation(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPost, "/api/v1/feedback/anonymous", 0, map[string]any{
		"type":  "bug_report",
		"title": "x",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.do(t, http.MethodPost, "/api/v1/feedback/anonymous", 0, map[string]any{
		"type":        "bug_report",
		"title":       "Export fails",
		"description": "PDF export returns a blank page",
	})
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func TestRouter_Profile(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPatch, "/api/v1/users/me", aliceID, map[string]string{"headline": "Go developer"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var u domain.User
	decode(t, rec, &u)
	require.NotNil(t, u.Headline)
	assert.Equal(t, "Go developer", *u.Headline)

	rec = api.do(t, http.MethodPatch, "/api/v1/users/me", aliceID, map[string]string{"avatar_url": "not a url"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.do(t, http.MethodGet, "/api/v1/auth/me", aliceID, nil)
	decode(t, rec, &u)
	assert.Equal(t, "alice@example.com", u.Email)
}

func TestRouter_Refresh(t *testing.T) {
	api := newTestAPI(t)
	pair, err := api.auth.GenerateTokenPair(aliceID)
	require.NoError(t, err)

	rec := api.do(t, http.MethodPost, "/api/v1/auth/refresh", 0, map[string]string{"refresh_token": pair.RefreshToken})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = api.do(t, http.MethodPost, "/api/v1/auth/refresh", 0, map[string]string{"refresh_token": pair.AccessToken})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func uploadRequest(t *testing.T, api *testAPI, kind string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if kind != "" {
		require.NoError(t, w.WriteField("kind", kind))
	}
	part, err := w.CreateFormFile("file", "cv.pdf")
	require.NoError(t, err)
	_, _ = part.Write([]byte("%PDF-1.4"))
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/uploads", &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+api.token(t, aliceID))
	rec := httptest.NewRecorder()
	api.e.ServeHTTP(rec, req)
	return rec
}

func TestRouter_UploadSuccess(t *testing.T) {
	api := newTestAPI(t)
	api.uploader.result = upload.Result{Success: true, SecureURL: "https://x/cv.pdf", PublicID: "cv"}

	rec := uploadRequest(t, api, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	require.Len(t, api.uploader.got, 1)
	got := api.uploader.got[0]
	assert.Equal(t, "cv.pdf", got.Filename)
	assert.Equal(t, "resumeai/users/1", got.Folder)
	assert.Equal(t, upload.ResourceAuto, got.ResourceKind)
	assert.Equal(t, []byte("%PDF-1.4"), got.File)
}

func TestRouter_UploadFailureIsBadGateway(t *testing.T) {
	api := newTestAPI(t)
	api.uploader.result = upload.Result{ErrorMessage: "bad preset"}

	rec := uploadRequest(t, api, "image")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	env := decode(t, rec, nil)
	require.NotNil(t, env.Error)
	assert.True(t, strings.HasSuffix(env.Error.Message, "bad preset"), env.Error.Message)
}

func TestRouter_UploadRejectsUnknownKind(t *testing.T) {
	api := newTestAPI(t)

	rec := uploadRequest(t, api, "video")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, api.uploader.got)
}

func TestRouter_FeedbackHidesAdminFields(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPost, "/api/v1/feedback/anonymous", 0, map[string]any{
		"type":          "bug_report",
		"title":         "Export fails",
		"description":   "PDF export returns a blank page",
		"contact_email": "reporter@example.com",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "reporter@example.com")

	rec = api.do(t, http.MethodPatch, "/api/v1/feedback/1/notes", adminID, map[string]string{"notes": "likely duplicate of #12"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var f domain.Feedback
	decode(t, rec, &f)
	require.NotNil(t, f.AdminNotes)
	require.NotNil(t, f.ContactEmail)

	for _, req := range []struct {
		method, path string
		body         any
	}{
		{http.MethodGet, "/api/v1/feedback/1", nil},
		{http.MethodPost, "/api/v1/feedback/1/vote", map[string]string{"vote": "upvote"}},
	} {
		rec = api.do(t, req.method, req.path, aliceID, req.body)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		body := rec.Body.String()
		assert.NotContains(t, body, "admin_notes", req.path)
		assert.NotContains(t, body, "contact_email", req.path)
	}

	rec = api.do(t, http.MethodGet, "/api/v1/feedback/1", adminID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "likely duplicate of #12")
}

func TestRouter_ListLimitBounds(t *testing.T) {
	api := newTestAPI(t)

	for _, path := range []string{
		"/api/v1/notifications?limit=0",
		"/api/v1/feedback/mine?limit=0",
		"/api/v1/notifications?offset=-1",
	} {
		rec := api.do(t, http.MethodGet, path, aliceID, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, path)
		env := decode(t, rec, nil)
		require.NotNil(t, env.Error, path)
		assert.Equal(t, "validation_error", env.Error.Code)
	}

	rec := api.do(t, http.MethodGet, "/api/v1/notifications?limit=500", aliceID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	env := decode(t, rec, nil)
	require.NotNil(t, env.Meta)
	assert.Equal(t, maxPageSize, env.Meta.Limit)
}
