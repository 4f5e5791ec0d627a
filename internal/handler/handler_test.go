package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"kinship/backend/docs"
	"kinship/backend/internal/account"
	"kinship/backend/internal/favorite"
	"kinship/backend/internal/handler"
	"kinship/backend/internal/hub"
	"kinship/backend/internal/models"
	"kinship/backend/internal/relationship"
	"kinship/backend/internal/store/memory"
	"kinship/backend/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"
)

const jwtSecret = "handler-test-secret"

type testServer struct {
	router *gin.Engine
	hub    *hub.Hub
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := logrus.New()
	log.SetOutput(io.Discard)

	backend := memory.New()
	events := hub.New(log)
	h := handler.New(handler.Deps{
		Users:         user.NewService(backend.Users(), log),
		Accounts:      account.NewService(backend, events, log),
		Relationships: relationship.NewEngine(backend, events, log),
		Favorites:     favorite.NewService(backend.Marks(), models.CollectionFavorites, log),
		Likes:         favorite.NewService(backend.Marks(), models.CollectionLikes, log),
		Hub:           events,
		JWTSecret:     jwtSecret,
		JWTTTL:        time.Hour,
		KeepAlive:     time.Hour,
		Log:           log,
	})

	r := gin.New()
	handler.Register(r, h.Routes(), jwtSecret)
	return &testServer{router: r, hub: events}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) register(t *testing.T, username string) string {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/v1/auth/register", "", handler.RegisterInput{Username: username, Password: "password123"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp handler.TokenResponse
	decode(t, w, &resp)
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func (s *testServer) me(t *testing.T, token string) uuid.UUID {
	t.Helper()
	w := s.do(t, http.MethodGet, "/api/v1/users/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp handler.PrivateUserResponse
	decode(t, w, &resp)
	return resp.ID
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func TestPing(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodGet, "/ping", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "pong")
}

func TestSwaggerDocumentMatchesRoutes(t *testing.T) {
	raw, err := swag.ReadDoc(docs.SwaggerInfo.InstanceName())
	require.NoError(t, err)
	var doc struct {
		BasePath string                                `json:"basePath"`
		Paths    map[string]map[string]json.RawMessage `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))

	param := regexp.MustCompile(`:(\w+)`)
	documented := 0
	for _, rt := range handler.New(handler.Deps{}).Routes() {
		path, versioned := strings.CutPrefix(rt.Path, doc.BasePath)
		if !versioned {
			assert.NotContains(t, doc.Paths, rt.Path, "%s is served outside the base path", rt.Path)
			continue
		}
		path = param.ReplaceAllString(path, "{$1}")
		assert.Contains(t, doc.Paths[path], strings.ToLower(rt.Method), "%s %s is not documented", rt.Method, rt.Path)
		documented++
	}

	operations := 0
	for _, methods := range doc.Paths {
		operations += len(methods)
	}
	assert.Equal(t, documented, operations, "every documented operation is served")
}

func TestAuthFlow(t *testing.T) {
	s := newTestServer(t)
	token := s.register(t, "alice")

	w := s.do(t, http.MethodPost, "/api/v1/auth/register", "", handler.RegisterInput{Username: "alice", Password: "password123"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/auth/register", "", handler.RegisterInput{Username: "carol", Password: "short"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/auth/login", "", handler.LoginInput{Username: "alice", Password: "wrong-password"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/auth/login", "", handler.LoginInput{Username: "nobody", Password: "password123"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/auth/login", "", handler.LoginInput{Username: "alice", Password: "password123"})
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/users/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var me handler.PrivateUserResponse
	decode(t, w, &me)
	assert.Equal(t, "alice", me.Username)

	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, "/api/v1/users/me", "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, "/api/v1/users/me", "not-a-token", nil).Code)
}

func TestRelationshipLifecycle(t *testing.T) {
	s := newTestServer(t)
	alice := s.register(t, "alice")
	bob := s.register(t, "bob")

	w := s.do(t, http.MethodPost, "/api/v1/relationships/requests/bob", alice, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var sent handler.RequestMessage
	decode(t, w, &sent)
	assert.Equal(t, "alice", sent.Request.From)
	assert.Equal(t, "bob", sent.Request.To)
	assert.Equal(t, models.KindFriend, sent.Request.Kind)
	assert.Equal(t, models.RequestPending, sent.Request.Status)

	// a crossed request is a duplicate
	w = s.do(t, http.MethodPost, "/api/v1/relationships/requests/alice", bob, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/relationships/requests", bob, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var pending handler.RequestListMessage
	decode(t, w, &pending)
	require.Len(t, pending.Requests, 1)
	assert.Equal(t, "alice", pending.Requests[0].From)

	// only the recipient can accept
	w = s.do(t, http.MethodPut, "/api/v1/relationships/accept/bob", alice, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodPut, "/api/v1/relationships/accept/alice", bob, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var accepted handler.RelationshipMessage
	decode(t, w, &accepted)
	assert.Equal(t, "alice", accepted.Relationship.User)

	w = s.do(t, http.MethodGet, "/api/v1/relationships?kind=friend", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var rels handler.RelationshipListMessage
	decode(t, w, &rels)
	require.Len(t, rels.Relationships, 1)
	assert.Equal(t, "bob", rels.Relationships[0].User)

	w = s.do(t, http.MethodPost, "/api/v1/relationships/requests/bob", alice, handler.KindInput{Kind: "partner"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	decode(t, w, &sent)
	assert.Equal(t, models.KindPartner, sent.Request.Kind)

	w = s.do(t, http.MethodDelete, "/api/v1/relationships/requests/bob?kind=partner", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/users/bob", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var profile handler.PublicUserResponse
	decode(t, w, &profile)
	assert.Equal(t, []models.Kind{models.KindFriend}, profile.Relationships)

	w = s.do(t, http.MethodGet, "/api/v1/users/bob", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	profile = handler.PublicUserResponse{}
	decode(t, w, &profile)
	assert.Empty(t, profile.Relationships)

	w = s.do(t, http.MethodDelete, "/api/v1/relationships/alice", bob, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = s.do(t, http.MethodDelete, "/api/v1/relationships/alice", bob, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/relationships", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	rels = handler.RelationshipListMessage{}
	decode(t, w, &rels)
	assert.Empty(t, rels.Relationships)
}

func TestRejectAllowsRetry(t *testing.T) {
	s := newTestServer(t)
	alice := s.register(t, "alice")
	bob := s.register(t, "bob")

	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/api/v1/relationships/requests/bob", alice, nil).Code)

	w := s.do(t, http.MethodPut, "/api/v1/relationships/reject/alice", bob, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var rejected handler.RequestMessage
	decode(t, w, &rejected)
	assert.Equal(t, models.RequestRejected, rejected.Request.Status)

	assert.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/api/v1/relationships/requests/bob", alice, nil).Code)
}

func TestRelationshipErrors(t *testing.T) {
	s := newTestServer(t)
	alice := s.register(t, "alice")
	s.register(t, "bob")

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		body   any
		status int
	}{
		{"unauthenticated", http.MethodPost, "/api/v1/relationships/requests/bob", "", nil, http.StatusUnauthorized},
		{"unknown user", http.MethodPost, "/api/v1/relationships/requests/nobody", alice, nil, http.StatusNotFound},
		{"unknown kind", http.MethodPost, "/api/v1/relationships/requests/bob?kind=follow", alice, nil, http.StatusBadRequest},
		{"unknown kind in body", http.MethodPost, "/api/v1/relationships/requests/bob", alice, handler.KindInput{Kind: "enemy"}, http.StatusBadRequest},
		{"self", http.MethodPost, "/api/v1/relationships/requests/alice", alice, nil, http.StatusForbidden},
		{"partner before friend", http.MethodPost, "/api/v1/relationships/requests/bob?kind=partner", alice, nil, http.StatusForbidden},
		{"accept without request", http.MethodPut, "/api/v1/relationships/accept/bob", alice, nil, http.StatusNotFound},
		{"reject without request", http.MethodPut, "/api/v1/relationships/reject/bob", alice, nil, http.StatusNotFound},
		{"withdraw without request", http.MethodDelete, "/api/v1/relationships/requests/bob", alice, nil, http.StatusNotFound},
		{"remove without relationship", http.MethodDelete, "/api/v1/relationships/bob", alice, nil, http.StatusNotFound},
		{"list with bad kind", http.MethodGet, "/api/v1/relationships?kind=x", alice, nil, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(t, tt.method, tt.path, tt.token, tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())

			var resp handler.ErrorResponse
			decode(t, w, &resp)
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestFavoritesAndLikes(t *testing.T) {
	s := newTestServer(t)
	alice := s.register(t, "alice")
	bob := s.register(t, "bob")

	assert.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/api/v1/favorites/post/p1", alice, nil).Code)
	assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodPost, "/api/v1/favorites/post/p1", alice, nil).Code)
	assert.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/api/v1/favorites/reply/r1", alice, nil).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodPost, "/api/v1/favorites/photo/x", alice, nil).Code)

	w := s.do(t, http.MethodGet, "/api/v1/favorites?type=post", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list handler.MarkListMessage
	decode(t, w, &list)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "p1", list.Items[0].ItemID)

	w = s.do(t, http.MethodGet, "/api/v1/favorites", bob, nil)
	require.Equal(t, http.StatusOK, w.Code)
	list = handler.MarkListMessage{}
	decode(t, w, &list)
	assert.Empty(t, list.Items)

	assert.Equal(t, http.StatusOK, s.do(t, http.MethodDelete, "/api/v1/favorites/post/p1", alice, nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodDelete, "/api/v1/favorites/post/p1", alice, nil).Code)

	for _, token := range []string{alice, bob} {
		require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/api/v1/likes/post/p9", token, nil).Code)
	}
	w = s.do(t, http.MethodGet, "/api/v1/likes/post/p9/count", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var count handler.CountResponse
	decode(t, w, &count)
	assert.EqualValues(t, 2, count.Count)

	// favorites and likes are separate collections
	w = s.do(t, http.MethodGet, "/api/v1/favorites?type=post", bob, nil)
	list = handler.MarkListMessage{}
	decode(t, w, &list)
	assert.Empty(t, list.Items)
}

func TestRegisterRejectsOverlongPassword(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/v1/auth/register", "", handler.RegisterInput{Username: "longpw", Password: strings.Repeat("x", 80)})
	assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "at most 72 bytes")

	w = s.do(t, http.MethodPost, "/api/v1/auth/register", "", handler.RegisterInput{Username: "longpw", Password: strings.Repeat("x", 72)})
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func TestSearchUsers(t *testing.T) {
	s := newTestServer(t)
	alice := s.register(t, "alice")
	bob := s.register(t, "bob")
	s.register(t, "Alina")
	s.register(t, "carol")

	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/api/v1/relationships/requests/bob", alice, nil).Code)
	require.Equal(t, http.StatusOK, s.do(t, http.MethodPut, "/api/v1/relationships/accept/alice", bob, nil).Code)

	w := s.do(t, http.MethodGet, "/api/v1/users?q=ALI", bob, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var list handler.UserListMessage
	decode(t, w, &list)
	require.Len(t, list.Users, 2)
	assert.Equal(t, "alice", list.Users[0].Username)
	assert.Equal(t, []models.Kind{models.KindFriend}, list.Users[0].Relationships)
	assert.Equal(t, "Alina", list.Users[1].Username)
	assert.Empty(t, list.Users[1].Relationships)

	w = s.do(t, http.MethodGet, "/api/v1/users", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	list = handler.UserListMessage{}
	decode(t, w, &list)
	names := make([]string, 0, len(list.Users))
	for _, u := range list.Users {
		names = append(names, u.Username)
	}
	assert.Equal(t, []string{"Alina", "bob", "carol"}, names, "the caller is left out")

	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, "/api/v1/users?q=a", "", nil).Code)
}

func TestUpdateMe(t *testing.T) {
	s := newTestServer(t)
	alice := s.register(t, "alice")
	s.register(t, "bob")

	w := s.do(t, http.MethodPatch, "/api/v1/users/me", alice, handler.UpdateUserInput{Username: "alicia"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp handler.UserMessage
	decode(t, w, &resp)
	assert.Equal(t, "alicia", resp.User.Username)

	// the token names the id, so it survives a rename
	w = s.do(t, http.MethodGet, "/api/v1/users/me", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var me handler.PrivateUserResponse
	decode(t, w, &me)
	assert.Equal(t, "alicia", me.Username)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/api/v1/users/alice", "", nil).Code)

	w = s.do(t, http.MethodPatch, "/api/v1/users/me", alice, handler.UpdateUserInput{Password: "new-password"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, http.StatusUnauthorized,
		s.do(t, http.MethodPost, "/api/v1/auth/login", "", handler.LoginInput{Username: "alicia", Password: "password123"}).Code)
	assert.Equal(t, http.StatusOK,
		s.do(t, http.MethodPost, "/api/v1/auth/login", "", handler.LoginInput{Username: "alicia", Password: "new-password"}).Code)

	testCases := []struct {
		name   string
		token  string
		body   any
		status int
	}{
		{"Taken username", alice, handler.UpdateUserInput{Username: "bob"}, http.StatusConflict},
		{"Nothing to change", alice, handler.UpdateUserInput{}, http.StatusBadRequest},
		{"Bad username", alice, handler.UpdateUserInput{Username: "a b"}, http.StatusBadRequest},
		{"Overlong password", alice, handler.UpdateUserInput{Password: strings.Repeat("x", 80)}, http.StatusBadRequest},
		{"Not JSON", alice, "username", http.StatusBadRequest},
		{"No token", "", handler.UpdateUserInput{Username: "zed"}, http.StatusUnauthorized},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := s.do(t, http.MethodPatch, "/api/v1/users/me", tc.token, tc.body)
			assert.Equal(t, tc.status, w.Code, w.Body.String())
		})
	}
}

func TestDeleteMe(t *testing.T) {
	s := newTestServer(t)
	alice := s.register(t, "alice")
	bob := s.register(t, "bob")
	carol := s.register(t, "carol")

	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/api/v1/relationships/requests/bob", alice, nil).Code)
	require.Equal(t, http.StatusOK, s.do(t, http.MethodPut, "/api/v1/relationships/accept/alice", bob, nil).Code)
	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/api/v1/relationships/requests/carol", alice, nil).Code)
	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/api/v1/likes/post/p1", alice, nil).Code)
	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/api/v1/likes/post/p1", bob, nil).Code)

	w := s.do(t, http.MethodDelete, "/api/v1/users/me", alice, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, "/api/v1/users/me", alice, nil).Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodDelete, "/api/v1/users/me", alice, nil).Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodPost, "/api/v1/relationships/requests/carol", alice, nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/api/v1/users/alice", "", nil).Code)
	assert.Equal(t, http.StatusNotFound,
		s.do(t, http.MethodPost, "/api/v1/auth/login", "", handler.LoginInput{Username: "alice", Password: "password123"}).Code)

	w = s.do(t, http.MethodGet, "/api/v1/relationships", bob, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var rels handler.RelationshipListMessage
	decode(t, w, &rels)
	assert.Empty(t, rels.Relationships)

	for _, token := range []string{bob, carol} {
		w = s.do(t, http.MethodGet, "/api/v1/relationships/requests", token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		var reqs handler.RequestListMessage
		decode(t, w, &reqs)
		assert.Empty(t, reqs.Requests)
	}

	w = s.do(t, http.MethodGet, "/api/v1/likes/post/p1/count", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var count handler.CountResponse
	decode(t, w, &count)
	assert.EqualValues(t, 1, count.Count)

	// the username is free again
	s.register(t, "alice")
}

// syncRecorder lets the test read the body while the handler is still
// streaming into it.
type syncRecorder struct {
	*httptest.ResponseRecorder
	mu sync.Mutex
}

func (r *syncRecorder) Write(b []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ResponseRecorder.Write(b)
}

func (r *syncRecorder) WriteString(s string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ResponseRecorder.WriteString(s)
}

func (r *syncRecorder) Flush() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ResponseRecorder.Flush()
}

func (r *syncRecorder) body() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.Body.String()
}

func TestEventsStream(t *testing.T) {
	s := newTestServer(t)
	alice := s.register(t, "alice")
	bob := s.register(t, "bob")
	bobID := s.me(t, bob)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/relationships/events", nil).WithContext(ctx)
	req.Header.Set("Authorization", "Bearer "+bob)
	rec := &syncRecorder{ResponseRecorder: httptest.NewRecorder()}

	done := make(chan struct{})
	go func() {
		defer close(done)
		s.router.ServeHTTP(rec, req)
	}()

	require.Eventually(t, func() bool { return s.hub.Subscribers(bobID) == 1 }, 2*time.Second, 10*time.Millisecond)
	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/api/v1/relationships/requests/bob", alice, nil).Code)

	require.Eventually(t, func() bool {
		return strings.Contains(rec.body(), relationship.EventRequestReceived)
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("event stream did not stop after the client went away")
	}

	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.body(), "data: "))
	assert.Zero(t, s.hub.Subscribers(bobID))
}
