package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"batepapo/internal/app/chat"
	"batepapo/internal/app/store"
	"batepapo/internal/configs"
	"batepapo/internal/handler"
	"batepapo/internal/pkg/clockx"
	"batepapo/internal/pkg/errs"
)

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// newTestRouter wires a full router over in-memory stores with a fake clock.
func newTestRouter(t *testing.T) (http.Handler, *chat.Service) {
	t.Helper()

	clock := clockx.NewFake(time.Date(2023, 5, 1, 12, 0, 0, 0, time.UTC))
	feed := chat.NewFeed()
	registry := chat.NewRegistry(store.NewMemoryParticipants(), clock)
	log := chat.NewLog(store.NewMemoryMessages(), registry, clock, feed)
	service := chat.NewService(registry, log, feed)

	cfg := &configs.AppConfig{
		Environment:    "development",
		Port:           5000,
		AllowedOrigins: []string{},
	}

	return handler.Router(&handler.AppDeps{Service: service, Config: cfg}), service
}

func doJSON(t *testing.T, router http.Handler, method, target, user string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	r := httptest.NewRequest(method, target, reader)
	if body != nil {
		r.Header.Set("Content-Type", "application/json")
	}
	if user != "" {
		r.Header.Set("User", user)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return w, env
}

func TestHandleJoin(t *testing.T) {
	router, _ := newTestRouter(t)

	w, env := doJSON(t, router, http.MethodPost, "/participants", "", map[string]string{"name": "alice"})
	require.Equal(t, http.StatusCreated, w.Code)
	require.Equal(t, 0, env.Code)

	var p chat.Participant
	require.NoError(t, json.Unmarshal(env.Data, &p))
	require.Equal(t, "alice", p.Name)

	// Duplicate name conflicts; the first participant stays.
	w, env = doJSON(t, router, http.MethodPost, "/participants", "", map[string]string{"name": "alice"})
	require.Equal(t, http.StatusConflict, w.Code)
	require.Equal(t, errs.ErrNameTaken, env.Code)

	w, _ = doJSON(t, router, http.MethodGet, "/participants", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestHandleJoin_RejectsInvalidName(t *testing.T) {
	router, _ := newTestRouter(t)

	for _, name := range []string{"", "not a name", "<script></script>"} {
		w, env := doJSON(t, router, http.MethodPost, "/participants", "", map[string]string{"name": name})
		require.Equal(t, http.StatusUnprocessableEntity, w.Code, "name %q", name)
		require.Equal(t, errs.ErrInvalidParams, env.Code)
	}
}

func TestHandleJoin_StripsMarkupFromName(t *testing.T) {
	router, _ := newTestRouter(t)

	_, env := doJSON(t, router, http.MethodPost, "/participants", "", map[string]string{"name": "<b>alice</b>"})

	var p chat.Participant
	require.NoError(t, json.Unmarshal(env.Data, &p))
	require.Equal(t, "alice", p.Name)
}

func TestHandleStatus(t *testing.T) {
	router, _ := newTestRouter(t)

	w, env := doJSON(t, router, http.MethodPost, "/status", "bob", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Equal(t, errs.ErrParticipantNotFound, env.Code)

	_, _ = doJSON(t, router, http.MethodPost, "/participants", "", map[string]string{"name": "bob"})

	w, env = doJSON(t, router, http.MethodPost, "/status", "bob", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, 0, env.Code)
}

func TestHandlePostMessage(t *testing.T) {
	router, _ := newTestRouter(t)
	_, _ = doJSON(t, router, http.MethodPost, "/participants", "", map[string]string{"name": "alice"})

	body := map[string]string{"to": "Todos", "text": "hi", "type": "message"}
	w, env := doJSON(t, router, http.MethodPost, "/messages", "alice", body)
	require.Equal(t, http.StatusCreated, w.Code)
	require.Equal(t, 0, env.Code)

	var m chat.Message
	require.NoError(t, json.Unmarshal(env.Data, &m))
	require.Equal(t, "alice", m.From)
	require.Equal(t, chat.KindMessage, m.Kind)
	require.NotEmpty(t, m.ID)

	// Unknown author is rejected even though the payload is well-formed.
	w, env = doJSON(t, router, http.MethodPost, "/messages", "ghost", body)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	require.Equal(t, errs.ErrAuthorNotActive, env.Code)

	// Kind outside the user-postable set is rejected.
	w, _ = doJSON(t, router, http.MethodPost, "/messages", "alice",
		map[string]string{"to": "Todos", "text": "x", "type": "status"})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestHandleListMessages_VisibilityAndLimit(t *testing.T) {
	router, _ := newTestRouter(t)
	_, _ = doJSON(t, router, http.MethodPost, "/participants", "", map[string]string{"name": "alice"})
	_, _ = doJSON(t, router, http.MethodPost, "/participants", "", map[string]string{"name": "bob"})

	_, _ = doJSON(t, router, http.MethodPost, "/messages", "alice",
		map[string]string{"to": "bob", "text": "psst", "type": "private_message"})
	for i := 0; i < 3; i++ {
		_, _ = doJSON(t, router, http.MethodPost, "/messages", "alice",
			map[string]string{"to": "Todos", "text": fmt.Sprintf("msg-%d", i), "type": "message"})
	}

	var visible []chat.Message

	// Carol never joined: two join announcements plus three broadcasts, no private.
	w, env := doJSON(t, router, http.MethodGet, "/messages", "carol", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &visible))
	require.Len(t, visible, 5)
	for _, m := range visible {
		require.NotEqual(t, chat.KindPrivate, m.Kind)
	}

	// Bob also sees the private message.
	_, env = doJSON(t, router, http.MethodGet, "/messages", "bob", nil)
	require.NoError(t, json.Unmarshal(env.Data, &visible))
	require.Len(t, visible, 6)

	// Limit returns the most recent entries, oldest first.
	_, env = doJSON(t, router, http.MethodGet, "/messages?limit=2", "carol", nil)
	require.NoError(t, json.Unmarshal(env.Data, &visible))
	require.Len(t, visible, 2)
	require.Equal(t, "msg-1", visible[0].Text)
	require.Equal(t, "msg-2", visible[1].Text)

	// Malformed limit is a validation failure.
	w, _ = doJSON(t, router, http.MethodGet, "/messages?limit=abc", "carol", nil)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestHandleDeleteMessage(t *testing.T) {
	router, _ := newTestRouter(t)
	_, _ = doJSON(t, router, http.MethodPost, "/participants", "", map[string]string{"name": "alice"})

	_, env := doJSON(t, router, http.MethodPost, "/messages", "alice",
		map[string]string{"to": "Todos", "text": "oops", "type": "message"})
	var m chat.Message
	require.NoError(t, json.Unmarshal(env.Data, &m))

	// Non-author is forbidden and the message survives.
	w, env := doJSON(t, router, http.MethodDelete, "/messages/"+m.ID, "bob", nil)
	require.Equal(t, http.StatusForbidden, w.Code)
	require.Equal(t, errs.ErrNotMessageAuthor, env.Code)

	// Unknown id is not found.
	w, _ = doJSON(t, router, http.MethodDelete, "/messages/no-such-id", "alice", nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	// The author may delete, after which retrieval no longer includes it.
	w, _ = doJSON(t, router, http.MethodDelete, "/messages/"+m.ID, "alice", nil)
	require.Equal(t, http.StatusOK, w.Code)

	_, env = doJSON(t, router, http.MethodGet, "/messages", "alice", nil)
	var visible []chat.Message
	require.NoError(t, json.Unmarshal(env.Data, &visible))
	require.NotContains(t, visible, m)
}

func TestHandlePostMessage_RejectsMissingBody(t *testing.T) {
	router, _ := newTestRouter(t)

	r := httptest.NewRequest(http.MethodPost, "/messages", nil)
	r.Header.Set("User", "alice")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	require.Equal(t, http.StatusUnsupportedMediaType, w.Code)
}

func TestHealthEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	w, env := doJSON(t, router, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, 0, env.Code)
}
