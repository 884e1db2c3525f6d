package dashboard

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Suryadheeraz/Svayam-AMS-main/internal/conversation"
	"github.com/Suryadheeraz/Svayam-AMS-main/internal/db"
	"github.com/Suryadheeraz/Svayam-AMS-main/internal/directory"
	"github.com/Suryadheeraz/Svayam-AMS-main/internal/stats"
	"github.com/gin-gonic/gin"
)

func testOpts(t *testing.T) StartOpts {
	t.Helper()
	gdb, err := db.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	sd, err := db.DefaultSeed()
	if err != nil {
		t.Fatalf("DefaultSeed: %v", err)
	}
	if err := db.Seed(gdb, sd); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	store, err := conversation.NewStore(conversation.StoreOpts{DB: gdb})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	dir, err := directory.New(gdb)
	if err != nil {
		t.Fatalf("directory.New: %v", err)
	}
	return StartOpts{
		Store:     store,
		Directory: dir,
		Stats:     stats.NewAggregator(store, stats.DefaultUnitCost),
	}
}

func testRouter(t *testing.T) (*gin.Engine, StartOpts) {
	t.Helper()
	opts := testOpts(t)
	router, err := NewRouter(opts)
	if err != nil {
		t.Fatalf("NewRouter: %v", err)
	}
	return router, opts
}

func do(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
}

func TestStart_MissingStore(t *testing.T) {
	err := Start(context.Background(), StartOpts{})
	if err == nil {
		t.Fatal("expected error for missing store")
	}
	if !strings.Contains(err.Error(), "store is required") {
		t.Errorf("error = %q, want to contain %q", err.Error(), "store is required")
	}
}

func TestNewRouter_MissingDeps(t *testing.T) {
	opts := testOpts(t)
	tests := []struct {
		name string
		mut  func(*StartOpts)
		want string
	}{
		{"directory", func(o *StartOpts) { o.Directory = nil }, "directory is required"},
		{"stats", func(o *StartOpts) { o.Stats = nil }, "stats aggregator is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := opts
			tt.mut(&o)
			_, err := NewRouter(o)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want to contain %q", err, tt.want)
			}
		})
	}
}

func TestStats(t *testing.T) {
	router, _ := testRouter(t)
	w := do(t, router, http.MethodGet, "/api/stats", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var got statsResponse
	decode(t, w, &got)
	if got.Total != 4 || got.Open != 3 || got.Resolved != 1 {
		t.Errorf("stats = %+v, want total=4 open=3 resolved=1", got.Stats)
	}
	if got.InProgress != 0 {
		t.Errorf("InProgress = %d, want 0", got.InProgress)
	}
	if got.TotalUsers != 4 {
		t.Errorf("TotalUsers = %d, want 4", got.TotalUsers)
	}
}

func TestRequestID(t *testing.T) {
	router, _ := testRouter(t)

	w := do(t, router, http.MethodGet, "/api/stats", "")
	if w.Header().Get(RequestIDHeader) == "" {
		t.Error("response missing X-Request-ID")
	}

	req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if got := w.Header().Get(RequestIDHeader); got != "abc-123" {
		t.Errorf("X-Request-ID = %q, want %q", got, "abc-123")
	}
}

func TestConversationList_Filters(t *testing.T) {
	router, _ := testRouter(t)
	tests := []struct {
		query string
		want  int
	}{
		{"", 4},
		{"?status=open", 3},
		{"?status=resolved", 1},
		{"?q=conv002", 1},
		{"?q=zzz", 0},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			w := do(t, router, http.MethodGet, "/api/conversations"+tt.query, "")
			if w.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", w.Code)
			}
			var body struct {
				Conversations []conversationJSON `json:"conversations"`
			}
			decode(t, w, &body)
			if len(body.Conversations) != tt.want {
				t.Errorf("len = %d, want %d", len(body.Conversations), tt.want)
			}
		})
	}
}

func TestConversationList_BadStatus(t *testing.T) {
	router, _ := testRouter(t)
	w := do(t, router, http.MethodGet, "/api/conversations?status=pending", "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestConversationDetail(t *testing.T) {
	router, _ := testRouter(t)
	w := do(t, router, http.MethodGet, "/api/conversations/CONV002", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var got conversationJSON
	decode(t, w, &got)
	if got.ID != "CONV002" || got.Status != "resolved" {
		t.Errorf("got id=%q status=%q", got.ID, got.Status)
	}
	if got.ResolvedDate == nil || *got.ResolvedDate != "2024-01-15" {
		t.Errorf("ResolvedDate = %v, want 2024-01-15", got.ResolvedDate)
	}
	if len(got.Messages) == 0 || got.Messages[0].Sequence != 1 {
		t.Errorf("messages = %+v, want ordered history", got.Messages)
	}
}

func TestConversationDetail_NotFound(t *testing.T) {
	router, _ := testRouter(t)
	w := do(t, router, http.MethodGet, "/api/conversations/CONV999", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
	if !strings.Contains(w.Body.String(), "not found") {
		t.Errorf("body = %q", w.Body.String())
	}
}

func TestResolve(t *testing.T) {
	router, _ := testRouter(t)

	w := do(t, router, http.MethodPost, "/api/conversations/CONV001/resolve", `{"notes":"fixed"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
	var first struct {
		Resolved     bool             `json:"resolved"`
		Conversation conversationJSON `json:"conversation"`
	}
	decode(t, w, &first)
	if !first.Resolved {
		t.Error("first resolve reported resolved=false")
	}
	msgs := first.Conversation.Messages
	last := msgs[len(msgs)-1]
	if last.Text != conversation.AdminResolvedNotice("fixed") {
		t.Errorf("last message = %q", last.Text)
	}

	w = do(t, router, http.MethodPost, "/api/conversations/CONV001/resolve", `{"notes":"again"}`)
	var second struct {
		Resolved     bool             `json:"resolved"`
		Conversation conversationJSON `json:"conversation"`
	}
	decode(t, w, &second)
	if second.Resolved {
		t.Error("second resolve reported resolved=true")
	}
	if len(second.Conversation.Messages) != len(msgs) {
		t.Errorf("messages grew from %d to %d on repeat resolve", len(msgs), len(second.Conversation.Messages))
	}
	if second.Conversation.ResolutionNotes == nil || *second.Conversation.ResolutionNotes != "fixed" {
		t.Errorf("notes = %v, want fixed", second.Conversation.ResolutionNotes)
	}
}

func TestResolve_NotFound(t *testing.T) {
	router, _ := testRouter(t)
	w := do(t, router, http.MethodPost, "/api/conversations/CONV404/resolve", `{"notes":""}`)
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestResolve_EmptyBody(t *testing.T) {
	router, _ := testRouter(t)

	w := do(t, router, http.MethodPost, "/api/conversations/CONV001/resolve", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
	var got struct {
		Resolved     bool             `json:"resolved"`
		Conversation conversationJSON `json:"conversation"`
	}
	decode(t, w, &got)
	if !got.Resolved || got.Conversation.Status != "resolved" {
		t.Errorf("got resolved=%v status=%q", got.Resolved, got.Conversation.Status)
	}

	w = do(t, router, http.MethodPost, "/api/conversations/NOPE/resolve", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown id status = %d, want 404", w.Code)
	}

	w = do(t, router, http.MethodPost, "/api/conversations/CONV003/resolve", `{"notes":`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("malformed body status = %d, want 400", w.Code)
	}
}

func TestUsers_CRUD(t *testing.T) {
	router, _ := testRouter(t)

	w := do(t, router, http.MethodPost, "/api/users", `{"name":"Eve","email":"eve@company.com","role":"Customer"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("add status = %d: %s", w.Code, w.Body.String())
	}
	var added userJSON
	decode(t, w, &added)
	if added.ID != "usr005" || added.LastLogin != directory.NewUserLastLogin {
		t.Errorf("added = %+v", added)
	}

	w = do(t, router, http.MethodPut, "/api/users/usr005", `{"role":"Admin"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("update status = %d: %s", w.Code, w.Body.String())
	}
	var updated userJSON
	decode(t, w, &updated)
	if updated.Role != "Admin" || updated.Name != "Eve" {
		t.Errorf("updated = %+v", updated)
	}

	w = do(t, router, http.MethodDelete, "/api/users/usr005", "")
	if w.Code != http.StatusNoContent {
		t.Errorf("delete status = %d, want 204", w.Code)
	}

	w = do(t, router, http.MethodGet, "/api/users", "")
	var list struct {
		Users []userJSON `json:"users"`
	}
	decode(t, w, &list)
	if len(list.Users) != 4 {
		t.Errorf("len(users) = %d, want 4", len(list.Users))
	}
}

func TestUsers_Errors(t *testing.T) {
	router, _ := testRouter(t)
	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"add missing fields", http.MethodPost, "/api/users", `{"name":"x"}`, http.StatusBadRequest},
		{"add bad json", http.MethodPost, "/api/users", `{`, http.StatusBadRequest},
		{"update blank name", http.MethodPut, "/api/users/usr001", `{"name":""}`, http.StatusBadRequest},
		{"update missing", http.MethodPut, "/api/users/usr999", `{"name":"x"}`, http.StatusNotFound},
		{"delete missing", http.MethodDelete, "/api/users/usr999", "", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, router, tt.method, tt.path, tt.body)
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d: %s", w.Code, tt.want, w.Body.String())
			}
		})
	}
}

func TestUnknownRoute_Returns404(t *testing.T) {
	router, _ := testRouter(t)
	w := do(t, router, http.MethodGet, "/nonexistent", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

// readEvent returns the next SSE event name and data payload.
func readEvent(t *testing.T, r *bufio.Reader) (string, string) {
	t.Helper()
	var event, data string
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			t.Fatalf("read event: %v", err)
		}
		line = strings.TrimRight(line, "\n")
		switch {
		case strings.HasPrefix(line, "event: "):
			event = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			data = strings.TrimPrefix(line, "data: ")
		case line == "" && event != "":
			return event, data
		}
	}
}

func TestSSE_StreamsStatsOnChange(t *testing.T) {
	router, opts := testRouter(t)
	srv := httptest.NewServer(router)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/events", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET /api/events: %v", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); !strings.Contains(ct, "text/event-stream") {
		t.Errorf("content-type = %q, want text/event-stream", ct)
	}

	r := bufio.NewReader(resp.Body)
	if ev, _ := readEvent(t, r); ev != "connected" {
		t.Fatalf("first event = %q, want connected", ev)
	}
	ev, data := readEvent(t, r)
	if ev != "stats" {
		t.Fatalf("second event = %q, want stats", ev)
	}
	var st stats.Stats
	if err := json.Unmarshal([]byte(data), &st); err != nil {
		t.Fatalf("decode stats: %v", err)
	}
	if st.Total != 4 {
		t.Errorf("initial total = %d, want 4", st.Total)
	}

	if _, err := opts.Store.Create(ctx, "John Doe"); err != nil {
		t.Fatalf("Create: %v", err)
	}
	for {
		ev, data = readEvent(t, r)
		if ev != "stats" {
			continue
		}
		if err := json.Unmarshal([]byte(data), &st); err != nil {
			t.Fatalf("decode stats: %v", err)
		}
		if st.Total == 5 {
			break
		}
	}
	if st.Open != 4 {
		t.Errorf("open = %d, want 4", st.Open)
	}
}

func TestWriteSSE(t *testing.T) {
	var buf bytes.Buffer
	writeSSE(&buf, "stats", map[string]int{"total": 2})
	want := "event: stats\ndata: {\"total\":2}\n\n"
	if buf.String() != want {
		t.Errorf("writeSSE = %q, want %q", buf.String(), want)
	}
}
