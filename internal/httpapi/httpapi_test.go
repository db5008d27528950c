package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/predictionbingo/backend/internal/auth"
	"github.com/predictionbingo/backend/internal/service"
	"github.com/predictionbingo/backend/internal/storage/sqlite"
)

type testServer struct {
	*httptest.Server
	t *testing.T
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	identity := auth.NewIdentity(store, jwtManager)
	groups := service.NewGroupService(store)
	predictions := service.NewPredictionService(store, groups)
	cards := service.NewCardService(store)

	handler := SetupRoutes(NewHandlers(identity, groups, predictions, cards), jwtManager)
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return &testServer{Server: server, t: t}
}

// do sends a JSON request, optionally authenticated, and decodes the
// response body into out when out is non-nil.
func (s *testServer) do(method, path, token string, body, out any) int {
	s.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			s.t.Fatalf("failed to encode body: %v", err)
		}
	}

	req, err := http.NewRequest(method, s.URL+path, &buf)
	if err != nil {
		s.t.Fatalf("failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.Client().Do(req)
	if err != nil {
		s.t.Fatalf("%s %s failed: %v", method, path, err)
	}
	defer resp.Body.Close()

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			s.t.Fatalf("%s %s: failed to decode response: %v", method, path, err)
		}
	}
	return resp.StatusCode
}

func (s *testServer) signIn(username string) string {
	s.t.Helper()

	var resp struct {
		Token string `json:"token"`
	}
	status := s.do(http.MethodPost, "/api/signin", "", map[string]string{"username": username}, &resp)
	if status != http.StatusOK {
		s.t.Fatalf("signin returned %d", status)
	}
	if resp.Token == "" {
		s.t.Fatal("signin returned empty token")
	}
	return resp.Token
}

func (s *testServer) createGroup(token, name string) string {
	s.t.Helper()

	var resp struct {
		ID string `json:"id"`
	}
	status := s.do(http.MethodPost, "/api/groups", token, map[string]string{"name": name}, &resp)
	if status != http.StatusCreated {
		s.t.Fatalf("create group returned %d", status)
	}
	return resp.ID
}

func TestFullGameRoundTrip(t *testing.T) {
	srv := newTestServer(t)

	alice := srv.signIn("alice")
	bob := srv.signIn("bob")

	groupID := srv.createGroup(alice, "Office Predictions")

	// bob joins during the submission phase.
	var joinResp struct {
		AlreadyMember bool `json:"already_member"`
	}
	if status := srv.do(http.MethodPost, "/api/groups/"+groupID+"/join", bob, nil, &joinResp); status != http.StatusOK {
		t.Fatalf("join returned %d", status)
	}
	if joinResp.AlreadyMember {
		t.Error("first join flagged already_member")
	}

	// Both members submit; the second submission completes coverage.
	var submitResp struct {
		AutoActivated bool `json:"auto_activated"`
	}
	status := srv.do(http.MethodPost, "/api/groups/"+groupID+"/predictions", alice,
		map[string][]string{"predictions": {"alice one", "alice two"}}, &submitResp)
	if status != http.StatusCreated {
		t.Fatalf("alice submit returned %d", status)
	}
	if submitResp.AutoActivated {
		t.Error("group activated before full coverage")
	}

	status = srv.do(http.MethodPost, "/api/groups/"+groupID+"/predictions", bob,
		map[string][]string{"predictions": {"bob one"}}, &submitResp)
	if status != http.StatusCreated {
		t.Fatalf("bob submit returned %d", status)
	}
	if !submitResp.AutoActivated {
		t.Error("expected auto-activation after full coverage")
	}

	// The card now has 25 cells, 3 prediction cells, and a completed FREE cell.
	var cardResp struct {
		Group struct {
			Status string `json:"status"`
		} `json:"group"`
		Cells []struct {
			Type         string `json:"type"`
			PredictionID string `json:"prediction_id"`
			Completed    bool   `json:"completed"`
		} `json:"cells"`
		Colors map[string]string `json:"colors"`
	}
	if status := srv.do(http.MethodGet, "/api/groups/"+groupID+"/card", alice, nil, &cardResp); status != http.StatusOK {
		t.Fatalf("card returned %d", status)
	}
	if cardResp.Group.Status != "active" {
		t.Errorf("group status = %s, want active", cardResp.Group.Status)
	}
	if len(cardResp.Cells) != 25 {
		t.Fatalf("expected 25 cells, got %d", len(cardResp.Cells))
	}
	if len(cardResp.Colors) != 2 {
		t.Errorf("expected colors for 2 submitters, got %d", len(cardResp.Colors))
	}
	var predID string
	for _, cell := range cardResp.Cells {
		if cell.Type == "prediction" && predID == "" {
			predID = cell.PredictionID
		}
	}
	if predID == "" {
		t.Fatal("no prediction cell on card")
	}

	// bob toggles a cell; alice sees it completed on her next card load.
	var toggleResp struct {
		Completed bool `json:"completed"`
	}
	if status := srv.do(http.MethodPost, "/api/groups/"+groupID+"/card/toggle", bob,
		map[string]string{"prediction_id": predID}, &toggleResp); status != http.StatusOK {
		t.Fatalf("toggle returned %d", status)
	}
	if !toggleResp.Completed {
		t.Error("expected toggle to mark the cell completed")
	}

	// Reset before re-decoding: prediction_id is omitempty, so decoding the
	// reshuffled card into the already-populated struct would leave stale
	// PredictionID values on cells that are now placeholders.
	cardResp.Cells = nil
	if status := srv.do(http.MethodGet, "/api/groups/"+groupID+"/card", alice, nil, &cardResp); status != http.StatusOK {
		t.Fatalf("card reload returned %d", status)
	}
	var seen bool
	for _, cell := range cardResp.Cells {
		if cell.PredictionID == predID {
			seen = true
			if !cell.Completed {
				t.Error("toggled cell not completed on reload")
			}
		}
	}
	if !seen {
		t.Error("toggled prediction missing from reloaded card")
	}
}

func TestAuthRequired(t *testing.T) {
	srv := newTestServer(t)

	if status := srv.do(http.MethodPost, "/api/groups", "", map[string]string{"name": "X"}, nil); status != http.StatusUnauthorized {
		t.Errorf("missing token: status %d, want 401", status)
	}
	if status := srv.do(http.MethodPost, "/api/groups", "not-a-token", map[string]string{"name": "X"}, nil); status != http.StatusUnauthorized {
		t.Errorf("garbage token: status %d, want 401", status)
	}

	// Public endpoints stay open.
	if status := srv.do(http.MethodGet, "/healthz", "", nil, nil); status != http.StatusOK {
		t.Errorf("healthz status %d, want 200", status)
	}
	var paletteResp struct {
		Palette []string `json:"palette"`
	}
	if status := srv.do(http.MethodGet, "/api/palette", "", nil, &paletteResp); status != http.StatusOK {
		t.Errorf("palette status %d, want 200", status)
	}
	if len(paletteResp.Palette) != 10 {
		t.Errorf("palette size %d, want 10", len(paletteResp.Palette))
	}
}

func TestErrorStatusMapping(t *testing.T) {
	srv := newTestServer(t)

	alice := srv.signIn("alice")
	bob := srv.signIn("bob")
	groupID := srv.createGroup(alice, "Mapped")

	cases := []struct {
		name   string
		method string
		path   string
		token  string
		body   any
		want   int
	}{
		{
			name: "blank group name", method: http.MethodPost, path: "/api/groups",
			token: alice, body: map[string]string{"name": "  "}, want: http.StatusBadRequest,
		},
		{
			name: "unknown group", method: http.MethodGet, path: "/api/groups/nope",
			token: alice, want: http.StatusNotFound,
		},
		{
			name: "quota exceeded", method: http.MethodPost, path: "/api/groups/" + groupID + "/predictions",
			token: alice, body: map[string][]string{"predictions": {"a", "b", "c", "d", "e", "f"}},
			want: http.StatusUnprocessableEntity,
		},
		{
			name: "invalid transition", method: http.MethodPost, path: "/api/groups/" + groupID + "/advance",
			token: alice, body: map[string]string{"target": "submission"}, want: http.StatusConflict,
		},
		{
			name: "malformed body", method: http.MethodPost, path: "/api/groups",
			token: alice, body: "not an object", want: http.StatusBadRequest,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var errResp struct {
				Error string `json:"error"`
				Kind  string `json:"kind"`
			}
			status := srv.do(tc.method, tc.path, tc.token, tc.body, &errResp)
			if status != tc.want {
				t.Errorf("status = %d, want %d (%+v)", status, tc.want, errResp)
			}
			if errResp.Error == "" {
				t.Error("error body missing error message")
			}
		})
	}

	// Lock the group; join attempts now conflict.
	if status := srv.do(http.MethodPost, "/api/groups/"+groupID+"/lock", alice, nil, nil); status != http.StatusOK {
		t.Fatalf("lock returned %d", status)
	}
	if status := srv.do(http.MethodPost, "/api/groups/"+groupID+"/join", bob, nil, nil); status != http.StatusConflict {
		t.Errorf("join locked group: status %d, want 409", status)
	}
}

func TestRecentGroupsEndpoint(t *testing.T) {
	srv := newTestServer(t)
	alice := srv.signIn("alice")

	var resp struct {
		Recent []struct {
			GroupID string `json:"group_id"`
			Name    string `json:"name"`
		} `json:"recent"`
	}

	// Build up a visit history one group past the cap.
	body := map[string]any{"group_id": "g0", "name": "Group 0"}
	for i := 0; i < 6; i++ {
		body["group_id"] = fmt.Sprintf("g%d", i)
		body["name"] = fmt.Sprintf("Group %d", i)
		if status := srv.do(http.MethodPost, "/api/recent", alice, body, &resp); status != http.StatusOK {
			t.Fatalf("recent visit %d returned %d", i, status)
		}
		body["recent"] = resp.Recent
	}

	if len(resp.Recent) != 5 {
		t.Fatalf("recent list length %d, want 5", len(resp.Recent))
	}
	if resp.Recent[0].GroupID != "g5" {
		t.Errorf("most recent = %s, want g5", resp.Recent[0].GroupID)
	}

	if status := srv.do(http.MethodPost, "/api/recent", alice, map[string]string{"name": "no id"}, nil); status != http.StatusBadRequest {
		t.Errorf("missing group_id: status %d, want 400", status)
	}
}
