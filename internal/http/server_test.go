package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"bukid/internal/auth"
	"bukid/internal/storage"
)

const testSecret = "test-secret"

func testServer(t *testing.T) *Server {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "bukid_test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	verifier := auth.NewVerifier(testSecret, auth.NewRolePolicy("captain@barangay.ph"))
	srv := NewServer(Config{Addr: ":0", TotalBudgetCentavos: 3_000_000}, store, verifier, nil, nil)
	t.Cleanup(func() { srv.Shutdown(context.Background()) })
	return srv
}

func signToken(t *testing.T, email, name string) string {
	t.Helper()
	claims := auth.Claims{
		Email: email,
		Name:  name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-" + email,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func do(t *testing.T, srv *Server, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	var env struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
		Error   string          `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v (%s)", err, rec.Body.String())
	}
	if !env.Success {
		t.Fatalf("envelope reports failure: %s", env.Error)
	}
	if dst != nil {
		if err := json.Unmarshal(env.Data, dst); err != nil {
			t.Fatalf("decode data: %v", err)
		}
	}
}

func TestBudgetFlow(t *testing.T) {
	srv := testServer(t)
	member := signToken(t, "nena@barangay.ph", "Aling Nena")
	admin := signToken(t, "captain@barangay.ph", "Kap")

	// Writes need a session.
	rec := do(t, srv, http.MethodPost, "/api/budget", "", budgetEntryRequest{
		Description: "seedling trays", Category: "Seeds", Amount: "350.00",
		Type: "expense", Date: "2025-06-01",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("unauthenticated create status = %d, want 401", rec.Code)
	}

	rec = do(t, srv, http.MethodPost, "/api/budget", member, budgetEntryRequest{
		Description: "seedling trays", Category: "Seeds", Amount: "350.00",
		Type: "expense", Date: "2025-06-01",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", rec.Code, rec.Body.String())
	}
	var created budgetEntryResponse
	decodeData(t, rec, &created)
	if created.AmountCentavos != 35_000 {
		t.Errorf("AmountCentavos = %d, want 35000", created.AmountCentavos)
	}

	rec = do(t, srv, http.MethodPost, "/api/budget", member, budgetEntryRequest{
		Description: "barangay allocation", Category: "Funding", Amount: "1530.00",
		Type: "income", Date: "2025-06-02",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create income status = %d: %s", rec.Code, rec.Body.String())
	}

	rec = do(t, srv, http.MethodGet, "/api/budget/summary", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("summary status = %d", rec.Code)
	}
	var summary budgetSummaryResponse
	decodeData(t, rec, &summary)
	if summary.TotalSpentCentavos != 35_000 || summary.TotalIncomeCentavos != 153_000 {
		t.Errorf("summary = %+v", summary)
	}
	if summary.BalanceCentavos != 118_000 {
		t.Errorf("BalanceCentavos = %d, want 118000", summary.BalanceCentavos)
	}
	if summary.RemainingCentavos != 3_000_000-35_000 {
		t.Errorf("RemainingCentavos = %d", summary.RemainingCentavos)
	}

	// Unparseable amounts never reach the ledger.
	rec = do(t, srv, http.MethodPost, "/api/budget", member, budgetEntryRequest{
		Description: "bad", Category: "Seeds", Amount: "-5",
		Type: "expense", Date: "2025-06-01",
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("negative amount status = %d, want 422", rec.Code)
	}

	// Deletion is the admin's call.
	rec = do(t, srv, http.MethodDelete, "/api/budget/"+created.ID, member, nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("member delete status = %d, want 403", rec.Code)
	}
	rec = do(t, srv, http.MethodDelete, "/api/budget/"+created.ID, admin, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("admin delete status = %d: %s", rec.Code, rec.Body.String())
	}

	// The delete invalidated the cached summary.
	rec = do(t, srv, http.MethodGet, "/api/budget/summary", "", nil)
	decodeData(t, rec, &summary)
	if summary.TotalSpentCentavos != 0 {
		t.Errorf("TotalSpentCentavos after delete = %d, want 0", summary.TotalSpentCentavos)
	}
}

func TestPollVotingOverHTTP(t *testing.T) {
	srv := testServer(t)
	admin := signToken(t, "captain@barangay.ph", "Kap")
	member := signToken(t, "nena@barangay.ph", "Aling Nena")

	rec := do(t, srv, http.MethodPost, "/api/polls", member, createPollRequest{
		Question: "Next planting?", Options: []string{"Pechay", "Mustasa"},
	})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("member poll create status = %d, want 403", rec.Code)
	}

	rec = do(t, srv, http.MethodPost, "/api/polls", admin, createPollRequest{
		Question: "Next planting?", Options: []string{"Pechay", "Mustasa"},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("poll create status = %d: %s", rec.Code, rec.Body.String())
	}
	var poll pollResponse
	decodeData(t, rec, &poll)

	rec = do(t, srv, http.MethodPost, "/api/polls/"+poll.ID+"/vote", member, voteRequest{OptionID: poll.Options[0].ID})
	if rec.Code != http.StatusOK {
		t.Fatalf("vote status = %d: %s", rec.Code, rec.Body.String())
	}
	decodeData(t, rec, &poll)
	if poll.TotalVotes != 1 || poll.Options[0].Percentage != 100 {
		t.Fatalf("after vote: %+v", poll)
	}

	// One vote per authenticated voter.
	rec = do(t, srv, http.MethodPost, "/api/polls/"+poll.ID+"/vote", member, voteRequest{OptionID: poll.Options[1].ID})
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate vote status = %d, want 409", rec.Code)
	}

	// Anonymous votes skip the ledger.
	rec = do(t, srv, http.MethodPost, "/api/polls/"+poll.ID+"/vote", "", voteRequest{OptionID: poll.Options[1].ID})
	if rec.Code != http.StatusOK {
		t.Fatalf("anonymous vote status = %d: %s", rec.Code, rec.Body.String())
	}

	rec = do(t, srv, http.MethodPost, "/api/polls/"+poll.ID+"/close", admin, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("close status = %d: %s", rec.Code, rec.Body.String())
	}
	rec = do(t, srv, http.MethodPost, "/api/polls/"+poll.ID+"/vote", "", voteRequest{OptionID: poll.Options[0].ID})
	if rec.Code != http.StatusConflict {
		t.Fatalf("vote on closed poll status = %d, want 409", rec.Code)
	}

	rec = do(t, srv, http.MethodGet, "/api/polls/"+poll.ID+"/results", "", nil)
	decodeData(t, rec, &poll)
	if poll.TotalVotes != 2 || poll.Options[0].Percentage != 50 || poll.Options[1].Percentage != 50 {
		t.Fatalf("results: %+v", poll)
	}
}

func TestWeatherFallsBackToSample(t *testing.T) {
	srv := testServer(t)

	rec := do(t, srv, http.MethodGet, "/api/weather", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("weather status = %d", rec.Code)
	}
	var data weatherResponse
	decodeData(t, rec, &data)
	if !data.Sample {
		t.Error("expected sample data with no provider configured")
	}
	if len(data.Alerts) == 0 {
		t.Error("sample data must carry the sample-data alert")
	}
}

func TestLeaderboard(t *testing.T) {
	srv := testServer(t)
	admin := signToken(t, "captain@barangay.ph", "Kap")

	for _, v := range []volunteerRequest{
		{Name: "Ben"}, {Name: "Ana"}, {Name: "Cora"},
	} {
		rec := do(t, srv, http.MethodPost, "/api/volunteers", admin, v)
		if rec.Code != http.StatusCreated {
			t.Fatalf("create volunteer status = %d: %s", rec.Code, rec.Body.String())
		}
	}
	rec := do(t, srv, http.MethodGet, "/api/volunteers", "", nil)
	var vols []volunteerResponse
	decodeData(t, rec, &vols)

	// Give the middle volunteer the most hours.
	rec = do(t, srv, http.MethodPost, "/api/volunteers/"+vols[1].ID+"/activity", admin, activityRequest{Hours: 12})
	if rec.Code != http.StatusOK {
		t.Fatalf("record activity status = %d: %s", rec.Code, rec.Body.String())
	}

	rec = do(t, srv, http.MethodGet, "/api/volunteers/leaderboard?top=2", "", nil)
	var board leaderboardResponse
	decodeData(t, rec, &board)
	if len(board.Volunteers) != 2 {
		t.Fatalf("top=2 returned %d volunteers", len(board.Volunteers))
	}
	if board.Volunteers[0].ID != vols[1].ID {
		t.Errorf("leader = %s, want the volunteer with recorded hours", board.Volunteers[0].Name)
	}
	if board.TotalVolunteers != 3 || board.TotalHours != 12 {
		t.Errorf("stats = %+v", board)
	}
}

func TestProfileUpsertOnMe(t *testing.T) {
	srv := testServer(t)
	member := signToken(t, "nena@barangay.ph", "Aling Nena")

	rec := do(t, srv, http.MethodGet, "/api/me", member, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("me status = %d: %s", rec.Code, rec.Body.String())
	}
	var profile userResponse
	decodeData(t, rec, &profile)
	if profile.Role != "member" {
		t.Errorf("Role = %s, want member", profile.Role)
	}

	// Voting after registration moves the counter.
	admin := signToken(t, "captain@barangay.ph", "Kap")
	rec = do(t, srv, http.MethodPost, "/api/polls", admin, createPollRequest{
		Question: "Q", Options: []string{"A", "B"},
	})
	var poll pollResponse
	decodeData(t, rec, &poll)
	do(t, srv, http.MethodPost, "/api/polls/"+poll.ID+"/vote", member, voteRequest{OptionID: poll.Options[0].ID})

	rec = do(t, srv, http.MethodGet, "/api/me", member, nil)
	decodeData(t, rec, &profile)
	if profile.VotesCast != 1 {
		t.Errorf("VotesCast = %d, want 1", profile.VotesCast)
	}
}
