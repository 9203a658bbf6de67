package webserver

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/proposalpal/proposalpal/src/PPApi/config"
	"github.com/proposalpal/proposalpal/src/PPApi/store"
)

const testTreasury = "addr1treasury000000000000"

// fixture spins up fake upstream hosts (LLM, CIP repository, chain
// indexer, forum) and a router wired against an in-memory database.
type fixture struct {
	router   *gin.Engine
	llmCalls int64
}

func newTestRouter(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	f := &fixture{}

	llm := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&f.llmCalls, 1)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"choices":[{"message":{"role":"assistant","content":"Generated analysis."}}]}`)
	}))
	t.Cleanup(llm.Close)

	cipHost := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/README.md") || strings.Contains(r.URL.Path, "CIP-9999") {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, "# Proposal\n\nSome proposal text.")
	}))
	t.Cleanup(cipHost.Close)

	chain := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, strings.Repeat("ab", 32)) {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"hash":"%s","outputs":[{"address":"%s","amount":[{"unit":"lovelace","quantity":"5000000"}]}]}`,
			strings.Repeat("ab", 32), testTreasury)
	}))
	t.Cleanup(chain.Close)

	forumHost := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"grouped_search_result":{"post_ids":[]}}`)
	}))
	t.Cleanup(forumHost.Close)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, store.Migrate(db))

	cfg := config.Config{
		GaiaNodeURL:         llm.URL + "/v1",
		GaiaAPIKey:          "test-key",
		GaiaModel:           "test-model",
		BlockfrostURL:       chain.URL,
		BlockfrostProjectID: "test-project",
		TreasuryAddress:     testTreasury,
		RequiredLovelace:    "5000000",
		CIPSourceURL:        cipHost.URL,
		ForumURL:            forumHost.URL,
	}

	g := gin.New()
	attachRoutes(g, cfg, db, nil)
	f.router = g
	return f
}

func (f *fixture) do(t *testing.T, method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
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
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	var out map[string]interface{}
	if len(w.Body.Bytes()) > 0 && json.Valid(w.Body.Bytes()) {
		json.Unmarshal(w.Body.Bytes(), &out)
	}
	return w, out
}

func TestVoteLifecycle(t *testing.T) {
	f := newTestRouter(t)
	wallet := "addr1voterwallet00000000"

	w, body := f.do(t, http.MethodPost, "/vote", gin.H{
		"walletAddress": wallet, "cipNumber": "CIP-0054", "voteChoice": "YES",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	require.Equal(t, true, body["success"])
	require.Contains(t, body["newBadges"], "first_vote")

	// Same wallet, same CIP: rejected, first choice stands.
	w, body = f.do(t, http.MethodPost, "/vote", gin.H{
		"walletAddress": wallet, "cipNumber": "CIP-0054", "voteChoice": "NO",
	})
	require.Equal(t, http.StatusConflict, w.Code)
	require.Equal(t, "already voted on this CIP", body["err"])

	w, _ = f.do(t, http.MethodPost, "/vote", gin.H{
		"walletAddress": wallet, "cipNumber": "CIP-0055", "voteChoice": "MAYBE",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = f.do(t, http.MethodPost, "/vote", gin.H{
		"walletAddress": wallet, "cipNumber": "CIP-99999", "voteChoice": "YES",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/votes/"+wallet, nil)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	var votes []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &votes))
	require.Len(t, votes, 1)
	require.Equal(t, "YES", votes[0]["voteChoice"])

	w, body = f.do(t, http.MethodGet, "/vote-stats/CIP-0054", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, float64(1), body["yes"])
	require.Equal(t, float64(1), body["total"])
}

func TestCreditsBalanceCreatesUser(t *testing.T) {
	f := newTestRouter(t)

	w, body := f.do(t, http.MethodGet, "/credits/addr1freshwallet00000000", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, float64(500), body["remaining"])
	require.Equal(t, float64(0), body["consumed"])
	require.Equal(t, float64(500), body["total"])
}

func TestLeaderboardAndDashboard(t *testing.T) {
	f := newTestRouter(t)

	for i, wallet := range []string{"addr1busywallet000000000", "addr1busywallet000000000", "addr1idlewallet000000000"} {
		w, _ := f.do(t, http.MethodPost, "/vote", gin.H{
			"walletAddress": wallet,
			"cipNumber":     fmt.Sprintf("CIP-%04d", i+1),
			"voteChoice":    "YES",
		})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/leaderboard", nil)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	var rows []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	require.Len(t, rows, 2)
	require.Equal(t, "addr1busywallet000000000", rows[0]["walletAddress"])
	require.Equal(t, float64(2), rows[0]["votes"])

	w, body := f.do(t, http.MethodGet, "/dashboard/addr1busywallet000000000", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, float64(2), body["totalVotes"])
	require.Equal(t, float64(2), body["governancePoints"])
	require.Equal(t, float64(1), body["leaderboardRank"])

	// A wallet with no votes is unranked.
	w, body = f.do(t, http.MethodGet, "/dashboard/addr1ghostwallet00000000", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "N/A", body["leaderboardRank"])
	require.Equal(t, float64(0), body["totalVotes"])
}

func TestBadgeEndpoints(t *testing.T) {
	f := newTestRouter(t)
	wallet := "addr1badgewallet00000000"

	req := httptest.NewRequest(http.MethodGet, "/badges/"+wallet, nil)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	var catalog []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &catalog))
	require.Len(t, catalog, 12)
	for _, entry := range catalog {
		require.Equal(t, false, entry["earned"])
	}

	w, _ := f.do(t, http.MethodPost, "/vote", gin.H{
		"walletAddress": wallet, "cipNumber": "CIP-0054", "voteChoice": "ABSTAIN",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	// Re-checking after the vote reports nothing new; the award already
	// happened on the vote path.
	w, body := f.do(t, http.MethodPost, "/badges/check/"+wallet, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Empty(t, body["newBadges"])

	rec = httptest.NewRecorder()
	f.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/badges/"+wallet, nil))
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &catalog))
	earned := 0
	for _, entry := range catalog {
		if entry["earned"] == true {
			earned++
			require.NotEmpty(t, entry["earnedAt"])
		}
	}
	require.Greater(t, earned, 0)
}

func TestSummarizeEndToEnd(t *testing.T) {
	f := newTestRouter(t)

	w, body := f.do(t, http.MethodPost, "/summarize", gin.H{
		"walletAddress": "addr1readerwallet0000000", "cipNumber": "CIP-0054",
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "Summary for CIP-0054", body["title"])
	require.Equal(t, "Generated analysis.", body["summary"])
	require.Equal(t, int64(1), atomic.LoadInt64(&f.llmCalls))

	// Second reader is served from the cache without another completion.
	w, body = f.do(t, http.MethodPost, "/summarize", gin.H{
		"walletAddress": "addr1secondwallet0000000", "cipNumber": "CIP-0054",
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "Generated analysis.", body["summary"])
	require.Equal(t, int64(1), atomic.LoadInt64(&f.llmCalls))

	// Only the generating wallet paid.
	w, body = f.do(t, http.MethodGet, "/credits/addr1readerwallet0000000", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, float64(499), body["remaining"])

	w, body = f.do(t, http.MethodGet, "/credits/addr1secondwallet0000000", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, float64(500), body["remaining"])

	w, _ = f.do(t, http.MethodPost, "/summarize", gin.H{
		"walletAddress": "addr1readerwallet0000000", "cipNumber": "CIP-9999",
	})
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestTranslateEndpoint(t *testing.T) {
	f := newTestRouter(t)

	w, body := f.do(t, http.MethodPost, "/translate", gin.H{
		"textToTranslate": "Hello governance", "targetLanguage": "Spanish",
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "Generated analysis.", body["translatedText"])

	// Identical request hits the cache.
	_, _ = f.do(t, http.MethodPost, "/translate", gin.H{
		"textToTranslate": "Hello governance", "targetLanguage": "Spanish",
	})
	require.Equal(t, int64(1), atomic.LoadInt64(&f.llmCalls))

	w, _ = f.do(t, http.MethodPost, "/translate", gin.H{"textToTranslate": "Hello"})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCommunityInsightsNoDiscussions(t *testing.T) {
	f := newTestRouter(t)

	w, body := f.do(t, http.MethodPost, "/community-insights", gin.H{"cipNumber": "CIP-0054"})
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, body["insights"], "No community discussions found")
	require.Equal(t, int64(0), atomic.LoadInt64(&f.llmCalls))
}

func TestConfirmPayment(t *testing.T) {
	f := newTestRouter(t)
	txHash := strings.Repeat("ab", 32)

	w, body := f.do(t, http.MethodPost, "/confirm-payment", gin.H{
		"walletAddress": "addr1buyerwallet00000000", "txHash": txHash,
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, true, body["success"])
	require.Equal(t, "1500 credits added.", body["message"])

	w, body = f.do(t, http.MethodGet, "/credits/addr1buyerwallet00000000", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, float64(2000), body["remaining"])
	require.Equal(t, float64(2000), body["total"])

	// Replaying the hash is rejected for any wallet.
	w, body = f.do(t, http.MethodPost, "/confirm-payment", gin.H{
		"walletAddress": "addr1otherwallet00000000", "txHash": txHash,
	})
	require.Equal(t, http.StatusConflict, w.Code)
	require.Equal(t, "transaction already used", body["err"])

	w, _ = f.do(t, http.MethodPost, "/confirm-payment", gin.H{
		"walletAddress": "addr1buyerwallet00000000", "txHash": strings.Repeat("cd", 32),
	})
	require.Equal(t, http.StatusNotFound, w.Code)

	// Malformed hashes never reach the chain client.
	w, _ = f.do(t, http.MethodPost, "/confirm-payment", gin.H{
		"walletAddress": "addr1buyerwallet00000000", "txHash": "not-a-hash",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
}
