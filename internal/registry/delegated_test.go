package registry

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PhongYTB/infinitybodyguard-dashboard/internal/config"
	"github.com/PhongYTB/infinitybodyguard-dashboard/internal/guard"
	"github.com/PhongYTB/infinitybodyguard-dashboard/internal/models"
)

// fakeGuard is a minimal in-process guard service speaking the real
// wire contract.
type fakeGuard struct {
	mu      sync.Mutex
	scripts map[string]models.Script
	secret  string

	failUploads int // fail this many uploads before succeeding
}

func newFakeGuard(secret string) *fakeGuard {
	return &fakeGuard{scripts: make(map[string]models.Script), secret: secret}
}

func (f *fakeGuard) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/upload", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ScriptName string `json:"scriptName"`
			ScriptCode string `json:"scriptCode"`
			Secret     string `json:"secret"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Secret != f.secret {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		f.mu.Lock()
		defer f.mu.Unlock()

		if f.failUploads > 0 {
			f.failUploads--
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		now := time.Now()
		s := models.Script{
			ID:        "guard-" + req.ScriptName,
			Name:      req.ScriptName,
			Code:      req.ScriptCode,
			CreatedAt: now,
			UpdatedAt: now,
			Views:     0,
			Status:    models.StatusActive,
		}
		s.Measure()
		f.scripts[s.Name] = s

		json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "script": s})
	})

	mux.HandleFunc("GET /api/scripts", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("secret") != f.secret {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		f.mu.Lock()
		defer f.mu.Unlock()

		list := make([]models.Script, 0, len(f.scripts))
		for _, s := range f.scripts {
			list = append(list, s)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"count":   len(list),
			"scripts": list,
		})
	})

	mux.HandleFunc("DELETE /api/script/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("secret") != f.secret {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		name := strings.TrimPrefix(r.URL.Path, "/api/script/")

		f.mu.Lock()
		defer f.mu.Unlock()

		if _, ok := f.scripts[name]; !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		delete(f.scripts, name)
		json.NewEncoder(w).Encode(map[string]interface{}{"success": true})
	})

	return mux
}

func newDelegated(t *testing.T, fg *fakeGuard) (*DelegatedRegistry, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(fg.handler())
	t.Cleanup(srv.Close)

	cfg := &config.Config{
		GuardBaseURL: srv.URL,
		GuardSecret:  "sekrit",
		GuardTimeout: 2 * time.Second,
	}
	return NewDelegatedRegistry(testLogger(), guard.NewClient(testLogger(), cfg)), srv
}

func TestDelegatedCreatePropagatesRemoteIdentity(t *testing.T) {
	fg := newFakeGuard("sekrit")
	reg, _ := newDelegated(t, fg)

	created, err := reg.Create(context.Background(), "AutoFarm", "print(1)")
	require.NoError(t, err)
	assert.Equal(t, "guard-AutoFarm", created.ID)
	assert.Equal(t, "AutoFarm", created.Name)
	assert.Equal(t, len("print(1)"), created.Size)
}

func TestDelegatedCreateConflict(t *testing.T) {
	fg := newFakeGuard("sekrit")
	reg, _ := newDelegated(t, fg)
	ctx := context.Background()

	_, err := reg.Create(ctx, "AutoFarm", "print(1)")
	require.NoError(t, err)

	_, err = reg.Create(ctx, "AutoFarm", "print(2)")
	var cErr *ConflictError
	require.ErrorAs(t, err, &cErr)
	assert.Equal(t, "AutoFarm", cErr.Name)
}

func TestDelegatedUpdateRecreates(t *testing.T) {
	fg := newFakeGuard("sekrit")
	reg, _ := newDelegated(t, fg)
	ctx := context.Background()

	_, err := reg.Create(ctx, "AutoFarm", "v1")
	require.NoError(t, err)

	updated, err := reg.Update(ctx, "AutoFarm", "v2")
	require.NoError(t, err)
	assert.Equal(t, "v2", updated.Code)
	assert.Equal(t, "AutoFarm", updated.Name)
}

func TestDelegatedUpdateRetriesCreateLeg(t *testing.T) {
	fg := newFakeGuard("sekrit")
	reg, _ := newDelegated(t, fg)
	ctx := context.Background()

	_, err := reg.Create(ctx, "AutoFarm", "v1")
	require.NoError(t, err)

	// First re-create attempt fails, the retry succeeds.
	fg.mu.Lock()
	fg.failUploads = 1
	fg.mu.Unlock()

	updated, err := reg.Update(ctx, "AutoFarm", "v2")
	require.NoError(t, err)
	assert.Equal(t, "v2", updated.Code)
}

func TestDelegatedDeleteMissing(t *testing.T) {
	fg := newFakeGuard("sekrit")
	reg, _ := newDelegated(t, fg)

	err := reg.Delete(context.Background(), "Ghost")
	var nfErr *NotFoundError
	require.ErrorAs(t, err, &nfErr)
	assert.Equal(t, "Ghost", nfErr.Name)
}

func TestDelegatedTransportFailure(t *testing.T) {
	fg := newFakeGuard("sekrit")
	reg, srv := newDelegated(t, fg)
	srv.Close()

	_, err := reg.List(context.Background())
	var dErr *DelegationError
	require.ErrorAs(t, err, &dErr)
	assert.Equal(t, "list", dErr.Op)
}

func TestDelegatedNon2xxBecomesDelegationError(t *testing.T) {
	fg := newFakeGuard("other-secret") // wrong secret -> 401 upstream
	reg, _ := newDelegated(t, fg)

	_, err := reg.List(context.Background())
	var dErr *DelegationError
	require.ErrorAs(t, err, &dErr)
}
