package machine_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go-attend/internal/machine"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
)

func setupAuthRouter(t *testing.T, repo machine.Repository) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.POST("/sync", machine.MachineAuth(repo), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"machine_id": c.GetString("machine_id"),
			"company_id": c.GetString("company_id"),
		})
	})
	return r
}

func authMachine(t *testing.T, status string) (*fakeMachineRepository, string) {
	t.Helper()

	secret := uuid.NewString()
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.MinCost)
	assert.NoError(t, err)

	m := &machine.Machine{
		ID:         uuid.New(),
		CompanyID:  uuid.New(),
		Name:       "Lobby Terminal",
		APIKeyHash: string(hash),
		Status:     status,
	}
	return &fakeMachineRepository{machine: m}, m.ID.String() + "." + secret
}

func TestMachineAuth(t *testing.T) {
	t.Run("success active machine passes", func(t *testing.T) {
		repo, key := authMachine(t, machine.StatusActive)
		r := setupAuthRouter(t, repo)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/sync", nil)
		req.Header.Set(machine.APIKeyHeader, key)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), repo.machine.ID.String())
		assert.Contains(t, w.Body.String(), repo.machine.CompanyID.String())
	})

	t.Run("negative missing header", func(t *testing.T) {
		repo, _ := authMachine(t, machine.StatusActive)
		r := setupAuthRouter(t, repo)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/sync", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("negative malformed key", func(t *testing.T) {
		repo, _ := authMachine(t, machine.StatusActive)
		r := setupAuthRouter(t, repo)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/sync", nil)
		req.Header.Set(machine.APIKeyHeader, "no-separator")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("negative wrong secret", func(t *testing.T) {
		repo, _ := authMachine(t, machine.StatusActive)
		r := setupAuthRouter(t, repo)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/sync", nil)
		req.Header.Set(machine.APIKeyHeader, repo.machine.ID.String()+".wrong-secret")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("negative unknown machine", func(t *testing.T) {
		repo, _ := authMachine(t, machine.StatusActive)
		r := setupAuthRouter(t, repo)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/sync", nil)
		req.Header.Set(machine.APIKeyHeader, uuid.NewString()+".whatever")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("negative inactive machine", func(t *testing.T) {
		repo, key := authMachine(t, machine.StatusInactive)
		r := setupAuthRouter(t, repo)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/sync", nil)
		req.Header.Set(machine.APIKeyHeader, key)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("negative maintenance machine", func(t *testing.T) {
		repo, key := authMachine(t, machine.StatusMaintenance)
		r := setupAuthRouter(t, repo)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/sync", nil)
		req.Header.Set(machine.APIKeyHeader, key)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
