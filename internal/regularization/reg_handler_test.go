package regularization

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	regerrors "go-attend/internal/regularization/errors"
	"go-attend/internal/shared/apperror"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type mockService struct {
	decideErr error
	submitErr error
}

func (m *mockService) Submit(ctx context.Context, companyID, actorID string, req SubmitRequest) (RequestResponse, error) {
	if m.submitErr != nil {
		return RequestResponse{}, m.submitErr
	}
	return RequestResponse{Status: StatusPending}, nil
}

func (m *mockService) Decide(ctx context.Context, companyID, actorID, actorRole, id string, req DecideRequest) (RequestResponse, error) {
	if m.decideErr != nil {
		return RequestResponse{}, m.decideErr
	}
	return RequestResponse{ID: id, Status: StatusApproved}, nil
}

func (m *mockService) GetByID(ctx context.Context, companyID, id string) (RequestResponse, error) {
	return RequestResponse{ID: id}, nil
}

func (m *mockService) GetMine(ctx context.Context, companyID, employeeID string) ([]RequestResponse, error) {
	return nil, nil
}

func (m *mockService) GetPendingApprovals(ctx context.Context, companyID, approverID string) ([]RequestResponse, error) {
	return nil, nil
}

func setupRouter(service Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	apperror.Init()

	handler := NewHandler(service)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("company_id", "00000000-0000-0000-0000-000000000001")
		c.Set("employee_id", "00000000-0000-0000-0000-000000000002")
		c.Set("role", "MANAGER")
	})
	router.POST("/regularizations", handler.Submit)
	router.PATCH("/regularizations/:id/decision", handler.Decide)
	return router
}

func patchDecision(router *gin.Engine, body DecideRequest) *httptest.ResponseRecorder {
	jsonBody, _ := json.Marshal(body)
	req, _ := http.NewRequest(
		http.MethodPatch,
		"/regularizations/7b4a4a1e-0000-0000-0000-000000000003/decision",
		bytes.NewBuffer(jsonBody),
	)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandler_Decide(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		router := setupRouter(&mockService{})

		w := patchDecision(router, DecideRequest{Status: "approved"})

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), StatusApproved)
	})

	t.Run("negative invalid decision value", func(t *testing.T) {
		router := setupRouter(&mockService{})

		w := patchDecision(router, DecideRequest{Status: "maybe"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("negative already decided maps to 409", func(t *testing.T) {
		router := setupRouter(&mockService{decideErr: regerrors.ErrAlreadyDecided})

		w := patchDecision(router, DecideRequest{Status: "approved"})

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), apperror.CodeConflict)
	})

	t.Run("negative non-approver maps to 403", func(t *testing.T) {
		router := setupRouter(&mockService{decideErr: regerrors.ErrNotAnApprover})

		w := patchDecision(router, DecideRequest{Status: "approved"})

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("negative unknown request maps to 404", func(t *testing.T) {
		router := setupRouter(&mockService{decideErr: regerrors.ErrRequestNotFound})

		w := patchDecision(router, DecideRequest{Status: "approved"})

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestHandler_Submit(t *testing.T) {
	t.Run("success returns 201", func(t *testing.T) {
		router := setupRouter(&mockService{})

		body, _ := json.Marshal(SubmitRequest{
			TargetDate: "2026-08-10",
			Type:       TypeMissedPunch,
			Reason:     "Badge reader was offline all morning",
		})
		req, _ := http.NewRequest(http.MethodPost, "/regularizations", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("negative unknown type rejected by binding", func(t *testing.T) {
		router := setupRouter(&mockService{})

		body, _ := json.Marshal(SubmitRequest{
			TargetDate: "2026-08-10",
			Type:       "VACATION",
			Reason:     "Badge reader was offline all morning",
		})
		req, _ := http.NewRequest(http.MethodPost, "/regularizations", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("negative duplicate open request maps to 409", func(t *testing.T) {
		router := setupRouter(&mockService{submitErr: regerrors.ErrDuplicateOpenRequest})

		body, _ := json.Marshal(SubmitRequest{
			TargetDate: "2026-08-10",
			Type:       TypeMissedPunch,
			Reason:     "Badge reader was offline all morning",
		})
		req, _ := http.NewRequest(http.MethodPost, "/regularizations", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}
