package machine

import (
	"encoding/json"
	"net/http"

	machineerrors "go-attend/internal/machine/errors"
	"go-attend/internal/shared/apperror"
	"go-attend/internal/shared/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func writeBindingError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(apperror.MapValidationError(err))
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindingError(c, err)
		return
	}

	resp, err := h.service.Register(c.Request.Context(), c.GetString("company_id"), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) GetByID(c *gin.Context) {
	resp, err := h.service.GetByID(c.Request.Context(), c.GetString("company_id"), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetAll(c *gin.Context) {
	resp, err := h.service.GetAll(c.Request.Context(), c.GetString("company_id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) SetStatus(c *gin.Context) {
	var req SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindingError(c, err)
		return
	}

	resp, err := h.service.SetStatus(c.Request.Context(), c.GetString("company_id"), c.Param("id"), req.Status)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

// Sync accepts either a single punch object or an array of them; devices of
// different vendors disagree on the envelope.
func (h *Handler) Sync(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		writeServiceError(c, machineerrors.ErrEmptyBatch)
		return
	}

	entries, err := normalizeBatch(body)
	if err != nil {
		httpErr := apperror.ToHTTP(err)
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, nil)
		return
	}

	resp, err := h.service.Sync(c.Request.Context(), c.GetString("machine_id"), entries)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) ListOrphans(c *gin.Context) {
	resp, err := h.service.ListOrphans(c.Request.Context(), c.GetString("company_id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) AssignOrphan(c *gin.Context) {
	var req AssignOrphanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindingError(c, err)
		return
	}

	resp, err := h.service.AssignOrphan(c.Request.Context(), c.GetString("company_id"), c.Param("id"), req.EmployeeID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func normalizeBatch(body []byte) ([]SyncEntry, error) {
	var rawEntries []json.RawMessage
	if err := json.Unmarshal(body, &rawEntries); err != nil {
		// Not an array; try a single object.
		var single json.RawMessage
		if err := json.Unmarshal(body, &single); err != nil {
			return nil, machineerrors.ErrEmptyBatch
		}
		rawEntries = []json.RawMessage{single}
	}

	entries := make([]SyncEntry, 0, len(rawEntries))
	for _, raw := range rawEntries {
		var entry SyncEntry
		if err := json.Unmarshal(raw, &entry); err != nil {
			return nil, machineerrors.ErrEmptyBatch
		}
		if entry.UserID == "" {
			// Some vendors send camelCase.
			var alt struct {
				UserID string `json:"userId"`
			}
			if err := json.Unmarshal(raw, &alt); err == nil {
				entry.UserID = alt.UserID
			}
		}
		entry.Raw = raw
		entries = append(entries, entry)
	}
	return entries, nil
}
