package attendanceday

import (
	"net/http"
	"strconv"

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

func (h *Handler) GetDay(c *gin.Context) {
	companyID := c.GetString("company_id")
	employeeID := c.Query("employee_id")
	if employeeID == "" {
		employeeID = c.GetString("employee_id")
	}
	date := c.Query("date")
	if date == "" {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "date query parameter is required", nil)
		return
	}

	resp, err := h.service.GetDay(c.Request.Context(), companyID, employeeID, date)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) ListRange(c *gin.Context) {
	companyID := c.GetString("company_id")
	employeeID := c.Query("employee_id")
	if employeeID == "" {
		employeeID = c.GetString("employee_id")
	}

	resp, err := h.service.ListRange(c.Request.Context(), companyID, employeeID, c.Query("from"), c.Query("to"))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "31"))
	if pageSize < 1 {
		pageSize = 31
	}

	total := int64(len(resp))
	start := (page - 1) * pageSize
	end := start + pageSize
	if start > len(resp) {
		start = len(resp)
	}
	if end > len(resp) {
		end = len(resp)
	}

	meta := response.NewPaginationMeta(total, page, pageSize)
	response.Success(c, http.StatusOK, resp[start:end], &meta)
}

func (h *Handler) Summary(c *gin.Context) {
	companyID := c.GetString("company_id")

	resp, err := h.service.Summary(c.Request.Context(), companyID, c.Query("from"), c.Query("to"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}
