package attendancelog

import (
	"net/http"

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

func (h *Handler) ListByDay(c *gin.Context) {
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

	resp, err := h.service.ListByEmployeeAndDate(c.Request.Context(), companyID, employeeID, date)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}
