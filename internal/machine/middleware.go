package machine

import (
	"strings"

	machineerrors "go-attend/internal/machine/errors"
	"go-attend/internal/shared/apperror"
	"go-attend/internal/shared/response"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

const APIKeyHeader = "x-machine-api-key"

// MachineAuth authenticates a terminal from the x-machine-api-key header.
// The key format is "<machineID>.<secret>"; the secret is compared against
// the stored bcrypt hash and never logged or echoed. Only ACTIVE machines
// pass. On success the machine id and its company id are set on the context.
func MachineAuth(repo Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		abort := func(err error) {
			httpErr := apperror.ToHTTP(err)
			response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, nil)
			c.Abort()
		}

		key := c.GetHeader(APIKeyHeader)
		if key == "" {
			abort(machineerrors.ErrMissingAPIKey)
			return
		}

		machineID, secret, ok := strings.Cut(key, ".")
		if !ok || machineID == "" || secret == "" {
			abort(machineerrors.ErrInvalidAPIKey)
			return
		}

		m, err := repo.FindForAuth(c.Request.Context(), machineID)
		if err != nil {
			// Missing and mismatched keys are indistinguishable to the caller.
			abort(machineerrors.ErrInvalidAPIKey)
			return
		}
		if err := bcrypt.CompareHashAndPassword([]byte(m.APIKeyHash), []byte(secret)); err != nil {
			abort(machineerrors.ErrInvalidAPIKey)
			return
		}
		if m.Status != StatusActive {
			abort(machineerrors.ErrMachineNotActive)
			return
		}

		c.Set("machine_id", m.ID.String())
		c.Set("company_id", m.CompanyID.String())
		c.Next()
	}
}
