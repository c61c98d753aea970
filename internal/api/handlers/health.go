package handlers

import (
	"net/http"

	"github.com/Conceptual-Machines/story-api/internal/llm"
	"github.com/Conceptual-Machines/story-api/internal/styles"
	"github.com/gin-gonic/gin"
)

const (
	credentialConfigured = "configured"
	credentialMissing    = "missing"
)

// CredentialChecker reports whether a credential resolves without revealing it
type CredentialChecker interface {
	Has(key string) bool
}

type HealthHandler struct {
	catalog     *styles.Catalog
	credentials CredentialChecker
}

func NewHealthHandler(catalog *styles.Catalog, credentials CredentialChecker) *HealthHandler {
	return &HealthHandler{
		catalog:     catalog,
		credentials: credentials,
	}
}

// HealthCheck returns the health status of the API. A missing credential is
// reported but does not make the service unhealthy.
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	providers := gin.H{}
	for _, style := range h.catalog.Styles() {
		if _, seen := providers[style.Provider]; seen {
			continue
		}
		key, _ := llm.CredentialKey(style.Provider)
		status := credentialMissing
		if h.credentials.Has(key) {
			status = credentialConfigured
		}
		providers[style.Provider] = gin.H{
			"credential": key,
			"status":     status,
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"styles":    h.catalog.Len(),
		"providers": providers,
	})
}
