package adminauth

import (
	"github.com/gin-gonic/gin"
)

const HeaderAPIKey = "X-API-Key"

// Middleware gates the admin surface behind X-API-Key. The resolved key is
// stashed in the context for handlers that want to attribute actions. A
// non-empty bootstrapToken is accepted as-is so the first real key can be
// issued on a fresh install.
func Middleware(svc *Service, bootstrapToken string) gin.HandlerFunc {
	return func(c *gin.Context) {
		presented := c.GetHeader(HeaderAPIKey)
		if bootstrapToken != "" && presented == bootstrapToken {
			c.Next()
			return
		}

		key, err := svc.Authenticate(c.Request.Context(), presented)
		if err != nil {
			c.Error(err)
			c.Abort()
			return
		}

		c.Set("admin_api_key", key)
		c.Next()
	}
}
