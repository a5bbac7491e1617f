package middleware

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/Izzycode820/huzilerz-go/pkg/config"
)

// CORSMiddleware allows theme dev servers on localhost plus any storefront
// hostname under the platform domain. Custom domains are vetted per request
// against the store registry by the store middleware, so CORS only needs the
// platform-wide suffix here.
func CORSMiddleware() gin.HandlerFunc {
	cfg := cors.Config{
		AllowOriginFunc: func(origin string) bool {
			if strings.HasPrefix(origin, "http://localhost:") ||
				strings.HasPrefix(origin, "http://127.0.0.1:") ||
				strings.HasPrefix(origin, "http://[::1]:") {
				return true
			}
			host := origin
			if i := strings.Index(host, "://"); i >= 0 {
				host = host[i+3:]
			}
			if i := strings.IndexByte(host, ':'); i >= 0 {
				host = host[:i]
			}
			return host == config.StorefrontDomainSuffix ||
				strings.HasSuffix(host, "."+config.StorefrontDomainSuffix)
		},
		AllowMethods: []string{
			"GET", "POST", "PUT", "DELETE", "OPTIONS",
		},
		AllowHeaders: []string{
			"Origin", "Content-Type", "Accept", "Authorization",
			"X-Storefront-Host", "X-Client-Key", "X-Requested-With",
			"Cache-Control",
		},
		AllowCredentials: true,
		ExposeHeaders: []string{
			"Content-Type", "Cache-Control", "Connection", "X-Client-Key",
		},
	}

	return cors.New(cfg)
}
