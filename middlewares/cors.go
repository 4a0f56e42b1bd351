package middlewares

import (
	"net/http"

	"github.com/rs/cors"
)

// NewCORS wraps the whole HTTP handler. Credentials are allowed so the admin
// cookie reaches the API from the configured origins.
func NewCORS(origins []string) *cors.Cors {
	return cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowCredentials: true,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Content-Type", "Authorization", "Accept", "Origin",
			"Cache-Control", "X-Requested-With",
		},
	})
}
