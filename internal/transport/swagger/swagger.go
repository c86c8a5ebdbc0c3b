package swagger

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"
)

// DefaultSpecURL is where the router serves api/openapi.yml.
const DefaultSpecURL = "/openapi.yml"

func Handler(specURL string) http.Handler {
	if specURL == "" {
		specURL = DefaultSpecURL
	}
	return httpSwagger.Handler(
		httpSwagger.URL(specURL),
	)
}
