package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"gopkg.in/yaml.v3"

	"github.com/fedcatalog/source-admin/cmd/source-admin-api/docs"
)

var (
	// cachedOpenAPIJSON and cachedOpenAPIYAML hold the rendered OpenAPI document
	cachedOpenAPIJSON []byte
	cachedOpenAPIYAML []byte
)

func init() {
	doc := docs.SwaggerInfo.ReadDoc()

	var openAPISpec map[string]any
	if err := json.Unmarshal([]byte(doc), &openAPISpec); err != nil {
		slog.Error("Failed to parse OpenAPI specification during initialization", "error", err)
		return
	}
	cachedOpenAPIJSON = []byte(doc)

	yamlData, err := yaml.Marshal(openAPISpec)
	if err != nil {
		slog.Error("Failed to convert OpenAPI specification to YAML during initialization", "error", err)
		return
	}
	cachedOpenAPIYAML = yamlData
}

// openAPIHandler serves the OpenAPI specification in JSON format
//
// @Summary		Get OpenAPI specification
// @Description	Returns the OpenAPI specification of this API in JSON format
// @Tags			system
// @Produce		json
// @Success		200	{object}	object	"OpenAPI specification in JSON format"
// @Router			/openapi.json [get]
func openAPIHandler(w http.ResponseWriter, _ *http.Request) {
	serveCached(w, cachedOpenAPIJSON, "application/json")
}

// serveOpenAPIYAML serves the OpenAPI specification in YAML format
//
// @Summary		Get OpenAPI specification as YAML
// @Description	Returns the OpenAPI specification of this API in YAML format
// @Tags			system
// @Produce		application/x-yaml
// @Success		200	{string}	string	"OpenAPI specification in YAML format"
// @Failure		500	{string}	string	"Internal Server Error"
// @Router			/openapi.yaml [get]
func serveOpenAPIYAML(w http.ResponseWriter, _ *http.Request) {
	serveCached(w, cachedOpenAPIYAML, "application/x-yaml")
}

func serveCached(w http.ResponseWriter, body []byte, contentType string) {
	// Empty when initialization failed
	if len(body) == 0 {
		http.Error(w, "OpenAPI specification not available", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
