// Package api embeds the OpenAPI description of the employee JSON API.
package api

import _ "embed"

// OpenAPISpec is the OpenAPI document in YAML.
//
//go:embed openapi.yaml
var OpenAPISpec []byte
