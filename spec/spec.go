// Package spec embeds the OpenAPI description of the Atlas API.
// The router serves it at /openapi.yaml and points the Swagger UI at /docs
// to it.
package spec

import _ "embed"

// OpenAPI contains the raw bytes of openapi.yaml, embedded at compile time.
//
//go:embed openapi.yaml
var OpenAPI []byte
