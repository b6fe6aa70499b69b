// Package schemas embeds the OpenAPI document that describes the HTTP API.
// The server validates inbound requests against it at runtime.
package schemas

import _ "embed"

// OpenAPISpec is the raw OpenAPI 3.0 document.
//
//go:embed openapi.yaml
var OpenAPISpec []byte
