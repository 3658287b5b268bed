//go:build tools
// +build tools

// Package tools pins oapi-codegen, whose runtime binds the admin API query
// and path parameters in internal/infra/api/apiv1/params.go. Keeping the
// generator in go.mod holds it at the same version as that runtime.
package tools

import (
	_ "github.com/oapi-codegen/oapi-codegen/v2/cmd/oapi-codegen"
)
