// SPDX-License-Identifier: Apache-2.0

// Package config loads and merges pawsync configuration from environment
// variables, command-line flags, an optional JSON file, and built-in
// defaults, in that order of precedence.
//
// The merged [StructuredConfig] is validated before use; invalid
// configurations are rejected with the sentinel errors in errors.go.
package config
