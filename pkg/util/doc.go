// Package util provides shared helpers for log-body truncation used across
// renkon packages.
//
//   - TruncateBody — cap request/response bodies for safe logging
package util
