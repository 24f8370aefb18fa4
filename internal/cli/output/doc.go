// Package output renders respkv-cli results.
//
//   - raw: redis-cli style reply text, tables for reports
//   - json: indented JSON
//   - yaml: YAML via gopkg.in/yaml.v3
//
// Replies are converted to Reply before JSON or YAML encoding so that
// every token kind has a stable shape.
package output
