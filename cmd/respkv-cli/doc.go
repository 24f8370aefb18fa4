// Package main provides the entry point for respkv-cli.
//
// Usage:
//
//	respkv-cli ping
//	respkv-cli -s 10.0.0.5:6379 set session:1 token --px 30000
//	respkv-cli -o json get session:1
//	respkv-cli bench -c 50 -n 100000 --qps 20000
//	respkv-cli            # interactive mode
package main
