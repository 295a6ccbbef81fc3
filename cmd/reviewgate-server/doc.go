// Package main provides the entry point for reviewgate-server.
//
// reviewgate-server issues opaque access tokens at login, verifies them on
// every request, and serves token-gated profile and submission reads backed
// by PostgreSQL.
package main
