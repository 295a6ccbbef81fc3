// Package httpserver provides the HTTP/HTTPS server for reviewgate.
//
// It serves the API implemented by package handler plus /metrics, behind a
// middleware chain: Recover, RequestID, CORS, Audit, and a per-client-IP
// rate limit on the login endpoint.
package httpserver
