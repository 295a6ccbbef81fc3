// Package handler implements the reviewgate HTTP API on top of the session
// controller.
//
// Every JSON response uses the Response envelope. Failures carry the domain
// error code both in the body and in the X-Error-Code header; collaborator
// causes are logged, never returned to the client.
package handler
