// Package service provides the session controller of reviewgate.
//
// SessionController is the single entry point for login, logout, session
// verification and the two token-gated reads (user profile, submission
// list). It owns no IO: the session store, profile cache and the three
// external collaborators are injected through the interfaces declared in
// this package, and every failure leaves the controller as a domain error
// from a closed per-operation set.
//
// The controller is safe for concurrent use. It never holds a lock across
// a collaborator call.
package service
