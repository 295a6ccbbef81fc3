// Package domain defines the core domain models for reviewgate.
//
// Domain models are pure value objects and entities without any
// IO dependencies or framework coupling. This package contains:
//
//   - AccessToken: opaque bearer credential and its generator
//   - Session: binding of a token to a user until a fixed expiry
//   - Role, Permission: the role grant table used at login
//   - UserID, UserInfo, SubID: identifiers and values owned by collaborators
//   - Errors: the closed error taxonomy of every core operation
package domain
