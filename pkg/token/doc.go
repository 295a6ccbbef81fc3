// Package token provides random token generation for reviewgate.
//
// Tokens are drawn from crypto/rand and encoded as Base64 RawURL, so they
// are safe to place in headers, URLs and cookies without escaping.
//
// Generation never returns an error; a failing entropy source panics.
package token
