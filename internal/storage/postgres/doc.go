// Package postgres implements the account, profile and submission
// collaborators of the session controller on top of PostgreSQL.
//
// Connections go through database/sql with either the pgx stdlib driver
// ("pgx") or lib/pq ("postgres"). Every query runs under the configured
// per-query timeout.
package postgres
