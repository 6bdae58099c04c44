// Package token renders validated tickets as signed JWTs for relying
// parties that consume token-shaped credentials instead of opaque ticket
// ids. The issuer never touches the registry: callers validate a ticket
// through the registry first, then hand the result to [Issuer.Issue].
package token
