// Package auth issues and verifies account tokens and checks passwords.
//
// IssueToken and VerifyToken are the pure token codec; JWTService binds them to
// the configured secret and lifetime. Authenticator resolves an identifier and
// password to an account, and SessionIssuer turns that account into a token plus
// its public projection.
package auth
