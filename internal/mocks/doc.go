// Package mocks provides hand-written test doubles for the account store and
// the auth service interfaces. Each mock exposes function fields so a test can
// override one method and keep defaults for the rest.
package mocks
