// Package service contains the account use cases. It coordinates the domain
// model, the account store and the auth package; it never depends on a
// concrete store backend or on HTTP.
package service
