// Package domain contains the core business entities, value objects, and
// domain logic of the application: the Account record, referral codes and
// the client-safe projection of an account. It is independent of any
// specific storage or delivery mechanism.
package domain
