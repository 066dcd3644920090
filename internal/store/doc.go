// Package store defines the account persistence contract shared by the
// mongo, postgres and memory backends, and the errors every backend maps
// its driver failures onto. Callers above this package never see a driver
// error type.
package store
