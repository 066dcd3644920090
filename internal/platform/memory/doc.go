// Package memory provides an in-process implementation of store.AccountStore.
// It is used for local development (database.driver=memory) and for
// end-to-end router tests; data does not survive a restart.
package memory
