// Package mongo provides the MongoDB implementation of store.AccountStore,
// the default Credential Store backend.
//
// Connection management follows a connect-then-ping loop with a bounded
// number of retries so that a database still starting up (docker compose,
// Atlas failover) does not abort the process. Unique indexes on the e-mail
// and referral code enforce account uniqueness under concurrent registrations.
package mongo
