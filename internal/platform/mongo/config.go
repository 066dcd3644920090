package mongo

import "time"

// Config represents the connection settings for the MongoDB backend.
type Config struct {
	ConnectionURL  string        // ConnectionURL is the mongodb:// or mongodb+srv:// URL.
	Database       string        // Database is the database holding the accounts collection.
	ConnectTimeout time.Duration // ConnectTimeout bounds a single connection attempt.
	MaxPoolSize    uint64        // MaxPoolSize is the maximum number of pooled connections.
	RetryAttempts  uint64        // RetryAttempts is how many times a failed connect+ping is retried.
	RetryInterval  time.Duration // RetryInterval is the pause between connection attempts.
}
