package mongo

import (
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/phrazzld/squad-api/internal/store"
)

var (
	// ErrFailedToConnect is returned when every connection attempt failed.
	ErrFailedToConnect = errors.New("failed to connect to mongo")

	// ErrHealthcheckFailed is returned when a ping fails.
	ErrHealthcheckFailed = errors.New("mongo healthcheck failed")
)

// MapError maps a driver error to a store error.
// It wraps the original error so the driver detail is kept for logging.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, mongo.ErrNoDocuments) {
		return store.ErrAccountNotFound
	}

	if mongo.IsDuplicateKeyError(err) {
		if strings.Contains(err.Error(), refCodeIndexName) {
			return errors.Join(store.ErrDuplicateReferralCode, err)
		}
		return errors.Join(store.ErrDuplicateAccount, err)
	}

	return err
}
