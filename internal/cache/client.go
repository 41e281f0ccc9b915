package cache

import (
	"context"

	"github.com/Raymond9734/customer-records-api/internal/models"
)

// AddressCache defines the interface for caching resolved addresses
type AddressCache interface {
	// Get returns the cached address for a CEP; found is false on a miss
	Get(ctx context.Context, cep string) (addr *models.Address, found bool, err error)

	// Set stores a resolved address
	Set(ctx context.Context, cep string, addr *models.Address) error

	// Close closes the cache connection
	Close() error

	// Health checks if the cache is healthy
	Health(ctx context.Context) error
}
