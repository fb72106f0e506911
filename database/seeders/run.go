// Package seeders inserts demo data into MongoDB.
//
// Define a seeder in any file of this package and register it from init():
//
//	func init() { seeders.Register("products", SeedProducts) }
//
// Then run via the CLI: vdeck seed
package seeders

import (
	"context"
	"fmt"
	"sync"

	"github.com/VDECKSHOP/backend/pkg/mongodb"
)

// SeederFunc is the signature for a seed function.
type SeederFunc func(ctx context.Context, store *mongodb.Store) error

type seederEntry struct {
	name string
	fn   SeederFunc
}

var (
	mu      sync.Mutex
	entries []seederEntry
)

// Register adds a seeder to the global registry.
func Register(name string, fn SeederFunc) {
	mu.Lock()
	defer mu.Unlock()
	entries = append(entries, seederEntry{name: name, fn: fn})
}

// RunAll executes every registered seeder in registration order, stopping
// on the first error.
func RunAll(ctx context.Context, store *mongodb.Store) error {
	mu.Lock()
	current := make([]seederEntry, len(entries))
	copy(current, entries)
	mu.Unlock()

	if len(current) == 0 {
		fmt.Println("  (no seeders registered)")
		return nil
	}

	for _, e := range current {
		fmt.Printf("  running seeder: %s ... ", e.name)
		if err := e.fn(ctx, store); err != nil {
			fmt.Println("FAILED")
			return fmt.Errorf("seeder %q: %w", e.name, err)
		}
		fmt.Println("done")
	}
	return nil
}
