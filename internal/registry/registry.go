// Package registry provides a global registry of hosted game descriptors.
// Game packages register themselves in init() functions, allowing the
// platform to discover and start games without hardcoded dependencies.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/gamerunner/internal/runner"
)

// ErrUnknownGame is returned by Lookup for ids that were never registered.
var ErrUnknownGame = errors.New("registry: unknown game")

// GameInfo contains metadata about a registered game.
type GameInfo struct {
	ID    string
	Title string
}

var (
	descriptors = make(map[string]runner.Descriptor)
	mu          sync.RWMutex
)

// Register adds a game descriptor to the registry.
// Typically called from a game's init() function.
// Panics if the descriptor has no id or constructor, or if the id is taken.
func Register(d runner.Descriptor) {
	mu.Lock()
	defer mu.Unlock()

	if d.ID == "" || d.New == nil {
		panic("registry: descriptor needs an ID and a constructor")
	}
	if _, exists := descriptors[d.ID]; exists {
		panic(fmt.Sprintf("registry: game %q already registered", d.ID))
	}
	if d.Title == "" {
		d.Title = d.ID
	}
	descriptors[d.ID] = d
}

// List returns information about all registered games, sorted by ID.
func List() []GameInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]GameInfo, 0, len(descriptors))
	for id, d := range descriptors {
		result = append(result, GameInfo{
			ID:    id,
			Title: d.Title,
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Lookup returns the descriptor registered under id.
func Lookup(id string) (runner.Descriptor, error) {
	mu.RLock()
	defer mu.RUnlock()

	d, ok := descriptors[id]
	if !ok {
		return runner.Descriptor{}, fmt.Errorf("%w %q", ErrUnknownGame, id)
	}
	return d, nil
}

// Exists checks if a game with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := descriptors[id]
	return ok
}

// unregister removes a descriptor. Tests only.
func unregister(id string) {
	mu.Lock()
	defer mu.Unlock()
	delete(descriptors, id)
}
