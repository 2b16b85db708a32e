package sim

// Identifiable is implemented by every entity type that owns a stable
// integer id unique within its type.
type Identifiable interface {
	EntityID() int
}

// Collection is the idiomatic-Go rendering of the teacher corpus's
// class-attribute "instances" pattern (ObjectCollection in
// original_source/edge_sim_py/object_collection.py): a typed, ordered,
// resettable registry with id-based and predicate-based lookups.
//
// Unlike the Python original, a Collection is a value owned by a World, not
// a package-level global — see sim/doc.go.
type Collection[T Identifiable] struct {
	items []T
}

// All returns every item in insertion order. Callers that depend on a
// specific order must sort explicitly (spec §5).
func (c *Collection[T]) All() []T {
	return c.items
}

// Add appends an item to the collection.
func (c *Collection[T]) Add(item T) {
	c.items = append(c.items, item)
}

// Count returns the number of items currently held.
func (c *Collection[T]) Count() int {
	return len(c.items)
}

// First returns the first item in the collection. Panics on an empty
// collection, matching the Python original's unchecked instances[0].
func (c *Collection[T]) First() T {
	return c.items[0]
}

// FindByID returns the item whose EntityID matches id, and whether it was found.
func (c *Collection[T]) FindByID(id int) (T, bool) {
	for _, item := range c.items {
		if item.EntityID() == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// FindBy returns the first item matching pred. This is the idiomatic Go
// realization of the Python original's find_by(attribute_name, value):
// callers pass a closure instead of a stringly-typed attribute name.
func (c *Collection[T]) FindBy(pred func(T) bool) (T, bool) {
	for _, item := range c.items {
		if pred(item) {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// Remove deletes the first item equal to target (by pointer identity for
// pointer element types) and returns whether it was found.
func (c *Collection[T]) Remove(target T) bool {
	for i, item := range c.items {
		if any(item) == any(target) {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return true
		}
	}
	return false
}

// World owns every entity collection and the topology for one simulation
// run. Constructing a new World (dataset.Load does this) never touches any
// other World, so concurrent or sequential runs in the same test process
// cannot leak state into each other.
type World struct {
	BaseStations        Collection[*BaseStation]
	EdgeServers         Collection[*EdgeServer]
	ContainerImages     Collection[*ContainerImage]
	ContainerRegistries Collection[*ContainerRegistry]
	Applications        Collection[*Application]
	Services            Collection[*Service]
	Users               Collection[*User]
	Topology            *Topology

	// nextRegistryID and nextImageID back the contiguous renumbering that
	// RemoveFarthestRegistries performs (spec §4.5, §4.2).
	nextRegistryID int
	nextImageID    int
}

// NewWorld creates an empty World with an empty Topology.
func NewWorld() *World {
	return &World{Topology: NewTopology()}
}

// SeedIDCounters sets the id counters registry provisioning and
// RemoveFarthestRegistries use to mint new registry/image ids, so freshly
// loaded datasets continue numbering from their own high-water mark instead
// of colliding with ids already present in the scenario.
func (w *World) SeedIDCounters(nextRegistryID, nextImageID int) {
	w.nextRegistryID = nextRegistryID
	w.nextImageID = nextImageID
}
