package sim

import "testing"

func TestCollection_FindByID_ReturnsMatchingItem(t *testing.T) {
	var c Collection[*Service]
	s1 := &Service{ID: 1}
	s2 := &Service{ID: 2}
	c.Add(s1)
	c.Add(s2)

	got, ok := c.FindByID(2)
	if !ok || got != s2 {
		t.Fatalf("expected to find service 2, got %v, %v", got, ok)
	}

	_, ok = c.FindByID(99)
	if ok {
		t.Error("expected no match for id 99")
	}
}

func TestCollection_FindBy_ReturnsFirstMatch(t *testing.T) {
	var c Collection[*Service]
	c.Add(&Service{ID: 1, Demand: 5})
	c.Add(&Service{ID: 2, Demand: 10})

	got, ok := c.FindBy(func(s *Service) bool { return s.Demand > 8 })
	if !ok || got.ID != 2 {
		t.Fatalf("expected service 2, got %v", got)
	}
}

func TestCollection_Remove_DeletesByPointerIdentity(t *testing.T) {
	var c Collection[*Service]
	s1 := &Service{ID: 1}
	s2 := &Service{ID: 1} // same id, different pointer
	c.Add(s1)
	c.Add(s2)

	if !c.Remove(s1) {
		t.Fatal("expected removal of s1 to succeed")
	}
	if c.Count() != 1 {
		t.Fatalf("expected 1 item remaining, got %d", c.Count())
	}
	if c.All()[0] != s2 {
		t.Error("expected s2 to remain, removed the wrong pointer")
	}
}

func TestNewWorld_StartsEmpty(t *testing.T) {
	w := NewWorld()
	if w.BaseStations.Count() != 0 || w.EdgeServers.Count() != 0 {
		t.Error("expected a fresh World to start with empty collections")
	}
	if w.Topology == nil {
		t.Error("expected NewWorld to initialize a Topology")
	}
}
