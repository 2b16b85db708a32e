package sim

import "testing"

func TestRemoveFarthestRegistries_RemovesRegistryPickedByNoUser(t *testing.T) {
	// GIVEN registries on all three servers of a line topology, bs0-bs1-bs2,
	// and users stationed only at bs0 and bs2 (none at bs1)
	w, stations, servers := buildLineWorld()
	var regs []*ContainerRegistry
	for i, srv := range servers {
		reg := &ContainerRegistry{ID: i, Server: srv}
		img := &ContainerImage{ID: i, Name: "app", Size: 10, ContainerRegistry: reg}
		reg.Images = append(reg.Images, img)
		srv.ContainerRegistries = append(srv.ContainerRegistries, reg)
		w.ContainerRegistries.Add(reg)
		w.ContainerImages.Add(img)
		regs = append(regs, reg)
	}

	userAt0 := NewUser(0, nil)
	userAt0.BaseStation = stations[0]
	w.Users.Add(userAt0)
	userAt2 := NewUser(1, nil)
	userAt2.BaseStation = stations[2]
	w.Users.Add(userAt2)

	// WHEN farthest registries are removed
	removed := RemoveFarthestRegistries(w)

	// THEN only the registry on servers[1] is removed: it is co-located with
	// no user, while regs[0] and regs[2] are each the closest (co-located,
	// infinite-bandwidth) registry to one of the two users
	if len(removed) != 1 || removed[0] != regs[1] {
		t.Fatalf("expected only the registry on servers[1] to be removed, got %v", removed)
	}
	remaining := w.ContainerRegistries.All()
	if len(remaining) != 2 {
		t.Fatalf("expected 2 registries remaining, got %d", len(remaining))
	}
	seen := map[int]bool{}
	for _, r := range remaining {
		seen[r.ID] = true
	}
	if !seen[0] || !seen[1] {
		t.Errorf("expected contiguous ids {0,1}, got %v", remaining)
	}
	remainingImages := w.ContainerImages.All()
	if len(remainingImages) != 2 {
		t.Fatalf("expected 2 images remaining, got %d", len(remainingImages))
	}
}
