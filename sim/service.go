package sim

// Service is a unit of placement with a capacity demand and a list of
// image-layer names pulled from the nearest registry on migration (spec §3).
type Service struct {
	ID          int
	Demand      int
	Layers      []string // image layer names, e.g. "os", "runtime", "app"
	Server      *EdgeServer
	Application *Application
	Migrations  []MigrationRecord
}

func (s *Service) EntityID() int { return s.ID }
