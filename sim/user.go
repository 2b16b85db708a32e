package sim

// User moves through the topology along a pre-computed mobility trace and
// consumes one or more applications through their service chains (spec §3).
type User struct {
	ID                int
	CoordinatesTrace  []Coordinates
	Coordinates       Coordinates
	BaseStation       *BaseStation
	Applications      []*Application

	CommunicationPaths map[*Application][]*BaseStation
	Delays             map[*Application]int
	DelaySlas          map[*Application]int
	ProvisioningTimeSlas map[*Application]int
}

func (u *User) EntityID() int { return u.ID }

// NewUser creates a User with initialized maps.
func NewUser(id int, trace []Coordinates) *User {
	return &User{
		ID:                   id,
		CoordinatesTrace:     trace,
		CommunicationPaths:   make(map[*Application][]*BaseStation),
		Delays:               make(map[*Application]int),
		DelaySlas:            make(map[*Application]int),
		ProvisioningTimeSlas: make(map[*Application]int),
	}
}
