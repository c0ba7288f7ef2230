package moderation

import "strings"

// Admin is one configured administrator identity.
type Admin struct {
	ID   int64
	Name string
}

// Gate answers whether a caller may perform privileged operations. It is
// a pure function of configuration and holds no mutable state.
type Gate struct {
	admins []Admin
	byID   map[int64]string
	byName map[string]struct{}
}

func NewGate(admins []Admin) *Gate {
	g := &Gate{
		admins: admins,
		byID:   make(map[int64]string, len(admins)),
		byName: make(map[string]struct{}, len(admins)),
	}
	for _, a := range admins {
		g.byID[a.ID] = a.Name
		g.byName[strings.ToLower(a.Name)] = struct{}{}
	}
	return g
}

func (g *Gate) IsAdmin(id int64) bool {
	_, ok := g.byID[id]
	return ok
}

// IsAdminName reports whether a (case-folded) username belongs to a
// configured admin. Used to synthesize the admin status on lookups.
func (g *Gate) IsAdminName(username string) bool {
	_, ok := g.byName[strings.ToLower(username)]
	return ok
}

// NameFor returns the display name for an admin id, or the empty string.
func (g *Gate) NameFor(id int64) string {
	return g.byID[id]
}

// Names returns admin display names in configured order.
func (g *Gate) Names() []string {
	out := make([]string, 0, len(g.admins))
	for _, a := range g.admins {
		out = append(out, a.Name)
	}
	return out
}

// Count returns the number of configured admins.
func (g *Gate) Count() int { return len(g.admins) }
