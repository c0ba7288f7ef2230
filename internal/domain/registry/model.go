package registry

import "strings"

// Status is a reputation category assigned to a username.
type Status string

const (
	// StatusAdmin is never stored; it is synthesized at read time from
	// the configured administrator list.
	StatusAdmin  Status = "admin"
	StatusVerify Status = "verify"
	StatusGarant Status = "garant"
	StatusMedia  Status = "media"
	StatusFame   Status = "fame"
	StatusScam   Status = "scam"
	StatusBeach  Status = "beach"
	StatusNew    Status = "new"
	StatusPDF    Status = "pdf"
)

// Assignable lists every status an admin may store for a user, in no
// particular order. StatusAdmin is deliberately absent.
var Assignable = []Status{
	StatusVerify, StatusGarant, StatusMedia, StatusFame,
	StatusScam, StatusBeach, StatusNew, StatusPDF,
}

// Valid reports whether s is a storable status code.
func Valid(s Status) bool {
	for _, v := range Assignable {
		if s == v {
			return true
		}
	}
	return false
}

// Priority is the fixed display rank of a status. Lower sorts first.
func Priority(s Status) int {
	switch s {
	case StatusAdmin:
		return 1
	case StatusVerify:
		return 2
	case StatusGarant:
		return 3
	case StatusMedia:
		return 4
	case StatusFame:
		return 5
	case StatusScam:
		return 6
	case StatusBeach:
		return 7
	case StatusNew:
		return 8
	default:
		return 9
	}
}

// Normalize case-folds raw input and maps localized aliases to canonical
// codes using the given table. Unknown input passes through lowercased so
// the caller can validate and report it.
func Normalize(aliases map[string]string, raw string) Status {
	s := strings.ToLower(strings.TrimSpace(raw))
	if canonical, ok := aliases[s]; ok {
		return Status(canonical)
	}
	return Status(s)
}

// Record is one registry entry: a username with its assigned status.
type Record struct {
	Username string
	Status   Status
}

// Key case-folds a username for storage and lookup.
func Key(username string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(username), "@"))
}
