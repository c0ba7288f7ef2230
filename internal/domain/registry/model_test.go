package registry

import "testing"

func TestKey(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Alice", "alice"},
		{"@Alice", "alice"},
		{"  @BOB  ", "bob"},
		{"carol", "carol"},
	}
	for _, c := range cases {
		if got := Key(c.in); got != c.want {
			t.Errorf("Key(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNormalize(t *testing.T) {
	aliases := map[string]string{
		"медийка": "media",
		"скам":    "scam",
	}
	if got := Normalize(aliases, " Медийка "); got != StatusMedia {
		t.Errorf("alias not applied: got %q", got)
	}
	if got := Normalize(aliases, "VERIFY"); got != StatusVerify {
		t.Errorf("case folding failed: got %q", got)
	}
	if got := Normalize(aliases, "nonsense"); got != Status("nonsense") {
		t.Errorf("unknown input should pass through: got %q", got)
	}
}

func TestValidExcludesAdmin(t *testing.T) {
	if Valid(StatusAdmin) {
		t.Error("admin must not be a storable status")
	}
	for _, s := range Assignable {
		if !Valid(s) {
			t.Errorf("%q should be valid", s)
		}
	}
}

func TestPriorityOrdering(t *testing.T) {
	order := []Status{
		StatusAdmin, StatusVerify, StatusGarant, StatusMedia,
		StatusFame, StatusScam, StatusBeach, StatusNew, StatusPDF,
	}
	for i := 1; i < len(order); i++ {
		if Priority(order[i-1]) >= Priority(order[i]) {
			t.Errorf("Priority(%q) should sort before %q", order[i-1], order[i])
		}
	}
	if Priority(Status("unknown")) != Priority(StatusPDF) {
		t.Error("unknown statuses should share the last rank")
	}
}
