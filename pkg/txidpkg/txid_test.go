package txidpkg

import (
	"strings"
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	now := time.Date(2024, time.March, 7, 15, 4, 5, 0, time.UTC)

	id := New(now)

	if len(id) != len(Prefix)+6+4 {
		t.Errorf("New(%v) = %q, want length %d", now, id, len(Prefix)+6+4)
	}

	if !strings.HasPrefix(id, Prefix+"240307") {
		t.Errorf("New(%v) = %q, want prefix %q", now, id, Prefix+"240307")
	}

	suffix := id[len(Prefix)+6:]
	for _, r := range suffix {
		if r < '0' || r > '9' {
			t.Errorf("New(%v) = %q, suffix %q is not numeric", now, id, suffix)
		}
	}
}
