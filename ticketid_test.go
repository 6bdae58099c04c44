package ticketreg

import (
	"strings"
	"testing"
)

func TestNewTicketIDShapeAndUniqueness(t *testing.T) {
	seen := make(map[string]bool)
	for range 100 {
		id := NewTicketGrantingTicketID()
		if !strings.HasPrefix(id, PrefixTicketGranting+"-") {
			t.Fatalf("id %q lacks prefix", id)
		}
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}

	if !strings.HasPrefix(NewServiceTicketID(), PrefixService+"-") {
		t.Fatal("service ticket id lacks ST prefix")
	}
	if !strings.HasPrefix(NewProxyGrantingTicketID(), PrefixProxyGranting+"-") {
		t.Fatal("proxy-granting ticket id lacks PGT prefix")
	}
}
