package audit

import (
	"strings"
	"testing"
)

func TestBuildBaseQuery(t *testing.T) {
	query, args := buildBaseQuery("SELECT COUNT(1)", Filter{})
	if len(args) != 0 {
		t.Fatalf("expected no args, got %v", args)
	}
	if !strings.HasSuffix(query, "WHERE 1=1") {
		t.Fatalf("unexpected query %q", query)
	}

	query, args = buildBaseQuery("SELECT COUNT(1)", Filter{Action: ActionTierApplied, EntityID: "f1", ActorUser: "u1"})
	if len(args) != 3 {
		t.Fatalf("expected 3 args, got %d", len(args))
	}
	for _, want := range []string{"action = $1", "entity_id = $2", "actor_user_id::text = $3"} {
		if !strings.Contains(query, want) {
			t.Fatalf("expected %q in %q", want, query)
		}
	}
}
