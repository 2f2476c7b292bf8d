package types

import (
	"net/http/httptest"
	"testing"
)

func TestGetViewRequestFromQuery(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/nodes?search=10.0&str=status:ready%7C%7Cerror&rng=ram:4-&lbl=env:$not_assigned&sort=status:asc&lsort=env:desc", nil)
	vr, err := GetViewRequest(r)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if !vr.HasState() {
		t.Errorf("expected explicit state")
	}
	if vr.Search != "10.0" || vr.Screen != "nodes" {
		t.Errorf("unexpected request %+v", vr)
	}
	status, ok := vr.Filters.Find(AttributeKey{Name: "status"})
	if !ok || len(status.Values) != 2 {
		t.Errorf("unexpected status filter %+v", status)
	}
	ram, _ := vr.Filters.Find(AttributeKey{Name: "ram"})
	if r := ram.Range(); r.Min == nil || *r.Min != 4 || r.Max != nil {
		t.Errorf("unexpected ram range %+v", ram.Values)
	}
	if env, ok := vr.Filters.Find(AttributeKey{Name: "env", IsLabel: true}); !ok || env.Values[0] != LabelNotAssigned {
		t.Errorf("unexpected label filter %+v", env)
	}
	if len(vr.Sorters) != 2 || vr.Sorters[1].Order != Desc || !vr.Sorters[1].IsLabel {
		t.Errorf("unexpected sorters %+v", vr.Sorters)
	}
}

func TestGetViewRequestWithoutState(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/nodes?user=admin", nil)
	vr, err := GetViewRequest(r)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if vr.HasState() {
		t.Errorf("expected request without state")
	}
	if vr.User != "admin" {
		t.Errorf("expected user admin, got %q", vr.User)
	}
}
