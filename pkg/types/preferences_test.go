package types

import (
	"encoding/json"
	"testing"
)

func TestPreferencesDecodeWireFormat(t *testing.T) {
	raw := `{
		"sort": [{"status": "asc"}],
		"sort_by_labels": [{"env": "desc"}],
		"filter": {"status": ["error"], "ram": [4, null]},
		"filter_by_labels": {"env": ["prod", false, null]},
		"search": "node-1"
	}`
	var p Preferences
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	sorters := p.Sorters()
	if len(sorters) != 2 || sorters[0].Name != "status" || !sorters[1].IsLabel || sorters[1].Order != Desc {
		t.Fatalf("unexpected sorters %+v", sorters)
	}

	filters := p.Filters()
	ram, ok := filters.Find(AttributeKey{Name: "ram"})
	if !ok {
		t.Fatal("expected ram filter")
	}
	r := ram.Range()
	if r.Min == nil || *r.Min != 4 || r.Max != nil {
		t.Errorf("unexpected ram range %+v", r)
	}
	env, ok := filters.Find(AttributeKey{Name: "env", IsLabel: true})
	if !ok {
		t.Fatal("expected env label filter")
	}
	want := []string{"prod", LabelNotAssigned, LabelNotSpecified}
	for i, v := range want {
		if env.Values[i] != v {
			t.Errorf("value %d: expected %q got %q", i, v, env.Values[i])
		}
	}
}

func TestNewPreferencesKeepsLabelStates(t *testing.T) {
	filters := FilterSet{
		{Name: "env", IsLabel: true, Values: []string{LabelNotAssigned, LabelNotSpecified, "prod"}},
		{Name: "group_id", Values: []string{"3"}},
	}
	p := NewPreferences(filters, SorterSet{{Name: "ram", Order: Desc}}, "", "")
	b, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded Preferences
	if err := json.Unmarshal(b, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	env, _ := decoded.Filters().Find(AttributeKey{Name: "env", IsLabel: true})
	if len(env.Values) != 3 || env.Values[0] != LabelNotAssigned || env.Values[1] != LabelNotSpecified {
		t.Errorf("label states lost: %v", env.Values)
	}
	group, _ := decoded.Filters().Find(AttributeKey{Name: "group_id"})
	if len(group.Values) != 1 || group.Values[0] != "3" {
		t.Errorf("unexpected group filter %v", group.Values)
	}
	if decoded.ViewMode != ViewModeStandard {
		t.Errorf("expected default view mode, got %q", decoded.ViewMode)
	}
}

func TestParsePreferenceKey(t *testing.T) {
	user, screen, ok := ParsePreferenceKey(PreferenceKey("ops:alice", "nodes"))
	if !ok || user != "ops:alice" || screen != "nodes" {
		t.Errorf("unexpected parse %q %q %v", user, screen, ok)
	}
	if _, _, ok := ParsePreferenceKey("other:alice:nodes"); ok {
		t.Error("expected keys without the settings prefix to be rejected")
	}
}
