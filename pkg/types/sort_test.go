package types

import (
	"testing"
)

func TestSorterIdentityIncludesLabelFlag(t *testing.T) {
	label := Sorter{Name: "env", Order: Asc, IsLabel: true}
	attr := Sorter{Name: "env", Order: Asc}

	set := SorterSet{}.With(label).With(attr)
	if len(set) != 2 {
		t.Fatalf("expected 2 sorters, got %d", len(set))
	}

	toggled := set.Toggle(label.Key())
	if toggled[0].Order != Desc {
		t.Errorf("expected label sorter to be desc, got %s", toggled[0].Order)
	}
	if toggled[1].Order != Asc {
		t.Errorf("expected attribute sorter to stay asc, got %s", toggled[1].Order)
	}
	if set[0].Order != Asc {
		t.Errorf("toggle mutated the original set")
	}

	removed := toggled.Without(attr.Key())
	if len(removed) != 1 || !removed[0].IsLabel {
		t.Fatalf("expected only the label sorter to remain, got %+v", removed)
	}
}

func TestSorterSetWithReplacesDirection(t *testing.T) {
	set := SorterSet{{Name: "status", Order: Asc}, {Name: "ram", Order: Asc}}
	next := set.With(Sorter{Name: "status", Order: Desc})
	if len(next) != 2 || next[0].Order != Desc || next[0].Name != "status" {
		t.Fatalf("unexpected set %+v", next)
	}
	if set[0].Order != Asc {
		t.Errorf("original set changed")
	}
}

func TestSorterSetMove(t *testing.T) {
	set := SorterSet{{Name: "a"}, {Name: "b"}, {Name: "c"}}
	cases := []struct {
		name string
		to   int
		want string
	}{
		{"c", 0, "cab"},
		{"a", 2, "bca"},
		{"a", 10, "bca"},
		{"b", -3, "bac"},
		{"missing", 0, "abc"},
	}
	for _, c := range cases {
		moved := set.Move(AttributeKey{Name: c.name}, c.to)
		got := ""
		for _, s := range moved {
			got += s.Name
		}
		if got != c.want {
			t.Errorf("move %s to %d: expected %s got %s", c.name, c.to, c.want, got)
		}
	}
}

func TestSorterSetPartition(t *testing.T) {
	set := SorterSet{{Name: "name"}, {Name: "status"}, {Name: "ip", IsLabel: true}, {Name: "mac"}}
	if u := set.Unique(); len(u) != 2 || u[0].Name != "name" || u[1].Name != "mac" {
		t.Errorf("unexpected unique sorters %+v", u)
	}
	if g := set.Grouping(); len(g) != 2 || g[0].Name != "status" || !g[1].IsLabel {
		t.Errorf("unexpected grouping sorters %+v", g)
	}
}
