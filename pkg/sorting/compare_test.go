package sorting

import (
	"testing"

	"github.com/matst80/node-finder/pkg/types"
)

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	}
	return 0
}

func TestCompareRoles(t *testing.T) {
	controller := &types.Node{Roles: []string{"controller"}}
	compute := &types.Node{Roles: []string{"compute"}}
	both := &types.Node{Roles: []string{"compute"}, PendingRoles: []string{"controller"}}
	none := &types.Node{}
	asc := types.Sorter{Name: "roles", Order: types.Asc}

	cases := []struct {
		name string
		a, b *types.Node
		want int
	}{
		{"controller before compute", controller, compute, -1},
		{"no roles last", none, compute, 1},
		{"both empty", none, &types.Node{}, 0},
		{"fewer remaining roles first", controller, both, -1},
		{"same roles", compute, &types.Node{Roles: []string{"compute"}}, 0},
	}
	for _, c := range cases {
		if got := sign(Compare(c.a, c.b, asc, cfg)); got != c.want {
			t.Errorf("%s: expected %d got %d", c.name, c.want, got)
		}
	}
}

func TestCompareStatusUsesPriority(t *testing.T) {
	c := types.EngineConfig{StatusPriority: []string{"error", "ready"}}
	errNode := &types.Node{Status: "error"}
	ready := &types.Node{Status: "ready"}
	unknown := &types.Node{Status: "weird"}
	asc := types.Sorter{Name: "status", Order: types.Asc}
	if Compare(errNode, ready, asc, c) >= 0 {
		t.Errorf("error should sort before ready")
	}
	if Compare(unknown, ready, asc, c) <= 0 {
		t.Errorf("unknown status should sort after known")
	}
	if Compare(errNode, ready, types.Sorter{Name: "status", Order: types.Desc}, c) <= 0 {
		t.Errorf("desc should reverse")
	}
}

func TestCompareLabels(t *testing.T) {
	v := func(s string) *string { return &s }
	notAssigned := &types.Node{}
	notSpecified := &types.Node{Labels: map[string]*string{"env": nil}}
	prod := &types.Node{Labels: map[string]*string{"env": v("prod")}}
	dev := &types.Node{Labels: map[string]*string{"env": v("Dev")}}
	asc := types.Sorter{Name: "env", Order: types.Asc, IsLabel: true}

	if Compare(notAssigned, notSpecified, asc, cfg) >= 0 {
		t.Errorf("not assigned should sort before not specified")
	}
	if Compare(notSpecified, dev, asc, cfg) >= 0 {
		t.Errorf("not specified should sort before values")
	}
	if Compare(dev, prod, asc, cfg) >= 0 {
		t.Errorf("dev should sort before prod ignoring case")
	}
	if Compare(notAssigned, &types.Node{}, asc, cfg) != 0 {
		t.Errorf("two unassigned labels are equal")
	}
}

func TestCompareOptionalIds(t *testing.T) {
	one, two := 1, 2
	a := &types.Node{GroupId: &two}
	b := &types.Node{GroupId: &one}
	missing := &types.Node{}
	asc := types.Sorter{Name: "group_id", Order: types.Asc}
	if Compare(b, a, asc, cfg) >= 0 {
		t.Errorf("group 1 before group 2")
	}
	if Compare(missing, a, asc, cfg) <= 0 {
		t.Errorf("missing group sorts last")
	}
}

func TestCompareUnknownAttributeIsEqual(t *testing.T) {
	a := ramNode(1, "a", 4, types.StatusReady)
	b := ramNode(2, "b", 8, types.StatusReady)
	if c := Compare(a, b, types.Sorter{Name: "bogus", Order: types.Asc}, cfg); c != 0 {
		t.Errorf("unknown attributes should compare equal, got %d", c)
	}
}

func TestCompareDisksAndManufacturer(t *testing.T) {
	small := &types.Node{Manufacturer: "dell", Meta: types.NodeMeta{Disks: []types.Disk{{Size: 9 * types.GiB}}}}
	large := &types.Node{Manufacturer: "HP", Meta: types.NodeMeta{Disks: []types.Disk{{Size: 10 * types.GiB}}}}
	if Compare(small, large, types.Sorter{Name: "disks", Order: types.Asc}, cfg) >= 0 {
		t.Errorf("9 GB should naturally sort before 10 GB")
	}
	if Compare(small, large, types.Sorter{Name: "manufacturer", Order: types.Asc}, cfg) >= 0 {
		t.Errorf("dell should sort before HP ignoring case")
	}
}
