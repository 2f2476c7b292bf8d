package facet

import (
	"testing"

	"github.com/matst80/node-finder/pkg/types"
)

func strPtr(s string) *string { return &s }

func nodeWithRam(bytes int64) *types.Node {
	return &types.Node{Id: 1, Meta: types.NodeMeta{Memory: types.MemoryInfo{Total: bytes}}}
}

func TestInactiveFilterMatchesEverything(t *testing.T) {
	nodes := []*types.Node{
		{Id: 1},
		{Id: 2, Status: types.StatusError, Roles: []string{"compute"}},
		nodeWithRam(8 * types.GiB),
	}
	filters := []types.Filter{
		{Name: "status"},
		{Name: "roles", Values: []string{}},
		{Name: "env", IsLabel: true},
		{Name: "ram", Values: []string{"", ""}},
	}
	for _, n := range nodes {
		for _, f := range filters {
			if !Matches(n, f) {
				t.Errorf("node %d should match inactive filter %+v", n.Id, f)
			}
		}
	}
}

func TestByteResourcesAreFlooredToGiB(t *testing.T) {
	if v := ResourceValue(nodeWithRam(3*types.GiB+1), "ram"); v != 3 {
		t.Errorf("expected 3 got %v", v)
	}
	if v := ResourceValue(nodeWithRam(4*types.GiB), "ram"); v != 4 {
		t.Errorf("expected 4 got %v", v)
	}

	filter := types.Filter{Name: "ram", Values: []string{"4", ""}}
	if Matches(nodeWithRam(4*types.GiB-1), filter) {
		t.Errorf("node with just under 4 GiB should not match >= 4")
	}
	if !Matches(nodeWithRam(4*types.GiB), filter) {
		t.Errorf("node with 4 GiB should match >= 4")
	}
	upper := types.Filter{Name: "ram", Values: []string{"", "3"}}
	if !Matches(nodeWithRam(3*types.GiB+1), upper) {
		t.Errorf("3 GiB and one byte converts to 3 and should match <= 3")
	}
}

func TestHddSumsDisks(t *testing.T) {
	n := &types.Node{Meta: types.NodeMeta{Disks: []types.Disk{{Size: 100 * types.GiB}, {Size: 50 * types.GiB}}}}
	if !Matches(n, types.Filter{Name: "hdd", Values: []string{"150", "150"}}) {
		t.Errorf("expected hdd 150 to match")
	}
	if !Matches(n, types.Filter{Name: "disks_amount", Values: []string{"2", "2"}}) {
		t.Errorf("expected two disks to match")
	}
}

func TestRolesMatchAny(t *testing.T) {
	n := &types.Node{Roles: []string{"compute"}, PendingRoles: []string{"cinder"}}
	if !Matches(n, types.Filter{Name: "roles", Values: []string{"controller", "cinder"}}) {
		t.Errorf("expected pending role to match")
	}
	if Matches(n, types.Filter{Name: "roles", Values: []string{"controller"}}) {
		t.Errorf("expected no match")
	}
}

func TestStatusUsesSummary(t *testing.T) {
	n := &types.Node{Status: types.StatusDiscover, PendingAddition: true}
	if !Matches(n, types.Filter{Name: "status", Values: []string{types.StatusPendingAddition}}) {
		t.Errorf("expected pending addition summary to match")
	}
	online := false
	offline := &types.Node{Status: types.StatusReady, Online: &online}
	if Matches(offline, types.Filter{Name: "status", Values: []string{types.StatusReady}}) {
		t.Errorf("offline node should not match ready")
	}
	if !Matches(offline, types.Filter{Name: "status", Values: []string{types.StatusOffline}}) {
		t.Errorf("offline node should match offline")
	}
}

func TestGroupAndClusterMembership(t *testing.T) {
	group := 3
	n := &types.Node{GroupId: &group}
	if !Matches(n, types.Filter{Name: "group_id", Values: []string{"3"}}) {
		t.Errorf("expected group 3 to match")
	}
	if Matches(n, types.Filter{Name: "cluster", Values: []string{"3"}}) {
		t.Errorf("node without cluster should not match")
	}
}

func TestLabelFilterStates(t *testing.T) {
	assigned := &types.Node{Id: 1, Labels: map[string]*string{"env": strPtr("prod")}}
	unspecified := &types.Node{Id: 2, Labels: map[string]*string{"env": nil}}
	missing := &types.Node{Id: 3}

	cases := []struct {
		values []string
		want   []bool
	}{
		{[]string{"prod"}, []bool{true, false, false}},
		{[]string{types.LabelNotSpecified}, []bool{false, true, false}},
		{[]string{types.LabelNotAssigned}, []bool{false, false, true}},
		{[]string{"prod", types.LabelNotAssigned}, []bool{true, false, true}},
	}
	for _, c := range cases {
		f := types.Filter{Name: "env", IsLabel: true, Values: c.values}
		for i, n := range []*types.Node{assigned, unspecified, missing} {
			if got := Matches(n, f); got != c.want[i] {
				t.Errorf("values %v node %d: expected %v got %v", c.values, n.Id, c.want[i], got)
			}
		}
	}
}

func TestFiltersCombineConjunctively(t *testing.T) {
	a := &types.Node{Id: 1, Status: types.StatusReady, Manufacturer: "X"}
	b := &types.Node{Id: 2, Status: types.StatusReady, Manufacturer: "Y"}
	filters := types.FilterSet{
		{Name: "status", Values: []string{types.StatusReady}},
		{Name: "manufacturer", Values: []string{"Y"}},
	}
	if MatchesAll(a, filters) {
		t.Errorf("node A should be excluded by manufacturer")
	}
	if !MatchesAll(b, filters) {
		t.Errorf("node B should match both filters")
	}
}

func TestInvalidRangeStillEvaluates(t *testing.T) {
	f := types.Filter{Name: "cores", Values: []string{"8", "2"}}
	n := &types.Node{Meta: types.NodeMeta{Cpu: types.CpuInfo{Real: 4}}}
	if Matches(n, f) {
		t.Errorf("no value can satisfy min > max")
	}
	if Matches(n, types.Filter{Name: "cores", Values: []string{"8", "bogus"}}) {
		t.Errorf("min bound should still apply when max is unparsable")
	}
}
