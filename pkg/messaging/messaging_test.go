package messaging

import "testing"

func TestTopicNames(t *testing.T) {
	cases := []struct {
		topic ChangeTopic
		want  string
	}{
		{NodesUpserted, "fleet_node_upserted"},
		{NodesDeleted, "fleet_node_deleted"},
		{PreferencesChanged, "fleet_preferences_changed"},
	}
	for _, c := range cases {
		if got := getName("fleet", c.topic); got != c.want {
			t.Errorf("expected %s got %s", c.want, got)
		}
	}
}
