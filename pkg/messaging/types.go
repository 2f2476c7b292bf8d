package messaging

type ChangeTopic string

const (
	NodesUpserted      ChangeTopic = "node_upserted"
	NodesDeleted       ChangeTopic = "node_deleted"
	PreferencesChanged ChangeTopic = "preferences_changed"
)

// PreferencesChange is published after a user's preferences were saved.
type PreferencesChange struct {
	Key    string `json:"key"`
	Source string `json:"source"`
}
