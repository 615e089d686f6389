// Package model defines the snapshot types the Mercury desktop app publishes
// for companion tools. All types are read-only views; the CLI never writes
// them back.
package model

// Conversation is one entry in the app's conversation list snapshot.
// Optional fields are empty/zero when the app has no value for them.
type Conversation struct {
	ID          string `json:"id"`
	ServiceID   string `json:"service_id,omitempty"` // contact UUID, empty for groups
	E164        string `json:"e164,omitempty"`       // normalized phone number
	GroupID     string `json:"group_id,omitempty"`
	ActiveAt    int64  `json:"active_at,omitempty"` // unix millis of last activity, 0 = never
	Title       string `json:"title"`
	Name        string `json:"name,omitempty"`         // contact-book name
	ProfileName string `json:"profile_name,omitempty"` // self-set profile name
	Username    string `json:"username,omitempty"`
}

// HasName reports whether the conversation carries a contact or profile name.
// The picker sorts named conversations ahead of unnamed ones.
func (c Conversation) HasName() bool {
	return c.Name != "" || c.ProfileName != ""
}
