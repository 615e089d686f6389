// Package callstate provides pure selectors over the calling-state snapshot.
package callstate

// Mode distinguishes 1:1 calls from group calls.
type Mode string

const (
	ModeDirect Mode = "direct"
	ModeGroup  Mode = "group"
)

// Call is the per-conversation call entry in the snapshot.
type Call struct {
	ConversationID string `json:"conversation_id"`
	Mode           Mode   `json:"mode"`
	Joined         bool   `json:"joined"`
	Ringing        bool   `json:"ringing"`
}

// State is the calling-state tree the desktop app publishes.
type State struct {
	ActiveCallConversationID string          `json:"active_call_conversation_id,omitempty"`
	CallsByConversation      map[string]Call `json:"calls_by_conversation,omitempty"`
}

// ActiveCall returns the call the user is currently in, if any.
func ActiveCall(s State) (Call, bool) {
	call, ok := s.CallsByConversation[s.ActiveCallConversationID]
	return call, ok
}

// IsInCall reports whether the user is currently in any call.
func IsInCall(s State) bool {
	_, ok := ActiveCall(s)
	return ok
}

// CallForConversation returns the call entry for a conversation, if any.
func CallForConversation(s State, conversationID string) (Call, bool) {
	call, ok := s.CallsByConversation[conversationID]
	return call, ok
}

// RingingCall returns the first incoming ringing call that is not already
// joined, if any. Map order is not stable, so when several calls ring at
// once callers should treat the pick as arbitrary.
func RingingCall(s State) (Call, bool) {
	for _, call := range s.CallsByConversation {
		if call.Ringing && !call.Joined {
			return call, true
		}
	}
	return Call{}, false
}
