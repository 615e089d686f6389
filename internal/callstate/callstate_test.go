package callstate_test

import (
	"testing"

	"github.com/mercurychat/mercury-cli/internal/callstate"
)

func TestActiveCall_None(t *testing.T) {
	var s callstate.State
	if _, ok := callstate.ActiveCall(s); ok {
		t.Fatal("expected no active call for empty state")
	}
	if callstate.IsInCall(s) {
		t.Fatal("IsInCall should be false for empty state")
	}
}

func TestActiveCall_StaleActiveID(t *testing.T) {
	// The app can clear a call entry before it clears the active pointer;
	// the selector must treat that as "not in a call".
	s := callstate.State{
		ActiveCallConversationID: "conv-1",
		CallsByConversation:      map[string]callstate.Call{},
	}
	if callstate.IsInCall(s) {
		t.Fatal("IsInCall should be false when active ID has no call entry")
	}
}

func TestActiveCall_Present(t *testing.T) {
	s := callstate.State{
		ActiveCallConversationID: "conv-1",
		CallsByConversation: map[string]callstate.Call{
			"conv-1": {ConversationID: "conv-1", Mode: callstate.ModeGroup, Joined: true},
			"conv-2": {ConversationID: "conv-2", Mode: callstate.ModeDirect, Ringing: true},
		},
	}
	call, ok := callstate.ActiveCall(s)
	if !ok {
		t.Fatal("expected active call")
	}
	if call.ConversationID != "conv-1" || call.Mode != callstate.ModeGroup {
		t.Fatalf("unexpected active call: %+v", call)
	}
	if !callstate.IsInCall(s) {
		t.Fatal("IsInCall should be true")
	}
}

func TestCallForConversation(t *testing.T) {
	s := callstate.State{
		CallsByConversation: map[string]callstate.Call{
			"conv-2": {ConversationID: "conv-2", Mode: callstate.ModeDirect, Ringing: true},
		},
	}
	if _, ok := callstate.CallForConversation(s, "conv-1"); ok {
		t.Fatal("expected no call for conv-1")
	}
	call, ok := callstate.CallForConversation(s, "conv-2")
	if !ok || !call.Ringing {
		t.Fatalf("expected ringing call for conv-2, got %+v ok=%v", call, ok)
	}
}

func TestRingingCall_SkipsJoined(t *testing.T) {
	s := callstate.State{
		CallsByConversation: map[string]callstate.Call{
			"conv-1": {ConversationID: "conv-1", Ringing: true, Joined: true},
		},
	}
	if _, ok := callstate.RingingCall(s); ok {
		t.Fatal("joined call should not count as ringing")
	}

	s.CallsByConversation["conv-2"] = callstate.Call{ConversationID: "conv-2", Ringing: true}
	call, ok := callstate.RingingCall(s)
	if !ok || call.ConversationID != "conv-2" {
		t.Fatalf("expected ringing conv-2, got %+v ok=%v", call, ok)
	}
}
