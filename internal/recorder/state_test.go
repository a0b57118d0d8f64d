package recorder

import (
	"fmt"
	"testing"
	"time"
)

func TestStateStoreReturnsSameStatePerClient(t *testing.T) {
	store := NewStateStore()

	first := store.Get("client-a")
	first.setActive("sess-1", "Login Flow")

	second := store.Get("client-a")
	if first != second {
		t.Error("repeat Get for the same client must return the same state")
	}
	if id, _, _ := second.ActiveSession(); id != "sess-1" {
		t.Errorf("state lost across Get calls: active id = %q", id)
	}

	if store.Get("client-b") == first {
		t.Error("distinct clients must not share state")
	}
}

func TestStateStoreEvictsLongestIdleClient(t *testing.T) {
	store := NewStateStore()
	clock := time.Unix(0, 0)
	store.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}

	for i := 0; i < maxClientStates; i++ {
		store.Get(fmt.Sprintf("client-%d", i))
	}
	oldest := store.Get("client-0")
	oldest.setActive("sess-old", "Old")

	// Touch every other client so client-0 becomes the idlest again.
	for i := 1; i < maxClientStates; i++ {
		store.Get(fmt.Sprintf("client-%d", i))
	}

	store.Get("client-new")

	if len(store.states) != maxClientStates {
		t.Errorf("len(states) = %d, want bounded at %d", len(store.states), maxClientStates)
	}
	replacement := store.Get("client-0")
	if replacement == oldest {
		t.Error("longest-idle client was not evicted")
	}
	if replacement.Phase() != PhaseIdle {
		t.Errorf("re-created state Phase() = %q, want %q", replacement.Phase(), PhaseIdle)
	}
}
