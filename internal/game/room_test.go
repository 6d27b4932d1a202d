package game

import (
	"fmt"
	"testing"
)

func TestRoomCapacityAndDuplicates(t *testing.T) {
	r := NewRoom("lobby")
	for i := 0; i < RoomCapacity; i++ {
		if !r.Add(&Player{Username: fmt.Sprintf("p%d", i)}) {
			t.Fatalf("add p%d rejected", i)
		}
	}
	if r.Add(&Player{Username: "p8"}) {
		t.Fatal("expected ninth member to be rejected")
	}
	if r.Len() != RoomCapacity {
		t.Fatalf("Len() = %d", r.Len())
	}
	r.Remove("p7")
	if r.Add(&Player{Username: "p0"}) {
		t.Fatal("expected duplicate username to be rejected")
	}
	if r.Len() != RoomCapacity-1 {
		t.Fatalf("Len() = %d after duplicate add", r.Len())
	}
	if p := r.Remove("ghost"); p != nil {
		t.Fatalf("remove absent returned %v", p)
	}
	if r.Len() != RoomCapacity-1 {
		t.Fatalf("Len() = %d after absent remove", r.Len())
	}
}

func TestRoomStringAndBotRemoval(t *testing.T) {
	r := NewRoom("den")
	r.Add(&Player{Username: "alice"})
	r.Add(&Player{Username: "Ace12", Policy: PolicySimple})
	r.Add(&Player{Username: "Hawk7", Policy: PolicyAdvanced})
	r.Add(&Player{Username: "Lynx3", Policy: PolicySimple})

	if got := r.String(); got != "den:4:#Lynx3:*Hawk7:#Ace12:alice" {
		t.Fatalf("String() = %q", got)
	}
	if p := r.RemoveNewestBot(PolicySimple); p == nil || p.Username != "Lynx3" {
		t.Fatalf("RemoveNewestBot(simple) = %v", p)
	}
	if p := r.RemoveNewestBot(PolicyAdvanced); p == nil || p.Username != "Hawk7" {
		t.Fatalf("RemoveNewestBot(advanced) = %v", p)
	}
	if p := r.RemoveNewestBot(PolicyAdvanced); p != nil {
		t.Fatalf("expected no advanced bot left, got %v", p)
	}
	if !r.HasHuman() {
		t.Fatal("expected human present")
	}
}
