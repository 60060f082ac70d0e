package state

import "testing"

func TestStackLIFO(t *testing.T) {
	s := NewStack[string](2)
	s.Push("a")
	s.Push("b")
	s.Push("c")

	if s.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", s.Len())
	}
	snap := s.Snapshot()
	if len(snap) != 3 || snap[0] != "a" || snap[2] != "c" {
		t.Fatalf("Snapshot() = %v", snap)
	}
	for _, want := range []string{"c", "b", "a"} {
		got, ok := s.Pop()
		if !ok || got != want {
			t.Fatalf("Pop() = %q, %v; want %q, true", got, ok, want)
		}
	}
	if _, ok := s.Pop(); ok {
		t.Fatal("Pop() on empty stack ok = true")
	}
	if snap[1] != "b" {
		t.Fatal("Snapshot() shares storage with the stack")
	}
}

func TestStackNil(t *testing.T) {
	var s *Stack[int]
	if s.Len() != 0 || s.Snapshot() != nil {
		t.Fatal("nil stack not empty")
	}
	if _, ok := s.Pop(); ok {
		t.Fatal("Pop() on nil stack ok = true")
	}
}
