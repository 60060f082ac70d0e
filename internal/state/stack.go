package state

// Stack is a reusable LIFO stack.
type Stack[T any] struct {
	items []T
}

// NewStack creates a stack with an optional capacity hint.
func NewStack[T any](capacity int) *Stack[T] {
	if capacity <= 0 {
		return &Stack[T]{}
	}
	return &Stack[T]{items: make([]T, 0, capacity)}
}

// Push adds one value to the stack top.
func (s *Stack[T]) Push(value T) {
	s.items = append(s.items, value)
}

// Pop removes and returns the top value.
func (s *Stack[T]) Pop() (T, bool) {
	var zero T
	if s == nil || len(s.items) == 0 {
		return zero, false
	}
	last := len(s.items) - 1
	value := s.items[last]
	s.items[last] = zero
	s.items = s.items[:last]
	return value, true
}

// Len reports the current stack depth.
func (s *Stack[T]) Len() int {
	if s == nil {
		return 0
	}
	return len(s.items)
}

// Snapshot returns a copy of the stack contents in push order.
func (s *Stack[T]) Snapshot() []T {
	if s == nil || len(s.items) == 0 {
		return nil
	}
	out := make([]T, len(s.items))
	copy(out, s.items)
	return out
}
