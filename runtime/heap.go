package runtime

import (
	"sync"
)

// Handle identifies an object on the heap. It is the receiver passed as
// parameter 0 of every lowered function. Zero is never a valid handle.
type Handle uint32

// Object is the host-side state of one instance.
type Object struct {
	Class string
	// Args are the constructor arguments.
	Args []int64
	// Base is the state the nearest native base was constructed with,
	// after every super-constructor call on the way to it.
	Base []int64
	// Delegates maps a delegate expression to the object it evaluates to.
	Delegates map[string]Handle
	// Data is storage for user bodies.
	Data any
}

type heap struct {
	objects map[Handle]*Object
	next    Handle
	mu      sync.Mutex
}

func newHeap() *heap {
	return &heap{objects: make(map[Handle]*Object)}
}

func (h *heap) put(o *Object) Handle {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.next++
	h.objects[h.next] = o
	return h.next
}

func (h *heap) get(id Handle) (*Object, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	o, ok := h.objects[id]
	return o, ok
}

func (h *heap) drop(id Handle) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.objects, id)
}

func (h *heap) len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.objects)
}
