package showcase

// Handle is a stable index into an Arena. Linked structures refer to
// each other through handles instead of pointers so that ownership stays
// with the arena and a debugger can still follow the chain.
type Handle int

// Nil is the empty link.
const Nil Handle = -1

// Arena owns a set of nodes addressed by Handle.
type Arena[T any] struct {
	items []T
}

// Alloc appends v and returns its handle.
func (a *Arena[T]) Alloc(v T) Handle {
	a.items = append(a.items, v)
	return Handle(len(a.items) - 1)
}

// At returns the node for h. It panics if h is Nil or out of range.
func (a *Arena[T]) At(h Handle) *T {
	return &a.items[h]
}

// Len returns the number of nodes in the arena.
func (a *Arena[T]) Len() int {
	return len(a.items)
}

// ListNode is a node of a doubly linked list.
type ListNode struct {
	Data int
	Next Handle
	Prev Handle
}

// List is a doubly linked list stored in an arena.
type List struct {
	Nodes Arena[ListNode]
	Head  Handle
	Tail  Handle
}

// NewList builds a list holding 1..count. A non-positive count yields an
// empty list.
func NewList(count int) *List {
	l := &List{Head: Nil, Tail: Nil}
	for i := 1; i <= count; i++ {
		h := l.Nodes.Alloc(ListNode{Data: i, Next: Nil, Prev: l.Tail})
		if l.Tail == Nil {
			l.Head = h
		} else {
			l.Nodes.At(l.Tail).Next = h
		}
		l.Tail = h
	}
	return l
}

// Len returns the number of nodes.
func (l *List) Len() int {
	return l.Nodes.Len()
}

// Values walks the list from head to tail.
func (l *List) Values() []int {
	var r []int
	for h := l.Head; h != Nil; h = l.Nodes.At(h).Next {
		r = append(r, l.Nodes.At(h).Data)
	}
	return r
}

// Reverse walks the list from tail to head.
func (l *List) Reverse() []int {
	var r []int
	for h := l.Tail; h != Nil; h = l.Nodes.At(h).Prev {
		r = append(r, l.Nodes.At(h).Data)
	}
	return r
}

// TreeNode is a node of a binary tree. Depth counts down to 1 at the
// leaves.
type TreeNode struct {
	Value int
	Depth int
	Left  Handle
	Right Handle
}

// Tree is a binary tree stored in an arena.
type Tree struct {
	Nodes Arena[TreeNode]
	Root  Handle
}

// NewTree builds a complete binary tree of the given depth by recursive
// construction: the root holds 1, a node holding v has children 2v and
// 2v+1. A non-positive depth yields an empty tree.
func NewTree(depth int) *Tree {
	t := &Tree{}
	t.Root = t.build(depth, 1)
	return t
}

func (t *Tree) build(depth, value int) Handle {
	if depth <= 0 {
		return Nil
	}
	h := t.Nodes.Alloc(TreeNode{Value: value, Depth: depth, Left: Nil, Right: Nil})
	left := t.build(depth-1, value*2)
	right := t.build(depth-1, value*2+1)
	n := t.Nodes.At(h)
	n.Left, n.Right = left, right
	return h
}

// Len returns the number of nodes.
func (t *Tree) Len() int {
	return t.Nodes.Len()
}

// LevelOrder returns the node values breadth first.
func (t *Tree) LevelOrder() []int {
	if t.Root == Nil {
		return nil
	}
	var r []int
	queue := []Handle{t.Root}
	for len(queue) > 0 {
		n := t.Nodes.At(queue[0])
		queue = queue[1:]
		r = append(r, n.Value)
		for _, c := range []Handle{n.Left, n.Right} {
			if c != Nil {
				queue = append(queue, c)
			}
		}
	}
	return r
}

// Sum adds up every value in the tree.
func (t *Tree) Sum() int {
	s := 0
	for i := 0; i < t.Nodes.Len(); i++ {
		s += t.Nodes.At(Handle(i)).Value
	}
	return s
}
