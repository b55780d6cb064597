package ui

import "github.com/richinsley/vellum/render"

// Tree arranges text views into nested horizontal and vertical
// splits. Exactly one leaf is active at a time and the tree never
// becomes empty.

type nodeKind int

const (
	nodeLeaf nodeKind = iota
	nodeRow           // children side by side
	nodeCol           // children stacked
)

type node struct {
	kind     nodeKind
	view     *TextView
	parent   *node
	children []*node
	rect     render.Rect
}

// Tree is the split layout over one window.
type Tree struct {
	root   *node
	active *node
}

// NewTree builds a single pane tree around view.
func NewTree(view *TextView) *Tree {
	leaf := &node{kind: nodeLeaf, view: view}
	return &Tree{root: leaf, active: leaf}
}

// Active returns the focused view.
func (t *Tree) Active() *TextView {
	return t.active.view
}

// Split places view next to the active leaf. When vertical is true
// the new pane goes below, otherwise to the right. The new pane
// becomes active.
func (t *Tree) Split(view *TextView, vertical bool) {
	kind := nodeRow
	if vertical {
		kind = nodeCol
	}
	leaf := &node{kind: nodeLeaf, view: view}

	cur := t.active
	parent := cur.parent
	if parent != nil && parent.kind == kind {
		leaf.parent = parent
		i := childIndex(parent, cur)
		parent.children = append(parent.children, nil)
		copy(parent.children[i+2:], parent.children[i+1:])
		parent.children[i+1] = leaf
	} else {
		inner := &node{kind: kind, parent: parent, children: []*node{cur, leaf}}
		cur.parent = inner
		leaf.parent = inner
		if parent == nil {
			t.root = inner
		} else {
			parent.children[childIndex(parent, cur)] = inner
		}
	}
	t.active = leaf
}

// CloseActive removes the focused pane and returns its view so the
// caller can release it. Closing the last pane returns nil.
func (t *Tree) CloseActive() *TextView {
	cur := t.active
	parent := cur.parent
	if parent == nil {
		return nil
	}
	view := cur.view

	before := leafNodes(t.root, nil)
	pos := 0
	for j, n := range before {
		if n == cur {
			pos = j
			break
		}
	}

	i := childIndex(parent, cur)
	parent.children = append(parent.children[:i], parent.children[i+1:]...)

	// An inner node with one child collapses into it.
	if len(parent.children) == 1 {
		only := parent.children[0]
		only.parent = parent.parent
		if parent.parent == nil {
			t.root = only
		} else {
			parent.parent.children[childIndex(parent.parent, parent)] = only
		}
	}

	nodes := leafNodes(t.root, nil)
	if pos >= len(nodes) {
		pos = len(nodes) - 1
	}
	t.active = nodes[pos]
	return view
}

// FocusNext moves focus to the following leaf, wrapping around.
func (t *Tree) FocusNext() {
	t.cycle(1)
}

// FocusPrev moves focus to the preceding leaf, wrapping around.
func (t *Tree) FocusPrev() {
	t.cycle(-1)
}

func (t *Tree) cycle(step int) {
	nodes := leafNodes(t.root, nil)
	i := 0
	for j, n := range nodes {
		if n == t.active {
			i = j
			break
		}
	}
	t.active = nodes[(i+step+len(nodes))%len(nodes)]
}

// ViewAt returns the view whose pane contains the point without
// changing focus.
func (t *Tree) ViewAt(x, y float32) *TextView {
	if n := t.nodeAt(x, y); n != nil {
		return n.view
	}
	return nil
}

// ActiveRect returns the focused pane's rect from the last layout.
func (t *Tree) ActiveRect() render.Rect {
	return t.active.rect
}

func (t *Tree) nodeAt(x, y float32) *node {
	for _, n := range leafNodes(t.root, nil) {
		if n.rect.Contains(x, y) {
			return n
		}
	}
	return nil
}

// Layout assigns pane rects within the window rect. Space divides
// evenly among siblings with the leftover pixels going to the first
// children.
func (t *Tree) Layout(rect render.Rect) {
	layoutNode(t.root, rect)
}

func layoutNode(n *node, rect render.Rect) {
	n.rect = rect
	if n.kind == nodeLeaf {
		return
	}
	count := len(n.children)
	var total int
	if n.kind == nodeRow {
		total = int(rect.W)
	} else {
		total = int(rect.H)
	}
	spans := splitSpan(total, count)
	offset := 0
	for i, child := range n.children {
		var r render.Rect
		if n.kind == nodeRow {
			r = render.Rect{X: rect.X + float32(offset), Y: rect.Y, W: float32(spans[i]), H: rect.H}
		} else {
			r = render.Rect{X: rect.X, Y: rect.Y + float32(offset), W: rect.W, H: float32(spans[i])}
		}
		layoutNode(child, r)
		offset += spans[i]
	}
}

// splitSpan divides total pixels among n siblings. Each gets total/n
// and the first total%n get one extra.
func splitSpan(total, n int) []int {
	spans := make([]int, n)
	base := total / n
	rem := total % n
	for i := range spans {
		spans[i] = base
		if i < rem {
			spans[i]++
		}
	}
	return spans
}

// Leaves returns the views in layout order.
func (t *Tree) Leaves() []*TextView {
	nodes := leafNodes(t.root, nil)
	views := make([]*TextView, len(nodes))
	for i, n := range nodes {
		views[i] = n.view
	}
	return views
}

// leafRects returns the views paired with their pane rects.
func (t *Tree) leafRects() []*node {
	return leafNodes(t.root, nil)
}

func leafNodes(n *node, dst []*node) []*node {
	if n.kind == nodeLeaf {
		return append(dst, n)
	}
	for _, child := range n.children {
		dst = leafNodes(child, dst)
	}
	return dst
}

func childIndex(parent, child *node) int {
	for i, c := range parent.children {
		if c == child {
			return i
		}
	}
	return -1
}
