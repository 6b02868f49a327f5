package geo

// Quadtree node limits. A leaf splits once it holds more than maxLeafItems
// and is still above maxTreeDepth; leaves at maxTreeDepth grow without
// bound instead of splitting further.
const (
	maxLeafItems = 8
	maxTreeDepth = 12
)

// Rect is an axis-aligned rectangle in projected coordinates, typically the
// whole world with X as longitude and Y as latitude.
type Rect struct {
	MinX float64 `json:"min_x"`
	MinY float64 `json:"min_y"`
	MaxX float64 `json:"max_x"`
	MaxY float64 `json:"max_y"`
}

// Contains reports whether the point lies within the rect, edges included.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.MinX && x <= r.MaxX && y >= r.MinY && y <= r.MaxY
}

// Intersects reports whether two rects overlap, edge contact included.
func (r Rect) Intersects(o Rect) bool {
	return !(r.MaxX < o.MinX || r.MinX > o.MaxX || r.MaxY < o.MinY || r.MinY > o.MaxY)
}

func (r Rect) center() (x, y float64) {
	return (r.MinX + r.MaxX) / 2, (r.MinY + r.MaxY) / 2
}

// Item is a point payload stored in a QuadTree. Items are matched by ID on
// removal; position-based containment is the tree's only other concern.
type Item struct {
	ID   string
	X    float64
	Y    float64
	Data any
}

// Quadrant order inside a split node.
const (
	quadNW = iota
	quadNE
	quadSE
	quadSW
)

// qnode is either a leaf (children unset, items live here) or an interior
// node delegating to exactly four quadrant children. The only transition is
// leaf to interior; nodes are never merged back.
type qnode struct {
	rect     Rect
	depth    int
	items    []Item
	children *[4]*qnode
}

// QuadTree is a point-indexed quadtree over a fixed bounding rect, used for
// marker clustering and rectangular range queries.
//
// The tree has no internal synchronization: it must be owned by a single
// goroutine or externally serialized by its owner. This is a hard
// requirement, not an implicit guarantee.
type QuadTree struct {
	rect Rect
	root *qnode
	size int
}

// NewQuadTree creates a tree covering rect and inserts the given items.
// Items positioned outside rect are silently dropped.
func NewQuadTree(rect Rect, items []Item) *QuadTree {
	t := &QuadTree{
		rect: rect,
		root: &qnode{rect: rect},
	}
	for _, item := range items {
		t.Add(item)
	}
	return t
}

// Rect returns the fixed bounding rect the tree covers.
func (t *QuadTree) Rect() Rect { return t.rect }

// Len returns the number of items currently stored.
func (t *QuadTree) Len() int { return t.size }

// Add inserts an item, returning false without mutation when its position is
// outside the tree's rect.
func (t *QuadTree) Add(item Item) bool {
	if !t.rect.Contains(item.X, item.Y) {
		return false
	}
	t.root.add(item)
	t.size++
	return true
}

// Remove deletes the item with the same ID from the leaf containing the
// item's position. It returns false when the position is outside the tree's
// rect or no stored item there carries the ID. Emptied nodes are not merged
// back into their parent.
func (t *QuadTree) Remove(item Item) bool {
	if !t.rect.Contains(item.X, item.Y) {
		return false
	}
	if t.root.remove(item) {
		t.size--
		return true
	}
	return false
}

// Clear resets the tree to a single empty leaf over the original rect,
// discarding the subdivided structure.
func (t *QuadTree) Clear() {
	t.root = &qnode{rect: t.rect}
	t.size = 0
}

// ItemsIn returns all stored items whose position falls within query.
// Subtrees whose rect does not intersect query are skipped entirely.
func (t *QuadTree) ItemsIn(query Rect) []Item {
	return t.root.query(query, nil)
}

func (n *qnode) leaf() bool { return n.children == nil }

// child picks the quadrant containing the point. Points on the shared
// midlines land in exactly one child (ties go north/east).
func (n *qnode) child(x, y float64) *qnode {
	midX, midY := n.rect.center()
	if y >= midY {
		if x >= midX {
			return n.children[quadNE]
		}
		return n.children[quadNW]
	}
	if x >= midX {
		return n.children[quadSE]
	}
	return n.children[quadSW]
}

func (n *qnode) add(item Item) {
	if !n.leaf() {
		n.child(item.X, item.Y).add(item)
		return
	}
	n.items = append(n.items, item)
	if len(n.items) > maxLeafItems && n.depth < maxTreeDepth {
		n.split()
	}
}

// split carves the leaf's rect into four exact quadrants at the midpoint and
// redistributes every item into the child containing its position.
func (n *qnode) split() {
	midX, midY := n.rect.center()
	depth := n.depth + 1
	n.children = &[4]*qnode{
		quadNW: {rect: Rect{MinX: n.rect.MinX, MinY: midY, MaxX: midX, MaxY: n.rect.MaxY}, depth: depth},
		quadNE: {rect: Rect{MinX: midX, MinY: midY, MaxX: n.rect.MaxX, MaxY: n.rect.MaxY}, depth: depth},
		quadSE: {rect: Rect{MinX: midX, MinY: n.rect.MinY, MaxX: n.rect.MaxX, MaxY: midY}, depth: depth},
		quadSW: {rect: Rect{MinX: n.rect.MinX, MinY: n.rect.MinY, MaxX: midX, MaxY: midY}, depth: depth},
	}
	items := n.items
	n.items = nil
	for _, item := range items {
		n.child(item.X, item.Y).add(item)
	}
}

func (n *qnode) remove(item Item) bool {
	if !n.leaf() {
		return n.child(item.X, item.Y).remove(item)
	}
	for i := range n.items {
		if n.items[i].ID == item.ID {
			n.items = append(n.items[:i], n.items[i+1:]...)
			return true
		}
	}
	return false
}

// query appends matches to out. The leaf's rect may only partially overlap
// the query rect, so each item is checked against the query rect itself.
func (n *qnode) query(q Rect, out []Item) []Item {
	if !n.rect.Intersects(q) {
		return out
	}
	if n.leaf() {
		for _, item := range n.items {
			if q.Contains(item.X, item.Y) {
				out = append(out, item)
			}
		}
		return out
	}
	for _, c := range n.children {
		out = c.query(q, out)
	}
	return out
}
