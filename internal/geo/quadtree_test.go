package geo

import (
	"fmt"
	"math/rand"
	"sort"
	"testing"
)

func worldRect() Rect {
	return Rect{MinX: -180, MinY: -90, MaxX: 180, MaxY: 90}
}

func TestQuadTreeAdd(t *testing.T) {
	tree := NewQuadTree(worldRect(), nil)

	if !tree.Add(Item{ID: "a", X: 10, Y: 20}) {
		t.Error("Add() inside rect = false, want true")
	}
	if tree.Add(Item{ID: "b", X: 200, Y: 0}) {
		t.Error("Add() outside rect = true, want false")
	}
	if tree.Add(Item{ID: "c", X: 0, Y: -91}) {
		t.Error("Add() outside rect = true, want false")
	}
	if tree.Len() != 1 {
		t.Errorf("Len() = %d, want 1", tree.Len())
	}
}

func TestQuadTreeConstructorDropsOutside(t *testing.T) {
	tree := NewQuadTree(worldRect(), []Item{
		{ID: "in", X: 0, Y: 0},
		{ID: "out", X: 500, Y: 500},
	})

	if tree.Len() != 1 {
		t.Errorf("Len() = %d, want 1", tree.Len())
	}
	items := tree.ItemsIn(worldRect())
	if len(items) != 1 || items[0].ID != "in" {
		t.Errorf("ItemsIn() = %v, want the single in-bounds item", items)
	}
}

func TestQuadTreeRemove(t *testing.T) {
	tree := NewQuadTree(worldRect(), nil)
	item := Item{ID: "a", X: 10, Y: 20}
	tree.Add(item)

	if tree.Remove(Item{ID: "missing", X: 10, Y: 20}) {
		t.Error("Remove() unknown ID = true, want false")
	}
	if tree.Remove(Item{ID: "a", X: 300, Y: 0}) {
		t.Error("Remove() outside rect = true, want false")
	}
	if !tree.Remove(item) {
		t.Error("Remove() stored item = false, want true")
	}
	if tree.Len() != 0 {
		t.Errorf("Len() after remove = %d, want 0", tree.Len())
	}
	if tree.Remove(item) {
		t.Error("Remove() twice = true, want false")
	}
}

func TestQuadTreeClear(t *testing.T) {
	tree := NewQuadTree(worldRect(), nil)
	for i := 0; i < 50; i++ {
		tree.Add(Item{ID: fmt.Sprintf("m%d", i), X: float64(i), Y: float64(i % 10)})
	}

	tree.Clear()
	if tree.Len() != 0 {
		t.Errorf("Len() after Clear() = %d, want 0", tree.Len())
	}
	if items := tree.ItemsIn(worldRect()); len(items) != 0 {
		t.Errorf("ItemsIn() after Clear() returned %d items, want 0", len(items))
	}
	if !tree.Add(Item{ID: "again", X: 0, Y: 0}) {
		t.Error("Add() after Clear() = false, want true")
	}
}

// Range queries must agree with a brute-force scan for arbitrary point sets.
func TestQuadTreeQueryMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	tree := NewQuadTree(worldRect(), nil)

	var all []Item
	for i := 0; i < 500; i++ {
		item := Item{
			ID: fmt.Sprintf("m%d", i),
			X:  rng.Float64()*360 - 180,
			Y:  rng.Float64()*180 - 90,
		}
		all = append(all, item)
		tree.Add(item)
	}

	queries := []Rect{
		{MinX: -10, MinY: -10, MaxX: 10, MaxY: 10},
		{MinX: -180, MinY: -90, MaxX: 180, MaxY: 90},
		{MinX: 100, MinY: 50, MaxX: 101, MaxY: 51},
		{MinX: -180, MinY: 0, MaxX: 0, MaxY: 90},
	}

	for _, q := range queries {
		var want []string
		for _, item := range all {
			if q.Contains(item.X, item.Y) {
				want = append(want, item.ID)
			}
		}
		var got []string
		for _, item := range tree.ItemsIn(q) {
			got = append(got, item.ID)
		}
		sort.Strings(want)
		sort.Strings(got)
		if len(got) != len(want) {
			t.Fatalf("ItemsIn(%v) returned %d items, want %d", q, len(got), len(want))
		}
		for i := range got {
			if got[i] != want[i] {
				t.Errorf("ItemsIn(%v) item %d = %v, want %v", q, i, got[i], want[i])
			}
		}
	}
}

func TestQuadTreeSplit(t *testing.T) {
	tree := NewQuadTree(Rect{MinX: 0, MinY: 0, MaxX: 100, MaxY: 100}, nil)
	for i := 0; i <= maxLeafItems; i++ {
		tree.Add(Item{ID: fmt.Sprintf("m%d", i), X: float64(i * 10), Y: float64(i * 10)})
	}

	root := tree.root
	if root.leaf() {
		t.Fatal("root still a leaf after exceeding capacity")
	}
	if len(root.items) != 0 {
		t.Errorf("split node kept %d items, want 0", len(root.items))
	}

	// Children partition the parent rect exactly.
	nw, ne, se, sw := root.children[quadNW], root.children[quadNE], root.children[quadSE], root.children[quadSW]
	if nw.rect.MaxX != ne.rect.MinX || sw.rect.MaxX != se.rect.MinX {
		t.Error("vertical midline mismatch between children")
	}
	if sw.rect.MaxY != nw.rect.MinY || se.rect.MaxY != ne.rect.MinY {
		t.Error("horizontal midline mismatch between children")
	}
	if nw.rect.MinX != root.rect.MinX || ne.rect.MaxX != root.rect.MaxX ||
		sw.rect.MinY != root.rect.MinY || nw.rect.MaxY != root.rect.MaxY {
		t.Error("children do not span the parent rect")
	}

	total := 0
	for _, c := range root.children {
		total += len(c.items)
	}
	if total != maxLeafItems+1 {
		t.Errorf("children hold %d items, want %d", total, maxLeafItems+1)
	}
	if tree.Len() != maxLeafItems+1 {
		t.Errorf("Len() = %d, want %d", tree.Len(), maxLeafItems+1)
	}
}

// Identical positions can never be separated by subdividing, so the tree must
// stop splitting at its depth ceiling instead of recursing forever.
func TestQuadTreeDepthCeiling(t *testing.T) {
	tree := NewQuadTree(worldRect(), nil)
	for i := 0; i < 200; i++ {
		if !tree.Add(Item{ID: fmt.Sprintf("m%d", i), X: 1.2345, Y: 2.3456}) {
			t.Fatalf("Add() item %d = false, want true", i)
		}
	}

	depth := 0
	n := tree.root
	for !n.leaf() {
		n = n.child(1.2345, 2.3456)
		depth++
	}
	if depth != maxTreeDepth {
		t.Errorf("leaf depth = %d, want %d", depth, maxTreeDepth)
	}
	if len(n.items) != 200 {
		t.Errorf("deepest leaf holds %d items, want 200", len(n.items))
	}

	got := tree.ItemsIn(Rect{MinX: 1, MinY: 2, MaxX: 2, MaxY: 3})
	if len(got) != 200 {
		t.Errorf("ItemsIn() returned %d items, want 200", len(got))
	}
}

func TestQuadTreeMidlineTies(t *testing.T) {
	tree := NewQuadTree(Rect{MinX: -10, MinY: -10, MaxX: 10, MaxY: 10}, nil)

	// Force a split, then land items exactly on the shared midlines.
	for i := 0; i <= maxLeafItems; i++ {
		tree.Add(Item{ID: fmt.Sprintf("f%d", i), X: float64(i) - 5.5, Y: float64(i) - 5.5})
	}
	center := Item{ID: "center", X: 0, Y: 0}
	tree.Add(center)

	if got := tree.ItemsIn(Rect{MinX: 0, MinY: 0, MaxX: 0, MaxY: 0}); len(got) != 1 || got[0].ID != "center" {
		t.Errorf("ItemsIn(point rect) = %v, want the center item", got)
	}
	if !tree.Remove(center) {
		t.Error("Remove() midline item = false, want true")
	}
}

func BenchmarkQuadTreeAdd(b *testing.B) {
	rng := rand.New(rand.NewSource(1))
	tree := NewQuadTree(worldRect(), nil)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tree.Add(Item{ID: "x", X: rng.Float64()*360 - 180, Y: rng.Float64()*180 - 90})
	}
}

func BenchmarkQuadTreeQuery(b *testing.B) {
	rng := rand.New(rand.NewSource(1))
	tree := NewQuadTree(worldRect(), nil)
	for i := 0; i < 10000; i++ {
		tree.Add(Item{ID: fmt.Sprintf("m%d", i), X: rng.Float64()*360 - 180, Y: rng.Float64()*180 - 90})
	}
	q := Rect{MinX: -10, MinY: -10, MaxX: 10, MaxY: 10}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tree.ItemsIn(q)
	}
}
