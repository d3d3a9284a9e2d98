package cache

import (
	"cmp"
	"testing"
)

func treeKeys[K cmp.Ordered, V any](root *treeNode[K, V]) []K {
	if root == nil {
		return nil
	}
	out := treeKeys(root.left)
	out = append(out, root.key)
	return append(out, treeKeys(root.right)...)
}

func treeCount[K cmp.Ordered, V any](root *treeNode[K, V]) int {
	return len(treeKeys(root))
}

// Insert then find must round-trip values and timestamps regardless of
// insertion order.
func TestTree_InsertFind(t *testing.T) {
	t.Parallel()

	var root *treeNode[int, string]
	for i, k := range []int{5, 2, 8, 1, 3, 7, 9} {
		var replaced bool
		root, replaced = treeInsert(root, k, "v", int64(i))
		if replaced {
			t.Fatalf("fresh insert of %d reported replaced", k)
		}
	}

	if n := treeFind(root, 3); n == nil || n.val != "v" || n.insertedAt != 4 {
		t.Fatalf("find 3: got %+v", n)
	}
	if n := treeFind(root, 6); n != nil {
		t.Fatalf("find absent key returned %+v", n)
	}
}

// Re-inserting an existing key must overwrite in place, never create a
// second node for the key.
func TestTree_InsertOverwritesDuplicate(t *testing.T) {
	t.Parallel()

	var root *treeNode[string, int]
	root, _ = treeInsert(root, "b", 1, 10)
	root, _ = treeInsert(root, "a", 2, 11)
	root, _ = treeInsert(root, "c", 3, 12)

	var replaced bool
	root, replaced = treeInsert(root, "b", 99, 13)
	if !replaced {
		t.Fatal("duplicate insert must report replaced")
	}
	if got := treeCount(root); got != 3 {
		t.Fatalf("duplicate insert grew the tree: %d nodes", got)
	}
	if n := treeFind(root, "b"); n.val != 99 || n.insertedAt != 13 {
		t.Fatalf("overwrite not in place: %+v", n)
	}
}

// BST deletion: leaf, single-child, and two-child (successor splice)
// cases, plus the absent-key no-op.
func TestTree_Remove(t *testing.T) {
	t.Parallel()

	var root *treeNode[int, int]
	for i, k := range []int{50, 30, 70, 20, 40, 60, 80} {
		root, _ = treeInsert(root, k, k, int64(i))
	}

	// Absent key: no-op.
	var removed bool
	root, removed = treeRemove(root, 99)
	if removed || treeCount(root) != 7 {
		t.Fatal("removing an absent key must be a no-op")
	}

	// Leaf.
	root, removed = treeRemove(root, 20)
	if !removed || treeFind(root, 20) != nil {
		t.Fatal("leaf removal failed")
	}

	// Single child: 30 now has only the right child 40.
	root, removed = treeRemove(root, 30)
	if !removed || treeFind(root, 30) != nil || treeFind(root, 40) == nil {
		t.Fatal("single-child removal failed")
	}

	// Two children: removing the root splices in its in-order successor.
	root, removed = treeRemove(root, 50)
	if !removed || treeFind(root, 50) != nil {
		t.Fatal("two-child removal failed")
	}
	want := []int{40, 60, 70, 80}
	got := treeKeys(root)
	if len(got) != len(want) {
		t.Fatalf("keys after removals: %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("in-order keys: got %v, want %v", got, want)
		}
	}
}

// The successor splice must carry the successor's timestamp along with
// its key and value, or the eviction scan would age the wrong entry.
func TestTree_RemoveKeepsSuccessorTimestamp(t *testing.T) {
	t.Parallel()

	var root *treeNode[int, string]
	root, _ = treeInsert(root, 2, "two", 200)
	root, _ = treeInsert(root, 1, "one", 100)
	root, _ = treeInsert(root, 3, "three", 300)

	root, _ = treeRemove(root, 2) // successor is 3
	n := treeFind(root, 3)
	if n == nil || n.val != "three" || n.insertedAt != 300 {
		t.Fatalf("successor splice lost metadata: %+v", n)
	}
}

// treeExtremal must visit every node, not just a search path.
func TestTree_ExtremalFindsOldest(t *testing.T) {
	t.Parallel()

	older := func(a, b *treeNode[int, int]) bool { return a.insertedAt < b.insertedAt }

	if n := treeExtremal[int, int](nil, older); n != nil {
		t.Fatal("empty tree must yield nil")
	}

	var root *treeNode[int, int]
	// Timestamps deliberately uncorrelated with key order; the oldest
	// entry sits deep in the right subtree.
	stamps := map[int]int64{10: 500, 5: 400, 20: 300, 15: 100, 30: 200}
	for _, k := range []int{10, 5, 20, 15, 30} {
		root, _ = treeInsert(root, k, k, stamps[k])
	}

	n := treeExtremal(root, older)
	if n == nil || n.key != 15 || n.insertedAt != 100 {
		t.Fatalf("oldest: got %+v, want key 15", n)
	}
}
