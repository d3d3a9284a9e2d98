package cache

import "cmp"

// treeNode is one entry in a shard's key-ordered binary search tree.
// The tree is deliberately unbalanced: sharding keeps each tree small in
// the expected case, and the linear worst case is an accepted trade-off
// for a simple single-owner pointer structure.
type treeNode[K cmp.Ordered, V any] struct {
	key K
	val V

	// Insertion wall-clock time in Unix milliseconds. Written on insert
	// and on overwrite, never on lookup: recency is recency of insertion.
	insertedAt int64

	left  *treeNode[K, V]
	right *treeNode[K, V]
}

// treeInsert places k→v into the tree rooted at root and returns the new
// root. replaced reports that an existing node was overwritten in place
// (value and timestamp) rather than a node created. Equality is checked
// before descending, so repeated inserts of one key never stack
// duplicate-key nodes.
func treeInsert[K cmp.Ordered, V any](root *treeNode[K, V], k K, v V, ts int64) (_ *treeNode[K, V], replaced bool) {
	if root == nil {
		return &treeNode[K, V]{key: k, val: v, insertedAt: ts}, false
	}
	switch {
	case k == root.key:
		root.val = v
		root.insertedAt = ts
		return root, true
	case k < root.key:
		root.left, replaced = treeInsert(root.left, k, v, ts)
	default:
		root.right, replaced = treeInsert(root.right, k, v, ts)
	}
	return root, replaced
}

// treeFind returns the node holding k, or nil if k is absent.
func treeFind[K cmp.Ordered, V any](root *treeNode[K, V], k K) *treeNode[K, V] {
	for root != nil {
		switch {
		case k == root.key:
			return root
		case k < root.key:
			root = root.left
		default:
			root = root.right
		}
	}
	return nil
}

// treeMin returns the leftmost node of a non-empty tree.
func treeMin[K cmp.Ordered, V any](root *treeNode[K, V]) *treeNode[K, V] {
	for root.left != nil {
		root = root.left
	}
	return root
}

// treeRemove deletes k from the tree rooted at root and returns the new
// root. Removing an absent key is a no-op with removed=false.
// The two-child case adopts the in-order successor's entry (key, value
// and timestamp move together) and then deletes the successor from the
// right subtree, so child links are only ever spliced, never aliased.
func treeRemove[K cmp.Ordered, V any](root *treeNode[K, V], k K) (_ *treeNode[K, V], removed bool) {
	if root == nil {
		return nil, false
	}
	switch {
	case k < root.key:
		root.left, removed = treeRemove(root.left, k)
	case k > root.key:
		root.right, removed = treeRemove(root.right, k)
	default:
		if root.left == nil {
			return root.right, true
		}
		if root.right == nil {
			return root.left, true
		}
		succ := treeMin(root.right)
		root.key = succ.key
		root.val = succ.val
		root.insertedAt = succ.insertedAt
		root.right, _ = treeRemove(root.right, succ.key)
		return root, true
	}
	return root, removed
}

// treeExtremal visits every node and folds less over the whole tree,
// returning the node that wins all comparisons (less(a, b) means "a is
// more extremal than b"). Nil for an empty tree. O(n) per shard; the
// eviction scan accepts the linear cost because shards are small
// relative to total capacity.
func treeExtremal[K cmp.Ordered, V any](root *treeNode[K, V], less func(a, b *treeNode[K, V]) bool) *treeNode[K, V] {
	if root == nil {
		return nil
	}
	best := root
	if l := treeExtremal(root.left, less); l != nil && less(l, best) {
		best = l
	}
	if r := treeExtremal(root.right, less); r != nil && less(r, best) {
		best = r
	}
	return best
}
