package scene

import (
	"math"
	"sort"

	"github.com/df07/go-raycast/pkg/core"
	"github.com/df07/go-raycast/pkg/geometry"
)

// Leaf threshold: if we have this many or fewer shapes, store them in a leaf node
const leafThreshold = 8

// boxPadding keeps rays that graze a sphere inside its node's box
const boxPadding = 1e-9

// bvhEntry remembers a shape's position in the scene so ties resolve the same
// way as a linear scan
type bvhEntry struct {
	index int
	shape geometry.Shape
	box   core.AABB
}

// BVHNode represents a node in the Bounding Volume Hierarchy
type BVHNode struct {
	BoundingBox core.AABB
	Left        *BVHNode
	Right       *BVHNode
	entries     []bvhEntry // Leaf shapes (nil for internal nodes)
}

// BVH represents a Bounding Volume Hierarchy for fast nearest-hit queries
type BVH struct {
	Root *BVHNode
}

// NewBVH constructs a BVH from a slice of shapes. The slice is not modified.
func NewBVH(shapes []geometry.Shape) *BVH {
	if len(shapes) == 0 {
		return &BVH{}
	}

	entries := make([]bvhEntry, len(shapes))
	for i, shape := range shapes {
		entries[i] = bvhEntry{index: i, shape: shape, box: shape.BoundingBox().Expand(boxPadding)}
	}

	return &BVH{Root: buildBVH(entries)}
}

// buildBVH recursively builds the BVH with a median split along the longest axis
func buildBVH(entries []bvhEntry) *BVHNode {
	boundingBox := entries[0].box
	for _, entry := range entries[1:] {
		boundingBox = boundingBox.Union(entry.box)
	}

	if len(entries) <= leafThreshold {
		return &BVHNode{
			BoundingBox: boundingBox,
			entries:     entries,
		}
	}

	axis := boundingBox.LongestAxis()
	sortEntriesByAxis(entries, axis)

	mid := len(entries) / 2
	return &BVHNode{
		BoundingBox: boundingBox,
		Left:        buildBVH(entries[:mid]),
		Right:       buildBVH(entries[mid:]),
	}
}

// sortEntriesByAxis sorts entries by their bounding box center along the specified axis
func sortEntriesByAxis(entries []bvhEntry, axis int) {
	sort.SliceStable(entries, func(i, j int) bool {
		centerI := entries[i].box.Center()
		centerJ := entries[j].box.Center()

		switch axis {
		case 0:
			return centerI.X < centerJ.X
		case 1:
			return centerI.Y < centerJ.Y
		default:
			return centerI.Z < centerJ.Z
		}
	})
}

// Raycast returns the nearest hit in the hierarchy. When two shapes are hit
// at the same distance the one with the lower scene index wins.
func (bvh *BVH) Raycast(ray core.Ray) (Hit, bool) {
	closest := Hit{ShapeIndex: -1}
	if bvh.Root == nil {
		return closest, false
	}

	bvh.hitNode(bvh.Root, ray, &closest)
	return closest, closest.ShapeIndex >= 0
}

// hitNode recursively tests ray intersection with BVH nodes
func (bvh *BVH) hitNode(node *BVHNode, ray core.Ray, closest *Hit) {
	tMax := math.Inf(1)
	if closest.ShapeIndex >= 0 {
		tMax = closest.T
	}
	if !node.BoundingBox.Hit(ray, 0, tMax) {
		return
	}

	if node.entries != nil {
		for _, entry := range node.entries {
			result := entry.shape.Raycast(ray)
			if !result.Hit {
				continue
			}
			if closest.ShapeIndex < 0 ||
				result.Distance < closest.Distance ||
				(result.Distance == closest.Distance && entry.index < closest.ShapeIndex) {
				*closest = Hit{RaycastResult: result, ShapeIndex: entry.index}
			}
		}
		return
	}

	if node.Left != nil {
		bvh.hitNode(node.Left, ray, closest)
	}
	if node.Right != nil {
		bvh.hitNode(node.Right, ray, closest)
	}
}

// bvhStats contains statistics about the BVH structure
type bvhStats struct {
	totalNodes  int
	leafNodes   int
	maxDepth    int
	totalShapes int
}

// getStats returns statistics about the BVH structure
func (bvh *BVH) getStats() bvhStats {
	stats := bvhStats{}
	if bvh.Root != nil {
		bvh.collectStats(bvh.Root, 0, &stats)
	}
	return stats
}

// collectStats recursively collects statistics about the BVH
func (bvh *BVH) collectStats(node *BVHNode, depth int, stats *bvhStats) {
	stats.totalNodes++
	if depth > stats.maxDepth {
		stats.maxDepth = depth
	}

	if node.entries != nil {
		stats.leafNodes++
		stats.totalShapes += len(node.entries)
		return
	}
	if node.Left != nil {
		bvh.collectStats(node.Left, depth+1, stats)
	}
	if node.Right != nil {
		bvh.collectStats(node.Right, depth+1, stats)
	}
}
