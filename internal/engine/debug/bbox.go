// Package debug provides debug visualization and capture utilities.
package debug

import "github.com/Faultbox/cortex/internal/scene"

// BoxVertexCount is the number of vertices in a box edge list (12 edges x 2).
const BoxVertexCount = 24

// boxEdges indexes AABB.Corners: min-z face, max-z face, then the 4
// connecting edges.
var boxEdges = [BoxVertexCount]int{
	0, 1, 1, 2, 2, 3, 3, 0,
	4, 5, 5, 6, 6, 7, 7, 4,
	0, 4, 1, 5, 2, 6, 3, 7,
}

// BoxEdges returns the 12 edges of b as a line list, 3 floats per vertex.
func BoxEdges(b scene.AABB) []float32 {
	corners := b.Corners()
	out := make([]float32, 0, BoxVertexCount*3)
	for _, i := range boxEdges {
		c := corners[i]
		out = append(out, c[0], c[1], c[2])
	}
	return out
}
