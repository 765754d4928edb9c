package bsp

import (
	"math"

	"github.com/rmathew/VirtualTaj/types"
)

// VisitOrder selects whether the subtree farther from the viewer or the
// nearer one is visited first at every node.
type VisitOrder int

const (
	// Far subtree, node triangles, near subtree: painter's style
	// back-to-front drawing.
	FarToNear VisitOrder = iota
	// Near subtree, node triangles, far subtree: front-to-back, for
	// renderers that reject occluded fragments.
	NearToFar
)

// TraversalOptions tune the tree traversal. The zero value visits every
// triangle of the tree far-to-near with no culling.
type TraversalOptions struct {
	Order VisitOrder

	// Limit on the cosine of the angle between the view direction and a
	// partition plane normal beyond which the subtree behind the plane is
	// provably outside the view cone. Zero disables the test; see
	// CullThreshold.
	MinVisCos float64

	// Reject triangles facing away from the viewer before they reach the
	// visit callback. Only meaningful for models whose faces are never
	// seen from behind.
	BackfaceCull bool
}

// CullThreshold derives the MinVisCos culling limit from the vertical field
// of view (in degrees) and the output aspect ratio. The angle from the view
// direction to the corners of the view frustum bounds a view cone; a
// partition plane whose normal makes a larger angle with the view direction
// than this cone half-angle has its entire back half-space out of sight.
// This is far cheaper than frustum plane culling, and conservative: it only
// ever discards subtrees that provably cannot be seen.
func CullThreshold(fovDegrees float64, width, height int) float64 {
	tanSqrTheta := math.Tan((fovDegrees / 2.0) * math.Pi / 180.0)
	tanSqrTheta *= tanSqrTheta

	onePlusAspRatioSqr := float64(width) / float64(height)
	onePlusAspRatioSqr *= onePlusAspRatioSqr
	onePlusAspRatioSqr += 1.0

	term := tanSqrTheta * onePlusAspRatioSqr
	return math.Sqrt(term / (term + 1.0))
}

// Visit walks the tree in viewer-dependent order, invoking the callback for
// every triangle that survives culling. At each node the subtree on the
// viewer's side of the partition plane is the near one; FarToNear visits
// far subtree, node triangles, near subtree, and NearToFar the reverse.
//
// With MinVisCos set, a back subtree is skipped when the viewer is in front
// of the partition plane and the view direction is aligned with the plane
// normal beyond the threshold. Front subtrees are never cone-culled. Both
// tests are conservative: they can pass invisible geometry through to the
// callback but never drop anything that could be seen.
//
// The traversal only reads the tree; viewDir is expected to be normalized.
func (t *Tree) Visit(viewPos, viewDir types.Vec3, opt TraversalOptions, visit func(*TriFace)) {
	if t.Root != nil {
		t.visitNode(t.Root, viewPos, viewDir, opt, visit)
	}
}

func (t *Tree) visitNode(n *Node, viewPos, viewDir types.Vec3, opt TraversalOptions, visit func(*TriFace)) {
	viewerSide := n.PartPlane.ClassifyPoint(viewPos)
	dirDot := float64(viewDir[0])*n.PartPlane.A +
		float64(viewDir[1])*n.PartPlane.B +
		float64(viewDir[2])*n.PartPlane.C

	// The whole back half-space is invisible when the viewer is in front
	// of the plane and looking away from it beyond the view cone limit.
	backCulled := opt.MinVisCos > 0 &&
		viewerSide == AbovePlane && dirDot > opt.MinVisCos

	near, far := n.Front, n.Back
	farIsBack := true
	if viewerSide == BelowPlane {
		near, far = n.Back, n.Front
		farIsBack = false
	}

	first, second := far, near
	firstIsBack, secondIsBack := farIsBack, !farIsBack
	if opt.Order == NearToFar {
		first, second = near, far
		firstIsBack, secondIsBack = !farIsBack, farIsBack
	}

	if first != nil && !(firstIsBack && backCulled) {
		t.visitNode(first, viewPos, viewDir, opt, visit)
	}

	for i := range n.Faces {
		face := &n.Faces[i]
		if opt.BackfaceCull {
			// The plane normal points out of the front of the
			// node's coplanar triangles; they face the viewer only
			// when the viewer is on the positive side.
			toVert := t.VertCoords[face.VertIndices[0]].Sub(viewPos)
			facing := float64(toVert[0])*n.PartPlane.A +
				float64(toVert[1])*n.PartPlane.B +
				float64(toVert[2])*n.PartPlane.C
			if facing >= 0 {
				continue
			}
		}
		visit(face)
	}

	if second != nil && !(secondIsBack && backCulled) {
		t.visitNode(second, viewPos, viewDir, opt, visit)
	}
}
