package source

import (
	"github.com/Faultbox/midgard-robj/pkg/formats"
	"github.com/Faultbox/midgard-robj/pkg/math"
)

// nodeMatrix builds the model-space transform of an RSM node's vertices:
// the inherited hierarchy matrix, then the node's own Offset and 3x3
// vertex matrix, which children do not inherit.
func nodeMatrix(node *formats.RSMNode, rsm *formats.RSM, timeMs float32) math.Mat4 {
	visited := make(map[string]bool)
	result := hierarchyMatrix(node, rsm, timeMs, visited)
	result = result.Mul(math.Translate(node.Offset[0], node.Offset[1], node.Offset[2]))
	return result.Mul(math.FromMat3x3(node.Matrix))
}

// hierarchyMatrix returns parent_hierarchy * Position * Rotation * Scale.
func hierarchyMatrix(node *formats.RSMNode, rsm *formats.RSM, timeMs float32, visited map[string]bool) math.Mat4 {
	// Parent cycles end at the first repeated node
	if visited[node.Name] {
		return math.Identity()
	}
	visited[node.Name] = true

	position := node.Position
	if len(node.PosKeys) > 0 {
		position = interpolatePosKeys(node.PosKeys, timeMs)
	}
	local := math.Translate(position[0], position[1], position[2])

	// Axis-angle or keyframes, never both
	if len(node.RotKeys) > 0 {
		local = local.Mul(interpolateRotKeys(node.RotKeys, timeMs).ToMat4())
	} else if node.RotAngle != 0 {
		axis := math.Vec3FromArray(node.RotAxis)
		if axis.Length() > 1e-6 {
			local = local.Mul(math.RotateAxis(axis.Normalize().Array(), node.RotAngle))
		}
	}

	local = local.Mul(math.Scale(node.Scale[0], node.Scale[1], node.Scale[2]))
	if len(node.ScaleKeys) > 0 {
		scale := interpolateScaleKeys(node.ScaleKeys, timeMs)
		local = local.Mul(math.Scale(scale[0], scale[1], scale[2]))
	}

	if node.Parent != "" && node.Parent != node.Name {
		if parent := rsm.GetNodeByName(node.Parent); parent != nil {
			return hierarchyMatrix(parent, rsm, timeMs, visited).Mul(local)
		}
	}
	return local
}
