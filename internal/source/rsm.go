package source

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-robj/internal/config"
	"github.com/Faultbox/midgard-robj/internal/logger"
	"github.com/Faultbox/midgard-robj/pkg/formats"
	"github.com/Faultbox/midgard-robj/pkg/math"
	"github.com/Faultbox/midgard-robj/pkg/robj"
)

// RSMScene exposes an RSM model as one object per node. Node geometry is
// fixed; only node transforms change with the frame.
type RSMScene struct {
	model  *formats.RSM
	cfg    config.RSMConfig
	names  []string
	meshes []*robj.Mesh
}

// NewRSMScene builds the per-node meshes of model. Faces whose corners
// collapse to a point or line are dropped.
func NewRSMScene(name string, model *formats.RSM, cfg config.RSMConfig) (*RSMScene, error) {
	if cfg.FPS <= 0 {
		return nil, fmt.Errorf("rsm fps must be positive, got %d", cfg.FPS)
	}

	s := &RSMScene{
		model:  model,
		cfg:    cfg,
		names:  make([]string, len(model.Nodes)),
		meshes: make([]*robj.Mesh, len(model.Nodes)),
	}

	smooth := model.Shading == formats.RSMShadingSmooth
	for i := range model.Nodes {
		node := &model.Nodes[i]
		s.names[i] = objectName(name, node.Name, i)

		mesh, dropped, err := buildNodeMesh(s.names[i], node, smooth, cfg.FlipY)
		if err != nil {
			return nil, err
		}
		if dropped > 0 {
			logger.Debug("dropped degenerate faces",
				zap.String("object", s.names[i]),
				zap.Int("faces", dropped))
		}
		s.meshes[i] = mesh
	}

	return s, nil
}

// EvaluateAt returns every node posed at frame.
func (s *RSMScene) EvaluateAt(frame int) ([]robj.Object, error) {
	timeMs := frameTime(frame, s.cfg.FPS, s.model.AnimLength, s.cfg.Loop)

	root := math.Identity()
	if s.cfg.FlipY {
		root = math.Scale(1, -1, 1)
	}

	objects := make([]robj.Object, len(s.model.Nodes))
	for i := range s.model.Nodes {
		objects[i] = robj.Object{
			Name:  s.names[i],
			Mesh:  s.meshes[i],
			World: root.Mul(nodeMatrix(&s.model.Nodes[i], s.model, timeMs)),
		}
	}
	return objects, nil
}

func objectName(prefix, node string, index int) string {
	if node == "" {
		node = fmt.Sprintf("node%d", index)
	}
	if prefix == "" {
		return node
	}
	return prefix + "/" + node
}

// buildNodeMesh converts node triangles into an exporter mesh in node space.
// Face normals follow the stored winding; flip reverses the winding so faces
// stay front-facing once mirrored.
func buildNodeMesh(name string, node *formats.RSMNode, smooth, flip bool) (*robj.Mesh, int, error) {
	mesh := &robj.Mesh{
		Vertices: make([]robj.Vertex, len(node.Vertices)),
		UVs:      make([][][2]float32, 0, len(node.Faces)),
	}
	for i, v := range node.Vertices {
		mesh.Vertices[i].Position = v
	}

	normalSums := make([]math.Vec3, len(node.Vertices))
	dropped := 0

	for fi, face := range node.Faces {
		var verts [3]int
		var uvs [3][2]float32
		for j := 0; j < 3; j++ {
			vid := int(face.VertexIDs[j])
			if vid >= len(node.Vertices) {
				return nil, 0, &robj.FaceError{Object: name, Face: fi,
					Err: fmt.Errorf("%w: index %d of %d", robj.ErrVertexOutOfRange, vid, len(node.Vertices))}
			}
			tid := int(face.TexCoordIDs[j])
			if tid >= len(node.TexCoords) {
				return nil, 0, &robj.FaceError{Object: name, Face: fi,
					Err: fmt.Errorf("%w: texcoord %d of %d", ErrIndexOutOfRange, tid, len(node.TexCoords))}
			}
			verts[j] = vid
			uvs[j] = [2]float32{node.TexCoords[tid].U, node.TexCoords[tid].V}
		}

		p0 := math.Vec3FromArray(node.Vertices[verts[0]])
		p1 := math.Vec3FromArray(node.Vertices[verts[1]])
		p2 := math.Vec3FromArray(node.Vertices[verts[2]])
		cross := p1.Sub(p0).Cross(p2.Sub(p0))
		if cross.Length() < 1e-5 {
			dropped++
			continue
		}
		for _, vid := range verts {
			normalSums[vid] = normalSums[vid].Add(cross)
		}

		if flip {
			verts[1], verts[2] = verts[2], verts[1]
			uvs[1], uvs[2] = uvs[2], uvs[1]
		}

		f, err := robj.NewFace(verts[:], smooth, cross.Normalize().Array())
		if err != nil {
			return nil, 0, &robj.FaceError{Object: name, Face: fi, Err: err}
		}
		mesh.Faces = append(mesh.Faces, f)
		mesh.UVs = append(mesh.UVs, uvs[:])
	}

	// Area-weighted vertex normals
	for i, sum := range normalSums {
		mesh.Vertices[i].Normal = sum.Normalize().Array()
	}

	return mesh, dropped, nil
}
