// Package preview writes a single sampled frame as a binary glTF file so an
// export can be checked in any model viewer.
package preview

import (
	"errors"
	"fmt"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-robj/internal/logger"
	"github.com/Faultbox/midgard-robj/pkg/robj"
)

// ErrEmptyFrame is returned when the frame holds no triangles.
var ErrEmptyFrame = errors.New("frame has no triangles to preview")

// Document builds a glTF document holding frame as one unindexed triangle
// list, using the same corner order and data as the ROBJ tables.
func Document(uv robj.UVTable, frame robj.FrameTable) (*gltf.Document, error) {
	if uv.Triangles == 0 {
		return nil, ErrEmptyFrame
	}
	if frame.Triangles() != uv.Triangles {
		return nil, fmt.Errorf("%w: %d frame triangles, %d UV triangles",
			robj.ErrLayoutMismatch, frame.Triangles(), uv.Triangles)
	}

	corners := uv.Triangles * 3
	positions := make([][3]float32, corners)
	normals := make([][3]float32, corners)
	texcoords := make([][2]float32, corners)
	indices := make([]uint32, corners)
	for i := 0; i < corners; i++ {
		copy(positions[i][:], frame.Positions[i*3:])
		copy(normals[i][:], frame.Normals[i*3:])
		// glTF puts the texture origin top-left
		texcoords[i] = [2]float32{uv.Data[i*2], 1 - uv.Data[i*2+1]}
		indices[i] = uint32(i)
	}

	doc := gltf.NewDocument()
	doc.Asset.Generator = "robjexport preview"

	posAccessor := modeler.WritePosition(doc, positions)
	normalAccessor := modeler.WriteNormal(doc, normals)
	uvAccessor := modeler.WriteTextureCoord(doc, texcoords)
	indicesAccessor := modeler.WriteIndices(doc, indices)

	prim := &gltf.Primitive{
		Attributes: map[string]uint32{
			gltf.POSITION:   uint32(posAccessor),
			gltf.NORMAL:     uint32(normalAccessor),
			gltf.TEXCOORD_0: uint32(uvAccessor),
		},
		Indices:  gltf.Index(uint32(indicesAccessor)),
		Material: gltf.Index(0),
	}

	doc.Materials = []*gltf.Material{{
		Name: "preview",
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorFactor: &[4]float32{0.8, 0.8, 0.8, 1},
			MetallicFactor:  gltf.Float(0),
			RoughnessFactor: gltf.Float(1),
		},
		AlphaMode: gltf.AlphaOpaque,
	}}
	doc.Meshes = []*gltf.Mesh{{Name: "frame", Primitives: []*gltf.Primitive{prim}}}
	doc.Nodes = []*gltf.Node{{Name: "frame", Mesh: gltf.Index(0)}}
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, uint32(0))

	return doc, nil
}

// WriteFrame evaluates scene at frame and saves it as a .glb file at path.
// It returns the number of triangles written.
func WriteFrame(scene robj.Scene, frame int, path string) (int, error) {
	objects, err := scene.EvaluateAt(frame)
	if err != nil {
		return 0, fmt.Errorf("evaluating frame %d: %w", frame, err)
	}
	uv, err := robj.BuildUVTable(objects)
	if err != nil {
		return 0, err
	}
	table, err := robj.SampleFrame(objects, uv.Triangles)
	if err != nil {
		return 0, fmt.Errorf("sampling frame %d: %w", frame, err)
	}

	doc, err := Document(uv, table)
	if err != nil {
		return 0, err
	}
	if err := gltf.SaveBinary(doc, path); err != nil {
		return 0, fmt.Errorf("%w: %w", robj.ErrIO, err)
	}

	logger.Info("wrote preview",
		zap.String("path", path),
		zap.Int("frame", frame),
		zap.Int("objects", len(objects)),
		zap.Int("triangles", uv.Triangles))
	return uv.Triangles, nil
}
