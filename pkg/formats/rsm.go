// Package formats provides parsers for the mesh formats the exporter reads:
// Ragnarok Online RSM models and Wavefront OBJ files.
package formats

import (
	"errors"
	"fmt"
	"os"
)

// RSM format errors.
var (
	ErrInvalidRSMMagic       = errors.New("invalid RSM magic: expected 'GRSM'")
	ErrUnsupportedRSMVersion = errors.New("unsupported RSM version")
	ErrInvalidCount          = errors.New("invalid element count")
)

// Sanity limits for counts read from RSM files.
const (
	maxRSMNodes     = 10000
	maxRSMTextures  = 1000
	maxRSMElements  = 100000
	maxRSMKeyframes = 10000
	maxRSMBoxes     = 1000
)

// RSMVersion represents the RSM file version.
type RSMVersion struct {
	Major uint8
	Minor uint8
}

// String returns the version as "Major.Minor".
func (v RSMVersion) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// AtLeast returns true if version is >= major.minor.
func (v RSMVersion) AtLeast(major, minor uint8) bool {
	if v.Major != major {
		return v.Major > major
	}
	return v.Minor >= minor
}

// RSMShadingType represents the shading mode of a model.
type RSMShadingType int32

const (
	RSMShadingNone   RSMShadingType = 0
	RSMShadingFlat   RSMShadingType = 1
	RSMShadingSmooth RSMShadingType = 2
)

// String returns a human-readable shading type name.
func (s RSMShadingType) String() string {
	switch s {
	case RSMShadingNone:
		return "None"
	case RSMShadingFlat:
		return "Flat"
	case RSMShadingSmooth:
		return "Smooth"
	default:
		return fmt.Sprintf("Unknown(%d)", s)
	}
}

// RSMTexCoord is a texture coordinate with vertex color.
type RSMTexCoord struct {
	Color [4]uint8 // RGBA, white before v1.2
	U, V  float32
}

// RSMFace is a triangle of a node mesh.
type RSMFace struct {
	VertexIDs   [3]uint16
	TexCoordIDs [3]uint16
	TextureID   uint16
	Padding     uint16
	TwoSide     int32
	SmoothGroup int32 // v1.2+
}

// RSMPosKeyframe is a position animation keyframe.
type RSMPosKeyframe struct {
	Frame    int32 // time in milliseconds
	Position [3]float32
}

// RSMRotKeyframe is a rotation animation keyframe.
type RSMRotKeyframe struct {
	Frame      int32      // time in milliseconds
	Quaternion [4]float32 // X, Y, Z, W
}

// RSMScaleKeyframe is a scale animation keyframe.
type RSMScaleKeyframe struct {
	Frame int32 // time in milliseconds
	Scale [3]float32
}

// RSMNode is a node of the model hierarchy.
type RSMNode struct {
	Name       string
	Parent     string // empty for the root
	TextureIDs []int32

	Matrix   [9]float32 // 3x3 vertex transform, column-major
	Offset   [3]float32 // pivot offset
	Position [3]float32
	RotAngle float32 // radians
	RotAxis  [3]float32
	Scale    [3]float32

	Vertices  [][3]float32
	TexCoords []RSMTexCoord
	Faces     []RSMFace

	PosKeys   []RSMPosKeyframe
	RotKeys   []RSMRotKeyframe
	ScaleKeys []RSMScaleKeyframe
}

// RSMVolumeBox is a bounding volume box.
type RSMVolumeBox struct {
	Size     [3]float32
	Position [3]float32
	Rotation [3]float32
	Flag     int32 // v1.3+
}

// RSM is a parsed RSM (Resource Model) file.
type RSM struct {
	Version     RSMVersion
	AnimLength  int32 // milliseconds
	Shading     RSMShadingType
	Alpha       float32
	Textures    []string
	RootNode    string
	Nodes       []RSMNode
	VolumeBoxes []RSMVolumeBox
}

// ParseRSM parses RSM data from a byte slice. Versions 1.1 to 1.5 are supported.
func ParseRSM(data []byte) (*RSM, error) {
	r := newBinReader(data)

	var magic [4]byte
	r.read(&magic)
	if r.err != nil {
		return nil, fmt.Errorf("reading RSM magic: %w", r.err)
	}
	if string(magic[:]) != "GRSM" {
		return nil, ErrInvalidRSMMagic
	}

	rsm := &RSM{Version: RSMVersion{Major: r.u8(), Minor: r.u8()}}
	if r.err != nil {
		return nil, fmt.Errorf("reading RSM version: %w", r.err)
	}
	if rsm.Version.Major != 1 || rsm.Version.Minor < 1 || rsm.Version.Minor > 5 {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedRSMVersion, rsm.Version)
	}

	rsm.AnimLength = r.i32()
	rsm.Shading = RSMShadingType(r.i32())

	rsm.Alpha = 1.0
	if rsm.Version.AtLeast(1, 4) {
		rsm.Alpha = float32(r.u8()) / 255.0
	}

	r.skip(16) // reserved

	rsm.Textures = make([]string, r.count("texture", maxRSMTextures))
	for i := range rsm.Textures {
		rsm.Textures[i] = r.str(40)
	}

	rsm.RootNode = r.str(40)

	rsm.Nodes = make([]RSMNode, r.count("node", maxRSMNodes))
	if r.err != nil {
		return nil, fmt.Errorf("reading RSM header: %w", r.err)
	}
	for i := range rsm.Nodes {
		parseRSMNode(r, rsm.Version, &rsm.Nodes[i])
		if r.err != nil {
			return nil, fmt.Errorf("parsing node %d: %w", i, r.err)
		}
	}

	// Volume boxes are optional trailing data
	if r.remaining() >= 4 {
		rsm.VolumeBoxes = make([]RSMVolumeBox, r.count("volume box", maxRSMBoxes))
		for i := range rsm.VolumeBoxes {
			box := &rsm.VolumeBoxes[i]
			box.Size = r.vec3()
			box.Position = r.vec3()
			box.Rotation = r.vec3()
			if rsm.Version.AtLeast(1, 3) {
				box.Flag = r.i32()
			}
		}
		if r.err != nil {
			return nil, fmt.Errorf("parsing volume boxes: %w", r.err)
		}
	}

	return rsm, nil
}

func parseRSMNode(r *binReader, version RSMVersion, node *RSMNode) {
	node.Name = r.str(40)
	node.Parent = r.str(40)

	node.TextureIDs = make([]int32, r.count("node texture", maxRSMTextures))
	r.read(node.TextureIDs)

	r.read(&node.Matrix)
	node.Offset = r.vec3()
	node.Position = r.vec3()
	node.RotAngle = r.f32()
	node.RotAxis = r.vec3()
	node.Scale = r.vec3()

	node.Vertices = make([][3]float32, r.count("vertex", maxRSMElements))
	r.read(node.Vertices)

	node.TexCoords = make([]RSMTexCoord, r.count("texcoord", maxRSMElements))
	for i := range node.TexCoords {
		tc := &node.TexCoords[i]
		tc.Color = [4]uint8{255, 255, 255, 255}
		if version.AtLeast(1, 2) {
			r.read(&tc.Color)
		}
		tc.U = r.f32()
		tc.V = r.f32()
	}

	node.Faces = make([]RSMFace, r.count("face", maxRSMElements))
	for i := range node.Faces {
		face := &node.Faces[i]
		r.read(&face.VertexIDs)
		r.read(&face.TexCoordIDs)
		r.read(&face.TextureID)
		r.read(&face.Padding)
		face.TwoSide = r.i32()
		if version.AtLeast(1, 2) {
			face.SmoothGroup = r.i32()
		}
	}

	if !version.AtLeast(1, 5) {
		node.PosKeys = make([]RSMPosKeyframe, r.count("position key", maxRSMKeyframes))
		for i := range node.PosKeys {
			node.PosKeys[i].Frame = r.i32()
			node.PosKeys[i].Position = r.vec3()
		}
	}

	node.RotKeys = make([]RSMRotKeyframe, r.count("rotation key", maxRSMKeyframes))
	for i := range node.RotKeys {
		node.RotKeys[i].Frame = r.i32()
		r.read(&node.RotKeys[i].Quaternion)
	}

	if version.AtLeast(1, 5) {
		node.ScaleKeys = make([]RSMScaleKeyframe, r.count("scale key", maxRSMKeyframes))
		for i := range node.ScaleKeys {
			node.ScaleKeys[i].Frame = r.i32()
			node.ScaleKeys[i].Scale = r.vec3()
		}
	}
}

// ParseRSMFile parses an RSM file from disk.
func ParseRSMFile(path string) (*RSM, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading RSM file: %w", err)
	}
	return ParseRSM(data)
}

// GetNodeByName returns a node by its name, or nil if not found.
func (rsm *RSM) GetNodeByName(name string) *RSMNode {
	for i := range rsm.Nodes {
		if rsm.Nodes[i].Name == name {
			return &rsm.Nodes[i]
		}
	}
	return nil
}

// GetTotalFaceCount returns the total number of faces across all nodes.
func (rsm *RSM) GetTotalFaceCount() int {
	total := 0
	for _, node := range rsm.Nodes {
		total += len(node.Faces)
	}
	return total
}

// GetTotalVertexCount returns the total number of vertices across all nodes.
func (rsm *RSM) GetTotalVertexCount() int {
	total := 0
	for _, node := range rsm.Nodes {
		total += len(node.Vertices)
	}
	return total
}

// GetRootNode returns the root node, falling back to the first node
// without a parent.
func (rsm *RSM) GetRootNode() *RSMNode {
	if node := rsm.GetNodeByName(rsm.RootNode); node != nil {
		return node
	}
	for i := range rsm.Nodes {
		if rsm.Nodes[i].Parent == "" {
			return &rsm.Nodes[i]
		}
	}
	return nil
}

// GetChildNodes returns all nodes whose parent is the given name.
func (rsm *RSM) GetChildNodes(parentName string) []*RSMNode {
	var children []*RSMNode
	for i := range rsm.Nodes {
		if rsm.Nodes[i].Parent == parentName && rsm.Nodes[i].Name != parentName {
			children = append(children, &rsm.Nodes[i])
		}
	}
	return children
}

// HasAnimation returns true if any node has keyframes.
func (rsm *RSM) HasAnimation() bool {
	for _, node := range rsm.Nodes {
		if len(node.PosKeys) > 0 || len(node.RotKeys) > 0 || len(node.ScaleKeys) > 0 {
			return true
		}
	}
	return false
}
