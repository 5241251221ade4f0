package source

import (
	"github.com/Faultbox/midgard-robj/internal/config"
	"github.com/Faultbox/midgard-robj/pkg/formats"
	"github.com/Faultbox/midgard-robj/pkg/math"
	"github.com/Faultbox/midgard-robj/pkg/robj"
)

// NewOBJScene converts every OBJ object into an exporter object with an
// identity world transform. OBJ geometry has no animation, so the result
// returns the same objects for every frame.
func NewOBJScene(name string, obj *formats.OBJ, cfg config.OBJConfig) (robj.StaticScene, error) {
	scene := make(robj.StaticScene, 0, len(obj.Objects))
	for i := range obj.Objects {
		o := &obj.Objects[i]
		objName := objectName(name, o.Name, i)
		mesh, err := buildOBJMesh(objName, obj, o, cfg.SmoothDefault)
		if err != nil {
			return nil, err
		}
		scene = append(scene, robj.Object{Name: objName, Mesh: mesh, World: math.Identity()})
	}
	return scene, nil
}

type objVertexKey struct {
	position int
	normal   int
}

func buildOBJMesh(name string, obj *formats.OBJ, o *formats.OBJObject, smoothDefault bool) (*robj.Mesh, error) {
	mesh := &robj.Mesh{}

	// Newell normals summed per position give area weighting for free
	faceNormals := make([]math.Vec3, len(o.Faces))
	positionNormals := make(map[int]math.Vec3)
	hasUV := false
	for fi, face := range o.Faces {
		faceNormals[fi] = newellNormal(obj.Positions, face.Corners)
		for _, c := range face.Corners {
			positionNormals[c.Position] = positionNormals[c.Position].Add(faceNormals[fi])
			if c.TexCoord >= 0 {
				hasUV = true
			}
		}
	}
	if hasUV {
		mesh.UVs = make([][][2]float32, 0, len(o.Faces))
	}

	index := make(map[objVertexKey]int)
	for fi, face := range o.Faces {
		verts := make([]int, len(face.Corners))
		uvs := make([][2]float32, len(face.Corners))
		for ci, c := range face.Corners {
			key := objVertexKey{position: c.Position, normal: c.Normal}
			vid, ok := index[key]
			if !ok {
				v := robj.Vertex{Position: obj.Positions[c.Position]}
				if c.Normal >= 0 {
					v.Normal = math.Vec3FromArray(obj.Normals[c.Normal]).Normalize().Array()
				} else {
					v.Normal = positionNormals[c.Position].Normalize().Array()
				}
				vid = len(mesh.Vertices)
				mesh.Vertices = append(mesh.Vertices, v)
				index[key] = vid
			}
			verts[ci] = vid
			if c.TexCoord >= 0 {
				uvs[ci] = obj.TexCoords[c.TexCoord]
			}
		}

		smooth := smoothDefault
		if face.SmoothGroup != formats.OBJNoSmoothing {
			smooth = face.SmoothGroup > 0
		}

		f, err := robj.NewFace(verts, smooth, faceNormals[fi].Normalize().Array())
		if err != nil {
			return nil, &robj.FaceError{Object: name, Face: fi, Err: err}
		}
		mesh.Faces = append(mesh.Faces, f)
		if hasUV {
			mesh.UVs = append(mesh.UVs, uvs)
		}
	}

	return mesh, nil
}

// newellNormal returns the unnormalized polygon normal by Newell's method;
// its length is twice the polygon area.
func newellNormal(positions [][3]float32, corners []formats.OBJCorner) math.Vec3 {
	var n math.Vec3
	for i := range corners {
		a := positions[corners[i].Position]
		b := positions[corners[(i+1)%len(corners)].Position]
		n.X += (a[1] - b[1]) * (a[2] + b[2])
		n.Y += (a[2] - b[2]) * (a[0] + b[0])
		n.Z += (a[0] - b[0]) * (a[1] + b[1])
	}
	return n
}
