// Package geometry derives per-vertex attributes for de-indexed triangle lists.
//
// All arrays are flat float32 slices: positions, normals, tangents and
// bitangents hold 3 components per vertex, texture coordinates hold 2.
// A triangle is 3 consecutive vertices. Functions here never touch the GPU.
package geometry

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// uvEpsilon is the smallest UV parallelogram determinant a triangle may have
// and still contribute to the tangent frame.
const uvEpsilon = 1e-8

// parallelEpsilon is the relative length below which a tangent that lies
// along its normal is treated as having no usable direction.
const parallelEpsilon = 1e-6

// VertexCount returns the number of whole vertices in a position array.
func VertexCount(positions []float32) int {
	return len(positions) / 3
}

// DeriveNormals computes smooth vertex normals for a triangle list.
//
// Each triangle's unnormalized face normal (e1 x e2) is added to its three
// vertices and the sums are normalized. A vertex that only received zero
// contributions keeps a zero normal.
func DeriveNormals(positions []float32) []float32 {
	normals := make([]float32, len(positions))
	tris := VertexCount(positions) / 3

	for t := 0; t < tris; t++ {
		i0, i1, i2 := t*3, t*3+1, t*3+2
		p0, p1, p2 := vec3At(positions, i0), vec3At(positions, i1), vec3At(positions, i2)

		face := p1.Sub(p0).Cross(p2.Sub(p0))
		addVec3(normals, i0, face)
		addVec3(normals, i1, face)
		addVec3(normals, i2, face)
	}

	for v := 0; v < VertexCount(normals); v++ {
		setVec3(normals, v, normalizeOrZero(vec3At(normals, v)))
	}
	return normals
}

// DeriveTangentBitangent computes an orthonormal tangent frame per vertex.
//
// Tangents are accumulated from the per-triangle UV gradient system, then
// Gram-Schmidt orthogonalized against the vertex normal. The bitangent is
// always normal x tangent. Triangles whose UV determinant is near zero add
// nothing; vertices left with a zero tangent or normal get a zero frame.
func DeriveTangentBitangent(positions, normals, uvs []float32) (tangents, bitangents []float32) {
	tangents = make([]float32, len(positions))
	bitangents = make([]float32, len(positions))

	n := VertexCount(positions)
	if VertexCount(normals) < n || len(uvs)/2 < n {
		return tangents, bitangents
	}

	for t := 0; t < n/3; t++ {
		i0, i1, i2 := t*3, t*3+1, t*3+2

		p0 := vec3At(positions, i0)
		e1 := vec3At(positions, i1).Sub(p0)
		e2 := vec3At(positions, i2).Sub(p0)

		uv0 := vec2At(uvs, i0)
		d1 := vec2At(uvs, i1).Sub(uv0)
		d2 := vec2At(uvs, i2).Sub(uv0)

		det := d1.X()*d2.Y() - d2.X()*d1.Y()
		if mgl32.Abs(det) < uvEpsilon {
			continue
		}
		f := 1 / det

		tangent := e1.Mul(d2.Y()).Sub(e2.Mul(d1.Y())).Mul(f)
		addVec3(tangents, i0, tangent)
		addVec3(tangents, i1, tangent)
		addVec3(tangents, i2, tangent)
	}

	for v := 0; v < n; v++ {
		normal := normalizeOrZero(vec3At(normals, v))
		tangent := vec3At(tangents, v)

		// Gram-Schmidt: remove the normal component, then renormalize.
		ortho := tangent.Sub(normal.Mul(normal.Dot(tangent)))
		if maxAbs(ortho) <= parallelEpsilon*maxAbs(tangent) {
			ortho = mgl32.Vec3{}
		}
		tangent = normalizeOrZero(ortho)
		if tangent == (mgl32.Vec3{}) || normal == (mgl32.Vec3{}) {
			setVec3(tangents, v, mgl32.Vec3{})
			setVec3(bitangents, v, mgl32.Vec3{})
			continue
		}

		setVec3(tangents, v, tangent)
		setVec3(bitangents, v, normal.Cross(tangent))
	}
	return tangents, bitangents
}

// ZeroFrame returns zero-filled tangent and bitangent arrays sized to
// positions, used for meshes without texture coordinates.
func ZeroFrame(positions []float32) (tangents, bitangents []float32) {
	return make([]float32, len(positions)), make([]float32, len(positions))
}

// normalizeOrZero returns v at unit length. Only an all-zero vector stays
// zero; v is rescaled by its largest component first so the squared length
// of very small or very large vectors does not underflow or overflow.
func normalizeOrZero(v mgl32.Vec3) mgl32.Vec3 {
	m := maxAbs(v)
	if m == 0 || m > math.MaxFloat32 || m != m {
		return mgl32.Vec3{}
	}
	return mgl32.Vec3{v[0] / m, v[1] / m, v[2] / m}.Normalize()
}

func maxAbs(v mgl32.Vec3) float32 {
	return max(mgl32.Abs(v[0]), mgl32.Abs(v[1]), mgl32.Abs(v[2]))
}

func vec3At(a []float32, i int) mgl32.Vec3 {
	return mgl32.Vec3{a[i*3], a[i*3+1], a[i*3+2]}
}

func vec2At(a []float32, i int) mgl32.Vec2 {
	return mgl32.Vec2{a[i*2], a[i*2+1]}
}

func setVec3(a []float32, i int, v mgl32.Vec3) {
	a[i*3], a[i*3+1], a[i*3+2] = v[0], v[1], v[2]
}

func addVec3(a []float32, i int, v mgl32.Vec3) {
	a[i*3] += v[0]
	a[i*3+1] += v[1]
	a[i*3+2] += v[2]
}
