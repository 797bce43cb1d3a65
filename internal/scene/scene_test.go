package scene

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func triangle(name string) *Mesh {
	return NewMesh(name, []float32{0, 0, 0, 1, 0, 0, 0, 1, 0})
}

func TestReady(t *testing.T) {
	s := New()
	if err := s.Ready(); !errors.Is(err, ErrNotReady) {
		t.Fatalf("empty scene: expected ErrNotReady, got %v", err)
	}

	s.Camera = NewCamera()
	if err := s.Ready(); !errors.Is(err, ErrNotReady) {
		t.Errorf("no lights: expected ErrNotReady, got %v", err)
	}

	s.AddLight(NewPointLight(0xFFFFFF, 10, mgl32.Ident4()))
	if err := s.Ready(); !errors.Is(err, ErrNotReady) {
		t.Errorf("no entities: expected ErrNotReady, got %v", err)
	}

	s.AddEntity(NewEntity("root", triangle("tri")))
	if err := s.Ready(); err != nil {
		t.Errorf("expected ready scene, got %v", err)
	}
}

func TestAddSetsRefreshFlag(t *testing.T) {
	s := New()
	s.AddEntity(NewEntity("root"))
	if !s.VBOsNeedRefresh {
		t.Error("AddEntity should set VBOsNeedRefresh")
	}

	s.VBOsNeedRefresh = false
	s.AddLight(NewPointLight(0xFFFFFF, 1, mgl32.Ident4()))
	if !s.VBOsNeedRefresh {
		t.Error("AddLight should set VBOsNeedRefresh")
	}
}

func TestEachMeshOrder(t *testing.T) {
	s := New()
	s.AddEntity(NewEntity("a", triangle("a0"), triangle("a1")))
	s.AddEntity(NewEntity("b", triangle("b0")))
	l := NewPointLight(0xFFFFFF, 1, mgl32.Ident4())
	l.SetVisualizer([]*Mesh{triangle("bulb")})
	s.AddLight(l)

	var names []string
	s.EachMesh(func(m *Mesh) { names = append(names, m.Name) })

	want := []string{"a0", "a1", "b0", "bulb"}
	if len(names) != len(want) {
		t.Fatalf("expected %v, got %v", want, names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], names[i])
		}
	}
	if s.MeshCount() != 4 {
		t.Errorf("expected 4 meshes, got %d", s.MeshCount())
	}
}

func TestMarkAllDirty(t *testing.T) {
	s := New()
	m := triangle("tri")
	s.AddEntity(NewEntity("root", m))
	m.NeedsRefresh = false
	s.VBOsNeedRefresh = false

	s.MarkAllDirty()

	if !m.NeedsRefresh || !s.VBOsNeedRefresh {
		t.Error("MarkAllDirty should flag meshes and scene")
	}
}

func TestMeshValidate(t *testing.T) {
	m := triangle("tri")
	if err := m.Validate(); err != nil {
		t.Fatalf("valid mesh: %v", err)
	}
	if m.VertexCount() != 3 {
		t.Errorf("expected 3 vertices, got %d", m.VertexCount())
	}

	m.UVs = []float32{0, 0, 1, 0}
	if err := m.Validate(); err == nil {
		t.Error("expected error for short UV array")
	}
	if m.HasUVs() {
		t.Error("HasUVs should be false for a short array")
	}

	m.UVs = []float32{0, 0, 1, 0, 0, 1}
	m.Normals = make([]float32, 6)
	if err := m.Validate(); err == nil {
		t.Error("expected error for short normal array")
	}
}

func TestMaterialKinds(t *testing.T) {
	tests := []struct {
		shading  Shading
		kind     MaterialKind
		textured bool
		path     string
	}{
		{PBR{}, KindPBR, false, ""},
		{PBRTextured{AlbedoPath: "a.png"}, KindPBRTextured, true, "a.png"},
		{Phong{}, KindPhong, false, ""},
		{PhongTextured{TexturePath: "p.png"}, KindPhongTextured, true, "p.png"},
		{Flat{}, KindFlat, false, ""},
		{FlatTextured{TexturePath: "f.png"}, KindFlatTextured, true, "f.png"},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			m := NewMaterial(tt.shading)
			if m.Kind() != tt.kind {
				t.Errorf("expected kind %s, got %s", tt.kind, m.Kind())
			}
			if m.Kind().Textured() != tt.textured {
				t.Errorf("expected textured=%v", tt.textured)
			}
			if m.TexturePath() != tt.path {
				t.Errorf("expected path %q, got %q", tt.path, m.TexturePath())
			}
			if m.TextureSlot != -1 {
				t.Errorf("expected no texture slot, got %d", m.TextureSlot)
			}
		})
	}
}

func TestMaterialDrawKind(t *testing.T) {
	tests := []struct {
		shading Shading
		texture bool
		want    MaterialKind
	}{
		{PBRTextured{AlbedoPath: "a.png"}, true, KindPBRTextured},
		{PBRTextured{AlbedoPath: "a.png"}, false, KindPBR},
		{PhongTextured{TexturePath: "a.png"}, true, KindPhongTextured},
		{PhongTextured{TexturePath: "a.png"}, false, KindPhong},
		{FlatTextured{TexturePath: "a.png"}, false, KindFlat},
		{Phong{}, false, KindPhong},
		{PBR{}, false, KindPBR},
	}

	for _, tt := range tests {
		m := NewMaterial(tt.shading)
		if tt.texture {
			m.Texture = 7
		}
		if got := m.DrawKind(); got != tt.want {
			t.Errorf("%s with texture=%v: expected %s, got %s", tt.shading.Kind(), tt.texture, tt.want, got)
		}
	}
}

func TestHexColor(t *testing.T) {
	c := HexColor(0xFF8000)
	want := mgl32.Vec3{1, 128.0 / 255, 0}
	if !c.ApproxEqual(want) {
		t.Errorf("expected %v, got %v", want, c)
	}
}

// near compares component-wise with an absolute tolerance.
func near(a, b mgl32.Vec3, tol float32) bool {
	for i := range a {
		if d := a[i] - b[i]; d > tol || d < -tol {
			return false
		}
	}
	return true
}

func TestLightPositionAndForward(t *testing.T) {
	l := NewPointLight(0xFFFFFF, 10, mgl32.Translate3D(10, 2, 1))

	if p := l.Position(); p != (mgl32.Vec3{10, 2, 1}) {
		t.Errorf("expected position (10,2,1), got %v", p)
	}
	if f := l.Forward(); !f.ApproxEqual(mgl32.Vec3{0, 0, -1}) {
		t.Errorf("expected forward (0,0,-1), got %v", f)
	}

	l.Matrix = mgl32.HomogRotate3DY(mgl32.DegToRad(90))
	if f := l.Forward(); !near(f, mgl32.Vec3{-1, 0, 0}, 1e-5) {
		t.Errorf("expected forward (-1,0,0) after yaw, got %v", f)
	}
}

func TestCameraMatrices(t *testing.T) {
	c := NewCamera()
	if _, ok := c.View(); ok {
		t.Error("view should not be initialized before UpdateMatrices")
	}

	c.UpdateMatrices(mgl32.DegToRad(90), 16.0/9.0, 0.01, 10000)

	view, ok := c.View()
	if !ok {
		t.Fatal("view should be initialized")
	}
	// The camera position maps to the view-space origin.
	origin := mgl32.TransformCoordinate(c.Position, view)
	if !near(origin, mgl32.Vec3{}, 1e-5) {
		t.Errorf("camera position should map to origin, got %v", origin)
	}
	if _, ok := c.Projection(); !ok {
		t.Error("projection should be initialized")
	}

	c.Position = mgl32.Vec3{5, 5, 5}
	c.Reset()
	if c.Position != (mgl32.Vec3{0, 0, 3}) {
		t.Errorf("reset should restore default position, got %v", c.Position)
	}
}

func TestAABB(t *testing.T) {
	b := EmptyAABB()
	if !b.Empty() {
		t.Fatal("new box should be empty")
	}

	b.Extend(mgl32.Vec3{1, -2, 3})
	b.Extend(mgl32.Vec3{-1, 2, 0})

	if b.Min != (mgl32.Vec3{-1, -2, 0}) || b.Max != (mgl32.Vec3{1, 2, 3}) {
		t.Errorf("unexpected bounds %v..%v", b.Min, b.Max)
	}
	if !b.Contains(mgl32.Vec3{0, 0, 1}) || b.Contains(mgl32.Vec3{0, 0, 4}) {
		t.Error("Contains gave wrong answer")
	}
	if c := b.Center(); c != (mgl32.Vec3{0, 0, 1.5}) {
		t.Errorf("expected center (0,0,1.5), got %v", c)
	}

	corners := b.Corners()
	if corners[0] != b.Min || corners[6] != b.Max {
		t.Errorf("corner 0 should be Min and corner 6 Max, got %v and %v", corners[0], corners[6])
	}
}
