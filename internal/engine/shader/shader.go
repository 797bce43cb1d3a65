// Package shader holds the GLSL programs used by the renderer and builds
// one program per material kind.
package shader

import (
	"embed"
	"fmt"
	"strings"

	"github.com/Faultbox/cortex/internal/scene"
)

//go:embed glsl/*.vert glsl/*.frag
var sources embed.FS

// Source returns the embedded GLSL file glsl/name.
func Source(name string) (string, error) {
	b, err := sources.ReadFile("glsl/" + name)
	if err != nil {
		return "", fmt.Errorf("shader source %s: %w", name, err)
	}
	return string(b), nil
}

// Variant inserts a #define for each name after the #version line of src.
func Variant(src string, defines ...string) string {
	if len(defines) == 0 {
		return src
	}
	var b strings.Builder
	for _, d := range defines {
		b.WriteString("#define ")
		b.WriteString(d)
		b.WriteByte('\n')
	}
	head, rest, found := strings.Cut(src, "\n")
	if !found || !strings.HasPrefix(strings.TrimSpace(head), "#version") {
		return b.String() + src
	}
	return head + "\n" + b.String() + rest
}

// Defines returns the preprocessor symbols selecting kind in mesh.frag.
func Defines(kind scene.MaterialKind) []string {
	var defs []string
	if kind.Textured() {
		defs = append(defs, "TEXTURED")
	}
	switch kind {
	case scene.KindPBR, scene.KindPBRTextured:
		defs = append(defs, "LIGHTING_PBR")
	case scene.KindPhong, scene.KindPhongTextured:
		defs = append(defs, "LIGHTING_PHONG")
	default:
		defs = append(defs, "LIGHTING_FLAT")
	}
	return defs
}
