// Package asset resolves product paths to stable asset ids and loads batches
// of assets off the main thread.
package asset

import (
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
)

type Type int

const (
	TypeUnknown Type = iota
	TypeModel
	TypeMaterial
	TypeShader
	TypeImage
	TypeLightingPreset
)

var typeNames = map[Type]string{
	TypeUnknown:        "Unknown",
	TypeModel:          "Model",
	TypeMaterial:       "Material",
	TypeShader:         "Shader",
	TypeImage:          "Image",
	TypeLightingPreset: "LightingPreset",
}

func (t Type) String() string {
	if n, ok := typeNames[t]; ok {
		return n
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// product extensions, longest first so compound suffixes win
var extensions = []struct {
	suffix string
	typ    Type
}{
	{".lightingpreset.azasset", TypeLightingPreset},
	{".streamingimage", TypeImage},
	{".azmaterial", TypeMaterial},
	{".azmodel", TypeModel},
	{".azshader", TypeShader},
}

// TypeOf infers the asset type from a product path's extension.
func TypeOf(p string) Type {
	p = strings.ToLower(p)
	for _, e := range extensions {
		if strings.HasSuffix(p, e.suffix) {
			return e.typ
		}
	}
	return TypeUnknown
}

// Normalize lower-cases a product path and uses forward slashes, the form ids
// are derived from.
func Normalize(p string) string {
	p = strings.ReplaceAll(strings.TrimSpace(p), "\\", "/")
	p = path.Clean(strings.ToLower(p))
	return strings.TrimPrefix(p, "./")
}

// namespace for name-based product ids
var productNamespace = uuid.MustParse("6b0ac8c4-2b2f-4d3c-9f4a-0f7e3c5a1d11")

// Id identifies one product: the source asset guid plus a sub id.
type Id struct {
	Guid  uuid.UUID
	SubId uint32
}

// IdForPath derives a stable id from a product path so the same file gets the
// same id across runs and machines.
func IdForPath(p string) Id {
	return Id{Guid: uuid.NewSHA1(productNamespace, []byte(Normalize(p)))}
}

func (id Id) IsValid() bool {
	return id.Guid != uuid.Nil
}

func (id Id) String() string {
	return fmt.Sprintf("{%s}:%x", strings.ToUpper(id.Guid.String()), id.SubId)
}

// Info describes a registered product.
type Info struct {
	Id           Id
	Type         Type
	RelativePath string
}
