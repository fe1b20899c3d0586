// Package render describes the engine feature processors the samples drive
// and provides Scene, an in-process implementation that records their state.
// Scene does no drawing; it is the stand-in used by headless runs and tests.
package render

import (
	"errors"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/sampleviewer/asset"
	"github.com/plus3/sampleviewer/lattice"
)

var ErrInvalidHandle = errors.New("invalid render handle")

// MeshHandle refers to one mesh instance. The zero value is invalid.
type MeshHandle uint32

func (h MeshHandle) IsValid() bool { return h != 0 }

// LightHandle refers to one light of any kind. The zero value is invalid.
type LightHandle uint32

func (h LightHandle) IsValid() bool { return h != 0 }

type MeshDescriptor struct {
	Model    asset.Id
	Material *Material
}

type MeshFeatureProcessor interface {
	AcquireMesh(desc MeshDescriptor) MeshHandle
	// ReleaseMesh frees h and zeroes it. It reports false for a handle that
	// was already released.
	ReleaseMesh(h *MeshHandle) bool
	SetTransform(h MeshHandle, t lattice.Transform) error
	Transform(h MeshHandle) (lattice.Transform, error)
	SetMaterial(h MeshHandle, m *Material) error
	Material(h MeshHandle) (*Material, error)
	Model(h MeshHandle) (asset.Id, error)
}

type MaterialSystem interface {
	// CreateMaterial returns a new instance owned by the caller.
	CreateMaterial(source asset.Id) *Material
	// FindOrCreateMaterial returns the instance shared by every user of source.
	FindOrCreateMaterial(source asset.Id) *Material
}

type ShadowFilter int

const (
	ShadowFilterNone ShadowFilter = iota
	ShadowFilterPcf
	ShadowFilterEsm
	ShadowFilterEsmPcf
)

// DiskLight is a spot light with a disk-shaped emitter.
type DiskLight struct {
	Color             mgl32.Vec3
	Intensity         float32 // candela
	Position          mgl32.Vec3
	Direction         mgl32.Vec3
	AttenuationRadius float32
	InnerConeAngle    float32 // radians
	OuterConeAngle    float32 // radians
	Shadows           bool
	ShadowmapSize     int
	ShadowFilter      ShadowFilter
}

// normalize enforces 0 <= inner <= outer <= pi/2 and a unit direction.
func (l *DiskLight) normalize() {
	l.OuterConeAngle = mgl32.Clamp(l.OuterConeAngle, 0, math.Pi/2)
	l.InnerConeAngle = mgl32.Clamp(l.InnerConeAngle, 0, l.OuterConeAngle)
	if l.Direction.Len() > 0 {
		l.Direction = l.Direction.Normalize()
	}
	l.AttenuationRadius = max(0, l.AttenuationRadius)
}

type DiskLightFeatureProcessor interface {
	AcquireDiskLight() LightHandle
	ReleaseDiskLight(h *LightHandle) bool
	UpdateDiskLight(h LightHandle, update func(*DiskLight)) error
	DiskLight(h LightHandle) (DiskLight, error)
}

type DirectionalLight struct {
	Color         mgl32.Vec3
	Intensity     float32 // lux
	Direction     mgl32.Vec3
	CascadeCount  int
	ShadowmapSize int
	ShadowFilter  ShadowFilter
	DebugColoring bool
}

const MaxCascades = 4

func (l *DirectionalLight) normalize() {
	l.CascadeCount = max(1, min(l.CascadeCount, MaxCascades))
	if l.Direction.Len() > 0 {
		l.Direction = l.Direction.Normalize()
	}
}

type DirectionalLightFeatureProcessor interface {
	AcquireDirectionalLight() LightHandle
	ReleaseDirectionalLight(h *LightHandle) bool
	UpdateDirectionalLight(h LightHandle, update func(*DirectionalLight)) error
	DirectionalLight(h LightHandle) (DirectionalLight, error)
}

// FeatureProcessors bundles everything a sample may acquire from the scene.
// Samples receive it explicitly instead of looking processors up globally.
type FeatureProcessors interface {
	MeshFeatureProcessor
	MaterialSystem
	DiskLightFeatureProcessor
	DirectionalLightFeatureProcessor
}
