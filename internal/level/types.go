// Package level holds the static map data model: sectors, linedefs, the BSP
// tree, and the things list. All derived geometry (normals, bounds, seg
// projection intervals, sector adjacency) is computed once by the Builder;
// simulation code treats a built Map as immutable and keeps per-tick state
// (moving floors, flipped switch textures) in components instead.
package level

import (
	"github.com/gloamdev/gloam/internal/asset"
	"github.com/gloamdev/gloam/internal/geom"
)

// Image is a loaded wall patch or flat graphic. Pixel decoding is the
// renderer's concern.
type Image struct {
	Width, Height int
	Data          []byte
}

// TextureKind distinguishes absent, drawn, and sky surfaces.
type TextureKind uint8

const (
	TextureNone TextureKind = iota
	TextureNormal
	TextureSky
)

// Texture is one surface slot on a sidedef or sector.
type Texture struct {
	Kind  TextureKind
	Image asset.Handle[Image]
}

// LinedefFlags are the raw blocking and rendering bits from map data.
type LinedefFlags uint16

const (
	FlagBlocking      LinedefFlags = 1 << 0 // impassable to everything
	FlagBlockMonsters LinedefFlags = 1 << 1 // impassable to monsters only
	FlagTwoSided      LinedefFlags = 1 << 2
	FlagSecret        LinedefFlags = 1 << 5
	FlagBlockSound    LinedefFlags = 1 << 6
)

// Sidedef is one drawable side of a linedef, facing into Sector.
type Sidedef struct {
	TextureOffset geom.Vec2
	Top           Texture
	Bottom        Texture
	Middle        Texture
	Sector        int
}

// Linedef is a wall or trigger line. Sides[0] faces along the normal;
// Sides[1] is nil for one-sided lines.
type Linedef struct {
	Line    geom.Line2
	Normal  geom.Vec2
	Bounds  geom.AABB2
	Flags   LinedefFlags
	Special int
	Tag     int
	Sides   [2]*Sidedef
}

// TwoSided reports whether the line has a back sidedef.
func (ld *Linedef) TwoSided() bool { return ld.Sides[1] != nil }

// Sector is a horizontal region with one floor and one ceiling height.
// Interval spans floor to ceiling as authored; movers copy it into dynamic
// state and animate that copy.
type Sector struct {
	Interval   geom.Interval
	Floor      Texture
	Ceiling    Texture
	LightLevel float32
	Special    int
	Tag        int

	// Derived adjacency, filled by the Builder.
	Linedefs   []int
	Neighbours []int
	Subsectors []int
}

// Seg is one edge of a subsector's convex polygon. Interval is the
// projection of the whole polygon onto Normal, precomputed for the
// separating-axis footprint test.
type Seg struct {
	Line     geom.Line2
	Normal   geom.Vec2
	Interval geom.Interval
}

// Subsector is a convex BSP leaf belonging to one sector.
type Subsector struct {
	Segs     []Seg
	Bounds   geom.AABB2
	Sector   int
	Linedefs []int
}

// ChildKind tags a BSP node child as an inner node or a leaf.
type ChildKind uint8

const (
	ChildNode ChildKind = iota
	ChildSubsector
)

// NodeChild references one side of a BSP split.
type NodeChild struct {
	Kind  ChildKind
	Index int
}

// Node is one BSP splitting plane. Children[0] is the side the plane normal
// points into; ChildBounds are the loose bounds used for box pruning.
type Node struct {
	Plane       geom.Plane2
	ChildBounds [2]geom.AABB2
	Children    [2]NodeChild
}

// ThingFlags are spawn filter bits from map data.
type ThingFlags uint16

const (
	ThingSkillEasy   ThingFlags = 1 << 0
	ThingSkillMedium ThingFlags = 1 << 1
	ThingSkillHard   ThingFlags = 1 << 2
	ThingAmbush      ThingFlags = 1 << 3
	ThingMultiplayer ThingFlags = 1 << 4
)

// Thing is one map-placed object: a spawn point for whatever entity type its
// TypeID names.
type Thing struct {
	Position geom.Vec2
	Angle    float32
	TypeID   int
	Flags    ThingFlags
}

// Map is a fully built level. The BSP root is the last node, matching the
// on-disk convention of the format the data comes from.
type Map struct {
	Linedefs   []Linedef
	Sectors    []Sector
	Subsectors []Subsector
	Nodes      []Node
	Things     []Thing
	Bounds     geom.AABB2
}

// Root returns the BSP root child: the last node, or the single subsector of
// a map too small to need a split.
func (m *Map) Root() NodeChild {
	if len(m.Nodes) == 0 {
		return NodeChild{Kind: ChildSubsector, Index: 0}
	}
	return NodeChild{Kind: ChildNode, Index: len(m.Nodes) - 1}
}
