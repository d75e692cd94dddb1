// Package component defines the plain-data component types attached to
// entities. Components carry no behavior; systems own all logic.
package component

import "github.com/gloamdev/gloam/internal/geom"

// SolidMask is a bitset of collision categories. An entity is stopped by a
// blocker when the blocker's Blocks mask intersects the entity's Solid mask.
type SolidMask uint8

const (
	SolidNonMonster SolidMask = 1 << 0 // players, projectiles, decorations
	SolidMonster    SolidMask = 1 << 1

	SolidAll = SolidNonMonster | SolidMonster
)

// Transform is an entity's position and orientation in map space. Rotation
// is Euler degrees; Z is the yaw angle map data authors.
type Transform struct {
	Position geom.Vec3
	Rotation geom.Vec3
}

// Velocity is linear velocity in map units per second.
type Velocity struct {
	Linear geom.Vec3
}

// BoxCollider gives an entity a solid axis-aligned box, Radius wide on both
// horizontal axes and Height tall with its base at the entity position.
// Solid is what the entity is; Blocks is what it stops.
type BoxCollider struct {
	Height float32
	Radius float32
	Solid  SolidMask
	Blocks SolidMask
}

// Box returns the collider volume in entity-local space.
func (c *BoxCollider) Box() geom.AABB3 {
	return geom.AABB3FromRadiusHeight(c.Radius, c.Height)
}
