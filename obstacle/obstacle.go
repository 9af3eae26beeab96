package obstacle

import (
	"github.com/akmonengine/quill/actor"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/samber/lo"
)

// UpAxis is the local axis of an entity used as the contact normal of its half-space
var UpAxis = mgl64.Vec3{0, 0, 1}

// Obstacle is the half-space {x : dot(x - Position, Normal) >= 0}, broad-phased by Bounds
type Obstacle struct {
	Bounds   actor.AABB
	Normal   mgl64.Vec3 // outward, unit length
	Position mgl64.Vec3 // a point on the boundary plane
}

// New creates an obstacle, normalizing the normal
func New(bounds actor.AABB, normal, position mgl64.Vec3) Obstacle {
	return Obstacle{
		Bounds:   bounds,
		Normal:   normal.Normalize(),
		Position: position,
	}
}

// SignedDistance is negative when point penetrates the half-space
func (o Obstacle) SignedDistance(point mgl64.Vec3) float64 {
	return point.Sub(o.Position).Dot(o.Normal)
}

// Entity is a world object exposing its world bounds and transform
type Entity interface {
	Bounds() actor.AABB
	Transform() actor.Transform
}

// Query enumerates world entities carrying a tag
type Query interface {
	EntitiesWithTag(tag string) []Entity
}

// QueryFunc adapts a function to the Query interface
type QueryFunc func(tag string) []Entity

func (f QueryFunc) EntitiesWithTag(tag string) []Entity {
	return f(tag)
}

// FromEntity builds the obstacle of an entity: its up axis is the normal, its origin the reference point.
// Entities without valid bounds are rejected.
func FromEntity(entity Entity) (Obstacle, bool) {
	bounds := entity.Bounds()
	if !bounds.IsValid() {
		return Obstacle{}, false
	}

	transform := entity.Transform()
	return New(bounds, transform.TransformVector(UpAxis), transform.Position), true
}

// Refresh snapshots every tagged entity with valid bounds into a new Set
func Refresh(query Query, tag string) *Set {
	entities := query.EntitiesWithTag(tag)
	obstacles := lo.FilterMap(entities, func(entity Entity, _ int) (Obstacle, bool) {
		return FromEntity(entity)
	})

	set := NewSet(obstacles)
	set.skipped = len(entities) - len(obstacles)

	return set
}

// StaticEntity is a plain tagged entity, for hosts without their own scene graph
type StaticEntity struct {
	Tags []string
	Pose actor.Transform
	Box  actor.AABB
}

// NewSlab creates an entity whose top face lies on the plane through pose.Position,
// facing the pose up axis: a square of halfSize with the given thickness below it.
func NewSlab(pose actor.Transform, halfSize, thickness float64, tags ...string) *StaticEntity {
	local := actor.AABB{
		Min: mgl64.Vec3{-halfSize, -halfSize, -thickness},
		Max: mgl64.Vec3{halfSize, halfSize, 0},
	}

	return &StaticEntity{
		Tags: tags,
		Pose: pose,
		Box:  local.TransformBy(pose),
	}
}

func (e *StaticEntity) Bounds() actor.AABB {
	return e.Box
}

func (e *StaticEntity) Transform() actor.Transform {
	return e.Pose
}

func (e *StaticEntity) HasTag(tag string) bool {
	return lo.Contains(e.Tags, tag)
}
