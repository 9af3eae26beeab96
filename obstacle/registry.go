package obstacle

import "github.com/samber/lo"

// Registry is an in-memory Query over tagged entities
type Registry struct {
	entities []*StaticEntity
}

// Add adds an entity to the registry
func (r *Registry) Add(entity *StaticEntity) {
	r.entities = append(r.entities, entity)
}

// Remove removes an entity from the registry
func (r *Registry) Remove(entity *StaticEntity) {
	k := -1
	for i, e := range r.entities {
		if e == entity {
			k = i
			break
		}
	}

	if k != -1 {
		r.entities = append(r.entities[:k], r.entities[k+1:]...)
	}
}

func (r *Registry) Len() int {
	return len(r.entities)
}

// EntitiesWithTag returns the tagged entities in insertion order
func (r *Registry) EntitiesWithTag(tag string) []Entity {
	tagged := lo.Filter(r.entities, func(e *StaticEntity, _ int) bool {
		return e.HasTag(tag)
	})

	return lo.Map(tagged, func(e *StaticEntity, _ int) Entity {
		return e
	})
}
