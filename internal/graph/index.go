package graph

import "sort"

// connectionIndex maps an entity id to the ids of every connection that
// touches it, as source or target. Each connection id appears at most once
// per entity.
type connectionIndex struct {
	byEntity map[string][]string
}

func newConnectionIndex() *connectionIndex {
	return &connectionIndex{byEntity: make(map[string][]string)}
}

// add records connID under entityID, suppressing duplicates.
func (ix *connectionIndex) add(entityID, connID string) {
	for _, existing := range ix.byEntity[entityID] {
		if existing == connID {
			return
		}
	}
	ix.byEntity[entityID] = append(ix.byEntity[entityID], connID)
}

// remove prunes connID from entityID's list and drops empty lists.
func (ix *connectionIndex) remove(entityID, connID string) {
	list := ix.byEntity[entityID]
	for i, existing := range list {
		if existing == connID {
			list = append(list[:i:i], list[i+1:]...)
			break
		}
	}
	if len(list) == 0 {
		delete(ix.byEntity, entityID)
		return
	}
	ix.byEntity[entityID] = list
}

// ids returns the connection ids indexed under entityID. The slice must not
// be modified.
func (ix *connectionIndex) ids(entityID string) []string {
	return ix.byEntity[entityID]
}

func (ix *connectionIndex) copy() map[string][]string {
	out := make(map[string][]string, len(ix.byEntity))
	for id, list := range ix.byEntity {
		out[id] = append([]string(nil), list...)
	}
	return out
}

// diverges reports whether persisted differs from the index as a set of
// (entity, connection) pairs.
func (ix *connectionIndex) diverges(persisted map[string][]string) bool {
	nonEmpty := 0
	for entityID, list := range persisted {
		if len(list) == 0 {
			continue
		}
		nonEmpty++
		if !sameMembers(list, ix.byEntity[entityID]) {
			return true
		}
	}
	return nonEmpty != len(ix.byEntity)
}

func sameMembers(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	x := append([]string(nil), a...)
	y := append([]string(nil), b...)
	sort.Strings(x)
	sort.Strings(y)
	for i := range x {
		if x[i] != y[i] {
			return false
		}
	}
	return true
}
