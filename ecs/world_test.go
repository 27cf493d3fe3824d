package ecs

import "testing"

type wPosition struct{ X, Y, Z float64 }
type wTemperature float64

var (
	wPosType = NewComponentType[wPosition](201)
	wTempType = NewComponentType[wTemperature](202)
)

// TestWorldArchetypeSplit asserts entities with different component
// bundles land in archetypes of different sizes, and a mutated component
// re-reads with the new value.
func TestWorldArchetypeSplit(t *testing.T) {
	w := NewWorld(1, 2)

	e1, err := w.CreateEntity(Value[wPosition]{Type: wPosType, Value: wPosition{2.5, 3.1, 42.0}})
	if err != nil {
		t.Fatalf("CreateEntity(e1): %v", err)
	}
	e2, err := w.CreateEntity(
		Value[wPosition]{Type: wPosType, Value: wPosition{5.2, 1.3, 0.42}},
		Value[wTemperature]{Type: wTempType, Value: -40.0},
	)
	if err != nil {
		t.Fatalf("CreateEntity(e2): %v", err)
	}

	if got := w.EntityCount(); got != 2 {
		t.Errorf("EntityCount() = %d, want 2", got)
	}

	arch1, _ := w.ArchetypeOf(e1)
	arch2, _ := w.ArchetypeOf(e2)
	if n := arch1.NComponents(); n != 1 {
		t.Errorf("e1 archetype has %d components, want 1", n)
	}
	if n := arch2.NComponents(); n != 2 {
		t.Errorf("e2 archetype has %d components, want 2", n)
	}

	ptr, release, ok := GetComponentForEntityMut(w, e2, wTempType)
	if !ok {
		t.Fatal("GetComponentForEntityMut(e2) ok=false")
	}
	*ptr = -10.0
	release()

	got, ok := GetComponentForEntity(w, e2, wTempType)
	if !ok {
		t.Fatal("GetComponentForEntity(e2) ok=false")
	}
	if got != -10.0 {
		t.Errorf("temperature after mutation = %v, want -10.0", got)
	}
}

// TestWorldArchetypeChangeOnRemove asserts removing a component moves the
// entity to the smaller archetype without disturbing the remaining
// component's value.
func TestWorldArchetypeChangeOnRemove(t *testing.T) {
	w := NewWorld(1, 2)

	e, err := w.CreateEntity(
		Value[wPosition]{Type: wPosType, Value: wPosition{0, 0, 0}},
		Value[wTemperature]{Type: wTempType, Value: -40.0},
	)
	if err != nil {
		t.Fatalf("CreateEntity: %v", err)
	}

	if err := RemoveComponentForEntity(w, e, wPosType); err != nil {
		t.Fatalf("RemoveComponentForEntity: %v", err)
	}

	arch, ok := w.ArchetypeOf(e)
	if !ok {
		t.Fatal("ArchetypeOf after remove: ok=false")
	}
	if n := arch.NComponents(); n != 1 {
		t.Errorf("archetype after remove has %d components, want 1", n)
	}
	if arch.ContainsType(wPosType.ComponentTypeID()) {
		t.Error("archetype after remove still contains position's type")
	}

	got, ok := GetComponentForEntity(w, e, wTempType)
	if !ok {
		t.Fatal("GetComponentForEntity after remove: ok=false")
	}
	if got != -40.0 {
		t.Errorf("temperature after remove = %v, want -40.0", got)
	}
}

func TestWorldCreateEntitiesBatch(t *testing.T) {
	w := NewWorld(3, 4)

	ids, err := w.CreateEntities(Values[wPosition]{
		Type:  wPosType,
		Items: []wPosition{{0, 0, 0}, {1, 1, 1}, {2, 2, 2}},
	})
	if err != nil {
		t.Fatalf("CreateEntities: %v", err)
	}
	if len(ids) != 3 {
		t.Fatalf("len(ids) = %d, want 3", len(ids))
	}
	if got := w.EntityCount(); got != 3 {
		t.Errorf("EntityCount() = %d, want 3", got)
	}

	got, ok := GetComponentForEntity(w, ids[1], wPosType)
	if !ok {
		t.Fatal("GetComponentForEntity(ids[1]) ok=false")
	}
	if got != (wPosition{1, 1, 1}) {
		t.Errorf("ids[1] position = %v, want {1 1 1}", got)
	}
}

func TestWorldRemoveEntityDropsEmptyTable(t *testing.T) {
	w := NewWorld(5, 6)

	e, err := w.CreateEntity(Value[wPosition]{Type: wPosType, Value: wPosition{1, 2, 3}})
	if err != nil {
		t.Fatalf("CreateEntity: %v", err)
	}
	if err := w.RemoveEntity(e); err != nil {
		t.Fatalf("RemoveEntity: %v", err)
	}
	if got := w.EntityCount(); got != 0 {
		t.Errorf("EntityCount() after remove = %d, want 0", got)
	}
	if n := len(w.tables); n != 0 {
		t.Errorf("tables after removing the only entity = %d, want 0", n)
	}
	if _, ok := w.ArchetypeOf(e); ok {
		t.Error("ArchetypeOf(e) after remove: ok=true, want false")
	}
	if err := w.RemoveEntity(e); err == nil {
		t.Error("RemoveEntity(e) a second time: want error, got nil")
	}
}

func TestWorldFindTablesContainingArchetype(t *testing.T) {
	w := NewWorld(7, 8)

	if _, err := w.CreateEntity(Value[wPosition]{Type: wPosType}); err != nil {
		t.Fatalf("CreateEntity(pos only): %v", err)
	}
	if _, err := w.CreateEntity(Value[wPosition]{Type: wPosType}, Value[wTemperature]{Type: wTempType}); err != nil {
		t.Fatalf("CreateEntity(pos+temp): %v", err)
	}

	total := 0
	for tbl := range w.FindTablesContainingArchetype(wPosType.ComponentTypeID()) {
		total += tbl.Len()
	}
	if total != 2 {
		t.Errorf("total entities across tables with position = %d, want 2", total)
	}

	total = 0
	for tbl := range w.FindTablesContainingArchetypeExceptDisallowed(
		[]ComponentTypeID{wPosType.ComponentTypeID()},
		[]ComponentTypeID{wTempType.ComponentTypeID()},
	) {
		total += tbl.Len()
	}
	if total != 1 {
		t.Errorf("total entities with position and no temperature = %d, want 1", total)
	}
}

func TestWorldDeterministicEntityIDs(t *testing.T) {
	w1 := NewWorld(42, 99)
	w2 := NewWorld(42, 99)

	var ids1, ids2 []EntityID
	for i := 0; i < 5; i++ {
		e, err := w1.CreateEntity(Value[wPosition]{Type: wPosType})
		if err != nil {
			t.Fatalf("w1.CreateEntity: %v", err)
		}
		ids1 = append(ids1, e)
	}
	for i := 0; i < 5; i++ {
		e, err := w2.CreateEntity(Value[wPosition]{Type: wPosType})
		if err != nil {
			t.Fatalf("w2.CreateEntity: %v", err)
		}
		ids2 = append(ids2, e)
	}

	for i := range ids1 {
		if ids1[i] != ids2[i] {
			t.Errorf("id[%d] = %d, want %d (same seed pair should reproduce the same sequence)", i, ids2[i], ids1[i])
		}
	}
}
