package strata

import (
	"encoding/json"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// The wire shape of a sparse set is the mapping from entity id to value;
// the dense layout is an implementation detail and never leaves the
// process. Loading rebuilds the dense column through repeated Add, so
// duplicate keys in the input overwrite and load order is unspecified.
// Loading is not atomic: when it fails mid-stream, entries applied
// before the failure stay in the set.

func (s *SparseSet[T]) MarshalYAML() (any, error) {
	m := make(map[uint64]T, len(s.index))
	for entity, row := range s.index {
		m[uint64(entity)] = *s.column.At(row)
	}

	return m, nil
}

// ensureInit makes a zero-valued set usable, so callers can unmarshal
// straight into &SparseSet[T]{}.
func (s *SparseSet[T]) ensureInit() {
	if s.index == nil {
		s.index = map[EntityId]Row{}
	}

	if s.column == nil {
		s.column = NewColumn[T](0)
	}
}

func (s *SparseSet[T]) UnmarshalYAML(node *yaml.Node) error {
	s.ensureInit()

	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("expected a mapping of entity id to component value, got yaml kind %d", node.Kind)
	}

	for idx := 0; idx+1 < len(node.Content); idx += 2 {
		keyNode, valueNode := node.Content[idx], node.Content[idx+1]

		id, err := strconv.ParseUint(keyNode.Value, 10, 64)
		if err != nil || id == 0 {
			return InvalidEntityIdError{Raw: keyNode.Value}
		}

		var value T
		if err := valueNode.Decode(&value); err != nil {
			return fmt.Errorf("decode value of entity %d: %w", id, err)
		}

		s.Add(EntityId(id), value)
	}

	return nil
}

func (s *SparseSet[T]) MarshalJSON() ([]byte, error) {
	m := make(map[EntityId]T, len(s.index))
	for entity, row := range s.index {
		m[entity] = *s.column.At(row)
	}

	return json.Marshal(m)
}

func (s *SparseSet[T]) UnmarshalJSON(data []byte) error {
	s.ensureInit()

	var m map[EntityId]T
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}

	for entity, value := range m {
		if entity == NoEntity {
			return InvalidEntityIdError{Raw: "0"}
		}

		s.Add(entity, value)
	}

	return nil
}
