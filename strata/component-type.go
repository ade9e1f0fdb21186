package strata

import (
	"log/slog"
	"maps"
	"reflect"
	"sync/atomic"
)

type ComponentTypeId uint16

// ComponentType describes one component kind. There is exactly one
// instance per distinct Go type, created the first time the type is
// registered. All type identity decisions happen here, at the
// registration boundary; columns and sparse sets are monomorphized per
// kind and never re-check types on access.
type ComponentType struct {
	Name string
	Type reflect.Type

	// The Id of the type
	Id ComponentTypeId

	Size  uintptr
	Align uintptr

	// HasPointers indicates that a value of the type contains pointers,
	// e.g. by having a field of type *T, a string, a slice or a map value.
	// Columns holding such a type must clear vacated slots so the garbage
	// collector can release what they referenced.
	HasPointers bool
}

func (c *ComponentType) String() string {
	return c.Name
}

var componentTypes atomic.Pointer[map[reflect.Type]*ComponentType]

func init() {
	// initialize the lookup table
	componentTypes.Store(&map[reflect.Type]*ComponentType{})
}

// TypeOf returns the ComponentType for C, registering it on first use.
func TypeOf[C any]() *ComponentType {
	reflectType := reflect.TypeFor[C]()

	if cached, ok := (*componentTypes.Load())[reflectType]; ok {
		return cached
	}

	return ensureComponentType(reflectType)
}

func ensureComponentType(reflectType reflect.Type) *ComponentType {
	for {
		previousTypes := componentTypes.Load()
		if cached, ok := (*previousTypes)[reflectType]; ok {
			return cached
		}

		newType := &ComponentType{
			Name:        reflectType.String(),
			Type:        reflectType,
			Id:          ComponentTypeId(len(*previousTypes) + 1),
			Size:        reflectType.Size(),
			Align:       uintptr(reflectType.Align()),
			HasPointers: typeHasPointers(reflectType),
		}

		newTypes := maps.Clone(*previousTypes)
		newTypes[reflectType] = newType

		if componentTypes.CompareAndSwap(previousTypes, &newTypes) {
			slog.Debug(
				"New component type registered",
				slog.String("name", newType.Name),
				slog.Int("id", int(newType.Id)),
			)

			return newType
		}
	}
}

func typeHasPointers(ty reflect.Type) bool {
	switch ty.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Uintptr, reflect.Float32, reflect.Float64,
		reflect.Complex64, reflect.Complex128:
		return false

	case reflect.Array:
		return ty.Len() > 0 && typeHasPointers(ty.Elem())

	case reflect.Struct:
		for idx := range ty.NumField() {
			if typeHasPointers(ty.Field(idx).Type) {
				return true
			}
		}

		return false

	default:
		// pointers, strings, slices, maps, channels, funcs, interfaces
		return true
	}
}
