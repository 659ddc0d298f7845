package slogx

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/binhonglee/slogx/internal/structured"
)

// ToValue converts an arbitrary Go value into a structured value for a log
// record. It never fails: pointers are dereferenced with cycle detection,
// maps get sorted keys so repeated logs serialize identically, and
// non-representable types (channels, funcs) degrade to placeholder strings.
func ToValue(v any) structured.Value {
	if v == nil {
		return structured.Null()
	}
	if err, ok := v.(error); ok {
		return structured.Mapping(
			structured.Member{Key: "name", Value: structured.String(fmt.Sprintf("%T", err))},
			structured.Member{Key: "message", Value: structured.String(err.Error())},
		)
	}
	seen := make(map[uintptr]bool)
	return convertValue(reflect.ValueOf(v), seen)
}

func convertValue(val reflect.Value, seen map[uintptr]bool) structured.Value {
	if !val.IsValid() {
		return structured.Null()
	}

	switch val.Kind() {
	case reflect.Interface:
		if val.IsNil() {
			return structured.Null()
		}
		return convertValue(val.Elem(), seen)

	case reflect.Pointer:
		if val.IsNil() {
			return structured.Null()
		}
		ptr := val.Pointer()
		if seen[ptr] {
			return structured.String("[circular]")
		}
		seen[ptr] = true
		defer delete(seen, ptr)
		return convertValue(val.Elem(), seen)

	case reflect.Bool:
		return structured.Bool(val.Bool())

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return structured.Number(float64(val.Int()))

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return structured.Number(float64(val.Uint()))

	case reflect.Float32, reflect.Float64:
		return structured.Number(val.Float())

	case reflect.String:
		return structured.String(val.String())

	case reflect.Slice:
		if val.IsNil() {
			return structured.Null()
		}
		ptr := val.Pointer()
		if seen[ptr] {
			return structured.String("[circular]")
		}
		seen[ptr] = true
		defer delete(seen, ptr)
		return convertSequence(val, seen)

	case reflect.Array:
		return convertSequence(val, seen)

	case reflect.Map:
		if val.IsNil() {
			return structured.Null()
		}
		ptr := val.Pointer()
		if seen[ptr] {
			return structured.String("[circular]")
		}
		seen[ptr] = true
		defer delete(seen, ptr)
		return convertMap(val, seen)

	case reflect.Struct:
		return convertStruct(val, seen)

	case reflect.Chan:
		return structured.String(fmt.Sprintf("<chan %s>", val.Type().Elem()))

	case reflect.Func:
		if val.IsNil() {
			return structured.String("<nil func>")
		}
		return structured.String(fmt.Sprintf("<func %s>", val.Type()))

	default:
		return structured.String(fmt.Sprintf("%v", val))
	}
}

func convertSequence(val reflect.Value, seen map[uintptr]bool) structured.Value {
	items := make([]structured.Value, val.Len())
	for i := range items {
		items[i] = convertValue(val.Index(i), seen)
	}
	return structured.Sequence(items...)
}

// convertMap renders map entries sorted by stringified key. Go map iteration
// order is random; sorting keeps the ordered mapping deterministic.
func convertMap(val reflect.Value, seen map[uintptr]bool) structured.Value {
	keys := val.MapKeys()
	entries := make([]struct {
		key string
		val reflect.Value
	}, len(keys))
	for i, k := range keys {
		entries[i].key = fmt.Sprintf("%v", k.Interface())
		entries[i].val = val.MapIndex(k)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].key < entries[j].key })

	members := make([]structured.Member, len(entries))
	for i, e := range entries {
		members[i] = structured.Member{Key: e.key, Value: convertValue(e.val, seen)}
	}
	return structured.Mapping(members...)
}

// convertStruct renders exported fields in declaration order. Unexported
// fields are dropped.
func convertStruct(val reflect.Value, seen map[uintptr]bool) structured.Value {
	t := val.Type()
	var members []structured.Member
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		members = append(members, structured.Member{
			Key:   field.Name,
			Value: convertValue(val.Field(i), seen),
		})
	}
	return structured.Mapping(members...)
}
