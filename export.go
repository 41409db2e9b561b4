package formstate

import "reflect"

// ExportData returns the record the form currently represents: every field
// that holds a value and is not excluded from export. Map and slice values
// are copied, so the result shares nothing with the state.
func ExportData(state *State) Record {
	if state == nil {
		return Record{}
	}
	return exportFields(state.Fields)
}

func exportFields(fields map[string]FieldEntry) Record {
	data := make(Record, len(fields))
	for name, entry := range fields {
		if entry.ExcludeFromExport || !entry.HasValue() {
			continue
		}
		data[name] = cloneValue(entry.Value)
	}
	return data
}

// RecordsEqual compares two records by deep value equality. A nil record and
// an empty one are equal.
func RecordsEqual(a, b Record) bool {
	if len(a) == 0 && len(b) == 0 {
		return true
	}
	return reflect.DeepEqual(a, b)
}

func valuesEqual(a, b any) bool {
	return reflect.DeepEqual(a, b)
}

// CloneRecord returns a deep copy of data. Maps, slices and arrays are copied
// recursively; pointers, channels and functions are shared.
func CloneRecord(data Record) Record {
	return cloneRecord(data)
}

func cloneRecord(data Record) Record {
	if data == nil {
		return nil
	}
	out := make(Record, len(data))
	for key, value := range data {
		out[key] = cloneValue(value)
	}
	return out
}

func cloneValue(value any) any {
	switch v := value.(type) {
	case nil:
		return nil
	case string, bool, int, int64, float64:
		return v
	}
	return cloneReflect(reflect.ValueOf(value)).Interface()
}

func cloneReflect(v reflect.Value) reflect.Value {
	switch v.Kind() {
	case reflect.Slice:
		if v.IsNil() {
			return v
		}
		out := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
		for i := 0; i < v.Len(); i++ {
			out.Index(i).Set(cloneReflect(v.Index(i)))
		}
		return out
	case reflect.Array:
		out := reflect.New(v.Type()).Elem()
		for i := 0; i < v.Len(); i++ {
			out.Index(i).Set(cloneReflect(v.Index(i)))
		}
		return out
	case reflect.Map:
		if v.IsNil() {
			return v
		}
		out := reflect.MakeMapWithSize(v.Type(), v.Len())
		iter := v.MapRange()
		for iter.Next() {
			out.SetMapIndex(iter.Key(), cloneReflect(iter.Value()))
		}
		return out
	case reflect.Interface:
		if v.IsNil() {
			return v
		}
		out := reflect.New(v.Type()).Elem()
		out.Set(cloneReflect(v.Elem()))
		return out
	default:
		return v
	}
}
