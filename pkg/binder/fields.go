package binder

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// walkTagged calls fn for every settable field of the struct v points to
// whose tag is set and not "-". Options after a comma are ignored.
func walkTagged(v any, tag string, bindErr error, fn func(name string, field reflect.Value) error) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("%w: target must be a non-nil pointer to struct", bindErr)
	}
	rv = rv.Elem()

	for i := range rv.NumField() {
		sf := rv.Type().Field(i)
		name, _, _ := strings.Cut(sf.Tag.Get(tag), ",")
		if name == "" || name == "-" || !rv.Field(i).CanSet() {
			continue
		}
		if err := fn(name, rv.Field(i)); err != nil {
			return fmt.Errorf("%w: field %s: %v", bindErr, sf.Name, err)
		}
	}
	return nil
}

// bindToStruct copies values into the fields tagged with tag. Fields without
// a value keep what they had.
func bindToStruct(v any, tag string, values map[string][]string, bindErr error) error {
	return walkTagged(v, tag, bindErr, func(name string, field reflect.Value) error {
		raw := values[name]
		if len(raw) == 0 {
			return nil
		}
		return assign(field, raw)
	})
}

// assign parses raw into field. Pointers are allocated, slices take every
// value and split comma lists, scalars take the first value.
func assign(field reflect.Value, raw []string) error {
	switch field.Kind() {
	case reflect.Pointer:
		if field.IsNil() {
			field.Set(reflect.New(field.Type().Elem()))
		}
		return assign(field.Elem(), raw)

	case reflect.Slice:
		var items []string
		for _, r := range raw {
			for item := range strings.SplitSeq(r, ",") {
				items = append(items, strings.TrimSpace(item))
			}
		}
		out := reflect.MakeSlice(field.Type(), len(items), len(items))
		for i, item := range items {
			if err := assign(out.Index(i), []string{item}); err != nil {
				return err
			}
		}
		field.Set(out)
		return nil
	}

	s := raw[0]
	switch field.Kind() {
	case reflect.String:
		field.SetString(s)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(s, 10, field.Type().Bits())
		if err != nil {
			return fmt.Errorf("%q is not an integer", s)
		}
		field.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(s, 10, field.Type().Bits())
		if err != nil {
			return fmt.Errorf("%q is not an unsigned integer", s)
		}
		field.SetUint(n)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(s, field.Type().Bits())
		if err != nil {
			return fmt.Errorf("%q is not a number", s)
		}
		field.SetFloat(f)
	case reflect.Bool:
		b, err := parseBool(s)
		if err != nil {
			return err
		}
		field.SetBool(b)
	default:
		return fmt.Errorf("unsupported kind %s", field.Kind())
	}
	return nil
}

// parseBool also accepts the values HTML checkboxes and query flags send.
func parseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "on", "yes":
		return true, nil
	case "off", "no", "":
		return false, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("%q is not a boolean", s)
	}
	return b, nil
}
