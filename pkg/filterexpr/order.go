package filterexpr

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
)

type orderParams struct {
	PrimaryKey    string
	PrimaryDesc   bool
	SecondaryKey  string
	SecondaryDesc bool
}

type orderKey struct {
	name string
	desc bool
}

func (s OrderSchema) validate() error {
	if s.DefaultPrimary == "" {
		return errors.New("order schema default primary key required")
	}
	if s.FallbackKey == "" {
		return errors.New("order schema fallback key required")
	}
	if _, ok := s.Fields[s.DefaultPrimary]; !ok {
		return fmt.Errorf("order key %q missing from schema fields", s.DefaultPrimary)
	}
	if _, ok := s.Fields[s.FallbackKey]; !ok {
		return fmt.Errorf("fallback order key %q missing from schema fields", s.FallbackKey)
	}
	return nil
}

// parseOrderKeys splits "key [asc|desc], key [asc|desc]" into at most two whitelisted keys.
func parseOrderKeys(raw string, fields map[string]OrderField) ([]orderKey, error) {
	var keys []orderKey
	for _, seg := range strings.Split(raw, ",") {
		parts := strings.Fields(seg)
		if len(parts) == 0 {
			continue
		}
		if len(parts) > 2 {
			return nil, fmt.Errorf("invalid order segment %q", strings.TrimSpace(seg))
		}

		key := orderKey{name: strings.ToLower(parts[0])}
		if _, ok := fields[key.name]; !ok {
			return nil, fmt.Errorf("field %q cannot be used for ordering", parts[0])
		}
		if len(parts) == 2 {
			switch strings.ToLower(parts[1]) {
			case "asc":
			case "desc":
				key.desc = true
			default:
				return nil, fmt.Errorf("invalid direction %q for field %q", parts[1], key.name)
			}
		}
		for _, seen := range keys {
			if seen.name == key.name {
				return nil, fmt.Errorf("duplicate order key %q", key.name)
			}
		}
		if len(keys) == 2 {
			return nil, errors.New("order_by supports at most two keys")
		}
		keys = append(keys, key)
	}
	return keys, nil
}

func parseOrderBy(raw string, schema OrderSchema) (orderParams, error) {
	if err := schema.validate(); err != nil {
		return orderParams{}, err
	}

	keys, err := parseOrderKeys(raw, schema.Fields)
	if err != nil {
		return orderParams{}, err
	}

	ord := orderParams{
		PrimaryKey:    schema.DefaultPrimary,
		PrimaryDesc:   schema.DefaultPrimaryDesc,
		SecondaryKey:  schema.FallbackKey,
		SecondaryDesc: schema.FallbackDesc,
	}
	if len(keys) > 0 {
		ord.PrimaryKey, ord.PrimaryDesc = keys[0].name, keys[0].desc
	}
	if len(keys) > 1 {
		ord.SecondaryKey, ord.SecondaryDesc = keys[1].name, keys[1].desc
	}

	if ord.SecondaryKey == ord.PrimaryKey {
		// fallback collides with the chosen primary; take the first remaining key by name
		others := make([]string, 0, len(schema.Fields))
		for name := range schema.Fields {
			if name != ord.PrimaryKey {
				others = append(others, name)
			}
		}
		if len(others) == 0 {
			return orderParams{}, errors.New("order schema requires at least two distinct keys for stable ordering")
		}
		sort.Strings(others)
		ord.SecondaryKey, ord.SecondaryDesc = others[0], false
	}

	return ord, nil
}

func setOrderParams(binding any, ord orderParams) error {
	rv := reflect.ValueOf(binding)
	if rv.Kind() != reflect.Ptr || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return errors.New("binding must be a non-nil pointer to a struct")
	}

	target := rv.Elem()
	values := []struct {
		name  string
		value any
	}{
		{"PrimaryKey", ord.PrimaryKey},
		{"PrimaryDesc", ord.PrimaryDesc},
		{"SecondaryKey", ord.SecondaryKey},
		{"SecondaryDesc", ord.SecondaryDesc},
	}
	for _, v := range values {
		if err := setAssignableField(target, v.name, reflect.ValueOf(v.value)); err != nil {
			return err
		}
	}
	return nil
}

func setAssignableField(target reflect.Value, name string, value reflect.Value) error {
	field := target.FieldByName(name)
	if !field.IsValid() {
		return fmt.Errorf("params struct %s has no field named %q", target.Type(), name)
	}
	if !field.CanSet() {
		return fmt.Errorf("cannot set field %q on params struct", name)
	}

	switch field.Kind() {
	case reflect.Interface:
		field.Set(value)
	case reflect.Ptr:
		elemType := field.Type().Elem()
		if !value.Type().ConvertibleTo(elemType) {
			return fmt.Errorf("field %q must be %s-compatible, got %s", name, elemType, value.Type())
		}
		if field.IsNil() {
			field.Set(reflect.New(elemType))
		}
		field.Elem().Set(value.Convert(elemType))
	default:
		if !value.Type().ConvertibleTo(field.Type()) {
			return fmt.Errorf("field %q must be %s-compatible, got %s", name, field.Type(), value.Type())
		}
		field.Set(value.Convert(field.Type()))
	}
	return nil
}
