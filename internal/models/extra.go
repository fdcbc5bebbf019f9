package models

import (
	"encoding/json"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Fields a client may not set through extras, per entity. The typed fields
// are listed too because an inlined map must not repeat a struct key.
var (
	appointmentKeys = keySet("_id", "patientName", "email", "phone", "serviceName", "time", "date", "price", "payment", "createdAt")
	userKeys        = keySet("_id", "email", "displayName", "role", "createdAt", "updatedAt")
)

func keySet(keys ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		m[k] = struct{}{}
	}
	return m
}

// extraFields returns the members of doc that are not reserved. Keys Mongo
// cannot store at the top level ("$"-prefixed or dotted) are dropped.
func extraFields(doc map[string]interface{}, reserved map[string]struct{}) bson.M {
	var out bson.M
	for k, v := range doc {
		if _, ok := reserved[k]; ok {
			continue
		}
		if k == "" || strings.HasPrefix(k, "$") || strings.Contains(k, ".") {
			continue
		}
		if out == nil {
			out = bson.M{}
		}
		out[k] = v
	}
	return out
}

// decodeWithExtras unmarshals data into typed (a pointer to a method-less
// twin of the entity) and returns the remaining client fields.
func decodeWithExtras(data []byte, typed interface{}, reserved map[string]struct{}) (bson.M, error) {
	if err := json.Unmarshal(data, typed); err != nil {
		return nil, err
	}
	var all map[string]interface{}
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, err
	}
	return extraFields(all, reserved), nil
}

// encodeWithExtras marshals typed and adds the extras next to its fields.
// Typed fields win on a name clash.
func encodeWithExtras(typed interface{}, extra bson.M) ([]byte, error) {
	base, err := json.Marshal(typed)
	if err != nil || len(extra) == 0 {
		return base, err
	}
	merged := map[string]json.RawMessage{}
	if err := json.Unmarshal(base, &merged); err != nil {
		return nil, err
	}
	for k, v := range extra {
		if _, ok := merged[k]; ok {
			continue
		}
		raw, err := json.Marshal(plainValue(v))
		if err != nil {
			return nil, err
		}
		merged[k] = raw
	}
	return json.Marshal(merged)
}

// plainValue turns documents decoded by the Mongo driver into values that
// marshal to ordinary JSON objects and arrays.
func plainValue(v interface{}) interface{} {
	switch t := v.(type) {
	case primitive.D:
		m := make(map[string]interface{}, len(t))
		for _, e := range t {
			m[e.Key] = plainValue(e.Value)
		}
		return m
	case primitive.M:
		m := make(map[string]interface{}, len(t))
		for k, e := range t {
			m[k] = plainValue(e)
		}
		return m
	case map[string]interface{}:
		m := make(map[string]interface{}, len(t))
		for k, e := range t {
			m[k] = plainValue(e)
		}
		return m
	case primitive.A:
		out := make([]interface{}, len(t))
		for i, e := range t {
			out[i] = plainValue(e)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, e := range t {
			out[i] = plainValue(e)
		}
		return out
	default:
		return v
	}
}

func cloneExtra(m bson.M) bson.M {
	if m == nil {
		return nil
	}
	cp := make(bson.M, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return cp
}
