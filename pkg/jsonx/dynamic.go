// Package jsonx contains JSON conversion helpers shared by the tool
// front end.
package jsonx

import json "github.com/goccy/go-json"

// ToDynamicJSON converts a Go value to its dynamic JSON representation,
// a map from field name to value. It round-trips through the value's JSON
// encoding so struct tags and custom marshalers are honored.
func ToDynamicJSON(val any) (map[string]any, error) {
	b, err := json.Marshal(val)
	if err != nil {
		return nil, err
	}
	result := make(map[string]any)
	if err := json.Unmarshal(b, &result); err != nil {
		return nil, err
	}
	return result, nil
}
