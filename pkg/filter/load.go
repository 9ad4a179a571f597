// SPDX-License-Identifier: Apache-2.0

package filter

import (
	"fmt"
	"sort"

	"sigs.k8s.io/yaml"
)

// knownProperties is the closed set of leaf property names a pattern node
// may use alongside (or instead of) the and/or/not combinators. Listing them
// explicitly lets Load reject a typo'd key instead of silently building a
// Property that always matches — pattern files are hand-written
// configuration, unlike a Change produced internally, so a strict parse is
// worth the extra check Property.Match itself doesn't make.
var knownProperties = map[string]bool{
	"type":      true,
	"operation": true,
	"scope":     true,
	"schema":    true,
	"owner":     true,
	"member":    true,
}

// Load parses a YAML (or JSON, a subset of YAML) pattern file into a
// Pattern. The file format is a tree of maps: a node with keys "and", "or",
// or "not" is a combinator (and/or take a list of sub-nodes, not takes a
// single sub-node); a node with one or more of the property keys in
// knownProperties is an implicit And of Property matches. Parsing goes
// through sigs.k8s.io/yaml, the YAML-or-JSON loader the teacher uses for its
// migration files.
func Load(data []byte) (Pattern, error) {
	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("filter: parsing pattern file: %w", err)
	}
	return parseNode(raw)
}

func parseNode(raw map[string]interface{}) (Pattern, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("filter: empty pattern node")
	}

	if v, ok := raw["and"]; ok {
		if len(raw) != 1 {
			return nil, fmt.Errorf("filter: \"and\" must be the only key in its node")
		}
		return parseList("and", v)
	}
	if v, ok := raw["or"]; ok {
		if len(raw) != 1 {
			return nil, fmt.Errorf("filter: \"or\" must be the only key in its node")
		}
		return parseList("or", v)
	}
	if v, ok := raw["not"]; ok {
		if len(raw) != 1 {
			return nil, fmt.Errorf("filter: \"not\" must be the only key in its node")
		}
		sub, ok := v.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("filter: \"not\" value must be a single pattern node")
		}
		p, err := parseNode(sub)
		if err != nil {
			return nil, err
		}
		return Not{Pattern: p}, nil
	}

	names := make([]string, 0, len(raw))
	for k := range raw {
		names = append(names, k)
	}
	sort.Strings(names)

	props := make(And, 0, len(names))
	for _, k := range names {
		if !knownProperties[k] {
			return nil, fmt.Errorf("filter: unknown pattern property %q", k)
		}
		s, ok := raw[k].(string)
		if !ok {
			return nil, fmt.Errorf("filter: property %q must be a string value", k)
		}
		props = append(props, Property{Name: k, Value: s})
	}
	if len(props) == 1 {
		return props[0], nil
	}
	return props, nil
}

func parseList(kind string, v interface{}) (Pattern, error) {
	items, ok := v.([]interface{})
	if !ok {
		return nil, fmt.Errorf("filter: combinator value must be a list of pattern nodes")
	}
	var patterns []Pattern
	for _, item := range items {
		node, ok := item.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("filter: combinator list item must be a pattern node")
		}
		p, err := parseNode(node)
		if err != nil {
			return nil, err
		}
		patterns = append(patterns, p)
	}
	switch kind {
	case "and":
		return And(patterns), nil
	case "or":
		return Or(patterns), nil
	default:
		return nil, fmt.Errorf("filter: unsupported combinator %q", kind)
	}
}
