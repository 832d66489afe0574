package config

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Explain returns the effective value at the given dotted path and its source.
//
// Paths follow the YAML layout, for example:
//
//	backend
//	switcher.ignore_workspaces
//	labels.max_offset
//	filter.exclude_classes
func Explain(res *LoadResult, path string) (any, Source, error) {
	if res == nil || res.Config == nil {
		return nil, Source{}, fmt.Errorf("no config loaded")
	}
	if path == "" {
		return nil, Source{}, fmt.Errorf("path is empty")
	}

	value, err := lookupValue(res.Config, path)
	if err != nil {
		return nil, Source{}, err
	}

	if src, ok := res.Sources[path]; ok {
		return value, src, nil
	}
	return value, Source{Kind: SourceDefault, Name: "defaults"}, nil
}

// Paths lists every leaf path Explain accepts, in document order.
func Paths(cfg *Config) ([]string, error) {
	var root yaml.Node
	if err := root.Encode(cfg); err != nil {
		return nil, err
	}
	var out []string
	var walk func(n *yaml.Node, prefix string)
	walk = func(n *yaml.Node, prefix string) {
		if n.Kind != yaml.MappingNode {
			out = append(out, prefix)
			return
		}
		for i := 0; i+1 < len(n.Content); i += 2 {
			key := n.Content[i].Value
			if prefix != "" {
				key = prefix + "." + key
			}
			walk(n.Content[i+1], key)
		}
	}
	walk(&root, "")
	return out, nil
}

func lookupValue(cfg *Config, path string) (any, error) {
	var node yaml.Node
	if err := node.Encode(cfg); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}

	cur := &node
	for _, part := range strings.Split(path, ".") {
		if cur.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("unknown path %q", path)
		}
		var next *yaml.Node
		for i := 0; i+1 < len(cur.Content); i += 2 {
			if cur.Content[i].Value == part {
				next = cur.Content[i+1]
				break
			}
		}
		if next == nil {
			return nil, fmt.Errorf("unknown path %q", path)
		}
		cur = next
	}

	var value any
	if err := cur.Decode(&value); err != nil {
		return nil, fmt.Errorf("failed to decode %q: %w", path, err)
	}
	return value, nil
}
