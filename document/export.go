package document

import (
	"fmt"
	"sort"
	"strconv"

	"gopkg.in/yaml.v3"

	behaviortree "github.com/Lecrapouille/BehaviorTree-sub000"
)

// Export emits the construction document describing tree: one map entry
// per node, depth-first, mirroring the builder's schema. Runtime status is
// not part of the document; rebuilding the export yields a tree whose
// nodes start at StatusInvalid.
func Export(tree *behaviortree.Tree) ([]byte, error) {
	return ExportIDs(tree, nil)
}

// ExportIDs is Export with id annotation: when ids is non-nil, every node
// of the tree (the tree container excluded) is assigned its stable
// pre-order id into ids while the document is emitted. The ids match
// AssignIDs over the same tree.
func ExportIDs(tree *behaviortree.Tree, ids map[behaviortree.Node]uint32) ([]byte, error) {
	if tree == nil || tree.Root() == nil {
		return nil, fmt.Errorf("export behavior tree: no root")
	}
	next := uint32(0)
	root, err := exportNode(tree.Root(), ids, &next)
	if err != nil {
		return nil, err
	}
	doc := &yaml.Node{
		Kind: yaml.MappingNode,
		Content: []*yaml.Node{
			scalarString(tree.Name()),
			root,
		},
	}
	out, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("export behavior tree: %w", err)
	}
	return out, nil
}

// AssignIDs walks the tree pre-order and returns a stable node→id map,
// starting at 0. Identity is the node value itself, so ids survive across
// calls for as long as the tree lives.
func AssignIDs(tree *behaviortree.Tree) map[behaviortree.Node]uint32 {
	ids := make(map[behaviortree.Node]uint32)
	next := uint32(0)
	behaviortree.Walk(tree.Root(), func(n behaviortree.Node) bool {
		ids[n] = next
		next++
		return true
	})
	return ids
}

// exportNode emits the subtree rooted at n as a single-key mapping,
// assigning pre-order ids along the way.
func exportNode(n behaviortree.Node, ids map[behaviortree.Node]uint32, next *uint32) (*yaml.Node, error) {
	if n == nil {
		return nil, fmt.Errorf("export behavior tree: nil node")
	}
	if ids != nil {
		ids[n] = *next
	}
	*next++

	fields := &yaml.Node{Kind: yaml.MappingNode}
	if n.Name() != string(n.Kind()) {
		fields.Content = append(fields.Content, scalarString("name"), scalarString(n.Name()))
	}
	if params := n.Params(); len(params) > 0 {
		keys := make([]string, 0, len(params))
		for key := range params {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			value, err := scalarParam(params[key])
			if err != nil {
				return nil, fmt.Errorf("export %s %q: %w", n.Kind(), n.Name(), err)
			}
			fields.Content = append(fields.Content, scalarString(key), value)
		}
	}
	if children := n.Children(); len(children) > 0 {
		entries := &yaml.Node{Kind: yaml.SequenceNode}
		for _, child := range children {
			entry, err := exportNode(child, ids, next)
			if err != nil {
				return nil, err
			}
			entries.Content = append(entries.Content, entry)
		}
		key := "children"
		if len(children) == 1 && isDecorator(n.Kind()) {
			key = "child"
		}
		fields.Content = append(fields.Content, scalarString(key), entries)
	}
	if len(fields.Content) == 0 {
		fields = &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: ""}
	}
	return &yaml.Node{
		Kind: yaml.MappingNode,
		Content: []*yaml.Node{
			scalarString(string(n.Kind())),
			fields,
		},
	}, nil
}

func isDecorator(kind behaviortree.Kind) bool {
	switch kind {
	case behaviortree.KindInverter, behaviortree.KindForceSuccess,
		behaviortree.KindForceFailure, behaviortree.KindRepeat,
		behaviortree.KindRetry, behaviortree.KindUntilSuccess,
		behaviortree.KindUntilFailure:
		return true
	}
	return false
}

func scalarString(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

func scalarParam(v any) (*yaml.Node, error) {
	switch value := v.(type) {
	case int:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.Itoa(value)}, nil
	case bool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(value)}, nil
	default:
		return nil, fmt.Errorf("unsupported parameter type %T", v)
	}
}
