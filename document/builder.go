// Package document converts between declarative YAML documents and live
// behavior trees, in both directions.
//
// A document is a mapping with a single root key naming the tree; each
// subtree is a mapping with a single kind key (the discriminator) whose
// value holds the node's name, kind-specific parameters, and children:
//
//	patrol robot:
//	  sequence:
//	    children:
//	      - condition:
//	          name: battery_ok
//	      - action:
//	          name: patrol
//
// The Builder turns a document into a behaviortree.Tree, resolving action
// and condition names through a caller-supplied Factory and validating
// structure strictly: composites need at least two children, decorators
// exactly one (under the child key), parallel parameters are mutually
// exclusive pairs, and unknown kinds, fields, or unregistered leaf names
// abort the build with a descriptive *BuildError. Export is the inverse
// transform, emitting one map entry per node in the same schema.
package document

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	behaviortree "github.com/Lecrapouille/BehaviorTree-sub000"
	"github.com/Lecrapouille/BehaviorTree-sub000/blackboard"
)

// Builder constructs behavior trees from YAML documents. The zero value is
// not usable; create one with NewBuilder.
type Builder struct {
	factory *behaviortree.Factory
	bb      *blackboard.Blackboard
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithBlackboard attaches bb to every tree the builder produces.
func WithBlackboard(bb *blackboard.Blackboard) BuilderOption {
	return func(b *Builder) { b.bb = bb }
}

// NewBuilder creates a builder resolving leaf names through factory. A nil
// factory is allowed only for documents without action or condition nodes.
func NewBuilder(factory *behaviortree.Factory, opts ...BuilderOption) *Builder {
	b := &Builder{factory: factory}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build parses data and constructs the tree it describes. On any
// structural violation it returns a *BuildError and no tree.
func (b *Builder) Build(data []byte) (*behaviortree.Tree, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse behavior tree document: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, &BuildError{Reason: "empty document"}
	}
	top := doc.Content[0]
	if top.Kind != yaml.MappingNode || len(top.Content) != 2 {
		return nil, &BuildError{
			Line:   top.Line,
			Column: top.Column,
			Reason: "document must be a mapping with a single root key naming the tree",
		}
	}
	name := top.Content[0].Value
	root, err := b.buildNode(top.Content[1])
	if err != nil {
		return nil, err
	}
	tree := behaviortree.NewTree(name, root)
	if b.bb != nil {
		tree.AttachBlackboard(b.bb)
	}
	return tree, nil
}

// BuildFile reads path and builds the tree it describes.
func (b *Builder) BuildFile(path string) (*behaviortree.Tree, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read behavior tree document: %w", err)
	}
	return b.Build(data)
}

// spec is one subtree of the document: the kind key plus its decoded
// field mapping.
type spec struct {
	kind   string
	name   string
	line   int
	column int

	children []*yaml.Node // entries of the children sequence
	child    []*yaml.Node // entries of the child sequence

	times            *int
	attempts         *int
	successThreshold *int
	failureThreshold *int
	successOnAll     *bool
	failOnAll        *bool
}

func (s *spec) errorf(format string, args ...any) *BuildError {
	return &BuildError{
		Kind:   s.kind,
		Name:   s.name,
		Line:   s.line,
		Column: s.column,
		Reason: fmt.Sprintf(format, args...),
	}
}

// displayName is the node name with the kind key as the documented
// default.
func (s *spec) displayName() string {
	if s.name != "" {
		return s.name
	}
	return s.kind
}

// buildNode recursively constructs the node described by n, which must be
// a mapping with a single kind key.
func (b *Builder) buildNode(n *yaml.Node) (behaviortree.Node, error) {
	// yaml.v3 represents aliases as their own node kind; resolve them so
	// anchors may be used for repeated leaf definitions.
	if n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	if n.Kind != yaml.MappingNode || len(n.Content) != 2 {
		return nil, &BuildError{
			Line:   n.Line,
			Column: n.Column,
			Reason: "node must be a mapping with a single kind key",
		}
	}
	s, err := decodeSpec(n.Content[0].Value, n.Content[1])
	if err != nil {
		return nil, err
	}

	switch behaviortree.Kind(s.kind) {
	case behaviortree.KindSequence:
		return b.buildComposite(s, func(children []behaviortree.Node) behaviortree.Node {
			return behaviortree.NewSequence(s.name, children...)
		})
	case behaviortree.KindReactiveSequence:
		return b.buildComposite(s, func(children []behaviortree.Node) behaviortree.Node {
			return behaviortree.NewReactiveSequence(s.name, children...)
		})
	case behaviortree.KindStatefulSequence:
		return b.buildComposite(s, func(children []behaviortree.Node) behaviortree.Node {
			return behaviortree.NewStatefulSequence(s.name, children...)
		})
	case behaviortree.KindSelector:
		return b.buildComposite(s, func(children []behaviortree.Node) behaviortree.Node {
			return behaviortree.NewSelector(s.name, children...)
		})
	case behaviortree.KindReactiveSelector:
		return b.buildComposite(s, func(children []behaviortree.Node) behaviortree.Node {
			return behaviortree.NewReactiveSelector(s.name, children...)
		})
	case behaviortree.KindStatefulSelector:
		return b.buildComposite(s, func(children []behaviortree.Node) behaviortree.Node {
			return behaviortree.NewStatefulSelector(s.name, children...)
		})
	case behaviortree.KindParallel, behaviortree.KindParallelAll:
		return b.buildParallel(s)
	case behaviortree.KindInverter:
		return b.buildDecorator(s, func(child behaviortree.Node) behaviortree.Node {
			return behaviortree.NewInverter(s.name, child)
		})
	case behaviortree.KindForceSuccess:
		return b.buildDecorator(s, func(child behaviortree.Node) behaviortree.Node {
			return behaviortree.NewForceSuccess(s.name, child)
		})
	case behaviortree.KindForceFailure:
		return b.buildDecorator(s, func(child behaviortree.Node) behaviortree.Node {
			return behaviortree.NewForceFailure(s.name, child)
		})
	case behaviortree.KindRepeat:
		if s.times == nil {
			return nil, s.errorf("repeat requires a times parameter")
		}
		if *s.times < 0 {
			return nil, s.errorf("times must not be negative, got %d", *s.times)
		}
		return b.buildDecorator(s, func(child behaviortree.Node) behaviortree.Node {
			return behaviortree.NewRepeat(s.name, *s.times, child)
		})
	case behaviortree.KindRetry:
		if s.attempts == nil {
			return nil, s.errorf("retry requires an attempts parameter")
		}
		if *s.attempts < 0 {
			return nil, s.errorf("attempts must not be negative, got %d", *s.attempts)
		}
		return b.buildDecorator(s, func(child behaviortree.Node) behaviortree.Node {
			return behaviortree.NewRetry(s.name, *s.attempts, child)
		})
	case behaviortree.KindUntilSuccess:
		return b.buildDecorator(s, func(child behaviortree.Node) behaviortree.Node {
			return behaviortree.NewUntilSuccess(s.name, child)
		})
	case behaviortree.KindUntilFailure:
		return b.buildDecorator(s, func(child behaviortree.Node) behaviortree.Node {
			return behaviortree.NewUntilFailure(s.name, child)
		})
	case behaviortree.KindAction:
		if b.factory == nil {
			return nil, s.errorf("no factory supplied to resolve action %q", s.displayName())
		}
		fn, ok := b.factory.Action(s.displayName())
		if !ok {
			return nil, s.errorf("action %q is not registered", s.displayName())
		}
		return behaviortree.NewAction(s.displayName(), fn), nil
	case behaviortree.KindCondition:
		if b.factory == nil {
			return nil, s.errorf("no factory supplied to resolve condition %q", s.displayName())
		}
		fn, ok := b.factory.Condition(s.displayName())
		if !ok {
			return nil, s.errorf("condition %q is not registered", s.displayName())
		}
		return behaviortree.NewCondition(s.displayName(), fn), nil
	case behaviortree.KindSuccess:
		return behaviortree.NewSuccess(s.name), nil
	case behaviortree.KindFailure:
		return behaviortree.NewFailure(s.name), nil
	default:
		return nil, s.errorf("unknown node kind %q", s.kind)
	}
}

func (b *Builder) buildComposite(s *spec, construct func([]behaviortree.Node) behaviortree.Node) (behaviortree.Node, error) {
	if len(s.child) > 0 {
		return nil, s.errorf("composites take a children list, not child")
	}
	if len(s.children) < 2 {
		return nil, s.errorf("composites require at least 2 children, got %d", len(s.children))
	}
	children := make([]behaviortree.Node, 0, len(s.children))
	for _, entry := range s.children {
		child, err := b.buildNode(entry)
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	return construct(children), nil
}

func (b *Builder) buildDecorator(s *spec, construct func(behaviortree.Node) behaviortree.Node) (behaviortree.Node, error) {
	if len(s.children) > 0 {
		return nil, s.errorf("decorators take a single-entry child list, not children")
	}
	if len(s.child) != 1 {
		return nil, s.errorf("decorators require exactly 1 child, got %d", len(s.child))
	}
	child, err := b.buildNode(s.child[0])
	if err != nil {
		return nil, err
	}
	return construct(child), nil
}

// buildParallel handles both parallel kinds. The threshold-count pair and
// the on-all boolean pair are mutually exclusive; a document using the
// boolean pair produces a parallel_all node.
func (b *Builder) buildParallel(s *spec) (behaviortree.Node, error) {
	if len(s.child) > 0 {
		return nil, s.errorf("composites take a children list, not child")
	}
	if len(s.children) < 2 {
		return nil, s.errorf("composites require at least 2 children, got %d", len(s.children))
	}

	hasThresholds := s.successThreshold != nil || s.failureThreshold != nil
	hasFlags := s.successOnAll != nil || s.failOnAll != nil
	switch {
	case hasThresholds && hasFlags:
		return nil, s.errorf("success_threshold/failure_threshold and success_on_all/fail_on_all are mutually exclusive")
	case !hasThresholds && !hasFlags:
		return nil, s.errorf("parallel requires success_threshold/failure_threshold or success_on_all/fail_on_all")
	case hasThresholds && (s.successThreshold == nil || s.failureThreshold == nil):
		return nil, s.errorf("success_threshold and failure_threshold must be given together")
	case hasFlags && (s.successOnAll == nil || s.failOnAll == nil):
		return nil, s.errorf("success_on_all and fail_on_all must be given together")
	}

	children := make([]behaviortree.Node, 0, len(s.children))
	for _, entry := range s.children {
		child, err := b.buildNode(entry)
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	if hasFlags {
		return behaviortree.NewParallelAll(s.name, *s.successOnAll, *s.failOnAll, children...), nil
	}
	return behaviortree.NewParallel(s.name, *s.successThreshold, *s.failureThreshold, children...), nil
}

// decodeSpec reads the kind key's field mapping, rejecting unknown fields
// and wrong scalar types.
func decodeSpec(kind string, fields *yaml.Node) (*spec, error) {
	s := &spec{kind: kind, line: fields.Line, column: fields.Column}
	if fields.Kind == yaml.AliasNode {
		fields = fields.Alias
	}
	// A kind with no fields at all may be written as a bare key with a
	// null value, e.g. "- success:".
	if fields.Tag == "!!null" {
		return s, nil
	}
	if fields.Kind != yaml.MappingNode {
		return nil, s.errorf("node fields must be a mapping")
	}
	for i := 0; i+1 < len(fields.Content); i += 2 {
		key, value := fields.Content[i], fields.Content[i+1]
		var err error
		switch key.Value {
		case "name":
			err = value.Decode(&s.name)
		case "children":
			s.children, err = sequenceEntries(value)
		case "child":
			s.child, err = sequenceEntries(value)
		case "times":
			err = value.Decode(&s.times)
		case "attempts":
			err = value.Decode(&s.attempts)
		case "success_threshold":
			err = value.Decode(&s.successThreshold)
		case "failure_threshold":
			err = value.Decode(&s.failureThreshold)
		case "success_on_all":
			err = value.Decode(&s.successOnAll)
		case "fail_on_all":
			err = value.Decode(&s.failOnAll)
		default:
			return nil, &BuildError{
				Kind:   kind,
				Line:   key.Line,
				Column: key.Column,
				Reason: fmt.Sprintf("unknown field %q", key.Value),
			}
		}
		if err != nil {
			return nil, &BuildError{
				Kind:   kind,
				Line:   value.Line,
				Column: value.Column,
				Reason: fmt.Sprintf("invalid %s: %v", key.Value, err),
			}
		}
	}
	return s, nil
}

func sequenceEntries(n *yaml.Node) ([]*yaml.Node, error) {
	if n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	if n.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("expected a list")
	}
	return n.Content, nil
}
