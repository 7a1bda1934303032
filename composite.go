package behaviortree

// composite is the embedded base of every multi-child node. Orchestration
// lives entirely in each kind's onRunning; the base contributes the shared
// validity rule.
type composite struct{ node }

// IsValid reports whether the composite has at least one child and every
// child is valid.
func (c *composite) IsValid() bool {
	if len(c.children) == 0 {
		return false
	}
	for _, child := range c.children {
		if child == nil || !child.IsValid() {
			return false
		}
	}
	return true
}

// Sequence ticks its children in order and succeeds once every child has
// succeeded. Any non-success short-circuits immediately: a running child
// keeps the cursor so the next tick resumes there, a failing child fails
// the sequence. Setup rewinds the cursor to the first child.
type Sequence struct {
	composite
	cursor int
}

var (
	_ Node     = (*Sequence)(nil)
	_ behavior = (*Sequence)(nil)
)

// NewSequence creates a sequence over the given children.
func NewSequence(name string, children ...Node) *Sequence {
	s := &Sequence{composite: composite{newNode(KindSequence, name, children)}}
	s.self = s
	return s
}

func (s *Sequence) onSetUp() Status {
	s.cursor = 0
	return StatusRunning
}

func (s *Sequence) onRunning() Status {
	for s.cursor < len(s.children) {
		if status := s.children[s.cursor].Tick(); status != StatusSuccess {
			return status
		}
		s.cursor++
	}
	return StatusSuccess
}

// ReactiveSequence is a Sequence that restarts from the first child on
// every tick, re-evaluating earlier children even while a later child is
// still running.
type ReactiveSequence struct{ composite }

var (
	_ Node     = (*ReactiveSequence)(nil)
	_ behavior = (*ReactiveSequence)(nil)
)

// NewReactiveSequence creates a reactive sequence over the given children.
func NewReactiveSequence(name string, children ...Node) *ReactiveSequence {
	s := &ReactiveSequence{composite{newNode(KindReactiveSequence, name, children)}}
	s.self = s
	return s
}

func (s *ReactiveSequence) onRunning() Status {
	for _, child := range s.children {
		if status := child.Tick(); status != StatusSuccess {
			return status
		}
	}
	return StatusSuccess
}

// StatefulSequence is a Sequence whose cursor survives across ticks
// without a setup rewind: after a failure it resumes at the failed child,
// not at the beginning. The cursor rewinds only when a full pass succeeds.
type StatefulSequence struct {
	composite
	cursor int
}

var (
	_ Node     = (*StatefulSequence)(nil)
	_ behavior = (*StatefulSequence)(nil)
)

// NewStatefulSequence creates a stateful sequence over the given children.
func NewStatefulSequence(name string, children ...Node) *StatefulSequence {
	s := &StatefulSequence{composite: composite{newNode(KindStatefulSequence, name, children)}}
	s.self = s
	return s
}

func (s *StatefulSequence) onRunning() Status {
	for s.cursor < len(s.children) {
		if status := s.children[s.cursor].Tick(); status != StatusSuccess {
			return status
		}
		s.cursor++
	}
	s.cursor = 0
	return StatusSuccess
}

// Selector ticks its children in order and fails only once every child has
// failed. Any non-failure short-circuits immediately: a running child
// keeps the cursor, a succeeding child succeeds the selector. Setup
// rewinds the cursor to the first child.
type Selector struct {
	composite
	cursor int
}

var (
	_ Node     = (*Selector)(nil)
	_ behavior = (*Selector)(nil)
)

// NewSelector creates a selector over the given children.
func NewSelector(name string, children ...Node) *Selector {
	s := &Selector{composite: composite{newNode(KindSelector, name, children)}}
	s.self = s
	return s
}

func (s *Selector) onSetUp() Status {
	s.cursor = 0
	return StatusRunning
}

func (s *Selector) onRunning() Status {
	for s.cursor < len(s.children) {
		if status := s.children[s.cursor].Tick(); status != StatusFailure {
			return status
		}
		s.cursor++
	}
	return StatusFailure
}

// ReactiveSelector is a Selector that restarts from the first child on
// every tick.
type ReactiveSelector struct{ composite }

var (
	_ Node     = (*ReactiveSelector)(nil)
	_ behavior = (*ReactiveSelector)(nil)
)

// NewReactiveSelector creates a reactive selector over the given children.
func NewReactiveSelector(name string, children ...Node) *ReactiveSelector {
	s := &ReactiveSelector{composite{newNode(KindReactiveSelector, name, children)}}
	s.self = s
	return s
}

func (s *ReactiveSelector) onRunning() Status {
	for _, child := range s.children {
		if status := child.Tick(); status != StatusFailure {
			return status
		}
	}
	return StatusFailure
}

// StatefulSelector is a Selector whose cursor survives across ticks
// without a setup rewind: after a success it resumes at the succeeding
// child. The cursor rewinds only when a full pass fails.
type StatefulSelector struct {
	composite
	cursor int
}

var (
	_ Node     = (*StatefulSelector)(nil)
	_ behavior = (*StatefulSelector)(nil)
)

// NewStatefulSelector creates a stateful selector over the given children.
func NewStatefulSelector(name string, children ...Node) *StatefulSelector {
	s := &StatefulSelector{composite: composite{newNode(KindStatefulSelector, name, children)}}
	s.self = s
	return s
}

func (s *StatefulSelector) onRunning() Status {
	for s.cursor < len(s.children) {
		if status := s.children[s.cursor].Tick(); status != StatusFailure {
			return status
		}
		s.cursor++
	}
	s.cursor = 0
	return StatusFailure
}

// Parallel ticks every child on every call, with no short-circuit, then
// counts this tick's outcomes: at least minSuccess successes resolve to
// StatusSuccess (checked first), otherwise at least minFail failures
// resolve to StatusFailure, otherwise the parallel keeps running.
// Thresholds are absolute counts and deliberately unvalidated against the
// child count.
type Parallel struct {
	composite
	minSuccess int
	minFail    int
}

var (
	_ Node     = (*Parallel)(nil)
	_ behavior = (*Parallel)(nil)
)

// NewParallel creates a parallel composite with absolute outcome
// thresholds.
func NewParallel(name string, minSuccess, minFail int, children ...Node) *Parallel {
	p := &Parallel{
		composite:  composite{newNode(KindParallel, name, children)},
		minSuccess: minSuccess,
		minFail:    minFail,
	}
	p.self = p
	return p
}

// Params implements Node.
func (p *Parallel) Params() map[string]any {
	return map[string]any{
		"success_threshold": p.minSuccess,
		"failure_threshold": p.minFail,
	}
}

func (p *Parallel) onRunning() Status {
	return tickParallel(p.children, p.minSuccess, p.minFail)
}

// ParallelAll is a Parallel whose thresholds are expressed as policy
// flags: a true flag requires every child, a false flag requires one.
type ParallelAll struct {
	composite
	successOnAll bool
	failOnAll    bool
}

var (
	_ Node     = (*ParallelAll)(nil)
	_ behavior = (*ParallelAll)(nil)
)

// NewParallelAll creates a parallel composite with all-or-one policies.
func NewParallelAll(name string, successOnAll, failOnAll bool, children ...Node) *ParallelAll {
	p := &ParallelAll{
		composite:    composite{newNode(KindParallelAll, name, children)},
		successOnAll: successOnAll,
		failOnAll:    failOnAll,
	}
	p.self = p
	return p
}

// Params implements Node.
func (p *ParallelAll) Params() map[string]any {
	return map[string]any{
		"success_on_all": p.successOnAll,
		"fail_on_all":    p.failOnAll,
	}
}

func (p *ParallelAll) onRunning() Status {
	minSuccess, minFail := 1, 1
	if p.successOnAll {
		minSuccess = len(p.children)
	}
	if p.failOnAll {
		minFail = len(p.children)
	}
	return tickParallel(p.children, minSuccess, minFail)
}

// tickParallel is the shared parallel loop: tick everything, then apply
// the thresholds, success first.
func tickParallel(children []Node, minSuccess, minFail int) Status {
	var successes, failures int
	for _, child := range children {
		switch child.Tick() {
		case StatusSuccess:
			successes++
		case StatusFailure:
			failures++
		}
	}
	switch {
	case successes >= minSuccess:
		return StatusSuccess
	case failures >= minFail:
		return StatusFailure
	default:
		return StatusRunning
	}
}
