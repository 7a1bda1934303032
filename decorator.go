package behaviortree

// decorator is the embedded base of every single-child node.
type decorator struct{ node }

// IsValid reports whether the decorator has exactly one valid child.
func (d *decorator) IsValid() bool {
	return len(d.children) == 1 && d.children[0].IsValid()
}

// tickChild ticks the single child. A decorator constructed without a
// child is invalid; ticking it anyway resolves to StatusFailure rather
// than faulting.
func (d *decorator) tickChild() Status {
	if len(d.children) != 1 {
		return StatusFailure
	}
	return d.children[0].Tick()
}

func newDecorator(kind Kind, name string, child Node) decorator {
	var children []Node
	if child != nil {
		children = []Node{child}
	}
	return decorator{newNode(kind, name, children)}
}

// Inverter swaps its child's terminal outcome: success becomes failure and
// failure becomes success. A running child passes through.
type Inverter struct{ decorator }

var (
	_ Node     = (*Inverter)(nil)
	_ behavior = (*Inverter)(nil)
)

// NewInverter creates an inverter around child.
func NewInverter(name string, child Node) *Inverter {
	i := &Inverter{newDecorator(KindInverter, name, child)}
	i.self = i
	return i
}

func (i *Inverter) onRunning() Status {
	switch i.tickChild() {
	case StatusRunning:
		return StatusRunning
	case StatusSuccess:
		return StatusFailure
	default:
		return StatusSuccess
	}
}

// ForceSuccess resolves to StatusSuccess whenever its child completes,
// regardless of the child's outcome. A running child passes through.
type ForceSuccess struct{ decorator }

var (
	_ Node     = (*ForceSuccess)(nil)
	_ behavior = (*ForceSuccess)(nil)
)

// NewForceSuccess creates a force-success decorator around child.
func NewForceSuccess(name string, child Node) *ForceSuccess {
	f := &ForceSuccess{newDecorator(KindForceSuccess, name, child)}
	f.self = f
	return f
}

func (f *ForceSuccess) onRunning() Status {
	if f.tickChild() == StatusRunning {
		return StatusRunning
	}
	return StatusSuccess
}

// ForceFailure resolves to StatusFailure whenever its child completes,
// regardless of the child's outcome. A running child passes through.
type ForceFailure struct{ decorator }

var (
	_ Node     = (*ForceFailure)(nil)
	_ behavior = (*ForceFailure)(nil)
)

// NewForceFailure creates a force-failure decorator around child.
func NewForceFailure(name string, child Node) *ForceFailure {
	f := &ForceFailure{newDecorator(KindForceFailure, name, child)}
	f.self = f
	return f
}

func (f *ForceFailure) onRunning() Status {
	if f.tickChild() == StatusRunning {
		return StatusRunning
	}
	return StatusFailure
}

// Repeat runs its child to success a fixed number of times. A child
// failure aborts the whole repeat with StatusFailure. With times == 0 the
// repeat is unbounded and never resolves on its own.
type Repeat struct {
	decorator
	times int
	count int
}

var (
	_ Node     = (*Repeat)(nil)
	_ behavior = (*Repeat)(nil)
)

// NewRepeat creates a repeat decorator that resolves to StatusSuccess
// after the child has succeeded times times. times == 0 repeats forever.
func NewRepeat(name string, times int, child Node) *Repeat {
	r := &Repeat{decorator: newDecorator(KindRepeat, name, child), times: times}
	r.self = r
	return r
}

// Params implements Node.
func (r *Repeat) Params() map[string]any {
	return map[string]any{"times": r.times}
}

func (r *Repeat) onSetUp() Status {
	r.count = 0
	return StatusRunning
}

func (r *Repeat) onRunning() Status {
	switch r.tickChild() {
	case StatusRunning:
		return StatusRunning
	case StatusFailure:
		return StatusFailure
	}
	r.count++
	if r.times > 0 && r.count == r.times {
		return StatusSuccess
	}
	return StatusRunning
}

// Retry runs its child until it succeeds, tolerating a fixed number of
// failures. A child success resolves immediately; the attempts-th failure
// resolves to StatusFailure. With attempts == 0 the retry cap is disabled
// and the decorator never gives up.
type Retry struct {
	decorator
	attempts int
	count    int
}

var (
	_ Node     = (*Retry)(nil)
	_ behavior = (*Retry)(nil)
)

// NewRetry creates a retry decorator that resolves to StatusFailure after
// attempts child failures. attempts == 0 retries forever.
func NewRetry(name string, attempts int, child Node) *Retry {
	r := &Retry{decorator: newDecorator(KindRetry, name, child), attempts: attempts}
	r.self = r
	return r
}

// Params implements Node.
func (r *Retry) Params() map[string]any {
	return map[string]any{"attempts": r.attempts}
}

func (r *Retry) onSetUp() Status {
	r.count = 0
	return StatusRunning
}

func (r *Retry) onRunning() Status {
	switch r.tickChild() {
	case StatusRunning:
		return StatusRunning
	case StatusSuccess:
		return StatusSuccess
	}
	r.count++
	if r.attempts > 0 && r.count >= r.attempts {
		return StatusFailure
	}
	return StatusRunning
}

// UntilSuccess keeps running its child until it succeeds, then resolves to
// StatusSuccess. The child is ticked once per tick of the decorator; a
// child failure simply means another attempt next tick, so the decorator
// never blocks the host loop inside a single call.
type UntilSuccess struct{ decorator }

var (
	_ Node     = (*UntilSuccess)(nil)
	_ behavior = (*UntilSuccess)(nil)
)

// NewUntilSuccess creates an until-success decorator around child.
func NewUntilSuccess(name string, child Node) *UntilSuccess {
	u := &UntilSuccess{newDecorator(KindUntilSuccess, name, child)}
	u.self = u
	return u
}

func (u *UntilSuccess) onRunning() Status {
	if u.tickChild() == StatusSuccess {
		return StatusSuccess
	}
	return StatusRunning
}

// UntilFailure keeps running its child until it fails, then resolves to
// StatusSuccess. Like UntilSuccess, one child tick per decorator tick.
type UntilFailure struct{ decorator }

var (
	_ Node     = (*UntilFailure)(nil)
	_ behavior = (*UntilFailure)(nil)
)

// NewUntilFailure creates an until-failure decorator around child.
func NewUntilFailure(name string, child Node) *UntilFailure {
	u := &UntilFailure{newDecorator(KindUntilFailure, name, child)}
	u.self = u
	return u
}

func (u *UntilFailure) onRunning() Status {
	if u.tickChild() == StatusFailure {
		return StatusSuccess
	}
	return StatusRunning
}
