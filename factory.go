package behaviortree

// Factory resolves the leaf names of a construction document to
// host-supplied callables. It is an explicit instance threaded through the
// builder; there is no process-wide registry. The factory is consulted
// only while building and is not retained by the resulting tree.
type Factory struct {
	actions    map[string]ActionFunc
	conditions map[string]ConditionFunc
}

// NewFactory creates an empty factory.
func NewFactory() *Factory {
	return &Factory{
		actions:    make(map[string]ActionFunc),
		conditions: make(map[string]ConditionFunc),
	}
}

// RegisterAction maps name to an action callable, replacing any previous
// registration. Returns the factory for chaining.
func (f *Factory) RegisterAction(name string, fn ActionFunc) *Factory {
	f.actions[name] = fn
	return f
}

// RegisterCondition maps name to a condition predicate, replacing any
// previous registration. Returns the factory for chaining.
func (f *Factory) RegisterCondition(name string, fn ConditionFunc) *Factory {
	f.conditions[name] = fn
	return f
}

// Action returns the callable registered under name.
func (f *Factory) Action(name string) (ActionFunc, bool) {
	fn, ok := f.actions[name]
	return fn, ok
}

// Condition returns the predicate registered under name.
func (f *Factory) Condition(name string) (ConditionFunc, bool) {
	fn, ok := f.conditions[name]
	return fn, ok
}
