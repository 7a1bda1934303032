// Package behaviortree implements a tick-driven behavior tree execution
// engine: composable state machines (leaves, composites, decorators)
// evaluated synchronously by a host loop.
//
// The engine never owns a clock. The host repeatedly calls Tree.Tick; one
// call fully evaluates the subtree before returning, recursively ticking
// children according to each composite's or decorator's algorithm and
// exchanging data through a shared blackboard. Every node follows the same
// per-tick contract, driven for all kinds by a single driver:
//
//  1. If the node's status is not StatusRunning, its setup hook runs. The
//     default gate returns StatusRunning; returning StatusFailure vetoes
//     the tick before any work happens.
//  2. Unless setup vetoed, the running hook performs the node's work.
//  3. If the tick resolved to a non-running status, the teardown hook runs.
//
// Trees are constructed either directly through the New* constructors or
// declaratively from a YAML document (see the document subpackage), with
// leaf behaviors resolved through a Factory supplied by the embedding
// application. A running tree can be observed remotely through the
// visualizer subpackage.
//
// Ticking is single-threaded by design: no locking exists on the tick
// path, and no hook suspends mid-tick. The blackboard is independently
// safe for concurrent use.
package behaviortree
