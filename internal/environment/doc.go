// Package environment provides the component orchestration core of samctl.
//
// The Manager owns the set of currently running components and exposes
// idempotent start/stop operations over the declared component graph. It
// ensures components are started in dependency order and stopped in
// reverse, delegating the actual launching and termination to per-type
// resource drivers.
//
// # Component Types
//
// The Manager drives three kinds of resources:
//
//   - container: a single isolated container created through the external
//     container tool
//   - pod: a shared network namespace holding an ordered list of
//     sub-containers
//   - process: a bare child process whose pid and stdout/stderr streams
//     are persisted under the runtime-state directory
//
// # Ordering
//
// Start and stop ordering is resolved with a fixed-point loop: the
// pending set is scanned repeatedly, starting (or stopping) every
// component whose dependencies (or dependents) are already satisfied,
// until the set empties. A full scan without progress means the graph is
// stuck in a cycle, reported as a CycleError naming the stuck components.
// This deliberately tolerates graphs that are not fully known upfront and
// turns cycles into a data error rather than a hang.
//
// A component launch failure aborts the enclosing call with a
// DriverError; components already started stay started, there is no
// automatic rollback. StopAll tolerates that by treating already-stopped
// components as no-ops.
//
// # Concurrency
//
// The running set is guarded by a single mutex with short critical
// sections. No external tool invocation happens while the lock is held:
// state is snapshotted, the lock released, the external call made, and
// the lock re-acquired to record the outcome.
package environment
