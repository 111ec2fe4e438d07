// Package script is the front-end surface that test scenarios are
// written against.
//
// A scenario is a Go function of type Body that receives a Host. The
// Host offers the structural hooks (Describe/Task for suites, It/Step
// for cases), the check hooks (Assert for soft checks, Require for
// checks that abort the current case), environment control
// (StartComponent/StopComponent), background tasks (Spawn/Wait/WaitAll),
// polling (WaitUntil), a shared scratch store (Set/Get) and a shell
// helper (Exec).
//
// Runner is the standard implementation. It delegates bookkeeping to
// the harness state machine, drives components through an
// environment.Environment and prints the run as an indented console
// log. Background bodies started with Spawn run on their own Runner
// with a fresh state machine; they share the environment, the task
// registry and the scratch store with the parent, and their checks are
// not merged into the parent's totals.
package script
