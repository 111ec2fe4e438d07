// Package harness implements the test state machine driving scripted
// suites: the nested suite/case path, scoped pass/fail counters, the
// skip/filter predicates and the append-only assertion log. The script
// front-end calls the Enter/Exit hooks around each suite and case body;
// the report package folds the resulting assertion log into a tree.
package harness
