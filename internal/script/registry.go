package script

import (
	"fmt"
	"sort"
	"sync"
)

// Scenarios are named top-level scripted runs, registered at program
// startup and selected by name through the config's scripts list.
var (
	scenarioMu sync.Mutex
	scenarios  = map[string]Body{}
)

// Register makes a scenario selectable by name. It is meant to be
// called from init functions of scenario packages; registering the same
// name twice panics, like http.Handle does.
func Register(name string, body Body) {
	scenarioMu.Lock()
	defer scenarioMu.Unlock()
	if _, exists := scenarios[name]; exists {
		panic(fmt.Sprintf("script: scenario %q registered twice", name))
	}
	scenarios[name] = body
}

// Lookup returns the registered scenario body for name.
func Lookup(name string) (Body, error) {
	scenarioMu.Lock()
	defer scenarioMu.Unlock()
	body, ok := scenarios[name]
	if !ok {
		return nil, fmt.Errorf("unknown scenario %q (registered: %v)", name, namesLocked())
	}
	return body, nil
}

// Names returns all registered scenario names, sorted.
func Names() []string {
	scenarioMu.Lock()
	defer scenarioMu.Unlock()
	return namesLocked()
}

func namesLocked() []string {
	names := make([]string, 0, len(scenarios))
	for name := range scenarios {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
