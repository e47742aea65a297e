// Package definitionx loads watch action definitions from file storage.
// Each definition lives in one document named "<watch_id>.<action_id>.json".
package definitionx

import (
	"context"
	"strings"
	"sync"

	"github.com/dmichel1/vigil/pkg/actionx"
	"github.com/dmichel1/vigil/pkg/errx"
	"github.com/dmichel1/vigil/pkg/fsx"
	"github.com/dmichel1/vigil/pkg/logx"
)

var definitionxErrors = errx.NewRegistry("DEFINITIONX")

var (
	ErrBadName = definitionxErrors.Register("BAD_NAME", errx.TypeValidation, 400, "Definition file name must be <watch_id>.<action_id>.json")
	ErrLoad    = definitionxErrors.Register("LOAD", errx.TypeInternal, 500, "Failed to load definition file")
)

// Definition is one loaded, executable action definition.
type Definition struct {
	WatchID    string
	ActionID   string
	Executable *actionx.Executable
}

// LoadDirectory parses every .json document under dir. A single bad
// definition fails the whole load; a watch with a broken action must not
// come up half-armed.
func LoadDirectory(ctx context.Context, fs fsx.FileReader, dir string, factory *actionx.Factory) ([]Definition, error) {
	files, err := fs.List(ctx, dir)
	if err != nil {
		return nil, definitionxErrors.NewWithCause(ErrLoad, err).WithDetail("dir", dir)
	}

	var defs []Definition
	for _, file := range files {
		if file.IsDir || !strings.HasSuffix(file.Name, ".json") {
			continue
		}

		watchID, actionID, err := splitName(file.Name)
		if err != nil {
			return nil, err
		}

		data, err := fs.ReadFile(ctx, dir+"/"+file.Name)
		if err != nil {
			return nil, definitionxErrors.NewWithCause(ErrLoad, err).WithDetail("file", file.Name)
		}

		executable, err := factory.ParseExecutableJSON(watchID, actionID, data)
		if err != nil {
			return nil, err
		}

		defs = append(defs, Definition{
			WatchID:    watchID,
			ActionID:   actionID,
			Executable: executable,
		})
		logx.WithFields(logx.Fields{
			"watch_id":  watchID,
			"action_id": actionID,
		}).Debug("definitionx: loaded action definition")
	}
	return defs, nil
}

func splitName(name string) (watchID, actionID string, err error) {
	base := strings.TrimSuffix(name, ".json")
	parts := strings.SplitN(base, ".", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", definitionxErrors.New(ErrBadName).WithDetail("file", name)
	}
	return parts[0], parts[1], nil
}

// Registry indexes loaded definitions by watch and action id. Safe for
// concurrent use.
type Registry struct {
	mu   sync.RWMutex
	defs map[string]map[string]*actionx.Executable
}

// NewRegistry creates a registry holding the given definitions.
func NewRegistry(defs []Definition) *Registry {
	r := &Registry{defs: make(map[string]map[string]*actionx.Executable)}
	for _, def := range defs {
		r.Add(def)
	}
	return r
}

// Add registers one definition, replacing any previous one with the same ids.
func (r *Registry) Add(def Definition) {
	r.mu.Lock()
	defer r.mu.Unlock()
	actions, ok := r.defs[def.WatchID]
	if !ok {
		actions = make(map[string]*actionx.Executable)
		r.defs[def.WatchID] = actions
	}
	actions[def.ActionID] = def.Executable
}

// Get returns one executable, or nil when unknown.
func (r *Registry) Get(watchID, actionID string) *actionx.Executable {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.defs[watchID][actionID]
}

// Actions returns every action of a watch, keyed by action id.
func (r *Registry) Actions(watchID string) map[string]*actionx.Executable {
	r.mu.RLock()
	defer r.mu.RUnlock()
	actions := make(map[string]*actionx.Executable, len(r.defs[watchID]))
	for id, executable := range r.defs[watchID] {
		actions[id] = executable
	}
	return actions
}
