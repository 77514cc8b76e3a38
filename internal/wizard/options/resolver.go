// Package options resolves the cascading dependent select lists of step 1:
// hazard group to departments, or department to job functions, depending on
// the host-configured cascade mode.
//
// Every fetch carries a monotonic load token and only the most recently
// issued request's result is applied, so a slow early response can never
// overwrite a newer selection's list.
package options

import (
	"context"
	"fmt"
	"sync"

	"github.com/luan640/nr01facil/internal/directory"
	"github.com/luan640/nr01facil/internal/errors"
)

// CascadeMode selects which dependent-selection chain the host page uses.
type CascadeMode int

const (
	// ModeUnspecified is an invalid cascade mode.
	ModeUnspecified CascadeMode = iota
	// ModeHazardGroup resolves hazard group -> departments.
	ModeHazardGroup
	// ModeDepartment resolves department -> job functions.
	ModeDepartment
)

// String returns the configuration name of the mode.
func (m CascadeMode) String() string {
	switch m {
	case ModeHazardGroup:
		return "ghe"
	case ModeDepartment:
		return "setor"
	default:
		return "unspecified"
	}
}

// ParseCascadeMode maps the host configuration value to a mode. The platform
// calls the department-driven assessment "setor".
func ParseCascadeMode(raw string) (CascadeMode, error) {
	switch raw {
	case "ghe":
		return ModeHazardGroup, nil
	case "setor":
		return ModeDepartment, nil
	default:
		return ModeUnspecified, fmt.Errorf("unknown cascade mode %q", raw)
	}
}

// Status is the lifecycle state of a dependent option list.
type Status int

const (
	// StatusIdle means no parent has been selected yet.
	StatusIdle Status = iota
	// StatusLoading means a fetch is in flight for the current token.
	StatusLoading
	// StatusReady means options are populated and selectable.
	StatusReady
	// StatusEmpty means the fetch succeeded with no items.
	StatusEmpty
	// StatusFailed means the fetch failed.
	StatusFailed
)

// OptionList is the visible state of a dependent select.
type OptionList struct {
	Status      Status
	Token       uint64
	ParentID    int64
	Options     []directory.Option
	Placeholder string
}

// Enabled reports whether the dependent select accepts input.
func (l OptionList) Enabled() bool {
	return l.Status == StatusReady
}

// Contains reports whether an option with the given id is in the list.
func (l OptionList) Contains(id int64) bool {
	for _, option := range l.Options {
		if option.ID == id {
			return true
		}
	}
	return false
}

// FetchFunc loads the dependent options for a parent selection.
type FetchFunc func(ctx context.Context, parentID int64) ([]directory.Option, error)

// Resolver drives one dependent select list.
type Resolver struct {
	mu     sync.Mutex
	fetch  FetchFunc
	locale string
	token  uint64
	list   OptionList
}

// NewResolver creates a resolver over a fetch function. The locale picks the
// placeholder language.
func NewResolver(fetch FetchFunc, locale string) *Resolver {
	return &Resolver{fetch: fetch, locale: locale}
}

// ForMode builds the resolver matching the cascade mode over a directory
// client.
func ForMode(mode CascadeMode, client *directory.Client, locale string) *Resolver {
	switch mode {
	case ModeDepartment:
		return NewResolver(client.JobFunctions, locale)
	default:
		return NewResolver(client.Departments, locale)
	}
}

// Select reacts to a new parent selection: the list immediately shows the
// loading placeholder and a fetch starts in the background. The returned
// channel closes when this selection's fetch settles (applied or discarded),
// so restoration logic can await the options instead of polling.
func (r *Resolver) Select(ctx context.Context, parentID int64) <-chan struct{} {
	r.mu.Lock()
	r.token++
	token := r.token
	r.list = OptionList{
		Status:      StatusLoading,
		Token:       token,
		ParentID:    parentID,
		Placeholder: errors.Message(errors.CodeOptionsLoading, r.locale, nil),
	}
	r.mu.Unlock()

	done := make(chan struct{})
	go func() {
		defer close(done)
		fetched, err := r.fetch(ctx, parentID)
		r.apply(token, parentID, fetched, err)
	}()
	return done
}

// Resolve is the synchronous form of Select: it waits for this selection's
// fetch to settle and returns the resulting snapshot.
func (r *Resolver) Resolve(ctx context.Context, parentID int64) OptionList {
	select {
	case <-r.Select(ctx, parentID):
	case <-ctx.Done():
	}
	return r.Snapshot()
}

// Snapshot returns the current visible list state.
func (r *Resolver) Snapshot() OptionList {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := r.list
	list.Options = append([]directory.Option(nil), r.list.Options...)
	return list
}

// Reset returns the list to the idle state, as when the parent select is
// cleared.
func (r *Resolver) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.token++
	r.list = OptionList{Token: r.token}
}

func (r *Resolver) apply(token uint64, parentID int64, fetched []directory.Option, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// A newer selection superseded this fetch; discard the stale result.
	if token != r.token {
		return
	}

	switch {
	case err != nil:
		r.list = OptionList{
			Status:      StatusFailed,
			Token:       token,
			ParentID:    parentID,
			Placeholder: errors.Message(errors.CodeOptionsLoadFailed, r.locale, nil),
		}
	case len(fetched) == 0:
		r.list = OptionList{
			Status:      StatusEmpty,
			Token:       token,
			ParentID:    parentID,
			Placeholder: errors.Message(errors.CodeOptionsEmpty, r.locale, nil),
		}
	default:
		r.list = OptionList{
			Status:   StatusReady,
			Token:    token,
			ParentID: parentID,
			Options:  append([]directory.Option(nil), fetched...),
		}
	}
}
