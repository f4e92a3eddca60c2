// Copyright 2026 The Gossamer Authors
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gossamer-forge/gossamer/lib/clock"
	"github.com/gossamer-forge/gossamer/lib/identity"
	"github.com/gossamer-forge/gossamer/lib/ref"
	"github.com/gossamer-forge/gossamer/lib/roles"
	"github.com/gossamer-forge/gossamer/lib/store"
	"github.com/gossamer-forge/gossamer/network"
)

// Binding maps a container to its repository on the centralized REST
// host. Containers without a binding have no polled source.
type Binding struct {
	Container ref.Container
	Owner     string
	Repo      string
}

// Config assembles an Engine. Store, Relay, and Self are required;
// everything else has a sensible default or is optional.
type Config struct {
	// Store is the record store all merges go through.
	Store *store.Store

	// Relay is the push-network connection.
	Relay network.Relay

	// Self is the local user's identity. Local submissions are
	// authored and permission-checked as Self.
	Self identity.Identity

	// Poller is the centralized-host poll source. Nil disables
	// polling.
	Poller Poller

	// Bindings map containers to their repositories on the
	// centralized host.
	Bindings []Binding

	// Profiles caches display profiles ingested from profile
	// events. Defaults to a fresh cache.
	Profiles *identity.ProfileCache

	// Policy is the role policy for permission evaluation. Defaults
	// to roles.DefaultPolicy().
	Policy roles.Policy

	// PollInterval is the period of the background poll loop. Zero
	// disables periodic polling; Poll stays available on demand.
	PollInterval time.Duration

	// PollTimeout bounds each poll call. Defaults to 30 seconds.
	PollTimeout time.Duration

	// Clock provides time operations. Defaults to clock.Real().
	Clock clock.Clock

	// Logger is used for structured logging. Defaults to a discard
	// logger.
	Logger *slog.Logger
}

// DefaultPollTimeout bounds a poll cycle when the config does not say
// otherwise.
const DefaultPollTimeout = 30 * time.Second

// Engine owns reconciliation for a set of containers. All methods are
// safe for concurrent use; the store's per-collection lock serializes
// merges, and the engine's own mutex covers contributor lists.
type Engine struct {
	store    *store.Store
	relay    network.Relay
	self     identity.Identity
	poller   Poller
	profiles *identity.ProfileCache
	policy   roles.Policy

	pollInterval time.Duration
	pollTimeout  time.Duration
	clock        clock.Clock
	logger       *slog.Logger

	mu           sync.Mutex
	bindings     map[ref.Container]Binding
	contributors map[ref.Container]*roles.List
}

// New validates the configuration and builds an Engine.
func New(config Config) (*Engine, error) {
	if config.Store == nil {
		return nil, fmt.Errorf("engine: Store is required")
	}
	if config.Relay == nil {
		return nil, fmt.Errorf("engine: Relay is required")
	}
	if config.Self.IsZero() {
		return nil, fmt.Errorf("engine: Self identity is required")
	}

	policy := config.Policy
	if policy == (roles.Policy{}) {
		policy = roles.DefaultPolicy()
	}
	if err := policy.Validate(); err != nil {
		return nil, err
	}

	profiles := config.Profiles
	if profiles == nil {
		profiles = identity.NewProfileCache()
	}
	clk := config.Clock
	if clk == nil {
		clk = clock.Real()
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	pollTimeout := config.PollTimeout
	if pollTimeout <= 0 {
		pollTimeout = DefaultPollTimeout
	}

	bindings := make(map[ref.Container]Binding, len(config.Bindings))
	for _, binding := range config.Bindings {
		if binding.Container.IsZero() {
			return nil, fmt.Errorf("engine: binding %s/%s has a zero container: %w",
				binding.Owner, binding.Repo, ref.ErrInvalidContainer)
		}
		bindings[binding.Container] = binding
	}

	return &Engine{
		store:        config.Store,
		relay:        config.Relay,
		self:         config.Self,
		poller:       config.Poller,
		profiles:     profiles,
		policy:       policy,
		pollInterval: config.PollInterval,
		pollTimeout:  pollTimeout,
		clock:        clk,
		logger:       logger,
		bindings:     bindings,
		contributors: make(map[ref.Container]*roles.List),
	}, nil
}

// Containers returns every container the engine tracks, in no
// particular order.
func (e *Engine) Containers() []ref.Container {
	e.mu.Lock()
	defer e.mu.Unlock()
	containers := make([]ref.Container, 0, len(e.bindings))
	for container := range e.bindings {
		containers = append(containers, container)
	}
	return containers
}

// ResolveRef resolves a user-supplied entity reference against the
// identities this engine knows: cached profile identities plus the
// owners of every tracked container. Legacy 8-character prefixes
// resolve only on a unique match.
func (e *Engine) ResolveRef(entityRef string) (identity.Identity, error) {
	return identity.Resolve(entityRef, e.known())
}

// known returns the union of profile-cache identities and container
// owners.
func (e *Engine) known() []identity.Identity {
	e.mu.Lock()
	defer e.mu.Unlock()

	known := e.profiles.Known()
	for container := range e.bindings {
		known = append(known, container.Owner())
	}
	return known
}

// Display resolves the display string for an identity from the
// profile cache. The cache itself is not concurrency-safe; the
// engine's mutex covers it.
func (e *Engine) Display(id identity.Identity, fallback string) string {
	e.mu.Lock()
	profile := e.profiles.Get(id)
	e.mu.Unlock()
	return identity.Display(id, profile, fallback)
}
