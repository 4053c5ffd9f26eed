package main

import (
	"context"

	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/skillet-sh/skillet/pkg/discovery"
	"github.com/skillet-sh/skillet/pkg/engine"
	"github.com/skillet-sh/skillet/pkg/registry"
)

// newDiscovery builds a Discovery from configuration.
func newDiscovery() (*discovery.Discovery, error) {
	var opts []discovery.Option
	if roots := viper.GetStringSlice("roots"); len(roots) > 0 {
		opts = append(opts, discovery.WithRoots(roots...))
	}
	if teams := viper.GetStringSlice("teams"); len(teams) > 0 {
		opts = append(opts, discovery.WithTeams(teams...))
	}
	return discovery.New(opts...)
}

// newEngine builds an Engine from configuration.
func newEngine() *engine.Engine {
	var opts []engine.Option
	if tag := viper.GetString("always_on_tag"); tag != "" {
		opts = append(opts, engine.WithAlwaysOnTag(tag))
	}
	if budget := viper.GetInt("context_budget"); budget > 0 {
		opts = append(opts, engine.WithContextBudget(budget))
	}
	if viper.GetBool("truncate_context") {
		opts = append(opts, engine.WithTruncation())
	}
	if allowlist := viper.GetStringSlice("tool_allowlist"); len(allowlist) > 0 {
		opts = append(opts, engine.WithToolAllowlist(allowlist...))
	}
	return engine.New(opts...)
}

// discoverBatch runs discovery once and returns the raw batch.
func discoverBatch() (registry.Batch, error) {
	disc, err := newDiscovery()
	if err != nil {
		return registry.Batch{}, errors.Wrap(err, "configuring discovery")
	}
	batch, err := disc.Discover()
	if err != nil {
		return registry.Batch{}, errors.Wrap(err, "discovering definitions")
	}
	return batch, nil
}

// loadEngine builds an engine and publishes the first snapshot from disk.
func loadEngine() (*engine.Engine, error) {
	batch, err := discoverBatch()
	if err != nil {
		return nil, err
	}
	eng := newEngine()
	if _, err := eng.Load(batch); err != nil {
		return nil, err
	}
	return eng, nil
}

// reloadFunc returns the function the watcher and the HTTP reload endpoint
// share for re-discovering and re-publishing.
func reloadFunc(eng *engine.Engine) func(context.Context) error {
	return func(context.Context) error {
		batch, err := discoverBatch()
		if err != nil {
			return err
		}
		_, err = eng.Load(batch)
		return err
	}
}
