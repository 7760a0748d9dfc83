package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/fluxgridgo/internal/bind"
	"github.com/vk/fluxgridgo/internal/config"
	"github.com/vk/fluxgridgo/internal/ctxlog"
	gridhcl "github.com/vk/fluxgridgo/internal/hcl"
	"github.com/vk/fluxgridgo/internal/reactor"
	"github.com/vk/fluxgridgo/internal/registry"
)

// App encapsulates the application's dependencies, configuration, and
// lifecycle: the loaded grid model, the registry, the engine carrying the
// compiled cells, and the emit sinks fed by the engine's change hook.
type App struct {
	outW   io.Writer
	inR    io.Reader
	logger *slog.Logger
	config *Config

	registry *registry.Registry
	model    *config.Model
	engine   *reactor.Engine
	caster   *bind.Broadcaster
	seed     map[string]cty.Value

	httpServer *http.Server
}

// NewApp is the constructor for the main application. It returns a fully
// wired App instance: grid loaded, cells compiled and registered on a fresh
// engine, emit sinks connected. Startup failures panic; entrypoints recover
// them into clean exits. inR is only read in watch mode.
func NewApp(outW io.Writer, inR io.Reader, appConfig *Config, loader config.Loader, modules ...registry.Module) *App {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	model, err := loader.Load(ctx, appConfig.GridPath)
	if err != nil {
		panic(fmt.Errorf("failed to load configuration: %w", err))
	}
	logger.Debug("Configuration loaded and translated into unified model.",
		"inputs", len(model.Grid.Inputs), "cells", len(model.Grid.Cells), "emits", len(model.Grid.Emits))

	reg := registry.New()
	if len(modules) == 0 {
		modules = coreModules
	}
	for _, mod := range modules {
		mod.Register(reg)
	}
	logger.Debug("All Go modules registered.", "count", len(modules))

	if err := reg.Validate(ctx, model); err != nil {
		panic(err)
	}
	logger.Debug("Registry validation passed.")

	producers, err := gridhcl.CompileCells(model, reg.FunctionRegistry)
	if err != nil {
		panic(fmt.Errorf("failed to compile cells: %w", err))
	}

	seed, err := gridhcl.EvaluateSeed(model, reg.FunctionRegistry)
	if err != nil {
		panic(fmt.Errorf("failed to evaluate seed values: %w", err))
	}

	caster := buildBroadcaster(ctx, reg, model)

	engine := reactor.New(
		reactor.WithLogger(logger),
		reactor.WithChangeHook(caster.Hook(ctx)),
	)
	if err := engine.Register(producers...); err != nil {
		panic(fmt.Errorf("failed to register cells: %w", err))
	}
	logger.Debug("Cells registered on a fresh engine.", "count", len(producers))

	return &App{
		outW:     outW,
		inR:      inR,
		logger:   logger,
		config:   appConfig,
		registry: reg,
		model:    model,
		engine:   engine,
		caster:   caster,
		seed:     seed,
	}
}

// buildBroadcaster instantiates every emit block's sink and scopes it to the
// cells the block watches. Sink names were already validated against the
// registry, so the factory lookup cannot miss.
func buildBroadcaster(ctx context.Context, reg *registry.Registry, model *config.Model) *bind.Broadcaster {
	logger := ctxlog.FromContext(ctx)

	bindings := make([]bind.Binding, 0, len(model.Grid.Emits))
	for _, emit := range model.Grid.Emits {
		factory := reg.SinkRegistry[emit.Sink]
		sink, err := factory(ctx, emit.Options)
		if err != nil {
			panic(fmt.Errorf("failed to build '%s' sink: %w", emit.Sink, err))
		}
		bindings = append(bindings, bind.NewBinding(sink, emit.Cells))
		logger.Debug("Emit sink connected.", "sink", emit.Sink, "cells", emit.Cells)
	}
	return bind.NewBroadcaster(bindings...)
}

// Engine returns the application's propagation engine. This is primarily for
// testing.
func (a *App) Engine() *reactor.Engine {
	return a.engine
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}
