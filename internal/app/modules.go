package app

import (
	"github.com/vk/fluxgridgo/internal/registry"
	"github.com/vk/fluxgridgo/modules/builtins"
	"github.com/vk/fluxgridgo/modules/env"
	"github.com/vk/fluxgridgo/modules/print"
	"github.com/vk/fluxgridgo/modules/socketio"
)

// coreModules is the definitive list of all modules that are compiled into
// the fluxgridgo binary.
var coreModules = []registry.Module{
	&builtins.Module{},
	&env.Module{},
	&print.Module{},
	&socketio.Module{},
}
