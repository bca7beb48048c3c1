package app

import (
	"github.com/vk/barshell/internal/registry"
	"github.com/vk/barshell/modules/app_launcher"
	"github.com/vk/barshell/modules/clipboard"
	"github.com/vk/barshell/modules/clock"
	"github.com/vk/barshell/modules/keyboard_layout"
	"github.com/vk/barshell/modules/keyboard_submap"
	"github.com/vk/barshell/modules/media_player"
	"github.com/vk/barshell/modules/privacy"
	"github.com/vk/barshell/modules/settings"
	"github.com/vk/barshell/modules/system_info"
	"github.com/vk/barshell/modules/tray"
	"github.com/vk/barshell/modules/updates"
	"github.com/vk/barshell/modules/window_title"
	"github.com/vk/barshell/modules/workspaces"
)

// coreModules is the definitive list of all builtin bar modules that are
// compiled into the barshell binary.
var coreModules = []registry.Module{
	&app_launcher.Module{},
	&clipboard.Module{},
	&clock.Module{},
	&keyboard_layout.Module{},
	&keyboard_submap.Module{},
	&media_player.Module{},
	&privacy.Module{},
	&settings.Module{},
	&system_info.Module{},
	&tray.Module{},
	&updates.Module{},
	&window_title.Module{},
	&workspaces.Module{},
}
