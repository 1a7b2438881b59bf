package client

import (
	"github.com/expertpicks/clientcore/core/guard"
	"github.com/expertpicks/clientcore/core/keepalive"
	"github.com/expertpicks/clientcore/core/notify"
	"github.com/expertpicks/clientcore/integration/api"
)

// Config aggregates every component's configuration. All values come from
// the environment with source-derived defaults.
type Config struct {
	API       api.Config
	Notify    notify.Config
	Keepalive keepalive.Config
	Guard     guard.Config

	AppName string `env:"APP_NAME" envDefault:"expertpicks"`
	Env     string `env:"APP_ENV" envDefault:"development"`
	// StoragePath is the session file location. Empty means the platform
	// default under the user config directory.
	StoragePath string `env:"SESSION_STORAGE_PATH"`
}
