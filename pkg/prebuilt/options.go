package prebuilt

import (
	"github.com/arthur-debert/prebuilt/pkg/datastore"
	"github.com/arthur-debert/prebuilt/pkg/install"
	"github.com/arthur-debert/prebuilt/pkg/shortcuts"
	"github.com/arthur-debert/prebuilt/pkg/types"
	"github.com/rs/zerolog"
)

// Option configures an App
type Option func(*App)

// WithScope sets the installation scope. The default is per-user.
func WithScope(scope types.Scope) Option {
	return func(a *App) {
		a.record.Scope = scope
	}
}

// WithAllUsers is WithScope(types.AllUsers) when global is true
func WithAllUsers(global bool) Option {
	return WithScope(types.ScopeFromGlobal(global))
}

// WithAppFolder places artifacts in a folder named after the application
// under the install location.
func WithAppFolder(inAppFolder bool) Option {
	return func(a *App) {
		a.record.InAppFolder = inAppFolder
	}
}

// WithName sets the application name used for the app folder and the
// receipt. The default is the shortcut name of the primary executable.
func WithName(name string) Option {
	return func(a *App) {
		a.record.Name = name
	}
}

// WithFS sets the filesystem. The default is the OS filesystem.
func WithFS(fsys types.FS) Option {
	return func(a *App) {
		if fsys != nil {
			a.fs = fsys
		}
	}
}

// WithRegistrar sets the shortcut registrar. The default is the platform
// registrar writing to the locations from paths.New.
func WithRegistrar(registrar shortcuts.Registrar) Option {
	return func(a *App) {
		if registrar != nil {
			a.registrar = registrar
		}
	}
}

// WithReceipts records installs in store
func WithReceipts(store datastore.ReceiptStore) Option {
	return func(a *App) {
		a.receipts = store
	}
}

// WithShortcutPolicy decides which executables get a shortcut
func WithShortcutPolicy(policy install.ShortcutPolicy) Option {
	return func(a *App) {
		a.policy = policy
	}
}

// WithComment sets the description attached to every shortcut
func WithComment(comment string) Option {
	return func(a *App) {
		a.comment = comment
	}
}

// WithLogger replaces the component logger
func WithLogger(logger zerolog.Logger) Option {
	return func(a *App) {
		a.logger = logger
	}
}
