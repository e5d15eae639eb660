package shortcuts

import (
	"github.com/arthur-debert/prebuilt/pkg/errors"
	"github.com/arthur-debert/prebuilt/pkg/types"
)

// Registrar creates and removes OS entry points for installed artifacts.
type Registrar interface {
	// Register creates every entry point sc calls for in scope. Registering
	// a name again replaces the earlier entry.
	Register(sc types.Shortcut, scope types.Scope) error

	// Unregister removes every entry point registered under name in scope.
	// It returns an ErrShortcutNotFound error when there was none.
	Unregister(name string, scope types.Scope) error
}

// Locations tells a registrar where entry points go for each scope.
// paths.Paths satisfies it.
type Locations interface {
	MenuDir(scope types.Scope) string
	DesktopDir(scope types.Scope) string
}

// NotFound returns the error Unregister reports for an unknown name
func NotFound(name string, scope types.Scope) error {
	return errors.Newf(errors.ErrShortcutNotFound, "no shortcut named %q for %s", name, scope).
		WithDetail("name", name).
		WithDetail("scope", scope.String())
}

// IsNotFound reports whether err is a not-found error from Unregister
func IsNotFound(err error) bool {
	return errors.IsErrorCode(err, errors.ErrShortcutNotFound)
}

// FileStem is the file name stem entry points for name are stored under.
// See types.ShortcutStem.
func FileStem(name string) string {
	return types.ShortcutStem(name)
}
