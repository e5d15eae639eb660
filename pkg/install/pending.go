package install

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/arthur-debert/prebuilt/pkg/logging"
	"github.com/arthur-debert/prebuilt/pkg/shortcuts"
	"github.com/arthur-debert/prebuilt/pkg/types"
)

// pending records every side effect of an install in progress so that it
// can be undone. Once committed or rolled back it does nothing more.
type pending struct {
	fs        types.FS
	registrar shortcuts.Registrar
	scope     types.Scope

	dirs      []string
	files     []string
	shortcuts []string
	done      bool
}

func newPending(fsys types.FS, registrar shortcuts.Registrar, scope types.Scope) *pending {
	return &pending{fs: fsys, registrar: registrar, scope: scope}
}

func (p *pending) addDir(path string)      { p.dirs = append(p.dirs, path) }
func (p *pending) addFile(path string)     { p.files = append(p.files, path) }
func (p *pending) addShortcut(name string) { p.shortcuts = append(p.shortcuts, name) }

// commit keeps everything recorded so far
func (p *pending) commit() {
	p.done = true
}

// rollbackUnlessDone is deferred by Install so that nothing survives an
// unexpected exit.
func (p *pending) rollbackUnlessDone() {
	if !p.done {
		_ = p.rollback()
	}
}

// rollback undoes every recorded effect, newest first. It keeps going past
// failures and returns all of them joined.
func (p *pending) rollback() error {
	if p.done {
		return nil
	}
	p.done = true
	logger := logging.GetLogger("install.rollback")

	var errs []error
	for i := len(p.shortcuts) - 1; i >= 0; i-- {
		name := p.shortcuts[i]
		if err := p.registrar.Unregister(name, p.scope); err != nil && !shortcuts.IsNotFound(err) {
			errs = append(errs, fmt.Errorf("unregister %s: %w", name, err))
		}
	}
	for i := len(p.files) - 1; i >= 0; i-- {
		if err := p.fs.Remove(p.files[i]); err != nil && !os.IsNotExist(err) {
			errs = append(errs, fmt.Errorf("remove %s: %w", p.files[i], err))
		}
	}
	// dirs are recorded parent first
	for i := len(p.dirs) - 1; i >= 0; i-- {
		if err := p.fs.Remove(p.dirs[i]); err != nil && !os.IsNotExist(err) {
			errs = append(errs, fmt.Errorf("remove %s: %w", p.dirs[i], err))
		}
	}

	if len(errs) > 0 {
		logger.Error().Int("failures", len(errs)).Msg("Rollback incomplete")
		return stderrors.Join(errs...)
	}
	logger.Debug().
		Int("shortcuts", len(p.shortcuts)).
		Int("files", len(p.files)).
		Int("dirs", len(p.dirs)).
		Msg("Rollback complete")
	return nil
}
