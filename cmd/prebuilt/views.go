package prebuilt

import (
	"fmt"
	"time"

	"github.com/arthur-debert/prebuilt/internal/version"
	"github.com/arthur-debert/prebuilt/pkg/datastore"
	"github.com/arthur-debert/prebuilt/pkg/install"
	"github.com/arthur-debert/prebuilt/pkg/types"
	"github.com/arthur-debert/prebuilt/pkg/ui/display"
	"github.com/arthur-debert/prebuilt/pkg/uninstall"
)

// InstallView is the outcome of the install command
type InstallView struct {
	Name            string             `json:"name" yaml:"name"`
	Scope           types.Scope        `json:"scope" yaml:"scope"`
	State           types.State        `json:"state" yaml:"state"`
	TargetDir       string             `json:"target_dir" yaml:"target_dir"`
	Artifacts       []install.Artifact `json:"artifacts" yaml:"artifacts"`
	Shortcuts       []string           `json:"shortcuts" yaml:"shortcuts"`
	FailedShortcuts []string           `json:"failed_shortcuts,omitempty" yaml:"failed_shortcuts,omitempty"`
}

func newInstallView(name string, scope types.Scope, result *install.Result) InstallView {
	return InstallView{
		Name:            name,
		Scope:           scope,
		State:           types.StateInstalled,
		TargetDir:       result.TargetDir,
		Artifacts:       result.Artifacts,
		Shortcuts:       result.RegisteredShortcuts,
		FailedShortcuts: result.FailedShortcuts,
	}
}

func (v InstallView) View() display.Report {
	r := display.Report{
		Title:   fmt.Sprintf(MsgInstalledTitle, v.Name),
		Message: MsgInstallUserScope,
		Fields:  []display.Field{{Label: "Location", Value: v.TargetDir, Path: true}},
	}
	if v.Scope.IsGlobal() {
		r.Message = MsgInstallAllScope
	}
	for _, name := range v.Shortcuts {
		r.Items = append(r.Items, display.Item{Name: name, Status: "registered", Detail: artifactFor(v.Artifacts, name)})
	}
	for _, name := range v.FailedShortcuts {
		r.Items = append(r.Items, display.Item{Name: name, Status: "failed", Detail: artifactFor(v.Artifacts, name)})
	}
	if len(v.FailedShortcuts) > 0 {
		r.Warnings = append(r.Warnings, fmt.Sprintf(MsgFailedShortcuts, len(v.FailedShortcuts)))
	}
	return r
}

func artifactFor(artifacts []install.Artifact, shortcut string) string {
	for _, a := range artifacts {
		if a.ShortcutName == shortcut {
			return a.Path
		}
	}
	return ""
}

// UninstallView is the outcome of the uninstall command
type UninstallView struct {
	Name             string      `json:"name" yaml:"name"`
	State            types.State `json:"state" yaml:"state"`
	InstallLocation  string      `json:"install_location" yaml:"install_location"`
	SaveLocation     string      `json:"save_location,omitempty" yaml:"save_location,omitempty"`
	RemovedShortcuts []string    `json:"removed_shortcuts" yaml:"removed_shortcuts"`
	MissingShortcuts []string    `json:"missing_shortcuts,omitempty" yaml:"missing_shortcuts,omitempty"`
}

func newUninstallView(name string, result *uninstall.Result) UninstallView {
	return UninstallView{
		Name:             name,
		State:            result.State,
		InstallLocation:  result.InstallLocation,
		SaveLocation:     result.SaveLocation,
		RemovedShortcuts: result.RemovedShortcuts,
		MissingShortcuts: result.MissingShortcuts,
	}
}

func (v UninstallView) View() display.Report {
	r := display.Report{
		Fields: []display.Field{{Label: "Location", Value: v.InstallLocation, Path: true}},
	}
	switch v.State {
	case types.StateRemoved:
		r.Title = fmt.Sprintf(MsgRemovedTitle, v.Name)
	case types.StateArchived:
		r.Title = fmt.Sprintf(MsgArchivedTitle, v.Name)
		r.Fields = append(r.Fields, display.Field{Label: "Archive", Value: v.SaveLocation, Path: true})
	default:
		r.Title = fmt.Sprintf(MsgDegradedTitle, v.Name)
		r.Fields = append(r.Fields, display.Field{Label: "State", Value: v.State.String()})
		r.Warnings = append(r.Warnings, MsgDegradedHint)
	}
	for _, name := range v.RemovedShortcuts {
		r.Items = append(r.Items, display.Item{Name: name, Status: "removed"})
	}
	for _, name := range v.MissingShortcuts {
		r.Items = append(r.Items, display.Item{Name: name, Status: "missing", Detail: "already gone"})
	}
	return r
}

// ArtifactStatus is one installed file checked against its receipt
type ArtifactStatus struct {
	Path   string `json:"path" yaml:"path"`
	Status string `json:"status" yaml:"status"`
}

// AppStatus is one installed application
type AppStatus struct {
	Name        string           `json:"name" yaml:"name"`
	Scope       types.Scope      `json:"scope" yaml:"scope"`
	State       types.State      `json:"state" yaml:"state"`
	TargetDir   string           `json:"target_dir" yaml:"target_dir"`
	InstalledAt time.Time        `json:"installed_at" yaml:"installed_at"`
	Shortcuts   []string         `json:"shortcuts" yaml:"shortcuts"`
	Artifacts   []ArtifactStatus `json:"artifacts,omitempty" yaml:"artifacts,omitempty"`
}

// Changed counts artifacts that are not as installed
func (a AppStatus) Changed() int {
	n := 0
	for _, art := range a.Artifacts {
		if art.Status != datastore.ArtifactOK {
			n++
		}
	}
	return n
}

// StatusView is the outcome of the status command
type StatusView struct {
	Apps []AppStatus `json:"apps" yaml:"apps"`

	detailed bool
}

func (v StatusView) View() display.Report {
	if len(v.Apps) == 0 {
		return display.Report{Message: MsgNoApps}
	}
	if v.detailed && len(v.Apps) == 1 {
		return v.Apps[0].View()
	}
	r := display.Report{Title: MsgStatusTitle}
	for _, app := range v.Apps {
		r.Items = append(r.Items, display.Item{
			Name:   app.Name,
			Status: app.State.String(),
			Detail: fmt.Sprintf("%s (%s)", app.TargetDir, app.Scope),
		})
	}
	return r
}

func (a AppStatus) View() display.Report {
	r := display.Report{
		Title: a.Name,
		Fields: []display.Field{
			{Label: "State", Value: a.State.String()},
			{Label: "Scope", Value: a.Scope.String()},
			{Label: "Location", Value: a.TargetDir, Path: true},
			{Label: "Installed", Value: a.InstalledAt.Local().Format(time.RFC1123)},
		},
	}
	for _, name := range a.Shortcuts {
		r.Items = append(r.Items, display.Item{Name: name, Status: "registered"})
	}
	for _, art := range a.Artifacts {
		r.Items = append(r.Items, display.Item{Name: art.Path, Status: art.Status})
	}
	if n := a.Changed(); n > 0 {
		r.Warnings = append(r.Warnings, fmt.Sprintf(MsgArtifactsChanged, n))
	}
	return r
}

// VersionView is the outcome of the version command
type VersionView struct {
	Version string `json:"version" yaml:"version"`
	Commit  string `json:"commit" yaml:"commit"`
	Date    string `json:"date" yaml:"date"`
}

func currentVersion() VersionView {
	return VersionView{Version: version.Version, Commit: version.Commit, Date: version.Date}
}

func (v VersionView) View() display.Report {
	return display.Report{
		Title: "prebuilt " + v.Version,
		Fields: []display.Field{
			{Label: "commit", Value: v.Commit},
			{Label: "built", Value: v.Date},
		},
	}
}
