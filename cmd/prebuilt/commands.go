package prebuilt

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/prebuilt/internal/version"
	"github.com/arthur-debert/prebuilt/pkg/config"
	"github.com/arthur-debert/prebuilt/pkg/datastore"
	"github.com/arthur-debert/prebuilt/pkg/errors"
	"github.com/arthur-debert/prebuilt/pkg/filesystem"
	"github.com/arthur-debert/prebuilt/pkg/lock"
	"github.com/arthur-debert/prebuilt/pkg/logging"
	"github.com/arthur-debert/prebuilt/pkg/paths"
	facade "github.com/arthur-debert/prebuilt/pkg/prebuilt"
	"github.com/arthur-debert/prebuilt/pkg/shortcuts"
	"github.com/arthur-debert/prebuilt/pkg/types"
	"github.com/arthur-debert/prebuilt/pkg/ui"
	"github.com/arthur-debert/prebuilt/pkg/uninstall"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// globalOptions are the persistent flags shared by every command
type globalOptions struct {
	verbosity int
	format    string
}

// session is what a command needs to run
type session struct {
	paths     paths.Paths
	fs        types.FS
	receipts  datastore.ReceiptStore
	registrar shortcuts.Registrar
	renderer  ui.Renderer
	format    ui.Format
}

func newSession(cmd *cobra.Command, g *globalOptions) (*session, error) {
	format, err := ui.ParseFormat(g.format)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInvalidInput, "invalid --format")
	}
	p, err := paths.New()
	if err != nil {
		return nil, fmt.Errorf(MsgErrInitPaths, err)
	}
	renderer, err := ui.NewRenderer(format, cmd.OutOrStdout())
	if err != nil {
		return nil, err
	}
	fsys := filesystem.NewOS()
	return &session{
		paths:     p,
		fs:        fsys,
		receipts:  datastore.New(fsys, p.ReceiptsDir()),
		registrar: shortcuts.NewDefault(fsys, p),
		renderer:  renderer,
		format:    format,
	}, nil
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	cmd, _ := newRootCmd()
	return cmd
}

func newRootCmd() (*cobra.Command, *globalOptions) {
	initTemplateFormatting()

	g := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:     "prebuilt",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLoggerWithOutput(g.verbosity, cmd.ErrOrStderr())
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return fmt.Errorf("no command specified")
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	rootCmd.PersistentFlags().CountVarP(&g.verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().StringVar(&g.format, "format", "auto", MsgFlagFormat)

	rootCmd.AddGroup(&cobra.Group{ID: "core", Title: "Commands:"})
	rootCmd.AddGroup(&cobra.Group{ID: "misc", Title: "Misc:"})
	rootCmd.SetHelpCommandGroupID("misc")
	rootCmd.SetCompletionCommandGroupID("misc")
	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	rootCmd.AddCommand(newInstallCmd(g))
	rootCmd.AddCommand(newUninstallCmd(g))
	rootCmd.AddCommand(newStatusCmd(g))
	rootCmd.AddCommand(newInitCmd(g))
	rootCmd.AddCommand(newVersionCmd(g))
	rootCmd.AddCommand(newCompletionCmd())

	return rootCmd, g
}

// Execute runs the CLI with args and returns the process exit code.
// Errors are rendered on stderr in the requested format.
func Execute(args []string, stdout, stderr io.Writer) int {
	rootCmd, g := newRootCmd()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	if _, err := rootCmd.ExecuteC(); err != nil {
		format, parseErr := ui.ParseFormat(g.format)
		if parseErr != nil {
			format = ui.FormatText
		}
		renderer, rendererErr := ui.NewRenderer(format, stderr)
		if rendererErr != nil || renderer.RenderError(err) != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}

func newInstallCmd(g *globalOptions) *cobra.Command {
	var (
		manifest  string
		location  string
		scope     string
		appFolder bool
		policy    string
		name      string
		comment   string
		exes      []string
	)

	cmd := &cobra.Command{
		Use:     "install <source-dir>",
		Short:   MsgInstallShort,
		Long:    MsgInstallLong,
		Example: MsgInstallExample,
		GroupID: "core",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, g)
			if err != nil {
				return err
			}
			logger := logging.GetLogger("cmd.install")

			source, err := paths.NormalizePath(args[0])
			if err != nil {
				return err
			}

			overrides := make(map[string]interface{})
			flags := cmd.Flags()
			if flags.Changed("location") {
				overrides["app.install_location"] = location
			}
			if flags.Changed("scope") {
				overrides["app.scope"] = scope
			}
			if flags.Changed("app-folder") {
				overrides["app.in_app_folder"] = appFolder
			}
			if flags.Changed("shortcuts") {
				overrides["app.shortcuts"] = policy
			}
			if flags.Changed("name") {
				overrides["app.name"] = name
			}
			if flags.Changed("comment") {
				overrides["app.comment"] = comment
			}
			if len(exes) > 0 {
				parsed, err := parseExecutables(exes)
				if err != nil {
					return err
				}
				overrides["executables"] = parsed
			} else if manifest == "" {
				manifest = config.FindManifest(source)
				if manifest == "" {
					return errors.Newf(errors.ErrInvalidInput, MsgErrNoExecutables, source)
				}
			}

			cfg, err := config.Load(manifest, overrides)
			if err != nil {
				return err
			}

			installLocation := cfg.App.InstallLocation
			inAppFolder := cfg.App.InAppFolder
			if installLocation == "" {
				installLocation = s.paths.DefaultInstallLocation(cfg.App.Scope)
				inAppFolder = true
				logger.Info().Msgf(MsgDefaultLocation, installLocation)
			}
			installLocation, err = paths.NormalizePath(installLocation)
			if err != nil {
				return err
			}

			opts := []facade.Option{
				facade.WithFS(s.fs),
				facade.WithRegistrar(s.registrar),
				facade.WithScope(cfg.App.Scope),
				facade.WithAppFolder(inAppFolder),
				facade.WithName(cfg.App.Name),
				facade.WithShortcutPolicy(cfg.App.Shortcuts),
				facade.WithComment(cfg.App.Comment),
			}
			if cfg.Receipts.Enabled {
				opts = append(opts, facade.WithReceipts(s.receipts))
			}
			app, err := facade.New(cfg.Executables, installLocation, opts...)
			if err != nil {
				return err
			}

			if cfg.Receipts.Enabled {
				if existing, err := s.receipts.Load(app.Name()); err == nil {
					return errors.Newf(errors.ErrTargetConflict, MsgErrAlreadyPresent, app.Name(), existing.TargetDir).
						WithDetail(errors.DetailPath, existing.TargetDir)
				}
			}

			lk, err := lock.Acquire(s.paths.LocksDir(), installLocation)
			if err != nil {
				return err
			}
			defer func() { _ = lk.Release() }()

			logger.Info().
				Str("source", source).
				Str("location", installLocation).
				Str("scope", cfg.App.Scope.String()).
				Msg("Installing")

			result, installErr := app.Install(source)
			if result != nil {
				if err := s.renderer.RenderResult(newInstallView(app.Name(), cfg.App.Scope, result)); err != nil {
					return err
				}
			}
			return installErr
		},
	}

	cmd.Flags().StringVarP(&manifest, "manifest", "m", "", MsgFlagManifest)
	cmd.Flags().StringVarP(&location, "location", "l", "", MsgFlagLocation)
	cmd.Flags().StringVarP(&scope, "scope", "s", "user", MsgFlagScope)
	cmd.Flags().BoolVar(&appFolder, "app-folder", false, MsgFlagAppFolder)
	cmd.Flags().StringVar(&policy, "shortcuts", "all", MsgFlagShortcuts)
	cmd.Flags().StringVar(&name, "name", "", MsgFlagName)
	cmd.Flags().StringVar(&comment, "comment", "", MsgFlagComment)
	cmd.Flags().StringArrayVarP(&exes, "exe", "e", nil, MsgFlagExe)
	_ = cmd.RegisterFlagCompletionFunc("scope", cobra.FixedCompletions([]string{"user", "all-users"}, cobra.ShellCompDirectiveNoFileComp))
	_ = cmd.RegisterFlagCompletionFunc("shortcuts", cobra.FixedCompletions([]string{"all", "primary"}, cobra.ShellCompDirectiveNoFileComp))

	return cmd
}

// parseExecutables turns binary[=shortcut] flags into manifest entries.
// The first one is primary. A missing shortcut is the binary name without
// extension.
func parseExecutables(values []string) ([]interface{}, error) {
	out := make([]interface{}, 0, len(values))
	for idx, value := range values {
		binary, shortcut, _ := strings.Cut(value, "=")
		binary = strings.TrimSpace(binary)
		shortcut = strings.TrimSpace(shortcut)
		if binary == "" {
			return nil, errors.Newf(errors.ErrInvalidInput, MsgErrBadExe, value)
		}
		if shortcut == "" {
			base := filepath.Base(binary)
			shortcut = strings.TrimSuffix(base, filepath.Ext(base))
		}
		out = append(out, map[string]interface{}{
			"binary":   binary,
			"shortcut": shortcut,
			"primary":  idx == 0,
		})
	}
	return out, nil
}

func newUninstallCmd(g *globalOptions) *cobra.Command {
	var (
		archive string
		scope   string
	)

	cmd := &cobra.Command{
		Use:               "uninstall <name>",
		Short:             MsgUninstallShort,
		Long:              MsgUninstallLong,
		Example:           MsgUninstallExample,
		GroupID:           "core",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: appNamesCompletion(g),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, g)
			if err != nil {
				return err
			}

			receipt, err := s.receipts.Load(args[0])
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("scope") {
				wanted, err := types.ParseScope(scope)
				if err != nil {
					return errors.Wrap(err, errors.ErrInvalidInput, "invalid --scope")
				}
				if wanted != receipt.Scope {
					return errors.Newf(errors.ErrReceiptNotFound, MsgErrWrongScope, receipt.Name, receipt.Scope, wanted)
				}
			}

			lk, err := lock.Acquire(s.paths.LocksDir(), receipt.InstallLocation)
			if err != nil {
				return err
			}
			defer func() { _ = lk.Release() }()

			app, err := facade.FromReceipt(receipt,
				facade.WithFS(s.fs),
				facade.WithRegistrar(s.registrar),
				facade.WithReceipts(s.receipts),
			)
			if err != nil {
				return err
			}

			var result *uninstall.Result
			var uninstallErr error
			if archive != "" {
				saveLocation, err := paths.NormalizePath(archive)
				if err != nil {
					return err
				}
				result, uninstallErr = app.UninstallTo(saveLocation)
			} else {
				result, uninstallErr = app.Uninstall()
			}

			// Nothing changed when the uninstall was refused up front
			if result != nil && result.State != types.StateInstalled {
				if err := s.renderer.RenderResult(newUninstallView(app.Name(), result)); err != nil {
					return err
				}
			}
			return uninstallErr
		},
	}

	cmd.Flags().StringVarP(&archive, "archive", "a", "", MsgFlagArchive)
	cmd.Flags().StringVarP(&scope, "scope", "s", "", MsgFlagScope)

	return cmd
}

func newStatusCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:               "status [name]",
		Short:             MsgStatusShort,
		Long:              MsgStatusLong,
		Example:           MsgStatusExample,
		GroupID:           "core",
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: appNamesCompletion(g),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, g)
			if err != nil {
				return err
			}

			var receipts []*datastore.Receipt
			if len(args) == 1 {
				r, err := s.receipts.Load(args[0])
				if err != nil {
					return err
				}
				receipts = []*datastore.Receipt{r}
			} else {
				receipts, err = s.receipts.List()
				if err != nil {
					return err
				}
			}

			view := StatusView{Apps: make([]AppStatus, 0, len(receipts)), detailed: len(args) == 1}
			for _, r := range receipts {
				view.Apps = append(view.Apps, appStatus(s.fs, r, len(args) == 1))
			}
			return s.renderer.RenderResult(view)
		},
	}
}

// appStatus summarizes r, checking every installed file when verify is set
func appStatus(fsys types.FS, r *datastore.Receipt, verify bool) AppStatus {
	status := AppStatus{
		Name:        r.Name,
		Scope:       r.Scope,
		State:       r.State,
		TargetDir:   r.TargetDir,
		InstalledAt: r.InstalledAt,
		Shortcuts:   r.RegisteredShortcuts,
	}
	if !verify {
		return status
	}
	for _, art := range r.Artifacts {
		status.Artifacts = append(status.Artifacts, ArtifactStatus{Path: art.Path, Status: art.Verify(fsys)})
	}
	return status
}

func newInitCmd(g *globalOptions) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:     "init <name> <binary>",
		Short:   MsgInitShort,
		Long:    MsgInitLong,
		Example: MsgInitExample,
		GroupID: "core",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, g)
			if err != nil {
				return err
			}

			target, err := paths.NormalizePath(filepath.Join(dir, paths.ManifestFileName))
			if err != nil {
				return err
			}
			if _, err := s.fs.Stat(target); err == nil {
				return errors.Newf(errors.ErrTargetConflict, MsgErrManifestExists, target).
					WithDetail(errors.DetailPath, target)
			}
			if err := s.fs.MkdirAll(filepath.Dir(target), 0755); err != nil {
				return errors.Wrap(err, errors.ErrTargetUnwritable, "cannot create manifest directory")
			}
			if err := s.fs.WriteFile(target, []byte(config.GenerateManifest(args[0], args[1])), 0644); err != nil {
				return errors.Wrap(err, errors.ErrTargetUnwritable, "cannot write manifest").
					WithDetail(errors.DetailPath, target)
			}
			return s.renderer.RenderMessage(fmt.Sprintf(MsgManifestCreated, target))
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", ".", MsgFlagDir)

	return cmd
}

func newVersionCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := ui.ParseFormat(g.format)
			if err != nil {
				return errors.Wrap(err, errors.ErrInvalidInput, "invalid --format")
			}
			renderer, err := ui.NewRenderer(format, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			return renderer.RenderResult(currentVersion())
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		Long:                  MsgCompletionLong,
		GroupID:               "misc",
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			default:
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
		},
	}
}

// appNamesCompletion completes the names of installed applications
func appNamesCompletion(g *globalOptions) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		p, err := paths.New()
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		receipts, err := datastore.New(filesystem.NewOS(), p.ReceiptsDir()).List()
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		var names []string
		for _, r := range receipts {
			if strings.HasPrefix(r.Name, toComplete) {
				names = append(names, r.Name)
			}
		}
		return names, cobra.ShellCompDirectiveNoFileComp
	}
}
