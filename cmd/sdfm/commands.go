package sdfm

import (
	"context"
	"embed"
	stderrors "errors"
	"fmt"
	"io"
	iofs "io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/sdfm/internal/version"
	"github.com/arthur-debert/sdfm/pkg/catalog"
	"github.com/arthur-debert/sdfm/pkg/config"
	"github.com/arthur-debert/sdfm/pkg/datastore"
	"github.com/arthur-debert/sdfm/pkg/editor"
	"github.com/arthur-debert/sdfm/pkg/errors"
	"github.com/arthur-debert/sdfm/pkg/filesystem"
	"github.com/arthur-debert/sdfm/pkg/git"
	"github.com/arthur-debert/sdfm/pkg/logging"
	"github.com/arthur-debert/sdfm/pkg/manifest"
	"github.com/arthur-debert/sdfm/pkg/paths"
	"github.com/arthur-debert/sdfm/pkg/style"
	"github.com/arthur-debert/sdfm/pkg/sync"
	"github.com/arthur-debert/sdfm/pkg/types"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// Process exit codes
const (
	ExitOK       = 0
	ExitFailure  = 1
	ExitConflict = 2
	ExitPartial  = 3
)

//go:embed topics/*.md
var topicsFS embed.FS

// newClient builds the git client for cfg. Tests swap it for one that talks
// to a local remote.
var newClient = func(cfg *config.Config) *git.Client {
	return git.NewClient(git.NewSSHKeyProvider(cfg.SSHKey), git.WithRemoteName(cfg.Remote))
}

// reportedError carries an exit code for an outcome that was already printed.
type reportedError struct {
	code int
	err  error
}

func (e *reportedError) Error() string {
	if e.err != nil {
		return e.err.Error()
	}
	return "some dotfiles were skipped"
}

func (e *reportedError) Unwrap() error { return e.err }

// Execute runs the CLI with args and returns the process exit code.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	rootCmd := NewRootCmd()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return ExitOK
	}

	var reported *reportedError
	if stderrors.As(err, &reported) {
		return reported.code
	}
	fmt.Fprintln(stderr, style.NewRenderer(formatFor(stderr)).RenderError(err))
	return ExitCode(err)
}

// ExitCode maps an error to the process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.IsConflict(err):
		return ExitConflict
	default:
		return ExitFailure
	}
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	// Initialize custom template formatting functions
	initTemplateFormatting()

	var verbosity int

	rootCmd := &cobra.Command{
		Use:     "sdfm",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// The log lives in the state dir; without a home dir, console only
			logFile := ""
			if p, err := paths.New(); err == nil {
				logFile = p.LogFilePath()
			}
			logging.SetupLogger(verbosity, logFile)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand: show help but still fail
			_ = cmd.Help()
			return errors.New(errors.ErrInvalidInput, MsgErrNoCommand)
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", MsgFlagVerbose)

	rootCmd.AddGroup(&cobra.Group{
		ID:    "core",
		Title: "COMMANDS:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "misc",
		Title: "MISC:",
	})

	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	rootCmd.AddCommand(newInitCmd())
	rootCmd.AddCommand(newCycleCmd("sync", MsgSyncShort, MsgSyncLong, sync.Push))
	rootCmd.AddCommand(newCycleCmd("pull", MsgPullShort, MsgPullLong, sync.Pull))
	rootCmd.AddCommand(newTrackCmd())
	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newEditCmd())
	rootCmd.AddCommand(newTopicsCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// workspace bundles what the commands share.
type workspace struct {
	paths paths.Paths
	fs    types.FS
	cfg   *config.Config
}

func openWorkspace(overrides map[string]interface{}) (*workspace, error) {
	p, err := paths.New()
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(p.ConfigFilePath(), overrides)
	if err != nil {
		return nil, err
	}
	return &workspace{paths: p, fs: filesystem.NewOS(), cfg: cfg}, nil
}

func (w *workspace) store() datastore.DataStore {
	return datastore.New(w.fs, w.paths)
}

func (w *workspace) driver() *sync.Driver {
	return sync.NewDriver(w.cfg, w.store(), newClient(w.cfg))
}

// loadManifest reads the manifest. A missing manifest is empty.
func (w *workspace) loadManifest() ([]manifest.Line, error) {
	lines, err := manifest.Load(w.fs, w.paths.ManifestPath())
	if errors.IsErrorCode(err, errors.ErrFileNotFound) {
		log.Warn().Str("path", w.paths.ManifestPath()).Msg("No manifest, nothing is tracked")
		return nil, nil
	}
	return lines, err
}

func branchOverride(branch string) map[string]interface{} {
	if branch == "" {
		return nil
	}
	return map[string]interface{}{"target_branch": branch}
}

func formatFor(w io.Writer) style.Format {
	if f, ok := w.(*os.File); ok {
		return style.DetectFormat(f)
	}
	return style.FormatText
}

func rendererFor(w io.Writer) *style.Renderer {
	return style.NewRenderer(formatFor(w))
}

func newInitCmd() *cobra.Command {
	var (
		branch string
		noEdit bool
	)

	cmd := &cobra.Command{
		Use:     "init <url>",
		Short:   MsgInitShort,
		Long:    MsgInitLong,
		Args:    cobra.ExactArgs(1),
		Example: "  sdfm init git@github.com:me/dotfiles.git -t laptop",
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			url, err := types.ParseRepoURL(args[0])
			if err != nil {
				return err
			}

			w, err := openWorkspace(branchOverride(branch))
			if err != nil {
				return err
			}
			w.cfg.Repo = url

			log.Info().
				Str("url", url.String()).
				Str("branch", w.cfg.TargetBranch).
				Msg("Initializing repository")

			if err := w.driver().Initialize(cmd.Context(), url, w.cfg.TargetBranch); err != nil {
				return err
			}
			if err := config.Save(w.paths.ConfigFilePath(), url, w.cfg.TargetBranch); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, MsgInitialized, url, w.cfg.TargetBranch)

			manifestPath := w.paths.ManifestPath()
			if _, err := w.fs.Stat(manifestPath); err == nil {
				fmt.Fprintf(out, MsgManifestKept, manifestPath)
			} else {
				apps := catalog.Probe(w.fs, catalog.KnownApplications(), w.paths.XdgConfigDir(), w.paths.HomeDir())
				if err := manifest.SaveApplications(w.fs, manifestPath, apps); err != nil {
					return err
				}
				fmt.Fprintln(out, rendererFor(out).RenderApplications(manifest.FilterResolved(apps)))
				fmt.Fprintf(out, MsgManifestWritten, manifestPath)
			}

			if noEdit {
				return nil
			}
			return editor.Open(manifestPath)
		},
	}

	cmd.Flags().StringVarP(&branch, "target-branch", "t", "", MsgFlagBranch)
	cmd.Flags().BoolVar(&noEdit, "no-edit", false, MsgFlagNoEdit)
	return cmd
}

type cycleFlags struct {
	branch   string
	force    bool
	skipDiff bool
}

func newCycleCmd(use, short, long string, direction sync.Direction) *cobra.Command {
	var flags cycleFlags

	cmd := &cobra.Command{
		Use:     use,
		Short:   short,
		Long:    long,
		Args:    cobra.NoArgs,
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCycle(cmd, flags, direction)
		},
	}

	cmd.Flags().StringVarP(&flags.branch, "target-branch", "t", "", MsgFlagBranch)
	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, MsgFlagForce)
	cmd.Flags().BoolVarP(&flags.skipDiff, "skip-diff", "s", false, MsgFlagSkipDiff)
	return cmd
}

func runCycle(cmd *cobra.Command, flags cycleFlags, direction sync.Direction) error {
	w, err := openWorkspace(branchOverride(flags.branch))
	if err != nil {
		return err
	}
	lines, err := w.loadManifest()
	if err != nil {
		return err
	}
	declared := manifest.Applications(lines)

	opts := sync.Options{
		Force:     flags.force,
		SkipDiff:  flags.skipDiff,
		Direction: direction,
	}
	if direction == sync.Pull {
		opts.Restore = manifest.Expand(declared)
	}

	result, err := w.driver().Sync(cmd.Context(), manifest.Resolve(w.fs, declared), opts)

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, rendererFor(out).RenderSyncResult(result))

	switch {
	case err != nil:
		return &reportedError{code: ExitCode(err), err: err}
	case result.Partial():
		return &reportedError{code: ExitPartial}
	}
	return nil
}

func newTrackCmd() *cobra.Command {
	var app, name string

	cmd := &cobra.Command{
		Use:     "track <path>",
		Short:   MsgTrackShort,
		Long:    MsgTrackLong,
		Args:    cobra.ExactArgs(1),
		Example: "  sdfm track ~/.config/i3/config\n  sdfm track ~/.gitconfig -a git -n config",
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			live, err := filepath.Abs(paths.ExpandHome(args[0]))
			if err != nil {
				return errors.Wrapf(err, errors.ErrInvalidInput, "invalid path %s", args[0])
			}

			w, err := openWorkspace(nil)
			if err != nil {
				return err
			}

			info, err := w.fs.Stat(live)
			if err != nil {
				return errors.Wrapf(err, errors.ErrFileNotFound, "cannot track %s", live).
					WithDetail("path", live)
			}
			if info.IsDir() {
				return errors.Newf(errors.ErrInvalidInput, MsgErrNotAFile, live)
			}

			if app == "" {
				app = defaultApplication(w.paths.Classify(live))
			}
			if name == "" {
				name = defaultEntryName(live)
			}

			lines, err := w.loadManifest()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			lines, added := manifest.Append(lines, app, name, live)
			if !added {
				fmt.Fprintf(out, MsgAlreadyTracked, live)
				return nil
			}
			if err := manifest.Save(w.fs, w.paths.ManifestPath(), lines); err != nil {
				return err
			}

			log.Info().Str("app", app).Str("name", name).Str("path", live).Msg("Tracking file")
			fmt.Fprintf(out, MsgTracked, live, app, name)
			return nil
		},
	}

	cmd.Flags().StringVarP(&app, "app", "a", "", MsgFlagApp)
	cmd.Flags().StringVarP(&name, "name", "n", "", MsgFlagName)
	return cmd
}

// defaultApplication names the application after the top directory of the
// file's repository location, or after the file itself.
func defaultApplication(loc types.Location) string {
	var rel string
	switch l := loc.(type) {
	case types.XdgConfig:
		rel = l.Rel
	case types.HomeDir:
		rel = l.Rel
	case types.AbsoluteRoot:
		rel = filepath.Base(l.Path)
	}
	if dir, _, found := strings.Cut(rel, string(filepath.Separator)); found {
		rel = dir
	}
	return defaultEntryName(rel)
}

func defaultEntryName(path string) string {
	name := strings.TrimSpace(strings.TrimLeft(filepath.Base(path), "."))
	if name == "" {
		return manifest.MiscApplication
	}
	return name
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "status",
		Short:   MsgStatusShort,
		Args:    cobra.NoArgs,
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := openWorkspace(nil)
			if err != nil {
				return err
			}
			lines, err := w.loadManifest()
			if err != nil {
				return err
			}

			apps := manifest.Expand(manifest.Applications(lines))
			entries := datastore.Inspect(w.store(), w.fs, apps)

			repo := ""
			if w.cfg.Initialized() && git.IsRepository(w.paths.RepoDir()) {
				repo = w.cfg.Repo.String()
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, rendererFor(out).RenderStatus(repo, w.cfg.TargetBranch, entries))
			return nil
		},
	}
}

func newEditCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "edit",
		Short:   MsgEditShort,
		Args:    cobra.NoArgs,
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := paths.New()
			if err != nil {
				return err
			}
			return editor.Open(p.ManifestPath())
		},
	}
}

func newTopicsCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "topics [name]",
		Short:   MsgTopicsShort,
		Long:    MsgTopicsLong,
		Args:    cobra.MaximumNArgs(1),
		GroupID: "misc",
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) > 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			return topicNames(), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if len(args) == 0 {
				fmt.Fprintln(out, MsgAvailableTopics)
				for _, name := range topicNames() {
					fmt.Fprintf(out, MsgTopicItem, name)
				}
				return nil
			}

			content, err := topicsFS.ReadFile("topics/" + args[0] + ".md")
			if err != nil {
				return errors.Newf(errors.ErrNotFound, MsgErrUnknownTopic, args[0])
			}
			fmt.Fprint(out, style.NewMarkdownRenderer(formatFor(out)).Render(string(content)))
			return nil
		},
	}
}

func topicNames() []string {
	entries, err := iofs.ReadDir(topicsFS, "topics")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".md"))
	}
	return names
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		Args:    cobra.NoArgs,
		GroupID: "misc",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), MsgVersionFormat, version.Version, version.Commit, version.Date)
		},
	}
}
