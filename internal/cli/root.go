package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"relnotes/internal/config"
	"relnotes/internal/env"
	"relnotes/internal/flags"
	gh "relnotes/internal/github"
	"relnotes/internal/output"
	"relnotes/internal/releasenotes"

	"github.com/spf13/cobra"
)

const (
	EnvToken   = "GITHUB_TOKEN"
	EnvVersion = "LIFECYCLE_VERSION"

	// Repository is the project whose milestones feed the release notes.
	Repository = "buildpacks/lifecycle"
)

const (
	exitOK          = 0
	exitFailed      = 1
	exitFatalConfig = env.ExitMissingConfig
)

var (
	buildVersion = "dev"
	buildCommit  = "unknown"
	buildDate    = "unknown"
)

var cfg = config.New()

// Seams replaced in tests.
var (
	environ   = env.Default()
	newClient = gh.NewClient
	generate  = releasenotes.Generate
	publish   = releasenotes.PublishDraft
)

var rootCmd = &cobra.Command{
	Use:   "relnotes",
	Short: "Generate the changelog entry for a lifecycle release",
	Long: `relnotes generates the changelog entry for a buildpacks/lifecycle release.

The release is identified by LIFECYCLE_VERSION. Closed issues and merged pull
requests in the GitHub milestone titled after that version are grouped into
sections by label and rendered as markdown.

Environment:
  GITHUB_TOKEN       GitHub access token (required)
  LIFECYCLE_VERSION  Release version, with or without a leading "v" (required)
  GITHUB_ACTIONS     When "true", warnings are emitted as workflow commands
  GITHUB_OUTPUT      Step output file receiving "contents" and "milestone"

Exit codes:
  0 = notes generated
  1 = generation failed
  3 = missing or invalid configuration

Examples:
  export GITHUB_TOKEN="<your_token>"
  LIFECYCLE_VERSION=0.20.1 relnotes

  # Write JSON and open a draft release
  LIFECYCLE_VERSION=0.20.1 relnotes --out dist/notes.json --draft-release`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if code := run(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr()); code != exitOK {
			os.Exit(code)
		}
	},
}

func run(ctx context.Context, stdout, stderr io.Writer) int {
	acc := environ
	acc.Stderr = stderr

	token := acc.Require(EnvToken)
	if token == "" {
		return exitFatalConfig
	}
	version := acc.Require(EnvVersion)
	if version == "" {
		return exitFatalConfig
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitFatalConfig
	}
	layout, err := config.LoadLayout(cfg.Notes.ConfigFile)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitFatalConfig
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, cfg.Runtime.Timeout)
	defer cancel()

	client, err := newClient(ctx, token,
		gh.WithVerbose(cfg.Runtime.Verbose, stderr),
		gh.WithBudget(gh.NewRequestBudget()),
	)
	if err != nil {
		fmt.Fprintf(stderr, "Error: failed to create GitHub client: %v\n", err)
		return exitFatalConfig
	}

	lookup := acc.Lookup
	if lookup == nil {
		lookup = os.LookupEnv
	}
	actions, _ := lookup("GITHUB_ACTIONS")
	outputFile, _ := lookup("GITHUB_OUTPUT")
	logger := output.NewConsoleLogger(stderr, cfg.Runtime.Verbose, output.WithActions(actions == "true", outputFile))

	rc := releasenotes.Config{
		Logger:     logger,
		Client:     client,
		Repository: Repository,
		Version:    version,
	}
	notes, err := generate(ctx, rc,
		releasenotes.WithLayout(layout),
		releasenotes.WithConcurrency(cfg.Runtime.Concurrency),
	)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitFailed
	}

	if cfg.Output.Out != "" {
		err = output.WriteNotesFile(cfg.Output.Out, cfg.Output.Format, notes)
	} else {
		err = output.WriteNotes(stdout, cfg.Output.Format, notes)
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: failed to write notes: %v\n", err)
		return exitFailed
	}

	if cfg.Notes.DraftRelease {
		rel, err := publish(ctx, rc, notes)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return exitFailed
		}
		logger.Infof("Draft release: %s", rel.GetHTMLURL())
	}
	return exitOK
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&cfg.Runtime.Verbose, flags.FlagVerbose, false, "Enable verbose logging (prints every GitHub API call)")

	rootCmd.Flags().StringVar(&cfg.Notes.ConfigFile, flags.FlagConfig, "", "TOML file overriding the section layout")
	rootCmd.Flags().BoolVar(&cfg.Notes.DraftRelease, flags.FlagDraftRelease, false, "Create or update a draft GitHub release with the notes")
	rootCmd.Flags().StringVar(&cfg.Output.Format, flags.FlagFormat, "", "Notes format: markdown|json (default: inferred from --out, else markdown)")
	rootCmd.Flags().StringVar(&cfg.Output.Out, flags.FlagOut, "", "Write the notes to this path instead of stdout")
	rootCmd.Flags().IntVar(&cfg.Runtime.Concurrency, flags.FlagConcurrency, cfg.Runtime.Concurrency, "Parallel pull request lookups")
	rootCmd.Flags().DurationVar(&cfg.Runtime.Timeout, flags.FlagTimeout, cfg.Runtime.Timeout, "Global timeout")
}

func SetBuildInfo(version, commit, date string) {
	if version != "" {
		buildVersion = version
	}
	if commit != "" {
		buildCommit = commit
	}
	if date != "" {
		buildDate = date
	}

	rootCmd.Version = fmt.Sprintf("%s (%s) %s", buildVersion, buildCommit, buildDate)
	rootCmd.SetVersionTemplate("{{.Version}}\n")
}

func BuildInfo() (version, commit, date string) {
	return buildVersion, buildCommit, buildDate
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitFailed)
	}
}
