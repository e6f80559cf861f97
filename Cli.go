package main

import (
	"fmt"
	"os"

	"github.com/gobwas/glob"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/convlint/convlint/core"
	"github.com/convlint/convlint/extractors"
	"github.com/convlint/convlint/policy"
	"github.com/convlint/convlint/reporters"
	"github.com/convlint/convlint/repositories"
	"github.com/convlint/convlint/scanners"
	"github.com/convlint/convlint/utils"
)

// Cli represents the command-line interface
type Cli struct {
	configFile   string
	policyFile   string
	reportFormat string
	storeKind    string
	baseUrl      string
	excludes     []string
}

// Execute sets up and runs the root command
func (cli *Cli) Execute() error {
	rootCmd := &cobra.Command{
		Use:   "convlint",
		Short: "Convlint checks a source tree against a coding-convention policy document.",
	}

	rootCmd.AddCommand(cli.createScanCommand())
	rootCmd.AddCommand(cli.createRulesCommand())

	return rootCmd.Execute()
}

// createScanCommand creates the 'scan' subcommand with its flags and subcommands
func (cli *Cli) createScanCommand() *cobra.Command {
	scanCmd := &cobra.Command{
		Use:     "scan",
		Short:   "Scan a source tree or repository for convention violations.",
		Version: Version,
	}

	scanCmd.PersistentFlags().StringVar(&cli.configFile, "config", DefaultConfigFile, "Config file")
	scanCmd.PersistentFlags().StringVar(&cli.policyFile, "policy", "", "Policy document (embedded default when omitted)")
	scanCmd.PersistentFlags().StringVar(&cli.reportFormat, "report", "", "Report format (text, json, xlsx, http)")
	scanCmd.PersistentFlags().StringVar(&cli.storeKind, "store", "", "Finding store (file, sqlite, bolt)")
	scanCmd.PersistentFlags().StringVar(&cli.baseUrl, "baseurl", "", "Http report base url")
	scanCmd.PersistentFlags().StringArrayVar(&cli.excludes, "exclude", nil, "Glob patterns of paths to skip")

	scanDirCmd := &cobra.Command{
		Use:   "dir [DIRECTORY]",
		Short: "Scan a local source tree (defaults to CWD).",
		Args:  cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			var directory string
			if len(args) == 0 {
				cwd, err := os.Getwd()
				if err != nil {
					log.Fatalf("Failed to get current working directory: %v", err)
				}
				directory = cwd
			} else {
				directory = args[0]
			}

			info, err := os.Stat(directory)
			if err != nil {
				log.Fatalf("Error accessing directory '%s': %v", directory, err)
			}
			if !info.IsDir() {
				log.Fatalf("Provided path '%s' is not a directory.", directory)
			}

			directoryScanner, repository := cli.buildPipeline(utils.Sanitize(directory))
			defer repository.Close()

			failures, err := directoryScanner.Scan(directory)
			if err != nil {
				log.Fatalf("Error scanning directory '%s': %v", directory, err)
			}
			exitForFailures(failures)
		},
	}

	scanRepoCmd := &cobra.Command{
		Use:   "repo <REPO_URL>",
		Short: "Clone a Git repository and scan its working copy.",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			repoURL := args[0]

			directoryScanner, repository := cli.buildPipeline(utils.Sanitize(repoURL))
			defer repository.Close()

			repoScanner := scanners.NewRepoScanner(directoryScanner)
			failures, err := repoScanner.Scan(repoURL)
			if err != nil {
				log.Fatalf("Error scanning repository '%s': %v", repoURL, err)
			}
			exitForFailures(failures)
		},
	}

	scanCmd.AddCommand(scanDirCmd)
	scanCmd.AddCommand(scanRepoCmd)
	return scanCmd
}

// createRulesCommand creates the 'rules' subcommand which lists the loaded
// rules and their predicate bindings.
func (cli *Cli) createRulesCommand() *cobra.Command {
	rulesCmd := &cobra.Command{
		Use:   "rules",
		Short: "List the rules of the policy document and their bindings.",
		Run: func(cmd *cobra.Command, args []string) {
			rules, err := cli.loadRules()
			if err != nil {
				log.Fatalf("Error loading policy: %v", err)
			}
			for _, rule := range rules {
				binding := rule.Predicate
				if binding == "" {
					binding = "not mechanically checkable"
				}
				fmt.Printf("[%s] %s (%s)\n", rule.Area, rule.Text, binding)
			}
		},
	}
	rulesCmd.Flags().StringVar(&cli.policyFile, "policy", "", "Policy document (embedded default when omitted)")
	return rulesCmd
}

// buildPipeline wires scanner, rules, repository and reporter from flags
// and config file.
func (cli *Cli) buildPipeline(artifactPrefix string) (*scanners.DirectoryScanner, core.FindingRepository) {
	config, err := LoadConfig(cli.configFile)
	if err != nil {
		log.Fatal(err)
	}
	cli.applyConfig(config)

	rules, err := cli.loadRules()
	if err != nil {
		log.Fatalf("Error loading policy: %v", err)
	}

	excludeGlobs, err := compileExcludes(cli.excludes)
	if err != nil {
		log.Fatal(err)
	}

	repository, err := cli.createRepository()
	if err != nil {
		log.Fatal(err)
	}

	reporter, err := reporters.CreateReporter(cli.reportFormat, artifactPrefix, cli.baseUrl)
	if err != nil {
		log.Fatal(err)
	}

	var progress utils.ProgressReporter = utils.NoopProgressReporter{}
	if cli.reportFormat != "" && cli.reportFormat != "text" {
		// The text report goes to stdout; keep the bar off it.
		progress = utils.NewBarProgressReporter(0, "Scanning files")
	}

	fileScanner := scanners.FsFileScanner{
		Extractors: extractors.InitializeExtractors(),
		Excludes:   excludeGlobs,
		Progress:   progress,
	}

	return scanners.NewDirectoryScanner(reporter, fileScanner, rules, repository), repository
}

// applyConfig fills in flag values left empty from the config file.
func (cli *Cli) applyConfig(config Config) {
	if cli.policyFile == "" {
		cli.policyFile = config.Policy
	}
	if cli.reportFormat == "" {
		cli.reportFormat = config.Report
	}
	if cli.storeKind == "" {
		cli.storeKind = config.Store
	}
	if cli.baseUrl == "" {
		cli.baseUrl = config.BaseURL
	}
	if len(cli.excludes) == 0 {
		cli.excludes = config.Excludes
	}
}

func (cli *Cli) loadRules() ([]core.Rule, error) {
	document := policy.DefaultDocument()
	if cli.policyFile != "" {
		content, err := os.ReadFile(cli.policyFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read policy document '%s': %w", cli.policyFile, err)
		}
		document = string(content)
	}
	return policy.Load(document)
}

func (cli *Cli) createRepository() (core.FindingRepository, error) {
	switch cli.storeKind {
	case "", "file":
		return repositories.NewFileBasedFindingRepository(), nil
	case "sqlite":
		return repositories.NewSqliteFindingRepository(SqliteFindingsDB)
	case "bolt":
		return repositories.NewBoltFindingRepository(BoltFindingsDB)
	}
	return nil, fmt.Errorf("unknown finding store: %s", cli.storeKind)
}

func compileExcludes(patterns []string) ([]glob.Glob, error) {
	var globs []glob.Glob
	for _, pattern := range patterns {
		compiled, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern '%s': %w", pattern, err)
		}
		globs = append(globs, compiled)
	}
	return globs, nil
}

func exitForFailures(failures int) {
	if failures > 0 {
		log.Infof("%d failing findings", failures)
		os.Exit(1)
	}
}
