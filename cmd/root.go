package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Sizchode/codemd/pkg/clipboard"
	"github.com/Sizchode/codemd/pkg/config"
	"github.com/Sizchode/codemd/pkg/logging"
	"github.com/Sizchode/codemd/pkg/scanner"
	"github.com/Sizchode/codemd/pkg/tokens"
	"github.com/Sizchode/codemd/pkg/version"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

var rootLogger *zap.Logger

// RootCmd is the base command; invoking codemd with a directory runs the scan.
var RootCmd = &cobra.Command{
	Use:   "codemd [flags] directory",
	Short: "Scan a directory for code files and emit a markdown document",
	Long: `codemd walks a source repository, filters files by extension and ignore
rules, and merges the survivors into a single markdown document with each
file rendered as a labeled code block, ready for pasting into an LLM prompt.`,
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runScan,
}

// Execute adds all child commands to the root command and runs it.
func Execute(logger *zap.Logger) error {
	rootLogger = logger
	if err := RootCmd.Execute(); err != nil {
		rootLogger.Error("codemd execution failed", zap.Error(err))
		return err
	}
	return nil
}

func init() {
	registerScanFlags(RootCmd.Flags())
	RootCmd.PersistentFlags().Bool("debug", false, "Enable verbose structured logging")
}

// registerScanFlags defines the scan flags; separate from init so tests can
// exercise flag parsing and option merging on a fresh command.
func registerScanFlags(flags *pflag.FlagSet) {
	flags.StringP("extensions", "e", strings.Join(scanner.DefaultExtensions, ","),
		"Comma-separated list of file extensions to include (without dots)")
	flags.String("exclude-patterns", "",
		"Comma-separated list of substrings to exclude (e.g. test_,debug_)")
	flags.String("exclude-extensions", "",
		"Comma-separated list of path suffixes to exclude (e.g. test.py,spec.js)")
	flags.StringP("output", "o", "",
		"Output file path (defaults to stdout unless specified)")
	flags.Bool("no-recursive", false, "Disable recursive directory scanning")
	flags.Bool("no-structure", false, "Omit the repository structure section")
	flags.StringArray("gitignore-file", nil,
		"Ignore file to load instead of the default .gitignore (repeatable)")
	flags.Bool("no-gitignore", false, "Do not load any gitignore rules")
	flags.Int("max-file-size", 1024, "Skip files larger than this many KB")
	flags.BoolP("copy", "c", false, "Also copy the document to the system clipboard")
	flags.Bool("tokens", false, "Log an estimated token count of the document")
	flags.String("model", "gpt-4o", "Tokenizer model used with --tokens")
	flags.String("config", "", "Path to a config file (default: .codemd.yaml in the working directory)")
}

func runScan(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()

	debug, _ := flags.GetBool("debug")
	if debug {
		logger, err := logging.Setup(true, "codemd", version.Version)
		if err != nil {
			return fmt.Errorf("failed to initialize debug logger: %w", err)
		}
		rootLogger = logger
	}

	configPath, _ := flags.GetString("config")
	fileConfig, err := config.Load("", configPath)
	if err != nil {
		return fmt.Errorf("failed to load config file: %w", err)
	}

	opts, err := buildOptions(cmd, args[0], fileConfig)
	if err != nil {
		return err
	}

	rootLogger.Info("Starting scan",
		zap.String("directory", opts.Directory),
		zap.Strings("extensions", opts.Extensions),
		zap.Strings("excludePatterns", opts.ExcludePatterns),
		zap.Strings("excludeExtensions", opts.ExcludeExtensions))

	s, err := scanner.New(opts, rootLogger)
	if err != nil {
		return err
	}
	document, err := s.Scan()
	if err != nil {
		return err
	}

	output, _ := flags.GetString("output")
	if output == "" && fileConfig.Output != "" && !flags.Changed("output") {
		output = fileConfig.Output
	}
	if err := emitDocument(document, output); err != nil {
		return err
	}

	if copyToClipboard, _ := flags.GetBool("copy"); copyToClipboard {
		if err := clipboard.NewService().Copy(document); err != nil {
			rootLogger.Warn("Failed to copy document to clipboard", zap.Error(err))
		} else {
			rootLogger.Info("Copied document to clipboard", zap.Int("characters", len(document)))
		}
	}

	if countTokens, _ := flags.GetBool("tokens"); countTokens {
		model, _ := flags.GetString("model")
		if !flags.Changed("model") && fileConfig.TokenModel != "" {
			model = fileConfig.TokenModel
		}
		reportTokens(document, model)
	}

	return nil
}

// buildOptions merges config-file defaults under explicit flag values.
func buildOptions(cmd *cobra.Command, directory string, fileConfig config.FileConfig) (scanner.Options, error) {
	flags := cmd.Flags()

	extensionsValue, _ := flags.GetString("extensions")
	extensions := splitList(extensionsValue)
	if !flags.Changed("extensions") && len(fileConfig.Extensions) > 0 {
		extensions = fileConfig.Extensions
	}
	if len(extensions) == 0 {
		return scanner.Options{}, fmt.Errorf("no file extensions to include")
	}

	excludePatternsValue, _ := flags.GetString("exclude-patterns")
	excludePatterns := splitList(excludePatternsValue)
	if !flags.Changed("exclude-patterns") && len(fileConfig.ExcludePatterns) > 0 {
		excludePatterns = fileConfig.ExcludePatterns
	}

	excludeExtensionsValue, _ := flags.GetString("exclude-extensions")
	excludeExtensions := splitList(excludeExtensionsValue)
	if !flags.Changed("exclude-extensions") && len(fileConfig.ExcludeExtensions) > 0 {
		excludeExtensions = fileConfig.ExcludeExtensions
	}

	maxFileSizeKB, _ := flags.GetInt("max-file-size")
	if !flags.Changed("max-file-size") && fileConfig.MaxFileSizeKB > 0 {
		maxFileSizeKB = fileConfig.MaxFileSizeKB
	}

	noRecursive, _ := flags.GetBool("no-recursive")
	noStructure, _ := flags.GetBool("no-structure")
	if !flags.Changed("no-structure") && fileConfig.Structure != nil {
		noStructure = !*fileConfig.Structure
	}

	noGitignore, _ := flags.GetBool("no-gitignore")
	if !flags.Changed("no-gitignore") && fileConfig.Gitignore != nil {
		noGitignore = !*fileConfig.Gitignore
	}
	gitignoreFiles, _ := flags.GetStringArray("gitignore-file")

	return scanner.Options{
		Directory:         directory,
		Extensions:        extensions,
		ExcludePatterns:   excludePatterns,
		ExcludeExtensions: excludeExtensions,
		GitignoreFiles:    gitignoreFiles,
		NoGitignore:       noGitignore,
		Recursive:         !noRecursive,
		IncludeStructure:  !noStructure,
		MaxFileSizeKB:     maxFileSizeKB,
	}, nil
}

// emitDocument writes the document to the output file, or to stdout when no
// file is specified.
func emitDocument(document, output string) error {
	if output == "" {
		if _, err := os.Stdout.WriteString(document); err != nil {
			return fmt.Errorf("failed to write document to stdout: %w", err)
		}
		return nil
	}

	if dir := filepath.Dir(output); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(output, []byte(document), 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	rootLogger.Info("Output written",
		zap.String("outputFile", output),
		zap.Int("characters", len(document)))
	return nil
}

func reportTokens(document, model string) {
	counter, err := tokens.NewCounter(model)
	if err != nil {
		rootLogger.Warn("Failed to initialize tokenizer", zap.String("model", model), zap.Error(err))
		return
	}
	count, err := counter.CountString(document)
	if err != nil {
		rootLogger.Warn("Failed to count tokens", zap.String("model", counter.Name()), zap.Error(err))
		return
	}
	rootLogger.Info("Estimated token count",
		zap.Int("tokens", count),
		zap.String("model", counter.Name()))
}

// splitList splits a comma-separated flag value, trimming whitespace and
// dropping empty entries.
func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}
