package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"base16builder/builder"
	"base16builder/config"
	"base16builder/logger"
	"base16builder/model"
	"base16builder/profile"
	"base16builder/storage"
	"base16builder/theme"
)

// Exit codes, from sysexits.h.
const (
	exitFailure     = 1
	exitUsage       = 64
	exitDataErr     = 65
	exitNoInput     = 66
	exitUnavailable = 69
	exitSoftware    = 70
)

var errUsage = errors.New("usage error")

var (
	rootDir    string
	profileArg string
	encoder    string
	verbose    bool
	appVersion = "0.2.0"
)

var rootCmd = &cobra.Command{
	Use:   "base16-builder",
	Short: "base16-builder – build base16 themes",
	Long: "Renders every template against every colour scheme found below the sources root, " +
		"patching terminal profiles where a template asks for it.",
	Args:          cobra.NoArgs,
	RunE:          runBuild,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Fetch or update scheme and template sources",
	Args:  cobra.NoArgs,
	RunE:  runUpdate,
}

var schemesCmd = &cobra.Command{
	Use:   "schemes",
	Short: "List available schemes with a colour preview",
	Args:  cobra.NoArgs,
	RunE:  runSchemes,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management",
	Long:  "Manage base16-builder configuration files.",
}

var configGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a default configuration file",
	Long:  "Generate a default " + config.FileName + " file in the sources root (or current directory if not specified).",
	Args:  cobra.NoArgs,
	RunE:  runConfigGenerate,
}

func init() {
	wd, _ := os.Getwd()
	rootCmd.Version = appVersion
	rootCmd.PersistentFlags().StringVar(&rootDir, "root", wd, "Sources root (default: current directory)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose logging")
	rootCmd.Flags().StringVarP(&profileArg, "profile", "p", "", "Patch this profile instead of each template's own base profile")
	rootCmd.Flags().StringVar(&encoder, "encoder", profile.ModeAuto, "Binary plist encoder: auto, plutil, native or none")
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %v", errUsage, err)
	})

	configCmd.AddCommand(configGenerateCmd)
	rootCmd.AddCommand(updateCmd, schemesCmd, configCmd)
}

// setup loads the configuration, applies explicitly set flags and returns
// a context carrying the logger.
func setup(cmd *cobra.Command) (context.Context, context.CancelFunc, config.Config, error) {
	cfg, err := config.Load(rootDir)
	if err != nil {
		return nil, nil, cfg, err
	}

	// Override config with CLI flags only if they were explicitly provided
	if cmd.Flags().Changed("root") || cfg.Root == "" || cfg.Root == "." {
		cfg.Root = rootDir
	} else if !filepath.IsAbs(cfg.Root) {
		cfg.Root = filepath.Join(rootDir, cfg.Root)
	}
	if cmd.Flags().Changed("encoder") {
		cfg.Encoder = encoder
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = verbose
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, cfg, fmt.Errorf("%w: %v", errUsage, err)
	}

	rootAbs, err := filepath.Abs(cfg.Root)
	if err != nil {
		return nil, nil, cfg, fmt.Errorf("resolve root: %w", err)
	}
	cfg.Root = rootAbs

	l, err := logger.New(cfg.Verbose)
	if err != nil {
		return nil, nil, cfg, fmt.Errorf("init logger: %w", err)
	}
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	return logger.NewContext(ctx, l), cancel, cfg, nil
}

func runBuild(cmd *cobra.Command, args []string) error {
	if cmd.Flags().Changed("profile") && profileArg == "" {
		return fmt.Errorf("%w: profile file argument is missing", errUsage)
	}

	ctx, cancel, cfg, err := setup(cmd)
	if err != nil {
		return err
	}
	defer cancel()
	log := logger.L(ctx)
	defer log.Sync()

	enc, err := profile.Detect(cfg.Encoder, cfg.PlutilPath, cfg.TempDir)
	if err != nil {
		if profileArg != "" || !errors.Is(err, model.ErrEnvironmentUnsupported) {
			return err
		}
		log.Warn("profile patching disabled", zap.Error(err))
	}

	override := profileArg
	if override != "" {
		if override, err = filepath.Abs(override); err != nil {
			return err
		}
	}

	b := builder.New(theme.NewCatalog(cfg.Root), storage.New(cfg.Root), enc, builder.Options{
		ProfileOverride: override,
		Progress: func(built int, output string) {
			fmt.Fprintf(cmd.OutOrStdout(), "Built %s\n", output)
		},
	})
	res, err := b.Run(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d built, %d failed, %d skipped\n", res.Built, res.Failed, res.Skipped)
	return res.Err
}

func runUpdate(cmd *cobra.Command, args []string) error {
	ctx, cancel, cfg, err := setup(cmd)
	if err != nil {
		return err
	}
	defer cancel()
	defer logger.L(ctx).Sync()

	return theme.NewCatalog(cfg.Root).Update(ctx, func(name, dir string) {
		fmt.Fprintf(cmd.OutOrStdout(), "Updating %s (%s)\n", name, dir)
	})
}

func runSchemes(cmd *cobra.Command, args []string) error {
	ctx, cancel, cfg, err := setup(cmd)
	if err != nil {
		return err
	}
	defer cancel()
	log := logger.L(ctx)
	defer log.Sync()

	catalog := theme.NewCatalog(cfg.Root)
	sources, err := catalog.SchemeSources()
	if err != nil {
		return err
	}
	var palettes []model.Palette
	for _, src := range sources {
		files, err := catalog.SchemeFiles(src.Name)
		if err != nil {
			log.Warn("cannot list schemes", zap.String("source", src.Name), zap.Error(err))
			continue
		}
		for _, file := range files {
			p, err := catalog.LoadPalette(file)
			if err != nil {
				log.Warn("cannot load scheme", zap.String("file", file), zap.Error(err))
				continue
			}
			palettes = append(palettes, p)
		}
	}
	fmt.Fprint(cmd.OutOrStdout(), theme.RenderList(palettes))
	return nil
}

func runConfigGenerate(cmd *cobra.Command, args []string) error {
	rootAbs, err := filepath.Abs(rootDir)
	if err != nil {
		return fmt.Errorf("resolve root: %w", err)
	}

	cfg := config.Default()
	cfg.Root = rootAbs

	// Check if config file already exists
	cfgPath := filepath.Join(rootAbs, config.FileName)
	if _, err := os.Stat(cfgPath); err == nil {
		return fmt.Errorf("config file already exists: %s", cfgPath)
	}

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Generated default config file: %s\n", cfgPath)
	return nil
}

// exitCode maps an error to the process exit status.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errUsage):
		return exitUsage
	case errors.Is(err, model.ErrEnvironmentUnsupported):
		return exitUnavailable
	case errors.Is(err, model.ErrProfileInvariant):
		return exitSoftware
	case errors.Is(err, model.ErrDocumentParse):
		return exitDataErr
	case errors.Is(err, model.ErrSourceRead), errors.Is(err, model.ErrTemplateRead):
		return exitNoInput
	}
	return exitFailure
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(exitCode(err))
	}
}
