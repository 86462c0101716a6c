// Package main provides the entry point for the calmgen CLI, a batch
// generator that narrates scripted content into audio files.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	gap "github.com/muesli/go-app-paths"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/calmnest/calmgen/narrate"
	"github.com/calmnest/calmgen/narrate/content"
	"github.com/calmnest/calmgen/narrate/engines"
	"github.com/calmnest/calmgen/utils"
)

var (
	// Version as provided by goreleaser.
	Version = ""
	// CommitSHA as provided by goreleaser.
	CommitSHA = ""

	configFile  string
	contentType string
	contentKey  string
	narrator    string
	customText  string
	customName  string
	outputDir   string
	formatName  string
	engineName  string
	generateAll bool
	listContent bool
	dryRun      bool
	debug       bool

	rootCmd = &cobra.Command{
		Use:   "calmgen",
		Short: "Generate narrated meditation audio from scripted content",
		Long: paragraph(
			fmt.Sprintf("\nGenerate %s from scripted meditations, breathing exercises, sleep stories, or custom text.", keyword("narrated audio")),
		),
		Example: paragraph("calmgen --type meditation --category gratitude\n" +
			"calmgen --type breathing --all\n" +
			"calmgen --type sleep_story --category moonlit_forest\n" +
			"calmgen --custom \"Welcome to your meditation session.\"\n" +
			"calmgen --list"),
		SilenceErrors: false,
		SilenceUsage:  true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return validateOptions(cmd)
		},
		RunE: execute,
	}
)

// envOverrides are environment settings applied on top of the config file.
type envOverrides struct {
	Debug         bool   `env:"CALMGEN_DEBUG"`
	LogFile       string `env:"CALMGEN_LOG_FILE"`
	EngineCommand string `env:"CALMGEN_ENGINE_COMMAND"`
}

func validateOptions(*cobra.Command) error {
	// grab config values from Viper
	outputDir = viper.GetString("output")
	formatName = viper.GetString("format")
	engineName = viper.GetString("engine.name")
	debug = viper.GetBool("debug")

	overrides, err := env.ParseAs[envOverrides]()
	if err != nil {
		return fmt.Errorf("error parsing environment: %w", err)
	}
	if overrides.Debug {
		debug = true
	}
	if overrides.EngineCommand != "" {
		viper.Set("engine.command", overrides.EngineCommand)
	}
	if debug {
		log.SetLevel(log.DebugLevel)
	}

	if _, err := narrate.ParseFormat(formatName); err != nil {
		return err
	}

	if customText != "" && contentType != "" {
		return errors.New("cannot use both --custom and --type")
	}
	if generateAll && contentKey != "" {
		return errors.New("cannot use both --all and --category")
	}
	if contentType != "" {
		cat, err := narrate.ParseCategory(contentType)
		if err != nil {
			return err
		}
		if cat == narrate.CategoryCustom {
			return errors.New("custom content is selected with --custom, not --type")
		}
		if !generateAll && contentKey == "" && !listContent {
			return errors.New("specify --category or use --all")
		}
	}
	return nil
}

func execute(cmd *cobra.Command, _ []string) error {
	lib, err := content.Default()
	if err != nil {
		return err
	}

	if listContent {
		printList(lib)
		return nil
	}

	units, err := buildUnits(lib)
	if err != nil {
		return err
	}
	if len(units) == 0 {
		return cmd.Help()
	}

	engine, err := engines.New(engines.Config{
		Engine:     engineName,
		Command:    viper.GetString("engine.command"),
		SampleRate: viper.GetInt("engine.sample_rate"),
	})
	if err != nil {
		return err
	}

	pipeline := narrate.NewPipeline(lib, engine, narrate.PipelineConfig{
		OutputDir: utils.ExpandPath(outputDir),
		Format:    narrate.Format(formatName),
		Logger:    log.Default(),
	})

	if dryRun {
		return runDry(pipeline, units)
	}
	return runBatch(cmd.Context(), pipeline, units)
}

// buildUnits translates CLI selections into content units.
func buildUnits(lib *content.Library) ([]narrate.ContentUnit, error) {
	if customText != "" {
		return []narrate.ContentUnit{{
			Category: narrate.CategoryCustom,
			Key:      customName,
			Text:     customText,
			Narrator: narrator,
		}}, nil
	}

	if contentType == "" {
		return nil, nil
	}
	category, err := narrate.ParseCategory(contentType)
	if err != nil {
		return nil, err
	}

	keys := []string{contentKey}
	if generateAll {
		switch category {
		case narrate.CategoryMeditation:
			keys = lib.MeditationKeys()
		case narrate.CategoryBreathing:
			keys = lib.BreathingKeys()
		case narrate.CategorySleepStory:
			keys = lib.SleepStoryKeys()
		}
	}

	units := make([]narrate.ContentUnit, 0, len(keys))
	for _, key := range keys {
		units = append(units, narrate.ContentUnit{
			Category: category,
			Key:      key,
			Narrator: narrator,
		})
	}
	return units, nil
}

// runDry resolves and segments each unit and reports what would be
// generated, without touching the synthesis backend.
func runDry(pipeline *narrate.Pipeline, units []narrate.ContentUnit) error {
	for _, unit := range units {
		voice := pipeline.Resolver().Resolve(unit)
		segments, err := pipeline.Segmenter().Segment(unit)
		if err != nil {
			log.Error("would fail", "unit", unit.Category.String()+"/"+unit.Key, "error", err)
			continue
		}
		log.Info("would generate",
			"unit", unit.Category.String()+"/"+unit.Key,
			"narrator", voice.Narrator,
			"voice", voice.ID,
			"segments", len(segments),
			"silence", unit.Category.SilenceGap(),
			"output", pipeline.OutputPath(unit))
	}
	return nil
}

// runBatch processes units sequentially. A failing unit is reported and
// skipped; siblings still run. The command fails if any unit failed.
func runBatch(ctx context.Context, pipeline *narrate.Pipeline, units []narrate.ContentUnit) error {
	var failures int
	for _, unit := range units {
		artifact, err := pipeline.Run(ctx, unit)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			failures++
			log.Error("generation failed", "unit", unit.Category.String()+"/"+unit.Key, "error", err)
			continue
		}

		size := "unknown"
		if info, err := os.Stat(artifact.Path); err == nil {
			size = humanize.Bytes(uint64(info.Size())) //nolint:gosec
		}
		log.Info("wrote audio", "path", artifact.Path, "format", artifact.Format, "size", size)
	}

	if failures > 0 {
		return fmt.Errorf("%d of %d units failed", failures, len(units))
	}
	return nil
}

func printList(lib *content.Library) {
	fmt.Println(heading("Meditations"))
	for _, key := range lib.MeditationKeys() {
		fmt.Println(listItem("• " + key))
	}
	fmt.Println(heading("Breathing exercises"))
	for _, key := range lib.BreathingKeys() {
		fmt.Println(listItem("• " + key))
	}
	fmt.Println(heading("Sleep stories"))
	for _, key := range lib.SleepStoryKeys() {
		story := lib.SleepStories[key]
		fmt.Println(listItem("• "+key) + " " + subtle("(narrator: "+story.Narrator+")"))
	}
	fmt.Println(heading("Narrators"))
	for _, name := range lib.NarratorNames() {
		fmt.Println(listItem("• "+name) + " " + subtle(lib.Voices[name]))
	}
}

func main() {
	closer, err := setupLog()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		_ = closer()
		os.Exit(1)
	}
	_ = closer()
}

func setupLog() (func() error, error) {
	log.SetOutput(os.Stderr)
	log.SetReportTimestamp(false)

	overrides, err := env.ParseAs[envOverrides]()
	if err != nil {
		return nil, fmt.Errorf("error parsing environment: %w", err)
	}
	if overrides.LogFile == "" {
		return func() error { return nil }, nil
	}

	f, err := os.OpenFile(utils.ExpandPath(overrides.LogFile), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("error opening log file: %w", err)
	}
	log.SetOutput(f)
	log.SetReportTimestamp(true)
	return f.Close, nil
}

func init() {
	tryLoadConfigFromDefaultPlaces()
	if len(CommitSHA) >= 7 {
		vt := rootCmd.VersionTemplate()
		rootCmd.SetVersionTemplate(vt[:len(vt)-1] + " (" + CommitSHA[0:7] + ")\n")
	}
	if Version == "" {
		Version = "unknown (built from source)"
	}
	rootCmd.Version = Version
	rootCmd.InitDefaultCompletionCmd()

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", fmt.Sprintf("config file (default %s)", viper.GetViper().ConfigFileUsed()))
	rootCmd.Flags().StringVarP(&contentType, "type", "t", "", "content type: meditation, breathing, or sleep_story")
	rootCmd.Flags().StringVarP(&contentKey, "category", "c", "", "content key within the selected type")
	rootCmd.Flags().StringVarP(&narrator, "narrator", "n", "", "narrator voice override")
	rootCmd.Flags().BoolVarP(&generateAll, "all", "a", false, "generate every entry of the selected type")
	rootCmd.Flags().StringVar(&customText, "custom", "", "generate audio from custom text")
	rootCmd.Flags().StringVar(&customName, "name", "custom_audio", "output name for custom text")
	rootCmd.Flags().StringVarP(&outputDir, "output", "o", "", "output directory root")
	rootCmd.Flags().StringVarP(&formatName, "format", "f", "", "output format: mp3, wav, ogg, or flac")
	rootCmd.Flags().StringVar(&engineName, "engine", "", "synthesis engine: bark or mock")
	rootCmd.Flags().BoolVarP(&listContent, "list", "l", false, "list available content and narrators")
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "resolve and segment only, print intended actions")
	rootCmd.Flags().BoolVar(&debug, "debug", false, "enable debug logging")

	// Config bindings
	_ = viper.BindPFlag("output", rootCmd.Flags().Lookup("output"))
	_ = viper.BindPFlag("format", rootCmd.Flags().Lookup("format"))
	_ = viper.BindPFlag("engine.name", rootCmd.Flags().Lookup("engine"))
	_ = viper.BindPFlag("debug", rootCmd.Flags().Lookup("debug"))

	viper.SetDefault("output", "assets")
	viper.SetDefault("format", "mp3")
	viper.SetDefault("engine.name", "bark")
	viper.SetDefault("engine.command", "")
	viper.SetDefault("engine.sample_rate", engines.DefaultSampleRate)

	rootCmd.AddCommand(configCmd, manCmd)
}

func tryLoadConfigFromDefaultPlaces() {
	scope := gap.NewScope(gap.User, "calmgen")
	dirs, err := scope.ConfigDirs()
	if err != nil {
		fmt.Println("Could not find configuration directory.")
		os.Exit(1)
	}

	if c := os.Getenv("XDG_CONFIG_HOME"); c != "" {
		dirs = append([]string{filepath.Join(c, "calmgen")}, dirs...)
	}

	if c := os.Getenv("CALMGEN_CONFIG_HOME"); c != "" {
		dirs = append([]string{c}, dirs...)
	}

	for _, v := range dirs {
		viper.AddConfigPath(v)
	}

	viper.SetConfigName("calmgen")
	viper.SetConfigType("yaml")
	viper.SetEnvPrefix("calmgen")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Warn("Could not parse configuration file", "err", err)
		}
	}

	if used := viper.ConfigFileUsed(); used != "" {
		log.Debug("Using configuration file", "path", viper.ConfigFileUsed())
		return
	}

	if viper.ConfigFileUsed() == "" {
		configFile = filepath.Join(dirs[0], "calmgen.yml")
	}
	if err := ensureConfigFile(); err != nil {
		log.Error("Could not create default configuration", "error", err)
	}
}
