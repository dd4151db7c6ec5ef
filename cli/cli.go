package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/viant/afs"
	"github.com/viant/i18nlens/api"
	"github.com/viant/i18nlens/config"
	"github.com/viant/i18nlens/geometry"
	"github.com/viant/i18nlens/inspector"
	"github.com/viant/i18nlens/inspector/index"
	"github.com/viant/i18nlens/inspector/jsx"
	"github.com/viant/i18nlens/inspector/repository"
	"github.com/viant/i18nlens/selection"
	"github.com/viant/i18nlens/selection/htmlhost"
	"github.com/viant/i18nlens/session"
	"gopkg.in/yaml.v3"
)

type globalFlags struct {
	configURL string
	envFile   string
	locales   string
	language  string
}

// Execute runs the CLI application.
func Execute() {
	if err := NewRootCmd(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}

// NewRootCmd builds the command tree writing results to out
func NewRootCmd(out io.Writer) *cobra.Command {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	flags := &globalFlags{}
	rootCmd := &cobra.Command{
		Use:           "i18nlens",
		Short:         "Locate translation keys behind rendered text",
		Long:          "Indexes translation resources by key position and resolves text selected on a rendered page back to its keys.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	rootCmd.SetOut(out)
	rootCmd.PersistentFlags().StringVar(&flags.configURL, "config", "", "config file URL (yaml)")
	rootCmd.PersistentFlags().StringVar(&flags.envFile, "env", "", "env file with I18NLENS_* overrides")
	rootCmd.PersistentFlags().StringVar(&flags.locales, "locales", "", "locales location URL, overrides config")
	rootCmd.PersistentFlags().StringVar(&flags.language, "language", "", "current language, overrides config")

	rootCmd.AddCommand(indexCmd(flags))
	rootCmd.AddCommand(searchCmd(flags))
	rootCmd.AddCommand(compareCmd(flags))
	rootCmd.AddCommand(usagesCmd(flags))
	rootCmd.AddCommand(selectCmd(flags))
	rootCmd.AddCommand(serveCmd(flags))
	return rootCmd
}

func indexCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index <resource-url>",
		Short: "Print key symbols of a JSON or YAML resource",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := setupContext()
			defer cancel()
			cfg, err := loadConfig(ctx, flags)
			if err != nil {
				return err
			}
			idx, err := inspector.NewFactory(nil, index.WithLogger(newLogger(cfg))).InspectFile(ctx, args[0])
			if err != nil {
				return err
			}
			if source, _ := cmd.Flags().GetBool("source"); source {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), idx.Source())
				return err
			}
			emitter := &index.YAMLEmitter{}
			data, err := emitter.Emit(idx.Symbols())
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	cmd.Flags().Bool("source", false, "print indexed source instead of symbols")
	return cmd
}

func searchCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "search <text>",
		Short: "Find keys whose value contains text in the current language",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := setupContext()
			defer cancel()
			sess, _, _, err := openSession(ctx, flags)
			if err != nil {
				return err
			}
			emitter := &index.YAMLEmitter{}
			data, err := emitter.Emit(sess.Index().FindAllByValue(args[0]))
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}

type rowOutput struct {
	KeyChain string            `yaml:"keyChain"`
	Values   map[string]string `yaml:"values"`
}

func compareCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare <key-chain>",
		Short: "Compare values of a key across languages",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := setupContext()
			defer cancel()
			sess, _, _, err := openSession(ctx, flags)
			if err != nil {
				return err
			}
			languages, _ := cmd.Flags().GetStringSlice("languages")
			comparison, err := sess.CompareKeyChain(args[0], languages...)
			if err != nil {
				return err
			}
			var rows []rowOutput
			for _, row := range comparison.Rows {
				output := rowOutput{KeyChain: row.KeyChain.Serialized(), Values: map[string]string{}}
				for i, language := range comparison.Languages {
					output.Values[language] = row.Values[i]
				}
				rows = append(rows, output)
			}
			return yaml.NewEncoder(cmd.OutOrStdout()).Encode(rows)
		},
	}
	cmd.Flags().StringSlice("languages", nil, "compared languages, all by default")
	return cmd
}

type usageOutput struct {
	jsx.Usage `yaml:",inline"`
	Missing   bool `yaml:"missing,omitempty"`
}

func usagesCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "usages <source-url>",
		Short: "List translation keys used by JavaScript sources, flagging keys missing in the current language",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := setupContext()
			defer cancel()
			sess, _, _, err := openSession(ctx, flags)
			if err != nil {
				return err
			}
			functions, _ := cmd.Flags().GetStringSlice("functions")
			usages, err := jsx.NewScanner(nil, functions...).Scan(ctx, args[0])
			if err != nil {
				return err
			}
			missingOnly, _ := cmd.Flags().GetBool("missing")
			var output []usageOutput
			for _, usage := range usages {
				_, err := sess.Index().GetByKeyChain(usage.KeyChain)
				missing := errors.Is(err, index.ErrNotFound)
				if missingOnly && !missing {
					continue
				}
				output = append(output, usageOutput{Usage: *usage, Missing: missing})
			}
			return yaml.NewEncoder(cmd.OutOrStdout()).Encode(output)
		},
	}
	cmd.Flags().StringSlice("functions", nil, "translation functions, t and i18n.t by default")
	cmd.Flags().Bool("missing", false, "report only keys missing in the current language")
	return cmd
}

type resolutionOutput struct {
	Text    string         `yaml:"text"`
	Symbols []*index.Entry `yaml:"symbols"`
}

func selectCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "select <html-url> <startX> <startY> <endX> <endY>",
		Short: "Resolve keys of text inside a rectangle of an HTML page with data-rect geometry",
		Args:  cobra.ExactArgs(5),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := setupContext()
			defer cancel()
			var coordinates [4]float64
			for i, arg := range args[1:] {
				value, err := strconv.ParseFloat(arg, 64)
				if err != nil {
					return fmt.Errorf("invalid coordinate %q: %w", arg, err)
				}
				coordinates[i] = value
			}
			sess, cfg, _, err := openSession(ctx, flags)
			if err != nil {
				return err
			}
			reader, err := afs.New().OpenURL(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to open %v: %w", args[0], err)
			}
			defer reader.Close()
			doc, err := htmlhost.Parse(reader)
			if err != nil {
				return err
			}
			sess.Attach(doc, doc.Body(), selection.WithExclusion(htmlhost.ClassMatcher(cfg.ExcludedClasses...)))
			defer sess.Detach()
			if err = sess.Select(geometry.NewBox(coordinates[0], coordinates[1], coordinates[2], coordinates[3])); err != nil {
				return err
			}
			var output []resolutionOutput
			for _, resolution := range sess.Resolutions() {
				entries, err := index.Entries(resolution.Symbols)
				if err != nil {
					return err
				}
				output = append(output, resolutionOutput{Text: resolution.Fragment.Text, Symbols: entries})
			}
			return yaml.NewEncoder(cmd.OutOrStdout()).Encode(output)
		},
	}
}

func serveCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the editor session over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := setupContext()
			defer cancel()
			sess, cfg, repo, err := openSession(ctx, flags)
			if err != nil {
				return err
			}
			if listen, _ := cmd.Flags().GetString("listen"); listen != "" {
				cfg.Listen = listen
			}
			logger := newLogger(cfg)
			server := &http.Server{Addr: cfg.Listen, Handler: api.NewServer(sess, repo, cfg, logger)}
			go func() {
				<-ctx.Done()
				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer shutdownCancel()
				_ = server.Shutdown(shutdownCtx)
			}()
			logger.Info().Str("listen", cfg.Listen).Str("language", sess.Language()).Msg("serving")
			if err = server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().String("listen", "", "listen address, overrides config")
	return cmd
}

func loadConfig(ctx context.Context, flags *globalFlags) (*config.Config, error) {
	var envFiles []string
	if flags.envFile != "" {
		envFiles = append(envFiles, flags.envFile)
	}
	cfg, err := config.Load(ctx, flags.configURL, envFiles...)
	if err != nil {
		return nil, err
	}
	if flags.locales != "" {
		cfg.LocalesURL = flags.locales
	}
	if flags.language != "" {
		cfg.Language = flags.language
	}
	zerolog.SetGlobalLevel(cfg.Level())
	return cfg, nil
}

func newLogger(cfg *config.Config) zerolog.Logger {
	return log.Logger.Level(cfg.Level())
}

// openSession loads locale resources of the configured namespace into a new session
func openSession(ctx context.Context, flags *globalFlags) (*session.Session, *config.Config, *repository.Repository, error) {
	cfg, err := loadConfig(ctx, flags)
	if err != nil {
		return nil, nil, nil, err
	}
	logger := newLogger(cfg)
	repo := repository.New(cfg.LocalesURL, repository.WithNamespace(cfg.Namespace), repository.WithLogger(logger))
	resources, err := repo.Load(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	values := repository.Values(resources, cfg.Namespace)
	if len(values) == 0 {
		return nil, nil, nil, fmt.Errorf("no resources in namespace %q, available: %v", cfg.Namespace, repository.Namespaces(resources))
	}
	options := []session.Option{
		session.WithLogger(logger),
		session.WithSelectionOptions(selection.WithMinPressure(cfg.MinPressure)),
	}
	if cfg.Language != "" {
		options = append(options, session.WithLanguage(cfg.Language))
	}
	sess, err := session.New(values, options...)
	if err != nil {
		return nil, nil, nil, err
	}
	return sess, cfg, repo, nil
}

func setupContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case <-sigCh:
			log.Warn().Msg("Received shutdown signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()

	return ctx, cancel
}
