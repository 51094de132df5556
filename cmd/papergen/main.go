package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pavelanni/papergen/internal/compiler"
	"github.com/pavelanni/papergen/internal/handler"
	appI18n "github.com/pavelanni/papergen/internal/i18n"
	"github.com/pavelanni/papergen/internal/model"
	"github.com/pavelanni/papergen/internal/paper"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "papergen",
		Short: "Compile exam papers into Word documents",
	}

	serve := serveCmd()
	root.AddCommand(serve, compileCmd(), marksCmd())

	// Make "serve" the default when no subcommand is given.
	root.RunE = serve.RunE

	// Register serve flags on root so bare `papergen --addr ...` still works.
	root.Flags().AddFlagSet(serve.Flags())
	root.PersistentFlags().String("config", "", "Config file (default: papergen.yaml in ., $HOME/.config/papergen, /etc/papergen)")

	return root
}

func addLoggingFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("log-level", "info", "Log level (debug, info, warn, error)")
	f.String("log-format", "text", "Log format (text, json)")
}

func addCompileFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringP("lang", "l", "en", "Document language (en, ru)")
	f.Bool("answer-prompt", false, `Print "Answer the following:" above normal question groups`)
	f.Bool("split-truefalse", false, "Lay out each true/false statement with its own options")
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP compile server",
		RunE:  runServe,
	}
	f := cmd.Flags()
	f.StringP("addr", "a", ":8080", "HTTP listen address")
	f.Int64("max-upload", handler.DefaultMaxUpload, "Maximum request body size in bytes")
	addCompileFlags(cmd)
	addLoggingFlags(cmd)
	return cmd
}

func compileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compile",
		Short: "Compile a paper file into a .docx document",
		RunE:  runCompile,
	}
	f := cmd.Flags()
	f.StringP("input", "i", "", "Paper file (.json, .yaml, .yml) or - for stdin (required)")
	f.String("format", "", "Input format (json, yaml); detected from the file extension when empty")
	f.StringP("output", "o", "", "Output file path (default: generated name inside --out-dir)")
	f.String("out-dir", ".", "Directory for the generated file name")
	addCompileFlags(cmd)
	addLoggingFlags(cmd)

	_ = cmd.MarkFlagRequired("input")

	return cmd
}

func marksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "marks",
		Short: "Print section and group mark totals of a paper",
		RunE:  runMarks,
	}
	f := cmd.Flags()
	f.StringP("input", "i", "", "Paper file (.json, .yaml, .yml) or - for stdin (required)")
	f.String("format", "", "Input format (json, yaml); detected from the file extension when empty")
	f.Bool("json", false, "Print machine-readable JSON")
	f.StringP("lang", "l", "en", "Output language (en, ru)")
	addLoggingFlags(cmd)

	_ = cmd.MarkFlagRequired("input")

	return cmd
}

// configure resolves cmd's settings and installs the process logger.
func configure(cmd *cobra.Command) (*viper.Viper, error) {
	v, err := viperForCmd(cmd)
	if err != nil {
		return nil, err
	}
	logger, err := newLogger(v, cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)
	if used := v.ConfigFileUsed(); used != "" {
		slog.Debug("loaded config file", "path", used)
	}
	return v, nil
}

// newLogger builds a slog logger from the log-level and log-format settings.
func newLogger(v *viper.Viper, w io.Writer) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(v.GetString("log-level"))); err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}
	opts := &slog.HandlerOptions{Level: level}
	switch format := strings.ToLower(v.GetString("log-format")); format {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
}

// viperForCmd layers cmd's flags over PAPERGEN_* environment variables and
// the config file. --config names the file; otherwise papergen.{yaml,json,toml}
// is searched for in the usual places and may be absent.
func viperForCmd(cmd *cobra.Command) (*viper.Viper, error) {
	v := viper.New()
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, fmt.Errorf("bind flags: %w", err)
	}
	v.SetEnvPrefix("PAPERGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("papergen")
		for _, dir := range configDirs {
			v.AddConfigPath(dir)
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	return v, nil
}

var configDirs = []string{".", "$HOME/.config/papergen", "/etc/papergen"}

func compileConfig(v *viper.Viper) model.CompileConfig {
	return model.CompileConfig{
		Lang:           v.GetString("lang"),
		AnswerPrompt:   v.GetBool("answer-prompt"),
		SplitTrueFalse: v.GetBool("split-truefalse"),
		MaxUploadBytes: v.GetInt64("max-upload"),
	}
}

// localized initializes the bundle and returns a context carrying the
// localizer for lang.
func localized(lang string) (context.Context, error) {
	if err := appI18n.Init(lang); err != nil {
		return nil, fmt.Errorf("init i18n: %w", err)
	}
	return appI18n.WithLocalizer(context.Background(), appI18n.NewLocalizer(lang)), nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	v, err := configure(cmd)
	if err != nil {
		return err
	}
	cfg := compileConfig(v)

	if err := appI18n.Init(cfg.Lang); err != nil {
		return fmt.Errorf("init i18n: %w", err)
	}

	h, err := handler.New(cfg)
	if err != nil {
		return fmt.Errorf("create handler: %w", err)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(appI18n.Middleware(cfg.Lang))
	h.Routes(r)

	addr := v.GetString("addr")
	slog.Info("starting server",
		"addr", addr,
		"lang", cfg.Lang,
		"answer_prompt", cfg.AnswerPrompt,
		"split_truefalse", cfg.SplitTrueFalse,
		"max_upload", cfg.MaxUploadBytes,
	)
	return http.ListenAndServe(addr, r)
}

func runCompile(cmd *cobra.Command, _ []string) error {
	v, err := configure(cmd)
	if err != nil {
		return err
	}
	cfg := compileConfig(v)

	p, err := readPaper(cmd.InOrStdin(), v.GetString("input"), v.GetString("format"))
	if err != nil {
		return err
	}
	ctx, err := localized(cfg.Lang)
	if err != nil {
		return err
	}

	data, err := compiler.Compile(p, compiler.Options{
		Labels:         appI18n.Labels(ctx),
		Instructions:   appI18n.Instructions(ctx, cfg.AnswerPrompt),
		SplitTrueFalse: cfg.SplitTrueFalse,
		Logger:         slog.Default(),
	})
	if errors.Is(err, compiler.ErrNoQuestions) {
		return errors.New(appI18n.T(ctx, "NoQuestions"))
	}
	if err != nil {
		return fmt.Errorf("compile paper: %w", err)
	}

	outPath := v.GetString("output")
	if outPath == "" {
		outPath = filepath.Join(v.GetString("out-dir"), compiler.FileName(p.Header.Exam, time.Now()))
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	slog.Info("wrote paper", "path", outPath, "bytes", len(data), "questions", p.QuestionCount())
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), outPath)
	return nil
}

func runMarks(cmd *cobra.Command, _ []string) error {
	v, err := configure(cmd)
	if err != nil {
		return err
	}

	p, err := readPaper(cmd.InOrStdin(), v.GetString("input"), v.GetString("format"))
	if err != nil {
		return err
	}
	m := paper.ComputeMarks(p)
	out := cmd.OutOrStdout()

	if v.GetBool("json") {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(m); err != nil {
			return fmt.Errorf("marshal JSON: %w", err)
		}
		return nil
	}

	ctx, err := localized(v.GetString("lang"))
	if err != nil {
		return err
	}
	return printMarks(ctx, out, p, m)
}

// printMarks writes a human-readable mark breakdown.
func printMarks(ctx context.Context, w io.Writer, p model.Paper, m paper.Marks) error {
	labels := appI18n.Labels(ctx)
	for i, s := range m.Sections {
		title := strings.TrimSpace(p.Sections[i].Title)
		if title == "" {
			title = fmt.Sprintf("%s %d", labels.Section, i+1)
		}
		line := appI18n.Td(ctx, "SectionLine", map[string]any{
			"Title": title,
			"Total": appI18n.Tp(ctx, "MarksCount", s.Total),
		})
		if _, err := fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		for _, g := range s.Groups {
			line := appI18n.Td(ctx, "GroupLine", map[string]any{
				"Number": g.Number,
				"Type":   g.Type,
				"Items":  g.Items,
				"Total":  appI18n.Tp(ctx, "MarksCount", g.Total),
			})
			if _, err := fmt.Fprintln(w, "  "+line); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
		}
	}
	total := appI18n.Td(ctx, "PaperTotal", map[string]any{
		"Total": appI18n.Tp(ctx, "MarksCount", m.Total),
	})
	questions := appI18n.Tp(ctx, "QuestionsCount", p.QuestionCount())
	if _, err := fmt.Fprintf(w, "%s (%s)\n", total, questions); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

// readPaper loads a paper from path, or from r when path is "-".
func readPaper(r io.Reader, path, format string) (model.Paper, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(r)
	} else {
		data, err = os.ReadFile(path)
		if format == "" {
			format = filepath.Ext(path)
		}
	}
	if err != nil {
		return model.Paper{}, fmt.Errorf("read %s: %w", path, err)
	}
	p, err := model.Decode(data, format)
	if err != nil {
		return model.Paper{}, fmt.Errorf("read %s: %w", path, err)
	}
	return p, nil
}
