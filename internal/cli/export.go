package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"

	"github.com/rshade/resinhook/internal/config"
	"github.com/rshade/resinhook/internal/engine/export"
	"github.com/rshade/resinhook/internal/engine/header"
	"github.com/rshade/resinhook/internal/logging"
	"github.com/rshade/resinhook/internal/store"
	"github.com/rshade/resinhook/internal/tui"
	"github.com/rshade/resinhook/internal/xlsx"
)

// progressStep is how many percent must pass between plain progress lines.
const progressStep = 10

// exportParams holds the flags of the export command.
type exportParams struct {
	source      sourceFlags
	outDir      string
	filename    string
	sheet       string
	chunkSize   int
	columns     []string
	headerMap   map[string]string
	headersFile string
	plain       bool
}

// NewExportCmd creates the export command.
func NewExportCmd() *cobra.Command {
	var params exportParams

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export rows to an .xlsx workbook",
		Long: `Export rows to an .xlsx workbook.

Rows come from exactly one of --input, --url or --mock. They are written in
chunks of --chunk-size rows; between chunks the job can be cancelled with
q or ctrl+c (interactive) or SIGINT (plain). Nothing is written on
cancellation.

Column selection, in order of precedence: --columns (filtered to keys in the
data), --headers-file (a YAML or JSON header tree), then every key of the
first row. --header-map relabels flat columns.`,
		Example: exportExample,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return executeExport(cmd, params)
		},
	}

	params.source.bind(cmd)
	cmd.Flags().StringVar(&params.outDir, "out-dir", "", "directory for the workbook (default from config)")
	cmd.Flags().StringVar(&params.filename, "filename", "", "workbook name; .xlsx is appended when missing")
	cmd.Flags().StringVar(&params.sheet, "sheet", "", "sheet name (default Sheet1)")
	cmd.Flags().IntVar(&params.chunkSize, "chunk-size", 0, "rows written per chunk (default from config)")
	cmd.Flags().StringSliceVar(&params.columns, "columns", nil, "comma-separated keys to export, in order")
	cmd.Flags().StringToStringVar(&params.headerMap, "header-map", nil, "column labels as key=Label")
	cmd.Flags().StringVar(&params.headersFile, "headers-file", "", "YAML or JSON header tree")
	cmd.Flags().BoolVar(&params.plain, "plain", false, "print progress lines instead of the progress bar")

	return cmd
}

const exportExample = `  # 10k mock transactions with English keys and labels
  resinhook export --mock 10000 --mock-keys en

  # A JSON file, two columns, custom name
  resinhook export --input rows.json --columns id,amount --filename report

  # Non-interactive, smaller chunks
  resinhook export --url http://127.0.0.1:3001/api/excel/export --chunk-size 500 --plain`

// executeExport resolves the source and options, runs one export job and
// reports its outcome.
func executeExport(cmd *cobra.Command, params exportParams) error {
	ctx := cmd.Context()
	cfg := config.GetGlobalConfig()

	src, info, err := params.source.resolve(cfg)
	if err != nil {
		return err
	}
	opts, err := params.options(cmd, cfg, info)
	if err != nil {
		return err
	}

	outDir := params.outDir
	if outDir == "" {
		outDir = cfg.Export.OutDir
	}
	deliverer := &xlsx.FileDeliverer{Dir: outDir}
	exporter := export.NewExporter(deliverer, export.WithLogger(logging.FromContext(ctx)))

	if jobs := openStore(ctx, cfg); jobs != nil {
		defer jobs.Close()
		unsubscribe := exporter.Subscribe(jobs.Observer(ctx, info.label, logger))
		defer unsubscribe()
	}

	var final export.State
	if tui.DetectOutputMode(params.plain) == tui.OutputInteractive {
		final, err = runInteractiveExport(ctx, cmd.ErrOrStderr(), exporter, src, opts)
		if err != nil {
			return err
		}
	} else {
		final = runPlainExport(ctx, cmd.ErrOrStderr(), exporter, src, opts)
	}

	return reportExport(cmd.OutOrStdout(), final, deliverer.LastPath)
}

// options merges flags over config and source defaults.
func (p exportParams) options(cmd *cobra.Command, cfg *config.Config, info sourceInfo) (export.Options, error) {
	opts := export.Options{
		Filename:   firstNonEmpty(p.filename, cfg.Export.Filename, info.filename),
		SheetName:  firstNonEmpty(p.sheet, cfg.Export.SheetName, info.sheet),
		ChunkSize:  cfg.Export.ChunkSize,
		Columns:    cfg.Export.Columns,
		Headers:    cfg.Export.Headers,
		HeadersMap: make(map[string]string),
	}
	if cmd.Flags().Changed("chunk-size") {
		opts.ChunkSize = p.chunkSize
	}
	if len(p.columns) > 0 {
		opts.Columns = p.columns
	}

	for _, m := range []map[string]string{info.headers, cfg.Export.HeadersMap, p.headerMap} {
		for k, v := range m {
			opts.HeadersMap[k] = v
		}
	}

	if p.headersFile != "" {
		nodes, err := loadHeaderTree(p.headersFile)
		if err != nil {
			return export.Options{}, err
		}
		opts.Headers = nodes
	}
	return opts, nil
}

// loadHeaderTree reads a header forest from YAML or JSON. Either a bare list
// or a document with a top-level "headers" key is accepted.
func loadHeaderTree(path string) ([]header.Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading headers file: %w", err)
	}

	var nodes []header.Node
	if err = yaml.Unmarshal(data, &nodes); err != nil {
		var doc struct {
			Headers []header.Node `yaml:"headers"`
		}
		if derr := yaml.Unmarshal(data, &doc); derr != nil {
			return nil, fmt.Errorf("parsing headers file %s: %w", path, err)
		}
		nodes = doc.Headers
	}

	if err = header.Validate(nodes); err != nil {
		return nil, fmt.Errorf("headers file %s: %w", path, err)
	}
	return nodes, nil
}

// openStore opens the job history, or returns nil when it is disabled or
// unavailable. History is best effort; exports never fail because of it.
func openStore(ctx context.Context, cfg *config.Config) *store.Store {
	if !cfg.Store.Enabled {
		return nil
	}
	path, err := cfg.StorePath()
	if err != nil {
		logger.Warn().Err(err).Msg("job store path unavailable")
		return nil
	}
	s, err := store.Open(ctx, path)
	if err != nil {
		logger.Warn().Err(err).Str("path", path).Msg("opening job store")
		return nil
	}
	return s
}

// runInteractiveExport runs the export behind a progress bar. The bar quits
// by itself on the terminal state.
func runInteractiveExport(
	ctx context.Context,
	w io.Writer,
	exporter *export.Exporter,
	src export.Source,
	opts export.Options,
) (export.State, error) {
	model := tui.NewExportModel(xlsx.FileName(opts.Filename), exporter.Cancel)
	p := tea.NewProgram(model, tea.WithContext(ctx), tea.WithOutput(w))

	unsubscribe := exporter.Subscribe(tui.Forward(p))
	defer unsubscribe()

	done := make(chan export.State, 1)
	go func() {
		done <- exporter.Export(ctx, src, opts)
	}()

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		exporter.Cancel()
		<-done
		return export.State{}, fmt.Errorf("running progress view: %w", err)
	}
	return <-done, nil
}

// runPlainExport runs the export in the foreground and prints status changes
// and every progressStep percent.
func runPlainExport(
	ctx context.Context,
	w io.Writer,
	exporter *export.Exporter,
	src export.Source,
	opts export.Options,
) export.State {
	var (
		lastStatus export.Status
		lastStep   = -1
	)
	unsubscribe := exporter.Subscribe(func(s export.State) {
		step := int(s.Progress) / progressStep
		if s.Status != lastStatus || (s.Status == export.StatusStreaming && step != lastStep) {
			_, _ = fmt.Fprintf(w, "%-10s %3.0f%%  %d/%d rows\n", s.Status, s.Progress, s.RowsProcessed, s.RowsTotal)
		}
		lastStatus, lastStep = s.Status, step
	})
	defer unsubscribe()

	return exporter.Export(ctx, src, opts)
}

// reportExport prints the summary of a finished job or converts its state
// into an error.
func reportExport(w io.Writer, final export.State, path string) error {
	switch final.Status {
	case export.StatusDone:
		printer := message.NewPrinter(language.English)
		_, _ = printer.Fprintf(w, "Exported %d rows to %s in %v\n",
			final.RowsTotal, path, final.Duration().Round(time.Millisecond))
		return nil
	case export.StatusCancelled:
		return &ExitError{Code: ExitCancelled, Err: ErrCancelled}
	case export.StatusError:
		return fmt.Errorf("export failed: %w", final.Err)
	default:
		return fmt.Errorf("export ended in unexpected state %q", final.Status)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
