package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dgallion1/tgschema/internal/parser"
	"github.com/dgallion1/tgschema/internal/pipeline"
	"github.com/dgallion1/tgschema/internal/schema"
	"github.com/dgallion1/tgschema/internal/source"
)

// GenerateConfig holds the options of one generate run.
type GenerateConfig struct {
	InputPath    string
	URL          string
	OutputPath   string
	Format       string
	SourceFormat string
	LinkBase     string
}

func newGenerateCommand(a *app) *cobra.Command {
	var gc GenerateConfig

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Build the schema from a local file or a URL",
		Long: "Build the schema from a local HTML or Markdown reference (--input) or\n" +
			"download it (--url, default DOCS_URL) and write it as JSON or YAML.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.generate(cmd, &gc)
		},
	}

	cmd.Flags().StringVar(&gc.InputPath, "input", "", "Path to a saved reference page (.html, .htm, .md, .markdown)")
	cmd.Flags().StringVar(&gc.URL, "url", "", "URL of the reference page (default DOCS_URL)")
	cmd.Flags().StringVarP(&gc.OutputPath, "output", "o", "-", "Path to output file or '-' for stdout")
	cmd.Flags().StringVar(&gc.Format, "format", "", "Output format: json or yaml (default OUTPUT_FORMAT)")
	cmd.Flags().StringVar(&gc.SourceFormat, "source-format", "", "Source markup: html or markdown (default from the input extension)")
	cmd.Flags().StringVar(&gc.LinkBase, "link-base", "", "Prefix for relative heading links (default LINK_BASE_URL)")
	cmd.MarkFlagsMutuallyExclusive("input", "url")

	return cmd
}

func (a *app) generate(cmd *cobra.Command, gc *GenerateConfig) error {
	if gc.Format == "" {
		gc.Format = a.cfg.OutputFormat
	}
	output, err := schema.ParseFormat(gc.Format)
	if err != nil {
		return err
	}

	in, err := a.generateInput(gc)
	if err != nil {
		return err
	}

	cfg := a.cfg
	if gc.LinkBase != "" {
		cfg.LinkBaseURL = gc.LinkBase
	}
	client := source.NewClient(cfg.FetchTimeout, cfg.FetchMaxBytes)
	defer client.Close()
	orch := pipeline.NewOrchestrator(cfg, client, a.log)

	s, job, err := orch.Run(cmd.Context(), in)
	if err != nil {
		snap := job.Snapshot()
		return fmt.Errorf("build failed in %s (%s): %w", snap.Phase, snap.Progress.ErrorKind, err)
	}

	if gc.OutputPath == "-" {
		return schema.Encode(cmd.OutOrStdout(), s, output)
	}
	if err := writeAtomic(gc.OutputPath, func(w io.Writer) error {
		return schema.Encode(w, s, output)
	}); err != nil {
		return err
	}
	types, methods := s.Counts()
	a.log.Info("schema written", "path", gc.OutputPath, "format", output, "types", types, "methods", methods)
	return nil
}

func (a *app) generateInput(gc *GenerateConfig) (pipeline.Input, error) {
	var in pipeline.Input
	switch {
	case gc.InputPath != "":
		data, err := os.ReadFile(filepath.Clean(gc.InputPath))
		if err != nil {
			return in, fmt.Errorf("read input: %w", err)
		}
		in.Filename = filepath.Base(gc.InputPath)
		in.Data = data
		if gc.SourceFormat == "" {
			if in.Format, err = parser.ForFile(in.Filename); err != nil {
				return in, err
			}
		}
	case gc.URL != "":
		in.URL = gc.URL
	default:
		in.URL = a.cfg.DocsURL
	}

	if gc.SourceFormat != "" {
		f, err := parser.ParseFormat(gc.SourceFormat)
		if err != nil {
			return in, err
		}
		in.Format = f
	}
	if in.URL == "" && len(bytes.TrimSpace(in.Data)) == 0 {
		return in, fmt.Errorf("input %s is empty", gc.InputPath)
	}
	return in, nil
}

// writeAtomic writes through a temp file in the target directory and renames
// it into place, so readers never see a partial schema.
func writeAtomic(path string, write func(io.Writer) error) error {
	dir := filepath.Dir(path)
	if fi, err := os.Stat(dir); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("output directory %s does not exist", dir)
		}
		return err
	} else if !fi.IsDir() {
		return fmt.Errorf("output path %s is not a directory", dir)
	}

	tmp, err := os.CreateTemp(dir, ".tgschema-*.tmp")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if err := tmp.Chmod(0o644); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := write(tmp); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
