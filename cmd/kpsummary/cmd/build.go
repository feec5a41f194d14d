package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"kp-summary/internal/config"
	"kp-summary/internal/errors"
	"kp-summary/internal/fileio"
	"kp-summary/internal/reconcile"
	"kp-summary/internal/reconcile/lexicon"
	"kp-summary/internal/reconcile/model"
	"kp-summary/internal/reconcile/service"
)

const (
	formatXLSX = "xlsx"
	formatJSON = "json"
)

type buildFlags struct {
	output string
	format string
	pretty bool
}

func newBuildCmd(a *app) *cobra.Command {
	var f buildFlags
	cmd := &cobra.Command{
		Use:   "build <kp.xlsx|kp.xls|kp.csv>",
		Short: "Построить сводную таблицу по книге КП",
		Example: `  kpsummary build kp.xlsx
  kpsummary build kp.xls -o svod.xlsx
  kpsummary build kp.xlsx --format json -o -
  kpsummary build kp.xlsx --lexicon my-lexicon.yaml --analog-suffix "(аналог %d)"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runBuild(cmd, args[0], f)
		},
	}
	fl := cmd.Flags()
	fl.StringVarP(&f.output, "output", "o", "", `выходной файл ("-" — stdout; по умолчанию <вход>_свод.xlsx)`)
	fl.StringVarP(&f.format, "format", "f", formatXLSX, "формат: xlsx или json")
	fl.BoolVar(&f.pretty, "pretty", true, "JSON с отступами")
	fl.String("variant-suffix", service.DefaultVariantSuffix, "подпись строк-вариантов, %d — номер")
	fl.String("analog-suffix", service.DefaultAnalogSuffix, "подпись строк-аналогов, %d — номер")
	for key, flag := range map[string]string{
		config.KeyVariantSuffix: "variant-suffix",
		config.KeyAnalogSuffix:  "analog-suffix",
	} {
		if err := a.v.BindPFlag(key, fl.Lookup(flag)); err != nil {
			panic(fmt.Sprintf("bind %s flag: %v", flag, err))
		}
	}
	return cmd
}

func (a *app) runBuild(cmd *cobra.Command, input string, f buildFlags) error {
	format := strings.ToLower(f.format)
	if format != formatXLSX && format != formatJSON {
		return errors.NewValidationError("--format", "expected xlsx or json, got "+f.format, nil)
	}

	lex, err := lexicon.LoadOrDefault(a.cfg.LexiconFile)
	if err != nil {
		return err
	}

	in, err := os.Open(input)
	if err != nil {
		return err
	}
	defer in.Close()

	opts := service.Options{
		Lexicon:       lex,
		Observer:      service.ZerologObserver{Logger: a.logger},
		VariantSuffix: a.cfg.VariantSuffix,
		AnalogSuffix:  a.cfg.AnalogSuffix,
	}
	tbl, err := reconcile.Build(cmd.Context(), in, input, opts)
	if err != nil {
		return err
	}

	out := f.output
	if out == "" {
		out = filepath.Join(filepath.Dir(input), fileio.SummaryName(input))
		if format == formatJSON {
			out = strings.TrimSuffix(out, ".xlsx") + ".json"
		}
	}
	if err := writeTable(cmd, out, format, f.pretty, tbl); err != nil {
		return err
	}

	a.logger.Info().
		Str("input", input).
		Str("output", out).
		Int("suppliers", len(tbl.Suppliers)).
		Int("rows", len(tbl.Rows)).
		Bool("flat", tbl.Flat).
		Msg("summary written")
	if out != "-" {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s: %d suppliers, %d rows\n", out, len(tbl.Suppliers), len(tbl.Rows))
	}
	return nil
}

func writeTable(cmd *cobra.Command, out, format string, pretty bool, tbl model.Table) error {
	encode := func(w io.Writer) error {
		if format == formatJSON {
			enc := json.NewEncoder(w)
			if pretty {
				enc.SetIndent("", "  ")
			}
			return enc.Encode(tbl)
		}
		return fileio.WriteXLSX(w, tbl)
	}
	if out == "-" {
		return encode(cmd.OutOrStdout())
	}
	file, err := os.Create(out)
	if err != nil {
		return err
	}
	return writeAndClose(file, encode)
}

// writeAndClose закрывает wc в любом случае; ошибка Close возвращается,
// если сама запись прошла без ошибки.
func writeAndClose(wc io.WriteCloser, write func(io.Writer) error) (err error) {
	defer func() {
		if cerr := wc.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("close output: %w", cerr)
		}
	}()
	return write(wc)
}
