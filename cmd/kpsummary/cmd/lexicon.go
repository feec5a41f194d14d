package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"kp-summary/internal/reconcile/lexicon"
)

// newLexiconCmd: без аргументов печатает встроенный словарь, с файлом — проверяет его.
func newLexiconCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lexicon [file.yaml]",
		Short: "Показать встроенный словарь или проверить свой",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				_, err := cmd.OutOrStdout().Write(lexicon.DefaultYAML())
				return err
			}
			lex, err := lexicon.Load(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%d stop words, %d synonym classes, %d categories, %d spec patterns)\n",
				args[0], len(lex.StopWords), len(lex.Synonyms), len(lex.Categories), len(lex.SpecPatterns))
			return nil
		},
	}
}
