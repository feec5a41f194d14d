// Package cmd — команды CLI kpsummary.
package cmd

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"kp-summary/internal/config"
	"kp-summary/internal/errors"
)

// app — общее состояние команд, заполняется в PersistentPreRunE.
type app struct {
	v      *viper.Viper
	cfg    config.Config
	logger zerolog.Logger
}

// NewRootCmd собирает дерево команд; каждый вызов — новое дерево.
func NewRootCmd(version string) *cobra.Command {
	a := &app{v: config.New()}

	root := &cobra.Command{
		Use:   "kpsummary",
		Short: "Сводная таблица коммерческих предложений",
		Long: `kpsummary читает книгу КП (первый лист — титульный, остальные — поставщики)
и строит сводную таблицу: запрошенные позиции, варианты и аналоги по каждому
поставщику, минимальные цены и итоги.

Настройки берутся из флагов, переменных окружения (.env, .env.local) и
необязательного kpsummary.yaml.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			a.cfg = config.FromViper(a.v)
			// CLI пишет лог в файл, только если его попросили
			a.cfg.LogFile, _ = cmd.Flags().GetString("log-file")
			a.logger = config.SetupLogger(a.cfg)
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.String("log-level", "info", "уровень логов: trace, debug, info, warn, error")
	pf.String("log-file", "", "файл логов с ротацией (пусто — только консоль)")
	pf.String("lexicon", "", "YAML-словарь вместо встроенного")

	for key, flag := range map[string]string{
		config.KeyLogLevel:    "log-level",
		config.KeyLexiconFile: "lexicon",
	} {
		if err := a.v.BindPFlag(key, pf.Lookup(flag)); err != nil {
			panic(fmt.Sprintf("bind %s flag: %v", flag, err))
		}
	}

	root.AddCommand(newBuildCmd(a), newLexiconCmd())
	return root
}

// ExitCode: 2 — плохой вход, 1 — прочие ошибки.
func ExitCode(err error) int {
	if errors.IsInvalidInput(err) {
		return 2
	}
	return 1
}
