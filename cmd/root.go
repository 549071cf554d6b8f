package cmd

import (
	"context"

	"github.com/jsphweid/pianov/config"
	"github.com/jsphweid/pianov/keyboard"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	cfg     config.Config
)

var rootCmd = &cobra.Command{
	Use:   "pianov",
	Short: "Lights up piano keys from a note stream",
	Long: `pianov decodes note streams into notes and shows which keys are
down as the song plays, in the terminal or over HTTP.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return err
		}
		cfg.SetupLogging()
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "yaml config file")
}

func layout() keyboard.Layout {
	return keyboard.Layout{Low: cfg.Keyboard.Low, High: cfg.Keyboard.High}
}

func Execute() {
	cobra.CheckErr(rootCmd.ExecuteContext(context.Background()))
}
