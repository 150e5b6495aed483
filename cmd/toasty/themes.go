package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/toasty/internal/config"
	"github.com/jmylchreest/toasty/internal/theme"
)

var themesCmd = &cobra.Command{
	Use:   "themes",
	Short: "List popup themes",
	Long: `List the CSS themes available to toastyd's popups. Themes in
~/.config/toasty/themes override bundled themes of the same name. The
configured theme is marked with *.`,
	Args: cobra.NoArgs,
	RunE: runThemes,
}

func init() {
	rootCmd.AddCommand(themesCmd)
}

func runThemes(cmd *cobra.Command, args []string) error {
	themes, err := theme.List(config.ThemesPath())
	if err != nil {
		return err
	}

	for _, t := range themes {
		mark := " "
		if t.Name == cfg.Display.Theme {
			mark = "*"
		}
		location := "bundled"
		if !t.Bundled {
			location = t.Path
		}
		fmt.Printf("%s %-16s %s\n", mark, t.Name, location)
	}
	return nil
}
