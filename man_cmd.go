package main

import (
	"fmt"

	mcobra "github.com/muesli/mango-cobra"
	"github.com/muesli/roff"
	"github.com/spf13/cobra"
)

var manCmd = &cobra.Command{
	Use:          "man",
	Short:        "Generate man page",
	Long:         paragraph("\nGenerate the man page for calmgen and print it to stdout."),
	SilenceUsage: true,
	Hidden:       true,
	Args:         cobra.NoArgs,
	RunE: func(*cobra.Command, []string) error {
		manPage, err := mcobra.NewManPage(1, rootCmd)
		if err != nil {
			return fmt.Errorf("unable to create man page: %w", err)
		}

		manPage = manPage.WithSection("Copyright", "Released under the MIT license.")
		fmt.Println(manPage.Build(roff.NewDocument()))
		return nil
	},
}
