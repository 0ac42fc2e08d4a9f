package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var startOverCmd = &cobra.Command{
	Use:   "start-over",
	Short: "Forget all wizard progress",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := cmd.Context()

		env, err := newEnvironment(c)
		if err != nil {
			return err
		}
		defer env.cleanup()

		err = env.controller.StartOver(c)
		if err != nil {
			return err
		}

		fmt.Printf("%s %s\n", color.GreenString("✓"), "Wizard progress cleared")
		return nil
	},
}
