package main

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/MarcGrol/workersdeploy/services/workflowstatus"
)

var statusCmd = &cobra.Command{
	Use:   "status [owner/repo]",
	Short: "Follow the deployment workflow of a fork",
	Long:  "Follows the deployment workflow of the given repository, or of the fork made by the last deploy.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := cmd.Context()

		env, err := newEnvironment(c)
		if err != nil {
			return err
		}
		defer env.cleanup()

		fullName := ""
		if len(args) > 0 {
			fullName = args[0]
		} else {
			fullName, _, err = env.cache.Get(c, "forkedRepo")
			if err != nil {
				return err
			}
		}
		if fullName == "" {
			return fmt.Errorf("nothing deployed yet; pass the repository as owner/repo")
		}

		return followWorkflow(c, env, fullName)
	},
}

func followWorkflow(c context.Context, env *environment, fullName string) error {
	s := startSpinner(fmt.Sprintf("Waiting for the deployment workflow of %s...", fullName))

	handle := env.poller.Start(c, githubToken, fullName)
	defer handle.Stop()

	for u := range handle.Updates() {
		s.Suffix = fmt.Sprintf(" Deployment %s", u.Status)
		if u.RunURL != "" {
			s.Suffix += " (" + u.RunURL + ")"
		}
	}
	<-handle.Done()

	last := handle.Last()
	switch last.Status {
	case workflowstatus.StatusSuccessful:
		succeed(s, "Deployment successful")
		return nil
	case workflowstatus.StatusFailed:
		return fail(s, "Deployment failed", fmt.Errorf("workflow run %d of %s failed", last.RunID, fullName))
	case workflowstatus.StatusError:
		err := last.Err
		if err == nil {
			err = fmt.Errorf("workflow run %d of %s ended unsuccessfully", last.RunID, fullName)
		}
		return fail(s, "Deployment errored", err)
	default:
		s.Stop()
		fmt.Printf("%s Stopped following %s\n", color.YellowString("!"), fullName)
		return c.Err()
	}
}
