package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/MarcGrol/workersdeploy/lib/mylog"
)

var (
	githubToken string
	cachePath   string
	envFile     string
	verbose     bool

	rootCmd = &cobra.Command{
		Use:   "deployctl",
		Short: "Deploy a Cloudflare Workers template from your terminal",
		Long: `deployctl forks a Workers template into your GitHub account, stores your Cloudflare
credentials and project settings on the fork and starts its deployment workflow.

Progress is cached, so an interrupted deploy resumes where it stopped.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// log lines would garble the spinner
			severity := mylog.ParseSeverity(os.Getenv("LOG_LEVEL"), mylog.SeverityWarn)
			if verbose {
				severity = mylog.SeverityDebug
			}
			mylog.SetMinSeverity(severity)
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&githubToken, "github-token", os.Getenv("GITHUB_TOKEN"), "github token with public_repo scope (default $GITHUB_TOKEN)")
	rootCmd.PersistentFlags().StringVar(&cachePath, "cache", defaultCachePath(), "file to keep wizard progress in")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log everything that happens")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "optional dot-env file with configuration")

	rootCmd.AddCommand(deployCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(startOverCmd)
}

func main() {
	c, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(c); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
