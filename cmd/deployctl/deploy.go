package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/MarcGrol/workersdeploy/services/wizard"
)

var (
	accountID     string
	apiToken      string
	fieldSpecs    []string
	fieldValues   []string
	apiTokenTmpl  string
	apiTokenName  string
	paid          bool
	waitForDeploy bool

	deployCmd = &cobra.Command{
		Use:   "deploy [template-url]",
		Short: "Fork a template, configure it and start its deployment",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			templateURL := ""
			if len(args) > 0 {
				templateURL = args[0]
			}
			return runDeploy(cmd.Context(), templateURL)
		},
	}
)

func init() {
	deployCmd.Flags().StringVar(&accountID, "account-id", os.Getenv("CLOUDFLARE_ACCOUNT_ID"), "cloudflare account id (default $CLOUDFLARE_ACCOUNT_ID)")
	deployCmd.Flags().StringVar(&apiToken, "api-token", os.Getenv("CLOUDFLARE_API_TOKEN"), "cloudflare api token (default $CLOUDFLARE_API_TOKEN)")
	deployCmd.Flags().StringArrayVar(&fieldSpecs, "fields", nil, `project field descriptor as in the deploy button, e.g. {"name":"Greeting","secret":"GREETING","descr":"What to say"}`)
	deployCmd.Flags().StringArrayVar(&fieldValues, "set", nil, "project field value as SECRET_NAME=value")
	deployCmd.Flags().StringVar(&apiTokenTmpl, "api-token-tmpl", "", "permission template for creating the api token")
	deployCmd.Flags().StringVar(&apiTokenName, "api-token-name", "", "suggested name for the api token")
	deployCmd.Flags().BoolVar(&paid, "paid", false, "template needs a paid workers plan")
	deployCmd.Flags().BoolVar(&waitForDeploy, "wait", true, "follow the deployment workflow until it finishes")
}

func runDeploy(c context.Context, templateURL string) error {
	env, err := newEnvironment(c)
	if err != nil {
		return err
	}
	defer env.cleanup()

	wc := env.controller
	m, err := wc.Bootstrap(c, wizard.Query{
		URL:          templateURL,
		Fields:       fieldSpecs,
		APITokenTmpl: apiTokenTmpl,
		APITokenName: apiTokenName,
		Paid:         paid,
	}, wizard.Session{
		Authed:      githubToken != "",
		AccessToken: githubToken,
	})
	if err != nil {
		return err
	}

	if wc.Deployed() {
		hint("%s was deployed before; run deployctl start-over to deploy again", wc.ForkedRepo())
	}

	for !m.IsFinal() {
		fmt.Printf("%s\n", color.New(color.Bold).Sprintf("Step %d: %s", m.Step, stepTitle(m.State)))

		switch m.State {
		case wizard.StateMissingURL:
			hint("Pass the github url of a template, e.g. deployctl deploy https://github.com/cloudflare/worker-template")
			return fmt.Errorf("no template url")

		case wizard.StateLogin:
			hint("Set GITHUB_TOKEN or pass --github-token with a token that has the public_repo scope")
			return fmt.Errorf("not logged in to github")

		case wizard.StateConfiguringAccount:
			if wc.Paid() {
				hint("This template needs a paid workers plan")
			}
			if accountID == "" || apiToken == "" {
				hint("Create an api token at %s", wc.APITokenURL())
				return fmt.Errorf("missing --account-id or --api-token")
			}
			s := startSpinner("Verifying cloudflare credentials...")
			err = wc.SubmitAccount(c, accountID, apiToken)
			if err != nil {
				return fail(s, "Cloudflare rejected the credentials", err)
			}
			succeed(s, "Cloudflare credentials verified")

		case wizard.StateConfiguringProject:
			values, err := parseFieldValues(fieldValues)
			if err != nil {
				return err
			}
			err = wc.ConfigureProject(c, values)
			if err != nil {
				for _, f := range wc.Fields() {
					hint("--set %s=<%s: %s>", f.SecretName, f.Name, f.Description)
				}
				return err
			}

		case wizard.StateDeployingSetup:
			if wc.ForkedRepo() == "" {
				s := startSpinner("Forking and configuring repository...")
				err = wc.Fork(c)
				if err != nil {
					return fail(s, "Forking failed; run deployctl start-over to try again", err)
				}
				succeed(s, fmt.Sprintf("Forked into %s", wc.ForkedRepo()))
			}
			s := startSpinner("Starting deployment...")
			err = wc.Dispatch(c)
			if err != nil {
				return fail(s, "Starting the deployment failed; run deployctl start-over to try again", err)
			}
			succeed(s, "Deployment started")

		default:
			return fmt.Errorf("wizard is stuck in %s; run deployctl start-over", m.State)
		}

		m = wc.Machine()
	}

	fmt.Printf("%s %s\n", color.GreenString("✓"), "Done")
	hint("Repository: https://github.com/%s", wc.ForkedRepo())
	if wc.WorkersURL() != "" {
		hint("Workers: %s", wc.WorkersURL())
	}

	if !waitForDeploy {
		return nil
	}
	return followWorkflow(c, env, wc.ForkedRepo())
}

func parseFieldValues(raws []string) (map[string]string, error) {
	values := map[string]string{}
	for _, raw := range raws {
		name, value, found := strings.Cut(raw, "=")
		if !found || name == "" {
			return nil, fmt.Errorf("'%s' is not of the form SECRET_NAME=value", raw)
		}
		values[name] = value
	}
	return values, nil
}

func stepTitle(s wizard.State) string {
	switch s {
	case wizard.StateMissingURL:
		return "Choose a template"
	case wizard.StateLogin:
		return "Log in to GitHub"
	case wizard.StateConfiguringAccount:
		return "Configure Cloudflare account"
	case wizard.StateConfiguringProject:
		return "Configure project"
	case wizard.StateDeployingSetup:
		return "Deploy"
	default:
		return string(s)
	}
}
