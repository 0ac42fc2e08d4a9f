package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"

	"github.com/MarcGrol/workersdeploy/lib/mycache"
	"github.com/MarcGrol/workersdeploy/lib/myconfig"
	"github.com/MarcGrol/workersdeploy/lib/myhttpclient"
	"github.com/MarcGrol/workersdeploy/lib/mypublisher"
	"github.com/MarcGrol/workersdeploy/lib/mypubsub"
	"github.com/MarcGrol/workersdeploy/lib/myqueue"
	"github.com/MarcGrol/workersdeploy/lib/mytime"
	"github.com/MarcGrol/workersdeploy/services/cloudflare"
	"github.com/MarcGrol/workersdeploy/services/deploy"
	"github.com/MarcGrol/workersdeploy/services/githubapi"
	"github.com/MarcGrol/workersdeploy/services/secrets"
	"github.com/MarcGrol/workersdeploy/services/wizard"
	"github.com/MarcGrol/workersdeploy/services/workflowstatus"
)

// environment is everything a command needs, wired from configuration.
type environment struct {
	cfg        myconfig.Config
	cache      mycache.Cache
	controller *wizard.Controller
	poller     *workflowstatus.Poller
	cleanup    func()
}

func newEnvironment(c context.Context) (*environment, error) {
	cfg, err := myconfig.Load(envFile)
	if err != nil {
		return nil, err
	}

	err = os.MkdirAll(filepath.Dir(cachePath), 0700)
	if err != nil {
		return nil, fmt.Errorf("error creating cache directory: %s", err)
	}
	cache, cacheCleanup, err := mycache.NewSQLiteCache(cachePath, mytime.RealNower{})
	if err != nil {
		return nil, err
	}

	pubsub, pubsubCleanup, err := mypubsub.New(c)
	if err != nil {
		cacheCleanup()
		return nil, err
	}
	queue, queueCleanup, err := myqueue.New(c)
	if err != nil {
		pubsubCleanup()
		cacheCleanup()
		return nil, err
	}
	publisher, publisherCleanup, err := mypublisher.New(c, pubsub, queue, mytime.RealNower{})
	if err != nil {
		queueCleanup()
		pubsubCleanup()
		cacheCleanup()
		return nil, err
	}

	sender := myhttpclient.NewJSONHTTPClient(myhttpclient.Options{
		MaxRPS: cfg.APIMaxRPS,
	})
	github := githubapi.NewClient(cfg.GithubAPIURL, sender)
	verifier := cloudflare.NewVerifier(cloudflare.NewClient(cfg.CloudflareAPIURL, sender))
	deployer := deploy.NewDeployer(github, secrets.NewPropagator(github, publisher))

	return &environment{
		cfg:        cfg,
		cache:      cache,
		controller: wizard.NewController(cache, verifier, deployer),
		poller:     workflowstatus.NewPoller(github, workflowstatus.DefaultTick),
		cleanup: func() {
			// the terminal has no task queue calling back: deliver what was recorded before leaving
			err := flushOutbox(c, publisher)
			if err != nil {
				fmt.Fprintf(os.Stderr, "%s %s\n", color.YellowString("!"), err)
			}
			publisherCleanup()
			queueCleanup()
			pubsubCleanup()
			cacheCleanup()
		},
	}, nil
}

type outboxFlusher interface {
	Flush(c context.Context) (int, error)
}

// flushOutbox also runs after ctrl-c, when c is already cancelled.
func flushOutbox(c context.Context, flusher outboxFlusher) error {
	c, cancel := context.WithTimeout(context.WithoutCancel(c), 10*time.Second)
	defer cancel()

	_, err := flusher.Flush(c)
	return err
}

func defaultCachePath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "deployctl", "wizard.db")
}

func startSpinner(message string) *spinner.Spinner {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " " + message
	_ = s.Color("cyan")
	s.Start()
	return s
}

func succeed(s *spinner.Spinner, message string) {
	s.Stop()
	fmt.Printf("%s %s\n", color.GreenString("✓"), message)
}

func fail(s *spinner.Spinner, message string, err error) error {
	s.Stop()
	fmt.Printf("%s %s\n", color.RedString("✗"), message)
	return err
}

func hint(format string, args ...any) {
	fmt.Printf("%s %s\n", color.CyanString("→"), fmt.Sprintf(format, args...))
}
