package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/MarcGrol/workersdeploy/lib/myconfig"
	"github.com/MarcGrol/workersdeploy/lib/myhttpclient"
	"github.com/MarcGrol/workersdeploy/lib/mykv"
	"github.com/MarcGrol/workersdeploy/lib/mypublisher"
	"github.com/MarcGrol/workersdeploy/lib/mypubsub"
	"github.com/MarcGrol/workersdeploy/lib/myqueue"
	"github.com/MarcGrol/workersdeploy/lib/mytime"
	"github.com/MarcGrol/workersdeploy/lib/myuuid"
	"github.com/MarcGrol/workersdeploy/services/app"
	"github.com/MarcGrol/workersdeploy/services/auth"
	"github.com/MarcGrol/workersdeploy/services/auth/oauthclient"
	"github.com/MarcGrol/workersdeploy/services/cloudflare"
	"github.com/MarcGrol/workersdeploy/services/githubapi"
	"github.com/MarcGrol/workersdeploy/services/secrets"
	"github.com/MarcGrol/workersdeploy/services/warmup"
)

func main() {
	c := context.Background()

	cfg, err := myconfig.Load(".env")
	if err != nil {
		log.Fatalf("Error loading configuration: %s", err)
	}
	err = cfg.ValidateForServer()
	if err != nil {
		log.Fatalf("Invalid configuration: %s", err)
	}

	router := mux.NewRouter()
	nower := mytime.RealNower{}

	kv, kvCleanup, err := mykv.New(c, cfg.RedisURL, cfg.GoogleCloudProject, nower)
	if err != nil {
		log.Fatalf("Error creating session store: %s", err)
	}
	defer kvCleanup()

	err = warmup.NewService(kv).RegisterEndpoints(c, router)
	if err != nil {
		log.Fatalf("Error registering warmup service: %s", err)
	}

	pubsub, pubsubCleanup, err := mypubsub.New(c)
	if err != nil {
		log.Fatalf("Error creating pubsub: %s", err)
	}
	defer pubsubCleanup()

	queue, queueCleanup, err := myqueue.New(c)
	if err != nil {
		log.Fatalf("Error creating queue: %s", err)
	}
	defer queueCleanup()

	publisher, publisherCleanup, err := mypublisher.New(c, pubsub, queue, nower)
	if err != nil {
		log.Fatalf("Error creating event publisher: %s", err)
	}
	defer publisherCleanup()
	publisher.RegisterEndpoints(c, router)

	sender := myhttpclient.NewJSONHTTPClient(myhttpclient.Options{
		MaxRPS: cfg.APIMaxRPS,
	})
	github := githubapi.NewClient(cfg.GithubAPIURL, sender)

	oauthClient := oauthclient.NewOAuthClient(oauthclient.Config{
		ClientID:     cfg.GithubClientID,
		ClientSecret: cfg.GithubClientSecret,
		OAuthURL:     cfg.GithubOAuthURL,
		Scopes:       strings.Split(cfg.GithubScopes, ","),
	}, &http.Client{Timeout: 10 * time.Second})

	authService := auth.NewService(kv, oauthClient, github, myuuid.RealUUIDer{}, publisher, cfg.SessionTTL, cfg.BaseURL)
	err = authService.RegisterEndpoints(c, router)
	if err != nil {
		log.Fatalf("Error registering auth service: %s", err)
	}

	secretsService := secrets.NewService(github, authService, publisher)
	err = secretsService.RegisterEndpoints(c, router)
	if err != nil {
		log.Fatalf("Error registering secrets service: %s", err)
	}

	cloudflareService := cloudflare.NewService(cloudflare.NewVerifier(cloudflare.NewClient(cfg.CloudflareAPIURL, sender)), publisher)
	err = cloudflareService.RegisterEndpoints(c, router)
	if err != nil {
		log.Fatalf("Error registering cloudflare service: %s", err)
	}

	appService := app.NewService(authService, cfg.StaticDir)
	err = appService.RegisterEndpoints(c, router)
	if err != nil {
		log.Fatalf("Error registering app service: %s", err)
	}

	startWebServerBlocking(cfg.Port, router)
}

func startWebServerBlocking(port string, router *mux.Router) {
	log.Printf("Starting webserver on port %s (try http://localhost:%s)", port, port)
	err := http.ListenAndServe(fmt.Sprintf(":%s", port), router)
	if err != nil {
		log.Fatalf("Error starting webserver on port %s: %s", port, err)
	}
}
