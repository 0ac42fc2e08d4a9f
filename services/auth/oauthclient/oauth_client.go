package oauthclient

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
)

const defaultOAuthURL = "https://github.com"

type Config struct {
	ClientID     string
	ClientSecret string
	OAuthURL     string
	Scopes       []string
}

type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	Scope       string `json:"scope"`
}

//go:generate mockgen -source=oauth_client.go -package oauthclient -destination oauth_client_mock.go OauthClient
type OauthClient interface {
	ComposeAuthURL(c context.Context, state string) string
	GetAccessToken(c context.Context, code string) (Token, error)
}

type oauthClient struct {
	config     oauth2.Config
	httpClient *http.Client
}

func NewOAuthClient(cfg Config, httpClient *http.Client) OauthClient {
	return &oauthClient{
		config: oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint:     endpointFor(cfg.OAuthURL),
			Scopes:       cfg.Scopes,
		},
		httpClient: httpClient,
	}
}

func endpointFor(oauthURL string) oauth2.Endpoint {
	oauthURL = strings.TrimSuffix(oauthURL, "/")
	if oauthURL == "" || oauthURL == defaultOAuthURL {
		return github.Endpoint
	}
	return oauth2.Endpoint{
		AuthURL:   oauthURL + "/login/oauth/authorize",
		TokenURL:  oauthURL + "/login/oauth/access_token",
		AuthStyle: oauth2.AuthStyleInParams,
	}
}

// ComposeAuthURL returns the authorize url the browser is sent to. An empty state is left out of the url.
func (oc *oauthClient) ComposeAuthURL(c context.Context, state string) string {
	return oc.config.AuthCodeURL(state)
}

func (oc *oauthClient) GetAccessToken(c context.Context, code string) (Token, error) {
	if oc.httpClient != nil {
		c = context.WithValue(c, oauth2.HTTPClient, oc.httpClient)
	}

	tok, err := oc.config.Exchange(c, code)
	if err != nil {
		return Token{}, fmt.Errorf("error exchanging code for token: %w", err)
	}

	scope, _ := tok.Extra("scope").(string)

	return Token{
		AccessToken: tok.AccessToken,
		TokenType:   tok.TokenType,
		Scope:       scope,
	}, nil
}
