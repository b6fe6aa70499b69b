// Package github builds authenticated GitHub API clients for the deploy
// adapter. Two auth modes are supported: a personal access token for local
// use, and a GitHub App installation for deployed environments. Either can
// be pointed at a non-default base URL (e.g. a mock server) for testing.
package github

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/bradleyfalzon/ghinstallation/v2"
	gogithub "github.com/google/go-github/v75/github"
	"golang.org/x/oauth2"
)

const defaultAPIURL = "https://api.github.com"

// NewTokenClient returns a client authenticated with a personal access
// token. An empty baseURL targets the real GitHub API.
func NewTokenClient(token, baseURL string) *gogithub.Client {
	var httpClient *http.Client
	if token != "" {
		src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpClient = oauth2.NewClient(context.Background(), src)
	}
	c := gogithub.NewClient(httpClient)
	setBaseURL(c, baseURL)
	return c
}

// NewAppClient returns a client authenticated as a GitHub App installation.
// privateKeyPath points at the app's PEM private key.
func NewAppClient(appID, installationID int64, privateKeyPath, baseURL string) (*gogithub.Client, error) {
	apiURL := baseURL
	if apiURL == "" {
		apiURL = defaultAPIURL
	}

	tr, err := ghinstallation.NewKeyFromFile(http.DefaultTransport, appID, installationID, privateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("github app auth: %w", err)
	}
	tr.BaseURL = apiURL

	c := gogithub.NewClient(&http.Client{Transport: tr})
	setBaseURL(c, baseURL)
	return c, nil
}

func setBaseURL(c *gogithub.Client, baseURL string) {
	if baseURL == "" || baseURL == defaultAPIURL {
		return
	}
	u, err := url.Parse(baseURL + "/")
	if err != nil {
		return
	}
	c.BaseURL = u
}
