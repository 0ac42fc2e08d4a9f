package wizard

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/MarcGrol/workersdeploy/lib/mycache"
	"github.com/MarcGrol/workersdeploy/lib/myerrors"
	"github.com/MarcGrol/workersdeploy/lib/mytime"
	"github.com/MarcGrol/workersdeploy/services/cloudflare"
	"github.com/MarcGrol/workersdeploy/services/deploy"
)

const (
	exampleTemplateURL = "https://github.com/octo/widget"
	exampleToken       = "gho_abc"
	exampleField       = `{"name":"Greeting","secret":"GREETING","descr":"What to say"}`
)

var exampleSession = Session{Authed: true, AccessToken: exampleToken}

func TestBootstrap(t *testing.T) {

	t.Run("Without url", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		sut, _, _, _ := setup(ctrl)

		// when
		m, err := sut.Bootstrap(context.TODO(), Query{}, exampleSession)

		// then
		assert.NoError(t, err)
		assert.Equal(t, Machine{State: StateMissingURL, Step: 1}, m)
	})

	t.Run("Rejected url is ignored", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		sut, _, _, _ := setup(ctrl)

		// when
		m, err := sut.Bootstrap(context.TODO(), Query{URL: "https://evil.example.com/octo/widget"}, exampleSession)

		// then
		assert.NoError(t, err)
		assert.Equal(t, StateMissingURL, m.State)
		assert.Empty(t, sut.URL())
	})

	t.Run("Not logged in", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		sut, _, _, _ := setup(ctrl)

		// when
		m, err := sut.Bootstrap(context.TODO(), Query{URL: exampleTemplateURL}, Session{})

		// then
		assert.NoError(t, err)
		assert.Equal(t, Machine{State: StateLogin, Step: 1}, m)
		assert.False(t, sut.NeedsReload())
	})

	t.Run("Session not readable yet", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		sut, _, _, _ := setup(ctrl)

		// when
		m, err := sut.Bootstrap(context.TODO(), Query{URL: exampleTemplateURL}, Session{Authed: true})

		// then
		assert.NoError(t, err)
		assert.Equal(t, StateLogin, m.State)
		assert.True(t, sut.NeedsReload())
	})

	t.Run("Logged in", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		sut, cache, _, _ := setup(ctrl)

		// when
		m, err := sut.Bootstrap(context.TODO(), Query{URL: exampleTemplateURL, Fields: []string{exampleField}, APITokenTmpl: "tmpl", APITokenName: "Widget", Paid: true}, exampleSession)

		// then
		assert.NoError(t, err)
		assert.Equal(t, Machine{State: StateConfiguringAccount, Step: 2}, m)
		assert.Equal(t, exampleTemplateURL, sut.URL())
		assert.Equal(t, []Field{{Name: "Greeting", SecretName: "GREETING", Description: "What to say"}}, sut.Fields())
		assert.True(t, sut.Paid())
		assert.Equal(t, "https://dash.cloudflare.com/profile/api-tokens?name=Widget&permissionGroupKeys=tmpl", sut.APITokenURL())
		assertCached(t, cache, "url", exampleTemplateURL)
		assertCached(t, cache, "apiTokenTmpl", "tmpl")
	})

	t.Run("Misconfigured fields", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		sut, _, _, _ := setup(ctrl)

		// when
		_, err := sut.Bootstrap(context.TODO(), Query{URL: exampleTemplateURL, Fields: []string{`{"name":"x"}`}}, exampleSession)

		// then
		assert.Error(t, err)
		assert.Equal(t, 400, myerrors.GetHTTPStatus(err))
	})

	t.Run("Cached values win over query", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		sut, cache, _, _ := setup(ctrl)

		// given
		givenCached(t, cache, map[string]string{
			"url":          exampleTemplateURL,
			"apiTokenTmpl": "cached-tmpl",
			"accountId":    "acc1",
			"fields":       `[{"name":"Greeting","secretName":"GREETING","description":"What to say","value":"hi"}]`,
		})

		// when
		_, err := sut.Bootstrap(context.TODO(), Query{URL: exampleTemplateURL, APITokenTmpl: "query-tmpl", Fields: []string{`{"name":"b","secret":"B","descr":"y"}`}}, exampleSession)

		// then
		assert.NoError(t, err)
		assert.Equal(t, "https://dash.cloudflare.com/profile/api-tokens?permissionGroupKeys=cached-tmpl", sut.APITokenURL())
		assert.Equal(t, "acc1", sut.AccountID())
		assert.Equal(t, "hi", sut.Fields()[0].Value)
	})

	t.Run("Cached url used without query url", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		sut, cache, _, _ := setup(ctrl)

		// given
		givenCached(t, cache, map[string]string{"url": exampleTemplateURL})

		// when
		m, err := sut.Bootstrap(context.TODO(), Query{}, exampleSession)

		// then
		assert.NoError(t, err)
		assert.Equal(t, StateConfiguringAccount, m.State)
		assert.Equal(t, exampleTemplateURL, sut.URL())
	})

	t.Run("Cached fork resumes at deploy", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		sut, cache, _, _ := setup(ctrl)

		// given
		givenCached(t, cache, map[string]string{
			"url":        exampleTemplateURL,
			"forkedRepo": "me/widget",
		})

		// when
		m, err := sut.Bootstrap(context.TODO(), Query{URL: exampleTemplateURL}, exampleSession)

		// then
		assert.NoError(t, err)
		assert.Equal(t, Machine{State: StateDeployingSetup, Step: 3}, m)
		assert.False(t, sut.Deployed())
	})

	t.Run("Dispatched fork is completed", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		sut, cache, _, _ := setup(ctrl)

		// given
		givenCached(t, cache, map[string]string{
			"url":        exampleTemplateURL,
			"forkedRepo": "me/widget",
			"deployed":   "true",
		})

		// when
		m, err := sut.Bootstrap(context.TODO(), Query{URL: exampleTemplateURL}, exampleSession)

		// then
		assert.NoError(t, err)
		assert.Equal(t, Machine{State: StateCompleted, Step: 3}, m)
		assert.True(t, sut.Deployed())
		assert.Equal(t, "me/widget", sut.ForkedRepo())

		err = sut.Dispatch(context.TODO())
		assert.Equal(t, 409, myerrors.GetHTTPStatus(err))
	})

	t.Run("Other url clears cache", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		sut, cache, _, _ := setup(ctrl)

		// given
		givenCached(t, cache, map[string]string{
			"url":        "https://github.com/octo/other",
			"forkedRepo": "me/other",
		})

		// when
		m, err := sut.Bootstrap(context.TODO(), Query{URL: exampleTemplateURL}, exampleSession)

		// then
		assert.NoError(t, err)
		assert.Equal(t, StateConfiguringAccount, m.State)
		assert.Empty(t, sut.ForkedRepo())
		assertCached(t, cache, "url", exampleTemplateURL)
		_, found, _ := cache.Get(context.TODO(), "forkedRepo")
		assert.False(t, found)
	})
}

func TestSetURL(t *testing.T) {
	ctrl := gomock.NewController(t)
	sut, cache, _, _ := setup(ctrl)

	_, err := sut.Bootstrap(context.TODO(), Query{}, exampleSession)
	assert.NoError(t, err)

	t.Run("Rejected", func(t *testing.T) {
		err := sut.SetURL(context.TODO(), "https://gitlab.com/octo/widget")

		assert.Equal(t, 400, myerrors.GetHTTPStatus(err))
		assert.Equal(t, StateMissingURL, sut.Machine().State)
	})

	t.Run("Accepted", func(t *testing.T) {
		err := sut.SetURL(context.TODO(), exampleTemplateURL)

		assert.NoError(t, err)
		assert.Equal(t, Machine{State: StateConfiguringAccount, Step: 2}, sut.Machine())
		assertCached(t, cache, "url", exampleTemplateURL)
	})

	t.Run("Only once", func(t *testing.T) {
		err := sut.SetURL(context.TODO(), exampleTemplateURL)

		assert.Equal(t, 409, myerrors.GetHTTPStatus(err))
	})
}

func TestWizardScenarios(t *testing.T) {

	t.Run("Template without fields", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		sut, cache, verifier, deployer := setup(ctrl)

		// given
		verifier.EXPECT().Verify(gomock.Any(), "acc1", "cf-token").Return(cloudflare.Account{ID: "acc1"}, nil)
		deployer.EXPECT().Fork(gomock.Any(), exampleToken, deploy.ForkRequest{
			TemplateURL: exampleTemplateURL,
			AccountID:   "acc1",
			APIToken:    "cf-token",
			Variables:   []deploy.Variable{},
		}).Return("me/widget", nil)
		deployer.EXPECT().Dispatch(gomock.Any(), exampleToken, "me/widget").Return(nil)

		// when
		_, err := sut.Bootstrap(context.TODO(), Query{URL: exampleTemplateURL}, exampleSession)
		assert.NoError(t, err)
		err = sut.SubmitAccount(context.TODO(), "acc1", "cf-token")
		assert.NoError(t, err)
		assert.Equal(t, Machine{State: StateDeployingSetup, Step: 3}, sut.Machine())
		err = sut.Fork(context.TODO())
		assert.NoError(t, err)
		err = sut.Dispatch(context.TODO())
		assert.NoError(t, err)

		// then
		assert.Equal(t, Machine{State: StateCompleted, Step: 3}, sut.Machine())
		assert.True(t, sut.Machine().IsFinal())
		assert.True(t, sut.Deployed())
		assert.Equal(t, AccountVerified, sut.Account())
		assert.Equal(t, "https://dash.cloudflare.com/acc1/workers/overview", sut.WorkersURL())
		assertCached(t, cache, "forkedRepo", "me/widget")
		assertCached(t, cache, "accountId", "acc1")
		assertCached(t, cache, "deployed", "true")
	})

	t.Run("Template with fields", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		sut, _, verifier, deployer := setup(ctrl)

		// given
		verifier.EXPECT().Verify(gomock.Any(), "acc1", "cf-token").Return(cloudflare.Account{ID: "acc1"}, nil)
		deployer.EXPECT().Fork(gomock.Any(), exampleToken, deploy.ForkRequest{
			TemplateURL: exampleTemplateURL,
			AccountID:   "acc1",
			APIToken:    "cf-token",
			Variables:   []deploy.Variable{{Name: "GREETING", Value: "hello"}},
		}).Return("me/widget", nil)

		// when
		_, err := sut.Bootstrap(context.TODO(), Query{URL: exampleTemplateURL, Fields: []string{exampleField}}, exampleSession)
		assert.NoError(t, err)
		err = sut.SubmitAccount(context.TODO(), "acc1", "cf-token")
		assert.NoError(t, err)
		assert.Equal(t, Machine{State: StateConfiguringProject, Step: 3}, sut.Machine())

		err = sut.ConfigureProject(context.TODO(), map[string]string{})
		assert.Equal(t, 400, myerrors.GetHTTPStatus(err))
		assert.Equal(t, StateConfiguringProject, sut.Machine().State)

		err = sut.ConfigureProject(context.TODO(), map[string]string{"GREETING": "hello"})
		assert.NoError(t, err)
		err = sut.Fork(context.TODO())

		// then
		assert.NoError(t, err)
		assert.Equal(t, Machine{State: StateDeployingSetup, Step: 4}, sut.Machine())
		assert.Equal(t, "me/widget", sut.ForkedRepo())
	})

	t.Run("Reload restores fork without forking again", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		sut, cache, _, deployer := setup(ctrl)

		// given
		givenCached(t, cache, map[string]string{
			"url":        exampleTemplateURL,
			"forkedRepo": "me/widget",
			"accountId":  "acc1",
		})
		deployer.EXPECT().Dispatch(gomock.Any(), exampleToken, "me/widget").Return(nil)

		// when
		m, err := sut.Bootstrap(context.TODO(), Query{URL: exampleTemplateURL}, exampleSession)
		assert.NoError(t, err)
		assert.Equal(t, Machine{State: StateDeployingSetup, Step: 3}, m)
		err = sut.Fork(context.TODO())
		assert.NoError(t, err)
		err = sut.Dispatch(context.TODO())

		// then
		assert.NoError(t, err)
		assert.Equal(t, StateCompleted, sut.Machine().State)
	})

	t.Run("Verification retried after failure", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		sut, _, verifier, _ := setup(ctrl)

		// given
		gomock.InOrder(
			verifier.EXPECT().Verify(gomock.Any(), "acc1", "wrong").Return(cloudflare.Account{}, myerrors.NewInvalidInputErrorf("Invalid API Token")),
			verifier.EXPECT().Verify(gomock.Any(), "acc1", "cf-token").Return(cloudflare.Account{ID: "acc1"}, nil),
		)

		// when
		_, err := sut.Bootstrap(context.TODO(), Query{URL: exampleTemplateURL}, exampleSession)
		assert.NoError(t, err)
		err = sut.SubmitAccount(context.TODO(), "acc1", "wrong")
		assert.ErrorContains(t, err, "Invalid API Token")
		assert.Equal(t, AccountError, sut.Account())
		assert.Equal(t, StateConfiguringAccount, sut.Machine().State)
		err = sut.SubmitAccount(context.TODO(), "acc1", "cf-token")

		// then
		assert.NoError(t, err)
		assert.Equal(t, AccountVerified, sut.Account())
		assert.Equal(t, StateDeployingSetup, sut.Machine().State)
	})

	t.Run("Fork failure is a dead end", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		sut, cache, verifier, deployer := setup(ctrl)

		// given
		verifier.EXPECT().Verify(gomock.Any(), "acc1", "cf-token").Return(cloudflare.Account{ID: "acc1"}, nil)
		deployer.EXPECT().Fork(gomock.Any(), exampleToken, gomock.Any()).Return("", fmt.Errorf("forbidden"))

		// when
		_, err := sut.Bootstrap(context.TODO(), Query{URL: exampleTemplateURL}, exampleSession)
		assert.NoError(t, err)
		err = sut.SubmitAccount(context.TODO(), "acc1", "cf-token")
		assert.NoError(t, err)
		err = sut.Fork(context.TODO())

		// then
		assert.ErrorContains(t, err, "forbidden")
		assert.Equal(t, StateErrorForking, sut.Machine().State)
		assert.True(t, sut.Machine().IsDeadEnd())
		_, found, _ := cache.Get(context.TODO(), "forkedRepo")
		assert.False(t, found)
		assert.Equal(t, 409, myerrors.GetHTTPStatus(sut.Dispatch(context.TODO())))
	})

	t.Run("Dispatch failure", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		sut, cache, _, deployer := setup(ctrl)

		// given
		givenCached(t, cache, map[string]string{
			"url":        exampleTemplateURL,
			"forkedRepo": "me/widget",
		})
		deployer.EXPECT().Dispatch(gomock.Any(), exampleToken, "me/widget").Return(fmt.Errorf("not found"))

		// when
		_, err := sut.Bootstrap(context.TODO(), Query{URL: exampleTemplateURL}, exampleSession)
		assert.NoError(t, err)
		err = sut.Dispatch(context.TODO())

		// then
		assert.Error(t, err)
		assert.Equal(t, StateErrorStartingDeploy, sut.Machine().State)
		assert.False(t, sut.Deployed())
	})

	t.Run("Start over", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		sut, cache, _, _ := setup(ctrl)

		// given
		givenCached(t, cache, map[string]string{
			"url":        exampleTemplateURL,
			"forkedRepo": "me/widget",
			"accountId":  "acc1",
		})
		_, err := sut.Bootstrap(context.TODO(), Query{URL: exampleTemplateURL}, exampleSession)
		assert.NoError(t, err)

		// when
		err = sut.StartOver(context.TODO())

		// then
		assert.NoError(t, err)
		assert.Equal(t, NewMachine(), sut.Machine())
		assert.Empty(t, sut.URL())
		assert.Empty(t, sut.ForkedRepo())
		assert.Empty(t, sut.AccountID())
		for _, key := range []string{"url", "forkedRepo", "accountId"} {
			_, found, _ := cache.Get(context.TODO(), key)
			assert.False(t, found)
		}
	})

	t.Run("Out of order", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		sut, _, _, _ := setup(ctrl)

		_, err := sut.Bootstrap(context.TODO(), Query{URL: exampleTemplateURL}, Session{})
		assert.NoError(t, err)

		assert.Equal(t, 409, myerrors.GetHTTPStatus(sut.SubmitAccount(context.TODO(), "acc1", "cf-token")))
		assert.Equal(t, 409, myerrors.GetHTTPStatus(sut.ConfigureProject(context.TODO(), nil)))
		assert.Equal(t, 409, myerrors.GetHTTPStatus(sut.Fork(context.TODO())))
	})
}

func setup(ctrl *gomock.Controller) (*Controller, mycache.Cache, *cloudflare.MockVerifier, *deploy.MockDeployer) {
	cache := mycache.NewInMemoryCache(mytime.RealNower{})
	verifier := cloudflare.NewMockVerifier(ctrl)
	deployer := deploy.NewMockDeployer(ctrl)
	return NewController(cache, verifier, deployer), cache, verifier, deployer
}

func givenCached(t *testing.T, cache mycache.Cache, entries map[string]string) {
	for k, v := range entries {
		err := cache.Set(context.TODO(), k, v)
		assert.NoError(t, err)
	}
}

func assertCached(t *testing.T, cache mycache.Cache, key string, expected string) {
	value, found, err := cache.Get(context.TODO(), key)
	assert.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, expected, value)
}
