package wizard

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/MarcGrol/workersdeploy/lib/mycache"
	"github.com/MarcGrol/workersdeploy/lib/myerrors"
	"github.com/MarcGrol/workersdeploy/lib/mylog"
	"github.com/MarcGrol/workersdeploy/services/cloudflare"
	"github.com/MarcGrol/workersdeploy/services/deploy"
)

const (
	cacheKeyURL          = "url"
	cacheKeyForkedRepo   = "forkedRepo"
	cacheKeyAccountID    = "accountId"
	cacheKeyFields       = "fields"
	cacheKeyAPITokenTmpl = "apiTokenTmpl"
	cacheKeyAPITokenName = "apiTokenName"
	cacheKeyDeployed     = "deployed"

	apiTokensURL = "https://dash.cloudflare.com/profile/api-tokens"
)

// Session is what the server knows about the github login of the user.
type Session struct {
	Authed      bool
	AccessToken string
}

// Controller walks a user through the wizard. It is not safe for concurrent use.
type Controller struct {
	cache    mycache.Cache
	verifier cloudflare.Verifier
	deployer deploy.Deployer
	logger   mylog.Logger

	machine          Machine
	account          AccountState
	accessToken      string
	url              string
	forkedRepo       string
	accountID        string
	apiToken         string
	fields           []Field
	apiTokenTemplate string
	apiTokenName     string
	paid             bool
	deployed         bool
	needsReload      bool
}

func NewController(cache mycache.Cache, verifier cloudflare.Verifier, deployer deploy.Deployer) *Controller {
	return &Controller{
		cache:    cache,
		verifier: verifier,
		deployer: deployer,
		logger:   mylog.New("wizard"),
		machine:  NewMachine(),
		account:  AccountInitial,
		fields:   []Field{},
	}
}

// Bootstrap restores the wizard from the query, the session and whatever was cached by an earlier visit.
func (wc *Controller) Bootstrap(c context.Context, q Query, session Session) (Machine, error) {
	queryURL := ""
	if IsAcceptedRepoURL(q.URL) {
		queryURL = q.URL
	}

	cachedURL, _, err := wc.cache.Get(c, cacheKeyURL)
	if err != nil {
		return wc.machine, err
	}
	if queryURL != "" {
		wc.url = queryURL
		if cachedURL != queryURL {
			// another template: nothing cached applies anymore
			err = wc.cache.Clear(c)
			if err != nil {
				return wc.machine, err
			}
			err = wc.cache.Set(c, cacheKeyURL, queryURL)
			if err != nil {
				return wc.machine, err
			}
		}
	} else if cachedURL != "" {
		wc.url = cachedURL
	} else {
		wc.send(c, EventNoURL)
	}

	forkedRepo, found, err := wc.cache.Get(c, cacheKeyForkedRepo)
	if err != nil {
		return wc.machine, err
	}
	if found {
		wc.forkedRepo = forkedRepo
		wc.send(c, EventCachedFork)
	}

	wc.send(c, EventLogin)

	accountID, found, err := wc.cache.Get(c, cacheKeyAccountID)
	if err != nil {
		return wc.machine, err
	}
	if found {
		wc.accountID = accountID
	}

	deployed, _, err := wc.cache.Get(c, cacheKeyDeployed)
	if err != nil {
		return wc.machine, err
	}
	wc.deployed = deployed == "true"
	if wc.deployed {
		// a fork that was already dispatched is not dispatched twice
		wc.send(c, EventComplete)
	}

	if session.AccessToken != "" {
		wc.accessToken = session.AccessToken
		wc.send(c, EventAuth)
	} else if session.Authed {
		// the session was written but is not readable yet
		wc.needsReload = true
	}

	err = wc.loadFields(c, q.Fields)
	if err != nil {
		return wc.machine, err
	}

	wc.apiTokenTemplate, err = wc.cachedOrQuery(c, cacheKeyAPITokenTmpl, q.APITokenTmpl)
	if err != nil {
		return wc.machine, err
	}
	wc.apiTokenName, err = wc.cachedOrQuery(c, cacheKeyAPITokenName, q.APITokenName)
	if err != nil {
		return wc.machine, err
	}
	wc.paid = q.Paid

	return wc.machine, nil
}

func (wc *Controller) loadFields(c context.Context, fromQuery []string) error {
	cached, found, err := wc.cache.Get(c, cacheKeyFields)
	if err != nil {
		return err
	}
	if found {
		fields := []Field{}
		err = json.Unmarshal([]byte(cached), &fields)
		if err == nil {
			wc.fields = fields
			return nil
		}
		wc.logger.Log(c, "", mylog.SeverityWarn, "Ignoring unreadable cached fields: %s", err)
	}

	if len(fromQuery) == 0 {
		return nil
	}

	fields, err := ParseFields(fromQuery)
	if err != nil {
		return myerrors.NewInvalidInputError(err)
	}
	wc.fields = fields

	return wc.cacheFields(c)
}

func (wc *Controller) cachedOrQuery(c context.Context, key string, fromQuery string) (string, error) {
	cached, found, err := wc.cache.Get(c, key)
	if err != nil {
		return "", err
	}
	if found {
		return cached, nil
	}
	if fromQuery == "" {
		return "", nil
	}
	err = wc.cache.Set(c, key, fromQuery)
	if err != nil {
		return "", err
	}
	return fromQuery, nil
}

// SetURL supplies the template when the wizard was opened without one.
func (wc *Controller) SetURL(c context.Context, repoURL string) error {
	if wc.machine.State != StateMissingURL {
		return wc.unexpected(StateMissingURL)
	}
	if !IsAcceptedRepoURL(repoURL) {
		return myerrors.NewInvalidInputErrorf("'%s' is not a github repository url", repoURL)
	}

	err := wc.cache.Clear(c)
	if err != nil {
		return err
	}
	err = wc.cache.Set(c, cacheKeyURL, repoURL)
	if err != nil {
		return err
	}
	wc.url = repoURL
	wc.send(c, EventURL)

	return nil
}

// SubmitAccount verifies the cloudflare credentials and moves on to the project settings, or straight to deploying
// when the template has none. A failed verification can be retried.
func (wc *Controller) SubmitAccount(c context.Context, accountID string, apiToken string) error {
	if wc.machine.State != StateConfiguringAccount {
		return wc.unexpected(StateConfiguringAccount)
	}

	wc.sendAccount(AccountEventHasAccount)
	wc.sendAccount(AccountEventVerifying)

	_, err := wc.verifier.Verify(c, accountID, apiToken)
	if err != nil {
		wc.sendAccount(AccountEventError)
		return err
	}
	wc.sendAccount(AccountEventVerified)

	wc.accountID = accountID
	wc.apiToken = apiToken
	err = wc.cache.Set(c, cacheKeyAccountID, accountID)
	if err != nil {
		return err
	}

	if len(wc.fields) > 0 {
		wc.send(c, EventSubmitConfigureProject)
	} else {
		wc.send(c, EventSubmitDeploy)
	}

	return nil
}

// ConfigureProject takes the field values keyed by secret name. Every field needs a value.
func (wc *Controller) ConfigureProject(c context.Context, values map[string]string) error {
	if wc.machine.State != StateConfiguringProject {
		return wc.unexpected(StateConfiguringProject)
	}

	for _, f := range wc.fields {
		if values[f.SecretName] == "" {
			return myerrors.NewInvalidInputErrorf("missing value for %s", f.Name)
		}
	}
	for i := range wc.fields {
		wc.fields[i].Value = values[wc.fields[i].SecretName]
	}

	err := wc.cacheFields(c)
	if err != nil {
		return err
	}
	wc.send(c, EventConfigure)

	return nil
}

// Fork creates the repository for the user and configures it. A cached fork is not forked again.
func (wc *Controller) Fork(c context.Context) error {
	if wc.machine.State != StateDeployingSetup {
		return wc.unexpected(StateDeployingSetup)
	}
	if wc.forkedRepo != "" {
		return nil
	}

	variables := []deploy.Variable{}
	for _, f := range wc.fields {
		variables = append(variables, deploy.Variable{Name: f.SecretName, Value: f.Value})
	}

	forkedRepo, err := wc.deployer.Fork(c, wc.accessToken, deploy.ForkRequest{
		TemplateURL: wc.url,
		AccountID:   wc.accountID,
		APIToken:    wc.apiToken,
		Variables:   variables,
	})
	if err != nil {
		wc.send(c, EventError)
		return err
	}

	wc.forkedRepo = forkedRepo
	return wc.cache.Set(c, cacheKeyForkedRepo, forkedRepo)
}

// Dispatch starts the deployment workflow of the fork.
func (wc *Controller) Dispatch(c context.Context) error {
	if wc.machine.State != StateDeployingSetup {
		return wc.unexpected(StateDeployingSetup)
	}
	if wc.forkedRepo == "" {
		return myerrors.NewInvalidInputErrorf("nothing forked yet")
	}

	err := wc.deployer.Dispatch(c, wc.accessToken, wc.forkedRepo)
	if err != nil {
		wc.send(c, EventDispatchError)
		return err
	}

	wc.deployed = true
	err = wc.cache.Set(c, cacheKeyDeployed, "true")
	if err != nil {
		return err
	}
	wc.send(c, EventComplete)

	return nil
}

// StartOver forgets everything, cached or not.
func (wc *Controller) StartOver(c context.Context) error {
	err := wc.cache.Clear(c)
	if err != nil {
		return err
	}

	wc.machine = NewMachine()
	wc.account = AccountInitial
	wc.accessToken = ""
	wc.url = ""
	wc.forkedRepo = ""
	wc.accountID = ""
	wc.apiToken = ""
	wc.fields = []Field{}
	wc.apiTokenTemplate = ""
	wc.apiTokenName = ""
	wc.paid = false
	wc.deployed = false
	wc.needsReload = false

	return nil
}

func (wc *Controller) Machine() Machine {
	return wc.machine
}

func (wc *Controller) Account() AccountState {
	return wc.account
}

func (wc *Controller) URL() string {
	return wc.url
}

func (wc *Controller) ForkedRepo() string {
	return wc.forkedRepo
}

func (wc *Controller) AccountID() string {
	return wc.accountID
}

func (wc *Controller) Fields() []Field {
	return wc.fields
}

func (wc *Controller) Paid() bool {
	return wc.paid
}

func (wc *Controller) Deployed() bool {
	return wc.deployed
}

func (wc *Controller) NeedsReload() bool {
	return wc.needsReload
}

// APITokenURL links to the cloudflare dashboard page for creating a token, prefilled when the template asks for that.
func (wc *Controller) APITokenURL() string {
	if wc.apiTokenTemplate == "" {
		return apiTokensURL
	}
	params := url.Values{"permissionGroupKeys": []string{wc.apiTokenTemplate}}
	if wc.apiTokenName != "" {
		params.Set("name", wc.apiTokenName)
	}
	return apiTokensURL + "?" + params.Encode()
}

// WorkersURL links to the workers overview of the configured account.
func (wc *Controller) WorkersURL() string {
	if wc.accountID == "" {
		return ""
	}
	return fmt.Sprintf("https://dash.cloudflare.com/%s/workers/overview", url.PathEscape(wc.accountID))
}

func (wc *Controller) send(c context.Context, e Event) {
	next, accepted := Transition(wc.machine, e)
	if !accepted {
		wc.logger.Log(c, "", mylog.SeverityDebug, "Event %s ignored in state %s", e, wc.machine.State)
		return
	}
	wc.logger.Log(c, "", mylog.SeverityDebug, "Event %s: %s -> %s (step %d)", e, wc.machine.State, next.State, next.Step)
	wc.machine = next
}

func (wc *Controller) sendAccount(e AccountEvent) {
	wc.account, _ = TransitionAccount(wc.account, e)
}

func (wc *Controller) cacheFields(c context.Context) error {
	blob, err := json.Marshal(wc.fields)
	if err != nil {
		return fmt.Errorf("error marshalling fields: %s", err)
	}
	return wc.cache.Set(c, cacheKeyFields, string(blob))
}

func (wc *Controller) unexpected(expected State) error {
	return myerrors.NewConflictError(fmt.Errorf("wizard is %s, not %s", wc.machine.State, expected))
}
