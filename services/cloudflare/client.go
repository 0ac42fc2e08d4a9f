package cloudflare

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/MarcGrol/workersdeploy/lib/myhttpclient"
)

type TokenStatus struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type Account struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type apiMessage struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type apiResponse struct {
	Success bool            `json:"success"`
	Errors  []apiMessage    `json:"errors"`
	Result  json.RawMessage `json:"result"`
}

// APIError carries what cloudflare reported when it refused a request.
type APIError struct {
	StatusCode int
	Messages   []string
}

func (e *APIError) Error() string {
	if len(e.Messages) == 0 {
		return fmt.Sprintf("cloudflare refused request with status %d", e.StatusCode)
	}
	return strings.Join(e.Messages, "; ")
}

//go:generate mockgen -source=client.go -package cloudflare -destination client_mock.go Client
type Client interface {
	VerifyToken(c context.Context, apiToken string) (TokenStatus, error)
	GetAccount(c context.Context, apiToken string, accountID string) (Account, error)
}

type httpClient struct {
	baseURL string
	sender  myhttpclient.HTTPSender
}

func NewClient(baseURL string, sender myhttpclient.HTTPSender) Client {
	return &httpClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		sender:  sender,
	}
}

func (cc *httpClient) VerifyToken(c context.Context, apiToken string) (TokenStatus, error) {
	status := TokenStatus{}
	err := cc.get(c, apiToken, "/user/tokens/verify", &status)
	if err != nil {
		return TokenStatus{}, err
	}
	return status, nil
}

func (cc *httpClient) GetAccount(c context.Context, apiToken string, accountID string) (Account, error) {
	account := Account{}
	err := cc.get(c, apiToken, "/accounts/"+url.PathEscape(accountID), &account)
	if err != nil {
		return Account{}, err
	}
	return account, nil
}

func (cc *httpClient) get(c context.Context, apiToken string, path string, result any) error {
	status, body, err := cc.sender.Send(c, http.MethodGet, cc.baseURL+path, map[string]string{
		"Authorization": "Bearer " + apiToken,
	}, nil)
	if err != nil {
		return fmt.Errorf("error calling cloudflare: %w", err)
	}

	resp := apiResponse{}
	err = json.Unmarshal(body, &resp)
	if err != nil {
		return &APIError{StatusCode: status, Messages: []string{fmt.Sprintf("unparseable cloudflare response (status %d)", status)}}
	}

	if status != http.StatusOK || !resp.Success {
		apiErr := &APIError{StatusCode: status}
		for _, m := range resp.Errors {
			apiErr.Messages = append(apiErr.Messages, m.Message)
		}
		return apiErr
	}

	err = json.Unmarshal(resp.Result, result)
	if err != nil {
		return fmt.Errorf("error parsing cloudflare result: %s", err)
	}

	return nil
}
