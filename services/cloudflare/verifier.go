package cloudflare

import (
	"context"
	"errors"
	"fmt"

	"github.com/MarcGrol/workersdeploy/lib/myerrors"
)

const tokenStatusActive = "active"

// Verifier checks that an api token is active and can read the given account.
//
//go:generate mockgen -source=verifier.go -package cloudflare -destination verifier_mock.go Verifier
type Verifier interface {
	Verify(c context.Context, accountID string, apiToken string) (Account, error)
}

type verifier struct {
	client Client
}

func NewVerifier(client Client) Verifier {
	return &verifier{
		client: client,
	}
}

func (v *verifier) Verify(c context.Context, accountID string, apiToken string) (Account, error) {
	if accountID == "" {
		return Account{}, myerrors.NewInvalidInputError(fmt.Errorf("missing accountId"))
	}
	if apiToken == "" {
		return Account{}, myerrors.NewInvalidInputError(fmt.Errorf("missing apiToken"))
	}

	status, err := v.client.VerifyToken(c, apiToken)
	if err != nil {
		return Account{}, mapError(err)
	}
	if status.Status != tokenStatusActive {
		return Account{}, myerrors.NewInvalidInputError(fmt.Errorf("api token is %s", status.Status))
	}

	account, err := v.client.GetAccount(c, apiToken, accountID)
	if err != nil {
		return Account{}, mapError(err)
	}

	return account, nil
}

func mapError(err error) error {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return myerrors.NewInvalidInputError(apiErr)
	}
	return myerrors.NewUnavailableError(err)
}
