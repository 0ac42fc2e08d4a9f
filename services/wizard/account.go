package wizard

type AccountState string

const (
	AccountInitial   AccountState = "initial"
	AccountForm      AccountState = "form"
	AccountVerifying AccountState = "verifying"
	AccountVerified  AccountState = "verified"
	AccountError     AccountState = "error"
)

type AccountEvent string

const (
	AccountEventHasAccount AccountEvent = "HAS_ACCOUNT"
	AccountEventVerifying  AccountEvent = "VERIFYING"
	AccountEventVerified   AccountEvent = "VERIFIED"
	AccountEventError      AccountEvent = "ERROR"
)

var accountTransitions = map[AccountState]map[AccountEvent]AccountState{
	AccountInitial:   {AccountEventHasAccount: AccountForm},
	AccountForm:      {AccountEventVerifying: AccountVerifying},
	AccountVerifying: {AccountEventVerified: AccountVerified, AccountEventError: AccountError},
	AccountError:     {AccountEventVerifying: AccountVerifying},
}

// TransitionAccount drives the account form. Verified is final.
func TransitionAccount(s AccountState, e AccountEvent) (AccountState, bool) {
	next, found := accountTransitions[s][e]
	if !found {
		return s, false
	}
	return next, true
}
