package cloudflareevents

const (
	TopicName                    = "deploy"
	credentialsVerifiedEventName = TopicName + ".credentials.verified"
)

// CredentialsVerified never carries the api token.
type CredentialsVerified struct {
	AccountID   string
	AccountName string
}

func (e CredentialsVerified) GetEventTypeName() string {
	return credentialsVerifiedEventName
}

func (e CredentialsVerified) GetAggregateName() string {
	return e.AccountID
}
