package authevents

const (
	TopicName                  = "deploy"
	sessionStartedEventName    = TopicName + ".session.started"
	sessionEstablishedName     = TopicName + ".session.established"
	sessionFailedEventName     = TopicName + ".session.failed"
	sessionTerminatedEventName = TopicName + ".session.terminated"
)

type SessionStarted struct {
	StateUID      string
	RepositoryURL string
}

func (e SessionStarted) GetEventTypeName() string {
	return sessionStartedEventName
}

func (e SessionStarted) GetAggregateName() string {
	return e.StateUID
}

type SessionEstablished struct {
	SessionUID    string
	StateUID      string
	GithubLogin   string
	RepositoryURL string
}

func (e SessionEstablished) GetEventTypeName() string {
	return sessionEstablishedName
}

func (e SessionEstablished) GetAggregateName() string {
	return e.StateUID
}

type SessionFailed struct {
	StateUID string
	Reason   string
}

func (e SessionFailed) GetEventTypeName() string {
	return sessionFailedEventName
}

func (e SessionFailed) GetAggregateName() string {
	return e.StateUID
}

type SessionTerminated struct {
	SessionUID string
}

func (e SessionTerminated) GetEventTypeName() string {
	return sessionTerminatedEventName
}

func (e SessionTerminated) GetAggregateName() string {
	return e.SessionUID
}
