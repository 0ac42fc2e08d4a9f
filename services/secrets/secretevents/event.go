package secretevents

const (
	TopicName               = "deploy"
	secretStoredEventName   = TopicName + ".secret.stored"
	variableStoredEventName = TopicName + ".variable.stored"
)

// SecretStored never carries the value itself.
type SecretStored struct {
	Repo string
	Name string
}

func (e SecretStored) GetEventTypeName() string {
	return secretStoredEventName
}

func (e SecretStored) GetAggregateName() string {
	return e.Repo
}

type VariableStored struct {
	Repo string
	Name string
}

func (e VariableStored) GetEventTypeName() string {
	return variableStoredEventName
}

func (e VariableStored) GetAggregateName() string {
	return e.Repo
}
