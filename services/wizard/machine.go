package wizard

type State string

const (
	StateInitial             State = "initial"
	StateMissingURL          State = "missing_url"
	StateLogin               State = "login"
	StateConfiguringAccount  State = "configuring_account"
	StateConfiguringProject  State = "configuring_project"
	StateDeployingSetup      State = "deploying_setup"
	StateCompleted           State = "completed"
	StateErrorForking        State = "error_forking"
	StateErrorStartingDeploy State = "error_starting_deploy"
)

type Event string

const (
	EventLogin                  Event = "LOGIN"
	EventNoURL                  Event = "NO_URL"
	EventURL                    Event = "URL"
	EventCachedFork             Event = "LS_FORKED"
	EventAuth                   Event = "AUTH"
	EventSubmitConfigureProject Event = "SUBMIT_CONFIGURE_PROJECT"
	EventSubmitDeploy           Event = "SUBMIT_DEPLOY"
	EventConfigure              Event = "CONFIGURE"
	EventError                  Event = "ERROR"
	EventDispatchError          Event = "DISPATCH_ERROR"
	EventComplete               Event = "COMPLETE"
)

// Machine is the position in the wizard; Step is the number shown to the user.
type Machine struct {
	State State
	Step  int
}

func NewMachine() Machine {
	return Machine{
		State: StateInitial,
		Step:  1,
	}
}

type transition struct {
	to        State
	stepDelta int
}

var transitions = map[State]map[Event]transition{
	StateInitial: {
		EventLogin:      {to: StateLogin},
		EventNoURL:      {to: StateMissingURL},
		EventURL:        {to: StateConfiguringAccount, stepDelta: 1},
		EventCachedFork: {to: StateDeployingSetup, stepDelta: 2},
	},
	StateMissingURL: {
		EventURL: {to: StateConfiguringAccount, stepDelta: 1},
	},
	StateLogin: {
		EventAuth: {to: StateConfiguringAccount, stepDelta: 1},
	},
	StateConfiguringAccount: {
		EventSubmitConfigureProject: {to: StateConfiguringProject, stepDelta: 1},
		EventSubmitDeploy:           {to: StateDeployingSetup, stepDelta: 1},
	},
	StateConfiguringProject: {
		EventConfigure: {to: StateDeployingSetup, stepDelta: 1},
	},
	StateDeployingSetup: {
		EventError:         {to: StateErrorForking},
		EventDispatchError: {to: StateErrorStartingDeploy},
		EventComplete:      {to: StateCompleted},
	},
}

// Transition returns the machine after the event. Events the current state does not accept leave it untouched.
func Transition(m Machine, e Event) (Machine, bool) {
	t, found := transitions[m.State][e]
	if !found {
		return m, false
	}
	return Machine{
		State: t.to,
		Step:  m.Step + t.stepDelta,
	}, true
}

func (m Machine) IsFinal() bool {
	return m.State == StateCompleted
}

// IsDeadEnd reports a failed wizard; only starting over helps.
func (m Machine) IsDeadEnd() bool {
	return m.State == StateErrorForking || m.State == StateErrorStartingDeploy
}
