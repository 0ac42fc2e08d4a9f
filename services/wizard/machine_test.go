package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransition(t *testing.T) {
	testCases := []struct {
		from     Machine
		event    Event
		expected Machine
	}{
		{from: Machine{StateInitial, 1}, event: EventLogin, expected: Machine{StateLogin, 1}},
		{from: Machine{StateInitial, 1}, event: EventNoURL, expected: Machine{StateMissingURL, 1}},
		{from: Machine{StateInitial, 1}, event: EventURL, expected: Machine{StateConfiguringAccount, 2}},
		{from: Machine{StateInitial, 1}, event: EventCachedFork, expected: Machine{StateDeployingSetup, 3}},
		{from: Machine{StateMissingURL, 1}, event: EventURL, expected: Machine{StateConfiguringAccount, 2}},
		{from: Machine{StateLogin, 1}, event: EventAuth, expected: Machine{StateConfiguringAccount, 2}},
		{from: Machine{StateConfiguringAccount, 2}, event: EventSubmitConfigureProject, expected: Machine{StateConfiguringProject, 3}},
		{from: Machine{StateConfiguringAccount, 2}, event: EventSubmitDeploy, expected: Machine{StateDeployingSetup, 3}},
		{from: Machine{StateConfiguringProject, 3}, event: EventConfigure, expected: Machine{StateDeployingSetup, 4}},
		{from: Machine{StateDeployingSetup, 4}, event: EventError, expected: Machine{StateErrorForking, 4}},
		{from: Machine{StateDeployingSetup, 4}, event: EventDispatchError, expected: Machine{StateErrorStartingDeploy, 4}},
		{from: Machine{StateDeployingSetup, 4}, event: EventComplete, expected: Machine{StateCompleted, 4}},
	}

	for _, tc := range testCases {
		t.Run(string(tc.from.State)+"/"+string(tc.event), func(t *testing.T) {
			next, accepted := Transition(tc.from, tc.event)
			assert.True(t, accepted)
			assert.Equal(t, tc.expected, next)
			assert.GreaterOrEqual(t, next.Step, tc.from.Step)
		})
	}
}

func TestTransitionIgnored(t *testing.T) {
	testCases := []struct {
		from  State
		event Event
	}{
		{from: StateLogin, event: EventLogin},
		{from: StateMissingURL, event: EventCachedFork},
		{from: StateDeployingSetup, event: EventLogin},
		{from: StateDeployingSetup, event: EventAuth},
		{from: StateCompleted, event: EventError},
		{from: StateErrorForking, event: EventComplete},
		{from: StateErrorStartingDeploy, event: EventComplete},
		{from: StateInitial, event: Event("BOGUS")},
	}

	for _, tc := range testCases {
		t.Run(string(tc.from)+"/"+string(tc.event), func(t *testing.T) {
			m := Machine{State: tc.from, Step: 2}
			next, accepted := Transition(m, tc.event)
			assert.False(t, accepted)
			assert.Equal(t, m, next)
		})
	}
}

func TestMachineEnds(t *testing.T) {
	assert.True(t, Machine{State: StateCompleted}.IsFinal())
	assert.False(t, Machine{State: StateDeployingSetup}.IsFinal())
	assert.True(t, Machine{State: StateErrorForking}.IsDeadEnd())
	assert.True(t, Machine{State: StateErrorStartingDeploy}.IsDeadEnd())
	assert.False(t, Machine{State: StateCompleted}.IsDeadEnd())
}

func TestTransitionAccount(t *testing.T) {
	s, ok := TransitionAccount(AccountInitial, AccountEventHasAccount)
	assert.True(t, ok)
	assert.Equal(t, AccountForm, s)

	s, ok = TransitionAccount(s, AccountEventVerifying)
	assert.True(t, ok)
	assert.Equal(t, AccountVerifying, s)

	s, ok = TransitionAccount(s, AccountEventError)
	assert.True(t, ok)
	assert.Equal(t, AccountError, s)

	s, ok = TransitionAccount(s, AccountEventVerifying)
	assert.True(t, ok)
	assert.Equal(t, AccountVerifying, s)

	s, ok = TransitionAccount(s, AccountEventVerified)
	assert.True(t, ok)
	assert.Equal(t, AccountVerified, s)

	_, ok = TransitionAccount(s, AccountEventVerifying)
	assert.False(t, ok)
}
