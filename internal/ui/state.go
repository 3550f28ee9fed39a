// Package ui holds the view state of the employee page and the controller
// that drives the employee store from user actions.
package ui

import "github.com/daap14/roster/internal/employee"

// State is the view state for one render of the page. Transitions never
// modify a State in place; Reduce returns a new value.
type State struct {
	// ExternalID is only set in edit mode and is not user-editable.
	ExternalID string
	Name       string
	Team       string
	Editing    bool
	Employees  []employee.Employee
	// Notice is a blocking message for the user, empty when there is none.
	Notice string
}

// Action is a user or store event applied to a State by Reduce.
type Action interface {
	apply(State) State
}

// SetName replaces the name field.
type SetName string

// SetTeam replaces the team field.
type SetTeam string

// BeginEdit loads an employee into the form and switches to edit mode.
type BeginEdit employee.Employee

// ResetForm clears the form fields and leaves edit mode.
type ResetForm struct{}

// ListLoaded replaces the displayed list wholesale.
type ListLoaded []employee.Employee

// Failed records a failure message. Everything else is left as it was.
type Failed string

func (a SetName) apply(s State) State {
	s.Name = string(a)
	return s
}

func (a SetTeam) apply(s State) State {
	s.Team = string(a)
	return s
}

func (a BeginEdit) apply(s State) State {
	s.ExternalID = a.ExternalID
	s.Name = a.Name
	s.Team = a.Team
	s.Editing = true
	s.Notice = ""
	return s
}

func (ResetForm) apply(s State) State {
	s.ExternalID = ""
	s.Name = ""
	s.Team = ""
	s.Editing = false
	s.Notice = ""
	return s
}

func (a ListLoaded) apply(s State) State {
	list := make([]employee.Employee, len(a))
	copy(list, a)
	s.Employees = list
	return s
}

func (a Failed) apply(s State) State {
	s.Notice = string(a)
	return s
}

// Reduce returns the state that results from applying a to s.
func Reduce(s State, a Action) State {
	return a.apply(s)
}
