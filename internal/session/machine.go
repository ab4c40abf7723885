// Package session implements the per-user view state machine and the upload flow that
// drives it.
package session

import (
	"errors"
	"fmt"

	"github.com/jonathan/portfolio-builder/internal/types"
)

// State is the screen a user is on
type State string

// States
const (
	StateNone              State = ""
	StateUpload            State = "upload"
	StateAnalyzing         State = "analyzing"
	StatePortfolio         State = "portfolio"
	StateEmployer          State = "employer"
	StateEmployerDashboard State = "employer-dashboard"
)

// EventKind names a transition trigger
type EventKind string

// Events
const (
	EventLogin           EventKind = "login"
	EventSubmit          EventKind = "submit"
	EventSucceeded       EventKind = "succeeded"
	EventFailed          EventKind = "failed"
	EventTogglePreview   EventKind = "toggle-preview"
	EventBackToDashboard EventKind = "back-to-dashboard"
	EventScreenNew       EventKind = "screen-new"
	EventSelectCandidate EventKind = "select-candidate"
	EventNewUpload       EventKind = "new-upload"
	EventViewPortfolio   EventKind = "view-portfolio"
	EventLogout          EventKind = "logout"
)

var (
	// ErrInvalidTransition is returned when an event does not apply to the current state.
	ErrInvalidTransition = errors.New("invalid transition")
	// ErrStaleResult is returned when an upload completes after its session moved on.
	ErrStaleResult = errors.New("stale upload result discarded")
)

// Event is a transition trigger with its payload
type Event struct {
	Kind EventKind

	// User is set for EventLogin.
	User *types.User
	// Tag identifies the upload for EventSubmit, EventSucceeded and EventFailed.
	Tag string
	// Portfolio and Analysis carry loaded or produced data.
	Portfolio *types.PortfolioData
	Analysis  *types.ResumeAnalysis
	// Subject is the account whose saved portfolio is shown, if any.
	Subject string
	// Message is the user-facing error for EventFailed, or a login warning.
	Message string
}

// Machine is one user's session. The zero value is the unauthenticated state.
type Machine struct {
	User      *types.User
	State     State
	Portfolio *types.PortfolioData
	Analysis  *types.ResumeAnalysis
	Subject   string
	Err       string

	tag string
}

// IsEmployerView reports whether the portfolio is rendered for an employer: either the
// account is an employer or a candidate is previewing their own page.
func (m *Machine) IsEmployerView() bool {
	return m.User.IsEmployer() || m.State == StateEmployer
}

// Tag returns the tag of the upload in flight, empty when none.
func (m *Machine) Tag() string {
	return m.tag
}

// Apply performs the transition for ev. On error the machine is unchanged.
func (m *Machine) Apply(ev Event) error {
	if ev.Kind == EventLogout {
		*m = Machine{}
		return nil
	}
	if ev.Kind == EventLogin {
		return m.login(ev)
	}
	if m.User == nil {
		return m.invalid(ev)
	}

	switch ev.Kind {
	case EventSubmit:
		if m.State != StateUpload || ev.Tag == "" {
			return m.invalid(ev)
		}
		m.State = StateAnalyzing
		m.tag = ev.Tag
		m.Err = ""

	case EventSucceeded:
		if err := m.checkTag(ev); err != nil {
			return err
		}
		if !ev.Portfolio.HasRealName() {
			return fmt.Errorf("%w: success without a portfolio", ErrInvalidTransition)
		}
		m.State = StatePortfolio
		m.Portfolio = ev.Portfolio
		m.Analysis = ev.Analysis
		m.Subject = ev.Subject
		if m.User.IsEmployer() {
			m.Analysis = nil
		}
		m.Err = ev.Message
		m.tag = ""

	case EventFailed:
		if err := m.checkTag(ev); err != nil {
			return err
		}
		m.State = StateUpload
		m.Err = ev.Message
		m.tag = ""
		if m.User.IsEmployer() {
			m.Portfolio, m.Analysis, m.Subject = nil, nil, ""
		}

	case EventTogglePreview:
		if m.User.IsEmployer() || m.Portfolio == nil {
			return m.invalid(ev)
		}
		switch m.State {
		case StatePortfolio:
			m.State = StateEmployer
		case StateEmployer:
			m.State = StatePortfolio
		default:
			return m.invalid(ev)
		}

	case EventBackToDashboard:
		if !m.User.IsEmployer() || m.State == StateEmployerDashboard {
			return m.invalid(ev)
		}
		m.State = StateEmployerDashboard
		m.Portfolio, m.Analysis, m.Subject = nil, nil, ""
		m.Err = ""
		m.tag = ""

	case EventScreenNew:
		if !m.User.IsEmployer() || m.State != StateEmployerDashboard {
			return m.invalid(ev)
		}
		m.State = StateUpload
		m.Err = ""

	case EventSelectCandidate:
		if !m.User.IsEmployer() || m.State != StateEmployerDashboard || ev.Portfolio == nil {
			return m.invalid(ev)
		}
		m.State = StatePortfolio
		m.Portfolio = ev.Portfolio
		m.Analysis = nil
		m.Subject = ev.Subject
		m.Err = ""

	case EventNewUpload:
		if m.User.IsEmployer() || (m.State != StatePortfolio && m.State != StateEmployer) {
			return m.invalid(ev)
		}
		m.State = StateUpload
		m.Err = ""

	case EventViewPortfolio:
		if m.User.IsEmployer() || m.State != StateUpload || m.Portfolio == nil {
			return m.invalid(ev)
		}
		m.State = StatePortfolio
		m.Err = ""

	default:
		return m.invalid(ev)
	}
	return nil
}

func (m *Machine) login(ev Event) error {
	if m.User != nil || ev.User == nil || !ev.User.Role.Valid() {
		return m.invalid(ev)
	}

	next := Machine{User: ev.User, Err: ev.Message}
	switch {
	case ev.User.IsEmployer():
		next.State = StateEmployerDashboard
		next.Err = ""
	case ev.Portfolio.HasRealName():
		next.State = StatePortfolio
		next.Portfolio = ev.Portfolio
		next.Analysis = ev.Analysis
		next.Subject = ev.Subject
	default:
		next.State = StateUpload
	}
	*m = next
	return nil
}

func (m *Machine) checkTag(ev Event) error {
	if m.State != StateAnalyzing || m.tag == "" || ev.Tag != m.tag {
		return ErrStaleResult
	}
	return nil
}

func (m *Machine) invalid(ev Event) error {
	return fmt.Errorf("%w: %s in state %q", ErrInvalidTransition, ev.Kind, m.State)
}
