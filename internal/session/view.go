package session

import "github.com/jonathan/portfolio-builder/internal/types"

// View is what the client renders for a session. Analysis is never populated while
// IsEmployerView is true, and Portfolio only in the portfolio and employer states.
type View struct {
	State            State                 `json:"state"`
	User             *types.User           `json:"user"`
	Portfolio        *types.PortfolioData  `json:"portfolio"`
	Analysis         *types.ResumeAnalysis `json:"analysis"`
	IsEmployerView   bool                  `json:"isEmployerView"`
	ShowDownload     bool                  `json:"showDownload"`
	CanTogglePreview bool                  `json:"canTogglePreview"`
	CanViewPortfolio bool                  `json:"canViewPortfolio"`
	SubjectID        string                `json:"subjectId,omitempty"`
	Error            string                `json:"error,omitempty"`
}

// View projects the machine into its rendered form.
func (m *Machine) View() View {
	v := View{
		State:          m.State,
		User:           m.User,
		IsEmployerView: m.IsEmployerView(),
		Error:          m.Err,
	}
	if m.User == nil {
		return v
	}

	showing := m.State == StatePortfolio || m.State == StateEmployer
	if showing && m.Portfolio != nil {
		v.Portfolio = m.Portfolio
		v.SubjectID = m.Subject
		if !v.IsEmployerView {
			v.Analysis = m.Analysis
		}
		v.ShowDownload = v.IsEmployerView
		v.CanTogglePreview = !m.User.IsEmployer()
	}
	v.CanViewPortfolio = !m.User.IsEmployer() && m.State == StateUpload && m.Portfolio != nil
	return v
}
