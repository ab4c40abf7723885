package types

import "time"

// PortfolioRecord is the persisted wire shape of a candidate's latest upload. List and
// analysis fields are stored as JSON text and must be decoded defensively.
type PortfolioRecord struct {
	ID        string `json:"id"`
	AccountID string `json:"accountId"`

	FullName string `json:"fullName"`
	Headline string `json:"headline"`
	About    string `json:"about"`
	Location string `json:"location"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	LinkedIn string `json:"linkedin"`
	GitHub   string `json:"github"`
	Website  string `json:"website"`

	SkillsJSON     string `json:"skillsJson"`
	ExperienceJSON string `json:"experienceJson"`
	EducationJSON  string `json:"educationJson"`
	ProjectsJSON   string `json:"projectsJson"`

	ResumeScore            *int   `json:"resumeScore"`
	ResumeSummary          string `json:"resumeSummary"`
	StrengthsJSON          string `json:"strengthsJson"`
	WeaknessesJSON         string `json:"weaknessesJson"`
	MarketOutlook          string `json:"marketOutlook"`
	JobRecommendationsJSON string `json:"jobRecommendationsJson"`

	// ResumeFile is the blob key of the last uploaded file, empty for text uploads.
	ResumeFile string `json:"resumeFile,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// LastUpdated returns UpdatedAt, falling back to CreatedAt.
func (r *PortfolioRecord) LastUpdated() time.Time {
	if !r.UpdatedAt.IsZero() {
		return r.UpdatedAt
	}
	return r.CreatedAt
}
