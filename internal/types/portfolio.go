// Package types provides type definitions for structured data used throughout the portfolio builder.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"math"
	"strings"
)

// PlaceholderName is substituted when extraction yields no name. A record carrying it
// is a degraded extraction and must not be shown or persisted.
const PlaceholderName = "Portfolio"

// SkillCategory groups skills on the portfolio page
type SkillCategory string

// Skill categories accepted from the model
const (
	CategoryFrontend   SkillCategory = "frontend"
	CategoryBackend    SkillCategory = "backend"
	CategoryDesign     SkillCategory = "design"
	CategorySoftSkills SkillCategory = "soft-skills"
	CategoryTools      SkillCategory = "tools"
	CategoryOther      SkillCategory = "other"
)

// SkillCategories lists every accepted category in display order.
var SkillCategories = []SkillCategory{
	CategoryFrontend,
	CategoryBackend,
	CategoryDesign,
	CategorySoftSkills,
	CategoryTools,
	CategoryOther,
}

// Valid reports whether c is one of SkillCategories.
func (c SkillCategory) Valid() bool {
	for _, known := range SkillCategories {
		if c == known {
			return true
		}
	}
	return false
}

// PortfolioData is a candidate's structured profile as rendered on the portfolio page.
// Array fields are never nil once normalized.
type PortfolioData struct {
	FullName string `json:"fullName"`
	Headline string `json:"headline"`
	About    string `json:"about"`
	Location string `json:"location"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
	GitHub   string `json:"github,omitempty"`
	Website  string `json:"website,omitempty"`

	Skills     []Skill      `json:"skills"`
	Experience []Experience `json:"experience"`
	Education  []Education  `json:"education"`
	Projects   []Project    `json:"projects"`
}

// Skill is a single skill with an estimated proficiency
type Skill struct {
	Name     string        `json:"name"`
	Level    int           `json:"level"` // 0-100
	Category SkillCategory `json:"category"`
}

// Experience is one position, most recent first
type Experience struct {
	Company     string `json:"company"`
	Role        string `json:"role"`
	Period      string `json:"period"`
	Description string `json:"description"`
}

// Education is one degree or course of study
type Education struct {
	Institution string `json:"institution"`
	Degree      string `json:"degree"`
	Year        string `json:"year"`
}

// Project is a portfolio project
type Project struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Technologies []string `json:"technologies"`
	Link         string   `json:"link,omitempty"`
}

// Normalize applies the boundary defaults in place: nil arrays become empty, skill
// levels clamp to 0-100, unknown categories become "other" and a missing name becomes
// PlaceholderName. Calling it twice is the same as calling it once.
func (p *PortfolioData) Normalize() {
	if p == nil {
		return
	}
	if strings.TrimSpace(p.FullName) == "" {
		p.FullName = PlaceholderName
	}
	if p.Skills == nil {
		p.Skills = []Skill{}
	}
	for i := range p.Skills {
		p.Skills[i].Level = ClampPercent(p.Skills[i].Level)
		if !p.Skills[i].Category.Valid() {
			p.Skills[i].Category = CategoryOther
		}
	}
	if p.Experience == nil {
		p.Experience = []Experience{}
	}
	if p.Education == nil {
		p.Education = []Education{}
	}
	if p.Projects == nil {
		p.Projects = []Project{}
	}
	for i := range p.Projects {
		if p.Projects[i].Technologies == nil {
			p.Projects[i].Technologies = []string{}
		}
	}
}

// HasRealName reports whether the record carries an extracted name rather than
// nothing or the placeholder.
func (p *PortfolioData) HasRealName() bool {
	if p == nil {
		return false
	}
	name := strings.TrimSpace(p.FullName)
	return name != "" && name != PlaceholderName
}

// HasSkill reports whether any skill matches name, ignoring case.
func (p *PortfolioData) HasSkill(name string) bool {
	for _, s := range p.Skills {
		if strings.EqualFold(s.Name, name) {
			return true
		}
	}
	return false
}

// ClampPercent limits v to the 0-100 range.
func ClampPercent(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// PercentFromFloat rounds a JSON number to the nearest integer and clamps it to 0-100.
func PercentFromFloat(f float64) int {
	if math.IsNaN(f) {
		return 0
	}
	return ClampPercent(int(math.Round(math.Max(math.Min(f, 1000), -1000))))
}
