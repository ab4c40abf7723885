package parsing

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/jonathan/portfolio-builder/internal/llm"
	"github.com/jonathan/portfolio-builder/internal/types"
)

// skillNormalizations maps common skill name variants to canonical names
var skillNormalizations = map[string]string{
	"golang":     "Go",
	"go lang":    "Go",
	"javascript": "JavaScript",
	"js":         "JavaScript",
	"typescript": "TypeScript",
	"ts":         "TypeScript",
	"k8s":        "Kubernetes",
	"kubernetes": "Kubernetes",
	"react":      "React",
	"react.js":   "React",
	"reactjs":    "React",
	"vue.js":     "Vue",
	"vuejs":      "Vue",
	"node.js":    "Node.js",
	"nodejs":     "Node.js",
	"postgres":   "PostgreSQL",
	"postgresql": "PostgreSQL",
}

// NormalizeSkillName normalizes a skill name to its canonical form
func NormalizeSkillName(skillName string) string {
	normalized := strings.TrimSpace(skillName)
	if normalized == "" {
		return ""
	}

	lower := strings.ToLower(normalized)
	if canonical, ok := skillNormalizations[lower]; ok {
		return canonical
	}

	// All-caps single words that aren't short acronyms: capitalize first letter only
	if normalized == strings.ToUpper(normalized) && utf8.RuneCountInString(normalized) > 4 && !strings.Contains(lower, " ") {
		return capitalize(lower)
	}

	// If all lowercase and single word, capitalize first letter
	if normalized == lower && !strings.Contains(normalized, " ") {
		return capitalize(normalized)
	}

	return normalized
}

func capitalize(s string) string {
	r, n := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[n:]
}

// NormalizeSkills canonicalizes skill names and merges duplicates, keeping the first
// position and the highest level.
func NormalizeSkills(skills []types.Skill) []types.Skill {
	normalized := make([]types.Skill, 0, len(skills))
	seen := make(map[string]int) // lowercased canonical name -> index in normalized

	for _, s := range skills {
		name := NormalizeSkillName(s.Name)
		if name == "" {
			continue
		}

		key := strings.ToLower(name)
		if idx, exists := seen[key]; exists {
			if s.Level > normalized[idx].Level {
				normalized[idx].Level = s.Level
			}
			if normalized[idx].Category == types.CategoryOther && s.Category.Valid() {
				normalized[idx].Category = s.Category
			}
			continue
		}

		s.Name = name
		normalized = append(normalized, s)
		seen[key] = len(normalized) - 1
	}

	return normalized
}

// portfolioFromFields builds a portfolio from a leniently decoded model response.
// Wrong-typed fields are treated as absent; the result still needs Normalize.
func portfolioFromFields(f llm.Fields) *types.PortfolioData {
	p := &types.PortfolioData{
		FullName: f.String("fullName"),
		Headline: f.FirstString("headline", "title"),
		About:    f.FirstString("about", "summary"),
		Location: f.String("location"),
		Email:    f.String("email"),
		Phone:    f.String("phone"),
		LinkedIn: f.String("linkedin"),
		GitHub:   f.String("github"),
		Website:  f.String("website"),
	}

	for _, s := range f.Objects("skills") {
		skill := types.Skill{
			Name:     s.String("name"),
			Category: types.SkillCategory(strings.ToLower(s.String("category"))),
		}
		if skill.Name == "" {
			continue
		}
		if level, ok := s.Number("level"); ok {
			skill.Level = types.PercentFromFloat(level)
		}
		p.Skills = append(p.Skills, skill)
	}

	for _, e := range f.Objects("experience") {
		exp := types.Experience{
			Company:     e.String("company"),
			Role:        e.FirstString("role", "title"),
			Period:      e.String("period"),
			Description: e.String("description"),
		}
		if exp.Company == "" && exp.Role == "" {
			continue
		}
		p.Experience = append(p.Experience, exp)
	}

	for _, e := range f.Objects("education") {
		edu := types.Education{
			Institution: e.String("institution"),
			Degree:      e.String("degree"),
			Year:        e.FirstString("year", "period"),
		}
		if edu.Institution == "" && edu.Degree == "" {
			continue
		}
		p.Education = append(p.Education, edu)
	}

	for _, pr := range f.Objects("projects") {
		project := types.Project{
			Name:         pr.String("name"),
			Description:  pr.String("description"),
			Technologies: pr.Strings("technologies"),
			Link:         pr.String("link"),
		}
		if project.Name == "" {
			continue
		}
		p.Projects = append(p.Projects, project)
	}

	return p
}
