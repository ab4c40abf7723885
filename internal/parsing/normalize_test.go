package parsing

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/portfolio-builder/internal/llm"
	"github.com/jonathan/portfolio-builder/internal/types"
)

func TestNormalizeSkillName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Golang to Go", "Golang", "Go"},
		{"golang to Go", "golang", "Go"},
		{"GOLANG to Go", "GOLANG", "Go"},
		{"go lang to Go", "go lang", "Go"},
		{"JavaScript normalization", "javascript", "JavaScript"},
		{"JS to JavaScript uppercase", "JS", "JavaScript"},
		{"TS to TypeScript", "ts", "TypeScript"},
		{"K8s to Kubernetes", "k8s", "Kubernetes"},
		{"react.js to React", "react.js", "React"},
		{"react to React", "react", "React"},
		{"nodejs to Node.js", "nodejs", "Node.js"},
		{"postgres to PostgreSQL", "Postgres", "PostgreSQL"},
		{"python to Python", "python", "Python"},
		{"PYTHON to Python", "PYTHON", "Python"},
		{"short acronym kept", "AWS", "AWS"},
		{"Empty string", "", ""},
		{"Whitespace only", "   ", ""},
		{"Multi-word stays as-is", "Distributed Systems", "Distributed Systems"},
		{"Mixed case single word", "GraphQL", "GraphQL"},
		{"Accented lowercase", "élixir", "Élixir"},
		{"Umlaut lowercase", "über", "Über"},
		{"Cyrillic lowercase", "страховка", "Страховка"},
		{"Cyrillic all caps", "СТРАХОВКА", "Страховка"},
		{"Short non-ASCII acronym kept", "ÜBER", "ÜBER"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeSkillName(tt.input)
			assert.Equal(t, tt.expected, got)
			assert.True(t, utf8.ValidString(got))
		})
	}
}

func TestNormalizeSkills(t *testing.T) {
	input := []types.Skill{
		{Name: "reactjs", Level: 60, Category: types.CategoryOther},
		{Name: "Golang", Level: 90, Category: types.CategoryBackend},
		{Name: "React", Level: 80, Category: types.CategoryFrontend},
		{Name: "  ", Level: 50},
	}

	got := NormalizeSkills(input)

	assert.Equal(t, []types.Skill{
		{Name: "React", Level: 80, Category: types.CategoryFrontend},
		{Name: "Go", Level: 90, Category: types.CategoryBackend},
	}, got)
	assert.NotNil(t, NormalizeSkills(nil))
}

func TestPortfolioFromFields(t *testing.T) {
	fields := llm.Fields{
		"fullName": "Jane Smith",
		"title":    "Data Engineer",
		"skills": []any{
			map[string]any{"name": "SQL", "level": 250.0, "category": "Backend"},
			map[string]any{"name": "", "level": 10.0},
			"not an object",
		},
		"experience": []any{
			map[string]any{"company": "Acme", "title": "Engineer", "period": "2020 - Present"},
			map[string]any{"description": "orphan"},
		},
		"education": []any{map[string]any{"institution": "MIT", "degree": "BSc", "period": "2016"}},
		"projects": []any{
			map[string]any{"name": "ETL", "technologies": []any{"Go", "Kafka"}},
			map[string]any{"name": "CLI", "technologies": "Go"},
			map[string]any{"description": "no name"},
		},
	}

	p := portfolioFromFields(fields)
	p.Normalize()

	assert.Equal(t, "Data Engineer", p.Headline)
	assert.Equal(t, []types.Skill{{Name: "SQL", Level: 100, Category: types.CategoryBackend}}, p.Skills)
	assert.Equal(t, []types.Experience{{Company: "Acme", Role: "Engineer", Period: "2020 - Present"}}, p.Experience)
	assert.Equal(t, "2016", p.Education[0].Year)
	require.Len(t, p.Projects, 2)
	assert.Equal(t, []string{"Go", "Kafka"}, p.Projects[0].Technologies)
	assert.Equal(t, []string{}, p.Projects[1].Technologies)
}

func TestNormalize_Idempotent(t *testing.T) {
	p := portfolioFromFields(llm.Fields{"skills": []any{map[string]any{"name": "go", "level": -5.0}}})
	p.Skills = NormalizeSkills(p.Skills)
	p.Normalize()

	once := *p
	once.Skills = append([]types.Skill(nil), p.Skills...)

	p.Skills = NormalizeSkills(p.Skills)
	p.Normalize()

	assert.Equal(t, once, *p)
	assert.Equal(t, types.PlaceholderName, p.FullName)
	assert.Equal(t, 0, p.Skills[0].Level)
}
