package llm

import (
	"strings"

	"github.com/google/generative-ai-go/genai"

	"github.com/jonathan/portfolio-builder/internal/types"
)

// FieldType is the JSON type of a schema field
type FieldType string

// Field types supported by both backends
const (
	TypeString  FieldType = "string"
	TypeInteger FieldType = "integer"
	TypeNumber  FieldType = "number"
	TypeArray   FieldType = "array"
	TypeObject  FieldType = "object"
)

// SchemaField defines a single field in an extraction schema
type SchemaField struct {
	Name        string
	Type        FieldType
	Description string
	Enum        []string
	Items       *SchemaField  // element type for arrays
	Fields      []SchemaField // properties for objects
	Required    bool
}

// ExtractionSchema defines the output contract of a model call
type ExtractionSchema struct {
	Name   string
	Fields []SchemaField
}

// GenaiSchema converts the schema into a Gemini response schema.
func (s ExtractionSchema) GenaiSchema() *genai.Schema {
	return SchemaField{Type: TypeObject, Fields: s.Fields}.genai()
}

func (f SchemaField) genai() *genai.Schema {
	out := &genai.Schema{Description: f.Description}
	switch f.Type {
	case TypeString:
		out.Type = genai.TypeString
		if len(f.Enum) > 0 {
			out.Format = "enum"
			out.Enum = f.Enum
		}
	case TypeInteger:
		out.Type = genai.TypeInteger
	case TypeNumber:
		out.Type = genai.TypeNumber
	case TypeArray:
		out.Type = genai.TypeArray
		if f.Items != nil {
			out.Items = f.Items.genai()
		}
	case TypeObject:
		out.Type = genai.TypeObject
		out.Properties = make(map[string]*genai.Schema, len(f.Fields))
		for _, field := range f.Fields {
			out.Properties[field.Name] = field.genai()
			if field.Required {
				out.Required = append(out.Required, field.Name)
			}
		}
	}
	return out
}

// StructureHint renders the schema as an annotated JSON skeleton for prompts
// sent to backends that cannot enforce a response schema.
func (s ExtractionSchema) StructureHint() string {
	var sb strings.Builder
	writeHint(&sb, SchemaField{Type: TypeObject, Fields: s.Fields}, 0)
	return sb.String()
}

func writeHint(sb *strings.Builder, f SchemaField, indent int) {
	switch f.Type {
	case TypeString:
		switch {
		case len(f.Enum) > 0:
			sb.WriteString(`"` + strings.Join(f.Enum, "|") + `"`)
		case f.Description != "":
			sb.WriteString(`"string (` + f.Description + `)"`)
		default:
			sb.WriteString(`"string"`)
		}
	case TypeInteger, TypeNumber:
		sb.WriteString("number")
		if f.Description != "" {
			sb.WriteString(" (" + f.Description + ")")
		}
	case TypeArray:
		if f.Items == nil {
			sb.WriteString("[]")
			return
		}
		if f.Items.Type != TypeObject {
			sb.WriteString("[")
			writeHint(sb, *f.Items, indent)
			sb.WriteString("]")
			return
		}
		sb.WriteString("[\n")
		sb.WriteString(pad(indent + 1))
		writeHint(sb, *f.Items, indent+1)
		sb.WriteString("\n" + pad(indent) + "]")
	case TypeObject:
		sb.WriteString("{\n")
		for i, field := range f.Fields {
			sb.WriteString(pad(indent+1) + `"` + field.Name + `": `)
			writeHint(sb, field, indent+1)
			if i < len(f.Fields)-1 {
				sb.WriteString(",")
			}
			sb.WriteString("\n")
		}
		sb.WriteString(pad(indent) + "}")
	}
}

func pad(indent int) string {
	return strings.Repeat("  ", indent)
}

func stringField(name, description string) SchemaField {
	return SchemaField{Name: name, Type: TypeString, Description: description}
}

func stringList(name string) SchemaField {
	return SchemaField{Name: name, Type: TypeArray, Items: &SchemaField{Type: TypeString}}
}

func skillCategories() []string {
	out := make([]string, len(types.SkillCategories))
	for i, c := range types.SkillCategories {
		out[i] = string(c)
	}
	return out
}

// PortfolioSchema is the output contract of resume extraction
func PortfolioSchema() ExtractionSchema {
	return ExtractionSchema{
		Name: "portfolio",
		Fields: []SchemaField{
			{Name: "fullName", Type: TypeString, Required: true},
			stringField("headline", "job title/role"),
			stringField("about", "compelling professional bio, 2-3 sentences"),
			stringField("location", ""),
			stringField("email", ""),
			stringField("phone", ""),
			stringField("linkedin", "URL"),
			stringField("github", "URL"),
			stringField("website", "URL"),
			{
				Name: "skills",
				Type: TypeArray,
				Items: &SchemaField{
					Type: TypeObject,
					Fields: []SchemaField{
						{Name: "name", Type: TypeString, Required: true},
						{Name: "level", Type: TypeInteger, Description: "0-100", Required: true},
						{Name: "category", Type: TypeString, Enum: skillCategories(), Required: true},
					},
				},
			},
			{
				Name: "experience",
				Type: TypeArray,
				Items: &SchemaField{
					Type: TypeObject,
					Fields: []SchemaField{
						{Name: "company", Type: TypeString, Required: true},
						{Name: "role", Type: TypeString, Required: true},
						stringField("period", "date range"),
						stringField("description", "responsibilities and achievements"),
					},
				},
			},
			{
				Name: "education",
				Type: TypeArray,
				Items: &SchemaField{
					Type: TypeObject,
					Fields: []SchemaField{
						{Name: "institution", Type: TypeString, Required: true},
						stringField("degree", ""),
						stringField("year", ""),
					},
				},
			},
			{
				Name: "projects",
				Type: TypeArray,
				Items: &SchemaField{
					Type: TypeObject,
					Fields: []SchemaField{
						{Name: "name", Type: TypeString, Required: true},
						stringField("description", ""),
						stringList("technologies"),
						stringField("link", "URL"),
					},
				},
			},
		},
	}
}

// AnalysisSchema is the output contract of resume analysis
func AnalysisSchema() ExtractionSchema {
	return ExtractionSchema{
		Name: "analysis",
		Fields: []SchemaField{
			{Name: "score", Type: TypeInteger, Description: "0-100 overall resume strength", Required: true},
			stringField("summary", "2-3 sentence assessment"),
			stringList("strengths"),
			stringList("weaknesses"),
			stringField("marketOutlook", "current demand for this profile"),
			{
				Name: "jobRecommendations",
				Type: TypeArray,
				Items: &SchemaField{
					Type: TypeObject,
					Fields: []SchemaField{
						{Name: "title", Type: TypeString, Required: true},
						stringField("company", ""),
						stringField("location", ""),
						stringField("reason", "why this role fits"),
						{Name: "matchScore", Type: TypeInteger, Description: "0-100"},
						stringField("salaryRange", ""),
						stringField("url", "application link if known"),
					},
				},
			},
		},
	}
}
