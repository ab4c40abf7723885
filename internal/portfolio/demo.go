package portfolio

import "github.com/jonathan/portfolio-builder/internal/types"

// DemoPassword is the password of every demo account.
const DemoPassword = "password123"

// DemoAccount is a fixture account seeded into the memory driver
type DemoAccount struct {
	Name        string
	Email       string
	Role        types.Role
	CompanyName string
	Portfolio   *types.PortfolioData
	Analysis    *types.ResumeAnalysis
}

// DemoAccounts returns fresh copies of the demo fixtures: two candidates with saved
// portfolios and one employer.
func DemoAccounts() []DemoAccount {
	return []DemoAccount{
		{
			Name:  "Alex Frontend",
			Email: "candidate@demo.com",
			Role:  types.RoleCandidate,
			Portfolio: &types.PortfolioData{
				FullName: "Alex Frontend",
				Headline: "Senior React Developer | UI/UX Enthusiast",
				About:    "Passionate frontend engineer with 5 years of experience building scalable web applications. I specialize in React, TypeScript, and modern CSS architectures.",
				Location: "San Francisco, CA",
				Email:    "candidate@demo.com",
				Skills: []types.Skill{
					{Name: "React", Level: 95, Category: types.CategoryFrontend},
					{Name: "TypeScript", Level: 90, Category: types.CategoryFrontend},
					{Name: "Node.js", Level: 80, Category: types.CategoryBackend},
					{Name: "Communication", Level: 85, Category: types.CategorySoftSkills},
				},
				Experience: []types.Experience{
					{Company: "TechFlow Inc", Role: "Senior Engineer", Period: "2021-Present", Description: "Leading the frontend team."},
				},
			},
			Analysis: &types.ResumeAnalysis{
				Score:         88,
				Summary:       "Strong technical profile with clear progression.",
				Strengths:     []string{"Modern Tech Stack", "Leadership Experience"},
				Weaknesses:    []string{"Could add more metric-driven results"},
				MarketOutlook: "High demand for Senior React Developers.",
			},
		},
		{
			Name:  "Sarah Designer",
			Email: "sarah@demo.com",
			Role:  types.RoleCandidate,
			Portfolio: &types.PortfolioData{
				FullName: "Sarah Designer",
				Headline: "Product Designer & Frontend Dev",
				About:    "Bridging the gap between design and code.",
				Location: "New York, NY",
				Email:    "sarah@demo.com",
				Skills: []types.Skill{
					{Name: "Figma", Level: 98, Category: types.CategoryDesign},
					{Name: "CSS", Level: 90, Category: types.CategoryFrontend},
				},
			},
			Analysis: &types.ResumeAnalysis{
				Score:         82,
				Summary:       "Great hybrid profile.",
				Strengths:     []string{"Design Systems", "Prototyping"},
				Weaknesses:    []string{"Limited backend exposure"},
				MarketOutlook: "Growing demand for UX Engineers.",
			},
		},
		{
			Name:        "Tech Recruiter",
			Email:       "employer@demo.com",
			Role:        types.RoleEmployer,
			CompanyName: "Demo Corp",
		},
	}
}
