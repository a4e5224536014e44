package roadmap

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Complexity levels derived from the project description.
const (
	ComplexityLow    = "low"
	ComplexityMedium = "medium"
	ComplexityHigh   = "high"
)

// Deadlines under 30 days switch the prompt to a fast-tracked plan.
const tightDeadlineDays = 30

var complexityKeywords = map[string][]string{
	ComplexityHigh: {"complex", "advanced", "sophisticated", "extensive", "comprehensive", "enterprise",
		"microservices", "distributed", "real-time", "ai", "ml", "machine learning",
		"blockchain", "scalable", "high-performance", "multi-tenant", "big data"},
	ComplexityMedium: {"moderate", "standard", "typical", "conventional", "regular", "normal",
		"api", "integration", "dashboard", "authentication", "authorization"},
	ComplexityLow: {"simple", "basic", "minimal", "straightforward", "easy", "small", "prototype",
		"mvp", "proof of concept", "poc", "single-page", "static"},
}

var deadlineFormats = []string{"2006-01-02", "01/02/2006", "02-01-2006"}

var datePattern = regexp.MustCompile(`\d{4}-\d{2}-\d{2}|\d{2}/\d{2}/\d{4}|\d{2}-\d{2}-\d{4}`)

// Analysis summarizes what the prompt builder inferred about a project.
type Analysis struct {
	Complexity    string
	Factors       []string
	Methodology   string
	DaysRemaining int
	HasDeadline   bool
	TightDeadline bool
}

// Analyze inspects the request text and deadline to choose a complexity
// level and development methodology for the prompt.
func Analyze(req Request, now time.Time) Analysis {
	combined := strings.ToLower(req.Description + " " + req.ProblemStatement)

	counts := map[string]int{}
	factors := map[string][]string{}
	for level, words := range complexityKeywords {
		for _, word := range words {
			if strings.Contains(combined, word) {
				counts[level]++
				if len(factors[level]) < 3 {
					factors[level] = append(factors[level], word)
				}
			}
		}
	}

	complexity := ComplexityMedium
	if counts[ComplexityHigh] > counts[ComplexityMedium]+counts[ComplexityLow] {
		complexity = ComplexityHigh
	} else if counts[ComplexityLow] > counts[ComplexityHigh]+counts[ComplexityMedium] {
		complexity = ComplexityLow
	}

	analysis := Analysis{
		Complexity: complexity,
		Factors:    factors[complexity],
	}

	if match := datePattern.FindString(req.Deadline); match != "" {
		for _, format := range deadlineFormats {
			deadline, err := time.Parse(format, match)
			if err != nil {
				continue
			}
			days := int(deadline.Sub(now).Hours() / 24)
			if days < 0 {
				days = 0
			}
			analysis.DaysRemaining = days
			analysis.HasDeadline = true
			analysis.TightDeadline = days < tightDeadlineDays
			break
		}
	}

	analysis.Methodology = chooseMethodology(combined, analysis.TightDeadline)
	return analysis
}

func chooseMethodology(combined string, tightDeadline bool) string {
	switch {
	case tightDeadline:
		return "Agile with Sprint cycles"
	case strings.Contains(combined, "waterfall"):
		return "Waterfall"
	case strings.Contains(combined, "devops"), strings.Contains(combined, "ci/cd"):
		return "DevOps with CI/CD"
	case strings.Contains(combined, "microservices"):
		return "Microservices Architecture"
	case strings.Contains(combined, "machine learning"), strings.Contains(combined, "ai"):
		return "AI/ML Development Pipeline"
	}
	return "Agile"
}

// BuildPrompt assembles the full generation prompt from the request and its
// analysis. The timestamp keeps repeated requests from producing cached
// answers.
func BuildPrompt(req Request, analysis Analysis, now time.Time) string {
	var context strings.Builder
	fmt.Fprintf(&context, "Create a detailed software development roadmap for '%s'.", req.Title)

	if req.Description != "" {
		fmt.Fprintf(&context, " The goal is to %s.", strings.TrimSuffix(req.Description, "."))
	}
	if req.ProblemStatement != "" {
		fmt.Fprintf(&context, " The key challenge to solve is: %s.", strings.TrimSuffix(req.ProblemStatement, "."))
	}

	if analysis.HasDeadline {
		if analysis.TightDeadline {
			fmt.Fprintf(&context, " CRITICAL: There are only %d days to complete this project, which is a tight deadline. The roadmap must be streamlined and prioritize critical development tasks.", analysis.DaysRemaining)
		} else {
			fmt.Fprintf(&context, " The project timeline allows %d days for completion.", analysis.DaysRemaining)
		}
	} else if req.Deadline != "" {
		fmt.Fprintf(&context, " The deadline is %s.", req.Deadline)
	}

	fmt.Fprintf(&context, " This is a %s complexity software project", analysis.Complexity)
	if len(analysis.Factors) > 0 {
		fmt.Fprintf(&context, " with %s", strings.Join(analysis.Factors, ", "))
	}
	context.WriteString(".")

	fmt.Fprintf(&context, " Implement a %s approach for this software development project.", analysis.Methodology)

	days := "unknown"
	if analysis.HasDeadline {
		days = fmt.Sprintf("%d", analysis.DaysRemaining)
	}

	return fmt.Sprintf(`%s

Requirements and Context:
%s

Software Development Requirements:
1. Generate a STRICTLY SOFTWARE DEVELOPMENT-FOCUSED roadmap, not a generic project plan
2. The number of phases and tasks must be dynamically determined based on project complexity:
   - Low complexity: 3-4 phases with 2-3 tasks each
   - Medium complexity: 4-5 phases with 3-4 tasks each
   - High complexity: 5-7 phases with 4-6 tasks each
3. For tight deadlines (under 30 days), prioritize essential development tasks and create a fast-tracked plan

4. Structure phases according to standard software development lifecycle:
   - Include initial phases for planning, requirements gathering, and design
   - Include middle phases for development, testing, and integration
   - Include final phases for deployment, documentation, and maintenance

5. MUST incorporate industry best practices relevant to the project:
   - For %s projects, include specific methodology elements
   - Include necessary testing stages (unit, integration, system, user acceptance)
   - Include DevOps practices where relevant (CI/CD, infrastructure as code)
   - For AI/ML projects, include data processing and model training steps

6. Provide realistic time estimates for each task that:
   - Account for the project's total available time of %s days
   - Allocate time proportionally based on task complexity and importance
   - Include buffer time for unexpected issues and revisions

7. Ensure each task is:
   - Specific to software development (NO generic market research, presentations, etc.)
   - Actionable and measurable
   - Technical in nature with clear deliverables
   - Described with software development terminology and concepts

8. IMPORTANT: This is a unique request (timestamp: %d). Do not provide a generic or templated roadmap. Create a completely fresh and unique roadmap specific to this project's needs.

Please provide the response in the following JSON format:
{
    "phases": [
        {
            "name": "Phase name - must be specific to software development",
            "description": "Phase description with methodology and technical details",
            "tasks": [
                {
                    "title": "Technical task title",
                    "description": "Detailed technical description",
                    "estimated_duration": "X days"
                }
            ]
        }
    ]
}`, context.String(), buildRequirements(req), analysis.Methodology, days, now.Unix())
}

func buildRequirements(req Request) string {
	lines := []string{
		"Project Title: " + req.Title,
		"Description: " + req.Description,
		"Priority: " + req.Priority,
		"Deadline: " + req.Deadline,
		"Requirements/Goals: " + req.ProblemStatement,
	}
	if req.Progress != "" {
		lines = append(lines, "Current Progress: "+req.Progress)
	}
	return strings.Join(lines, "\n")
}
