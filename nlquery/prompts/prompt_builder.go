package prompts

import (
	"fmt"
)

// PromptBuilder handles the construction of prompts for the LLM
type PromptBuilder struct {
	baseContext string
}

// NewPromptBuilder creates a new PromptBuilder with schema context
func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{
		baseContext: SchemaContext(),
	}
}

// BuildRequestPrompt asks the model to pick one report and its prompt
// answers for a question. catalog lists the reports and their prompt keys.
func (pb *PromptBuilder) BuildRequestPrompt(catalog, question string) string {
	return fmt.Sprintf(`You route questions about NCAA football to a fixed set of reports. You never write SQL.

%s
Reports (id: title, then the prompt keys each report accepts with their kind and column):
%s
Rules:
1. Pick exactly one report id from the list. For the analysis questions use the analysis/... id.
2. Fill "selections" only with keys listed under that report.
3. select keys take one value of the column, exactly as stored (e.g. "TX", "SEC", "QB"); omit them to mean All.
4. search keys take a short case-insensitive substring.
5. min keys take a number; date_from keys take a date as YYYY-MM-DD.
6. expression keys take a boolean expression such as: state == "TX" and roof_type != "dome".
7. param keys name the team or table the report is about.
8. Answer with JSON only, no prose and no code fences:
   {"report": "<id>", "selections": {"<key>": "<value>"}, "explanation": "<one sentence>"}

Examples:
1. "big stadiums in texas"
   {"report": "venues", "selections": {"state": "TX", "min_capacity": "50000"}, "explanation": "Venues in Texas holding at least 50,000."}
2. "who coaches georgia"
   {"report": "team-profile", "selections": {"team": "Georgia"}, "explanation": "Georgia's profile lists its coaches."}
3. "which teams got the most first place votes"
   {"report": "analysis/fp-votes", "selections": {}, "explanation": "Total first-place votes per team."}

Question: %s`, pb.baseContext, catalog, question)
}

// BuildRepairPrompt asks the model to correct a previous answer.
func (pb *PromptBuilder) BuildRepairPrompt(request, answer string, err error) string {
	return fmt.Sprintf(`%s

Your previous answer was:
%s

It was rejected: %v
Answer again with corrected JSON only.`, request, answer, err)
}

// BuildErrorPrompt creates a prompt for generating user-friendly error messages
func (pb *PromptBuilder) BuildErrorPrompt(question string, err error) string {
	return fmt.Sprintf(`Generate a user-friendly error message for this failed question about NCAA football data:

Question: "%s"

Error: %v

Requirements:
1. Explain the issue in simple terms
2. Suggest how to rephrase the question
3. Keep the message concise and helpful
4. Answer with JSON only: {"message": "<text>"}`, question, err)
}
