package ai

// OperationPrompts holds the system instruction and user prompt
// template for one AI operation
type OperationPrompts struct {
	System string
	User   string
}

// DefaultOptimizePrompts drives the resume optimization operation.
// The user template takes the resume text and the job description.
var DefaultOptimizePrompts = OperationPrompts{
	System: `You are a precise resume optimization assistant with a strict commitment to honesty. Your core principles are:

- NEVER invent experience, skills, dates, or metrics
- Every statement in the optimized resume must be traceable to the original
- Rephrase bullet points to be achievement and action oriented
- Keep the total resume length similar to the original; do not write essays

Your expertise includes resume writing, ATS (Applicant Tracking System) optimization, and HR best practices.`,

	User: `Given the candidate resume and the job description below, produce:

1. An optimized resume text tuned to the role (no fabrication).
2. A short prioritized list (3-6) of keywords worth adding where truthful.
3. A short change log explaining what you changed and why.

**Resume:**
-----
%s
-----

**Job Description:**
-----
%s
-----`,
}

// DefaultExtractPrompts drives structured requirement extraction from a
// job description. The user template takes the job description text.
var DefaultExtractPrompts = OperationPrompts{
	System: `You are an expert recruiter who converts job descriptions into structured data. Your principles are:

- Extract only what the posting actually states; never infer requirements it does not mention
- Distinguish hard requirements from nice-to-have items
- Normalize skill names to their common short form (e.g. "Golang" to "Go")`,

	User: `Extract the structured requirements from the job description below.

Return:
- title: the role title
- requiredSkills: skills and technologies the posting requires
- niceToHave: skills listed as preferred, bonus, or a plus
- experience: the stated experience requirement, verbatim where possible
- education: the stated education requirement, if any

**Job Description:**
-----
%s
-----`,
}

// resolvePrompt selects the prompt string by priority: an operator
// override from configuration wins over the built-in default. File
// based overrides are folded into the configuration at load time.
func resolvePrompt(fromConfig, fromDefault string) string {
	if fromConfig != "" {
		return fromConfig
	}
	return fromDefault
}
