package constant

// Canned assistant replies. These return verbatim on their pipeline
// branches and are recorded into conversation history as-is.
const (
	GreetingReply = "Hello! I'm here to help you understand your insurance coverage. What questions do you have about your policies?"

	NonInsuranceReply = "I specialize in helping with insurance and claims questions. Is there anything about your policies or coverage that I can help you with?"

	PolicyGateFallbackAsk = "To provide accurate information, I need a policy number. Please provide the policy number you're asking about."

	MissingPolicyReply = "I need your policy number to provide accurate information. Please provide your policy number."

	OpenEndedClarifyFallback = "I can help with that. Could you be more specific? For example, are you looking for coverage details, exclusions, or comparing policies?"

	InternalErrorReply = "Technical difficulties. Please try again."
)

// Sprintf templates filled by the assistant service.
const (
	// PolicyNotFoundTemplate takes the bold-joined policy number list and the
	// first number stripped of dashes and underscores.
	PolicyNotFoundTemplate = "Please provide the correct policy number(s): **%s**.\n\n" +
		"This could mean:\n" +
		"• The policy number might be incorrect or contain typos\n" +
		"• The policy documents haven't been uploaded to the system yet\n" +
		"• The policy number format might be different\n\n" +
		"Please:\n" +
		"• Double-check the policy number on your documents\n" +
		"• Try without dashes or spaces: `%s`\n" +
		"• Contact your agent if the issue persists"

	ComparisonOneMoreTemplate = "I found policy number **%s**. To complete the comparison, I need one more policy number. Please provide the second policy number."

	ComparisonInsufficientTemplate = "I found %d policy number(s) but need at least %d for this request. Please provide the additional policy number(s)."

	OpenEndedClarifyPromptTemplate = "The user asked %q which is too broad. Ask 1-3 clarifying questions to help them narrow their search."

	// CoverageClarifyFallbackTemplate takes the first policy number.
	CoverageClarifyFallbackTemplate = "To check your coverage under policy %s, I need a few details:\n\n" +
		"• When did this happen (or is this about future coverage)?\n" +
		"• Which area or property section are you asking about?\n" +
		"• What's your specific concern with the coverage?"
)

// CoverageClarifyPromptTemplate generates the targeted clarifying questions
// asked once per policy number before detailed coverage answers. Takes a
// situation description block and the raw user query.
const CoverageClarifyPromptTemplate = `You are an experienced insurance claims specialist.

%s

YOUR TASK: Ask 2-3 specific, targeted questions to understand their situation before checking coverage.

CRITICAL RULES:
- Be conversational and natural - NOT robotic
- NEVER use phrases like: "I'm here to help", "I'd be happy to", "I'm glad to assist"
- Get straight to the questions
- Be direct and professional

FOCUS YOUR QUESTIONS ON:
1. When the incident occurred (or if it's about future coverage)
2. Specific details about what happened
3. Extent/severity and any other parties involved

EXAMPLES:
BAD: "I'm here to help! To provide accurate coverage details, I need to know when this happened."
GOOD: "To check your coverage: When did this happen? What specifically broke down? Have you had it diagnosed?"

BAD: "I'd be happy to look that up for you. Let me ask a few questions first."
GOOD: "To pull up your exact coverage: When did the accident occur? Were there injuries? Was another vehicle involved?"

Now respond to: %q
Ask your 2-3 questions directly without robotic pleasantries.`

// Situation description variants feeding CoverageClarifyPromptTemplate.
const (
	// IncidentSituationTemplate takes the original incident utterance, the
	// joined policy numbers, and the current query.
	IncidentSituationTemplate = "ORIGINAL INCIDENT: The user said '%s'\nPOLICY PROVIDED: %s\nCURRENT QUERY: %s"

	// GeneralSituationTemplate takes the current query and the joined
	// policy numbers.
	GeneralSituationTemplate = "USER QUERY: %s\nPOLICY NUMBER: %s"
)
