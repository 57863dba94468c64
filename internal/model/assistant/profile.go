package assistant

// DefaultModel is the hosted model used when AI_MODEL is not set.
const DefaultModel = "gemini-2.5-flash"

// DefaultSystemInstruction is the fixed persona preamble sent once when the session is created.
const DefaultSystemInstruction = `You are attention.ai, a friendly and encouraging AI Doubt Buddy for students.
Your goal is to help students understand concepts without just giving away the answer.
Explain concepts clearly, simply, and in a supportive tone.
If a student is struggling, offer hints and break down the problem into smaller steps.
Use emojis to make the conversation engaging and fun.
Keep your responses concise and easy to read.`

// DefaultFallbackMessage is shown in place of a reply whenever the exchange with the assistant fails.
const DefaultFallbackMessage = "Oops! I'm having a little trouble thinking right now. Please try again in a moment."

// DefaultGreeting opens every new conversation.
const DefaultGreeting = "Hi there! 👋 I'm your AI Doubt Buddy. Stuck on a concept? Ask me anything and we'll work through it together."

// Profile captures the assistant attributes exposed to the frontend.
type Profile struct {
	Name              string `json:"name"`
	Model             string `json:"model"`
	Greeting          string `json:"greeting"`
	SystemInstruction string `json:"-"`
	FallbackMessage   string `json:"-"`
}

// NewProfile fills blank fields with the Doubt Buddy defaults.
func NewProfile(model, systemInstruction, fallback string) Profile {
	p := Profile{
		Name:              "AI Doubt Buddy",
		Model:             model,
		Greeting:          DefaultGreeting,
		SystemInstruction: systemInstruction,
		FallbackMessage:   fallback,
	}
	if p.Model == "" {
		p.Model = DefaultModel
	}
	if p.SystemInstruction == "" {
		p.SystemInstruction = DefaultSystemInstruction
	}
	if p.FallbackMessage == "" {
		p.FallbackMessage = DefaultFallbackMessage
	}
	return p
}
