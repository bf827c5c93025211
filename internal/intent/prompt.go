package intent

import "fmt"

// SystemPrompt is sent as the system message on every classification call.
const SystemPrompt = "You are a helpful assistant that classifies user prompts into strategies for fetching landmark images."

// maxPromptRunes bounds how much user text reaches the model.
const maxPromptRunes = 500

// BuildPrompt embeds the user's text in the fixed classification instruction.
func BuildPrompt(userPrompt string) string {
	if r := []rune(userPrompt); len(r) > maxPromptRunes {
		userPrompt = string(r[:maxPromptRunes])
	}

	return fmt.Sprintf(`You are an assistant that helps determine the strategy for fetching landmark images.
Given the following user prompt: %q,
please analyze the prompt and decide if the user is referring to a city name (STRATEGY A) or a descriptive query (STRATEGY B).
If it is a city name, respond with JSON formatted as:
{
    "strategy": "A",
    "city": "<extracted_city_name>"
}
If it is a descriptive query, respond with JSON formatted as:
{
    "strategy": "B",
    "description": "<extracted_description>"
}
Do not include any additional text in your response.`, userPrompt)
}
