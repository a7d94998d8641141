package quizgen

import "github.com/tmc/langchaingo/prompts"

const quizTemplate = `Text:
{{.text}}

You are an expert MCQ maker. Given the above text, it is your job to create a quiz of {{.number}} multiple choice questions for {{.subject}} students in {{.tone}} tone.
Make sure the questions are not repeated and check that every question conforms to the text.
Format your response like RESPONSE_JSON below and use it as a guide. Respond with the JSON object only.
Ensure to make {{.number}} MCQs.
### RESPONSE_JSON
{{.response_json}}`

const reviewTemplate = `You are an expert English grammarian and writer. Given a multiple choice quiz for {{.subject}} students,
evaluate the complexity of the questions and give a complete analysis of the quiz. Use at most 50 words for the complexity analysis.
If the quiz is not on par with the cognitive and analytical abilities of the students, update the questions that need to change and adjust the tone so it fits the students' abilities.
Quiz_MCQs:
{{.quiz}}

Check from an expert English writer of the above quiz:`

func newQuizPrompt() prompts.PromptTemplate {
	return prompts.NewPromptTemplate(quizTemplate, []string{"text", "number", "subject", "tone", "response_json"})
}

func newReviewPrompt() prompts.PromptTemplate {
	return prompts.NewPromptTemplate(reviewTemplate, []string{"subject", "quiz"})
}
