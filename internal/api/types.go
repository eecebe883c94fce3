package api

// --- FAQ ---

// FAQ is one knowledge-base entry as the server returns it.
type FAQ struct {
	Question string   `json:"question"`
	Answer   string   `json:"answer"`
	Keywords []string `json:"keywords"`
}

// FAQInput is the body of create and full-replacement update requests.
type FAQInput struct {
	Question string   `json:"question"`
	Answer   string   `json:"answer"`
	Keywords []string `json:"keywords"`
}

// --- Auth ---

// LoginInput carries admin credentials.
type LoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// --- Ask ---

// AskInput is the body of a question request.
type AskInput struct {
	Question string `json:"question"`
}

// AskResponse is the server's answer to a question.
type AskResponse struct {
	Answer string `json:"answer"`
}
