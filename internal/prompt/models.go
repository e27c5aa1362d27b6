package prompt

type StructuredRequestData struct {
	Task           string
	Context        string
	Requirements   string
	LanguageFormat string
	Examples       string
}

type TranslateData struct {
	Text   string
	Target string
}

type MediaHintData struct {
	Hint string
}
