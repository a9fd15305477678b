package model

import "strings"

// Language is the closed set of languages a submission may be written in.
type Language string

const (
	LangJavaScript Language = "javascript"
	LangPython     Language = "python"
	LangCpp        Language = "cpp"
	LangJava       Language = "java"
)

// ParseLanguage normalizes user input to a supported language. "c++" is
// accepted as an alias for cpp since clients commonly send it.
func ParseLanguage(s string) (Language, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "javascript":
		return LangJavaScript, true
	case "python":
		return LangPython, true
	case "cpp", "c++":
		return LangCpp, true
	case "java":
		return LangJava, true
	default:
		return "", false
	}
}

func (l Language) Valid() bool {
	switch l {
	case LangJavaScript, LangPython, LangCpp, LangJava:
		return true
	}
	return false
}
