// Package redact strips sensitive information from strings before they are
// logged or surfaced in error responses. Database connection strings, SQL
// fragments, file paths, and host names routinely appear in driver errors
// and must never reach clients or log aggregators verbatim.
package redact

import "regexp"

// rule pairs a pattern with the placeholder that replaces its matches.
type rule struct {
	re          *regexp.Regexp
	placeholder string
}

// rules apply in order; earlier rules see the raw text, later ones see the
// prior substitutions.
var rules = []rule{
	// Connection strings with inline credentials.
	{
		re:          regexp.MustCompile(`(?i)(postgres|postgresql|mysql|db|database|connection)://[^@]+@`),
		placeholder: "[REDACTED_CREDENTIAL]",
	},
	// Key/value credentials, as found in DSN fragments.
	{
		re:          regexp.MustCompile(`(?i)(password|passwd|pwd)([=:\s]?['"]?)[^'"&\s]{3,}`),
		placeholder: "[REDACTED_CREDENTIAL]",
	},
	// Unix file paths with at least two segments.
	{
		re:          regexp.MustCompile(`(/[\w.-]+){2,}`),
		placeholder: "[REDACTED_PATH]",
	},
	// Windows file paths.
	{
		re:          regexp.MustCompile(`[A-Za-z]:\\[^\\]+(\\[^\\]+)+`),
		placeholder: "[REDACTED_PATH]",
	},
	// Stack traces, from the goroutine or panic header through the
	// tab-indented frame lines.
	{
		re:          regexp.MustCompile(`(?:goroutine \d+|panic:)[\s\S]*?(\n\t.*)+`),
		placeholder: "[STACK_TRACE_REDACTED]",
	},
	// SQL statements and fragments.
	{
		re: regexp.MustCompile(
			`(?i)(SELECT|INSERT|UPDATE|DELETE|CREATE|ALTER|DROP|GRANT)[\s\w,*()]+(?:FROM|INTO|SET|TABLE|DATABASE|SCHEMA|VIEW)(?:[\s\w,*()='"]+)?`,
		),
		placeholder: "[REDACTED_SQL]",
	},
	// Line positions and parser output that can reveal query text.
	{
		re:          regexp.MustCompile(`(?:at )?line ?\d+`),
		placeholder: "[REDACTED_LINE_NUMBER]",
	},
	{
		re:          regexp.MustCompile(`(?i)syntax error|syntax problem|parse error`),
		placeholder: "[REDACTED_SYNTAX_ERROR]",
	},
	// Qualified host names, optionally with a port.
	{
		re: regexp.MustCompile(
			`\b(?:[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?\.)+[a-zA-Z]{2,}(?::\d{1,5})?\b`,
		),
		placeholder: "[REDACTED_HOST]",
	},
}

// String applies every redaction rule to input and returns the result.
func String(input string) string {
	if input == "" {
		return input
	}

	result := input
	for _, r := range rules {
		result = r.re.ReplaceAllString(result, r.placeholder)
	}

	return result
}

// Error redacts err's message. A nil error redacts to the empty string.
func Error(err error) string {
	if err == nil {
		return ""
	}

	return String(err.Error())
}
