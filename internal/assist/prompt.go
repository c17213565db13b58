package assist

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/v0xg/jobgate/internal/browser"
	"github.com/v0xg/jobgate/internal/login"
)

const systemPrompt = `You locate login form controls on web pages.

You will receive:
1. A page map containing the URL, title, and the visible inputs and buttons, each with a CSS selector
2. The list of controls to find: any of "username", "password", "submit"

"username" is the field for the user name, user id, email or account login.
"password" is the secret field.
"submit" is the button that sends the login form.

Output a JSON object mapping each requested control to an array of candidate CSS selectors, best first.
Use only selectors from the provided page map. Use an empty array when no element fits.

Example output:
{"username": ["#loginId"], "password": ["input[name=\"passwd\"]"]}

Respond ONLY with the JSON object, no explanation or markdown.`

func buildUserPrompt(pageMap *browser.PageMap, fields []login.Field) (string, error) {
	pageMapJSON, err := json.MarshalIndent(pageMap, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal page map: %w", err)
	}
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = string(f)
	}
	return "Page map:\n" + string(pageMapJSON) + "\n\nControls to find: " + strings.Join(names, ", "), nil
}

// parseSelectorsJSON extracts and parses a JSON object from a response that may contain surrounding text
func parseSelectorsJSON(response string) (map[login.Field][]string, error) {
	var out map[login.Field][]string
	if err := json.Unmarshal([]byte(response), &out); err == nil {
		return out, nil
	}

	start := strings.Index(response, "{")
	if start == -1 {
		return nil, fmt.Errorf("no JSON object found in response")
	}

	depth := 0
	end := -1
	inString := false
	for i := start; i < len(response) && end == -1; i++ {
		switch c := response[i]; {
		case c == '\\' && inString:
			i++
		case c == '"':
			inString = !inString
		case c == '{' && !inString:
			depth++
		case c == '}' && !inString:
			depth--
			if depth == 0 {
				end = i + 1
			}
		}
	}
	if end == -1 {
		return nil, fmt.Errorf("no matching closing brace found")
	}

	if err := json.Unmarshal([]byte(response[start:end]), &out); err != nil {
		return nil, fmt.Errorf("failed to parse extracted JSON: %w", err)
	}
	return out, nil
}
