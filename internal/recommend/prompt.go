package recommend

import (
	"fmt"
	"strings"
)

const (
	promptPreamble = "You are a helpful shopping assistant for an online store. " +
		"Recommend products from the catalog below that the customer is most likely to want next."
	promptClosing = "Respond with ONLY a JSON array of 4 to 6 product handles chosen from the list above, " +
		`for example ["handle-one","handle-two","handle-three","handle-four"]. ` +
		"Do not include any explanation or other text."

	maxCurrentDescription   = 300
	maxCandidateDescription = 100
)

// BuildPrompt renders the generative prompt for req. Output is deterministic.
func BuildPrompt(req Request) string {
	var b strings.Builder
	b.WriteString(promptPreamble)

	title := strings.TrimSpace(req.CurrentProductTitle)
	desc := strings.TrimSpace(req.CurrentProductDescription)
	if title != "" || desc != "" {
		b.WriteString("\n")
	}
	if title != "" {
		b.WriteString("\nCurrent product: ")
		b.WriteString(title)
	}
	if desc != "" {
		b.WriteString("\nDescription: ")
		b.WriteString(truncate(desc, maxCurrentDescription))
	}

	if query := strings.TrimSpace(req.UserQuery); query != "" {
		b.WriteString("\n\nCustomer preference: ")
		b.WriteString(query)
	}

	b.WriteString("\n\nAvailable products:")
	for i, p := range req.AvailableProducts {
		if i == MaxPromptCandidates {
			break
		}
		fmt.Fprintf(&b, "\n%d. %s (handle: %s)", i+1, p.Title, p.Handle)
		if desc := strings.TrimSpace(p.Description); desc != "" {
			b.WriteString(" - ")
			b.WriteString(truncate(desc, maxCandidateDescription))
		}
	}

	b.WriteString("\n\n")
	b.WriteString(promptClosing)
	return b.String()
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
