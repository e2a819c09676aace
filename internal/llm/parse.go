package llm

import "strings"

// ExtractJSON extracts a JSON payload from a model response, stripping
// markdown code fences when present.
func ExtractJSON(content string) string {
	if body := extractFromCodeBlock(content, "```json", "```"); body != "" {
		return body
	}
	if body := extractFromCodeBlock(content, "```", "```"); body != "" {
		return body
	}

	return strings.TrimSpace(content)
}

func extractFromCodeBlock(content, startMarker, endMarker string) string {
	startIdx := strings.Index(content, startMarker)
	if startIdx == -1 {
		return ""
	}

	contentStart := startIdx + len(startMarker)
	// Skip newline after marker
	if contentStart < len(content) && content[contentStart] == '\n' {
		contentStart++
	}

	endIdx := strings.Index(content[contentStart:], endMarker)
	if endIdx == -1 {
		return ""
	}

	return strings.TrimSpace(content[contentStart : contentStart+endIdx])
}
