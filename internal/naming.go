package internal

import (
	"strings"
	"unicode"
)

// ResourceName returns the HTTP path segment for a model name.
// Example: "Driver" → "driver", "VehicleColor" → "vehiclecolor"
func ResourceName(modelName string) string {
	return strings.ToLower(modelName)
}

// CollectionName returns the default collection name for a model name.
// Example: "User" → "users", "VehicleColor" → "vehicle_colors", "Category" → "categories"
func CollectionName(modelName string) string {
	words := splitWords(modelName)
	if len(words) == 0 {
		return ""
	}
	for i, w := range words {
		words[i] = strings.ToLower(w)
	}
	words[len(words)-1] = pluralize(words[len(words)-1])
	return strings.Join(words, "_")
}

// splitWords splits a Go identifier at case boundaries, keeping acronyms together.
// Example: "VehicleColor" → ["Vehicle", "Color"], "APIKey" → ["API", "Key"]
func splitWords(name string) []string {
	runes := []rune(name)
	var words []string
	start := 0
	for i := 1; i < len(runes); i++ {
		prev, cur := runes[i-1], runes[i]
		nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
		if unicode.IsUpper(cur) && (unicode.IsLower(prev) || (unicode.IsUpper(prev) && nextLower)) {
			words = append(words, string(runes[start:i]))
			start = i
		}
	}
	if start < len(runes) {
		words = append(words, string(runes[start:]))
	}
	return words
}

// pluralize performs a simple English pluralization of a lowercase word.
// Handles common cases: "user" → "users", "category" → "categories", "box" → "boxes"
func pluralize(s string) string {
	if s == "" {
		return s
	}
	if strings.HasSuffix(s, "y") && len(s) > 1 && !isVowel(rune(s[len(s)-2])) {
		return s[:len(s)-1] + "ies"
	}
	for _, suffix := range []string{"s", "x", "z", "ch", "sh"} {
		if strings.HasSuffix(s, suffix) {
			return s + "es"
		}
	}
	return s + "s"
}

func isVowel(r rune) bool {
	switch r {
	case 'a', 'e', 'i', 'o', 'u':
		return true
	}
	return false
}
