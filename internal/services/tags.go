package services

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var promptStopWords = wordSet(
	"a", "an", "the", "and", "or", "but", "in", "on", "at", "to", "for", "of",
	"with", "by", "is", "are", "was", "were", "be", "been", "have", "has", "had",
	"do", "does", "did", "will", "would", "could", "should",
)

var contentStopWords = wordSet(
	"the", "a", "an", "and", "or", "but", "in", "on", "at", "to", "for", "of",
	"with", "by", "is", "are", "was", "were", "be", "been", "have", "has", "had",
	"do", "does", "did", "will", "would", "could", "should", "may", "might", "can",
	"this", "that", "these", "those", "i", "you", "he", "she", "it", "we", "they",
)

func wordSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

var (
	nonSlugChars = regexp.MustCompile(`[^a-z0-9\s]`)
	spaces       = regexp.MustCompile(`\s+`)
	punctuation  = regexp.MustCompile(`[^\w\s]`)
)

// ExtractPromptTags derives up to 5 tags from an image prompt: lowercase
// whitespace tokens longer than 3 characters that are not stop-words
func ExtractPromptTags(prompt string) []string {
	var tags []string
	for _, word := range strings.Fields(strings.ToLower(prompt)) {
		word = strings.TrimSpace(word)
		if len(word) <= 3 {
			continue
		}
		if _, stop := promptStopWords[word]; stop {
			continue
		}
		tags = append(tags, word)
		if len(tags) == 5 {
			break
		}
	}
	return tags
}

// ExtractContentTags derives tags from note content: punctuation stripped,
// lowercase tokens longer than 2 characters that are not stop-words. The first
// 10 candidates are taken before de-duplication, so repeated words shrink the
// result below 10.
func ExtractContentTags(content string) []string {
	cleaned := punctuation.ReplaceAllString(strings.ToLower(content), " ")

	var candidates []string
	for _, word := range strings.Fields(cleaned) {
		if len(word) <= 2 {
			continue
		}
		if _, stop := contentStopWords[word]; stop {
			continue
		}
		candidates = append(candidates, word)
		if len(candidates) == 10 {
			break
		}
	}

	var tags []string
	seen := make(map[string]struct{}, len(candidates))
	for _, word := range candidates {
		if _, dup := seen[word]; dup {
			continue
		}
		seen[word] = struct{}{}
		tags = append(tags, word)
	}
	return tags
}

// ImageFilename derives a filename from a sanitized, truncated slug of the
// prompt plus a date/time suffix
func ImageFilename(prompt string, t time.Time) string {
	slug := strings.ToLower(prompt)
	slug = nonSlugChars.ReplaceAllString(slug, "")
	slug = spaces.ReplaceAllString(strings.TrimSpace(slug), "-")
	if len(slug) > 30 {
		slug = slug[:30]
	}

	dateStr := t.Format("2006-01-02")
	timeStr := t.Format("15-04-05")
	return fmt.Sprintf("ai-image-%s-%s-%s.png", slug, dateStr, timeStr)
}
