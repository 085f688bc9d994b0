// Package imagery owns the on-disk codec for variant image lists: a single
// comma-joined string column mixing plain URLs, root-relative paths, and
// base64 data URIs. The comma inside a data URI's "data:<mime>;base64," prefix
// must never act as a separator.
package imagery

import "strings"

const dataURIPrefix = "data:"

// Join encodes an image list into the persisted column representation.
// Blank entries are dropped.
func Join(urls []string) string {
	cleaned := make([]string, 0, len(urls))
	for _, u := range urls {
		if trimmed := strings.TrimSpace(u); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	return strings.Join(cleaned, ",")
}

// Split decodes the persisted column back into an image list. A comma that
// terminates a data URI header is glued back onto its payload rather than
// starting a new entry.
func Split(field string) []string {
	if strings.TrimSpace(field) == "" {
		return nil
	}

	parts := strings.Split(field, ",")
	out := make([]string, 0, len(parts))
	for i := 0; i < len(parts); i++ {
		part := strings.TrimSpace(parts[i])
		if part == "" {
			continue
		}
		if strings.HasPrefix(part, dataURIPrefix) && i+1 < len(parts) {
			// data:image/png;base64 was split from its payload; rejoin.
			part = part + "," + parts[i+1]
			i++
		}
		out = append(out, part)
	}
	return out
}

// Normalize produces the comparison key used to de-duplicate images: a
// leading slash is equivalent to none, and base64 payloads compare by exact
// string equality.
func Normalize(url string) string {
	url = strings.TrimSpace(url)
	if strings.HasPrefix(url, dataURIPrefix) {
		return url
	}
	return strings.TrimPrefix(url, "/")
}

// Dedupe removes duplicate images under Normalize equivalence, preserving the
// first occurrence's original form.
func Dedupe(urls []string) []string {
	seen := make(map[string]struct{}, len(urls))
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		if strings.TrimSpace(u) == "" {
			continue
		}
		key := Normalize(u)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, u)
	}
	return out
}
