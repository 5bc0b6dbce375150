package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/vncsmyrnk/notes/internal/core/domain"
	"github.com/vncsmyrnk/notes/internal/core/ports"
)

// SanitizeNote turns a decoded JSON object into a NoteInput. Unknown keys
// are dropped; enum values that are not recognised fail the request.
func SanitizeNote(raw map[string]any) (ports.NoteInput, error) {
	var in ports.NoteInput
	var err error

	if in.Title, err = requiredString(raw, "title", domain.MaxTitleLength); err != nil {
		return in, err
	}
	if in.Content, err = requiredString(raw, "content", domain.MaxContentLength); err != nil {
		return in, err
	}

	if in.Category, err = requiredString(raw, "category", 50); err != nil {
		return in, err
	}
	if !domain.IsCategory(in.Category) {
		return in, domain.NewValidationError("category", "Invalid category",
			"category must be one of: "+strings.Join(domain.Categories, ", "))
	}

	t, err := requiredString(raw, "type", 50)
	if err != nil {
		return in, err
	}
	in.Type = strings.ToLower(t)
	if !domain.TypeMatchesCategory(in.Category, in.Type) {
		return in, domain.NewValidationError("type", "Invalid type",
			fmt.Sprintf("type for %s must be one of: %s", in.Category, strings.Join(domain.TypesFor(in.Category), ", ")))
	}

	if in.Tags, err = NormalizeTags(raw["tags"]); err != nil {
		return in, err
	}

	in.Priority = domain.PriorityMedium
	if v, ok := raw["priority"]; ok && v != nil {
		p, isString := v.(string)
		if !isString {
			return in, domain.NewValidationError("priority", "priority must be a string")
		}
		if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
			if !domain.IsPriority(p) {
				return in, domain.NewValidationError("priority", "Invalid priority",
					"priority must be one of: "+strings.Join(domain.Priorities, ", "))
			}
			in.Priority = p
		}
	}

	if b, ok := raw["isArchived"].(bool); ok {
		in.IsArchived = &b
	}
	if b, ok := raw["isFavorite"].(bool); ok {
		in.IsFavorite = &b
	}

	return in, nil
}

// NormalizeTags accepts a JSON array of strings or a comma separated string.
// Output is lower-cased, free of empties and duplicates (first occurrence
// wins) and holds at most domain.MaxTags entries.
func NormalizeTags(v any) ([]string, error) {
	var candidates []string
	switch t := v.(type) {
	case nil:
		return []string{}, nil
	case string:
		candidates = strings.Split(t, ",")
	case []string:
		candidates = t
	case []any:
		for _, e := range t {
			if s, ok := e.(string); ok {
				candidates = append(candidates, s)
			}
		}
	default:
		return nil, domain.NewValidationError("tags", "tags must be an array of strings")
	}

	tags := make([]string, 0, len(candidates))
	seen := make(map[string]struct{}, len(candidates))
	for _, c := range candidates {
		tag, err := NormalizeTag(c)
		if err != nil {
			return nil, err
		}
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}

	if len(tags) > domain.MaxTags {
		tags = tags[:domain.MaxTags]
	}
	return tags, nil
}

// NormalizeTag trims and lower-cases a single tag. An empty result is not
// an error; callers decide whether they need a value.
func NormalizeTag(s string) (string, error) {
	tag := strings.ToLower(strings.TrimSpace(s))
	if utf8.RuneCountInString(tag) > domain.MaxTagLength {
		return "", domain.NewValidationError("tags", fmt.Sprintf("Each tag cannot exceed %d characters", domain.MaxTagLength))
	}
	return tag, nil
}

// ParseBool implements the query-string boolean rule: only the literal
// "true" is true.
func ParseBool(s string) bool {
	return s == "true"
}

func requiredString(raw map[string]any, field string, max int) (string, error) {
	s, ok := raw[field].(string)
	if !ok {
		if _, present := raw[field]; present && raw[field] != nil {
			return "", domain.NewValidationError(field, field+" must be a string")
		}
		return "", domain.NewValidationError(field, field+" is required")
	}

	s = strings.TrimSpace(s)
	if s == "" {
		return "", domain.NewValidationError(field, field+" is required")
	}
	if err := maxLength(field, s, max); err != nil {
		return "", err
	}
	return s, nil
}
