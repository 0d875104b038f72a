package command

import (
	"regexp"
	"strconv"
	"strings"
)

// deleteIDPattern anchors on the text right after the DELETE_JOB prefix:
// optional whitespace, then the digits. Anything after the digits is ignored.
var deleteIDPattern = regexp.MustCompile(`^\s*(\d+)`)

// Parse extracts at most one command from raw model text. The first prefix
// found in priority order wins; the rest of the text is treated as prose.
// Parse never fails: text without a usable command becomes NoCommand, except
// for an unreadable DELETE_JOB id which becomes Malformed.
func Parse(raw string) Command {
	switch {
	case strings.Contains(raw, PrefixCreate):
		fields, ok := splitFields(raw, PrefixCreate, len(createShape.Fields))
		if !ok {
			return NoCommand{Reply: raw}
		}
		return CreateJob{JobFields: jobFields(fields)}

	case strings.Contains(raw, PrefixEdit):
		fields, ok := splitFields(raw, PrefixEdit, len(editShape.Fields))
		if !ok {
			return NoCommand{Reply: raw}
		}
		id, ok := parseJobID(fields[0])
		if !ok {
			return NoCommand{Reply: raw}
		}
		return EditJob{JobID: id, JobFields: jobFields(fields[1:])}

	case strings.Contains(raw, PrefixDelete):
		_, rest, _ := strings.Cut(raw, PrefixDelete)
		match := deleteIDPattern.FindStringSubmatch(rest)
		if match == nil {
			return Malformed{Prefix: PrefixDelete, Reply: raw}
		}
		id, ok := parseJobID(match[1])
		if !ok {
			return Malformed{Prefix: PrefixDelete, Reply: raw}
		}
		return DeleteJob{JobID: id}

	default:
		return NoCommand{Reply: raw}
	}
}

// commandLine returns the text after the first occurrence of prefix, up to
// the end of that line.
func commandLine(raw, prefix string) string {
	_, rest, _ := strings.Cut(raw, prefix)
	line, _, _ := strings.Cut(rest, "\n")
	return line
}

// splitFields splits the command line on the separator and trims each field.
// It reports false when fewer than min fields are present.
func splitFields(raw, prefix string, min int) ([]string, bool) {
	parts := strings.Split(commandLine(raw, prefix), FieldSeparator)
	if len(parts) < min {
		return nil, false
	}

	fields := make([]string, len(parts))
	for i, p := range parts {
		fields[i] = strings.TrimSpace(p)
	}
	return fields, true
}

// jobFields maps title|description|company|location|salary; extra trailing
// fields are ignored.
func jobFields(f []string) JobFields {
	return JobFields{
		Title:       f[0],
		Description: f[1],
		Company:     f[2],
		Location:    f[3],
		Salary:      f[4],
	}
}

func parseJobID(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if s == "" || strings.HasPrefix(s, "+") {
		return 0, false
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id < 0 {
		return 0, false
	}
	return id, true
}
