package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse_CreateJob(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want JobFields
	}{
		{
			name: "bare command",
			raw:  "CREATE_JOB: Backend Engineer|build APIs|Acme Corp|Remote|$100k",
			want: JobFields{Title: "Backend Engineer", Description: "build APIs", Company: "Acme Corp", Location: "Remote", Salary: "$100k"},
		},
		{
			name: "prose before and after",
			raw:  "Sure! Here you go:\nCREATE_JOB:  a | b |c|  d|e  \nLet me know if you need anything else.",
			want: JobFields{Title: "a", Description: "b", Company: "c", Location: "d", Salary: "e"},
		},
		{
			name: "prose on the same line before the prefix",
			raw:  "Okay CREATE_JOB: a|b|c|d|e",
			want: JobFields{Title: "a", Description: "b", Company: "c", Location: "d", Salary: "e"},
		},
		{
			name: "extra fields ignored",
			raw:  "CREATE_JOB: a|b|c|d|e|f|g",
			want: JobFields{Title: "a", Description: "b", Company: "c", Location: "d", Salary: "e"},
		},
		{
			name: "whitespace-only fields become empty",
			raw:  "CREATE_JOB: a|   |c|d|  ",
			want: JobFields{Title: "a", Description: "", Company: "c", Location: "d", Salary: ""},
		},
		{
			name: "windows line endings",
			raw:  "CREATE_JOB: a|b|c|d|e\r\nthanks",
			want: JobFields{Title: "a", Description: "b", Company: "c", Location: "d", Salary: "e"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.raw)
			assert.Equal(t, CreateJob{JobFields: tt.want}, got)
		})
	}
}

func TestParse_CreateJobTooFewFields(t *testing.T) {
	raw := "CREATE_JOB: a|b|c|d\nand salary e on the next line|"

	assert.Equal(t, NoCommand{Reply: raw}, Parse(raw))
}

func TestParse_EditJob(t *testing.T) {
	raw := "Updating now.\nEDIT_JOB: 42 | Senior Engineer|Lead APIs|Acme|Berlin|€90k\n"

	got := Parse(raw)

	assert.Equal(t, EditJob{
		JobID:     42,
		JobFields: JobFields{Title: "Senior Engineer", Description: "Lead APIs", Company: "Acme", Location: "Berlin", Salary: "€90k"},
	}, got)
}

func TestParse_EditJobMalformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "five fields", raw: "EDIT_JOB: 1|a|b|c|d"},
		{name: "one field", raw: "EDIT_JOB: 1"},
		{name: "non numeric id", raw: "EDIT_JOB: one|a|b|c|d|e"},
		{name: "negative id", raw: "EDIT_JOB: -3|a|b|c|d|e"},
		{name: "id with suffix", raw: "EDIT_JOB: 3a|a|b|c|d|e"},
		{name: "empty id", raw: "EDIT_JOB: |a|b|c|d|e"},
		{name: "id overflows int64", raw: "EDIT_JOB: 99999999999999999999|a|b|c|d|e"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, NoCommand{Reply: tt.raw}, Parse(tt.raw))
		})
	}
}

func TestParse_DeleteJob(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want int64
	}{
		{name: "space before id", raw: "DELETE_JOB: 42", want: 42},
		{name: "trailing letters", raw: "DELETE_JOB:42abc", want: 42},
		{name: "trailing punctuation", raw: "Done. DELETE_JOB: 7.", want: 7},
		{name: "zero id", raw: "DELETE_JOB: 0", want: 0},
		{name: "id on next line", raw: "DELETE_JOB:\n15", want: 15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, DeleteJob{JobID: tt.want}, Parse(tt.raw))
		})
	}
}

func TestParse_DeleteJobMalformed(t *testing.T) {
	tests := []string{
		"DELETE_JOB: none",
		"DELETE_JOB:",
		"DELETE_JOB: #12",
		"DELETE_JOB: 99999999999999999999",
	}

	for _, raw := range tests {
		t.Run(raw, func(t *testing.T) {
			assert.Equal(t, Malformed{Prefix: PrefixDelete, Reply: raw}, Parse(raw))
		})
	}
}

func TestParse_DeleteUsesFirstOccurrence(t *testing.T) {
	raw := "DELETE_JOB: none\nDELETE_JOB: 5"

	assert.Equal(t, Malformed{Prefix: PrefixDelete, Reply: raw}, Parse(raw))
}

func TestParse_PriorityOrder(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Command
	}{
		{
			name: "create wins over delete",
			raw:  "DELETE_JOB: 3\nCREATE_JOB: a|b|c|d|e",
			want: CreateJob{JobFields: JobFields{Title: "a", Description: "b", Company: "c", Location: "d", Salary: "e"}},
		},
		{
			name: "edit wins over delete",
			raw:  "DELETE_JOB: 3\nEDIT_JOB: 9|a|b|c|d|e",
			want: EditJob{JobID: 9, JobFields: JobFields{Title: "a", Description: "b", Company: "c", Location: "d", Salary: "e"}},
		},
		{
			name: "malformed create does not fall through to delete",
			raw:  "CREATE_JOB: a|b\nDELETE_JOB: 3",
			want: NoCommand{Reply: "CREATE_JOB: a|b\nDELETE_JOB: 3"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse(tt.raw))
		})
	}
}

func TestParse_NoCommand(t *testing.T) {
	for _, raw := range []string{
		"",
		"Hello! I can help you post, edit or delete jobs.",
		"create_job: lowercase prefixes are not commands",
		"CREATE_JOB without a colon",
	} {
		assert.Equal(t, NoCommand{Reply: raw}, Parse(raw))
	}
}

func TestShapes(t *testing.T) {
	shapes := Shapes()

	assert.Len(t, shapes, 3)
	assert.Equal(t, "CREATE_JOB: title|description|company|location|salary", shapes[0].Template())
	assert.Equal(t, "EDIT_JOB: id|title|description|company|location|salary", shapes[1].Template())
	assert.Equal(t, "DELETE_JOB: id", shapes[2].Template())
}

func TestKind(t *testing.T) {
	assert.Equal(t, "create_job", CreateJob{}.Kind())
	assert.Equal(t, "edit_job", EditJob{}.Kind())
	assert.Equal(t, "delete_job", DeleteJob{}.Kind())
	assert.Equal(t, "no_command", NoCommand{}.Kind())
	assert.Equal(t, "malformed", Malformed{}.Kind())
}
