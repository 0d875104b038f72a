// Package command defines the job-posting command grammar the classifier is
// asked to emit, and parses it back out of free model text.
package command

import "strings"

// Command prefixes, in parsing priority order.
const (
	PrefixCreate = "CREATE_JOB:"
	PrefixEdit   = "EDIT_JOB:"
	PrefixDelete = "DELETE_JOB:"
)

// FieldSeparator delimits the fields of a create or edit command.
const FieldSeparator = "|"

// Shape describes one recognized command form.
type Shape struct {
	Prefix string
	Fields []string
	// Intent is how the prompt describes when the shape applies
	Intent string
}

// Template renders the shape the way the backend must reproduce it.
func (s Shape) Template() string {
	return s.Prefix + " " + strings.Join(s.Fields, FieldSeparator)
}

var (
	createShape = Shape{
		Prefix: PrefixCreate,
		Fields: []string{"title", "description", "company", "location", "salary"},
		Intent: "creating a job",
	}
	editShape = Shape{
		Prefix: PrefixEdit,
		Fields: []string{"id", "title", "description", "company", "location", "salary"},
		Intent: "editing a job",
	}
	deleteShape = Shape{
		Prefix: PrefixDelete,
		Fields: []string{"id"},
		Intent: "deleting a job (e.g., 'delete job ID 1')",
	}
)

// Shapes returns the recognized shapes in priority order.
func Shapes() []Shape {
	return []Shape{createShape, editShape, deleteShape}
}

// Command is the parsed form of a classifier reply. The concrete types are
// CreateJob, EditJob, DeleteJob, NoCommand and Malformed; the unexported
// method keeps the set closed.
type Command interface {
	Kind() string
	command()
}

// JobFields are the five mutable posting fields, already trimmed.
type JobFields struct {
	Title       string
	Description string
	Company     string
	Location    string
	Salary      string
}

type CreateJob struct {
	JobFields
}

type EditJob struct {
	JobID int64
	JobFields
}

type DeleteJob struct {
	JobID int64
}

// NoCommand carries a conversational reply, shown to the user unmodified.
type NoCommand struct {
	Reply string
}

// Malformed is a DELETE_JOB line whose job ID could not be read.
type Malformed struct {
	Prefix string
	Reply  string
}

func (CreateJob) Kind() string { return "create_job" }
func (EditJob) Kind() string   { return "edit_job" }
func (DeleteJob) Kind() string { return "delete_job" }
func (NoCommand) Kind() string { return "no_command" }
func (Malformed) Kind() string { return "malformed" }

func (CreateJob) command() {}
func (EditJob) command()   {}
func (DeleteJob) command() {}
func (NoCommand) command() {}
func (Malformed) command() {}
