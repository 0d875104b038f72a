package interpreter

import (
	"fmt"
	"strings"
)

// Outcome is what the user sees after one interpreter invocation
type Outcome struct {
	Success bool
	Message string
}

const (
	markerCreated = "✅ Job created successfully!"
	markerUpdated = "✅ Job updated successfully!"
	markerDeleted = "✅ Job deleted successfully!"

	markerNoPermission   = "❌ Job not found or you don't have permission to modify it."
	markerUnparsedDelete = "❌ Could not parse job ID for deletion."
	markerFailed         = "❌ Could not apply the change. Please try again later."

	// MessageUnavailable is returned when the classifier cannot be reached
	MessageUnavailable = "AI assistant unavailable. Please try again later."
)

// annotate appends a marker on its own line; the model text is never dropped
func annotate(reply, marker string) string {
	return reply + "\n" + marker
}

func succeeded(reply, marker string) Outcome {
	return Outcome{Success: true, Message: annotate(reply, marker)}
}

func failed(reply, marker string) Outcome {
	return Outcome{Success: false, Message: annotate(reply, marker)}
}

func invalidFieldsMarker(problems []string) string {
	return fmt.Sprintf("❌ Invalid job details: %s.", strings.Join(problems, ", "))
}

func badResponseMessage(statusCode int) string {
	return fmt.Sprintf("AI error: the assistant returned an unexpected response (status %d).", statusCode)
}
