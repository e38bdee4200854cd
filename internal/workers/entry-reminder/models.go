// internal/workers/entry-reminder/models.go
package entryreminder

// TaskType identifies reminder jobs on the delayed queue.
const TaskType = "entry-reminder"

// payloadSchema is the wire contract for reminder job payloads. Jobs that do
// not validate are corrupt and never retried.
const payloadSchema = `{
	"type": "object",
	"required": ["notificationId", "entryId", "userId", "metadata"],
	"properties": {
		"notificationId": {"type": "string", "format": "uuid"},
		"entryId": {"type": "string", "format": "uuid"},
		"userId": {"type": "string", "format": "uuid"},
		"metadata": {
			"type": "object",
			"required": ["scheduledAt", "entryDescription", "entryAmount", "entryDate"],
			"properties": {
				"scheduledAt": {"type": "string"},
				"entryDescription": {"type": "string"},
				"entryAmount": {"type": "number"},
				"entryDate": {"type": "string"}
			}
		}
	}
}`
