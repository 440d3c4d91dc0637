/*
Package errs provides custom error types and application-level error code constants.

These error codes identify specific business or system errors both internally
within the server and in communication with clients.
*/
package errs

// 1xxx: General Request Handling Errors
const (
	// ErrInvalidParams indicates that request parameter validation failed.
	ErrInvalidParams = 1001

	// ErrUnsupportedMediaType indicates that the request header Content-Type is not supported.
	ErrUnsupportedMediaType = 1002

	// ErrInvalidJSONFormat indicates that the request body JSON format is incorrect (e.g., syntax error).
	ErrInvalidJSONFormat = 1003

	// ErrExtraContentInBody indicates that the request body contained extra content after valid JSON data.
	ErrExtraContentInBody = 1004

	// ErrRateLimitExceeded indicates that the request rate has exceeded the set limit.
	ErrRateLimitExceeded = 1005
)

// 2xxx: Participant and Message Business Logic Errors
const (
	// ErrNameTaken indicates that the requested participant name is already in use.
	ErrNameTaken = 2101

	// ErrParticipantNotFound indicates that the named participant is not active.
	ErrParticipantNotFound = 2102

	// ErrAuthorNotActive indicates that a message author does not name an active participant.
	ErrAuthorNotActive = 2103

	// ErrMessageNotFound indicates that no message exists with the requested id.
	ErrMessageNotFound = 2201

	// ErrNotMessageAuthor indicates a deletion attempt by someone other than the message author.
	ErrNotMessageAuthor = 2202

	// ErrMessageKindInvalid indicates a user post with a kind outside {message, private_message}.
	ErrMessageKindInvalid = 2203
)

// 5xxx: Internal System Errors
const (
	// ErrUnknown represents an unclassified, general server internal error.
	ErrUnknown = 5000

	// ErrStorageFailed indicates that the persistence collaborator failed.
	ErrStorageFailed = 5001
)
