/*
Package errs provides custom error types and application-level error code constants.

These error codes are used to clearly identify specific business or system errors
both internally within the server and in communication with clients.
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

	// ErrFormParseFailed indicates failure to parse multipart or URL-encoded form data.
	ErrFormParseFailed = 1005

	// ErrRequestEntityTooLarge indicates that the request body size exceeded the server limit.
	ErrRequestEntityTooLarge = 1006

	// ErrRateLimitExceeded indicates that the request rate has exceeded the set limit.
	ErrRateLimitExceeded = 1007
)

// 2xxx: Matching, Room and Content Business Logic Errors
const (
	// ErrNoEligibleRoom indicates that no room exists for the pair and the matching rule
	// (a standing help request met by a helper) was not satisfied.
	ErrNoEligibleRoom = 2101

	// ErrSelfConversation indicates an attempt to open a conversation with oneself.
	ErrSelfConversation = 2102

	// ErrRoomNotFound indicates that the referenced room does not exist.
	ErrRoomNotFound = 2103

	// ErrNotRoomParticipant indicates the caller is not one of the room's two participants.
	ErrNotRoomParticipant = 2104

	// ErrCounterpartUnknown indicates the targeted counterpart user does not exist.
	ErrCounterpartUnknown = 2105

	// ErrMessageContentTooLong indicates that the message body exceeded the maximum length limit.
	ErrMessageContentTooLong = 2201

	// ErrFileSizeTooLarge indicates an attachment exceeded the size limit.
	ErrFileSizeTooLarge = 2301

	// ErrAttachmentTypeInvalid indicates an attachment file type is not permitted.
	ErrAttachmentTypeInvalid = 2302

	// ErrAttachmentKeyInvalid indicates an attachment key outside the caller's room scope.
	ErrAttachmentKeyInvalid = 2303
)

// 3xxx: Authentication and Session Errors
const (
	// ErrInvalidToken indicates the presented connection token does not resolve to any user.
	ErrInvalidToken = 3001

	// ErrInvalidRole indicates the role flag supplied on admission was neither "0" nor "1".
	ErrInvalidRole = 3002

	// ErrUnauthorized indicates a missing or invalid platform identity on an API call.
	ErrUnauthorized = 3003
)

// 5xxx: Internal System Errors
const (
	// ErrUnknown represents an unclassified, general server internal error.
	ErrUnknown = 5000

	// ErrFileStorageFailed indicates the attachment storage backend rejected an operation.
	ErrFileStorageFailed = 5001
)
