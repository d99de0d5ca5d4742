/*
Package errs provides custom error types and application-level error code constants.

This file defines the map from error codes to the CustomError struct, used to standardize
HTTP responses and internal error handling.
*/
package errs

import "net/http"

// errorMap stores the detailed CustomError struct corresponding to every application error code.
// The key is the error code (int), and the value contains the user message and HTTP status code.
var errorMap = map[int]CustomError{
	// 1xxx: General Request Handling Errors
	ErrInvalidParams:         {Code: ErrInvalidParams, Message: "Invalid request parameters."},
	ErrUnsupportedMediaType:  {Code: ErrUnsupportedMediaType, Message: "Unsupported request format."},
	ErrInvalidJSONFormat:     {Code: ErrInvalidJSONFormat, Message: "Unsupported request format."},
	ErrExtraContentInBody:    {Code: ErrExtraContentInBody, Message: "Request contains unexpected data."},
	ErrFormParseFailed:       {Code: ErrFormParseFailed, Message: "Failed to process uploaded data."},
	ErrRequestEntityTooLarge: {Code: ErrRequestEntityTooLarge, Message: "Request size is too large."},
	ErrRateLimitExceeded:     {Code: ErrRateLimitExceeded, Message: "Too many requests. Please try again later.", Status: http.StatusTooManyRequests},

	// 2xxx: Matching, Room and Content Business Logic Errors
	ErrNoEligibleRoom:        {Code: ErrNoEligibleRoom, Message: "No conversation is available with this user.", Status: http.StatusForbidden},
	ErrSelfConversation:      {Code: ErrSelfConversation, Message: "You cannot open a conversation with yourself.", Status: http.StatusForbidden},
	ErrRoomNotFound:          {Code: ErrRoomNotFound, Message: "Conversation not found.", Status: http.StatusNotFound},
	ErrNotRoomParticipant:    {Code: ErrNotRoomParticipant, Message: "You are not part of this conversation.", Status: http.StatusForbidden},
	ErrCounterpartUnknown:    {Code: ErrCounterpartUnknown, Message: "This user does not exist.", Status: http.StatusNotFound},
	ErrMessageContentTooLong: {Code: ErrMessageContentTooLong, Message: "Message is too long."},
	ErrFileSizeTooLarge:      {Code: ErrFileSizeTooLarge, Message: "File is too large."},
	ErrAttachmentTypeInvalid: {Code: ErrAttachmentTypeInvalid, Message: "This file type is not allowed."},
	ErrAttachmentKeyInvalid:  {Code: ErrAttachmentKeyInvalid, Message: "Invalid attachment."},

	// 3xxx: Authentication and Session Errors
	ErrInvalidToken: {Code: ErrInvalidToken, Message: "Sign-in token is invalid or expired.", Status: http.StatusUnauthorized},
	ErrInvalidRole:  {Code: ErrInvalidRole, Message: "Invalid connection role."},
	ErrUnauthorized: {Code: ErrUnauthorized, Message: "Please sign in to continue.", Status: http.StatusUnauthorized},

	// 5xxx: Internal System Errors
	ErrUnknown:           {Code: ErrUnknown, Message: "Something went wrong. Please try again.", Status: http.StatusInternalServerError},
	ErrFileStorageFailed: {Code: ErrFileStorageFailed, Message: "File upload failed. Please try again."},
}
