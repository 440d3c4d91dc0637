/*
Package errs provides custom error types and application-level error code constants.

This file defines the map from error codes to the CustomError struct, used to
standardize HTTP responses and internal error handling.
*/
package errs

import "net/http"

// errorMap stores the detailed CustomError struct corresponding to every application error code.
// The key is the error code (int), and the value contains the user message and HTTP status code.
var errorMap = map[int]CustomError{
	// 1xxx: General Request Handling Errors
	ErrInvalidParams:        {Code: ErrInvalidParams, Message: "Invalid request parameters.", Status: http.StatusUnprocessableEntity},
	ErrUnsupportedMediaType: {Code: ErrUnsupportedMediaType, Message: "Unsupported request format.", Status: http.StatusUnsupportedMediaType},
	ErrInvalidJSONFormat:    {Code: ErrInvalidJSONFormat, Message: "Unsupported request format.", Status: http.StatusUnprocessableEntity},
	ErrExtraContentInBody:   {Code: ErrExtraContentInBody, Message: "Request contains unexpected data.", Status: http.StatusUnprocessableEntity},
	ErrRateLimitExceeded:    {Code: ErrRateLimitExceeded, Message: "Too many requests. Please try again later.", Status: http.StatusTooManyRequests},

	// 2xxx: Participant and Message Business Logic Errors
	ErrNameTaken:           {Code: ErrNameTaken, Message: "Name is already taken.", Status: http.StatusConflict},
	ErrParticipantNotFound: {Code: ErrParticipantNotFound, Message: "Participant not found.", Status: http.StatusNotFound},
	ErrAuthorNotActive:     {Code: ErrAuthorNotActive, Message: "Sender is not in the room.", Status: http.StatusUnprocessableEntity},
	ErrMessageNotFound:     {Code: ErrMessageNotFound, Message: "Message not found.", Status: http.StatusNotFound},
	ErrNotMessageAuthor:    {Code: ErrNotMessageAuthor, Message: "Only the author may delete a message.", Status: http.StatusForbidden},
	ErrMessageKindInvalid:  {Code: ErrMessageKindInvalid, Message: "Invalid message type.", Status: http.StatusUnprocessableEntity},

	// 5xxx: Internal System Errors
	ErrUnknown:       {Code: ErrUnknown, Message: "Something went wrong. Please try again.", Status: http.StatusInternalServerError},
	ErrStorageFailed: {Code: ErrStorageFailed, Message: "Something went wrong. Please try again.", Status: http.StatusInternalServerError},
}
