/*
Package handler provides HTTP handler functions for posting, listing, and
deleting messages. The acting participant travels in the User header.
*/
package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"batepapo/internal/app/chat"
	"batepapo/internal/pkg/errs"
	"batepapo/internal/pkg/logx"
	"batepapo/internal/pkg/req"
	"batepapo/internal/pkg/resp"
	"batepapo/internal/pkg/sanitize"
)

type PostMessageInput struct {
	// To is the recipient participant name, or "Todos" for the whole room.
	To string `json:"to" validate:"required,alphanum"`

	// Text is the message content.
	Text string `json:"text" validate:"required"`

	// Type is either "message" or "private_message".
	Type string `json:"type" validate:"required,oneof=message private_message"`
}

// HandlePostMessage creates an HTTP HandlerFunc that appends a user message to
// the log. The author named in the User header must be an active participant.
func HandlePostMessage(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input PostMessageInput

		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		input.To = sanitize.Strip(input.To)
		input.Text = sanitize.Strip(input.Text)
		input.Type = sanitize.Strip(input.Type)
		from := sanitize.Strip(r.Header.Get("User"))

		if customErr := req.Validate(input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if from == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		m, customErr := deps.Service.Post(r.Context(), from, input.To, input.Text, chat.Kind(input.Type))
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		resp.RespondCreated(w, r, m)
	}
}

// HandleListMessages creates an HTTP HandlerFunc that returns the messages
// visible to the viewer named in the User header. The optional limit query
// parameter bounds the result to the most recent N visible messages.
func HandleListMessages(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		viewer := sanitize.Strip(r.Header.Get("User"))

		limit := 0
		if raw := r.URL.Query().Get("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed <= 0 {
				logx.Warn("Invalid limit query parameter.", "limit", raw)
				resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
				return
			}
			limit = parsed
		}

		messages, customErr := deps.Service.Messages(r.Context(), viewer, limit)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		resp.RespondSuccess(w, r, messages)
	}
}

// HandleDeleteMessage creates an HTTP HandlerFunc that removes a message on
// behalf of the requester named in the User header. Only the author may
// delete their own message.
func HandleDeleteMessage(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		requester := sanitize.Strip(r.Header.Get("User"))

		if id == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		if customErr := deps.Service.DeleteMessage(r.Context(), id, requester); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		resp.RespondSuccess(w, r, nil)
	}
}
