/*
Package handler provides HTTP handler functions for participant registration,
listing, and heartbeats.
*/
package handler

import (
	"net/http"

	"batepapo/internal/pkg/req"
	"batepapo/internal/pkg/resp"
	"batepapo/internal/pkg/sanitize"
)

type JoinInput struct {
	// Name is the unique participant identifier. Alphanumeric only.
	Name string `json:"name" validate:"required,alphanum"`
}

// HandleJoin creates an HTTP HandlerFunc that registers a new participant and
// announces the join to the room.
func HandleJoin(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input JoinInput

		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		input.Name = sanitize.Strip(input.Name)

		if customErr := req.Validate(input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		p, customErr := deps.Service.Join(r.Context(), input.Name)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		resp.RespondCreated(w, r, p)
	}
}

// HandleListParticipants creates an HTTP HandlerFunc that returns all active
// participants. No visibility filtering applies.
func HandleListParticipants(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		participants, customErr := deps.Service.Participants(r.Context())
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		resp.RespondSuccess(w, r, participants)
	}
}

// HandleStatus creates an HTTP HandlerFunc that refreshes the liveness
// timestamp of the actor named in the User header.
func HandleStatus(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor := sanitize.Strip(r.Header.Get("User"))

		if customErr := deps.Service.Heartbeat(r.Context(), actor); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		resp.RespondSuccess(w, r, nil)
	}
}
