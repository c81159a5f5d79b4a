package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aidar/claims-engine/internal/domain"
)

func TestHandleError(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
		wantCode   string
	}{
		{domain.ErrClaimNotFound, http.StatusNotFound, "NOT_FOUND"},
		{domain.ErrNotificationNotFound, http.StatusNotFound, "NOT_FOUND"},
		{fmt.Errorf("%w: claim c1 is resolved", domain.ErrInvalidState), http.StatusConflict, "INVALID_STATE"},
		{domain.ErrInvalidTransition, http.StatusConflict, "INVALID_TRANSITION"},
		{domain.ErrAlreadyDecided, http.StatusConflict, "ALREADY_DECIDED"},
		{domain.ErrConflict, http.StatusConflict, "CONFLICT"},
		{domain.ErrNotInRoster, http.StatusForbidden, "FORBIDDEN"},
		{domain.ErrMemberInactive, http.StatusConflict, "MEMBER_INACTIVE"},
		{domain.ErrInvalidOutcome, http.StatusBadRequest, "BAD_REQUEST"},
		{domain.ErrUnauthorized, http.StatusUnauthorized, "UNAUTHORIZED"},
		{errors.New("connection reset"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, "/", nil)

			HandleError(w, r, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)

			var resp ErrorResponse
			require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
			assert.Equal(t, tt.wantCode, resp.Error.Code)
		})
	}
}

func TestHandleError_HidesInternalDetails(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	HandleError(w, r, errors.New("pq: password authentication failed"))

	assert.NotContains(t, w.Body.String(), "password")
}
