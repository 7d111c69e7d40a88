package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trailtrack/apiserver/internal/logging"
	"github.com/trailtrack/apiserver/internal/services"
	"github.com/trailtrack/apiserver/internal/store"
	"github.com/trailtrack/apiserver/types"
)

func TestDecodeStrictJSON(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "unknown field", body: `{"name":"Acme","owner_id":3}`, want: `unknown field "owner_id"`},
		{name: "syntax", body: `{"name":`, want: "invalid request body"},
		{name: "empty", body: ``, want: "invalid request body"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			var fields types.AccountFields
			err := decodeStrictJSON(req, &fields)
			require.Error(t, err)
			assert.Equal(t, tt.want, err.Error())
		})
	}
}

func TestDecodeJSON_IgnoresUnknownFields(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"a@example.com","password":"pw","remember":true}`))
	var login LoginRequest
	require.NoError(t, decodeJSON(req, &login))
	assert.Equal(t, "a@example.com", login.Email)
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
		ok     bool
	}{
		{header: "Bearer abc", want: "abc", ok: true},
		{header: "bearer   abc  ", want: "abc", ok: true},
		{header: "", ok: false},
		{header: "Bearer", ok: false},
		{header: "Bearer   ", ok: false},
		{header: "Token abc", ok: false},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", tt.header)
		got, err := bearerToken(req)
		if !tt.ok {
			assert.Error(t, err, tt.header)
			continue
		}
		require.NoError(t, err, tt.header)
		assert.Equal(t, tt.want, got)
	}
}

func TestParseLeadFilter(t *testing.T) {
	parse := func(query string) (*int, error) {
		return parseLeadFilter(httptest.NewRequest(http.MethodGet, "/activities"+query, nil))
	}

	leadID, err := parse("")
	require.NoError(t, err)
	assert.Nil(t, leadID)

	leadID, err = parse("?lead_id=0")
	require.NoError(t, err)
	assert.Nil(t, leadID)

	leadID, err = parse("?lead_id=12")
	require.NoError(t, err)
	require.NotNil(t, leadID)
	assert.Equal(t, 12, *leadID)

	_, err = parse("?lead_id=-1")
	assert.EqualError(t, err, "invalid lead_id")
}

func TestRespondError(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(&buf, nil)))

	tests := []struct {
		name   string
		err    error
		status int
		detail string
	}{
		{name: "not found", err: fmt.Errorf("get: %w", store.ErrNotFound), status: http.StatusNotFound, detail: "Lead not found"},
		{name: "format", err: &services.FieldFormatError{Field: "due_at", Value: "x"}, status: http.StatusBadRequest, detail: "Invalid datetime format for due_at: x"},
		{name: "validation", err: &services.ValidationError{Field: "title", Message: "is required"}, status: http.StatusBadRequest, detail: "title is required"},
		{name: "request", err: badRequest("invalid lead_id"), status: http.StatusBadRequest, detail: "invalid lead_id"},
		{name: "dangling reference", err: store.ErrInvalidReference, status: http.StatusBadRequest, detail: "related record not found"},
		{name: "internal", err: errors.New("connection reset"), status: http.StatusInternalServerError, detail: "internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			respondError(rec, httptest.NewRequest(http.MethodGet, "/", nil), logger, "Lead", tt.err)
			assert.Equal(t, tt.status, rec.Code)
			assert.JSONEq(t, fmt.Sprintf(`{"detail":%q}`, tt.detail), rec.Body.String())
		})
	}
	assert.Contains(t, buf.String(), "connection reset")
	assert.NotContains(t, buf.String(), "Lead not found")
}

func TestRecordHandler_RequiresUser(t *testing.T) {
	h := newRecordHandler[types.Account, types.AccountFields](nil, nil, "Account", nil)
	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/accounts", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
}
