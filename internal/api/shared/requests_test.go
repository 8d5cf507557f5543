package shared

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	StatusName string `json:"status_name" validate:"required,max=50"`
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr error
		wantAny bool
	}{
		{name: "valid json", body: `{"status_name": "draft"}`},
		{name: "invalid json", body: `{"status_name": "draft",}`, wantAny: true},
		{name: "empty body", body: "", wantErr: ErrEmptyBody},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tc.body))
			var dst sampleRequest
			err := DecodeJSON(req, &dst)

			switch {
			case tc.wantErr != nil:
				assert.ErrorIs(t, err, tc.wantErr)
			case tc.wantAny:
				assert.Error(t, err)
			default:
				require.NoError(t, err)
				assert.Equal(t, "draft", dst.StatusName)
			}
		})
	}
}

func TestValidateRequestUsesJSONNames(t *testing.T) {
	err := ValidateRequest(sampleRequest{})

	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Equal(t, "status_name", verrs[0].Field())
	assert.Equal(t, "required", verrs[0].Tag())

	assert.NoError(t, ValidateRequest(sampleRequest{StatusName: "draft"}))
}

type selfValidating struct{}

func (selfValidating) Validate() error { return errors.New("custom") }

func TestValidateRequestPrefersValidateMethod(t *testing.T) {
	assert.EqualError(t, ValidateRequest(selfValidating{}), "custom")
}
