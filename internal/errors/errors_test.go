package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{
			name: "without cause",
			err:  NewSchemaError("required column missing", nil),
			want: "[SCHEMA] required column missing",
		},
		{
			name: "with cause",
			err:  NewStorageError("cannot save workbook", fmt.Errorf("disk full")),
			want: "[STORAGE] cannot save workbook: disk full",
		},
		{
			name: "currency code in message",
			err:  NewCurrencyError("XYZ"),
			want: `[CURRENCY] unknown currency code "XYZ"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := stderrors.New("underlying")
	err := NewParsingError("bad amount", cause)

	assert.True(t, stderrors.Is(err, cause))

	var appErr *AppError
	require.True(t, stderrors.As(err, &appErr))
	assert.Equal(t, ErrTypeParsing, appErr.Type)
}

func TestAppError_WithContext(t *testing.T) {
	err := NewParsingError("bad amount", nil).
		WithContext("row", 12).
		WithContext("value", "ten bananas")

	assert.Equal(t, 12, err.Context["row"])
	assert.Equal(t, "ten bananas", err.Context["value"])
}

func TestIsFatal(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"schema error is fatal", NewSchemaError("missing column", nil), true},
		{"storage error is fatal", NewStorageError("unwritable", nil), true},
		{"config error is fatal", NewConfigError("bad rates", nil), true},
		{"parsing error is recovered", NewParsingError("bad amount", nil), false},
		{"currency error is recovered", NewCurrencyError("ABC"), false},
		{"plain error is fatal", stderrors.New("unknown"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsFatal(tt.err))
		})
	}
}
