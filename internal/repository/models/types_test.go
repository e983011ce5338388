package models

import (
	"database/sql/driver"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringSlice_Value(t *testing.T) {
	tests := []struct {
		name    string
		s       StringSlice
		wantVal driver.Value
	}{
		{name: "nil slice", s: nil, wantVal: "[]"},
		{name: "empty slice", s: StringSlice{}, wantVal: "[]"},
		{name: "options", s: StringSlice{"Red", "Green, or blue"}, wantVal: `["Red","Green, or blue"]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.s.Value()
			require.NoError(t, err)
			assert.Equal(t, tt.wantVal, got)
		})
	}
}

func TestStringSlice_Scan(t *testing.T) {
	tests := []struct {
		name    string
		input   interface{}
		want    StringSlice
		wantErr bool
	}{
		{name: "nil", input: nil, want: StringSlice{}},
		{name: "string", input: `["a","b"]`, want: StringSlice{"a", "b"}},
		{name: "bytes", input: []byte(`["a"]`), want: StringSlice{"a"}},
		{name: "json null", input: "null", want: StringSlice{}},
		{name: "unsupported", input: 42, wantErr: true},
		{name: "malformed", input: `["a"`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s StringSlice
			err := s.Scan(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, s)
		})
	}
}

func TestStringMap_ValueAndScan(t *testing.T) {
	v, err := StringMap(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "{}", v)

	var m StringMap
	require.NoError(t, m.Scan(`{"email":"a@example.com","email_verified":"true"}`))
	assert.Equal(t, "a@example.com", m["email"])

	require.NoError(t, m.Scan(nil))
	assert.Empty(t, m)

	assert.Error(t, m.Scan(3.14))
}
