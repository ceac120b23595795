package entries

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexValueUnmarshal(t *testing.T) {
	var in struct {
		A FlexValue `json:"a"`
		B FlexValue `json:"b"`
		C FlexValue `json:"c"`
		D FlexValue `json:"d"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":"12","b":46.3,"c":null,"d":0}`), &in))

	assert.Equal(t, FlexValue("12"), in.A)
	assert.Equal(t, FlexValue("46.3"), in.B)
	assert.Equal(t, FlexValue(""), in.C)
	assert.Equal(t, FlexValue("0"), in.D)

	assert.Error(t, json.Unmarshal([]byte(`{"a":true}`), &in))
}

func TestFlexValueInt(t *testing.T) {
	tests := []struct {
		in   FlexValue
		want *int
	}{
		{"12", intPtr(12)},
		{"12.9", intPtr(12)},
		{" 4000원", intPtr(4000)},
		{"-3", intPtr(-3)},
		{"0", intPtr(0)},
		{"NAS", nil},
		{"", nil},
		{"   ", nil},
	}
	for _, tt := range tests {
		t.Run(string(tt.in), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.Int())
		})
	}
}

func TestFlexValueFloat(t *testing.T) {
	tests := []struct {
		in   FlexValue
		want *float64
	}{
		{"46.3", floatPtr(46.3)},
		{"43%", floatPtr(43)},
		{".5", floatPtr(0.5)},
		{"4.", floatPtr(4)},
		{"1e1", floatPtr(10)},
		{"abc", nil},
		{"", nil},
	}
	for _, tt := range tests {
		t.Run(string(tt.in), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.Float())
		})
	}
}

func TestFlexValueDate(t *testing.T) {
	d := FlexValue("2024-03-01").Date()
	require.NotNil(t, d)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), *d)

	ts := FlexValue("2024-03-01T09:00:00+09:00").Date()
	require.NotNil(t, ts)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), *ts)

	assert.Nil(t, FlexValue("yesterday").Date())
	assert.Nil(t, FlexValue("").Date())
}

func TestOptionalText(t *testing.T) {
	assert.Nil(t, optionalText(""))
	assert.Nil(t, optionalText("  \n"))
	require.NotNil(t, optionalText("sherry"))
	assert.Equal(t, "sherry", *optionalText("sherry"))
}

func intPtr(n int) *int           { return &n }
func floatPtr(f float64) *float64 { return &f }
func strPtr(s string) *string     { return &s }
