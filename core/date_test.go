package core

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		s       string
		want    Date
		wantErr bool
	}{
		{name: "valid", s: "2024-02-29", want: NewDate(2024, time.February, 29)},
		{name: "surrounding spaces", s: " 2024-03-01 ", want: NewDate(2024, time.March, 1)},
		{name: "not a leap year", s: "2023-02-29", wantErr: true},
		{name: "wrong layout", s: "01-03-2024", wantErr: true},
		{name: "with time", s: "2024-03-01T10:00:00Z", wantErr: true},
		{name: "empty", s: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.s)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && !got.Equal(tt.want) {
				t.Errorf("ParseDate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDate_JSON(t *testing.T) {
	type payload struct {
		DOB Date `json:"dob"`
	}

	data, err := json.Marshal(payload{DOB: NewDate(2012, time.April, 9)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"dob": "2012-04-09"}`, string(data))

	data, err = json.Marshal(payload{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"dob": null}`, string(data))

	var p payload
	require.NoError(t, json.Unmarshal([]byte(`{"dob": "2012-04-09"}`), &p))
	assert.Equal(t, "2012-04-09", p.DOB.String())

	require.NoError(t, json.Unmarshal([]byte(`{"dob": null}`), &p))
	assert.True(t, p.DOB.IsZero())

	err = json.Unmarshal([]byte(`{"dob": "09/04/2012"}`), &p)
	assert.EqualError(t, err, `invalid date "09/04/2012", expected YYYY-MM-DD`)
}

func TestDate_Scan(t *testing.T) {
	want := NewDate(2024, time.March, 1)
	tests := []struct {
		name    string
		src     interface{}
		want    Date
		wantErr bool
	}{
		{name: "nil", src: nil},
		{name: "time", src: time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC), want: want},
		{name: "bytes", src: []byte("2024-03-01"), want: want},
		{name: "string", src: "2024-03-01", want: want},
		{name: "unsupported", src: 42, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Date
			err := d.Scan(tt.src)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Scan() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr {
				assert.Equal(t, tt.want.IsZero(), d.IsZero())
				assert.True(t, d.IsZero() || d.Equal(tt.want), "Scan() = %v, want %v", d, tt.want)
			}
		})
	}

	v, err := want.Value()
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01", v)

	v, err = Date{}.Value()
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestDateOf_keepsLocalCalendarDay(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)
	lateEvening := time.Date(2024, time.March, 1, 23, 30, 0, 0, loc)
	assert.Equal(t, "2024-03-01", DateOf(lateEvening).String())
}
