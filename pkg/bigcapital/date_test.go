package bigcapital

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDate_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "date only", input: `"2025-08-30"`, want: "2025-08-30"},
		{name: "RFC3339", input: `"2025-08-30T15:04:05Z"`, want: "2025-08-30"},
		{name: "RFC3339 with millis", input: `"2025-08-30T00:00:00.000Z"`, want: "2025-08-30"},
		{name: "datetime without timezone", input: `"2025-08-30T15:04:05"`, want: "2025-08-30"},
		{name: "sql datetime", input: `"2025-08-30 15:04:05"`, want: "2025-08-30"},
		{name: "null", input: `null`, want: ""},
		{name: "empty string", input: `""`, want: ""},
		{name: "invalid", input: `"not-a-date"`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Date
			err := json.Unmarshal([]byte(tt.input), &d)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.String())
		})
	}
}

func TestDate_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(NewDate(2024, time.March, 5))
	require.NoError(t, err)
	assert.Equal(t, `"2024-03-05"`, string(data))

	data, err = json.Marshal(Date{})
	require.NoError(t, err)
	assert.Equal(t, "null", string(data))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-12-31")
	require.NoError(t, err)
	assert.Equal(t, NewDate(2024, time.December, 31), d)

	_, err = ParseDate("31/12/2024")
	assert.Error(t, err)
}

func TestDate_InStruct(t *testing.T) {
	var expense Expense
	require.NoError(t, json.Unmarshal([]byte(`{"id": 3, "payment_date": "2024-01-15T00:00:00.000Z", "categories": []}`), &expense))
	assert.Equal(t, "2024-01-15", expense.PaymentDate.String())

	data, err := json.Marshal(&Expense{PaymentDate: NewDate(2024, time.January, 15), PaymentAccountID: 10})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"payment_date":"2024-01-15"`)
	assert.Contains(t, string(data), `"payment_account_id":10`)
}
