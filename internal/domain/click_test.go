package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClick_JSONCarriesGeo(t *testing.T) {
	click := Click{
		ID:        5,
		LinkID:    9,
		Timestamp: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
		IPAddress: "5.9.0.1",
		Referrer:  DirectReferrer,
		Country:   "Germany",
		City:      "Berlin",
	}

	raw, err := json.Marshal(click)
	require.NoError(t, err)

	var fields map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &fields))
	assert.JSONEq(t, `{"country":"Germany","city":"Berlin"}`, string(fields["geo"]))
	assert.NotContains(t, fields, "id")
	assert.NotContains(t, fields, "Country")

	var back Click
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, "Germany", back.Country)
	assert.Equal(t, "Berlin", back.City)
	assert.Equal(t, "5.9.0.1", back.IPAddress)
	assert.True(t, back.Timestamp.Equal(click.Timestamp))
}

func TestClick_JSONFillsUnknownGeo(t *testing.T) {
	raw, err := json.Marshal([]Click{{IPAddress: "127.0.0.1"}})
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"geo":{"country":"Unknown","city":"Unknown"}`)
}
