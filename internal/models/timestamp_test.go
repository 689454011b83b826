package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimestamp_JSONUsesMilliseconds(t *testing.T) {
	ts := NewTimestamp(time.Date(2024, 3, 9, 14, 30, 5, 123456789, time.FixedZone("CET", 3600)))

	data, err := json.Marshal(ts)
	require.NoError(t, err)
	assert.Equal(t, `"2024-03-09T13:30:05.123Z"`, string(data))

	var decoded Timestamp
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, decoded.Equal(time.Date(2024, 3, 9, 13, 30, 5, 123000000, time.UTC)))
}

func TestTimestamp_UnmarshalAcceptsOtherPrecisions(t *testing.T) {
	for _, raw := range []string{`"2024-03-09T13:30:05Z"`, `"2024-03-09T13:30:05.123456789Z"`} {
		var ts Timestamp
		require.NoError(t, json.Unmarshal([]byte(raw), &ts), raw)
		assert.Equal(t, 2024, ts.Year())
	}

	var ts Timestamp
	assert.Error(t, json.Unmarshal([]byte(`"yesterday"`), &ts))
}

func TestTimestamp_AnalysisJSON(t *testing.T) {
	a := Analysis{Timestamp: NewTimestamp(time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC))}

	data, err := json.Marshal(a)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"timestamp":"2024-03-09T00:00:00.000Z"`)
}

func TestTimestamp_DynamoDBAttribute(t *testing.T) {
	ts := NewTimestamp(time.Date(2024, 3, 9, 13, 30, 5, 0, time.UTC))

	av, err := attributevalue.Marshal(ts)
	require.NoError(t, err)
	assert.Equal(t, &types.AttributeValueMemberS{Value: "2024-03-09T13:30:05.000Z"}, av)

	var decoded Timestamp
	require.NoError(t, attributevalue.Unmarshal(av, &decoded))
	assert.True(t, decoded.Equal(ts.Time))
}
