package transport

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidator_Reorder(t *testing.T) {
	v := MustNewValidator()

	var req ReorderRequest
	require.NoError(t, v.Decode(SchemaReorder, []byte(`{"taskIds":[3,"1",2]}`), &req))
	assert.Equal(t, []int64{3, 1, 2}, req.IDs())

	assert.Error(t, v.Decode(SchemaReorder, []byte(`{}`), &req))
	assert.Error(t, v.Decode(SchemaReorder, []byte(`{"taskIds":"1,2"}`), &req))
	assert.Error(t, v.Decode(SchemaReorder, []byte(`{"taskIds":["abc"]}`), &req))
	assert.Error(t, v.Decode(SchemaReorder, []byte(`not json`), &req))
}

func TestValidator_KeepsLargeIntegersExact(t *testing.T) {
	v := MustNewValidator()

	var req ReorderRequest
	require.NoError(t, v.Decode(SchemaReorder, []byte(`{"taskIds":[9007199254740993]}`), &req))
	assert.Equal(t, []int64{9007199254740993}, req.IDs())

	assert.Error(t, v.Decode(SchemaReorder, []byte(`{"taskIds":[1]} trailing`), &req))
}

func TestValidator_Task(t *testing.T) {
	v := MustNewValidator()

	var req TaskRequest
	require.NoError(t, v.Decode(SchemaTask, []byte(`{"name":"Read"}`), &req))
	require.NotNil(t, req.Name)
	assert.Equal(t, "Read", *req.Name)

	assert.Error(t, v.Decode(SchemaTask, []byte(`{"name":7}`), &req))
	assert.Error(t, v.Decode(SchemaTask, []byte(`{"title":"Read"}`), &req))
	assert.Error(t, v.Decode(SchemaTask, []byte(`[]`), &req))
}

func TestValidator_OptionalDate(t *testing.T) {
	v := MustNewValidator()

	var req CompleteRequest
	require.NoError(t, v.Decode(SchemaComplete, []byte(`{}`), &req))
	require.NoError(t, v.Decode(SchemaComplete, []byte(`{"date":null}`), &req))
	require.NoError(t, v.Decode(SchemaComplete, []byte(`{"date":"2024-01-10"}`), &req))
	assert.Equal(t, "2024-01-10", req.Date)
	assert.Error(t, v.Decode(SchemaComplete, []byte(`{"date":20240110}`), &req))
}
