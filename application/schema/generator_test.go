package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSchema_SimpleStruct(t *testing.T) {
	type SimpleConfig struct {
		Host string `json:"host"`
		Port int    `json:"port"`
	}

	schema, err := GenerateSchema(SimpleConfig{})
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(schema, &decoded))
	assert.Contains(t, string(schema), "host")
	assert.Contains(t, string(schema), "port")
}

func TestDocumentSchema(t *testing.T) {
	raw, err := DocumentSchema()
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, DocumentSchemaID, decoded["$id"])

	for _, key := range []string{"classInfos", "enumInfos", "methodInfos", "propertyInfos", "typeId", "metaKey", "metaValue"} {
		assert.Contains(t, string(raw), key)
	}

	again, err := DocumentSchema()
	require.NoError(t, err)
	assert.Equal(t, raw, again)
}

func TestDocumentValidator(t *testing.T) {
	v, err := NewDocumentValidator()
	require.NoError(t, err)

	t.Run("valid", func(t *testing.T) {
		doc := `{
			"classInfos": [{
				"name": "Game.Foo",
				"methodInfos": [{
					"name": "Bump",
					"className": "bool",
					"parameters": [{"name": "n", "className": "int32", "metaData": [], "typeId": 1}],
					"metaData": [],
					"returnType": 2
				}],
				"propertyInfos": [{
					"name": "Speed",
					"className": "float32",
					"metaData": [{"metaKey": "Category", "metaValue": "Stats"}],
					"typeId": 0
				}]
			}],
			"enumInfos": [{"name": "Game.Team", "values": [{"key": "Red", "value": 0}]}]
		}`
		assert.Nil(t, v.Validate([]byte(doc)))
	})

	t.Run("missing arrays", func(t *testing.T) {
		assert.NotEmpty(t, v.Validate([]byte(`{"classInfos": null}`)))
	})

	t.Run("type tag out of range", func(t *testing.T) {
		doc := `{"classInfos": [{"name": "A", "methodInfos": [], "propertyInfos": [
			{"name": "X", "className": "", "metaData": [], "typeId": 9}
		]}], "enumInfos": []}`
		assert.NotEmpty(t, v.Validate([]byte(doc)))
	})

	t.Run("not json", func(t *testing.T) {
		msgs := v.Validate([]byte("{"))
		require.Len(t, msgs, 1)
		assert.Contains(t, msgs[0], "failed to prepare")
	})
}
