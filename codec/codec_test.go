package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	ID            int    `json:"id"`
	VectorPreview string `json:"vectorPreview"`
	Label         string `json:"label"`
}

func TestCodecs_Compatible(t *testing.T) {
	in := record{ID: 3, VectorPreview: "1, 2, 3...", Label: "Mature"}

	for _, c := range []Codec{JSON{}, GoJSON{}} {
		t.Run(c.Name(), func(t *testing.T) {
			data, err := c.Marshal(in)
			require.NoError(t, err)
			assert.JSONEq(t, `{"id":3,"vectorPreview":"1, 2, 3...","label":"Mature"}`, string(data))

			// Either codec reads the other's output.
			for _, other := range []Codec{JSON{}, GoJSON{}} {
				var out record
				require.NoError(t, other.Unmarshal(data, &out))
				assert.Equal(t, in, out)
			}
		})
	}
}

func TestByName(t *testing.T) {
	c, ok := ByName("json")
	require.True(t, ok)
	assert.Equal(t, "json", c.Name())

	c, ok = ByName(Default.Name())
	require.True(t, ok)
	assert.Equal(t, Default, c)

	_, ok = ByName("msgpack")
	assert.False(t, ok)
}

type compactOnly struct{ JSON }

func (compactOnly) MarshalIndent() {}

func TestMarshalIndent(t *testing.T) {
	in := map[string]int{"id": 1}

	for _, c := range []Codec{JSON{}, GoJSON{}} {
		data, err := MarshalIndent(c, in)
		require.NoError(t, err)
		assert.Equal(t, "{\n  \"id\": 1\n}", string(data), c.Name())
	}

	data, err := MarshalIndent(compactOnly{}, in)
	require.NoError(t, err)
	assert.Equal(t, `{"id":1}`, string(data))
}
