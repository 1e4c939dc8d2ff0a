package fonts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	for _, name := range []string{"goregular", "embed:gomono", "GoBold", "embed:goitalic.ttf"} {
		data, err := Load(name)
		require.NoError(t, err, name)
		assert.NotEmpty(t, data, name)
	}
	_, err := Load("embed:Inter-Regular")
	assert.Error(t, err)
}

func TestNames(t *testing.T) {
	names := Names()
	assert.Contains(t, names, Default)
	assert.IsIncreasing(t, names)
}
