package credential

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupPrefersEnvironment(t *testing.T) {
	t.Setenv("SITEHUB_TEST_SECRET", "from-env")

	v, err := Lookup("SITEHUB_TEST_SECRET", "never-read")
	require.NoError(t, err)
	assert.Equal(t, "from-env", v)
}
