package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFields(t *testing.T) {
	f := Info{Commit: "abc123", Time: "2024-03-05T06:00:00Z", Modified: true}.Fields()
	assert.Equal(t, "abc123", f["commit"])
	assert.Equal(t, "2024-03-05T06:00:00Z", f["time"])
	assert.Equal(t, true, f["modified"])
}
