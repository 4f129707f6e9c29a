package names

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitTitle(t *testing.T) {
	tests := []struct {
		in   string
		want TitledName
	}{
		{"Duke of Wellington", TitledName{Title: "Duke", Place: "Wellington"}},
		{"Lord Bishop of Bath and Wells", TitledName{Title: "Lord Bishop", Place: "Bath and Wells"}},
		{"Lord Cameron of Chipping Norton", TitledName{Title: "Lord", LastName: "Cameron", Place: "Chipping Norton"}},
		{"of Somewhere", TitledName{}},
	}
	for _, tt := range tests {
		got, err := SplitTitle(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
	_, err := SplitTitle("Baroness Smith")
	assert.Error(t, err)
}

func TestStripTitle(t *testing.T) {
	assert.Equal(t, "Jane Smith", StripTitle("Dr Jane  Smith ", false))
	assert.Equal(t, "Smith", StripTitle("The Baroness Smith", false))
	assert.Equal(t, "Baroness Smith", StripTitle("The Baroness Smith", true))
	assert.Equal(t, "", StripTitle("Mr", false))
}
