package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestListingSortedByName(t *testing.T) {
	listing := Listing{
		"b.txt": {Name: "b.txt", Kind: KindFile, Size: 2},
		"a":     {Name: "a", Kind: KindFolder},
		"c.txt": {Name: "c.txt", Kind: KindFile, Size: 3},
	}

	assert.Equal(t, []string{"a", "b.txt", "c.txt"}, listing.Names())

	sorted := listing.Sorted()
	assert.Len(t, sorted, 3)
	assert.True(t, sorted[0].IsFolder())
	assert.Equal(t, "c.txt", sorted[2].Name)
}

func TestListingHas(t *testing.T) {
	listing := Listing{"present": {Name: "present"}}

	assert.True(t, listing.Has("present"))
	assert.False(t, listing.Has("absent"))
	assert.Empty(t, Listing{}.Names())
}
