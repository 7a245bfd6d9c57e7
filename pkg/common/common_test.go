package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUUIDint64Unique(t *testing.T) {
	seen := make(map[int64]bool)
	for i := 0; i < 1000; i++ {
		id := UUIDint64()
		assert.False(t, seen[id])
		seen[id] = true
	}
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "acme-wireless-earbuds", Slugify("Acme Wireless Earbuds"))
	assert.Equal(t, "50-off-deal", Slugify("  50% Off! Deal  "))
	assert.Equal(t, "a-b-c", Slugify("a   b---c"))
	assert.Equal(t, "", Slugify("!!!"))
	assert.Equal(t, "", Slugify(""))
}

func TestHashAndCheckPassword(t *testing.T) {
	hashed, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	require.NotEmpty(t, hashed)
	assert.NotEqual(t, "s3cret-pass", hashed)

	assert.True(t, CheckPassword(hashed, "s3cret-pass"))
	assert.False(t, CheckPassword(hashed, "wrong"))
	assert.False(t, CheckPassword("not-a-hash", "s3cret-pass"))
}

func TestSha256HashWithSalt(t *testing.T) {
	a := Sha256HashWithSalt("hello", "salt1")
	b := Sha256HashWithSalt("hello", "salt2")
	assert.NotEqual(t, a, b)
	assert.Equal(t, a, Sha256HashWithSalt("hello", "salt1"))
	assert.Len(t, a, 64)
}

func TestInSlice(t *testing.T) {
	vals := []string{"pending", "cancelled"}
	assert.True(t, InSlice("pending", vals))
	assert.False(t, InSlice("shipped", vals))
	assert.False(t, InSlice("pending", nil))
}
