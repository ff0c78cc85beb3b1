package share

import (
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/moyoez/zipconsole/types"
)

func TestListingCache(t *testing.T) {
	t.Cleanup(func() { SetListingTTL(DefaultListingTTL) })
	SetListingTTL(time.Minute)

	_, ok := GetZipListing("u1")
	assert.False(t, ok)

	SetZipListing("u1", []types.ZipFileRecord{{UUID: "z1"}})
	SetDocumentListing("z1", nil)

	rows, ok := GetZipListing("u1")
	assert.True(t, ok)
	assert.Len(t, rows, 1)
	docs, ok := GetDocumentListing("z1")
	assert.True(t, ok)
	assert.Empty(t, docs)

	InvalidateListings()
	_, ok = GetZipListing("u1")
	assert.False(t, ok)
	_, ok = GetDocumentListing("z1")
	assert.False(t, ok)
}

func TestListingCacheDisabled(t *testing.T) {
	t.Cleanup(func() { SetListingTTL(DefaultListingTTL) })
	SetListingTTL(0)

	SetZipListing("u1", []types.ZipFileRecord{{UUID: "z1"}})
	_, ok := GetZipListing("u1")
	assert.False(t, ok)
}

func TestSetListingTTLReleasesOldCaches(t *testing.T) {
	t.Cleanup(func() { SetListingTTL(DefaultListingTTL) })
	SetListingTTL(time.Hour)
	before := runtime.NumGoroutine()

	for i := 1; i <= 50; i++ {
		SetListingTTL(time.Duration(i) * time.Second)
	}

	assert.Eventually(t, func() bool {
		return runtime.NumGoroutine() <= before+2
	}, 2*time.Second, 10*time.Millisecond)

	SetZipListing("u1", []types.ZipFileRecord{{UUID: "z1"}})
	_, ok := GetZipListing("u1")
	assert.True(t, ok)
}
