package share

import (
	"sync"
	"time"

	ttlworker "github.com/FloatTech/ttl"

	"github.com/moyoez/zipconsole/tool"
	"github.com/moyoez/zipconsole/types"
)

const (
	DefaultListingTTL = 30 * time.Second
)

var (
	listingMu   sync.RWMutex
	listingTTL  = DefaultListingTTL
	zipListings = ttlworker.NewCache[string, []types.ZipFileRecord](DefaultListingTTL)
	docListings = ttlworker.NewCache[string, []types.DocumentRecord](DefaultListingTTL)
)

// SetListingTTL recreates the listing caches with ttl. A ttl of 0 disables caching.
func SetListingTTL(ttl time.Duration) {
	listingMu.Lock()
	defer listingMu.Unlock()
	if ttl == listingTTL {
		return
	}
	listingTTL = ttl
	resetLocked()
}

// GetZipListing returns the cached archive list of userID.
func GetZipListing(userID string) ([]types.ZipFileRecord, bool) {
	listingMu.RLock()
	defer listingMu.RUnlock()
	if listingTTL <= 0 {
		return nil, false
	}
	rows := zipListings.Get(userID)
	if rows == nil {
		return nil, false
	}
	return rows, true
}

func SetZipListing(userID string, rows []types.ZipFileRecord) {
	listingMu.RLock()
	defer listingMu.RUnlock()
	if listingTTL <= 0 {
		return
	}
	if rows == nil {
		rows = []types.ZipFileRecord{}
	}
	zipListings.Set(userID, rows)
}

// GetDocumentListing returns the cached document list of an archive.
func GetDocumentListing(zipFileID string) ([]types.DocumentRecord, bool) {
	listingMu.RLock()
	defer listingMu.RUnlock()
	if listingTTL <= 0 {
		return nil, false
	}
	docs := docListings.Get(zipFileID)
	if docs == nil {
		return nil, false
	}
	return docs, true
}

func SetDocumentListing(zipFileID string, docs []types.DocumentRecord) {
	listingMu.RLock()
	defer listingMu.RUnlock()
	if listingTTL <= 0 {
		return
	}
	if docs == nil {
		docs = []types.DocumentRecord{}
	}
	docListings.Set(zipFileID, docs)
}

// InvalidateListings drops every cached listing; called when an upload run ends.
func InvalidateListings() {
	listingMu.Lock()
	defer listingMu.Unlock()
	var users, zips []string
	_ = zipListings.Range(func(k string, _ []types.ZipFileRecord) error {
		users = append(users, k)
		return nil
	})
	_ = docListings.Range(func(k string, _ []types.DocumentRecord) error {
		zips = append(zips, k)
		return nil
	})
	for _, k := range users {
		zipListings.Delete(k)
	}
	for _, k := range zips {
		docListings.Delete(k)
	}
	tool.DefaultLogger.Debugf("[Listing] Cache invalidated (%d user(s), %d archive(s))", len(users), len(zips))
}

func resetLocked() {
	ttl := listingTTL
	if ttl <= 0 {
		ttl = DefaultListingTTL
	}
	// each cache owns a gc goroutine
	zipListings.Destroy()
	docListings.Destroy()
	zipListings = ttlworker.NewCache[string, []types.ZipFileRecord](ttl)
	docListings = ttlworker.NewCache[string, []types.DocumentRecord](ttl)
}
