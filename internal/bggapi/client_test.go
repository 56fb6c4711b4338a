package bggapi_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/bggcollect/internal/bggapi"
	"github.com/vytor/bggcollect/internal/cache"
	"github.com/vytor/bggcollect/internal/errors"
)

const collectionBody = `<?xml version="1.0" encoding="utf-8"?>
<items totalitems="1">
	<item objecttype="thing" objectid="31260" subtype="boardgame" collid="1">
		<name sortindex="1">Agricola</name>
	</item>
</items>`

const errorBody = `<?xml version="1.0" encoding="utf-8"?>
<errors><error><message>Invalid username specified</message></error></errors>`

func newClient(t *testing.T, h http.HandlerFunc, opts ...bggapi.Option) *bggapi.Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	opts = append([]bggapi.Option{
		bggapi.WithBaseURL(srv.URL),
		bggapi.WithRetries(3),
		bggapi.WithRetryDelay(time.Millisecond),
	}, opts...)
	return bggapi.New(opts...)
}

func TestFetchCollection_OK(t *testing.T) {
	requests := make(chan *url.URL, 1)
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		requests <- r.URL
		_, _ = w.Write([]byte(collectionBody))
	})

	doc, err := c.FetchCollection(context.Background(), bggapi.CollectionQuery{Username: "fagentu007", Stats: true})
	require.NoError(t, err)
	assert.Equal(t, "items", doc.Root().Tag)
	assert.Len(t, doc.Root().SelectElements("item"), 1)

	u := <-requests
	assert.Equal(t, "/collection", u.Path)
	assert.Equal(t, "fagentu007", u.Query().Get("username"))
	assert.Equal(t, "1", u.Query().Get("stats"))
}

func TestFetchCollection_RetriesWhileQueued(t *testing.T) {
	var calls atomic.Int32
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusAccepted)
			_, _ = w.Write([]byte(`<message>Your request has been accepted</message>`))
			return
		}
		_, _ = w.Write([]byte(collectionBody))
	})

	doc, err := c.FetchCollection(context.Background(), bggapi.CollectionQuery{Username: "fagentu007"})
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
	assert.Equal(t, "items", doc.Root().Tag)
}

func TestFetchCollection_GivesUpWhenAlwaysQueued(t *testing.T) {
	var calls atomic.Int32
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusAccepted)
	})

	_, err := c.FetchCollection(context.Background(), bggapi.CollectionQuery{Username: "fagentu007"})
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrTransport)
	assert.Equal(t, int32(4), calls.Load())
}

func TestFetchCollection_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch calls.Add(1) {
		case 1:
			w.WriteHeader(http.StatusServiceUnavailable)
		case 2:
			w.WriteHeader(http.StatusTooManyRequests)
		default:
			_, _ = w.Write([]byte(collectionBody))
		}
	})

	_, err := c.FetchCollection(context.Background(), bggapi.CollectionQuery{Username: "fagentu007"})
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
}

func TestFetchCollection_ErrorDocumentIsReturned(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(errorBody))
	})

	doc, err := c.FetchCollection(context.Background(), bggapi.CollectionQuery{Username: "nobody"})
	require.NoError(t, err)
	assert.Equal(t, "errors", doc.Root().Tag)
	assert.Equal(t, "Invalid username specified", doc.FindElement("./errors/error/message").Text())
}

func TestFetchCollection_NotFoundWithoutErrorDocument(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`<html/>`))
	})

	_, err := c.FetchCollection(context.Background(), bggapi.CollectionQuery{Username: "fagentu007"})
	assert.ErrorIs(t, err, errors.ErrTransport)
}

func TestFetchCollection_ClientErrorIsPermanent(t *testing.T) {
	var calls atomic.Int32
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusForbidden)
	})

	_, err := c.FetchCollection(context.Background(), bggapi.CollectionQuery{Username: "fagentu007"})
	assert.ErrorIs(t, err, errors.ErrTransport)
	assert.Equal(t, int32(1), calls.Load())
}

func TestFetchCollection_MalformedBody(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<items totalitems=`))
	})

	_, err := c.FetchCollection(context.Background(), bggapi.CollectionQuery{Username: "fagentu007"})
	assert.ErrorIs(t, err, errors.ErrAPI)
}

func TestFetchCollection_UsesCache(t *testing.T) {
	var calls atomic.Int32
	mem := cache.NewMemory(time.Hour)
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(collectionBody))
	}, bggapi.WithCache(mem))

	q := bggapi.CollectionQuery{Username: "fagentu007", Subtype: "boardgame"}
	for range 3 {
		doc, err := c.FetchCollection(context.Background(), q)
		require.NoError(t, err)
		assert.Equal(t, "items", doc.Root().Tag)
	}
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, 1, mem.Len())
}

func TestFetchCollection_ErrorDocumentNotCached(t *testing.T) {
	mem := cache.NewMemory(time.Hour)
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(errorBody))
	}, bggapi.WithCache(mem))

	_, err := c.FetchCollection(context.Background(), bggapi.CollectionQuery{Username: "nobody"})
	require.NoError(t, err)
	assert.Zero(t, mem.Len())
}

func TestFetchCollection_ErrorDocumentWithOKStatusNotCached(t *testing.T) {
	var calls atomic.Int32
	mem := cache.NewMemory(time.Hour)
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(errorBody))
	}, bggapi.WithCache(mem))

	for range 2 {
		doc, err := c.FetchCollection(context.Background(), bggapi.CollectionQuery{Username: "nobody"})
		require.NoError(t, err)
		assert.Equal(t, "errors", doc.Root().Tag)
	}
	assert.Zero(t, mem.Len())
	assert.Equal(t, int32(2), calls.Load())
}

func TestWithTimeout_DoesNotMutateCallerClient(t *testing.T) {
	shared := &http.Client{Timeout: time.Minute}
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(collectionBody))
	}, bggapi.WithHTTPClient(shared), bggapi.WithTimeout(time.Second))

	_, err := c.FetchCollection(context.Background(), bggapi.CollectionQuery{Username: "fagentu007"})
	require.NoError(t, err)
	assert.Equal(t, time.Minute, shared.Timeout)
}

func TestFetchCollection_ContextCanceled(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}, bggapi.WithRetryDelay(time.Second))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := c.FetchCollection(ctx, bggapi.CollectionQuery{Username: "fagentu007"})
	require.Error(t, err)
	assert.Less(t, time.Since(start), time.Second)
}
