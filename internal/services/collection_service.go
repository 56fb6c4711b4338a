package services

import (
	"context"
	stderrors "errors"
	"strings"
	"sync"
	"time"

	"github.com/beevik/etree"
	"github.com/vytor/bggcollect/internal/bggapi"
	"github.com/vytor/bggcollect/internal/errors"
	"github.com/vytor/bggcollect/internal/loader"
	"github.com/vytor/bggcollect/internal/logger"
	"github.com/vytor/bggcollect/internal/models"
)

const (
	SubtypeBoardGame          = "boardgame"
	SubtypeBoardGameExpansion = "boardgameexpansion"
)

// CollectionOptions selects what is requested for each subtype. Username and
// Subtype in Query are set per request and ignored here.
type CollectionOptions struct {
	Subtypes []string
	Query    bggapi.CollectionQuery
}

// CollectionService handles collection retrieval business logic
type CollectionService interface {
	Collection(ctx context.Context, username string, opts CollectionOptions) (*models.Collection, error)
}

type collectionService struct {
	client        bggapi.ClientInterface
	maxConcurrent int
}

// NewCollectionService creates a new CollectionService. Subtype documents are
// fetched with at most maxConcurrent requests in flight.
func NewCollectionService(client bggapi.ClientInterface, maxConcurrent int) CollectionService {
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	return &collectionService{client: client, maxConcurrent: maxConcurrent}
}

func (s *collectionService) Collection(ctx context.Context, username string, opts CollectionOptions) (*models.Collection, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, errors.NewBadRequestError("username is required")
	}

	subtypes := opts.Subtypes
	if len(subtypes) == 0 {
		subtypes = []string{SubtypeBoardGame}
	}

	log := logger.FromContext(ctx).WithFields(map[string]any{
		"username": username,
		"subtypes": strings.Join(subtypes, ","),
	})
	log.Info("loading collection")
	start := time.Now()

	docs, err := s.fetchAll(ctx, username, subtypes, opts.Query)
	if err != nil {
		log.WithError(err).Error("failed to fetch collection")
		return nil, err
	}

	collection, err := loader.CreateCollectionFromXML(docs[0].Root(), username)
	if err != nil {
		log.WithError(err).Warn("collection not available")
		return nil, err
	}

	for i, subtype := range subtypes {
		if i > 0 {
			// Every response can carry its own error payload.
			if _, err := loader.CreateCollectionFromXML(docs[i].Root(), username); err != nil {
				log.WithError(err).Warn("collection not available for subtype %s", subtype)
				return nil, err
			}
		}
		if err := loader.AddCollectionItemsFromXML(collection, docs[i].Root(), subtype); err != nil {
			log.WithError(err).Error("failed to load %s items", subtype)
			return nil, err
		}
	}

	log.Info("loaded %d items in %v", collection.Len(), time.Since(start))
	return collection, nil
}

// fetchAll returns one document per subtype, in subtype order.
func (s *collectionService) fetchAll(ctx context.Context, username string, subtypes []string, base bggapi.CollectionQuery) ([]*etree.Document, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	docs := make([]*etree.Document, len(subtypes))
	errs := make([]error, len(subtypes))
	sem := make(chan struct{}, s.maxConcurrent)

	var wg sync.WaitGroup
	for i, subtype := range subtypes {
		q := base
		q.Username = username
		q.Subtype = subtype
		q.ExcludeSubtype = ""
		if subtype == SubtypeBoardGame {
			// BGG lists expansions under boardgame as well.
			q.ExcludeSubtype = SubtypeBoardGameExpansion
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				errs[i] = ctx.Err()
				return
			}
			defer func() { <-sem }()

			docs[i], errs[i] = s.client.FetchCollection(ctx, q)
			if errs[i] != nil {
				cancel()
			}
		}()
	}
	wg.Wait()

	// Report the first real failure rather than the cancellations it caused.
	var first error
	for _, err := range errs {
		if err == nil {
			continue
		}
		if first == nil || (stderrors.Is(first, context.Canceled) && !stderrors.Is(err, context.Canceled)) {
			first = err
		}
	}
	if first != nil {
		var appErr *errors.AppError
		if stderrors.As(first, &appErr) {
			return nil, appErr
		}
		return nil, errors.NewTransportError("fetch collection", first)
	}
	return docs, nil
}
