package services_test

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vytor/bggcollect/internal/bggapi"
	"github.com/vytor/bggcollect/internal/errors"
	"github.com/vytor/bggcollect/internal/logger"
	"github.com/vytor/bggcollect/internal/services"
	"github.com/vytor/bggcollect/internal/testutil/mocks"
)

const boardgames = `<items totalitems="2">
	<item objecttype="thing" objectid="31260" subtype="boardgame"><name>Agricola</name></item>
	<item objecttype="thing" objectid="283" subtype="boardgame"><name>Pictionary</name></item>
</items>`

const expansions = `<items totalitems="1">
	<item objecttype="thing" objectid="223555" subtype="boardgameexpansion"><name>Scythe: The Wind Gambit</name></item>
</items>`

const invalidUser = `<errors><error><message>Invalid username specified</message></error></errors>`

func doc(t *testing.T, s string) *etree.Document {
	t.Helper()
	d := etree.NewDocument()
	require.NoError(t, d.ReadFromString(s))
	return d
}

// quietCtx carries a logger that drops everything so failing-path tests stay silent.
func quietCtx() context.Context {
	return logger.NewContext(context.Background(), logger.Discard())
}

func subtype(name string) any {
	return mock.MatchedBy(func(q bggapi.CollectionQuery) bool { return q.Subtype == name })
}

func TestCollection_DefaultsToBoardGames(t *testing.T) {
	client := new(mocks.MockBGGClient)
	client.On("FetchCollection", mock.Anything, mock.MatchedBy(func(q bggapi.CollectionQuery) bool {
		return q.Username == "fagentu007" &&
			q.Subtype == "boardgame" &&
			q.ExcludeSubtype == "boardgameexpansion" &&
			q.Stats
	})).Return(doc(t, boardgames), nil).Once()

	svc := services.NewCollectionService(client, 2)
	c, err := svc.Collection(quietCtx(), "fagentu007", services.CollectionOptions{
		Query: bggapi.CollectionQuery{Stats: true},
	})
	require.NoError(t, err)
	assert.Equal(t, "fagentu007", c.Owner())
	require.Equal(t, 2, c.Len())
	assert.Equal(t, 31260, c.At(0).ID)
	assert.Equal(t, 283, c.At(1).ID)
	client.AssertExpectations(t)
}

func TestCollection_MultipleSubtypesKeepOrder(t *testing.T) {
	client := new(mocks.MockBGGClient)
	client.On("FetchCollection", mock.Anything, subtype("boardgame")).Return(doc(t, boardgames), nil)
	client.On("FetchCollection", mock.Anything, mock.MatchedBy(func(q bggapi.CollectionQuery) bool {
		return q.Subtype == "boardgameexpansion" && q.ExcludeSubtype == ""
	})).Return(doc(t, expansions), nil)

	svc := services.NewCollectionService(client, 2)
	c, err := svc.Collection(quietCtx(), "fagentu007", services.CollectionOptions{
		Subtypes: []string{"boardgame", "boardgameexpansion"},
	})
	require.NoError(t, err)
	require.Equal(t, 3, c.Len())
	assert.Equal(t, []int{31260, 283, 223555}, []int{c.At(0).ID, c.At(1).ID, c.At(2).ID})
	client.AssertExpectations(t)
}

func TestCollection_BlankUsername(t *testing.T) {
	client := new(mocks.MockBGGClient)
	svc := services.NewCollectionService(client, 1)

	_, err := svc.Collection(quietCtx(), "   ", services.CollectionOptions{})
	assert.ErrorIs(t, err, errors.ErrBadRequest)
	client.AssertNotCalled(t, "FetchCollection", mock.Anything, mock.Anything)
}

func TestCollection_ErrorDocument(t *testing.T) {
	client := new(mocks.MockBGGClient)
	client.On("FetchCollection", mock.Anything, mock.Anything).Return(doc(t, invalidUser), nil)

	svc := services.NewCollectionService(client, 1)
	_, err := svc.Collection(quietCtx(), "nobody", services.CollectionOptions{})
	require.ErrorIs(t, err, errors.ErrItemNotFound)
	assert.Equal(t, "Invalid username specified", errors.AsAppError(err).Message)
}

func TestCollection_ErrorDocumentForLaterSubtype(t *testing.T) {
	client := new(mocks.MockBGGClient)
	client.On("FetchCollection", mock.Anything, subtype("boardgame")).Return(doc(t, boardgames), nil)
	client.On("FetchCollection", mock.Anything, subtype("boardgameexpansion")).Return(doc(t, invalidUser), nil)

	svc := services.NewCollectionService(client, 1)
	_, err := svc.Collection(quietCtx(), "fagentu007", services.CollectionOptions{
		Subtypes: []string{"boardgame", "boardgameexpansion"},
	})
	assert.ErrorIs(t, err, errors.ErrItemNotFound)
}

func TestCollection_TransportErrorPropagates(t *testing.T) {
	client := new(mocks.MockBGGClient)
	client.On("FetchCollection", mock.Anything, mock.Anything).
		Return(nil, errors.NewTransportError("collection status 503", nil))

	svc := services.NewCollectionService(client, 1)
	_, err := svc.Collection(quietCtx(), "fagentu007", services.CollectionOptions{})
	assert.ErrorIs(t, err, errors.ErrTransport)
}

func TestCollection_PlainErrorWrapped(t *testing.T) {
	client := new(mocks.MockBGGClient)
	client.On("FetchCollection", mock.Anything, mock.Anything).Return(nil, stderrors.New("connection reset"))

	svc := services.NewCollectionService(client, 1)
	_, err := svc.Collection(quietCtx(), "fagentu007", services.CollectionOptions{})
	assert.ErrorIs(t, err, errors.ErrTransport)
	assert.ErrorContains(t, err, "connection reset")
}

func TestCollection_InvalidItemFails(t *testing.T) {
	client := new(mocks.MockBGGClient)
	client.On("FetchCollection", mock.Anything, mock.Anything).Return(doc(t, `<items>
		<item subtype="boardgame"><name>No id</name></item>
	</items>`), nil)

	svc := services.NewCollectionService(client, 1)
	_, err := svc.Collection(quietCtx(), "fagentu007", services.CollectionOptions{})
	assert.ErrorIs(t, err, errors.ErrValidation)
}
