package repo_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AAWorks/atlas-infra/internal/domain"
	"github.com/AAWorks/atlas-infra/internal/repo"
)

func TestTicketRepo_CreateAndList(t *testing.T) {
	eachStore(t, func(t *testing.T, repos repo.Repos) {
		ctx := context.Background()
		trip := mustTrip(t, repos, uuid.New())
		item := mustItem(t, repos, domain.Item{TripID: trip.ID, Type: domain.ItemTravel, Name: "NYC to LAX"})
		other := mustItem(t, repos, domain.Item{TripID: trip.ID, Type: domain.ItemEvent, Name: "Getty"})

		first, err := repos.Tickets.Create(ctx, domain.TicketLink{ItemID: item.ID, URL: "https://delta.com/DL123", Type: "eticket"})
		require.NoError(t, err)
		_, err = repos.Tickets.Create(ctx, domain.TicketLink{ItemID: item.ID, URL: "https://delta.com/boarding"})
		require.NoError(t, err)
		_, err = repos.Tickets.Create(ctx, domain.TicketLink{ItemID: other.ID, URL: "https://getty.edu/t"})
		require.NoError(t, err)

		assert.NotEqual(t, uuid.Nil, first.ID)
		assert.Equal(t, "eticket", first.Type)
		assert.False(t, first.CreatedAt.IsZero())

		links, err := repos.Tickets.ListByItem(ctx, item.ID)
		require.NoError(t, err)
		var urls []string
		for _, l := range links {
			urls = append(urls, l.URL)
		}
		assert.ElementsMatch(t, []string{"https://delta.com/DL123", "https://delta.com/boarding"}, urls)
	})
}

func TestTicketRepo_Create_Validation(t *testing.T) {
	eachStore(t, func(t *testing.T, repos repo.Repos) {
		_, err := repos.Tickets.Create(context.Background(), domain.TicketLink{URL: "https://x"})
		assert.ErrorIs(t, err, domain.ErrValidation)

		_, err = repos.Tickets.Create(context.Background(), domain.TicketLink{ItemID: uuid.New()})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}

func TestTicketRepo_ListByItem_Empty(t *testing.T) {
	eachStore(t, func(t *testing.T, repos repo.Repos) {
		links, err := repos.Tickets.ListByItem(context.Background(), uuid.New())

		require.NoError(t, err)
		assert.NotNil(t, links)
		assert.Empty(t, links)
	})
}

func TestAttachmentRepo_CreateAndList(t *testing.T) {
	eachStore(t, func(t *testing.T, repos repo.Repos) {
		ctx := context.Background()
		owner := uuid.New()
		trip := mustTrip(t, repos, owner)
		item := mustItem(t, repos, domain.Item{TripID: trip.ID, Type: domain.ItemLodging, Name: "Hotel Aurora"})

		a, err := repos.Attachments.Create(ctx, domain.Attachment{
			OwnerID:  owner,
			ItemID:   &item.ID,
			FilePath: "receipts/aurora.pdf",
			MIME:     "application/pdf",
			Size:     48213,
		})
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, a.ID)
		require.NotNil(t, a.ItemID)
		assert.Equal(t, item.ID, *a.ItemID)

		list, err := repos.Attachments.ListByItem(ctx, item.ID)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, int64(48213), list[0].Size)
		assert.Equal(t, owner, list[0].OwnerID)
	})
}

func TestAttachmentRepo_Create_Validation(t *testing.T) {
	eachStore(t, func(t *testing.T, repos repo.Repos) {
		_, err := repos.Attachments.Create(context.Background(), domain.Attachment{FilePath: "a.pdf"})
		assert.ErrorIs(t, err, domain.ErrValidation)

		_, err = repos.Attachments.Create(context.Background(), domain.Attachment{OwnerID: uuid.New()})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}
