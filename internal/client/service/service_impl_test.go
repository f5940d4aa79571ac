package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/solobill/solobill/internal/client/domain"
	clientrepo "github.com/solobill/solobill/internal/client/repository"
	"github.com/solobill/solobill/internal/clock"
	"github.com/solobill/solobill/internal/orgcontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	db    *gorm.DB
	clock *clock.FakeClock
	svc   domain.Service
	orgID snowflake.ID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&domain.Client{}))

	node, err := snowflake.NewNode(6)
	require.NoError(t, err)

	fake := clock.NewFakeClock(time.Date(2025, time.June, 10, 9, 0, 0, 0, time.UTC))

	svc := New(Params{
		DB:    conn,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: fake,
		Repo:  clientrepo.Provide(),
	})

	return &fixture{
		db:    conn,
		clock: fake,
		svc:   svc,
		orgID: node.Generate(),
	}
}

func (f *fixture) ctx() context.Context {
	return orgcontext.WithOrgID(context.Background(), f.orgID)
}

func TestCreate_Validation(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(f.ctx(), domain.CreateClientRequest{Name: "  "})
	assert.ErrorIs(t, err, domain.ErrInvalidName)

	_, err = f.svc.Create(f.ctx(), domain.CreateClientRequest{Name: "Acme", Email: "not-an-email"})
	assert.ErrorIs(t, err, domain.ErrInvalidEmail)

	_, err = f.svc.Create(context.Background(), domain.CreateClientRequest{Name: "Acme"})
	assert.ErrorIs(t, err, domain.ErrInvalidOrganization)
}

func TestCreate_EmailIsOptional(t *testing.T) {
	f := newFixture(t)

	client, err := f.svc.Create(f.ctx(), domain.CreateClientRequest{Name: "Acme"})
	require.NoError(t, err)
	assert.Empty(t, client.Email)
}

func TestRoundTrip(t *testing.T) {
	f := newFixture(t)

	created, err := f.svc.Create(f.ctx(), domain.CreateClientRequest{
		Name:     "Acme GmbH",
		Email:    "billing@acme.test",
		Company:  "Acme Holdings",
		Currency: "EUR",
	})
	require.NoError(t, err)

	got, err := f.svc.GetByID(f.ctx(), domain.GetClientRequest{ID: created.ID.String()})
	require.NoError(t, err)
	assert.Equal(t, created.Name, got.Name)
	assert.Equal(t, created.Email, got.Email)

	newName := "Acme AG"
	updated, err := f.svc.Update(f.ctx(), domain.UpdateClientRequest{
		ID:   created.ID.String(),
		Name: &newName,
	})
	require.NoError(t, err)
	assert.Equal(t, "Acme AG", updated.Name)
	assert.Equal(t, "billing@acme.test", updated.Email)

	require.NoError(t, f.svc.Delete(f.ctx(), domain.GetClientRequest{ID: created.ID.String()}))

	_, err = f.svc.GetByID(f.ctx(), domain.GetClientRequest{ID: created.ID.String()})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdate_NotFound(t *testing.T) {
	f := newFixture(t)

	name := "Ghost"
	_, err := f.svc.Update(f.ctx(), domain.UpdateClientRequest{ID: "12345", Name: &name})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestList_FiltersAndPaginates(t *testing.T) {
	f := newFixture(t)

	names := []string{"Alpha", "Beta", "Gamma"}
	for _, name := range names {
		_, err := f.svc.Create(f.ctx(), domain.CreateClientRequest{Name: name})
		require.NoError(t, err)
		f.clock.Advance(time.Second)
	}

	filtered, err := f.svc.List(f.ctx(), domain.ListClientRequest{Name: "Beta"})
	require.NoError(t, err)
	require.Len(t, filtered.Clients, 1)
	assert.Equal(t, "Beta", filtered.Clients[0].Name)

	first, err := f.svc.List(f.ctx(), domain.ListClientRequest{PageSize: 2})
	require.NoError(t, err)
	require.Len(t, first.Clients, 2)
	assert.True(t, first.HasMore)
	require.NotEmpty(t, first.NextPageToken)

	// Newest first.
	assert.Equal(t, "Gamma", first.Clients[0].Name)
	assert.Equal(t, "Beta", first.Clients[1].Name)

	second, err := f.svc.List(f.ctx(), domain.ListClientRequest{
		PageSize:  2,
		PageToken: first.NextPageToken,
	})
	require.NoError(t, err)
	require.Len(t, second.Clients, 1)
	assert.Equal(t, "Alpha", second.Clients[0].Name)
	assert.False(t, second.HasMore)
}
