package service

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/solobill/solobill/internal/clock"
	"github.com/solobill/solobill/internal/document/domain"
	documentrepo "github.com/solobill/solobill/internal/document/repository"
	"github.com/solobill/solobill/internal/orgcontext"
	"github.com/solobill/solobill/internal/providers/blob"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	db    *gorm.DB
	blobs blob.Store
	svc   domain.Service
	orgID snowflake.ID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&domain.Document{}))

	node, err := snowflake.NewNode(7)
	require.NoError(t, err)

	blobs, err := blob.NewFilesystem(t.TempDir())
	require.NoError(t, err)

	svc := New(Params{
		DB:    conn,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: clock.NewFakeClock(time.Date(2025, time.June, 10, 9, 0, 0, 0, time.UTC)),
		Repo:  documentrepo.Provide(),
		Blobs: blobs,
	})

	return &fixture{
		db:    conn,
		blobs: blobs,
		svc:   svc,
		orgID: node.Generate(),
	}
}

func (f *fixture) ctx() context.Context {
	return orgcontext.WithOrgID(context.Background(), f.orgID)
}

func TestUpload_StoresContentAndRow(t *testing.T) {
	f := newFixture(t)

	doc, err := f.svc.Upload(f.ctx(), domain.UploadDocumentRequest{
		Name:        "invoice.pdf",
		Kind:        "invoice_pdf",
		ContentType: "application/pdf",
		Content:     strings.NewReader("%PDF-1.4 content"),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.KindInvoicePDF, doc.Kind)
	assert.Equal(t, int64(len("%PDF-1.4 content")), doc.SizeBytes)

	got, rc, err := f.svc.Open(f.ctx(), domain.GetDocumentRequest{ID: doc.ID.String()})
	require.NoError(t, err)
	defer rc.Close()

	content, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 content", string(content))
	assert.Equal(t, doc.ID, got.ID)
}

func TestUpload_DefaultsToUploadKind(t *testing.T) {
	f := newFixture(t)

	doc, err := f.svc.Upload(f.ctx(), domain.UploadDocumentRequest{
		Name:    "receipt.png",
		Content: strings.NewReader("png bytes"),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.KindUpload, doc.Kind)
	assert.Equal(t, "application/octet-stream", doc.ContentType)
}

func TestUpload_Validation(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Upload(f.ctx(), domain.UploadDocumentRequest{
		Name:    "",
		Content: strings.NewReader("x"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidName)

	_, err = f.svc.Upload(f.ctx(), domain.UploadDocumentRequest{
		Name:    "x.bin",
		Kind:    "spreadsheet",
		Content: strings.NewReader("x"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidKind)

	_, err = f.svc.Upload(f.ctx(), domain.UploadDocumentRequest{Name: "x.bin"})
	assert.ErrorIs(t, err, domain.ErrEmptyContent)
}

func TestUpload_EmptyContentLeavesNothingBehind(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Upload(f.ctx(), domain.UploadDocumentRequest{
		Name:    "empty.bin",
		Content: strings.NewReader(""),
	})
	assert.ErrorIs(t, err, domain.ErrEmptyContent)

	var count int64
	require.NoError(t, f.db.Model(&domain.Document{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestDelete_RemovesRowAndBlob(t *testing.T) {
	f := newFixture(t)

	doc, err := f.svc.Upload(f.ctx(), domain.UploadDocumentRequest{
		Name:    "gone.bin",
		Content: strings.NewReader("bytes"),
	})
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(f.ctx(), domain.GetDocumentRequest{ID: doc.ID.String()}))

	_, err = f.svc.GetByID(f.ctx(), domain.GetDocumentRequest{ID: doc.ID.String()})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.blobs.Get(context.Background(), doc.BlobKey)
	assert.ErrorIs(t, err, blob.ErrNotFound)
}

func TestList_FiltersByKind(t *testing.T) {
	f := newFixture(t)

	for _, spec := range []struct{ name, kind string }{
		{"a.pdf", "invoice_pdf"},
		{"b.pdf", "report"},
		{"c.png", "upload"},
	} {
		_, err := f.svc.Upload(f.ctx(), domain.UploadDocumentRequest{
			Name:    spec.name,
			Kind:    spec.kind,
			Content: strings.NewReader("content"),
		})
		require.NoError(t, err)
	}

	resp, err := f.svc.List(f.ctx(), domain.ListDocumentRequest{Kind: "report"})
	require.NoError(t, err)
	require.Len(t, resp.Documents, 1)
	assert.Equal(t, "b.pdf", resp.Documents[0].Name)
}
