package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	documentdomain "github.com/solobill/solobill/internal/document/domain"
	"github.com/solobill/solobill/pkg/db/pagination"
)

// UploadDocument stores a multipart file upload. The optional "kind" form
// field defaults to a plain upload.
func (s *Server) UploadDocument(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	defer file.Close()

	kind := strings.TrimSpace(c.PostForm("kind"))
	if kind == "" {
		kind = string(documentdomain.KindUpload)
	}

	resp, err := s.documentSvc.Upload(c.Request.Context(), documentdomain.UploadDocumentRequest{
		Name:        fileHeader.Filename,
		Kind:        kind,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Content:     file,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListDocuments(c *gin.Context) {
	var query struct {
		pagination.Pagination
		Kind string `form:"kind"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.documentSvc.List(c.Request.Context(), documentdomain.ListDocumentRequest{
		PageToken: query.PageToken,
		PageSize:  int32(query.PageSize),
		Kind:      strings.TrimSpace(query.Kind),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetDocumentByID(c *gin.Context) {
	resp, err := s.documentSvc.GetByID(c.Request.Context(), documentdomain.GetDocumentRequest{
		ID: strings.TrimSpace(c.Param("id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DownloadDocument(c *gin.Context) {
	doc, content, err := s.documentSvc.Open(c.Request.Context(), documentdomain.GetDocumentRequest{
		ID: strings.TrimSpace(c.Param("id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	defer content.Close()

	contentType := doc.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.DataFromReader(http.StatusOK, doc.SizeBytes, contentType, content, map[string]string{
		"Content-Disposition": `attachment; filename="` + doc.Name + `"`,
	})
}

func (s *Server) DeleteDocument(c *gin.Context) {
	err := s.documentSvc.Delete(c.Request.Context(), documentdomain.GetDocumentRequest{
		ID: strings.TrimSpace(c.Param("id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": true}})
}

func isDocumentValidationError(err error) bool {
	switch err {
	case documentdomain.ErrInvalidOrganization,
		documentdomain.ErrInvalidID,
		documentdomain.ErrInvalidName,
		documentdomain.ErrInvalidKind,
		documentdomain.ErrEmptyContent:
		return true
	default:
		return false
	}
}
