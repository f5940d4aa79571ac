package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	invoicedomain "github.com/solobill/solobill/internal/invoice/domain"
	"github.com/solobill/solobill/pkg/db/pagination"
)

type createInvoiceRequest struct {
	ClientID       string   `json:"client_id"`
	Number         string   `json:"number"`
	Amount         int64    `json:"amount"`
	Currency       string   `json:"currency"`
	IssueDate      string   `json:"issue_date"`
	DueDate        string   `json:"due_date"`
	ReminderPolicy []string `json:"reminder_policy"`
	Status         string   `json:"status"`
}

type updateInvoiceRequest struct {
	Amount         *int64    `json:"amount"`
	Currency       *string   `json:"currency"`
	DueDate        *string   `json:"due_date"`
	ReminderPolicy *[]string `json:"reminder_policy"`
	Status         *string   `json:"status"`
}

type updateInvoiceStatusRequest struct {
	Status string `json:"status"`
}

type sendInvoiceEmailRequest struct {
	Type string `json:"type"`
}

func (s *Server) CreateInvoice(c *gin.Context) {
	var req createInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	dueDate, err := parseRequiredDate(req.DueDate)
	if err != nil {
		AbortWithError(c, newValidationError("due_date", "invalid_due_date", "invalid due_date"))
		return
	}

	issueDate, err := parseOptionalTime(req.IssueDate, false)
	if err != nil {
		AbortWithError(c, newValidationError("issue_date", "invalid_issue_date", "invalid issue_date"))
		return
	}

	resp, err := s.invoiceSvc.Create(c.Request.Context(), invoicedomain.CreateInvoiceRequest{
		ClientID:       strings.TrimSpace(req.ClientID),
		Number:         strings.TrimSpace(req.Number),
		Amount:         req.Amount,
		Currency:       strings.TrimSpace(req.Currency),
		IssueDate:      issueDate,
		DueDate:        dueDate,
		ReminderPolicy: req.ReminderPolicy,
		Status:         strings.TrimSpace(req.Status),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateInvoice(c *gin.Context) {
	var req updateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	update := invoicedomain.UpdateInvoiceRequest{
		ID:             strings.TrimSpace(c.Param("id")),
		Amount:         req.Amount,
		Currency:       req.Currency,
		ReminderPolicy: req.ReminderPolicy,
		Status:         req.Status,
	}
	if req.DueDate != nil {
		dueDate, err := parseRequiredDate(*req.DueDate)
		if err != nil {
			AbortWithError(c, newValidationError("due_date", "invalid_due_date", "invalid due_date"))
			return
		}
		update.DueDate = &dueDate
	}

	resp, err := s.invoiceSvc.Update(c.Request.Context(), update)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateInvoiceStatus(c *gin.Context) {
	var req updateInvoiceStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.invoiceSvc.UpdateStatus(c.Request.Context(), invoicedomain.UpdateStatusRequest{
		ID:     strings.TrimSpace(c.Param("id")),
		Status: strings.TrimSpace(req.Status),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListInvoices(c *gin.Context) {
	var query struct {
		pagination.Pagination
		Status   string `form:"status"`
		ClientID string `form:"client_id"`
		DueFrom  string `form:"due_from"`
		DueTo    string `form:"due_to"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	dueFrom, err := parseOptionalTime(query.DueFrom, false)
	if err != nil {
		AbortWithError(c, newValidationError("due_from", "invalid_due_from", "invalid due_from"))
		return
	}

	dueTo, err := parseOptionalTime(query.DueTo, true)
	if err != nil {
		AbortWithError(c, newValidationError("due_to", "invalid_due_to", "invalid due_to"))
		return
	}

	resp, err := s.invoiceSvc.List(c.Request.Context(), invoicedomain.ListInvoiceRequest{
		PageToken: query.PageToken,
		PageSize:  int32(query.PageSize),
		Status:    strings.TrimSpace(query.Status),
		ClientID:  strings.TrimSpace(query.ClientID),
		DueFrom:   dueFrom,
		DueTo:     dueTo,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetInvoiceByID(c *gin.Context) {
	resp, err := s.invoiceSvc.GetByID(c.Request.Context(), invoicedomain.GetInvoiceRequest{
		ID: strings.TrimSpace(c.Param("id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteInvoice(c *gin.Context) {
	err := s.invoiceSvc.Delete(c.Request.Context(), invoicedomain.GetInvoiceRequest{
		ID: strings.TrimSpace(c.Param("id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": true}})
}

// SendInvoiceEmail triggers a one-off email for the invoice. Sends through
// this endpoint always count as manual.
func (s *Server) SendInvoiceEmail(c *gin.Context) {
	var req sendInvoiceEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	err := s.invoiceSvc.SendEmail(c.Request.Context(), invoicedomain.SendEmailRequest{
		ID:        strings.TrimSpace(c.Param("id")),
		EmailType: strings.TrimSpace(req.Type),
		Origin:    invoicedomain.SendOriginManual,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"sent": true}})
}

func isInvoiceValidationError(err error) bool {
	switch err {
	case invoicedomain.ErrInvalidOrganization,
		invoicedomain.ErrInvalidID,
		invoicedomain.ErrInvalidClient,
		invoicedomain.ErrInvalidNumber,
		invoicedomain.ErrInvalidDueDate,
		invoicedomain.ErrInvalidStatus,
		invoicedomain.ErrInvalidEmailType,
		invoicedomain.ErrClientNoEmail:
		return true
	default:
		return false
	}
}
