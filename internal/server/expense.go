package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	expensedomain "github.com/solobill/solobill/internal/expense/domain"
	"github.com/solobill/solobill/pkg/db/pagination"
)

type createExpenseRequest struct {
	VendorID          string `json:"vendor_id"`
	Description       string `json:"description"`
	Amount            int64  `json:"amount"`
	Currency          string `json:"currency"`
	Category          string `json:"category"`
	ExpenseDate       string `json:"expense_date"`
	ReceiptDocumentID string `json:"receipt_document_id"`
}

type updateExpenseRequest struct {
	Description *string `json:"description"`
	Amount      *int64  `json:"amount"`
	Currency    *string `json:"currency"`
	Category    *string `json:"category"`
	ExpenseDate *string `json:"expense_date"`
}

func (s *Server) CreateExpense(c *gin.Context) {
	var req createExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	expenseDate, err := parseRequiredDate(req.ExpenseDate)
	if err != nil {
		AbortWithError(c, newValidationError("expense_date", "invalid_expense_date", "invalid expense_date"))
		return
	}

	resp, err := s.expenseSvc.Create(c.Request.Context(), expensedomain.CreateExpenseRequest{
		VendorID:          strings.TrimSpace(req.VendorID),
		Description:       strings.TrimSpace(req.Description),
		Amount:            req.Amount,
		Currency:          strings.TrimSpace(req.Currency),
		Category:          strings.TrimSpace(req.Category),
		ExpenseDate:       expenseDate,
		ReceiptDocumentID: strings.TrimSpace(req.ReceiptDocumentID),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateExpense(c *gin.Context) {
	var req updateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	update := expensedomain.UpdateExpenseRequest{
		ID:          strings.TrimSpace(c.Param("id")),
		Description: req.Description,
		Amount:      req.Amount,
		Currency:    req.Currency,
		Category:    req.Category,
	}
	if req.ExpenseDate != nil {
		expenseDate, err := parseRequiredDate(*req.ExpenseDate)
		if err != nil {
			AbortWithError(c, newValidationError("expense_date", "invalid_expense_date", "invalid expense_date"))
			return
		}
		update.ExpenseDate = &expenseDate
	}

	resp, err := s.expenseSvc.Update(c.Request.Context(), update)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListExpenses(c *gin.Context) {
	var query struct {
		pagination.Pagination
		VendorID string `form:"vendor_id"`
		Category string `form:"category"`
		DateFrom string `form:"date_from"`
		DateTo   string `form:"date_to"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	dateFrom, err := parseOptionalTime(query.DateFrom, false)
	if err != nil {
		AbortWithError(c, newValidationError("date_from", "invalid_date_from", "invalid date_from"))
		return
	}

	dateTo, err := parseOptionalTime(query.DateTo, true)
	if err != nil {
		AbortWithError(c, newValidationError("date_to", "invalid_date_to", "invalid date_to"))
		return
	}

	resp, err := s.expenseSvc.List(c.Request.Context(), expensedomain.ListExpenseRequest{
		PageToken: query.PageToken,
		PageSize:  int32(query.PageSize),
		VendorID:  strings.TrimSpace(query.VendorID),
		Category:  strings.TrimSpace(query.Category),
		DateFrom:  dateFrom,
		DateTo:    dateTo,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetExpenseByID(c *gin.Context) {
	resp, err := s.expenseSvc.GetByID(c.Request.Context(), expensedomain.GetExpenseRequest{
		ID: strings.TrimSpace(c.Param("id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteExpense(c *gin.Context) {
	err := s.expenseSvc.Delete(c.Request.Context(), expensedomain.GetExpenseRequest{
		ID: strings.TrimSpace(c.Param("id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": true}})
}

func isExpenseValidationError(err error) bool {
	switch err {
	case expensedomain.ErrInvalidOrganization,
		expensedomain.ErrInvalidID,
		expensedomain.ErrInvalidVendor,
		expensedomain.ErrInvalidAmount,
		expensedomain.ErrInvalidDate:
		return true
	default:
		return false
	}
}
