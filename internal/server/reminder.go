package server

import (
	"net/http"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/solobill/solobill/internal/clock"
	reminderdomain "github.com/solobill/solobill/internal/reminder/domain"
)

type reminderView struct {
	reminderdomain.Reminder
	// DaysUntilTrigger is negative once the trigger date has passed.
	DaysUntilTrigger int `json:"days_until_trigger"`
}

func (s *Server) ListInvoiceReminders(c *gin.Context) {
	invoiceID, err := parseSnowflakeParam(c, "id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.reminderSvc.ListByInvoice(c.Request.Context(), invoiceID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"reminders": resp}})
}

// ListReminders is the read-only inspection surface: every ledger row for
// the org, upcoming ones included, with the distance to its trigger date.
// `due=true` narrows the listing to the dispatcher's current work queue.
func (s *Server) ListReminders(c *gin.Context) {
	var query struct {
		Limit int  `form:"limit"`
		Due   bool `form:"due"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	var (
		reminders []*reminderdomain.Reminder
		err       error
	)
	if query.Due {
		reminders, err = s.reminderSvc.ListDue(c.Request.Context(), query.Limit)
	} else {
		reminders, err = s.reminderSvc.ListAll(c.Request.Context(), query.Limit)
	}
	if err != nil {
		AbortWithError(c, err)
		return
	}

	today := clock.Today(s.clock)
	views := make([]reminderView, 0, len(reminders))
	for _, reminder := range reminders {
		views = append(views, reminderView{
			Reminder:         *reminder,
			DaysUntilTrigger: int(clock.Midnight(reminder.TriggerDate).Sub(today).Hours() / 24),
		})
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"reminders": views}})
}

// DispatchReminders runs one dispatcher pass on demand, outside the
// scheduler tick.
func (s *Server) DispatchReminders(c *gin.Context) {
	summary, err := s.dispatcher.ProcessDue(c.Request.Context(), s.cfg.Scheduler.BatchSize)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": summary})
}

func parseSnowflakeParam(c *gin.Context, name string) (snowflake.ID, error) {
	raw := strings.TrimSpace(c.Param(name))
	id, err := snowflake.ParseString(raw)
	if err != nil || id == 0 {
		return 0, newValidationError(name, "invalid_id", "invalid "+name)
	}
	return id, nil
}

func isReminderValidationError(err error) bool {
	switch err {
	case reminderdomain.ErrInvalidOrganization,
		reminderdomain.ErrInvalidID:
		return true
	default:
		return false
	}
}
