package pdf

import (
	"bytes"
	"context"
	"io"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

type ReportLine struct {
	Label  string
	Date   string
	Amount string
}

type ReportTotal struct {
	Currency string
	Invoiced string
	Paid     string
	Expenses string
}

type ReportData struct {
	CompanyName string
	Period      string

	Invoices []ReportLine
	Payments []ReportLine
	Expenses []ReportLine
	Totals   []ReportTotal
}

func (p *MarotoProvider) GenerateMonthlyReport(ctx context.Context, report ReportData) (io.Reader, error) {
	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	m.AddRow(10,
		text.NewCol(12, "Monthly report "+report.Period, props.Text{
			Size:  18,
			Style: fontstyle.Bold,
		}),
	)
	m.AddRow(8,
		text.NewCol(12, report.CompanyName, props.Text{Size: 10}),
	)

	addSection(m, "Invoices issued", report.Invoices)
	addSection(m, "Payments received", report.Payments)
	addSection(m, "Expenses", report.Expenses)

	m.AddRow(10,
		text.NewCol(12, "Totals", props.Text{Style: fontstyle.Bold, Size: 11, Top: 4}),
	)
	m.AddRow(8,
		text.NewCol(3, "Currency", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(3, "Invoiced", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(3, "Paid", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(3, "Expenses", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)
	for _, total := range report.Totals {
		m.AddRow(8,
			text.NewCol(3, total.Currency, props.Text{Size: 9}),
			text.NewCol(3, total.Invoiced, props.Text{Size: 9, Align: align.Right}),
			text.NewCol(3, total.Paid, props.Text{Size: 9, Align: align.Right}),
			text.NewCol(3, total.Expenses, props.Text{Size: 9, Align: align.Right}),
		)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}

	return bytes.NewReader(doc.GetBytes()), nil
}

func addSection(m core.Maroto, title string, lines []ReportLine) {
	m.AddRow(10,
		text.NewCol(12, title, props.Text{Style: fontstyle.Bold, Size: 11, Top: 4}),
	)
	if len(lines) == 0 {
		m.AddRow(8,
			text.NewCol(12, "None for this period.", props.Text{Size: 9}),
		)
		return
	}
	for _, line := range lines {
		m.AddRow(8,
			text.NewCol(6, line.Label, props.Text{Size: 9}),
			text.NewCol(3, line.Date, props.Text{Size: 9}),
			text.NewCol(3, line.Amount, props.Text{Size: 9, Align: align.Right}),
		)
	}
}
