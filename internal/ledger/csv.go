package ledger

import (
	"strconv"
	"strings"

	"github.com/tillpoint/tillpoint-backend/pkg/db/models"
	"github.com/tillpoint/tillpoint-backend/pkg/money"
)

const csvHeader = "Date,Time,ItemName,UnitPrice,Quantity,LineTotal"

// renderCSV produces one header row plus one row per line item. Commas
// inside item names become semicolons so column alignment survives;
// amounts use two fraction digits with a literal decimal point.
func renderCSV(sales []models.Sale) string {
	var b strings.Builder
	b.WriteString(csvHeader)
	b.WriteByte('\n')

	for _, sale := range sales {
		date := sale.RecordedAt.Format(money.DateLayout)
		clock := sale.RecordedAt.Format(money.TimeLayout)
		for _, line := range sale.Lines {
			fields := []string{
				date,
				clock,
				strings.ReplaceAll(line.ItemName, ",", ";"),
				line.UnitPriceCents.StringFixed(),
				strconv.Itoa(line.Quantity),
				line.LineTotal().StringFixed(),
			}
			b.WriteString(strings.Join(fields, ","))
			b.WriteByte('\n')
		}
	}
	return b.String()
}
