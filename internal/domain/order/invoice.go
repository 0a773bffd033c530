package order

import "time"

const (
	TaxRatePercent  = 8
	PaymentTermDays = 30
	InvoiceNote     = "Thank you for your business! Payment is due within 30 days."
)

// Tax returns the sales tax on subtotal, rounded half up to the cent
func Tax(subtotal int) int {
	return (subtotal*TaxRatePercent + 50) / 100
}

// DueDate returns date plus the payment term, or "" when date is unparsable
func DueDate(date string) string {
	d, err := time.Parse(DateLayout, date)
	if err != nil {
		return ""
	}
	return d.AddDate(0, 0, PaymentTermDays).Format(DateLayout)
}
