package email

import (
	"fmt"
	"html"
	"strings"

	"github.com/example/herbal-backoffice/internal/query"
)

// BuildOrderConfirmationBody builds the HTML body of the order confirmation,
// which carries the invoice for the order.
func BuildOrderConfirmationBody(inv *query.Invoice) string {
	var linesHTML strings.Builder
	for _, line := range inv.Lines {
		name := line.Description
		if name == "" {
			name = line.ProductID
		}
		linesHTML.WriteString(fmt.Sprintf(
			`<tr>
				<td style="padding: 12px; border-bottom: 1px solid #eee;">%s</td>
				<td style="padding: 12px; border-bottom: 1px solid #eee; text-align: center;">%d</td>
				<td style="padding: 12px; border-bottom: 1px solid #eee; text-align: right;">%s</td>
				<td style="padding: 12px; border-bottom: 1px solid #eee; text-align: right;">%s</td>
			</tr>`,
			html.EscapeString(name),
			line.Quantity,
			formatCents(line.Price),
			formatCents(line.Amount),
		))
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
	<div style="background: linear-gradient(135deg, #2f855a 0%%, #68d391 100%%); padding: 30px; border-radius: 10px 10px 0 0;">
		<h1 style="color: white; margin: 0; font-size: 24px;">Thank you for your order</h1>
	</div>

	<div style="background: #fff; padding: 30px; border: 1px solid #eee; border-top: none; border-radius: 0 0 10px 10px;">
		<p style="margin-top: 0;">Dear %s, your order has been received. Your invoice is below.</p>

		<div style="background: #f8f9fa; padding: 15px; border-radius: 5px; margin: 20px 0;">
			<p style="margin: 0; font-size: 14px; color: #666;">Invoice</p>
			<p style="margin: 5px 0 0 0; font-size: 18px; font-weight: bold; font-family: monospace;">%s</p>
			<p style="margin: 5px 0 0 0; font-size: 14px; color: #666;">Date %s, due %s</p>
		</div>

		<h2 style="font-size: 18px; border-bottom: 2px solid #2f855a; padding-bottom: 10px;">Items</h2>

		<table style="width: 100%%; border-collapse: collapse; margin: 20px 0;">
			<thead>
				<tr style="background: #f8f9fa;">
					<th style="padding: 12px; text-align: left; font-weight: 600;">Item</th>
					<th style="padding: 12px; text-align: center; font-weight: 600;">Qty</th>
					<th style="padding: 12px; text-align: right; font-weight: 600;">Price</th>
					<th style="padding: 12px; text-align: right; font-weight: 600;">Amount</th>
				</tr>
			</thead>
			<tbody>
				%s
			</tbody>
		</table>

		<div style="text-align: right; padding: 20px; background: #f8f9fa; border-radius: 5px;">
			<p style="margin: 0;">Subtotal %s</p>
			<p style="margin: 0;">Tax (%d%%) %s</p>
			<span style="font-size: 14px; color: #666;">Total</span>
			<span style="font-size: 24px; font-weight: bold; color: #2f855a; margin-left: 10px;">%s</span>
		</div>

		<hr style="border: none; border-top: 1px solid #eee; margin: 30px 0;">

		<p style="font-size: 12px; color: #999; margin-bottom: 0;">%s</p>
	</div>
</body>
</html>`,
		html.EscapeString(inv.BillTo.Name),
		inv.Number, inv.Date, inv.DueDate,
		linesHTML.String(),
		formatCents(inv.Subtotal),
		inv.TaxRate, formatCents(inv.Tax),
		formatCents(inv.Total),
		html.EscapeString(inv.Note),
	)
}

// formatCents renders an amount in cents as dollars, e.g. $1,245.50
func formatCents(cents int) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s$%s.%02d", sign, formatNumber(cents/100), cents%100)
}

// formatNumber formats a number with comma separators
func formatNumber(n int) string {
	str := fmt.Sprintf("%d", n)
	if len(str) <= 3 {
		return str
	}

	var result strings.Builder
	remainder := len(str) % 3
	if remainder > 0 {
		result.WriteString(str[:remainder])
		if len(str) > remainder {
			result.WriteString(",")
		}
	}

	for i := remainder; i < len(str); i += 3 {
		result.WriteString(str[i : i+3])
		if i+3 < len(str) {
			result.WriteString(",")
		}
	}

	return result.String()
}
