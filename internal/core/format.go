package core

import "fmt"

// FormatCurrency renders an amount as a dollar string with two decimals.
func FormatCurrency(amount float64) string {
	return fmt.Sprintf("$%.2f", amount)
}

// FormatRecord renders a record as a single pipe-separated display line.
func FormatRecord(r Record) string {
	owner := r.Owner
	if owner == "" {
		owner = "N/A"
	}
	return fmt.Sprintf("ID: %s | Date: %s | Amount: %s | Category: %s | Owner: %s | Description: %s",
		r.ID, r.Date, FormatCurrency(r.Amount), r.Category, owner, r.Description)
}
