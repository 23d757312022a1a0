package ticket

import (
	"fmt"
	"strings"
)

const defaultNamePrefix = "Customer"

// Autoname derives a ticket name from the customer and the number of tickets it already has,
// e.g. "Acme Corp" with 2 existing tickets becomes "AcmeCorp-Ticket-#03".
func Autoname(customer string, existing int64) string {
	prefix := customer
	if prefix == "" {
		prefix = defaultNamePrefix
	}
	prefix = strings.ReplaceAll(strings.TrimSpace(prefix), " ", "")
	return fmt.Sprintf("%s-Ticket-#%02d", prefix, existing+1)
}
