package utils

import (
	"lms/services/billing"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// InitializeOverdueScheduler sets up the daily overdue sweep. The ledger
// already derives overdue at read time; this only persists it so reporting
// queries can filter on the stored status.
func InitializeOverdueScheduler(ledger *billing.Ledger) {
	log.Println("[OVERDUE-SWEEP] Initializing overdue scheduler...")

	c := cron.New()

	// Run daily at 1 AM
	c.AddFunc("0 1 * * *", func() {
		log.Println("[OVERDUE-SWEEP] Running daily overdue sweep...")
		swept, err := ledger.SweepOverdue(time.Now())
		if err != nil {
			log.Printf("[OVERDUE-SWEEP] Error sweeping overdue invoices: %v", err)
			return
		}
		log.Printf("[OVERDUE-SWEEP] Marked %d invoices overdue", swept)
	})

	c.Start()
	log.Println("[OVERDUE-SWEEP] Overdue scheduler started - runs daily at 1 AM")
}
