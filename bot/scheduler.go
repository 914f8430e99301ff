package bot

import (
	"log"
	"time"

	"mediabot/database"

	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
)

var c *cron.Cron

// startScheduler starts the cron jobs.
func startScheduler(store *database.Store) {
	log.Println("Initializing scheduler...")
	c = cron.New()
	_, err := c.AddFunc("@daily", func() {
		maxAgeDays := viper.GetInt("bot.configMaxAgeDays")
		cutoff := time.Now().AddDate(0, 0, -maxAgeDays)
		if _, err := store.DeleteStaleHalfBound(cutoff); err != nil {
			log.Printf("Stale config cleanup failed: %v", err)
		}
	})
	if err != nil {
		log.Fatalf("Could not set up cron job: %v", err)
	}
	c.Start()
	log.Println("Cron job scheduled to clean up stale configs daily.")
}

// stopScheduler stops the cron jobs.
func stopScheduler() {
	if c != nil {
		c.Stop()
		log.Println("Scheduler stopped.")
	}
}
