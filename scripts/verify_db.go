package main

import (
	"fmt"
	"log"

	"github.com/glebarez/sqlite"
	"github.com/nlook/sparkcoach/internal/session"
	"gorm.io/gorm"
)

func main() {
	// Connect to the database
	db, err := gorm.Open(sqlite.Open("sparkcoach.db"), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	fmt.Println("--- Verifying SparkCoach Database ---")

	// Verify Conversations
	var convCount int64
	// We need to verify if the table exists first to avoid panic if migration didn't run
	if !db.Migrator().HasTable(&session.Conversation{}) {
		fmt.Println("Table 'conversations' does not exist yet.")
	} else {
		db.Model(&session.Conversation{}).Count(&convCount)
		fmt.Printf("Total Conversation Records: %d\n", convCount)

		if convCount > 0 {
			var convs []session.Conversation
			db.Order("updated_at desc").Limit(5).Find(&convs)
			fmt.Println("Latest 5 Conversations (Local Time):")
			for _, c := range convs {
				fmt.Printf("  [%s] %s phase:%s q:%d completeness:%.2f\n",
					c.UpdatedAt.Local().Format("2006-01-02 15:04:05"), c.ThreadID, c.Phase, c.QuestionsAsked, c.Completeness)
			}
		}
	}

	fmt.Println("\n------------------------------------")

	// Verify RunRecords
	var runCount int64
	if !db.Migrator().HasTable(&session.RunRecord{}) {
		fmt.Println("Table 'run_records' does not exist yet.")
	} else {
		db.Model(&session.RunRecord{}).Count(&runCount)
		fmt.Printf("Total Run Records: %d\n", runCount)

		if runCount > 0 {
			var runs []session.RunRecord
			db.Order("started_at desc").Limit(5).Find(&runs)
			fmt.Println("Latest 5 Runs (Local Time):")
			for _, r := range runs {
				errMsg := r.ErrorMessage
				if len(errMsg) > 50 {
					errMsg = errMsg[:47] + "..."
				}
				status := "ok"
				if errMsg != "" {
					status = "error: " + errMsg
				}
				fmt.Printf("  [%s] %s %s -> %s (%s)\n",
					r.StartedAt.Local().Format("2006-01-02 15:04:05"), r.ThreadID, r.PhaseBefore, r.PhaseAfter, status)
			}
		}
	}

	fmt.Println("\nVerification complete.")
}
