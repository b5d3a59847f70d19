package main

import (
	"database/sql"
	"fmt"
	"log"

	"github.com/lib/pq"
)

func ensureSchema(db *sql.DB) error {
	// Check if stage schema exists
	var exists bool
	err := db.QueryRow(`
		SELECT EXISTS (
			SELECT 1 FROM information_schema.schemata
			WHERE schema_name = 'stage'
		)
	`).Scan(&exists)

	if err != nil {
		return fmt.Errorf("failed to check schema existence: %w", err)
	}

	if !exists {
		log.Println("Warning: stage schema does not exist. It should be created by database migrations.")
	}

	return nil
}

// createRunRecord inserts the initial run row. Best-effort: the pipeline is
// authoritative in memory and a missing database only disables bookkeeping.
func (w *Worker) createRunRecord(run *Run) {
	if w.db == nil {
		return
	}

	snap := run.snapshot()
	_, err := w.db.Exec(`
		INSERT INTO stage.review_runs (
			run_id, task_id, file_name, mode, state, status_message,
			progress, started_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
	`, snap.ID, snap.TaskID, snap.FileName, string(snap.Mode), string(snap.State), snap.Status, snap.Progress)

	if err != nil {
		log.Printf("Failed to create run record: %v", err)
		w.metrics.databaseErrors.WithLabelValues("create_run").Inc()
	}
}

// updateRunRecord mirrors the run's current state onto its database row.
func (w *Worker) updateRunRecord(run *Run) {
	if w.db == nil {
		return
	}

	snap := run.snapshot()
	_, err := w.db.Exec(`
		UPDATE stage.review_runs
		SET state = $1,
			status_message = $2,
			progress = $3,
			error_message = $4,
			row_count = $5,
			unique_count = $6,
			chunk_count = $7,
			updated_at = NOW()
		WHERE run_id = $8
	`, string(snap.State), snap.Status, snap.Progress, snap.Error,
		snap.Rows, snap.Unique, snap.Chunks, snap.ID)

	if err != nil {
		log.Printf("Failed to update run record: %v", err)
		w.metrics.databaseErrors.WithLabelValues("update_run").Inc()
	}
}

// storeExpandedResults bulk inserts the final per-row output of a successful
// run. This is a re-export convenience, not recovery: failed runs store
// nothing.
func (w *Worker) storeExpandedResults(run *Run, expanded []ExpandedResult) error {
	if w.db == nil || len(expanded) == 0 {
		return nil
	}

	tx, err := w.db.Begin()
	if err != nil {
		w.metrics.databaseErrors.WithLabelValues("begin_transaction").Inc()
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(pq.CopyInSchema("stage", "review_results",
		"run_id", "row_index", "canonical_id", "corrected_story",
		"corrected_sub_story", "story_analysis", "sub_story_analysis",
	))
	if err != nil {
		w.metrics.databaseErrors.WithLabelValues("prepare_insert").Inc()
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, e := range expanded {
		_, err = stmt.Exec(
			run.ID,
			e.RowID,
			e.ID,
			e.Story,
			e.SubStory,
			e.StoryAnalysis,
			e.SubStoryAnalysis,
		)
		if err != nil {
			log.Printf("Failed to insert result row: %v", err)
			w.metrics.databaseErrors.WithLabelValues("insert_result").Inc()
		}
	}

	// Flush the bulk insert
	if _, err = stmt.Exec(); err != nil {
		w.metrics.databaseErrors.WithLabelValues("exec_bulk_insert").Inc()
		return fmt.Errorf("failed to execute bulk insert: %w", err)
	}

	if err = tx.Commit(); err != nil {
		w.metrics.databaseErrors.WithLabelValues("commit_transaction").Inc()
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.Printf("Stored %d expanded results for run %d", len(expanded), run.ID)
	return nil
}

// storeWebhookEvent keeps an audit trail of received webhooks.
func (w *Worker) storeWebhookEvent(action string, payload []byte, taskID int64) error {
	if w.db == nil {
		return nil
	}

	_, err := w.db.Exec(`
		INSERT INTO stage.event_log (
			event_type, event_action, task_id, payload, created_at
		) VALUES ($1, $2, $3, $4, NOW())
	`, "webhook", action, taskID, payload)

	if err != nil {
		w.metrics.databaseErrors.WithLabelValues("store_webhook").Inc()
	}
	return err
}
