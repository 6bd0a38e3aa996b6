package cron

import (
	"context"
	"log"
	"time"

	"duet/config"
	invitationRepo "duet/database/repository/invitation"

	"github.com/hibiken/asynq"
)

const TypeInvitationExpire = "invitation:expire"

// sweepInterval is how often pending invitations are checked for expiry.
// Acceptance also checks expiry inline, so the sweep only keeps the
// collection tidy and the sweep cadence is not correctness-critical.
const sweepInterval = time.Hour

// InitExpiryWorker starts the background worker and scheduler that mark
// overdue pending invitations as expired.
func InitExpiryWorker(invitations invitationRepo.InvitationRepository) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisTaskDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 1,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeInvitationExpire, handleExpireTask(invitations))

	go func() {
		log.Println("[InvitationSweep] Starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[InvitationSweep] Attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[InvitationSweep] Max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()

	go runScheduler(redisOpts)
}

func handleExpireTask(invitations invitationRepo.InvitationRepository) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		expired, err := invitations.ExpirePending()
		if err != nil {
			log.Printf("[InvitationSweep] Sweep failed: %v", err)
			return err
		}
		if expired > 0 {
			log.Printf("[InvitationSweep] Marked %d invitations as expired", expired)
		}
		return nil
	}
}

// runScheduler enqueues the expiry task on a fixed interval.
func runScheduler(redisOpts asynq.RedisClientOpt) {
	scheduler := asynq.NewScheduler(redisOpts, nil)

	task := asynq.NewTask(TypeInvitationExpire, nil)
	if _, err := scheduler.Register("@every "+sweepInterval.String(), task); err != nil {
		log.Printf("[InvitationSweep] Failed to register schedule: %v", err)
		return
	}

	if err := scheduler.Run(); err != nil {
		log.Printf("[InvitationSweep] Scheduler stopped: %v", err)
	}
}
