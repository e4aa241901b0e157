package services

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// CronService runs the scheduled maintenance jobs: marking overdue loans
// as defaulted (00:10 daily) and pruning expired refresh tokens.
type CronService struct {
	cron        *cron.Cron
	loanService *LoanService
	cleaner     ExpiredTokenCleaner
}

// ExpiredTokenCleaner prunes refresh tokens past their expiry.
type ExpiredTokenCleaner interface {
	DeleteExpired(ctx context.Context) error
}

// NewCronService creates a new cron service
func NewCronService(loanService *LoanService, cleaner ExpiredTokenCleaner) *CronService {
	return &CronService{
		cron:        cron.New(),
		loanService: loanService,
		cleaner:     cleaner,
	}
}

// Start registers the jobs and starts the scheduler
func (s *CronService) Start() {
	if _, err := s.cron.AddFunc("10 0 * * *", s.runDefaultOverdue); err != nil {
		log.Printf("❌ Failed to schedule overdue loan job: %v", err)
	}
	if _, err := s.cron.AddFunc("30 3 * * *", s.runTokenCleanup); err != nil {
		log.Printf("❌ Failed to schedule token cleanup job: %v", err)
	}

	s.cron.Start()
	log.Println("✅ Cron service started (overdue check 00:10, token cleanup 03:30)")
}

// Stop stops the scheduler and waits for running jobs
func (s *CronService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("🛑 Cron service stopped")
}

func (s *CronService) runDefaultOverdue() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	count, err := s.loanService.DefaultOverdue(ctx, time.Now())
	if err != nil {
		log.Printf("❌ Overdue loan job failed: %v", err)
		return
	}
	if count > 0 {
		log.Printf("⚠️ Overdue loan job: %d loan(s) defaulted", count)
	}
}

func (s *CronService) runTokenCleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := s.cleaner.DeleteExpired(ctx); err != nil {
		log.Printf("❌ Token cleanup job failed: %v", err)
	}
}
