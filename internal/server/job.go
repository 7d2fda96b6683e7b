package server

import (
	"context"
	"time"

	"certlab/internal/service"
	"certlab/pkg/log"

	"github.com/go-co-op/gocron"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// JobServer runs the background lease reaper. It sweeps instances whose
// lease deadline has passed and terminates them through the normal
// transition path, so quota slots and accrued hours stay consistent.
type JobServer struct {
	log             *log.Logger
	scheduler       *gocron.Scheduler
	instanceService service.LabInstanceService
	interval        time.Duration
	batchSize       int
}

func NewJobServer(
	log *log.Logger,
	conf *viper.Viper,
	instanceService service.LabInstanceService,
) *JobServer {
	interval := conf.GetDuration("labs.reaper_interval")
	if interval <= 0 {
		interval = time.Minute
	}
	batchSize := conf.GetInt("labs.reaper_batch_size")
	if batchSize <= 0 {
		batchSize = 100
	}
	return &JobServer{
		log:             log,
		scheduler:       gocron.NewScheduler(time.UTC),
		instanceService: instanceService,
		interval:        interval,
		batchSize:       batchSize,
	}
}

func (j *JobServer) Start(ctx context.Context) error {
	j.log.Info("starting job server", zap.Duration("reaper_interval", j.interval))
	_, err := j.scheduler.Every(j.interval).Do(func() {
		reaped, err := j.instanceService.TerminateExpired(ctx, j.batchSize)
		if err != nil {
			j.log.Error("lease reaper sweep failed", zap.Error(err))
			return
		}
		if reaped > 0 {
			j.log.Info("lease reaper terminated expired instances", zap.Int("count", reaped))
		}
	})
	if err != nil {
		return err
	}
	j.scheduler.StartBlocking()
	return nil
}

func (j *JobServer) Stop(ctx context.Context) error {
	j.log.Info("stopping job server")
	j.scheduler.Stop()
	return nil
}
