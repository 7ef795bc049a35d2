package worker

import (
	"context"
	"sync/atomic"

	"github.com/fox-one/pkg/logger"
	"github.com/robfig/cron/v3"
)

// IJob cron job
type IJob interface {
	Start() error
	Run()
	Stop() error
}

// OnWork one round of a job
type OnWork func() error

// BaseJob cron driven job, a round is skipped while the previous one still runs
type BaseJob struct {
	Name   string
	Cron   *cron.Cron
	OnWork OnWork

	running int32
}

// Start start cron
func (job *BaseJob) Start() error {
	job.Cron.Start()
	return nil
}

// Stop stop cron, waits for the running round
func (job *BaseJob) Stop() error {
	<-job.Cron.Stop().Done()
	return nil
}

// Run run one round
func (job *BaseJob) Run() {
	if !atomic.CompareAndSwapInt32(&job.running, 0, 1) {
		return
	}
	defer atomic.StoreInt32(&job.running, 0)

	if err := job.OnWork(); err != nil {
		logger.FromContext(context.Background()).WithField("worker", job.Name).WithError(err).Errorln("round failed")
	}
}
