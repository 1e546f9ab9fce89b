package scheduler

import (
	"time"

	"github.com/blues/lps/internal/config"
	"github.com/blues/lps/internal/event"
	"github.com/blues/lps/internal/logger"
	"github.com/go-co-op/gocron/v2"
)

const eventDispatchBatchSize = 100

// EventDispatchJob 事件分发任务，把未处理事件推给各订阅方
type EventDispatchJob struct {
	dispatcher *event.Dispatcher
	config     *config.Config
}

// NewEventDispatchJob 创建事件分发任务
func NewEventDispatchJob(dispatcher *event.Dispatcher, cfg *config.Config) *EventDispatchJob {
	return &EventDispatchJob{dispatcher: dispatcher, config: cfg}
}

// GetName 获取任务名称
func (j *EventDispatchJob) GetName() string {
	return "event_dispatch"
}

// GetSchedule 获取调度配置
func (j *EventDispatchJob) GetSchedule() gocron.JobDefinition {
	return gocron.DurationJob(time.Duration(j.config.Scheduler.Interval) * time.Second)
}

// Execute 执行任务
func (j *EventDispatchJob) Execute() {
	dispatched, err := j.dispatcher.DispatchPending(eventDispatchBatchSize)
	if err != nil {
		logger.Error("Failed to dispatch pending events: %v", err)
		return
	}
	if dispatched > 0 {
		logger.Info("Event dispatch task completed. Dispatched %d events", dispatched)
	}
}
