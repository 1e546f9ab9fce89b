package scheduler

import (
	"github.com/blues/lps/internal/chain"
	"github.com/blues/lps/internal/config"
	"github.com/blues/lps/internal/event"
	"github.com/blues/lps/internal/logger"
	"github.com/go-co-op/gocron/v2"
	"gorm.io/gorm"
)

// Job 调度任务接口
type Job interface {
	GetName() string
	GetSchedule() gocron.JobDefinition
	Execute()
}

// Manager 任务管理器
type Manager struct {
	scheduler  gocron.Scheduler
	db         *gorm.DB
	collab     *chain.Collaborators
	dispatcher *event.Dispatcher
	config     *config.Config
}

// NewManager 创建新的任务管理器
func NewManager(db *gorm.DB, collab *chain.Collaborators, dispatcher *event.Dispatcher, cfg *config.Config) *Manager {
	s, err := gocron.NewScheduler()
	if err != nil {
		logger.Fatal("Failed to create scheduler: %v", err)
	}

	return &Manager{
		scheduler:  s,
		db:         db,
		collab:     collab,
		dispatcher: dispatcher,
		config:     cfg,
	}
}

// Start 启动任务管理器
func Start(db *gorm.DB, collab *chain.Collaborators, dispatcher *event.Dispatcher, cfg *config.Config) *Manager {
	manager := NewManager(db, collab, dispatcher, cfg)

	// 注册所有任务
	manager.RegisterJobs()

	// 启动调度器
	manager.scheduler.Start()

	logger.Info("Task manager started successfully")
	return manager
}

// RegisterJobs 注册所有任务
func (m *Manager) RegisterJobs() {
	m.register(NewCampaignStatusJob(m.db, m.config))
	m.register(NewSettlementRetryJob(m.db, m.collab, m.config))
	m.register(NewEventDispatchJob(m.dispatcher, m.config))
}

func (m *Manager) register(job Job) {
	_, err := m.scheduler.NewJob(
		job.GetSchedule(),
		gocron.NewTask(job.Execute),
		gocron.WithName(job.GetName()),
	)
	if err != nil {
		logger.Error("Failed to register job %s: %v", job.GetName(), err)
		return
	}
	logger.Info("Registered job: %s", job.GetName())
}

// Stop 停止调度器
func (m *Manager) Stop() {
	if err := m.scheduler.Shutdown(); err != nil {
		logger.Error("Failed to shutdown scheduler: %v", err)
	}
}
